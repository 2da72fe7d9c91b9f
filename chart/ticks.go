// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"math"
	"time"

	"github.com/aclements/go-moremath/scale"
	"gonum.org/v1/plot"
)

// maxTicks bounds the number of major y ticks chosen automatically.
const maxTicks = 8

var tickMantissas = [3]float64{1, 2, 5}

// tickStep returns the tick interval at level l. Levels step through
// 1, 2, 5, 10, 20, 50, ... with level 0 at 1.
func tickStep(l int) float64 {
	exp := l / 3
	m := l % 3
	if m < 0 {
		m += 3
		exp--
	}
	return tickMantissas[m] * math.Pow(10, float64(exp))
}

const tickEps = 1e-9

// tickBounds returns the first and last multiples of step within
// [lo, hi].
func tickBounds(lo, hi, step float64) (first, last int) {
	first = int(math.Ceil(lo/step - tickEps))
	last = int(math.Floor(hi/step + tickEps))
	return
}

// stepTicker is a scale.Ticker over [lo, hi] at the tickStep levels.
type stepTicker struct {
	lo, hi float64
}

func (t stepTicker) CountTicks(level int) int {
	first, last := tickBounds(t.lo, t.hi, tickStep(level))
	return last - first + 1
}

func (t stepTicker) TicksAtLevel(level int) interface{} {
	return stepTicks(t.lo, t.hi, tickStep(level))
}

// niceStep chooses the smallest 1-2-5 interval that puts at most
// maxTicks ticks in [lo, hi].
func niceStep(lo, hi float64) float64 {
	guess := 0
	if r := hi - lo; r > 0 {
		guess = 3 * int(math.Floor(math.Log10(r)))
	}
	o := scale.TickOptions{Max: maxTicks}
	l, ok := o.FindLevel(stepTicker{lo, hi}, guess)
	if !ok {
		return hi - lo
	}
	return tickStep(l)
}

// stepTicks returns the multiples of step within [lo, hi].
func stepTicks(lo, hi, step float64) []float64 {
	first, last := tickBounds(lo, hi, step)
	var ts []float64
	for k := first; k <= last; k++ {
		ts = append(ts, float64(k)*step)
	}
	return ts
}

// niceTicks returns the automatic major ticks within [lo, hi].
func niceTicks(lo, hi float64) []float64 {
	return stepTicks(lo, hi, niceStep(lo, hi))
}

// floorTick returns the largest automatic tick at or below lo for the
// range [lo, hi].
func floorTick(lo, hi float64) float64 {
	step := niceStep(lo, hi)
	return math.Floor(lo/step+tickEps) * step
}

// labeled turns tick values into gonum ticks labeled by format.
func labeled(ts []float64, format func(float64) string) plot.ConstantTicks {
	out := make(plot.ConstantTicks, len(ts))
	for i, v := range ts {
		out[i] = plot.Tick{Value: v, Label: format(v)}
	}
	return out
}

// dayX converts a time to the x coordinate used by every chart: days
// since the Unix epoch.
func dayX(t time.Time) float64 {
	return float64(t.Unix()) / 86400
}

// yearTicks returns a tick at each January 1 in [start, end], labeled
// with the year.
func yearTicks(start, end time.Time) plot.ConstantTicks {
	var ts plot.ConstantTicks
	y := start.Year()
	if start.After(time.Date(y, time.January, 1, 0, 0, 0, 0, start.Location())) {
		y++
	}
	for ; ; y++ {
		t := time.Date(y, time.January, 1, 0, 0, 0, 0, start.Location())
		if t.After(end) {
			break
		}
		ts = append(ts, plot.Tick{Value: dayX(t), Label: t.Format("2006")})
	}
	return ts
}

// monthTicks returns a tick at each of times labeled with the
// abbreviated month name.
func monthTicks(times []time.Time) plot.ConstantTicks {
	ts := make(plot.ConstantTicks, len(times))
	for i, t := range times {
		ts[i] = plot.Tick{Value: dayX(t), Label: t.Format("Jan")}
	}
	return ts
}
