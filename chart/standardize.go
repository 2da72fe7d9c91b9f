// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"math"

	"github.com/wikimedia/wikicharts/frame"
)

// stdCutoff excludes panels whose y range is less than 1/stdCutoff of
// the standard range from standardization.
const stdCutoff = 15

// YTicks returns the major y ticks of panel i.
func (c *Chart) YTicks(i int) []float64 {
	return c.panels[i].yticks()
}

// YLimits returns the y limits of panel i.
func (c *Chart) YLimits(i int) (lo, hi float64) {
	return c.panels[i].ylim()
}

func tickRange(ts []float64) float64 {
	if len(ts) == 0 {
		return 0
	}
	return ts[len(ts)-1] - ts[0]
}

// YTickRange returns the distance between the lowest and highest y
// tick of the current panel.
func (c *Chart) YTickRange() float64 {
	return tickRange(c.panel().yticks())
}

// MaxYRange records the tick range and tick count of every panel and
// returns the largest range seen so far, with its tick count. Ranges
// are measured between the outer ticks, not the axis limits.
func (c *Chart) MaxYRange() (yrange float64, numTicks int) {
	for _, p := range c.panels {
		ts := p.yticks()
		c.yranges = append(c.yranges, tickRange(ts))
		c.ynumticks = append(c.ynumticks, len(ts))
	}
	best := 0
	for i, r := range c.yranges {
		if r > c.yranges[best] {
			best = i
		}
	}
	return c.yranges[best], c.ynumticks[best]
}

// MaxYRangeOf returns the largest MaxYRange of charts, so that several
// figures can share one y scale.
func MaxYRangeOf(charts ...*Chart) (yrange float64, numTicks int) {
	for _, c := range charts {
		if r, n := c.MaxYRange(); r > yrange {
			yrange, numTicks = r, n
		}
	}
	return
}

// standardize gives p a y window of exactly yrange with numTicks
// evenly spaced ticks, centered on p's current window and snapped to
// the tick interval. The window never starts below zero.
func standardize(p *panel, yrange float64, numTicks int) {
	interval := yrange / float64(numTicks-1)
	lo, hi := p.ylim()
	cur := hi - lo
	if cur <= yrange/stdCutoff {
		return
	}
	median := lo + cur/2
	snapped := frame.ClosestDivisible(median, interval)
	var newLo float64
	if numTicks%2 == 0 {
		half := float64(numTicks / 2)
		if snapped < median {
			newLo = snapped - interval*(half-1)
		} else {
			newLo = snapped - interval*half
		}
	} else {
		newLo = snapped - yrange/2
	}
	newLo = math.Max(0, newLo)
	p.setYLim(newLo, newLo+yrange)
	p.step = interval
}

func checkTicks(yrange float64, numTicks int) error {
	if numTicks < 2 || !(yrange > 0) {
		return fmt.Errorf("chart: cannot standardize to range %v with %d ticks", yrange, numTicks)
	}
	return nil
}

// StandardizeYRange standardizes the current panel's y window to
// yrange and numTicks, typically from MaxYRangeOf.
func (c *Chart) StandardizeYRange(yrange float64, numTicks int) error {
	if err := checkTicks(yrange, numTicks); err != nil {
		return err
	}
	standardize(c.panel(), yrange, numTicks)
	return nil
}

// StandardizeSubplotYRange standardizes the first numCharts panels so
// equal values have equal heights in every panel.
func (c *Chart) StandardizeSubplotYRange(yrange float64, numTicks, numCharts int) error {
	if err := checkTicks(yrange, numTicks); err != nil {
		return err
	}
	for i, p := range c.panels {
		if i >= numCharts {
			break
		}
		standardize(p, yrange, numTicks)
	}
	return nil
}

// StandardizeSubplotYAxis sets the y limits of the first numCharts
// panels to [lo, hi].
func (c *Chart) StandardizeSubplotYAxis(lo, hi float64, numCharts int) {
	for i, p := range c.panels {
		if i >= numCharts {
			break
		}
		p.setYLim(lo, hi)
	}
}
