// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics computes derived statistics over monthly metric
// frames: year-over-year change, calendar-offset change, naive
// forecasts, month-over-month deltas and quarterly means.
package metrics

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/aclements/go-moremath/stats"
	"github.com/samber/lo"

	"github.com/wikimedia/wikicharts/frame"
)

// ErrShortSeries is returned when a series has too few rows for the
// requested statistic.
var ErrShortSeries = errors.New("series too short")

// YoYRows is the number of rows YoY needs: the latest row and the row
// twelve months before it.
const YoYRows = 13

// YoY returns the percent change from xs[len-13] to xs[len-1]. The
// lookup is positional and assumes one row per month with no gaps.
// ok is false if the change is undefined, such as when the earlier
// value is zero.
func YoY(xs []float64) (pct float64, ok bool, err error) {
	if len(xs) < YoYRows {
		return 0, false, fmt.Errorf("year-over-year needs %d rows, have %d: %w", YoYRows, len(xs), ErrShortSeries)
	}
	cur, prev := xs[len(xs)-1], xs[len(xs)-YoYRows]
	pct = (cur - prev) / prev * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0, false, nil
	}
	return pct, true, nil
}

// ColumnYoY is YoY of column col of f.
func ColumnYoY(f *frame.Frame, col string) (float64, bool, error) {
	xs, err := f.Column(col)
	if err != nil {
		return 0, false, err
	}
	pct, ok, err := YoY(xs)
	if err != nil {
		return 0, false, fmt.Errorf("column %q: %w", col, err)
	}
	return pct, ok, nil
}

// SubtractYear returns the same calendar date one year before t.
// February 29 maps to February 28.
func SubtractYear(t time.Time) time.Time {
	y, m, d := t.Date()
	if m == time.February && d == 29 {
		d = 28
	}
	return time.Date(y-1, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// An Offset is a calendar-aware duration.
type Offset struct {
	Years, Months, Days int
}

// Before returns t moved back by o. Whole-year offsets clamp February
// 29 like SubtractYear; other offsets normalize like time.AddDate.
func (o Offset) Before(t time.Time) time.Time {
	if o.Months == 0 && o.Days == 0 {
		for i := 0; i < o.Years; i++ {
			t = SubtractYear(t)
		}
		return t
	}
	return t.AddDate(-o.Years, -o.Months, -o.Days)
}

func (o Offset) String() string {
	return fmt.Sprintf("%dy%dm%dd", o.Years, o.Months, o.Days)
}

// ChangeOverTime returns, for each series in obs, the fractional
// change (cur-prev)/prev between the latest month in obs and the month
// off before it. Series with no value at either month are omitted. A
// zero previous value yields NaN.
func ChangeOverTime(obs []frame.Observation, off Offset) (map[string]float64, error) {
	if len(obs) == 0 {
		return nil, fmt.Errorf("change over %v: no observations", off)
	}
	latest := lo.MaxBy(obs, func(a, b frame.Observation) bool {
		return a.Month.After(b.Month)
	}).Month
	prior := off.Before(latest)

	cur := map[string]float64{}
	prev := map[string]float64{}
	for _, o := range obs {
		switch {
		case o.Month.Equal(latest):
			cur[o.Series] = o.Value
		case o.Month.Equal(prior):
			prev[o.Series] = o.Value
		}
	}
	if len(prev) == 0 {
		return nil, fmt.Errorf("change over %v: no observations for %s", off, prior.Format("2006-01"))
	}
	change := make(map[string]float64, len(cur))
	for s, c := range cur {
		p, ok := prev[s]
		if !ok {
			continue
		}
		if p == 0 {
			change[s] = math.NaN()
			continue
		}
		change[s] = (c - p) / p
	}
	return change, nil
}

// MonthOverMonth returns the difference between the last two rows of
// each column in cols.
func MonthOverMonth(f *frame.Frame, cols ...string) (map[string]float64, error) {
	if f.Len() < 2 {
		return nil, fmt.Errorf("month over month needs 2 rows, have %d: %w", f.Len(), ErrShortSeries)
	}
	mom := make(map[string]float64, len(cols))
	for _, c := range cols {
		xs, err := f.Column(c)
		if err != nil {
			return nil, err
		}
		mom[c] = xs[len(xs)-1] - xs[len(xs)-2]
	}
	return mom, nil
}

// Share returns the sum of values over part divided by the sum over
// all. Missing keys count as zero.
func Share(values map[string]float64, part, all []string) float64 {
	sum := func(keys []string) float64 {
		return lo.SumBy(keys, func(k string) float64 { return values[k] })
	}
	return sum(part) / sum(all)
}

// Ratio returns f with a new column name holding num/den row by row.
func Ratio(f *frame.Frame, name, num, den string) (*frame.Frame, error) {
	n, err := f.Column(num)
	if err != nil {
		return nil, err
	}
	d, err := f.Column(den)
	if err != nil {
		return nil, err
	}
	r := make([]float64, len(n))
	for i := range r {
		r[i] = n[i] / d[i]
	}
	return f.With(name, r)
}

// A RatioSpec names a ratio of two columns: the part (Minority) over
// the whole (Total).
type RatioSpec struct {
	Name     string
	Minority string
	Total    string
}

// A RatioForecast is the current and forecast value of one ratio.
type RatioForecast struct {
	Name     string
	Current  float64
	Forecast float64
}

// A Forecast is the result of NaiveForecast.
type Forecast struct {
	Period time.Time

	// Values maps each column to its forecast for the month after
	// Period.
	Values map[string]float64

	Ratios []RatioForecast
}

// NaiveForecast forecasts every column of f one month past period by
// applying last year's growth over the same month:
//
//	v[period] * (1 + (v[yearAgo+1] - v[yearAgo]) / v[yearAgo])
//
// A zero v[yearAgo] means zero growth. It then evaluates each ratio in
// specs at period and under the forecast.
func NaiveForecast(f *frame.Frame, period time.Time, specs []RatioSpec) (*Forecast, error) {
	yearAgo := SubtractYear(period)
	yearAgoNext := yearAgo.AddDate(0, 1, 0)
	rows := map[time.Time]int{}
	for i, t := range f.Times() {
		rows[t] = i
	}
	row := func(t time.Time) (int, error) {
		i, ok := rows[t]
		if !ok {
			return 0, fmt.Errorf("forecast: no row for %s", t.Format("2006-01"))
		}
		return i, nil
	}
	iCur, err := row(period)
	if err != nil {
		return nil, err
	}
	iAgo, err := row(yearAgo)
	if err != nil {
		return nil, err
	}
	iAgoNext, err := row(yearAgoNext)
	if err != nil {
		return nil, err
	}

	fc := &Forecast{Period: period, Values: map[string]float64{}}
	for _, c := range f.Columns() {
		xs := f.MustColumn(c)
		growth := 0.0
		if xs[iAgo] != 0 {
			growth = (xs[iAgoNext] - xs[iAgo]) / xs[iAgo]
		}
		fc.Values[c] = xs[iCur] * (1 + growth)
	}
	for _, s := range specs {
		minor, err := f.Value(iCur, s.Minority)
		if err != nil {
			return nil, fmt.Errorf("ratio %q: %w", s.Name, err)
		}
		total, err := f.Value(iCur, s.Total)
		if err != nil {
			return nil, fmt.Errorf("ratio %q: %w", s.Name, err)
		}
		fc.Ratios = append(fc.Ratios, RatioForecast{
			Name:     s.Name,
			Current:  minor / total,
			Forecast: fc.Values[s.Minority] / fc.Values[s.Total],
		})
	}
	return fc, nil
}

// IncompleteQuarterWarning is logged by Quarterly when the final
// quarter is missing months.
const IncompleteQuarterWarning = "This quarterly report is based on incomplete data as some months' data is not available."

// QuarterEnd returns the first day of the last month of the quarter
// containing t, where quarters are aligned so that one ends with
// fiscalEnd.
func QuarterEnd(t time.Time, fiscalEnd time.Month) time.Time {
	ahead := ((int(fiscalEnd)-int(t.Month()))%3 + 3) % 3
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, ahead, 0)
}

// Quarterly returns the mean of each column of f per quarter, indexed
// by the quarter's last month. NaNs are skipped. If the final quarter
// does not have a value for each of its three months in every column,
// Quarterly logs IncompleteQuarterWarning and returns incomplete=true.
func Quarterly(f *frame.Frame, fiscalEnd time.Month) (q *frame.Frame, incomplete bool, err error) {
	if f.Len() == 0 {
		return nil, false, fmt.Errorf("quarterly: %w", ErrShortSeries)
	}
	var ends []time.Time
	group := map[time.Time][]int{}
	for i, t := range f.Times() {
		e := QuarterEnd(t, fiscalEnd)
		if _, ok := group[e]; !ok {
			ends = append(ends, e)
		}
		group[e] = append(group[e], i)
	}
	last := ends[len(ends)-1]

	q = frame.New(f.TimeCol(), ends)
	for _, c := range f.Columns() {
		xs := f.MustColumn(c)
		means := make([]float64, len(ends))
		for j, e := range ends {
			var vals []float64
			for _, i := range group[e] {
				if !math.IsNaN(xs[i]) {
					vals = append(vals, xs[i])
				}
			}
			if e.Equal(last) && len(vals) < 3 {
				incomplete = true
			}
			if len(vals) == 0 {
				means[j] = math.NaN()
				continue
			}
			means[j] = stats.Mean(vals)
		}
		if q, err = q.With(c, means); err != nil {
			return nil, false, err
		}
	}
	if incomplete {
		log.Print(IncompleteQuarterWarning)
	}
	return q, incomplete, nil
}
