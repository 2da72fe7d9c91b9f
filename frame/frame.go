// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame implements monthly time series tables.
//
// A Frame is a go-gg table with one time column and any number of
// float64 metric columns. Frames are immutable: every operation
// returns a new Frame.
package frame

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/aclements/go-gg/table"
)

// ErrNoColumn is returned when a named column does not exist.
var ErrNoColumn = errors.New("no such column")

// DefaultTimeCol is the name of the time column in metric files.
const DefaultTimeCol = "month"

// A Frame is a table of metrics indexed by month.
type Frame struct {
	t       *table.Table
	timeCol string
}

// New returns a Frame with only a time column.
func New(timeCol string, times []time.Time) *Frame {
	if timeCol == "" {
		timeCol = DefaultTimeCol
	}
	ts := append([]time.Time(nil), times...)
	return &Frame{table.NewBuilder(nil).Add(timeCol, ts).Done(), timeCol}
}

// Table returns the underlying table.
func (f *Frame) Table() *table.Table {
	return f.t
}

// TimeCol returns the name of the time column.
func (f *Frame) TimeCol() string {
	return f.timeCol
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.t.Len()
}

// Times returns the time column.
func (f *Frame) Times() []time.Time {
	return f.t.MustColumn(f.timeCol).([]time.Time)
}

// Columns returns the metric column names in order.
func (f *Frame) Columns() []string {
	var cols []string
	for _, c := range f.t.Columns() {
		if c != f.timeCol {
			cols = append(cols, c)
		}
	}
	return cols
}

// Has reports whether f has metric column col.
func (f *Frame) Has(col string) bool {
	return col != f.timeCol && f.t.Column(col) != nil
}

// Column returns the values of metric column col.
func (f *Frame) Column(col string) ([]float64, error) {
	if !f.Has(col) {
		return nil, fmt.Errorf("column %q: %w", col, ErrNoColumn)
	}
	return f.t.MustColumn(col).([]float64), nil
}

// MustColumn is like Column but panics if col does not exist.
func (f *Frame) MustColumn(col string) []float64 {
	xs, err := f.Column(col)
	if err != nil {
		panic(err)
	}
	return xs
}

// Value returns row i of column col. Negative i counts from the end.
func (f *Frame) Value(i int, col string) (float64, error) {
	xs, err := f.Column(col)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i += len(xs)
	}
	if i < 0 || i >= len(xs) {
		return 0, fmt.Errorf("column %q: row %d out of range [0,%d)", col, i, len(xs))
	}
	return xs[i], nil
}

// Last returns the final value of column col.
func (f *Frame) Last(col string) (float64, error) {
	return f.Value(-1, col)
}

// LastTime returns the time of the final row.
func (f *Frame) LastTime() (time.Time, error) {
	ts := f.Times()
	if len(ts) == 0 {
		return time.Time{}, errors.New("empty frame")
	}
	return ts[len(ts)-1], nil
}

// With returns f with column col set to values, replacing any
// existing column of that name.
func (f *Frame) With(col string, values []float64) (*Frame, error) {
	if col == f.timeCol {
		return nil, fmt.Errorf("cannot replace time column %q", col)
	}
	if len(values) != f.Len() {
		return nil, fmt.Errorf("column %q has %d rows; frame has %d", col, len(values), f.Len())
	}
	b := table.NewBuilder(nil).Add(f.timeCol, f.Times())
	replaced := false
	for _, c := range f.Columns() {
		if c == col {
			b.Add(c, append([]float64(nil), values...))
			replaced = true
			continue
		}
		b.Add(c, f.MustColumn(c))
	}
	if !replaced {
		b.Add(col, append([]float64(nil), values...))
	}
	return &Frame{b.Done(), f.timeCol}, nil
}

// Select returns a Frame with the time column and cols, in the order
// given.
func (f *Frame) Select(cols ...string) (*Frame, error) {
	b := table.NewBuilder(nil).Add(f.timeCol, f.Times())
	for _, c := range cols {
		xs, err := f.Column(c)
		if err != nil {
			return nil, err
		}
		b.Add(c, xs)
	}
	return &Frame{b.Done(), f.timeCol}, nil
}

// Drop returns f without cols. Unknown columns are ignored.
func (f *Frame) Drop(cols ...string) *Frame {
	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}
	var keep []string
	for _, c := range f.Columns() {
		if !drop[c] {
			keep = append(keep, c)
		}
	}
	nf, _ := f.Select(keep...)
	return nf
}

// Rename returns f with metric columns renamed according to names.
// Columns not in names keep their name.
func (f *Frame) Rename(names map[string]string) *Frame {
	b := table.NewBuilder(nil).Add(f.timeCol, f.Times())
	for _, c := range f.Columns() {
		n, ok := names[c]
		if !ok {
			n = c
		}
		b.Add(n, f.MustColumn(c))
	}
	return &Frame{b.Done(), f.timeCol}
}

// rows returns a Frame containing rows idx of f, in that order.
func (f *Frame) rows(idx []int) *Frame {
	ts := f.Times()
	nts := make([]time.Time, len(idx))
	for i, j := range idx {
		nts[i] = ts[j]
	}
	b := table.NewBuilder(nil).Add(f.timeCol, nts)
	for _, c := range f.Columns() {
		xs := f.MustColumn(c)
		nxs := make([]float64, len(idx))
		for i, j := range idx {
			nxs[i] = xs[j]
		}
		b.Add(c, nxs)
	}
	return &Frame{b.Done(), f.timeCol}
}

// Filter returns the rows of f for which keep returns true.
func (f *Frame) Filter(keep func(i int, t time.Time) bool) *Frame {
	var idx []int
	for i, t := range f.Times() {
		if keep(i, t) {
			idx = append(idx, i)
		}
	}
	return f.rows(idx)
}

// Window returns the rows of f whose time is in [start, end].
func (f *Frame) Window(start, end time.Time) *Frame {
	return f.Filter(func(_ int, t time.Time) bool {
		return !t.Before(start) && !t.After(end)
	})
}

// SortDedup returns f sorted by time with duplicate times removed.
// Of several rows with the same time, the last one wins.
func (f *Frame) SortDedup() *Frame {
	ts := f.Times()
	idx := make([]int, len(ts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return ts[idx[i]].Before(ts[idx[j]])
	})
	var keep []int
	for i, j := range idx {
		if i+1 < len(idx) && ts[idx[i+1]].Equal(ts[j]) {
			continue
		}
		keep = append(keep, j)
	}
	return f.rows(keep)
}

// DropNaN returns the rows of f where col is not NaN.
func (f *Frame) DropNaN(col string) (*Frame, error) {
	xs, err := f.Column(col)
	if err != nil {
		return nil, err
	}
	return f.Filter(func(i int, _ time.Time) bool {
		return !math.IsNaN(xs[i])
	}), nil
}

// MonthRows returns the rows whose calendar month is m.
func (f *Frame) MonthRows(m time.Month) *Frame {
	return f.Filter(func(_ int, t time.Time) bool {
		return t.Month() == m
	})
}

// Reorder returns f with its metric columns ordered by less, which
// compares column names.
func (f *Frame) Reorder(less func(a, b string) bool) *Frame {
	cols := f.Columns()
	sort.SliceStable(cols, func(i, j int) bool {
		return less(cols[i], cols[j])
	})
	nf, _ := f.Select(cols...)
	return nf
}

// OrderByLast orders metric columns by their final value, largest
// first.
func (f *Frame) OrderByLast() *Frame {
	last := map[string]float64{}
	for _, c := range f.Columns() {
		xs := f.MustColumn(c)
		if len(xs) > 0 {
			last[c] = xs[len(xs)-1]
		}
	}
	return f.Reorder(func(a, b string) bool { return last[a] > last[b] })
}

// OrderBySum orders metric columns by their sum, largest first. NaNs
// are skipped.
func (f *Frame) OrderBySum() *Frame {
	sum := map[string]float64{}
	for _, c := range f.Columns() {
		for _, x := range f.MustColumn(c) {
			if !math.IsNaN(x) {
				sum[c] += x
			}
		}
	}
	return f.Reorder(func(a, b string) bool { return sum[a] > sum[b] })
}

// Fprint writes f as a text table.
func (f *Frame) Fprint(w io.Writer) {
	table.Fprint(w, f.t)
}
