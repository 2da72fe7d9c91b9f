// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/samber/lo"
)

// DefaultChunk is the number of columns per chunk used by Split when
// the caller passes 0.
const DefaultChunk = 4

// Split splits the metric columns of f into frames of at most n
// columns each, preserving column order. Every chunk keeps the time
// column.
func Split(f *Frame, n int) []*Frame {
	if n <= 0 {
		n = DefaultChunk
	}
	return lo.Map(lo.Chunk(f.Columns(), n), func(cols []string, _ int) *Frame {
		chunk, _ := f.Select(cols...)
		return chunk
	})
}

// A KeyEntry gives the display label and color of one series.
type KeyEntry struct {
	Column string
	Label  string
	Color  color.Color
}

// A Key is the legend of the series plotted together, in plot order.
type Key []KeyEntry

// Lookup returns the entry for col.
func (k Key) Lookup(col string) (KeyEntry, bool) {
	return lo.Find(k, func(e KeyEntry) bool { return e.Column == col })
}

// MustLookup is like Lookup but returns an error wrapping ErrNoColumn
// if col has no entry.
func (k Key) MustLookup(col string) (KeyEntry, error) {
	e, ok := k.Lookup(col)
	if !ok {
		return KeyEntry{}, fmt.Errorf("key entry for %q: %w", col, ErrNoColumn)
	}
	return e, nil
}

// Columns returns the keyed columns in order.
func (k Key) Columns() []string {
	return lo.Map(k, func(e KeyEntry, _ int) string { return e.Column })
}

// GenKeys builds one Key per chunk, labeling each column with its own
// name. Colors cycle through palette by the column's position across
// all chunks, so no two neighboring series share a color even when
// they land in different chunks.
func GenKeys(chunks []*Frame, palette []color.Color) []Key {
	keys := make([]Key, 0, len(chunks))
	c := 0
	for _, chunk := range chunks {
		var key Key
		for _, col := range chunk.Columns() {
			key = append(key, KeyEntry{col, col, palette[c%len(palette)]})
			c++
		}
		keys = append(keys, key)
	}
	return keys
}

// Roll returns the trailing n-month mean of every metric column of f.
// Rows whose window is incomplete, or whose window contains a NaN in
// any column, are dropped.
func Roll(f *Frame, n int) *Frame {
	if n < 1 {
		n = 1
	}
	cols := f.Columns()
	means := make(map[string][]float64, len(cols))
	for _, c := range cols {
		xs := f.MustColumn(c)
		ms := make([]float64, len(xs))
		for i := range xs {
			if i+1 < n {
				ms[i] = math.NaN()
				continue
			}
			// stats.Mean propagates NaNs in the window.
			ms[i] = stats.Mean(xs[i+1-n : i+1])
		}
		means[c] = ms
	}
	b := table.NewBuilder(nil).Add(f.timeCol, f.Times())
	for _, c := range cols {
		b.Add(c, means[c])
	}
	rolled := &Frame{b.Done(), f.timeCol}
	return rolled.Filter(func(i int, _ time.Time) bool {
		for _, c := range cols {
			if math.IsNaN(means[c][i]) {
				return false
			}
		}
		return true
	})
}

// An Observation is one cell of a wide frame in long form.
type Observation struct {
	Month  time.Time
	Series string
	Value  float64
}

// Long unpivots the metric columns of f into observations, ordered by
// row and then by column.
func Long(f *Frame) []Observation {
	cols := f.Columns()
	if len(cols) == 0 {
		return nil
	}
	u := table.Unpivot(f.t, "series", "value", cols...).Table(table.RootGroupID)
	if u == nil {
		return nil
	}
	months := u.MustColumn(f.timeCol).([]time.Time)
	series := u.MustColumn("series").([]string)
	values := u.MustColumn("value").([]float64)
	obs := make([]Observation, len(months))
	for i := range obs {
		obs[i] = Observation{months[i], series[i], values[i]}
	}
	return obs
}

// ClosestDivisible returns the multiple of m closest to n. Of the two
// candidate multiples around n, the one nearer to zero wins only if it
// is strictly closer.
func ClosestDivisible(n, m float64) float64 {
	if m == 0 {
		return n
	}
	q := math.Trunc(n / m)
	n1 := m * q
	var n2 float64
	if n*m > 0 {
		n2 = m * (q + 1)
	} else {
		n2 = m * (q - 1)
	}
	if math.Abs(n-n1) < math.Abs(n-n2) {
		return n1
	}
	return n2
}

// RoundToNearest rounds x to the nearest multiple of base using
// ClosestDivisible.
func RoundToNearest(x, base float64) float64 {
	return ClosestDivisible(x, base)
}
