// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aclements/go-gg/table"
)

// ReadOptions controls Read.
type ReadOptions struct {
	// Comma is the field delimiter. If 0, ReadFile infers it from
	// the file extension and Read uses ','.
	Comma rune

	// TimeCol names the time column. If "", it is "month".
	TimeCol string

	// Rename renames columns as they are read. The time column is
	// matched after renaming.
	Rename map[string]string

	// Columns, if non-nil, restricts the metric columns to those
	// listed (after renaming).
	Columns []string
}

var timeLayouts = []string{
	"2006-01-02",
	"2006-01",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.0",
}

// ParseTime parses a month or date in any of the layouts found in
// metric files.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("malformed date %q", s)
}

// ParseValue parses a metric cell. Empty cells and "NaN"/"NA" are
// NaN. Thousands separators are ignored.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "na", "null", "none":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

// ReadFile reads a delimited metric file. Files ending in .tsv are
// tab-separated unless o.Comma is set.
func ReadFile(path string, o ReadOptions) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if o.Comma == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
		o.Comma = '\t'
	}
	fr, err := Read(f, o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fr, nil
}

// Read reads a delimited metric table with a header row.
func Read(r io.Reader, o ReadOptions) (*Frame, error) {
	cr := csv.NewReader(r)
	if o.Comma != 0 {
		cr.Comma = o.Comma
	}
	cr.FieldsPerRecord = -1
	if cr.Comma == '\t' {
		cr.LazyQuotes = true
	}
	timeCol := o.TimeCol
	if timeCol == "" {
		timeCol = DefaultTimeCol
	}

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if n, ok := o.Rename[h]; ok {
			h = n
		}
		header[i] = h
	}
	timeIdx := -1
	for i, h := range header {
		if h == timeCol {
			timeIdx = i
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("time column %q: %w", timeCol, ErrNoColumn)
	}

	var want map[string]bool
	if o.Columns != nil {
		want = make(map[string]bool)
		for _, c := range o.Columns {
			want[c] = true
		}
	}
	var metricIdx []int
	for i, h := range header {
		if i != timeIdx && (want == nil || want[h]) {
			metricIdx = append(metricIdx, i)
		}
	}
	for _, c := range o.Columns {
		found := false
		for _, i := range metricIdx {
			found = found || header[i] == c
		}
		if !found {
			return nil, fmt.Errorf("column %q: %w", c, ErrNoColumn)
		}
	}

	times := []time.Time{}
	values := make([][]float64, len(metricIdx))
	for j := range values {
		values[j] = []float64{}
	}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) <= timeIdx {
			return nil, fmt.Errorf("line %d: missing time column", line)
		}
		t, err := ParseTime(rec[timeIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		times = append(times, t)
		for j, i := range metricIdx {
			v := math.NaN()
			if i < len(rec) {
				v, err = ParseValue(rec[i])
				if err != nil {
					return nil, fmt.Errorf("line %d, column %q: %w", line, header[i], err)
				}
			}
			values[j] = append(values[j], v)
		}
	}

	b := table.NewBuilder(nil).Add(timeCol, times)
	for j, i := range metricIdx {
		b.Add(header[i], values[j])
	}
	return &Frame{b.Done(), timeCol}, nil
}
