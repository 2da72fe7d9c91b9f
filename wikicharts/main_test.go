// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/wikimedia/wikicharts/frame"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// monthly returns a frame of n months from start with the given
// columns, each computed from the row index.
func monthly(t *testing.T, start time.Time, n int, cols map[string]func(i int) float64) *frame.Frame {
	t.Helper()
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.AddDate(0, i, 0)
	}
	f := frame.New("month", times)
	for name, fn := range cols {
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = fn(i)
		}
		var err error
		if f, err = f.With(name, xs); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func TestFileName(t *testing.T) {
	for _, test := range []struct{ title, want string }{
		{"Active Editors", "Active_Editors.png"},
		{"  Unique   Devices ", "Unique_Devices.png"},
		{"Pageviews", "Pageviews.png"},
	} {
		if got := fileName(test.title); got != test.want {
			t.Errorf("fileName(%q) = %q; want %q", test.title, got, test.want)
		}
	}
}

func TestWindowApply(t *testing.T) {
	f := monthly(t, month(2022, time.January), 24, map[string]func(int) float64{
		"x": func(i int) float64 { return float64(i) },
	})
	for _, test := range []struct {
		start, end string
		rows       int
		first      time.Time
		wantErr    bool
	}{
		{"", "", 24, month(2022, time.January), false},
		{"2023-01-01", "", 12, month(2023, time.January), false},
		{"2022-06", "2022-08", 3, month(2022, time.June), false},
		{"2030-01", "", 0, time.Time{}, true},
		{"junk", "", 0, time.Time{}, true},
	} {
		w := window{test.start, test.end}
		got, start, _, err := w.apply(f)
		if test.wantErr {
			if err == nil {
				t.Errorf("window{%q, %q}: got nil error", test.start, test.end)
			}
			continue
		}
		if err != nil {
			t.Errorf("window{%q, %q}: %v", test.start, test.end, err)
			continue
		}
		if got.Len() != test.rows || !start.Equal(test.first) {
			t.Errorf("window{%q, %q}: %d rows from %v; want %d from %v",
				test.start, test.end, got.Len(), start, test.rows, test.first)
		}
	}
}

// contentFrame returns cumulative content gap totals in which every
// gender category grows by its step per month and every region grows
// by one.
func contentFrame(t *testing.T, n int) *frame.Frame {
	cols := map[string]func(int) float64{}
	steps := map[string]float64{"gender_diverse": 1, "males": 6, "females": 3}
	for cat, step := range steps {
		cols[totalPrefix+cat] = func(i int) float64 { return 100 + step*float64(i) }
	}
	for _, r := range regionCategories {
		cols[totalPrefix+r] = func(i int) float64 { return 50 + float64(i) }
	}
	return monthly(t, month(2023, time.January), n, cols)
}

func TestNetNew(t *testing.T) {
	nn, err := netNew(contentFrame(t, 4))
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		col  string
		want float64
	}{
		{netNewPrefix + "males", 6},
		{colGenderMinorities, 4},
		{colAllGenders, 10},
		{colUnderrepRegions, 5},
		{colAllRegions, 9},
	} {
		xs, err := nn.Column(test.col)
		if err != nil {
			t.Errorf("%s: %v", test.col, err)
			continue
		}
		if !math.IsNaN(xs[0]) {
			t.Errorf("%s[0] = %v; want NaN", test.col, xs[0])
		}
		for i := 1; i < len(xs); i++ {
			if xs[i] != test.want {
				t.Errorf("%s[%d] = %v; want %v", test.col, i, xs[i], test.want)
			}
		}
	}

	f := contentFrame(t, 4).Drop(totalPrefix + "males")
	if _, err := netNew(f); err == nil {
		t.Errorf("netNew without males: got nil error")
	}
}

func TestContentReport(t *testing.T) {
	f := contentFrame(t, 14)
	var buf bytes.Buffer
	if err := contentReport(&buf, f, month(2024, time.February), time.June); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Net new quality articles, February 2024",
		"Naive forecast for March 2024",
		colGenderPerc,
		"Quarterly averages",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	if err := contentReport(&buf, f, month(2022, time.February), time.June); err == nil {
		t.Errorf("report for a month without data a year earlier: got nil error")
	}
}
