// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"bytes"
	"errors"
	"log"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/wikimedia/wikicharts/frame"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func series(start time.Time, cols map[string][]float64, n int) *frame.Frame {
	ts := make([]time.Time, n)
	for i := range ts {
		ts[i] = start.AddDate(0, i, 0)
	}
	f := frame.New("month", ts)
	for _, name := range []string{"a", "b", "c"} {
		if xs, ok := cols[name]; ok {
			f, _ = f.With(name, xs)
		}
	}
	return f
}

func TestYoY(t *testing.T) {
	xs := make([]float64, 13)
	for i := range xs {
		xs[i] = 100 + float64(i)
	}
	pct, ok, err := YoY(xs)
	if err != nil || !ok {
		t.Fatalf("YoY = %v, %v, %v", pct, ok, err)
	}
	if want := (112.0 - 100) / 100 * 100; pct != want {
		t.Errorf("YoY = %v; want %v", pct, want)
	}

	xs[0] = 0
	if _, ok, err := YoY(xs); ok || err != nil {
		t.Errorf("YoY with zero base: ok=%v err=%v; want not ok", ok, err)
	}
	xs[0] = math.NaN()
	if _, ok, _ := YoY(xs); ok {
		t.Errorf("YoY with NaN base: ok; want not ok")
	}
	if _, _, err := YoY(xs[1:]); !errors.Is(err, ErrShortSeries) {
		t.Errorf("YoY of 12 rows: err=%v; want ErrShortSeries", err)
	}
}

func TestSubtractYear(t *testing.T) {
	for _, test := range []struct{ in, want time.Time }{
		{time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC)},
	} {
		if got := SubtractYear(test.in); !got.Equal(test.want) {
			t.Errorf("SubtractYear(%v) = %v; want %v", test.in, got, test.want)
		}
	}
}

func TestChangeOverTime(t *testing.T) {
	obs := []frame.Observation{
		{Month: month(2022, 6), Series: "South Asia", Value: 100},
		{Month: month(2022, 6), Series: "North America", Value: 0},
		{Month: month(2023, 5), Series: "South Asia", Value: 999},
		{Month: month(2023, 6), Series: "South Asia", Value: 125},
		{Month: month(2023, 6), Series: "North America", Value: 10},
		{Month: month(2023, 6), Series: "Sub-Saharan Africa", Value: 10},
	}
	ch, err := ChangeOverTime(obs, Offset{Years: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := ch["South Asia"]; got != 0.25 {
		t.Errorf("South Asia change = %v; want 0.25", got)
	}
	if got := ch["North America"]; !math.IsNaN(got) {
		t.Errorf("North America change = %v; want NaN", got)
	}
	if _, ok := ch["Sub-Saharan Africa"]; ok {
		t.Errorf("Sub-Saharan Africa has no prior value but got a change")
	}

	ch, err = ChangeOverTime(obs, Offset{Months: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := ch["South Asia"], (125.0-999)/999; got != want {
		t.Errorf("month change = %v; want %v", got, want)
	}

	if _, err := ChangeOverTime(obs, Offset{Years: 3}); err == nil {
		t.Errorf("ChangeOverTime with no prior month succeeded")
	}
}

func TestMonthOverMonth(t *testing.T) {
	f := series(month(2023, 1), map[string][]float64{"a": {1, 4, 9}, "b": {5, 5, 2}}, 3)
	mom, err := MonthOverMonth(f, "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	if mom["a"] != 5 || mom["b"] != -3 {
		t.Errorf("MonthOverMonth = %v", mom)
	}
	if _, err := MonthOverMonth(f, "z"); !errors.Is(err, frame.ErrNoColumn) {
		t.Errorf("missing column err = %v", err)
	}
	if got := Share(mom, []string{"a"}, []string{"a", "b"}); got != 2.5 {
		t.Errorf("Share = %v; want 2.5", got)
	}
}

func TestNaiveForecast(t *testing.T) {
	n := 14
	a := make([]float64, n)
	b := make([]float64, n)
	for i := range a {
		a[i] = 10
		b[i] = 100
	}
	// Grew 10% from June to July last year.
	a[0], a[1] = 10, 11
	b[0], b[1] = 0, 50
	f := series(month(2022, 6), map[string][]float64{"a": a, "b": b}, n)
	fc, err := NaiveForecast(f, month(2023, 6), []RatioSpec{{"a of b", "a", "b"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := fc.Values["a"]; math.Abs(got-11) > 1e-9 {
		t.Errorf("forecast a = %v; want 11", got)
	}
	if got := fc.Values["b"]; got != 100 {
		t.Errorf("forecast b = %v; want 100 (zero base means no growth)", got)
	}
	if len(fc.Ratios) != 1 {
		t.Fatalf("got %d ratios; want 1", len(fc.Ratios))
	}
	r := fc.Ratios[0]
	if r.Current != 0.1 || math.Abs(r.Forecast-0.11) > 1e-9 {
		t.Errorf("ratio = %+v; want current 0.1, forecast 0.11", r)
	}

	if _, err := NaiveForecast(f, month(2021, 1), nil); err == nil {
		t.Errorf("forecast for missing period succeeded")
	}
}

func TestQuarterEnd(t *testing.T) {
	for _, test := range []struct {
		m    time.Month
		want time.Month
	}{
		{time.January, time.March},
		{time.June, time.June},
		{time.July, time.September},
		{time.November, time.December},
	} {
		got := QuarterEnd(month(2023, test.m), time.June)
		if got.Month() != test.want {
			t.Errorf("QuarterEnd(%v) = %v; want %v", test.m, got.Month(), test.want)
		}
	}
}

func TestQuarterly(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	f := series(month(2023, 1), map[string][]float64{"a": {1, 2, 3, 4, 5, 6, 7}}, 7)
	q, incomplete, err := Quarterly(f, time.June)
	if err != nil {
		t.Fatal(err)
	}
	if !incomplete {
		t.Errorf("July alone should make the last quarter incomplete")
	}
	if !strings.Contains(buf.String(), IncompleteQuarterWarning) {
		t.Errorf("warning not logged; log = %q", buf.String())
	}
	want := []float64{2, 5, 7}
	got := q.MustColumn("a")
	if len(got) != len(want) {
		t.Fatalf("quarters = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("quarter %d mean = %v; want %v", i, got[i], want[i])
		}
	}

	buf.Reset()
	_, incomplete, err = Quarterly(f.Window(month(2023, 1), month(2023, 6)), time.June)
	if err != nil || incomplete {
		t.Errorf("complete quarters: incomplete=%v err=%v", incomplete, err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output %q", buf.String())
	}
}
