// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/wikimedia/wikicharts/frame"
	"github.com/wikimedia/wikicharts/internal/raster"
	"github.com/wikimedia/wikicharts/style"
)

var fixedNow = func() time.Time { return time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC) }

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// testFrame returns n months starting January 2022 with the given
// columns, each produced by gen(row).
func testFrame(t *testing.T, n int, cols map[string]func(i int) float64) *frame.Frame {
	t.Helper()
	ts := make([]time.Time, n)
	for i := range ts {
		ts[i] = month(2022, time.January).AddDate(0, i, 0)
	}
	f := frame.New("month", ts)
	for name, gen := range cols {
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = gen(i)
		}
		var err error
		if f, err = f.With(name, xs); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func testChart(t *testing.T, f *frame.Frame, o Options) *Chart {
	t.Helper()
	if o.Now == nil {
		o.Now = fixedNow
	}
	if o.DPI == 0 {
		o.DPI = 40
	}
	ts := f.Times()
	c, err := New(ts[0], ts[len(ts)-1], f, o)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTickStep(t *testing.T) {
	for _, test := range []struct {
		level int
		want  float64
	}{
		{0, 1}, {1, 2}, {2, 5}, {3, 10}, {5, 50},
		{-1, 0.5}, {-2, 0.2}, {-3, 0.1},
	} {
		if got := tickStep(test.level); !near(got, test.want) {
			t.Errorf("tickStep(%d) = %v; want %v", test.level, got, test.want)
		}
	}
}

func TestNiceTicks(t *testing.T) {
	for _, test := range []struct {
		lo, hi float64
		want   []float64
	}{
		{0, 100, []float64{0, 20, 40, 60, 80, 100}},
		{13, 87, []float64{20, 30, 40, 50, 60, 70, 80}},
		{0, 10, []float64{0, 2, 4, 6, 8, 10}},
	} {
		got := niceTicks(test.lo, test.hi)
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("niceTicks(%v, %v) = %v; want %v", test.lo, test.hi, got, test.want)
		}
		if len(got) > maxTicks {
			t.Errorf("niceTicks(%v, %v) has %d ticks; want at most %d", test.lo, test.hi, len(got), maxTicks)
		}
	}
	if got := floorTick(13, 87); got != 10 {
		t.Errorf("floorTick(13, 87) = %v; want 10", got)
	}
}

func TestYearTicks(t *testing.T) {
	labels := func(start, end time.Time) []string {
		var ls []string
		for _, tk := range yearTicks(start, end) {
			ls = append(ls, tk.Label)
		}
		return ls
	}
	if got, want := labels(month(2022, time.January), month(2023, time.December)), []string{"2022", "2023"}; !reflect.DeepEqual(got, want) {
		t.Errorf("yearTicks(2022-01, 2023-12) = %v; want %v", got, want)
	}
	if got, want := labels(month(2022, time.March), month(2024, time.February)), []string{"2023", "2024"}; !reflect.DeepEqual(got, want) {
		t.Errorf("yearTicks(2022-03, 2024-02) = %v; want %v", got, want)
	}
}

func TestSegments(t *testing.T) {
	nan := math.NaN()
	segs := segments([]float64{1, 2, 3, 4, 5, 6}, []float64{1, nan, 3, 4, nan, 6})
	var lens []int
	for _, s := range segs {
		lens = append(lens, len(s))
	}
	if want := []int{1, 2, 1}; !reflect.DeepEqual(lens, want) {
		t.Errorf("segment lengths = %v; want %v", lens, want)
	}
}

func TestStandardizeSubplotYRange(t *testing.T) {
	f := testFrame(t, 13, map[string]func(int) float64{"a": func(i int) float64 { return float64(i) }})
	c := testChart(t, f, Options{})
	c.Init(12, 8, 2, 2)
	limits := [][2]float64{{0, 100}, {50, 80}, {1000, 1060}, {5, 45}}
	for i, l := range limits {
		c.panels[i].setYLim(l[0], l[1])
	}
	yrange, n := c.MaxYRange()
	if yrange != 100 || n != 6 {
		t.Fatalf("MaxYRange = %v, %d; want 100, 6", yrange, n)
	}
	if err := c.StandardizeSubplotYRange(yrange, n, 4); err != nil {
		t.Fatal(err)
	}
	want := [][2]float64{{0, 100}, {20, 120}, {980, 1080}, {0, 100}}
	for i := range limits {
		lo, hi := c.YLimits(i)
		if !near(lo, want[i][0]) || !near(hi, want[i][1]) {
			t.Errorf("panel %d limits = [%v, %v]; want %v", i, lo, hi, want[i])
		}
		ts := c.YTicks(i)
		if len(ts) != n {
			t.Errorf("panel %d has %d ticks; want %d", i, len(ts), n)
			continue
		}
		if !near(ts[len(ts)-1]-ts[0], yrange) {
			t.Errorf("panel %d tick range = %v; want %v", i, ts[len(ts)-1]-ts[0], yrange)
		}
		if ts[0] < 0 {
			t.Errorf("panel %d starts below zero: %v", i, ts[0])
		}
	}
}

func TestStandardizeSkipsFlatPanels(t *testing.T) {
	f := testFrame(t, 13, map[string]func(int) float64{"a": func(i int) float64 { return float64(i) }})
	c := testChart(t, f, Options{})
	c.panel().setYLim(10, 15)
	if err := c.StandardizeYRange(100, 6); err != nil {
		t.Fatal(err)
	}
	if lo, hi := c.YLimits(0); lo != 10 || hi != 15 {
		t.Errorf("limits = [%v, %v]; want unchanged [10, 15]", lo, hi)
	}
	if err := c.StandardizeYRange(100, 1); err == nil {
		t.Errorf("StandardizeYRange with 1 tick succeeded; want error")
	}
}

func TestMaxYRangeOf(t *testing.T) {
	f := testFrame(t, 13, map[string]func(int) float64{"a": func(i int) float64 { return float64(i) }})
	a, b := testChart(t, f, Options{}), testChart(t, f, Options{})
	a.panel().setYLim(0, 10)
	b.panel().setYLim(0, 1000)
	if r, n := MaxYRangeOf(a, b); r != 1000 || n != 6 {
		t.Errorf("MaxYRangeOf = %v, %d; want 1000, 6", r, n)
	}
}

func TestCalcYoY(t *testing.T) {
	f := testFrame(t, 24, map[string]func(int) float64{
		"up":   func(i int) float64 { return 1000 + 10*float64(i) },
		"down": func(i int) float64 { return 100 - float64(i) },
		"zero": func(i int) float64 {
			if i == 11 {
				return 0
			}
			return 5
		},
	})
	c := testChart(t, f, Options{})
	for _, test := range []struct {
		col, note, want string
	}{
		{"up", "", fmt.Sprintf(" +%.1f%% YoY", (1230.0-1110)/1110*100)},
		{"down", "", fmt.Sprintf(" %.1f%% YoY", (77.0-89)/89*100)},
		{"up", "(est.)", fmt.Sprintf(" +%.1f%% YoY (est.)", (1230.0-1110)/1110*100)},
		{"zero", "", YoYNA},
	} {
		got, err := c.CalcYoY(test.col, test.note)
		if err != nil {
			t.Errorf("CalcYoY(%q): %v", test.col, err)
			continue
		}
		if got != test.want {
			t.Errorf("CalcYoY(%q, %q) = %q; want %q", test.col, test.note, got, test.want)
		}
	}
	short := testChart(t, testFrame(t, 5, map[string]func(int) float64{"a": func(int) float64 { return 1 }}), Options{})
	if _, err := short.CalcYoY("a", ""); err == nil {
		t.Errorf("CalcYoY on 5 rows succeeded; want error")
	}
}

func TestCalcYSpacing(t *testing.T) {
	last := map[string]float64{"a": 1000000, "b": 100000, "c": 1100000, "d": 200000}
	cols := map[string]func(int) float64{}
	for name, v := range last {
		v := v
		cols[name] = func(int) float64 { return v }
	}
	c := testChart(t, testFrame(t, 3, cols), Options{})
	sp, err := c.CalcYSpacing([]string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatal(err)
	}
	var order []string
	var pads []float64
	for _, s := range sp {
		order = append(order, s.Column)
		pads = append(pads, s.YPad)
	}
	if want := []string{"b", "d", "a", "c"}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v; want %v", order, want)
	}
	if want := []float64{0, 15, 0, 15}; !reflect.DeepEqual(pads, want) {
		t.Errorf("pads = %v; want %v", pads, want)
	}
}

func TestFooterAndTitle(t *testing.T) {
	c := testChart(t, testFrame(t, 12, map[string]func(int) float64{"a": func(int) float64 { return 1 }}), Options{})
	if got, want := c.Footer("Jane", "data.csv"), "Graph Notes: Created by Jane on 2024-01-15 using data from data.csv"; got != want {
		t.Errorf("Footer = %q; want %q", got, want)
	}
	if got := c.Footer("Jane", ""); !strings.HasSuffix(got, "using data from N/A") {
		t.Errorf("Footer with no source = %q", got)
	}
	if got, want := c.Title("Editors"), "Editors (December)"; got != want {
		t.Errorf("Title = %q; want %q", got, want)
	}
	cur := testChart(t, testFrame(t, 12, map[string]func(int) float64{"a": func(int) float64 { return 1 }}), Options{CurrentMonth: true})
	if got := cur.Month(); got != time.January {
		t.Errorf("Month with CurrentMonth = %v; want January", got)
	}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	img, err := png.Decode(r)
	if err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
	return img
}

func TestLineChart(t *testing.T) {
	dir := t.TempDir()
	var csv strings.Builder
	csv.WriteString("month,editors,bots\n")
	for i := 0; i < 24; i++ {
		fmt.Fprintf(&csv, "%s,%d,%d\n", month(2022, time.January).AddDate(0, i, 0).Format("2006-01-02"), 1000+10*i, 50+i)
	}
	in := filepath.Join(dir, "editors.csv")
	if err := os.WriteFile(in, []byte(csv.String()), 0666); err != nil {
		t.Fatal(err)
	}
	f, err := frame.ReadFile(in, frame.ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	c := testChart(t, f, Options{Preview: true})

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(c.PlotLine("editors", Series{Color: style.Color("blue"), Label: "Editors"}))
	must(c.PlotMonthlyScatter("editors", Series{Color: style.Color("blue")}))
	must(c.PlotYoYHighlight("editors", Series{}))
	must(c.PlotBar("bots", Series{Color: style.Color("green"), Label: "Bots"}))
	c.BlockOff(month(2022, time.June), month(2022, time.August), "Data unavailable", 15)
	yoy, err := c.CalcYoY("editors", "")
	must(err)
	if want := fmt.Sprintf(" +%.1f%% YoY", (1230.0-1110)/1110*100); yoy != want {
		t.Errorf("CalcYoY = %q; want %q", yoy, want)
	}
	must(c.Annotate("editors", AnnotateOptions{Num: yoy, Label: "Editors", LabelColor: style.Color("blue")}))
	c.Format("Active Editors", FormatOptions{Author: "Test", DataSource: "editors.csv"})
	c.AddLegend(0)
	if got := c.Annotations(); !reflect.DeepEqual(got, []string{yoy}) {
		t.Errorf("Annotations = %q; want [%q]", got, yoy)
	}

	out, err := c.Save(filepath.Join(dir, "out"), "editors.png")
	must(err)
	img := decodePNG(t, out)
	if got, want := img.Bounds().Size(), (image.Point{400, 240}); got != want {
		t.Errorf("image size = %v; want %v", got, want)
	}
	prev := decodePNG(t, raster.PreviewPath(out))
	if got, want := prev.Bounds().Size(), (image.Point{200, 120}); got != want {
		t.Errorf("preview size = %v; want %v", got, want)
	}
}

func TestSubplots(t *testing.T) {
	cols := map[string]func(int) float64{}
	for i, name := range []string{"a", "b", "c"} {
		base := float64(100 * (i + 1))
		cols[name] = func(j int) float64 { return base + float64(j%5) }
	}
	f := testFrame(t, 24, cols).Reorder(func(a, b string) bool { return a < b })
	c := testChart(t, f, Options{})
	c.Init(12, 8, 2, 2)
	key := frame.GenKeys([]*frame.Frame{f}, style.KeyColors)[0]

	if err := c.PlotSubplotLines(key, 1.5, 3, 12); err != nil {
		t.Fatal(err)
	}
	if err := c.PlotTrendlines(key, 1, 3); err != nil {
		t.Fatal(err)
	}
	c.BlockOffMulti(month(2022, time.May), month(2022, time.July), 15)
	c.FormatSubplots("Editors by wiki", SubplotOptions{Author: "Test", NumCharts: 3})
	c.CleanYLabels(0)
	yrange, n := c.MaxYRange()
	if err := c.StandardizeSubplotYRange(yrange, n, 3); err != nil {
		t.Fatal(err)
	}
	c.TopAnnotation(0.07, 0.87, "Hatched areas are incomplete")
	c.AddBlockLegend()

	out, err := c.Save(t.TempDir(), "subplots.png")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := decodePNG(t, out).Bounds().Size(), (image.Point{480, 320}); got != want {
		t.Errorf("image size = %v; want %v", got, want)
	}
	if _, err := os.Stat(raster.PreviewPath(out)); !os.IsNotExist(err) {
		t.Errorf("preview written without Preview option")
	}
}

func TestWriteSketch(t *testing.T) {
	f := testFrame(t, 24, map[string]func(int) float64{
		"a": func(i int) float64 { return float64(i) },
		"b": func(i int) float64 { return float64(2 * i) },
	})
	c := testChart(t, f, Options{})
	var buf bytes.Buffer
	if err := c.WriteSketch(&buf, "a"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Errorf("WriteSketch output is not SVG:\n%.200s", buf.String())
	}
	if err := c.WriteSketch(&buf, "missing"); err == nil {
		t.Errorf("WriteSketch of missing column succeeded; want error")
	}
}

func TestStepTicker(t *testing.T) {
	tk := stepTicker{13, 87}
	for _, test := range []struct {
		level int
		count int
	}{
		{3, 7}, // 20, 30, ..., 80
		{4, 4}, // 20, 40, 60, 80
		{6, 0},
	} {
		if got := tk.CountTicks(test.level); got != test.count {
			t.Errorf("CountTicks(%d) = %d; want %d", test.level, got, test.count)
		}
		if got := len(tk.TicksAtLevel(test.level).([]float64)); got != test.count {
			t.Errorf("len(TicksAtLevel(%d)) = %d; want %d", test.level, got, test.count)
		}
	}
}

// leftInk counts the dark pixels in the left eighth of img, where the y
// axis labels are drawn.
func leftInk(img image.Image) int {
	b := img.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Min.X+b.Dx()/8; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if (r+g+bl)/3 < 0x8000 {
				n++
			}
		}
	}
	return n
}

func TestBlockOffOutsideWindow(t *testing.T) {
	render := func(block bool) image.Image {
		f := testFrame(t, 24, map[string]func(int) float64{"a": func(i int) float64 { return 1000 + 10*float64(i) }})
		c := testChart(t, f, Options{})
		if err := c.PlotLine("a", Series{Color: style.Color("blue")}); err != nil {
			t.Fatal(err)
		}
		if block {
			c.BlockOff(month(2019, time.January), month(2022, time.March), "", 7)
		}
		c.Format("Editors", FormatOptions{Author: "Test"})
		out, err := c.Save(t.TempDir(), "block.png")
		if err != nil {
			t.Fatal(err)
		}
		return decodePNG(t, out)
	}
	without, with := leftInk(render(false)), leftInk(render(true))
	if without == 0 {
		t.Fatalf("no y labels drawn without a block")
	}
	if with < without/2 {
		t.Errorf("block starting before the window erased the y labels: %d dark pixels, want about %d", with, without)
	}
}

func TestBlockOffNoteIsTransparent(t *testing.T) {
	c := testChart(t, testFrame(t, 24, map[string]func(int) float64{"a": func(int) float64 { return 1 }}), Options{})
	c.BlockOff(month(2022, time.June), month(2022, time.August), "Data unavailable", 15)
	var fills, notes int
	for _, l := range c.panel().layers {
		b, ok := l.p.(*block)
		if !ok {
			continue
		}
		switch {
		case b.textOnly && b.label == "Data unavailable":
			notes++
		case !b.textOnly && b.label == "":
			fills++
		default:
			t.Errorf("unexpected block layer %+v", b)
		}
	}
	if fills != 1 || notes != 1 {
		t.Errorf("got %d fill and %d note layers; want 1 and 1", fills, notes)
	}
}
