// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders monthly metric frames as line charts and
// grids of small multiples.
//
// A Chart is a rendering session for one figure. Plot and annotation
// calls accumulate layers on the chart's panels; nothing is drawn
// until Save. Panels are laid out in a rows x cols grid. Single-panel
// operations apply to the current panel, which is the last panel
// unless changed with Select.
//
// The x axis of every panel is days since the Unix epoch, so offsets
// and buffers along x are in days.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"time"

	"github.com/aclements/go-moremath/fit"
	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/wikimedia/wikicharts/frame"
	"github.com/wikimedia/wikicharts/style"
)

// Z orders. Layers with higher z draw on top.
const (
	zGrid       = -1
	zLine       = 3
	zScatter    = 4
	zHighlight  = 5
	zBlock      = 5
	zBlockMulti = 10
	zBlockText  = 8
	zAnnotation = 10
)

var hatchColor = style.Color("black75")

// Options configures a Chart.
type Options struct {
	// CurrentMonth makes the month of interest the current calendar
	// month instead of the month of the frame's last row.
	CurrentMonth bool

	// Now returns the current time. It defaults to time.Now and is
	// used for the footer date.
	Now func() time.Time

	// DPI is the output resolution. It defaults to 300.
	DPI int

	// Preview additionally writes a half-size PNG next to each saved
	// chart.
	Preview bool
}

// DefaultDPI is the output resolution when Options.DPI is 0.
const DefaultDPI = 300

// A Chart is a rendering session for one figure.
type Chart struct {
	Start, End time.Time

	f     *frame.Frame
	month time.Month
	now   func() time.Time
	dpi   int
	prev  bool

	width, height float64 // inches
	rows, cols    int
	panels        []*panel
	cur           int

	fig figure

	// Accumulated tick observations from MaxYRange.
	yranges   []float64
	ynumticks []int

	annotations []string
}

type layer struct {
	z float64
	p plot.Plotter
}

// A panel is one set of axes.
type panel struct {
	layers    []layer
	title     string
	titleSize float64
	hidden    bool

	// Data bounds, for autoscaling.
	xmin, xmax, ymin, ymax float64

	// Explicit y limits, if fixed.
	fixed      bool
	lo, hi     float64
	step       float64
	xticks     plot.Ticker
	ylabel     func(float64) string
	endsOnly   bool
	boldLabels bool
	tickSize   float64
	grid       bool
	frameless  bool
}

func newPanel() *panel {
	return &panel{
		xmin: math.Inf(1), xmax: math.Inf(-1),
		ymin: math.Inf(1), ymax: math.Inf(-1),
		tickSize:  style.TextFontSize,
		titleSize: 12,
	}
}

func (p *panel) add(z float64, pl plot.Plotter) {
	p.layers = append(p.layers, layer{z, pl})
}

func (p *panel) include(xs, ys []float64) {
	for i, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		p.ymin = math.Min(p.ymin, y)
		p.ymax = math.Max(p.ymax, y)
		if xs != nil {
			p.xmin = math.Min(p.xmin, xs[i])
			p.xmax = math.Max(p.xmax, xs[i])
		}
	}
}

// margin is the fraction of the data range added on each side when
// autoscaling.
const margin = 0.05

// ylim returns the current y limits of p.
func (p *panel) ylim() (lo, hi float64) {
	if p.fixed {
		return p.lo, p.hi
	}
	return pad(p.ymin, p.ymax)
}

func (p *panel) xlim() (lo, hi float64) {
	return pad(p.xmin, p.xmax)
}

func pad(lo, hi float64) (float64, float64) {
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if lo == hi {
		d := math.Abs(lo) * margin
		if d == 0 {
			d = 1
		}
		return lo - d, hi + d
	}
	d := (hi - lo) * margin
	return lo - d, hi + d
}

func (p *panel) setYLim(lo, hi float64) {
	p.fixed, p.lo, p.hi, p.step = true, lo, hi, 0
}

// yticks returns the major y ticks within the current limits.
func (p *panel) yticks() []float64 {
	lo, hi := p.ylim()
	if p.step > 0 {
		n := int(math.Round((hi - lo) / p.step))
		ts := make([]float64, n+1)
		for i := range ts {
			ts[i] = lo + float64(i)*p.step
		}
		return ts
	}
	return niceTicks(lo, hi)
}

// New returns a Chart of f over the window [start, end].
func New(start, end time.Time, f *frame.Frame, o Options) (*Chart, error) {
	c := &Chart{Start: start, End: end, f: f, now: o.Now, dpi: o.DPI, prev: o.Preview}
	if c.now == nil {
		c.now = time.Now
	}
	if c.dpi == 0 {
		c.dpi = DefaultDPI
	}
	if o.CurrentMonth {
		c.month = c.now().Month()
	} else {
		last, err := f.LastTime()
		if err != nil {
			return nil, fmt.Errorf("chart: %w", err)
		}
		c.month = last.Month()
	}
	c.Init(10, 6, 1, 1)
	return c, nil
}

// Frame returns the chart's data.
func (c *Chart) Frame() *frame.Frame { return c.f }

// Month returns the month of interest.
func (c *Chart) Month() time.Month { return c.month }

// Init sets the figure size in inches and lays out rows x cols panels.
// It discards anything already plotted.
func (c *Chart) Init(width, height float64, rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	c.width, c.height = width, height
	c.rows, c.cols = rows, cols
	c.panels = make([]*panel, rows*cols)
	for i := range c.panels {
		c.panels[i] = newPanel()
	}
	c.cur = len(c.panels) - 1
	c.fig = figure{}
}

// Panels returns the number of panels.
func (c *Chart) Panels() int { return len(c.panels) }

// Select makes panel i the current panel. Panels are numbered in row
// order.
func (c *Chart) Select(i int) error {
	if i < 0 || i >= len(c.panels) {
		return fmt.Errorf("chart: panel %d out of range [0,%d)", i, len(c.panels))
	}
	c.cur = i
	return nil
}

func (c *Chart) panel() *panel { return c.panels[c.cur] }

// Series describes how to draw one series.
type Series struct {
	Color color.Color

	// Label is the legend label. Series without a label are left
	// out of the legend.
	Label string

	// Width is the line width or bar width. For lines it is in
	// points and defaults to 2. For bars it is in days and defaults
	// to 10.
	Width float64

	// Radius is the marker radius in points for scatter plots.
	Radius float64
}

func (s Series) color(def color.Color) color.Color {
	if s.Color == nil {
		return def
	}
	return s.Color
}

func (c *Chart) xs(f *frame.Frame) []float64 {
	ts := f.Times()
	xs := make([]float64, len(ts))
	for i, t := range ts {
		xs[i] = dayX(t)
	}
	return xs
}

func (c *Chart) legend(s Series, kind legendKind) {
	if s.Label != "" {
		c.fig.legend = append(c.fig.legend, legendEntry{s.Label, s.color(color.Black), kind})
	}
}

// addLines adds a line through (xs, ys) to p, breaking it at NaNs.
func addLines(p *panel, z float64, xs, ys []float64, clr color.Color, width float64) error {
	for _, seg := range segments(xs, ys) {
		l, err := plotter.NewLine(seg)
		if err != nil {
			return err
		}
		l.Color = clr
		l.Width = vg.Points(width)
		p.add(z, l)
	}
	p.include(xs, ys)
	return nil
}

// PlotLine draws column col as a line on the current panel.
func (c *Chart) PlotLine(col string, s Series) error {
	ys, err := c.f.Column(col)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	width := s.Width
	if width == 0 {
		width = 2
	}
	if err := addLines(c.panel(), zLine, c.xs(c.f), ys, s.color(color.Black), width); err != nil {
		return fmt.Errorf("chart: line %q: %w", col, err)
	}
	c.legend(s, legendLine)
	return nil
}

// PlotBar draws column col as bars on the current panel.
func (c *Chart) PlotBar(col string, s Series) error {
	ys, err := c.f.Column(col)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	width := s.Width
	if width == 0 {
		width = 10
	}
	p := c.panel()
	xs := c.xs(c.f)
	p.add(zLine, &bars{xs, ys, width, s.color(style.Color("blue"))})
	p.include(xs, ys)
	p.include(xs[:1], []float64{0})
	c.legend(s, legendBox)
	return nil
}

func (c *Chart) scatter(p *panel, z float64, xs, ys []float64, sty draw.GlyphStyle) error {
	var pts plotter.XYs
	for i := range xs {
		if !math.IsNaN(ys[i]) {
			pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		}
	}
	if len(pts) == 0 {
		return nil
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle = sty
	p.add(z, sc)
	p.include(xs, ys)
	return nil
}

// PlotMonthlyScatter marks the rows of col that fall in the month of
// interest, one point per year.
func (c *Chart) PlotMonthlyScatter(col string, s Series) error {
	m := c.f.MonthRows(c.month)
	ys, err := m.Column(col)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	r := s.Radius
	if r == 0 {
		r = 3.5
	}
	sty := draw.GlyphStyle{Color: s.color(color.Black), Radius: vg.Points(r), Shape: draw.CircleGlyph{}}
	if err := c.scatter(c.panel(), zScatter, c.xs(m), ys, sty); err != nil {
		return fmt.Errorf("chart: scatter %q: %w", col, err)
	}
	c.legend(s, legendDot)
	return nil
}

// yoyRows are the row offsets, from the end, compared by year-over-year
// highlights.
var yoyRows = [2]int{-13, -1}

// PlotYoYHighlight circles the latest value of col and the value 13
// rows earlier.
func (c *Chart) PlotYoYHighlight(col string, s Series) error {
	var xs, ys []float64
	all := c.xs(c.f)
	for _, off := range yoyRows {
		y, err := c.f.Value(off, col)
		if err != nil {
			return fmt.Errorf("chart: year-over-year highlight: %w", err)
		}
		xs = append(xs, all[len(all)+off])
		ys = append(ys, y)
	}
	r := s.Radius
	if r == 0 {
		// Marker area of 1000 pt².
		r = math.Sqrt(1000 / math.Pi)
	}
	sty := draw.GlyphStyle{Color: s.color(style.Color("yellow")), Radius: vg.Points(r), Shape: draw.RingGlyph{}}
	if err := c.scatter(c.panel(), zHighlight, xs, ys, sty); err != nil {
		return fmt.Errorf("chart: year-over-year highlight: %w", err)
	}
	c.legend(s, legendRing)
	return nil
}

// PlotDataLoss shades the area between columns lower and upper of f to
// flag a known data-quality gap. If f is nil, the chart's frame is used.
func (c *Chart) PlotDataLoss(f *frame.Frame, lower, upper string, s Series) error {
	if f == nil {
		f = c.f
	}
	lo, err := f.Column(lower)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	hi, err := f.Column(upper)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	xs := c.xs(f)
	p := c.panel()
	p.add(zLine, &fillBetween{xs, lo, hi, s.color(style.Color("base80"))})
	p.include(xs, lo)
	p.include(xs, hi)
	c.legend(s, legendBox)
	return nil
}

// BlockOff covers [start, end] on the current panel, widened by
// xbuffer days on each side, with an opaque rectangle and an optional
// centered note.
func (c *Chart) BlockOff(start, end time.Time, note string, xbuffer float64) {
	p := c.panel()
	p.add(zBlock, &block{
		x0: dayX(start) - xbuffer, x1: dayX(end) + xbuffer,
	})
	if note != "" {
		p.add(zBlockText, &block{
			x0: dayX(start) - xbuffer, x1: dayX(end) + xbuffer,
			textOnly: true,
			label:    note,
			style:    style.Text(style.TextFontSize, style.Color("black25"), false),
			wrap:     3 * vg.Inch,
		})
	}
}

// BlockOffMulti covers [start, end] on every panel with a hatched
// rectangle.
func (c *Chart) BlockOffMulti(start, end time.Time, xbuffer float64) {
	for _, p := range c.panels {
		p.add(zBlockMulti, &block{
			x0: dayX(start) - xbuffer, x1: dayX(end) + xbuffer,
			hatch: true,
		})
	}
}

// PlotSubplotLines draws key[i] on panel i for the first numCharts
// panels and titles each panel with the entry's label.
func (c *Chart) PlotSubplotLines(key frame.Key, width float64, numCharts int, titleSize float64) error {
	xs := c.xs(c.f)
	for i, p := range c.panels {
		if i >= numCharts || i >= len(key) {
			break
		}
		e := key[i]
		ys, err := c.f.Column(e.Column)
		if err != nil {
			return fmt.Errorf("chart: panel %d: %w", i, err)
		}
		if err := addLines(p, zLine, xs, ys, e.Color, width); err != nil {
			return fmt.Errorf("chart: panel %d: %w", i, err)
		}
		p.title = e.Label
		p.titleSize = titleSize
	}
	return nil
}

// PlotTrendlines fits a line to key[i] and draws it on panel i for the
// first numCharts panels.
func (c *Chart) PlotTrendlines(key frame.Key, width float64, numCharts int) error {
	all := c.xs(c.f)
	for i, p := range c.panels {
		if i >= numCharts || i >= len(key) {
			break
		}
		ys, err := c.f.Column(key[i].Column)
		if err != nil {
			return fmt.Errorf("chart: trend line %d: %w", i, err)
		}
		var xs, fy []float64
		for j, y := range ys {
			if !math.IsNaN(y) {
				xs = append(xs, all[j])
				fy = append(fy, y)
			}
		}
		if len(xs) < 2 {
			continue
		}
		r := fit.PolynomialRegression(xs, fy, nil, 1)
		trend := make([]float64, len(all))
		for j, x := range all {
			trend[j] = r.F(x)
		}
		if err := addLines(p, zScatter, all, trend, color.Black, width); err != nil {
			return fmt.Errorf("chart: trend line %d: %w", i, err)
		}
	}
	return nil
}

// sortLayers orders layers by z, keeping insertion order for ties.
func sortLayers(ls []layer) []plot.Plotter {
	ls = append([]layer(nil), ls...)
	sort.SliceStable(ls, func(i, j int) bool { return ls[i].z < ls[j].z })
	out := make([]plot.Plotter, len(ls))
	for i, l := range ls {
		out[i] = l.p
	}
	return out
}

// meanMedian returns the mean and median of the finite values of xs.
func meanMedian(xs []float64) (mean, median float64) {
	var fin []float64
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			fin = append(fin, x)
		}
	}
	if len(fin) == 0 {
		return math.NaN(), math.NaN()
	}
	s := stats.Sample{Xs: fin}
	return s.Mean(), s.Quantile(0.5)
}
