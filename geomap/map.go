// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geomap

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-moremath/stats"
	"github.com/paulmach/orb"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/wikimedia/wikicharts/internal/raster"
	"github.com/wikimedia/wikicharts/numfmt"
	"github.com/wikimedia/wikicharts/style"
)

// Plasma is a reversed plasma color scale, light yellow for low values
// through dark purple for high ones.
var Plasma = palette.RGBGradient{Colors: []color.RGBA{
	style.MustHex("#f0f921"),
	style.MustHex("#fcce25"),
	style.MustHex("#fca636"),
	style.MustHex("#f2844b"),
	style.MustHex("#e16462"),
	style.MustHex("#cc4778"),
	style.MustHex("#b12a90"),
	style.MustHex("#8f0da4"),
	style.MustHex("#6a00a8"),
	style.MustHex("#41049d"),
	style.MustHex("#0d0887"),
}}

// MapOptions configures a Map.
type MapOptions struct {
	Title string

	// Month, if not zero, is appended to the title.
	Month time.Time

	Author     string
	DataSource string

	// Width and Height are in inches and default to 10 and 6.
	Width, Height float64

	// DPI defaults to 300.
	DPI     int
	Preview bool

	// Now returns the date for the footer. It defaults to time.Now.
	Now func() time.Time
}

// A Map is a world map of countries, optionally shaded by a region
// value and overlaid with region outlines and labels.
type Map struct {
	countries []Country
	o         MapOptions

	shade   *shading
	regions *regionLayer

	// Color bar tick labeling, set by FormatMap.
	cbarFormat, cbarPerc bool
}

// New returns a map of cs.
func New(cs []Country, o MapOptions) *Map {
	if o.Width == 0 {
		o.Width = 10
	}
	if o.Height == 0 {
		o.Height = 6
	}
	if o.DPI == 0 {
		o.DPI = 300
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return &Map{countries: cs, o: o}
}

// Title returns the map title, with the month if set.
func (m *Map) Title() string {
	if m.o.Month.IsZero() {
		return m.o.Title
	}
	return fmt.Sprintf("%s (%s)", m.o.Title, m.o.Month.Month())
}

// Footer returns the provenance note.
func (m *Map) Footer() string {
	src := m.o.DataSource
	if src == "" {
		src = "N/A"
	}
	return fmt.Sprintf("Graph Notes: Created by %s on %s using data from %s",
		m.o.Author, m.o.Now().Format("2006-01-02"), src)
}

// ColorbarOptions controls PlotColorbar.
type ColorbarOptions struct {
	// If Limits is set, the color scale spans [VMin, VMax] instead of
	// the range of the data.
	Limits     bool
	VMin, VMax float64

	// Alpha is the opacity of the shading. It defaults to 0.6.
	Alpha float64

	// Palette defaults to Plasma.
	Palette palette.Continuous
}

type shading struct {
	values     map[string]float64 // by region
	vmin, vmax float64
	pal        palette.Continuous
	alpha      float64
}

func (s *shading) color(v float64) color.Color {
	if math.IsNaN(v) {
		return nil
	}
	x := 0.5
	if s.vmax > s.vmin {
		x = (v - s.vmin) / (s.vmax - s.vmin)
	}
	x = math.Max(0, math.Min(1, x))
	r, g, b, _ := s.pal.Map(x).RGBA()
	return color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(math.Round(s.alpha * 255))}
}

// PlotColorbar shades every country by value column col of its region
// in rt and adds a color scale legend.
func (m *Map) PlotColorbar(rt *RegionTable, col string, o ColorbarOptions) error {
	s := &shading{values: map[string]float64{}, pal: o.Palette, alpha: o.Alpha}
	if s.pal == nil {
		s.pal = Plasma
	}
	if s.alpha == 0 {
		s.alpha = 0.6
	}
	var finite []float64
	for _, r := range rt.Regions() {
		v := valueOrNaN(r, col)
		s.values[r.Name] = v
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if o.Limits {
		s.vmin, s.vmax = o.VMin, o.VMax
	} else {
		if len(finite) == 0 {
			return fmt.Errorf("color bar: no values in column %q", col)
		}
		s.vmin, s.vmax = stats.Bounds(finite)
	}
	m.shade = s
	return nil
}

// PlotRegions outlines every region of rt and labels it with label
// column labelCol.
func (m *Map) PlotRegions(rt *RegionTable, labelCol string, fontSize float64) {
	if fontSize == 0 {
		fontSize = 12
	}
	m.regions = &regionLayer{rt: rt, col: labelCol, size: fontSize}
}

// FormatMap sets how the color bar is labeled. If formatColorbar is
// set, tick labels are abbreviated with numfmt, as percentages if perc
// is set.
func (m *Map) FormatMap(formatColorbar, perc bool) {
	m.cbarFormat, m.cbarPerc = formatColorbar, perc
}

// Save renders the map to dir/name and returns the path written.
func (m *Map) Save(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	fig := raster.Figure{Width: m.o.Width, Height: m.o.Height, Draw: m.draw}
	if err := raster.Save(path, fig, m.o.DPI, m.o.Preview); err != nil {
		return "", fmt.Errorf("map: %w", err)
	}
	return path, nil
}

// Layout, as fractions of the figure.
const (
	mapLeft, mapRight, mapTop, mapBottom = 0.05, 0.9, 0.88, 0.08
	cbarWidth                            = 0.03 // of the map width
)

func (m *Map) draw(dc draw.Canvas) {
	w, h := dc.Max.X-dc.Min.X, dc.Max.Y-dc.Min.Y
	area := draw.Crop(dc,
		mapLeft*w, -(1-mapRight)*w,
		mapBottom*h, -(1-mapTop)*h)

	b := Bound(m.countries)
	area = fitAspect(area, b)

	pl := plot.New()
	pl.HideAxes()
	pl.X.Min, pl.X.Max = b.Min[0], b.Max[0]
	pl.Y.Min, pl.Y.Max = b.Min[1], b.Max[1]
	pl.Add(&countryLayer{countries: m.countries, shade: m.shade})
	if m.regions != nil {
		pl.Add(m.regions)
	}
	pl.Draw(area)

	titleStyle := style.Text(style.TitleFontSize, color.Black, true)
	dc.FillText(titleStyle, vg.Point{X: area.Min.X, Y: area.Max.Y + vg.Points(12)}, m.Title())
	dc.FillText(style.Text(style.NoteFontSize, style.Color("black25"), false),
		vg.Point{X: dc.Min.X + 0.1*w, Y: dc.Min.Y + 0.025*h}, m.Footer())

	if m.shade != nil {
		m.drawColorbar(dc, area)
	}
}

// fitAspect shrinks c to the aspect ratio of b, keeping it centered
// horizontally and top-aligned.
func fitAspect(c draw.Canvas, b orb.Bound) draw.Canvas {
	bw, bh := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	if bw <= 0 || bh <= 0 {
		return c
	}
	cw, ch := c.Max.X-c.Min.X, c.Max.Y-c.Min.Y
	if want := vg.Length(bh/bw) * cw; want < ch {
		c.Min.Y = c.Max.Y - want
	} else {
		nw := vg.Length(bw/bh) * ch
		dx := (cw - nw) / 2
		c.Min.X += dx
		c.Max.X -= dx
	}
	return c
}

// cbarSteps is the number of bands drawn in the color bar.
const cbarSteps = 128

func (m *Map) drawColorbar(dc, area draw.Canvas) {
	s := m.shade
	x0 := area.Max.X + 0.05*vg.Inch
	x1 := x0 + cbarWidth*(area.Max.X-area.Min.X)
	y0, y1 := area.Min.Y, area.Max.Y
	for i := 0; i < cbarSteps; i++ {
		v := s.vmin + (s.vmax-s.vmin)*(float64(i)+0.5)/cbarSteps
		r := vg.Rectangle{
			Min: vg.Point{X: x0, Y: y0 + (y1-y0)*vg.Length(i)/cbarSteps},
			Max: vg.Point{X: x1, Y: y0 + (y1-y0)*vg.Length(i+1)/cbarSteps},
		}
		dc.FillPolygon(s.color(v), []vg.Point{r.Min, {X: r.Max.X, Y: r.Min.Y}, r.Max, {X: r.Min.X, Y: r.Max.Y}})
	}

	sty := style.Text(10, color.Black, false)
	sty.YAlign = text.YCenter
	tick := draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}
	for _, t := range colorbarTicks(s.vmin, s.vmax, m.cbarFormat, m.cbarPerc) {
		y := y0 + (y1-y0)*vg.Length((t.Value-s.vmin)/(s.vmax-s.vmin))
		dc.StrokeLine2(tick, x1, y, x1+vg.Points(3.5), y)
		dc.FillText(sty, vg.Point{X: x1 + vg.Points(6), Y: y}, t.Label)
	}
}

// colorbarTicks returns the major ticks within [lo, hi]. If format is
// set they are labeled with numfmt.
func colorbarTicks(lo, hi float64, format, perc bool) []plot.Tick {
	if !(hi > lo) {
		return nil
	}
	var out []plot.Tick
	for _, t := range (plot.DefaultTicks{}).Ticks(lo, hi) {
		if t.IsMinor() || t.Value < lo || t.Value > hi {
			continue
		}
		switch {
		case !format:
			t.Label = strconv.FormatFloat(t.Value, 'g', -1, 64)
		case perc:
			t.Label = numfmt.Format(t.Value, numfmt.Options{Perc: true})
		default:
			t.Label = numfmt.Simple(t.Value)
		}
		out = append(out, t)
	}
	return out
}

// countryLayer fills and outlines every country.
type countryLayer struct {
	countries []Country
	shade     *shading
}

var countryEdge = draw.LineStyle{Color: color.Black, Width: vg.Points(0.1)}

func (l *countryLayer) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for _, ctry := range l.countries {
		var fill color.Color
		if l.shade != nil {
			if v, ok := l.shade.values[ctry.Region]; ok {
				fill = l.shade.color(v)
			}
		}
		for _, poly := range ctry.Geometry {
			for i, ring := range poly {
				pts := make([]vg.Point, len(ring))
				for j, pt := range ring {
					pts[j] = vg.Point{X: trX(pt[0]), Y: trY(pt[1])}
				}
				// Holes are outlined but not filled.
				if i == 0 && fill != nil && len(pts) >= 3 {
					c.FillPolygon(fill, c.ClipPolygonXY(pts))
				}
				c.StrokeLines(countryEdge, c.ClipLinesXY(pts)...)
			}
		}
	}
}

// regionLayer outlines regions and draws their labels.
type regionLayer struct {
	rt   *RegionTable
	col  string
	size float64
}

var (
	regionEdge = draw.LineStyle{Color: color.Black, Width: vg.Points(1.5)}
	labelBox   = color.NRGBA{0xff, 0xff, 0xff, 0xd9}
	labelPad   = vg.Points(3)
)

func (l *regionLayer) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	project := func(pt orb.Point) vg.Point {
		return vg.Point{X: trX(pt[0]), Y: trY(pt[1])}
	}
	for _, r := range l.rt.Regions() {
		for _, ls := range r.Boundary {
			pts := make([]vg.Point, len(ls))
			for i, pt := range ls {
				pts[i] = project(pt)
			}
			c.StrokeLines(regionEdge, c.ClipLinesXY(pts)...)
		}
	}

	sty := style.Text(l.size, color.Black, true)
	sty.XAlign, sty.YAlign = text.XCenter, text.YCenter
	for _, r := range l.rt.Regions() {
		s := r.labels[l.col]
		if s == "" {
			continue
		}
		at := project(r.Anchor)
		box := sty.Rectangle(s)
		box.Min = box.Min.Add(at).Sub(vg.Point{X: labelPad, Y: labelPad})
		box.Max = box.Max.Add(at).Add(vg.Point{X: labelPad, Y: labelPad})
		corners := []vg.Point{box.Min, {X: box.Max.X, Y: box.Min.Y}, box.Max, {X: box.Min.X, Y: box.Max.Y}}
		c.FillPolygon(labelBox, corners)
		c.StrokeLines(draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}, append(corners, box.Min))
		c.FillText(sty, at, s)
	}
}
