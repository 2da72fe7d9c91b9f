// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// segments splits (xs, ys) at NaNs into runs of finite points.
func segments(xs, ys []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i := range xs {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// fillBetween fills the region between two series sharing x values.
type fillBetween struct {
	xs, lower, upper []float64
	color            color.Color
}

func (f *fillBetween) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	var pts []vg.Point
	for i, x := range f.xs {
		if !math.IsNaN(f.upper[i]) {
			pts = append(pts, vg.Point{X: trX(x), Y: trY(f.upper[i])})
		}
	}
	for i := len(f.xs) - 1; i >= 0; i-- {
		if !math.IsNaN(f.lower[i]) {
			pts = append(pts, vg.Point{X: trX(f.xs[i]), Y: trY(f.lower[i])})
		}
	}
	if len(pts) < 3 {
		return
	}
	c.FillPolygon(f.color, c.ClipPolygonXY(pts))
}

// bars draws vertical bars from zero, centered on each x.
type bars struct {
	xs, ys []float64
	width  float64 // in x units
	color  color.Color
}

func (b *bars) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for i, x := range b.xs {
		y := b.ys[i]
		if math.IsNaN(y) {
			continue
		}
		x0, x1 := trX(x-b.width/2), trX(x+b.width/2)
		y0, y1 := trY(0), trY(y)
		poly := []vg.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
		c.FillPolygon(b.color, c.ClipPolygonXY(poly))
	}
}

// block covers [x0, x1] over the full height of the data area. If
// textOnly is set, only the label is drawn.
type block struct {
	x0, x1   float64
	hatch    bool
	textOnly bool
	label    string
	style    text.Style
	wrap     vg.Length
}

var (
	white     = color.White
	hatchLine = draw.LineStyle{Width: vg.Points(0.5)}
)

func (b *block) Plot(c draw.Canvas, p *plot.Plot) {
	trX, _ := p.Transforms(&c)
	// Blocks may extend past the plotted window.
	x0 := max(trX(b.x0), c.Min.X)
	x1 := min(trX(b.x1), c.Max.X)
	if x1 <= x0 {
		return
	}
	r := vg.Rectangle{Min: vg.Point{X: x0, Y: c.Min.Y}, Max: vg.Point{X: x1, Y: c.Max.Y}}
	if !b.textOnly {
		c.FillPolygon(white, rectPoints(r))
		if b.hatch {
			hatch(c, r, hatchColor)
		}
	}
	if b.label != "" {
		s := b.style
		s.XAlign, s.YAlign = text.XCenter, text.YCenter
		center := vg.Point{X: (x0 + x1) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
		c.FillText(s, center, wrapText(s, b.label, b.wrap))
	}
}

func rectPoints(r vg.Rectangle) []vg.Point {
	return []vg.Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// hatch strokes 45° lines across r.
func hatch(c draw.Canvas, r vg.Rectangle, clr color.Color) {
	sty := hatchLine
	sty.Color = clr
	gap := vg.Points(6)
	w, h := r.Max.X-r.Min.X, r.Max.Y-r.Min.Y
	for off := -h; off < w; off += gap {
		a := vg.Point{X: r.Min.X + off, Y: r.Min.Y}
		b := vg.Point{X: r.Min.X + off + h, Y: r.Max.Y}
		// Clip the diagonal to r.
		if a.X < r.Min.X {
			a.Y += r.Min.X - a.X
			a.X = r.Min.X
		}
		if b.X > r.Max.X {
			b.Y -= b.X - r.Max.X
			b.X = r.Max.X
		}
		c.StrokeLine2(sty, a.X, a.Y, b.X, b.Y)
	}
}

// wrapText breaks s into lines no wider than width.
func wrapText(sty text.Style, s string, width vg.Length) string {
	if width <= 0 {
		return s
	}
	var lines []string
	line := ""
	for _, w := range strings.Fields(s) {
		try := w
		if line != "" {
			try = line + " " + w
		}
		if line != "" && sty.Width(try) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line = try
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// label draws text offset from a data point, optionally on a box.
type label struct {
	x, y   float64
	dx, dy vg.Length
	text   string
	style  text.Style
	box    color.Color
	pad    vg.Length
}

func (l *label) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	pt := vg.Point{X: trX(l.x) + l.dx, Y: trY(l.y) + l.dy}
	if l.box != nil {
		r := l.style.Rectangle(l.text)
		r.Min = r.Min.Add(pt).Sub(vg.Point{X: l.pad, Y: l.pad})
		r.Max = r.Max.Add(pt).Add(vg.Point{X: l.pad, Y: l.pad})
		c.FillPolygon(l.box, rectPoints(r))
	}
	c.FillText(l.style, pt, l.text)
}
