// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/wikimedia/wikicharts/numfmt"
	"github.com/wikimedia/wikicharts/style"
)

// Margins are the edges of the panel area as fractions of the figure,
// measured from the left and bottom.
type Margins struct {
	Left, Right, Top, Bottom float64
}

var defaultMargins = Margins{Left: 0.125, Right: 0.9, Top: 0.88, Bottom: 0.11}

func (m Margins) or(def Margins) Margins {
	if m == (Margins{}) {
		return def
	}
	return m
}

type legendKind int

const (
	legendLine legendKind = iota
	legendBox
	legendDot
	legendRing
)

type legendEntry struct {
	label string
	color color.Color
	kind  legendKind
}

// figText is text placed at a fraction of the figure size.
type figText struct {
	x, y  float64
	text  string
	style text.Style
}

// figure holds everything drawn outside the panels.
type figure struct {
	margins Margins

	// title is drawn above the panel area at its left edge unless
	// super is set, in which case it is placed like a figText.
	title    figText
	super    bool
	titlePad vg.Length

	texts []figText

	legend     []legendEntry
	showLegend bool
	legendSize float64

	blockLegend bool
}

// tiling returns the panel grid spacing for an area of the given size.
// Gaps are 0.2 of a panel's width and 0.4 of its height.
func (c *Chart) tiling(w, h vg.Length) draw.Tiles {
	const wspace, hspace = 0.2, 0.4
	pw := w / vg.Length(float64(c.cols)+wspace*float64(c.cols-1))
	ph := h / vg.Length(float64(c.rows)+hspace*float64(c.rows-1))
	return draw.Tiles{
		Rows: c.rows,
		Cols: c.cols,
		PadX: pw * wspace,
		PadY: ph * hspace,
	}
}

// build makes a gonum plot for p.
func (c *Chart) build(p *panel) *plot.Plot {
	pl := plot.New()
	if p.hidden {
		pl.HideAxes()
		pl.X.Min, pl.X.Max, pl.Y.Min, pl.Y.Max = 0, 1, 0, 1
		return pl
	}
	if p.title != "" {
		pl.Title.Text = p.title
		pl.Title.TextStyle.Font = style.Font(p.titleSize, false)
	}
	if p.grid {
		g := plotter.NewGrid()
		g.Vertical.Color = nil
		g.Horizontal.Color = style.Color("black25")
		g.Horizontal.Width = vg.Points(0.25)
		pl.Add(g)
	}
	pl.Add(sortLayers(p.layers)...)

	pl.X.Min, pl.X.Max = p.xlim()
	pl.Y.Min, pl.Y.Max = p.ylim()

	if p.xticks != nil {
		pl.X.Tick.Marker = p.xticks
	} else {
		pl.X.Tick.Marker = yearTicks(c.Start, c.End)
	}
	format := p.ylabel
	if format == nil {
		format = numfmt.Simple
	}
	yt := labeled(p.yticks(), format)
	if p.endsOnly {
		for i := 1; i < len(yt)-1; i++ {
			yt[i].Label = ""
		}
	}
	pl.Y.Tick.Marker = yt
	pl.X.Tick.Label.Font = style.Font(p.tickSize, false)
	pl.Y.Tick.Label.Font = style.Font(p.tickSize, p.boldLabels)
	if p.frameless {
		for _, ax := range []*plot.Axis{&pl.X, &pl.Y} {
			ax.LineStyle.Width = 0
			ax.LineStyle.Color = color.Transparent
		}
		pl.Y.Tick.Length = 0
	}
	return pl
}

// draw renders the whole figure onto dc.
func (c *Chart) draw(dc draw.Canvas) {
	m := c.fig.margins.or(defaultMargins)
	w, h := dc.Max.X-dc.Min.X, dc.Max.Y-dc.Min.Y
	area := draw.Crop(dc,
		vg.Length(m.Left)*w, -vg.Length(1-m.Right)*w,
		vg.Length(m.Bottom)*h, -vg.Length(1-m.Top)*h)

	if len(c.panels) == 1 {
		c.build(c.panels[0]).Draw(area)
	} else {
		plots := make([][]*plot.Plot, c.rows)
		for r := range plots {
			plots[r] = make([]*plot.Plot, c.cols)
			for col := range plots[r] {
				plots[r][col] = c.build(c.panels[r*c.cols+col])
			}
		}
		canvases := plot.Align(plots, c.tiling(area.Max.X-area.Min.X, area.Max.Y-area.Min.Y), area)
		for r := range plots {
			for col := range plots[r] {
				if !c.panels[r*c.cols+col].hidden {
					plots[r][col].Draw(canvases[r][col])
				}
			}
		}
	}

	at := func(x, y float64) vg.Point {
		return vg.Point{X: dc.Min.X + vg.Length(x)*w, Y: dc.Min.Y + vg.Length(y)*h}
	}
	if t := c.fig.title; t.text != "" {
		if c.fig.super {
			dc.FillText(t.style, at(t.x, t.y), t.text)
		} else {
			dc.FillText(t.style, vg.Point{X: area.Min.X, Y: area.Max.Y + c.fig.titlePad + vg.Points(6)}, t.text)
		}
	}
	for _, t := range c.fig.texts {
		dc.FillText(t.style, at(t.x, t.y), t.text)
	}
	if c.fig.showLegend && len(c.fig.legend) > 0 {
		c.drawLegend(dc, area)
	}
	if c.fig.blockLegend {
		corner := at(0.05, 0.868)
		r := vg.Rectangle{Min: corner, Max: corner.Add(vg.Point{X: 0.01 * w, Y: 0.02 * h})}
		dc.FillPolygon(white, rectPoints(r))
		hatch(dc, r, color.Black)
		dc.StrokeLines(draw.LineStyle{Color: color.Black, Width: vg.Points(0.1)}, append(rectPoints(r), r.Min))
	}
}

// legendCols is the number of legend columns.
const legendCols = 4

// drawLegend draws the legend centered below area.
func (c *Chart) drawLegend(dc draw.Canvas, area draw.Canvas) {
	sty := style.Text(c.fig.legendSize, color.Black, false)
	sty.YAlign = text.YCenter
	swatch := vg.Points(20)
	gap := vg.Points(8)
	var colW vg.Length
	for _, e := range c.fig.legend {
		if cw := swatch + gap + sty.Width(e.label) + 2*gap; cw > colW {
			colW = cw
		}
	}
	ncols := legendCols
	if len(c.fig.legend) < ncols {
		ncols = len(c.fig.legend)
	}
	rowH := sty.Height("M") * 1.5
	total := colW * vg.Length(ncols)
	x0 := (area.Min.X+area.Max.X)/2 - total/2
	y0 := area.Min.Y - 0.15*(area.Max.Y-area.Min.Y)
	for i, e := range c.fig.legend {
		x := x0 + colW*vg.Length(i%ncols)
		y := y0 - rowH*vg.Length(i/ncols)
		mid := vg.Point{X: x + swatch/2, Y: y}
		switch e.kind {
		case legendLine:
			dc.StrokeLine2(draw.LineStyle{Color: e.color, Width: vg.Points(2)}, x, y, x+swatch, y)
		case legendBox:
			r := vg.Rectangle{
				Min: vg.Point{X: x, Y: y - rowH/4},
				Max: vg.Point{X: x + swatch, Y: y + rowH/4},
			}
			dc.FillPolygon(e.color, rectPoints(r))
		case legendDot:
			dc.DrawGlyph(draw.GlyphStyle{Color: e.color, Radius: vg.Points(3.5), Shape: draw.CircleGlyph{}}, mid)
		case legendRing:
			dc.DrawGlyph(draw.GlyphStyle{Color: e.color, Radius: vg.Points(5), Shape: draw.RingGlyph{}}, mid)
		}
		dc.FillText(sty, vg.Point{X: x + swatch + gap, Y: y}, e.label)
	}
}
