// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/wikimedia/wikicharts/numfmt"
	"github.com/wikimedia/wikicharts/style"
)

// XTicks selects how Format labels the x axis.
type XTicks int

const (
	// XYearly puts a tick at each January labeled with the year.
	XYearly XTicks = iota
	// XMonthly puts a tick at each row labeled with the month name.
	XMonthly
)

// FormatOptions controls Format.
type FormatOptions struct {
	Author     string
	DataSource string

	// NoYBuffer disables the padding below the data minimum.
	NoYBuffer bool

	XTicks XTicks

	// Margins defaults to left 0.1, right 0.85, top 0.9, bottom 0.1.
	Margins Margins

	// TitlePad is extra space above the plot area in points.
	TitlePad float64

	// Perc formats y labels as percentages of fractions.
	Perc bool
}

// SubplotOptions controls FormatSubplots.
type SubplotOptions struct {
	Author     string
	DataSource string

	// Margins defaults to left 0.1, right 0.85, top 0.85, bottom 0.1.
	Margins Margins

	// NumCharts is the number of panels in use; the rest are hidden.
	// If 0, all panels are used.
	NumCharts int

	// TickFontSize defaults to 12 points.
	TickFontSize float64

	// NoMonthInTitle leaves the month of interest out of the title.
	NoMonthInTitle bool
}

// Footer returns the provenance note stamped at the bottom of every
// chart.
func (c *Chart) Footer(author, source string) string {
	if source == "" {
		source = "N/A"
	}
	return fmt.Sprintf("Graph Notes: Created by %s on %s using data from %s",
		author, c.now().Format("2006-01-02"), source)
}

// Title returns title qualified with the month of interest.
func (c *Chart) Title(title string) string {
	return fmt.Sprintf("%s (%s)", title, c.month)
}

func (c *Chart) footer(author, source string, x, y float64) figText {
	return figText{x, y, c.Footer(author, source), style.Text(style.NoteFontSize, style.Color("black25"), false)}
}

// Format styles the current panel: it removes the frame, draws
// horizontal gridlines, titles the figure, labels the x axis, pads the
// y range below the data and labels the y axis with abbreviated
// numbers.
func (c *Chart) Format(title string, o FormatOptions) {
	p := c.panel()
	p.frameless = true
	p.grid = true

	c.fig.margins = o.Margins.or(Margins{Left: 0.1, Right: 0.85, Top: 0.9, Bottom: 0.1})
	c.fig.title = figText{text: c.Title(title), style: style.Text(style.TitleFontSize, color.Black, true)}
	c.fig.super = false
	c.fig.titlePad = vg.Points(o.TitlePad)

	switch o.XTicks {
	case XYearly:
		p.xticks = yearTicks(c.Start, c.End)
	case XMonthly:
		p.xticks = monthTicks(c.f.Times())
	}

	if !o.NoYBuffer {
		lo, hi := p.ylim()
		rng := hi - lo
		newLo := lo - rng/4
		if lo > 0 {
			var newHi float64
			if newLo >= 0 {
				newHi = newLo + rng*1.5
			} else {
				newLo = 0
				newHi = lo + hi
			}
			// Start at a tick so the lowest gridline is not clipped.
			p.setYLim(floorTick(newLo, newHi), newHi)
		}
	}

	perc := o.Perc
	p.ylabel = func(v float64) string {
		return numfmt.Format(v, numfmt.Options{Perc: perc})
	}
	p.tickSize = style.TextFontSize

	c.fig.texts = append(c.fig.texts, c.footer(o.Author, o.DataSource, 0.1, 0.025))
}

// FormatSubplots styles the first NumCharts panels like Format, hides
// the rest, and titles the whole figure.
func (c *Chart) FormatSubplots(title string, o SubplotOptions) {
	n := o.NumCharts
	if n == 0 {
		n = len(c.panels)
	}
	size := o.TickFontSize
	if size == 0 {
		size = 12
	}
	c.fig.margins = o.Margins.or(Margins{Left: 0.1, Right: 0.85, Top: 0.85, Bottom: 0.1})
	for i, p := range c.panels {
		if i >= n {
			p.hidden = true
			continue
		}
		p.frameless = true
		p.grid = true
		p.xticks = yearTicks(c.Start, c.End)
		p.ylabel = numfmt.Simple
		p.tickSize = size
	}

	t := title
	if !o.NoMonthInTitle {
		t = c.Title(title)
	}
	sty := style.Text(style.TitleFontSize, color.Black, true)
	sty.YAlign = text.YTop
	c.fig.title = figText{0.05, 0.97, t, sty}
	c.fig.super = true
	c.fig.texts = append(c.fig.texts, c.footer(o.Author, o.DataSource, 0.05, 0.01))
}

// CleanYLabels keeps only the lowest and highest y label of every
// panel, in bold.
func (c *Chart) CleanYLabels(tickFontSize float64) {
	for _, p := range c.panels {
		p.endsOnly = true
		p.boldLabels = true
		if tickFontSize > 0 {
			p.tickSize = tickFontSize
		}
	}
}

// TopAnnotation adds a note at (x, y), in fractions of the figure,
// usually just under the title.
func (c *Chart) TopAnnotation(x, y float64, note string) {
	c.fig.texts = append(c.fig.texts, figText{x, y, note, style.Text(10, style.Color("black75"), false)})
}

// AddLegend draws a legend of every labeled series below the plot.
func (c *Chart) AddLegend(fontSize float64) {
	if fontSize == 0 {
		fontSize = style.TextFontSize
	}
	c.fig.showLegend = true
	c.fig.legendSize = fontSize
}

// AddBlockLegend draws a small hatched swatch next to the top
// annotation, to key the blocked-off areas of BlockOffMulti.
func (c *Chart) AddBlockLegend() {
	c.fig.blockLegend = true
}
