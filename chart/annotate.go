// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/wikimedia/wikicharts/frame"
	"github.com/wikimedia/wikicharts/metrics"
	"github.com/wikimedia/wikicharts/numfmt"
	"github.com/wikimedia/wikicharts/style"
)

// YoYNA is the annotation used when year-over-year change is undefined.
const YoYNA = "YoY N/A"

// AnnotateOptions controls Annotate.
type AnnotateOptions struct {
	// Num is the number text. It is ignored if UseLastY is set.
	Num string

	// Label, if set, is drawn before Num in LabelColor.
	Label string

	LabelColor, NumColor color.Color

	// XPad and YPad shift the annotation, in points.
	XPad, YPad float64

	// UseLastY annotates with the last value itself, as a percentage
	// if Perc is set.
	UseLastY bool
	Perc     bool
}

// last returns the x and y of the final row of col.
func (c *Chart) last(col string) (x, y float64, err error) {
	y, err = c.f.Last(col)
	if err != nil {
		return 0, 0, fmt.Errorf("chart: %w", err)
	}
	if math.IsNaN(y) {
		return 0, 0, fmt.Errorf("chart: last value of %q is missing", col)
	}
	t, _ := c.f.LastTime()
	return dayX(t), y, nil
}

// Annotate labels the final point of col on the current panel. The
// text starts 20 points right of the point.
func (c *Chart) Annotate(col string, o AnnotateOptions) error {
	x, y, err := c.last(col)
	if err != nil {
		return err
	}
	num := o.Num
	if o.UseLastY {
		if o.Perc {
			num = fmt.Sprintf("%.1f%%", y*100)
		} else {
			num = fmt.Sprintf("%.2f", y)
		}
	}
	lc, nc := o.LabelColor, o.NumColor
	if lc == nil {
		lc = color.Black
	}
	if nc == nil {
		nc = color.Black
	}
	p := c.panel()
	labelX := vg.Points(20 + o.XPad)
	dy := vg.Points(-5 + o.YPad)
	numX := labelX + vg.Points(10)
	if o.Label != "" {
		sty := style.Text(style.TextFontSize, lc, true)
		p.add(zAnnotation, &label{
			x: x, y: y, dx: labelX, dy: dy,
			text: o.Label, style: sty,
			box: color.NRGBA{0xff, 0xff, 0xff, 0xb3}, pad: vg.Points(5),
		})
		numX = labelX + sty.Width(o.Label) + vg.Points(6)
	}
	p.add(zAnnotation, &label{
		x: x, y: y, dx: numX, dy: dy,
		text: num, style: style.Text(style.TextFontSize, nc, true),
	})
	c.annotations = append(c.annotations, num)
	return nil
}

// Annotations returns the number text of every annotation so far.
func (c *Chart) Annotations() []string {
	return append([]string(nil), c.annotations...)
}

// MeanOptions controls AnnotateMean.
type MeanOptions struct {
	TextColor color.Color

	// XOffset is the distance right of the last point, in days. It
	// defaults to 85.
	XOffset float64

	ShowMedian bool
}

// AnnotateMean writes the mean (and optionally the median) of col, as
// percentages, to the right of the series. The text sits level with
// the last point if it is within 1% of the mean, and level with the
// mean otherwise.
func (c *Chart) AnnotateMean(col string, o MeanOptions) error {
	ys, err := c.f.Column(col)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	x, last, err := c.last(col)
	if err != nil {
		return err
	}
	mean, median := meanMedian(ys)
	xoff := o.XOffset
	if xoff == 0 {
		xoff = 85
	}
	tc := o.TextColor
	if tc == nil {
		tc = style.Color("red")
	}
	sty := style.Text(style.TextFontSize, tc, true)
	sty.YAlign = text.YCenter
	y := mean * 1.005
	if math.Abs((last-mean)/mean) < 0.01 {
		y = last
	} else {
		sty.XAlign = text.XCenter
	}
	s := fmt.Sprintf("Mean: %.1f%%", math.Round(mean*1000)/10)
	if o.ShowMedian {
		s += fmt.Sprintf(" / Median: %.1f%%", math.Round(median*1000)/10)
	}
	c.panel().add(zAnnotation, &label{x: x + xoff, y: y, text: s, style: sty})
	c.annotations = append(c.annotations, s)
	return nil
}

// CalcYoY returns the year-over-year annotation for col, such as
// " +12.3% YoY", followed by note if set. It returns YoYNA when the
// change is undefined.
func (c *Chart) CalcYoY(col, note string) (string, error) {
	pct, ok, err := metrics.ColumnYoY(c.f, col)
	if err != nil {
		return "", fmt.Errorf("chart: %w", err)
	}
	if !ok {
		return YoYNA, nil
	}
	var s string
	if pct > 0 {
		s = fmt.Sprintf(" +%.1f%% YoY", pct)
	} else {
		s = fmt.Sprintf(" %.1f%% YoY", pct)
	}
	if note != "" {
		s += " " + note
	}
	return s, nil
}

// CalcFinalCount returns the last value of col formatted with
// numfmt.Simple.
func (c *Chart) CalcFinalCount(col string) (string, error) {
	v, err := c.f.Last(col)
	if err != nil {
		return "", fmt.Errorf("chart: %w", err)
	}
	return numfmt.Simple(v), nil
}

// SpacingThreshold is the smallest difference between final values
// whose annotations are not pushed apart by CalcYSpacing.
const SpacingThreshold = 250000

// spacingPad is the vertical offset, in points, added per crowded
// annotation.
const spacingPad = 15

// A Spacing is the vertical offset of one annotation.
type Spacing struct {
	Column string
	Last   float64
	YPad   float64 // points
}

// CalcYSpacing orders cols by final value, ascending, and offsets the
// annotation of each column that is within SpacingThreshold of the one
// below it. Successive crowded annotations get increasing offsets; the
// increment resets once a gap is wide enough.
func (c *Chart) CalcYSpacing(cols []string) ([]Spacing, error) {
	sp := make([]Spacing, len(cols))
	for i, col := range cols {
		v, err := c.f.Last(col)
		if err != nil {
			return nil, fmt.Errorf("chart: %w", err)
		}
		sp[i] = Spacing{Column: col, Last: v}
	}
	sort.SliceStable(sp, func(i, j int) bool { return sp[i].Last < sp[j].Last })
	mult := 1.0
	for i := 1; i < len(sp); i++ {
		if sp[i].Last-sp[i-1].Last < SpacingThreshold {
			sp[i].YPad = spacingPad * mult
			mult++
		} else {
			mult = 1
		}
	}
	return sp, nil
}

// MultiYoYAnnotate annotates the final point of every column in cols
// with its key label and the text returned by annotation, spacing the
// annotations with CalcYSpacing.
func (c *Chart) MultiYoYAnnotate(cols []string, key frame.Key, annotation func(col string) (string, error), xpad float64) error {
	sp, err := c.CalcYSpacing(cols)
	if err != nil {
		return err
	}
	var errs []error
	for _, s := range sp {
		e, err := key.MustLookup(s.Column)
		if err != nil {
			return fmt.Errorf("chart: %w", err)
		}
		num, err := annotation(s.Column)
		if err != nil {
			return err
		}
		errs = append(errs, c.Annotate(s.Column, AnnotateOptions{
			Num:        num,
			Label:      strings.TrimSpace(e.Label),
			LabelColor: e.Color,
			XPad:       xpad,
			YPad:       s.YPad,
		}))
	}
	return errors.Join(errs...)
}
