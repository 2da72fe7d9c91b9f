// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package style

import (
	"image/color"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Typeface and Variant select the font used for all text. Liberation
// Sans ships with gonum's default font cache.
const (
	Typeface = "Liberation"
	Variant  = "Sans"
)

// Font returns the chart font at size points.
func Font(size float64, bold bool) font.Font {
	f := font.Font{Typeface: Typeface, Variant: Variant, Size: vg.Points(size)}
	if bold {
		f.Weight = xfont.WeightBold
	}
	return f
}

// Text returns a left-aligned, bottom-anchored text style.
func Text(size float64, c color.Color, bold bool) text.Style {
	return text.Style{
		Color:   c,
		Font:    Font(size, bold),
		XAlign:  text.XLeft,
		YAlign:  text.YBottom,
		Handler: plot.DefaultTextHandler,
	}
}
