// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package raster writes gonum drawings to PNG files.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// A Figure is a drawing of a fixed size.
type Figure struct {
	// Width and Height are in inches.
	Width, Height float64

	// Draw draws the figure onto c, which spans the whole image.
	Draw func(c draw.Canvas)
}

// Render draws fig on a white background at dpi dots per inch.
func Render(fig Figure, dpi int) *vgimg.Canvas {
	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(fig.Width)*vg.Inch, vg.Length(fig.Height)*vg.Inch),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(color.White),
	)
	fig.Draw(draw.New(img))
	return img
}

// PreviewPath returns the path of the preview image for path.
func PreviewPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_preview.png"
}

// Save renders fig at dpi and writes it as a PNG to path. If preview is
// set, it also writes a half-size copy to PreviewPath(path).
func Save(path string, fig Figure, dpi int, preview bool) error {
	img := Render(fig, dpi)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if preview {
		return writePNG(PreviewPath(path), Half(img.Image()))
	}
	return nil
}

// Half scales src to half its width and height.
func Half(src image.Image) *image.RGBA {
	sb := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, sb.Dx()/2, sb.Dy()/2))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, sb, xdraw.Over, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
