// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raster

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func TestPreviewPath(t *testing.T) {
	for _, test := range []struct{ in, want string }{
		{"out/editors.png", "out/editors_preview.png"},
		{"editors", "editors_preview.png"},
		{"a.b/c.png", "a.b/c_preview.png"},
	} {
		if got := PreviewPath(test.in); got != test.want {
			t.Errorf("PreviewPath(%q) = %q; want %q", test.in, got, test.want)
		}
	}
}

func TestHalf(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			src.Set(x, y, color.RGBA{0x80, 0, 0, 0xff})
		}
	}
	dst := Half(src)
	if got := dst.Bounds().Size(); got != (image.Point{5, 3}) {
		t.Fatalf("Half size = %v; want (5,3)", got)
	}
	if got := dst.RGBAAt(2, 1); got != (color.RGBA{0x80, 0, 0, 0xff}) {
		t.Errorf("Half pixel = %v; want uniform color", got)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.png")
	fig := Figure{
		Width: 2, Height: 1,
		Draw: func(c draw.Canvas) {
			r := vg.Rectangle{Min: c.Min, Max: c.Min.Add(vg.Point{X: vg.Inch, Y: vg.Inch})}
			c.FillPolygon(color.Black, []vg.Point{r.Min, {X: r.Max.X, Y: r.Min.Y}, r.Max, {X: r.Min.X, Y: r.Max.Y}})
		},
	}
	if err := Save(path, fig, 20, true); err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		path string
		want image.Point
	}{
		{path, image.Point{40, 20}},
		{PreviewPath(path), image.Point{20, 10}},
	} {
		f, err := os.Open(test.path)
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decoding %s: %v", test.path, err)
		}
		if got := img.Bounds().Size(); got != test.want {
			t.Errorf("%s size = %v; want %v", filepath.Base(test.path), got, test.want)
		}
		// The left half is black and the right half is the white
		// background.
		r, _, _, _ := img.At(img.Bounds().Dx()/4, img.Bounds().Dy()/2).RGBA()
		if r > 0x1000 {
			t.Errorf("%s: left half is not black", filepath.Base(test.path))
		}
		r, _, _, _ = img.At(3*img.Bounds().Dx()/4, img.Bounds().Dy()/2).RGBA()
		if r < 0xf000 {
			t.Errorf("%s: right half is not white", filepath.Base(test.path))
		}
	}
}
