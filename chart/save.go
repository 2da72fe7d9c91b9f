// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"github.com/wikimedia/wikicharts/frame"
	"github.com/wikimedia/wikicharts/internal/raster"
)

// Save renders the chart to dir/name as a PNG and returns the path
// written. If the chart was created with Options.Preview, a half-size
// copy is written next to it.
func (c *Chart) Save(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	fig := raster.Figure{Width: c.width, Height: c.height, Draw: c.draw}
	if err := raster.Save(path, fig, c.dpi, c.prev); err != nil {
		return "", fmt.Errorf("chart: %w", err)
	}
	return path, nil
}

// fracYear returns t as a fractional year, such as 2023.5.
func fracYear(t time.Time) float64 {
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(1, 0, 0)
	return float64(t.Year()) + float64(t.Sub(start))/float64(end.Sub(start))
}

// WriteSketch writes a quick SVG line plot of cols, or of every column
// if cols is empty, to w. It is meant for checking data, not for
// publication.
func (c *Chart) WriteSketch(w io.Writer, cols ...string) error {
	f := c.f
	if len(cols) > 0 {
		var err error
		if f, err = f.Select(cols...); err != nil {
			return fmt.Errorf("chart: %w", err)
		}
	}
	var years, values []float64
	var series []string
	for _, o := range frame.Long(f) {
		if math.IsNaN(o.Value) {
			continue
		}
		years = append(years, fracYear(o.Month))
		series = append(series, o.Series)
		values = append(values, o.Value)
	}
	if len(years) == 0 {
		return fmt.Errorf("chart: nothing to sketch")
	}
	tbl := table.NewBuilder(nil).
		Add("year", years).
		Add("series", series).
		Add("value", values).
		Done()

	plot := gg.NewPlot(tbl)
	plot.Add(gg.LayerLines{X: "year", Y: "value", Color: "series"})
	plot.Add(gg.Title(c.Title("Sketch")))
	return plot.WriteSVG(w, 800, 480)
}
