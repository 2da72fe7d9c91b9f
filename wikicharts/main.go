// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command wikicharts renders Wikimedia movement metrics as PNG charts
// and maps.
//
// Metric files are tab- or comma-separated tables with a "month"
// column and one column per metric. Their locations, the chart author
// and the output directory come from WIKICHARTS_* environment
// variables, which may be set in a dotenv file (see --env):
//
//	WIKICHARTS_AUTHOR                 footer author
//	WIKICHARTS_OUTPUT_DIR             output directory
//	WIKICHARTS_DPI                    output resolution
//	WIKICHARTS_EDITING_DATA           editor metrics
//	WIKICHARTS_READERS_DATA           reader metrics
//	WIKICHARTS_UNIQUE_DEVICES_DATA    unique devices per region
//	WIKICHARTS_REGIONAL_EDITORS_DATA  active editors per region
//	WIKICHARTS_CONTENT_GAP_DATA       quality articles per category
//	WIKICHARTS_CONTENT_QUALITY_DATA   quality articles per region
//	WIKICHARTS_COUNTRIES              GeoJSON country outlines
//	WIKICHARTS_COUNTRY_REGIONS        country to region table
//
// Each subcommand writes one or more PNG files. With --svg, a quick SVG
// sketch of each chart's data is written next to it.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wikimedia/wikicharts/chart"
	"github.com/wikimedia/wikicharts/frame"
	"github.com/wikimedia/wikicharts/internal/config"
)

func main() {
	log.SetPrefix("wikicharts: ")
	log.SetFlags(0)

	if err := newRootCommand(&env{now: time.Now}).Execute(); err != nil {
		log.Fatal(err)
	}
}

// env is the state shared by every subcommand.
type env struct {
	cfg *config.Config
	now func() time.Time

	envFile string
	out     string
	dpi     int
	preview bool
	svg     bool
}

func newRootCommand(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "wikicharts",
		Short:         "Render Wikimedia movement metrics as charts and maps",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return e.load()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&e.envFile, "env", ".env", "load settings from dotenv `file` if it exists")
	pf.StringVarP(&e.out, "out", "o", "", "write images to `dir` (default $WIKICHARTS_OUTPUT_DIR)")
	pf.IntVar(&e.dpi, "dpi", 0, "output resolution (default $WIKICHARTS_DPI or 300)")
	pf.BoolVar(&e.preview, "preview", false, "also write a half-size preview of each image")
	pf.BoolVar(&e.svg, "svg", false, "also write an SVG sketch of each chart's data")

	root.AddCommand(
		newLineCommand(e),
		newMultiCommand(e),
		newRegionalCommand(e),
		newMapsCommand(e),
		newReportCommand(e),
	)
	return root
}

func (e *env) load() error {
	cfg, err := config.Load(e.envFile)
	if err != nil {
		return err
	}
	if e.out != "" {
		cfg.OutputDir = e.out
	}
	if e.dpi != 0 {
		cfg.DPI = e.dpi
	}
	e.cfg = cfg
	return nil
}

func (e *env) chartOptions() chart.Options {
	return chart.Options{Now: e.now, DPI: e.cfg.DPI, Preview: e.preview}
}

// save writes c to name in the output directory, and its sketch if
// requested.
func (e *env) save(c *chart.Chart, name string) error {
	path, err := c.Save(e.cfg.OutputDir, name)
	if err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	if !e.svg {
		return nil
	}
	svg := strings.TrimSuffix(path, ".png") + ".svg"
	f, err := os.Create(svg)
	if err != nil {
		return err
	}
	if err := c.WriteSketch(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", svg, err)
	}
	return f.Close()
}

// window is the date range flags shared by the chart commands.
type window struct {
	start, end string
}

func (w *window) register(cmd *cobra.Command, start string) {
	cmd.Flags().StringVar(&w.start, "start", start, "first `month` to plot")
	cmd.Flags().StringVar(&w.end, "end", "", "last `month` to plot (default: last month in the data)")
}

// apply restricts f to the window and returns the window's bounds.
func (w *window) apply(f *frame.Frame) (*frame.Frame, time.Time, time.Time, error) {
	f = f.SortDedup()
	ts := f.Times()
	if len(ts) == 0 {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("no data")
	}
	start, end := ts[0], ts[len(ts)-1]
	var err error
	if w.start != "" {
		if start, err = frame.ParseTime(w.start); err != nil {
			return nil, start, end, err
		}
	}
	if w.end != "" {
		if end, err = frame.ParseTime(w.end); err != nil {
			return nil, start, end, err
		}
	}
	f = f.Window(start, end)
	if f.Len() == 0 {
		return nil, start, end, fmt.Errorf("no data between %s and %s", start.Format("2006-01"), end.Format("2006-01"))
	}
	return f, start, end, nil
}

// fileName derives an image name from a title, such as
// "Active_Editors.png" for "Active Editors".
func fileName(title string) string {
	return strings.Join(strings.Fields(title), "_") + ".png"
}
