// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/wikimedia/wikicharts/chart"
	"github.com/wikimedia/wikicharts/frame"
	"github.com/wikimedia/wikicharts/style"
)

func newMultiCommand(e *env) *cobra.Command {
	var (
		data, title, file, source string
		cols, labels              []string
		annotate                  string
		xpad                      float64
		legend                    bool
		win                       window
		block                     blockFlags
	)
	cmd := &cobra.Command{
		Use:   "multi",
		Short: "Plot several metrics on one chart",
		Long: `Multi plots several metric columns as lines on one chart and
annotates the last point of each, pushing apart annotations whose
values are close.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if data == "" {
				data = e.cfg.ReadersData
			}
			if len(labels) > 0 && len(labels) != len(cols) {
				return fmt.Errorf("got %d labels for %d columns", len(labels), len(cols))
			}
			if file == "" {
				file = fileName(title)
			}
			log.Printf("Generating %s chart...", title)

			f, err := frame.ReadFile(data, frame.ReadOptions{Columns: cols})
			if err != nil {
				return err
			}
			if f, err = f.Select(cols...); err != nil {
				return fmt.Errorf("%s: %w", data, err)
			}
			f, start, end, err := win.apply(f)
			if err != nil {
				return fmt.Errorf("%s: %w", data, err)
			}
			key := frame.GenKeys([]*frame.Frame{f}, style.KeyColors)[0]
			for i := range key {
				if len(labels) > 0 {
					key[i].Label = labels[i]
				}
			}

			c, err := chart.New(start, end, f, e.chartOptions())
			if err != nil {
				return err
			}
			for _, k := range key {
				if err := c.PlotLine(k.Column, chart.Series{Color: k.Color, Label: k.Label}); err != nil {
					return err
				}
			}
			c.Format(title, chart.FormatOptions{Author: e.cfg.Author, DataSource: source})
			if err := block.apply(c, false); err != nil {
				return err
			}
			if legend {
				c.AddLegend(0)
			}

			var ann func(col string) (string, error)
			switch annotate {
			case "yoy":
				ann = func(col string) (string, error) { return c.CalcYoY(col, "") }
			case "count":
				ann = c.CalcFinalCount
			default:
				return fmt.Errorf("unknown --annotate %q", annotate)
			}
			if err := c.MultiYoYAnnotate(cols, key, ann, xpad); err != nil {
				return err
			}
			return e.save(c, file)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&data, "data", "", "read metrics from `file` (default $WIKICHARTS_READERS_DATA)")
	fl.StringSliceVar(&cols, "cols", nil, "plot metric `columns`")
	fl.StringSliceVar(&labels, "labels", nil, "annotation `labels`, one per column (default: column names)")
	fl.StringVar(&title, "title", "", "chart `title`")
	fl.StringVar(&file, "file", "", "output file `name` (default: derived from the title)")
	fl.StringVar(&source, "source", "", "data source named in the footer")
	fl.StringVar(&annotate, "annotate", "yoy", "annotate each line with yoy or count")
	fl.Float64Var(&xpad, "xpad", 0, "shift annotations right by `points`")
	fl.BoolVar(&legend, "legend", false, "draw a legend below the chart")
	win.register(cmd, "2019-01-01")
	block.register(cmd)
	cmd.MarkFlagRequired("cols")
	cmd.MarkFlagRequired("title")
	return cmd
}
