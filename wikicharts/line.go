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

// blockFlags describe a blocked-off range of months.
type blockFlags struct {
	start, end, note string
	buffer           float64
}

func (b *blockFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&b.start, "block-start", "", "block off the chart from `month`")
	cmd.Flags().StringVar(&b.end, "block-end", "", "block off the chart through `month`")
	cmd.Flags().StringVar(&b.note, "block-note", "", "`text` to write over the blocked-off range")
	cmd.Flags().Float64Var(&b.buffer, "block-buffer", 15, "widen the blocked-off range by `days` on each side")
}

// apply blocks off the range on the current panel, or on every panel if
// multi is set.
func (b *blockFlags) apply(c *chart.Chart, multi bool) error {
	if b.start == "" && b.end == "" {
		return nil
	}
	start, err := frame.ParseTime(b.start)
	if err != nil {
		return fmt.Errorf("--block-start: %w", err)
	}
	end, err := frame.ParseTime(b.end)
	if err != nil {
		return fmt.Errorf("--block-end: %w", err)
	}
	if multi {
		c.BlockOffMulti(start, end, b.buffer)
		return nil
	}
	c.BlockOff(start, end, b.note, b.buffer)
	return nil
}

func newLineCommand(e *env) *cobra.Command {
	var (
		data, col, title, file, source string
		colorName, annotate, note      string
		label                          string
		perc, monthly, noYBuffer       bool
		lossLower, lossUpper           string
		win                            window
		block                          blockFlags
	)
	cmd := &cobra.Command{
		Use:   "line",
		Short: "Plot one metric with its year-over-year change",
		Long: `Line plots one metric column as a line, marks the month of interest in
each year, circles the two months compared by the year-over-year change
and annotates the last point.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if data == "" {
				data = e.cfg.EditingData
			}
			if title == "" {
				title = col
			}
			if file == "" {
				file = fileName(title)
			}
			log.Printf("Generating %s chart...", title)

			f, err := frame.ReadFile(data, frame.ReadOptions{})
			if err != nil {
				return err
			}
			f, start, end, err := win.apply(f)
			if err != nil {
				return fmt.Errorf("%s: %w", data, err)
			}
			c, err := chart.New(start, end, f, e.chartOptions())
			if err != nil {
				return err
			}
			clr, ok := style.Colors[colorName]
			if !ok {
				return fmt.Errorf("unknown color %q", colorName)
			}
			s := chart.Series{Color: clr}
			if err := c.PlotLine(col, s); err != nil {
				return err
			}
			if err := c.PlotMonthlyScatter(col, s); err != nil {
				return err
			}
			if lossLower != "" || lossUpper != "" {
				if err := c.PlotDataLoss(nil, lossLower, lossUpper, chart.Series{}); err != nil {
					return err
				}
			}
			if annotate == "yoy" {
				if err := c.PlotYoYHighlight(col, chart.Series{}); err != nil {
					return err
				}
			}
			xt := chart.XYearly
			if monthly {
				xt = chart.XMonthly
			}
			c.Format(title, chart.FormatOptions{
				Author:     e.cfg.Author,
				DataSource: source,
				NoYBuffer:  noYBuffer,
				XTicks:     xt,
				Perc:       perc,
			})
			if err := block.apply(c, false); err != nil {
				return err
			}

			o := chart.AnnotateOptions{Label: label, LabelColor: clr, Perc: perc}
			switch annotate {
			case "yoy":
				if o.Num, err = c.CalcYoY(col, note); err != nil {
					return err
				}
			case "count":
				if o.Num, err = c.CalcFinalCount(col); err != nil {
					return err
				}
			case "last":
				o.UseLastY = true
			case "mean":
				if err := c.AnnotateMean(col, chart.MeanOptions{TextColor: clr, ShowMedian: true}); err != nil {
					return err
				}
			case "none":
			default:
				return fmt.Errorf("unknown --annotate %q", annotate)
			}
			if o.Num != "" || o.UseLastY {
				if err := c.Annotate(col, o); err != nil {
					return err
				}
			}
			return e.save(c, file)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&data, "data", "", "read metrics from `file` (default $WIKICHARTS_EDITING_DATA)")
	fl.StringVar(&col, "col", "", "plot metric `column`")
	fl.StringVar(&title, "title", "", "chart `title` (default: the column name)")
	fl.StringVar(&file, "file", "", "output file `name` (default: derived from the title)")
	fl.StringVar(&source, "source", "", "data source named in the footer")
	fl.StringVar(&colorName, "color", "blue", "line `color` name")
	fl.StringVar(&label, "label", "", "label drawn before the annotation")
	fl.StringVar(&annotate, "annotate", "yoy", "annotate the last point with yoy, count, last, mean or none")
	fl.StringVar(&note, "yoy-note", "", "`text` appended to the year-over-year annotation")
	fl.BoolVar(&perc, "perc", false, "the metric is a fraction; label it as a percentage")
	fl.BoolVar(&monthly, "monthly", false, "label every month on the x axis instead of every year")
	fl.BoolVar(&noYBuffer, "no-ybuffer", false, "do not pad the y axis below the data")
	fl.StringVar(&lossLower, "loss-lower", "", "shade a data loss band from `column`")
	fl.StringVar(&lossUpper, "loss-upper", "", "shade a data loss band up to `column`")
	win.register(cmd, "2019-01-01")
	block.register(cmd)
	cmd.MarkFlagRequired("col")
	return cmd
}
