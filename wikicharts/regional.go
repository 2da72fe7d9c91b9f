// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wikimedia/wikicharts/chart"
	"github.com/wikimedia/wikicharts/frame"
	"github.com/wikimedia/wikicharts/style"
)

// Regional small multiples are laid out 2 x 4.
const (
	regionalRows, regionalCols = 2, 4
	regionalPerFigure          = regionalRows * regionalCols
)

func newRegionalCommand(e *env) *cobra.Command {
	var (
		data, title, base, source, suffix string
		rolling                           int
		individual                        bool
		win                               window
		block                             blockFlags
	)
	cmd := &cobra.Command{
		Use:   "regional",
		Short: "Plot a metric per region as small multiples",
		Long: `Regional plots each region's column as its own panel with a trend
line, eight panels per figure, ordered by the latest value. All panels
of all figures share one y scale. It then plots each region on its own
chart.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if data == "" {
				data = e.cfg.RegionalEditorsData
			}
			log.Printf("Generating %s charts...", title)

			var ro frame.ReadOptions
			if suffix != "" {
				ro.Rename = style.RegionRename(suffix)
			}
			f, err := frame.ReadFile(data, ro)
			if err != nil {
				return err
			}
			if rolling > 1 {
				f = frame.Roll(f.SortDedup(), rolling)
			}
			f, start, end, err := win.apply(f)
			if err != nil {
				return fmt.Errorf("%s: %w", data, err)
			}
			f = f.OrderByLast()

			chunks := frame.Split(f, regionalPerFigure)
			keys := frame.GenKeys(chunks, style.KeyColors)
			charts := make([]*chart.Chart, len(chunks))
			for i, chunk := range chunks {
				c, err := chart.New(start, end, chunk, e.chartOptions())
				if err != nil {
					return err
				}
				n := len(keys[i])
				c.Init(12, 6, regionalRows, regionalCols)
				if err := c.PlotSubplotLines(keys[i], 1.5, n, 9); err != nil {
					return err
				}
				if err := c.PlotTrendlines(keys[i], 1, n); err != nil {
					return err
				}
				c.FormatSubplots(title, chart.SubplotOptions{
					Author:       e.cfg.Author,
					DataSource:   source,
					NumCharts:    n,
					TickFontSize: 8,
				})
				c.CleanYLabels(8)
				if err := block.apply(c, true); err != nil {
					return err
				}
				if block.start != "" {
					c.TopAnnotation(0.07, 0.868, "Hatched areas mark incomplete data")
					c.AddBlockLegend()
				}
				charts[i] = c
			}

			yrange, ticks := chart.MaxYRangeOf(charts...)
			for i, c := range charts {
				if err := c.StandardizeSubplotYRange(yrange, ticks, len(keys[i])); err != nil {
					return err
				}
				name := fmt.Sprintf("%s_All.png", base)
				if len(charts) > 1 {
					name = fmt.Sprintf("%s_All_%d.png", base, i+1)
				}
				if err := e.save(c, name); err != nil {
					return err
				}
			}

			if !individual {
				return nil
			}
			for _, key := range keys {
				for _, k := range key {
					if err := e.regionChart(f, k, start, end, title, base, source); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&data, "data", "", "read metrics from `file` (default $WIKICHARTS_REGIONAL_EDITORS_DATA)")
	fl.StringVar(&title, "title", "Regional Active Editors", "figure `title`")
	fl.StringVar(&base, "file", "Regional_Active_Editors", "output file name `prefix`")
	fl.StringVar(&source, "source", "", "data source named in the footer")
	fl.StringVar(&suffix, "suffix", "", "strip `suffix` from region column names, such as _unique_devices")
	fl.IntVar(&rolling, "rolling", 0, "plot the trailing mean over `n` months")
	fl.BoolVar(&individual, "individual", true, "also plot each region on its own chart")
	win.register(cmd, "")
	block.register(cmd)
	return cmd
}

// regionChart plots one region's column on its own chart, annotated
// with its year-over-year change.
func (e *env) regionChart(f *frame.Frame, k frame.KeyEntry, start, end time.Time, title, base, source string) error {
	rf, err := f.Select(k.Column)
	if err != nil {
		return err
	}
	if rf, err = rf.DropNaN(k.Column); err != nil {
		return err
	}
	if rf.Len() == 0 {
		log.Printf("%s: no data, skipping", k.Column)
		return nil
	}
	c, err := chart.New(start, end, rf, e.chartOptions())
	if err != nil {
		return err
	}
	s := chart.Series{Color: k.Color}
	if err := c.PlotLine(k.Column, s); err != nil {
		return err
	}
	if err := c.PlotMonthlyScatter(k.Column, s); err != nil {
		return err
	}
	if err := c.PlotYoYHighlight(k.Column, chart.Series{}); err != nil {
		return err
	}
	c.Format(fmt.Sprintf("%s: %s", strings.TrimPrefix(title, "Regional "), k.Label), chart.FormatOptions{
		Author:     e.cfg.Author,
		DataSource: source,
		NoYBuffer:  true,
		Margins:    chart.Margins{Left: 0.1, Right: 0.85, Top: 0.825, Bottom: 0.125},
		TitlePad:   25,
	})
	yoy, err := c.CalcYoY(k.Column, "")
	if err != nil {
		return err
	}
	if err := c.Annotate(k.Column, chart.AnnotateOptions{Num: yoy, LabelColor: k.Color}); err != nil {
		return err
	}
	return e.save(c, fmt.Sprintf("%s_%s.png", base, strings.ReplaceAll(k.Column, " ", "_")))
}
