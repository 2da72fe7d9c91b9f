// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"io/fs"
	"log"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wikimedia/wikicharts/frame"
	"github.com/wikimedia/wikicharts/geomap"
	"github.com/wikimedia/wikicharts/metrics"
	"github.com/wikimedia/wikicharts/style"
)

// Region table columns filled by the maps command.
const (
	colPopShare  = "population_share"
	colDevices   = "unique_devices"
	colDevShare  = "unique_devices_share"
	colDevYoY    = "unique_devices_yoy"
	colEditors   = "editors"
	colEdShare   = "editors_share"
	colEdYoY     = "editors_yoy"
	colQuality   = "quality_articles"
	colQualShare = "quality_articles_share"
	colQualYoY   = "quality_articles_yoy"
	labelSuffix  = "_label"
)

// A mapSpec describes one map image. Maps with an empty col show the
// region outlines only.
type mapSpec struct {
	file, title string
	source      string
	col         string
	labelCol    string
	perc        bool
	month       time.Time

	// centered spans the color scale symmetrically around zero.
	centered bool
}

func newMapsCommand(e *env) *cobra.Command {
	var devicesSource, editorsSource, qualitySource string
	cmd := &cobra.Command{
		Use:   "maps",
		Short: "Draw world maps of regional metrics",
		Long: `Maps draws a world map of the regions, then for population, unique
devices, active editors and, if available, quality articles, a map of
each region's latest value, its share of the total, and its
year-over-year change.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			log.Printf("Generating maps...")
			cs, err := geomap.LoadCountries(e.cfg.Countries, e.cfg.CountryRegions)
			if err != nil {
				return err
			}
			rt, err := geomap.NewRegionTable(cs)
			if err != nil {
				return err
			}
			if err := rt.AdjustAll(geomap.DefaultOffsets); err != nil {
				return err
			}

			specs := []mapSpec{
				{file: "Map_RegionNames.png", title: "Wikimedia Regions", labelCol: geomap.NameCol},
			}
			rt.SetLabels(geomap.PopulationCol, geomap.PopulationCol+labelSuffix)
			rt.Shares(geomap.PopulationCol, colPopShare, colPopShare+labelSuffix)
			specs = append(specs,
				mapSpec{file: "Map_WorldPop.png", title: "World Population", source: "Natural Earth",
					col: geomap.PopulationCol, labelCol: geomap.PopulationCol + labelSuffix},
				mapSpec{file: "Map_WorldPopPerc.png", title: "World Population Share", source: "Natural Earth",
					col: colPopShare, labelCol: colPopShare + labelSuffix, perc: true},
			)

			sources := []struct {
				path, suffix, source string
				col, share, yoy      string
				file, title          string
				optional             bool
			}{
				{e.cfg.UniqueDevicesData, "_unique_devices", devicesSource,
					colDevices, colDevShare, colDevYoY, "UniqueDevices", "Unique Devices", false},
				{e.cfg.RegionalEditorsData, "", editorsSource,
					colEditors, colEdShare, colEdYoY, "Editors", "Active Editors", false},
				{e.cfg.ContentQualityData, "", qualitySource,
					colQuality, colQualShare, colQualYoY, "QualityArticles", "Quality Articles", true},
			}
			for _, src := range sources {
				if src.optional {
					if _, err := os.Stat(src.path); errors.Is(err, fs.ErrNotExist) {
						log.Printf("%s: not found, skipping %s maps", src.path, src.title)
						continue
					}
				}
				f, err := frame.ReadFile(src.path, frame.ReadOptions{Rename: style.RegionRename(src.suffix)})
				if err != nil {
					return err
				}
				f = f.SortDedup()
				month, err := rt.MergeLatest(frame.Long(f), src.col)
				if err != nil {
					return err
				}
				rt.SetLabels(src.col, src.col+labelSuffix)
				rt.Shares(src.col, src.share, src.share+labelSuffix)
				change, err := metrics.ChangeOverTime(frame.Long(frame.Roll(f, 3)), metrics.Offset{Years: 1})
				if err != nil {
					return err
				}
				if err := rt.SetChange(src.yoy, src.yoy+labelSuffix, change); err != nil {
					return err
				}
				specs = append(specs,
					mapSpec{file: "Map_" + src.file + ".png", title: src.title, source: src.source,
						col: src.col, labelCol: src.col + labelSuffix, month: month},
					mapSpec{file: "Map_" + src.file + "Perc.png", title: src.title + " Share", source: src.source,
						col: src.share, labelCol: src.share + labelSuffix, perc: true, month: month},
					mapSpec{file: "Map_" + src.file + "Yoy.png", title: src.title + " YoY Change", source: src.source,
						col: src.yoy, labelCol: src.yoy + labelSuffix, perc: true, month: month, centered: true},
				)
			}

			for _, s := range specs {
				if err := e.drawMap(cs, rt, s); err != nil {
					return err
				}
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&devicesSource, "devices-source", "Wikistats", "data source named on the unique devices maps")
	fl.StringVar(&editorsSource, "editors-source", "Wikistats", "data source named on the editor maps")
	fl.StringVar(&qualitySource, "quality-source", "Knowledge Gaps Index", "data source named on the quality article maps")
	return cmd
}

// drawMap renders s from the values in rt.
func (e *env) drawMap(cs []geomap.Country, rt *geomap.RegionTable, s mapSpec) error {
	m := geomap.New(cs, geomap.MapOptions{
		Title:      s.title,
		Month:      s.month,
		Author:     e.cfg.Author,
		DataSource: s.source,
		DPI:        e.cfg.DPI,
		Preview:    e.preview,
		Now:        e.now,
	})
	fontSize := 12.0
	if s.col == "" {
		fontSize = 10
	} else {
		var o geomap.ColorbarOptions
		if s.centered {
			lim := 0.0
			for _, v := range rt.Values(s.col) {
				if !math.IsNaN(v) && !math.IsInf(v, 0) {
					lim = math.Max(lim, math.Abs(v))
				}
			}
			if lim > 0 {
				o = geomap.ColorbarOptions{Limits: true, VMin: -lim, VMax: lim}
			}
		}
		if err := m.PlotColorbar(rt, s.col, o); err != nil {
			return err
		}
	}
	m.PlotRegions(rt, s.labelCol, fontSize)
	m.FormatMap(s.col != "", s.perc)
	path, err := m.Save(e.cfg.OutputDir, s.file)
	if err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	return nil
}
