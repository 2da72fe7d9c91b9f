// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads wikicharts settings from the environment and
// optional dotenv files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the author, data file locations and output settings
// shared by every chart.
type Config struct {
	Author    string
	OutputDir string
	DPI       int

	EditingData         string
	ReadersData         string
	UniqueDevicesData   string
	ContentGapData      string
	RegionalEditorsData string
	ContentQualityData  string

	// Countries is a GeoJSON feature collection of country outlines.
	Countries string
	// CountryRegions maps countries to regions.
	CountryRegions string
}

// vars maps environment variables to fields and their defaults.
var vars = []struct {
	name, def string
	field     func(*Config) *string
}{
	{"WIKICHARTS_AUTHOR", "Wikimedia Foundation", func(c *Config) *string { return &c.Author }},
	{"WIKICHARTS_OUTPUT_DIR", "charts", func(c *Config) *string { return &c.OutputDir }},
	{"WIKICHARTS_EDITING_DATA", "resources/data/editor_metrics.tsv", func(c *Config) *string { return &c.EditingData }},
	{"WIKICHARTS_READERS_DATA", "resources/data/reader_metrics.tsv", func(c *Config) *string { return &c.ReadersData }},
	{"WIKICHARTS_UNIQUE_DEVICES_DATA", "resources/data/unique_devices_per_region.tsv", func(c *Config) *string { return &c.UniqueDevicesData }},
	{"WIKICHARTS_CONTENT_GAP_DATA", "resources/data/content_gap_metrics.tsv", func(c *Config) *string { return &c.ContentGapData }},
	{"WIKICHARTS_REGIONAL_EDITORS_DATA", "resources/data/regional_editor_metrics.tsv", func(c *Config) *string { return &c.RegionalEditorsData }},
	{"WIKICHARTS_CONTENT_QUALITY_DATA", "resources/data/content_quality.csv", func(c *Config) *string { return &c.ContentQualityData }},
	{"WIKICHARTS_COUNTRIES", "resources/geo/countries.geojson", func(c *Config) *string { return &c.Countries }},
	{"WIKICHARTS_COUNTRY_REGIONS", "resources/geo/country_regions.csv", func(c *Config) *string { return &c.CountryRegions }},
}

// DefaultDPI is the output resolution when WIKICHARTS_DPI is unset.
const DefaultDPI = 300

// Load reads each dotenv file in files into the environment, skipping
// files that do not exist, then builds a Config from the environment.
// Variables already set in the environment take precedence over the
// files.
func Load(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	c := &Config{DPI: DefaultDPI}
	for _, v := range vars {
		s, ok := os.LookupEnv(v.name)
		if !ok || s == "" {
			s = v.def
		}
		*v.field(c) = s
	}
	if s := os.Getenv("WIKICHARTS_DPI"); s != "" {
		dpi, err := strconv.Atoi(s)
		if err != nil || dpi <= 0 {
			return nil, fmt.Errorf("bad WIKICHARTS_DPI %q", s)
		}
		c.DPI = dpi
	}
	return c, nil
}
