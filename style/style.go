// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package style holds the shared palette, font sizes, and the closed
// list of geographic regions used by every chart.
package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Colors is the named palette.
var Colors = map[string]color.RGBA{
	"black75":         MustHex("#404040"),
	"black50":         MustHex("#7F7F7F"),
	"black25":         MustHex("#BFBFBF"),
	"base80":          MustHex("#eaecf0"),
	"base70":          MustHex("#c8ccd1"),
	"orange":          MustHex("#EE8019"),
	"red":             MustHex("#970302"),
	"pink":            MustHex("#E679A6"),
	"green50":         MustHex("#00af89"),
	"purple":          MustHex("#5748B5"),
	"blue":            MustHex("#0E65C0"),
	"brightblue":      MustHex("#049DFF"),
	"brightbluelight": MustHex("#C0E6FF"),
	"yellow":          MustHex("#F0BC00"),
	"green":           MustHex("#308557"),
	"brightgreen":     MustHex("#71D1B3"),
}

// Color returns the named palette color. It panics on unknown names.
func Color(name string) color.RGBA {
	c, ok := Colors[name]
	if !ok {
		panic("style: unknown color " + name)
	}
	return c
}

// KeyColors is the cycle of colors assigned to series in legends.
var KeyColors = []color.Color{
	Color("red"),
	Color("orange"),
	Color("yellow"),
	Color("green"),
	Color("purple"),
	Color("blue"),
	Color("pink"),
	Color("black50"),
	Color("brightblue"),
	Color("red"),
}

// Font sizes in points.
const (
	TitleFontSize = 24
	TextFontSize  = 14
	NoteFontSize  = 8
)

// Unclassed is the region assigned to anything outside Regions.
const Unclassed = "UNCLASSED"

// Regions is the closed set of geographic regions.
var Regions = []string{
	"Northern & Western Europe",
	"North America",
	"East, Southeast Asia, & Pacific",
	"Central & Eastern Europe & Central Asia",
	"Latin America & Caribbean",
	"Middle East & North Africa",
	"South Asia",
	"Sub-Saharan Africa",
}

// IsRegion reports whether name is one of Regions.
func IsRegion(name string) bool {
	for _, r := range Regions {
		if r == name {
			return true
		}
	}
	return false
}

// RegionColumns maps metric file column stems to region names.
var RegionColumns = map[string]string{
	"central_eastern_europe_central_asia": "Central & Eastern Europe & Central Asia",
	"east_southeast_asia_pacific":         "East, Southeast Asia, & Pacific",
	"latin_america_caribbean":             "Latin America & Caribbean",
	"middle_east_north_africa":            "Middle East & North Africa",
	"north_america":                       "North America",
	"northern_western_europe":             "Northern & Western Europe",
	"south_asia":                          "South Asia",
	"subsaharan_africa":                   "Sub-Saharan Africa",
	"unclassed":                           "Unclassed",
	"unknown":                             "Unknown",
}

// RegionRename returns a column rename table for columns named
// <stem><suffix>, such as "south_asia_unique_devices".
func RegionRename(suffix string) map[string]string {
	m := make(map[string]string, len(RegionColumns))
	for stem, name := range RegionColumns {
		m[stem+suffix] = name
	}
	return m
}

// ParseHex parses a "#rrggbb" color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}

// MustHex is like ParseHex but panics on error.
func MustHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
