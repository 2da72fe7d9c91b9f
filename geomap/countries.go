// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geomap draws world choropleth maps aggregated by Wikimedia
// region.
//
// Country outlines come from a GeoJSON feature collection (for
// example, Natural Earth's low resolution admin 0 countries) and are
// assigned to regions by a separate country reference table. A
// RegionTable holds the per-region values and labels drawn by a Map.
package geomap

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/wikimedia/wikicharts/style"
)

// A Country is one country outline with its population and region.
type Country struct {
	Name       string
	ISO3       string
	Population float64

	// Region is one of style.Regions, or style.Unclassed.
	Region string

	Geometry orb.MultiPolygon
}

// excluded countries are never drawn.
var excluded = map[string]bool{"Antarctica": true}

// LoadCountries reads country outlines from the GeoJSON file at
// geoPath and assigns regions from the CSV reference table at
// regionPath.
func LoadCountries(geoPath, regionPath string) ([]Country, error) {
	g, err := os.Open(geoPath)
	if err != nil {
		return nil, err
	}
	defer g.Close()
	r, err := os.Open(regionPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	cs, err := ReadCountries(g, r)
	if err != nil {
		return nil, fmt.Errorf("loading countries: %w", err)
	}
	return cs, nil
}

// ReadCountries reads a GeoJSON feature collection of countries and a
// region reference table.
//
// Features must have "name", "iso_a3" and "pop_est" properties and a
// Polygon or MultiPolygon geometry. The reference table is a CSV file
// with a header and the columns "name", "iso_alpha3_code" and
// "region". Countries are matched by ISO code, then by name. Countries
// with no match, or whose region is not one of style.Regions, are
// assigned style.Unclassed.
func ReadCountries(geo, regions io.Reader) ([]Country, error) {
	data, err := io.ReadAll(geo)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing GeoJSON: %w", err)
	}
	byISO, byName, err := readRegionRef(regions)
	if err != nil {
		return nil, err
	}

	var cs []Country
	unclassed := 0
	for i, f := range fc.Features {
		c := Country{
			Name:       f.Properties.MustString("name", ""),
			ISO3:       f.Properties.MustString("iso_a3", ""),
			Population: f.Properties.MustFloat64("pop_est", 0),
		}
		if excluded[c.Name] {
			continue
		}
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			c.Geometry = orb.MultiPolygon{g}
		case orb.MultiPolygon:
			c.Geometry = g
		default:
			return nil, fmt.Errorf("feature %d (%s): unsupported geometry %T", i, c.Name, f.Geometry)
		}
		region, ok := byISO[c.ISO3]
		if !ok {
			region, ok = byName[c.Name]
		}
		if !ok || !style.IsRegion(region) {
			region = style.Unclassed
			unclassed++
		}
		c.Region = region
		cs = append(cs, c)
	}
	if unclassed > 0 {
		log.Printf("%d of %d countries have no region", unclassed, len(cs))
	}
	return cs, nil
}

func readRegionRef(r io.Reader) (byISO, byName map[string]string, err error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading region table header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, need := range []string{"name", "iso_alpha3_code", "region"} {
		if _, ok := col[need]; !ok {
			return nil, nil, fmt.Errorf("region table has no %q column", need)
		}
	}
	byISO, byName = map[string]string{}, map[string]string{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, fmt.Errorf("reading region table: %w", err)
		}
		region := strings.TrimSpace(rec[col["region"]])
		if iso := strings.TrimSpace(rec[col["iso_alpha3_code"]]); iso != "" {
			byISO[iso] = region
		}
		byName[strings.TrimSpace(rec[col["name"]])] = region
	}
	return byISO, byName, nil
}

// Bound returns the bounding box of cs.
func Bound(cs []Country) orb.Bound {
	if len(cs) == 0 {
		return orb.Bound{}
	}
	b := cs[0].Geometry.Bound()
	for _, c := range cs[1:] {
		b = b.Union(c.Geometry.Bound())
	}
	return b
}
