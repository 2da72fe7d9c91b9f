// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geomap

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/samber/lo"

	"github.com/wikimedia/wikicharts/frame"
	"github.com/wikimedia/wikicharts/numfmt"
	"github.com/wikimedia/wikicharts/style"
)

// NameCol is the label column holding each region's own name.
const NameCol = "region"

// PopulationCol is the value column holding each region's total
// population.
const PopulationCol = "population"

// A Region is one row of a RegionTable.
type Region struct {
	Name string

	// Boundary is the outer edge of the region's countries.
	Boundary orb.MultiLineString

	// Anchor is where the region's label is drawn. It starts at the
	// area centroid of the region.
	Anchor orb.Point

	values map[string]float64
	labels map[string]string
}

// A RegionTable holds per-region values and labels for every region in
// style.Regions.
type RegionTable struct {
	regions []*Region
	byName  map[string]*Region
}

// NewRegionTable builds the region table for cs. Every region must
// have at least one country. Unclassified countries are left out.
func NewRegionTable(cs []Country) (*RegionTable, error) {
	rt := &RegionTable{byName: map[string]*Region{}}
	for _, name := range style.Regions {
		members := lo.Filter(cs, func(c Country, _ int) bool { return c.Region == name })
		if len(members) == 0 {
			return nil, fmt.Errorf("region %q has no countries", name)
		}
		var mp orb.MultiPolygon
		for _, c := range members {
			mp = append(mp, c.Geometry...)
		}
		anchor, _ := planar.CentroidArea(mp)
		r := &Region{
			Name:     name,
			Boundary: outline(mp),
			Anchor:   anchor,
			values: map[string]float64{
				PopulationCol: lo.SumBy(members, func(c Country) float64 { return c.Population }),
			},
			labels: map[string]string{NameCol: name},
		}
		rt.regions = append(rt.regions, r)
		rt.byName[name] = r
	}
	return rt, nil
}

type edge [2]orb.Point

func (e edge) key() edge {
	a, b := e[0], e[1]
	if b[0] < a[0] || (b[0] == a[0] && b[1] < a[1]) {
		return edge{b, a}
	}
	return e
}

// outline returns the edges of mp that belong to only one ring. Edges
// shared by neighboring countries cancel, leaving the outer boundary.
// Runs of consecutive kept edges are joined into line strings.
func outline(mp orb.MultiPolygon) orb.MultiLineString {
	count := map[edge]int{}
	forEachEdge(mp, func(e edge) { count[e.key()]++ })

	var out orb.MultiLineString
	var cur orb.LineString
	flush := func() {
		if len(cur) > 1 {
			out = append(out, cur)
		}
		cur = nil
	}
	forEachEdge(mp, func(e edge) {
		if count[e.key()] != 1 {
			flush()
			return
		}
		if len(cur) == 0 || cur[len(cur)-1] != e[0] {
			flush()
			cur = orb.LineString{e[0]}
		}
		cur = append(cur, e[1])
	})
	flush()
	return out
}

func forEachEdge(mp orb.MultiPolygon, fn func(edge)) {
	for _, poly := range mp {
		for _, ring := range poly {
			for i := 0; i+1 < len(ring); i++ {
				if ring[i] != ring[i+1] {
					fn(edge{ring[i], ring[i+1]})
				}
			}
		}
	}
}

// Regions returns the rows of rt in style.Regions order.
func (rt *RegionTable) Regions() []*Region {
	return rt.regions
}

func (rt *RegionTable) region(name string) (*Region, error) {
	r, ok := rt.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown region %q", name)
	}
	return r, nil
}

// An Offset nudges a region's label, in map units (degrees).
type Offset struct {
	Region string
	DX, DY float64
}

// DefaultOffsets moves labels that collide on a world map.
var DefaultOffsets = []Offset{
	{"Middle East & North Africa", 0, 3},
	{"South Asia", 0, -3},
	{"Northern & Western Europe", 15, -18},
	{"Central & Eastern Europe & Central Asia", 0, 2},
}

// Adjust moves the label of region name by (dx, dy).
func (rt *RegionTable) Adjust(name string, dx, dy float64) error {
	r, err := rt.region(name)
	if err != nil {
		return err
	}
	r.Anchor = orb.Point{r.Anchor[0] + dx, r.Anchor[1] + dy}
	return nil
}

// AdjustAll applies offs with Adjust.
func (rt *RegionTable) AdjustAll(offs []Offset) error {
	for _, o := range offs {
		if err := rt.Adjust(o.Region, o.DX, o.DY); err != nil {
			return err
		}
	}
	return nil
}

// Set sets value column col of region name to v.
func (rt *RegionTable) Set(name, col string, v float64) error {
	r, err := rt.region(name)
	if err != nil {
		return err
	}
	r.values[col] = v
	return nil
}

// Value returns value column col of region name. Unset values are NaN.
func (rt *RegionTable) Value(name, col string) (float64, error) {
	r, err := rt.region(name)
	if err != nil {
		return 0, err
	}
	return valueOrNaN(r, col), nil
}

// Values returns value column col of every region, in Regions order.
func (rt *RegionTable) Values(col string) []float64 {
	return lo.Map(rt.regions, func(r *Region, _ int) float64 { return valueOrNaN(r, col) })
}

// Label returns label column col of region name, or "" if unset.
func (rt *RegionTable) Label(name, col string) (string, error) {
	r, err := rt.region(name)
	if err != nil {
		return "", err
	}
	return r.labels[col], nil
}

// SetLabels labels every region with value column col, rounded to two
// significant figures, storing the result in label column labelCol.
func (rt *RegionTable) SetLabels(col, labelCol string) {
	for _, r := range rt.regions {
		r.labels[labelCol] = numfmt.Format(valueOrNaN(r, col), numfmt.Options{RoundSigFigs: true})
	}
}

func valueOrNaN(r *Region, col string) float64 {
	if v, ok := r.values[col]; ok {
		return v
	}
	return math.NaN()
}

// Shares sets value column shareCol to each region's fraction of the
// total of col, and label column labelCol to that fraction as a
// percentage. Regions without a value for col are left out of the
// total.
func (rt *RegionTable) Shares(col, shareCol, labelCol string) {
	total := 0.0
	for _, r := range rt.regions {
		if v := valueOrNaN(r, col); !math.IsNaN(v) {
			total += v
		}
	}
	for _, r := range rt.regions {
		share := valueOrNaN(r, col) / total
		r.values[shareCol] = share
		r.labels[labelCol] = numfmt.Perc(share*100, 2, false)
	}
}

// isUnclassed reports whether a series name is a catch-all bucket
// rather than a region.
func isUnclassed(name string) bool {
	return strings.EqualFold(name, style.Unclassed) || strings.EqualFold(name, "unknown")
}

// MergeLatest sets value column col of every region to its observation
// in the latest month of obs, and returns that month. Unclassified
// series are ignored; any other series that is not a region is an
// error.
func (rt *RegionTable) MergeLatest(obs []frame.Observation, col string) (time.Time, error) {
	if len(obs) == 0 {
		return time.Time{}, fmt.Errorf("merging %s: no observations", col)
	}
	latest := lo.MaxBy(obs, func(a, b frame.Observation) bool {
		return a.Month.After(b.Month)
	}).Month
	for _, o := range obs {
		if !o.Month.Equal(latest) || isUnclassed(o.Series) {
			continue
		}
		if err := rt.Set(o.Series, col, o.Value); err != nil {
			return time.Time{}, fmt.Errorf("merging %s: %w", col, err)
		}
	}
	return latest, nil
}

// SetChange sets value column col from changes, a map from region to
// fractional change such as metrics.ChangeOverTime returns, and label
// column labelCol to the signed percentage. Regions missing from
// changes get NaN and an "N/A" label.
func (rt *RegionTable) SetChange(col, labelCol string, changes map[string]float64) error {
	for name := range changes {
		if _, err := rt.region(name); err != nil && !isUnclassed(name) {
			return err
		}
	}
	for _, r := range rt.regions {
		v, ok := changes[r.Name]
		if !ok {
			v = math.NaN()
		}
		r.values[col] = v
		r.labels[labelCol] = numfmt.Perc(v*100, 2, true)
	}
	return nil
}
