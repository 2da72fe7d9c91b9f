// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/wikimedia/wikicharts/frame"
	"github.com/wikimedia/wikicharts/metrics"
	"github.com/wikimedia/wikicharts/numfmt"
	"github.com/wikimedia/wikicharts/style"
)

// Content gap files have one cumulative column per category, named
// totalPrefix + category.
const (
	totalPrefix  = "total_quality_articles_about_"
	netNewPrefix = "net_new_quality_articles_about_"
)

var (
	genderCategories   = []string{"gender_diverse", "males", "females"}
	genderMinorities   = []string{"gender_diverse", "females"}
	regionCategories   = append(append([]string{}, style.Regions...), style.Unclassed)
	wellCoveredRegions = []string{
		"Central & Eastern Europe & Central Asia",
		"North America",
		"Northern & Western Europe",
		style.Unclassed,
	}
)

// Derived sum columns of the content gap report.
const (
	colGenderMinorities = "gender_minorities_net_new_articles_sum"
	colAllGenders       = "all_genders_net_new_articles_sum"
	colUnderrepRegions  = "underrepresented_regions_net_new_articles_sum"
	colAllRegions       = "all_regions_net_new_articles_sum"
	colGenderPerc       = "%_of_new_articles_about_gender_minorities"
	colRegionPerc       = "%_of_new_articles_about_underrepresented_regions"
)

var contentRatios = []metrics.RatioSpec{
	{Name: colGenderPerc, Minority: colGenderMinorities, Total: colAllGenders},
	{Name: colRegionPerc, Minority: colUnderrepRegions, Total: colAllRegions},
}

func newReportCommand(e *env) *cobra.Command {
	var (
		data, period string
		fiscalEnd    int
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the content gap report",
		Long: `Report prints the month-over-month net new quality articles per
gender and region category, the share of them about gender minorities
and underrepresented regions, a naive forecast of those shares for the
next month, and their fiscal quarterly averages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if data == "" {
				data = e.cfg.ContentGapData
			}
			if fiscalEnd < 1 || fiscalEnd > 12 {
				return fmt.Errorf("--fiscal-end %d is not a month", fiscalEnd)
			}
			f, err := frame.ReadFile(data, frame.ReadOptions{})
			if err != nil {
				return err
			}
			f = f.SortDedup()
			var p time.Time
			if period != "" {
				if p, err = frame.ParseTime(period); err != nil {
					return fmt.Errorf("--period: %w", err)
				}
			} else if p, err = f.LastTime(); err != nil {
				return fmt.Errorf("%s: %w", data, err)
			}
			return contentReport(cmd.OutOrStdout(), f.Filter(func(_ int, t time.Time) bool { return !t.After(p) }), p, time.Month(fiscalEnd))
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&data, "data", "", "read cumulative quality article counts from `file` (default $WIKICHARTS_CONTENT_GAP_DATA)")
	fl.StringVar(&period, "period", "", "reporting `month` (default: the last month in the data)")
	fl.IntVar(&fiscalEnd, "fiscal-end", int(time.June), "last `month` of the fiscal year, 1-12")
	return cmd
}

// netNew returns the monthly difference of every total column of f,
// renamed with netNewPrefix, and the category sums. The first row is
// NaN.
func netNew(f *frame.Frame) (*frame.Frame, error) {
	out := frame.New(f.TimeCol(), f.Times())
	for _, c := range f.Columns() {
		cat, ok := strings.CutPrefix(c, totalPrefix)
		if !ok {
			continue
		}
		xs := f.MustColumn(c)
		diff := make([]float64, len(xs))
		for i := range diff {
			if i == 0 {
				diff[i] = math.NaN()
				continue
			}
			diff[i] = xs[i] - xs[i-1]
		}
		var err error
		if out, err = out.With(netNewPrefix+cat, diff); err != nil {
			return nil, err
		}
	}
	sums := []struct {
		name string
		cats []string
	}{
		{colGenderMinorities, genderMinorities},
		{colAllGenders, genderCategories},
		{colUnderrepRegions, lo.Without(regionCategories, wellCoveredRegions...)},
		{colAllRegions, regionCategories},
	}
	for _, s := range sums {
		sum := make([]float64, out.Len())
		for _, cat := range s.cats {
			xs, err := out.Column(netNewPrefix + cat)
			if err != nil {
				return nil, fmt.Errorf("content gap data: %w", err)
			}
			for i, x := range xs {
				sum[i] += x
			}
		}
		var err error
		if out, err = out.With(s.name, sum); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// contentReport writes the content gap report for period to w. f holds
// cumulative totals through period.
func contentReport(w io.Writer, f *frame.Frame, period time.Time, fiscalEnd time.Month) error {
	totals := lo.Filter(f.Columns(), func(c string, _ int) bool {
		_, ok := strings.CutPrefix(c, totalPrefix)
		return ok
	})
	if len(totals) == 0 {
		return fmt.Errorf("content gap data: no %s* columns", totalPrefix)
	}
	mom, err := metrics.MonthOverMonth(f, totals...)
	if err != nil {
		return err
	}
	latest := make(map[string]float64, len(mom))
	fmt.Fprintf(w, "Net new quality articles, %s\n", period.Format("January 2006"))
	for _, c := range totals {
		cat, _ := strings.CutPrefix(c, totalPrefix)
		latest[cat] = mom[c]
		fmt.Fprintf(w, "  %-45s %s\n", cat, numfmt.Simple(mom[c]))
	}
	fmt.Fprintf(w, "  %-45s %s\n", "gender minorities",
		numfmt.Perc(100*metrics.Share(latest, genderMinorities, genderCategories), 3, false))
	fmt.Fprintf(w, "  %-45s %s\n", "underrepresented regions",
		numfmt.Perc(100*metrics.Share(latest, lo.Without(regionCategories, wellCoveredRegions...), regionCategories), 3, false))

	nn, err := netNew(f)
	if err != nil {
		return err
	}
	fc, err := metrics.NaiveForecast(nn, period, contentRatios)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nNaive forecast for %s\n", period.AddDate(0, 1, 0).Format("January 2006"))
	for _, r := range fc.Ratios {
		fmt.Fprintf(w, "  %-50s %s -> %s\n", r.Name,
			numfmt.Perc(100*r.Current, 3, false), numfmt.Perc(100*r.Forecast, 3, false))
	}

	sums, err := nn.Select(colGenderMinorities, colAllGenders, colUnderrepRegions, colAllRegions)
	if err != nil {
		return err
	}
	q, incomplete, err := metrics.Quarterly(sums, fiscalEnd)
	if err != nil {
		return err
	}
	for _, r := range contentRatios {
		if q, err = metrics.Ratio(q, r.Name, r.Minority, r.Total); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "\nQuarterly averages\n")
	if incomplete {
		fmt.Fprintf(w, "(%s)\n", metrics.IncompleteQuarterWarning)
	}
	q.Fprint(w)
	return nil
}
