// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numfmt formats metric values as compact chart labels.
//
// Magnitudes are abbreviated with K, M, B, and T suffixes based on
// their order of magnitude, so 1500 becomes "1.5K" and 1000000
// becomes "1M".
package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Options controls Format.
type Options struct {
	// RoundSigFigs rounds the value to Sig significant figures
	// before formatting.
	RoundSigFigs bool

	// Sig is the number of significant figures used by
	// RoundSigFigs. If Sig is 0, it is treated as 2.
	Sig int

	// Perc formats the value as a percentage with one decimal
	// place. The value is a fraction, so 0.123 is "12.3%".
	Perc bool

	// Sign prefixes positive values with "+".
	Sign bool
}

var suffixes = []struct {
	order  int
	scale  float64
	suffix string
}{
	{12, 1e12, "T"},
	{9, 1e9, "B"},
	{6, 1e6, "M"},
	{3, 1e3, "K"},
}

// Simple formats v with the default options.
func Simple(v float64) string {
	return Format(v, Options{})
}

// Format formats v as a compact label.
func Format(v float64, o Options) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	if o.RoundSigFigs && v != 0 {
		sig := o.Sig
		if sig == 0 {
			sig = 2
		}
		v = roundDigits(v, sig-order(v)-1)
	}
	if o.Perc {
		return fmt.Sprintf("%.1f%%", v*100)
	}

	// log10(0) is undefined; zero is shown unscaled.
	ord := 1
	if v != 0 {
		ord = order(v)
	}
	prec, scale, suffix := 0, 1.0, ""
	if ord >= 3 {
		prec = 2
	}
	for _, s := range suffixes {
		if ord >= s.order {
			scale, suffix = s.scale, s.suffix
			break
		}
	}
	label := trimZeros(strconv.FormatFloat(v/scale, 'f', prec, 64)) + suffix
	if o.Sign && v > 0 {
		label = "+" + label
	}
	return label
}

// Perc formats x, which is already in percent units, as a percentage
// rounded to sig significant figures. If sign is set, the result
// always carries a sign. A result with a single significant digit is
// shown with one decimal place, so 5 is "+5.0%" rather than "+5%".
func Perc(x float64, sig int, sign bool) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "N/A"
	}
	if x == 0 {
		if sign {
			return "+0.0%"
		}
		return "0.0%"
	}
	if sig <= 0 {
		sig = 2
	}
	r := roundDigits(x, sig-order(x)-1)
	verb := "%.*g"
	if sign {
		verb = "%+.*g"
	}
	var s string
	if math.Abs(r) >= math.Pow(10, float64(sig)) {
		// %g would switch to exponent form here.
		s = strconv.FormatFloat(r, 'f', 0, 64)
		if sign && r > 0 {
			s = "+" + s
		}
	} else {
		s = fmt.Sprintf(verb, sig, r)
	}
	if digits(s) == 1 && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "%"
}

// order returns floor(log10(|v|)).
func order(v float64) int {
	return int(math.Floor(math.Log10(math.Abs(v))))
}

// roundDigits rounds v to nd decimal digits. nd may be negative.
func roundDigits(v float64, nd int) float64 {
	if nd < 0 {
		p := math.Pow(10, float64(-nd))
		return math.RoundToEven(v/p) * p
	}
	p := math.Pow(10, float64(nd))
	return math.RoundToEven(v*p) / p
}

// trimZeros strips trailing zeros after a decimal point, and the point
// itself if nothing remains after it.
func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func digits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
