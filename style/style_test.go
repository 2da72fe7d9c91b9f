// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package style

import (
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#0E65C0")
	if err != nil {
		t.Fatal(err)
	}
	if want := (color.RGBA{0x0e, 0x65, 0xc0, 0xff}); c != want {
		t.Errorf("ParseHex = %v; want %v", c, want)
	}
	for _, bad := range []string{"", "#12345", "#zzzzzz"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) succeeded; want error", bad)
		}
	}
}

func TestRegions(t *testing.T) {
	if len(Regions) != 8 {
		t.Fatalf("got %d regions; want 8", len(Regions))
	}
	if !IsRegion("South Asia") || IsRegion(Unclassed) {
		t.Error("IsRegion misclassified a region")
	}
	m := RegionRename("_unique_devices")
	if got := m["south_asia_unique_devices"]; got != "South Asia" {
		t.Errorf("rename south_asia_unique_devices = %q", got)
	}
}
