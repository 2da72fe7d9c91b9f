// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv unsets every variable Load reads for the duration of t.
func clearEnv(t *testing.T) {
	names := []string{"WIKICHARTS_DPI"}
	for _, v := range vars {
		names = append(names, v.name)
	}
	for _, n := range names {
		// Setenv registers the restore; Unsetenv then clears it.
		t.Setenv(n, "")
		os.Unsetenv(n)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if c.DPI != DefaultDPI {
		t.Errorf("DPI = %d; want %d", c.DPI, DefaultDPI)
	}
	if c.OutputDir != "charts" {
		t.Errorf("OutputDir = %q; want charts", c.OutputDir)
	}
	if c.RegionalEditorsData != "resources/data/regional_editor_metrics.tsv" {
		t.Errorf("RegionalEditorsData = %q", c.RegionalEditorsData)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	env := filepath.Join(t.TempDir(), ".env")
	data := "WIKICHARTS_AUTHOR=Jane Doe\nWIKICHARTS_DPI=150\nWIKICHARTS_OUTPUT_DIR=out\n"
	if err := os.WriteFile(env, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WIKICHARTS_OUTPUT_DIR", "from-env")
	c, err := Load(env)
	if err != nil {
		t.Fatal(err)
	}
	if c.Author != "Jane Doe" || c.DPI != 150 {
		t.Errorf("Author, DPI = %q, %d; want Jane Doe, 150", c.Author, c.DPI)
	}
	if c.OutputDir != "from-env" {
		t.Errorf("OutputDir = %q; environment should win over file", c.OutputDir)
	}
}

func TestLoadBadDPI(t *testing.T) {
	clearEnv(t)
	t.Setenv("WIKICHARTS_DPI", "lots")
	if _, err := Load(); err == nil {
		t.Errorf("Load with bad DPI: got nil error")
	}
}
