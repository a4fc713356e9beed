/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points GOCOLOR_CONFIG at a temp file and clears the other overrides.
func isolate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfig, path)
	for _, name := range []string{EnvSize, EnvPattern, EnvExportDir, EnvGalleryDir, EnvTheme, EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile} {
		t.Setenv(name, "")
	}
	return path
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("Load() = %+v, want defaults", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := isolate(t)
	cfg := Defaults()
	cfg.Canvas.Size = 1200
	cfg.Canvas.Pattern = 2
	cfg.Export.Format = "pdf"
	cfg.Gallery.MaxItems = 20
	cfg.Palette.Theme = "Ocean"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Palette.Theme = "Earth"
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvTheme, "Sunset")
	t.Setenv(EnvSize, "640")
	t.Setenv(EnvPattern, "3")
	t.Setenv(EnvLogSource, "yes")
	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.Palette.Theme != "Sunset" || got.Canvas.Size != 640 || got.Canvas.Pattern != 3 || !got.Logging.Source {
		t.Fatalf("env overrides not applied: %+v", got)
	}
}

func TestInvalidEnvValuesIgnored(t *testing.T) {
	isolate(t)
	t.Setenv(EnvSize, "-5")
	t.Setenv(EnvPattern, "abc")
	got, _ := Load()
	if got.Canvas.Size != 800 || got.Canvas.Pattern != 0 {
		t.Fatalf("invalid env values should be ignored: %+v", got.Canvas)
	}
}

func TestMalformedFileReported(t *testing.T) {
	path := isolate(t)
	if err := os.WriteFile(path, []byte("canvas: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Canvas.Size != 800 {
		t.Fatalf("defaults should still be returned")
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := AppConfig{}
	src.Logging.Level = " DEBUG "
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/app.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/app.log" {
		t.Fatalf("logging not merged: %+v", dst.Logging)
	}
	// zero values in the file keep defaults
	if dst.Canvas.Size != 800 || dst.Gallery.MaxItems != 12 || dst.Export.Format != "svg" {
		t.Fatalf("zero values overwrote defaults: %+v", dst)
	}
	opts := dst.LogOptions()
	if opts.Level != "debug" || !opts.AddSource || opts.File != "/tmp/app.log" {
		t.Fatalf("LogOptions = %+v", opts)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*AppConfig){
		"size":      func(c *AppConfig) { c.Canvas.Size = 0 },
		"pattern":   func(c *AppConfig) { c.Canvas.Pattern = -1 },
		"scale":     func(c *AppConfig) { c.Export.Scale = 0 },
		"max_items": func(c *AppConfig) { c.Gallery.MaxItems = 0 },
		"thumb":     func(c *AppConfig) { c.Gallery.ThumbSize = 8 },
		"format":    func(c *AppConfig) { c.Export.Format = "gif" },
	}
	for name, mutate := range cases {
		c := Defaults()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestGalleryDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := Defaults()
	d, err := c.GalleryDir()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(filepath.ToSlash(d), "/gallery") {
		t.Fatalf("default gallery dir = %s", d)
	}
	c.Gallery.Dir = "/data/pages"
	if d, _ := c.GalleryDir(); d != "/data/pages" {
		t.Fatalf("explicit gallery dir = %s", d)
	}
}
