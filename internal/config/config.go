/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	applog "gocoloring/internal/log"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Export        ExportConfig  `yaml:"export"`
	Gallery       GalleryConfig `yaml:"gallery"`
	Palette       PaletteConfig `yaml:"palette"`
	Logging       LoggingConfig `yaml:"logging"`
}

type CanvasConfig struct {
	Size    float64 `yaml:"size"`
	Pattern int     `yaml:"pattern"`
}

type ExportConfig struct {
	Dir         string  `yaml:"dir"`
	Format      string  `yaml:"format"` // svg | png | pdf
	Scale       float64 `yaml:"scale"`
	StrokeWidth float64 `yaml:"stroke_width"`
}

type GalleryConfig struct {
	Dir       string `yaml:"dir"` // empty selects a folder next to the config file
	MaxItems  int    `yaml:"max_items"`
	ThumbSize int    `yaml:"thumb_size"`
}

type PaletteConfig struct {
	Theme string `yaml:"theme"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Canvas:        CanvasConfig{Size: 800, Pattern: 0},
		Export:        ExportConfig{Dir: "", Format: "svg", Scale: 1, StrokeWidth: 1.5},
		Gallery:       GalleryConfig{Dir: "", MaxItems: 12, ThumbSize: 150},
		Palette:       PaletteConfig{Theme: "Calm"},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfig     = "GOCOLOR_CONFIG"
	EnvSize       = "GOCOLOR_SIZE"
	EnvPattern    = "GOCOLOR_PATTERN"
	EnvExportDir  = "GOCOLOR_EXPORT_DIR"
	EnvGalleryDir = "GOCOLOR_GALLERY_DIR"
	EnvTheme      = "GOCOLOR_THEME"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GOCOLOR_LOG_LEVEL"
	EnvLogFormat = "GOCOLOR_LOG_FORMAT"
	EnvLogSource = "GOCOLOR_LOG_SOURCE"
	EnvLogFile   = "GOCOLOR_LOG_FILE"
)

// ConfigDir returns the per-user folder holding config.yaml and, by default, the gallery.
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoColoring")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoColoring")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "gocoloring")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "gocoloring")
		}
	}
	if strings.TrimSpace(base) == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the config file path. GOCOLOR_CONFIG wins over the per-user location.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// A malformed file is reported; the returned config then holds defaults plus env.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	var ferr error
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			ferr = fmt.Errorf("parse %s: %w", path, err)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, ferr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate reports the first out-of-range setting.
func (c AppConfig) Validate() error {
	switch {
	case c.Canvas.Size <= 0:
		return fmt.Errorf("canvas.size must be positive, got %g", c.Canvas.Size)
	case c.Canvas.Pattern < 0:
		return fmt.Errorf("canvas.pattern must not be negative, got %d", c.Canvas.Pattern)
	case c.Export.Scale <= 0:
		return fmt.Errorf("export.scale must be positive, got %g", c.Export.Scale)
	case c.Gallery.MaxItems < 1:
		return fmt.Errorf("gallery.max_items must be at least 1, got %d", c.Gallery.MaxItems)
	case c.Gallery.ThumbSize < 16:
		return fmt.Errorf("gallery.thumb_size must be at least 16, got %d", c.Gallery.ThumbSize)
	}
	switch strings.ToLower(c.Export.Format) {
	case "svg", "png", "pdf":
	default:
		return fmt.Errorf("export.format %q is not one of svg, png, pdf", c.Export.Format)
	}
	return nil
}

// GalleryDir resolves the gallery folder.
func (c AppConfig) GalleryDir() (string, error) {
	if d := strings.TrimSpace(c.Gallery.Dir); d != "" {
		return d, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gallery"), nil
}

// LogOptions converts the logging section for log.Init.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{Level: c.Logging.Level, Format: c.Logging.Format, AddSource: c.Logging.Source, File: c.Logging.File}
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Canvas.Size > 0 {
		dst.Canvas.Size = src.Canvas.Size
	}
	if src.Canvas.Pattern > 0 {
		dst.Canvas.Pattern = src.Canvas.Pattern
	}
	if strings.TrimSpace(src.Export.Dir) != "" {
		dst.Export.Dir = strings.TrimSpace(src.Export.Dir)
	}
	if strings.TrimSpace(src.Export.Format) != "" {
		dst.Export.Format = strings.ToLower(strings.TrimSpace(src.Export.Format))
	}
	if src.Export.Scale > 0 {
		dst.Export.Scale = src.Export.Scale
	}
	if src.Export.StrokeWidth > 0 {
		dst.Export.StrokeWidth = src.Export.StrokeWidth
	}
	if strings.TrimSpace(src.Gallery.Dir) != "" {
		dst.Gallery.Dir = strings.TrimSpace(src.Gallery.Dir)
	}
	if src.Gallery.MaxItems > 0 {
		dst.Gallery.MaxItems = src.Gallery.MaxItems
	}
	if src.Gallery.ThumbSize > 0 {
		dst.Gallery.ThumbSize = src.Gallery.ThumbSize
	}
	if strings.TrimSpace(src.Palette.Theme) != "" {
		dst.Palette.Theme = strings.TrimSpace(src.Palette.Theme)
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvSize)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Canvas.Size = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvPattern)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Canvas.Pattern = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.Export.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvGalleryDir)); v != "" {
		cfg.Gallery.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.Palette.Theme = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}
