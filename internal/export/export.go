/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes coloured designs as SVG, PNG and PDF files.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	applog "gocoloring/internal/log"
	"gocoloring/internal/surface"
	"gocoloring/internal/vector"
)

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// Page is a design ready for output: regions in paint order on a square canvas.
type Page struct {
	Title   string
	Size    float64
	Regions []*surface.Region
}

// Options controls output. Zero values select the defaults.
type Options struct {
	// Scale multiplies the canvas size to get the raster size in pixels.
	Scale float64
	// StrokeWidth overrides every region's stroke width when > 0.
	StrokeWidth float64
	Background  vector.Color
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

func (o Options) stroke(r *surface.Region) vector.Stroke {
	st := r.Stroke
	if o.StrokeWidth > 0 {
		st.Width = o.StrokeWidth
	}
	return st
}

func (o Options) background() vector.Color {
	if o.Background == (vector.Color{}) {
		return vector.White
	}
	return o.Background
}

// ParseFormat accepts svg, png or pdf in any case, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatSVG, FormatPNG, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
}

// FormatFromPath derives the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Write renders p in format f to w.
func Write(w io.Writer, f Format, p Page, opt Options) error {
	if p.Size <= 0 {
		return fmt.Errorf("export: canvas size %g: %w", p.Size, vector.ErrInvalidGeometry)
	}
	switch f {
	case FormatSVG:
		return WriteSVG(w, p, opt)
	case FormatPNG:
		return WritePNG(w, p, opt)
	case FormatPDF:
		return WritePDF(w, p, opt)
	}
	return fmt.Errorf("export %q: %w", f, ErrUnknownFormat)
}

// ExportFile writes p to path. An empty format is derived from the extension.
func ExportFile(path, format string, p Page, opt Options) error {
	l := applog.WithOperation(applog.WithComponent("export"), "file").With(slog.String("path", path))
	var (
		f   Format
		err error
	)
	if strings.TrimSpace(format) == "" {
		f, err = FormatFromPath(path)
	} else {
		f, err = ParseFormat(format)
	}
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, f, p, opt); err != nil {
		l.Error("export failed", slog.Any("err", err))
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f, err)
	}
	l.Info("design exported", slog.String("format", string(f)), slog.Int("regions", len(p.Regions)), slog.Int("bytes", buf.Len()))
	return nil
}
