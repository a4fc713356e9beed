/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package coloring

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	applog "gocoloring/internal/log"
	"gocoloring/internal/storage"
	"gocoloring/internal/surface"
	"gocoloring/internal/vector"
)

// DocumentVersion is the current document format.
const DocumentVersion = 1

// ErrInvalidDocument is returned for documents that fail schema or range checks.
var ErrInvalidDocument = errors.New("invalid document")

//go:embed document.schema.json
var schemaBytes []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaBytes)

// Fill records the colour of one region.
type Fill struct {
	Region int    `json:"region"`
	Color  string `json:"color"`
}

// Document is persisted colouring progress. Generated designs are
// deterministic, so only the pattern, the canvas size and the fills are
// stored. An imported design keeps its SVG in Source and Pattern is -1.
type Document struct {
	Version     int     `json:"version"`
	Pattern     int     `json:"pattern"`
	PatternName string  `json:"patternName,omitempty"`
	Size        float64 `json:"size"`
	Source      string  `json:"source,omitempty"`
	Fills       []Fill  `json:"fills"`
}

// Validate checks raw JSON against the document schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}
	return nil
}

// Decode validates and parses a document.
func Decode(data []byte) (*Document, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if d.Version > DocumentVersion {
		return nil, fmt.Errorf("%w: version %d is newer than supported %d", ErrInvalidDocument, d.Version, DocumentVersion)
	}
	if d.Pattern < 0 && d.Source == "" {
		return nil, fmt.Errorf("%w: imported design without source", ErrInvalidDocument)
	}
	return &d, nil
}

// Encode returns the indented JSON form.
func (d *Document) Encode() ([]byte, error) {
	if d.Fills == nil {
		d.Fills = []Fill{}
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes the document transactionally, keeping a backup of the previous version.
func (d *Document) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	applog.WithOperation(applog.WithComponent("coloring"), "save").Info("document saved",
		slog.String("path", path), slog.Int("fills", len(d.Fills)))
	return nil
}

// Load reads a document. A damaged file is replaced in memory by its newest
// valid backup.
func Load(path string) (*Document, error) {
	data, fromBackup, err := storage.ReadFileWithBackup(path, Validate)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if fromBackup {
		applog.WithOperation(applog.WithComponent("coloring"), "load").Warn("document restored from backup", slog.String("path", path))
	}
	return Decode(data)
}

// Apply paints the document's fills onto the regions of s. Region ids must
// exist on s and colours must parse. Fills are opaque whatever alpha the
// colour carries.
func (d *Document) Apply(s *surface.Surface) error {
	for _, f := range d.Fills {
		r, ok := s.Region(f.Region)
		if !ok {
			return fmt.Errorf("%w: fill for region %d, design has %d regions", ErrInvalidDocument, f.Region, s.Len())
		}
		c, err := vector.ParseHex(f.Color)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		c.A = 255
		r.Fill = c
	}
	return nil
}

func fillsFrom(m map[int]vector.Color) []Fill {
	out := make([]Fill, 0, len(m))
	for id, c := range m {
		out = append(out, Fill{Region: id, Color: c.Hex()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}
