/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package coloring holds colouring sessions: a generated design, the fills
// applied to its regions and their undo history, plus the persisted document
// form and the built-in palettes.
package coloring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	applog "gocoloring/internal/log"
	"gocoloring/internal/pattern"
	"gocoloring/internal/surface"
	"gocoloring/internal/undo"
	"gocoloring/internal/vector"
)

// ErrNoRegion is returned when a fill targets no fillable region.
var ErrNoRegion = errors.New("no fillable region")

// Session is one design being coloured. It is not safe for concurrent use.
type Session struct {
	key     string
	surface *surface.Surface
	design  *pattern.Design
	source  string
	fills   map[int]vector.Color
	history *undo.Manager
	logger  *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithHistory shares an undo manager between sessions.
func WithHistory(m *undo.Manager) Option { return func(s *Session) { s.history = m } }

// New generates the pattern at index on a fresh surface of side size.
func New(index int, size float64, opts ...Option) (*Session, error) {
	name, err := pattern.Name(index)
	if err != nil {
		return nil, err
	}
	surf := surface.New(name)
	surf.Activate()
	d, err := pattern.Generate(surf, index, size)
	if err != nil {
		return nil, err
	}
	return sessionFor(surf, d, "", opts), nil
}

// Import reads an SVG file into a session. Every closed contour becomes a
// fillable region; the file is kept so the document can be reopened.
func Import(svg []byte, opts ...Option) (*Session, error) {
	surf := surface.New(pattern.ImportedName)
	surf.Activate()
	d, err := pattern.Import(surf, bytes.NewReader(svg))
	if err != nil {
		return nil, err
	}
	return sessionFor(surf, d, string(svg), opts), nil
}

func sessionFor(surf *surface.Surface, d *pattern.Design, source string, opts []Option) *Session {
	s := &Session{
		key:     uuid.NewString(),
		surface: surf,
		design:  d,
		source:  source,
		fills:   make(map[int]vector.Color),
	}
	for _, o := range opts {
		o(s)
	}
	if s.history == nil {
		s.history = undo.NewManager(undo.Config{MaxDepth: 200})
	}
	s.logger = applog.WithComponent("coloring").With(slog.String("design", d.Name))
	return s
}

// Open rebuilds the document's design, from its embedded SVG source when it
// has one, and applies its fills.
func Open(doc *Document, opts ...Option) (*Session, error) {
	var s *Session
	var err error
	if doc.Source != "" {
		s, err = Import([]byte(doc.Source), opts...)
	} else {
		s, err = New(doc.Pattern, doc.Size, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	if err := doc.Apply(s.surface); err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	for _, f := range doc.Fills {
		if r, ok := s.surface.Region(f.Region); ok {
			s.fills[f.Region] = r.Fill
		}
	}
	return s, nil
}

func (s *Session) Surface() *surface.Surface { return s.surface }
func (s *Session) Design() *pattern.Design   { return s.design }

// Document returns the current state in persisted form.
func (s *Session) Document() *Document {
	return &Document{
		Version:     DocumentVersion,
		Pattern:     s.design.Pattern,
		PatternName: s.design.Name,
		Size:        s.design.Size,
		Source:      s.source,
		Fills:       fillsFrom(s.fills),
	}
}

// FillAt colours the top-most fillable region under pt.
func (s *Session) FillAt(pt vector.Pt, c vector.Color) (*surface.Region, error) {
	r, ok := s.surface.HitTest(pt)
	if !ok {
		return nil, fmt.Errorf("fill at (%.1f, %.1f): %w", pt.X, pt.Y, ErrNoRegion)
	}
	if err := s.FillRegion(r.ID, c); err != nil {
		return nil, err
	}
	return r, nil
}

// FillRegion colours the region with the given id. Fills are opaque.
// Repeating the current colour records no history.
func (s *Session) FillRegion(id int, c vector.Color) error {
	r, ok := s.surface.Region(id)
	if !ok || !r.Fillable {
		return fmt.Errorf("fill region %d: %w", id, ErrNoRegion)
	}
	c.A = 255
	if r.Fill == c {
		return nil
	}
	s.history.Push(undo.Snapshot{Key: s.key, Blob: s.state(), TS: time.Now()})
	r.Fill = c
	s.fills[id] = c
	if s.logger.Enabled(context.Background(), slog.LevelDebug) {
		total, keys, depth := s.history.Stats()
		s.logger.Debug("region filled", slog.Int("region", id), slog.String("tag", r.Tag), slog.String("color", c.Hex()),
			slog.Int("undo_depth", depth), slog.Int("undo_keys", keys), slog.Int("undo_bytes", total))
	}
	return nil
}

// Undo restores the fills before the last change. It reports false when
// there is nothing to undo.
func (s *Session) Undo() bool {
	snap, ok := s.history.Undo(s.key, s.state())
	if !ok {
		return false
	}
	s.restore(snap.Blob)
	return true
}

// Redo reapplies the last undone change.
func (s *Session) Redo() bool {
	snap, ok := s.history.Redo(s.key, s.state())
	if !ok {
		return false
	}
	s.restore(snap.Blob)
	return true
}

func (s *Session) CanUndo() bool { return s.history.CanUndo(s.key) }
func (s *Session) CanRedo() bool { return s.history.CanRedo(s.key) }

// Reset clears all fills and the undo history.
func (s *Session) Reset() {
	s.restore(nil)
	s.history.Clear(s.key)
}

// Close releases the session's history and deactivates its surface, so no
// further regions can be registered on it.
func (s *Session) Close() {
	s.history.Clear(s.key)
	s.surface.Deactivate()
}

func (s *Session) state() []byte {
	b, err := json.Marshal(fillsFrom(s.fills))
	if err != nil {
		// []Fill always marshals
		panic(err)
	}
	return b
}

func (s *Session) restore(blob []byte) {
	var fills []Fill
	if len(blob) > 0 {
		if err := json.Unmarshal(blob, &fills); err != nil {
			s.logger.Error("restore fills failed", slog.Any("err", err))
			return
		}
	}
	base := s.surface.Style().Fill
	for _, r := range s.surface.Regions() {
		r.Fill = base
	}
	s.fills = make(map[int]vector.Color, len(fills))
	for _, f := range fills {
		c, err := vector.ParseHex(f.Color)
		if err != nil {
			continue
		}
		if r, ok := s.surface.Region(f.Region); ok {
			r.Fill = c
			s.fills[f.Region] = c
		}
	}
}
