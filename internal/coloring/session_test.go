/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package coloring

import (
	"errors"
	"os"
	"testing"

	applog "gocoloring/internal/log"
	"gocoloring/internal/pattern"
	"gocoloring/internal/undo"
	"gocoloring/internal/vector"
)

func TestMain(m *testing.M) {
	applog.Discard()
	os.Exit(m.Run())
}

var red = vector.Color{R: 0xe0, G: 0x7a, B: 0x5f, A: 255}

func newSession(t *testing.T, index int) *Session {
	t.Helper()
	s, err := New(index, 800)
	if err != nil {
		t.Fatalf("New(%d): %v", index, err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNewRejectsUnknownPattern(t *testing.T) {
	if _, err := New(99, 800); !errors.Is(err, pattern.ErrUnknownPattern) {
		t.Fatalf("want ErrUnknownPattern, got %v", err)
	}
}

func TestFillUndoRedo(t *testing.T) {
	s := newSession(t, 0)
	if err := s.FillRegion(0, red); err != nil {
		t.Fatalf("FillRegion: %v", err)
	}
	r, _ := s.Surface().Region(0)
	if r.Fill != red {
		t.Fatalf("fill = %v, want %v", r.Fill, red)
	}
	if got := len(s.Document().Fills); got != 1 {
		t.Fatalf("document fills = %d, want 1", got)
	}
	if !s.Undo() {
		t.Fatalf("Undo returned false")
	}
	if r.Fill != vector.White {
		t.Fatalf("after undo fill = %v, want white", r.Fill)
	}
	if got := len(s.Document().Fills); got != 0 {
		t.Fatalf("after undo document fills = %d, want 0", got)
	}
	if !s.CanRedo() || !s.Redo() {
		t.Fatalf("Redo unavailable")
	}
	if r.Fill != red {
		t.Fatalf("after redo fill = %v, want %v", r.Fill, red)
	}
	if s.Redo() {
		t.Fatalf("second Redo should report false")
	}
}

func TestNewFillDropsRedo(t *testing.T) {
	s := newSession(t, 1)
	_ = s.FillRegion(3, red)
	s.Undo()
	if err := s.FillRegion(4, vector.Black); err != nil {
		t.Fatal(err)
	}
	if s.CanRedo() {
		t.Fatalf("a new fill must drop redo history")
	}
}

func TestFillSameColourRecordsNoHistory(t *testing.T) {
	s := newSession(t, 0)
	if err := s.FillRegion(2, vector.White); err != nil {
		t.Fatal(err)
	}
	if s.CanUndo() {
		t.Fatalf("filling with the current colour should not record history")
	}
}

func TestFillAtHitsTopMostRegion(t *testing.T) {
	s := newSession(t, 0)
	pt := vector.P(400, 400)
	want, ok := s.Surface().HitTest(pt)
	if !ok {
		t.Fatalf("nothing under the canvas centre")
	}
	got, err := s.FillAt(pt, red)
	if err != nil {
		t.Fatalf("FillAt: %v", err)
	}
	if got.ID != want.ID {
		t.Fatalf("filled region %d (%s), want %d (%s)", got.ID, got.Tag, want.ID, want.Tag)
	}
	if got.ID == 0 {
		t.Fatalf("centre should hit a region above the background")
	}
}

func TestFillAtOutsideCanvas(t *testing.T) {
	s := newSession(t, 2)
	if _, err := s.FillAt(vector.P(-50, -50), red); !errors.Is(err, ErrNoRegion) {
		t.Fatalf("want ErrNoRegion, got %v", err)
	}
	if err := s.FillRegion(100000, red); !errors.Is(err, ErrNoRegion) {
		t.Fatalf("want ErrNoRegion for bad id, got %v", err)
	}
}

func TestResetClearsFillsAndHistory(t *testing.T) {
	s := newSession(t, 3)
	_ = s.FillRegion(1, red)
	_ = s.FillRegion(2, red)
	s.Reset()
	if s.CanUndo() || s.CanRedo() {
		t.Fatalf("history should be empty after Reset")
	}
	for _, r := range s.Surface().Regions() {
		if r.Fill != vector.White {
			t.Fatalf("region %d still filled after Reset", r.ID)
		}
	}
	if len(s.Document().Fills) != 0 {
		t.Fatalf("document should have no fills after Reset")
	}
}

func TestSharedHistoryKeepsSessionsApart(t *testing.T) {
	m := undo.NewManager(undo.Config{})
	a, err := New(0, 400, WithHistory(m))
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(0, 400, WithHistory(m))
	if err != nil {
		t.Fatal(err)
	}
	_ = a.FillRegion(0, red)
	if b.CanUndo() {
		t.Fatalf("session b must not see session a's history")
	}
	if !a.Undo() {
		t.Fatalf("session a lost its history")
	}
}

func TestOpenReappliesFills(t *testing.T) {
	s := newSession(t, 1)
	_ = s.FillRegion(5, red)
	_ = s.FillRegion(7, vector.Black)
	doc := s.Document()

	o, err := Open(doc)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer o.Close()
	r5, _ := o.Surface().Region(5)
	r7, _ := o.Surface().Region(7)
	if r5.Fill != red || r7.Fill != vector.Black {
		t.Fatalf("fills not reapplied: %v %v", r5.Fill, r7.Fill)
	}
	if o.CanUndo() {
		t.Fatalf("opened session should start without history")
	}
}

func TestOpenMakesTranslucentFillsOpaque(t *testing.T) {
	doc := &Document{Version: DocumentVersion, Pattern: 0, Size: 800, Fills: []Fill{{Region: 4, Color: "#e07a5f80"}}}
	s, err := Open(doc)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if r, _ := s.Surface().Region(4); r.Fill != red {
		t.Fatalf("fill = %+v, want opaque %+v", r.Fill, red)
	}
	if got := s.Document().Fills; len(got) != 1 || got[0].Color != "#e07a5f" {
		t.Fatalf("document fills = %v", got)
	}
	// filling the same colour again is a no-op once alpha is dropped
	if err := s.FillRegion(4, red); err != nil || s.CanUndo() {
		t.Fatalf("refill: err %v, history %v", err, s.CanUndo())
	}
}

const squares = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <title>Squares</title>
  <path d="M10 10 H40 V40 H10 Z"/>
  <rect x="60" y="60" width="30" height="30"/>
</svg>`

func TestImportedSessionSurvivesDocument(t *testing.T) {
	s, err := Import([]byte(squares))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	defer s.Close()
	if s.Surface().Len() != 2 || s.Design().Name != "Squares" {
		t.Fatalf("imported %d regions named %q", s.Surface().Len(), s.Design().Name)
	}
	if _, err := s.FillAt(vector.P(75, 75), red); err != nil {
		t.Fatalf("FillAt: %v", err)
	}
	data, err := s.Document().Encode()
	if err != nil {
		t.Fatal(err)
	}
	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Pattern != -1 || doc.Source != squares {
		t.Fatalf("document pattern %d, source kept %v", doc.Pattern, doc.Source == squares)
	}
	o, err := Open(doc)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer o.Close()
	if r, _ := o.Surface().Region(1); r.Fill != red || r.Tag != "import" {
		t.Fatalf("region 1 = %q %+v", r.Tag, r.Fill)
	}
}

func TestDecodeRejectsImportWithoutSource(t *testing.T) {
	if _, err := Decode([]byte(`{"version":1,"pattern":-1,"size":100,"fills":[]}`)); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("want ErrInvalidDocument, got %v", err)
	}
}

func TestCloseDeactivatesSurface(t *testing.T) {
	s, err := New(3, 800)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.FillRegion(0, red)
	s.Close()
	if s.Surface().Active() || s.CanUndo() {
		t.Fatalf("closed session: active %v, undo %v", s.Surface().Active(), s.CanUndo())
	}
	if _, err := s.Surface().Register("late", s.Design().Regions[0].Boundary); err == nil {
		t.Fatalf("register on a closed session's surface should fail")
	}
}
