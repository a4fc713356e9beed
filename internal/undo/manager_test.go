/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxDepth: 10})
	const k = "aztec@800"
	t0 := time.Now()
	m.Push(Snapshot{Key: k, Blob: []byte("a"), TS: t0})
	m.Push(Snapshot{Key: k, Blob: []byte("b"), TS: t0.Add(20 * time.Millisecond)})
	if _, keys, depth := m.Stats(); keys != 1 || depth != 2 {
		t.Fatalf("expected 1 key and 2 snapshots, got keys=%d depth=%d", keys, depth)
	}
	s, ok := m.Undo(k, []byte("c"))
	if !ok || string(s.Blob) != "b" {
		t.Fatalf("undo expected 'b', got ok=%v blob=%q", ok, string(s.Blob))
	}
	if !m.CanRedo(k) {
		t.Fatalf("redo should be available after undo")
	}
	s, ok = m.Redo(k, []byte("b"))
	if !ok || string(s.Blob) != "c" {
		t.Fatalf("redo expected 'c', got ok=%v blob=%q", ok, string(s.Blob))
	}
	s, _ = m.Undo(k, []byte("c"))
	s, _ = m.Undo(k, s.Blob)
	if string(s.Blob) != "a" {
		t.Fatalf("second undo expected 'a', got %q", string(s.Blob))
	}
	if m.CanUndo(k) {
		t.Fatalf("history should be exhausted")
	}
	if _, ok := m.Undo(k, nil); ok {
		t.Fatalf("undo on empty history should report false")
	}
}

func TestPushDropsRedo(t *testing.T) {
	m := NewManager(Config{})
	m.Push(Snapshot{Key: "k", Blob: []byte("1"), TS: time.Now()})
	m.Undo("k", []byte("2"))
	m.Push(Snapshot{Key: "k", Blob: []byte("1"), TS: time.Now()})
	if m.CanRedo("k") {
		t.Fatalf("a new change must invalidate redo")
	}
	if tb, _, _ := m.Stats(); tb != 1 {
		t.Fatalf("byte accounting after redo drop: %d", tb)
	}
}

func TestCoalesceKeepsEarlierState(t *testing.T) {
	m := NewManager(Config{MinInterval: 50 * time.Millisecond})
	t0 := time.Now()
	m.Push(Snapshot{Key: "k", Blob: []byte("1"), TS: t0})
	m.Push(Snapshot{Key: "k", Blob: []byte("2"), TS: t0.Add(10 * time.Millisecond)})
	if _, _, depth := m.Stats(); depth != 1 {
		t.Fatalf("expected coalesced to 1 snapshot, got %d", depth)
	}
	s, ok := m.Undo("k", []byte("3"))
	if !ok || string(s.Blob) != "1" {
		t.Fatalf("expected earliest state '1', got ok=%v blob=%q", ok, string(s.Blob))
	}
}

func TestDepthAndByteCaps(t *testing.T) {
	m := NewManager(Config{MaxBytes: 20, MaxDepth: 2})
	t0 := time.Now()
	for i := 0; i < 10; i++ {
		m.Push(Snapshot{Key: "k", Blob: []byte("xxxxx"), TS: t0.Add(time.Duration(i) * time.Millisecond)})
	}
	tb, _, depth := m.Stats()
	if depth != 2 || tb != 10 {
		t.Fatalf("expected depth 2 and 10 bytes, got depth=%d bytes=%d", depth, tb)
	}
}

func TestGlobalPruneAcrossKeys(t *testing.T) {
	m := NewManager(Config{MaxBytes: 8})
	t0 := time.Now()
	m.Push(Snapshot{Key: "old", Blob: []byte("xxxx"), TS: t0})
	m.Push(Snapshot{Key: "new", Blob: []byte("yyyy"), TS: t0.Add(time.Second)})
	m.Push(Snapshot{Key: "new", Blob: []byte("zzzz"), TS: t0.Add(2 * time.Second)})
	if m.CanUndo("old") {
		t.Fatalf("expected the oldest key to be pruned")
	}
	if !m.CanUndo("new") {
		t.Fatalf("expected recent history to survive")
	}
	m.Clear("new")
	if tb, keys, depth := m.Stats(); tb != 0 || keys != 0 || depth != 0 {
		t.Fatalf("expected empty stats after clear, got %d %d %d", tb, keys, depth)
	}
}
