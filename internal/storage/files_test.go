/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomicCreatesBackupOfPrevious(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "page.json")
	if err := WriteFileAtomic(p, []byte("one")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if bs, _ := Backups(p); len(bs) != 0 {
		t.Fatalf("first write should not create backups, got %v", bs)
	}
	if err := WriteFileAtomic(p, []byte("two")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, err := os.ReadFile(p)
	if err != nil || string(got) != "two" {
		t.Fatalf("content = %q, %v; want two", got, err)
	}
	bs, err := Backups(p)
	if err != nil {
		t.Fatalf("Backups: %v", err)
	}
	if len(bs) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(bs))
	}
	b, _ := os.ReadFile(bs[0])
	if string(b) != "one" {
		t.Fatalf("backup content = %q, want one", b)
	}
	// no temp files left behind
	ents, _ := os.ReadDir(dir)
	for _, e := range ents {
		if e.Name() != "page.json" && e.Name() != BackupsDirName {
			t.Fatalf("unexpected leftover %s", e.Name())
		}
	}
}

func TestWriteFileAtomicRequiresPath(t *testing.T) {
	if err := WriteFileAtomic("  ", []byte("x")); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestPruneBackupsKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "doc.json")
	bdir := BackupDir(p)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		t.Fatal(err)
	}
	names := []string{"20250101-000000.000", "20250101-000001.000", "20250101-000002.000"}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(bdir, "doc.json."+n+".bak"), []byte(n), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	pruneBackups(p, 2)
	bs, err := Backups(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(bs) != 2 || filepath.Base(bs[0]) != "doc.json."+names[1]+".bak" {
		t.Fatalf("unexpected backups after prune: %v", bs)
	}
}

func TestReadFileWithBackupFallsBackOnInvalidContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "doc.json")
	if err := WriteJSON(p, map[string]int{"v": 1}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := WriteJSON(p, map[string]int{"v": 2}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	// damage the live file
	if err := os.WriteFile(p, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	valid := func(b []byte) error {
		var m map[string]int
		return json.Unmarshal(b, &m)
	}
	data, fromBackup, err := ReadFileWithBackup(p, valid)
	if err != nil {
		t.Fatalf("ReadFileWithBackup: %v", err)
	}
	if !fromBackup {
		t.Fatalf("expected data from backup")
	}
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil || m["v"] != 1 {
		t.Fatalf("backup data = %s (%v), want v=1", data, err)
	}
}

func TestReadFileWithBackupPrefersLiveFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "doc.json")
	if err := WriteFileAtomic(p, []byte("live")); err != nil {
		t.Fatal(err)
	}
	data, fromBackup, err := ReadFileWithBackup(p, nil)
	if err != nil || fromBackup || string(data) != "live" {
		t.Fatalf("got %q fromBackup=%v err=%v", data, fromBackup, err)
	}
}

func TestReadFileWithBackupMissingEverything(t *testing.T) {
	p := filepath.Join(t.TempDir(), "none.json")
	_, _, err := ReadFileWithBackup(p, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped ErrNotExist, got %v", err)
	}
}
