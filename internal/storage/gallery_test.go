/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	applog "gocoloring/internal/log"
)

func TestMain(m *testing.M) {
	applog.Discard()
	os.Exit(m.Run())
}

func openTestGallery(t *testing.T, max int) *Gallery {
	t.Helper()
	g, err := OpenGallery(t.TempDir(), max)
	if err != nil {
		t.Fatalf("OpenGallery: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestOpenGalleryCreatesWALAndVersion(t *testing.T) {
	dir := t.TempDir()
	g, err := OpenGallery(dir, 0)
	if err != nil {
		t.Fatalf("OpenGallery: %v", err)
	}
	defer g.Close()
	if g.MaxItems() != DefaultMaxItems {
		t.Fatalf("MaxItems = %d, want %d", g.MaxItems(), DefaultMaxItems)
	}
	if _, err := os.Stat(GalleryPath(dir)); err != nil {
		t.Fatalf("gallery file missing: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var mode string
	if err := g.db.QueryRowContext(ctx, "PRAGMA journal_mode;").Scan(&mode); err != nil {
		t.Fatalf("read journal_mode: %v", err)
	}
	if mode != "wal" && mode != "WAL" {
		t.Fatalf("expected WAL mode, got %s", mode)
	}
	var schema int
	if err := g.db.QueryRowContext(ctx, "SELECT schema FROM version WHERE id=1").Scan(&schema); err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("schema = %d, want %d", schema, schemaVersion)
	}
}

func TestGalleryMigratesOldSchema(t *testing.T) {
	dir := t.TempDir()
	g, err := OpenGallery(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := g.db.ExecContext(ctx, "DROP INDEX IF EXISTS idx_gallery_pattern"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.db.ExecContext(ctx, "UPDATE version SET schema=1 WHERE id=1"); err != nil {
		t.Fatal(err)
	}
	_ = g.Close()

	g, err = OpenGallery(dir, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer g.Close()
	var schema int
	if err := g.db.QueryRowContext(ctx, "SELECT schema FROM version WHERE id=1").Scan(&schema); err != nil || schema != 2 {
		t.Fatalf("schema = %d (%v), want 2", schema, err)
	}
	var name string
	err = g.db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='index' AND name='idx_gallery_pattern'").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("migration 2 did not create idx_gallery_pattern")
	}
	if err != nil {
		t.Fatal(err)
	}
}

func TestGallerySaveGetListDelete(t *testing.T) {
	g := openTestGallery(t, 5)
	ctx := context.Background()
	doc := []byte(`{"version":1}`)
	id, err := g.Save(ctx, Item{Pattern: 1, Name: "Celtic", Size: 800, Document: doc, Thumb: []byte{0x89, 'P', 'N', 'G'}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(id) != 36 {
		t.Fatalf("expected uuid id, got %q", id)
	}
	it, err := g.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if it.Name != "Celtic" || it.Pattern != 1 || it.Size != 800 || string(it.Document) != string(doc) || len(it.Thumb) != 4 {
		t.Fatalf("unexpected item %+v", it)
	}
	if it.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt not set")
	}
	list, err := g.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = %d items, %v", len(list), err)
	}
	if list[0].Document != nil {
		t.Fatalf("List should not load documents")
	}
	if err := g.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := g.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete: want ErrNotFound, got %v", err)
	}
	if err := g.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete: want ErrNotFound, got %v", err)
	}
}

func TestGallerySaveRequiresDocument(t *testing.T) {
	g := openTestGallery(t, 0)
	if _, err := g.Save(context.Background(), Item{Name: "empty"}); err == nil {
		t.Fatalf("expected error for empty document")
	}
}

func TestGalleryEvictsOldestBeyondCapacity(t *testing.T) {
	g := openTestGallery(t, 3)
	ctx := context.Background()
	var ids []string
	for i := 0; i < 5; i++ {
		id, err := g.Save(ctx, Item{Name: fmt.Sprintf("page-%d", i), Size: 800, Document: []byte("{}")})
		if err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
		ids = append(ids, id)
	}
	n, err := g.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Count = %d (%v), want 3", n, err)
	}
	list, _ := g.List(ctx)
	want := []string{"page-4", "page-3", "page-2"}
	for i, it := range list {
		if it.Name != want[i] {
			t.Fatalf("list[%d] = %s, want %s", i, it.Name, want[i])
		}
	}
	if _, err := g.Get(ctx, ids[0]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("oldest item should be evicted, got %v", err)
	}
}

func TestOpenGalleryRecoversFromCorruptFile(t *testing.T) {
	dir := t.TempDir()
	junk := make([]byte, 4096)
	for i := range junk {
		junk[i] = byte(i * 7)
	}
	if err := os.WriteFile(GalleryPath(dir), junk, 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := OpenGallery(dir, 0)
	if err != nil {
		t.Fatalf("OpenGallery on corrupt file: %v", err)
	}
	defer g.Close()
	if !g.Recovered() {
		t.Fatalf("expected Recovered() = true")
	}
	bs, err := filepath.Glob(filepath.Join(dir, BackupsDirName, GalleryFileName+".*.bak"))
	if err != nil || len(bs) != 1 {
		t.Fatalf("expected one backup of the damaged file, got %v (%v)", bs, err)
	}
	if n, err := g.Count(context.Background()); err != nil || n != 0 {
		t.Fatalf("fresh gallery Count = %d (%v)", n, err)
	}
}
