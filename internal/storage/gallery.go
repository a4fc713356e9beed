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
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	applog "gocoloring/internal/log"
	"gocoloring/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	GalleryFileName = "gallery.sqlite"
	// DefaultMaxItems is the gallery capacity used when none is configured.
	DefaultMaxItems = 12

	// schemaVersion tracks the gallery schema. Bump it together with a new
	// case in runMigrations.
	schemaVersion = 2
)

var (
	ErrNotFound = errors.New("gallery item not found")
	errCorrupt  = errors.New("gallery database corrupt")
)

// Item is one saved colouring page.
type Item struct {
	ID        string
	Pattern   int
	Name      string
	Size      float64
	Document  []byte // JSON colouring document; empty in List results
	Thumb     []byte // PNG
	CreatedAt time.Time
}

// Gallery is the local store of recently saved pages.
type Gallery struct {
	db        *sql.DB
	path      string
	maxItems  int
	recovered bool
	logger    *slog.Logger
}

// GalleryPath returns the database file inside dir.
func GalleryPath(dir string) string { return filepath.Join(dir, GalleryFileName) }

// OpenGallery opens or creates the gallery database in dir. maxItems <= 0
// selects DefaultMaxItems. A damaged database file is moved to the backups
// folder and replaced by an empty one.
func OpenGallery(dir string, maxItems int) (*Gallery, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "gallery_open").With(
		slog.String("dir", dir),
	)
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("gallery dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.Error("create gallery dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create gallery dir: %w", err)
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	path := GalleryPath(dir)
	db, err := openDB(path)
	recovered := false
	if err != nil && isCorrupt(err) {
		l.Warn("gallery database damaged; starting fresh", slog.Any("err", err))
		if berr := backupCorrupt(path); berr != nil {
			return nil, fmt.Errorf("backup damaged gallery: %w", berr)
		}
		recovered = true
		db, err = openDB(path)
	}
	if err != nil {
		l.Error("gallery open failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("gallery ready", slog.String("path", path), slog.Bool("recovered", recovered))
	return &Gallery{db: db, path: path, maxItems: maxItems, recovered: recovered, logger: applog.WithComponent("gallery")}, nil
}

func openDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fail := func(err error) (*sql.DB, error) {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		return fail(fmt.Errorf("enable WAL: %w", err))
	}
	var qc string
	if err := db.QueryRowContext(ctx, "PRAGMA quick_check;").Scan(&qc); err != nil {
		return fail(fmt.Errorf("quick_check: %w", err))
	}
	if !strings.EqualFold(strings.TrimSpace(qc), "ok") {
		return fail(fmt.Errorf("%w: %s", errCorrupt, qc))
	}
	if err := ensureMetaAndVersion(ctx, db); err != nil {
		return fail(err)
	}
	if err := ensureGallerySchema(ctx, db); err != nil {
		return fail(err)
	}
	if err := runMigrations(ctx, db); err != nil {
		return fail(err)
	}
	return db, nil
}

func isCorrupt(err error) bool {
	if errors.Is(err, errCorrupt) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not a database") || strings.Contains(msg, "malformed")
}

// backupCorrupt moves the database and its WAL side files into the backups folder.
func backupCorrupt(path string) error {
	stamp := time.Now().Format("20060102-150405.000")
	bdir := BackupDir(path)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return err
	}
	if err := os.Rename(path, filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(path), stamp))); err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(path + suffix)
	}
	return nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// keep the stored schema so runMigrations can step it forward
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func ensureGallerySchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS gallery (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT    NOT NULL UNIQUE,
			pattern     INTEGER NOT NULL,
			name        TEXT    NOT NULL,
			size        REAL    NOT NULL,
			document    BLOB    NOT NULL,
			thumb       BLOB,
			created_at  TEXT    NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_gallery_created ON gallery(created_at);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure gallery schema: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < schemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			stmts = []string{
				`CREATE INDEX IF NOT EXISTS idx_gallery_pattern ON gallery(pattern);`,
			}
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}

func (g *Gallery) Path() string    { return g.path }
func (g *Gallery) MaxItems() int   { return g.maxItems }
func (g *Gallery) Recovered() bool { return g.recovered }
func (g *Gallery) Close() error    { return g.db.Close() }

// Save stores it under a fresh id and evicts the oldest items beyond the
// gallery capacity. The new id is returned.
func (g *Gallery) Save(ctx context.Context, it Item) (string, error) {
	if len(it.Document) == 0 {
		return "", errors.New("gallery item has no document")
	}
	id := uuid.NewString()
	created := it.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO gallery(id, pattern, name, size, document, thumb, created_at) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		id, it.Pattern, it.Name, it.Size, it.Document, it.Thumb, created.UTC().Format(time.RFC3339Nano)); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("insert gallery item: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM gallery WHERE seq NOT IN (SELECT seq FROM gallery ORDER BY seq DESC LIMIT ?)`, g.maxItems)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("evict gallery items: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}
	evicted, _ := res.RowsAffected()
	if _, ok := applog.DesignFrom(ctx); !ok {
		ctx = applog.WithDesign(ctx, it.Name)
	}
	g.logger.InfoContext(ctx, "gallery item saved", slog.String("id", id), slog.Int64("evicted", evicted))
	return id, nil
}

// List returns the stored items newest first, without their documents.
func (g *Gallery) List(ctx context.Context) ([]Item, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, pattern, name, size, thumb, created_at FROM gallery ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		var ts string
		if err := rows.Scan(&it.ID, &it.Pattern, &it.Name, &it.Size, &it.Thumb, &ts); err != nil {
			return nil, fmt.Errorf("scan gallery row: %w", err)
		}
		it.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, it)
	}
	return out, rows.Err()
}

// Get returns the full item, or ErrNotFound.
func (g *Gallery) Get(ctx context.Context, id string) (Item, error) {
	var it Item
	var ts string
	err := g.db.QueryRowContext(ctx,
		`SELECT id, pattern, name, size, document, thumb, created_at FROM gallery WHERE id=?`, id).
		Scan(&it.ID, &it.Pattern, &it.Name, &it.Size, &it.Document, &it.Thumb, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Item{}, fmt.Errorf("get %s: %w", id, err)
	}
	it.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	return it, nil
}

// Delete removes an item, or returns ErrNotFound.
func (g *Gallery) Delete(ctx context.Context, id string) error {
	res, err := g.db.ExecContext(ctx, `DELETE FROM gallery WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	g.logger.Info("gallery item deleted", slog.String("id", id))
	return nil
}

// Count returns the number of stored items.
func (g *Gallery) Count(ctx context.Context) (int, error) {
	var n int
	if err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gallery`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count gallery: %w", err)
	}
	return n, nil
}
