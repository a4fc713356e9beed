/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	applog "gocoloring/internal/log"
	"gocoloring/internal/storage"
)

func TestMain(m *testing.M) {
	applog.Discard()
	os.Exit(m.Run())
}

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	path, err := writeReport(nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "gocoloring crash report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
}

func TestWriteReportCreatesFileInBackups(t *testing.T) {
	root := t.TempDir()
	path, err := writeReport(&Context{Dir: root, Design: "Celtic"}, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if !strings.HasPrefix(path, filepath.Join(root, storage.BackupsDirName)) {
		t.Fatalf("expected crash report under backups dir, got %s", path)
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), "Design: Celtic") {
		t.Fatalf("design missing from report")
	}
}

func quietStderr(t *testing.T) {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	t.Cleanup(func() {
		_ = w.Close()
		os.Stderr = old
		_, _ = io.Copy(io.Discard, r)
	})
}

func TestRecoverWritesReportAndAutosave(t *testing.T) {
	quietStderr(t)
	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	root := t.TempDir()
	doc := []byte(`{"version":1,"pattern":0,"size":800,"fills":[]}`)
	func() {
		defer Recover(&Context{Dir: root, Autosave: func() ([]byte, error) { return doc, nil }})
		panic("boom")
	}()

	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
	bdir := filepath.Join(root, storage.BackupsDirName)
	reports, _ := filepath.Glob(filepath.Join(bdir, "crash-*.log"))
	if len(reports) != 1 {
		t.Fatalf("expected one crash report, got %v", reports)
	}
	saves, _ := filepath.Glob(filepath.Join(bdir, "autosave-*.json"))
	if len(saves) != 1 {
		t.Fatalf("expected one autosave, got %v", saves)
	}
	if b, _ := os.ReadFile(saves[0]); string(b) != string(doc) {
		t.Fatalf("autosave content = %s", b)
	}
}

func TestRecoverAutosaveErrorStillReports(t *testing.T) {
	quietStderr(t)
	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	root := t.TempDir()
	func() {
		defer Recover(&Context{Dir: root, Autosave: func() ([]byte, error) { return nil, errors.New("no document") }})
		panic("boom")
	}()
	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
	reports, _ := filepath.Glob(filepath.Join(root, storage.BackupsDirName, "crash-*.log"))
	if len(reports) != 1 {
		t.Fatalf("expected crash report despite autosave failure")
	}
}

func TestRecoverWithoutPanicIsNoop(t *testing.T) {
	called := false
	oldExit := exitFn
	exitFn = func(int) { called = true }
	defer func() { exitFn = oldExit }()
	func() {
		defer Recover(nil)
	}()
	if called {
		t.Fatalf("exit must not be called without a panic")
	}
}
