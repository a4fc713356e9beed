/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gocoloring/internal/coloring"
)

// isolate points config, gallery and export folders at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GOCOLOR_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("GOCOLOR_GALLERY_DIR", filepath.Join(dir, "gallery"))
	t.Setenv("GOCOLOR_EXPORT_DIR", filepath.Join(dir, "out"))
	t.Setenv("GOCOLOR_SIZE", "")
	t.Setenv("GOCOLOR_PATTERN", "")
	t.Setenv("GOCOLOR_LOG_LEVEL", "error")
	t.Setenv("GOCOLOR_LOG_FILE", "")
	return dir
}

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunWithoutArgsPrintsUsage(t *testing.T) {
	isolate(t)
	code, out, _ := runCmd(t)
	if code != 0 || !strings.Contains(out, "Usage:") {
		t.Fatalf("code=%d out=%q", code, out)
	}
}

func TestRunUnknownCommandIsUsageError(t *testing.T) {
	isolate(t)
	code, _, errOut := runCmd(t, "paint")
	if code != 2 {
		t.Fatalf("code = %d, want 2", code)
	}
	if !strings.Contains(errOut, "Error:") || !strings.Contains(errOut, "Usage:") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestList(t *testing.T) {
	isolate(t)
	code, out, _ := runCmd(t, "list")
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	for _, name := range []string{"Aztec", "Celtic", "Dreamcatcher", "Lotus"} {
		if !strings.Contains(out, name) {
			t.Fatalf("list output missing %s: %q", name, out)
		}
	}
}

func TestGenerateWritesFile(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "celtic.svg")
	if code, _, errOut := runCmd(t, "generate", "celtic", out, "400"); code != 0 {
		t.Fatalf("generate failed: %d %s", code, errOut)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Fatalf("output is not svg")
	}
}

func TestGenerateDefaultsToExportDir(t *testing.T) {
	dir := isolate(t)
	if code, _, errOut := runCmd(t, "generate", "2"); code != 0 {
		t.Fatalf("generate failed: %d %s", code, errOut)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "dreamcatcher.svg")); err != nil {
		t.Fatalf("expected default output: %v", err)
	}
}

func TestGenerateErrors(t *testing.T) {
	isolate(t)
	if code, _, _ := runCmd(t, "generate"); code != 2 {
		t.Fatalf("missing pattern: code = %d, want 2", code)
	}
	if code, _, _ := runCmd(t, "generate", "paisley"); code != 1 {
		t.Fatalf("unknown pattern: code = %d, want 1", code)
	}
	if code, _, _ := runCmd(t, "generate", "aztec", "x.svg", "-5"); code != 2 {
		t.Fatalf("bad size: code = %d, want 2", code)
	}
}

func TestVerifyAllPatterns(t *testing.T) {
	isolate(t)
	code, out, errOut := runCmd(t, "verify")
	if code != 0 {
		t.Fatalf("verify failed: %d %s\n%s", code, out, errOut)
	}
	if n := strings.Count(out, " ok"); n != 4 {
		t.Fatalf("expected 4 ok lines, got %d: %q", n, out)
	}
}

func TestColorCreatesAndUpdatesDocument(t *testing.T) {
	dir := isolate(t)
	doc := filepath.Join(dir, "page.json")
	if code, _, errOut := runCmd(t, "color", doc, "400", "400", "#ff0000"); code != 0 {
		t.Fatalf("color failed: %d %s", code, errOut)
	}
	if code, _, errOut := runCmd(t, "color", doc, "400", "400", "#00ff00"); code != 0 {
		t.Fatalf("second color failed: %d %s", code, errOut)
	}
	d, err := coloring.Load(doc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(d.Fills) != 1 || d.Fills[0].Color != "#00ff00" {
		t.Fatalf("fills = %+v, want one green fill", d.Fills)
	}
}

func TestColorErrors(t *testing.T) {
	dir := isolate(t)
	doc := filepath.Join(dir, "page.json")
	if code, _, _ := runCmd(t, "color", doc, "a", "1", "#fff"); code != 2 {
		t.Fatalf("bad coordinate: code = %d, want 2", code)
	}
	if code, _, _ := runCmd(t, "color", doc, "1", "1", "red"); code != 1 {
		t.Fatalf("bad colour: code = %d, want 1", code)
	}
	if code, _, _ := runCmd(t, "color", doc, "-50", "-50", "#ffffff"); code != 1 {
		t.Fatalf("outside canvas: code = %d, want 1", code)
	}
}

func TestExportColouredDocument(t *testing.T) {
	dir := isolate(t)
	doc := filepath.Join(dir, "page.json")
	if code, _, errOut := runCmd(t, "color", doc, "400", "400", "#3366cc"); code != 0 {
		t.Fatalf("color failed: %d %s", code, errOut)
	}
	out := filepath.Join(dir, "page.svg")
	if code, _, errOut := runCmd(t, "export", doc, out); code != 0 {
		t.Fatalf("export failed: %d %s", code, errOut)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Contains(data, []byte("#3366cc")) {
		t.Fatalf("exported svg lacks the fill colour")
	}
}

func TestGalleryRoundTrip(t *testing.T) {
	dir := isolate(t)
	doc := filepath.Join(dir, "page.json")
	if code, _, errOut := runCmd(t, "color", doc, "400", "400", "#ff0000"); code != 0 {
		t.Fatalf("color failed: %d %s", code, errOut)
	}
	code, out, errOut := runCmd(t, "gallery", "save", doc)
	if code != 0 {
		t.Fatalf("gallery save failed: %d %s", code, errOut)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		t.Fatal("gallery save printed no id")
	}

	if code, out, _ := runCmd(t, "gallery", "list"); code != 0 || !strings.Contains(out, id) {
		t.Fatalf("gallery list: code=%d out=%q", code, out)
	}

	copyPath := filepath.Join(dir, "copy.json")
	if code, _, errOut := runCmd(t, "gallery", "load", id, copyPath); code != 0 {
		t.Fatalf("gallery load failed: %d %s", code, errOut)
	}
	d, err := coloring.Load(copyPath)
	if err != nil {
		t.Fatalf("Load copy: %v", err)
	}
	if len(d.Fills) != 1 {
		t.Fatalf("copy fills = %+v", d.Fills)
	}

	if code, _, _ := runCmd(t, "gallery", "delete", id); code != 0 {
		t.Fatalf("gallery delete: code = %d", code)
	}
	if code, _, _ := runCmd(t, "gallery", "delete", id); code != 1 {
		t.Fatalf("second delete: code = %d, want 1", code)
	}
	if code, _, _ := runCmd(t, "gallery", "frobnicate"); code != 2 {
		t.Fatalf("bad subcommand: code = %d, want 2", code)
	}
}

func TestUIStubWithoutFyne(t *testing.T) {
	isolate(t)
	if code, _, errOut := runCmd(t, "ui"); code != 1 || !strings.Contains(errOut, "-tags fyne") {
		t.Fatalf("ui: code=%d stderr=%q", code, errOut)
	}
}

func TestImportGeneratedPageThenColor(t *testing.T) {
	dir := isolate(t)
	page := filepath.Join(dir, "lotus.svg")
	if code, _, errOut := runCmd(t, "generate", "lotus", page, "400"); code != 0 {
		t.Fatalf("generate: %s", errOut)
	}
	doc := filepath.Join(dir, "lotus.json")
	code, out, errOut := runCmd(t, "import", page, doc)
	if code != 0 {
		t.Fatalf("import: code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Imported Lotus (140 regions)") {
		t.Fatalf("out = %q", out)
	}
	if code, _, errOut := runCmd(t, "color", doc, "200", "200", "#3d5a80"); code != 0 {
		t.Fatalf("color imported document: %s", errOut)
	}
	d, err := coloring.Load(doc)
	if err != nil {
		t.Fatal(err)
	}
	if d.Pattern != -1 || d.Source == "" || len(d.Fills) != 1 {
		t.Fatalf("document = pattern %d, %d fills", d.Pattern, len(d.Fills))
	}
}

func TestImportErrors(t *testing.T) {
	dir := isolate(t)
	if code, _, _ := runCmd(t, "import", "only.svg"); code != 2 {
		t.Fatalf("missing doc arg should be a usage error")
	}
	if code, _, _ := runCmd(t, "import", filepath.Join(dir, "missing.svg"), filepath.Join(dir, "d.json")); code != 1 {
		t.Fatalf("missing file should fail")
	}
}
