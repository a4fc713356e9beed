/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gocoloring/internal/coloring"
	"gocoloring/internal/config"
	"gocoloring/internal/crash"
	"gocoloring/internal/export"
	applog "gocoloring/internal/log"
	"gocoloring/internal/pattern"
	"gocoloring/internal/storage"
	"gocoloring/internal/ui"
	"gocoloring/internal/vector"
	"gocoloring/internal/version"
)

// errUsage marks bad command lines; they exit with status 2.
var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintln(w, "Go Coloring - procedural colouring pages")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  gocoloring version|-v|--version                 Show version")
	fmt.Fprintln(w, "  gocoloring list                                 List the available patterns")
	fmt.Fprintln(w, "  gocoloring generate <pattern> [out] [size]      Write an uncoloured page (svg, png or pdf by extension)")
	fmt.Fprintln(w, "  gocoloring verify [pattern] [size]              Check that every region is a valid fill target")
	fmt.Fprintln(w, "  gocoloring color <doc.json> <x> <y> <#hex>      Fill the region under x,y (creates the document if absent)")
	fmt.Fprintln(w, "  gocoloring export <doc.json> <out>              Write a coloured document as svg, png or pdf")
	fmt.Fprintln(w, "  gocoloring import <in.svg> <doc.json>           Start a document from an SVG file's closed paths")
	fmt.Fprintln(w, "  gocoloring gallery save <doc.json>              Store a document in the gallery")
	fmt.Fprintln(w, "  gocoloring gallery list                         List gallery items, newest first")
	fmt.Fprintln(w, "  gocoloring gallery load <id> <doc.json>         Write a gallery item to a document file")
	fmt.Fprintln(w, "  gocoloring gallery delete <id>                  Remove a gallery item")
	fmt.Fprintln(w, "  gocoloring ui [doc.json]                        Launch desktop UI (build with -tags fyne)")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, cerr := config.Load()
	applog.Init(applog.Merge(cfg.LogOptions(), applog.FromEnv()), stderr)
	l := applog.WithComponent("cli")
	if cerr != nil {
		l.Warn("config ignored", slog.Any("err", cerr))
	}
	if verr := cfg.Validate(); verr != nil {
		l.Warn("invalid config, using defaults", slog.Any("err", verr))
		cfg = config.Defaults()
	}

	cc := &crash.Context{}
	if dir, err := cfg.GalleryDir(); err == nil {
		cc.Dir = dir
	}
	defer crash.Recover(cc)

	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	c := &cli{cfg: cfg, out: stdout, l: l}
	var err error
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, "Go Coloring")
		fmt.Fprintln(stdout, version.String())
	case "list":
		c.list()
	case "generate":
		err = c.generate(args[1:])
	case "verify":
		err = c.verify(args[1:])
	case "color", "colour":
		cc.Design = argAt(args, 1)
		err = c.color(args[1:])
	case "export":
		err = c.export(args[1:])
	case "import":
		err = c.importSVG(args[1:])
	case "gallery":
		err = c.gallery(args[1:])
	case "ui":
		err = ui.Run(argAt(args, 1))
	case "help", "-h", "--help":
		usage(stdout)
	default:
		err = fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, "Error:", err)
		usage(stderr)
		return 2
	default:
		l.Error("command failed", slog.String("cmd", args[0]), slog.Any("err", err))
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
}

type cli struct {
	cfg config.AppConfig
	out io.Writer
	l   *slog.Logger
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (c *cli) size(arg string) (float64, error) {
	if strings.TrimSpace(arg) == "" {
		return c.cfg.Canvas.Size, nil
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("size %q must be a positive number: %w", arg, errUsage)
	}
	return v, nil
}

func (c *cli) options() export.Options {
	return export.Options{Scale: c.cfg.Export.Scale, StrokeWidth: c.cfg.Export.StrokeWidth}
}

func (c *cli) list() {
	for i, g := range pattern.Patterns() {
		fmt.Fprintf(c.out, "%d  %-13s %s\n", i, g.Name, g.Summary)
	}
}

func (c *cli) generate(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("generate requires <pattern>: %w", errUsage)
	}
	idx, err := pattern.Lookup(args[0])
	if err != nil {
		return err
	}
	size, err := c.size(argAt(args, 2))
	if err != nil {
		return err
	}
	s, err := coloring.New(idx, size)
	if err != nil {
		return err
	}
	defer s.Close()
	d := s.Design()
	out := argAt(args, 1)
	if out == "" {
		name := strings.ToLower(d.Name) + "." + strings.ToLower(c.cfg.Export.Format)
		out = filepath.Join(c.cfg.Export.Dir, name)
	}
	if err := export.ExportFile(out, "", export.Page{Title: d.Name, Size: d.Size, Regions: d.Regions}, c.options()); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Wrote %s (%d regions) to %s\n", d.Name, len(d.Regions), out)
	return nil
}

func (c *cli) verify(args []string) error {
	indices := make([]int, 0, pattern.Count())
	if name := argAt(args, 0); name != "" {
		idx, err := pattern.Lookup(name)
		if err != nil {
			return err
		}
		indices = append(indices, idx)
	} else {
		for i := 0; i < pattern.Count(); i++ {
			indices = append(indices, i)
		}
	}
	size, err := c.size(argAt(args, 1))
	if err != nil {
		return err
	}
	failed := 0
	for _, idx := range indices {
		s, err := coloring.New(idx, size)
		if err != nil {
			return err
		}
		d := s.Design()
		rep := pattern.Check(d.Regions)
		s.Close()
		if rep.OK() {
			fmt.Fprintf(c.out, "%-13s %4d regions  ok\n", d.Name, rep.Regions)
			continue
		}
		failed++
		fmt.Fprintf(c.out, "%-13s %4d regions  %d problems\n", d.Name, rep.Regions, len(rep.Problems))
		for _, p := range rep.Problems {
			fmt.Fprintf(c.out, "  %s\n", p)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d designs failed verification", failed, len(indices))
	}
	return nil
}

// openDocument loads path, or starts a new document from the configured
// pattern and size when the file does not exist.
func (c *cli) openDocument(path string, create bool) (*coloring.Session, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && create {
		c.l.Info("new document", slog.String("path", path), slog.Int("pattern", c.cfg.Canvas.Pattern))
		return coloring.New(c.cfg.Canvas.Pattern, c.cfg.Canvas.Size)
	}
	doc, err := coloring.Load(path)
	if err != nil {
		return nil, err
	}
	return coloring.Open(doc)
}

func (c *cli) color(args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("color requires <doc.json> <x> <y> <#hex>: %w", errUsage)
	}
	x, xerr := strconv.ParseFloat(args[1], 64)
	y, yerr := strconv.ParseFloat(args[2], 64)
	if xerr != nil || yerr != nil {
		return fmt.Errorf("coordinates %q %q must be numbers: %w", args[1], args[2], errUsage)
	}
	col, err := vector.ParseHex(args[3])
	if err != nil {
		return err
	}
	s, err := c.openDocument(args[0], true)
	if err != nil {
		return err
	}
	defer s.Close()
	r, err := s.FillAt(vector.P(x, y), col)
	if err != nil {
		return err
	}
	if err := s.Document().Save(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Filled region %d (%s) with %s\n", r.ID, r.Tag, col.Hex())
	return nil
}

func (c *cli) export(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("export requires <doc.json> <out>: %w", errUsage)
	}
	s, err := c.openDocument(args[0], false)
	if err != nil {
		return err
	}
	defer s.Close()
	d := s.Design()
	if err := export.ExportFile(args[1], "", export.Page{Title: d.Name, Size: d.Size, Regions: d.Regions}, c.options()); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Exported %s to %s\n", d.Name, args[1])
	return nil
}

func (c *cli) importSVG(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("import requires <in.svg> <doc.json>: %w", errUsage)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read svg: %w", err)
	}
	s, err := coloring.Import(data)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Document().Save(args[1]); err != nil {
		return err
	}
	d := s.Design()
	fmt.Fprintf(c.out, "Imported %s (%d regions) to %s\n", d.Name, len(d.Regions), args[1])
	return nil
}

func (c *cli) gallery(args []string) error {
	sub := argAt(args, 0)
	switch sub {
	case "save", "list", "load", "delete":
	default:
		return fmt.Errorf("gallery requires save|list|load|delete: %w", errUsage)
	}
	dir, err := c.cfg.GalleryDir()
	if err != nil {
		return err
	}
	g, err := storage.OpenGallery(dir, c.cfg.Gallery.MaxItems)
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()
	if g.Recovered() {
		fmt.Fprintln(c.out, "Gallery database was damaged and has been recreated; the old file is in backups/")
	}
	ctx := context.Background()

	switch sub {
	case "save":
		if len(args) < 2 {
			return fmt.Errorf("gallery save requires <doc.json>: %w", errUsage)
		}
		s, err := c.openDocument(args[1], false)
		if err != nil {
			return err
		}
		defer s.Close()
		d := s.Design()
		doc, err := s.Document().Encode()
		if err != nil {
			return err
		}
		thumb, err := export.Thumbnail(export.Page{Title: d.Name, Size: d.Size, Regions: d.Regions}, c.cfg.Gallery.ThumbSize)
		if err != nil {
			return err
		}
		id, err := g.Save(ctx, storage.Item{Pattern: d.Pattern, Name: d.Name, Size: d.Size, Document: doc, Thumb: thumb})
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, id)
	case "list":
		items, err := g.List(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(c.out, "Gallery is empty")
		}
		for _, it := range items {
			fmt.Fprintf(c.out, "%s  %-13s %6.0f  %s\n", it.ID, it.Name, it.Size, it.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
	case "load":
		if len(args) < 3 {
			return fmt.Errorf("gallery load requires <id> <doc.json>: %w", errUsage)
		}
		it, err := g.Get(ctx, args[1])
		if err != nil {
			return err
		}
		doc, err := coloring.Decode(it.Document)
		if err != nil {
			return err
		}
		if err := doc.Save(args[2]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Wrote %s to %s\n", it.Name, args[2])
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("gallery delete requires <id>: %w", errUsage)
		}
		if err := g.Delete(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Deleted", args[1])
	}
	return nil
}
