//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"gocoloring/internal/coloring"
	"gocoloring/internal/config"
	"gocoloring/internal/crash"
	"gocoloring/internal/export"
	applog "gocoloring/internal/log"
	"gocoloring/internal/pattern"
	"gocoloring/internal/storage"
	"gocoloring/internal/undo"
	"gocoloring/internal/vector"
	"gocoloring/internal/version"
)

const (
	prefsPattern = "lastPattern"
	prefsTheme   = "lastTheme"
	prefsDoc     = "lastDocument"
)

// Run opens the colouring window. A non-empty docPath is loaded on start,
// otherwise the last used pattern is generated.
func Run(docPath string) error {
	cfg, cerr := config.Load()
	applog.Init(applog.Merge(cfg.LogOptions(), applog.FromEnv()), os.Stderr)
	l := applog.WithComponent("ui")
	if cerr != nil {
		l.Warn("config ignored", slog.Any("err", cerr))
	}
	if verr := cfg.Validate(); verr != nil {
		l.Warn("invalid config, using defaults", slog.Any("err", verr))
		cfg = config.Defaults()
	}
	l.Info("starting UI")

	a := &coloringApp{
		cfg:     cfg,
		l:       l,
		history: undo.NewManager(undo.Config{MaxDepth: 200, MaxBytes: 8 << 20}),
		docPath: docPath,
	}
	cc := &crash.Context{Autosave: func() ([]byte, error) {
		if a.sess == nil {
			return nil, errors.New("no open design")
		}
		return a.sess.Document().Encode()
	}}
	if dir, err := cfg.GalleryDir(); err == nil {
		cc.Dir = dir
	}
	defer crash.Recover(cc)

	fyneApp := app.NewWithID("gocoloring")
	a.prefs = fyneApp.Preferences()
	a.w = fyneApp.NewWindow("Go Coloring " + version.String())

	theme := a.prefs.StringWithFallback(prefsTheme, cfg.Palette.Theme)
	if _, err := coloring.ThemeByName(theme); err != nil {
		theme = coloring.DefaultTheme
	}

	a.canvas = NewDesignCanvas()
	a.canvas.OnTap = a.fill
	a.status = widget.NewLabel("")

	names := make([]string, 0, pattern.Count())
	for _, g := range pattern.Patterns() {
		names = append(names, g.Name)
	}
	a.patternSel = widget.NewSelect(names, func(name string) {
		if name == "" {
			return
		}
		idx, err := pattern.Lookup(name)
		if err != nil {
			dialog.ShowError(err, a.w)
			return
		}
		if a.sess != nil && a.sess.Design().Pattern == idx {
			return
		}
		if err := a.newDesign(idx); err != nil {
			dialog.ShowError(err, a.w)
		}
	})

	a.swatches = container.NewGridWrap(fyne.NewSize(36, 36))
	themeNames := make([]string, 0, len(coloring.Themes()))
	for _, t := range coloring.Themes() {
		themeNames = append(themeNames, t.Name)
	}
	themeSel := widget.NewSelect(themeNames, func(name string) {
		if err := a.setTheme(name); err != nil {
			dialog.ShowError(err, a.w)
		}
	})
	a.brushRect = canvas.NewRectangle(color.White)
	a.brushRect.StrokeColor = color.Black
	a.brushRect.StrokeWidth = 1
	a.brushRect.SetMinSize(fyne.NewSize(48, 24))

	a.undoBtn = widget.NewButton("Undo", a.undo)
	a.redoBtn = widget.NewButton("Redo", a.redo)
	resetBtn := widget.NewButton("Reset", func() {
		if a.sess == nil {
			return
		}
		dialog.ShowConfirm("Reset", "Remove all colours from this design?", func(ok bool) {
			if !ok {
				return
			}
			a.sess.Reset()
			a.changed("Design reset")
		}, a.w)
	})
	fitBtn := widget.NewButton("Fit", func() { a.canvas.Fit() })

	toolbar := container.NewHBox(
		widget.NewLabel("Pattern"), a.patternSel,
		widget.NewSeparator(),
		a.undoBtn, a.redoBtn, resetBtn, fitBtn,
	)
	palette := container.NewBorder(
		container.NewVBox(widget.NewLabel("Palette"), themeSel, widget.NewLabel("Brush"), a.brushRect),
		nil, nil, nil,
		container.NewVScroll(a.swatches),
	)
	content := container.NewBorder(toolbar, a.status, palette, nil, a.canvas)

	a.w.SetMainMenu(a.menu())
	a.shortcuts()
	a.w.SetContent(content)
	a.w.Resize(fyne.NewSize(1100, 820))

	themeSel.SetSelected(theme)
	if err := a.start(); err != nil {
		l.Error("start failed", slog.Any("err", err))
		return err
	}

	a.w.ShowAndRun()
	if a.sess != nil {
		a.sess.Close()
	}
	l.Info("UI closed")
	return nil
}

type coloringApp struct {
	cfg     config.AppConfig
	l       *slog.Logger
	w       fyne.Window
	prefs   fyne.Preferences
	history *undo.Manager

	sess    *coloring.Session
	docPath string
	brush   vector.Color

	canvas     *DesignCanvas
	status     *widget.Label
	patternSel *widget.Select
	swatches   *fyne.Container
	brushRect  *canvas.Rectangle
	undoBtn    *widget.Button
	redoBtn    *widget.Button
}

// start opens docPath, the last document, or a fresh design in that order.
func (a *coloringApp) start() error {
	path := strings.TrimSpace(a.docPath)
	if path == "" {
		if last := a.prefs.StringWithFallback(prefsDoc, ""); last != "" {
			if _, err := os.Stat(last); err == nil {
				path = last
			}
		}
	}
	if path != "" {
		err := a.openDocument(path)
		if err == nil {
			return nil
		}
		if a.docPath != "" {
			return err
		}
		a.l.Warn("last document not reopened", slog.String("path", path), slog.Any("err", err))
	}
	idx := a.prefs.IntWithFallback(prefsPattern, a.cfg.Canvas.Pattern)
	if idx < 0 || idx >= pattern.Count() {
		idx = 0
	}
	return a.newDesign(idx)
}

func (a *coloringApp) newDesign(idx int) error {
	s, err := coloring.New(idx, a.cfg.Canvas.Size, coloring.WithHistory(a.history))
	if err != nil {
		return err
	}
	a.docPath = ""
	a.setSession(s)
	a.prefs.SetInt(prefsPattern, idx)
	a.changed(fmt.Sprintf("New %s design", s.Design().Name))
	return nil
}

func (a *coloringApp) openDocument(path string) error {
	doc, err := coloring.Load(path)
	if err != nil {
		return err
	}
	s, err := coloring.Open(doc, coloring.WithHistory(a.history))
	if err != nil {
		return err
	}
	a.docPath = path
	a.setSession(s)
	a.prefs.SetString(prefsDoc, path)
	a.changed("Opened " + filepath.Base(path))
	return nil
}

func (a *coloringApp) importSVG(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read svg: %w", err)
	}
	s, err := coloring.Import(data, coloring.WithHistory(a.history))
	if err != nil {
		return err
	}
	a.docPath = ""
	a.setSession(s)
	a.changed(fmt.Sprintf("Imported %d regions from %s", s.Surface().Len(), filepath.Base(path)))
	return nil
}

func (a *coloringApp) setSession(s *coloring.Session) {
	if a.sess != nil {
		a.sess.Close()
	}
	a.sess = s
	if s.Design().Pattern == pattern.ImportedPattern {
		a.patternSel.ClearSelected()
	} else {
		a.patternSel.SetSelected(s.Design().Name)
	}
	a.canvas.SetDesign(s.Design())
	a.w.SetTitle(fmt.Sprintf("Go Coloring - %s", s.Design().Name))
}

func (a *coloringApp) setTheme(name string) error {
	t, err := coloring.ThemeByName(name)
	if err != nil {
		return err
	}
	a.swatches.RemoveAll()
	for _, c := range t.Colors {
		a.swatches.Add(newSwatch(c, a.setBrush))
	}
	a.swatches.Refresh()
	if len(t.Colors) > 0 {
		a.setBrush(t.Colors[0])
	}
	a.prefs.SetString(prefsTheme, t.Name)
	return nil
}

func (a *coloringApp) setBrush(c vector.Color) {
	a.brush = c
	a.brushRect.FillColor = c.RGBA()
	a.brushRect.Refresh()
	a.status.SetText("Brush " + c.Hex())
}

func (a *coloringApp) fill(pt vector.Pt) {
	if a.sess == nil {
		return
	}
	r, err := a.sess.FillAt(pt, a.brush)
	if errors.Is(err, coloring.ErrNoRegion) {
		a.status.SetText("Nothing to colour here")
		return
	}
	if err != nil {
		dialog.ShowError(err, a.w)
		return
	}
	a.changed(fmt.Sprintf("Filled %s #%d with %s", r.Tag, r.ID, a.brush.Hex()))
}

func (a *coloringApp) undo() {
	if a.sess != nil && a.sess.Undo() {
		a.changed("Undo")
	}
}

func (a *coloringApp) redo() {
	if a.sess != nil && a.sess.Redo() {
		a.changed("Redo")
	}
}

// changed redraws the design and syncs the history buttons.
func (a *coloringApp) changed(msg string) {
	a.canvas.Redraw()
	if a.sess != nil && a.sess.CanUndo() {
		a.undoBtn.Enable()
	} else {
		a.undoBtn.Disable()
	}
	if a.sess != nil && a.sess.CanRedo() {
		a.redoBtn.Enable()
	} else {
		a.redoBtn.Disable()
	}
	a.status.SetText(msg)
}

func (a *coloringApp) shortcuts() {
	c := a.w.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { a.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { a.redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { a.save() })
}

func (a *coloringApp) menu() *fyne.MainMenu {
	openItem := fyne.NewMenuItem("Open…", func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, a.w)
				return
			}
			if rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			if err := a.openDocument(path); err != nil {
				a.l.Error("open failed", slog.String("path", path), slog.Any("err", err))
				dialog.ShowError(err, a.w)
			}
		}, a.w)
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".json"}))
		fd.Show()
	})
	importItem := fyne.NewMenuItem("Import SVG…", func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, a.w)
				return
			}
			if rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			if err := a.importSVG(path); err != nil {
				a.l.Error("import failed", slog.String("path", path), slog.Any("err", err))
				dialog.ShowError(err, a.w)
			}
		}, a.w)
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".svg"}))
		fd.Show()
	})
	saveItem := fyne.NewMenuItem("Save", a.save)
	saveAsItem := fyne.NewMenuItem("Save As…", a.saveAs)
	exportItem := fyne.NewMenuItem("Export…", a.exportDialog)
	galleryItem := fyne.NewMenuItem("Save to Gallery", a.saveToGallery)
	browseItem := fyne.NewMenuItem("Gallery…", a.showGallery)
	fileMenu := fyne.NewMenu("File", openItem, importItem, saveItem, saveAsItem, fyne.NewMenuItemSeparator(), exportItem, fyne.NewMenuItemSeparator(), galleryItem, browseItem)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
	)
	aboutMenu := fyne.NewMenu("Help", fyne.NewMenuItem("About", func() {
		dialog.ShowInformation("About", "Go Coloring "+version.String(), a.w)
	}))
	return fyne.NewMainMenu(fileMenu, editMenu, aboutMenu)
}

func (a *coloringApp) save() {
	if a.sess == nil {
		return
	}
	if a.docPath == "" {
		a.saveAs()
		return
	}
	if err := a.sess.Document().Save(a.docPath); err != nil {
		a.l.Error("save failed", slog.Any("err", err))
		dialog.ShowError(err, a.w)
		return
	}
	a.status.SetText("Saved " + filepath.Base(a.docPath))
}

func (a *coloringApp) saveAs() {
	if a.sess == nil {
		return
	}
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.w)
			return
		}
		if uc == nil {
			return
		}
		path := uc.URI().Path()
		_ = uc.Close()
		if !strings.HasSuffix(strings.ToLower(path), ".json") {
			path += ".json"
		}
		a.docPath = path
		a.prefs.SetString(prefsDoc, path)
		a.save()
	}, a.w)
	fd.SetFileName(exportName(a.sess.Design(), "json"))
	fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".json"}))
	fd.Show()
}

func (a *coloringApp) exportDialog() {
	if a.sess == nil {
		return
	}
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.w)
			return
		}
		if uc == nil {
			return
		}
		path := uc.URI().Path()
		_ = uc.Close()
		if _, ferr := export.FormatFromPath(path); ferr != nil {
			path += "." + strings.ToLower(a.cfg.Export.Format)
		}
		opt := export.Options{Scale: a.cfg.Export.Scale, StrokeWidth: a.cfg.Export.StrokeWidth}
		if err := export.ExportFile(path, "", pageOf(a.sess.Design()), opt); err != nil {
			dialog.ShowError(err, a.w)
			return
		}
		dialog.ShowInformation("Export", "Exported to "+path, a.w)
	}, a.w)
	fd.SetFileName(exportName(a.sess.Design(), a.cfg.Export.Format))
	if dir := strings.TrimSpace(a.cfg.Export.Dir); dir != "" {
		if lister, err := fstorage.ListerForURI(fstorage.NewFileURI(dir)); err == nil {
			fd.SetLocation(lister)
		}
	}
	fd.Show()
}

func (a *coloringApp) openGallery() (*storage.Gallery, error) {
	dir, err := a.cfg.GalleryDir()
	if err != nil {
		return nil, err
	}
	g, err := storage.OpenGallery(dir, a.cfg.Gallery.MaxItems)
	if err != nil {
		return nil, err
	}
	if g.Recovered() {
		a.status.SetText("Gallery was damaged and has been reset; a backup was kept")
	}
	return g, nil
}

func (a *coloringApp) saveToGallery() {
	if a.sess == nil {
		return
	}
	doc, err := a.sess.Document().Encode()
	if err != nil {
		dialog.ShowError(err, a.w)
		return
	}
	d := a.sess.Design()
	thumb, err := export.Thumbnail(pageOf(d), a.cfg.Gallery.ThumbSize)
	if err != nil {
		dialog.ShowError(err, a.w)
		return
	}
	g, err := a.openGallery()
	if err != nil {
		dialog.ShowError(err, a.w)
		return
	}
	defer func() { _ = g.Close() }()
	id, err := g.Save(context.Background(), storage.Item{Pattern: d.Pattern, Name: d.Name, Size: d.Size, Document: doc, Thumb: thumb})
	if err != nil {
		dialog.ShowError(err, a.w)
		return
	}
	a.l.Info("saved to gallery", slog.String("id", id))
	a.status.SetText("Saved to gallery")
}

func (a *coloringApp) showGallery() {
	g, err := a.openGallery()
	if err != nil {
		dialog.ShowError(err, a.w)
		return
	}
	defer func() { _ = g.Close() }()
	items, err := g.List(context.Background())
	if err != nil {
		dialog.ShowError(err, a.w)
		return
	}
	if len(items) == 0 {
		dialog.ShowInformation("Gallery", "The gallery is empty.", a.w)
		return
	}
	var dlg dialog.Dialog
	grid := container.NewGridWrap(fyne.NewSize(170, 200))
	for _, it := range items {
		it := it
		var thumb fyne.CanvasObject = canvas.NewRectangle(color.White)
		if img, _, derr := image.Decode(bytes.NewReader(it.Thumb)); derr == nil {
			ci := canvas.NewImageFromImage(img)
			ci.FillMode = canvas.ImageFillContain
			thumb = ci
		}
		open := widget.NewButton(it.Name+" "+it.CreatedAt.Format("01-02 15:04"), func() {
			if err := a.openGalleryItem(it.ID); err != nil {
				dialog.ShowError(err, a.w)
				return
			}
			dlg.Hide()
		})
		grid.Add(container.NewBorder(nil, open, nil, nil, thumb))
	}
	scroll := container.NewVScroll(grid)
	scroll.SetMinSize(fyne.NewSize(540, 440))
	dlg = dialog.NewCustom("Gallery", "Close", scroll, a.w)
	dlg.Show()
}

func (a *coloringApp) openGalleryItem(id string) error {
	g, err := a.openGallery()
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()
	it, err := g.Get(context.Background(), id)
	if err != nil {
		return err
	}
	doc, err := coloring.Decode(it.Document)
	if err != nil {
		return err
	}
	s, err := coloring.Open(doc, coloring.WithHistory(a.history))
	if err != nil {
		return err
	}
	a.docPath = ""
	a.setSession(s)
	a.changed("Opened gallery item " + it.Name)
	return nil
}

func newSwatch(c vector.Color, pick func(vector.Color)) fyne.CanvasObject {
	rect := canvas.NewRectangle(c.RGBA())
	rect.CornerRadius = 4
	btn := widget.NewButton("", func() { pick(c) })
	btn.Importance = widget.LowImportance
	return container.NewStack(rect, btn)
}

// DesignCanvas shows a rasterised design and turns taps into design
// coordinates. Drag pans, the scroll wheel zooms.
type DesignCanvas struct {
	widget.BaseWidget

	view   viewport
	design *pattern.Design
	img    image.Image
	fitted bool

	// OnTap receives taps in design units.
	OnTap func(pt vector.Pt)
}

func NewDesignCanvas() *DesignCanvas {
	c := &DesignCanvas{view: newViewport()}
	c.ExtendBaseWidget(c)
	return c
}

// SetDesign replaces the displayed design and refits it on the next layout.
func (c *DesignCanvas) SetDesign(d *pattern.Design) {
	c.design = d
	c.fitted = false
	c.Redraw()
}

// Redraw re-rasterises the design, e.g. after a fill.
func (c *DesignCanvas) Redraw() {
	c.img = nil
	if c.design != nil {
		img, err := export.Render(pageOf(c.design), export.Options{Scale: renderScale(c.design.Size, c.view.zoom)})
		if err != nil {
			applog.WithComponent("ui").Error("render failed", slog.Any("err", err))
		} else {
			c.img = img
		}
	}
	c.Refresh()
}

// Fit resets pan and zoom so the whole design is visible.
func (c *DesignCanvas) Fit() {
	c.fitted = false
	c.Redraw()
}

func (c *DesignCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

func (c *DesignCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 236, G: 236, B: 240, A: 255})
	img := canvas.NewImageFromImage(c.img)
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScaleSmooth
	return &designCanvasRenderer{dc: c, bg: bg, img: img, objects: []fyne.CanvasObject{bg, img}}
}

func (c *DesignCanvas) Tapped(e *fyne.PointEvent) {
	if c.design == nil || c.OnTap == nil {
		return
	}
	sz := c.Size()
	c.OnTap(c.view.toDesign(e.Position.X, e.Position.Y, sz.Width, sz.Height, c.design.Size))
}

func (c *DesignCanvas) Dragged(e *fyne.DragEvent) {
	c.view.pan(e.Dragged.DX, e.Dragged.DY)
	c.Refresh()
}

func (c *DesignCanvas) DragEnd() {}

func (c *DesignCanvas) Scrolled(e *fyne.ScrollEvent) {
	c.view.zoomBy(e.Scrolled.DY * 0.05)
	c.Redraw()
}

type designCanvasRenderer struct {
	dc      *DesignCanvas
	bg      *canvas.Rectangle
	img     *canvas.Image
	objects []fyne.CanvasObject
}

func (r *designCanvasRenderer) Destroy()                     {}
func (r *designCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *designCanvasRenderer) MinSize() fyne.Size           { return fyne.NewSize(200, 200) }

func (r *designCanvasRenderer) Refresh() {
	r.img.Image = r.dc.img
	r.Layout(r.dc.Size())
	canvas.Refresh(r.dc)
}

func (r *designCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	d := r.dc.design
	if d == nil || r.dc.img == nil {
		r.img.Hide()
		return
	}
	if !r.dc.fitted && size.Width > 0 && size.Height > 0 {
		r.dc.view.fit(size.Width, size.Height, d.Size)
		r.dc.fitted = true
	}
	x, y := r.dc.view.origin(size.Width, size.Height, d.Size)
	side := float32(d.Size) * r.dc.view.zoom
	r.img.Move(fyne.NewPos(x, y))
	r.img.Resize(fyne.NewSize(side, side))
	r.img.Show()
}
