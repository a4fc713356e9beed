/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pattern

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	applog "gocoloring/internal/log"
	"gocoloring/internal/surface"
	"gocoloring/internal/vector"
)

// ImportedPattern is the Design.Pattern of a design read from an SVG file.
const ImportedPattern = -1

// ImportTag tags every region registered by Import.
const ImportTag = "import"

// ImportedName names an imported design whose file carries no title.
const ImportedName = "Imported"

// ErrNoPaths is returned when an SVG file holds no closed contour.
var ErrNoPaths = errors.New("no closed paths")

// Import reads the shapes of an SVG file and registers every closed contour
// on s as a fillable region, in document order. Rects, circles, polygons and
// arcs arrive as paths. Element transforms are not applied. A leading contour
// that covers the whole view box is the page background and is skipped; open
// subpaths are skipped too. Coordinates are shifted so the view box starts at
// the origin. s must be active and empty; on failure it is cleared.
func Import(s *surface.Surface, r io.Reader) (*Design, error) {
	if s == nil {
		return nil, fmt.Errorf("import svg: nil surface: %w", surface.ErrPreconditionViolated)
	}
	if !s.Active() {
		return nil, fmt.Errorf("import svg: surface %q not active: %w", s.Name(), surface.ErrPreconditionViolated)
	}
	if s.Len() != 0 {
		return nil, fmt.Errorf("import svg: surface %q holds %d regions: %w", s.Name(), s.Len(), surface.ErrPreconditionViolated)
	}
	l := applog.WithOperation(applog.WithComponent("pattern"), "import")
	start := time.Now()

	icon, err := oksvg.ReadIconStream(r, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("import svg: %w", err)
	}
	var contours []vector.Path
	open := 0
	background := false
	for _, sp := range icon.SVGPaths {
		cs, n := contoursOf(sp.Path)
		contours = append(contours, cs...)
		open += n
	}
	if len(contours) == 0 {
		return nil, fmt.Errorf("import svg: %w", ErrNoPaths)
	}

	vb := vector.R(icon.ViewBox.X, icon.ViewBox.Y, icon.ViewBox.W, icon.ViewBox.H)
	declared := vb.W > 0 && vb.H > 0
	if !declared {
		vb = contours[0].Bounds()
		for _, c := range contours[1:] {
			vb = vb.Union(c.Bounds())
		}
	}
	size := math.Max(vb.W, vb.H)
	if !(size > 0) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("import svg: view box %gx%g: %w", vb.W, vb.H, vector.ErrInvalidGeometry)
	}

	// Fixed-point path data is exact to 1/64 of a unit.
	page := vb.Inset(1.0/32, 1.0/32)
	shift := vector.Translate(-vb.X, -vb.Y)
	add := s.Gate(ImportTag)
	if b := contours[0].Bounds(); declared && len(contours) > 1 && b.Contains(page.Min()) && b.Contains(page.Max()) {
		contours = contours[1:]
		background = true
	}
	for _, c := range contours {
		if _, err := add(c.Transform(shift), nil); err != nil {
			s.Clear()
			return nil, fmt.Errorf("import svg: %w", err)
		}
	}

	name := ImportedName
	if len(icon.Titles) > 0 && strings.TrimSpace(icon.Titles[0]) != "" {
		name = strings.TrimSpace(icon.Titles[0])
	}
	l.Info("design imported",
		slog.String("design", name),
		slog.Int("regions", s.Len()),
		slog.Int("open", open),
		slog.Bool("background", background),
		slog.Duration("took", time.Since(start)))
	return &Design{Pattern: ImportedPattern, Name: name, Size: size, Regions: s.Regions()}, nil
}

// contoursOf splits a parsed path into closed single-contour boundaries and
// counts the open subpaths it dropped. Quadratic segments are raised to cubics.
func contoursOf(p rasterx.Path) (closed []vector.Path, open int) {
	var cur vector.Path
	var at, first vector.Pt
	// a segment after Close continues from the closed subpath's start
	begin := func() {
		if len(cur.Cmds) == 0 {
			cur.MoveTo(first.X, first.Y)
			at = first
		}
	}
	flush := func() {
		if len(cur.Cmds) > 1 {
			open++
		}
		cur = vector.Path{}
	}
	for i := 0; i < len(p); {
		switch rasterx.PathCommand(p[i]) {
		case rasterx.PathMoveTo:
			flush()
			at = pt(p[i+1], p[i+2])
			first = at
			cur.MoveTo(at.X, at.Y)
			i += 3
		case rasterx.PathLineTo:
			begin()
			at = pt(p[i+1], p[i+2])
			cur.LineTo(at.X, at.Y)
			i += 3
		case rasterx.PathQuadTo:
			begin()
			q, end := pt(p[i+1], p[i+2]), pt(p[i+3], p[i+4])
			c1 := at.Add(q.Sub(at).Scale(2.0 / 3))
			c2 := end.Add(q.Sub(end).Scale(2.0 / 3))
			cur.CubicTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
			at = end
			i += 5
		case rasterx.PathCubicTo:
			begin()
			c1, c2, end := pt(p[i+1], p[i+2]), pt(p[i+3], p[i+4]), pt(p[i+5], p[i+6])
			cur.CubicTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
			at = end
			i += 7
		case rasterx.PathClose:
			if len(cur.Cmds) > 1 {
				cur.Close()
				closed = append(closed, cur)
			}
			cur = vector.Path{}
			at = first
			i++
		default:
			// unknown token; the rest of the path cannot be decoded
			flush()
			return closed, open
		}
	}
	flush()
	return closed, open
}

func pt(x, y fixed.Int26_6) vector.Pt {
	return vector.P(float64(x)/64, float64(y)/64)
}
