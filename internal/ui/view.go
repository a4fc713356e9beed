/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"strings"

	"gocoloring/internal/export"
	"gocoloring/internal/pattern"
	"gocoloring/internal/vector"
)

const (
	minZoom = 0.1
	maxZoom = 4.0
	// maxRenderPx caps the raster size used for the on-screen image.
	maxRenderPx = 2400
)

// viewport maps between widget coordinates and design units. The design is
// centred in the widget, scaled by zoom and shifted by the pan offset.
type viewport struct {
	zoom       float32
	offX, offY float32
}

func newViewport() viewport { return viewport{zoom: 1} }

// origin returns the widget position of the design's top-left corner.
func (v viewport) origin(w, h float32, side float64) (float32, float32) {
	s := float32(side) * v.zoom
	return w/2 - s/2 + v.offX, h/2 - s/2 + v.offY
}

func (v viewport) toDesign(x, y, w, h float32, side float64) vector.Pt {
	ox, oy := v.origin(w, h, side)
	return vector.P(float64((x-ox)/v.zoom), float64((y-oy)/v.zoom))
}

func (v viewport) toScreen(pt vector.Pt, w, h float32, side float64) (float32, float32) {
	ox, oy := v.origin(w, h, side)
	return ox + float32(pt.X)*v.zoom, oy + float32(pt.Y)*v.zoom
}

func (v *viewport) zoomBy(step float32) {
	v.zoom += step
	if v.zoom < minZoom {
		v.zoom = minZoom
	}
	if v.zoom > maxZoom {
		v.zoom = maxZoom
	}
}

func (v *viewport) pan(dx, dy float32) {
	v.offX += dx
	v.offY += dy
}

// fit picks the zoom that shows the whole design with a small margin.
func (v *viewport) fit(w, h float32, side float64) {
	if side <= 0 || w <= 0 || h <= 0 {
		return
	}
	m := w
	if h < m {
		m = h
	}
	v.zoom = 0.95 * m / float32(side)
	v.offX, v.offY = 0, 0
	v.zoomBy(0)
}

// renderScale is the raster scale for displaying side design units at zoom,
// capped so the image stays below maxRenderPx.
func renderScale(side float64, zoom float32) float64 {
	if side <= 0 {
		return 1
	}
	s := float64(zoom)
	if side*s > maxRenderPx {
		s = maxRenderPx / side
	}
	if s <= 0 {
		s = 1
	}
	return s
}

// pageOf wraps a design for the export package.
func pageOf(d *pattern.Design) export.Page {
	return export.Page{Title: d.Name, Size: d.Size, Regions: d.Regions}
}

// exportName suggests an output file name for a design, e.g. "aztec.svg".
func exportName(d *pattern.Design, format string) string {
	name := strings.ToLower(strings.Join(strings.Fields(d.Name), "-"))
	if name == "" {
		name = "design"
	}
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if f == "" {
		f = "svg"
	}
	return name + "." + f
}
