/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package motif builds small composite assemblies of regions that share a
// pivot and orientation: petal clusters, feathers and triquetra knots.
// Every part is registered through the surface gate exactly once.
package motif

import (
	"fmt"
	"math"

	"gocoloring/internal/surface"
	"gocoloring/internal/vector"
)

// Motif groups the regions built together by one builder call.
type Motif struct {
	Name    string
	Pivot   vector.Pt
	Regions []*surface.Region
}

func (m *Motif) add(r *surface.Region) { m.Regions = append(m.Regions, r) }

// PetalSpec describes a petal cluster. Petal i is an ellipse of Width x Length
// whose near end sits Offset from the centre, rotated by Phase + i*360/Count.
// A positive DotRadius adds a centre dot on top.
type PetalSpec struct {
	Count     int
	Width     float64
	Length    float64
	Offset    float64
	Phase     float64
	DotRadius float64
}

// Petals builds a flower of spec.Count petals around center.
func Petals(s *surface.Surface, center vector.Pt, spec PetalSpec) (*Motif, error) {
	if spec.Count < 1 {
		return nil, fmt.Errorf("petals: count %d: %w", spec.Count, vector.ErrInvalidGeometry)
	}
	if spec.Offset < 0 {
		return nil, fmt.Errorf("petals: offset %g: %w", spec.Offset, vector.ErrInvalidGeometry)
	}
	m := &Motif{Name: "petals", Pivot: center}
	step := 360 / float64(spec.Count)
	for i := 0; i < spec.Count; i++ {
		c := vector.P(center.X, center.Y-(spec.Offset+spec.Length/2))
		e, err := vector.Ellipse(c, vector.Size{W: spec.Width, H: spec.Length})
		if err != nil {
			return nil, fmt.Errorf("petals: petal %d: %w", i, err)
		}
		r, err := s.Register("petals.petal", e.RotateAbout(spec.Phase+float64(i)*step, center))
		if err != nil {
			return nil, err
		}
		m.add(r)
	}
	if spec.DotRadius > 0 {
		r, err := s.Gate("petals.dot")(vector.Circle(center, spec.DotRadius))
		if err != nil {
			return nil, err
		}
		m.add(r)
	}
	return m, nil
}

// Barb geometry of a feather.
const (
	BarbAngle = 28.0 // degrees between barb and shaft normal, opening toward the tip
	BarbPairs = 3
)

// FeatherSpec sets the fixed-size details of a feather. Zero values use the
// defaults for an 800 unit canvas.
type FeatherSpec struct {
	BarbWidth  float64
	BeadRadius float64
}

func (f FeatherSpec) withDefaults() FeatherSpec {
	if f.BarbWidth == 0 {
		f.BarbWidth = 3.5
	}
	if f.BeadRadius == 0 {
		f.BeadRadius = 5
	}
	return f
}

// BarbLength is the length of the barbs in pair b (1-based) of a feather of the given length.
func BarbLength(length float64, b int) float64 {
	t := float64(b) / (BarbPairs + 1)
	return length * 0.16 * (1.3 - t)
}

type part struct {
	tag  string
	path vector.Path
	err  error
}

// Feather builds a feather attached at attach, extending length units toward
// the top of the page before tilt (degrees, clockwise) is applied about attach.
// Parts in paint order: vane, shaft, three barb pairs (left then right,
// nearest to the attachment first), bead.
func Feather(s *surface.Surface, attach vector.Pt, length, tilt float64, spec FeatherSpec) (*Motif, error) {
	if !(length > 0) {
		return nil, fmt.Errorf("feather: length %g: %w", length, vector.ErrInvalidGeometry)
	}
	spec = spec.withDefaults()
	m := &Motif{Name: "feather", Pivot: attach}
	mid := vector.P(attach.X, attach.Y-length/2)

	var parts []part
	push := func(tag string, p vector.Path, err error) { parts = append(parts, part{tag, p, err}) }

	vane, err := vector.Ellipse(mid, vector.Size{W: length * 0.38, H: length})
	push("feather.vane", vane, err)
	shaftW := length * 0.09
	shaft, err := vector.Ellipse(mid, vector.Size{W: shaftW, H: length * 0.88})
	push("feather.shaft", shaft, err)

	rad := vector.Radians(BarbAngle)
	for b := 1; b <= BarbPairs; b++ {
		t := float64(b) / (BarbPairs + 1)
		bLen := BarbLength(length, b)
		onShaft := vector.P(attach.X, attach.Y-length*t)
		for _, side := range []float64{-1, 1} {
			dir := vector.P(side*math.Cos(rad), -math.Sin(rad))
			c := onShaft.Add(dir.Scale(bLen/2 + shaftW/2))
			e, err := vector.Ellipse(c, vector.Size{W: bLen, H: spec.BarbWidth})
			push("feather.barb", e.RotateAbout(-side*BarbAngle, c), err)
		}
	}
	bead, err := vector.Circle(attach, spec.BeadRadius)
	push("feather.bead", bead, err)

	for _, p := range parts {
		if p.err != nil {
			return nil, fmt.Errorf("feather: %s: %w", p.tag, p.err)
		}
	}
	for _, p := range parts {
		r, err := s.Register(p.tag, p.path)
		if err != nil {
			return nil, err
		}
		m.add(r.RotateAbout(tilt, attach))
	}
	return m, nil
}

// Triquetra proportions relative to the outer radius.
const (
	triquetraLoopW   = 0.38
	triquetraLoopH   = 0.78
	triquetraLoopOff = 0.30
	triquetraDot     = 0.16
)

// Triquetra builds a knot of radius r: outer circle, three loops related by
// exact 120 degree rotations about pivot, and a centre dot.
func Triquetra(s *surface.Surface, pivot vector.Pt, r float64) (*Motif, error) {
	m := &Motif{Name: "triquetra", Pivot: pivot}
	ring, err := s.Gate("triquetra.ring")(vector.Circle(pivot, r))
	if err != nil {
		return nil, fmt.Errorf("triquetra: %w", err)
	}
	m.add(ring)
	loop, err := vector.Ellipse(vector.P(pivot.X, pivot.Y-r*triquetraLoopOff), vector.Size{W: r * triquetraLoopW, H: r * triquetraLoopH})
	if err != nil {
		return nil, fmt.Errorf("triquetra: loop: %w", err)
	}
	for i := 0; i < 3; i++ {
		lr, err := s.Register("triquetra.loop", loop.RotateAbout(float64(i)*120, pivot))
		if err != nil {
			return nil, fmt.Errorf("triquetra: %w", err)
		}
		m.add(lr)
	}
	dot, err := s.Gate("triquetra.dot")(vector.Circle(pivot, r*triquetraDot))
	if err != nil {
		return nil, fmt.Errorf("triquetra: %w", err)
	}
	m.add(dot)
	return m, nil
}
