/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package surface holds the drawing surface that owns registered regions.
// Every boundary becomes part of a design by passing through Register.
package surface

import (
	"errors"
	"fmt"
	"log/slog"

	applog "gocoloring/internal/log"
	"gocoloring/internal/vector"
)

// ErrPreconditionViolated is returned when the surface is not ready for the
// requested operation (not activated, or not empty before generation).
var ErrPreconditionViolated = errors.New("precondition violated")

// FlattenSegments is the number of samples per curve used for hit testing and area.
const FlattenSegments = 16

// Style is the appearance assigned to every newly registered region.
type Style struct {
	Fill   vector.Color
	Stroke vector.Stroke
}

// DefaultStyle is the flat default: white fill with a dark ink outline.
var DefaultStyle = Style{
	Fill:   vector.White,
	Stroke: vector.Stroke{Color: vector.Ink, Width: 1.5, Join: vector.JoinRound},
}

// Region is a registered, fillable closed boundary.
type Region struct {
	ID       int
	Tag      string
	Boundary vector.Path
	Fill     vector.Color
	Stroke   vector.Stroke
	Fillable bool
	Z        int
}

// RotateAbout rotates the boundary rigidly about pivot. Fill, stroke and the
// fillable flag are untouched.
func (r *Region) RotateAbout(deg float64, pivot vector.Pt) *Region {
	r.Boundary = r.Boundary.RotateAbout(deg, pivot)
	return r
}

// Polygon returns the flattened boundary.
func (r *Region) Polygon() []vector.Pt { return r.Boundary.Flatten(FlattenSegments) }

// Area returns the enclosed area of the flattened boundary.
func (r *Region) Area() float64 { return r.Boundary.Area(FlattenSegments) }

// Contains reports whether pt is inside the region.
func (r *Region) Contains(pt vector.Pt) bool {
	if !r.Boundary.Bounds().Contains(pt) {
		return false
	}
	return r.Boundary.Contains(pt, FlattenSegments)
}

// Surface is an ordered collection of regions. Insertion order is paint order.
// A Surface is not safe for concurrent use; separate surfaces are independent.
type Surface struct {
	name    string
	style   Style
	active  bool
	regions []*Region
	logger  *slog.Logger
}

// Option configures a Surface.
type Option func(*Surface)

// WithStyle overrides the default appearance given to registered regions.
func WithStyle(st Style) Option { return func(s *Surface) { s.style = st } }

// WithLogger sets the logger used for surface events.
func WithLogger(l *slog.Logger) Option { return func(s *Surface) { s.logger = l } }

// New returns an inactive, empty surface.
func New(name string, opts ...Option) *Surface {
	s := &Surface{name: name, style: DefaultStyle}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = applog.WithComponent("surface")
	}
	return s
}

func (s *Surface) Name() string { return s.name }
func (s *Surface) Style() Style { return s.style }
func (s *Surface) Active() bool { return s.active }
func (s *Surface) Len() int     { return len(s.regions) }
func (s *Surface) Activate()    { s.active = true }
func (s *Surface) Deactivate()  { s.active = false }

// Regions returns the registered regions in paint order. The slice is a copy;
// the regions are shared.
func (s *Surface) Regions() []*Region {
	out := make([]*Region, len(s.regions))
	copy(out, s.regions)
	return out
}

// Region returns the region with the given id.
func (s *Surface) Region(id int) (*Region, bool) {
	if id < 0 || id >= len(s.regions) {
		return nil, false
	}
	return s.regions[id], true
}

// Clear removes all regions.
func (s *Surface) Clear() {
	if len(s.regions) > 0 {
		s.logger.Debug("surface cleared", slog.String("surface", s.name), slog.Int("regions", len(s.regions)))
	}
	s.regions = nil
}

// Register turns a boundary into a region on the surface: it assigns the default
// fill and stroke, marks it fillable and appends it on top of earlier regions.
// The region keeps its own copy of the boundary.
func (s *Surface) Register(tag string, boundary vector.Path) (*Region, error) {
	if !s.active {
		return nil, fmt.Errorf("register %q on %q: surface not active: %w", tag, s.name, ErrPreconditionViolated)
	}
	if !boundary.Closed() {
		return nil, fmt.Errorf("register %q: open boundary: %w", tag, vector.ErrInvalidGeometry)
	}
	id := len(s.regions)
	r := &Region{
		ID:       id,
		Tag:      tag,
		Boundary: boundary.Clone(),
		Fill:     s.style.Fill,
		Stroke:   s.style.Stroke,
		Fillable: true,
		Z:        id,
	}
	s.regions = append(s.regions, r)
	return r, nil
}

// Gate registers constructor output under one tag. A constructor error is
// returned with the tag as context and nothing is registered.
type Gate func(boundary vector.Path, err error) (*Region, error)

// Gate returns a Gate bound to tag, so constructors can be passed directly:
//
//	add := s.Gate("calendar")
//	add(vector.Circle(c, r))
func (s *Surface) Gate(tag string) Gate {
	return func(boundary vector.Path, err error) (*Region, error) {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		return s.Register(tag, boundary)
	}
}

// HitTest returns the top-most fillable region containing pt.
func (s *Surface) HitTest(pt vector.Pt) (*Region, bool) {
	for i := len(s.regions) - 1; i >= 0; i-- {
		r := s.regions[i]
		if r.Fillable && r.Contains(pt) {
			return r, true
		}
	}
	return nil, false
}
