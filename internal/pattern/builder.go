/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pattern

import (
	"log/slog"

	"gocoloring/internal/motif"
	"gocoloring/internal/surface"
	"gocoloring/internal/vector"
)

// RefSize is the side of the reference canvas all generator constants are
// expressed on. Geometry is scaled by SZ/RefSize.
const RefSize = 800.0

// builder scales reference coordinates onto the target canvas and registers
// shapes on the surface. The first error sticks; later calls are no-ops and
// the generator reports it when it returns.
type builder struct {
	s      *surface.Surface
	k      float64
	logger *slog.Logger
	stage  string
	mark   int
	err    error
}

func newBuilder(s *surface.Surface, size float64, logger *slog.Logger) *builder {
	return &builder{s: s, k: size / RefSize, logger: logger}
}

func (b *builder) u(v float64) float64       { return v * b.k }
func (b *builder) pt(x, y float64) vector.Pt { return vector.P(x*b.k, y*b.k) }
func (b *builder) at(p vector.Pt) vector.Pt  { return p.Scale(b.k) }

// begin starts a named stage and logs the previous one.
func (b *builder) begin(stage string) {
	if b.err != nil {
		return
	}
	b.end()
	b.stage = stage
	b.mark = b.s.Len()
}

func (b *builder) end() {
	if b.err != nil {
		return
	}
	if b.stage != "" {
		b.logger.Debug("stage done", slog.String("stage", b.stage), slog.Int("regions", b.s.Len()-b.mark))
	}
	b.stage = ""
}

func (b *builder) add(tag string, p vector.Path, err error) {
	if b.err != nil {
		return
	}
	if _, err := b.s.Gate(tag)(p, err); err != nil {
		b.err = err
	}
}

// Shape helpers take reference-canvas values.

func (b *builder) rect(tag string, x, y, w, h float64) {
	p, err := vector.Rectangle(b.pt(x, y), vector.Size{W: b.u(w), H: b.u(h)})
	b.add(tag, p, err)
}

func (b *builder) circle(tag string, c vector.Pt, r float64) {
	p, err := vector.Circle(b.at(c), b.u(r))
	b.add(tag, p, err)
}

func (b *builder) ellipse(tag string, c vector.Pt, w, h, rot float64, pivot vector.Pt) {
	p, err := vector.Ellipse(b.at(c), vector.Size{W: b.u(w), H: b.u(h)})
	b.add(tag, p.RotateAbout(rot, b.at(pivot)), err)
}

func (b *builder) poly(tag string, pts ...vector.Pt) {
	scaled := make([]vector.Pt, len(pts))
	for i, q := range pts {
		scaled[i] = b.at(q)
	}
	p, err := vector.Polygon(scaled...)
	b.add(tag, p, err)
}

func (b *builder) ring(tag string, c vector.Pt, rInner, rOuter, a1, a2 float64) {
	p, err := vector.RingSegment(b.at(c), b.u(rInner), b.u(rOuter), a1, a2)
	b.add(tag, p, err)
}

func (b *builder) symbol(tag string, sym Symbol, c vector.Pt, sz float64) {
	p, err := sym.Shape(b.at(c), b.u(sz))
	b.add(tag, p, err)
}

// Motif helpers.

func (b *builder) petals(c vector.Pt, spec motif.PetalSpec) {
	if b.err != nil {
		return
	}
	spec.Width, spec.Length = b.u(spec.Width), b.u(spec.Length)
	spec.Offset, spec.DotRadius = b.u(spec.Offset), b.u(spec.DotRadius)
	_, b.err = motif.Petals(b.s, b.at(c), spec)
}

func (b *builder) feather(attach vector.Pt, length, tilt float64) {
	if b.err != nil {
		return
	}
	spec := motif.FeatherSpec{BarbWidth: b.u(3.5), BeadRadius: b.u(5)}
	_, b.err = motif.Feather(b.s, b.at(attach), b.u(length), tilt, spec)
}

func (b *builder) triquetra(pivot vector.Pt, r float64) {
	if b.err != nil {
		return
	}
	_, b.err = motif.Triquetra(b.s, b.at(pivot), b.u(r))
}

// midPolar is the point at radius r on the bisector of step i of an n-step partition.
func midPolar(c vector.Pt, r float64, i, n int) vector.Pt {
	step := 360 / float64(n)
	return vector.Polar(c, r, float64(i)*step+step/2)
}
