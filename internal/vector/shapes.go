/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned for degenerate or ill-ordered shape parameters.
var ErrInvalidGeometry = errors.New("invalid geometry")

// kappa places the control points of a quarter-circle cubic.
const kappa = 0.5522847498307936

// maxArcStep is the largest sweep (degrees) emitted as one cubic.
const maxArcStep = 90.0

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidGeometry, fmt.Sprintf(format, args...))
}

// Rectangle returns the axis-aligned rectangle at origin (top-left) with the given size.
func Rectangle(origin Pt, size Size) (Path, error) {
	if !origin.IsFinite() || !finite(size.W) || !finite(size.H) {
		return Path{}, invalid("rectangle: non-finite parameter")
	}
	if size.W <= 0 || size.H <= 0 {
		return Path{}, invalid("rectangle: size %gx%g", size.W, size.H)
	}
	var p Path
	p.MoveTo(origin.X, origin.Y)
	p.LineTo(origin.X+size.W, origin.Y)
	p.LineTo(origin.X+size.W, origin.Y+size.H)
	p.LineTo(origin.X, origin.Y+size.H)
	p.Close()
	return p, nil
}

// Circle returns a circle of radius r.
func Circle(center Pt, r float64) (Path, error) {
	if !finite(r) || r <= 0 {
		return Path{}, invalid("circle: radius %g", r)
	}
	return Ellipse(center, Size{W: 2 * r, H: 2 * r})
}

// Ellipse returns the axis-aligned ellipse with the given overall width and height,
// built from four cubic quarter arcs starting at the rightmost point.
func Ellipse(center Pt, size Size) (Path, error) {
	if !center.IsFinite() || !finite(size.W) || !finite(size.H) {
		return Path{}, invalid("ellipse: non-finite parameter")
	}
	if size.W <= 0 || size.H <= 0 {
		return Path{}, invalid("ellipse: size %gx%g", size.W, size.H)
	}
	rx, ry := size.W/2, size.H/2
	kx, ky := rx*kappa, ry*kappa
	cx, cy := center.X, center.Y
	var p Path
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.Close()
	return p, nil
}

// Polygon returns the closed polygon through vertices. At least three vertices
// are required and the outline must enclose a non-zero area without crossing itself.
func Polygon(vertices ...Pt) (Path, error) {
	if len(vertices) < 3 {
		return Path{}, invalid("polygon: %d vertices", len(vertices))
	}
	for _, v := range vertices {
		if !v.IsFinite() {
			return Path{}, invalid("polygon: non-finite vertex")
		}
	}
	if ZeroArea(vertices) {
		return Path{}, invalid("polygon: zero area")
	}
	if !IsSimple(vertices) {
		return Path{}, invalid("polygon: self-intersecting outline")
	}
	var p Path
	p.MoveTo(vertices[0].X, vertices[0].Y)
	for _, v := range vertices[1:] {
		p.LineTo(v.X, v.Y)
	}
	p.Close()
	return p, nil
}

// RingSegment returns the annular sector between radii rInner and rOuter spanning
// aStart..aEnd degrees. The boundary runs along the inner arc from aStart to aEnd,
// out to the outer radius, back along the outer arc and closes. With rInner == 0
// the sector is a wedge from the centre.
func RingSegment(center Pt, rInner, rOuter, aStart, aEnd float64) (Path, error) {
	if !center.IsFinite() || !finite(rInner) || !finite(rOuter) || !finite(aStart) || !finite(aEnd) {
		return Path{}, invalid("ring segment: non-finite parameter")
	}
	if rInner < 0 || rInner >= rOuter {
		return Path{}, invalid("ring segment: radii %g..%g", rInner, rOuter)
	}
	if aStart >= aEnd {
		return Path{}, invalid("ring segment: angles %g..%g", aStart, aEnd)
	}
	if aEnd-aStart >= 360 {
		return Path{}, invalid("ring segment: sweep %g", aEnd-aStart)
	}

	var p Path
	if rInner == 0 {
		p.MoveTo(center.X, center.Y)
		s := Polar(center, rOuter, aStart)
		p.LineTo(s.X, s.Y)
		appendArc(&p, center, rOuter, aStart, aEnd)
		p.Close()
		return p, nil
	}
	s := Polar(center, rInner, aStart)
	p.MoveTo(s.X, s.Y)
	appendArc(&p, center, rInner, aStart, aEnd)
	o := Polar(center, rOuter, aEnd)
	p.LineTo(o.X, o.Y)
	appendArc(&p, center, rOuter, aEnd, aStart)
	p.Close()
	return p, nil
}

// appendArc adds cubic segments following the circle of radius r from angle a1
// to a2 (degrees, either direction). The current point must already sit at a1.
func appendArc(p *Path, c Pt, r, a1, a2 float64) {
	sweep := a2 - a1
	n := int(math.Ceil(math.Abs(sweep) / maxArcStep))
	if n < 1 {
		n = 1
	}
	step := sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(Radians(step)/4)
	for i := 0; i < n; i++ {
		from := a1 + float64(i)*step
		to := from + step
		if i == n-1 {
			to = a2
		}
		ra, rb := Radians(from), Radians(to)
		p0 := Polar(c, r, from)
		p3 := Polar(c, r, to)
		c1 := Pt{p0.X - k*r*math.Sin(ra), p0.Y + k*r*math.Cos(ra)}
		c2 := Pt{p3.X + k*r*math.Sin(rb), p3.Y - k*r*math.Cos(rb)}
		p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p3.X, p3.Y)
	}
}
