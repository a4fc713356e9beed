/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// Polygon helpers operating on flattened outlines. A polygon is an implicitly
// closed vertex list.

// geomEps is relative to the outline's extent: lengths compare against
// geomEps*extent and areas against geomEps*extent², so the checks give the
// same answer at every canvas size.
const geomEps = 1e-9

type tolerance struct{ length, area float64 }

func toleranceFor(pts []Pt) tolerance {
	if len(pts) == 0 {
		return tolerance{}
	}
	minX, minY, maxX, maxY := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	e := math.Max(maxX-minX, maxY-minY)
	return tolerance{length: geomEps * e, area: geomEps * e * e}
}

// ZeroArea reports whether the closed polygon encloses no area relative to its size.
func ZeroArea(pts []Pt) bool {
	return math.Abs(SignedArea(pts)) <= toleranceFor(pts).area
}

// SignedArea returns the shoelace area. Positive means clockwise on screen (y down).
func SignedArea(pts []Pt) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}

// IsSimple reports whether the closed polygon has no self-intersections.
// Consecutive duplicate vertices are ignored; adjacent edges may share their
// common vertex only.
func IsSimple(pts []Pt) bool {
	tol := toleranceFor(pts)
	poly := dedupe(pts, tol.length)
	n := len(poly)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := poly[i], poly[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsIntersect(a1, a2, poly[j], poly[(j+1)%n], tol) {
				return false
			}
		}
	}
	return true
}

// PointInPolygon tests containment by ray casting.
func PointInPolygon(p Pt, poly []Pt) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := poly[i], poly[j]
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}
	return inside
}

func dedupe(pts []Pt, eps float64) []Pt {
	out := make([]Pt, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].Dist(p) <= eps {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0].Dist(out[len(out)-1]) <= eps {
		out = out[:len(out)-1]
	}
	return out
}

func orient(a, b, c Pt) float64 { return b.Sub(a).Cross(c.Sub(a)) }

func onSegment(a, b, p Pt, eps float64) bool {
	return math.Min(a.X, b.X)-eps <= p.X && p.X <= math.Max(a.X, b.X)+eps &&
		math.Min(a.Y, b.Y)-eps <= p.Y && p.Y <= math.Max(a.Y, b.Y)+eps
}

func sign(v, eps float64) int {
	switch {
	case v > eps:
		return 1
	case v < -eps:
		return -1
	}
	return 0
}

// segmentsIntersect reports whether closed segments p1p2 and p3p4 touch or cross.
func segmentsIntersect(p1, p2, p3, p4 Pt, tol tolerance) bool {
	d1 := sign(orient(p3, p4, p1), tol.area)
	d2 := sign(orient(p3, p4, p2), tol.area)
	d3 := sign(orient(p1, p2, p3), tol.area)
	d4 := sign(orient(p1, p2, p4), tol.area)
	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}
	switch {
	case d1 == 0 && onSegment(p3, p4, p1, tol.length):
		return true
	case d2 == 0 && onSegment(p3, p4, p2, tol.length):
		return true
	case d3 == 0 && onSegment(p1, p2, p3, tol.length):
		return true
	case d4 == 0 && onSegment(p1, p2, p4, tol.length):
		return true
	}
	return false
}

// Area returns the absolute area of the path flattened with segs samples per curve.
func (p Path) Area(segs int) float64 { return math.Abs(SignedArea(p.Flatten(segs))) }

// IsSimple reports whether the flattened path is a simple closed outline.
func (p Path) IsSimple(segs int) bool { return p.Closed() && IsSimple(p.Flatten(segs)) }

// Contains reports whether pt lies inside the flattened path.
func (p Path) Contains(pt Pt, segs int) bool { return PointInPolygon(pt, p.Flatten(segs)) }
