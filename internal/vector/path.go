/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Path commands and shapes.
// A boundary is a single closed contour: one MoveTo, then LineTo/CubicTo
// segments, then Close.

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	CubicTo // cubic bezier (cx1, cy1, cx2, cy2, x, y)
	Close
)

type PathCmd struct {
	Op   PathOp
	Data [6]float64 // enough for cubic; unused slots are zero
}

// End returns the on-curve point the command finishes at.
func (c PathCmd) End() Pt {
	switch c.Op {
	case MoveTo, LineTo:
		return Pt{c.Data[0], c.Data[1]}
	case CubicTo:
		return Pt{c.Data[4], c.Data[5]}
	}
	return Pt{}
}

type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, Data: [6]float64{x, y}})
}
func (p *Path) LineTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, Data: [6]float64{x, y}})
}
func (p *Path) CubicTo(cx1, cy1, cx2, cy2, x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: CubicTo, Data: [6]float64{cx1, cy1, cx2, cy2, x, y}})
}
func (p *Path) Close() { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// Closed reports whether the path ends with a Close command.
func (p Path) Closed() bool {
	return len(p.Cmds) > 0 && p.Cmds[len(p.Cmds)-1].Op == Close
}

// Clone returns a deep copy.
func (p Path) Clone() Path {
	return Path{Cmds: append([]PathCmd(nil), p.Cmds...)}
}

// Transform applies m to every anchor and control point.
// Affine maps carry bezier curves onto bezier curves exactly.
func (p Path) Transform(m Affine2D) Path {
	out := Path{Cmds: make([]PathCmd, len(p.Cmds))}
	for i, c := range p.Cmds {
		nc := PathCmd{Op: c.Op}
		for k := 0; k < c.points(); k++ {
			q := m.Apply(Pt{c.Data[2*k], c.Data[2*k+1]})
			nc.Data[2*k], nc.Data[2*k+1] = q.X, q.Y
		}
		out.Cmds[i] = nc
	}
	return out
}

// RotateAbout returns the path rigidly rotated by deg degrees around pivot.
func (p Path) RotateAbout(deg float64, pivot Pt) Path {
	return p.Transform(RotateAboutDeg(deg, pivot))
}

func (c PathCmd) points() int {
	switch c.Op {
	case MoveTo, LineTo:
		return 1
	case CubicTo:
		return 3
	}
	return 0
}

// Anchors returns the on-curve points in order (the closing point is not repeated).
func (p Path) Anchors() []Pt {
	var pts []Pt
	for _, c := range p.Cmds {
		if c.Op == Close {
			continue
		}
		pts = append(pts, c.End())
	}
	if n := len(pts); n > 1 && pts[0] == pts[n-1] {
		pts = pts[:n-1]
	}
	return pts
}

// Flatten approximates the contour with a polygon, sampling every cubic
// segment at segs evenly spaced parameter values. The first vertex is not
// repeated at the end.
func (p Path) Flatten(segs int) []Pt {
	if segs < 1 {
		segs = 1
	}
	var pts []Pt
	var cur Pt
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo, LineTo:
			cur = c.End()
			pts = append(pts, cur)
		case CubicTo:
			c1 := Pt{c.Data[0], c.Data[1]}
			c2 := Pt{c.Data[2], c.Data[3]}
			end := c.End()
			for i := 1; i <= segs; i++ {
				pts = append(pts, cubicAt(cur, c1, c2, end, float64(i)/float64(segs)))
			}
			cur = end
		}
	}
	if n := len(pts); n > 1 && pts[0].Dist(pts[n-1]) <= toleranceFor(pts).length {
		pts = pts[:n-1]
	}
	return pts
}

func cubicAt(p0, p1, p2, p3 Pt, t float64) Pt {
	if t == 1 {
		return p3
	}
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Pt{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// Bounds returns an axis-aligned bounding box of the path using a simple
// approximation by considering control points. Control points of a cubic
// always enclose the curve, so the box is conservative.
func (p Path) Bounds() Rect {
	minX, minY := 1e18, 1e18
	maxX, maxY := -1e18, -1e18
	for _, c := range p.Cmds {
		for k := 0; k < c.points(); k++ {
			x, y := c.Data[2*k], c.Data[2*k+1]
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if minX > maxX || minY > maxY {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
