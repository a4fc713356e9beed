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
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func sectorArea(r1, r2, a1, a2 float64) float64 {
	return (a2 - a1) * math.Pi / 180 * (r2*r2 - r1*r1) / 2
}

func TestRingSegment_Area(t *testing.T) {
	c := P(400, 400)
	cases := []struct{ r1, r2, a1, a2 float64 }{
		{312, 368, 0, 18},
		{126, 162, 45, 90},
		{0, 100, 0, 60},
		{50, 80, -30, 250},
		{10, 20, 0, 359},
	}
	for _, tc := range cases {
		p, err := RingSegment(c, tc.r1, tc.r2, tc.a1, tc.a2)
		if err != nil {
			t.Fatalf("%+v: %v", tc, err)
		}
		got := p.Area(64)
		want := sectorArea(tc.r1, tc.r2, tc.a1, tc.a2)
		if !scalar.EqualWithinRel(got, want, 2e-3) {
			t.Fatalf("%+v: area %.3f want %.3f", tc, got, want)
		}
		if !p.IsSimple(16) {
			t.Fatalf("%+v: not simple", tc)
		}
	}
}

func TestRingSegment_LargeSweepIsSplit(t *testing.T) {
	p, err := RingSegment(P(0, 0), 40, 60, 0, 300)
	if err != nil {
		t.Fatal(err)
	}
	cubics := 0
	for _, c := range p.Cmds {
		if c.Op == CubicTo {
			cubics++
		}
	}
	// 300 degrees needs 4 sub-arcs per side
	if cubics != 8 {
		t.Fatalf("cubic count: got %d want 8", cubics)
	}
}

func TestRingSegment_Wedge(t *testing.T) {
	c := P(400, 400)
	p, err := RingSegment(c, 0, 120, 0, 60)
	if err != nil {
		t.Fatal(err)
	}
	if p.Cmds[0].Op != MoveTo || p.Cmds[0].End() != c {
		t.Fatalf("wedge should start at the centre, got %+v", p.Cmds[0])
	}
	if p.Cmds[1].Op != LineTo {
		t.Fatalf("wedge second command should be a straight edge")
	}
	for _, cmd := range p.Cmds[2 : len(p.Cmds)-1] {
		if cmd.Op != CubicTo {
			t.Fatalf("wedge should only contain the outer arc after the first edge")
		}
	}
}

func TestRingSegment_RejectsDegenerate(t *testing.T) {
	c := P(0, 0)
	bad := []struct {
		name           string
		r1, r2, a1, a2 float64
	}{
		{"inverted radii", 50, 40, 0, 10},
		{"equal radii", 40, 40, 0, 10},
		{"negative inner", -1, 40, 0, 10},
		{"inverted angles", 10, 40, 20, 10},
		{"zero sweep", 10, 40, 10, 10},
		{"full turn", 10, 40, 0, 360},
		{"nan", math.NaN(), 40, 0, 10},
		{"inf", 10, math.Inf(1), 0, 10},
	}
	for _, tc := range bad {
		if _, err := RingSegment(c, tc.r1, tc.r2, tc.a1, tc.a2); !errors.Is(err, ErrInvalidGeometry) {
			t.Fatalf("%s: expected ErrInvalidGeometry, got %v", tc.name, err)
		}
	}
}

func TestPrimitives_RejectDegenerate(t *testing.T) {
	if _, err := Rectangle(P(0, 0), Size{W: 0, H: 10}); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("rectangle: %v", err)
	}
	if _, err := Circle(P(0, 0), -3); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("circle: %v", err)
	}
	if _, err := Ellipse(P(0, 0), Size{W: 10, H: -1}); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("ellipse: %v", err)
	}
	if _, err := Polygon(P(0, 0), P(1, 1)); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("polygon with 2 vertices: %v", err)
	}
	if _, err := Polygon(P(0, 0), P(1, 1), P(2, 2)); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("collinear polygon: %v", err)
	}
	if _, err := Polygon(P(0, 0), P(10, 10), P(10, 0), P(0, 10)); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("bow tie polygon: %v", err)
	}
}

func TestPrimitives_Areas(t *testing.T) {
	r, _ := Rectangle(P(10, 10), Size{W: 20, H: 30})
	if got := r.Area(1); got != 600 {
		t.Fatalf("rectangle area %v", got)
	}
	c, _ := Circle(P(5, 5), 10)
	if got := c.Area(32); !scalar.EqualWithinRel(got, math.Pi*100, 2e-3) {
		t.Fatalf("circle area %v", got)
	}
	e, _ := Ellipse(P(0, 0), Size{W: 38, H: 78})
	if got := e.Area(32); !scalar.EqualWithinRel(got, math.Pi*19*39, 2e-3) {
		t.Fatalf("ellipse area %v", got)
	}
	tri, _ := Polygon(P(0, 0), P(10, 0), P(0, 10))
	if got := tri.Area(1); got != 50 {
		t.Fatalf("triangle area %v", got)
	}
}
