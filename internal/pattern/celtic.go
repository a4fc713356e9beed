/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pattern

import (
	"math"

	"gocoloring/internal/vector"
)

// Celtic is a ringed high cross framed by a step-key border with triquetra
// knots in the corners and interlocking circles between the arms.
func celtic(b *builder) {
	const sz = RefSize
	c := vector.P(sz/2, sz/2)
	b.begin("background")
	b.rect("background", 0, 0, sz, sz)

	b.begin("step-key border")
	const margin, bw, cells = 16.0, 18.0, 21
	cell := (sz - margin*2) / cells
	for i := 0; i < cells; i++ {
		t := margin + float64(i)*cell
		b.rect("border.key", t, margin, cell-1, bw)
		b.rect("border.key", t, sz-margin-bw, cell-1, bw)
		b.rect("border.key", margin, t, bw, cell-1)
		b.rect("border.key", sz-margin-bw, t, bw, cell-1)
	}
	mb := margin + bw + 4
	b.rect("border.field", mb, mb, sz-mb*2, sz-mb*2)

	b.begin("cross")
	const armW, ringR = 72.0, 108.0
	pad := mb + 10
	halfSpan := sz/2 - pad
	b.rect("cross.shaft", c.X-armW/2, pad, armW, halfSpan*2)
	b.rect("cross.arm", pad, c.Y-armW/2, halfSpan*2, armW)
	for _, tip := range []vector.Pt{{X: c.X, Y: pad}, {X: c.X, Y: sz - pad}, {X: pad, Y: c.Y}, {X: sz - pad, Y: c.Y}} {
		b.circle("cross.roundel", tip, armW/2)
	}
	midOff := ringR + halfSpan/2
	for _, d := range []vector.Pt{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}} {
		knot := c.Add(d.Scale(midOff))
		b.circle("cross.knot", knot, 14)
		b.circle("cross.knot.dot", knot, 5)
	}

	b.begin("knotwork ring")
	for i := 0; i < 16; i++ {
		b.ring("ring.outer", c, ringR-22, ringR, float64(i)*22.5, float64(i+1)*22.5)
	}
	for i := 0; i < 8; i++ {
		b.ring("ring.fan", c, 38, ringR-22, float64(i)*45, float64(i+1)*45)
	}
	b.circle("medallion", c, 38)
	b.circle("medallion", c, 20)
	b.circle("medallion", c, 7)

	b.begin("triquetra corners")
	const tR = 54.0
	cOff := mb + tR + 8
	for _, p := range []vector.Pt{{X: cOff, Y: cOff}, {X: sz - cOff, Y: cOff}, {X: cOff, Y: sz - cOff}, {X: sz - cOff, Y: sz - cOff}} {
		b.triquetra(p, tR)
	}

	b.begin("quadrant circles")
	qDist := (ringR + 58) / math.Sqrt2
	for _, d := range []vector.Pt{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}} {
		q := c.Add(d.Scale(qDist))
		b.circle("quadrant", q, 26)
		b.circle("quadrant", q, 13)
		b.circle("quadrant", q, 5)
	}
	b.end()
}
