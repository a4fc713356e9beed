/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pattern

import "gocoloring/internal/vector"

// Aztec is a sun stone: stepped pyramid corners, a scalloped outer band,
// twenty calendar signs, sun rays, a dotted inner band and a solar face.
func aztec(b *builder) {
	c := vector.P(RefSize/2, RefSize/2)
	b.begin("background")
	b.rect("background", 0, 0, RefSize, RefSize)

	b.begin("corners")
	const steps, sw = 4, 22.0
	for s := 0; s < steps; s++ {
		off := float64(s) * sw
		far := RefSize - off - sw
		b.rect("corner.step", off, off, sw, sw)
		b.rect("corner.step", far, off, sw, sw)
		b.rect("corner.step", off, far, sw, sw)
		b.rect("corner.step", far, far, sw, sw)
	}

	b.begin("outer band")
	const n = 20
	const r5o, r5i = 368.0, 312.0
	for i := 0; i < n; i++ {
		b.ring("band.outer", c, r5i, r5o, float64(i)*18, float64(i+1)*18)
	}
	for i := 0; i < n; i++ {
		b.circle("band.scallop", midPolar(c, r5o, i, n), 10)
	}

	b.begin("calendar")
	const r4o, r4i = 312.0, 258.0
	for i := 0; i < n; i++ {
		b.ring("calendar", c, r4i, r4o, float64(i)*18, float64(i+1)*18)
		b.symbol("calendar.symbol", SymbolForStep(i), midPolar(c, (r4i+r4o)/2, i, n), 10)
	}

	b.begin("sun rays")
	const r3o, r3i, notch = 258.0, 200.0, 22.0
	for i := 0; i < n; i++ {
		a1, a2 := float64(i)*18, float64(i+1)*18
		base1 := vector.Polar(c, r3i, a1)
		base2 := vector.Polar(c, r3i, a2)
		b.poly("sunray.spike", base1, midPolar(c, r3o, i, n), base2)
		b.poly("sunray.notch", base1, midPolar(c, r3i-notch, i, n), base2)
	}

	b.begin("inner band")
	const r2o, r2i = 200.0, 162.0
	for i := 0; i < n; i++ {
		b.ring("band.inner", c, r2i, r2o, float64(i)*18, float64(i+1)*18)
		b.circle("band.dot", midPolar(c, (r2i+r2o)/2, i, n), 7)
	}

	b.begin("face border")
	const r1o, r1i = 162.0, 126.0
	for i := 0; i < 8; i++ {
		b.ring("face.border", c, r1i, r1o, float64(i)*45, float64(i+1)*45)
	}

	b.begin("face")
	b.circle("face.outline", c, r1i)
	b.circle("face.inner", c, 88)
	b.circle("face.mouth", c, 48)
	for _, dx := range []float64{-44, 44} {
		eye := c.Add(vector.P(dx, -22))
		b.circle("face.eye", eye, 15)
		b.circle("face.pupil", eye, 6)
	}
	b.rect("face.nose", c.X-10, c.Y-8, 20, 16)
	b.poly("face.tongue", c.Add(vector.P(-14, 26)), c.Add(vector.P(0, 50)), c.Add(vector.P(14, 26)))
	for _, d := range [][2]float64{{-60, -56}, {-26, -62}, {26, -62}, {60, -56}} {
		m := c.Add(vector.P(d[0], d[1]))
		b.poly("face.brow",
			vector.P(m.X, m.Y-7), vector.P(m.X+8, m.Y), vector.P(m.X, m.Y+7), vector.P(m.X-8, m.Y))
	}
	b.circle("face.dot", c, 14)
	b.end()
}
