/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pattern

import (
	"gocoloring/internal/motif"
	"gocoloring/internal/vector"
)

// lotus is a layered lotus medallion: petal clusters in the corners, a dotted
// outer band, a ring of petals, a shifted inner band over a six-wedge fan and
// a twelve-petal flower in the centre.
func lotus(b *builder) {
	c := vector.P(RefSize/2, RefSize/2)
	b.begin("background")
	b.rect("background", 0, 0, RefSize, RefSize)

	b.begin("corners")
	const inset = 70.0
	for _, p := range []vector.Pt{
		{X: inset, Y: inset}, {X: RefSize - inset, Y: inset},
		{X: inset, Y: RefSize - inset}, {X: RefSize - inset, Y: RefSize - inset},
	} {
		b.petals(p, motif.PetalSpec{Count: 8, Width: 14, Length: 34, Offset: 6, DotRadius: 8})
	}

	b.begin("outer band")
	const n24 = 24
	for i := 0; i < n24; i++ {
		b.ring("lotus.band", c, 330, 370, float64(i)*15, float64(i+1)*15)
	}
	for i := 0; i < n24; i++ {
		b.circle("lotus.band.dot", midPolar(c, 350, i, n24), 6)
	}

	b.begin("petal ring")
	const n12 = 12
	for i := 0; i < n12; i++ {
		b.ring("lotus.petal.bed", c, 250, 330, float64(i)*30, float64(i+1)*30)
		// petal drawn pointing up, then turned onto the step bisector
		mid := float64(i)*30 + 15
		b.ellipse("lotus.petal", vector.P(c.X, c.Y-290), 36, 70, mid+90, c)
	}

	b.begin("inner band")
	for i := 0; i < n12; i++ {
		b.ring("lotus.inner", c, 180, 250, float64(i)*30+15, float64(i+1)*30+15)
	}
	for i := 0; i < 6; i++ {
		b.ring("lotus.fan", c, 0, 180, float64(i)*60, float64(i+1)*60)
	}

	b.begin("centre flower")
	b.petals(c, motif.PetalSpec{Count: 12, Width: 28, Length: 90, Offset: 20, DotRadius: 22})
	b.end()
}
