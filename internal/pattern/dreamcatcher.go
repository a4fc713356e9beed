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

	"gocoloring/internal/motif"
	"gocoloring/internal/vector"
)

// Dreamcatcher constants on the reference canvas.
const (
	dcLift       = 55.0 // hoop centre sits above the page centre
	dcHoopR      = 235.0
	dcHoopW      = 20.0
	dcSpokes     = 8
	dcWebRings   = 5
	dcGemR       = 16.0
	dcFeathers   = 5
	dcSpread     = 130.0
	dcFeatherLen = 110.0
)

// dreamcatcher is a hoop with a radial web, a centre gem and feathers hanging
// on beaded strings below the hoop.
func dreamcatcher(b *builder) {
	c := vector.P(RefSize/2, RefSize/2-dcLift)
	b.begin("background")
	b.rect("background", 0, 0, RefSize, RefSize)

	b.begin("hoop")
	for i := 0; i < 24; i++ {
		b.ring("hoop", c, dcHoopR, dcHoopR+dcHoopW, float64(i)*15, float64(i+1)*15)
	}
	for i := 0; i < 12; i++ {
		b.circle("hoop.bead", vector.Polar(c, dcHoopR, float64(i)*30), 7)
	}
	for i := 0; i < 6; i++ {
		at := vector.Polar(c, dcHoopR+dcHoopW/2, float64(i)*60+15)
		b.petals(at, motif.PetalSpec{Count: 5, Width: 5, Length: 10, DotRadius: 4})
	}

	b.begin("web")
	webR := dcHoopR - 2
	step := 360.0 / dcSpokes
	for ring := 0; ring < dcWebRings; ring++ {
		r1 := dcGemR + float64(ring)*(webR-dcGemR)/dcWebRings
		r2 := dcGemR + float64(ring+1)*(webR-dcGemR)/dcWebRings
		for s := 0; s < dcSpokes; s++ {
			b.ring("web", c, r1, r2, float64(s)*step, float64(s+1)*step)
		}
		for s := 0; s < dcSpokes; s++ {
			b.circle("web.knot", vector.Polar(c, r2, float64(s)*step), 5)
		}
	}

	b.begin("gem")
	b.circle("gem", c, dcGemR)
	b.circle("gem", c, dcGemR*0.5)

	b.begin("feathers")
	hoopBottom := c.Y + dcHoopR + dcHoopW
	for f := 0; f < dcFeathers; f++ {
		off := (float64(f) - (dcFeathers-1)/2.0) * dcSpread / (dcFeathers - 1)
		x := c.X + off
		for k := 0; k < 3; k++ {
			b.circle("string.bead", vector.P(x, hoopBottom+10+float64(k)*12), 5)
		}
		stringLen := 12 + math.Abs(float64(f)-2)*8
		attach := vector.P(x, hoopBottom+10+3*12+stringLen)
		// Hanging: point the feather down and swing outer feathers outward.
		// Tilting by off/6 alone would point it up, back over the bead
		// strings and the hoop.
		b.feather(attach, dcFeatherLen, 180-off/6)
	}
	b.end()
}
