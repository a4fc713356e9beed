/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pattern

import (
	"fmt"

	"gocoloring/internal/vector"
)

// Symbol is one of the accent shapes placed on alternating ring steps.
type Symbol uint8

const (
	SymbolCircle Symbol = iota
	SymbolTriangle
	SymbolSquare
	SymbolDiamond
)

// Symbols lists every symbol in step order.
var Symbols = [...]Symbol{SymbolCircle, SymbolTriangle, SymbolSquare, SymbolDiamond}

func (s Symbol) String() string {
	switch s {
	case SymbolCircle:
		return "circle"
	case SymbolTriangle:
		return "triangle"
	case SymbolSquare:
		return "square"
	case SymbolDiamond:
		return "diamond"
	}
	return fmt.Sprintf("Symbol(%d)", uint8(s))
}

// SymbolForStep maps a ring step index onto the symbol cycle.
func SymbolForStep(i int) Symbol {
	m := i % len(Symbols)
	if m < 0 {
		m += len(Symbols)
	}
	return Symbols[m]
}

// Shape returns the outline of s centred at c with half-size sz.
func (s Symbol) Shape(c vector.Pt, sz float64) (vector.Path, error) {
	switch s {
	case SymbolCircle:
		return vector.Circle(c, sz)
	case SymbolTriangle:
		return vector.Polygon(
			vector.P(c.X, c.Y-sz),
			vector.P(c.X+sz, c.Y+sz),
			vector.P(c.X-sz, c.Y+sz),
		)
	case SymbolSquare:
		return vector.Rectangle(vector.P(c.X-sz*0.7, c.Y-sz*0.7), vector.Size{W: sz * 1.4, H: sz * 1.4})
	case SymbolDiamond:
		return vector.Polygon(
			vector.P(c.X, c.Y-sz),
			vector.P(c.X+sz, c.Y),
			vector.P(c.X, c.Y+sz),
			vector.P(c.X-sz, c.Y),
		)
	}
	return vector.Path{}, fmt.Errorf("symbol %v: %w", s, vector.ErrInvalidGeometry)
}
