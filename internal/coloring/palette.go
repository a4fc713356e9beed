/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package coloring

import (
	"fmt"
	"strings"

	"gocoloring/internal/vector"
)

// DefaultTheme is the palette selected when none is configured.
const DefaultTheme = "Calm"

// Theme is a named colour palette. The first colour is the initial brush.
type Theme struct {
	Name   string
	Colors []vector.Color
}

var themes = []Theme{
	{Name: "Calm", Colors: hexes("#e07a5f", "#3d405b", "#81b29a", "#f2cc8f", "#a8dadc", "#f4f1de", "#b5838d", "#6d6875")},
	{Name: "Earth", Colors: hexes("#8d5524", "#c68642", "#e0ac69", "#6b705c", "#a5a58d", "#cb997e", "#ddbea9", "#3f4238")},
	{Name: "Ocean", Colors: hexes("#03045e", "#0077b6", "#00b4d8", "#90e0ef", "#caf0f8", "#2a9d8f", "#264653", "#e9f5db")},
	{Name: "Sunset", Colors: hexes("#f94144", "#f3722c", "#f8961e", "#f9c74f", "#90be6d", "#43aa8b", "#577590", "#9d4edd")},
}

// Themes returns the built-in palettes in display order.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	for i, t := range themes {
		out[i] = Theme{Name: t.Name, Colors: append([]vector.Color(nil), t.Colors...)}
	}
	return out
}

// ThemeByName finds a palette by case-insensitive name.
func ThemeByName(name string) (Theme, error) {
	for _, t := range themes {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return Theme{Name: t.Name, Colors: append([]vector.Color(nil), t.Colors...)}, nil
		}
	}
	return Theme{}, fmt.Errorf("unknown theme %q", name)
}

func hexes(list ...string) []vector.Color {
	out := make([]vector.Color, len(list))
	for i, h := range list {
		c, err := vector.ParseHex(h)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}
