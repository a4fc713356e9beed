/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package pattern holds the design generators and the registry that selects
// them by index. Generators are deterministic: a design depends only on the
// canvas size.
package pattern

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	applog "gocoloring/internal/log"
	"gocoloring/internal/surface"
	"gocoloring/internal/vector"
)

// ErrUnknownPattern is returned for an index or name outside the registry.
var ErrUnknownPattern = errors.New("unknown pattern")

// Generator is a named design procedure.
type Generator struct {
	Name    string
	Summary string
	build   func(*builder)
}

var registry = []Generator{
	{Name: "Aztec", Summary: "sun stone with calendar ring, sun rays and solar face", build: aztec},
	{Name: "Celtic", Summary: "ringed high cross, step-key border and triquetra corners", build: celtic},
	{Name: "Dreamcatcher", Summary: "hoop with radial web and hanging feathers", build: dreamcatcher},
	{Name: "Lotus", Summary: "layered lotus medallion with petal rings", build: lotus},
}

// Patterns returns the registry in index order.
func Patterns() []Generator {
	out := make([]Generator, len(registry))
	copy(out, registry)
	return out
}

// Count is the number of registered patterns.
func Count() int { return len(registry) }

// Name returns the name of the pattern at index.
func Name(index int) (string, error) {
	if index < 0 || index >= len(registry) {
		return "", fmt.Errorf("pattern index %d: %w", index, ErrUnknownPattern)
	}
	return registry[index].Name, nil
}

// Lookup resolves a pattern by case-insensitive name or decimal index.
func Lookup(nameOrIndex string) (int, error) {
	key := strings.TrimSpace(nameOrIndex)
	for i, g := range registry {
		if strings.EqualFold(g.Name, key) {
			return i, nil
		}
	}
	if idx, err := strconv.Atoi(key); err == nil {
		if _, err := Name(idx); err != nil {
			return 0, err
		}
		return idx, nil
	}
	return 0, fmt.Errorf("pattern %q: %w", nameOrIndex, ErrUnknownPattern)
}

// Design is the result of one generator run.
type Design struct {
	Pattern int
	Name    string
	Size    float64
	Regions []*surface.Region
}

// Generate runs the generator at index on s for a canvas of side size.
// s must be active and empty. On failure s is cleared so no partial design
// remains.
func Generate(s *surface.Surface, index int, size float64) (*Design, error) {
	if s == nil {
		return nil, fmt.Errorf("generate: nil surface: %w", surface.ErrPreconditionViolated)
	}
	name, err := Name(index)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if !s.Active() {
		return nil, fmt.Errorf("generate %s: surface %q not active: %w", name, s.Name(), surface.ErrPreconditionViolated)
	}
	if s.Len() != 0 {
		return nil, fmt.Errorf("generate %s: surface %q holds %d regions: %w", name, s.Name(), s.Len(), surface.ErrPreconditionViolated)
	}
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return nil, fmt.Errorf("generate %s: canvas size %g: %w", name, size, vector.ErrInvalidGeometry)
	}

	l := applog.WithOperation(applog.WithComponent("pattern"), "generate").With(slog.String("pattern", name))
	start := time.Now()
	b := newBuilder(s, size, l)
	registry[index].build(b)
	if b.err != nil {
		s.Clear()
		l.Warn("generation aborted", slog.String("stage", b.stage), slog.Any("err", b.err))
		return nil, fmt.Errorf("generate %s: %s: %w", name, b.stage, b.err)
	}
	l.Info("design generated",
		slog.Int("regions", s.Len()),
		slog.Float64("size", size),
		slog.Duration("took", time.Since(start)))
	return &Design{Pattern: index, Name: name, Size: size, Regions: s.Regions()}, nil
}
