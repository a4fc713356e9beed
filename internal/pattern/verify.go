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

	"gocoloring/internal/surface"
)

// Problem describes a region that is not a valid colouring target.
type Problem struct {
	Region int
	Tag    string
	Reason string
}

func (p Problem) String() string { return fmt.Sprintf("region %d (%s): %s", p.Region, p.Tag, p.Reason) }

// Report summarises a design check.
type Report struct {
	Regions  int
	Tags     map[string]int
	Problems []Problem
}

// OK reports whether no problems were found.
func (r Report) OK() bool { return len(r.Problems) == 0 }

// Check validates every region: fillable, positive area and a simple closed boundary.
func Check(regions []*surface.Region) Report {
	rep := Report{Regions: len(regions), Tags: map[string]int{}}
	for _, r := range regions {
		rep.Tags[r.Tag]++
		switch {
		case !r.Fillable:
			rep.Problems = append(rep.Problems, Problem{r.ID, r.Tag, "not fillable"})
		case !r.Boundary.Closed():
			rep.Problems = append(rep.Problems, Problem{r.ID, r.Tag, "open boundary"})
		case r.Area() <= 0:
			rep.Problems = append(rep.Problems, Problem{r.ID, r.Tag, "zero area"})
		case !r.Boundary.IsSimple(surface.FlattenSegments):
			rep.Problems = append(rep.Problems, Problem{r.ID, r.Tag, "self-intersecting boundary"})
		}
	}
	return rep
}
