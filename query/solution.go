// Copyright 2025 The Owlmorph Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package query

import "github.com/owlmorph/owlmorph/rdf"

// Solution is a partial mapping from variable to term; unbound variables
// are simply absent.
type Solution map[Var]rdf.Term

// Get returns the binding for v, nil when unbound.
func (s Solution) Get(v Var) rdf.Term { return s[v] }

// Bound reports whether v is bound.
func (s Solution) Bound(v Var) bool {
	_, ok := s[v]
	return ok
}

func (s Solution) clone() Solution {
	out := make(Solution, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	return out
}

// with returns s extended with v=t, or s itself and false when v is already
// bound to a different term.
func (s Solution) with(v Var, t rdf.Term) (Solution, bool) {
	if old, ok := s[v]; ok {
		return s, rdf.TermsEqual(old, t)
	}
	out := s.clone()
	out[v] = t
	return out, true
}

// compatible reports whether two mappings agree on every variable bound in
// both.
func compatible(a, b Solution) bool {
	for v, ta := range a {
		if tb, ok := b[v]; ok && !rdf.TermsEqual(ta, tb) {
			return false
		}
	}
	return true
}

// merge combines two compatible mappings.
func merge(a, b Solution) Solution {
	out := a.clone()
	for v, t := range b {
		out[v] = t
	}
	return out
}

// leftJoin extends each left solution with every compatible right solution;
// a left solution with no compatible extension is kept unmodified.
// Standard left-outer-join semantics.
func leftJoin(left, right []Solution) []Solution {
	out := make([]Solution, 0, len(left))
	for _, l := range left {
		matched := false
		for _, r := range right {
			if compatible(l, r) {
				out = append(out, merge(l, r))
				matched = true
			}
		}
		if !matched {
			out = append(out, l)
		}
	}
	return out
}
