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

// Package graph implements the in-memory dataset: a default graph plus
// named graphs of triples, with per-direction indexes for pattern lookup.
package graph

import (
	"github.com/owlmorph/owlmorph/rdf"
)

// Direction distinguishes the three positions of a triple.
type Direction int

const (
	Subject Direction = iota
	Predicate
	Object
)

// Graph is a set of triples. It keeps an append-only log with tombstones
// and one index per direction, so any pattern position can seed a lookup.
//
// Graph is not safe for concurrent use; Store provides the locking.
type Graph struct {
	name    rdf.Term
	triples []rdf.Triple
	dead    []bool
	present map[string]int
	index   [3]map[string][]int
	size    int
}

// NewGraph creates an empty graph. A nil name denotes the default graph.
func NewGraph(name rdf.Term) *Graph {
	g := &Graph{
		name:    name,
		present: make(map[string]int),
	}
	for d := range g.index {
		g.index[d] = make(map[string][]int)
	}
	return g
}

// Name returns the graph identifier, nil for the default graph.
func (g *Graph) Name() rdf.Term { return g.name }

// Size returns the number of live triples.
func (g *Graph) Size() int { return g.size }

func tripleKey(t rdf.Triple) string { return t.String() }

// Add inserts a triple, returning false if it was already present or is not
// a valid RDF triple. Adding is idempotent by construction.
func (g *Graph) Add(t rdf.Triple) bool {
	if !t.Valid() {
		return false
	}
	key := tripleKey(t)
	if _, ok := g.present[key]; ok {
		return false
	}
	id := len(g.triples)
	g.triples = append(g.triples, t)
	g.dead = append(g.dead, false)
	g.present[key] = id
	g.index[Subject][t.Subject.String()] = append(g.index[Subject][t.Subject.String()], id)
	g.index[Predicate][t.Predicate.String()] = append(g.index[Predicate][t.Predicate.String()], id)
	g.index[Object][t.Object.String()] = append(g.index[Object][t.Object.String()], id)
	g.size++
	return true
}

// Remove deletes a triple, returning false if it was not present.
// Index entries are tombstoned, not compacted.
func (g *Graph) Remove(t rdf.Triple) bool {
	key := tripleKey(t)
	id, ok := g.present[key]
	if !ok {
		return false
	}
	delete(g.present, key)
	g.dead[id] = true
	g.size--
	return true
}

// Has reports whether the triple is present.
func (g *Graph) Has(t rdf.Triple) bool {
	_, ok := g.present[tripleKey(t)]
	return ok
}

// Match returns all triples matching the pattern; a nil term is a wildcard.
// The most selective bound direction seeds the scan.
func (g *Graph) Match(sub, pred, obj rdf.Term) []rdf.Triple {
	type bound struct {
		d Direction
		t rdf.Term
	}
	var dirs []bound
	if sub != nil {
		dirs = append(dirs, bound{Subject, sub})
	}
	if pred != nil {
		dirs = append(dirs, bound{Predicate, pred})
	}
	if obj != nil {
		dirs = append(dirs, bound{Object, obj})
	}

	var candidates []int
	if len(dirs) == 0 {
		candidates = make([]int, 0, len(g.triples))
		for id := range g.triples {
			candidates = append(candidates, id)
		}
	} else {
		for i, b := range dirs {
			ids, ok := g.index[b.d][b.t.String()]
			if !ok {
				return nil
			}
			if i == 0 || len(ids) < len(candidates) {
				candidates = ids
			}
		}
	}

	var out []rdf.Triple
	for _, id := range candidates {
		if g.dead[id] {
			continue
		}
		t := g.triples[id]
		if sub != nil && !rdf.TermsEqual(t.Subject, sub) {
			continue
		}
		if pred != nil && !rdf.TermsEqual(t.Predicate, pred) {
			continue
		}
		if obj != nil && !rdf.TermsEqual(t.Object, obj) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// All returns the live triples in insertion order.
func (g *Graph) All() []rdf.Triple {
	out := make([]rdf.Triple, 0, g.size)
	for id, t := range g.triples {
		if !g.dead[id] {
			out = append(out, t)
		}
	}
	return out
}
