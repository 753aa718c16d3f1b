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

package graph

import (
	"sort"
	"sync"

	"github.com/cayleygraph/quad"

	"github.com/owlmorph/owlmorph/rdf"
)

// Store is a dataset: a default graph plus zero or more named graphs.
//
// Reads take a shared lock; Insert takes the exclusive lock for the whole
// batch, so readers observe either the pre-mutation or fully mutated state.
type Store struct {
	mu    sync.RWMutex
	def   *Graph
	named map[string]*Graph
}

// NewStore creates an empty dataset.
func NewStore() *Store {
	return &Store{
		def:   NewGraph(nil),
		named: make(map[string]*Graph),
	}
}

// graphLocked resolves a graph name to its graph. A nil name is the default
// graph; a missing named graph yields nil (empty match, not an error).
func (s *Store) graphLocked(name rdf.Term) *Graph {
	if name == nil {
		return s.def
	}
	return s.named[name.String()]
}

func (s *Store) ensureLocked(name rdf.Term) *Graph {
	if name == nil {
		return s.def
	}
	g, ok := s.named[name.String()]
	if !ok {
		g = NewGraph(name)
		s.named[name.String()] = g
	}
	return g
}

// AddQuad adds a quad, routing it to the graph its label names.
func (s *Store) AddQuad(q quad.Quad) bool {
	t, label := rdf.FromQuad(q)
	return s.Add(label, t)
}

// Add inserts a single triple into the given graph, creating the graph if
// needed. It reports whether the triple was actually added.
func (s *Store) Add(name rdf.Term, t rdf.Triple) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(name).Add(t)
}

// WriteQuad implements quad.Writer so a Store can be the destination of a
// streaming load. Invalid quads are skipped, not an error.
func (s *Store) WriteQuad(q quad.Quad) error {
	s.AddQuad(q)
	return nil
}

// WriteQuads implements quad.BatchWriter.
func (s *Store) WriteQuads(quads []quad.Quad) (int, error) {
	for _, q := range quads {
		s.AddQuad(q)
	}
	return len(quads), nil
}

// Remove deletes a triple from the given graph.
func (s *Store) Remove(name rdf.Term, t rdf.Triple) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.graphLocked(name)
	if g == nil {
		return false
	}
	return g.Remove(t)
}

// Insert adds a batch of triples to the given graph under one exclusive
// section and returns the number actually added (duplicates excluded).
func (s *Store) Insert(name rdf.Term, ts []rdf.Triple) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.ensureLocked(name)
	added := 0
	for _, t := range ts {
		if g.Add(t) {
			added++
		}
	}
	return added
}

// Match returns triples matching the pattern within the named graph;
// nil terms are wildcards. A missing graph matches nothing.
func (s *Store) Match(name rdf.Term, sub, pred, obj rdf.Term) []rdf.Triple {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g := s.graphLocked(name)
	if g == nil {
		return nil
	}
	return g.Match(sub, pred, obj)
}

// Has reports whether the triple is present in the named graph.
func (s *Store) Has(name rdf.Term, t rdf.Triple) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g := s.graphLocked(name)
	return g != nil && g.Has(t)
}

// GraphNames lists the named graphs in deterministic order.
func (s *Store) GraphNames() []rdf.Term {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]rdf.Term, 0, len(s.named))
	for _, g := range s.named {
		out = append(out, g.name)
	}
	sort.Slice(out, func(i, j int) bool {
		return rdf.CompareTerms(out[i], out[j]) < 0
	})
	return out
}

// GraphSize returns the number of triples in the named graph.
func (s *Store) GraphSize(name rdf.Term) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g := s.graphLocked(name)
	if g == nil {
		return 0
	}
	return g.Size()
}

// Size returns the total number of triples across all graphs.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.def.Size()
	for _, g := range s.named {
		n += g.Size()
	}
	return n
}

// Quads flattens the dataset to quads, default graph first, named graphs in
// deterministic order. Used by exporters.
func (s *Store) Quads() []quad.Quad {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []quad.Quad
	for _, t := range s.def.All() {
		out = append(out, t.Quad(nil))
	}
	names := make([]string, 0, len(s.named))
	for k := range s.named {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		g := s.named[k]
		for _, t := range g.All() {
			out = append(out, t.Quad(g.name))
		}
	}
	return out
}
