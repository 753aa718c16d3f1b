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
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owlmorph/owlmorph/rdf"
)

func tr(s, p, o string) rdf.Triple {
	return rdf.Triple{Subject: quad.IRI(s), Predicate: quad.IRI(p), Object: quad.IRI(o)}
}

func TestGraphAddIdempotent(t *testing.T) {
	g := NewGraph(nil)
	require.True(t, g.Add(tr("s", "p", "o")))
	require.False(t, g.Add(tr("s", "p", "o")))
	assert.Equal(t, 1, g.Size())
	assert.True(t, g.Has(tr("s", "p", "o")))
}

func TestGraphAddInvalid(t *testing.T) {
	g := NewGraph(nil)
	bad := rdf.Triple{Subject: quad.String("lit"), Predicate: quad.IRI("p"), Object: quad.IRI("o")}
	assert.False(t, g.Add(bad))
	assert.Equal(t, 0, g.Size())
}

func TestGraphRemove(t *testing.T) {
	g := NewGraph(nil)
	g.Add(tr("s", "p", "o"))
	require.True(t, g.Remove(tr("s", "p", "o")))
	require.False(t, g.Remove(tr("s", "p", "o")))
	assert.Equal(t, 0, g.Size())
	assert.False(t, g.Has(tr("s", "p", "o")))
	assert.Empty(t, g.Match(quad.IRI("s"), nil, nil))

	// re-adding after removal works
	require.True(t, g.Add(tr("s", "p", "o")))
	assert.Equal(t, 1, g.Size())
}

func TestGraphMatch(t *testing.T) {
	g := NewGraph(nil)
	g.Add(tr("a", "p", "x"))
	g.Add(tr("a", "p", "y"))
	g.Add(tr("a", "q", "x"))
	g.Add(tr("b", "p", "x"))

	assert.Len(t, g.Match(quad.IRI("a"), nil, nil), 3)
	assert.Len(t, g.Match(nil, quad.IRI("p"), nil), 3)
	assert.Len(t, g.Match(nil, nil, quad.IRI("x")), 3)
	assert.Len(t, g.Match(quad.IRI("a"), quad.IRI("p"), nil), 2)
	assert.Len(t, g.Match(quad.IRI("a"), quad.IRI("p"), quad.IRI("x")), 1)
	assert.Len(t, g.Match(nil, nil, nil), 4)
	assert.Empty(t, g.Match(quad.IRI("nope"), nil, nil))
	assert.Empty(t, g.Match(quad.IRI("a"), quad.IRI("q"), quad.IRI("y")))
}

func TestGraphMatchLiteralObjects(t *testing.T) {
	g := NewGraph(nil)
	lit := quad.LangString{Value: "label", Lang: "en"}
	g.Add(rdf.Triple{Subject: quad.IRI("a"), Predicate: quad.IRI("p"), Object: lit})
	g.Add(rdf.Triple{Subject: quad.IRI("a"), Predicate: quad.IRI("p"), Object: quad.String("label")})

	// a plain and a tagged literal with the same lexical form are distinct
	assert.Equal(t, 2, g.Size())
	got := g.Match(nil, nil, lit)
	require.Len(t, got, 1)
	assert.True(t, rdf.TermsEqual(lit, got[0].Object))
}

func TestStoreGraphRouting(t *testing.T) {
	s := NewStore()
	gname := quad.IRI("http://example.org/g1")

	s.Add(nil, tr("s", "p", "o"))
	s.Add(gname, tr("s2", "p", "o2"))

	assert.Equal(t, 1, s.GraphSize(nil))
	assert.Equal(t, 1, s.GraphSize(gname))
	assert.Equal(t, 2, s.Size())

	assert.Len(t, s.Match(nil, nil, nil, nil), 1)
	assert.Len(t, s.Match(gname, nil, nil, nil), 1)
	// missing graph matches nothing
	assert.Empty(t, s.Match(quad.IRI("http://example.org/missing"), nil, nil, nil))
}

func TestStoreAddQuad(t *testing.T) {
	s := NewStore()
	s.AddQuad(quad.Quad{Subject: quad.IRI("s"), Predicate: quad.IRI("p"), Object: quad.IRI("o")})
	s.AddQuad(quad.Quad{Subject: quad.IRI("s"), Predicate: quad.IRI("p"), Object: quad.IRI("o"), Label: quad.IRI("g")})

	assert.Equal(t, 1, s.GraphSize(nil))
	assert.Equal(t, 1, s.GraphSize(quad.IRI("g")))
}

func TestStoreInsertBatch(t *testing.T) {
	s := NewStore()
	s.Add(nil, tr("a", "p", "x"))

	added := s.Insert(nil, []rdf.Triple{
		tr("a", "p", "x"), // duplicate
		tr("a", "p", "y"),
		tr("b", "p", "z"),
	})
	assert.Equal(t, 2, added)
	assert.Equal(t, 3, s.Size())

	// inserting the same batch again adds nothing
	assert.Equal(t, 0, s.Insert(nil, []rdf.Triple{tr("a", "p", "y"), tr("b", "p", "z")}))
}

func TestStoreGraphNamesSorted(t *testing.T) {
	s := NewStore()
	s.Add(quad.IRI("http://example.org/b"), tr("s", "p", "o"))
	s.Add(quad.IRI("http://example.org/a"), tr("s", "p", "o"))

	names := s.GraphNames()
	require.Len(t, names, 2)
	assert.Equal(t, quad.IRI("http://example.org/a"), names[0])
	assert.Equal(t, quad.IRI("http://example.org/b"), names[1])
}

func TestStoreQuads(t *testing.T) {
	s := NewStore()
	s.Add(nil, tr("s", "p", "o"))
	s.Add(quad.IRI("g"), tr("s2", "p", "o2"))

	quads := s.Quads()
	require.Len(t, quads, 2)
	assert.Nil(t, quads[0].Label)
	assert.Equal(t, quad.IRI("g"), quads[1].Label)
}
