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

package path

import (
	"context"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owlmorph/owlmorph/graph"
	"github.com/owlmorph/owlmorph/rdf"
)

func testGraph(edges [][3]string) *graph.Graph {
	g := graph.NewGraph(nil)
	for _, e := range edges {
		g.Add(rdf.Triple{
			Subject:   quad.IRI(e[0]),
			Predicate: quad.IRI(e[1]),
			Object:    quad.IRI(e[2]),
		})
	}
	return g
}

func iris(names ...string) []rdf.Term {
	out := make([]rdf.Term, len(names))
	for i, n := range names {
		out[i] = quad.IRI(n)
	}
	return out
}

func TestEdgeForwardReverse(t *testing.T) {
	g := testGraph([][3]string{
		{"a", "p", "b"},
		{"a", "p", "c"},
		{"b", "p", "c"},
	})
	ctx := context.Background()

	got, err := Eval(ctx, g, Edge("p"), quad.IRI("a"), Forward, nil)
	require.NoError(t, err)
	assert.Equal(t, iris("b", "c"), got)

	got, err = Eval(ctx, g, Edge("p"), quad.IRI("c"), Reverse, nil)
	require.NoError(t, err)
	assert.Equal(t, iris("a", "b"), got)
}

func TestSequence(t *testing.T) {
	g := testGraph([][3]string{
		{"a", "p", "b"},
		{"b", "q", "c"},
		{"b", "q", "d"},
	})
	ctx := context.Background()
	seq := Sequence{X: Edge("p"), Y: Edge("q")}

	got, err := Eval(ctx, g, seq, quad.IRI("a"), Forward, nil)
	require.NoError(t, err)
	assert.Equal(t, iris("c", "d"), got)

	// reverse evaluation walks the sequence back to front
	got, err = Eval(ctx, g, seq, quad.IRI("c"), Reverse, nil)
	require.NoError(t, err)
	assert.Equal(t, iris("a"), got)
}

func TestAlternation(t *testing.T) {
	g := testGraph([][3]string{
		{"a", "p", "b"},
		{"a", "q", "c"},
		{"a", "r", "d"},
	})
	got, err := Eval(context.Background(), g, Alternation{X: Edge("p"), Y: Edge("q")}, quad.IRI("a"), Forward, nil)
	require.NoError(t, err)
	assert.Equal(t, iris("b", "c"), got)
}

func TestInverse(t *testing.T) {
	g := testGraph([][3]string{
		{"child", "broader", "parent"},
	})
	got, err := Eval(context.Background(), g, Inverse{X: Edge("broader")}, quad.IRI("parent"), Forward, nil)
	require.NoError(t, err)
	assert.Equal(t, iris("child"), got)
}

func TestZeroOrMoreIncludesStart(t *testing.T) {
	g := testGraph([][3]string{
		{"a", "p", "b"},
		{"b", "p", "c"},
	})
	got, err := Eval(context.Background(), g, ZeroOrMore{X: Edge("p")}, quad.IRI("a"), Forward, nil)
	require.NoError(t, err)
	assert.Equal(t, iris("a", "b", "c"), got)

	// a start term with no outgoing edges still reaches itself
	got, err = Eval(context.Background(), g, ZeroOrMore{X: Edge("p")}, quad.IRI("z"), Forward, nil)
	require.NoError(t, err)
	assert.Equal(t, iris("z"), got)
}

func TestZeroOrMoreCycle(t *testing.T) {
	g := testGraph([][3]string{
		{"a", "p", "b"},
		{"b", "p", "c"},
		{"c", "p", "a"},
	})
	got, err := Eval(context.Background(), g, ZeroOrMore{X: Edge("p")}, quad.IRI("a"), Forward, nil)
	require.NoError(t, err)
	assert.Equal(t, iris("a", "b", "c"), got)
}

func TestStarts(t *testing.T) {
	g := testGraph([][3]string{
		{"a", "p", "b"},
		{"b", "q", "c"},
	})
	ctx := context.Background()

	got, err := Starts(ctx, g, Sequence{X: Edge("p"), Y: Edge("q")}, Forward, nil)
	require.NoError(t, err)
	assert.Equal(t, iris("a"), got)

	// zero-or-more admits either endpoint of the inner step as a start
	got, err = Starts(ctx, g, ZeroOrMore{X: Edge("p")}, Forward, nil)
	require.NoError(t, err)
	assert.Equal(t, iris("a", "b"), got)
}

func TestBudgetExceeded(t *testing.T) {
	g := testGraph([][3]string{
		{"a", "p", "b"},
		{"b", "p", "c"},
		{"c", "p", "d"},
		{"d", "p", "e"},
	})
	b := NewBudget(2)
	_, err := Eval(context.Background(), g, ZeroOrMore{X: Edge("p")}, quad.IRI("a"), Forward, b)
	require.ErrorIs(t, err, ErrBudgetExceeded)
}

func TestNilBudgetUnlimited(t *testing.T) {
	require.Nil(t, NewBudget(0))
	require.Nil(t, NewBudget(-1))
	var b *Budget
	for i := 0; i < 1000; i++ {
		require.NoError(t, b.Step())
	}
}
