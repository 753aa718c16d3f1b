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

import (
	"context"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owlmorph/owlmorph/control"
	"github.com/owlmorph/owlmorph/graph"
	"github.com/owlmorph/owlmorph/graph/path"
	"github.com/owlmorph/owlmorph/rdf"
)

func tr(s, p, o rdf.Term) rdf.Triple {
	return rdf.Triple{Subject: s, Predicate: p, Object: o}
}

func iri(s string) quad.IRI { return quad.IRI(s) }

func newTestStore(ts ...rdf.Triple) *graph.Store {
	s := graph.NewStore()
	for _, t := range ts {
		s.Add(nil, t)
	}
	return s
}

func runSelect(t *testing.T, s *Session, q *SelectQuery) *Rows {
	t.Helper()
	res, err := s.Run(context.Background(), &Query{Select: q})
	require.NoError(t, err)
	rows, ok := res.(*Rows)
	require.True(t, ok)
	return rows
}

func TestSelectJoin(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("type"), iri("Class")),
		tr(iri("b"), iri("type"), iri("Class")),
		tr(iri("a"), iri("label"), quad.String("A")),
	), Options{})

	q := &SelectQuery{
		Star: true,
		Where: Group{
			TriplePattern{Subject: Var("x"), Predicate: iri("type"), Object: iri("Class")},
			TriplePattern{Subject: Var("x"), Predicate: iri("label"), Object: Var("l")},
		},
	}
	rows := runSelect(t, s, q)
	require.Len(t, rows.Rows, 1)
	assert.Equal(t, iri("a"), rows.Rows[0]["x"])
	assert.Equal(t, quad.String("A"), rows.Rows[0]["l"])
}

func TestOptionalKeepsUnmatched(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("type"), iri("Class")),
		tr(iri("b"), iri("type"), iri("Class")),
		tr(iri("a"), iri("label"), quad.String("A")),
	), Options{})

	q := &SelectQuery{
		Star: true,
		Where: Group{
			TriplePattern{Subject: Var("x"), Predicate: iri("type"), Object: iri("Class")},
			Optional{X: Group{
				TriplePattern{Subject: Var("x"), Predicate: iri("label"), Object: Var("l")},
			}},
		},
	}
	rows := runSelect(t, s, q)
	require.Len(t, rows.Rows, 2)

	byX := map[string]Row{}
	for _, r := range rows.Rows {
		byX[r["x"].String()] = r
	}
	assert.Equal(t, quad.String("A"), byX[iri("a").String()]["l"])
	// the unmatched side keeps ?x and leaves ?l unbound
	_, bound := byX[iri("b").String()]["l"]
	assert.False(t, bound)
}

func TestUnionBagSemantics(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("p"), iri("x")),
		tr(iri("a"), iri("q"), iri("x")),
	), Options{})

	q := &SelectQuery{
		Star: true,
		Where: Group{
			Union{
				X: Group{TriplePattern{Subject: Var("s"), Predicate: iri("p"), Object: Var("o")}},
				Y: Group{TriplePattern{Subject: Var("s"), Predicate: iri("q"), Object: Var("o")}},
			},
		},
	}
	rows := runSelect(t, s, q)
	// both branches match with identical bindings; the union keeps both
	require.Len(t, rows.Rows, 2)
	assert.Equal(t, rows.Rows[0], rows.Rows[1])
}

func TestNoImplicitTransitiveClosure(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("sub"), iri("b")),
		tr(iri("b"), iri("sub"), iri("c")),
	), Options{})

	// a plain edge matches only direct statements
	direct := runSelect(t, s, &SelectQuery{
		Star: true,
		Where: Group{
			TriplePattern{Subject: iri("a"), Predicate: iri("sub"), Object: Var("o")},
		},
	})
	require.Len(t, direct.Rows, 1)
	assert.Equal(t, iri("b"), direct.Rows[0]["o"])

	// the closure must be requested explicitly
	closure := runSelect(t, s, &SelectQuery{
		Star: true,
		Where: Group{
			TriplePattern{Subject: iri("a"), Path: path.ZeroOrMore{X: path.Edge("sub")}, Object: Var("o")},
		},
	})
	require.Len(t, closure.Rows, 3)
}

func TestFilterNotExists(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("type"), iri("Class")),
		tr(iri("b"), iri("type"), iri("Class")),
		tr(iri("b"), iri("deprecated"), quad.Bool(true)),
	), Options{})

	q := &SelectQuery{
		Star: true,
		Where: Group{
			TriplePattern{Subject: Var("x"), Predicate: iri("type"), Object: iri("Class")},
			Filter{E: Exists{
				Not: true,
				P: Group{
					TriplePattern{Subject: Var("x"), Predicate: iri("deprecated"), Object: quad.Bool(true)},
				},
			}},
		},
	}
	rows := runSelect(t, s, q)
	require.Len(t, rows.Rows, 1)
	assert.Equal(t, iri("a"), rows.Rows[0]["x"])
}

func TestFilterKindPartition(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("p"), iri("x")),
		tr(iri("a"), iri("p"), quad.String("lit")),
		tr(quad.BNode("bn"), iri("p"), iri("y")),
	), Options{})

	base := Group{TriplePattern{Subject: Var("s"), Predicate: iri("p"), Object: Var("o")}}

	onlyIRIObjects := runSelect(t, s, &SelectQuery{
		Star:  true,
		Where: append(base[:1:1], Filter{E: Kind{Arg: TermExpr{T: Var("o")}, K: KindIRI}}),
	})
	require.Len(t, onlyIRIObjects.Rows, 2)

	onlyBlankSubjects := runSelect(t, s, &SelectQuery{
		Star:  true,
		Where: append(base[:1:1], Filter{E: Kind{Arg: TermExpr{T: Var("s")}, K: KindBlank}}),
	})
	require.Len(t, onlyBlankSubjects.Rows, 1)

	onlyLiterals := runSelect(t, s, &SelectQuery{
		Star:  true,
		Where: append(base[:1:1], Filter{E: Kind{Arg: TermExpr{T: Var("o")}, K: KindLiteral}}),
	})
	require.Len(t, onlyLiterals.Rows, 1)
}

func TestFilterTypeErrorIsFalse(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("p"), quad.BNode("bn")),
		tr(iri("a"), iri("p"), quad.String("ok")),
	), Options{})

	// REGEX over a blank node is a type error, which drops the solution
	// instead of failing the query
	q := &SelectQuery{
		Star: true,
		Where: Group{
			TriplePattern{Subject: Var("s"), Predicate: iri("p"), Object: Var("o")},
			Filter{E: Regex{Arg: TermExpr{T: Var("o")}, Pattern: TermExpr{T: quad.String("ok")}}},
		},
	}
	rows := runSelect(t, s, q)
	require.Len(t, rows.Rows, 1)
	assert.Equal(t, quad.String("ok"), rows.Rows[0]["o"])
}

func TestBindUncomputableLeavesUnbound(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("p"), iri("x")),
	), Options{})

	q := &SelectQuery{
		Star: true,
		Where: Group{
			TriplePattern{Subject: Var("s"), Predicate: iri("p"), Object: Var("o")},
			Bind{E: Str{X: TermExpr{T: Var("missing")}}, V: Var("out")},
		},
	}
	rows := runSelect(t, s, q)
	require.Len(t, rows.Rows, 1)
	_, bound := rows.Rows[0]["out"]
	assert.False(t, bound)
}

func TestBindComputes(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("http://example.org/ns#Thing"), iri("p"), iri("x")),
	), Options{})

	q := &SelectQuery{
		Star: true,
		Where: Group{
			TriplePattern{Subject: Var("s"), Predicate: iri("p"), Object: Var("o")},
			Bind{
				E: URI{X: Concat{Args: []Expr{
					TermExpr{T: quad.String("http://example.org/skos/")},
					StrAfter{X: Str{X: TermExpr{T: Var("s")}}, Y: TermExpr{T: quad.String("#")}},
				}}},
				V: Var("mapped"),
			},
		},
	}
	rows := runSelect(t, s, q)
	require.Len(t, rows.Rows, 1)
	assert.Equal(t, iri("http://example.org/skos/Thing"), rows.Rows[0]["mapped"])
}

func TestGraphVarIteration(t *testing.T) {
	store := graph.NewStore()
	store.Add(iri("g1"), tr(iri("a"), iri("p"), iri("x")))
	store.Add(iri("g2"), tr(iri("b"), iri("p"), iri("y")))
	store.Add(nil, tr(iri("c"), iri("p"), iri("z")))
	s := NewSession(store, Options{})

	q := &SelectQuery{
		Star: true,
		Where: Group{
			GraphPattern{Name: Var("g"), P: Group{
				TriplePattern{Subject: Var("s"), Predicate: iri("p"), Object: Var("o")},
			}},
		},
	}
	rows := runSelect(t, s, q)
	// the default graph is not visited by a graph variable
	require.Len(t, rows.Rows, 2)
	got := map[string]string{}
	for _, r := range rows.Rows {
		got[r["g"].String()] = r["s"].String()
	}
	assert.Equal(t, map[string]string{
		iri("g1").String(): iri("a").String(),
		iri("g2").String(): iri("b").String(),
	}, got)
}

func TestGraphConcreteScope(t *testing.T) {
	store := graph.NewStore()
	store.Add(iri("g1"), tr(iri("a"), iri("p"), iri("x")))
	store.Add(nil, tr(iri("b"), iri("p"), iri("y")))
	s := NewSession(store, Options{})

	q := &SelectQuery{
		Star: true,
		Where: Group{
			GraphPattern{Name: iri("g1"), P: Group{
				TriplePattern{Subject: Var("s"), Predicate: iri("p"), Object: Var("o")},
			}},
		},
	}
	rows := runSelect(t, s, q)
	require.Len(t, rows.Rows, 1)
	assert.Equal(t, iri("a"), rows.Rows[0]["s"])
}

func TestGroupByCount(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("i1"), iri("type"), iri("X")),
		tr(iri("i2"), iri("type"), iri("X")),
		tr(iri("i3"), iri("type"), iri("X")),
		tr(iri("i4"), iri("type"), iri("Y")),
		tr(iri("i5"), iri("type"), iri("Y")),
	), Options{})

	q := &SelectQuery{
		Items: []SelectItem{
			{E: TermExpr{T: Var("class")}},
			{E: Count{Star: true}, As: Var("n")},
		},
		Where: Group{
			TriplePattern{Subject: Var("i"), Predicate: iri("type"), Object: Var("class")},
		},
		GroupBy: []Expr{TermExpr{T: Var("class")}},
		OrderBy: []OrderKey{{E: TermExpr{T: Var("n")}, Desc: true}},
	}
	rows := runSelect(t, s, q)
	require.Equal(t, []string{"class", "n"}, rows.Columns)
	require.Len(t, rows.Rows, 2)
	assert.Equal(t, iri("X"), rows.Rows[0]["class"])
	assert.Equal(t, quad.Int(3), rows.Rows[0]["n"])
	assert.Equal(t, iri("Y"), rows.Rows[1]["class"])
	assert.Equal(t, quad.Int(2), rows.Rows[1]["n"])
}

func TestCountEmptyInput(t *testing.T) {
	s := NewSession(newTestStore(), Options{})

	q := &SelectQuery{
		Items: []SelectItem{{E: Count{Star: true}, As: Var("n")}},
		Where: Group{
			TriplePattern{Subject: Var("s"), Predicate: iri("p"), Object: Var("o")},
		},
	}
	rows := runSelect(t, s, q)
	// aggregate query with no GROUP BY reports a single zero row
	require.Len(t, rows.Rows, 1)
	assert.Equal(t, quad.Int(0), rows.Rows[0]["n"])
}

func TestDistinctAndLimit(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("p"), iri("x")),
		tr(iri("a"), iri("q"), iri("x")),
		tr(iri("b"), iri("p"), iri("y")),
	), Options{})

	q := &SelectQuery{
		Distinct: true,
		Items:    []SelectItem{{E: TermExpr{T: Var("s")}}},
		Where: Group{
			TriplePattern{Subject: Var("s"), Predicate: Var("p"), Object: Var("o")},
		},
		OrderBy: []OrderKey{{E: TermExpr{T: Var("s")}}},
	}
	rows := runSelect(t, s, q)
	require.Len(t, rows.Rows, 2)

	q.Limit = 1
	rows = runSelect(t, s, q)
	require.Len(t, rows.Rows, 1)
	assert.Equal(t, iri("a"), rows.Rows[0]["s"])
}

func TestConstructSetSemantics(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("sub"), iri("b")),
		tr(iri("b"), iri("sub"), iri("c")),
	), Options{})

	// both directions derived from the same statements
	q := &ConstructQuery{
		Template: []TriplePattern{
			{Subject: Var("x"), Predicate: iri("broader"), Object: Var("y")},
			{Subject: Var("y"), Predicate: iri("narrower"), Object: Var("x")},
		},
		Where: Group{
			TriplePattern{Subject: Var("x"), Predicate: iri("sub"), Object: Var("y")},
		},
	}
	res, err := s.Run(context.Background(), &Query{Construct: q})
	require.NoError(t, err)
	out := res.(*Triples)
	require.Len(t, out.Triples, 4)
	// deterministic order
	for i := 1; i < len(out.Triples); i++ {
		assert.True(t, rdf.CompareTriples(out.Triples[i-1], out.Triples[i]) < 0)
	}
	// the dataset itself is untouched
	assert.Equal(t, 2, s.Store().Size())
}

func TestConstructDeduplicates(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("p"), iri("x")),
		tr(iri("a"), iri("q"), iri("y")),
	), Options{})

	q := &ConstructQuery{
		Template: []TriplePattern{
			{Subject: Var("s"), Predicate: iri("type"), Object: iri("Thing")},
		},
		Where: Group{
			TriplePattern{Subject: Var("s"), Predicate: Var("p"), Object: Var("o")},
		},
	}
	res, err := s.Run(context.Background(), &Query{Construct: q})
	require.NoError(t, err)
	require.Len(t, res.(*Triples).Triples, 1)
}

func TestConstructBlankNodes(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("p"), iri("x")),
		tr(iri("b"), iri("p"), iri("y")),
	), Options{})

	q := &ConstructQuery{
		Template: []TriplePattern{
			{Subject: Var("s"), Predicate: iri("via"), Object: quad.BNode("n")},
			{Subject: quad.BNode("n"), Predicate: iri("to"), Object: Var("o")},
		},
		Where: Group{
			TriplePattern{Subject: Var("s"), Predicate: iri("p"), Object: Var("o")},
		},
	}
	res, err := s.Run(context.Background(), &Query{Construct: q})
	require.NoError(t, err)
	out := res.(*Triples).Triples
	require.Len(t, out, 4)

	// the same label co-refers within a solution and differs across solutions
	nodeFor := map[string]rdf.Term{}
	for _, t := range out {
		if rdf.TermsEqual(t.Predicate, iri("via")) {
			nodeFor[t.Subject.String()] = t.Object
		}
	}
	require.Len(t, nodeFor, 2)
	assert.False(t, rdf.TermsEqual(nodeFor[iri("a").String()], nodeFor[iri("b").String()]))

	linked := map[string]rdf.Term{}
	for _, t := range out {
		if rdf.TermsEqual(t.Predicate, iri("to")) {
			linked[t.Subject.String()] = t.Object
		}
	}
	assert.True(t, rdf.TermsEqual(iri("x"), linked[nodeFor[iri("a").String()].String()]))
	assert.True(t, rdf.TermsEqual(iri("y"), linked[nodeFor[iri("b").String()].String()]))
}

func TestConstructDropsUnbound(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("type"), iri("Class")),
		tr(iri("a"), iri("label"), quad.String("A")),
		tr(iri("b"), iri("type"), iri("Class")),
	), Options{})

	q := &ConstructQuery{
		Template: []TriplePattern{
			{Subject: Var("x"), Predicate: iri("kind"), Object: iri("Thing")},
			{Subject: Var("x"), Predicate: iri("name"), Object: Var("l")},
		},
		Where: Group{
			TriplePattern{Subject: Var("x"), Predicate: iri("type"), Object: iri("Class")},
			Optional{X: Group{
				TriplePattern{Subject: Var("x"), Predicate: iri("label"), Object: Var("l")},
			}},
		},
	}
	res, err := s.Run(context.Background(), &Query{Construct: q})
	require.NoError(t, err)
	// b has no label, so only its kind triple is produced
	require.Len(t, res.(*Triples).Triples, 3)
}

func TestInsertIdempotent(t *testing.T) {
	store := newTestStore(
		tr(iri("a"), iri("sub"), iri("b")),
	)
	s := NewSession(store, Options{})

	q := &InsertQuery{
		Graph: iri("out"),
		Template: []TriplePattern{
			{Subject: Var("x"), Predicate: iri("broader"), Object: Var("y")},
		},
		Where: Group{
			TriplePattern{Subject: Var("x"), Predicate: iri("sub"), Object: Var("y")},
		},
	}
	res, err := s.Run(context.Background(), &Query{Insert: q})
	require.NoError(t, err)
	assert.Equal(t, 1, res.(*Mutation).Added)
	assert.Equal(t, 1, store.GraphSize(iri("out")))

	res, err = s.Run(context.Background(), &Query{Insert: q})
	require.NoError(t, err)
	assert.Equal(t, 0, res.(*Mutation).Added)
	assert.Equal(t, 1, store.GraphSize(iri("out")))
}

func TestInsertAllOrNothing(t *testing.T) {
	store := newTestStore(
		tr(iri("a"), iri("p"), iri("b")),
		tr(iri("b"), iri("p"), iri("c")),
		tr(iri("c"), iri("p"), iri("d")),
	)
	s := NewSession(store, Options{StepBudget: 1})

	q := &InsertQuery{
		Template: []TriplePattern{
			{Subject: Var("x"), Predicate: iri("q"), Object: Var("y")},
		},
		Where: Group{
			TriplePattern{Subject: Var("x"), Path: path.ZeroOrMore{X: path.Edge("p")}, Object: Var("y")},
		},
	}
	_, err := s.Run(context.Background(), &Query{Insert: q})
	require.ErrorIs(t, err, ErrResourceExceeded)
	// nothing was committed
	assert.Equal(t, 3, store.Size())
}

func TestControlledBuiltin(t *testing.T) {
	store := graph.NewStore()
	store.Add(iri("g1"), tr(iri("a"), iri("p"), iri("x")))
	store.Add(iri("g2"), tr(iri("b"), iri("p"), iri("y")))
	s := NewSession(store, Options{
		Control: control.Static{
			{Graph: iri("g1"), Tag: "thesaurus"},
		},
	})

	q := &SelectQuery{
		Star: true,
		Where: Group{
			GraphPattern{Name: Var("g"), P: Group{
				TriplePattern{Subject: Var("s"), Predicate: iri("p"), Object: Var("o")},
			}},
			Filter{E: Controlled{
				Graph: TermExpr{T: Var("g")},
				Tag:   TermExpr{T: quad.String("thesaurus")},
			}},
		},
	}
	rows := runSelect(t, s, q)
	require.Len(t, rows.Rows, 1)
	assert.Equal(t, iri("g1"), rows.Rows[0]["g"])
}

func TestExistsCorrelated(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("type"), iri("Class")),
		tr(iri("b"), iri("type"), iri("Class")),
		tr(iri("a"), iri("label"), quad.String("A")),
	), Options{})

	q := &SelectQuery{
		Star: true,
		Where: Group{
			TriplePattern{Subject: Var("x"), Predicate: iri("type"), Object: iri("Class")},
			Filter{E: Exists{P: Group{
				TriplePattern{Subject: Var("x"), Predicate: iri("label"), Object: Var("any")},
			}}},
		},
	}
	rows := runSelect(t, s, q)
	require.Len(t, rows.Rows, 1)
	assert.Equal(t, iri("a"), rows.Rows[0]["x"])
}

func TestContextCancellation(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("p"), iri("x")),
	), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Run(ctx, &Query{Select: &SelectQuery{
		Star: true,
		Where: Group{
			TriplePattern{Subject: Var("s"), Predicate: iri("p"), Object: Var("o")},
		},
	}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestVarIsTerm(t *testing.T) {
	var term rdf.Term = Var("s")
	v, ok := AsVar(term)
	require.True(t, ok)
	assert.Equal(t, Var("s"), v)
	assert.Equal(t, "?s", term.String())
	assert.Equal(t, Var("s"), term.Native())

	_, ok = AsVar(iri("s"))
	assert.False(t, ok)
}

func TestUnionReturnsFreshSlice(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("p"), iri("x")),
	), Options{})
	e := s.evaluator()

	in := make([]Solution, 1, 4)
	in[0] = Solution{"s": iri("a")}
	out, err := e.eval(context.Background(), Union{X: Group{}, Y: Group{}}, in)
	require.NoError(t, err)
	require.Len(t, out, 2)

	// a branch over an empty group hands back the input slice; the merged
	// result must not share its backing array with the caller's
	_ = append(in, Solution{"s": iri("b")})
	assert.True(t, rdf.TermsEqual(iri("a"), out[1]["s"]))
}

func TestInsertMintsFreshBlankNodes(t *testing.T) {
	s := NewSession(newTestStore(
		tr(iri("a"), iri("p"), iri("x")),
	), Options{})

	q := &InsertQuery{
		Template: []TriplePattern{
			{Subject: Var("s"), Predicate: iri("via"), Object: quad.BNode("n")},
		},
		Where: Group{
			TriplePattern{Subject: Var("s"), Predicate: iri("p"), Object: Var("o")},
		},
	}

	res, err := s.Run(context.Background(), &Query{Insert: q})
	require.NoError(t, err)
	assert.Equal(t, 1, res.(*Mutation).Added)

	// a second run mints labels that never collide with already stored
	// blank nodes, so the new triple is not silently deduplicated
	res, err = s.Run(context.Background(), &Query{Insert: q})
	require.NoError(t, err)
	assert.Equal(t, 1, res.(*Mutation).Added)
	assert.Equal(t, 3, s.Store().Size())
}
