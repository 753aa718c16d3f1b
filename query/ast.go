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
	"sort"

	"github.com/owlmorph/owlmorph/graph/path"
	"github.com/owlmorph/owlmorph/rdf"
)

// Var is a query variable. It implements rdf.Term so pattern and template
// positions hold either a concrete term or a variable; variables are never
// stored in a dataset.
type Var string

var _ rdf.Term = Var("")

func (v Var) String() string      { return "?" + string(v) }
func (v Var) Native() interface{} { return v }

// AsVar reports whether a pattern term is a variable.
func AsVar(t rdf.Term) (Var, bool) {
	v, ok := t.(Var)
	return v, ok
}

// TriplePattern matches one triple. Any position may be a Var. When Path is
// non-nil it replaces the predicate with a property path expression.
type TriplePattern struct {
	Subject   rdf.Term
	Predicate rdf.Term
	Path      path.Path
	Object    rdf.Term
}

// Pattern is a node of the group-pattern AST.
type Pattern interface {
	isPattern()
}

// Group is a conjunction: elements are evaluated in written order, each
// joined with the solutions accumulated so far.
type Group []Pattern

// Union yields the bag union of both branches, each evaluated against the
// same graph context independently.
type Union struct {
	X, Y Pattern
}

// Optional left-joins the accumulated solutions with X.
type Optional struct {
	X Pattern
}

// GraphPattern scopes P to the graph named by Name, which is an IRI or a
// variable; a variable iterates all named graphs.
type GraphPattern struct {
	Name rdf.Term
	P    Pattern
}

// Filter keeps only solutions for which E evaluates to true. An evaluation
// type error makes the filter false for that solution, never fatal.
type Filter struct {
	E Expr
}

// Bind extends each solution with V computed from E; an uncomputable E
// leaves V unbound for that solution.
type Bind struct {
	E Expr
	V Var
}

func (TriplePattern) isPattern() {}
func (Group) isPattern()        {}
func (Union) isPattern()        {}
func (Optional) isPattern()     {}
func (GraphPattern) isPattern() {}
func (Filter) isPattern()       {}
func (Bind) isPattern()         {}

// SelectItem is one projected column: a bare variable or an aliased
// expression, possibly an aggregate.
type SelectItem struct {
	E  Expr
	As Var // empty for a bare variable projection
}

// Name returns the output column name for the item.
func (it SelectItem) Name() string {
	if it.As != "" {
		return string(it.As)
	}
	if t, ok := it.E.(TermExpr); ok {
		if v, ok := AsVar(t.T); ok {
			return string(v)
		}
	}
	return "expr"
}

// OrderKey is one ORDER BY sort key.
type OrderKey struct {
	E    Expr
	Desc bool
}

// SelectQuery reports rows, optionally grouped and aggregated.
type SelectQuery struct {
	Distinct bool
	Star     bool
	Items    []SelectItem
	Where    Pattern
	GroupBy  []Expr
	OrderBy  []OrderKey
	Limit    int // 0 means no limit
}

// ConstructQuery derives a new triple set from a template; the dataset is
// never mutated.
type ConstructQuery struct {
	Template []TriplePattern
	Where    Pattern
}

// InsertQuery instantiates a template and adds the triples to the target
// graph (the default graph when Graph is nil).
type InsertQuery struct {
	Graph    rdf.Term
	Template []TriplePattern
	Where    Pattern
}

// Query is a parsed query in exactly one of the three execution forms.
type Query struct {
	Select    *SelectQuery
	Construct *ConstructQuery
	Insert    *InsertQuery
}

// Vars returns the variables mentioned by a pattern, sorted by name.
// Used for SELECT * projection.
func Vars(p Pattern) []Var {
	set := make(map[Var]bool)
	collectVars(p, set)
	out := make([]Var, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func collectVars(p Pattern, set map[Var]bool) {
	switch p := p.(type) {
	case TriplePattern:
		for _, t := range []rdf.Term{p.Subject, p.Predicate, p.Object} {
			if v, ok := AsVar(t); ok {
				set[v] = true
			}
		}
	case Group:
		for _, sub := range p {
			collectVars(sub, set)
		}
	case Union:
		collectVars(p.X, set)
		collectVars(p.Y, set)
	case Optional:
		collectVars(p.X, set)
	case GraphPattern:
		if v, ok := AsVar(p.Name); ok {
			set[v] = true
		}
		collectVars(p.P, set)
	case Bind:
		set[p.V] = true
	}
}
