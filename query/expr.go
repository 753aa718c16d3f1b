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

// Expr is a filter or projection expression. The variants form a closed
// union; evaluation type-switches on the node kind.
type Expr interface {
	isExpr()
}

// TermExpr is a constant term or a variable reference.
type TermExpr struct {
	T rdf.Term // concrete term or Var
}

// TermKind selects a term type test.
type TermKind int

const (
	KindIRI TermKind = iota
	KindBlank
	KindLiteral
)

// Kind is isURI/isBlank/isLiteral applied to Arg.
type Kind struct {
	Arg Expr
	K   TermKind
}

// Regex matches the lexical or IRI form of Arg against Pattern.
type Regex struct {
	Arg, Pattern Expr
	Flags        Expr // nil when absent
}

// Bound is true when V is bound in the current solution.
type Bound struct {
	V Var
}

// Exists re-evaluates P under the current solution's bindings; true iff at
// least one solution results. Not inverts it.
type Exists struct {
	P   Pattern
	Not bool
}

// Eq compares two terms for structural equality; Neg makes it !=.
type Eq struct {
	X, Y Expr
	Neg  bool
}

type Not struct{ X Expr }
type And struct{ X, Y Expr }
type Or struct{ X, Y Expr }

// Concat joins the string forms of its arguments.
type Concat struct {
	Args []Expr
}

// Str yields the plain string form of a term.
type Str struct{ X Expr }

// URI builds an IRI from a string form.
type URI struct{ X Expr }

// If evaluates Then or Else depending on Cond.
type If struct {
	Cond, Then, Else Expr
}

// StrAfter yields the part of X after the first occurrence of Y,
// or the empty string when Y does not occur.
type StrAfter struct{ X, Y Expr }

// StrBefore yields the part of X before the first occurrence of Y,
// or the empty string when Y does not occur.
type StrBefore struct{ X, Y Expr }

// Controlled is true when the graph named by Graph carries Tag in the
// external graph-control source.
type Controlled struct {
	Graph Expr
	Tag   Expr
}

// Count is the COUNT aggregate; valid only as a SELECT item. Star counts
// all solutions of the group, otherwise only those where Arg is computable.
type Count struct {
	Arg  Expr
	Star bool
}

func (TermExpr) isExpr()  {}
func (Kind) isExpr()      {}
func (Regex) isExpr()     {}
func (Bound) isExpr()     {}
func (Exists) isExpr()    {}
func (Eq) isExpr()        {}
func (Not) isExpr()       {}
func (And) isExpr()       {}
func (Or) isExpr()        {}
func (Concat) isExpr()    {}
func (Str) isExpr()       {}
func (URI) isExpr()       {}
func (If) isExpr()        {}
func (StrAfter) isExpr()  {}
func (StrBefore) isExpr() {}
func (Controlled) isExpr() {}
func (Count) isExpr()     {}
