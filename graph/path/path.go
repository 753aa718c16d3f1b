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

// Package path implements property path expressions over a graph: sequence,
// alternation, inverse and zero-or-more composition of predicate edges.
//
// Paths are a small tagged-variant AST evaluated by one generic traversal
// parameterized by direction.
package path

import (
	"errors"
	"sync/atomic"

	"github.com/cayleygraph/quad"
)

// Direction is the orientation of an edge traversal.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Forward {
		return Reverse
	}
	return Forward
}

// Path is a property path expression.
type Path interface {
	isPath()
	String() string
}

// Edge is an atomic step along a single predicate.
type Edge quad.IRI

// Sequence traverses X, then Y from each X endpoint.
type Sequence struct {
	X, Y Path
}

// Alternation traverses either X or Y, unioning the reachable sets.
type Alternation struct {
	X, Y Path
}

// Inverse traverses X with subject and object roles swapped.
type Inverse struct {
	X Path
}

// ZeroOrMore traverses X any number of times, including zero; the start
// term is always reachable from itself.
type ZeroOrMore struct {
	X Path
}

func (Edge) isPath()        {}
func (Sequence) isPath()    {}
func (Alternation) isPath() {}
func (Inverse) isPath()     {}
func (ZeroOrMore) isPath()  {}

func (p Edge) String() string        { return quad.IRI(p).String() }
func (p Sequence) String() string    { return "(" + p.X.String() + "/" + p.Y.String() + ")" }
func (p Alternation) String() string { return "(" + p.X.String() + "|" + p.Y.String() + ")" }
func (p Inverse) String() string     { return "^" + p.X.String() }
func (p ZeroOrMore) String() string  { return p.X.String() + "*" }

// ErrBudgetExceeded is returned when a traversal runs out of its step budget.
var ErrBudgetExceeded = errors.New("path: traversal budget exceeded")

// Budget is a cooperative cancellation budget shared by all traversals of
// one query, including EXISTS sub-pattern evaluation. A nil Budget is
// unlimited. Safe for concurrent use.
type Budget struct {
	steps int64
}

// NewBudget returns a budget allowing n steps; n <= 0 means unlimited.
func NewBudget(n int64) *Budget {
	if n <= 0 {
		return nil
	}
	return &Budget{steps: n}
}

// Step charges one unit of work against the budget.
func (b *Budget) Step() error {
	if b == nil {
		return nil
	}
	if atomic.AddInt64(&b.steps, -1) < 0 {
		return ErrBudgetExceeded
	}
	return nil
}
