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

// Package query evaluates pattern-matching and graph-rewrite queries over a
// dataset: CONSTRUCT derives a new triple set, INSERT mutates a target
// graph, SELECT reports grouped rows.
package query

import (
	"context"
	"errors"
	"time"

	"github.com/owlmorph/owlmorph/clog"
	"github.com/owlmorph/owlmorph/control"
	"github.com/owlmorph/owlmorph/graph"
	"github.com/owlmorph/owlmorph/graph/path"
	"github.com/owlmorph/owlmorph/rdf"
	"github.com/owlmorph/owlmorph/voc"
)

// DefaultStepBudget bounds path and EXISTS traversal work per query when
// Options.StepBudget is unset.
const DefaultStepBudget = 1 << 20

// ErrResourceExceeded reports that a query ran out of its traversal budget.
// The query fails as a whole; an INSERT commits nothing.
var ErrResourceExceeded = path.ErrBudgetExceeded

// Options configures a Session.
type Options struct {
	// Namespaces is the prefix table resolved at bind time, layered over the
	// globally registered vocabularies. May be nil.
	Namespaces *voc.Namespaces
	// Control is the external graphs-under-team-control source backing the
	// CONTROLLED filter. May be nil, in which case CONTROLLED is false.
	Control control.Source
	// StepBudget bounds traversal work; 0 selects DefaultStepBudget,
	// negative means unlimited.
	StepBudget int64
}

// Session binds a dataset to query execution.
type Session struct {
	store *graph.Store
	opt   Options
}

// NewSession creates a session over the given dataset.
func NewSession(store *graph.Store, opt Options) *Session {
	return &Session{store: store, opt: opt}
}

// Store returns the underlying dataset.
func (s *Session) Store() *graph.Store { return s.store }

// Namespaces returns the session prefix table, never nil.
func (s *Session) Namespaces() *voc.Namespaces {
	if s.opt.Namespaces == nil {
		s.opt.Namespaces = voc.New()
	}
	return s.opt.Namespaces
}

// Result is the outcome of running a query: *Triples for CONSTRUCT,
// *Mutation for INSERT, *Rows for SELECT.
type Result interface {
	isResult()
}

// Triples is a CONSTRUCT result: a deduplicated, ordered triple set.
type Triples struct {
	Triples []rdf.Triple
}

// Mutation is an INSERT report: the number of triples actually added,
// duplicates excluded.
type Mutation struct {
	Added int
}

// Row maps column name to term; COUNT columns are quad.Int.
type Row map[string]rdf.Term

// Rows is a SELECT result.
type Rows struct {
	Columns []string
	Rows    []Row
}

func (*Triples) isResult()  {}
func (*Mutation) isResult() {}
func (*Rows) isResult()     {}

func (s *Session) evaluator() *evaluator {
	budget := s.opt.StepBudget
	if budget == 0 {
		budget = DefaultStepBudget
	}
	return &evaluator{
		store:   s.store,
		budget:  path.NewBudget(budget),
		control: s.opt.Control,
	}
}

// Run executes a parsed query against the session dataset.
func (s *Session) Run(ctx context.Context, q *Query) (Result, error) {
	if q == nil {
		return nil, errors.New("query: nil query")
	}
	start := time.Now()
	e := s.evaluator()
	var (
		res Result
		err error
	)
	switch {
	case q.Select != nil:
		res, err = e.selectQuery(ctx, q.Select)
	case q.Construct != nil:
		res, err = e.constructQuery(ctx, q.Construct)
	case q.Insert != nil:
		res, err = e.insertQuery(ctx, q.Insert)
	default:
		err = errors.New("query: query has no execution form")
	}
	if clog.V(1) {
		clog.Infof("query evaluated in %v (err=%v)", time.Since(start), err)
	}
	return res, err
}
