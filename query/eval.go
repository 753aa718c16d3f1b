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
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/owlmorph/owlmorph/clog"
	"github.com/owlmorph/owlmorph/control"
	"github.com/owlmorph/owlmorph/graph"
	"github.com/owlmorph/owlmorph/graph/path"
	"github.com/owlmorph/owlmorph/rdf"
)

// evaluator carries the evaluation context: the dataset, the current graph
// scope (nil for the default graph), the shared step budget and the external
// graph-control source.
type evaluator struct {
	store   *graph.Store
	name    rdf.Term
	budget  *path.Budget
	control control.Source
}

func (e *evaluator) withGraph(name rdf.Term) *evaluator {
	e2 := *e
	e2.name = name
	return &e2
}

// Match implements path.Matcher against the current graph scope.
func (e *evaluator) Match(sub, pred, obj rdf.Term) []rdf.Triple {
	return e.store.Match(e.name, sub, pred, obj)
}

// isFatal separates errors that abort the whole query from per-solution
// evaluation errors, which downgrade to non-matches.
func isFatal(err error) bool {
	return err != nil && (errors.Is(err, path.ErrBudgetExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded))
}

func (e *evaluator) eval(ctx context.Context, p Pattern, in []Solution) ([]Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch p := p.(type) {
	case Group:
		out := in
		for _, sub := range p {
			var err error
			out, err = e.eval(ctx, sub, out)
			if err != nil {
				return nil, err
			}
			if len(out) == 0 {
				return nil, nil
			}
		}
		return out, nil

	case TriplePattern:
		return e.evalTriple(ctx, p, in)

	case Union:
		// Branches are independent; run them in parallel and merge in branch
		// order so the output matches sequential evaluation.
		var left, right []Solution
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			left, err = e.eval(gctx, p.X, in)
			return err
		})
		g.Go(func() error {
			var err error
			right, err = e.eval(gctx, p.Y, in)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		// a branch may have returned in itself (empty group); never append
		// into the caller's backing array
		out := make([]Solution, 0, len(left)+len(right))
		out = append(out, left...)
		return append(out, right...), nil

	case Optional:
		right, err := e.eval(ctx, p.X, []Solution{{}})
		if err != nil {
			return nil, err
		}
		return leftJoin(in, right), nil

	case GraphPattern:
		return e.evalGraph(ctx, p, in)

	case Filter:
		var out []Solution
		for _, sol := range in {
			ok, err := e.evalBool(ctx, p.E, sol)
			if err != nil {
				if isFatal(err) {
					return nil, err
				}
				if clog.V(2) {
					clog.Infof("filter error treated as false: %v", err)
				}
				continue
			}
			if ok {
				out = append(out, sol)
			}
		}
		return out, nil

	case Bind:
		var out []Solution
		for _, sol := range in {
			t, err := e.evalExpr(ctx, p.E, sol)
			if err != nil {
				if isFatal(err) {
					return nil, err
				}
				// uncomputable: the variable stays unbound in this solution
				out = append(out, sol)
				continue
			}
			if ext, ok := sol.with(p.V, t); ok {
				out = append(out, ext)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("query: unknown pattern %T", p)
}

func (e *evaluator) evalGraph(ctx context.Context, gp GraphPattern, in []Solution) ([]Solution, error) {
	v, isVar := AsVar(gp.Name)
	if !isVar {
		return e.withGraph(gp.Name).eval(ctx, gp.P, in)
	}

	names := e.store.GraphNames()
	results := make([][]Solution, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			// solutions already binding the variable to another graph cannot
			// match this iteration
			var in2 []Solution
			for _, sol := range in {
				if t := sol.Get(v); t == nil || rdf.TermsEqual(t, name) {
					in2 = append(in2, sol)
				}
			}
			if len(in2) == 0 {
				return nil
			}
			sols, err := e.withGraph(name).eval(gctx, gp.P, in2)
			if err != nil {
				return err
			}
			out := make([]Solution, 0, len(sols))
			for _, sol := range sols {
				if ext, ok := sol.with(v, name); ok {
					out = append(out, ext)
				}
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []Solution
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func (e *evaluator) evalTriple(ctx context.Context, tp TriplePattern, in []Solution) ([]Solution, error) {
	var out []Solution
	for _, sol := range in {
		var exts []Solution
		var err error
		if tp.Path != nil {
			exts, err = e.pathSolutions(ctx, tp, sol)
		} else {
			exts, err = e.tripleSolutions(tp, sol)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, exts...)
	}
	return out, nil
}

// resolveTerm substitutes the solution's binding for a variable; an unbound
// variable becomes a wildcard.
func resolveTerm(t rdf.Term, sol Solution) rdf.Term {
	if v, ok := AsVar(t); ok {
		return sol.Get(v)
	}
	return t
}

func (e *evaluator) tripleSolutions(tp TriplePattern, sol Solution) ([]Solution, error) {
	if err := e.budget.Step(); err != nil {
		return nil, err
	}
	sub := resolveTerm(tp.Subject, sol)
	pred := resolveTerm(tp.Predicate, sol)
	obj := resolveTerm(tp.Object, sol)
	var out []Solution
	for _, t := range e.Match(sub, pred, obj) {
		if ext, ok := bindTriple(sol, tp, t); ok {
			out = append(out, ext)
		}
	}
	return out, nil
}

// bindTriple extends a solution with the variable bindings a matched triple
// implies, rejecting it when the same variable would bind two terms.
func bindTriple(sol Solution, tp TriplePattern, t rdf.Triple) (Solution, bool) {
	ext := sol
	ok := true
	if v, isv := AsVar(tp.Subject); isv {
		if ext, ok = ext.with(v, t.Subject); !ok {
			return nil, false
		}
	}
	if tp.Path == nil {
		if v, isv := AsVar(tp.Predicate); isv {
			if ext, ok = ext.with(v, t.Predicate); !ok {
				return nil, false
			}
		}
	}
	if v, isv := AsVar(tp.Object); isv {
		if ext, ok = ext.with(v, t.Object); !ok {
			return nil, false
		}
	}
	return ext, true
}

func (e *evaluator) pathSolutions(ctx context.Context, tp TriplePattern, sol Solution) ([]Solution, error) {
	sub := resolveTerm(tp.Subject, sol)
	obj := resolveTerm(tp.Object, sol)

	switch {
	case sub != nil:
		reach, err := path.Eval(ctx, e, tp.Path, sub, path.Forward, e.budget)
		if err != nil {
			return nil, err
		}
		if obj != nil {
			for _, r := range reach {
				if rdf.TermsEqual(r, obj) {
					return []Solution{sol}, nil
				}
			}
			return nil, nil
		}
		v, _ := AsVar(tp.Object)
		var out []Solution
		for _, r := range reach {
			if ext, ok := sol.with(v, r); ok {
				out = append(out, ext)
			}
		}
		return out, nil

	case obj != nil:
		reach, err := path.Eval(ctx, e, tp.Path, obj, path.Reverse, e.budget)
		if err != nil {
			return nil, err
		}
		v, _ := AsVar(tp.Subject)
		var out []Solution
		for _, r := range reach {
			if ext, ok := sol.with(v, r); ok {
				out = append(out, ext)
			}
		}
		return out, nil

	default:
		// Both endpoints unbound: enumerate candidate starts from the first
		// atomic step, then traverse from each. May be the dominant cost.
		starts, err := path.Starts(ctx, e, tp.Path, path.Forward, e.budget)
		if err != nil {
			return nil, err
		}
		sv, _ := AsVar(tp.Subject)
		ov, _ := AsVar(tp.Object)
		var out []Solution
		for _, st := range starts {
			reach, err := path.Eval(ctx, e, tp.Path, st, path.Forward, e.budget)
			if err != nil {
				return nil, err
			}
			for _, r := range reach {
				ext, ok := sol.with(sv, st)
				if !ok {
					continue
				}
				if ext, ok = ext.with(ov, r); ok {
					out = append(out, ext)
				}
			}
		}
		return out, nil
	}
}
