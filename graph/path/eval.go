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
	"sort"

	"github.com/cayleygraph/quad"

	"github.com/owlmorph/owlmorph/rdf"
)

// Matcher is the graph lookup a traversal runs against; a nil term is a
// wildcard. graph.Graph and graph-scoped store adapters satisfy it.
type Matcher interface {
	Match(sub, pred, obj rdf.Term) []rdf.Triple
}

// Eval returns the set of terms reachable from start along p in the given
// direction, deduplicated and in deterministic order.
func Eval(ctx context.Context, m Matcher, p Path, start rdf.Term, dir Direction, b *Budget) ([]rdf.Term, error) {
	set, err := eval(ctx, m, p, start, dir, b)
	if err != nil {
		return nil, err
	}
	return sortedTerms(set), nil
}

// Starts enumerates the candidate start terms for evaluating p with an
// unbound start endpoint: every term present in the start position of the
// path's first atomic step.
func Starts(ctx context.Context, m Matcher, p Path, dir Direction, b *Budget) ([]rdf.Term, error) {
	set, err := starts(ctx, m, p, dir, b)
	if err != nil {
		return nil, err
	}
	return sortedTerms(set), nil
}

type termSet map[string]rdf.Term

func (s termSet) add(t rdf.Term) bool {
	k := t.String()
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = t
	return true
}

func (s termSet) merge(o termSet) {
	for k, v := range o {
		s[k] = v
	}
}

func sortedTerms(s termSet) []rdf.Term {
	out := make([]rdf.Term, 0, len(s))
	for _, t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return rdf.CompareTerms(out[i], out[j]) < 0
	})
	return out
}

func eval(ctx context.Context, m Matcher, p Path, start rdf.Term, dir Direction, b *Budget) (termSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch p := p.(type) {
	case Edge:
		if err := b.Step(); err != nil {
			return nil, err
		}
		out := make(termSet)
		if dir == Forward {
			for _, t := range m.Match(start, quad.IRI(p), nil) {
				out.add(t.Object)
			}
		} else {
			for _, t := range m.Match(nil, quad.IRI(p), start) {
				out.add(t.Subject)
			}
		}
		return out, nil

	case Sequence:
		first, second := p.X, p.Y
		if dir == Reverse {
			first, second = p.Y, p.X
		}
		mids, err := eval(ctx, m, first, start, dir, b)
		if err != nil {
			return nil, err
		}
		out := make(termSet)
		for _, mid := range mids {
			ends, err := eval(ctx, m, second, mid, dir, b)
			if err != nil {
				return nil, err
			}
			out.merge(ends)
		}
		return out, nil

	case Alternation:
		out, err := eval(ctx, m, p.X, start, dir, b)
		if err != nil {
			return nil, err
		}
		more, err := eval(ctx, m, p.Y, start, dir, b)
		if err != nil {
			return nil, err
		}
		out.merge(more)
		return out, nil

	case Inverse:
		return eval(ctx, m, p.X, start, dir.Flip(), b)

	case ZeroOrMore:
		// BFS with a visited set: each node is expanded at most once, so the
		// traversal terminates on cyclic graphs. Zero steps means the start
		// term itself is always included.
		visited := make(termSet)
		visited.add(start)
		queue := []rdf.Term{start}
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			next, err := eval(ctx, m, p.X, node, dir, b)
			if err != nil {
				return nil, err
			}
			for _, n := range sortedTerms(next) {
				if visited.add(n) {
					queue = append(queue, n)
				}
			}
		}
		return visited, nil
	}
	return nil, nil
}

func starts(ctx context.Context, m Matcher, p Path, dir Direction, b *Budget) (termSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch p := p.(type) {
	case Edge:
		if err := b.Step(); err != nil {
			return nil, err
		}
		out := make(termSet)
		for _, t := range m.Match(nil, quad.IRI(p), nil) {
			if dir == Forward {
				out.add(t.Subject)
			} else {
				out.add(t.Object)
			}
		}
		return out, nil

	case Sequence:
		if dir == Forward {
			return starts(ctx, m, p.X, dir, b)
		}
		return starts(ctx, m, p.Y, dir, b)

	case Alternation:
		out, err := starts(ctx, m, p.X, dir, b)
		if err != nil {
			return nil, err
		}
		more, err := starts(ctx, m, p.Y, dir, b)
		if err != nil {
			return nil, err
		}
		out.merge(more)
		return out, nil

	case Inverse:
		return starts(ctx, m, p.X, dir.Flip(), b)

	case ZeroOrMore:
		// Zero applications make either endpoint of the inner step a valid
		// start, so both positions are enumerated.
		out, err := starts(ctx, m, p.X, dir, b)
		if err != nil {
			return nil, err
		}
		more, err := starts(ctx, m, p.X, dir.Flip(), b)
		if err != nil {
			return nil, err
		}
		out.merge(more)
		return out, nil
	}
	return nil, nil
}
