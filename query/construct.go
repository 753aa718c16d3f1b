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
	"fmt"
	"sync/atomic"

	"github.com/cayleygraph/quad"

	"github.com/owlmorph/owlmorph/clog"
	"github.com/owlmorph/owlmorph/rdf"
)

func (e *evaluator) constructQuery(ctx context.Context, q *ConstructQuery) (*Triples, error) {
	sols, err := e.eval(ctx, q.Where, []Solution{{}})
	if err != nil {
		return nil, err
	}
	return &Triples{Triples: instantiate(q.Template, sols)}, nil
}

func (e *evaluator) insertQuery(ctx context.Context, q *InsertQuery) (*Mutation, error) {
	sols, err := e.eval(ctx, q.Where, []Solution{{}})
	if err != nil {
		// no partial mutation: the template is only instantiated and
		// committed after matching succeeded in full
		return nil, err
	}
	ts := instantiate(q.Template, sols)
	added := e.store.Insert(q.Graph, ts)
	if clog.V(1) {
		clog.Infof("insert: %d instantiated, %d added", len(ts), added)
	}
	return &Mutation{Added: added}, nil
}

// bnodeSeq distinguishes minted labels across queries, so an instantiated
// blank node never collides with one already stored in the target graph.
var bnodeSeq int64

// instantiate fills the template once per solution, deduplicating the
// result (set semantics). Blank-node labels in the template are realized
// fresh per solution; the same label within one solution resolves to the
// same fresh node.
func instantiate(template []TriplePattern, sols []Solution) []rdf.Triple {
	var out []rdf.Triple
	seen := make(map[string]bool)
	seq := atomic.AddInt64(&bnodeSeq, 1)
	next := 0
	for _, sol := range sols {
		fresh := make(map[quad.BNode]quad.BNode)
		for _, tpl := range template {
			t, ok := instantiateTriple(tpl, sol, fresh, seq, &next)
			if !ok {
				continue
			}
			if k := t.String(); !seen[k] {
				seen[k] = true
				out = append(out, t)
			}
		}
	}
	rdf.SortTriples(out)
	return out
}

// instantiateTriple substitutes one template triple. A triple referencing a
// variable unbound in the solution is dropped, not an error; so is a
// substitution yielding an invalid triple (e.g. a literal subject).
func instantiateTriple(tpl TriplePattern, sol Solution, fresh map[quad.BNode]quad.BNode, seq int64, next *int) (rdf.Triple, bool) {
	resolve := func(t rdf.Term) (rdf.Term, bool) {
		if v, ok := AsVar(t); ok {
			b := sol.Get(v)
			return b, b != nil
		}
		if bn, ok := t.(quad.BNode); ok {
			nb, ok := fresh[bn]
			if !ok {
				nb = quad.BNode(fmt.Sprintf("q%db%d", seq, *next))
				*next++
				fresh[bn] = nb
			}
			return nb, true
		}
		return t, true
	}

	sub, ok := resolve(tpl.Subject)
	if !ok {
		return rdf.Triple{}, false
	}
	pred, ok := resolve(tpl.Predicate)
	if !ok {
		return rdf.Triple{}, false
	}
	obj, ok := resolve(tpl.Object)
	if !ok {
		return rdf.Triple{}, false
	}
	t := rdf.Triple{Subject: sub, Predicate: pred, Object: obj}
	if !t.Valid() {
		if clog.V(2) {
			clog.Infof("dropping invalid instantiated triple %v", t)
		}
		return rdf.Triple{}, false
	}
	return t, true
}
