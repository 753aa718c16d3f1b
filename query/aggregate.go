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
	"sort"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/owlmorph/owlmorph/rdf"
)

func (e *evaluator) selectQuery(ctx context.Context, q *SelectQuery) (*Rows, error) {
	sols, err := e.eval(ctx, q.Where, []Solution{{}})
	if err != nil {
		return nil, err
	}

	items := q.Items
	if q.Star {
		for _, v := range Vars(q.Where) {
			items = append(items, SelectItem{E: TermExpr{T: v}})
		}
	}
	columns := make([]string, len(items))
	for i, it := range items {
		columns[i] = it.Name()
	}

	hasAgg := false
	for _, it := range items {
		if _, ok := it.E.(Count); ok {
			hasAgg = true
		}
	}

	var rows []Row
	if len(q.GroupBy) > 0 || hasAgg {
		rows, err = e.groupRows(ctx, q, items, columns, sols)
	} else {
		rows, err = e.plainRows(ctx, items, columns, sols)
	}
	if err != nil {
		return nil, err
	}

	if q.Distinct {
		rows = distinctRows(columns, rows)
	}
	if len(q.OrderBy) > 0 {
		if err := e.orderRows(ctx, q.OrderBy, rows); err != nil {
			return nil, err
		}
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return &Rows{Columns: columns, Rows: rows}, nil
}

func (e *evaluator) plainRows(ctx context.Context, items []SelectItem, columns []string, sols []Solution) ([]Row, error) {
	rows := make([]Row, 0, len(sols))
	for _, sol := range sols {
		row := make(Row, len(items))
		for i, it := range items {
			t, err := e.evalExpr(ctx, it.E, sol)
			if err != nil {
				if isFatal(err) {
					return nil, err
				}
				continue // column stays unbound in this row
			}
			row[columns[i]] = t
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (e *evaluator) groupRows(ctx context.Context, q *SelectQuery, items []SelectItem, columns []string, sols []Solution) ([]Row, error) {
	type group struct {
		first Solution
		sols  []Solution
	}
	groups := make(map[string]*group)
	var order []string

	for _, sol := range sols {
		var kb strings.Builder
		for _, ge := range q.GroupBy {
			t, err := e.evalExpr(ctx, ge, sol)
			if err != nil {
				if isFatal(err) {
					return nil, err
				}
				kb.WriteByte(0)
			} else {
				kb.WriteString(t.String())
			}
			kb.WriteByte(0x1f)
		}
		k := kb.String()
		g, ok := groups[k]
		if !ok {
			g = &group{first: sol}
			groups[k] = g
			order = append(order, k)
		}
		g.sols = append(g.sols, sol)
	}

	// an aggregate query with no GROUP BY is one group over all solutions,
	// present even when empty so COUNT(*) reports zero
	if len(q.GroupBy) == 0 && len(order) == 0 {
		groups[""] = &group{first: Solution{}}
		order = append(order, "")
	}

	rows := make([]Row, 0, len(order))
	for _, k := range order {
		g := groups[k]
		row := make(Row, len(items))
		for i, it := range items {
			if cnt, ok := it.E.(Count); ok {
				n := 0
				if cnt.Star {
					n = len(g.sols)
				} else {
					for _, sol := range g.sols {
						if _, err := e.evalExpr(ctx, cnt.Arg, sol); err == nil {
							n++
						} else if isFatal(err) {
							return nil, err
						}
					}
				}
				row[columns[i]] = quad.Int(n)
				continue
			}
			// non-aggregate items are constant within a group
			t, err := e.evalExpr(ctx, it.E, g.first)
			if err != nil {
				if isFatal(err) {
					return nil, err
				}
				continue
			}
			row[columns[i]] = t
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func distinctRows(columns []string, rows []Row) []Row {
	seen := make(map[string]bool, len(rows))
	out := rows[:0]
	for _, row := range rows {
		var kb strings.Builder
		for _, c := range columns {
			if t := row[c]; t != nil {
				kb.WriteString(t.String())
			}
			kb.WriteByte(0x1f)
		}
		k := kb.String()
		if !seen[k] {
			seen[k] = true
			out = append(out, row)
		}
	}
	return out
}

// rowSolution lets ORDER BY expressions reference projected columns.
func rowSolution(row Row) Solution {
	sol := make(Solution, len(row))
	for c, t := range row {
		sol[Var(c)] = t
	}
	return sol
}

func (e *evaluator) orderRows(ctx context.Context, keys []OrderKey, rows []Row) error {
	type keyed struct {
		row   Row
		terms []rdf.Term
	}
	cache := make([]keyed, len(rows))
	for i, row := range rows {
		sol := rowSolution(row)
		terms := make([]rdf.Term, len(keys))
		for j, k := range keys {
			t, err := e.evalExpr(ctx, k.E, sol)
			if err != nil {
				if isFatal(err) {
					return err
				}
				continue // nil sorts first
			}
			terms[j] = t
		}
		cache[i] = keyed{row: row, terms: terms}
	}
	sort.SliceStable(cache, func(a, b int) bool {
		for j, k := range keys {
			c := compareOrder(cache[a].terms[j], cache[b].terms[j])
			if k.Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	for i := range cache {
		rows[i] = cache[i].row
	}
	return nil
}

// compareOrder sorts counts numerically and everything else by term order.
func compareOrder(a, b rdf.Term) int {
	ia, aok := a.(quad.Int)
	ib, bok := b.(quad.Int)
	if aok && bok {
		switch {
		case ia < ib:
			return -1
		case ia > ib:
			return 1
		}
		return 0
	}
	return rdf.CompareTerms(a, b)
}
