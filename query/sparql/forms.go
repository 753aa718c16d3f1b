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

package sparql

import (
	"strconv"

	"github.com/owlmorph/owlmorph/query"
	"github.com/owlmorph/owlmorph/rdf"
)

func (p *parser) parseSelect() (*query.SelectQuery, error) {
	q := &query.SelectQuery{}
	if p.matchKeyword("DISTINCT") {
		q.Distinct = true
	}
	if p.match("*") {
		q.Star = true
	} else {
		for {
			p.skipWS()
			switch c := p.peek(); {
			case c == '?' || c == '$':
				v, err := p.parseVar()
				if err != nil {
					return nil, err
				}
				q.Items = append(q.Items, query.SelectItem{E: query.TermExpr{T: v}})
			case c == '(':
				p.pos++
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				if !p.matchKeyword("AS") {
					return nil, p.errf("expected AS in projection expression")
				}
				v, err := p.parseVar()
				if err != nil {
					return nil, err
				}
				if err := p.expect(")"); err != nil {
					return nil, err
				}
				q.Items = append(q.Items, query.SelectItem{E: e, As: v})
			default:
				if len(q.Items) == 0 {
					return nil, p.errf("SELECT needs * or at least one projection")
				}
				goto where
			}
		}
	}
where:
	p.matchKeyword("WHERE")
	wh, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	q.Where = wh

	if p.matchKeyword("GROUP") {
		if !p.matchKeyword("BY") {
			return nil, p.errf("expected BY after GROUP")
		}
		for {
			e, ok, err := p.parseGroupCondition()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			q.GroupBy = append(q.GroupBy, e)
		}
		if len(q.GroupBy) == 0 {
			return nil, p.errf("GROUP BY needs at least one grouping expression")
		}
	}
	if p.matchKeyword("ORDER") {
		if !p.matchKeyword("BY") {
			return nil, p.errf("expected BY after ORDER")
		}
		for {
			k, ok, err := p.parseOrderKey()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			q.OrderBy = append(q.OrderBy, k)
		}
		if len(q.OrderBy) == 0 {
			return nil, p.errf("ORDER BY needs at least one sort key")
		}
	}
	if p.matchKeyword("LIMIT") {
		p.skipWS()
		start := p.pos
		for !p.eof() && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
			p.pos++
		}
		if p.pos == start {
			return nil, p.errf("expected integer after LIMIT")
		}
		n, err := strconv.Atoi(p.input[start:p.pos])
		if err != nil || n < 0 {
			return nil, p.errf("bad LIMIT value")
		}
		q.Limit = n
	}
	return q, nil
}

func (p *parser) parseGroupCondition() (query.Expr, bool, error) {
	p.skipWS()
	switch c := p.peek(); {
	case c == '?' || c == '$':
		v, err := p.parseVar()
		if err != nil {
			return nil, false, err
		}
		return query.TermExpr{T: v}, true, nil
	case c == '(':
		p.pos++
		e, err := p.parseExpr()
		if err != nil {
			return nil, false, err
		}
		if err := p.expect(")"); err != nil {
			return nil, false, err
		}
		return e, true, nil
	default:
		for _, kw := range []string{"STRAFTER", "STRBEFORE", "CONCAT", "STR", "URI", "IRI", "IF"} {
			if p.hasKeyword(kw) {
				e, err := p.parsePrimaryExpr()
				if err != nil {
					return nil, false, err
				}
				return e, true, nil
			}
		}
		return nil, false, nil
	}
}

func (p *parser) parseOrderKey() (query.OrderKey, bool, error) {
	switch {
	case p.matchKeyword("ASC"):
		if err := p.expect("("); err != nil {
			return query.OrderKey{}, false, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return query.OrderKey{}, false, err
		}
		if err := p.expect(")"); err != nil {
			return query.OrderKey{}, false, err
		}
		return query.OrderKey{E: e}, true, nil
	case p.matchKeyword("DESC"):
		if err := p.expect("("); err != nil {
			return query.OrderKey{}, false, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return query.OrderKey{}, false, err
		}
		if err := p.expect(")"); err != nil {
			return query.OrderKey{}, false, err
		}
		return query.OrderKey{E: e, Desc: true}, true, nil
	}
	p.skipWS()
	switch c := p.peek(); {
	case c == '?' || c == '$':
		v, err := p.parseVar()
		if err != nil {
			return query.OrderKey{}, false, err
		}
		return query.OrderKey{E: query.TermExpr{T: v}}, true, nil
	case c == '(':
		p.pos++
		e, err := p.parseExpr()
		if err != nil {
			return query.OrderKey{}, false, err
		}
		if err := p.expect(")"); err != nil {
			return query.OrderKey{}, false, err
		}
		return query.OrderKey{E: e}, true, nil
	}
	return query.OrderKey{}, false, nil
}

func (p *parser) parseConstruct() (*query.ConstructQuery, error) {
	tpl, err := p.parseTemplate()
	if err != nil {
		return nil, err
	}
	if !p.matchKeyword("WHERE") {
		return nil, p.errf("expected WHERE after CONSTRUCT template")
	}
	wh, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	return &query.ConstructQuery{Template: tpl, Where: wh}, nil
}

// parseInsert handles both INSERT DATA { ... } and INSERT { ... } WHERE
// { ... }. A GRAPH block in the template names the target graph and
// overrides a preceding WITH clause.
func (p *parser) parseInsert(with rdf.Term) (*query.InsertQuery, error) {
	data := p.matchKeyword("DATA")
	graphName, tpl, err := p.parseInsertTemplate()
	if err != nil {
		return nil, err
	}
	if graphName == nil {
		graphName = with
	}
	q := &query.InsertQuery{Graph: graphName, Template: tpl}
	if data {
		q.Where = query.Group{}
		return q, nil
	}
	if !p.matchKeyword("WHERE") {
		return nil, p.errf("expected WHERE after INSERT template")
	}
	wh, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	q.Where = wh
	return q, nil
}

func (p *parser) parseInsertTemplate() (rdf.Term, []query.TriplePattern, error) {
	if err := p.expect("{"); err != nil {
		return nil, nil, err
	}
	if p.matchKeyword("GRAPH") {
		name, err := p.parseIRITerm()
		if err != nil {
			return nil, nil, err
		}
		tpl, err := p.parseTemplateBody()
		if err != nil {
			return nil, nil, err
		}
		if err := p.expect("}"); err != nil {
			return nil, nil, err
		}
		return name, tpl, nil
	}
	var tpl []query.TriplePattern
	for {
		p.skipWS()
		if p.match("}") {
			return nil, tpl, nil
		}
		if p.eof() {
			return nil, nil, p.errf("unterminated template")
		}
		ts, err := p.parseTriplesStatement(true)
		if err != nil {
			return nil, nil, err
		}
		tpl = append(tpl, ts...)
	}
}

func (p *parser) parseTemplate() ([]query.TriplePattern, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	var tpl []query.TriplePattern
	for {
		p.skipWS()
		if p.match("}") {
			return tpl, nil
		}
		if p.eof() {
			return nil, p.errf("unterminated template")
		}
		ts, err := p.parseTriplesStatement(true)
		if err != nil {
			return nil, err
		}
		tpl = append(tpl, ts...)
	}
}

// parseTemplateBody is parseTemplate for a nested block.
func (p *parser) parseTemplateBody() ([]query.TriplePattern, error) {
	return p.parseTemplate()
}

// parseGroup parses a braced group pattern.
func (p *parser) parseGroup() (query.Pattern, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	var g query.Group
	for {
		p.skipWS()
		if p.match("}") {
			return g, nil
		}
		if p.eof() {
			return nil, p.errf("unterminated group pattern")
		}
		switch {
		case p.matchKeyword("OPTIONAL"):
			inner, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			g = append(g, query.Optional{X: inner})

		case p.matchKeyword("GRAPH"):
			var name rdf.Term
			p.skipWS()
			if c := p.peek(); c == '?' || c == '$' {
				v, err := p.parseVar()
				if err != nil {
					return nil, err
				}
				name = v
			} else {
				iri, err := p.parseIRITerm()
				if err != nil {
					return nil, err
				}
				name = iri
			}
			inner, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			g = append(g, query.GraphPattern{Name: name, P: inner})

		case p.matchKeyword("FILTER"):
			e, err := p.parseConstraint()
			if err != nil {
				return nil, err
			}
			g = append(g, query.Filter{E: e})

		case p.matchKeyword("BIND"):
			if err := p.expect("("); err != nil {
				return nil, err
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if !p.matchKeyword("AS") {
				return nil, p.errf("expected AS in BIND")
			}
			v, err := p.parseVar()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			g = append(g, query.Bind{E: e, V: v})

		default:
			p.skipWS()
			if p.peek() == '{' {
				pat, err := p.parseGroupOrUnion()
				if err != nil {
					return nil, err
				}
				g = append(g, pat)
			} else {
				ts, err := p.parseTriplesStatement(false)
				if err != nil {
					return nil, err
				}
				for _, t := range ts {
					g = append(g, t)
				}
			}
		}
		p.match(".")
	}
}

// parseGroupOrUnion parses { ... } UNION { ... } chains; UNION
// left-associates.
func (p *parser) parseGroupOrUnion() (query.Pattern, error) {
	left, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	for p.matchKeyword("UNION") {
		right, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		left = query.Union{X: left, Y: right}
	}
	return left, nil
}

// parseConstraint parses a FILTER argument: a bracketed expression, a bare
// function call, or (NOT) EXISTS.
func (p *parser) parseConstraint() (query.Expr, error) {
	return p.parsePrimaryExpr()
}
