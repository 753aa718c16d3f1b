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
	"github.com/owlmorph/owlmorph/query"
)

// Expression precedence: || < && < =,!= < ! < primary.

func (p *parser) parseExpr() (query.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWS()
		if !p.match("||") {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = query.Or{X: left, Y: right}
	}
}

func (p *parser) parseAnd() (query.Expr, error) {
	left, err := p.parseRel()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWS()
		if !p.match("&&") {
			return left, nil
		}
		right, err := p.parseRel()
		if err != nil {
			return nil, err
		}
		left = query.And{X: left, Y: right}
	}
}

func (p *parser) parseRel() (query.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	neg := false
	switch {
	case p.match("!="):
		neg = true
	case p.match("="):
	default:
		return left, nil
	}
	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return query.Eq{X: left, Y: right, Neg: neg}, nil
}

func (p *parser) parseUnary() (query.Expr, error) {
	p.skipWS()
	// a lone '!' negates; "!=" belongs to parseRel
	if p.peek() == '!' && !(p.pos+1 < len(p.input) && p.input[p.pos+1] == '=') {
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return query.Not{X: inner}, nil
	}
	return p.parsePrimaryExpr()
}

func (p *parser) parseArgList(min, max int) ([]query.Expr, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var args []query.Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.match(",") {
			continue
		}
		break
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	if len(args) < min || (max > 0 && len(args) > max) {
		return nil, p.errf("wrong number of arguments: got %d", len(args))
	}
	return args, nil
}

func (p *parser) parsePrimaryExpr() (query.Expr, error) {
	p.skipWS()
	if p.match("(") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return e, nil
	}

	switch {
	case p.matchKeyword("NOT"):
		if !p.matchKeyword("EXISTS") {
			return nil, p.errf("expected EXISTS after NOT")
		}
		g, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		return query.Exists{P: g, Not: true}, nil

	case p.matchKeyword("EXISTS"):
		g, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		return query.Exists{P: g}, nil

	case p.matchKeyword("BOUND"):
		if err := p.expect("("); err != nil {
			return nil, err
		}
		v, err := p.parseVar()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return query.Bound{V: v}, nil

	case p.matchKeyword("REGEX"):
		args, err := p.parseArgList(2, 3)
		if err != nil {
			return nil, err
		}
		re := query.Regex{Arg: args[0], Pattern: args[1]}
		if len(args) == 3 {
			re.Flags = args[2]
		}
		return re, nil

	case p.matchKeyword("ISURI"), p.matchKeyword("ISIRI"):
		args, err := p.parseArgList(1, 1)
		if err != nil {
			return nil, err
		}
		return query.Kind{Arg: args[0], K: query.KindIRI}, nil

	case p.matchKeyword("ISBLANK"):
		args, err := p.parseArgList(1, 1)
		if err != nil {
			return nil, err
		}
		return query.Kind{Arg: args[0], K: query.KindBlank}, nil

	case p.matchKeyword("ISLITERAL"):
		args, err := p.parseArgList(1, 1)
		if err != nil {
			return nil, err
		}
		return query.Kind{Arg: args[0], K: query.KindLiteral}, nil

	case p.matchKeyword("CONCAT"):
		args, err := p.parseArgList(1, 0)
		if err != nil {
			return nil, err
		}
		return query.Concat{Args: args}, nil

	case p.matchKeyword("STRAFTER"):
		args, err := p.parseArgList(2, 2)
		if err != nil {
			return nil, err
		}
		return query.StrAfter{X: args[0], Y: args[1]}, nil

	case p.matchKeyword("STRBEFORE"):
		args, err := p.parseArgList(2, 2)
		if err != nil {
			return nil, err
		}
		return query.StrBefore{X: args[0], Y: args[1]}, nil

	case p.matchKeyword("STR"):
		args, err := p.parseArgList(1, 1)
		if err != nil {
			return nil, err
		}
		return query.Str{X: args[0]}, nil

	case p.matchKeyword("URI"), p.matchKeyword("IRI"):
		args, err := p.parseArgList(1, 1)
		if err != nil {
			return nil, err
		}
		return query.URI{X: args[0]}, nil

	case p.matchKeyword("IF"):
		args, err := p.parseArgList(3, 3)
		if err != nil {
			return nil, err
		}
		return query.If{Cond: args[0], Then: args[1], Else: args[2]}, nil

	case p.matchKeyword("CONTROLLED"):
		args, err := p.parseArgList(2, 2)
		if err != nil {
			return nil, err
		}
		return query.Controlled{Graph: args[0], Tag: args[1]}, nil

	case p.matchKeyword("COUNT"):
		if err := p.expect("("); err != nil {
			return nil, err
		}
		if p.match("*") {
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return query.Count{Star: true}, nil
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return query.Count{Arg: e}, nil
	}

	t, err := p.parseVarOrTerm()
	if err != nil {
		return nil, err
	}
	return query.TermExpr{T: t}, nil
}
