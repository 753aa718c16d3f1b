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

// Package sparql parses query text into the query AST. It covers the three
// execution forms (SELECT, CONSTRUCT, INSERT) with property paths, UNION,
// OPTIONAL, GRAPH, FILTER and BIND.
//
// Prefixed names are resolved at parse time against the query's PREFIX
// declarations layered over the supplied namespace table; an unresolvable
// prefix rejects the query before any evaluation.
package sparql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/owlmorph/owlmorph/graph/path"
	"github.com/owlmorph/owlmorph/query"
	"github.com/owlmorph/owlmorph/rdf"
	"github.com/owlmorph/owlmorph/voc"
	rdfvoc "github.com/owlmorph/owlmorph/voc/rdf"
	"github.com/owlmorph/owlmorph/voc/xsd"
)

// SyntaxError reports a malformed query with its position.
type SyntaxError struct {
	Line, Col int
	Msg       string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("sparql: %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parse parses query text, resolving prefixed names against ns (which may
// be nil to use only globally registered vocabularies).
func Parse(text string, ns *voc.Namespaces) (*query.Query, error) {
	p := &parser{input: text, ns: ns, prefixes: make(map[string]string)}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	return q, nil
}

type parser struct {
	input    string
	pos      int
	ns       *voc.Namespaces
	prefixes map[string]string // query-local PREFIX declarations
	base     string
}

func (p *parser) errf(format string, args ...interface{}) error {
	line, col := 1, 1
	for _, r := range p.input[:p.pos] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool { return p.pos >= len(p.input) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipWS() {
	for !p.eof() {
		c := p.input[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '#':
			for !p.eof() && p.input[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func isIdent(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// matchKeyword consumes a case-insensitive keyword. A following ':' or '-'
// means the word is really a prefixed name, not a keyword.
func (p *parser) matchKeyword(kw string) bool {
	p.skipWS()
	end := p.pos + len(kw)
	if end > len(p.input) {
		return false
	}
	if !strings.EqualFold(p.input[p.pos:end], kw) {
		return false
	}
	if end < len(p.input) {
		c := p.input[end]
		if isIdent(c) || c == ':' || c == '-' {
			return false
		}
	}
	p.pos = end
	return true
}

func (p *parser) hasKeyword(kw string) bool {
	save := p.pos
	ok := p.matchKeyword(kw)
	p.pos = save
	return ok
}

func (p *parser) match(tok string) bool {
	p.skipWS()
	if strings.HasPrefix(p.input[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *parser) expect(tok string) error {
	if !p.match(tok) {
		return p.errf("expected %q", tok)
	}
	return nil
}

func (p *parser) parseQuery() (*query.Query, error) {
	for {
		switch {
		case p.matchKeyword("PREFIX"):
			if err := p.parsePrefixDecl(); err != nil {
				return nil, err
			}
		case p.matchKeyword("BASE"):
			iri, err := p.parseIRIRef()
			if err != nil {
				return nil, err
			}
			p.base = string(iri)
		default:
			goto decls
		}
	}
decls:
	var with rdf.Term
	if p.matchKeyword("WITH") {
		iri, err := p.parseIRITerm()
		if err != nil {
			return nil, err
		}
		with = iri
	}

	var q query.Query
	switch {
	case p.matchKeyword("SELECT"):
		if with != nil {
			return nil, p.errf("WITH is only valid before INSERT")
		}
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		q.Select = sel
	case p.matchKeyword("CONSTRUCT"):
		if with != nil {
			return nil, p.errf("WITH is only valid before INSERT")
		}
		con, err := p.parseConstruct()
		if err != nil {
			return nil, err
		}
		q.Construct = con
	case p.matchKeyword("INSERT"):
		ins, err := p.parseInsert(with)
		if err != nil {
			return nil, err
		}
		q.Insert = ins
	default:
		return nil, p.errf("expected SELECT, CONSTRUCT or INSERT")
	}

	p.skipWS()
	if !p.eof() {
		return nil, p.errf("unexpected input after query")
	}
	return &q, nil
}

func (p *parser) parsePrefixDecl() error {
	p.skipWS()
	start := p.pos
	for !p.eof() && p.input[p.pos] != ':' {
		c := p.input[p.pos]
		if !isIdent(c) && c != '-' && c != '.' {
			break
		}
		p.pos++
	}
	pref := p.input[start:p.pos]
	if err := p.expect(":"); err != nil {
		return err
	}
	iri, err := p.parseIRIRef()
	if err != nil {
		return err
	}
	p.prefixes[pref] = string(iri)
	return nil
}

func (p *parser) parseIRIRef() (quad.IRI, error) {
	p.skipWS()
	if p.peek() != '<' {
		return "", p.errf("expected <IRI>")
	}
	p.pos++
	start := p.pos
	for !p.eof() && p.input[p.pos] != '>' {
		p.pos++
	}
	if p.eof() {
		return "", p.errf("unterminated IRI")
	}
	iri := p.input[start:p.pos]
	p.pos++
	if p.base != "" && !strings.Contains(iri, ":") {
		iri = p.base + iri
	}
	return quad.IRI(iri), nil
}

// expand resolves a prefixed name. Local PREFIX declarations shadow the
// supplied namespace table; an unknown prefix fails the bind.
func (p *parser) expand(pref, local string) (quad.IRI, error) {
	if base, ok := p.prefixes[pref]; ok {
		return quad.IRI(base + local), nil
	}
	if base, ok := p.ns.Resolve(pref); ok {
		return quad.IRI(base + local), nil
	}
	return "", &voc.UnknownPrefixError{Prefix: pref}
}

func isLocalChar(c byte) bool { return isIdent(c) || c == '-' }

// parsePrefixedName parses pn:local. The caller has checked the input
// starts with a name character or ':'.
func (p *parser) parsePrefixedName() (quad.IRI, error) {
	start := p.pos
	for !p.eof() && isLocalChar(p.input[p.pos]) {
		p.pos++
	}
	if p.eof() || p.input[p.pos] != ':' {
		p.pos = start
		return "", p.errf("expected prefixed name")
	}
	pref := p.input[start:p.pos]
	p.pos++
	lstart := p.pos
	for !p.eof() {
		c := p.input[p.pos]
		if isLocalChar(c) {
			p.pos++
			continue
		}
		// dots are allowed inside a local name but a trailing dot ends the
		// statement instead
		if c == '.' && p.pos+1 < len(p.input) && isLocalChar(p.input[p.pos+1]) {
			p.pos++
			continue
		}
		break
	}
	return p.expand(pref, p.input[lstart:p.pos])
}

func (p *parser) parseVar() (query.Var, error) {
	p.skipWS()
	c := p.peek()
	if c != '?' && c != '$' {
		return "", p.errf("expected variable")
	}
	p.pos++
	start := p.pos
	for !p.eof() && isIdent(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errf("empty variable name")
	}
	return query.Var(p.input[start:p.pos]), nil
}

func (p *parser) parseLiteral() (rdf.Term, error) {
	if err := p.expect(`"`); err != nil {
		return nil, err
	}
	var b strings.Builder
	for {
		if p.eof() {
			return nil, p.errf("unterminated string literal")
		}
		c := p.input[p.pos]
		p.pos++
		switch c {
		case '"':
			goto done
		case '\\':
			if p.eof() {
				return nil, p.errf("unterminated escape")
			}
			e := p.input[p.pos]
			p.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"', '\\':
				b.WriteByte(e)
			default:
				return nil, p.errf("unknown escape \\%c", e)
			}
		default:
			b.WriteByte(c)
		}
	}
done:
	val := b.String()
	if !p.eof() && p.input[p.pos] == '@' {
		p.pos++
		start := p.pos
		for !p.eof() && (isIdent(p.input[p.pos]) || p.input[p.pos] == '-') {
			p.pos++
		}
		if p.pos == start {
			return nil, p.errf("empty language tag")
		}
		return quad.LangString{Value: quad.String(val), Lang: p.input[start:p.pos]}, nil
	}
	if strings.HasPrefix(p.input[p.pos:], "^^") {
		p.pos += 2
		var dt quad.IRI
		var err error
		if p.peek() == '<' {
			dt, err = p.parseIRIRef()
		} else {
			dt, err = p.parsePrefixedName()
		}
		if err != nil {
			return nil, err
		}
		// well-known datatypes collapse to native values so that query
		// literals compare equal to loaded data
		switch dt {
		case xsd.Boolean:
			return quad.Bool(val == "true" || val == "1"), nil
		case xsd.Integer:
			if n, err := strconv.ParseInt(val, 10, 64); err == nil {
				return quad.Int(n), nil
			}
		}
		return quad.TypedString{Value: quad.String(val), Type: dt}, nil
	}
	return quad.String(val), nil
}

func (p *parser) parseNumber() (rdf.Term, error) {
	start := p.pos
	if c := p.peek(); c == '+' || c == '-' {
		p.pos++
	}
	digits := false
	float := false
	for !p.eof() {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			digits = true
			p.pos++
			continue
		}
		if c == '.' && !float && p.pos+1 < len(p.input) &&
			p.input[p.pos+1] >= '0' && p.input[p.pos+1] <= '9' {
			float = true
			p.pos++
			continue
		}
		break
	}
	if !digits {
		p.pos = start
		return nil, p.errf("expected number")
	}
	text := p.input[start:p.pos]
	if float {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errf("bad numeric literal %q", text)
		}
		return quad.Float(f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errf("bad numeric literal %q", text)
	}
	return quad.Int(n), nil
}

// parseVarOrTerm parses a subject or object position.
func (p *parser) parseVarOrTerm() (rdf.Term, error) {
	p.skipWS()
	switch c := p.peek(); {
	case c == '?' || c == '$':
		return p.parseVar()
	case c == '<':
		iri, err := p.parseIRIRef()
		return iri, err
	case c == '"':
		return p.parseLiteral()
	case c == '_':
		if strings.HasPrefix(p.input[p.pos:], "_:") {
			p.pos += 2
			start := p.pos
			for !p.eof() && isLocalChar(p.input[p.pos]) {
				p.pos++
			}
			if p.pos == start {
				return nil, p.errf("empty blank node label")
			}
			return quad.BNode(p.input[start:p.pos]), nil
		}
		return p.parsePrefixedName()
	case c >= '0' && c <= '9' || c == '+' || c == '-':
		return p.parseNumber()
	default:
		if p.matchKeyword("true") {
			return quad.Bool(true), nil
		}
		if p.matchKeyword("false") {
			return quad.Bool(false), nil
		}
		return p.parsePrefixedName()
	}
}

// parseIRITerm parses an IRI or prefixed name.
func (p *parser) parseIRITerm() (quad.IRI, error) {
	p.skipWS()
	if p.peek() == '<' {
		return p.parseIRIRef()
	}
	return p.parsePrefixedName()
}

// parseVerb parses the predicate position: a variable, rdf:type via "a",
// or a property path. A single-edge path collapses to a plain predicate.
func (p *parser) parseVerb(inTemplate bool) (rdf.Term, path.Path, error) {
	p.skipWS()
	if c := p.peek(); c == '?' || c == '$' {
		v, err := p.parseVar()
		return v, nil, err
	}
	pp, err := p.parsePathAlt()
	if err != nil {
		return nil, nil, err
	}
	if e, ok := pp.(path.Edge); ok {
		return quad.IRI(e), nil, nil
	}
	if inTemplate {
		return nil, nil, p.errf("property path %s is not allowed in a template", pp)
	}
	return nil, pp, nil
}

func (p *parser) parsePathAlt() (path.Path, error) {
	left, err := p.parsePathSeq()
	if err != nil {
		return nil, err
	}
	for p.match("|") {
		right, err := p.parsePathSeq()
		if err != nil {
			return nil, err
		}
		left = path.Alternation{X: left, Y: right}
	}
	return left, nil
}

func (p *parser) parsePathSeq() (path.Path, error) {
	left, err := p.parsePathElt()
	if err != nil {
		return nil, err
	}
	for p.match("/") {
		right, err := p.parsePathElt()
		if err != nil {
			return nil, err
		}
		left = path.Sequence{X: left, Y: right}
	}
	return left, nil
}

func (p *parser) parsePathElt() (path.Path, error) {
	p.skipWS()
	if p.match("^") {
		inner, err := p.parsePathElt()
		if err != nil {
			return nil, err
		}
		return path.Inverse{X: inner}, nil
	}
	var elt path.Path
	if p.match("(") {
		inner, err := p.parsePathAlt()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		elt = inner
	} else if p.matchKeyword("a") {
		elt = path.Edge(rdfvoc.Type)
	} else {
		iri, err := p.parseIRITerm()
		if err != nil {
			return nil, err
		}
		elt = path.Edge(iri)
	}
	if p.match("*") {
		elt = path.ZeroOrMore{X: elt}
	}
	return elt, nil
}

// parseTriplesStatement parses one subject with its predicate-object list
// (';' and ',' abbreviations included).
func (p *parser) parseTriplesStatement(inTemplate bool) ([]query.TriplePattern, error) {
	subj, err := p.parseVarOrTerm()
	if err != nil {
		return nil, err
	}
	var out []query.TriplePattern
	for {
		pred, pp, err := p.parseVerb(inTemplate)
		if err != nil {
			return nil, err
		}
		for {
			obj, err := p.parseVarOrTerm()
			if err != nil {
				return nil, err
			}
			out = append(out, query.TriplePattern{Subject: subj, Predicate: pred, Path: pp, Object: obj})
			if !p.match(",") {
				break
			}
		}
		if !p.match(";") {
			break
		}
		p.skipWS()
		// a dangling ';' before '.' or '}' is tolerated
		if c := p.peek(); c == '.' || c == '}' {
			break
		}
	}
	p.match(".")
	return out, nil
}
