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
	"regexp"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/owlmorph/owlmorph/rdf"
)

var (
	errUnbound = errors.New("query: unbound variable in expression")
	errType    = errors.New("query: type mismatch in expression")
)

// evalExpr computes a term-valued expression against one solution.
// errUnbound and errType are per-solution errors: filters treat them as
// false, BIND leaves the variable unbound.
func (e *evaluator) evalExpr(ctx context.Context, x Expr, sol Solution) (rdf.Term, error) {
	switch x := x.(type) {
	case TermExpr:
		if v, ok := AsVar(x.T); ok {
			t := sol.Get(v)
			if t == nil {
				return nil, errUnbound
			}
			return t, nil
		}
		return x.T, nil

	case Str:
		s, err := e.lexical(ctx, x.X, sol)
		if err != nil {
			return nil, err
		}
		return quad.String(s), nil

	case URI:
		s, err := e.lexical(ctx, x.X, sol)
		if err != nil {
			return nil, err
		}
		return quad.IRI(s), nil

	case Concat:
		var b strings.Builder
		for _, a := range x.Args {
			s, err := e.lexical(ctx, a, sol)
			if err != nil {
				return nil, err
			}
			b.WriteString(s)
		}
		return quad.String(b.String()), nil

	case If:
		cond, err := e.evalBool(ctx, x.Cond, sol)
		if err != nil {
			return nil, err
		}
		if cond {
			return e.evalExpr(ctx, x.Then, sol)
		}
		return e.evalExpr(ctx, x.Else, sol)

	case StrAfter:
		s, err := e.lexical(ctx, x.X, sol)
		if err != nil {
			return nil, err
		}
		sep, err := e.lexical(ctx, x.Y, sol)
		if err != nil {
			return nil, err
		}
		if i := strings.Index(s, sep); i >= 0 {
			return quad.String(s[i+len(sep):]), nil
		}
		return quad.String(""), nil

	case StrBefore:
		s, err := e.lexical(ctx, x.X, sol)
		if err != nil {
			return nil, err
		}
		sep, err := e.lexical(ctx, x.Y, sol)
		if err != nil {
			return nil, err
		}
		if i := strings.Index(s, sep); i >= 0 {
			return quad.String(s[:i]), nil
		}
		return quad.String(""), nil

	case Count:
		return nil, fmt.Errorf("query: COUNT is only valid in an aggregated SELECT")
	}

	ok, err := e.evalBool(ctx, x, sol)
	if err != nil {
		return nil, err
	}
	return quad.Bool(ok), nil
}

// lexical evaluates an expression and takes its plain string form.
func (e *evaluator) lexical(ctx context.Context, x Expr, sol Solution) (string, error) {
	t, err := e.evalExpr(ctx, x, sol)
	if err != nil {
		return "", err
	}
	s, ok := rdf.Lexical(t)
	if !ok {
		return "", errType
	}
	return s, nil
}

// evalBool computes a boolean-valued expression.
func (e *evaluator) evalBool(ctx context.Context, x Expr, sol Solution) (bool, error) {
	switch x := x.(type) {
	case Bound:
		return sol.Bound(x.V), nil

	case Kind:
		t, err := e.evalExpr(ctx, x.Arg, sol)
		if err != nil {
			return false, err
		}
		switch x.K {
		case KindIRI:
			return rdf.IsIRI(t), nil
		case KindBlank:
			return rdf.IsBlank(t), nil
		default:
			return rdf.IsLiteral(t), nil
		}

	case Regex:
		s, err := e.lexical(ctx, x.Arg, sol)
		if err != nil {
			return false, err
		}
		pat, err := e.lexical(ctx, x.Pattern, sol)
		if err != nil {
			return false, err
		}
		if x.Flags != nil {
			flags, err := e.lexical(ctx, x.Flags, sol)
			if err != nil {
				return false, err
			}
			if strings.Contains(flags, "i") {
				pat = "(?i)" + pat
			}
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return false, fmt.Errorf("%w: bad regex %q: %v", errType, pat, err)
		}
		return re.MatchString(s), nil

	case Eq:
		tx, err := e.evalExpr(ctx, x.X, sol)
		if err != nil {
			return false, err
		}
		ty, err := e.evalExpr(ctx, x.Y, sol)
		if err != nil {
			return false, err
		}
		eq := rdf.TermsEqual(tx, ty)
		if x.Neg {
			return !eq, nil
		}
		return eq, nil

	case Not:
		ok, err := e.evalBool(ctx, x.X, sol)
		if err != nil {
			return false, err
		}
		return !ok, nil

	case And:
		a, aerr := e.evalBool(ctx, x.X, sol)
		if isFatal(aerr) {
			return false, aerr
		}
		b, berr := e.evalBool(ctx, x.Y, sol)
		if isFatal(berr) {
			return false, berr
		}
		// a definite false wins over an error operand
		if aerr == nil && !a {
			return false, nil
		}
		if berr == nil && !b {
			return false, nil
		}
		if aerr != nil {
			return false, aerr
		}
		if berr != nil {
			return false, berr
		}
		return true, nil

	case Or:
		a, aerr := e.evalBool(ctx, x.X, sol)
		if isFatal(aerr) {
			return false, aerr
		}
		if aerr == nil && a {
			return true, nil
		}
		b, berr := e.evalBool(ctx, x.Y, sol)
		if isFatal(berr) {
			return false, berr
		}
		if berr == nil && b {
			return true, nil
		}
		if aerr != nil {
			return false, aerr
		}
		if berr != nil {
			return false, berr
		}
		return false, nil

	case Exists:
		sols, err := e.eval(ctx, x.P, []Solution{sol})
		if err != nil {
			return false, err
		}
		found := len(sols) > 0
		if x.Not {
			return !found, nil
		}
		return found, nil

	case Controlled:
		if e.control == nil {
			return false, fmt.Errorf("%w: no graph-control source configured", errType)
		}
		gt, err := e.evalExpr(ctx, x.Graph, sol)
		if err != nil {
			return false, err
		}
		gi, ok := gt.(quad.IRI)
		if !ok {
			return false, errType
		}
		tag, err := e.lexical(ctx, x.Tag, sol)
		if err != nil {
			return false, err
		}
		pairs, err := e.control.ControlledGraphs(ctx)
		if err != nil {
			if isFatal(err) {
				return false, err
			}
			return false, fmt.Errorf("%w: graph-control source: %v", errType, err)
		}
		for _, p := range pairs {
			if p.Graph == gi && p.Tag == tag {
				return true, nil
			}
		}
		return false, nil
	}

	t, err := e.evalExpr(ctx, x, sol)
	if err != nil {
		return false, err
	}
	return ebv(t)
}

// ebv is the effective boolean value of a term.
func ebv(t rdf.Term) (bool, error) {
	switch v := t.(type) {
	case quad.Bool:
		return bool(v), nil
	case quad.String:
		return len(v) > 0, nil
	case quad.LangString:
		return len(v.Value) > 0, nil
	case quad.TypedString:
		switch string(v.Value) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return len(v.Value) > 0, nil
	case quad.Int:
		return v != 0, nil
	case quad.Float:
		return v != 0, nil
	}
	return false, errType
}
