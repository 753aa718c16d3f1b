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

// Package rdf defines the term and triple model used throughout owlmorph.
//
// Terms are quad values; every operator type-switches on the concrete
// value kind instead of inspecting string forms.
package rdf

import (
	"strconv"
	"time"

	"github.com/cayleygraph/quad"
)

// Term is any RDF value usable in a triple position.
type Term = quad.Value

// IsIRI reports whether t is an IRI.
func IsIRI(t Term) bool {
	_, ok := t.(quad.IRI)
	return ok
}

// IsBlank reports whether t is a blank node.
func IsBlank(t Term) bool {
	_, ok := t.(quad.BNode)
	return ok
}

// IsLiteral reports whether t is a literal of any kind.
func IsLiteral(t Term) bool {
	switch t.(type) {
	case quad.String, quad.TypedString, quad.LangString,
		quad.Int, quad.Float, quad.Bool, quad.Time:
		return true
	}
	return false
}

// Lexical returns the plain string form of a term: the IRI string for IRIs,
// the lexical form for literals. Blank nodes have no string form.
func Lexical(t Term) (string, bool) {
	switch v := t.(type) {
	case quad.IRI:
		return string(v), true
	case quad.String:
		return string(v), true
	case quad.TypedString:
		return string(v.Value), true
	case quad.LangString:
		return string(v.Value), true
	case quad.Int:
		return strconv.FormatInt(int64(v), 10), true
	case quad.Float:
		return strconv.FormatFloat(float64(v), 'g', -1, 64), true
	case quad.Bool:
		if bool(v) {
			return "true", true
		}
		return "false", true
	case quad.Time:
		return time.Time(v).Format(time.RFC3339), true
	}
	return "", false
}

// TermsEqual reports structural equality of two terms. Literals are equal
// iff lexical form, datatype and language tag all match.
func TermsEqual(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := a.(quad.Equaler); ok {
		return eq.Equal(b)
	}
	return a == b
}

func kindRank(t Term) int {
	switch {
	case IsIRI(t):
		return 0
	case IsBlank(t):
		return 1
	default:
		return 2
	}
}

// CompareTerms imposes a total order on terms: IRIs, then blank nodes, then
// literals, each ordered by their string form. It exists for deterministic
// dedup and output, not for any RDF semantics.
func CompareTerms(a, b Term) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if ra, rb := kindRank(a), kindRank(b); ra != rb {
		return ra - rb
	}
	sa, sb := a.String(), b.String()
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}
