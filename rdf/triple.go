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

package rdf

import (
	"sort"

	"github.com/cayleygraph/quad"
)

// Triple is a subject-predicate-object statement. The subject is an IRI or
// blank node and the predicate is always an IRI; Valid checks the invariant.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// Valid reports whether the triple satisfies the RDF term-kind invariants.
func (t Triple) Valid() bool {
	if t.Subject == nil || t.Predicate == nil || t.Object == nil {
		return false
	}
	if !IsIRI(t.Subject) && !IsBlank(t.Subject) {
		return false
	}
	return IsIRI(t.Predicate)
}

// Equal reports structural equality of two triples.
func (t Triple) Equal(o Triple) bool {
	return TermsEqual(t.Subject, o.Subject) &&
		TermsEqual(t.Predicate, o.Predicate) &&
		TermsEqual(t.Object, o.Object)
}

func (t Triple) String() string {
	return quad.StringOf(t.Subject) + " " + quad.StringOf(t.Predicate) + " " + quad.StringOf(t.Object) + " ."
}

// Quad returns the triple as a quad carrying the given graph label
// (nil for the default graph).
func (t Triple) Quad(label Term) quad.Quad {
	return quad.Quad{Subject: t.Subject, Predicate: t.Predicate, Object: t.Object, Label: label}
}

// FromQuad splits a quad into a triple and its graph label.
func FromQuad(q quad.Quad) (Triple, Term) {
	return Triple{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object}, q.Label
}

// CompareTriples orders triples by subject, predicate, object.
func CompareTriples(a, b Triple) int {
	if c := CompareTerms(a.Subject, b.Subject); c != 0 {
		return c
	}
	if c := CompareTerms(a.Predicate, b.Predicate); c != 0 {
		return c
	}
	return CompareTerms(a.Object, b.Object)
}

// SortTriples sorts triples in place into the canonical output order.
func SortTriples(ts []Triple) {
	sort.Slice(ts, func(i, j int) bool {
		return CompareTriples(ts[i], ts[j]) < 0
	})
}
