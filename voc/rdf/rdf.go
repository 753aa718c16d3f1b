// Package rdf defines constants for the RDF vocabulary.
package rdf

import (
	"github.com/cayleygraph/quad"

	"github.com/owlmorph/owlmorph/voc"
)

const (
	NS     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	Prefix = "rdf"
)

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	// Properties

	// The subject is an instance of a class.
	Type = quad.IRI(NS + "type")
	// Idiomatic property used for structured values.
	Value = quad.IRI(NS + "value")
	// The first item in the subject RDF list.
	First = quad.IRI(NS + "first")
	// The rest of the subject RDF list after the first item.
	Rest = quad.IRI(NS + "rest")

	// Classes

	// The class of RDF properties.
	Property = quad.IRI(NS + "Property")
	// The class of RDF statements.
	Statement = quad.IRI(NS + "Statement")
	// The class of RDF Lists.
	List = quad.IRI(NS + "List")
	// The empty list.
	Nil = quad.IRI(NS + "nil")

	// Datatypes

	// The datatype of language-tagged string values.
	LangString = quad.IRI(NS + "langString")
)
