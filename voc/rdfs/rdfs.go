// Package rdfs defines constants for the RDF Schema vocabulary.
package rdfs

import (
	"github.com/cayleygraph/quad"

	"github.com/owlmorph/owlmorph/voc"
)

const (
	NS     = "http://www.w3.org/2000/01/rdf-schema#"
	Prefix = "rdfs"
)

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	// Classes

	// The class resource, everything.
	Resource = quad.IRI(NS + "Resource")
	// The class of classes.
	Class = quad.IRI(NS + "Class")
	// The class of literal values.
	Literal = quad.IRI(NS + "Literal")
	// The class of RDF datatypes.
	Datatype = quad.IRI(NS + "Datatype")

	// Properties

	// The subject is a subclass of a class.
	SubClassOf = quad.IRI(NS + "subClassOf")
	// The subject is a subproperty of a property.
	SubPropertyOf = quad.IRI(NS + "subPropertyOf")
	// A description of the subject resource.
	Comment = quad.IRI(NS + "comment")
	// A human-readable name for the subject.
	Label = quad.IRI(NS + "label")
	// A domain of the subject property.
	Domain = quad.IRI(NS + "domain")
	// A range of the subject property.
	Range = quad.IRI(NS + "range")
	// Further information about the subject resource.
	SeeAlso = quad.IRI(NS + "seeAlso")
	// The definition of the subject resource.
	IsDefinedBy = quad.IRI(NS + "isDefinedBy")
)
