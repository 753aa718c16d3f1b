// Package owl defines constants for the OWL 2 vocabulary.
package owl

import (
	"github.com/cayleygraph/quad"

	"github.com/owlmorph/owlmorph/voc"
)

const (
	NS     = "http://www.w3.org/2002/07/owl#"
	Prefix = "owl"
)

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	// Classes

	// The class of OWL classes.
	Class = quad.IRI(NS + "Class")
	// The class of ontologies.
	Ontology = quad.IRI(NS + "Ontology")
	// The class of OWL individuals.
	NamedIndividual = quad.IRI(NS + "NamedIndividual")
	// The class of object properties.
	ObjectProperty = quad.IRI(NS + "ObjectProperty")
	// The class of data properties.
	DatatypeProperty = quad.IRI(NS + "DatatypeProperty")
	// The class of annotation properties.
	AnnotationProperty = quad.IRI(NS + "AnnotationProperty")
	// The class of deprecated classes.
	DeprecatedClass = quad.IRI(NS + "DeprecatedClass")

	// Properties

	// The property that determines that two given classes are equivalent.
	EquivalentClass = quad.IRI(NS + "equivalentClass")
	// The property that determines that two given individuals are equal.
	SameAs = quad.IRI(NS + "sameAs")
	// The annotation property that indicates that a given entity has been deprecated.
	Deprecated = quad.IRI(NS + "deprecated")
	// The property that identifies the version IRI of an ontology.
	VersionIRI = quad.IRI(NS + "versionIRI")
	// The object property that determines the class that a negative object
	// property assertion refers to.
	ComplementOf = quad.IRI(NS + "complementOf")
)
