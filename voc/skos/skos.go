// Package skos defines constants for the SKOS thesaurus vocabulary.
package skos

import (
	"github.com/cayleygraph/quad"

	"github.com/owlmorph/owlmorph/voc"
)

const (
	NS     = "http://www.w3.org/2004/02/skos/core#"
	Prefix = "skos"
)

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	// Classes

	// An idea or notion; a unit of thought.
	Concept = quad.IRI(NS + "Concept")
	// A set of concepts, optionally including semantic relationships.
	ConceptScheme = quad.IRI(NS + "ConceptScheme")
	// A meaningful collection of concepts.
	Collection = quad.IRI(NS + "Collection")

	// Semantic relations

	// Relates a concept to a concept that is more general in meaning.
	Broader = quad.IRI(NS + "broader")
	// Relates a concept to a concept that is more specific in meaning.
	Narrower = quad.IRI(NS + "narrower")
	// Relates a concept to a concept with which there is an associative
	// semantic relationship.
	Related = quad.IRI(NS + "related")
	// Relates a concept to the concept scheme it is in.
	InScheme = quad.IRI(NS + "inScheme")
	// Relates a concept scheme to one of its top concepts.
	HasTopConcept = quad.IRI(NS + "hasTopConcept")
	// Relates a concept to the scheme it is a top-level concept of.
	TopConceptOf = quad.IRI(NS + "topConceptOf")

	// Mapping relations

	ExactMatch   = quad.IRI(NS + "exactMatch")
	CloseMatch   = quad.IRI(NS + "closeMatch")
	BroadMatch   = quad.IRI(NS + "broadMatch")
	NarrowMatch  = quad.IRI(NS + "narrowMatch")
	RelatedMatch = quad.IRI(NS + "relatedMatch")

	// Lexical labels and notes

	PrefLabel   = quad.IRI(NS + "prefLabel")
	AltLabel    = quad.IRI(NS + "altLabel")
	HiddenLabel = quad.IRI(NS + "hiddenLabel")
	Notation    = quad.IRI(NS + "notation")
	Note        = quad.IRI(NS + "note")
	Definition  = quad.IRI(NS + "definition")
	ScopeNote   = quad.IRI(NS + "scopeNote")
	EditorialNote = quad.IRI(NS + "editorialNote")
)
