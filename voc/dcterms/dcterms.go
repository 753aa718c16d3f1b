// Package dcterms defines constants for the DCMI Metadata Terms vocabulary.
package dcterms

import (
	"github.com/cayleygraph/quad"

	"github.com/owlmorph/owlmorph/voc"
)

const (
	NS     = "http://purl.org/dc/terms/"
	Prefix = "dcterms"
)

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	Title       = quad.IRI(NS + "title")
	Description = quad.IRI(NS + "description")
	Creator     = quad.IRI(NS + "creator")
	Created     = quad.IRI(NS + "created")
	Modified    = quad.IRI(NS + "modified")
	Source      = quad.IRI(NS + "source")
	License     = quad.IRI(NS + "license")
)
