// Package xsd defines constants for XML Schema datatypes.
package xsd

import (
	"github.com/cayleygraph/quad"

	"github.com/owlmorph/owlmorph/voc"
)

const (
	NS     = "http://www.w3.org/2001/XMLSchema#"
	Prefix = "xsd"
)

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	String   = quad.IRI(NS + "string")
	Boolean  = quad.IRI(NS + "boolean")
	Integer  = quad.IRI(NS + "integer")
	Decimal  = quad.IRI(NS + "decimal")
	Double   = quad.IRI(NS + "double")
	Date     = quad.IRI(NS + "date")
	DateTime = quad.IRI(NS + "dateTime")
	AnyURI   = quad.IRI(NS + "anyURI")
)
