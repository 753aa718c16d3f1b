// Package core imports all well-known RDF vocabularies.
package core

import (
	_ "github.com/owlmorph/owlmorph/voc/dcterms"
	_ "github.com/owlmorph/owlmorph/voc/owl"
	_ "github.com/owlmorph/owlmorph/voc/rdf"
	_ "github.com/owlmorph/owlmorph/voc/rdfs"
	_ "github.com/owlmorph/owlmorph/voc/skos"
	_ "github.com/owlmorph/owlmorph/voc/xsd"
)
