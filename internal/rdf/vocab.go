package rdf

import (
	"github.com/cayleygraph/quad"
)

// Vocab is the set of terms the converter emits, resolved once against the
// run's namespaces so an undeclared prefix fails before any output.
type Vocab struct {
	Type    quad.IRI
	Value   quad.IRI
	First   quad.IRI
	Rest    quad.IRI
	Nil     quad.IRI
	Label   quad.IRI
	Comment quad.IRI

	Identifier quad.IRI

	Info   quad.IRI
	Ref    quad.IRI
	Alt    quad.IRI
	Qual   quad.IRI
	Filter quad.IRI

	Location         quad.IRI
	Position         quad.IRI
	Begin            quad.IRI
	End              quad.IRI
	After            quad.IRI
	Before           quad.IRI
	Reference        quad.IRI
	ExactPosition    quad.IRI
	InBetween        quad.IRI
	Region           quad.IRI
	ForwardStrandPos quad.IRI

	ns *Namespaces
}

// NewVocab resolves the vocabulary against ns.
func NewVocab(ns *Namespaces) (*Vocab, error) {
	v := &Vocab{ns: ns}

	terms := []struct {
		dst          *quad.IRI
		prefix, name string
	}{
		{&v.Type, "rdf", "type"},
		{&v.Value, "rdf", "value"},
		{&v.First, "rdf", "first"},
		{&v.Rest, "rdf", "rest"},
		{&v.Nil, "rdf", "nil"},
		{&v.Label, "rdfs", "label"},
		{&v.Comment, "rdfs", "comment"},
		{&v.Identifier, "dct", "identifier"},
		{&v.Info, "gvo", "info"},
		{&v.Ref, "gvo", "ref"},
		{&v.Alt, "gvo", "alt"},
		{&v.Qual, "gvo", "qual"},
		{&v.Filter, "gvo", "filter"},
		{&v.Location, "faldo", "location"},
		{&v.Position, "faldo", "position"},
		{&v.Begin, "faldo", "begin"},
		{&v.End, "faldo", "end"},
		{&v.After, "faldo", "after"},
		{&v.Before, "faldo", "before"},
		{&v.Reference, "faldo", "reference"},
		{&v.ExactPosition, "faldo", "ExactPosition"},
		{&v.InBetween, "faldo", "InBetweenPosition"},
		{&v.Region, "faldo", "Region"},
		{&v.ForwardStrandPos, "faldo", "ForwardStrandPosition"},
	}
	for _, t := range terms {
		iri, err := ns.Term(t.prefix, t.name)
		if err != nil {
			return nil, err
		}
		*t.dst = iri
	}
	return v, nil
}

// Class returns the gvo class for a variant kind name such as "SNV".
func (v *Vocab) Class(kind string) quad.IRI {
	iri, _ := v.ns.Term("gvo", kind)
	return iri
}
