package rdf

import (
	"bytes"
	"math"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaces_Expand(t *testing.T) {
	ns := NewNamespaces("http://example.org/", map[string]string{
		"ex":  "http://example.org/vocab#",
		"obo": "",
	})

	tests := []struct {
		in      string
		want    quad.IRI
		wantErr bool
	}{
		{"http://identifiers.org/hco/1/GRCh38", "http://identifiers.org/hco/1/GRCh38", false},
		{"urn:uuid:1234", "urn:uuid:1234", false},
		{"hco:1/GRCh38", "http://identifiers.org/hco/1/GRCh38", false},
		{"ex:thing", "http://example.org/vocab#thing", false},
		{"chr1", "http://example.org/chr1", false},
		{"nope:thing", "", true},
		{"obo:SO_0001483", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ns.Expand(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnresolvedNamespace)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNamespaces_RelativeWithoutBase(t *testing.T) {
	ns := NewNamespaces("", nil)
	_, err := ns.Expand("chr1")
	assert.ErrorIs(t, err, ErrUnresolvedNamespace)
}

func TestNamespaces_Prefixes(t *testing.T) {
	ns := NewNamespaces("", map[string]string{"ex": "http://example.org/"})
	assert.Equal(t, []string{"dct", "ex", "faldo", "gvo", "hco", "obo", "rdf", "rdfs", "sio", "xsd"}, ns.Prefixes())

	iri, ok := ns.Lookup("faldo")
	assert.True(t, ok)
	assert.Equal(t, NSFaldo, iri)
}

func TestNewVocab(t *testing.T) {
	v, err := NewVocab(NewNamespaces("", nil))
	require.NoError(t, err)
	assert.Equal(t, quad.IRI(NSFaldo+"InBetweenPosition"), v.InBetween)
	assert.Equal(t, quad.IRI(NSGvo+"Deletion"), v.Class("Deletion"))

	_, err = NewVocab(NewNamespaces("", map[string]string{"gvo": ""}))
	assert.ErrorIs(t, err, ErrUnresolvedNamespace)
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{int64(30), `"30"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{0.5, `"0.5"^^<http://www.w3.org/2001/XMLSchema#double>`},
		{math.Inf(-1), `"-INF"^^<http://www.w3.org/2001/XMLSchema#double>`},
		{true, `"true"^^<http://www.w3.org/2001/XMLSchema#boolean>`},
		{"a \"b\"", `"a \"b\""`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Literal(tt.in).String())
	}
	assert.Nil(t, Literal(nil))
}

func TestBlankNodes(t *testing.T) {
	b := NewBlankNodes("node")
	assert.Equal(t, quad.BNode("node1"), b.Next())
	assert.Equal(t, quad.BNode("node2"), b.Next())
	assert.Equal(t, uint64(2), b.Issued())
}

func TestWriter(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	require.NoError(t, w.Write(quad.BNode("v1"), quad.IRI(NSRdf+"type"), quad.IRI(NSGvo+"SNV")))
	require.NoError(t, w.Write(quad.BNode("v1"), quad.IRI(NSGvo+"ref"), String("A")))
	require.NoError(t, w.Close())

	assert.Equal(t,
		"_:v1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://genome-variation.org/resource#SNV> .\n"+
			"_:v1 <http://genome-variation.org/resource#ref> \"A\" .\n",
		out.String())
	assert.Equal(t, int64(2), w.Triples())
}
