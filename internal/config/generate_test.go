package config

import (
	"bytes"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_WithAssembly(t *testing.T) {
	asm, ok := LookupAssembly("grch38")
	require.True(t, ok)

	out, err := Generate(testHeader(t), asm)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "# Set base IRI if needed.")
	assert.Contains(t, text, "# Additional namespaces.")
	assert.Contains(t, text, "# Remove unnecessary keys to convert.")
	assert.Contains(t, text, "http://identifiers.org/hco/1/GRCh38")

	tree, err := Parse(bytes.NewReader(out))
	require.NoError(t, err)

	cfg, err := Resolve(tree, testHeader(t), Options{Subject: "by-reference"})
	require.NoError(t, err)
	assert.Equal(t, []string{"DP", "AF", "DB"}, cfg.Info)

	iri, ok, err := cfg.ReferenceIRI("2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, quad.IRI("http://identifiers.org/hco/2/GRCh38"), iri)
}

func TestGenerate_WithoutAssembly(t *testing.T) {
	out, err := Generate(testHeader(t), nil)
	require.NoError(t, err)

	tree, err := Parse(bytes.NewReader(out))
	require.NoError(t, err)

	cfg, err := Resolve(tree, testHeader(t), Options{})
	require.NoError(t, err)
	assert.False(t, cfg.HasReferences())
	assert.Equal(t, "", cfg.Base)
}

func TestAssembly_FindSequence(t *testing.T) {
	asm, ok := LookupAssembly("GRCh37")
	require.True(t, ok)

	for _, name := range []string{"17", "chr17", "CM000679.1", "NC_000017.10"} {
		s, ok := asm.FindSequence(name)
		require.True(t, ok, name)
		assert.Equal(t, "http://identifiers.org/hco/17/GRCh37", s.Reference)
	}

	_, ok = asm.FindSequence("chrUn")
	assert.False(t, ok)

	for name, want := range map[string]string{"chrMT": "MT", "CHRX": "X", "Chr22": "22"} {
		s, ok := asm.FindSequence(name)
		require.True(t, ok, name)
		assert.Equal(t, want, s.Name, name)
	}

	mouse, ok := LookupAssembly("GRCm39")
	require.True(t, ok)
	s, ok := mouse.FindSequence("X")
	require.True(t, ok)
	assert.Equal(t, "https://identifiers.org/refseq/NC_000086.8", s.Reference)

	_, ok = LookupAssembly("hg19")
	assert.False(t, ok)
}
