package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inodb/vcf2rdf/internal/vcf"
)

func testHeader(t *testing.T) *vcf.Header {
	t.Helper()
	h, err := vcf.ParseHeader([]string{
		"##fileformat=VCFv4.2",
		"##contig=<ID=1,length=1000>",
		"##contig=<ID=2,length=2000>",
		`##INFO=<ID=DP,Number=1,Type=Integer,Description="Depth">`,
		`##INFO=<ID=AF,Number=A,Type=Float,Description="Frequency">`,
		`##INFO=<ID=DB,Number=0,Type=Flag,Description="dbSNP">`,
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO",
	})
	require.NoError(t, err)
	return h
}

func parseYAML(t *testing.T, doc string) any {
	t.Helper()
	tree, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return tree
}

func TestResolve_NoConfig(t *testing.T) {
	cfg, err := Resolve(nil, testHeader(t), Options{})
	require.NoError(t, err)

	assert.Equal(t, BlankNode, cfg.Strategy)
	assert.True(t, cfg.Normalize)
	assert.Equal(t, []string{"DP", "AF", "DB"}, cfg.Info)
	assert.False(t, cfg.HasReferences())

	_, ok, err := cfg.ReferenceIRI("1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolve_Document(t *testing.T) {
	tree := parseYAML(t, `
base: http://example.org/variant/
namespaces:
  ex: http://example.org/vocab#
info:
  - DB
  - DP
  - NOPE
reference:
  1:
    name: chr1
    reference: hco:1/GRCh38
  2: ~
  9:
    name: chr9
    reference: http://example.org/chr9
subject: by-reference
normalize: false
`)

	core, logs := observer.New(zap.WarnLevel)
	cfg, err := Resolve(tree, testHeader(t), Options{Logger: zap.New(core)})
	require.NoError(t, err)

	assert.Equal(t, ByReference, cfg.Strategy)
	assert.False(t, cfg.Normalize)
	assert.Equal(t, []string{"DP", "DB"}, cfg.Info, "header order, unknown key dropped")
	assert.True(t, cfg.Retains("DB"))
	assert.False(t, cfg.Retains("AF"))

	iri, ok, err := cfg.ReferenceIRI("1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, quad.IRI("http://identifiers.org/hco/1/GRCh38"), iri)
	assert.Equal(t, "chr1", cfg.DisplayName("1"))
	assert.Equal(t, "2", cfg.DisplayName("2"))

	_, ok, _ = cfg.ReferenceIRI("2")
	assert.False(t, ok)
	_, ok = cfg.Sequence("9")
	assert.False(t, ok, "undeclared contig ignored")

	assert.Equal(t, 2, logs.Len(), "one warning per ignored entry")
}

func TestResolve_EmptyInfoList(t *testing.T) {
	cfg, err := Resolve(parseYAML(t, "info: []\n"), testHeader(t), Options{})
	require.NoError(t, err)
	assert.Empty(t, cfg.Info)
}

func TestResolve_OptionsOverride(t *testing.T) {
	off := false
	cfg, err := Resolve(parseYAML(t, "subject: blank-node\nbase: http://x.org/\n"), testHeader(t), Options{
		Subject:   "by-id",
		Normalize: &off,
		PerRecord: true,
	})
	require.NoError(t, err)
	assert.Equal(t, ByID, cfg.Strategy)
	assert.False(t, cfg.Normalize)
	assert.True(t, cfg.PerRecord)
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		tree any
		opts Options
	}{
		{"not a mapping", []any{"a", "b"}, Options{}},
		{"scalar document", "hello", Options{}},
		{"base wrong type", map[string]any{"base": 42}, Options{}},
		{"info wrong type", map[string]any{"info": "DP"}, Options{}},
		{"reference wrong type", map[string]any{"reference": map[string]any{"1": "chr1"}}, Options{}},
		{"relative base", map[string]any{"base": "variants/"}, Options{}},
		{"relative namespace", map[string]any{"namespaces": map[string]any{"ex": "vocab#"}}, Options{}},
		{"unknown strategy", nil, Options{Subject: "by-magic"}},
		{"by-reference without mapping", nil, Options{Subject: "by-reference"}},
		{"normalized-reference with only null mappings", map[string]any{"reference": map[string]any{"1": nil}}, Options{Subject: "normalized-reference"}},
		{"by-id without base", nil, Options{Subject: "by-id"}},
		{"by-location without base", nil, Options{Subject: "location"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.tree, testHeader(t), tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestResolve_UnresolvedReferencePrefix(t *testing.T) {
	tree := map[string]any{"reference": map[string]any{
		"1": map[string]any{"reference": "nope:1"},
	}}
	cfg, err := Resolve(tree, testHeader(t), Options{Subject: "by-reference"})
	require.NoError(t, err)

	_, _, err = cfg.ReferenceIRI("1")
	assert.Error(t, err)
}

func TestResolve_HeaderWithoutContigs(t *testing.T) {
	h, err := vcf.ParseHeader([]string{"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO"})
	require.NoError(t, err)

	tree := map[string]any{"reference": map[string]any{
		"chr7": map[string]any{"reference": "http://example.org/chr7"},
	}}
	cfg, err := Resolve(tree, h, Options{Subject: "reference"})
	require.NoError(t, err)
	_, ok, _ := cfg.ReferenceIRI("chr7")
	assert.True(t, ok)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
	}{
		{"", BlankNode},
		{"blank-node", BlankNode},
		{"id", ByID},
		{"by-id", ByID},
		{"Location", ByLocation},
		{"by-reference", ByReference},
		{"normalized-location", NormalizedLocation},
		{"normalized-reference", NormalizedReference},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Len(t, StrategyNames(), 6)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reference:\n  1:\n    name: chr1\n"), 0o644))

	tree, err := Load(path)
	require.NoError(t, err)

	refs := tree.(map[string]any)["reference"].(map[string]any)
	assert.Contains(t, refs, "1")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("base: [unclosed"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	tree, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, tree)
}
