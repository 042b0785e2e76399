package convert

import (
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vcf2rdf/internal/config"
	"github.com/inodb/vcf2rdf/internal/faldo"
	"github.com/inodb/vcf2rdf/internal/rdf"
	"github.com/inodb/vcf2rdf/internal/subject"
	"github.com/inodb/vcf2rdf/internal/vcf"
)

func TestEmitter_DeletionRegion(t *testing.T) {
	h, err := vcf.ParseHeader([]string{"##contig=<ID=1,length=1000>"})
	require.NoError(t, err)
	cfg, err := config.Resolve(map[string]any{
		"reference": map[string]any{"1": map[string]any{"reference": "hco:1/GRCh38"}},
	}, h, config.Options{})
	require.NoError(t, err)

	em, err := NewEmitter(cfg, h)
	require.NoError(t, err)

	v := &vcf.Variant{Chrom: "1", Pos: 100, ID: "rs9", Ref: "ACG", Alt: []string{"A"}, Filter: []string{"PASS"}}
	raw := faldo.Set{Pos: 100, Ref: "ACG", Alts: []string{"A"}}
	norm, err := faldo.NormalizeSet(raw)
	require.NoError(t, err)
	region, kind, err := faldo.LocateSet(raw, true)
	require.NoError(t, err)

	subj := quad.IRI("http://example.org/rs9")
	got, err := em.Emit(nil, subj, &subject.Entry{Variant: v, AltIndex: 0, Raw: raw, Normalized: norm}, kind, region)
	require.NoError(t, err)

	x := func(s string) quad.IRI { return quad.IRI(s) }
	ref := x("http://identifiers.org/hco/1/GRCh38")
	loc, begin, end := quad.BNode("node1"), quad.BNode("node2"), quad.BNode("node3")
	want := []quad.Quad{
		{Subject: subj, Predicate: x(rdf.NSRdf + "type"), Object: x(rdf.NSGvo + "Deletion")},
		{Subject: subj, Predicate: x(rdf.NSDct + "identifier"), Object: rdf.String("rs9")},
		{Subject: subj, Predicate: x(rdf.NSGvo + "ref"), Object: rdf.String("CG")},
		{Subject: subj, Predicate: x(rdf.NSGvo + "alt"), Object: rdf.String("")},
		{Subject: subj, Predicate: x(rdf.NSGvo + "filter"), Object: rdf.String("PASS")},
		{Subject: subj, Predicate: x(rdf.NSFaldo + "location"), Object: loc},
		{Subject: loc, Predicate: x(rdf.NSRdf + "type"), Object: x(rdf.NSFaldo + "Region")},
		{Subject: loc, Predicate: x(rdf.NSFaldo + "begin"), Object: begin},
		{Subject: loc, Predicate: x(rdf.NSFaldo + "end"), Object: end},
		{Subject: begin, Predicate: x(rdf.NSRdf + "type"), Object: x(rdf.NSFaldo + "InBetweenPosition")},
		{Subject: begin, Predicate: x(rdf.NSRdf + "type"), Object: x(rdf.NSFaldo + "ForwardStrandPosition")},
		{Subject: begin, Predicate: x(rdf.NSFaldo + "after"), Object: rdf.Integer(100)},
		{Subject: begin, Predicate: x(rdf.NSFaldo + "before"), Object: rdf.Integer(101)},
		{Subject: begin, Predicate: x(rdf.NSFaldo + "reference"), Object: ref},
		{Subject: end, Predicate: x(rdf.NSRdf + "type"), Object: x(rdf.NSFaldo + "InBetweenPosition")},
		{Subject: end, Predicate: x(rdf.NSRdf + "type"), Object: x(rdf.NSFaldo + "ForwardStrandPosition")},
		{Subject: end, Predicate: x(rdf.NSFaldo + "after"), Object: rdf.Integer(102)},
		{Subject: end, Predicate: x(rdf.NSFaldo + "before"), Object: rdf.Integer(103)},
		{Subject: end, Predicate: x(rdf.NSFaldo + "reference"), Object: ref},
	}
	assert.Equal(t, want, got)
}

func TestEmitter_RawShape(t *testing.T) {
	h, err := vcf.ParseHeader(nil)
	require.NoError(t, err)
	off := false
	cfg, err := config.Resolve(nil, h, config.Options{Normalize: &off})
	require.NoError(t, err)
	em, err := NewEmitter(cfg, h)
	require.NoError(t, err)

	v := &vcf.Variant{Chrom: "1", Pos: 100, Ref: "A", Alt: []string{"ATG"}}
	raw := faldo.Set{Pos: 100, Ref: "A", Alts: []string{"ATG"}}
	norm, _ := faldo.NormalizeSet(raw)
	region, kind, err := faldo.LocateSet(raw, false)
	require.NoError(t, err)

	got, err := em.Emit(nil, quad.BNode("variant1"), &subject.Entry{Variant: v, Raw: raw, Normalized: norm}, kind, region)
	require.NoError(t, err)

	assert.Equal(t, quad.IRI(rdf.NSGvo+"Insertion"), got[0].Object, "kind is always taken from normalized alleles")
	assert.Equal(t, rdf.String("A"), got[1].Object, "raw reference allele")
	assert.Equal(t, rdf.String("ATG"), got[2].Object)

	var positions []quad.Value
	for _, q := range got {
		if q.Predicate == quad.IRI(rdf.NSFaldo+"position") {
			positions = append(positions, q.Object)
		}
	}
	assert.Equal(t, []quad.Value{rdf.Integer(100)}, positions)
}
