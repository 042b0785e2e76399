package faldo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Allele
		want Allele
	}{
		{"SNV unchanged", Allele{100, "A", "T"}, Allele{100, "A", "T"}},
		{"insertion prefix", Allele{100, "A", "ATG"}, Allele{101, "", "TG"}},
		{"deletion prefix", Allele{100, "ACG", "A"}, Allele{101, "CG", ""}},
		{"shared suffix", Allele{100, "AC", "ATGC"}, Allele{101, "", "TG"}},
		{"dot placeholder", Allele{101, ".", "TG"}, Allele{101, "", "TG"}},
		{"star placeholder", Allele{50, "C", "*"}, Allele{50, "C", ""}},
		{"MNV", Allele{10, "AT", "GC"}, Allele{10, "AT", "GC"}},
		{"MNV with anchor", Allele{10, "CAT", "CGC"}, Allele{11, "AT", "GC"}},
		{"insertion in repeat", Allele{100, "AT", "ATTT"}, Allele{101, "", "TT"}},
		{"deletion in repeat", Allele{100, "ATTT", "AT"}, Allele{101, "TT", ""}},
		{"homopolymer insertion", Allele{33, "CAAA", "CAAAA"}, Allele{34, "", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Identical(t *testing.T) {
	_, err := Normalize(Allele{10, "A", "A"})
	assert.ErrorIs(t, err, ErrEmptyAllele)

	_, err = Normalize(Allele{10, ".", "."})
	assert.ErrorIs(t, err, ErrEmptyAllele)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []Allele{
		{100, "A", "T"},
		{100, "A", "ATG"},
		{100, "ATTT", "AT"},
		{7, "GCATG", "GTTG"},
		{1, "ACGT", "TGCA"},
		{33, "CAAA", "CAAAA"},
	}

	for _, in := range inputs {
		t.Run(in.String(), func(t *testing.T) {
			once, err := Normalize(in)
			require.NoError(t, err)
			twice, err := Normalize(once)
			require.NoError(t, err)
			assert.Equal(t, once, twice)

			r1, k1, err := Locate(in, true)
			require.NoError(t, err)
			r2, k2, err := Locate(once, true)
			require.NoError(t, err)
			assert.Equal(t, r1, r2)
			assert.Equal(t, k1, k2)
		})
	}
}

func TestLocate_InsertionNotationsConverge(t *testing.T) {
	notations := []Allele{
		{100, "A", "ATG"},
		{101, ".", "TG"},
		{100, "AC", "ATGC"},
		{100, "A", "ATT"},
		{100, "AT", "ATTT"},
		{100, "ATT", "ATTTT"},
	}

	want := Region{Begin: Between(100), End: Between(100)}
	for _, a := range notations {
		r, kind, err := Locate(a, true)
		require.NoError(t, err)
		assert.Equal(t, Insertion, kind, a.String())
		assert.Equal(t, want, r, a.String())
		assert.Equal(t, int64(100), r.Begin.After)
		assert.Equal(t, int64(101), r.Begin.Before)
	}
}

func TestLocate_DeletionNotationsConverge(t *testing.T) {
	want := Region{Begin: Between(100), End: Between(102)}
	for _, a := range []Allele{
		{100, "ATT", "A"},
		{100, "ATTT", "AT"},
		{100, "ATTTT", "ATT"},
	} {
		r, kind, err := Locate(a, true)
		require.NoError(t, err)
		assert.Equal(t, Deletion, kind, a.String())
		assert.Equal(t, want, r, a.String())
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name      string
		in        Allele
		normalize bool
		kind      Kind
		want      Region
	}{
		{"SNV", Allele{100, "A", "T"}, true, SNV,
			Region{Begin: Exact(100), End: Exact(100)}},
		{"MNV", Allele{100, "AT", "GC"}, true, MNV,
			Region{Begin: Exact(100), End: Exact(101)}},
		{"deletion", Allele{100, "ACG", "A"}, true, Deletion,
			Region{Begin: Between(100), End: Between(102)}},
		{"indel", Allele{100, "ACG", "AT"}, true, Indel,
			Region{Begin: Between(100), End: Between(102)}},
		{"raw SNV", Allele{100, "A", "T"}, false, SNV,
			Region{Begin: Exact(100), End: Exact(100)}},
		{"raw insertion", Allele{100, "A", "ATG"}, false, Insertion,
			Region{Begin: Exact(100), End: Exact(100)}},
		{"raw deletion", Allele{100, "ACG", "A"}, false, Deletion,
			Region{Begin: Exact(100), End: Exact(102)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, kind, err := Locate(tt.in, tt.normalize)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.want, r)
		})
	}
}

func TestRegion_IsPoint(t *testing.T) {
	assert.True(t, Region{Begin: Exact(5), End: Exact(5)}.IsPoint())
	assert.True(t, Region{Begin: Between(4), End: Between(4)}.IsPoint())
	assert.False(t, Region{Begin: Between(4), End: Between(6)}.IsPoint())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Insertion", Insertion.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
