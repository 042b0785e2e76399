// Package faldo computes genomic locations in the shapes described by the
// FALDO ontology, optionally after allele normalization.
package faldo

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyAllele is returned when normalization leaves neither a
	// reference nor an alternate base.
	ErrEmptyAllele = errors.New("reference and alternate alleles are identical")
	ErrNoAlternate = errors.New("no alternate allele")
)

// Kind classifies a variant by the shape of its normalized alleles.
type Kind int

// Variant kinds.
const (
	SNV Kind = iota
	MNV
	Insertion
	Deletion
	Indel
)

var kindNames = [...]string{"SNV", "MNV", "Insertion", "Deletion", "Indel"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Allele is one reference/alternate pair anchored at a 1-based position.
type Allele struct {
	Pos int64
	Ref string
	Alt string
}

func (a Allele) String() string {
	return fmt.Sprintf("%d-%s-%s", a.Pos, a.Ref, a.Alt)
}

// Position is a point on a sequence: either an exact base or the gap
// between two adjacent bases.
type Position struct {
	InBetween bool
	Pos       int64 // exact position
	After     int64 // in-between: base before the gap
	Before    int64 // in-between: base after the gap
}

// Exact returns an exact position.
func Exact(pos int64) Position {
	return Position{Pos: pos}
}

// Between returns the gap after base `after`.
func Between(after int64) Position {
	return Position{InBetween: true, After: after, Before: after + 1}
}

// Region is a located span on the forward strand of a reference sequence.
// A region whose Begin equals its End is a single position.
type Region struct {
	Begin     Position
	End       Position
	Reference string // reference-sequence IRI, empty when unmapped
}

// IsPoint reports whether the region collapses to one position.
func (r Region) IsPoint() bool {
	return r.Begin == r.End
}

func clean(s string) string {
	if s == "." || s == "*" {
		return ""
	}
	return s
}

// Normalize trims bases shared by reference and alternate, trailing ones
// first, then leading ones (advancing the position). Normalizing an already
// normalized allele returns it unchanged.
func Normalize(a Allele) (Allele, error) {
	n, err := NormalizeSet(a.Set())
	if err != nil {
		return Allele{}, err
	}
	return Allele{Pos: n.Pos, Ref: n.Ref, Alt: n.Alts[0]}, nil
}

// Locate returns the kind of the allele and its region. With normalize set
// the region is computed from the normalized allele and uses in-between
// positions for insertions and deletions, so equivalent notations share one
// region; otherwise it spans the raw reference allele from the raw position.
func Locate(a Allele, normalize bool) (Region, Kind, error) {
	return LocateSet(a.Set(), normalize)
}

// Set returns the allele as a single-alternate set.
func (a Allele) Set() Set {
	return Set{Pos: a.Pos, Ref: a.Ref, Alts: []string{a.Alt}}
}
