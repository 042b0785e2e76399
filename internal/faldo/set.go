package faldo

import (
	"strconv"
	"strings"
)

// Set is a reference allele with all alternates of a record, used when a
// record is described as a whole rather than one alternate at a time.
type Set struct {
	Pos  int64
	Ref  string
	Alts []string
}

func (s Set) String() string {
	return strconv.FormatInt(s.Pos, 10) + "-" + s.Ref + "-" + strings.Join(s.Alts, ",")
}

// NormalizeSet trims the trailing, then leading, bases shared by the
// reference and every alternate. Trailing bases go first so an indel inside
// a repeat ends up at its leftmost position.
func NormalizeSet(s Set) (Set, error) {
	if len(s.Alts) == 0 {
		return Set{}, ErrNoAlternate
	}
	ref := clean(s.Ref)
	alts := make([]string, len(s.Alts))
	for i, a := range s.Alts {
		alts[i] = clean(a)
	}

	m := 0
	for m < len(ref) && sharedAt(alts, m, ref[len(ref)-1-m], true) {
		m++
	}
	ref = ref[:len(ref)-m]
	for i := range alts {
		alts[i] = alts[i][:len(alts[i])-m]
	}

	n := 0
	for n < len(ref) && sharedAt(alts, n, ref[n], false) {
		n++
	}
	ref = ref[n:]
	for i := range alts {
		alts[i] = alts[i][n:]
	}

	if ref == "" && allEmpty(alts) {
		return Set{}, ErrEmptyAllele
	}
	return Set{Pos: s.Pos + int64(n), Ref: ref, Alts: alts}, nil
}

// sharedAt reports whether every alternate has base b at offset i, counted
// from the end when fromEnd is set.
func sharedAt(alts []string, i int, b byte, fromEnd bool) bool {
	if len(alts) == 0 {
		return false
	}
	for _, a := range alts {
		if i >= len(a) {
			return false
		}
		j := i
		if fromEnd {
			j = len(a) - 1 - i
		}
		if a[j] != b {
			return false
		}
	}
	return true
}

func allEmpty(alts []string) bool {
	for _, a := range alts {
		if a != "" {
			return false
		}
	}
	return true
}

// ClassifySet returns the kind of a normalized set. Alternates of mixed
// shape classify as Indel.
func ClassifySet(s Set) Kind {
	switch {
	case len(s.Ref) == 0:
		return Insertion
	case allEmpty(s.Alts):
		return Deletion
	}

	snv, mnv := true, true
	for _, a := range s.Alts {
		if len(a) != len(s.Ref) {
			mnv = false
		}
		if len(a) != 1 || len(s.Ref) != 1 {
			snv = false
		}
	}
	switch {
	case snv:
		return SNV
	case mnv:
		return MNV
	default:
		return Indel
	}
}

// LocateSet is Locate for a whole allele set.
func LocateSet(s Set, normalize bool) (Region, Kind, error) {
	norm, err := NormalizeSet(s)
	if err != nil {
		return Region{}, 0, err
	}
	kind := ClassifySet(norm)

	if !normalize {
		pos := s.Pos
		end := pos + int64(len(clean(s.Ref))) - 1
		if end < pos {
			end = pos
		}
		return Region{Begin: Exact(pos), End: Exact(end)}, kind, nil
	}

	begin, end := norm.Pos, norm.Pos+int64(len(norm.Ref))-1
	switch kind {
	case SNV:
		return Region{Begin: Exact(begin), End: Exact(begin)}, kind, nil
	case MNV:
		return Region{Begin: Exact(begin), End: Exact(end)}, kind, nil
	case Insertion:
		p := Between(begin - 1)
		return Region{Begin: p, End: p}, kind, nil
	default:
		return Region{Begin: Between(begin - 1), End: Between(end)}, kind, nil
	}
}
