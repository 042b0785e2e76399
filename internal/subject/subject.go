// Package subject mints the RDF subject of each converted variant under the
// run's identification strategy.
package subject

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/inodb/vcf2rdf/internal/config"
	"github.com/inodb/vcf2rdf/internal/faldo"
	"github.com/inodb/vcf2rdf/internal/rdf"
	"github.com/inodb/vcf2rdf/internal/vcf"
)

var (
	// ErrMissingOrDuplicateID fails a by-id run.
	ErrMissingOrDuplicateID = errors.New("missing or duplicate identifier")

	// ErrNoReference marks an entry whose contig has no reference mapping.
	// The entry is skipped; the run continues.
	ErrNoReference = errors.New("no reference mapping")
)

// Entry is the unit that receives one subject: a single alternate allele of
// a record, or the whole record when AltIndex is -1.
type Entry struct {
	Variant    *vcf.Variant
	AltIndex   int
	Raw        faldo.Set
	Normalized faldo.Set
}

// Alleles returns the normalized or the raw alleles of the entry.
func (e *Entry) Alleles(normalized bool) faldo.Set {
	if normalized {
		return e.Normalized
	}
	return e.Raw
}

// Resolver computes subjects. It owns the run's blank node counter and the
// identifier set of the by-id strategy, so one Resolver serves one run.
type Resolver struct {
	cfg    *config.RunConfig
	blanks *rdf.BlankNodes
	seen   map[string]struct{}
}

// NewResolver creates a resolver for cfg.
func NewResolver(cfg *config.RunConfig) *Resolver {
	r := &Resolver{
		cfg:    cfg,
		blanks: rdf.NewBlankNodes("variant"),
	}
	if cfg.Strategy == config.ByID {
		r.seen = make(map[string]struct{})
	}
	return r
}

// Admit registers a record before any of its entries are resolved. Under
// the by-id strategy it fails when the identifier is missing or was seen
// before in this run.
func (r *Resolver) Admit(v *vcf.Variant) error {
	if r.seen == nil {
		return nil
	}
	if !v.HasID() {
		return fmt.Errorf("%w: record %s:%d has no identifier", ErrMissingOrDuplicateID, v.Chrom, v.Pos)
	}
	if _, dup := r.seen[v.ID]; dup {
		return fmt.Errorf("%w: identifier %q at %s:%d already used", ErrMissingOrDuplicateID, v.ID, v.Chrom, v.Pos)
	}
	r.seen[v.ID] = struct{}{}
	return nil
}

// Seen returns how many identifiers the by-id strategy holds.
func (r *Resolver) Seen() int {
	return len(r.seen)
}

// Resolve returns the subject of e.
func (r *Resolver) Resolve(e *Entry) (quad.Value, error) {
	switch s := r.cfg.Strategy; s {
	case config.BlankNode:
		return r.blanks.Next(), nil

	case config.ByID:
		// PathEscape turns a "/" inside an identifier into %2F, so the allele
		// segment cannot collide with another record's identifier.
		iri := r.cfg.Base + url.PathEscape(e.Variant.ID)
		if e.AltIndex >= 0 && len(e.Variant.Alt) > 1 {
			iri += "/" + strconv.Itoa(e.AltIndex+1)
		}
		return quad.IRI(iri), nil

	case config.ByLocation, config.NormalizedLocation:
		name := r.cfg.DisplayName(e.Variant.Chrom)
		return quad.IRI(r.cfg.Base + url.PathEscape(name) + "-" + e.Alleles(s.Normalized()).String()), nil

	case config.ByReference, config.NormalizedReference:
		ref, ok, err := r.cfg.ReferenceIRI(e.Variant.Chrom)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: contig %s", ErrNoReference, e.Variant.Chrom)
		}
		sep := "#"
		if strings.Contains(string(ref), "#") {
			sep = "-"
		}
		return quad.IRI(string(ref) + sep + e.Alleles(s.Normalized()).String()), nil

	default:
		return nil, fmt.Errorf("unsupported subject strategy %s", s)
	}
}
