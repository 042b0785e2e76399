// Package convert drives a conversion run: it pulls records from a parser,
// resolves subjects and locations, and streams triples to a writer.
package convert

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/cayleygraph/quad"
	"go.uber.org/zap"

	"github.com/inodb/vcf2rdf/internal/config"
	"github.com/inodb/vcf2rdf/internal/faldo"
	"github.com/inodb/vcf2rdf/internal/stats"
	"github.com/inodb/vcf2rdf/internal/subject"
	"github.com/inodb/vcf2rdf/internal/vcf"
)

// Policy decides what happens to a record that cannot be decoded.
type Policy int

const (
	// Abort fails the run on the first malformed record.
	Abort Policy = iota
	// BestEffort skips malformed records and counts them.
	BestEffort
)

// ParsePolicy parses "abort" or "best-effort".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "abort":
		return Abort, nil
	case "best-effort", "skip":
		return BestEffort, nil
	}
	return Abort, fmt.Errorf("unknown policy %q (want abort or best-effort)", s)
}

// Options controls a run.
type Options struct {
	// Rehearsal stops after the first record.
	Rehearsal bool
	Policy    Policy
	Logger    *zap.Logger
}

// TripleWriter receives the serialized output.
type TripleWriter interface {
	Write(s, p, o quad.Value) error
	Flush() error
}

// ErrConsumed is returned when a Run is driven a second time.
var ErrConsumed = errors.New("run already consumed; reopen the input")

// Run is one pass over one input. Its state (blank node counters, the
// identifier set, statistics) lives only as long as the Run.
type Run struct {
	cfg      *config.RunConfig
	src      vcf.VariantParser
	opts     Options
	logger   *zap.Logger
	agg      *stats.Aggregator
	consumed bool
}

// NewRun prepares a run over src.
func NewRun(cfg *config.RunConfig, src vcf.VariantParser, opts Options) *Run {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Run{
		cfg:    cfg,
		src:    src,
		opts:   opts,
		logger: logger,
		agg:    stats.NewAggregator(src.Header()),
	}
}

// Convert streams the triples of every record to w and returns the run
// statistics. Each record is written completely before the next is read.
func (r *Run) Convert(ctx context.Context, w TripleWriter) (*stats.Report, error) {
	if r.consumed {
		return nil, ErrConsumed
	}
	r.consumed = true

	emitter, err := NewEmitter(r.cfg, r.src.Header())
	if err != nil {
		return nil, err
	}
	resolver := subject.NewResolver(r.cfg)

	var buf []quad.Quad
	err = r.each(ctx, func(v *vcf.Variant) error {
		if err := resolver.Admit(v); err != nil {
			return err
		}

		entries, reason := r.entries(v)
		emitted := 0
		for i := range entries {
			e := &entries[i]
			if e.Variant == nil {
				r.agg.SkipAllele()
				continue
			}

			subj, err := resolver.Resolve(e)
			if errors.Is(err, subject.ErrNoReference) {
				r.logger.Warn("skipping record on contig without reference",
					zap.String("chrom", v.Chrom),
					zap.Int64("pos", v.Pos))
				r.agg.SkipAllele()
				reason = stats.ReasonNoReference
				continue
			}
			if err != nil {
				return err
			}

			region, kind, err := faldo.LocateSet(e.Raw, r.cfg.Normalize)
			if err != nil {
				return fmt.Errorf("locate %s:%d: %w", v.Chrom, v.Pos, err)
			}

			buf, err = emitter.Emit(buf[:0], subj, e, kind, region)
			if err != nil {
				return fmt.Errorf("emit %s:%d: %w", v.Chrom, v.Pos, err)
			}
			for _, q := range buf {
				if err := w.Write(q.Subject, q.Predicate, q.Object); err != nil {
					return err
				}
			}
			r.agg.Emitted(kind.String(), len(buf))
			emitted++
		}

		if emitted == 0 {
			r.agg.Skip(reason)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("flush output: %w", err)
	}
	return r.agg.Report(), nil
}

// Stats counts records without converting them.
func (r *Run) Stats(ctx context.Context) (*stats.Report, error) {
	if r.consumed {
		return nil, ErrConsumed
	}
	r.consumed = true

	if err := r.each(ctx, func(*vcf.Variant) error { return nil }); err != nil {
		return nil, err
	}
	return r.agg.Report(), nil
}

// each pulls records until the input, the rehearsal limit or ctx ends.
// Every decoded record is counted before fn sees it.
func (r *Run) each(ctx context.Context, fn func(*vcf.Variant) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		v, err := r.src.Next()
		if err != nil {
			if errors.Is(err, vcf.ErrMalformedRecord) && r.opts.Policy == BestEffort {
				r.logger.Warn("skipping malformed record", zap.Error(err))
				r.agg.Malformed()
				continue
			}
			return fmt.Errorf("read variant: %w", err)
		}
		if v == nil {
			break
		}

		r.agg.Add(v)
		if err := fn(v); err != nil {
			return err
		}

		if r.opts.Rehearsal {
			break
		}
	}

	if r.agg.Records() == 0 {
		r.logger.Info("0 variants processed")
	}
	return nil
}

// entries expands v into the units that receive a subject: one per
// alternate allele, or one for the whole record in per-record mode.
// Invalid units are left with a nil Variant; the returned reason explains
// a record none of whose units is valid.
func (r *Run) entries(v *vcf.Variant) ([]subject.Entry, string) {
	if len(v.Alt) == 0 {
		r.logger.Debug("record has no alternate allele",
			zap.String("chrom", v.Chrom),
			zap.Int64("pos", v.Pos))
		return nil, stats.ReasonNoAlternate
	}

	var sets []faldo.Set
	indexes := []int{-1}
	if r.cfg.PerRecord {
		sets = []faldo.Set{{Pos: v.Pos, Ref: v.Ref, Alts: v.Alt}}
	} else {
		indexes = indexes[:0]
		for i, alt := range v.Alt {
			sets = append(sets, faldo.Set{Pos: v.Pos, Ref: v.Ref, Alts: []string{alt}})
			indexes = append(indexes, i)
		}
	}

	out := make([]subject.Entry, len(sets))
	for i, raw := range sets {
		if !validAlleles(raw) {
			r.logger.Warn("skipping unsupported allele",
				zap.String("chrom", v.Chrom),
				zap.Int64("pos", v.Pos),
				zap.String("alleles", raw.String()))
			continue
		}
		norm, err := faldo.NormalizeSet(raw)
		if err != nil {
			r.logger.Warn("skipping allele that cannot be normalized",
				zap.String("chrom", v.Chrom),
				zap.Int64("pos", v.Pos),
				zap.String("alleles", raw.String()),
				zap.Error(err))
			continue
		}
		out[i] = subject.Entry{Variant: v, AltIndex: indexes[i], Raw: raw, Normalized: norm}
	}
	return out, stats.ReasonInvalidAllele
}

var alleleRe = regexp.MustCompile(`^(?i:[ACGTURYKMSWBDHVN]+|\.|\*)$`)

func validAlleles(s faldo.Set) bool {
	if !alleleRe.MatchString(s.Ref) {
		return false
	}
	for _, a := range s.Alts {
		if !alleleRe.MatchString(a) {
			return false
		}
	}
	return true
}
