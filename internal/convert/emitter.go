package convert

import (
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/inodb/vcf2rdf/internal/config"
	"github.com/inodb/vcf2rdf/internal/faldo"
	"github.com/inodb/vcf2rdf/internal/rdf"
	"github.com/inodb/vcf2rdf/internal/subject"
	"github.com/inodb/vcf2rdf/internal/vcf"
)

const (
	commentPerAllele = "This field contains two values, the first is the value for the reference allele and the second is the value for the alternate allele."
	commentAllAllele = "This field has one value for each allele, the reference allele first."
	commentGenotype  = "The field has one value for each possible genotype."
)

// Emitter maps one entry to its triples. Output order is fixed: type,
// identifier, alleles, quality, filters, location, then INFO groups in
// header declaration order.
type Emitter struct {
	cfg   *config.RunConfig
	hdr   *vcf.Header
	vocab *rdf.Vocab
	nodes *rdf.BlankNodes
}

// NewEmitter resolves the output vocabulary for cfg. It fails with
// rdf.ErrUnresolvedNamespace when a required prefix is undeclared.
func NewEmitter(cfg *config.RunConfig, hdr *vcf.Header) (*Emitter, error) {
	vocab, err := rdf.NewVocab(cfg.Namespaces)
	if err != nil {
		return nil, fmt.Errorf("resolve vocabulary: %w", err)
	}
	return &Emitter{
		cfg:   cfg,
		hdr:   hdr,
		vocab: vocab,
		nodes: rdf.NewBlankNodes("node"),
	}, nil
}

// Emit appends the triples of entry e, identified by subj, to dst.
func (em *Emitter) Emit(dst []quad.Quad, subj quad.Value, e *subject.Entry, kind faldo.Kind, region faldo.Region) ([]quad.Quad, error) {
	v := em.vocab
	rec := e.Variant
	add := func(s, p, o quad.Value) {
		dst = append(dst, quad.Quad{Subject: s, Predicate: p, Object: o})
	}

	add(subj, v.Type, v.Class(kind.String()))

	if rec.HasID() {
		add(subj, v.Identifier, rdf.String(rec.ID))
	}

	alleles := e.Alleles(em.cfg.Normalize)
	add(subj, v.Ref, rdf.String(alleles.Ref))
	for _, alt := range alleles.Alts {
		add(subj, v.Alt, rdf.String(alt))
	}

	if rec.Qual != nil {
		add(subj, v.Qual, rdf.Double(*rec.Qual))
	}
	for _, f := range rec.Filter {
		add(subj, v.Filter, rdf.String(f))
	}

	ref, mapped, err := em.cfg.ReferenceIRI(rec.Chrom)
	if err != nil {
		return dst, err
	}
	loc := em.nodes.Next()
	add(subj, v.Location, loc)
	if region.IsPoint() {
		dst = em.position(dst, loc, region.Begin, ref, mapped)
	} else {
		begin, end := em.nodes.Next(), em.nodes.Next()
		add(loc, v.Type, v.Region)
		add(loc, v.Begin, begin)
		add(loc, v.End, end)
		dst = em.position(dst, begin, region.Begin, ref, mapped)
		dst = em.position(dst, end, region.End, ref, mapped)
	}

	for _, key := range em.cfg.Info {
		values, ok := rec.Info[key]
		if !ok {
			continue
		}
		def, _ := em.hdr.Info(key)
		dst = em.info(dst, subj, def, values, e.AltIndex)
	}

	return dst, nil
}

func (em *Emitter) position(dst []quad.Quad, node quad.Value, p faldo.Position, ref quad.IRI, mapped bool) []quad.Quad {
	v := em.vocab
	add := func(s, p, o quad.Value) {
		dst = append(dst, quad.Quad{Subject: s, Predicate: p, Object: o})
	}

	if p.InBetween {
		add(node, v.Type, v.InBetween)
		add(node, v.Type, v.ForwardStrandPos)
		add(node, v.After, rdf.Integer(p.After))
		add(node, v.Before, rdf.Integer(p.Before))
	} else {
		add(node, v.Type, v.ExactPosition)
		add(node, v.Type, v.ForwardStrandPos)
		add(node, v.Position, rdf.Integer(p.Pos))
	}
	if mapped {
		add(node, v.Reference, ref)
	}
	return dst
}

// info emits one gvo:info group. Values are selected by the declared
// arity; missing elements are dropped and an empty selection emits nothing.
func (em *Emitter) info(dst []quad.Quad, subj quad.Value, def vcf.FieldDef, values []any, alt int) []quad.Quad {
	var (
		selected []any
		scalar   bool
		comment  string
	)

	switch n := def.Number; n.Arity {
	case vcf.ArityFixed:
		count := n.Count
		if def.Type == vcf.TypeFlag {
			count = 1
		}
		selected = values[:min(count, len(values))]
		scalar = count <= 1
	case vcf.ArityPerAlt:
		if alt >= 0 {
			if alt < len(values) {
				selected = values[alt : alt+1]
			}
			scalar = true
		} else {
			selected = values
		}
	case vcf.ArityPerAllele:
		if alt >= 0 {
			if len(values) > 0 {
				selected = append(selected, values[0])
			}
			if alt+1 < len(values) {
				selected = append(selected, values[alt+1])
			}
			// The pair comment only holds when neither value is missing.
			if len(selected) == 2 && selected[0] != nil && selected[1] != nil {
				comment = commentPerAllele
			}
		} else {
			selected = values
			comment = commentAllAllele
		}
	case vcf.ArityPerGenotype:
		selected = values
		comment = commentGenotype
	default:
		selected = values
	}

	literals := make([]quad.Value, 0, len(selected))
	for _, val := range selected {
		if lit := rdf.Literal(val); lit != nil {
			literals = append(literals, lit)
		}
	}
	if len(literals) == 0 {
		return dst
	}

	v := em.vocab
	node := em.nodes.Next()
	dst = append(dst,
		quad.Quad{Subject: subj, Predicate: v.Info, Object: node},
		quad.Quad{Subject: node, Predicate: v.Label, Object: rdf.String(def.ID)},
	)

	if scalar {
		dst = append(dst, quad.Quad{Subject: node, Predicate: v.Value, Object: literals[0]})
	} else {
		cells := make([]quad.BNode, len(literals))
		for i := range cells {
			cells[i] = em.nodes.Next()
		}
		dst = append(dst, quad.Quad{Subject: node, Predicate: v.Value, Object: cells[0]})
		for i, cell := range cells {
			var rest quad.Value = v.Nil
			if i+1 < len(cells) {
				rest = cells[i+1]
			}
			dst = append(dst,
				quad.Quad{Subject: cell, Predicate: v.First, Object: literals[i]},
				quad.Quad{Subject: cell, Predicate: v.Rest, Object: rest},
			)
		}
	}

	if comment != "" {
		dst = append(dst, quad.Quad{Subject: node, Predicate: v.Comment, Object: rdf.String(comment)})
	}
	return dst
}
