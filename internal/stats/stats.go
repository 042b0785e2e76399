// Package stats folds a stream of variant records into summary counts.
package stats

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/inodb/vcf2rdf/internal/vcf"
)

// Skip reasons.
const (
	ReasonNoReference   = "no_reference"
	ReasonInvalidAllele = "invalid_allele"
	ReasonNoAlternate   = "no_alternate"
	ReasonMalformed     = "malformed"
)

// Aggregator accumulates counters without retaining records.
type Aggregator struct {
	records        int64
	skipped        int64
	skippedAlleles int64
	malformed      int64
	emitted        int64
	triples        int64

	contigOrder []string
	contigs     map[string]int64
	filters     map[string]int64
	info        map[string]int64
	kinds       map[string]int64
	reasons     map[string]int64
}

// NewAggregator creates an aggregator. Contigs are reported in header
// declaration order, then in order of first appearance.
func NewAggregator(hdr *vcf.Header) *Aggregator {
	a := &Aggregator{
		contigs: make(map[string]int64),
		filters: make(map[string]int64),
		info:    make(map[string]int64),
		kinds:   make(map[string]int64),
		reasons: make(map[string]int64),
	}
	if hdr != nil {
		for _, c := range hdr.Contigs {
			a.contigOrder = append(a.contigOrder, c.Name)
			a.contigs[c.Name] = 0
		}
	}
	return a
}

// Add counts one decoded record.
func (a *Aggregator) Add(v *vcf.Variant) {
	a.records++

	if _, ok := a.contigs[v.Chrom]; !ok {
		a.contigOrder = append(a.contigOrder, v.Chrom)
	}
	a.contigs[v.Chrom]++

	if len(v.Filter) == 0 {
		a.filters[vcf.MissingValue]++
	}
	for _, f := range v.Filter {
		a.filters[f]++
	}
	for k := range v.Info {
		a.info[k]++
	}
}

// Skip counts a record that produced no output.
func (a *Aggregator) Skip(reason string) {
	a.skipped++
	a.reasons[reason]++
}

// SkipAllele counts one dropped allele entry.
func (a *Aggregator) SkipAllele() {
	a.skippedAlleles++
}

// Malformed counts a record that could not be decoded and was skipped.
func (a *Aggregator) Malformed() {
	a.malformed++
	a.Skip(ReasonMalformed)
}

// Emitted counts one converted entry of the given kind and its triples.
func (a *Aggregator) Emitted(kind string, triples int) {
	a.emitted++
	a.kinds[kind]++
	a.triples += int64(triples)
}

// Records returns the number of records counted so far.
func (a *Aggregator) Records() int64 {
	return a.records
}

// Count is one named counter.
type Count struct {
	Name  string `yaml:"name"`
	Count int64  `yaml:"count"`
}

// Report is the final, deterministic summary of a run.
type Report struct {
	Records        int64   `yaml:"records"`
	Skipped        int64   `yaml:"skipped"`
	SkippedAlleles int64   `yaml:"skipped_alleles"`
	Malformed      int64   `yaml:"malformed"`
	Emitted        int64   `yaml:"emitted"`
	Triples        int64   `yaml:"triples"`
	Contigs        []Count `yaml:"contigs,omitempty"`
	Filters        []Count `yaml:"filters,omitempty"`
	Info           []Count `yaml:"info,omitempty"`
	Kinds          []Count `yaml:"kinds,omitempty"`
	SkipReasons    []Count `yaml:"skip_reasons,omitempty"`
}

// Report returns a snapshot of the counters.
func (a *Aggregator) Report() *Report {
	r := &Report{
		Records:        a.records,
		Skipped:        a.skipped,
		SkippedAlleles: a.skippedAlleles,
		Malformed:      a.malformed,
		Emitted:        a.emitted,
		Triples:        a.triples,
		Filters:        sorted(a.filters),
		Info:           sorted(a.info),
		Kinds:          sorted(a.kinds),
		SkipReasons:    sorted(a.reasons),
	}
	for _, name := range a.contigOrder {
		if n := a.contigs[name]; n > 0 {
			r.Contigs = append(r.Contigs, Count{Name: name, Count: n})
		}
	}
	return r
}

func sorted(m map[string]int64) []Count {
	if len(m) == 0 {
		return nil
	}
	out := make([]Count, 0, len(m))
	for k, n := range m {
		out = append(out, Count{Name: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// YAML renders the report.
func (r *Report) YAML() ([]byte, error) {
	out, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return out, nil
}
