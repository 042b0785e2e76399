package vcf

import "strings"

// MissingValue is the VCF marker for an absent value.
const MissingValue = "."

// Variant represents a single decoded record from a VCF file.
// It is treated as a value: nothing downstream mutates it.
type Variant struct {
	Chrom  string   // Chromosome name (e.g., "12", "chr12")
	Pos    int64    // 1-based genomic position
	ID     string   // Variant identifier (e.g., rs ID), "." when missing
	Ref    string   // Reference allele
	Alt    []string // Alternate alleles in file order
	Qual   *float64 // Quality score, nil when missing
	Filter []string // Filter names; nil when missing, ["PASS"] when passed

	// Info holds decoded INFO values. Each element is int64, float64,
	// bool or string according to the header type, or nil for a missing
	// element. A flag is stored as []any{true}.
	Info map[string][]any

	Format  []string            // FORMAT keys
	Samples []map[string]string // per-sample FORMAT values, in header order
}

// HasID reports whether the record carries an identifier.
func (v *Variant) HasID() bool {
	return v.ID != "" && v.ID != MissingValue
}

// IsPass reports whether the record passed all filters.
func (v *Variant) IsPass() bool {
	return len(v.Filter) == 1 && v.Filter[0] == "PASS"
}

// NormalizeChrom strips a leading "chr" from a contig name.
func NormalizeChrom(name string) string {
	if len(name) > 3 && strings.EqualFold(name[:3], "chr") {
		return name[3:]
	}
	return name
}
