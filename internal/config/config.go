// Package config resolves the user's run configuration against a VCF header
// into an immutable RunConfig.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"github.com/inodb/vcf2rdf/internal/rdf"
	"github.com/inodb/vcf2rdf/internal/vcf"
)

// ErrInvalidConfig is returned for malformed or unsatisfiable configuration.
var ErrInvalidConfig = errors.New("invalid config")

// Strategy selects how record subjects are identified.
type Strategy int

// Subject strategies.
const (
	BlankNode Strategy = iota
	ByID
	ByLocation
	ByReference
	NormalizedLocation
	NormalizedReference
)

var strategyNames = map[Strategy]string{
	BlankNode:           "blank-node",
	ByID:                "by-id",
	ByLocation:          "by-location",
	ByReference:         "by-reference",
	NormalizedLocation:  "normalized-location",
	NormalizedReference: "normalized-reference",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// StrategyNames returns the accepted strategy names.
func StrategyNames() []string {
	names := make([]string, 0, len(strategyNames))
	for s := BlankNode; s <= NormalizedReference; s++ {
		names = append(names, strategyNames[s])
	}
	return names
}

// ParseStrategy parses a strategy name. The short forms "id", "location"
// and "reference" are accepted as well.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "blank-node", "blank", "bnode":
		return BlankNode, nil
	case "by-id", "id":
		return ByID, nil
	case "by-location", "location":
		return ByLocation, nil
	case "by-reference", "reference":
		return ByReference, nil
	case "normalized-location":
		return NormalizedLocation, nil
	case "normalized-reference":
		return NormalizedReference, nil
	}
	return 0, fmt.Errorf("%w: unknown subject strategy %q (want one of %s)",
		ErrInvalidConfig, s, strings.Join(StrategyNames(), ", "))
}

// Normalized reports whether subjects use normalized coordinates.
func (s Strategy) Normalized() bool {
	return s == NormalizedLocation || s == NormalizedReference
}

// NeedsReference reports whether subjects are anchored to reference IRIs.
func (s Strategy) NeedsReference() bool {
	return s == ByReference || s == NormalizedReference
}

// NeedsBase reports whether subjects are minted under the base IRI.
func (s Strategy) NeedsBase() bool {
	return s == ByID || s == ByLocation || s == NormalizedLocation
}

// SequenceRef maps one contig to a display name and reference IRI.
type SequenceRef struct {
	Name      string `mapstructure:"name" yaml:"name,omitempty"`
	Reference string `mapstructure:"reference" yaml:"reference,omitempty"`
}

// Document is the user configuration as written in YAML.
type Document struct {
	Base       string                  `mapstructure:"base"`
	Namespaces map[string]string       `mapstructure:"namespaces"`
	Info       *[]string               `mapstructure:"info"`
	Reference  map[string]*SequenceRef `mapstructure:"reference"`
	Subject    string                  `mapstructure:"subject"`
	Normalize  *bool                   `mapstructure:"normalize"`
}

// Options carries run settings supplied outside the document, typically by
// command-line flags. Non-zero values override the document.
type Options struct {
	Subject   string
	Normalize *bool
	PerRecord bool
	Logger    *zap.Logger
}

// RunConfig is the validated, read-only configuration of a conversion run.
type RunConfig struct {
	Base       string
	Namespaces *rdf.Namespaces
	Info       []string // retained INFO keys, header order
	Strategy   Strategy
	Normalize  bool
	PerRecord  bool

	retained  map[string]bool
	sequences map[string]SequenceRef
}

// Retains reports whether INFO key is converted.
func (c *RunConfig) Retains(key string) bool {
	return c.retained[key]
}

// Sequence returns the mapping configured for contig.
func (c *RunConfig) Sequence(contig string) (SequenceRef, bool) {
	s, ok := c.sequences[contig]
	return s, ok
}

// DisplayName returns the configured name of contig, or the contig itself.
func (c *RunConfig) DisplayName(contig string) string {
	if s, ok := c.sequences[contig]; ok && s.Name != "" {
		return s.Name
	}
	return contig
}

// ReferenceIRI expands the reference IRI configured for contig. It returns
// false when the contig has no reference mapping.
func (c *RunConfig) ReferenceIRI(contig string) (quad.IRI, bool, error) {
	s, ok := c.sequences[contig]
	if !ok || s.Reference == "" {
		return "", false, nil
	}
	iri, err := c.Namespaces.Expand(s.Reference)
	if err != nil {
		return "", false, fmt.Errorf("reference of contig %s: %w", contig, err)
	}
	return iri, true, nil
}

// HasReferences reports whether any contig has a reference mapping.
func (c *RunConfig) HasReferences() bool {
	for _, s := range c.sequences {
		if s.Reference != "" {
			return true
		}
	}
	return false
}

// Decode converts a generic configuration tree into a Document. A nil tree
// yields an empty Document.
func Decode(tree any) (*Document, error) {
	doc := &Document{}
	if tree == nil {
		return doc, nil
	}
	if _, ok := tree.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: document must be a mapping, got %T", ErrInvalidConfig, tree)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           doc,
		WeaklyTypedInput: false,
		ZeroFields:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("create config decoder: %w", err)
	}
	if err := dec.Decode(tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return doc, nil
}

// Resolve builds the RunConfig for a run over hdr. tree is the deserialized
// configuration document, or nil when none was supplied.
func Resolve(tree any, hdr *vcf.Header, opts Options) (*RunConfig, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	doc, err := Decode(tree)
	if err != nil {
		return nil, err
	}

	subject := doc.Subject
	if opts.Subject != "" {
		subject = opts.Subject
	}
	strategy, err := ParseStrategy(subject)
	if err != nil {
		return nil, err
	}

	normalize := true
	if doc.Normalize != nil {
		normalize = *doc.Normalize
	}
	if opts.Normalize != nil {
		normalize = *opts.Normalize
	}

	if doc.Base != "" && !rdf.IsAbsolute(doc.Base) {
		return nil, fmt.Errorf("%w: base %q is not an absolute IRI", ErrInvalidConfig, doc.Base)
	}
	for prefix, iri := range doc.Namespaces {
		if iri != "" && !rdf.IsAbsolute(iri) {
			return nil, fmt.Errorf("%w: namespace %s: %q is not an absolute IRI", ErrInvalidConfig, prefix, iri)
		}
	}

	cfg := &RunConfig{
		Base:       doc.Base,
		Namespaces: rdf.NewNamespaces(doc.Base, doc.Namespaces),
		Strategy:   strategy,
		Normalize:  normalize,
		PerRecord:  opts.PerRecord,
		retained:   make(map[string]bool),
		sequences:  make(map[string]SequenceRef),
	}

	cfg.Info = resolveInfo(doc.Info, hdr, logger)
	for _, k := range cfg.Info {
		cfg.retained[k] = true
	}

	contigs := make([]string, 0, len(doc.Reference))
	for name := range doc.Reference {
		contigs = append(contigs, name)
	}
	sort.Strings(contigs)
	for _, name := range contigs {
		if len(hdr.Contigs) > 0 {
			if _, ok := hdr.Contig(name); !ok {
				logger.Warn("ignoring reference mapping for undeclared contig", zap.String("contig", name))
				continue
			}
		}
		ref := doc.Reference[name]
		if ref == nil {
			logger.Info("contig has no reference mapping", zap.String("contig", name))
			continue
		}
		cfg.sequences[name] = *ref
	}

	if strategy.NeedsReference() && !cfg.HasReferences() {
		return nil, fmt.Errorf("%w: subject strategy %s requires a reference mapping", ErrInvalidConfig, strategy)
	}
	if strategy.NeedsBase() && cfg.Base == "" {
		return nil, fmt.Errorf("%w: subject strategy %s requires a base IRI", ErrInvalidConfig, strategy)
	}

	return cfg, nil
}

// resolveInfo returns the retained INFO keys in header order. A nil list
// retains every declared key.
func resolveInfo(list *[]string, hdr *vcf.Header, logger *zap.Logger) []string {
	if list == nil {
		return hdr.InfoKeys()
	}

	wanted := make(map[string]bool, len(*list))
	for _, k := range *list {
		if _, ok := hdr.Info(k); !ok {
			logger.Warn("ignoring INFO key not declared in header", zap.String("key", k))
			continue
		}
		wanted[k] = true
	}

	keys := make([]string, 0, len(wanted))
	for _, k := range hdr.InfoKeys() {
		if wanted[k] {
			keys = append(keys, k)
		}
	}
	return keys
}
