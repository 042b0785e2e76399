// Package rdf holds the RDF term helpers, the output vocabulary and the
// line-based N-Triples writer.
package rdf

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cayleygraph/quad"
)

// ErrUnresolvedNamespace is returned when an IRI uses an undeclared prefix.
var ErrUnresolvedNamespace = errors.New("unresolved namespace")

// Built-in namespace IRIs.
const (
	NSDct   = "http://purl.org/dc/terms/"
	NSFaldo = "http://biohackathon.org/resource/faldo#"
	NSGvo   = "http://genome-variation.org/resource#"
	NSHco   = "http://identifiers.org/hco/"
	NSObo   = "http://purl.obolibrary.org/obo/"
	NSRdf   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSRdfs  = "http://www.w3.org/2000/01/rdf-schema#"
	NSSio   = "http://semanticscience.org/resource/"
	NSXsd   = "http://www.w3.org/2001/XMLSchema#"
)

// Builtins returns the fixed prefix table every run starts from.
func Builtins() map[string]string {
	return map[string]string{
		"dct":   NSDct,
		"faldo": NSFaldo,
		"gvo":   NSGvo,
		"hco":   NSHco,
		"obo":   NSObo,
		"rdf":   NSRdf,
		"rdfs":  NSRdfs,
		"sio":   NSSio,
		"xsd":   NSXsd,
	}
}

// Namespaces maps prefixes to namespace IRIs and expands CURIEs.
// It is read-only after construction.
type Namespaces struct {
	base     string
	prefixes map[string]string
}

// NewNamespaces merges user prefixes over the built-ins. A prefix mapped to
// an empty IRI is treated as undeclared.
func NewNamespaces(base string, user map[string]string) *Namespaces {
	prefixes := Builtins()
	for p, iri := range user {
		if iri == "" {
			delete(prefixes, p)
			continue
		}
		prefixes[p] = iri
	}
	return &Namespaces{base: base, prefixes: prefixes}
}

// Base returns the base IRI, empty when unset.
func (n *Namespaces) Base() string {
	return n.base
}

// Lookup returns the IRI declared for prefix.
func (n *Namespaces) Lookup(prefix string) (string, bool) {
	iri, ok := n.prefixes[prefix]
	return iri, ok
}

// Prefixes returns the declared prefixes in sorted order.
func (n *Namespaces) Prefixes() []string {
	out := make([]string, 0, len(n.prefixes))
	for p := range n.prefixes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Term expands prefix:local against the declared prefixes.
func (n *Namespaces) Term(prefix, local string) (quad.IRI, error) {
	iri, ok := n.prefixes[prefix]
	if !ok {
		return "", fmt.Errorf("%w: prefix %q in %s:%s", ErrUnresolvedNamespace, prefix, prefix, local)
	}
	return quad.IRI(iri + local), nil
}

// Expand resolves an IRI written as an absolute IRI, a CURIE or a value
// relative to the base IRI.
func (n *Namespaces) Expand(s string) (quad.IRI, error) {
	if IsAbsolute(s) {
		return quad.IRI(s), nil
	}
	if prefix, local, ok := strings.Cut(s, ":"); ok {
		return n.Term(prefix, local)
	}
	if n.base == "" {
		return "", fmt.Errorf("%w: relative IRI %q without base", ErrUnresolvedNamespace, s)
	}
	return quad.IRI(n.base + s), nil
}

// IsAbsolute reports whether s looks like an absolute IRI rather than a CURIE.
func IsAbsolute(s string) bool {
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok || scheme == "" {
		return false
	}
	if strings.HasPrefix(rest, "//") {
		return true
	}
	switch strings.ToLower(scheme) {
	case "urn", "mailto", "tag":
		return true
	}
	return false
}
