package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/inodb/vcf2rdf/internal/vcf"
)

// Generate writes a configuration skeleton for hdr: every INFO key and
// every contig, with reference IRIs filled from asm when it is non-nil.
func Generate(hdr *vcf.Header, asm *Assembly) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	addPair(root, "base", null(), "Set base IRI if needed.")
	addPair(root, "namespaces", null(), "Additional namespaces.")

	info := &yaml.Node{Kind: yaml.SequenceNode}
	for _, k := range hdr.InfoKeys() {
		info.Content = append(info.Content, str(k))
	}
	addPair(root, "info", info, "Remove unnecessary keys to convert.")

	if len(hdr.Contigs) > 0 {
		refs := &yaml.Node{Kind: yaml.MappingNode}
		for _, c := range hdr.Contigs {
			var seq *Sequence
			if asm != nil {
				if s, ok := asm.FindSequence(c.Name); ok {
					seq = &s
				}
			}
			if seq == nil {
				addPair(refs, c.Name, null(), "")
				continue
			}
			entry := &yaml.Node{Kind: yaml.MappingNode}
			addPair(entry, "name", str(seq.Name), "")
			addPair(entry, "reference", str(seq.Reference), "")
			addPair(refs, c.Name, entry, "")
		}
		comment := "Reference sequence for each contig. Records on contigs without a reference are skipped by reference-based subjects."
		if asm != nil {
			comment = fmt.Sprintf("Reference sequences from %s (GenBank %s, RefSeq %s).", asm.Name, asm.GenBank, asm.RefSeq)
		}
		addPair(root, "reference", refs, comment)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

func addPair(m *yaml.Node, key string, value *yaml.Node, comment string) {
	k := str(key)
	if comment != "" {
		k.HeadComment = comment
	}
	m.Content = append(m.Content, k, value)
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func null() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "~"}
}
