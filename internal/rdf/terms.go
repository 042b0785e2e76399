package rdf

import (
	"math"
	"strconv"

	"github.com/cayleygraph/quad"
)

// BlankNodes hands out sequential blank node labels with a fixed prefix.
// Labels depend only on call order, so output is reproducible.
type BlankNodes struct {
	prefix string
	next   uint64
}

// NewBlankNodes returns a generator producing prefix1, prefix2, ...
func NewBlankNodes(prefix string) *BlankNodes {
	return &BlankNodes{prefix: prefix}
}

// Next returns a fresh blank node.
func (b *BlankNodes) Next() quad.BNode {
	b.next++
	return quad.BNode(b.prefix + strconv.FormatUint(b.next, 10))
}

// Issued returns how many labels have been handed out.
func (b *BlankNodes) Issued() uint64 {
	return b.next
}

// Integer returns an xsd:integer literal.
func Integer(n int64) quad.Value {
	return quad.TypedString{Value: quad.String(strconv.FormatInt(n, 10)), Type: quad.IRI(NSXsd + "integer")}
}

// Double returns an xsd:double literal using the canonical special values.
func Double(f float64) quad.Value {
	var lex string
	switch {
	case math.IsNaN(f):
		lex = "NaN"
	case math.IsInf(f, 1):
		lex = "INF"
	case math.IsInf(f, -1):
		lex = "-INF"
	default:
		lex = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return quad.TypedString{Value: quad.String(lex), Type: quad.IRI(NSXsd + "double")}
}

// Boolean returns an xsd:boolean literal.
func Boolean(b bool) quad.Value {
	return quad.TypedString{Value: quad.String(strconv.FormatBool(b)), Type: quad.IRI(NSXsd + "boolean")}
}

// String returns a plain string literal.
func String(s string) quad.Value {
	return quad.String(s)
}

// Literal converts a decoded VCF value (int64, float64, bool or string)
// to a typed literal. It returns nil for a missing value.
func Literal(v any) quad.Value {
	switch x := v.(type) {
	case int64:
		return Integer(x)
	case float64:
		return Double(x)
	case bool:
		return Boolean(x)
	case string:
		return String(x)
	default:
		return nil
	}
}
