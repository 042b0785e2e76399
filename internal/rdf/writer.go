package rdf

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// Writer streams triples as N-Triples lines.
type Writer struct {
	buf     *bufio.Writer
	enc     *nquads.Writer
	triples int64
}

// NewWriter creates an N-Triples writer on w.
func NewWriter(w io.Writer) *Writer {
	buf := bufio.NewWriterSize(w, 64*1024)
	return &Writer{buf: buf, enc: nquads.NewWriter(buf)}
}

// Write emits one triple.
func (w *Writer) Write(s, p, o quad.Value) error {
	if err := w.enc.WriteQuad(quad.Quad{Subject: s, Predicate: p, Object: o}); err != nil {
		return fmt.Errorf("write triple: %w", err)
	}
	w.triples++
	return nil
}

// Triples returns the number of triples written so far.
func (w *Writer) Triples() int64 {
	return w.triples
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// Close flushes and reports any deferred encoder error. The underlying
// writer is left open.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		return err
	}
	return w.Flush()
}
