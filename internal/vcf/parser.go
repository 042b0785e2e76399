package vcf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Parser reads variants from a VCF stream. It is forward-only: restart by
// opening the input again.
type Parser struct {
	path        string
	reader      *bufio.Reader
	closers     []io.Closer
	lineNumber  int
	headerLines []string
	header      *Header
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
// Gzip and BGZF input is detected from the magic bytes.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	br := bufio.NewReader(r)
	p := &Parser{path: "-", reader: br}

	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, &IOError{Path: "-", Err: fmt.Errorf("read vcf header: %w", err)}
	}
	if bytes.Equal(magic, []byte{0x1f, 0x8b}) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, &IOError{Path: "-", Err: fmt.Errorf("create gzip reader: %w", err)}
		}
		p.closers = append(p.closers, gz)
		p.reader = bufio.NewReader(gz)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// parseHeader reads the meta-information lines and the #CHROM line.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				break
			}
			return &IOError{Path: p.path, Err: fmt.Errorf("read header: %w", err)}
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "##") {
			p.headerLines = append(p.headerLines, line)
			continue
		}

		if strings.HasPrefix(line, "#CHROM") {
			p.headerLines = append(p.headerLines, line)
			h, err := ParseHeader(p.headerLines)
			if err != nil {
				return err
			}
			p.header = h
			return nil
		}

		return &HeaderError{
			Line:    p.lineNumber,
			Message: "expected #CHROM header line",
		}
	}

	return &HeaderError{
		Line:    p.lineNumber,
		Message: "no #CHROM header line found",
	}
}

// Next reads the next variant from the VCF stream.
// Returns nil, nil when there are no more variants.
func (p *Parser) Next() (*Variant, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil, nil
			}
			return nil, &IOError{Path: p.path, Err: fmt.Errorf("read variant line: %w", err)}
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		return p.parseLine(line)
	}
}

// parseLine decodes a single VCF data line into a Variant.
func (p *Parser) parseLine(line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	fail := func(v *Variant, format string, args ...any) (*Variant, error) {
		e := &ParseError{Line: p.lineNumber, Raw: line, Message: fmt.Sprintf(format, args...)}
		if v != nil {
			e.Chrom, e.Pos = v.Chrom, v.Pos
		}
		return nil, e
	}

	if len(fields) < 8 {
		return fail(nil, "expected at least 8 columns, found %d", len(fields))
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || pos < 0 {
		return fail(nil, "invalid position: %s", fields[1])
	}

	v := &Variant{
		Chrom: fields[0],
		Pos:   pos,
		ID:    fields[2],
		Ref:   fields[3],
	}
	if v.Chrom == "" {
		return fail(nil, "empty CHROM")
	}
	if v.Ref == "" || v.Ref == MissingValue {
		return fail(v, "missing reference allele")
	}

	if fields[4] != MissingValue {
		v.Alt = strings.Split(fields[4], ",")
		for _, a := range v.Alt {
			if a == "" {
				return fail(v, "empty alternate allele in %q", fields[4])
			}
		}
	}

	if fields[5] != MissingValue {
		q, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return fail(v, "invalid quality: %s", fields[5])
		}
		v.Qual = &q
	}

	if fields[6] != MissingValue {
		v.Filter = strings.Split(fields[6], ";")
	}

	info, err := p.parseInfo(fields[7])
	if err != nil {
		return fail(v, "%v", err)
	}
	v.Info = info

	if len(fields) > 8 {
		v.Format = strings.Split(fields[8], ":")
		for _, col := range fields[9:] {
			values := strings.Split(col, ":")
			sample := make(map[string]string, len(v.Format))
			for i, key := range v.Format {
				if i < len(values) {
					sample[key] = values[i]
				}
			}
			v.Samples = append(v.Samples, sample)
		}
	}

	return v, nil
}

// parseInfo decodes the INFO column against the header declarations.
// Undeclared keys are kept as strings.
func (p *Parser) parseInfo(info string) (map[string][]any, error) {
	result := make(map[string][]any)
	if info == MissingValue || info == "" {
		return result, nil
	}

	for _, kv := range strings.Split(info, ";") {
		if kv == "" {
			continue
		}
		key, raw, hasValue := strings.Cut(kv, "=")

		def, declared := p.header.Info(key)
		if !declared {
			def = FieldDef{ID: key, Number: Number{Arity: ArityVariable}, Type: TypeString}
			if !hasValue {
				def.Type = TypeFlag
			}
		}

		if def.Type == TypeFlag {
			result[key] = []any{true}
			continue
		}
		if !hasValue {
			return nil, fmt.Errorf("INFO %s: missing value", key)
		}

		parts := strings.Split(raw, ",")
		values := make([]any, len(parts))
		for i, s := range parts {
			val, err := decodeValue(def.Type, s)
			if err != nil {
				return nil, fmt.Errorf("INFO %s: %w", key, err)
			}
			values[i] = val
		}
		result[key] = values
	}

	return result, nil
}

func decodeValue(t Type, s string) (any, error) {
	if s == MissingValue {
		return nil, nil
	}
	switch t {
	case TypeInteger:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return n, nil
	case TypeFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q", s)
		}
		return f, nil
	default:
		return s, nil
	}
}

// Header returns the parsed header schema.
func (p *Parser) Header() *Header {
	return p.header
}

// HeaderLines returns the raw meta-information lines including #CHROM.
func (p *Parser) HeaderLines() []string {
	return p.headerLines
}

// SampleNames returns sample names from the #CHROM header line.
func (p *Parser) SampleNames() []string {
	return p.header.Samples
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying readers, innermost first.
func (p *Parser) Close() error {
	var first error
	for _, c := range p.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	p.closers = nil
	return first
}
