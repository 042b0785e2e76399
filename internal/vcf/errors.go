package vcf

import (
	"errors"
	"fmt"
)

// Sentinel errors for the VCF reading layer. Concrete errors wrap one of
// these so callers can match with errors.Is.
var (
	ErrMalformedHeader = errors.New("malformed header")
	ErrMalformedRecord = errors.New("malformed record")
	ErrIO              = errors.New("i/o failure")
)

// HeaderError reports a meta-information line that could not be parsed.
type HeaderError struct {
	Line    int
	Message string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("vcf header error at line %d: %s", e.Line, e.Message)
}

func (e *HeaderError) Unwrap() error { return ErrMalformedHeader }

// ParseError represents an error during VCF parsing with line context.
type ParseError struct {
	Line    int
	Chrom   string
	Pos     int64
	Raw     string
	Message string
}

func (e *ParseError) Error() string {
	if e.Chrom != "" {
		return fmt.Sprintf("vcf parse error at line %d (%s:%d): %s", e.Line, e.Chrom, e.Pos, e.Message)
	}
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}

func (e *ParseError) Unwrap() error { return ErrMalformedRecord }

// IOError reports a failure to open or read the input.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("vcf %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }
