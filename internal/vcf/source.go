package vcf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// IndexSuffixes lists the accepted positional index extensions, checked in order.
var IndexSuffixes = []string{".tbi", ".csi"}

// Open opens a bgzip-compressed, tabix-indexed VCF file and reads its header.
// The path "-" reads plain or gzip input from stdin without an index.
func Open(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	if _, err := FindIndex(path); err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: fmt.Errorf("open vcf file: %w", err)}
	}

	gz, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, &IOError{Path: path, Err: fmt.Errorf("not a bgzip file: %w", err)}
	}
	if !IsBGZF(gz.Header.Extra) {
		gz.Close()
		file.Close()
		return nil, &IOError{Path: path, Err: errors.New("not a bgzip file: missing BGZF extra field")}
	}

	p := &Parser{
		path:    path,
		reader:  bufio.NewReader(gz),
		closers: []io.Closer{gz, file},
	}
	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// FindIndex returns the path of the index file next to path.
func FindIndex(path string) (string, error) {
	for _, suffix := range IndexSuffixes {
		candidate := path + suffix
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("index file not found: %s.tbi", path)
}

// IsBGZF reports whether a gzip member's extra field carries the BGZF
// "BC" subfield.
func IsBGZF(extra []byte) bool {
	for len(extra) >= 4 {
		si1, si2 := extra[0], extra[1]
		n := int(extra[2]) | int(extra[3])<<8
		if len(extra) < 4+n {
			return false
		}
		if si1 == 'B' && si2 == 'C' && n == 2 {
			return true
		}
		extra = extra[4+n:]
	}
	return false
}
