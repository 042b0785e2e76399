package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the declared value type of an INFO or FORMAT field.
type Type int

// Field value types.
const (
	TypeString Type = iota
	TypeInteger
	TypeFloat
	TypeFlag
	TypeCharacter
)

// String returns the VCF spelling of the type.
func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeFlag:
		return "Flag"
	case TypeCharacter:
		return "Character"
	default:
		return "String"
	}
}

func parseType(s string) (Type, bool) {
	switch s {
	case "Integer":
		return TypeInteger, true
	case "Float":
		return TypeFloat, true
	case "Flag":
		return TypeFlag, true
	case "Character":
		return TypeCharacter, true
	case "String":
		return TypeString, true
	}
	return TypeString, false
}

// Arity describes how many values a field carries.
type Arity int

// Field arities.
const (
	ArityFixed     Arity = iota // exactly Number.Count values
	ArityVariable               // "."
	ArityPerAlt                 // "A": one per alternate allele
	ArityPerAllele              // "R": one per allele including the reference
	ArityPerGenotype            // "G": one per possible genotype
)

// Number is the declared arity of a field.
type Number struct {
	Arity Arity
	Count int // only meaningful for ArityFixed
}

// Scalar reports whether the field holds at most one value.
func (n Number) Scalar() bool {
	return n.Arity == ArityFixed && n.Count <= 1
}

// String returns the VCF spelling of the number.
func (n Number) String() string {
	switch n.Arity {
	case ArityVariable:
		return "."
	case ArityPerAlt:
		return "A"
	case ArityPerAllele:
		return "R"
	case ArityPerGenotype:
		return "G"
	default:
		return strconv.Itoa(n.Count)
	}
}

func parseNumber(s string) (Number, bool) {
	switch s {
	case ".":
		return Number{Arity: ArityVariable}, true
	case "A":
		return Number{Arity: ArityPerAlt}, true
	case "R":
		return Number{Arity: ArityPerAllele}, true
	case "G":
		return Number{Arity: ArityPerGenotype}, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Number{}, false
	}
	return Number{Arity: ArityFixed, Count: n}, true
}

// FieldDef is an INFO or FORMAT declaration.
type FieldDef struct {
	ID          string
	Number      Number
	Type        Type
	Description string
}

// Contig is a ##contig declaration. Length is 0 when not declared.
type Contig struct {
	Name     string
	Length   int64
	Assembly string
}

// Header is the parsed meta-information of a VCF file.
// It is immutable once returned by ParseHeader.
type Header struct {
	FileFormat string
	Contigs    []Contig
	Infos      []FieldDef
	Formats    []FieldDef
	Filters    []string
	Samples    []string

	contigIndex map[string]int
	infoIndex   map[string]int
	formatIndex map[string]int
}

// Contig returns the contig declaration with the given name.
func (h *Header) Contig(name string) (Contig, bool) {
	i, ok := h.contigIndex[name]
	if !ok {
		return Contig{}, false
	}
	return h.Contigs[i], true
}

// Info returns the INFO declaration for key.
func (h *Header) Info(key string) (FieldDef, bool) {
	i, ok := h.infoIndex[key]
	if !ok {
		return FieldDef{}, false
	}
	return h.Infos[i], true
}

// Format returns the FORMAT declaration for key.
func (h *Header) Format(key string) (FieldDef, bool) {
	i, ok := h.formatIndex[key]
	if !ok {
		return FieldDef{}, false
	}
	return h.Formats[i], true
}

// InfoKeys returns INFO keys in declaration order.
func (h *Header) InfoKeys() []string {
	keys := make([]string, len(h.Infos))
	for i, d := range h.Infos {
		keys[i] = d.ID
	}
	return keys
}

// ParseHeader parses raw meta-information lines (## lines and the optional
// #CHROM line) into a Header.
func ParseHeader(lines []string) (*Header, error) {
	h := &Header{
		contigIndex: make(map[string]int),
		infoIndex:   make(map[string]int),
		formatIndex: make(map[string]int),
	}

	for i, line := range lines {
		lineNo := i + 1
		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "#CHROM") {
			fields := strings.Split(line, "\t")
			if len(fields) > 9 {
				h.Samples = fields[9:]
			}
			continue
		}
		if !strings.HasPrefix(line, "##") {
			if line == "" {
				continue
			}
			return nil, &HeaderError{Line: lineNo, Message: "meta-information line must start with ##"}
		}

		key, value, ok := strings.Cut(line[2:], "=")
		if !ok {
			// Bare "##comment" lines carry nothing we model.
			continue
		}

		switch key {
		case "fileformat":
			h.FileFormat = value
		case "contig":
			c, err := parseContig(value)
			if err != nil {
				return nil, &HeaderError{Line: lineNo, Message: err.Error()}
			}
			if _, dup := h.contigIndex[c.Name]; dup {
				return nil, &HeaderError{Line: lineNo, Message: fmt.Sprintf("duplicate contig %q", c.Name)}
			}
			h.contigIndex[c.Name] = len(h.Contigs)
			h.Contigs = append(h.Contigs, c)
		case "INFO", "FORMAT":
			d, err := parseFieldDef(value)
			if err != nil {
				return nil, &HeaderError{Line: lineNo, Message: fmt.Sprintf("%s declaration: %v", key, err)}
			}
			index, defs := h.infoIndex, &h.Infos
			if key == "FORMAT" {
				index, defs = h.formatIndex, &h.Formats
			}
			if _, dup := index[d.ID]; dup {
				return nil, &HeaderError{Line: lineNo, Message: fmt.Sprintf("duplicate %s key %q", key, d.ID)}
			}
			index[d.ID] = len(*defs)
			*defs = append(*defs, d)
		case "FILTER":
			kv, err := parseStructured(value)
			if err != nil {
				return nil, &HeaderError{Line: lineNo, Message: fmt.Sprintf("FILTER declaration: %v", err)}
			}
			if id := kv["ID"]; id != "" {
				h.Filters = append(h.Filters, id)
			}
		}
	}

	return h, nil
}

func parseContig(value string) (Contig, error) {
	kv, err := parseStructured(value)
	if err != nil {
		return Contig{}, fmt.Errorf("contig declaration: %w", err)
	}
	c := Contig{Name: kv["ID"], Assembly: kv["assembly"]}
	if c.Name == "" {
		return Contig{}, fmt.Errorf("contig declaration without ID")
	}
	if s, ok := kv["length"]; ok {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Contig{}, fmt.Errorf("contig %q: invalid length %q", c.Name, s)
		}
		if n <= 0 {
			return Contig{}, fmt.Errorf("contig %q: non-positive length %d", c.Name, n)
		}
		c.Length = n
	}
	return c, nil
}

func parseFieldDef(value string) (FieldDef, error) {
	kv, err := parseStructured(value)
	if err != nil {
		return FieldDef{}, err
	}

	for _, k := range []string{"ID", "Number", "Type", "Description"} {
		if _, ok := kv[k]; !ok {
			return FieldDef{}, fmt.Errorf("missing %s", k)
		}
	}

	d := FieldDef{ID: kv["ID"], Description: kv["Description"]}
	if d.ID == "" {
		return FieldDef{}, fmt.Errorf("empty ID")
	}

	var ok bool
	if d.Type, ok = parseType(kv["Type"]); !ok {
		return FieldDef{}, fmt.Errorf("%s: unknown Type %q", d.ID, kv["Type"])
	}
	if d.Number, ok = parseNumber(kv["Number"]); !ok {
		return FieldDef{}, fmt.Errorf("%s: invalid Number %q", d.ID, kv["Number"])
	}
	if d.Type == TypeFlag {
		d.Number = Number{Arity: ArityFixed, Count: 0}
	}
	return d, nil
}

// parseStructured parses "<K=V,K="quoted, value",...>" into a map.
func parseStructured(s string) (map[string]string, error) {
	if len(s) < 2 || s[0] != '<' || s[len(s)-1] != '>' {
		return nil, fmt.Errorf("expected <...>, got %q", s)
	}
	body := s[1 : len(s)-1]
	kv := make(map[string]string)

	for i := 0; i < len(body); {
		eq := strings.IndexByte(body[i:], '=')
		if eq < 0 {
			return nil, fmt.Errorf("missing '=' after %q", body[i:])
		}
		key := strings.TrimSpace(body[i : i+eq])
		i += eq + 1

		var val strings.Builder
		if i < len(body) && body[i] == '"' {
			i++
			closed := false
			for i < len(body) {
				c := body[i]
				if c == '\\' && i+1 < len(body) {
					val.WriteByte(body[i+1])
					i += 2
					continue
				}
				i++
				if c == '"' {
					closed = true
					break
				}
				val.WriteByte(c)
			}
			if !closed {
				return nil, fmt.Errorf("unterminated quoted value for %s", key)
			}
		} else {
			end := strings.IndexByte(body[i:], ',')
			if end < 0 {
				end = len(body) - i
			}
			val.WriteString(body[i : i+end])
			i += end
		}

		kv[key] = val.String()

		if i < len(body) {
			if body[i] != ',' {
				return nil, fmt.Errorf("expected ',' after %s", key)
			}
			i++
		}
	}
	return kv, nil
}
