package dataset

import (
	"bufio"
	"compress/gzip"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/snappy"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/golib/fileutil"
)

// Load reads an ARFF dataset from a local path, an s3:// URI or an http(s) URL.
// Paths ending in .gz (gzip) and .sz (snappy framing) are decompressed.
func Load(path string) (ds *Dataset, err error) {
	r, err := fileutil.NewReader(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrDatasetNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "error opening %s", path)
	}
	defer errors.Defer(&err, r.Close)

	var in io.Reader = r
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrapf(err, "error decompressing %s", path)
		}
		defer gz.Close()
		in = gz
	case strings.HasSuffix(path, ".sz"):
		in = snappy.NewReader(r)
	}

	ds, err = ReadARFF(in)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", path)
	}
	return ds, nil
}

// ReadARFF parses a dataset in Attribute-Relation File Format. Both the dense
// and the sparse data encodings are supported.
func ReadARFF(r io.Reader) (*Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 1<<28)

	var relation string
	var attrs []*Attribute
	var schema *Schema
	var examples []*Example

	var lineno int
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}

		if schema == nil {
			keyword, rest := splitKeyword(line)
			switch strings.ToLower(keyword) {
			case "@relation":
				relation = unquote(rest)
			case "@attribute":
				attr, err := parseAttribute(rest)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineno)
				}
				attrs = append(attrs, attr)
			case "@data":
				s, err := NewSchema(relation, attrs)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineno)
				}
				schema = s
			default:
				return nil, errors.Errorf("line %d: unexpected header line %q", lineno, line)
			}
			continue
		}

		var values []float64
		var err error
		if strings.HasPrefix(line, "{") {
			values, err = parseSparse(schema, line)
		} else {
			values, err = parseDense(schema, line)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineno)
		}
		example, err := NewExample(schema, values)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineno)
		}
		examples = append(examples, example)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, errors.Errorf("no @data section")
	}
	return New(schema, examples), nil
}

func splitKeyword(line string) (string, string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

func parseAttribute(decl string) (*Attribute, error) {
	var name, rest string
	if decl != "" && (decl[0] == '\'' || decl[0] == '"') {
		end := strings.IndexByte(decl[1:], decl[0])
		if end < 0 {
			return nil, errors.Errorf("unterminated attribute name in %q", decl)
		}
		name = decl[1 : end+1]
		rest = strings.TrimSpace(decl[end+2:])
	} else {
		name, rest = splitKeyword(decl)
	}
	if name == "" || rest == "" {
		return nil, errors.Errorf("malformed attribute %q", decl)
	}

	if strings.HasPrefix(rest, "{") {
		if !strings.HasSuffix(rest, "}") {
			return nil, errors.Errorf("unterminated nominal values for %s", name)
		}
		values := splitFields(rest[1 : len(rest)-1])
		for i := range values {
			values[i] = unquote(values[i])
		}
		return &Attribute{Name: name, Kind: Nominal, Values: values}, nil
	}

	switch strings.ToLower(rest) {
	case "numeric", "real", "integer":
		return &Attribute{Name: name, Kind: Numeric}, nil
	case "string":
		return &Attribute{Name: name, Kind: String}, nil
	default:
		return nil, errors.Errorf("unsupported type %q for attribute %s", rest, name)
	}
}

func parseDense(schema *Schema, line string) ([]float64, error) {
	fields := splitFields(line)
	if len(fields) != schema.NumAttributes() {
		return nil, errors.Errorf("got %d values, expected %d", len(fields), schema.NumAttributes())
	}
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := parseValue(schema.Attributes[i], field)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// parseSparse reads "{index value, ...}"; attributes that are not listed are zero
func parseSparse(schema *Schema, line string) ([]float64, error) {
	if !strings.HasSuffix(line, "}") {
		return nil, errors.Errorf("unterminated sparse instance")
	}
	values := make([]float64, schema.NumAttributes())
	for _, field := range splitFields(line[1 : len(line)-1]) {
		if field == "" {
			continue
		}
		idx, raw := splitKeyword(field)
		i, err := strconv.Atoi(idx)
		if err != nil {
			return nil, errors.Errorf("bad sparse index %q", idx)
		}
		if i < 0 || i >= len(values) {
			return nil, errors.Errorf("sparse index %d out of range", i)
		}
		v, err := parseValue(schema.Attributes[i], raw)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func parseValue(attr *Attribute, field string) (float64, error) {
	if field == "?" {
		return math.NaN(), nil
	}
	switch attr.Kind {
	case Numeric:
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return 0, errors.Errorf("bad numeric value %q for %s", field, attr.Name)
		}
		return v, nil
	case Nominal:
		i := attr.IndexOf(unquote(field))
		if i < 0 {
			return 0, errors.Errorf("unknown value %q for %s", field, attr.Name)
		}
		return float64(i), nil
	default:
		s := unquote(field)
		i := attr.IndexOf(s)
		if i < 0 {
			attr.Values = append(attr.Values, s)
			i = len(attr.Values) - 1
		}
		return float64(i), nil
	}
}

// splitFields splits on commas outside of quotes and trims every field
func splitFields(s string) []string {
	var fields []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			fields = append(fields, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(fields, strings.TrimSpace(s[start:]))
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
		return strings.NewReplacer(`\'`, `'`, `\"`, `"`, `\\`, `\`).Replace(s)
	}
	return s
}
