package dataset

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// WriteARFF writes the dataset in the dense ARFF encoding
func WriteARFF(w io.Writer, ds *Dataset) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "@relation %s\n\n", quote(ds.Schema.Relation))
	for _, attr := range ds.Schema.Attributes {
		fmt.Fprintf(bw, "@attribute %s %s\n", quote(attr.Name), attrType(attr))
	}
	fmt.Fprint(bw, "\n@data\n")

	fields := make([]string, ds.Schema.NumAttributes())
	for _, e := range ds.Examples {
		for i, attr := range ds.Schema.Attributes {
			fields[i] = formatValue(attr, e.Value(i))
		}
		fmt.Fprintln(bw, strings.Join(fields, ","))
	}
	return bw.Flush()
}

func attrType(attr *Attribute) string {
	switch attr.Kind {
	case Nominal:
		values := make([]string, len(attr.Values))
		for i, v := range attr.Values {
			values[i] = quote(v)
		}
		return "{" + strings.Join(values, ",") + "}"
	case String:
		return "string"
	default:
		return "numeric"
	}
}

func formatValue(attr *Attribute, v float64) string {
	if math.IsNaN(v) {
		return "?"
	}
	switch attr.Kind {
	case Numeric:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		i := int(v)
		if i >= 0 && i < len(attr.Values) {
			return quote(attr.Values[i])
		}
		// string attributes built in memory may not carry a value table
		return quote(strconv.Itoa(i))
	}
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t,'\"{}%?\\") {
		return s
	}
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}
