package dataset

import (
	"math"

	"github.com/youralert/youralert/golib/errors"
)

// Example is one labeled row. Values are aligned to the schema; nominal and
// string values are indexes into the attribute's value table and missing
// values are NaN. Examples are never modified once created.
type Example struct {
	values []float64
	label  int
}

// NewExample builds an example from values aligned to schema. The class value must be present.
func NewExample(schema *Schema, values []float64) (*Example, error) {
	if len(values) != schema.NumAttributes() {
		return nil, errors.Errorf("got %d values for %d attributes", len(values), schema.NumAttributes())
	}
	class := values[schema.ClassIndex()]
	if math.IsNaN(class) {
		return nil, errors.Errorf("missing class value")
	}
	label := 0
	if int(class) == schema.PrivateValue {
		label = 1
	}
	return &Example{
		values: append([]float64(nil), values...),
		label:  label,
	}, nil
}

// Value returns the value of attribute i
func (e *Example) Value(i int) float64 {
	return e.values[i]
}

// NumValues is the number of attributes the example was built for
func (e *Example) NumValues() int {
	return len(e.values)
}

// Label is 1 for private examples and 0 for public ones
func (e *Example) Label() int {
	return e.label
}

// Private reports whether the example is labeled private
func (e *Example) Private() bool {
	return e.label == 1
}
