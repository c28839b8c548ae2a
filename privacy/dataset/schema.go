package dataset

import (
	"strings"

	"github.com/youralert/youralert/golib/errors"
)

// Kind is the type of an attribute
type Kind int

const (
	// Numeric attributes hold real values
	Numeric Kind = iota
	// Nominal attributes hold an index into a fixed value table
	Nominal
	// String attributes hold an index into a value table that grows while loading
	String
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Nominal:
		return "nominal"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Metadata attributes present in every dataset. They partition the data but are never trained on.
const (
	IDIndex     = 0
	UserIndex   = 1
	SourceIndex = 2
)

// Ignored is the default set of attributes excluded from training
var Ignored = []int{IDIndex, UserIndex, SourceIndex}

// Attribute describes one column of a dataset
type Attribute struct {
	Name   string
	Kind   Kind
	Values []string
}

// IndexOf returns the position of value in the attribute's value table, or -1
func (a *Attribute) IndexOf(value string) int {
	for i, v := range a.Values {
		if v == value {
			return i
		}
	}
	return -1
}

// Schema is the ordered attribute list shared by all examples of a dataset.
// The class attribute is always the last one.
type Schema struct {
	Relation   string
	Attributes []*Attribute
	// PrivateValue is the index of the class value that means "private"
	PrivateValue int
}

// NewSchema validates the class attribute and locates its private value
func NewSchema(relation string, attrs []*Attribute) (*Schema, error) {
	if len(attrs) < 2 {
		return nil, errors.Errorf("expected at least 2 attributes, got %d", len(attrs))
	}
	class := attrs[len(attrs)-1]
	if class.Kind != Nominal || len(class.Values) != 2 {
		return nil, errors.Errorf("class attribute %s must be nominal with 2 values", class.Name)
	}
	private := 1
	for i, v := range class.Values {
		if strings.EqualFold(v, "private") {
			private = i
		}
	}
	return &Schema{
		Relation:     relation,
		Attributes:   attrs,
		PrivateValue: private,
	}, nil
}

// NumAttributes includes metadata and class attributes
func (s *Schema) NumAttributes() int {
	return len(s.Attributes)
}

// ClassIndex is the position of the class attribute
func (s *Schema) ClassIndex() int {
	return len(s.Attributes) - 1
}

// Class returns the class attribute
func (s *Schema) Class() *Attribute {
	return s.Attributes[s.ClassIndex()]
}

// Attribute returns the attribute with the given name, or nil
func (s *Schema) Attribute(name string) *Attribute {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// FeatureIndices lists, in schema order, the attributes that are neither ignored nor the class
func (s *Schema) FeatureIndices(ignored []int) []int {
	skip := make(map[int]bool, len(ignored)+1)
	for _, i := range ignored {
		skip[i] = true
	}
	skip[s.ClassIndex()] = true

	var indices []int
	for i := range s.Attributes {
		if !skip[i] {
			indices = append(indices, i)
		}
	}
	return indices
}

// Compatible reports whether examples of other can be mixed with examples of s.
// Labels are normalized when examples are built, so class value order may differ.
func (s *Schema) Compatible(other *Schema) bool {
	if s == other {
		return true
	}
	if len(s.Attributes) != len(other.Attributes) {
		return false
	}
	for i, a := range s.Attributes {
		if a.Name != other.Attributes[i].Name || a.Kind != other.Attributes[i].Kind {
			return false
		}
	}
	return true
}
