// Package dataset holds labeled examples for the privacy classifiers. Derived
// datasets share the schema and the examples of their parent but own their
// own example slice, so deriving never modifies the parent.
package dataset

import (
	"math/rand"

	"github.com/youralert/youralert/golib/errors"
)

// Dataset is an ordered collection of examples sharing a schema
type Dataset struct {
	Schema   *Schema
	Examples []*Example
}

// New creates a dataset over the given examples
func New(schema *Schema, examples []*Example) *Dataset {
	return &Dataset{
		Schema:   schema,
		Examples: examples,
	}
}

// Len is the number of examples
func (d *Dataset) Len() int {
	return len(d.Examples)
}

// Labels returns the label of every example, in order
func (d *Dataset) Labels() []int {
	labels := make([]int, len(d.Examples))
	for i, e := range d.Examples {
		labels[i] = e.Label()
	}
	return labels
}

// NumDistinctLabels is 0, 1 or 2
func (d *Dataset) NumDistinctLabels() int {
	var seen [2]bool
	var n int
	for _, e := range d.Examples {
		if !seen[e.Label()] {
			seen[e.Label()] = true
			n++
			if n == 2 {
				break
			}
		}
	}
	return n
}

// CountPrivate returns the number of private examples
func (d *Dataset) CountPrivate() int {
	var n int
	for _, e := range d.Examples {
		if e.Private() {
			n++
		}
	}
	return n
}

// Empty returns a dataset with the same schema and no examples
func (d *Dataset) Empty() *Dataset {
	return New(d.Schema, nil)
}

// Subset returns the examples at the given indices, in the order given
func (d *Dataset) Subset(indices []int) *Dataset {
	examples := make([]*Example, 0, len(indices))
	for _, i := range indices {
		examples = append(examples, d.Examples[i])
	}
	return New(d.Schema, examples)
}

// Filter returns the examples whose attribute attr has the given value index
func (d *Dataset) Filter(attr int, value int, keep bool) *Dataset {
	var examples []*Example
	for _, e := range d.Examples {
		if (int(e.Value(attr)) == value) == keep {
			examples = append(examples, e)
		}
	}
	return New(d.Schema, examples)
}

// Users lists the values of the user attribute, in declaration order
func (d *Dataset) Users() []string {
	if d.Schema.NumAttributes() <= UserIndex+1 {
		return nil
	}
	return append([]string(nil), d.Schema.Attributes[UserIndex].Values...)
}

// ForUser returns the examples of the user with the given value index
func (d *Dataset) ForUser(user int) *Dataset {
	return d.Filter(UserIndex, user, true)
}

// ExceptUser returns the examples of every user but the given one
func (d *Dataset) ExceptUser(user int) *Dataset {
	return d.Filter(UserIndex, user, false)
}

// Shuffled returns a random permutation of the dataset
func (d *Dataset) Shuffled(rng *rand.Rand) *Dataset {
	examples := append([]*Example(nil), d.Examples...)
	rng.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
	return New(d.Schema, examples)
}

// Concat returns the examples of d followed by the examples of other
func (d *Dataset) Concat(other *Dataset) (*Dataset, error) {
	if !d.Schema.Compatible(other.Schema) {
		return nil, errors.Errorf("cannot concatenate %s with %s: schemas differ", d.Schema.Relation, other.Schema.Relation)
	}
	examples := make([]*Example, 0, d.Len()+other.Len())
	examples = append(examples, d.Examples...)
	examples = append(examples, other.Examples...)
	return New(d.Schema, examples), nil
}
