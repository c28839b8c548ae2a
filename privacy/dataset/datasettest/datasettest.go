// Package datasettest builds small synthetic datasets for tests.
package datasettest

import (
	"fmt"
	"math/rand"

	"github.com/youralert/youralert/privacy/dataset"
)

// Schema returns a schema with the id, user and source metadata attributes,
// numFeatures numeric features named f0, f1, ... and a public/private class.
func Schema(users []string, numFeatures int) *dataset.Schema {
	attrs := []*dataset.Attribute{
		{Name: "id", Kind: dataset.String},
		{Name: "user", Kind: dataset.Nominal, Values: append([]string(nil), users...)},
		{Name: "source", Kind: dataset.Nominal, Values: []string{"youralert", "picalert"}},
	}
	for i := 0; i < numFeatures; i++ {
		attrs = append(attrs, &dataset.Attribute{Name: fmt.Sprintf("f%d", i), Kind: dataset.Numeric})
	}
	attrs = append(attrs, &dataset.Attribute{Name: "class", Kind: dataset.Nominal, Values: []string{"public", "private"}})

	schema, err := dataset.NewSchema("synthetic", attrs)
	if err != nil {
		panic(err)
	}
	return schema
}

// Users builds perUser examples for every user, half of them private. Feature
// f0 separates the classes with some overlap, the remaining features are noise.
func Users(users []string, perUser int, numFeatures int, seed int64) *dataset.Dataset {
	schema := Schema(users, numFeatures)
	rng := rand.New(rand.NewSource(seed))

	var examples []*dataset.Example
	for u := range users {
		for i := 0; i < perUser; i++ {
			label := i % 2
			values := make([]float64, schema.NumAttributes())
			values[dataset.IDIndex] = float64(len(examples))
			values[dataset.UserIndex] = float64(u)
			for f := 0; f < numFeatures; f++ {
				values[3+f] = rng.NormFloat64()
			}
			if numFeatures > 0 {
				values[3] += 1.5 * float64(2*label-1)
			}
			values[schema.ClassIndex()] = float64(label)
			examples = append(examples, MustExample(schema, values))
		}
	}
	return dataset.New(schema, examples)
}

// Labels builds a single-user dataset with one feature holding each example's position
func Labels(labels ...int) *dataset.Dataset {
	schema := Schema([]string{"u"}, 1)
	examples := make([]*dataset.Example, len(labels))
	for i, label := range labels {
		values := make([]float64, schema.NumAttributes())
		values[dataset.IDIndex] = float64(i)
		values[3] = float64(i)
		values[schema.ClassIndex()] = float64(label)
		examples[i] = MustExample(schema, values)
	}
	return dataset.New(schema, examples)
}

// Positions returns the f0 value of every example, which Labels sets to the original position
func Positions(ds *dataset.Dataset) []int {
	positions := make([]int, ds.Len())
	for i, e := range ds.Examples {
		positions[i] = int(e.Value(3))
	}
	return positions
}

// MustExample is dataset.NewExample that panics on error
func MustExample(schema *dataset.Schema, values []float64) *dataset.Example {
	e, err := dataset.NewExample(schema, values)
	if err != nil {
		panic(err)
	}
	return e
}
