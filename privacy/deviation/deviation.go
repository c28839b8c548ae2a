// Package deviation finds concepts that one model considers private and another considers public.
package deviation

import (
	"fmt"
	"strings"

	"github.com/youralert/youralert/privacy/introspect"
)

// Generic is the name of the entity trained on every user's examples
const Generic = "generic"

// Deviation is a feature in the top private features of one entity and the
// top public features of others
type Deviation struct {
	Feature    string
	PrivateFor string
	PublicFor  []string
}

func (d Deviation) String() string {
	return fmt.Sprintf("Concept: %s is private for model: %s and public for models: [%s]",
		d.Feature, d.PrivateFor, strings.Join(d.PublicFor, ", "))
}

// Detector holds the top features of every user plus the generic entity,
// which is stored last
type Detector struct {
	names    []string
	positive [][]string
	negative []map[string]bool
}

// New creates a detector for the given users and the generic entity
func New(users []string) *Detector {
	n := len(users) + 1
	names := make([]string, 0, n)
	names = append(names, users...)
	names = append(names, Generic)
	return &Detector{
		names:    names,
		positive: make([][]string, n),
		negative: make([]map[string]bool, n),
	}
}

// NumEntities is the number of users plus one
func (d *Detector) NumEntities() int {
	return len(d.names)
}

// Set records the top features of entity i
func (d *Detector) Set(i int, top introspect.Top) {
	d.positive[i] = introspect.Names(top.Positive)
	negative := make(map[string]bool, len(top.Negative))
	for _, fw := range top.Negative {
		negative[fw.Feature] = true
	}
	d.negative[i] = negative
}

// SetGeneric records the top features of the generic entity
func (d *Detector) SetGeneric(top introspect.Top) {
	d.Set(len(d.names)-1, top)
}

// Detect compares every entity's top private features against the top public
// features of all entities, itself included. Deviations are ordered by entity,
// then by position in the entity's private list. Entities without features are skipped.
func (d *Detector) Detect() []Deviation {
	var deviations []Deviation
	for i, positive := range d.positive {
		for _, feature := range positive {
			var public []string
			for j, negative := range d.negative {
				if negative[feature] {
					public = append(public, d.names[j])
				}
			}
			if len(public) > 0 {
				deviations = append(deviations, Deviation{
					Feature:    feature,
					PrivateFor: d.names[i],
					PublicFor:  public,
				})
			}
		}
	}
	return deviations
}
