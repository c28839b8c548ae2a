// Package sample draws fixed-size random subsets that keep both classes represented.
package sample

import (
	"math/rand"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/privacy/dataset"
)

// DefaultMaxAttempts bounds the number of redraws before giving up
const DefaultMaxAttempts = 1000

// Sampler draws subsets deterministically from a fixed seed
type Sampler struct {
	Seed        int64
	MaxAttempts int
}

// New returns a Sampler with the default attempt bound
func New(seed int64) Sampler {
	return Sampler{
		Seed:        seed,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Sample returns n examples of ds containing both labels. Every call starts
// from the same seed, so the result only depends on ds and n.
func (s Sampler) Sample(ds *dataset.Dataset, n int) (*dataset.Dataset, error) {
	if n < 0 || n > ds.Len() {
		return nil, errors.Wrapf(dataset.ErrInsufficientData, "requested %d of %d examples", n, ds.Len())
	}
	if ds.NumDistinctLabels() < 2 {
		return nil, errors.Wrapf(dataset.ErrDegenerateLabels, "sampling %d of %d examples", n, ds.Len())
	}

	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	rng := rand.New(rand.NewSource(s.Seed))
	indices := make([]int, ds.Len())
	for i := range indices {
		indices[i] = i
	}
	for attempt := 0; attempt < attempts; attempt++ {
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		selected := ds.Subset(indices[:n])
		if selected.NumDistinctLabels() >= 2 {
			return selected, nil
		}
	}
	return nil, errors.Wrapf(dataset.ErrDegenerateLabels, "no draw of %d examples had both classes after %d attempts", n, attempts)
}

// Cap returns ds unchanged when it has at most max examples, otherwise a sample of max examples
func (s Sampler) Cap(ds *dataset.Dataset, max int) (*dataset.Dataset, error) {
	if max <= 0 || ds.Len() <= max {
		return ds, nil
	}
	return s.Sample(ds, max)
}
