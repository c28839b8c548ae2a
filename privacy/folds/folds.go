// Package folds builds stratified cross-validation folds and the weighted
// training sets that mix user-specific examples into a larger pool.
package folds

import (
	"math/rand"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/privacy/dataset"
	"github.com/youralert/youralert/privacy/sample"
)

var (
	// ErrInvalidFolds is returned for fewer than 2 folds
	ErrInvalidFolds = errors.Sentinel("number of folds must be at least 2")
	// ErrInvalidWeight is returned for example weights below 1
	ErrInvalidWeight = errors.Sentinel("example weight must be at least 1")
)

// Fold is one train/test split. Train and Test partition the input dataset.
type Fold struct {
	Index int
	Train *dataset.Dataset
	Test  *dataset.Dataset
}

// Build shuffles ds with seed, stratifies it by label and splits it into k folds.
// Fold i tests on the i-th contiguous block of the stratified order and trains
// on everything else, so every example is tested exactly once.
func Build(ds *dataset.Dataset, k int, seed int64) ([]Fold, error) {
	if k < 2 {
		return nil, errors.Wrapf(ErrInvalidFolds, "got %d", k)
	}
	n := ds.Len()
	if k > n {
		return nil, errors.Wrapf(dataset.ErrInsufficientData, "%d folds over %d examples", k, n)
	}

	shuffled := ds.Shuffled(rand.New(rand.NewSource(seed)))
	order := stratify(shuffled.Labels(), k)

	folds := make([]Fold, k)
	for i := 0; i < k; i++ {
		first, size := block(n, k, i)

		test := make([]int, 0, size)
		test = append(test, order[first:first+size]...)

		train := make([]int, 0, n-size)
		train = append(train, order[:first]...)
		train = append(train, order[first+size:]...)

		folds[i] = Fold{
			Index: i,
			Train: shuffled.Subset(train),
			Test:  shuffled.Subset(test),
		}
	}
	return folds, nil
}

// block returns the start and size of fold i's test block: n/k examples, plus one for the first n%k folds
func block(n, k, i int) (int, int) {
	size := n / k
	offset := n % k
	if i < offset {
		size++
		offset = i
	}
	return i*(n/k) + offset, size
}

// stratify groups the examples by label, then deals them into k strata so
// that each contiguous block keeps roughly the overall label ratio. It returns
// positions into labels, in stratified order.
func stratify(labels []int, k int) []int {
	positions := make([]int, len(labels))
	for i := range positions {
		positions[i] = i
	}

	// group examples of the same class by swapping them forward
	for idx := 1; idx < len(positions); idx++ {
		label := labels[positions[idx-1]]
		for j := idx; j < len(positions); j++ {
			if labels[positions[j]] == label {
				positions[idx], positions[j] = positions[j], positions[idx]
				idx++
			}
		}
	}

	dealt := make([]int, 0, len(positions))
	for start := 0; start < k && len(dealt) < len(positions); start++ {
		for j := start; j < len(positions); j += k {
			dealt = append(dealt, positions[j])
		}
	}
	return dealt
}

// Weighted repeats every example of ds w times in a row
func Weighted(ds *dataset.Dataset, w int) (*dataset.Dataset, error) {
	if w < 1 {
		return nil, errors.Wrapf(ErrInvalidWeight, "got %d", w)
	}
	examples := make([]*dataset.Example, 0, ds.Len()*w)
	for _, e := range ds.Examples {
		for k := 0; k < w; k++ {
			examples = append(examples, e)
		}
	}
	return dataset.New(ds.Schema, examples), nil
}

// Mix samples m examples from a fold's training set, weights them by w and
// appends them after pool. A nil pool yields the weighted block alone.
func Mix(train, pool *dataset.Dataset, m, w int, sampler sample.Sampler) (*dataset.Dataset, error) {
	if w < 1 {
		return nil, errors.Wrapf(ErrInvalidWeight, "got %d", w)
	}
	sampled, err := sampler.Sample(train, m)
	if err != nil {
		return nil, err
	}
	weighted, err := Weighted(sampled, w)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return weighted, nil
	}
	return pool.Concat(weighted)
}
