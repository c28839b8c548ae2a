// Package classifier defines the trainable classifier capability used by the
// evaluation harness and its implementations.
package classifier

import (
	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/privacy/dataset"
)

// ErrUnknownClassifier is returned by Select for unsupported choices
var ErrUnknownClassifier = errors.Sentinel("unknown classifier")

// Model is a trained classifier
type Model interface {
	// Predict returns the probability that e is private
	Predict(e *dataset.Example) (float64, error)
}

// Trainer fits a fresh Model on a dataset
type Trainer interface {
	Train(ds *dataset.Dataset) (Model, error)
	Name() string
}

// Learner fits on plain feature vectors; labels are 1 for private and 0 for public
type Learner interface {
	Fit(x [][]float64, y []int) (Predictor, error)
	Name() string
}

// Predictor scores a plain feature vector
type Predictor interface {
	// Probability returns the probability that x is private
	Probability(x []float64) float64
}

// Linear is implemented by predictors backed by a linear model. Weights are
// reported in the model's internal convention: they score Labels()[0], and
// when HasBias is true the last weight is the bias term.
type Linear interface {
	Labels() []int
	FeatureWeights() []float64
	HasBias() bool
}

// Select returns a trainer for a classifier choice that ignores the given attributes
func Select(choice string, ignored []int) (Trainer, error) {
	learner, err := NewLearner(choice)
	if err != nil {
		return nil, err
	}
	return Filtered{
		Learner: learner,
		Ignored: ignored,
	}, nil
}
