// Package linear implements an L2-regularized logistic regression model that
// follows liblinear's conventions: labels are registered in the order they
// first appear in the training data, W scores the first registered label,
// and when Bias >= 0 every example is augmented with a constant feature whose
// weight is stored last in W.
package linear

import (
	"encoding/json"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Model is a trained binary logistic regression model
type Model struct {
	Bias        float64   `json:"bias"`
	Label       []int     `json:"label"`
	NumClass    int       `json:"num_class"`
	NumFeatures int       `json:"num_features"`
	W           []float64 `json:"w"`
}

// Labels returns the class labels in registration order
func (m *Model) Labels() []int {
	return append([]int(nil), m.Label...)
}

// HasBias reports whether the last element of FeatureWeights is a bias term
func (m *Model) HasBias() bool {
	return m.Bias >= 0
}

// FeatureWeights returns a copy of the raw weight vector, bias term included
func (m *Model) FeatureWeights() []float64 {
	return append([]float64(nil), m.W...)
}

// Decision returns w·x (plus the bias contribution). Positive values favor Label[0].
func (m *Model) Decision(x []float64) float64 {
	if len(m.W) == 0 {
		return 0
	}
	n := m.NumFeatures
	if len(x) < n {
		n = len(x)
	}
	var dec float64
	for i := 0; i < n; i++ {
		dec += m.W[i] * value(x[i])
	}
	if m.HasBias() {
		dec += m.W[m.NumFeatures] * m.Bias
	}
	return dec
}

// Probability returns the estimated probability that x belongs to label
func (m *Model) Probability(x []float64, label int) float64 {
	if len(m.Label) == 0 {
		return 0
	}
	var first float64
	if m.NumClass < 2 {
		first = 1
	} else {
		first = sigmoid(m.Decision(x))
	}
	switch {
	case label == m.Label[0]:
		return first
	case m.NumClass > 1 && label == m.Label[1]:
		return 1 - first
	default:
		return 0
	}
}

// Norm returns the euclidean norm of the weights, bias excluded
func (m *Model) Norm() float64 {
	if len(m.W) == 0 {
		return 0
	}
	return floats.Norm(m.W[:m.NumFeatures], 2)
}

// Save writes the model as JSON
func (m *Model) Save(w io.Writer) error {
	return json.NewEncoder(w).Encode(m)
}

// Load reads a model written by Save
func Load(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// logistic loss log(1 + exp(-z)), computed without overflow
func logLoss(z float64) float64 {
	if z > 0 {
		return math.Log1p(math.Exp(-z))
	}
	return -z + math.Log1p(math.Exp(z))
}

// missing values are treated as zero
func value(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
