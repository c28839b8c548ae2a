package linear

import (
	"gonum.org/v1/gonum/optimize"

	"github.com/youralert/youralert/golib/errors"
)

// Params for Train
type Params struct {
	// C is the cost of misclassification; larger values weaken regularization.
	C float64
	// Bias is the value of the constant feature; negative disables it.
	Bias float64
	// Epsilon is the gradient-norm stopping tolerance.
	Epsilon float64
	// MaxIterations bounds the number of L-BFGS iterations.
	MaxIterations int
}

// DefaultParams matches liblinear's L2-regularized logistic regression defaults
var DefaultParams = Params{
	C:             1,
	Bias:          1,
	Epsilon:       1e-4,
	MaxIterations: 1000,
}

// Train fits a model minimizing 0.5*|w|^2 + C * sum_i log(1 + exp(-y_i w·x_i)),
// where y_i is +1 for the first registered label and -1 otherwise.
func Train(x [][]float64, y []int, params Params) (*Model, error) {
	if len(x) != len(y) {
		return nil, errors.Errorf("got %d feature vectors and %d labels", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, errors.Errorf("no training examples")
	}
	if params.C <= 0 {
		return nil, errors.Errorf("cost must be positive, got %f", params.C)
	}

	numFeatures := len(x[0])
	for i, row := range x {
		if len(row) != numFeatures {
			return nil, errors.Errorf("example %d has %d features, expected %d", i, len(row), numFeatures)
		}
	}

	m := &Model{
		Bias:        params.Bias,
		NumFeatures: numFeatures,
	}
	for _, label := range y {
		if !contains(m.Label, label) {
			m.Label = append(m.Label, label)
		}
	}
	m.NumClass = len(m.Label)
	if m.NumClass > 2 {
		return nil, errors.Errorf("expected at most 2 classes, got %d", m.NumClass)
	}

	dim := numFeatures
	if m.HasBias() {
		dim++
	}
	m.W = make([]float64, dim)
	if m.NumClass < 2 {
		// a single class needs no weights: Probability always favors it
		return m, nil
	}

	signs := make([]float64, len(y))
	for i, label := range y {
		if label == m.Label[0] {
			signs[i] = 1
		} else {
			signs[i] = -1
		}
	}

	margin := func(w []float64, i int) float64 {
		var dec float64
		for j, v := range x[i] {
			dec += w[j] * value(v)
		}
		if m.HasBias() {
			dec += w[numFeatures] * m.Bias
		}
		return signs[i] * dec
	}

	problem := optimize.Problem{
		Func: func(w []float64) float64 {
			var f float64
			for _, wj := range w {
				f += 0.5 * wj * wj
			}
			for i := range x {
				f += params.C * logLoss(margin(w, i))
			}
			return f
		},
		Grad: func(grad, w []float64) {
			copy(grad, w)
			for i := range x {
				// d/dz log(1+exp(-z)) = -sigmoid(-z)
				coef := -params.C * sigmoid(-margin(w, i)) * signs[i]
				for j, v := range x[i] {
					grad[j] += coef * value(v)
				}
				if m.HasBias() {
					grad[numFeatures] += coef * m.Bias
				}
			}
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: params.Epsilon,
		MajorIterations:   params.MaxIterations,
	}
	result, err := optimize.Minimize(problem, make([]float64, dim), settings, &optimize.LBFGS{})
	if result == nil {
		return nil, errors.Wrapf(err, "optimization failed")
	}
	// line search failures near the optimum still leave a usable solution
	copy(m.W, result.X)
	return m, nil
}

func contains(labels []int, label int) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
