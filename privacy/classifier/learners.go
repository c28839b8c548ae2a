package classifier

import (
	"math"
	"math/rand"
	"strings"

	"github.com/youralert/youralert/golib/decisiontree"
	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/golib/linear"
	"github.com/youralert/youralert/privacy/metrics"
)

// Names accepted by NewLearner
const (
	LibLinear      = "liblinear"
	LibLinearTuned = "liblinear-tuned"
	J48            = "j48"
)

// NewLearner maps a classifier choice to a Learner
func NewLearner(choice string) (Learner, error) {
	switch strings.ToLower(choice) {
	case LibLinear:
		return LogisticRegression{Params: linear.DefaultParams}, nil
	case LibLinearTuned:
		return DefaultTuned, nil
	case J48, "tree":
		return Tree{Learner: decisiontree.DefaultLearner}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownClassifier, "%q", choice)
	}
}

// LogisticRegression is an L2-regularized logistic regression learner
type LogisticRegression struct {
	Params linear.Params
}

// Name implements Learner
func (l LogisticRegression) Name() string {
	return LibLinear
}

// Fit implements Learner
func (l LogisticRegression) Fit(x [][]float64, y []int) (Predictor, error) {
	m, err := linear.Train(x, y, l.Params)
	if err != nil {
		return nil, err
	}
	return LinearPredictor{m}, nil
}

// LinearPredictor adapts a linear.Model to Predictor and Linear
type LinearPredictor struct {
	*linear.Model
}

// Probability implements Predictor
func (p LinearPredictor) Probability(x []float64) float64 {
	return p.Model.Probability(x, 1)
}

// Tuned selects the cost of a logistic regression by cross-validated AUC, then refits on all data
type Tuned struct {
	Params linear.Params
	Costs  []float64
	Folds  int
	Seed   int64
}

// DefaultTuned searches costs 10^-2 through 10^2 with 2-fold cross-validation
var DefaultTuned = Tuned{
	Params: linear.DefaultParams,
	Costs:  []float64{0.01, 0.1, 1, 10, 100},
	Folds:  2,
	Seed:   1,
}

// Name implements Learner
func (t Tuned) Name() string {
	return LibLinearTuned
}

// Fit implements Learner
func (t Tuned) Fit(x [][]float64, y []int) (Predictor, error) {
	params := t.Params
	params.C = t.bestCost(x, y)
	return LogisticRegression{Params: params}.Fit(x, y)
}

// bestCost returns the cost with the highest cross-validated AUC; the
// smallest cost wins ties, and the default cost is kept when no AUC is defined
func (t Tuned) bestCost(x [][]float64, y []int) float64 {
	best, bestAUC := t.Params.C, math.Inf(-1)
	if t.Folds < 2 || len(x) < t.Folds {
		return best
	}
	assignment := stratifiedAssignment(y, t.Folds, t.Seed)

	for _, cost := range t.Costs {
		params := t.Params
		params.C = cost

		var preds []metrics.Prediction
		for fold := 0; fold < t.Folds; fold++ {
			var trainX, testX [][]float64
			var trainY, testY []int
			for i := range x {
				if assignment[i] == fold {
					testX, testY = append(testX, x[i]), append(testY, y[i])
				} else {
					trainX, trainY = append(trainX, x[i]), append(trainY, y[i])
				}
			}
			m, err := linear.Train(trainX, trainY, params)
			if err != nil {
				continue
			}
			for i := range testX {
				preds = append(preds, metrics.Prediction{Label: testY[i], Score: m.Probability(testX[i], 1)})
			}
		}

		if auc := metrics.AUC(preds); !metrics.Undefined(auc) && auc > bestAUC {
			best, bestAUC = cost, auc
		}
	}
	return best
}

// stratifiedAssignment shuffles the examples of each label and deals them round robin into folds
func stratifiedAssignment(y []int, folds int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	assignment := make([]int, len(y))
	var next int
	for _, label := range []int{1, 0} {
		var members []int
		for i, l := range y {
			if l == label {
				members = append(members, i)
			}
		}
		rng.Shuffle(len(members), func(i, j int) {
			members[i], members[j] = members[j], members[i]
		})
		for _, i := range members {
			assignment[i] = next % folds
			next++
		}
	}
	return assignment
}

// Tree is a decision tree learner
type Tree struct {
	Learner decisiontree.Learner
}

// Name implements Learner
func (t Tree) Name() string {
	return J48
}

// Fit implements Learner
func (t Tree) Fit(x [][]float64, y []int) (Predictor, error) {
	positive := make([]bool, len(y))
	for i, label := range y {
		positive[i] = label == 1
	}
	tree, err := t.Learner.Fit(x, positive)
	if err != nil {
		return nil, err
	}
	return TreePredictor{tree}, nil
}

// TreePredictor adapts a decisiontree.DecisionTree to Predictor
type TreePredictor struct {
	*decisiontree.DecisionTree
}

// Probability implements Predictor
func (p TreePredictor) Probability(x []float64) float64 {
	return p.Evaluate(x)
}
