// Package metrics computes ROC statistics over classifier predictions.
package metrics

import (
	"math"
	"sort"
)

// Prediction pairs a true label (1 = private) with the predicted probability of private
type Prediction struct {
	Label int
	Score float64
}

// Undefined reports whether an AUC could not be computed
func Undefined(auc float64) bool {
	return math.IsNaN(auc)
}

// AUC returns the area under the ROC curve: the fraction of (private, public)
// pairs where the private example scores higher, ties counting one half.
// It returns NaN when either class is absent. Predictions with a NaN score are ignored.
func AUC(preds []Prediction) float64 {
	scored := sortedByScore(preds)

	var pos, neg float64
	var posRanks float64
	for i := 0; i < len(scored); {
		// ranks i+1..j share their average
		j := i
		for j < len(scored) && scored[j].Score == scored[i].Score {
			j++
		}
		rank := float64(i+j+1) / 2
		for _, p := range scored[i:j] {
			if p.Label == 1 {
				pos++
				posRanks += rank
			} else {
				neg++
			}
		}
		i = j
	}

	if pos == 0 || neg == 0 {
		return math.NaN()
	}
	return (posRanks - pos*(pos+1)/2) / (pos * neg)
}

// Point is one operating point of a ROC curve
type Point struct {
	FPR       float64
	TPR       float64
	Threshold float64
}

// Curve returns the ROC curve from (0,0) to (1,1), with one point per distinct
// score classifying everything at or above it as private. It returns nil when either class is absent.
func Curve(preds []Prediction) []Point {
	scored := sortedByScore(preds)

	var pos, neg float64
	for _, p := range scored {
		if p.Label == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return nil
	}

	points := []Point{{Threshold: math.Inf(1)}}
	var tp, fp float64
	for i := len(scored) - 1; i >= 0; {
		j := i
		for j >= 0 && scored[j].Score == scored[i].Score {
			if scored[j].Label == 1 {
				tp++
			} else {
				fp++
			}
			j--
		}
		points = append(points, Point{
			FPR:       fp / neg,
			TPR:       tp / pos,
			Threshold: scored[i].Score,
		})
		i = j
	}
	return points
}

func sortedByScore(preds []Prediction) []Prediction {
	scored := make([]Prediction, 0, len(preds))
	for _, p := range preds {
		if !math.IsNaN(p.Score) {
			scored = append(scored, p)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score < scored[j].Score
	})
	return scored
}
