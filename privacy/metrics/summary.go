package metrics

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/youralert/youralert/golib/errors"
)

// Summary describes the distribution of per-user AUCs
type Summary struct {
	N         int
	Undefined int
	Mean      float64
	Median    float64
	StdDev    float64
	Min       float64
	Max       float64
}

// Summarize computes statistics over the defined values of aucs
func Summarize(aucs []float64) (Summary, error) {
	var data stats.Float64Data
	var s Summary
	for _, auc := range aucs {
		if Undefined(auc) || math.IsInf(auc, 0) {
			s.Undefined++
			continue
		}
		data = append(data, auc)
	}
	s.N = len(data)
	if s.N == 0 {
		return s, errors.Errorf("no defined AUC among %d values", len(aucs))
	}

	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, err
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return s, err
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	return s, nil
}
