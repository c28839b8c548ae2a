// Package introspect extracts and ranks the feature weights of trained linear models.
package introspect

import (
	"math"
	"sort"
	"strings"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/privacy/classifier"
)

var (
	// ErrSchemaMismatch is returned when a model's weights do not line up with its features
	ErrSchemaMismatch = errors.Sentinel("weight vector does not match the filtered schema")
	// ErrNotLinear is returned for models that do not expose linear weights
	ErrNotLinear = errors.Sentinel("model is not a filtered linear model")
)

// FeatureWeight is a feature name and its signed weight. Positive weights push towards private.
type FeatureWeight struct {
	Feature string
	Weight  float64
}

// ExtractWeights returns one weight per retained feature, in schema order,
// signed so that positive always means private.
func ExtractWeights(model classifier.Model) ([]FeatureWeight, error) {
	fm, ok := model.(*classifier.FilteredModel)
	if !ok {
		return nil, errors.Wrapf(ErrNotLinear, "got %T", model)
	}
	lin, ok := fm.Linear()
	if !ok {
		return nil, errors.Wrapf(ErrNotLinear, "got predictor %T", fm.Predictor)
	}

	weights := lin.FeatureWeights()
	if lin.HasBias() && len(weights) > 0 {
		weights = weights[:len(weights)-1]
	}
	names := fm.FeatureNames()
	if len(weights) != len(names) {
		return nil, errors.Wrapf(ErrSchemaMismatch, "expected %d weights, found %d", len(names), len(weights))
	}

	// the weights score the first label the model saw during training
	sign := 1.0
	if labels := lin.Labels(); len(labels) > 0 && labels[0] == 0 {
		sign = -1
	}

	fws := make([]FeatureWeight, len(weights))
	for i, w := range weights {
		fws[i] = FeatureWeight{Feature: names[i], Weight: sign * w}
	}
	return fws, nil
}

// Top holds the most positive (private) and most negative (public) features
type Top struct {
	// Positive is ordered from the largest weight down
	Positive []FeatureWeight
	// Negative is ordered from the smallest weight up
	Negative []FeatureWeight
}

// Names returns the feature names of fws
func Names(fws []FeatureWeight) []string {
	names := make([]string, len(fws))
	for i, fw := range fws {
		names[i] = fw.Feature
	}
	return names
}

// Extractor ranks the weights of linear models
type Extractor struct {
	// Precision is the number of decimals weights are rounded to
	Precision int
	// Rename relabels features for display; nil keeps names as they are
	Rename func(string) string
}

// DefaultExtractor rounds to 4 decimals and keeps feature names
var DefaultExtractor = Extractor{Precision: 4}

// TopFeatures ranks the weights of model with the default extractor
func TopFeatures(model classifier.Model, k int) (Top, error) {
	return DefaultExtractor.TopFeatures(model, k)
}

// TopFeatures extracts the weights of model and ranks them
func (x Extractor) TopFeatures(model classifier.Model, k int) (Top, error) {
	fws, err := ExtractWeights(model)
	if err != nil {
		return Top{}, err
	}
	return x.Rank(fws, k), nil
}

// Rank returns the k most positive and k most negative weights. The weights
// are stable-sorted ascending, so among equal weights the positive list takes
// later features first and the negative list earlier ones. k is clamped to len(fws).
func (x Extractor) Rank(fws []FeatureWeight, k int) Top {
	if k > len(fws) {
		k = len(fws)
	}
	if k < 0 {
		k = 0
	}

	sorted := make([]int, len(fws))
	for i := range sorted {
		sorted[i] = i
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return fws[sorted[i]].Weight < fws[sorted[j]].Weight
	})

	top := Top{
		Positive: make([]FeatureWeight, 0, k),
		Negative: make([]FeatureWeight, 0, k),
	}
	for i := 0; i < k; i++ {
		top.Positive = append(top.Positive, x.display(fws[sorted[len(sorted)-1-i]]))
		top.Negative = append(top.Negative, x.display(fws[sorted[i]]))
	}
	return top
}

func (x Extractor) display(fw FeatureWeight) FeatureWeight {
	if x.Rename != nil {
		fw.Feature = x.Rename(fw.Feature)
	}
	fw.Weight = Round(fw.Weight, x.Precision)
	return fw
}

// Round rounds v to the given number of decimals, halves away from zero
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// SemfeatName turns a semfeat attribute name such as "123_sandy_beach" into
// "sandy-beach". The concept "0c" is shown as "youngster".
func SemfeatName(name string) string {
	if i := strings.Index(name, "_"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(name, "_", "-")
	return strings.ReplaceAll(name, "0c", "youngster")
}
