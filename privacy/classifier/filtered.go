package classifier

import (
	"io"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/privacy/dataset"
)

// Filtered trains its Learner on every attribute except the class and the ignored ones
type Filtered struct {
	Learner Learner
	Ignored []int
}

// Name of the underlying learner
func (f Filtered) Name() string {
	return f.Learner.Name()
}

// Train projects ds onto the retained attributes and fits the learner
func (f Filtered) Train(ds *dataset.Dataset) (Model, error) {
	if ds.Len() == 0 {
		return nil, errors.Wrapf(dataset.ErrInsufficientData, "training %s on an empty dataset", f.Name())
	}
	features := ds.Schema.FeatureIndices(f.Ignored)
	x := make([][]float64, ds.Len())
	for i, e := range ds.Examples {
		x[i] = project(e, features)
	}
	predictor, err := f.Learner.Fit(x, ds.Labels())
	if err != nil {
		return nil, errors.Wrapf(err, "error training %s", f.Name())
	}
	return &FilteredModel{
		Schema:    ds.Schema,
		Features:  features,
		Predictor: predictor,
	}, nil
}

// FilteredModel predicts with a Predictor over the retained attributes of an example
type FilteredModel struct {
	Schema *dataset.Schema
	// Features are the schema indices the predictor was trained on, in order
	Features  []int
	Predictor Predictor
}

// Predict implements Model
func (m *FilteredModel) Predict(e *dataset.Example) (float64, error) {
	if e.NumValues() != m.Schema.NumAttributes() {
		return 0, errors.Errorf("example has %d values, model expects %d", e.NumValues(), m.Schema.NumAttributes())
	}
	return m.Predictor.Probability(project(e, m.Features)), nil
}

// FeatureNames returns the names of the retained attributes, aligned with the predictor's inputs
func (m *FilteredModel) FeatureNames() []string {
	names := make([]string, len(m.Features))
	for i, idx := range m.Features {
		names[i] = m.Schema.Attributes[idx].Name
	}
	return names
}

// Linear returns the predictor's linear view, if it has one
func (m *FilteredModel) Linear() (Linear, bool) {
	l, ok := m.Predictor.(Linear)
	return l, ok
}

func project(e *dataset.Example, features []int) []float64 {
	x := make([]float64, len(features))
	for i, idx := range features {
		x[i] = e.Value(idx)
	}
	return x
}

// Save writes the predictor's parameters as JSON. Both the linear and the tree predictors support it.
func (m *FilteredModel) Save(w io.Writer) error {
	s, ok := m.Predictor.(interface{ Save(io.Writer) error })
	if !ok {
		return errors.Errorf("%T cannot be saved", m.Predictor)
	}
	return s.Save(w)
}
