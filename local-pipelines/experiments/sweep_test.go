package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/privacy/strategy"
)

func TestDefaultSweep(t *testing.T) {
	assert.Len(t, DefaultSweep.Generic.Runs(), 6*5)

	runs, err := DefaultSweep.Personalized.Runs()
	require.NoError(t, err)
	// generic, other, 7 user counts and 7*4 runs for each hybrid, per feature type
	assert.Len(t, runs, 3*(1+1+7+2*28))
	for _, run := range runs {
		_, err := strategy.Parse(run.Strategy)
		assert.NoError(t, err, run.Strategy)
	}
}

func TestPersonalizedRuns(t *testing.T) {
	sweep := PersonalizedSweep{
		FeatureTypes:    []string{"cnn"},
		Methods:         []string{"other", "user", "hybrid-g"},
		NumUserExamples: []int{5, 10},
		HybridWeights:   []int{1, 100},
	}
	runs, err := sweep.Runs()
	require.NoError(t, err)

	expected := []PersonalRun{
		{"cnn", "other"},
		{"cnn", "user 5"},
		{"cnn", "user 10"},
		{"cnn", "hybrid-g 1 5"},
		{"cnn", "hybrid-g 100 5"},
		{"cnn", "hybrid-g 1 10"},
		{"cnn", "hybrid-g 100 10"},
	}
	if diff := cmp.Diff(expected, runs); diff != "" {
		t.Errorf("unexpected runs (-want +got):\n%s", diff)
	}

	sweep.Methods = []string{"hybrid"}
	_, err = sweep.Runs()
	assert.True(t, errors.Is(err, strategy.ErrUnknownStrategy))
}

func TestGenericRuns(t *testing.T) {
	sweep := GenericSweep{FeatureTypes: []string{"vlad", "bow"}, NumTrain: []int{50, -1}}
	expected := []GenericRun{{"vlad", 50}, {"bow", 50}, {"vlad", -1}, {"bow", -1}}
	if diff := cmp.Diff(expected, sweep.Runs()); diff != "" {
		t.Errorf("unexpected runs (-want +got):\n%s", diff)
	}
}

func TestLoadSweep(t *testing.T) {
	dir, err := ioutil.TempDir("", "sweep")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "sweep.yaml")
	src := `
datasets: s3://youralert/datasets
personalized:
  feature_types: [semfeat]
  hybrid_weights: [10]
insights:
  top_k: 20
`
	require.NoError(t, ioutil.WriteFile(path, []byte(src), 0644))

	sweep, err := LoadSweep(path)
	require.NoError(t, err)
	assert.Equal(t, "s3://youralert/datasets", sweep.Datasets)
	assert.Equal(t, []string{"semfeat"}, sweep.Personalized.FeatureTypes)
	assert.Equal(t, []int{10}, sweep.Personalized.HybridWeights)
	assert.Equal(t, DefaultSweep.Personalized.NumUserExamples, sweep.Personalized.NumUserExamples)
	assert.Equal(t, "liblinear", sweep.Personalized.Classifier)
	assert.Equal(t, 20, sweep.Insights.TopK)
	assert.Equal(t, "output", sweep.Insights.Out)

	require.NoError(t, ioutil.WriteFile(path, []byte("personalised: {}\n"), 0644))
	_, err = LoadSweep(path)
	assert.Error(t, err)

	sweep, err = LoadSweep("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSweep.Insights, sweep.Insights)
}
