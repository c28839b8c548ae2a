package results

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/privacy/deviation"
	"github.com/youralert/youralert/privacy/evaluate"
	"github.com/youralert/youralert/privacy/introspect"
	"github.com/youralert/youralert/privacy/metrics"
	"github.com/youralert/youralert/privacy/strategy"
)

func TestRecords(t *testing.T) {
	res := &evaluate.Result{
		Strategy:   strategy.MustParse("hybrid-o 10 15"),
		Classifier: "liblinear",
		Options:    evaluate.DefaultOptions,
		Users: []evaluate.UserResult{
			{User: "alice", AUC: 0.75},
			{User: "bob", Err: errors.New("not enough examples")},
			{User: "carol", AUC: math.NaN()},
		},
		Pooled: 0.8125,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, Records("semfeat", res)))
	assert.Equal(t,
		"semfeat,liblinear,hybrid-o,hybrid-o w=10,10,5000,15,10,alice,0.75\n"+
			"semfeat,liblinear,hybrid-o,hybrid-o w=10,10,5000,15,10,carol,NaN\n"+
			"semfeat,liblinear,hybrid-o,hybrid-o w=10,10,5000,15,10,average,0.8125\n",
		buf.String())
}

func TestRecords_Generic(t *testing.T) {
	res := &evaluate.Result{
		Strategy:   strategy.MustParse("generic"),
		Classifier: "j48",
		Options:    evaluate.DefaultOptions,
		Users:      []evaluate.UserResult{{User: "u1", AUC: 0.5}},
		Pooled:     0.5,
	}
	records := Records("cnn", res)
	require.Len(t, records, 2)
	assert.Equal(t, Record{"cnn", "j48", "generic", "generic", 0, 5000, 0, 0, "u1", 0.5}, records[0])
	assert.Equal(t, Average, records[1].User)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "results-personal_semfeat_user 8_5000_liblinear.txt",
		FileName("semfeat", strategy.MustParse("user 8"), 5000, "liblinear"))
	// hybrids keep the short names whichever spelling was parsed
	for _, in := range []string{"hybrid-g 10 5", "hybrid-generic 10 5"} {
		assert.Equal(t, "results-personal_cnn_hybrid-g 10 5_5000_liblinear.txt",
			FileName("cnn", strategy.MustParse(in), 5000, "liblinear"), in)
	}
	assert.Equal(t, "results-personal_cnn_hybrid-o 1 35_5000_liblinear.txt",
		FileName("cnn", strategy.MustParse("hybrid-other 1 35"), 5000, "liblinear"))
	assert.Equal(t, "results-generic_-1_vlad_liblinear-tuned.txt", GenericFileName(-1, "vlad", "liblinear-tuned"))
}

func TestGenericRecords(t *testing.T) {
	res := &evaluate.GenericResult{
		Classifier: "liblinear-tuned",
		Test:       0.9,
		Personal:   true,
		All:        0.7,
		Users:      []evaluate.UserResult{{User: "alice", AUC: 0.6}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGenericRecords(&buf, GenericRecords("semfeat", 500, res)))
	assert.Equal(t,
		"semfeat,500,liblinear-tuned,500,all,picalert,0.9\n"+
			"semfeat,500,liblinear-tuned,500,all,youralert,0.7\n"+
			"semfeat,500,liblinear-tuned,500,alice,youralert,0.6\n",
		buf.String())

	res.Personal = false
	assert.Len(t, GenericRecords("semfeat", 500, res), 1)
}

func TestWriteWeights(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWeights(&buf, []introspect.FeatureWeight{
		{Feature: "beach", Weight: -1.234567},
		{Feature: "dog", Weight: 0.5},
	})
	require.NoError(t, err)
	assert.Equal(t, "concept,weight\nbeach,1.2346\ndog,0.5\n", buf.String())
}

func TestWeightFiles(t *testing.T) {
	private, public := WeightFiles("output", "alice")
	assert.Equal(t, "output/alice-weights-private.txt", private)
	assert.Equal(t, "output/alice-weights-public.txt", public)

	assert.Equal(t, "results-personal_x_user 8_5000_j48.txt", Path("", "results-personal_x_user 8_5000_j48.txt"))
	assert.Equal(t, "s3://bucket/out/a b.txt", Path("s3://bucket/out/", "a b.txt"))
}

func TestWriteDeviations(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDeviations(&buf, 50, []deviation.Deviation{
		{Feature: "dog", PrivateFor: "alice", PublicFor: []string{"bob", "generic"}},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"\n===Interesting Deviations (considering top 50 private and public concepts) ===\n"+
			"Concept: dog is private for model: alice and public for models: [bob, generic]\n",
		buf.String())
}

func TestWriteROC(t *testing.T) {
	points := metrics.Curve([]metrics.Prediction{
		{Label: 1, Score: 0.9}, {Label: 0, Score: 0.3}, {Label: 1, Score: 0.4}, {Label: 0, Score: 0.6},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteROC(&buf, "user 8", []Curve{{Name: "average", Points: points}, {Name: "empty"}}))
	_, err := png.Decode(&buf)
	assert.NoError(t, err)

	assert.Error(t, WriteROC(&buf, "nothing", nil))
}
