package pipeline

import (
	"bufio"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/golib/linear"
	"github.com/youralert/youralert/privacy/dataset"
	"github.com/youralert/youralert/privacy/dataset/datasettest"
	"github.com/youralert/youralert/privacy/deviation"
	"github.com/youralert/youralert/privacy/evaluate"
	"github.com/youralert/youralert/privacy/results"
	"github.com/youralert/youralert/privacy/strategy"
)

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "pipeline")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func writeDataset(t *testing.T, path string, ds *dataset.Dataset) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, dataset.WriteARFF(f, ds))
	require.NoError(t, f.Close())
}

func readLines(t *testing.T, path string) []string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		if s.Text() != "" {
			lines = append(lines, s.Text())
		}
	}
	require.NoError(t, s.Err())
	return lines
}

func options() evaluate.Options {
	opts := evaluate.DefaultOptions
	opts.NumFolds = 5
	opts.MaxGenericExamples = 50
	return opts
}

func TestRunPersonal(t *testing.T) {
	root, out := tempDir(t), tempDir(t)
	writeDataset(t, DatasetPath(root, PersonalDir, "semfeat"), datasettest.Users([]string{"a", "b", "c"}, 20, 3, 1))

	cfg := PersonalConfig{
		Datasets:    root,
		FeatureType: "semfeat",
		Classifier:  "liblinear",
		Strategy:    "user 8",
		OutDir:      out,
		ROC:         true,
		Options:     options(),
	}
	res, err := RunPersonal(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, res.Failed)
	assert.Len(t, res.Users, 3)

	name := results.FileName("semfeat", strategy.MustParse("user 8"), 50, "liblinear")
	lines := readLines(t, results.Path(out, name))
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "semfeat,"))
	assert.Contains(t, lines[3], results.Average)

	_, err = os.Stat(results.Path(out, strings.TrimSuffix(name, ".txt")+".png"))
	assert.NoError(t, err)
}

func TestRunPersonal_Hybrid(t *testing.T) {
	root, out := tempDir(t), tempDir(t)
	writeDataset(t, DatasetPath(root, PersonalDir, "cnn"), datasettest.Users([]string{"a", "b"}, 20, 3, 1))
	writeDataset(t, DatasetPath(root, GenericDir, "cnn"), datasettest.Users([]string{"p"}, 80, 3, 2))

	res, err := RunPersonal(context.Background(), PersonalConfig{
		Datasets:    root,
		FeatureType: "cnn",
		Classifier:  "liblinear",
		Strategy:    "hybrid-g 10 8",
		OutDir:      out,
		Options:     options(),
	})
	require.NoError(t, err)
	assert.Nil(t, res.Failed)
	assert.Equal(t, strategy.HybridGeneric, res.Strategy.Kind)
}

func TestRunPersonal_Errors(t *testing.T) {
	root := tempDir(t)
	writeDataset(t, DatasetPath(root, PersonalDir, "vlad"), datasettest.Users([]string{"a"}, 20, 2, 1))

	base := PersonalConfig{Datasets: root, FeatureType: "vlad", Classifier: "liblinear", Strategy: "user 5", OutDir: tempDir(t), Options: options()}

	cfg := base
	cfg.Strategy = "generic"
	_, err := RunPersonal(context.Background(), cfg)
	assert.True(t, errors.Is(err, dataset.ErrDatasetNotFound), "generic pool is required")

	cfg = base
	cfg.FeatureType = "bow"
	_, err = RunPersonal(context.Background(), cfg)
	assert.True(t, errors.Is(err, dataset.ErrDatasetNotFound))

	cfg = base
	cfg.Strategy = "sometimes"
	_, err = RunPersonal(context.Background(), cfg)
	assert.True(t, errors.Is(err, strategy.ErrUnknownStrategy))
}

func TestRunGeneric(t *testing.T) {
	root, out := tempDir(t), tempDir(t)
	writeDataset(t, DatasetPath(root, GenericDir, "edch"), datasettest.Users([]string{"p"}, 100, 3, 2))

	cfg := GenericConfig{Datasets: root, FeatureType: "edch", Classifier: "liblinear", NumTrain: 50, OutDir: out, Options: options()}

	res, err := RunGeneric(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, res.Personal)
	assert.Equal(t, 50, res.NumTrain)
	assert.Len(t, readLines(t, results.Path(out, results.GenericFileName(50, "edch", "liblinear"))), 1)

	writeDataset(t, DatasetPath(root, PersonalDir, "edch"), datasettest.Users([]string{"a", "b"}, 20, 3, 1))
	res, err = RunGeneric(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, res.Personal)
	assert.Len(t, readLines(t, results.Path(out, results.GenericFileName(50, "edch", "liblinear"))), 4)
}

func TestRunExtraction(t *testing.T) {
	root, out := tempDir(t), tempDir(t)
	ds := datasettest.Users([]string{"a", "b", "ghost"}, 20, 4, 1)
	path := DatasetPath(root, PersonalDir, "semfeat")
	writeDataset(t, path, ds.ExceptUser(2))

	res, err := RunExtraction(context.Background(), ExtractionConfig{Dataset: path, OutDir: out, TopK: 2, SaveModels: true})
	require.NoError(t, err)

	require.NotNil(t, res.Failed)
	assert.Equal(t, 1, res.Failed.Len())
	assert.True(t, errors.Is(res.Failed, dataset.ErrInsufficientData))

	assert.Len(t, res.Users, 2)
	for _, entity := range []string{"a", "b", deviation.Generic} {
		private, public := results.WeightFiles(out, entity)
		assert.Len(t, readLines(t, private), 3, entity)
		assert.Len(t, readLines(t, public), 3, entity)
	}
	for _, user := range []string{"a", "b"} {
		assert.Len(t, res.Users[user].Positive, 2, user)
		assert.Len(t, res.Users[user].Negative, 2, user)
	}
	// f0 separates the classes, so it leads the private side of the model trained on everyone
	assert.Equal(t, "f0", res.Generic.Positive[0].Feature)

	f, err := os.Open(results.ModelFile(out, "a"))
	require.NoError(t, err)
	defer f.Close()
	model, err := linear.Load(f)
	require.NoError(t, err)
	assert.Equal(t, 4, model.NumFeatures)

	lines := readLines(t, results.Path(out, results.DeviationsFile))
	assert.Contains(t, lines[0], "top 2")
}

func TestRunExtraction_Cancelled(t *testing.T) {
	root := tempDir(t)
	path := DatasetPath(root, PersonalDir, "semfeat")
	writeDataset(t, path, datasettest.Users([]string{"a"}, 10, 2, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunExtraction(ctx, ExtractionConfig{Dataset: path, OutDir: tempDir(t), TopK: 2})
	assert.Equal(t, context.Canceled, err)
}

func TestCache(t *testing.T) {
	root := tempDir(t)
	a := DatasetPath(root, PersonalDir, "a")
	b := DatasetPath(root, PersonalDir, "b")
	c := DatasetPath(root, PersonalDir, "c")
	for _, path := range []string{a, b, c} {
		writeDataset(t, path, datasettest.Users([]string{"u"}, 4, 1, 1))
	}

	cache, err := NewCache(2)
	require.NoError(t, err)

	first, err := cache.Load(a)
	require.NoError(t, err)
	again, err := cache.Load(a)
	require.NoError(t, err)
	assert.True(t, first == again, "hit returns the cached dataset")

	_, err = cache.Load(DatasetPath(root, PersonalDir, "missing"))
	assert.True(t, errors.Is(err, dataset.ErrDatasetNotFound))
	assert.Equal(t, 1, cache.Len())

	_, err = cache.Load(b)
	require.NoError(t, err)
	_, err = cache.Load(c)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	evicted, err := cache.Load(a)
	require.NoError(t, err)
	assert.False(t, first == evicted, "least recently used dataset was evicted")

	var none *Cache
	ds, err := none.Load(a)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, 0, none.Len())
}
