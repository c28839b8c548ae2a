package pipeline

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/golib/logging"
	"github.com/youralert/youralert/privacy/classifier"
	"github.com/youralert/youralert/privacy/dataset"
	"github.com/youralert/youralert/privacy/evaluate"
	"github.com/youralert/youralert/privacy/metrics"
	"github.com/youralert/youralert/privacy/results"
	"github.com/youralert/youralert/privacy/strategy"
)

// PersonalConfig configures RunPersonal
type PersonalConfig struct {
	// Datasets is the root holding the youralert/ and picalert/ subdirectories
	Datasets    string
	FeatureType string
	Classifier  string
	Strategy    string
	// OutDir receives the result file; empty means the working directory
	OutDir string
	// ROC also renders the pooled and per-user ROC curves as a PNG
	ROC     bool
	Options evaluate.Options
	// Cache, when set, is shared by the runs of a sweep
	Cache *Cache
}

// RunPersonal evaluates one strategy over every user of the per-user dataset
// and writes the result file. Per-user failures are returned in the result's
// Failed field once the file has been written.
func RunPersonal(ctx context.Context, cfg PersonalConfig) (*evaluate.Result, error) {
	logger := logging.OrNop(cfg.Options.Logger)

	st, err := strategy.Parse(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	trainer, err := classifier.Select(cfg.Classifier, dataset.Ignored)
	if err != nil {
		return nil, err
	}

	personalPath := DatasetPath(cfg.Datasets, PersonalDir, cfg.FeatureType)
	logger.Info("loading per-user dataset", zap.String("path", personalPath))
	users, err := cfg.Cache.Load(personalPath)
	if err != nil {
		return nil, err
	}

	var generic *dataset.Dataset
	if st.NeedsGenericPool() {
		genericPath := DatasetPath(cfg.Datasets, GenericDir, cfg.FeatureType)
		logger.Info("loading generic pool", zap.String("path", genericPath))
		generic, err = cfg.Cache.Load(genericPath)
		if err != nil {
			return nil, err
		}
	}

	res, err := evaluate.New(trainer, cfg.Options).Run(ctx, st, users, generic)
	if err != nil {
		return nil, err
	}

	name := results.FileName(cfg.FeatureType, st, res.Options.MaxGenericExamples, cfg.Classifier)
	out := results.Path(cfg.OutDir, name)
	err = writeFile(out, func(w io.Writer) error {
		return results.WriteRecords(w, results.Records(cfg.FeatureType, res))
	})
	if err != nil {
		return nil, err
	}
	logger.Info("wrote results", zap.String("path", out))

	if cfg.ROC {
		png := results.Path(cfg.OutDir, strings.TrimSuffix(name, ".txt")+".png")
		if err := writeFile(png, func(w io.Writer) error { return results.WriteROC(w, st.String(), curves(res)) }); err != nil {
			return nil, errors.Wrapf(err, "error rendering ROC curves")
		}
		logger.Info("wrote ROC curves", zap.String("path", png))
	}
	return res, nil
}

func curves(res *evaluate.Result) []results.Curve {
	acc := res.Accumulator()
	cs := []results.Curve{{Name: results.Average, Points: metrics.Curve(acc.Pooled())}}
	for _, user := range acc.Users() {
		cs = append(cs, results.Curve{Name: user, Points: metrics.Curve(acc.User(user))})
	}
	return cs
}
