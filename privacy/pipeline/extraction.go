package pipeline

import (
	"context"
	"io"

	humanize "github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/golib/logging"
	"github.com/youralert/youralert/privacy/classifier"
	"github.com/youralert/youralert/privacy/dataset"
	"github.com/youralert/youralert/privacy/deviation"
	"github.com/youralert/youralert/privacy/introspect"
	"github.com/youralert/youralert/privacy/results"
)

// ExtractionConfig configures RunExtraction
type ExtractionConfig struct {
	// Dataset is the full path of the per-user ARFF file
	Dataset string
	OutDir  string
	TopK    int
	// Classifier must be linear; defaults to liblinear
	Classifier string
	// Semfeat relabels semfeat concept names for display
	Semfeat bool
	// SaveModels also writes every trained model as JSON
	SaveModels bool
	Logger     *zap.Logger
}

// ExtractionResult holds the top features of every model and the deviations between them
type ExtractionResult struct {
	Users      map[string]introspect.Top
	Generic    introspect.Top
	Deviations []deviation.Deviation
	// Failed collects users whose model could not be trained
	Failed errors.Errors
}

// RunExtraction trains one linear model per user and one on all users, writes
// each model's top private and public concepts and reports the concepts that
// are private for one model and public for another.
func RunExtraction(ctx context.Context, cfg ExtractionConfig) (*ExtractionResult, error) {
	logger := logging.OrNop(cfg.Logger)

	choice := cfg.Classifier
	if choice == "" {
		choice = classifier.LibLinear
	}
	trainer, err := classifier.Select(choice, dataset.Ignored)
	if err != nil {
		return nil, err
	}
	extractor := introspect.DefaultExtractor
	if cfg.Semfeat {
		extractor.Rename = introspect.SemfeatName
	}

	logger.Info("loading per-user dataset", zap.String("path", cfg.Dataset))
	ds, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return nil, err
	}

	users := ds.Users()
	detector := deviation.New(users)
	res := &ExtractionResult{Users: make(map[string]introspect.Top)}

	for u, user := range users {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		userData := ds.ForUser(u)
		logger.Info("building model", zap.String("user", user), zap.Int("examples", userData.Len()))

		top, err := extract(trainer, extractor, userData, cfg, user)
		switch {
		case errors.Is(err, introspect.ErrSchemaMismatch), errors.Is(err, introspect.ErrNotLinear):
			return nil, err
		case err != nil:
			logger.Error("skipping user", zap.String("user", user), zap.Error(err))
			res.Failed = errors.Append(res.Failed, errors.Wrapf(err, "user %s", user))
			continue
		}
		if err := writeWeights(cfg.OutDir, user, top); err != nil {
			return nil, err
		}
		res.Users[user] = top
		detector.Set(u, top)
	}

	logger.Info("building model on the full dataset", zap.String("examples", humanize.Comma(int64(ds.Len()))))
	top, err := extract(trainer, extractor, ds, cfg, deviation.Generic)
	if err != nil {
		return nil, errors.Wrapf(err, "generic model")
	}
	if err := writeWeights(cfg.OutDir, deviation.Generic, top); err != nil {
		return nil, err
	}
	res.Generic = top
	detector.SetGeneric(top)

	res.Deviations = detector.Detect()
	out := results.Path(cfg.OutDir, results.DeviationsFile)
	err = writeFile(out, func(w io.Writer) error {
		return results.WriteDeviations(w, cfg.TopK, res.Deviations)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("wrote deviations", zap.String("path", out), zap.Int("deviations", len(res.Deviations)))
	return res, nil
}

func extract(trainer classifier.Trainer, extractor introspect.Extractor, ds *dataset.Dataset, cfg ExtractionConfig, entity string) (introspect.Top, error) {
	model, err := trainer.Train(ds)
	if err != nil {
		return introspect.Top{}, err
	}
	top, err := extractor.TopFeatures(model, cfg.TopK)
	if err != nil {
		return introspect.Top{}, err
	}

	if cfg.SaveModels {
		saver, ok := model.(interface{ Save(io.Writer) error })
		if !ok {
			return introspect.Top{}, errors.Errorf("%T cannot be saved", model)
		}
		if err := writeFile(results.ModelFile(cfg.OutDir, entity), saver.Save); err != nil {
			return introspect.Top{}, err
		}
	}
	return top, nil
}

func writeWeights(dir, entity string, top introspect.Top) error {
	private, public := results.WeightFiles(dir, entity)
	if err := writeFile(private, func(w io.Writer) error { return results.WriteWeights(w, top.Positive) }); err != nil {
		return err
	}
	return writeFile(public, func(w io.Writer) error { return results.WriteWeights(w, top.Negative) })
}
