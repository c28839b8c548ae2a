package pipeline

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/golib/logging"
	"github.com/youralert/youralert/privacy/classifier"
	"github.com/youralert/youralert/privacy/dataset"
	"github.com/youralert/youralert/privacy/evaluate"
	"github.com/youralert/youralert/privacy/results"
)

// DefaultTrainPercent of the generic pool is used for training
const DefaultTrainPercent = 60

// GenericConfig configures RunGeneric
type GenericConfig struct {
	Datasets    string
	FeatureType string
	Classifier  string
	// NumTrain truncates the training split when > 0
	NumTrain     int
	TrainPercent float64
	OutDir       string
	Options      evaluate.Options
	Cache        *Cache
}

// RunGeneric trains on part of the generic pool and evaluates on the rest of
// it and, when it exists, on the per-user dataset.
func RunGeneric(ctx context.Context, cfg GenericConfig) (*evaluate.GenericResult, error) {
	logger := logging.OrNop(cfg.Options.Logger)

	trainer, err := classifier.Select(cfg.Classifier, dataset.Ignored)
	if err != nil {
		return nil, err
	}
	percent := cfg.TrainPercent
	if percent <= 0 {
		percent = DefaultTrainPercent
	}

	genericPath := DatasetPath(cfg.Datasets, GenericDir, cfg.FeatureType)
	logger.Info("loading generic pool", zap.String("path", genericPath))
	generic, err := cfg.Cache.Load(genericPath)
	if err != nil {
		return nil, err
	}

	personalPath := DatasetPath(cfg.Datasets, PersonalDir, cfg.FeatureType)
	users, err := cfg.Cache.Load(personalPath)
	switch {
	case errors.Is(err, dataset.ErrDatasetNotFound):
		logger.Warn("per-user dataset not found, evaluating on the generic pool only", zap.String("path", personalPath))
		users = nil
	case err != nil:
		return nil, err
	}

	res, err := evaluate.New(trainer, cfg.Options).RunGeneric(ctx, generic, users, percent, cfg.NumTrain)
	if err != nil {
		return nil, err
	}

	out := results.Path(cfg.OutDir, results.GenericFileName(cfg.NumTrain, cfg.FeatureType, cfg.Classifier))
	err = writeFile(out, func(w io.Writer) error {
		return results.WriteGenericRecords(w, results.GenericRecords(cfg.FeatureType, cfg.NumTrain, res))
	})
	if err != nil {
		return nil, err
	}
	logger.Info("wrote results", zap.String("path", out))
	return res, nil
}
