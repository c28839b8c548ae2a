package main

import (
	"context"
	"log"

	arg "github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"github.com/youralert/youralert/golib/envutil"
	"github.com/youralert/youralert/golib/logging"
	"github.com/youralert/youralert/privacy/evaluate"
	"github.com/youralert/youralert/privacy/pipeline"
)

func fail(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	args := struct {
		Datasets     string
		Features     string
		Classifier   string
		Out          string
		NumTrain     int     `help:"keep only the last n training examples, all of them when <= 0"`
		TrainPercent float64 `help:"share of the generic pool used for training"`
		Seed         int64
		Verbose      bool
		JSON         bool
	}{
		Datasets:     envutil.String("YOURALERT_DATASETS", "datasets"),
		Features:     "semfeat",
		Classifier:   "liblinear-tuned",
		Out:          ".",
		NumTrain:     -1,
		TrainPercent: pipeline.DefaultTrainPercent,
		Seed:         evaluate.DefaultOptions.Seed,
	}
	arg.MustParse(&args)

	logger := logging.New("generic-eval", logging.Options{Verbose: args.Verbose, JSON: args.JSON})
	defer logger.Sync()

	opts := evaluate.DefaultOptions
	opts.Seed = args.Seed
	opts.Logger = logger

	res, err := pipeline.RunGeneric(context.Background(), pipeline.GenericConfig{
		Datasets:     args.Datasets,
		FeatureType:  args.Features,
		Classifier:   args.Classifier,
		NumTrain:     args.NumTrain,
		TrainPercent: args.TrainPercent,
		OutDir:       args.Out,
		Options:      opts,
	})
	fail(err)

	logger.Info("done",
		zap.Int("train", res.NumTrain),
		zap.Int("test", res.NumTest),
		zap.Float64("test_auc", res.Test),
		zap.Bool("per_user", res.Personal))
}
