package main

import (
	"context"
	"log"
	"os"
	"time"

	arg "github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"github.com/youralert/youralert/golib/envutil"
	"github.com/youralert/youralert/golib/logging"
	"github.com/youralert/youralert/privacy/evaluate"
	"github.com/youralert/youralert/privacy/metrics"
	"github.com/youralert/youralert/privacy/pipeline"
)

func fail(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	workers, err := envutil.Int("YOURALERT_WORKERS", 1)
	fail(err)

	args := struct {
		Strategy   string `arg:"positional,required" help:"generic, other, \"user m\", \"hybrid-g w m\" or \"hybrid-o w m\""`
		Datasets   string `help:"directory or s3 prefix holding youralert/ and picalert/"`
		Features   string `help:"feature type, names the ARFF files"`
		Classifier string `help:"liblinear, liblinear-tuned or j48"`
		Out        string `help:"directory to write the result file to"`
		Folds      int    `help:"number of cross-validation folds"`
		MaxGeneric int    `help:"cap on the generic and other-user pools"`
		Seed       int64
		Workers    int  `help:"users evaluated concurrently"`
		ROC        bool `help:"also render the ROC curves as a png"`
		Verbose    bool
		JSON       bool `help:"log JSON lines"`
	}{
		Datasets:   envutil.String("YOURALERT_DATASETS", "datasets"),
		Features:   "semfeat",
		Classifier: "liblinear",
		Out:        ".",
		Folds:      evaluate.DefaultOptions.NumFolds,
		MaxGeneric: evaluate.DefaultOptions.MaxGenericExamples,
		Seed:       evaluate.DefaultOptions.Seed,
		Workers:    workers,
	}
	arg.MustParse(&args)

	logger := logging.New("personal-eval", logging.Options{Verbose: args.Verbose, JSON: args.JSON})
	defer logger.Sync()

	opts := evaluate.DefaultOptions
	opts.NumFolds = args.Folds
	opts.MaxGenericExamples = args.MaxGeneric
	opts.Seed = args.Seed
	opts.Workers = args.Workers
	opts.Logger = logger

	start := time.Now()
	res, err := pipeline.RunPersonal(context.Background(), pipeline.PersonalConfig{
		Datasets:    args.Datasets,
		FeatureType: args.Features,
		Classifier:  args.Classifier,
		Strategy:    args.Strategy,
		OutDir:      args.Out,
		ROC:         args.ROC,
		Options:     opts,
	})
	fail(err)

	aucs := make([]float64, 0, len(res.Users))
	for _, u := range res.Users {
		if u.Err == nil {
			aucs = append(aucs, u.AUC)
		}
	}
	summary, err := metrics.Summarize(aucs)
	if err != nil {
		logger.Warn("no user has a defined AUC", zap.Error(err))
	}
	logger.Info("done",
		zap.String("strategy", res.Strategy.CustomName()),
		zap.Float64("pooled_auc", res.Pooled),
		zap.Float64("mean_user_auc", summary.Mean),
		zap.Float64("median_user_auc", summary.Median),
		zap.Float64("stddev_user_auc", summary.StdDev),
		zap.Int("undefined_user_auc", summary.Undefined),
		zap.Duration("took", time.Since(start)))

	if res.Failed != nil {
		logger.Error("some users could not be evaluated", zap.Int("failed", res.Failed.Len()), zap.Error(res.Failed))
		logger.Sync()
		os.Exit(1)
	}
}
