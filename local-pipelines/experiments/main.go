package main

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youralert/youralert/golib/envutil"
	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/golib/logging"
	"github.com/youralert/youralert/golib/workerpool"
	"github.com/youralert/youralert/privacy/evaluate"
	"github.com/youralert/youralert/privacy/pipeline"
)

func checkError(e error) {
	if e != nil {
		log.Output(2, e.Error())
		os.Exit(1)
	}
}

var (
	configPath string
	datasets   string
	outDir     string
	workers    int
	verbose    bool
)

func init() {
	for _, cmd := range []*cobra.Command{&genericCmd, &personalizedCmd, &insightsCmd, &allCmd} {
		cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML sweep file, defaults to the published experiments")
		cmd.Flags().StringVar(&datasets, "datasets", envutil.String("YOURALERT_DATASETS", ""), "overrides the sweep's dataset root")
		cmd.Flags().StringVarP(&outDir, "out", "o", "", "overrides the sweep's output directory")
		cmd.Flags().IntVar(&workers, "workers", 0, "runs executed concurrently, overrides the sweep")
		cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	}
}

// runner executes the runs of a sweep, collecting the failed ones
type runner struct {
	sweep  Sweep
	logger *zap.Logger
	cache  *pipeline.Cache

	m      sync.Mutex
	failed errors.Errors
}

func newRunner(name string) *runner {
	sweep, err := LoadSweep(configPath)
	checkError(err)
	if datasets != "" {
		sweep.Datasets = datasets
	}
	if outDir != "" {
		sweep.Out = outDir
	}
	if workers > 0 {
		sweep.Workers = workers
	}
	// runs sharing a feature type reuse its datasets
	cache, err := pipeline.NewCache(pipeline.DefaultCacheSize * sweep.Workers)
	checkError(err)
	return &runner{
		sweep:  sweep,
		logger: logging.New(name, logging.Options{Verbose: verbose}),
		cache:  cache,
	}
}

func (r *runner) fail(err error) {
	r.m.Lock()
	defer r.m.Unlock()
	r.failed = errors.Append(r.failed, err)
}

// run executes jobs on the sweep's workers; a failed run does not stop the others
func (r *runner) run(jobs []workerpool.Job) {
	pool := workerpool.New(r.sweep.Workers)
	pool.Add(jobs)
	checkError(pool.Wait())
}

func (r *runner) generic(ctx context.Context) {
	runs := r.sweep.Generic.Runs()
	r.logger.Info("generic sweep", zap.Int("runs", len(runs)))

	var jobs []workerpool.Job
	for _, run := range runs {
		run := run
		jobs = append(jobs, func() error {
			opts := evaluate.DefaultOptions
			opts.Logger = r.logger.With(zap.String("features", run.FeatureType), zap.Int("num_train", run.NumTrain))
			_, err := pipeline.RunGeneric(ctx, pipeline.GenericConfig{
				Datasets:    r.sweep.Datasets,
				FeatureType: run.FeatureType,
				Classifier:  r.sweep.Generic.Classifier,
				NumTrain:    run.NumTrain,
				OutDir:      r.sweep.Out,
				Options:     opts,
				Cache:       r.cache,
			})
			if err != nil {
				opts.Logger.Error("run failed", zap.Error(err))
				r.fail(errors.Wrapf(err, "generic %s %d", run.FeatureType, run.NumTrain))
			}
			return nil
		})
	}
	r.run(jobs)
}

func (r *runner) personalized(ctx context.Context) {
	runs, err := r.sweep.Personalized.Runs()
	checkError(err)
	r.logger.Info("personalized sweep", zap.Int("runs", len(runs)))

	var jobs []workerpool.Job
	for _, run := range runs {
		run := run
		jobs = append(jobs, func() error {
			opts := evaluate.DefaultOptions
			opts.MaxGenericExamples = r.sweep.Personalized.MaxGeneric
			opts.Logger = r.logger.With(zap.String("features", run.FeatureType), zap.String("strategy", run.Strategy))
			res, err := pipeline.RunPersonal(ctx, pipeline.PersonalConfig{
				Datasets:    r.sweep.Datasets,
				FeatureType: run.FeatureType,
				Classifier:  r.sweep.Personalized.Classifier,
				Strategy:    run.Strategy,
				OutDir:      r.sweep.Out,
				Options:     opts,
				Cache:       r.cache,
			})
			if err == nil && res.Failed != nil {
				err = res.Failed
			}
			if err != nil {
				opts.Logger.Error("run failed", zap.Error(err))
				r.fail(errors.Wrapf(err, "%s %s", run.FeatureType, run.Strategy))
			}
			return nil
		})
	}
	r.run(jobs)
}

func (r *runner) insights(ctx context.Context) {
	cfg := r.sweep.Insights
	dataset := cfg.Dataset
	if datasets != "" {
		dataset = pipeline.DatasetPath(datasets, pipeline.PersonalDir, "semfeat")
	}
	res, err := pipeline.RunExtraction(ctx, pipeline.ExtractionConfig{
		Dataset: dataset,
		OutDir:  cfg.Out,
		TopK:    cfg.TopK,
		Semfeat: cfg.Semfeat,
		Logger:  r.logger,
	})
	checkError(err)
	if res.Failed != nil {
		r.fail(res.Failed)
	}
}

func (r *runner) done() {
	r.logger.Sync()
	if r.failed != nil {
		r.logger.Error("sweep finished with failures", zap.Int("failed", r.failed.Len()), zap.Error(r.failed))
		r.logger.Sync()
		os.Exit(1)
	}
}

var genericCmd = cobra.Command{
	Use:   "generic",
	Short: "evaluate models trained on growing slices of the generic pool",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		r := newRunner("generic")
		r.generic(context.Background())
		r.done()
	},
}

var personalizedCmd = cobra.Command{
	Use:   "personalized",
	Short: "evaluate every strategy for every user example count and hybrid weight",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		r := newRunner("personalized")
		r.personalized(context.Background())
		r.done()
	},
}

var insightsCmd = cobra.Command{
	Use:   "insights",
	Short: "extract the top concepts of every user model and their deviations",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		r := newRunner("insights")
		r.insights(context.Background())
		r.done()
	},
}

var allCmd = cobra.Command{
	Use:   "all",
	Short: "run the generic, personalized and insights sweeps in turn",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		r := newRunner("experiments")
		ctx := context.Background()
		r.generic(ctx)
		r.personalized(ctx)
		r.insights(ctx)
		r.done()
	},
}

func main() {
	rootCmd := &cobra.Command{Use: "experiments"}
	rootCmd.AddCommand(&genericCmd)
	rootCmd.AddCommand(&personalizedCmd)
	rootCmd.AddCommand(&insightsCmd)
	rootCmd.AddCommand(&allCmd)

	rootCmd.Execute()
}
