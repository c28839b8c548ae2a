// Package evaluate runs an evaluation strategy over every user of a
// per-user dataset and computes per-user and pooled AUC.
package evaluate

import (
	"context"
	"time"

	humanize "github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/golib/logging"
	"github.com/youralert/youralert/golib/workerpool"
	"github.com/youralert/youralert/privacy/classifier"
	"github.com/youralert/youralert/privacy/dataset"
	"github.com/youralert/youralert/privacy/folds"
	"github.com/youralert/youralert/privacy/metrics"
	"github.com/youralert/youralert/privacy/sample"
	"github.com/youralert/youralert/privacy/strategy"
)

// Options for an Evaluator
type Options struct {
	// NumFolds used to cross-validate strategies trained on the user's own examples
	NumFolds int
	// MaxGenericExamples caps the generic pool and the other users' pool
	MaxGenericExamples int
	// Seed for every random draw
	Seed int64
	// MaxAttempts bounds the sampler's redraws
	MaxAttempts int
	// Workers evaluates this many users concurrently
	Workers int
	Logger  *zap.Logger
}

// DefaultOptions are the settings used for the published experiments
var DefaultOptions = Options{
	NumFolds:           10,
	MaxGenericExamples: 5000,
	Seed:               1,
	MaxAttempts:        sample.DefaultMaxAttempts,
	Workers:            1,
}

// UserResult holds one user's predictions. Tested is aligned with Predictions.
type UserResult struct {
	User        string
	Index       int
	Tested      []*dataset.Example
	Predictions []metrics.Prediction
	AUC         float64
	Err         error
}

// Result of running a strategy over all users
type Result struct {
	Strategy   strategy.Strategy
	Classifier string
	Options    Options
	Users      []UserResult
	// Pooled is the AUC over the predictions of every user that did not fail
	Pooled float64
	// Failed collects the per-user errors, nil when every user succeeded
	Failed errors.Errors
}

// Accumulator returns the predictions of the successful users
func (r *Result) Accumulator() *metrics.Accumulator {
	acc := metrics.NewAccumulator()
	for _, u := range r.Users {
		if u.Err == nil {
			acc.Add(u.User, u.Predictions...)
		}
	}
	return acc
}

// Evaluator runs strategies with a fixed trainer
type Evaluator struct {
	trainer classifier.Trainer
	opts    Options
	sampler sample.Sampler
	logger  *zap.Logger
}

// New creates an Evaluator. Zero NumFolds, MaxGenericExamples and MaxAttempts take their defaults.
func New(trainer classifier.Trainer, opts Options) *Evaluator {
	if opts.NumFolds == 0 {
		opts.NumFolds = DefaultOptions.NumFolds
	}
	if opts.MaxGenericExamples == 0 {
		opts.MaxGenericExamples = DefaultOptions.MaxGenericExamples
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultOptions.MaxAttempts
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	opts.Logger = logging.OrNop(opts.Logger)

	return &Evaluator{
		trainer: trainer,
		opts:    opts,
		sampler: sample.Sampler{Seed: opts.Seed, MaxAttempts: opts.MaxAttempts},
		logger:  opts.Logger,
	}
}

// pools shared by every user of a run
type pools struct {
	generic *dataset.Dataset
	model   classifier.Model
}

// Run evaluates st for every user declared in users. generic is the external
// generic pool and may be nil unless st needs it. Errors for one user are
// recorded in the result and do not stop the others; the returned error is
// only set when the run as a whole cannot proceed.
func (e *Evaluator) Run(ctx context.Context, st strategy.Strategy, users, generic *dataset.Dataset) (*Result, error) {
	start := time.Now()
	var shared pools

	if st.NeedsGenericPool() {
		if generic == nil {
			return nil, errors.Wrapf(dataset.ErrDatasetNotFound, "strategy %s requires the generic pool", st)
		}
		capped, err := e.sampler.Cap(generic, e.opts.MaxGenericExamples)
		if err != nil {
			return nil, errors.Wrapf(err, "error capping generic pool")
		}
		shared.generic = capped
		e.logger.Info("generic pool",
			zap.String("examples", humanize.Comma(int64(capped.Len()))),
			zap.String("available", humanize.Comma(int64(generic.Len()))))
	}
	if st.Kind == strategy.Generic {
		model, err := e.trainer.Train(shared.generic)
		if err != nil {
			return nil, errors.Wrapf(err, "error training generic model")
		}
		shared.model = model
	}

	names := users.Users()
	results := make([]UserResult, len(names))

	jobs := make([]workerpool.Job, len(names))
	for u := range names {
		u := u
		jobs[u] = func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[u] = e.evaluateUser(ctx, st, users, u, shared)
			return nil
		}
	}

	if e.opts.Workers > 1 {
		pool := workerpool.NewWithContext(ctx, e.opts.Workers)
		pool.Add(jobs)
		if err := pool.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, job := range jobs {
			if err := job(); err != nil {
				return nil, err
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Strategy:   st,
		Classifier: e.trainer.Name(),
		Options:    e.opts,
		Users:      results,
	}
	for _, r := range results {
		if r.Err != nil {
			res.Failed = errors.Append(res.Failed, errors.Wrapf(r.Err, "user %s", r.User))
		}
	}
	res.Pooled = res.Accumulator().PooledAUC()

	e.logger.Info("evaluation done",
		zap.Stringer("strategy", st),
		zap.Int("users", len(results)),
		zap.Float64("auc", res.Pooled),
		zap.Duration("took", time.Since(start)))
	if res.Failed != nil {
		e.logger.Error("some users failed", zap.Int("failed", res.Failed.Len()))
	}
	return res, nil
}

func (e *Evaluator) evaluateUser(ctx context.Context, st strategy.Strategy, users *dataset.Dataset, u int, shared pools) UserResult {
	name := users.Schema.Attributes[dataset.UserIndex].Values[u]
	logger := e.logger.With(zap.String("user", name))
	res := UserResult{User: name, Index: u}

	userData := users.ForUser(u)
	logger.Info("evaluating user", zap.Int("examples", userData.Len()))

	var err error
	res.Tested, res.Predictions, err = e.predictUser(ctx, st, users, u, userData, shared, logger)
	if err != nil {
		logger.Error("evaluation failed", zap.Error(err))
		res.Err = err
		res.Tested, res.Predictions = nil, nil
		return res
	}
	res.AUC = metrics.AUC(res.Predictions)
	logger.Info("user evaluated", zap.Float64("auc", res.AUC))
	return res
}

func (e *Evaluator) predictUser(ctx context.Context, st strategy.Strategy, users *dataset.Dataset, u int, userData *dataset.Dataset, shared pools, logger *zap.Logger) ([]*dataset.Example, []metrics.Prediction, error) {
	if userData.Len() == 0 {
		return nil, nil, errors.Wrapf(dataset.ErrInsufficientData, "user has no examples")
	}

	var others *dataset.Dataset
	if st.Kind == strategy.Other || st.Kind == strategy.HybridOther {
		var err error
		others, err = e.sampler.Cap(users.ExceptUser(u), e.opts.MaxGenericExamples)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "error capping other users' examples")
		}
		logger.Debug("other users' pool", zap.Int("examples", others.Len()))
	}

	switch st.Kind {
	case strategy.Generic:
		return predict(shared.model, userData)
	case strategy.Other:
		model, err := e.trainer.Train(others)
		if err != nil {
			return nil, nil, err
		}
		return predict(model, userData)
	}

	var pool *dataset.Dataset
	switch st.Kind {
	case strategy.HybridGeneric:
		pool = shared.generic
	case strategy.HybridOther:
		pool = others
	}

	fs, err := folds.Build(userData, e.opts.NumFolds, e.opts.Seed)
	if err != nil {
		return nil, nil, err
	}

	var tested []*dataset.Example
	var preds []metrics.Prediction
	for _, fold := range fs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		train, err := folds.Mix(fold.Train, pool, st.NumUserExamples, st.UserWeight, e.sampler)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "fold %d", fold.Index)
		}
		logger.Debug("training fold",
			zap.Int("fold", fold.Index),
			zap.Int("train", train.Len()),
			zap.Int("test", fold.Test.Len()))

		model, err := e.trainer.Train(train)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "fold %d", fold.Index)
		}
		t, p, err := predict(model, fold.Test)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "fold %d", fold.Index)
		}
		tested = append(tested, t...)
		preds = append(preds, p...)
	}
	return tested, preds, nil
}

func predict(model classifier.Model, ds *dataset.Dataset) ([]*dataset.Example, []metrics.Prediction, error) {
	preds := make([]metrics.Prediction, 0, ds.Len())
	for _, e := range ds.Examples {
		p, err := model.Predict(e)
		if err != nil {
			return nil, nil, err
		}
		preds = append(preds, metrics.Prediction{Label: e.Label(), Score: p})
	}
	return ds.Examples, preds, nil
}
