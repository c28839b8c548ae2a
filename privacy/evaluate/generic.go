package evaluate

import (
	"context"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/privacy/dataset"
	"github.com/youralert/youralert/privacy/metrics"
)

// GenericResult reports how a model trained on part of the generic pool does
// on the rest of it and on the per-user dataset
type GenericResult struct {
	Classifier string
	NumTrain   int
	NumTest    int
	// Test is the AUC on the held-out part of the generic pool
	Test float64
	// Personal is set when the per-user dataset was evaluated
	Personal bool
	// All is the AUC over every per-user example, NaN without a per-user dataset
	All   float64
	Users []UserResult
}

// SplitTrainTest puts the first percent% of ds (rounded) in train and the rest
// in test. When numTrain > 0 the training part is truncated to its last numTrain examples.
func SplitTrainTest(ds *dataset.Dataset, percent float64, numTrain int) (*dataset.Dataset, *dataset.Dataset) {
	cut := int(math.Floor(float64(ds.Len())*percent/100 + 0.5))
	if cut > ds.Len() {
		cut = ds.Len()
	}
	if cut < 0 {
		cut = 0
	}
	train := append([]*dataset.Example(nil), ds.Examples[:cut]...)
	test := append([]*dataset.Example(nil), ds.Examples[cut:]...)
	if numTrain > 0 && len(train) > numTrain {
		train = train[len(train)-numTrain:]
	}
	return dataset.New(ds.Schema, train), dataset.New(ds.Schema, test)
}

// RunGeneric shuffles the generic pool, trains on percent% of it and reports
// AUC on the held-out part, on all of users and on each user. users may be nil.
func (e *Evaluator) RunGeneric(ctx context.Context, generic, users *dataset.Dataset, percent float64, numTrain int) (*GenericResult, error) {
	shuffled := generic.Shuffled(rand.New(rand.NewSource(e.opts.Seed)))
	train, test := SplitTrainTest(shuffled, percent, numTrain)
	e.logger.Info("split generic pool", zap.Int("train", train.Len()), zap.Int("test", test.Len()))

	model, err := e.trainer.Train(train)
	if err != nil {
		return nil, errors.Wrapf(err, "error training on the generic pool")
	}

	_, preds, err := predict(model, test)
	if err != nil {
		return nil, err
	}
	res := &GenericResult{
		Classifier: e.trainer.Name(),
		NumTrain:   train.Len(),
		NumTest:    test.Len(),
		Test:       metrics.AUC(preds),
		All:        math.NaN(),
	}
	e.logger.Info("generic test split", zap.Float64("auc", res.Test))

	if users == nil {
		return res, nil
	}

	res.Personal = true
	acc := metrics.NewAccumulator()
	for u, name := range users.Users() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tested, preds, err := predict(model, users.ForUser(u))
		if err != nil {
			return nil, errors.Wrapf(err, "user %s", name)
		}
		acc.Add(name, preds...)
		res.Users = append(res.Users, UserResult{
			User:        name,
			Index:       u,
			Tested:      tested,
			Predictions: preds,
			AUC:         metrics.AUC(preds),
		})
	}
	res.All = acc.PooledAUC()
	e.logger.Info("per-user dataset", zap.Float64("auc", res.All))
	return res, nil
}
