package metrics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preds(labels []int, scores []float64) []Prediction {
	var out []Prediction
	for i := range labels {
		out = append(out, Prediction{Label: labels[i], Score: scores[i]})
	}
	return out
}

func TestAUC(t *testing.T) {
	tcs := []struct {
		name     string
		labels   []int
		scores   []float64
		expected float64
	}{
		{"separated", []int{0, 0, 1, 1}, []float64{0.1, 0.2, 0.8, 0.9}, 1},
		{"inverted", []int{1, 1, 0, 0}, []float64{0.1, 0.2, 0.8, 0.9}, 0},
		{"all tied", []int{0, 1, 0, 1}, []float64{0.5, 0.5, 0.5, 0.5}, 0.5},
		// pairs: (p.9 > all n) 2, (p.4 vs n.4 tie) .5, (p.4 > n.1) 1 → 3.5/4
		{"partial tie", []int{1, 1, 0, 0}, []float64{0.9, 0.4, 0.4, 0.1}, 0.875},
		{"one swap", []int{0, 1, 0, 1, 1}, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, 5.0 / 6},
		{"nan ignored", []int{0, 1, 1}, []float64{0.1, 0.9, math.NaN()}, 1},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, AUC(preds(tc.labels, tc.scores)), 1e-12)
		})
	}
}

func TestAUC_Undefined(t *testing.T) {
	assert.True(t, Undefined(AUC(nil)))
	assert.True(t, Undefined(AUC(preds([]int{1, 1}, []float64{0.2, 0.4}))))
	assert.True(t, Undefined(AUC(preds([]int{0, 0}, []float64{0.2, 0.4}))))
	assert.False(t, Undefined(0.5))
}

func TestAUC_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var ps []Prediction
	for i := 0; i < 20000; i++ {
		ps = append(ps, Prediction{Label: i % 2, Score: rng.Float64()})
	}
	assert.InDelta(t, 0.5, AUC(ps), 0.02)
}

func TestCurve(t *testing.T) {
	points := Curve(preds([]int{1, 1, 0, 0}, []float64{0.9, 0.4, 0.4, 0.1}))
	require.Len(t, points, 4)

	assert.Equal(t, Point{0, 0, math.Inf(1)}, points[0])
	assert.Equal(t, Point{0, 0.5, 0.9}, points[1])
	assert.Equal(t, Point{0.5, 1, 0.4}, points[2])
	assert.Equal(t, Point{1, 1, 0.1}, points[3])

	// the trapezoidal area under the curve matches AUC
	var area float64
	for i := 1; i < len(points); i++ {
		area += (points[i].FPR - points[i-1].FPR) * (points[i].TPR + points[i-1].TPR) / 2
	}
	assert.InDelta(t, 0.875, area, 1e-12)

	assert.Nil(t, Curve(preds([]int{1}, []float64{0.3})))
}

func TestAccumulator(t *testing.T) {
	acc := NewAccumulator()
	acc.Add("bob", preds([]int{0, 1}, []float64{0.2, 0.7})...)
	acc.Add("alice", preds([]int{1, 0}, []float64{0.1, 0.6})...)
	acc.Add("bob", Prediction{Label: 1, Score: 0.9})

	assert.Equal(t, []string{"bob", "alice"}, acc.Users())
	assert.Len(t, acc.User("bob"), 3)
	assert.Len(t, acc.Pooled(), 5)
	assert.Equal(t, 1.0, acc.UserAUC("bob"))
	assert.Equal(t, 0.0, acc.UserAUC("alice"))

	// pooled pairs: positives .7 .1 .9, negatives .2 .6 → 4 of 6 concordant
	assert.InDelta(t, 4.0/6, acc.PooledAUC(), 1e-12)
	assert.True(t, Undefined(acc.UserAUC("carol")))
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{0.5, math.NaN(), 0.7, 0.9})
	require.NoError(t, err)
	assert.Equal(t, 3, s.N)
	assert.Equal(t, 1, s.Undefined)
	assert.InDelta(t, 0.7, s.Mean, 1e-12)
	assert.InDelta(t, 0.7, s.Median, 1e-12)
	assert.Equal(t, 0.5, s.Min)
	assert.Equal(t, 0.9, s.Max)
	assert.True(t, s.StdDev > 0)

	_, err = Summarize([]float64{math.NaN()})
	assert.Error(t, err)
}
