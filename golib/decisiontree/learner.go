package decisiontree

import (
	"math"
	"sort"

	"github.com/youralert/youralert/golib/errors"
)

// Learner grows a binary classification tree by greedy Gini impurity reduction
type Learner struct {
	// MaxDepth bounds the number of nodes on any root-to-leaf path
	MaxDepth int
	// MinLeaf is the minimum number of training examples in a leaf
	MinLeaf int
}

// DefaultLearner mirrors the C4.5 defaults of a minimum of two examples per leaf
var DefaultLearner = Learner{
	MaxDepth: 20,
	MinLeaf:  2,
}

// Fit grows a tree on the rows of x. Each leaf outputs the fraction of its
// training examples for which positive is true.
func (l Learner) Fit(x [][]float64, positive []bool) (*DecisionTree, error) {
	if len(x) != len(positive) {
		return nil, errors.Errorf("got %d feature vectors and %d labels", len(x), len(positive))
	}
	if len(x) == 0 {
		return nil, errors.Errorf("no training examples")
	}
	featureSize := len(x[0])
	if featureSize == 0 {
		return nil, errors.Errorf("no features")
	}
	for i, row := range x {
		if len(row) != featureSize {
			return nil, errors.Errorf("example %d has %d features, expected %d", i, len(row), featureSize)
		}
	}

	maxDepth := l.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultLearner.MaxDepth
	}
	minLeaf := l.MinLeaf
	if minLeaf <= 0 {
		minLeaf = 1
	}

	g := &grower{
		x:        x,
		positive: positive,
		maxDepth: maxDepth,
		minLeaf:  minLeaf,
		tree:     &DecisionTree{FeatureSize: featureSize},
	}

	all := make([]int, len(x))
	for i := range all {
		all[i] = i
	}

	child, isLeaf := g.grow(all, 1)
	if isLeaf {
		// the root is always a node; this one sends every input to the single leaf
		g.tree.Nodes = []Node{{
			FeatureIndex: 0,
			Threshold:    math.MaxFloat64,
			LeftChild:    child,
			LeftIsLeaf:   true,
			RightChild:   child,
			RightIsLeaf:  true,
		}}
		g.tree.Depth = 1
	}
	return g.tree, nil
}

type grower struct {
	x        [][]float64
	positive []bool
	maxDepth int
	minLeaf  int
	tree     *DecisionTree
}

type split struct {
	feature   int
	threshold float64
	impurity  float64
}

// grow returns the index of the subtree built over idx, and whether it is a leaf
func (g *grower) grow(idx []int, depth int) (int, bool) {
	pos := g.countPositive(idx)
	if depth > g.maxDepth || pos == 0 || pos == len(idx) || len(idx) < 2*g.minLeaf {
		return g.leaf(pos, len(idx)), true
	}

	best, ok := g.bestSplit(idx, gini(pos, len(idx)))
	if !ok {
		return g.leaf(pos, len(idx)), true
	}

	var left, right []int
	for _, i := range idx {
		if g.x[i][best.feature] < best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	nodeIdx := len(g.tree.Nodes)
	g.tree.Nodes = append(g.tree.Nodes, Node{FeatureIndex: best.feature, Threshold: best.threshold})
	if depth > g.tree.Depth {
		g.tree.Depth = depth
	}

	leftChild, leftIsLeaf := g.grow(left, depth+1)
	rightChild, rightIsLeaf := g.grow(right, depth+1)

	node := &g.tree.Nodes[nodeIdx]
	node.LeftChild, node.LeftIsLeaf = leftChild, leftIsLeaf
	node.RightChild, node.RightIsLeaf = rightChild, rightIsLeaf
	return nodeIdx, false
}

func (g *grower) leaf(pos, total int) int {
	g.tree.Outputs = append(g.tree.Outputs, float64(pos)/float64(total))
	return len(g.tree.Outputs) - 1
}

func (g *grower) countPositive(idx []int) int {
	var pos int
	for _, i := range idx {
		if g.positive[i] {
			pos++
		}
	}
	return pos
}

// bestSplit scans every feature for the threshold with the lowest weighted
// impurity. Missing values sort last and always land on the right.
func (g *grower) bestSplit(idx []int, parent float64) (split, bool) {
	n := len(idx)
	totalPos := g.countPositive(idx)
	best := split{impurity: parent}
	found := false

	sorted := make([]int, n)
	for f := 0; f < len(g.x[idx[0]]); f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool {
			va, vb := g.x[sorted[a]][f], g.x[sorted[b]][f]
			if math.IsNaN(vb) {
				return !math.IsNaN(va)
			}
			return va < vb
		})

		var leftPos int
		for k := 0; k < n-1; k++ {
			if g.positive[sorted[k]] {
				leftPos++
			}
			cur, next := g.x[sorted[k]][f], g.x[sorted[k+1]][f]
			if math.IsNaN(cur) {
				break
			}
			if cur == next {
				continue
			}
			leftN := k + 1
			rightN := n - leftN
			if leftN < g.minLeaf || rightN < g.minLeaf {
				continue
			}
			impurity := (float64(leftN)*gini(leftPos, leftN) + float64(rightN)*gini(totalPos-leftPos, rightN)) / float64(n)
			if impurity < best.impurity-1e-12 {
				threshold := cur + (next-cur)/2
				if math.IsNaN(next) {
					threshold = math.MaxFloat64
				} else if threshold <= cur {
					threshold = next
				}
				best = split{feature: f, threshold: threshold, impurity: impurity}
				found = true
			}
		}
	}
	return best, found
}

func gini(pos, total int) float64 {
	if total == 0 {
		return 0
	}
	p := float64(pos) / float64(total)
	return 2 * p * (1 - p)
}
