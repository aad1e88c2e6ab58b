package detector

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
)

const (
	defaultMaxSamples = 256
	eulerGamma        = 0.5772156649
)

var ErrNotFitted = errors.New("isolation forest is not fitted")

type ForestOptions struct {
	Estimators    int
	MaxSamples    int
	Contamination float64
	Seed          uint64
}

// IsolationForest is a univariate isolation forest. Samples are flagged as
// outliers when their anomaly score falls below the contamination quantile
// of the training scores.
type IsolationForest struct {
	opts       ForestOptions
	trees      []*isoNode
	sampleSize int
	offset     float64
}

type isoNode struct {
	left, right *isoNode
	split       float64
	size        int
}

func (n *isoNode) isLeaf() bool {
	return n.left == nil
}

func NewIsolationForest(opts ForestOptions) *IsolationForest {
	if opts.Estimators <= 0 {
		opts.Estimators = 100
	}
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = defaultMaxSamples
	}
	return &IsolationForest{opts: opts}
}

// Fit grows the ensemble on x and calibrates the outlier offset
func (f *IsolationForest) Fit(x []float64) error {
	if len(x) == 0 {
		return errors.New("fit: empty sample")
	}
	if f.opts.Contamination <= 0 || f.opts.Contamination > 0.5 {
		return errors.New("fit: contamination must be in (0, 0.5]")
	}

	rng := rand.New(rand.NewPCG(f.opts.Seed, f.opts.Seed))

	m := min(f.opts.MaxSamples, len(x))
	limit := int(math.Ceil(math.Log2(float64(max(m, 2)))))

	f.sampleSize = m
	f.trees = make([]*isoNode, f.opts.Estimators)
	for i := range f.trees {
		perm := rng.Perm(len(x))[:m]
		sub := make([]float64, m)
		for j, idx := range perm {
			sub[j] = x[idx]
		}
		f.trees[i] = growTree(sub, 0, limit, rng)
	}

	scores, err := f.ScoreSamples(x)
	if err != nil {
		return err
	}
	f.offset = percentile(scores, 100*f.opts.Contamination)

	return nil
}

// ScoreSamples returns the opposite of the anomaly score, lower is more abnormal
func (f *IsolationForest) ScoreSamples(x []float64) ([]float64, error) {
	if len(f.trees) == 0 {
		return nil, ErrNotFitted
	}

	norm := averagePathLength(f.sampleSize)
	scores := make([]float64, len(x))
	for i, v := range x {
		var total float64
		for _, t := range f.trees {
			total += pathLength(t, v)
		}
		mean := total / float64(len(f.trees))
		if norm == 0 {
			scores[i] = -0.5
			continue
		}
		scores[i] = -math.Pow(2, -mean/norm)
	}
	return scores, nil
}

// Predict reports true for every sample scored strictly below the offset
func (f *IsolationForest) Predict(x []float64) ([]bool, error) {
	scores, err := f.ScoreSamples(x)
	if err != nil {
		return nil, err
	}

	out := make([]bool, len(scores))
	for i, s := range scores {
		out[i] = s < f.offset
	}
	return out, nil
}

func growTree(data []float64, depth, limit int, rng *rand.Rand) *isoNode {
	if depth >= limit || len(data) <= 1 {
		return &isoNode{size: len(data)}
	}

	lo, hi := slices.Min(data), slices.Max(data)
	if lo == hi {
		return &isoNode{size: len(data)}
	}

	split := lo + rng.Float64()*(hi-lo)
	if split >= hi {
		split = lo
	}

	left := make([]float64, 0, len(data))
	right := make([]float64, 0, len(data))
	for _, v := range data {
		if v <= split {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}

	return &isoNode{
		split: split,
		size:  len(data),
		left:  growTree(left, depth+1, limit, rng),
		right: growTree(right, depth+1, limit, rng),
	}
}

func pathLength(n *isoNode, v float64) float64 {
	depth := 0
	for !n.isLeaf() {
		if v <= n.split {
			n = n.left
		} else {
			n = n.right
		}
		depth++
	}
	return float64(depth) + averagePathLength(n.size)
}

// averagePathLength is the expected unsuccessful-search path length in a
// binary search tree of n nodes.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
}

// percentile uses linear interpolation between closest ranks
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
