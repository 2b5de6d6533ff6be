// Package iforest implements an isolation forest for unsupervised outlier
// detection on small numeric tables.
//
// Each tree isolates a random subsample by splitting on a random feature at a
// uniform random value between the node's minimum and maximum. Rows that are
// isolated after few splits get a high anomaly score. The decision threshold
// is the (1 - contamination) percentile of the training scores, so roughly a
// contamination fraction of the training rows is flagged.
package iforest

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

const eulerGamma = 0.5772156649015329

// Options configures Fit.
type Options struct {
	// Trees is the number of isolation trees.
	Trees int
	// MaxSamples caps the per-tree subsample size; the effective size is
	// min(MaxSamples, rows).
	MaxSamples int
	// Contamination is the expected fraction of outliers, in (0, 0.5].
	Contamination float64
	// Seed makes fitting deterministic.
	Seed int64
}

// DefaultOptions returns 100 trees, 256 max samples, contamination 0.02 and
// seed 42.
func DefaultOptions() Options {
	return Options{Trees: 100, MaxSamples: 256, Contamination: 0.02, Seed: 42}
}

func (o Options) validate() error {
	if o.Trees < 1 {
		return fmt.Errorf("trees must be at least 1, got %d", o.Trees)
	}
	if o.MaxSamples < 1 {
		return fmt.Errorf("max samples must be at least 1, got %d", o.MaxSamples)
	}
	if o.Contamination <= 0 || o.Contamination > 0.5 {
		return fmt.Errorf("contamination must be in (0, 0.5], got %g", o.Contamination)
	}
	return nil
}

// Node is one node of an isolation tree. Leaves have nil children and record
// how many subsample rows reached them.
type Node struct {
	Feature int     `json:"feature,omitempty"`
	Split   float64 `json:"split,omitempty"`
	Left    *Node   `json:"left,omitempty"`
	Right   *Node   `json:"right,omitempty"`
	Size    int     `json:"size,omitempty"`
}

func (n *Node) leaf() bool { return n.Left == nil && n.Right == nil }

// Forest is a fitted isolation forest.
type Forest struct {
	Features      []string `json:"features,omitempty"`
	Trees         []*Node  `json:"trees"`
	SampleSize    int      `json:"sample_size"`
	Contamination float64  `json:"contamination"`
	Seed          int64    `json:"seed"`

	// Threshold is the score above which a row is an outlier.
	Threshold float64 `json:"threshold"`
}

// Fit builds a forest over data, one row per sample. All rows must have the
// same, non-zero width.
func Fit(data [][]float64, opts Options) (*Forest, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("no rows to fit")
	}
	width := len(data[0])
	if width == 0 {
		return nil, errors.New("rows have no features")
	}
	for i, row := range data {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
	}

	psi := min(opts.MaxSamples, len(data))
	maxDepth := int(math.Ceil(math.Log2(float64(max(psi, 2)))))
	rng := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)^0x9e3779b97f4a7c15))

	f := &Forest{
		Trees:         make([]*Node, 0, opts.Trees),
		SampleSize:    psi,
		Contamination: opts.Contamination,
		Seed:          opts.Seed,
	}
	for range opts.Trees {
		perm := rng.Perm(len(data))[:psi]
		sample := make([][]float64, psi)
		for i, idx := range perm {
			sample[i] = data[idx]
		}
		f.Trees = append(f.Trees, grow(sample, 0, maxDepth, rng))
	}

	f.Threshold = percentile(f.Scores(data), 100*(1-opts.Contamination))
	return f, nil
}

func grow(rows [][]float64, depth, maxDepth int, rng *rand.Rand) *Node {
	if depth >= maxDepth || len(rows) <= 1 {
		return &Node{Size: len(rows)}
	}

	// Only features that still vary within the node can split it.
	width := len(rows[0])
	var candidates []int
	lows := make([]float64, width)
	highs := make([]float64, width)
	for j := 0; j < width; j++ {
		lo, hi := rows[0][j], rows[0][j]
		for _, r := range rows[1:] {
			lo = math.Min(lo, r[j])
			hi = math.Max(hi, r[j])
		}
		lows[j], highs[j] = lo, hi
		if hi > lo {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return &Node{Size: len(rows)}
	}

	feature := candidates[rng.IntN(len(candidates))]
	split := lows[feature] + rng.Float64()*(highs[feature]-lows[feature])

	var left, right [][]float64
	for _, r := range rows {
		if r[feature] < split {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return &Node{
		Feature: feature,
		Split:   split,
		Left:    grow(left, depth+1, maxDepth, rng),
		Right:   grow(right, depth+1, maxDepth, rng),
	}
}

// averagePathLength is c(n), the mean path length of an unsuccessful search
// in a binary search tree of n nodes.
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

func pathLength(n *Node, x []float64) float64 {
	depth := 0.0
	for !n.leaf() {
		if x[n.Feature] < n.Split {
			n = n.Left
		} else {
			n = n.Right
		}
		depth++
	}
	return depth + averagePathLength(n.Size)
}

// Score returns the anomaly score of x in (0, 1]. Scores near 1 are
// outliers; scores well below 0.5 are inliers.
func (f *Forest) Score(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	total := 0.0
	for _, t := range f.Trees {
		total += pathLength(t, x)
	}
	mean := total / float64(len(f.Trees))
	c := averagePathLength(f.SampleSize)
	if c == 0 {
		return 1
	}
	return math.Pow(2, -mean/c)
}

// Scores returns Score for every row of data.
func (f *Forest) Scores(data [][]float64) []float64 {
	out := make([]float64, len(data))
	for i, x := range data {
		out[i] = f.Score(x)
	}
	return out
}

// Predict reports which rows of data are outliers. It also returns their
// scores.
func (f *Forest) Predict(data [][]float64) ([]bool, []float64) {
	scores := f.Scores(data)
	flags := make([]bool, len(scores))
	for i, s := range scores {
		flags[i] = s > f.Threshold
	}
	return flags, scores
}

// percentile returns the q-th percentile (0..100) of values using linear
// interpolation between closest ranks.
func percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	pos := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}
