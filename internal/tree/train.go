package tree

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// tieEpsilon treats impurities closer than this as equal so the earlier
// candidate (lower feature, then lower threshold) wins.
const tieEpsilon = 1e-12

// Train grows a tree on x (rows of equal width) and labels y.
//
// At each node every feature is scanned in ascending order, candidate
// thresholds are midpoints between consecutive distinct values in ascending
// order, and the candidate with the lowest weighted Gini impurity wins.
// Training the same input twice yields the same tree.
func Train(x [][]float64, y []string, params Params) (*Model, error) {
	if len(x) == 0 {
		return nil, errors.New("no training samples")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("got %d feature rows and %d labels", len(x), len(y))
	}

	width := len(x[0])
	if width == 0 {
		return nil, errors.New("feature rows are empty")
	}
	for i, row := range x {
		if len(row) != width {
			return nil, fmt.Errorf("row %d: %w", i, &DimensionError{Expected: width, Actual: len(row)})
		}
		if y[i] == "" {
			return nil, fmt.Errorf("row %d has an empty label", i)
		}
	}

	classes := slices.Clone(y)
	slices.Sort(classes)
	classes = slices.Compact(classes)

	classIdx := make(map[string]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}
	targets := make([]int, len(y))
	for i, label := range y {
		targets[i] = classIdx[label]
	}

	b := &builder{
		x:       x,
		y:       targets,
		classes: classes,
		params:  params.withDefaults(),
		model: &Model{
			Width:   width,
			Classes: classes,
		},
	}
	b.model.Params = b.params

	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	b.build(idx, 0)

	return b.model, nil
}

type builder struct {
	x       [][]float64
	y       []int
	classes []string
	params  Params
	model   *Model
}

func (b *builder) build(idx []int, depth int) int {
	counts := b.counts(idx)
	impurity := gini(counts, len(idx))

	pos := len(b.model.Nodes)
	b.model.Nodes = append(b.model.Nodes, Node{
		Feature:  -1,
		Left:     -1,
		Right:    -1,
		Label:    b.classes[majority(counts)],
		Samples:  len(idx),
		Impurity: impurity,
	})

	if impurity == 0 || len(idx) < b.params.MinSamplesSplit || depth >= b.params.MaxDepth {
		return pos
	}

	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		return pos
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)

	node := &b.model.Nodes[pos]
	node.Feature = feature
	node.Threshold = threshold
	node.Left = l
	node.Right = r

	return pos
}

func (b *builder) bestSplit(idx []int) (int, float64, bool) {
	n := len(idx)
	width := len(b.x[0])
	minLeaf := b.params.MinSamplesLeaf

	bestFeature, bestThreshold := -1, 0.0
	bestScore := 0.0

	sorted := make([]int, n)
	leftCounts := make([]int, len(b.classes))
	total := b.counts(idx)

	for f := 0; f < width; f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, c int) bool {
			return b.x[sorted[a]][f] < b.x[sorted[c]][f]
		})

		clear(leftCounts)
		for k := 0; k < n-1; k++ {
			leftCounts[b.y[sorted[k]]]++

			cur, next := b.x[sorted[k]][f], b.x[sorted[k+1]][f]
			if cur == next {
				continue
			}

			nLeft, nRight := k+1, n-k-1
			if nLeft < minLeaf || nRight < minLeaf {
				continue
			}

			score := (float64(nLeft)*gini(leftCounts, nLeft) + float64(nRight)*giniRight(total, leftCounts, nRight)) / float64(n)
			if bestFeature < 0 || score < bestScore-tieEpsilon {
				bestFeature = f
				bestThreshold = (cur + next) / 2
				bestScore = score
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func (b *builder) counts(idx []int) []int {
	counts := make([]int, len(b.classes))
	for _, i := range idx {
		counts[b.y[i]]++
	}
	return counts
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

func giniRight(total, left []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := range total {
		p := float64(total[i]-left[i]) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

// majority returns the most frequent class. Classes are sorted, so ties go
// to the lexicographically smallest label.
func majority(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}
