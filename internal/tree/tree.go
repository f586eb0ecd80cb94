// Package tree implements a deterministic CART decision-tree classifier
// over dense numeric feature vectors.
package tree

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDimensionMismatch is matched when a vector's width differs from the training width.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// DimensionError reports the expected and actual vector widths.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: model expects %d features, got %d", ErrDimensionMismatch, e.Expected, e.Actual)
}

func (e *DimensionError) Is(target error) bool { return target == ErrDimensionMismatch }

// Params bounds the tree growth. Zero values fall back to DefaultParams.
type Params struct {
	MaxDepth        int `mapstructure:"max-depth"`
	MinSamplesSplit int `mapstructure:"min-samples-split"`
	MinSamplesLeaf  int `mapstructure:"min-samples-leaf"`
}

func DefaultParams() Params {
	return Params{MaxDepth: 32, MinSamplesSplit: 2, MinSamplesLeaf: 1}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.MaxDepth <= 0 {
		p.MaxDepth = d.MaxDepth
	}
	if p.MinSamplesSplit < 2 {
		p.MinSamplesSplit = d.MinSamplesSplit
	}
	if p.MinSamplesLeaf < 1 {
		p.MinSamplesLeaf = d.MinSamplesLeaf
	}
	return p
}

// Node is either an internal split (Left and Right >= 0) or a leaf.
// Samples with x[Feature] <= Threshold follow Left.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Label     string
	Samples   int
	Impurity  float64
}

func (n Node) IsLeaf() bool { return n.Left < 0 || n.Right < 0 }

// Model is a trained tree. Nodes[0] is the root. It is never mutated after Train.
type Model struct {
	Width   int
	Classes []string
	Nodes   []Node
	Params  Params
}

// Predict walks the tree and returns the label of the reached leaf.
func (m *Model) Predict(v []float64) (string, error) {
	if len(v) != m.Width {
		return "", &DimensionError{Expected: m.Width, Actual: len(v)}
	}
	if len(m.Nodes) == 0 {
		return "", errors.New("model has no nodes")
	}

	i := 0
	for {
		node := m.Nodes[i]
		if node.IsLeaf() {
			return node.Label, nil
		}
		if v[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// Depth is the number of edges on the longest root-to-leaf path.
func (m *Model) Depth() int {
	if len(m.Nodes) == 0 {
		return 0
	}
	var walk func(i int) int
	walk = func(i int) int {
		n := m.Nodes[i]
		if n.IsLeaf() {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

func (m *Model) Leaves() int {
	count := 0
	for _, n := range m.Nodes {
		if n.IsLeaf() {
			count++
		}
	}
	return count
}

// Validate checks the structure of a decoded model.
func (m *Model) Validate() error {
	if m.Width <= 0 {
		return fmt.Errorf("invalid width %d", m.Width)
	}
	if len(m.Nodes) == 0 {
		return errors.New("model has no nodes")
	}
	for i, n := range m.Nodes {
		if n.IsLeaf() {
			if n.Label == "" {
				return fmt.Errorf("leaf %d has no label", i)
			}
			if !slices.Contains(m.Classes, n.Label) {
				return fmt.Errorf("leaf %d label %q is not a known class", i, n.Label)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= m.Width {
			return fmt.Errorf("node %d splits on feature %d outside width %d", i, n.Feature, m.Width)
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(m.Nodes) || n.Right >= len(m.Nodes) {
			return fmt.Errorf("node %d has invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}
