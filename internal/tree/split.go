package tree

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	DefaultTestSize = 0.2
	DefaultSeed     = 42
)

// Split shuffles the indexes 0..n-1 with a seeded PCG source and holds out
// ceil(n*testSize) of them. At least one index always stays in train.
func Split(n int, testSize float64, seed uint64) (train, test []int, err error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("cannot split %d samples", n)
	}
	if testSize < 0 || testSize >= 1 || math.IsNaN(testSize) {
		return nil, nil, fmt.Errorf("test size must be in [0, 1), got %v", testSize)
	}

	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest >= n {
		nTest = n - 1
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Accuracy is the share of rows the model labels correctly. It returns 0 for no rows.
func Accuracy(m *Model, x [][]float64, y []string) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("got %d feature rows and %d labels", len(x), len(y))
	}
	if len(x) == 0 {
		return 0, nil
	}

	correct := 0
	for i, row := range x {
		label, err := m.Predict(row)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		if label == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x)), nil
}
