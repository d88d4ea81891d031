package data

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Split partitions samples into a train set of floor(n*ratio) rows and a test
// set with the rest. Rows are copied. A nil rng keeps the original order.
func Split(inputs, expected [][]float64, ratio float64, rng *rand.Rand) (train, test *Dataset, err error) {
	if len(inputs) != len(expected) {
		return nil, nil, fmt.Errorf("inputs (%d) and expected (%d) must have same length", len(inputs), len(expected))
	}
	if !(ratio > 0 && ratio < 1) {
		return nil, nil, fmt.Errorf("got %v: %w", ratio, ErrInvalidRatio)
	}

	n := len(inputs)
	trainSize := int(float64(n) * ratio)

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if rng != nil {
		rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	train = &Dataset{
		Inputs:   make([][]float64, 0, trainSize),
		Expected: make([][]float64, 0, trainSize),
	}
	test = &Dataset{
		Inputs:   make([][]float64, 0, n-trainSize),
		Expected: make([][]float64, 0, n-trainSize),
	}
	for k, idx := range indices {
		dst := train
		if k >= trainSize {
			dst = test
		}
		dst.Inputs = append(dst.Inputs, slices.Clone(inputs[idx]))
		dst.Expected = append(dst.Expected, slices.Clone(expected[idx]))
	}
	return train, test, nil
}
