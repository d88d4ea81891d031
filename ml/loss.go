package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	LossMSE LossType = iota
	LossCrossEntropy
)

// crossEntropyEpsilon bounds predictions away from 0 and 1 before taking logs.
const crossEntropyEpsilon = 1e-15

var lossMap = map[string]LossType{
	"mse":           LossMSE,
	"cross_entropy": LossCrossEntropy,
}

// LossType selects how a network scores its output against the expected vector.
type LossType int

// ParseLoss resolves a loss by its config name.
func ParseLoss(name string) (LossType, error) {
	l, exists := lossMap[name]
	if !exists {
		return 0, fmt.Errorf("unknown loss %q: %w", name, ErrInvalidConfig)
	}
	return l, nil
}

func (l LossType) String() string {
	for name, lt := range lossMap {
		if lt == l {
			return name
		}
	}
	return fmt.Sprintf("loss(%d)", int(l))
}

func (l LossType) valid() bool {
	return l == LossMSE || l == LossCrossEntropy
}

// Compute returns the scalar loss averaged over the vector components.
func (l LossType) Compute(predicted, expected []float64) (float64, error) {
	if err := checkLossOperands(predicted, expected); err != nil {
		return 0, err
	}
	n := float64(len(predicted))

	switch l {
	case LossMSE:
		diff := make([]float64, len(predicted))
		floats.SubTo(diff, predicted, expected)
		return floats.Dot(diff, diff) / n, nil

	case LossCrossEntropy:
		sum := 0.0
		for i, e := range expected {
			p := clip(predicted[i])
			sum -= e*math.Log(p) + (1-e)*math.Log(1-p)
		}
		return sum / n, nil
	}
	return 0, fmt.Errorf("unknown loss %s: %w", l, ErrInvalidConfig)
}

// Gradient returns dLoss/dPredicted for every component.
func (l LossType) Gradient(predicted, expected []float64) ([]float64, error) {
	if err := checkLossOperands(predicted, expected); err != nil {
		return nil, err
	}
	n := float64(len(predicted))
	grad := make([]float64, len(predicted))

	switch l {
	case LossMSE:
		floats.SubTo(grad, predicted, expected)
		floats.Scale(2/n, grad)
		return grad, nil

	case LossCrossEntropy:
		for i, e := range expected {
			p := clip(predicted[i])
			grad[i] = (-e/p + (1-e)/(1-p)) / n
		}
		return grad, nil
	}
	return nil, fmt.Errorf("unknown loss %s: %w", l, ErrInvalidConfig)
}

func checkLossOperands(predicted, expected []float64) error {
	if len(predicted) != len(expected) {
		return fmt.Errorf("predicted length %d vs expected length %d: %w", len(predicted), len(expected), ErrShapeMismatch)
	}
	if len(predicted) == 0 {
		return fmt.Errorf("loss of empty vectors: %w", ErrShapeMismatch)
	}
	return nil
}

func clip(p float64) float64 {
	return math.Max(crossEntropyEpsilon, math.Min(1-crossEntropyEpsilon, p))
}
