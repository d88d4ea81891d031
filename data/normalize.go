package data

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// MinMaxNormalizer scales every column to [0, 1] using the extrema seen by Fit.
// A column with zero range normalizes to 0.
type MinMaxNormalizer struct {
	inMin, inMax   []float64
	outMin, outMax []float64
	fitted         bool
}

// Fit records per-column minima and maxima of inputs and outputs.
func (n *MinMaxNormalizer) Fit(inputs, outputs [][]float64) error {
	if len(inputs) == 0 || len(outputs) == 0 {
		return fmt.Errorf("cannot fit normalizer: %w", ErrEmptyData)
	}
	inMin, inMax, err := columnBounds(inputs)
	if err != nil {
		return fmt.Errorf("inputs: %w", err)
	}
	outMin, outMax, err := columnBounds(outputs)
	if err != nil {
		return fmt.Errorf("outputs: %w", err)
	}

	n.inMin, n.inMax = inMin, inMax
	n.outMin, n.outMax = outMin, outMax
	n.fitted = true
	return nil
}

func (n *MinMaxNormalizer) NormalizeInput(v []float64) ([]float64, error) {
	if !n.fitted {
		return nil, ErrNotFitted
	}
	return scale(v, n.inMin, n.inMax)
}

func (n *MinMaxNormalizer) NormalizeInputs(rows [][]float64) ([][]float64, error) {
	return n.normalizeRows(rows, n.NormalizeInput)
}

func (n *MinMaxNormalizer) NormalizeOutput(v []float64) ([]float64, error) {
	if !n.fitted {
		return nil, ErrNotFitted
	}
	return scale(v, n.outMin, n.outMax)
}

func (n *MinMaxNormalizer) NormalizeOutputs(rows [][]float64) ([][]float64, error) {
	return n.normalizeRows(rows, n.NormalizeOutput)
}

func (n *MinMaxNormalizer) DenormalizeInput(v []float64) ([]float64, error) {
	if !n.fitted {
		return nil, ErrNotFitted
	}
	return unscale(v, n.inMin, n.inMax)
}

func (n *MinMaxNormalizer) DenormalizeOutput(v []float64) ([]float64, error) {
	if !n.fitted {
		return nil, ErrNotFitted
	}
	return unscale(v, n.outMin, n.outMax)
}

// DenormalizeOutputValue maps a single normalized output back to column index.
func (n *MinMaxNormalizer) DenormalizeOutputValue(v float64, index int) (float64, error) {
	if !n.fitted {
		return 0, ErrNotFitted
	}
	if index < 0 || index >= len(n.outMin) {
		return 0, fmt.Errorf("output index %d out of range [0, %d)", index, len(n.outMin))
	}
	return v*(n.outMax[index]-n.outMin[index]) + n.outMin[index], nil
}

// InputBounds returns copies of the fitted input minima and maxima.
func (n *MinMaxNormalizer) InputBounds() (mins, maxs []float64) {
	return clone(n.inMin), clone(n.inMax)
}

// OutputBounds returns copies of the fitted output minima and maxima.
func (n *MinMaxNormalizer) OutputBounds() (mins, maxs []float64) {
	return clone(n.outMin), clone(n.outMax)
}

func (n *MinMaxNormalizer) normalizeRows(rows [][]float64, f func([]float64) ([]float64, error)) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		v, err := f(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func columnBounds(rows [][]float64) (mins, maxs []float64, err error) {
	width := len(rows[0])
	if width == 0 {
		return nil, nil, fmt.Errorf("zero-width rows: %w", ErrEmptyData)
	}
	mins = make([]float64, width)
	maxs = make([]float64, width)

	col := make([]float64, len(rows))
	for j := 0; j < width; j++ {
		for i, row := range rows {
			if len(row) != width {
				return nil, nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), width)
			}
			col[i] = row[j]
		}
		mins[j] = floats.Min(col)
		maxs[j] = floats.Max(col)
	}
	return mins, maxs, nil
}

func scale(v, mins, maxs []float64) ([]float64, error) {
	if len(v) != len(mins) {
		return nil, fmt.Errorf("vector has %d columns, normalizer was fitted on %d", len(v), len(mins))
	}
	out := make([]float64, len(v))
	for j := range v {
		if r := maxs[j] - mins[j]; r != 0 {
			out[j] = (v[j] - mins[j]) / r
		}
	}
	return out, nil
}

func unscale(v, mins, maxs []float64) ([]float64, error) {
	if len(v) != len(mins) {
		return nil, fmt.Errorf("vector has %d columns, normalizer was fitted on %d", len(v), len(mins))
	}
	out := make([]float64, len(v))
	for j := range v {
		out[j] = v[j]*(maxs[j]-mins[j]) + mins[j]
	}
	return out, nil
}

func clone(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
