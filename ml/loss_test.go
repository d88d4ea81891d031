package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

func TestMSE(t *testing.T) {
	for _, p := range [][]float64{{1}, {0, 0}, {-3.5, 2, 1e6}} {
		loss, err := LossMSE.Compute(p, p)
		require.NoError(t, err)
		assert.Equal(t, 0.0, loss)
	}

	loss, err := LossMSE.Compute([]float64{2}, []float64{0})
	require.NoError(t, err)
	assert.Equal(t, 4.0, loss)

	grad, err := LossMSE.Gradient([]float64{2}, []float64{0})
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, grad)

	grad, err = LossMSE.Gradient([]float64{1, 3}, []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, grad)
}

func TestCrossEntropy(t *testing.T) {
	near, err := LossCrossEntropy.Compute([]float64{0.9}, []float64{1})
	require.NoError(t, err)
	assert.Less(t, near, 0.2)

	far, err := LossCrossEntropy.Compute([]float64{0.1}, []float64{1})
	require.NoError(t, err)
	assert.Greater(t, far, near)

	// clipping keeps saturated predictions finite
	for _, p := range []float64{0, 1e-300, 0.5, 1 - 1e-16, 1} {
		for _, e := range []float64{0, 1} {
			loss, err := LossCrossEntropy.Compute([]float64{p}, []float64{e})
			require.NoError(t, err)
			assert.False(t, math.IsInf(loss, 0) || math.IsNaN(loss), "p=%v e=%v", p, e)

			grad, err := LossCrossEntropy.Gradient([]float64{p}, []float64{e})
			require.NoError(t, err)
			assert.False(t, math.IsInf(grad[0], 0) || math.IsNaN(grad[0]), "p=%v e=%v", p, e)
		}
	}
}

func TestLossGradient_FiniteDifference(t *testing.T) {
	predicted := []float64{0.2, 0.7, 0.45}
	expected := []float64{0, 1, 1}

	for _, l := range []LossType{LossMSE, LossCrossEntropy} {
		t.Run(l.String(), func(t *testing.T) {
			f := func(p []float64) float64 {
				loss, err := l.Compute(p, expected)
				require.NoError(t, err)
				return loss
			}
			numeric := fd.Gradient(nil, f, predicted, &fd.Settings{Formula: fd.Central, Step: 1e-6})

			grad, err := l.Gradient(predicted, expected)
			require.NoError(t, err)
			assert.InDeltaSlice(t, numeric, grad, 1e-6)
		})
	}
}

func TestLoss_LengthMismatch(t *testing.T) {
	for _, l := range []LossType{LossMSE, LossCrossEntropy} {
		_, err := l.Compute([]float64{1, 2}, []float64{1})
		assert.ErrorIs(t, err, ErrShapeMismatch)

		_, err = l.Gradient([]float64{1}, []float64{1, 2})
		assert.ErrorIs(t, err, ErrShapeMismatch)

		_, err = l.Compute(nil, nil)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	}
}

func TestParseLoss(t *testing.T) {
	l, err := ParseLoss("cross_entropy")
	require.NoError(t, err)
	assert.Equal(t, LossCrossEntropy, l)

	_, err = ParseLoss("hinge")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
