package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMatrix(t *testing.T, rows, cols int, data ...float64) *Matrix {
	t.Helper()
	m, err := NewMatrixFromSlice(rows, cols, data)
	require.NoError(t, err)
	return m
}

func TestMultiply(t *testing.T) {
	a := mustMatrix(t, 2, 3,
		1, 2, 3,
		4, 5, 6)
	b := mustMatrix(t, 3, 2,
		7, 8,
		9, 10,
		11, 12)

	got, err := Multiply(a, b)
	require.NoError(t, err)

	want := mustMatrix(t, 2, 2,
		58, 64,
		139, 154)
	assert.True(t, got.Equal(want), "got %v", got.data)
}

func TestMultiply_InnerDimensionMismatch(t *testing.T) {
	a := NewMatrix(2, 3)
	b := NewMatrix(4, 5)

	_, err := Multiply(a, b)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestElementwiseOps(t *testing.T) {
	a := mustMatrix(t, 2, 2, 1, 2, 3, 4)
	b := mustMatrix(t, 2, 2, 5, 6, 7, 8)

	sum, err := Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 8, 10, 12}, sum.data)

	diff, err := Subtract(b, a)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4, 4, 4}, diff.data)

	prod, err := MultiplyElementWise(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 12, 21, 32}, prod.data)

	scaled, err := Scale(a, -2)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -4, -6, -8}, scaled.data)

	// inputs untouched
	assert.Equal(t, []float64{1, 2, 3, 4}, a.data)
}

func TestElementwiseOps_ShapeMismatch(t *testing.T) {
	a := NewMatrix(2, 2)
	b := NewMatrix(2, 3)

	ops := map[string]func(a, b *Matrix) (*Matrix, error){
		"add":      Add,
		"subtract": Subtract,
		"hadamard": MultiplyElementWise,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			_, err := op(a, b)
			assert.ErrorIs(t, err, ErrShapeMismatch)

			_, err = op(nil, b)
			assert.ErrorIs(t, err, ErrShapeMismatch)

			_, err = op(a, &Matrix{})
			assert.ErrorIs(t, err, ErrShapeMismatch)
		})
	}
}

func TestTranspose(t *testing.T) {
	m := mustMatrix(t, 2, 3,
		1, 2, 3,
		4, 5, 6)

	mt, err := Transpose(m)
	require.NoError(t, err)
	assert.Equal(t, 3, mt.Rows())
	assert.Equal(t, 2, mt.Cols())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, mt.data)

	back, err := Transpose(mt)
	require.NoError(t, err)
	assert.True(t, back.Equal(m))
}

func TestTranspose_Involution(t *testing.T) {
	uniform := RandomUniform(-10, 10, NewSource(7))
	for _, shape := range [][2]int{{1, 1}, {1, 5}, {5, 1}, {3, 7}, {16, 9}} {
		m, err := uniform.Initialize(shape[0], shape[1])
		require.NoError(t, err)

		mt, err := Transpose(m)
		require.NoError(t, err)
		mtt, err := Transpose(mt)
		require.NoError(t, err)
		assert.True(t, mtt.Equal(m), "shape %v", shape)
	}
}

func TestRowColumnFlatten(t *testing.T) {
	v := []float64{1, 2, 3}

	row, err := RowMatrix(v)
	require.NoError(t, err)
	assert.Equal(t, 1, row.Rows())
	assert.Equal(t, 3, row.Cols())

	col, err := ColumnMatrix(v)
	require.NoError(t, err)
	assert.Equal(t, 3, col.Rows())
	assert.Equal(t, 1, col.Cols())

	flat, err := row.Flatten()
	require.NoError(t, err)
	assert.Equal(t, v, flat)

	// column matrices are not flattenable
	_, err = col.Flatten()
	assert.ErrorIs(t, err, ErrShapeMismatch)

	// the row matrix owns a copy
	v[0] = 42
	assert.Equal(t, 1.0, row.At(0, 0))

	_, err = RowMatrix(nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = ColumnMatrix([]float64{})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestOuterProduct(t *testing.T) {
	col := mustMatrix(t, 3, 1, 1, 2, 3)
	row := mustMatrix(t, 1, 2, 10, 20)

	got, err := Multiply(col, row)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 20, 40, 30, 60}, got.data)
}

func TestSubScaledAndSliceRows(t *testing.T) {
	m := mustMatrix(t, 3, 2, 1, 1, 2, 2, 3, 3)
	g := mustMatrix(t, 3, 2, 1, 1, 1, 1, 1, 1)

	require.NoError(t, m.SubScaled(0.5, g))
	assert.Equal(t, []float64{0.5, 0.5, 1.5, 1.5, 2.5, 2.5}, m.data)

	top, err := m.SliceRows(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5, 1.5, 1.5}, top.data)

	_, err = m.SliceRows(2, 4)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	assert.ErrorIs(t, m.SubScaled(1, NewMatrix(2, 2)), ErrShapeMismatch)
}

func TestNewMatrixFromSlice_Errors(t *testing.T) {
	_, err := NewMatrixFromSlice(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = NewMatrixFromSlice(0, 2, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
