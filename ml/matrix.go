package ml

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix represents a dense matrix with a flat data slice for performance.
// The data slice is row-major and shared with a gonum view, so gonum kernels
// write straight into it.
type Matrix struct {
	rows, cols int
	data       []float64
	dense      *mat.Dense
}

// -------- CONSTRUCTORS ------- //

// NewMatrix allocates a zeroed rows x cols matrix. It panics on non-positive
// dimensions, like mat.NewDense.
func NewMatrix(rows, cols int) *Matrix {
	data := make([]float64, rows*cols)
	return &Matrix{
		rows:  rows,
		cols:  cols,
		data:  data,
		dense: mat.NewDense(rows, cols, data),
	}
}

// NewMatrixFromSlice copies data into a new rows x cols matrix.
func NewMatrixFromSlice(rows, cols int, data []float64) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("matrix dimensions must be positive, got [%d x %d]: %w", rows, cols, ErrShapeMismatch)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("slice length %d does not fill [%d x %d]: %w", len(data), rows, cols, ErrShapeMismatch)
	}
	m := NewMatrix(rows, cols)
	copy(m.data, data)
	return m, nil
}

// RowMatrix wraps a copy of v as a 1 x N matrix.
func RowMatrix(v []float64) (*Matrix, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("row matrix from empty vector: %w", ErrShapeMismatch)
	}
	return NewMatrixFromSlice(1, len(v), v)
}

// ColumnMatrix wraps a copy of v as an N x 1 matrix.
func ColumnMatrix(v []float64) (*Matrix, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("column matrix from empty vector: %w", ErrShapeMismatch)
	}
	return NewMatrixFromSlice(len(v), 1, v)
}

// ------- MATRIX METHODS ------ //

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// Copy returns a deep copy of m.
func (m *Matrix) Copy() *Matrix {
	out := NewMatrix(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// Equal reports whether both matrices have the same shape and bit-identical values.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.rows == o.rows && m.cols == o.cols && mat.Equal(m.dense, o.dense)
}

// Flatten returns a copy of the single row of a 1 x N matrix.
func (m *Matrix) Flatten() ([]float64, error) {
	if err := validate(m, "flatten"); err != nil {
		return nil, err
	}
	if m.rows != 1 {
		return nil, fmt.Errorf("can only flatten a [1 x n] matrix, got [%d x %d]: %w", m.rows, m.cols, ErrShapeMismatch)
	}
	out := make([]float64, m.cols)
	copy(out, m.data)
	return out, nil
}

// SliceRows returns a copy of rows [i, k).
func (m *Matrix) SliceRows(i, k int) (*Matrix, error) {
	if err := validate(m, "slice"); err != nil {
		return nil, err
	}
	if i < 0 || k > m.rows || i >= k {
		return nil, fmt.Errorf("row range [%d, %d) out of bounds for %d rows: %w", i, k, m.rows, ErrShapeMismatch)
	}
	out := NewMatrix(k-i, m.cols)
	copy(out.data, m.data[i*m.cols:k*m.cols])
	return out, nil
}

// SubScaled updates m in place: m = m - s*g.
func (m *Matrix) SubScaled(s float64, g *Matrix) error {
	if err := sameShape(m, g, "subtract scaled"); err != nil {
		return err
	}
	floats.AddScaled(m.data, -s, g.data)
	return nil
}

// ------ UTILITY FUNCTIONS ------

// Multiply returns the dense product a*b. It requires a.cols == b.rows.
//
// The product is delegated to mat.Dense.Mul, which may block-partition large
// operands; the summation order then differs from a naive i-k-j loop at the
// last bit, but is fixed for a given shape.
func Multiply(a, b *Matrix) (*Matrix, error) {
	if err := validate(a, "multiply"); err != nil {
		return nil, err
	}
	if err := validate(b, "multiply"); err != nil {
		return nil, err
	}
	if a.cols != b.rows {
		return nil, fmt.Errorf("cannot multiply [%d x %d] by [%d x %d]: %w", a.rows, a.cols, b.rows, b.cols, ErrShapeMismatch)
	}
	out := NewMatrix(a.rows, b.cols)
	out.dense.Mul(a.dense, b.dense)
	return out, nil
}

func Add(a, b *Matrix) (*Matrix, error) {
	if err := sameShape(a, b, "add"); err != nil {
		return nil, err
	}
	out := NewMatrix(a.rows, a.cols)
	out.dense.Add(a.dense, b.dense)
	return out, nil
}

func Subtract(a, b *Matrix) (*Matrix, error) {
	if err := sameShape(a, b, "subtract"); err != nil {
		return nil, err
	}
	out := NewMatrix(a.rows, a.cols)
	out.dense.Sub(a.dense, b.dense)
	return out, nil
}

// MultiplyElementWise returns the Hadamard product of a and b.
func MultiplyElementWise(a, b *Matrix) (*Matrix, error) {
	if err := sameShape(a, b, "multiply element-wise"); err != nil {
		return nil, err
	}
	out := NewMatrix(a.rows, a.cols)
	out.dense.MulElem(a.dense, b.dense)
	return out, nil
}

func Scale(m *Matrix, s float64) (*Matrix, error) {
	if err := validate(m, "scale"); err != nil {
		return nil, err
	}
	out := NewMatrix(m.rows, m.cols)
	out.dense.Scale(s, m.dense)
	return out, nil
}

func Transpose(m *Matrix) (*Matrix, error) {
	if err := validate(m, "transpose"); err != nil {
		return nil, err
	}
	out := NewMatrix(m.cols, m.rows)
	out.dense.Copy(m.dense.T())
	return out, nil
}

func validate(m *Matrix, op string) error {
	if m == nil || m.dense == nil {
		return fmt.Errorf("%s: nil matrix: %w", op, ErrShapeMismatch)
	}
	if m.rows == 0 || m.cols == 0 {
		return fmt.Errorf("%s: empty matrix: %w", op, ErrShapeMismatch)
	}
	return nil
}

func sameShape(a, b *Matrix, op string) error {
	if err := validate(a, op); err != nil {
		return err
	}
	if err := validate(b, op); err != nil {
		return err
	}
	if a.rows != b.rows || a.cols != b.cols {
		return fmt.Errorf("cannot %s [%d x %d] and [%d x %d]: %w", op, a.rows, a.cols, b.rows, b.cols, ErrShapeMismatch)
	}
	return nil
}
