package ml

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer produces the initial weight matrix of a layer. The set of
// variants is closed: HeInitializer and UniformInitializer.
type Initializer interface {
	// Initialize returns a rows x cols matrix. rows is the fan-in used for
	// scaling; layers pass inputSize+1 so the bias row is counted.
	Initialize(rows, cols int) (*Matrix, error)
	name() string
}

// NewSource returns a deterministic random source for the given seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// freshSource seeds a PCG source once from the runtime generator.
func freshSource() rand.Source {
	return rand.NewPCG(rand.Uint64(), rand.Uint64())
}

// HeInitializer draws weights from N(0, sqrt(2/fanIn)).
type HeInitializer struct {
	src rand.Source
}

// He returns a He initializer. A nil src gives a non-reproducible source.
func He(src rand.Source) *HeInitializer {
	if src == nil {
		src = freshSource()
	}
	return &HeInitializer{src: src}
}

func (h *HeInitializer) Initialize(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("he: dimensions must be positive, got [%d x %d]: %w", rows, cols, ErrShapeMismatch)
	}
	dist := distuv.Normal{
		Mu:    0,
		Sigma: math.Sqrt(2.0 / float64(rows)),
		Src:   h.src,
	}
	m := NewMatrix(rows, cols)
	for i := range m.data {
		m.data[i] = dist.Rand()
	}
	return m, nil
}

func (h *HeInitializer) name() string { return "he" }

// UniformInitializer draws weights uniformly from [Min, Max].
type UniformInitializer struct {
	Min, Max float64
	src      rand.Source
}

// RandomUniform returns a uniform initializer over [lo, hi].
// A nil src gives a non-reproducible source.
func RandomUniform(lo, hi float64, src rand.Source) *UniformInitializer {
	if src == nil {
		src = freshSource()
	}
	return &UniformInitializer{Min: lo, Max: hi, src: src}
}

// DefaultUniform is RandomUniform over [-1, 1].
func DefaultUniform(src rand.Source) *UniformInitializer {
	return RandomUniform(-1, 1, src)
}

func (u *UniformInitializer) Initialize(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("uniform: dimensions must be positive, got [%d x %d]: %w", rows, cols, ErrShapeMismatch)
	}
	if u.Min > u.Max || math.IsNaN(u.Min) || math.IsNaN(u.Max) {
		return nil, fmt.Errorf("uniform: bad range [%v, %v]: %w", u.Min, u.Max, ErrInvalidConfig)
	}
	dist := distuv.Uniform{Min: u.Min, Max: u.Max, Src: u.src}
	m := NewMatrix(rows, cols)
	for i := range m.data {
		m.data[i] = dist.Rand()
	}
	return m, nil
}

func (u *UniformInitializer) name() string { return "uniform" }
