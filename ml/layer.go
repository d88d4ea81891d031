package ml

import (
	"fmt"
)

// -------- TYPE DEFINITIONS -------- //
type LayerOption func(*LayerConfig)

// LayerConfig holds the blueprint for a layer
type LayerConfig struct {
	Neurons     int
	IsInput     bool
	Activation  ActivationType
	Initializer Initializer // nil means He with a fresh source
}

// Layer is a dense layer using the bias trick: the last weight row holds the
// biases and is multiplied by a constant 1 appended to every input.
type Layer struct {
	inputSize  int
	outputSize int
	activation ActivationType

	// Weights is [inputSize+1, outputSize]; owned by the layer and only
	// mutated by Backward.
	weights *Matrix
}

// Record holds the intermediates of one Forward call. It is consumed by the
// matching Backward call on the same layer.
type Record struct {
	input  []float64 // input with the bias value appended
	sum    []float64 // pre-activation weighted sum
	output []float64
}

// Output returns a copy of the activated output.
func (r *Record) Output() []float64 {
	out := make([]float64, len(r.output))
	copy(out, r.output)
	return out
}

// ------- LAYER CONFIG HELPERS ------- //
// Input defines the entry point dimensions
func Input(size int) LayerConfig {
	return LayerConfig{
		Neurons:    size,
		IsInput:    true,
		Activation: ActLinear,
	}
}

// Dense defines a fully connected layer.
func Dense(size int, opts ...LayerOption) LayerConfig {
	d := LayerConfig{
		Neurons:    size,
		IsInput:    false,
		Activation: ActRelu, // Default for hidden layers
	}

	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func Activation(act ActivationType) LayerOption {
	return func(lc *LayerConfig) {
		lc.Activation = act
	}
}

func WithInitializer(initializer Initializer) LayerOption {
	return func(lc *LayerConfig) {
		lc.Initializer = initializer
	}
}

// NewLayer allocates a layer whose weights come from the configured
// initializer, He by default.
func NewLayer(inputSize, outputSize int, act ActivationType, opts ...LayerOption) (*Layer, error) {
	cfg := LayerConfig{Neurons: outputSize, Activation: act}
	for _, opt := range opts {
		opt(&cfg)
	}

	if inputSize <= 0 || cfg.Neurons <= 0 {
		return nil, fmt.Errorf("layer sizes must be positive, got %d -> %d: %w", inputSize, cfg.Neurons, ErrInvalidConfig)
	}
	if !cfg.Activation.valid() {
		return nil, fmt.Errorf("unknown activation %d: %w", int(cfg.Activation), ErrInvalidConfig)
	}

	initializer := cfg.Initializer
	if initializer == nil {
		initializer = He(nil)
	}
	weights, err := initializer.Initialize(inputSize+1, cfg.Neurons)
	if err != nil {
		return nil, fmt.Errorf("%s init: %w", initializer.name(), err)
	}
	if weights.rows != inputSize+1 || weights.cols != cfg.Neurons {
		return nil, fmt.Errorf("%s init returned [%d x %d], want [%d x %d]: %w",
			initializer.name(), weights.rows, weights.cols, inputSize+1, cfg.Neurons, ErrShapeMismatch)
	}

	return &Layer{
		inputSize:  inputSize,
		outputSize: cfg.Neurons,
		activation: cfg.Activation,
		weights:    weights,
	}, nil
}

// -------- LAYER METHODS -------- //

func (l *Layer) InputSize() int             { return l.inputSize }
func (l *Layer) OutputSize() int            { return l.outputSize }
func (l *Layer) Activation() ActivationType { return l.activation }

// Weights returns a copy of the weight matrix, bias row included.
func (l *Layer) Weights() *Matrix {
	return l.weights.Copy()
}

// Biases returns a copy of the bias row.
func (l *Layer) Biases() []float64 {
	out := make([]float64, l.outputSize)
	copy(out, l.weights.data[l.inputSize*l.outputSize:])
	return out
}

// SetWeights overwrites the weights in place with a same-shape matrix.
func (l *Layer) SetWeights(w *Matrix) error {
	if err := sameShape(l.weights, w, "set weights"); err != nil {
		return err
	}
	copy(l.weights.data, w.data)
	return nil
}

// Forward computes act([input | 1] * W) and returns the record needed by Backward.
func (l *Layer) Forward(input []float64) (*Record, error) {
	if len(input) != l.inputSize {
		return nil, fmt.Errorf("expected input size %d, got %d: %w", l.inputSize, len(input), ErrShapeMismatch)
	}

	withBias := make([]float64, l.inputSize+1)
	copy(withBias, input)
	withBias[l.inputSize] = 1.0

	x, err := RowMatrix(withBias)
	if err != nil {
		return nil, err
	}
	z, err := Multiply(x, l.weights)
	if err != nil {
		return nil, err
	}
	sum, err := z.Flatten()
	if err != nil {
		return nil, err
	}

	return &Record{
		input:  withBias,
		sum:    sum,
		output: l.activation.ActivateVec(sum),
	}, nil
}

// Backward applies one gradient descent step to the weights and returns the
// gradient with respect to the layer input (bias excluded).
//
// The weights are mutated exactly once, after every fallible step has
// succeeded. The upstream gradient is taken through the updated weights.
func (l *Layer) Backward(rec *Record, gradient []float64, learningRate float64) ([]float64, error) {
	if rec == nil {
		return nil, fmt.Errorf("nil forward record: %w", ErrCallOrder)
	}
	if len(rec.input) != l.inputSize+1 || len(rec.sum) != l.outputSize {
		return nil, fmt.Errorf("record of a %d -> %d layer passed to a %d -> %d layer: %w",
			len(rec.input)-1, len(rec.sum), l.inputSize, l.outputSize, ErrShapeMismatch)
	}
	if len(gradient) != l.outputSize {
		return nil, fmt.Errorf("expected gradient size %d, got %d: %w", l.outputSize, len(gradient), ErrShapeMismatch)
	}

	// dL/dz = dL/da * act'(z)
	g, err := RowMatrix(gradient)
	if err != nil {
		return nil, err
	}
	deriv, err := RowMatrix(l.activation.DerivativeVec(rec.sum))
	if err != nil {
		return nil, err
	}
	local, err := MultiplyElementWise(g, deriv)
	if err != nil {
		return nil, err
	}

	// dL/dW = [x | 1]^T * dL/dz, an outer product of shape [in+1, out]
	xT, err := ColumnMatrix(rec.input)
	if err != nil {
		return nil, err
	}
	weightGrad, err := Multiply(xT, local)
	if err != nil {
		return nil, err
	}

	// W = W - lr * dL/dW
	if err := l.weights.SubScaled(learningRate, weightGrad); err != nil {
		return nil, err
	}

	// dL/dx = dL/dz * W[0:in]^T; the bias row has no upstream input.
	noBias, err := l.weights.SliceRows(0, l.inputSize)
	if err != nil {
		return nil, err
	}
	noBiasT, err := Transpose(noBias)
	if err != nil {
		return nil, err
	}
	upstream, err := Multiply(local, noBiasT)
	if err != nil {
		return nil, err
	}
	return upstream.Flatten()
}
