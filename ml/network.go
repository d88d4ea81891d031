package ml

import (
	"fmt"
	"sync"
)

// NeuralNetwork is an ordered stack of dense layers trained online with one loss.
//
// Calls are serialized: Forward stores the records of the pass and the next
// Backward consumes them, so a forward/backward pair never sees another
// sample's intermediates.
type NeuralNetwork struct {
	mu     sync.Mutex
	layers []*Layer
	loss   LossType

	// pending holds the records and output of the last Forward until Backward.
	pending    []*Record
	lastOutput []float64
}

// NewNetwork returns an empty network scored by loss.
func NewNetwork(loss LossType) *NeuralNetwork {
	return &NeuralNetwork{loss: loss}
}

// Build creates a network from an Input config followed by Dense configs.
func Build(loss LossType, configs ...LayerConfig) (*NeuralNetwork, error) {
	if !loss.valid() {
		return nil, fmt.Errorf("unknown loss %d: %w", int(loss), ErrInvalidConfig)
	}
	if len(configs) < 2 {
		return nil, fmt.Errorf("network must have at least Input and one Dense layer: %w", ErrInvalidConfig)
	}
	if !configs[0].IsInput {
		return nil, fmt.Errorf("first layer must be Input(): %w", ErrInvalidConfig)
	}

	nw := NewNetwork(loss)
	prevOutputSize := configs[0].Neurons

	for i := 1; i < len(configs); i++ {
		cfg := configs[i]
		if cfg.IsInput {
			return nil, fmt.Errorf("layer %d: Input() is only valid first: %w", i, ErrInvalidConfig)
		}
		layer, err := NewLayer(prevOutputSize, cfg.Neurons, cfg.Activation, WithInitializer(cfg.Initializer))
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if err := nw.AddLayer(layer); err != nil {
			return nil, err
		}
		prevOutputSize = cfg.Neurons
	}
	return nw, nil
}

// -------- NEURAL NETWORK METHODS -------- //

// AddLayer appends layer; its input size must match the previous output size.
func (nw *NeuralNetwork) AddLayer(layer *Layer) error {
	if layer == nil {
		return fmt.Errorf("nil layer: %w", ErrInvalidConfig)
	}
	nw.mu.Lock()
	defer nw.mu.Unlock()

	if n := len(nw.layers); n > 0 {
		last := nw.layers[n-1]
		if last.outputSize != layer.inputSize {
			return fmt.Errorf("layer input size (%d) doesn't match previous layer output size (%d): %w",
				layer.inputSize, last.outputSize, ErrShapeMismatch)
		}
	}
	nw.layers = append(nw.layers, layer)
	return nil
}

func (nw *NeuralNetwork) LayerCount() int {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	return len(nw.layers)
}

// Layer returns the i-th layer.
func (nw *NeuralNetwork) Layer(i int) *Layer {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	return nw.layers[i]
}

func (nw *NeuralNetwork) LossType() LossType { return nw.loss }

// InputSize is the width accepted by the first layer.
func (nw *NeuralNetwork) InputSize() (int, error) {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	if len(nw.layers) == 0 {
		return 0, ErrEmptyNetwork
	}
	return nw.layers[0].inputSize, nil
}

// OutputSize is the width produced by the last layer.
func (nw *NeuralNetwork) OutputSize() (int, error) {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	if len(nw.layers) == 0 {
		return 0, ErrEmptyNetwork
	}
	return nw.layers[len(nw.layers)-1].outputSize, nil
}

// Forward runs input through every layer and keeps the intermediates for
// the next Backward.
func (nw *NeuralNetwork) Forward(input []float64) ([]float64, error) {
	nw.mu.Lock()
	defer nw.mu.Unlock()

	records, err := nw.forward(input)
	if err != nil {
		return nil, err
	}
	nw.pending = records
	nw.lastOutput = records[len(records)-1].Output()
	return records[len(records)-1].Output(), nil
}

// Backward propagates the loss gradient from the last Forward through the
// layers in reverse, updating each layer's weights. The returned loss is the
// one of the output computed before these updates.
func (nw *NeuralNetwork) Backward(expected []float64, learningRate float64) (float64, error) {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	return nw.backward(expected, learningRate)
}

// Train is Forward followed by Backward on a single sample.
func (nw *NeuralNetwork) Train(input, expected []float64, learningRate float64) (float64, error) {
	nw.mu.Lock()
	defer nw.mu.Unlock()

	records, err := nw.forward(input)
	if err != nil {
		return 0, err
	}
	nw.pending = records
	nw.lastOutput = records[len(records)-1].Output()
	return nw.backward(expected, learningRate)
}

// Predict runs a forward pass without touching weights or the pending record.
func (nw *NeuralNetwork) Predict(input []float64) ([]float64, error) {
	nw.mu.Lock()
	defer nw.mu.Unlock()

	records, err := nw.forward(input)
	if err != nil {
		return nil, err
	}
	return records[len(records)-1].Output(), nil
}

// Loss scores predicted against expected with the network's loss.
func (nw *NeuralNetwork) Loss(predicted, expected []float64) (float64, error) {
	return nw.loss.Compute(predicted, expected)
}

func (nw *NeuralNetwork) forward(input []float64) ([]*Record, error) {
	if len(nw.layers) == 0 {
		return nil, ErrEmptyNetwork
	}
	if len(input) != nw.layers[0].inputSize {
		return nil, fmt.Errorf("input size (%d) doesn't match first layer input size (%d): %w",
			len(input), nw.layers[0].inputSize, ErrShapeMismatch)
	}

	records := make([]*Record, len(nw.layers))
	current := input
	for i, layer := range nw.layers {
		rec, err := layer.Forward(current)
		if err != nil {
			return nil, fmt.Errorf("layer %d forward: %w", i, err)
		}
		records[i] = rec
		current = rec.output
	}
	return records, nil
}

func (nw *NeuralNetwork) backward(expected []float64, learningRate float64) (float64, error) {
	if nw.pending == nil {
		return 0, ErrCallOrder
	}
	if len(expected) != len(nw.lastOutput) {
		return 0, fmt.Errorf("expected size (%d) doesn't match output size (%d): %w",
			len(expected), len(nw.lastOutput), ErrShapeMismatch)
	}

	loss, err := nw.loss.Compute(nw.lastOutput, expected)
	if err != nil {
		return 0, err
	}
	gradient, err := nw.loss.Gradient(nw.lastOutput, expected)
	if err != nil {
		return 0, err
	}

	records := nw.pending
	nw.pending = nil
	for i := len(nw.layers) - 1; i >= 0; i-- {
		gradient, err = nw.layers[i].Backward(records[i], gradient, learningRate)
		if err != nil {
			return 0, fmt.Errorf("layer %d backward: %w", i, err)
		}
	}
	return loss, nil
}
