package ml

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Trainer drives epochs of online SGD over a sample set.
type Trainer struct {
	network *NeuralNetwork
	cfg     TrainingConfig

	rng     *rand.Rand
	logger  zerolog.Logger
	metrics *Metrics

	lossHistory []float64
}

type TrainerOption func(*Trainer)

// WithRand sets the generator used for per-epoch shuffles.
func WithRand(rng *rand.Rand) TrainerOption {
	return func(t *Trainer) {
		t.rng = rng
	}
}

func WithLogger(logger zerolog.Logger) TrainerOption {
	return func(t *Trainer) {
		t.logger = logger
	}
}

func WithMetrics(m *Metrics) TrainerOption {
	return func(t *Trainer) {
		t.metrics = m
	}
}

// NewTrainer validates cfg and binds it to nw.
func NewTrainer(nw *NeuralNetwork, cfg TrainingConfig, opts ...TrainerOption) (*Trainer, error) {
	if nw == nil {
		return nil, fmt.Errorf("nil network: %w", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Trainer{
		network: nw,
		cfg:     cfg,
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		if cfg.Seed != 0 {
			t.rng = rand.New(NewSource(cfg.Seed))
		} else {
			t.rng = rand.New(freshSource())
		}
	}
	return t, nil
}

func (t *Trainer) Config() TrainingConfig { return t.cfg }

// Train runs cfg.Epochs epochs and returns the average loss of each epoch.
// Widths are checked up front so a bad row never leaves a partly trained network.
func (t *Trainer) Train(inputs, expected [][]float64) ([]float64, error) {
	if err := t.checkSamples(inputs, expected); err != nil {
		return nil, err
	}

	numSamples := len(inputs)
	epochs := t.cfg.Epochs
	history := make([]float64, epochs)
	indices := NewIndexList(numSamples)

	logger := t.logger.With().Str("run", uuid.New().String()).Logger()
	start := time.Now()

	for epoch := 0; epoch < epochs; epoch++ {
		if t.cfg.Shuffle {
			ShuffleIndices(t.rng, indices)
		}

		var totalLoss float64
		for _, idx := range indices {
			loss, err := t.network.Train(inputs[idx], expected[idx], t.cfg.LearningRate)
			if err != nil {
				return nil, fmt.Errorf("epoch %d sample %d: %w", epoch+1, idx, err)
			}
			totalLoss += loss
		}

		avgLoss := totalLoss / float64(numSamples)
		history[epoch] = avgLoss
		t.metrics.observeEpoch(numSamples, avgLoss)

		if t.cfg.Verbose && (epoch+1)%t.cfg.PrintEvery == 0 {
			logger.Info().
				Int("epoch", epoch+1).
				Int("epochs", epochs).
				Float64("loss", avgLoss).
				Dur("elapsed", time.Since(start)).
				Msg("epoch complete")
		}
	}

	if t.cfg.Verbose {
		logger.Info().
			Float64("final_loss", history[epochs-1]).
			Dur("elapsed", time.Since(start)).
			Msg("training complete")
	}

	t.lossHistory = history
	out := make([]float64, epochs)
	copy(out, history)
	return out, nil
}

// Evaluate returns the average loss over a labeled set without updating weights.
func (t *Trainer) Evaluate(inputs, expected [][]float64) (float64, error) {
	if err := t.checkSamples(inputs, expected); err != nil {
		return 0, err
	}

	var totalLoss float64
	for i := range inputs {
		prediction, err := t.network.Predict(inputs[i])
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		loss, err := t.network.Loss(prediction, expected[i])
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		totalLoss += loss
	}

	avgLoss := totalLoss / float64(len(inputs))
	t.metrics.observeEval(avgLoss)
	return avgLoss, nil
}

// LossHistory returns a copy of the history of the last Train call.
func (t *Trainer) LossHistory() []float64 {
	out := make([]float64, len(t.lossHistory))
	copy(out, t.lossHistory)
	return out
}

func (t *Trainer) checkSamples(inputs, expected [][]float64) error {
	if len(inputs) != len(expected) {
		return fmt.Errorf("inputs (%d) and expected (%d) must have same length: %w", len(inputs), len(expected), ErrShapeMismatch)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no samples: %w", ErrShapeMismatch)
	}

	inSize, err := t.network.InputSize()
	if err != nil {
		return err
	}
	outSize, err := t.network.OutputSize()
	if err != nil {
		return err
	}
	for i := range inputs {
		if len(inputs[i]) != inSize {
			return fmt.Errorf("sample %d: input width %d, want %d: %w", i, len(inputs[i]), inSize, ErrShapeMismatch)
		}
		if len(expected[i]) != outSize {
			return fmt.Errorf("sample %d: expected width %d, want %d: %w", i, len(expected[i]), outSize, ErrShapeMismatch)
		}
	}
	return nil
}

// ------ DATA HANDLING HELPERS ------
func NewIndexList(size int) []int {
	indices := make([]int, size)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// ShuffleIndices permutes indices in place with a Fisher-Yates shuffle.
func ShuffleIndices(rng *rand.Rand, indices []int) {
	rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
}
