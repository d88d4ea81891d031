package ml

import (
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

type TrainingConfig struct {
	LearningRate float64 `yaml:"learning_rate"`
	Epochs       int     `yaml:"epochs"`
	Shuffle      bool    `yaml:"shuffle"`
	Verbose      bool    `yaml:"verbose"`
	PrintEvery   int     `yaml:"print_every"` // How often to log progress (in epochs)

	// Seed feeds the shuffle source when no generator is injected; 0 means unseeded.
	Seed uint64 `yaml:"seed"`
}

// DefaultTrainingConfig mirrors the settings most runs start from.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		LearningRate: 0.01,
		Epochs:       1000,
		Shuffle:      true,
		Verbose:      true,
		PrintEvery:   100,
	}
}

// Validate rejects configurations that cannot produce a meaningful run.
func (cfg TrainingConfig) Validate() error {
	if !(cfg.LearningRate > 0) || math.IsInf(cfg.LearningRate, 0) {
		return fmt.Errorf("learning rate must be > 0, got %v: %w", cfg.LearningRate, ErrInvalidConfig)
	}
	if cfg.Epochs <= 0 {
		return fmt.Errorf("epochs must be > 0, got %d: %w", cfg.Epochs, ErrInvalidConfig)
	}
	if cfg.PrintEvery <= 0 {
		return fmt.Errorf("print_every must be > 0, got %d: %w", cfg.PrintEvery, ErrInvalidConfig)
	}
	return nil
}

// LoadTrainingConfig decodes YAML over the defaults and validates the result.
func LoadTrainingConfig(r io.Reader) (TrainingConfig, error) {
	cfg := DefaultTrainingConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return TrainingConfig{}, fmt.Errorf("decode training config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return TrainingConfig{}, err
	}
	return cfg, nil
}

func LoadTrainingConfigFile(path string) (TrainingConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return TrainingConfig{}, err
	}
	defer f.Close()
	return LoadTrainingConfig(f)
}
