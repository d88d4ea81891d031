package ml

import "errors"

var (
	// ErrShapeMismatch is returned when operands have incompatible lengths or dimensions.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrEmptyNetwork is returned when a network without layers is used.
	ErrEmptyNetwork = errors.New("network has no layers")
	// ErrCallOrder is returned when Backward runs without a pending Forward.
	ErrCallOrder = errors.New("backward called before forward")
	// ErrInvalidConfig is returned for unusable training or layer settings.
	ErrInvalidConfig = errors.New("invalid config")
)
