package ml

import (
	"fmt"
	"math"
)

const (
	ActLinear ActivationType = iota
	ActRelu
	ActSigmoid
	ActTanh
)

var activationMap = map[string]ActivationType{
	"linear":  ActLinear,
	"relu":    ActRelu,
	"sigmoid": ActSigmoid,
	"tanh":    ActTanh,
}

// ActivationType selects the elementwise nonlinearity of a layer.
type ActivationType int

// ParseActivation resolves an activation by its config name.
func ParseActivation(name string) (ActivationType, error) {
	act, exists := activationMap[name]
	if !exists {
		return 0, fmt.Errorf("unknown activation %q: %w", name, ErrInvalidConfig)
	}
	return act, nil
}

func (a ActivationType) String() string {
	for name, act := range activationMap {
		if act == a {
			return name
		}
	}
	return fmt.Sprintf("activation(%d)", int(a))
}

func (a ActivationType) valid() bool {
	return a >= ActLinear && a <= ActTanh
}

// Activate applies the activation to a single value.
func (a ActivationType) Activate(x float64) float64 {
	switch a {
	case ActRelu:
		return Relu(x)
	case ActSigmoid:
		return Sigmoid(x)
	case ActTanh:
		return math.Tanh(x)
	case ActLinear:
		return x
	}
	panic("unknown activation: " + a.String())
}

// Derivative evaluates the activation's derivative at the pre-activation x.
func (a ActivationType) Derivative(x float64) float64 {
	switch a {
	case ActRelu:
		return ReluDerivative(x)
	case ActSigmoid:
		s := Sigmoid(x)
		return s * (1 - s)
	case ActTanh:
		t := math.Tanh(x)
		return 1 - t*t
	case ActLinear:
		return 1
	}
	panic("unknown activation: " + a.String())
}

// ActivateVec applies Activate to every component of xs.
func (a ActivationType) ActivateVec(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = a.Activate(x)
	}
	return out
}

// DerivativeVec applies Derivative to every component of xs.
func (a ActivationType) DerivativeVec(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = a.Derivative(x)
	}
	return out
}

func Relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// ReluDerivative is 0 at x == 0.
func ReluDerivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Sigmoid is the logistic function, evaluated in a form that does not
// overflow for large negative x.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1.0 / (1.0 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1.0 + e)
}
