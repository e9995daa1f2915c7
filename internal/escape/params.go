package escape

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidIterationBudget is returned by Params.Validate when the iteration
// bound or escape radius cannot drive an evaluation.
var ErrInvalidIterationBudget = errors.New("invalid iteration budget")

const (
	// DefaultEscapeRadius is the smallest radius that classifies the
	// Mandelbrot set correctly.
	DefaultEscapeRadius = 2.0

	// DefaultMaxIterations bounds an evaluation when no other bound is given.
	DefaultMaxIterations = 1000
)

// Params configures one escape-time evaluation.
type Params struct {
	// EscapeRadius is the magnitude beyond which the orbit is divergent.
	EscapeRadius float64 `json:"escape_radius"`

	// MaxIterations is the number of steps after which a point is bounded.
	MaxIterations int `json:"max_iterations"`
}

// DefaultParams returns a radius of 2 and a bound of 1000 iterations.
func DefaultParams() Params {
	return Params{EscapeRadius: DefaultEscapeRadius, MaxIterations: DefaultMaxIterations}
}

// Validate returns an error wrapping ErrInvalidIterationBudget if
// MaxIterations is not positive or EscapeRadius is not a positive finite
// number.
func (p Params) Validate() error {
	if p.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidIterationBudget, p.MaxIterations)
	}
	if math.IsNaN(p.EscapeRadius) || math.IsInf(p.EscapeRadius, 0) || p.EscapeRadius <= 0 {
		return fmt.Errorf("%w: escape radius must be positive and finite, got %v", ErrInvalidIterationBudget, p.EscapeRadius)
	}
	return nil
}
