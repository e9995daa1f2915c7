package numerics

import "errors"

var (
	// ErrInvalidNumber is returned when a component is NaN or infinite.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrDivisionByZero is returned when the divisor has a norm of exactly 0.
	ErrDivisionByZero = errors.New("division by zero")
)
