package escape

import (
	"math"

	"github.com/ironsheep/fractal-tools-mcp/internal/numerics"
)

// State is a phase of the escape-time state machine.
type State int

const (
	// Running means the orbit is still inside the radius and under the bound.
	Running State = iota
	// Escaped means |z| exceeded the escape radius.
	Escaped
	// Bounded means the iteration bound was reached without escaping.
	Bounded
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Escaped:
		return "escaped"
	case Bounded:
		return "bounded"
	default:
		return "unknown"
	}
}

// Result is the outcome of iterating one point.
type Result struct {
	// Iterations is the number of steps performed. It equals the bound for
	// bounded points.
	Iterations int `json:"iterations"`

	// Escaped is true if the radius was crossed before the bound.
	Escaped bool `json:"escaped"`

	// Last is the orbit value after the final step.
	Last numerics.Complex `json:"last"`
}

// State returns the terminal state the result represents.
func (r Result) State() State {
	if r.Escaped {
		return Escaped
	}
	return Bounded
}

// Iterate runs z ← z² + c from z0 until |z| > p.EscapeRadius or
// p.MaxIterations steps have been taken.
//
// A step whose value overflows to a non-finite number counts as escaped.
// Iterate does not validate p; with a non-positive bound it performs no steps
// and reports a bounded result with zero iterations.
func Iterate(z0, c numerics.Complex, p Params) Result {
	if p.MaxIterations <= 0 {
		return Result{Last: z0}
	}

	z := z0
	for n := 1; ; n++ {
		z = z.Times(z).Plus(c)
		if !z.IsFinite() || z.Abs() > p.EscapeRadius {
			return Result{Iterations: n, Escaped: true, Last: z}
		}
		if n == p.MaxIterations {
			return Result{Iterations: n, Last: z}
		}
	}
}

// Mandelbrot tests c as a Mandelbrot parameter: the orbit starts at the
// origin.
func Mandelbrot(c numerics.Complex, p Params) Result {
	return Iterate(numerics.Zero, c, p)
}

// Julia tests z as a starting point for the Julia set of c.
func Julia(z, c numerics.Complex, p Params) Result {
	return Iterate(z, c, p)
}

// Orbit returns z0 followed by every value Iterate visits, so its length is
// the result's Iterations plus one.
func Orbit(z0, c numerics.Complex, p Params) []numerics.Complex {
	if p.MaxIterations <= 0 {
		return []numerics.Complex{z0}
	}

	orbit := make([]numerics.Complex, 1, 16)
	orbit[0] = z0
	z := z0
	for n := 1; n <= p.MaxIterations; n++ {
		z = z.Times(z).Plus(c)
		orbit = append(orbit, z)
		if !z.IsFinite() || z.Abs() > p.EscapeRadius {
			break
		}
	}
	return orbit
}

// SmoothValue returns a continuous escape count for colouring.
//
// Escaped results map to n - log2(ln|z|), which removes the banding of
// integer counts. Bounded results return the iteration bound. The value is
// never negative.
func SmoothValue(r Result, p Params) float64 {
	if !r.Escaped {
		return float64(p.MaxIterations)
	}

	mod := r.Last.Abs()
	if !r.Last.IsFinite() || math.IsInf(mod, 0) || mod <= 1 {
		return float64(r.Iterations)
	}

	mu := float64(r.Iterations) - math.Log2(math.Log(mod))
	if mu < 0 || math.IsNaN(mu) {
		return 0
	}
	return mu
}
