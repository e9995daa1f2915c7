// Package escape implements the escape-time test behind Mandelbrot and Julia
// set rendering.
//
// Iterate repeatedly applies z ← z² + c, starting from z0, and stops as soon as
// |z| exceeds the escape radius or the iteration bound is reached. The result
// is a pure function of its inputs: no global state takes part, and every
// evaluation is independent, so callers may evaluate many points concurrently
// without coordination.
//
// Params must be validated with Params.Validate before calling Iterate or any
// helper built on it. Iterate itself never fails.
package escape
