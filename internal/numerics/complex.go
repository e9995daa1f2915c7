package numerics

import (
	"fmt"
	"math"
)

// Complex is an immutable complex number a + bi with finite float64 parts.
//
// The zero value is 0 + 0i and is valid. Use New to build values from
// untrusted input.
type Complex struct {
	re float64
	im float64
}

// Zero is the additive identity 0 + 0i.
var Zero = Complex{}

// New constructs a + bi.
//
// Returns an error wrapping ErrInvalidNumber if either part is NaN or
// infinite.
func New(re, im float64) (Complex, error) {
	if err := checkFinite("real", re); err != nil {
		return Complex{}, err
	}
	if err := checkFinite("imaginary", im); err != nil {
		return Complex{}, err
	}
	return Complex{re: re, im: im}, nil
}

// MustNew is like New but panics on invalid input. It is intended for
// constants and tests.
func MustNew(re, im float64) Complex {
	z, err := New(re, im)
	if err != nil {
		panic(err)
	}
	return z
}

func checkFinite(part string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s part is %v", ErrInvalidNumber, part, v)
	}
	return nil
}

// Real returns the real part.
func (z Complex) Real() float64 { return z.re }

// Imag returns the imaginary part.
func (z Complex) Imag() float64 { return z.im }

// IsFinite reports whether both parts are finite. Values from New are always
// finite; values produced by overflowing arithmetic may not be.
func (z Complex) IsFinite() bool {
	return !math.IsNaN(z.re) && !math.IsInf(z.re, 0) &&
		!math.IsNaN(z.im) && !math.IsInf(z.im, 0)
}

// Norm returns the squared magnitude re² + im².
//
// Products are converted explicitly so the compiler cannot fuse them into
// FMA instructions; results stay bit-identical across architectures.
func (z Complex) Norm() float64 {
	return float64(z.re*z.re) + float64(z.im*z.im)
}

// Abs returns the Euclidean magnitude, the square root of Norm.
func (z Complex) Abs() float64 {
	return math.Sqrt(z.Norm())
}

// Conjugate returns re - im·i.
func (z Complex) Conjugate() Complex {
	return Complex{re: z.re, im: -z.im}
}

// Plus returns z + w.
func (z Complex) Plus(w Complex) Complex {
	return Complex{re: z.re + w.re, im: z.im + w.im}
}

// Negate returns -z.
func (z Complex) Negate() Complex {
	return Complex{re: -z.re, im: -z.im}
}

// Minus returns z - w, computed as z.Plus(w.Negate()).
func (z Complex) Minus(w Complex) Complex {
	return z.Plus(w.Negate())
}

// Times returns the product z·w.
func (z Complex) Times(w Complex) Complex {
	return Complex{
		re: float64(z.re*w.re) - float64(z.im*w.im),
		im: float64(z.re*w.im) + float64(z.im*w.re),
	}
}

// Divides returns z / w by multiplying with the conjugate of w.
//
// Returns an error wrapping ErrDivisionByZero if the norm of w is exactly 0.
func (z Complex) Divides(w Complex) (Complex, error) {
	divisorNorm := w.Norm()
	if divisorNorm == 0.0 {
		return Complex{}, fmt.Errorf("%w: %s / %s", ErrDivisionByZero, z.ASCIIString(), w.ASCIIString())
	}
	return Complex{
		re: (float64(z.re*w.re) + float64(z.im*w.im)) / divisorNorm,
		im: (float64(z.im*w.re) - float64(z.re*w.im)) / divisorNorm,
	}, nil
}

// PlusInt returns z + n.
func (z Complex) PlusInt(n int) Complex {
	return Complex{re: z.re + float64(n), im: z.im}
}

// MinusInt returns z - n.
func (z Complex) MinusInt(n int) Complex {
	return Complex{re: z.re - float64(n), im: z.im}
}

// TimesInt returns n·z.
func (z Complex) TimesInt(n int) Complex {
	f := float64(n)
	return Complex{re: z.re * f, im: z.im * f}
}

// DividesInt returns z / n, or an error wrapping ErrDivisionByZero if n is 0.
func (z Complex) DividesInt(n int) (Complex, error) {
	if n == 0 {
		return Complex{}, fmt.Errorf("%w: %s / 0", ErrDivisionByZero, z.ASCIIString())
	}
	f := float64(n)
	return Complex{re: z.re / f, im: z.im / f}, nil
}

// Equal reports whether both parts of z and w have identical bit patterns.
func (z Complex) Equal(w Complex) bool {
	return math.Float64bits(z.re) == math.Float64bits(w.re) &&
		math.Float64bits(z.im) == math.Float64bits(w.im)
}

// Hash returns a hash code consistent with Equal.
//
// Each part is narrowed to float32 and the two bit patterns are packed into
// one word, then scrambled with the splitmix64 finaliser. The finaliser is a
// bijection, so two values collide exactly when their parts agree at single
// precision.
func (z Complex) Hash() uint64 {
	x := uint64(math.Float32bits(float32(z.re)))<<32 | uint64(math.Float32bits(float32(z.im)))
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
