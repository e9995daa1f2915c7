package numerics

// Arithmetic is the minimal capability set a number type provides so the
// derived operations below can be computed for it.
//
// Implementations supply Plus, Times and TimesInt. Negate and Minus are
// derived from them; a type may still provide its own faster versions as
// methods, as Complex does.
type Arithmetic[T any] interface {
	Plus(T) T
	Times(T) T
	TimesInt(int) T
}

// Negate returns -a computed as a.TimesInt(-1).
func Negate[T Arithmetic[T]](a T) T {
	return a.TimesInt(-1)
}

// Minus returns a - b computed as a.Plus(Negate(b)).
func Minus[T Arithmetic[T]](a, b T) T {
	return a.Plus(Negate(b))
}

// Square returns a·a.
func Square[T Arithmetic[T]](a T) T {
	return a.Times(a)
}

var _ Arithmetic[Complex] = Complex{}
