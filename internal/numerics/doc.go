// Package numerics provides an exact, finite-only complex number type for
// escape-time fractal work.
//
// Complex values are immutable. Every arithmetic operation returns a new value
// and the receiver is never modified, so values may be copied and shared
// between goroutines without synchronization.
//
// # Finiteness
//
// New and Parse reject NaN and infinite components with ErrInvalidNumber.
// Arithmetic results are not revalidated: an overflow during Times or Plus can
// yield a non-finite component, which IsFinite reports. Consumers that iterate
// (see package escape) check IsFinite rather than relying on construction.
//
// # Equality and Hashing
//
// Equal compares the IEEE-754 bit patterns of both components. There is no
// tolerance, and 0.0 and -0.0 are different values. The built-in == operator
// on Complex compares with float semantics instead and should not be used.
//
// Hash narrows each component to float32 before combining them, so values that
// agree to single precision share a hash code:
//
//	a := numerics.MustNew(1, 0)
//	b := numerics.MustNew(1+1e-12, 0)
//	a.Equal(b)          // false
//	a.Hash() == b.Hash() // true
//
// # Text Forms
//
// String renders "a + bi" using U+2212 MINUS SIGN for negative components.
// ASCIIString renders the same numbers with an ASCII hyphen. Parse accepts
// both forms.
package numerics
