package escape

import (
	"fmt"
	"strings"

	"github.com/ironsheep/fractal-tools-mcp/internal/numerics"
)

// Kind selects how a plane point feeds the iteration.
type Kind int

const (
	// KindMandelbrot uses the point as c and starts at the origin.
	KindMandelbrot Kind = iota
	// KindJulia uses the point as z0 with a fixed c.
	KindJulia
)

func (k Kind) String() string {
	switch k {
	case KindMandelbrot:
		return "mandelbrot"
	case KindJulia:
		return "julia"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind reads "mandelbrot" or "julia", case-insensitively. An empty
// string selects KindMandelbrot.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mandelbrot":
		return KindMandelbrot, nil
	case "julia":
		return KindJulia, nil
	default:
		return 0, fmt.Errorf("unknown fractal kind: %q", s)
	}
}

// Evaluator binds a kind, a Julia constant and iteration parameters so a
// renderer can evaluate plane points without knowing which set it draws.
type Evaluator struct {
	Kind   Kind
	C      numerics.Complex // used by KindJulia only
	Params Params
}

// Validate checks the kind and the iteration parameters.
func (e Evaluator) Validate() error {
	if e.Kind != KindMandelbrot && e.Kind != KindJulia {
		return fmt.Errorf("unknown fractal kind: %s", e.Kind)
	}
	return e.Params.Validate()
}

// Evaluate iterates the plane point according to the evaluator's kind.
func (e Evaluator) Evaluate(point numerics.Complex) Result {
	if e.Kind == KindJulia {
		return Julia(point, e.C, e.Params)
	}
	return Mandelbrot(point, e.Params)
}
