package escape

import (
	"errors"
	"testing"

	"github.com/ironsheep/fractal-tools-mcp/internal/numerics"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindMandelbrot, false},
		{"mandelbrot", KindMandelbrot, false},
		{"Mandelbrot", KindMandelbrot, false},
		{" julia ", KindJulia, false},
		{"JULIA", KindJulia, false},
		{"newton", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q): err %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseKind(%q): got %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindMandelbrot.String() != "mandelbrot" || KindJulia.String() != "julia" {
		t.Errorf("unexpected names: %s, %s", KindMandelbrot, KindJulia)
	}
	if got := Kind(7).String(); got != "Kind(7)" {
		t.Errorf("unknown kind: got %s", got)
	}
}

func TestEvaluator(t *testing.T) {
	p := Params{EscapeRadius: 2, MaxIterations: 100}
	point := numerics.MustNew(0.5, 0)

	mandel := Evaluator{Kind: KindMandelbrot, Params: p}
	if got, want := mandel.Evaluate(point), Mandelbrot(point, p); got.Iterations != want.Iterations || got.Escaped != want.Escaped {
		t.Errorf("mandelbrot evaluator: got %+v, want %+v", got, want)
	}

	c := numerics.MustNew(-0.4, 0.6)
	julia := Evaluator{Kind: KindJulia, C: c, Params: p}
	if got, want := julia.Evaluate(point), Julia(point, c, p); got.Iterations != want.Iterations || got.Escaped != want.Escaped {
		t.Errorf("julia evaluator: got %+v, want %+v", got, want)
	}
}

func TestEvaluatorValidate(t *testing.T) {
	if err := (Evaluator{Kind: KindJulia, Params: DefaultParams()}).Validate(); err != nil {
		t.Errorf("valid evaluator rejected: %v", err)
	}
	if err := (Evaluator{Kind: Kind(9), Params: DefaultParams()}).Validate(); err == nil {
		t.Error("unknown kind should be rejected")
	}
	err := (Evaluator{Kind: KindMandelbrot}).Validate()
	if !errors.Is(err, ErrInvalidIterationBudget) {
		t.Errorf("zero params: got %v, want ErrInvalidIterationBudget", err)
	}
}
