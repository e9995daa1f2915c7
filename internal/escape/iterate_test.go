package escape

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/ironsheep/fractal-tools-mcp/internal/numerics"
)

func TestMandelbrot_KnownPoints(t *testing.T) {
	tests := []struct {
		name        string
		c           numerics.Complex
		radius      float64
		maxIter     int
		wantEscaped bool
		wantIter    int
	}{
		{"1+i escapes quickly", numerics.MustNew(1, 1), 2, 100, true, 2},
		{"origin is bounded", numerics.MustNew(0, 0), 2, 1000, false, 1000},
		{"origin with larger radius", numerics.MustNew(0, 0), 10, 1000, false, 1000},
		{"-1 is periodic", numerics.MustNew(-1, 0), 2, 1000, false, 1000},
		{"-2 sits on the radius", numerics.MustNew(-2, 0), 2, 500, false, 500},
		{"2 escapes on second step", numerics.MustNew(2, 0), 2, 500, true, 2},
		{"far point escapes at once", numerics.MustNew(3, 0), 2, 500, true, 1},
		{"bound of one", numerics.MustNew(0, 0), 2, 1, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Params{EscapeRadius: tt.radius, MaxIterations: tt.maxIter}
			r := Mandelbrot(tt.c, p)
			if r.Escaped != tt.wantEscaped {
				t.Errorf("Escaped: got %v, want %v", r.Escaped, tt.wantEscaped)
			}
			if r.Iterations != tt.wantIter {
				t.Errorf("Iterations: got %d, want %d", r.Iterations, tt.wantIter)
			}
			wantState := Bounded
			if tt.wantEscaped {
				wantState = Escaped
			}
			if r.State() != wantState {
				t.Errorf("State: got %s, want %s", r.State(), wantState)
			}
		})
	}
}

func TestIterate_LastValue(t *testing.T) {
	r := Mandelbrot(numerics.MustNew(1, 1), DefaultParams())
	want := numerics.MustNew(1, 3)
	if !r.Last.Equal(want) {
		t.Errorf("Last: got %s, want %s", r.Last, want)
	}
}

func TestIterate_Deterministic(t *testing.T) {
	p := Params{EscapeRadius: 2, MaxIterations: 300}
	points := []numerics.Complex{
		numerics.MustNew(-0.75, 0.1),
		numerics.MustNew(-0.7435, 0.1315),
		numerics.MustNew(0.3, 0.5),
		numerics.MustNew(-1.76, -0.02),
	}

	for _, c := range points {
		first := Mandelbrot(c, p)
		for i := 0; i < 5; i++ {
			again := Mandelbrot(c, p)
			if again.Iterations != first.Iterations || again.Escaped != first.Escaped || !again.Last.Equal(first.Last) {
				t.Fatalf("evaluation of %s changed: %+v vs %+v", c, first, again)
			}
		}
	}
}

func TestIterate_Overflow(t *testing.T) {
	p := Params{EscapeRadius: 1e300, MaxIterations: 50}

	// |1e200| overflows inside Norm on the first step.
	r := Mandelbrot(numerics.MustNew(1e200, 0), p)
	if !r.Escaped || r.Iterations != 1 {
		t.Errorf("magnitude overflow: got %+v, want escape at step 1", r)
	}

	// Squaring a huge starting point overflows the parts themselves.
	r = Julia(numerics.MustNew(1e200, 0), numerics.Zero, Params{EscapeRadius: math.MaxFloat64, MaxIterations: 50})
	if !r.Escaped || r.Iterations != 1 {
		t.Fatalf("non-finite orbit should count as escaped, got %+v", r)
	}
	if r.Last.IsFinite() {
		t.Errorf("Last should be non-finite, got %s", r.Last)
	}
}

func TestIterate_NonPositiveBound(t *testing.T) {
	z0 := numerics.MustNew(0.5, 0.5)
	r := Iterate(z0, numerics.Zero, Params{EscapeRadius: 2, MaxIterations: 0})
	if r.Escaped || r.Iterations != 0 || !r.Last.Equal(z0) {
		t.Errorf("got %+v, want zero-step bounded result", r)
	}
}

func TestJulia(t *testing.T) {
	p := Params{EscapeRadius: 2, MaxIterations: 200}
	c := numerics.Zero

	inside := Julia(numerics.MustNew(0.5, 0), c, p)
	if inside.Escaped {
		t.Error("0.5 should be bounded for c = 0")
	}

	outside := Julia(numerics.MustNew(1.5, 0), c, p)
	if !outside.Escaped || outside.Iterations != 1 {
		t.Errorf("1.5 for c = 0: got %+v, want escape at step 1", outside)
	}

	// Julia with z0 = 0 is the Mandelbrot test of c.
	c = numerics.MustNew(-0.12, 0.75)
	if got, want := Julia(numerics.Zero, c, p), Mandelbrot(c, p); got.Iterations != want.Iterations || got.Escaped != want.Escaped {
		t.Errorf("Julia(0, c) = %+v, Mandelbrot(c) = %+v", got, want)
	}
}

func TestOrbit(t *testing.T) {
	p := Params{EscapeRadius: 2, MaxIterations: 50}
	tests := []struct {
		name string
		z0   numerics.Complex
		c    numerics.Complex
	}{
		{"escaping", numerics.Zero, numerics.MustNew(1, 1)},
		{"bounded", numerics.Zero, numerics.MustNew(-1, 0)},
		{"julia", numerics.MustNew(0.2, 0.4), numerics.MustNew(-0.8, 0.156)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orbit := Orbit(tt.z0, tt.c, p)
			r := Iterate(tt.z0, tt.c, p)
			if len(orbit) != r.Iterations+1 {
				t.Fatalf("orbit length: got %d, want %d", len(orbit), r.Iterations+1)
			}
			if !orbit[0].Equal(tt.z0) {
				t.Errorf("orbit[0]: got %s, want %s", orbit[0], tt.z0)
			}
			if !orbit[len(orbit)-1].Equal(r.Last) {
				t.Errorf("last orbit value: got %s, want %s", orbit[len(orbit)-1], r.Last)
			}
		})
	}

	wantCycle := []numerics.Complex{numerics.Zero, numerics.MustNew(-1, 0), numerics.Zero, numerics.MustNew(-1, 0)}
	orbit := Orbit(numerics.Zero, numerics.MustNew(-1, 0), Params{EscapeRadius: 2, MaxIterations: 3})
	for i, want := range wantCycle {
		if !orbit[i].Equal(want) {
			t.Errorf("orbit[%d]: got %s, want %s", i, orbit[i], want)
		}
	}
}

func TestSmoothValue(t *testing.T) {
	p := Params{EscapeRadius: 2, MaxIterations: 100}

	bounded := Mandelbrot(numerics.Zero, p)
	if got := SmoothValue(bounded, p); got != 100 {
		t.Errorf("bounded smooth value: got %v, want 100", got)
	}

	for _, c := range []numerics.Complex{
		numerics.MustNew(1, 1),
		numerics.MustNew(0.3, 0.5),
		numerics.MustNew(-0.75, 0.2),
		numerics.MustNew(3, 3),
	} {
		r := Mandelbrot(c, p)
		if !r.Escaped {
			t.Fatalf("%s should escape", c)
		}
		mu := SmoothValue(r, p)
		if mu < 0 || mu > float64(r.Iterations)+1 || math.IsNaN(mu) {
			t.Errorf("smooth value for %s: got %v with %d iterations", c, mu, r.Iterations)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"defaults", DefaultParams(), false},
		{"large radius", Params{EscapeRadius: 256, MaxIterations: 10}, false},
		{"zero iterations", Params{EscapeRadius: 2, MaxIterations: 0}, true},
		{"negative iterations", Params{EscapeRadius: 2, MaxIterations: -5}, true},
		{"zero radius", Params{EscapeRadius: 0, MaxIterations: 10}, true},
		{"negative radius", Params{EscapeRadius: -2, MaxIterations: 10}, true},
		{"NaN radius", Params{EscapeRadius: math.NaN(), MaxIterations: 10}, true},
		{"infinite radius", Params{EscapeRadius: math.Inf(1), MaxIterations: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate: got %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidIterationBudget) {
				t.Errorf("error should wrap ErrInvalidIterationBudget, got %v", err)
			}
		})
	}
}

func TestIterate_Concurrent(t *testing.T) {
	p := Params{EscapeRadius: 2, MaxIterations: 200}
	const n = 32

	points := make([]numerics.Complex, n*n)
	serial := make([]Result, len(points))
	for i := range points {
		x := -2 + 2.5*float64(i%n)/n
		y := -1.25 + 2.5*float64(i/n)/n
		points[i] = numerics.MustNew(x, y)
		serial[i] = Mandelbrot(points[i], p)
	}

	parallel := make([]Result, len(points))
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(points); i += 8 {
				parallel[i] = Mandelbrot(points[i], p)
			}
		}(w)
	}
	wg.Wait()

	for i := range points {
		if parallel[i].Iterations != serial[i].Iterations || parallel[i].Escaped != serial[i].Escaped {
			t.Fatalf("point %s: parallel %+v, serial %+v", points[i], parallel[i], serial[i])
		}
	}
}
