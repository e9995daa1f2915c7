package render

import (
	"fmt"
	"strings"

	"github.com/ironsheep/fractal-tools-mcp/internal/escape"
	"github.com/ironsheep/fractal-tools-mcp/internal/numerics"
)

// PointReadout describes the plane point under one pixel and its
// escape-time result.
type PointReadout struct {
	X          int              `json:"x"`
	Y          int              `json:"y"`
	Point      numerics.Complex `json:"point"`
	Display    string           `json:"display"`
	ASCII      string           `json:"ascii"`
	Kind       string           `json:"kind"`
	Iterations int              `json:"iterations"`
	Escaped    bool             `json:"escaped"`
	State      string           `json:"state"`
	Smooth     float64          `json:"smooth"`
	Color      ColorSample      `json:"color"`
	Text       string           `json:"text"`
}

// Readout evaluates pixel (x, y) of vp with ev and colours it with pal. A nil
// palette selects DefaultPalette.
//
// The Text field holds a plain-text summary suitable for pasting elsewhere.
func Readout(vp Viewport, ev escape.Evaluator, pal *Palette, x, y int) (*PointReadout, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	if pal == nil {
		pal = DefaultPalette()
	}

	point, err := vp.PointAt(x, y)
	if err != nil {
		return nil, err
	}
	r := ev.Evaluate(point)

	ro := &PointReadout{
		X:          x,
		Y:          y,
		Point:      point,
		Display:    point.String(),
		ASCII:      point.ASCIIString(),
		Kind:       ev.Kind.String(),
		Iterations: r.Iterations,
		Escaped:    r.Escaped,
		State:      r.State().String(),
		Smooth:     escape.SmoothValue(r, ev.Params),
		Color:      Sample(pal.Color(r, ev.Params)),
	}
	ro.Text = readoutText(ro, ev)
	return ro, nil
}

func readoutText(ro *PointReadout, ev escape.Evaluator) string {
	var sb strings.Builder
	switch ev.Kind {
	case escape.KindJulia:
		fmt.Fprintf(&sb, "z0 = %s\n", ro.Display)
		fmt.Fprintf(&sb, "c = %s\n", ev.C)
	default:
		fmt.Fprintf(&sb, "c = %s\n", ro.Display)
	}
	if ro.Escaped {
		fmt.Fprintf(&sb, "escaped after %d iterations (radius %v)", ro.Iterations, ev.Params.EscapeRadius)
	} else {
		fmt.Fprintf(&sb, "bounded for %d iterations (radius %v)", ro.Iterations, ev.Params.EscapeRadius)
	}
	return sb.String()
}
