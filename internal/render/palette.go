package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/fractal-tools-mcp/internal/escape"
)

// Ramp selects how a palette interpolates between its stops.
type Ramp int

const (
	// RampHCL blends neighbouring stops in the HCL colour space.
	RampHCL Ramp = iota
	// RampHSV ignores the stops and cycles the hue at full saturation.
	RampHSV
)

// ParseRamp reads "hcl" or "hsv". An empty string selects RampHCL.
func ParseRamp(s string) (Ramp, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hcl":
		return RampHCL, nil
	case "hsv":
		return RampHSV, nil
	default:
		return 0, fmt.Errorf("unknown colour ramp: %q", s)
	}
}

// DefaultStops is a blue-white-orange gradient.
var DefaultStops = []string{"#000764", "#206bcb", "#edffff", "#ffaa00", "#000200"}

// Palette maps escape-time results to colours.
//
// Escaped points take their smooth escape value modulo the cycle length and
// look it up on a closed loop through the stops, so colour bands repeat every
// cycle iterations. Bounded points take the interior colour.
type Palette struct {
	key      string
	stops    []colorful.Color
	interior colorful.Color
	cycle    float64
	ramp     Ramp
}

// NewPalette builds a palette from hex stops ("#RRGGBB" or "#RGB") and an
// interior colour. cycle is the number of iterations one pass through the
// stops covers.
//
// Returns an error if fewer than two stops are given, a colour cannot be
// parsed or cycle is not positive.
func NewPalette(stops []string, interior string, cycle float64, ramp Ramp) (*Palette, error) {
	if len(stops) < 2 && ramp == RampHCL {
		return nil, fmt.Errorf("palette needs at least 2 stops, got %d", len(stops))
	}
	if math.IsNaN(cycle) || math.IsInf(cycle, 0) || cycle <= 0 {
		return nil, fmt.Errorf("palette cycle must be positive, got %v", cycle)
	}

	p := &Palette{cycle: cycle, ramp: ramp}
	for _, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("invalid palette stop %q: %w", s, err)
		}
		p.stops = append(p.stops, c)
	}

	if interior == "" {
		interior = "#000000"
	}
	c, err := colorful.Hex(interior)
	if err != nil {
		return nil, fmt.Errorf("invalid interior colour %q: %w", interior, err)
	}
	p.interior = c
	p.key = fmt.Sprintf("%s/%s/%v/%d", strings.Join(stops, ","), interior, cycle, ramp)
	return p, nil
}

// Key identifies the palette's configuration.
func (p *Palette) Key() string {
	return p.key
}

// DefaultPalette returns the DefaultStops gradient with a black interior and
// a 64-iteration cycle.
func DefaultPalette() *Palette {
	p, err := NewPalette(DefaultStops, "#000000", 64, RampHCL)
	if err != nil {
		panic(err)
	}
	return p
}

// Color returns the colour for one escape-time result.
func (p *Palette) Color(r escape.Result, params escape.Params) color.NRGBA {
	if !r.Escaped {
		return toNRGBA(p.interior)
	}
	t := math.Mod(escape.SmoothValue(r, params)/p.cycle, 1)
	return toNRGBA(p.at(t))
}

// at returns the ramp colour at position t in [0, 1).
func (p *Palette) at(t float64) colorful.Color {
	if p.ramp == RampHSV {
		return colorful.Hsv(t*360, 1, 1)
	}

	pos := t * float64(len(p.stops))
	i := int(pos)
	if i >= len(p.stops) {
		i = len(p.stops) - 1
	}
	j := (i + 1) % len(p.stops)
	return p.stops[i].BlendHcl(p.stops[j], pos-float64(i)).Clamped()
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorSample describes one palette colour in several notations.
type ColorSample struct {
	Hex string   `json:"hex"` // "#RRGGBB"
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// Sample describes c as a ColorSample.
func Sample(c color.Color) ColorSample {
	cf, _ := colorful.MakeColor(c)
	r, g, b := cf.RGB255()
	h, s, l := cf.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return ColorSample{
		Hex: fmt.Sprintf("#%02X%02X%02X", r, g, b),
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}
