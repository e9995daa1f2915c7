package render

import (
	"math"

	"github.com/ironsheep/fractal-tools-mcp/internal/numerics"
)

// Measurement relates two pixels of a viewport to their plane points.
type Measurement struct {
	From           numerics.Complex `json:"from"`
	To             numerics.Complex `json:"to"`
	Delta          numerics.Complex `json:"delta"`
	Distance       float64          `json:"distance"`
	DistancePixels float64          `json:"distance_pixels"`
	AngleDegrees   float64          `json:"angle_degrees"`
}

// Measure returns the plane offset from pixel (x1, y1) to pixel (x2, y2).
// The angle is measured in the plane, counterclockwise from the positive
// real axis, so it has the opposite sign to an image-space angle.
func Measure(vp Viewport, x1, y1, x2, y2 int) (*Measurement, error) {
	from, err := vp.PointAt(x1, y1)
	if err != nil {
		return nil, err
	}
	to, err := vp.PointAt(x2, y2)
	if err != nil {
		return nil, err
	}

	delta := to.Minus(from)
	dx, dy := float64(x2-x1), float64(y2-y1)
	return &Measurement{
		From:           from,
		To:             to,
		Delta:          delta,
		Distance:       delta.Abs(),
		DistancePixels: math.Round(math.Hypot(dx, dy)*100) / 100,
		AngleDegrees:   math.Round(math.Atan2(delta.Imag(), delta.Real())*180/math.Pi*10) / 10,
	}, nil
}
