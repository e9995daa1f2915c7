package render

import (
	"fmt"
	"math"

	"github.com/ironsheep/fractal-tools-mcp/internal/numerics"
)

// MaxPixels bounds either side of a viewport.
const MaxPixels = 8192

// Viewport maps a pixel grid onto a rectangle of the complex plane.
type Viewport struct {
	// Center is the plane point at the middle of the image.
	Center numerics.Complex `json:"center"`

	// Width is the horizontal span of the image in plane units.
	Width float64 `json:"width"`

	// PixelsX and PixelsY are the image dimensions.
	PixelsX int `json:"pixels_x"`
	PixelsY int `json:"pixels_y"`
}

// Region is an axis-aligned rectangle of the complex plane.
type Region struct {
	MinRe float64 `json:"min_re"`
	MaxRe float64 `json:"max_re"`
	MinIm float64 `json:"min_im"`
	MaxIm float64 `json:"max_im"`
}

func (r Region) finite() bool {
	for _, v := range []float64{r.MinRe, r.MaxRe, r.MinIm, r.MaxIm} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// DefaultViewport shows the whole Mandelbrot set at 800x600.
func DefaultViewport() Viewport {
	return Viewport{
		Center:  numerics.MustNew(-0.5, 0),
		Width:   3.5,
		PixelsX: 800,
		PixelsY: 600,
	}
}

// Validate returns an error wrapping ErrInvalidViewport if the pixel
// dimensions are out of range, the span is not a positive finite number or
// the covered region does not fit in float64.
func (v Viewport) Validate() error {
	if v.PixelsX <= 0 || v.PixelsY <= 0 {
		return fmt.Errorf("%w: pixel dimensions must be positive, got %dx%d", ErrInvalidViewport, v.PixelsX, v.PixelsY)
	}
	if v.PixelsX > MaxPixels || v.PixelsY > MaxPixels {
		return fmt.Errorf("%w: pixel dimensions %dx%d exceed %d", ErrInvalidViewport, v.PixelsX, v.PixelsY, MaxPixels)
	}
	if math.IsNaN(v.Width) || math.IsInf(v.Width, 0) || v.Width <= 0 {
		return fmt.Errorf("%w: width must be positive and finite, got %v", ErrInvalidViewport, v.Width)
	}
	if !v.Center.IsFinite() {
		return fmt.Errorf("%w: center is not finite", ErrInvalidViewport)
	}
	if v.PixelSpacing() == 0 {
		return fmt.Errorf("%w: width %v is too small to resolve %d pixels", ErrInvalidViewport, v.Width, v.PixelsX)
	}
	if r := v.Region(); !r.finite() {
		return fmt.Errorf("%w: region %v..%v, %v..%v overflows", ErrInvalidViewport, r.MinRe, r.MaxRe, r.MinIm, r.MaxIm)
	}
	return nil
}

// PixelSpacing is the plane distance between neighbouring pixel centres.
func (v Viewport) PixelSpacing() float64 {
	return v.Width / float64(v.PixelsX)
}

// Height is the vertical span of the image in plane units.
func (v Viewport) Height() float64 {
	return v.PixelSpacing() * float64(v.PixelsY)
}

// TopLeft returns the plane point at the top-left corner of pixel (0,0).
func (v Viewport) TopLeft() numerics.Complex {
	z, _ := numerics.New(v.Center.Real()-v.Width/2, v.Center.Imag()+v.Height()/2)
	return z
}

// Region returns the plane rectangle covered by the viewport.
func (v Viewport) Region() Region {
	halfW, halfH := v.Width/2, v.Height()/2
	return Region{
		MinRe: v.Center.Real() - halfW,
		MaxRe: v.Center.Real() + halfW,
		MinIm: v.Center.Imag() - halfH,
		MaxIm: v.Center.Imag() + halfH,
	}
}

// PointAt returns the plane point at the centre of pixel (x, y).
//
// Returns an error if the pixel lies outside the viewport.
func (v Viewport) PointAt(x, y int) (numerics.Complex, error) {
	if x < 0 || x >= v.PixelsX || y < 0 || y >= v.PixelsY {
		return numerics.Complex{}, fmt.Errorf("pixel (%d,%d) outside viewport %dx%d", x, y, v.PixelsX, v.PixelsY)
	}
	return numerics.New(v.re(x), v.im(y))
}

// re and im map pixel indices without bounds checks; the renderer calls
// them for every pixel.
func (v Viewport) re(x int) float64 {
	return v.Center.Real() - v.Width/2 + (float64(x)+0.5)*v.PixelSpacing()
}

func (v Viewport) im(y int) float64 {
	return v.Center.Imag() + v.Height()/2 - (float64(y)+0.5)*v.PixelSpacing()
}

// PixelOf returns the pixel containing plane point z. ok is false if z lies
// outside the viewport.
func (v Viewport) PixelOf(z numerics.Complex) (x, y int, ok bool) {
	r := v.Region()
	s := v.PixelSpacing()
	fx := math.Floor((z.Real() - r.MinRe) / s)
	fy := math.Floor((r.MaxIm - z.Imag()) / s)
	if fx < 0 || fy < 0 || fx >= float64(v.PixelsX) || fy >= float64(v.PixelsY) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

// Zoom returns a viewport centred on pixel (x, y) whose span is divided by
// factor. A factor below 1 zooms out.
func (v Viewport) Zoom(x, y int, factor float64) (Viewport, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return Viewport{}, fmt.Errorf("%w: zoom factor must be positive and finite, got %v", ErrInvalidViewport, factor)
	}
	center, err := v.PointAt(x, y)
	if err != nil {
		return Viewport{}, err
	}
	next := Viewport{Center: center, Width: v.Width / factor, PixelsX: v.PixelsX, PixelsY: v.PixelsY}
	if err := next.Validate(); err != nil {
		return Viewport{}, err
	}
	return next, nil
}

// Pan shifts the viewport by whole pixels. Positive dx moves right, positive
// dy moves down.
func (v Viewport) Pan(dx, dy int) (Viewport, error) {
	s := v.PixelSpacing()
	center, err := numerics.New(v.Center.Real()+float64(dx)*s, v.Center.Imag()-float64(dy)*s)
	if err != nil {
		return Viewport{}, fmt.Errorf("%w: %v", ErrInvalidViewport, err)
	}
	v.Center = center
	if err := v.Validate(); err != nil {
		return Viewport{}, err
	}
	return v, nil
}

// Scaled returns the viewport with both pixel dimensions multiplied by n and
// the same plane span. The renderer uses it for supersampling.
func (v Viewport) Scaled(n int) Viewport {
	v.PixelsX *= n
	v.PixelsY *= n
	return v
}

// FromRegion builds a viewport covering r at the given width in pixels. The
// height in pixels follows from the region's aspect ratio.
func FromRegion(r Region, pixelsX int) (Viewport, error) {
	spanRe := r.MaxRe - r.MinRe
	spanIm := r.MaxIm - r.MinIm
	if !(spanRe > 0) || !(spanIm > 0) {
		return Viewport{}, fmt.Errorf("%w: region must have positive extent", ErrInvalidViewport)
	}
	center, err := numerics.New(r.MinRe+spanRe/2, r.MinIm+spanIm/2)
	if err != nil {
		return Viewport{}, fmt.Errorf("%w: %v", ErrInvalidViewport, err)
	}
	pixelsY := int(math.Round(float64(pixelsX) * spanIm / spanRe))
	if pixelsY < 1 {
		pixelsY = 1
	}
	v := Viewport{Center: center, Width: spanRe, PixelsX: pixelsX, PixelsY: pixelsY}
	if err := v.Validate(); err != nil {
		return Viewport{}, err
	}
	return v, nil
}
