package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// AxesOverlay draws the real and imaginary axes of vp onto a copy of img,
// with tick marks and value labels at evenly spaced plane coordinates.
//
// Axes outside the viewport are omitted. colorHex selects the line colour;
// an empty or invalid value falls back to white.
func AxesOverlay(img image.Image, vp Viewport, colorHex string) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	lineColor := color.RGBA{255, 255, 255, 255}
	if c, err := colorful.Hex(colorHex); err == nil {
		r, g, b := c.RGB255()
		lineColor = color.RGBA{r, g, b, 255}
	}
	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 180}

	region := vp.Region()
	s := vp.PixelSpacing()
	step := tickStep(vp.Width)

	// Row of im = 0 and column of re = 0, in image coordinates.
	if row, ok := pixelIndex(region.MaxIm/s, bounds.Dy()); ok {
		axisY := row + bounds.Min.Y
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			result.Set(x, axisY, lineColor)
		}
		for _, re := range axisTicks(region.MinRe, region.MaxRe, step) {
			x := int(math.Floor((re-region.MinRe)/s)) + bounds.Min.X
			for dy := -3; dy <= 3; dy++ {
				setClipped(result, x, axisY+dy, lineColor)
			}
			if re != 0 {
				drawLabel(result, x+2, axisY+5, formatTick(re), labelColor, bgColor)
			}
		}
	}

	if col, ok := pixelIndex(-region.MinRe/s, bounds.Dx()); ok {
		axisX := col + bounds.Min.X
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			result.Set(axisX, y, lineColor)
		}
		for _, im := range axisTicks(region.MinIm, region.MaxIm, step) {
			y := int(math.Floor((region.MaxIm-im)/s)) + bounds.Min.Y
			for dx := -3; dx <= 3; dx++ {
				setClipped(result, axisX+dx, y, lineColor)
			}
			if im != 0 {
				drawLabel(result, axisX+5, y+2, formatTick(im)+"i", labelColor, bgColor)
			}
		}
	}

	return result
}

// maxTicks bounds the ticks drawn on one axis.
const maxTicks = 64

// pixelIndex floors a pixel offset and reports whether it lies in [0, n).
func pixelIndex(f float64, n int) (int, bool) {
	f = math.Floor(f)
	if !(f >= 0 && f < float64(n)) {
		return 0, false
	}
	return int(f), true
}

// axisTicks returns the multiples of step in [lo, hi]. It returns nil when
// step is too fine to separate neighbouring float64 values at this magnitude
// or the ticks would exceed maxTicks.
func axisTicks(lo, hi, step float64) []float64 {
	if !(step > 0) || math.IsInf(step, 0) || !(hi >= lo) {
		return nil
	}
	m := math.Max(math.Abs(lo), math.Abs(hi))
	if step <= math.Nextafter(m, math.Inf(1))-m {
		return nil
	}

	first, last := math.Ceil(lo/step), math.Floor(hi/step)
	if !(last-first < maxTicks) {
		return nil
	}
	n := int(last - first)
	ticks := make([]float64, 0, max(n+1, 0))
	for k := 0; k <= n; k++ {
		ticks = append(ticks, (first+float64(k))*step)
	}
	return ticks
}

// tickStep returns a 1, 2 or 5 times power-of-ten spacing giving roughly
// eight ticks across span.
func tickStep(span float64) float64 {
	raw := span / 8
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm < 1.5:
		return mag
	case norm < 3.5:
		return 2 * mag
	case norm < 7.5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func setClipped(img *image.RGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

// drawLabel draws text in a 3x5 pixel font at (x, y). Characters without a
// glyph leave a gap.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		'-': {"000", "000", "111", "000", "000"},
		'.': {"000", "000", "000", "000", "010"},
		'i': {"010", "000", "010", "010", "010"},
		'e': {"000", "111", "111", "100", "111"},
	}

	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			setClipped(img, x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					setClipped(img, cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
