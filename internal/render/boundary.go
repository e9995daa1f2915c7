package render

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// DefaultBoundaryLevel is the Sobel magnitude above which a pixel counts as
// boundary.
const DefaultBoundaryLevel = 64

// Boundary returns a binary image of the edges in img: white where the Sobel
// gradient reaches level, black elsewhere.
//
// Applied to a frame rendered with a flat interior colour, the strongest edges
// trace the boundary of the set.
func Boundary(img image.Image, level uint8) *image.Gray {
	return segment.Threshold(effect.Sobel(img), level)
}

// BoundaryFraction returns the share of white pixels in a Boundary image.
func BoundaryFraction(edges *image.Gray) float64 {
	b := edges.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	white := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if edges.GrayAt(x, y).Y > 0 {
				white++
			}
		}
	}
	return float64(white) / float64(total)
}
