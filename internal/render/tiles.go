package render

import "image"

// splitRect covers r with tiles of tileW x tileH, in row-major order. Tiles
// on the right and bottom edges are clipped to r. A non-positive tile size
// yields r as a single tile.
func splitRect(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if r.Empty() {
		return nil
	}
	if tileW <= 0 || tileH <= 0 {
		return []image.Rectangle{r}
	}

	tiles := make([]image.Rectangle, 0, ((r.Dx()+tileW-1)/tileW)*((r.Dy()+tileH-1)/tileH))
	for y := r.Min.Y; y < r.Max.Y; y += tileH {
		for x := r.Min.X; x < r.Max.X; x += tileW {
			tiles = append(tiles, image.Rect(x, y, x+tileW, y+tileH).Intersect(r))
		}
	}
	return tiles
}
