// Package render turns escape-time results into images.
//
// It maps pixels onto the complex plane, colours each result through a
// palette, evaluates the frame in parallel tiles and encodes the outcome as
// PNG. It also extracts the set boundary and overlays the plane axes.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner:
//   - X increases rightward, following the real axis
//   - Y increases downward, against the imaginary axis
//   - A pixel maps to the plane point at its centre
//
// A Viewport fixes the plane point at the image centre, the horizontal span
// in plane units and the pixel dimensions. Pixels are square, so the vertical
// span follows from the aspect ratio.
//
// # Concurrency
//
// Render splits the frame into tiles and evaluates them on a fixed number of
// worker goroutines. Tiles share no state apart from the destination image,
// where each tile writes only its own pixels. Cancelling the context stops
// workers before they start another tile; a tile already in progress runs to
// completion.
//
// Cache is safe for concurrent use. Palettes and viewports are values and
// may be shared freely.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Viewports with non-positive sizes or a non-finite span (ErrInvalidViewport)
//   - Iteration parameters rejected by escape.Params.Validate
//   - Pixels outside the viewport
//   - Encoding or file I/O errors
package render
