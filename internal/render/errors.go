package render

import "errors"

// ErrInvalidViewport is returned when a viewport cannot be mapped onto pixels.
var ErrInvalidViewport = errors.New("invalid viewport")
