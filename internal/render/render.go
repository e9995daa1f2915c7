package render

import (
	"context"
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/fractal-tools-mcp/internal/escape"
	"github.com/ironsheep/fractal-tools-mcp/internal/numerics"
)

// MaxSupersample bounds Options.Supersample.
const MaxSupersample = 4

// Options tunes how a frame is evaluated.
type Options struct {
	// Workers is the number of goroutines evaluating tiles.
	Workers int `json:"workers"`

	// TileSize is the edge length of a square work tile in pixels.
	TileSize int `json:"tile_size"`

	// Supersample evaluates n x n samples per output pixel and downsamples
	// with a Lanczos filter. 1 disables it.
	Supersample int `json:"supersample"`

	// Gamma is applied to the final image when it differs from 1.
	Gamma float64 `json:"gamma"`
}

// DefaultOptions uses one worker per CPU, 64-pixel tiles, no supersampling
// and no gamma correction.
func DefaultOptions() Options {
	return Options{Workers: runtime.NumCPU(), TileSize: 64, Supersample: 1, Gamma: 1}
}

func (o Options) normalized() (Options, error) {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.TileSize <= 0 {
		o.TileSize = 64
	}
	if o.Supersample == 0 {
		o.Supersample = 1
	}
	if o.Supersample < 1 || o.Supersample > MaxSupersample {
		return o, fmt.Errorf("supersample must be between 1 and %d, got %d", MaxSupersample, o.Supersample)
	}
	if o.Gamma == 0 {
		o.Gamma = 1
	}
	if math.IsNaN(o.Gamma) || math.IsInf(o.Gamma, 0) || o.Gamma < 0 {
		return o, fmt.Errorf("gamma must be positive, got %v", o.Gamma)
	}
	return o, nil
}

// Stats summarises the escape-time results of a frame. Counts refer to
// evaluated samples, so supersampled frames report more samples than pixels.
type Stats struct {
	Samples       int   `json:"samples"`
	Escaped       int   `json:"escaped"`
	Bounded       int   `json:"bounded"`
	MinIterations int   `json:"min_iterations"`
	MaxIterations int   `json:"max_iterations"`
	Tiles         int   `json:"tiles"`
	ElapsedMillis int64 `json:"elapsed_ms"`
}

func (s *Stats) merge(o Stats) {
	if s.Samples == 0 {
		s.MinIterations = o.MinIterations
		s.MaxIterations = o.MaxIterations
	} else if o.Samples > 0 {
		if o.MinIterations < s.MinIterations {
			s.MinIterations = o.MinIterations
		}
		if o.MaxIterations > s.MaxIterations {
			s.MaxIterations = o.MaxIterations
		}
	}
	s.Samples += o.Samples
	s.Escaped += o.Escaped
	s.Bounded += o.Bounded
	s.Tiles += o.Tiles
}

// Frame is a rendered image together with what produced it.
type Frame struct {
	Viewport Viewport
	Image    image.Image
	Stats    Stats
}

// Render evaluates every pixel of vp with ev and colours it with pal.
//
// The frame is split into tiles handed to opts.Workers goroutines. If the
// context is cancelled before all tiles have been taken, Render waits for the
// tiles in flight and returns an error wrapping ctx.Err().
func Render(ctx context.Context, vp Viewport, ev escape.Evaluator, pal *Palette, opts Options) (*Frame, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	if pal == nil {
		pal = DefaultPalette()
	}

	start := time.Now()
	sampled := vp.Scaled(opts.Supersample)
	if err := sampled.Validate(); err != nil {
		return nil, fmt.Errorf("supersampled viewport: %w", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, sampled.PixelsX, sampled.PixelsY))
	tiles := splitRect(img.Bounds(), opts.TileSize, opts.TileSize)

	work := make(chan image.Rectangle)
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		stats Stats
	)

	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tile := range work {
				ts := renderTile(img, tile, sampled, ev, pal)
				mu.Lock()
				stats.merge(ts)
				mu.Unlock()
			}
		}()
	}

	var cancelled error
dispatch:
	for _, tile := range tiles {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break dispatch
		case work <- tile:
		}
	}
	close(work)
	wg.Wait()

	if cancelled != nil {
		return nil, fmt.Errorf("render cancelled: %w", cancelled)
	}

	var out image.Image = img
	if opts.Supersample > 1 {
		out = imaging.Resize(img, vp.PixelsX, vp.PixelsY, imaging.Lanczos)
	}
	if opts.Gamma != 1 {
		out = adjust.Gamma(out, opts.Gamma)
	}

	stats.ElapsedMillis = time.Since(start).Milliseconds()
	return &Frame{Viewport: vp, Image: out, Stats: stats}, nil
}

// renderTile evaluates one tile into img. Tiles never overlap, so workers
// may call it concurrently on the same image.
func renderTile(img *image.NRGBA, tile image.Rectangle, vp Viewport, ev escape.Evaluator, pal *Palette) Stats {
	ts := Stats{Tiles: 1}
	for py := tile.Min.Y; py < tile.Max.Y; py++ {
		im := vp.im(py)
		for px := tile.Min.X; px < tile.Max.X; px++ {
			var r escape.Result
			point, err := numerics.New(vp.re(px), im)
			if err != nil {
				// Off-plane samples only occur for extreme spans; draw them as escaped.
				r = escape.Result{Escaped: true}
			} else {
				r = ev.Evaluate(point)
			}

			ts.record(r)
			img.SetNRGBA(px, py, pal.Color(r, ev.Params))
		}
	}
	return ts
}

func (s *Stats) record(r escape.Result) {
	if s.Samples == 0 || r.Iterations < s.MinIterations {
		s.MinIterations = r.Iterations
	}
	if s.Samples == 0 || r.Iterations > s.MaxIterations {
		s.MaxIterations = r.Iterations
	}
	s.Samples++
	if r.Escaped {
		s.Escaped++
	} else {
		s.Bounded++
	}
}
