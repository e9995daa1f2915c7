package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ironsheep/fractal-tools-mcp/internal/escape"
	"github.com/ironsheep/fractal-tools-mcp/internal/numerics"
	"github.com/ironsheep/fractal-tools-mcp/internal/render"
)

const (
	// maxIterationBudget caps max_iterations per request.
	maxIterationBudget = 1000000

	// maxRenderSamples caps pixels times supersample squared.
	maxRenderSamples = 4096 * 4096

	// maxOrbitPoints caps the orbit returned by fractal_iterate_point.
	maxOrbitPoints = 1000

	defaultPixelsX = 800
)

// errInvalidArguments marks tool arguments that could not be decoded.
var errInvalidArguments = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "fractal_render", "complex_calc").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Arguments that fail to decode return -32602; any other tool failure
// returns a JSON-RPC error response with code -32000. A result that cannot
// be encoded returns -32603.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	s.debugf("tool %s finished in %v (error: %v)", params.Name, time.Since(start), err)
	if err != nil {
		if errors.Is(err, errInvalidArguments) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	text, err := marshalResult(result)
	if err != nil {
		return s.errorResponse(req.ID, -32603, "Internal error", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies server defaults for optional parameters
//  3. Validates the iteration budget and viewport before evaluating anything
//  4. Calls the appropriate numerics/escape/render function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Complex Arithmetic
	case "complex_calc":
		return s.handleComplexCalc(args)

	// Escape-Time Evaluation
	case "fractal_iterate_point":
		return s.handleIteratePoint(args)

	// Rendering
	case "fractal_render":
		return s.handleRender(ctx, args)
	case "fractal_boundary":
		return s.handleBoundary(ctx, args)

	// Navigation
	case "fractal_zoom":
		return s.handleZoom(args)
	case "fractal_point_at_pixel":
		return s.handlePointAtPixel(args)
	case "fractal_measure":
		return s.handleMeasure(args)
	case "fractal_landmarks":
		return s.handleLandmarks()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// marshalResult converts a tool result to a pretty-printed JSON string.
func marshalResult(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

// decodeArgs unmarshals tool arguments into v. Missing arguments decode as
// an empty object so every optional parameter takes its default.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

// complexOut is the JSON form of a complex result. JSON has no infinities,
// so a part that overflowed is omitted and only the text forms carry it.
type complexOut struct {
	Re      *float64 `json:"re,omitempty"`
	Im      *float64 `json:"im,omitempty"`
	Display string   `json:"display"`
	ASCII   string   `json:"ascii"`
}

func newComplexOut(z numerics.Complex) complexOut {
	out := complexOut{Display: z.String(), ASCII: z.ASCIIString()}
	if re := z.Real(); !math.IsInf(re, 0) && !math.IsNaN(re) {
		out.Re = &re
	}
	if im := z.Imag(); !math.IsInf(im, 0) && !math.IsNaN(im) {
		out.Im = &im
	}
	return out
}

// === Shared Argument Groups ===

type iterationArgs struct {
	Kind          string            `json:"kind"`
	C             *numerics.Complex `json:"c"`
	EscapeRadius  *float64          `json:"escape_radius"`
	MaxIterations *int              `json:"max_iterations"`
}

// evaluator applies server defaults and validates the iteration budget.
func (s *Server) evaluator(a iterationArgs) (escape.Evaluator, error) {
	kind, err := escape.ParseKind(a.Kind)
	if err != nil {
		return escape.Evaluator{}, err
	}

	params := escape.Params{EscapeRadius: s.cfg.EscapeRadius, MaxIterations: s.cfg.MaxIterations}
	if a.EscapeRadius != nil {
		params.EscapeRadius = *a.EscapeRadius
	}
	if a.MaxIterations != nil {
		params.MaxIterations = *a.MaxIterations
	}
	if err := params.Validate(); err != nil {
		return escape.Evaluator{}, err
	}
	if params.MaxIterations > maxIterationBudget {
		return escape.Evaluator{}, fmt.Errorf("%w: max iterations %d exceed %d",
			escape.ErrInvalidIterationBudget, params.MaxIterations, maxIterationBudget)
	}

	ev := escape.Evaluator{Kind: kind, Params: params}
	if kind == escape.KindJulia {
		if a.C == nil {
			return escape.Evaluator{}, errors.New("c is required for julia sets")
		}
		ev.C = *a.C
	}
	return ev, nil
}

type viewportArgs struct {
	Center   *numerics.Complex `json:"center"`
	Width    float64           `json:"width"`
	PixelsX  int               `json:"pixels_x"`
	PixelsY  int               `json:"pixels_y"`
	Landmark string            `json:"landmark"`
}

// viewport builds the requested viewport. A landmark takes precedence over
// center and width.
func (a viewportArgs) viewport(kind escape.Kind) (render.Viewport, error) {
	if a.Landmark != "" {
		region, err := render.Landmark(a.Landmark)
		if err != nil {
			return render.Viewport{}, err
		}
		pixelsX := a.PixelsX
		if pixelsX == 0 {
			pixelsX = defaultPixelsX
		}
		vp, err := render.FromRegion(region, pixelsX)
		if err != nil {
			return render.Viewport{}, err
		}
		if a.PixelsY != 0 {
			vp.PixelsY = a.PixelsY
		}
		if err := vp.Validate(); err != nil {
			return render.Viewport{}, err
		}
		return vp, nil
	}

	vp := render.DefaultViewport()
	if kind == escape.KindJulia {
		vp.Center = numerics.Zero
	}
	if a.Center != nil {
		vp.Center = *a.Center
	}
	if a.Width != 0 {
		vp.Width = a.Width
	}
	if a.PixelsX != 0 {
		vp.PixelsX = a.PixelsX
	}
	if a.PixelsY != 0 {
		vp.PixelsY = a.PixelsY
	}
	if err := vp.Validate(); err != nil {
		return render.Viewport{}, err
	}
	return vp, nil
}

type paletteArgs struct {
	Stops    []string `json:"stops"`
	Interior string   `json:"interior"`
	Cycle    float64  `json:"cycle"`
	Ramp     string   `json:"ramp"`
}

func (a paletteArgs) palette() (*render.Palette, error) {
	if len(a.Stops) == 0 && a.Interior == "" && a.Cycle == 0 && a.Ramp == "" {
		return render.DefaultPalette(), nil
	}
	ramp, err := render.ParseRamp(a.Ramp)
	if err != nil {
		return nil, err
	}
	stops := a.Stops
	if len(stops) == 0 {
		stops = render.DefaultStops
	}
	cycle := a.Cycle
	if cycle == 0 {
		cycle = 64
	}
	return render.NewPalette(stops, a.Interior, cycle, ramp)
}

type renderArgs struct {
	Supersample int     `json:"supersample"`
	Gamma       float64 `json:"gamma"`
}

func (s *Server) options(a renderArgs) render.Options {
	return render.Options{
		Workers:     s.cfg.Workers,
		TileSize:    s.cfg.TileSize,
		Supersample: a.Supersample,
		Gamma:       a.Gamma,
	}
}

// frameRequest is everything a rendering tool needs, resolved from its
// arguments.
type frameRequest struct {
	viewport  render.Viewport
	evaluator escape.Evaluator
	palette   *render.Palette
	options   render.Options
}

func (s *Server) resolveFrame(it iterationArgs, va viewportArgs, pa paletteArgs, ra renderArgs) (*frameRequest, error) {
	ev, err := s.evaluator(it)
	if err != nil {
		return nil, err
	}
	vp, err := va.viewport(ev.Kind)
	if err != nil {
		return nil, err
	}
	pal, err := pa.palette()
	if err != nil {
		return nil, err
	}

	opts := s.options(ra)
	ss := max(opts.Supersample, 1)
	if samples := vp.PixelsX * vp.PixelsY * ss * ss; samples > maxRenderSamples {
		return nil, fmt.Errorf("%w: %dx%d at supersample %d needs %d samples, limit is %d",
			render.ErrInvalidViewport, vp.PixelsX, vp.PixelsY, ss, samples, maxRenderSamples)
	}

	return &frameRequest{viewport: vp, evaluator: ev, palette: pal, options: opts}, nil
}

// renderFrame serves the frame from the cache or renders and caches it.
func (s *Server) renderFrame(ctx context.Context, fr *frameRequest) (*render.Frame, bool, error) {
	key := render.FrameKey(fr.viewport, fr.evaluator, fr.palette, fr.options)
	if frame, ok := s.cache.Get(key); ok {
		s.debugf("render cache hit: %s", key)
		return frame, true, nil
	}

	frame, err := render.Render(ctx, fr.viewport, fr.evaluator, fr.palette, fr.options)
	if err != nil {
		return nil, false, err
	}
	s.debugf("rendered %dx%d %s in %dms (%d tiles, %d escaped, %d bounded)",
		fr.viewport.PixelsX, fr.viewport.PixelsY, fr.evaluator.Kind, frame.Stats.ElapsedMillis,
		frame.Stats.Tiles, frame.Stats.Escaped, frame.Stats.Bounded)

	s.cache.Put(key, frame)
	return frame, false, nil
}

// === Complex Arithmetic Handlers ===

type complexCalcArgs struct {
	Op string            `json:"op"`
	A  *numerics.Complex `json:"a"`
	B  *numerics.Complex `json:"b"`
}

type complexCalcResult struct {
	Op     string      `json:"op"`
	Value  *complexOut `json:"value,omitempty"`
	Number *float64    `json:"number,omitempty"`
	Equal  *bool       `json:"equal,omitempty"`
	Hash   string      `json:"hash,omitempty"`
}

func (s *Server) handleComplexCalc(args json.RawMessage) (interface{}, error) {
	var a complexCalcArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.A == nil {
		return nil, errors.New("operand a is required")
	}
	x := *a.A

	binary := func() (numerics.Complex, error) {
		if a.B == nil {
			return numerics.Complex{}, fmt.Errorf("operand b is required for %s", a.Op)
		}
		return *a.B, nil
	}
	value := func(z numerics.Complex) (interface{}, error) {
		out := newComplexOut(z)
		return &complexCalcResult{Op: a.Op, Value: &out}, nil
	}
	number := func(v float64) (interface{}, error) {
		if math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s overflows float64", a.Op)
		}
		return &complexCalcResult{Op: a.Op, Number: &v}, nil
	}

	switch a.Op {
	case "plus", "minus", "times", "divides", "equal":
		y, err := binary()
		if err != nil {
			return nil, err
		}
		switch a.Op {
		case "plus":
			return value(x.Plus(y))
		case "minus":
			return value(x.Minus(y))
		case "times":
			return value(x.Times(y))
		case "divides":
			q, err := x.Divides(y)
			if err != nil {
				return nil, err
			}
			return value(q)
		default:
			eq := x.Equal(y)
			return &complexCalcResult{Op: a.Op, Equal: &eq}, nil
		}
	case "negate":
		return value(x.Negate())
	case "conjugate":
		return value(x.Conjugate())
	case "format":
		return value(x)
	case "abs":
		return number(x.Abs())
	case "norm":
		return number(x.Norm())
	case "hash":
		return &complexCalcResult{Op: a.Op, Hash: fmt.Sprintf("0x%016x", x.Hash())}, nil
	default:
		return nil, fmt.Errorf("unknown operation: %q", a.Op)
	}
}

// === Escape-Time Handlers ===

type iteratePointArgs struct {
	iterationArgs
	Point        *numerics.Complex `json:"point"`
	IncludeOrbit bool              `json:"include_orbit"`
}

type iteratePointResult struct {
	Kind           string        `json:"kind"`
	Point          complexOut    `json:"point"`
	C              *complexOut   `json:"c,omitempty"`
	Params         escape.Params `json:"params"`
	Iterations     int           `json:"iterations"`
	Escaped        bool          `json:"escaped"`
	State          string        `json:"state"`
	Smooth         float64       `json:"smooth"`
	Last           complexOut    `json:"last"`
	Orbit          []complexOut  `json:"orbit,omitempty"`
	OrbitTruncated bool          `json:"orbit_truncated,omitempty"`
}

func (s *Server) handleIteratePoint(args json.RawMessage) (interface{}, error) {
	var a iteratePointArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Point == nil {
		return nil, errors.New("point is required")
	}
	ev, err := s.evaluator(a.iterationArgs)
	if err != nil {
		return nil, err
	}

	point := *a.Point
	r := ev.Evaluate(point)
	result := &iteratePointResult{
		Kind:       ev.Kind.String(),
		Point:      newComplexOut(point),
		Params:     ev.Params,
		Iterations: r.Iterations,
		Escaped:    r.Escaped,
		State:      r.State().String(),
		Smooth:     escape.SmoothValue(r, ev.Params),
		Last:       newComplexOut(r.Last),
	}

	z0, c := numerics.Zero, point
	if ev.Kind == escape.KindJulia {
		z0, c = point, ev.C
		cOut := newComplexOut(ev.C)
		result.C = &cOut
	}

	if a.IncludeOrbit {
		p := ev.Params
		if p.MaxIterations > maxOrbitPoints-1 {
			p.MaxIterations = maxOrbitPoints - 1
		}
		orbit := escape.Orbit(z0, c, p)
		result.Orbit = make([]complexOut, len(orbit))
		for i, z := range orbit {
			result.Orbit[i] = newComplexOut(z)
		}
		result.OrbitTruncated = len(orbit) < r.Iterations+1
	}

	return result, nil
}

// === Rendering Handlers ===

type fractalRenderArgs struct {
	iterationArgs
	viewportArgs
	paletteArgs
	renderArgs
	Axes       bool   `json:"axes"`
	AxesColor  string `json:"axes_color"`
	OutputPath string `json:"output_path"`
}

type fractalRenderResult struct {
	*render.ImageResult
	Kind         string          `json:"kind"`
	Viewport     render.Viewport `json:"viewport"`
	Region       render.Region   `json:"region"`
	PixelSpacing float64         `json:"pixel_spacing"`
	Stats        render.Stats    `json:"stats"`
	Cached       bool            `json:"cached"`
	OutputPath   string          `json:"output_path,omitempty"`
}

func (s *Server) handleRender(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a fractalRenderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	fr, err := s.resolveFrame(a.iterationArgs, a.viewportArgs, a.paletteArgs, a.renderArgs)
	if err != nil {
		return nil, err
	}
	frame, cached, err := s.renderFrame(ctx, fr)
	if err != nil {
		return nil, err
	}

	img := frame.Image
	if a.Axes {
		img = render.AxesOverlay(img, frame.Viewport, a.AxesColor)
	}
	if a.OutputPath != "" {
		if err := render.Save(img, a.OutputPath); err != nil {
			return nil, err
		}
	}
	encoded, err := render.Encode(img)
	if err != nil {
		return nil, err
	}

	return &fractalRenderResult{
		ImageResult:  encoded,
		Kind:         fr.evaluator.Kind.String(),
		Viewport:     frame.Viewport,
		Region:       frame.Viewport.Region(),
		PixelSpacing: frame.Viewport.PixelSpacing(),
		Stats:        frame.Stats,
		Cached:       cached,
		OutputPath:   a.OutputPath,
	}, nil
}

type fractalBoundaryArgs struct {
	iterationArgs
	viewportArgs
	paletteArgs
	renderArgs
	Level *int `json:"level"`
}

type fractalBoundaryResult struct {
	*render.ImageResult
	Viewport         render.Viewport `json:"viewport"`
	Level            int             `json:"level"`
	BoundaryFraction float64         `json:"boundary_fraction"`
	Stats            render.Stats    `json:"stats"`
}

func (s *Server) handleBoundary(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a fractalBoundaryArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	level := render.DefaultBoundaryLevel
	if a.Level != nil {
		level = *a.Level
	}
	if level < 0 || level > 255 {
		return nil, fmt.Errorf("level must be between 0 and 255, got %d", level)
	}

	fr, err := s.resolveFrame(a.iterationArgs, a.viewportArgs, a.paletteArgs, a.renderArgs)
	if err != nil {
		return nil, err
	}
	frame, _, err := s.renderFrame(ctx, fr)
	if err != nil {
		return nil, err
	}

	edges := render.Boundary(frame.Image, uint8(level))
	encoded, err := render.Encode(edges)
	if err != nil {
		return nil, err
	}

	return &fractalBoundaryResult{
		ImageResult:      encoded,
		Viewport:         frame.Viewport,
		Level:            level,
		BoundaryFraction: render.BoundaryFraction(edges),
		Stats:            frame.Stats,
	}, nil
}

// === Navigation Handlers ===

type fractalZoomArgs struct {
	viewportArgs
	Kind   string  `json:"kind"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Factor float64 `json:"factor"`
	PanX   int     `json:"pan_x"`
	PanY   int     `json:"pan_y"`
}

type viewportResult struct {
	Viewport     render.Viewport `json:"viewport"`
	Region       render.Region   `json:"region"`
	PixelSpacing float64         `json:"pixel_spacing"`
	Center       complexOut      `json:"center"`
}

func newViewportResult(vp render.Viewport) *viewportResult {
	return &viewportResult{
		Viewport:     vp,
		Region:       vp.Region(),
		PixelSpacing: vp.PixelSpacing(),
		Center:       newComplexOut(vp.Center),
	}
}

func (s *Server) handleZoom(args json.RawMessage) (interface{}, error) {
	var a fractalZoomArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Factor == 0 {
		a.Factor = 2
	}
	kind, err := escape.ParseKind(a.Kind)
	if err != nil {
		return nil, err
	}
	vp, err := a.viewport(kind)
	if err != nil {
		return nil, err
	}

	next, err := vp.Zoom(a.X, a.Y, a.Factor)
	if err != nil {
		return nil, err
	}
	if a.PanX != 0 || a.PanY != 0 {
		if next, err = next.Pan(a.PanX, a.PanY); err != nil {
			return nil, err
		}
	}
	return newViewportResult(next), nil
}

type pointAtPixelArgs struct {
	iterationArgs
	viewportArgs
	paletteArgs
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handlePointAtPixel(args json.RawMessage) (interface{}, error) {
	var a pointAtPixelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ev, err := s.evaluator(a.iterationArgs)
	if err != nil {
		return nil, err
	}
	vp, err := a.viewport(ev.Kind)
	if err != nil {
		return nil, err
	}
	pal, err := a.palette()
	if err != nil {
		return nil, err
	}
	return render.Readout(vp, ev, pal, a.X, a.Y)
}

type measureArgs struct {
	viewportArgs
	Kind string `json:"kind"`
	X1   int    `json:"x1"`
	Y1   int    `json:"y1"`
	X2   int    `json:"x2"`
	Y2   int    `json:"y2"`
}

type measureResult struct {
	From           complexOut `json:"from"`
	To             complexOut `json:"to"`
	Delta          complexOut `json:"delta"`
	Distance       float64    `json:"distance"`
	DistancePixels float64    `json:"distance_pixels"`
	AngleDegrees   float64    `json:"angle_degrees"`
}

func (s *Server) handleMeasure(args json.RawMessage) (interface{}, error) {
	var a measureArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	kind, err := escape.ParseKind(a.Kind)
	if err != nil {
		return nil, err
	}
	vp, err := a.viewport(kind)
	if err != nil {
		return nil, err
	}
	m, err := render.Measure(vp, a.X1, a.Y1, a.X2, a.Y2)
	if err != nil {
		return nil, err
	}
	if math.IsInf(m.Distance, 0) {
		return nil, fmt.Errorf("distance overflows float64")
	}
	return &measureResult{
		From:           newComplexOut(m.From),
		To:             newComplexOut(m.To),
		Delta:          newComplexOut(m.Delta),
		Distance:       m.Distance,
		DistancePixels: m.DistancePixels,
		AngleDegrees:   m.AngleDegrees,
	}, nil
}

type landmarkInfo struct {
	Name     string          `json:"name"`
	Region   render.Region   `json:"region"`
	Viewport render.Viewport `json:"viewport"`
}

func (s *Server) handleLandmarks() (interface{}, error) {
	names := render.LandmarkNames()
	infos := make([]landmarkInfo, 0, len(names))
	for _, name := range names {
		region, err := render.Landmark(name)
		if err != nil {
			return nil, err
		}
		vp, err := render.FromRegion(region, defaultPixelsX)
		if err != nil {
			return nil, fmt.Errorf("landmark %s: %w", name, err)
		}
		infos = append(infos, landmarkInfo{Name: name, Region: region, Viewport: vp})
	}
	return map[string]interface{}{"landmarks": infos}, nil
}
