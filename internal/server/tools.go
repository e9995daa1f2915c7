package server

import "github.com/ironsheep/fractal-tools-mcp/internal/render"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// complexSchema accepts {"re":a,"im":b} or a string such as "-0.8+0.156i".
func complexSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"description": description + ` Either {"re": number, "im": number} or a string such as "-0.75 + 0.1i".`,
		"oneOf": []interface{}{
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"re": map[string]interface{}{"type": "number"},
					"im": map[string]interface{}{"type": "number"},
				},
			},
			map[string]interface{}{"type": "string"},
		},
	}
}

func iterationProperties() map[string]interface{} {
	return map[string]interface{}{
		"kind": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"mandelbrot", "julia"},
			"description": "Fractal family. Default mandelbrot",
			"default":     "mandelbrot",
		},
		"c": complexSchema("Julia constant. Required when kind is julia."),
		"escape_radius": map[string]interface{}{
			"type":        "number",
			"description": "Orbit magnitude beyond which a point has escaped. Defaults to the server setting (2.0)",
		},
		"max_iterations": map[string]interface{}{
			"type":        "integer",
			"description": "Iteration bound after which a point counts as bounded. Defaults to the server setting (500)",
		},
	}
}

func viewportProperties() map[string]interface{} {
	return map[string]interface{}{
		"center": complexSchema("Plane point at the middle of the image. Default -0.5 for mandelbrot, 0 for julia."),
		"width": map[string]interface{}{
			"type":        "number",
			"description": "Horizontal span in plane units. Default 3.5",
		},
		"pixels_x": map[string]interface{}{
			"type":        "integer",
			"description": "Image width in pixels. Default 800",
		},
		"pixels_y": map[string]interface{}{
			"type":        "integer",
			"description": "Image height in pixels. Default 600, or the landmark's aspect ratio",
		},
		"landmark": map[string]interface{}{
			"type":        "string",
			"enum":        render.LandmarkNames(),
			"description": "Named region to frame instead of center and width",
		},
	}
}

func paletteProperties() map[string]interface{} {
	return map[string]interface{}{
		"stops": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "Hex colours (#RRGGBB) the escaped bands cycle through",
		},
		"interior": map[string]interface{}{
			"type":        "string",
			"description": "Hex colour of bounded points. Default #000000",
		},
		"cycle": map[string]interface{}{
			"type":        "number",
			"description": "Iterations covered by one pass through the stops. Default 64",
		},
		"ramp": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"hcl", "hsv"},
			"description": "hcl blends the stops, hsv cycles the hue. Default hcl",
		},
	}
}

func renderProperties() map[string]interface{} {
	return map[string]interface{}{
		"supersample": map[string]interface{}{
			"type":        "integer",
			"description": "Samples per pixel along each axis (1-4). Default 1",
			"default":     1,
		},
		"gamma": map[string]interface{}{
			"type":        "number",
			"description": "Gamma correction applied to the final image. Default 1.0",
			"default":     1.0,
		},
	}
}

func pixelProperties() map[string]interface{} {
	return map[string]interface{}{
		"x": map[string]interface{}{
			"type":        "integer",
			"description": "Pixel column (0-based, from left)",
		},
		"y": map[string]interface{}{
			"type":        "integer",
			"description": "Pixel row (0-based, from top)",
		},
	}
}

func mergeProperties(sets ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Complex Arithmetic
		{
			Name:        "complex_calc",
			Description: "Evaluate exact double-precision complex arithmetic. Binary ops (plus, minus, times, divides, equal) use a and b; unary ops (negate, conjugate, abs, norm, hash, format) use a. Division by zero is reported as an error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"op": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"plus", "minus", "times", "divides", "equal", "negate", "conjugate", "abs", "norm", "hash", "format"},
						"description": "Operation to perform",
					},
					"a": complexSchema("First operand."),
					"b": complexSchema("Second operand for binary operations."),
				},
				"required": []string{"op", "a"},
			},
		},

		// Escape-Time Evaluation
		{
			Name:        "fractal_iterate_point",
			Description: "Run the escape-time iteration z -> z*z + c for one point and report whether it escaped, after how many iterations, and optionally the orbit.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(iterationProperties(), map[string]interface{}{
					"point": complexSchema("The parameter c for mandelbrot, or the starting value z0 for julia."),
					"include_orbit": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the visited values (first 1000). Default false",
						"default":     false,
					},
				}),
				"required": []string{"point"},
			},
		},

		// Rendering
		{
			Name:        "fractal_render",
			Description: "Render a Mandelbrot or Julia set view and return it as base64-encoded PNG with escape statistics. Repeated requests for the same view are served from a cache.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(iterationProperties(), viewportProperties(), paletteProperties(), renderProperties(), map[string]interface{}{
					"axes": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw the real and imaginary axes with labelled ticks. Default false",
						"default":     false,
					},
					"axes_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex colour of the axes. Default #FFFFFF",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional absolute path to also write the image to (format from the extension)",
					},
				}),
			},
		},
		{
			Name:        "fractal_boundary",
			Description: "Render a view and extract the boundary of the set with a Sobel edge filter. Returns a black and white PNG and the share of boundary pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(iterationProperties(), viewportProperties(), paletteProperties(), renderProperties(), map[string]interface{}{
					"level": map[string]interface{}{
						"type":        "integer",
						"description": "Edge strength (0-255) a pixel needs to count as boundary. Default 64",
						"default":     render.DefaultBoundaryLevel,
					},
				}),
			},
		},

		// Navigation
		{
			Name:        "fractal_zoom",
			Description: "Compute the viewport obtained by zooming in on a pixel of the current viewport, optionally panning by whole pixels. Use the result as the viewport of the next render.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(viewportProperties(), pixelProperties(), map[string]interface{}{
					"factor": map[string]interface{}{
						"type":        "number",
						"description": "Span divisor. 2 halves the width, 0.5 zooms out. Default 2",
						"default":     2.0,
					},
					"pan_x": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels to shift the zoomed view right (negative shifts left). Default 0",
					},
					"pan_y": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels to shift the zoomed view down (negative shifts up). Default 0",
					},
					"kind": iterationProperties()["kind"],
				}),
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "fractal_point_at_pixel",
			Description: "Report the complex number under a pixel of a viewport, its escape-time result and its palette colour.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": mergeProperties(iterationProperties(), viewportProperties(), paletteProperties(), pixelProperties()),
				"required":   []string{"x", "y"},
			},
		},
		{
			Name:        "fractal_measure",
			Description: "Measure the plane distance and angle between two pixels of a viewport.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(viewportProperties(), map[string]interface{}{
					"kind": iterationProperties()["kind"],
					"x1":   map[string]interface{}{"type": "integer", "description": "First pixel column"},
					"y1":   map[string]interface{}{"type": "integer", "description": "First pixel row"},
					"x2":   map[string]interface{}{"type": "integer", "description": "Second pixel column"},
					"y2":   map[string]interface{}{"type": "integer", "description": "Second pixel row"},
				}),
				"required": []string{"x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "fractal_landmarks",
			Description: "List the built-in named regions of the Mandelbrot set and their plane coordinates.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
