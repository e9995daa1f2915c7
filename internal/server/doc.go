// Package server implements the MCP (Model Context Protocol) server for
// escape-time fractal tools.
//
// This package provides a JSON-RPC 2.0 server that exposes exact complex
// arithmetic, escape-time evaluation and Mandelbrot/Julia rendering through
// the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// ServeWebsocket offers the same protocol over websocket, one request per
// text message.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Complex Arithmetic:
//   - complex_calc: plus, minus, times, divides, equal, negate, conjugate,
//     abs, norm, hash, format
//
// Escape-Time Evaluation:
//   - fractal_iterate_point: Iterate one point, optionally with its orbit
//
// Rendering:
//   - fractal_render: Render a view as PNG with escape statistics
//   - fractal_boundary: Extract the set boundary from a rendered view
//
// Navigation:
//   - fractal_zoom: Zoom and pan a viewport around a pixel
//   - fractal_point_at_pixel: Read out the number under a pixel
//   - fractal_measure: Plane distance and angle between two pixels
//   - fractal_landmarks: List the built-in named regions
//
// # Frame Caching
//
// Rendered frames are kept in a bounded LRU cache keyed by everything that
// affects the pixels, so re-rendering a view (for example to add axes or
// extract its boundary) skips evaluation.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for undecodable arguments, -32000 for any other tool
//     failure, or the standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
