// Package config loads server settings from FRACTAL_MCP_* environment
// variables.
package config
