package config

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Environment variables read by Load.
const (
	EnvLogLevel      = "FRACTAL_MCP_LOG_LEVEL"
	EnvMaxIterations = "FRACTAL_MCP_MAX_ITERATIONS"
	EnvEscapeRadius  = "FRACTAL_MCP_ESCAPE_RADIUS"
	EnvWorkers       = "FRACTAL_MCP_WORKERS"
	EnvTileSize      = "FRACTAL_MCP_TILE_SIZE"
	EnvCacheSize     = "FRACTAL_MCP_CACHE_SIZE"
)

// Config holds server defaults. Tool arguments override the iteration
// settings per request.
type Config struct {
	LogLevel      string
	MaxIterations int
	EscapeRadius  float64
	Workers       int
	TileSize      int
	CacheSize     int
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		LogLevel:      "info",
		MaxIterations: 500,
		EscapeRadius:  2.0,
		Workers:       runtime.NumCPU(),
		TileSize:      64,
		CacheSize:     16,
	}
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv. Unset or empty variables
// keep their defaults.
func LoadFrom(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	var err error
	if cfg.MaxIterations, err = positiveInt(getenv, EnvMaxIterations, cfg.MaxIterations); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = positiveInt(getenv, EnvWorkers, cfg.Workers); err != nil {
		return Config{}, err
	}
	if cfg.TileSize, err = positiveInt(getenv, EnvTileSize, cfg.TileSize); err != nil {
		return Config{}, err
	}
	if cfg.CacheSize, err = positiveInt(getenv, EnvCacheSize, cfg.CacheSize); err != nil {
		return Config{}, err
	}

	if v := strings.TrimSpace(getenv(EnvEscapeRadius)); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
			return Config{}, fmt.Errorf("%s must be a positive number, got %q", EnvEscapeRadius, v)
		}
		cfg.EscapeRadius = r
	}

	return cfg, nil
}

func positiveInt(getenv func(string) string, name string, def int) (int, error) {
	v := strings.TrimSpace(getenv(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, v)
	}
	return n, nil
}
