package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/fractal-tools-mcp/internal/config"
	"github.com/ironsheep/fractal-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var wsAddr string

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("fractal-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "--ws":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "--ws requires an address, e.g. --ws localhost:8765")
				os.Exit(2)
			}
			wsAddr = os.Args[2]
		default:
			fmt.Fprintf(os.Stderr, "unknown option: %s (see --help)\n", os.Args[1])
			os.Exit(2)
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Fractal MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Config: max_iterations=%d escape_radius=%v workers=%d tile_size=%d cache_size=%d",
			cfg.MaxIterations, cfg.EscapeRadius, cfg.Workers, cfg.TileSize, cfg.CacheSize)
	}

	server.Version = Version
	srv := server.New(cfg)

	if wsAddr != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := srv.ServeWebsocket(ctx, wsAddr); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("fractal-tools-mcp - MCP server for complex arithmetic and escape-time fractals")
	fmt.Println()
	fmt.Println("Usage: fractal-tools-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println("  --ws <addr>      Serve MCP over websocket at ws://<addr>" + server.WebsocketPath + " instead of stdio")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  FRACTAL_MCP_LOG_LEVEL=debug      Enable debug logging")
	fmt.Println("  FRACTAL_MCP_MAX_ITERATIONS=500   Default iteration bound")
	fmt.Println("  FRACTAL_MCP_ESCAPE_RADIUS=2.0    Default escape radius")
	fmt.Println("  FRACTAL_MCP_WORKERS=<cpus>       Render worker goroutines")
	fmt.Println("  FRACTAL_MCP_TILE_SIZE=64         Render tile edge in pixels")
	fmt.Println("  FRACTAL_MCP_CACHE_SIZE=16        Rendered frames kept in memory")
	fmt.Println()
	fmt.Println("By default the server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
