package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/bead-pattern-mcp/internal/config"
	"github.com/ironsheep/bead-pattern-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("bead-pattern-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug {
		log.Printf("Bead Pattern MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("max cells %d, workers %d, timeout %s, hybrid threshold %.1f x%.1f",
			cfg.MaxCells, cfg.Workers, cfg.ConvertTimeout, cfg.Policy.Threshold, cfg.Policy.ScreenFactor)
	}

	server.Version = Version
	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("bead-pattern-mcp - MCP server for bead pattern conversion")
	fmt.Println()
	fmt.Println("Usage: bead-pattern-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Println("  BEAD_MCP_LOG_LEVEL=debug          Enable debug logging")
	fmt.Println("  BEAD_MCP_MAX_CELLS=10000          Largest bead grid a conversion may produce")
	fmt.Println("  BEAD_MCP_WORKERS=<cpus>           Parallel quantization workers")
	fmt.Println("  BEAD_MCP_CHUNK_ROWS=8             Rows per quantization chunk")
	fmt.Println("  BEAD_MCP_CONVERT_TIMEOUT=30s      Give up on conversions after this long")
	fmt.Println("  BEAD_MCP_MAX_FILE_BYTES=10485760  Largest image file accepted")
	fmt.Println("  BEAD_MCP_RESULT_LIMIT=32          Conversions kept for follow-up tools")
	fmt.Println("  BEAD_MCP_HYBRID_THRESHOLD=5       Delta E 76 below which CIEDE2000 is computed")
	fmt.Println("  BEAD_MCP_SCREEN_FACTOR=3          Also refine candidates within this multiple of the best")
	fmt.Println("  BEAD_MCP_SPARE_RATIO=0.1          Extra beads in shopping lists")
	fmt.Println("  BEAD_MCP_ROUND_TO=100             Round shopping amounts to this")
	fmt.Println("  BEAD_MCP_PACK_SIZES=200,500,1000,2000")
	fmt.Println("  BEAD_MCP_UNIT_PRICE=0.05          Price per bead")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Register it as a stdio server in your MCP client.")
}
