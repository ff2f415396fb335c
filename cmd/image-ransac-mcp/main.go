package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ironsheep/image-ransac-mcp/internal/config"
	"github.com/ironsheep/image-ransac-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "image-ransac-mcp - MCP server for robust line and circle fitting")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: image-ransac-mcp [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Environment variables:")
	fmt.Fprintln(out, "  IMAGE_MCP_LOG_LEVEL=debug    Override the configured log level")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "This server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(out, "Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	configPath := flag.String("config", "image-ransac-mcp.yaml", "Path to the YAML config file; defaults apply when it does not exist")
	writeConfig := flag.String("write-config", "", "Write the default config to this path and exit")
	version := flag.Bool("version", false, "Print version information")
	flag.BoolVar(version, "v", false, "Print version information (shorthand)")
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("image-ransac-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default config to %s\n", *writeConfig)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if env := os.Getenv("IMAGE_MCP_LOG_LEVEL"); env != "" {
		cfg.Log.Level = env
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Log to stderr; stdout is for MCP protocol
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logger.Debug("starting image-ransac-mcp",
		"version", Version, "built", BuildTime, "commit", GitCommit, "config", *configPath)

	server.Version = Version
	srv := server.New(cfg, logger)
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
