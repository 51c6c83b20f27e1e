// Package main is the entry point for the marketplace HTTP server.
//
// main stays minimal:
//  1. load configuration (optional YAML file, then env overrides)
//  2. build the logger
//  3. build and start the server
//
// All actual logic lives in internal/.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/sakif/marketplace/internal/config"
	"github.com/sakif/marketplace/internal/server"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to a YAML config file (optional)")
	flag.Parse()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate already checked the level parses.
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
