package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/relint/internal/analysis"
	"github.com/dusk-indust/relint/internal/discover"
	"github.com/dusk-indust/relint/internal/mcptools"
	"github.com/dusk-indust/relint/internal/rules"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", ":9000", "listen address for the MCP server")
	configPath := fs.String("config", "", "path to a config file (default: relint.yml in the project root)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	root := fs.Arg(0)
	if root == "" {
		root = "."
	}

	cfg, err := loadConfig(*configPath, root)
	if err != nil {
		return err
	}
	registry, err := rules.NewRegistry(cfg)
	if err != nil {
		return fmt.Errorf("building rule registry: %w", err)
	}
	engine := analysis.NewEngine(registry, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the cache so query tools have answers before the first analyze
	// call.
	files, err := discover.Find(root, cfg)
	if err != nil {
		return fmt.Errorf("discovering sources: %w", err)
	}
	result, err := engine.Run(ctx, files)
	if err != nil {
		return err
	}
	stats := result.Stats()
	slog.Info("initial analysis complete",
		"root", root,
		"files", len(files),
		"issues", stats.Total,
		"errors", stats.Errors)

	svc := mcptools.NewAnalyzerService(engine, cfg)
	slog.Info("mcp server listening", "addr", *addr)
	return mcptools.RunMCPServer(ctx, svc, *addr)
}
