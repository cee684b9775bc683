package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dusk-indust/relint/internal/analysis"
	"github.com/dusk-indust/relint/internal/lspproxy"
	"github.com/dusk-indust/relint/internal/rules"
)

func runProxy(args []string) error {
	fs := flag.NewFlagSet("proxy", flag.ContinueOnError)
	server := fs.String("server", "typescript-language-server --stdio", "language server command to wrap")
	configPath := fs.String("config", "", "path to a config file (default: relint.yml in the working directory)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath, ".")
	if err != nil {
		return err
	}
	registry, err := rules.NewRegistry(cfg)
	if err != nil {
		return fmt.Errorf("building rule registry: %w", err)
	}
	engine := analysis.NewEngine(registry, cfg)

	// Stdout carries LSP traffic, so logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	serverCmd := strings.Fields(*server)
	if len(serverCmd) == 0 {
		return fmt.Errorf("-server must name a language server command")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proxy := lspproxy.New(engine, serverCmd, logger)
	return proxy.Run(ctx, os.Stdin, os.Stdout)
}
