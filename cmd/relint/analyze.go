package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/relint/internal/analysis"
	"github.com/dusk-indust/relint/internal/config"
	"github.com/dusk-indust/relint/internal/diag"
	"github.com/dusk-indust/relint/internal/discover"
	"github.com/dusk-indust/relint/internal/rules"
)

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a config file (default: relint.yml in the project root)")
	styleOnly := fs.Bool("style-only", false, "run style rules only")
	runtimeOnly := fs.Bool("runtime-only", false, "run runtime rules only")
	format := fs.String("format", "text", "output format: text or json")
	noColor := fs.Bool("no-color", false, "disable colored output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	root := fs.Arg(0)
	if root == "" {
		root = "."
	}
	if *styleOnly && *runtimeOnly {
		return fmt.Errorf("-style-only and -runtime-only are mutually exclusive")
	}

	cfg, err := loadConfig(*configPath, root)
	if err != nil {
		return err
	}
	if *styleOnly {
		cfg.RuntimeRules.Enabled = false
	}
	if *runtimeOnly {
		cfg.StyleRules.Enabled = false
	}

	registry, err := rules.NewRegistry(cfg)
	if err != nil {
		return fmt.Errorf("building rule registry: %w", err)
	}
	engine := analysis.NewEngine(registry, cfg)

	files, err := discover.Find(root, cfg)
	if err != nil {
		return fmt.Errorf("discovering sources: %w", err)
	}

	result, err := engine.Run(context.Background(), files)
	if err != nil {
		return err
	}

	switch *format {
	case "text":
		printResult(os.Stdout, result, root, len(files), *noColor)
	case "json":
		if err := printJSON(os.Stdout, result); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want text or json)", *format)
	}

	if stats := result.Stats(); stats.Errors > 0 {
		return fmt.Errorf("analysis found %d error(s)", stats.Errors)
	}
	return nil
}

func loadConfig(configPath, root string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load(root)
}

// jsonReport is the machine-readable analysis output.
type jsonReport struct {
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Stats       diag.Stats        `json:"stats"`
}

func printJSON(w *os.File, result *diag.Result) error {
	report := jsonReport{Diagnostics: result.Diagnostics, Stats: result.Stats()}
	if report.Diagnostics == nil {
		report.Diagnostics = []diag.Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
