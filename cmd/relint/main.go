package main

import (
	"fmt"
	"os"
)

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return runAnalyze(nil)
	}

	switch args[0] {
	case "analyze":
		return runAnalyze(args[1:])
	case "serve":
		return runServe(args[1:])
	case "proxy":
		return runProxy(args[1:])
	case "init-config":
		return runInitConfig(args[1:])
	case "version", "-version", "--version":
		fmt.Println(version)
		return nil
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		// A bare path or flags: treat as analyze.
		return runAnalyze(args)
	}
}

func printUsage() {
	fmt.Print(`relint - static analyzer for TypeScript projects

Usage:
  relint [analyze] [flags] [path]   analyze a project directory (default ".")
  relint serve [flags] [path]       run the MCP query server
  relint proxy [flags]              run as an LSP proxy for an editor
  relint init-config [flags] [dir]  write a default relint.yml
  relint version                    print version

Run 'relint <command> -h' for command flags.
`)
}
