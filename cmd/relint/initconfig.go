package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dusk-indust/relint/internal/config"
)

func runInitConfig(args []string) error {
	fs := flag.NewFlagSet("init-config", flag.ContinueOnError)
	force := fs.Bool("force", false, "overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir := fs.Arg(0)
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, "relint.yml")

	if !*force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}
	fmt.Printf("created %s\n", path)
	return nil
}
