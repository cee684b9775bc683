// Package config loads analyzer settings from relint.yml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/relint/internal/diag"
)

// RuleSetConfig enables or disables one rule family.
type RuleSetConfig struct {
	Enabled       bool     `yaml:"enabled"`
	DisabledRules []string `yaml:"disabled_rules,omitempty"`
}

// Config holds project-level analyzer settings.
type Config struct {
	StyleRules      RuleSetConfig `yaml:"style_rules"`
	RuntimeRules    RuleSetConfig `yaml:"runtime_rules"`
	MaxLineLength   int           `yaml:"max_line_length"`
	Parallel        bool          `yaml:"parallel"`
	ExcludePatterns []string      `yaml:"exclude_patterns,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		StyleRules:    RuleSetConfig{Enabled: true},
		RuntimeRules:  RuleSetConfig{Enabled: true},
		MaxLineLength: 120,
		Parallel:      true,
		ExcludePatterns: []string{
			"node_modules/",
			"dist/",
			"build/",
			".git/",
			"*.d.ts",
		},
	}
}

// Load attempts to read relint.yml or relint.yaml from the given directory.
// Returns defaults (not an error) if no config file exists. Fields absent
// from the file keep their default values.
func Load(dir string) (*Config, error) {
	for _, name := range []string{"relint.yml", "relint.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return parse(data, path)
	}
	return Default(), nil
}

// LoadFile reads a specific config file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parse(data, path)
}

func parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// IsRuleEnabled reports whether a rule is active under this configuration.
func (c *Config) IsRuleEnabled(id string, category diag.Category) bool {
	set := &c.RuntimeRules
	if category == diag.CategoryStyle {
		set = &c.StyleRules
	}
	return set.Enabled && !slices.Contains(set.DisabledRules, id)
}
