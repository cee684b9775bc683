package rules

import (
	"fmt"

	"github.com/dusk-indust/relint/internal/config"
)

// Registry is the immutable set of rules for a run, constructed once at
// engine initialization and shared read-only across workers. Construction
// fails fast on configuration defects: duplicate rule ids and invalid query
// patterns are startup-fatal.
type Registry struct {
	rules []Rule
}

// NewRegistry builds a registry from the built-in rule set, honoring the
// per-category and per-rule enables in cfg.
func NewRegistry(cfg *config.Config) (*Registry, error) {
	all, err := builtinRules()
	if err != nil {
		return nil, err
	}
	return NewRegistryFromRules(all, cfg)
}

// NewRegistryFromRules builds a registry from an explicit rule set. Exposed
// so embedders (and tests) can supply custom rules; ids must be unique
// across the whole set.
func NewRegistryFromRules(all []Rule, cfg *config.Config) (*Registry, error) {
	seen := make(map[string]struct{}, len(all))
	var enabled []Rule
	for _, r := range all {
		if _, dup := seen[r.ID()]; dup {
			return nil, fmt.Errorf("duplicate rule id %q", r.ID())
		}
		seen[r.ID()] = struct{}{}
		if cfg.IsRuleEnabled(r.ID(), r.Category()) {
			enabled = append(enabled, r)
		}
	}
	return &Registry{rules: enabled}, nil
}

// builtinRules constructs the nine concrete rules. Structural rules compile
// their query patterns here.
func builtinRules() ([]Rule, error) {
	ctors := []func() (Rule, error){
		// Style rules.
		newCamelCaseClassNames,
		newSnakeCaseFileNames,
		newPrivateFieldUnderscore,
		newLineLength,
		// Runtime rules.
		newAvoidDynamic,
		newAvoidEmptyCatch,
		newAvoidUnusedImport,
		newAvoidPrint,
		newAvoidNullCheckOnNullable,
	}
	rules := make([]Rule, 0, len(ctors))
	for _, ctor := range ctors {
		r, err := ctor()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// All returns the enabled rules in registration order.
func (r *Registry) All() []Rule {
	return r.rules
}

// NeedsTree reports whether any enabled rule is structural, letting the
// engine skip parsing entirely for pattern-only configurations.
func (r *Registry) NeedsTree() bool {
	for _, rule := range r.rules {
		if rule.Kind() == KindStructural {
			return true
		}
	}
	return false
}

// Descriptors returns the identity of every enabled rule.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, Descriptor{ID: rule.ID(), Category: rule.Category(), Kind: rule.Kind()})
	}
	return out
}
