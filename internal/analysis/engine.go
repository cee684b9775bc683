// Package analysis orchestrates rule evaluation across a file set: it fans
// file-level work out over a bounded worker pool, isolates per-rule faults,
// aggregates diagnostics, and publishes a deterministically ordered result.
package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/relint/internal/config"
	"github.com/dusk-indust/relint/internal/diag"
	"github.com/dusk-indust/relint/internal/rules"
)

// SourceFile is one unit of input: an absolute path and the file's content.
// Discovery records read failures in ReadErr instead of dropping the file,
// so the engine can surface them as diagnostics.
type SourceFile struct {
	Path    string
	Content []byte
	ReadErr error
}

// Engine runs a rule registry over file sets. The registry and config are
// shared read-only across workers; each file's buffers and tree belong
// exclusively to the worker processing it.
type Engine struct {
	registry *rules.Registry
	cfg      *config.Config

	mu     sync.RWMutex
	result *diag.Result
}

// NewEngine creates an engine with an immutable rule registry and config.
func NewEngine(registry *rules.Registry, cfg *config.Config) *Engine {
	return &Engine{registry: registry, cfg: cfg}
}

// Run analyzes every file and returns the sorted result. Files are
// processed in parallel on a bounded pool (size 1 when parallel execution
// is disabled); the post-aggregation sort is the only serialization point
// and makes the output independent of worker completion order.
//
// On cancellation Run returns an error and discards all partial work; the
// previously published result, if any, stays visible. Otherwise the new
// result replaces the old one only after it is fully aggregated and sorted.
func (e *Engine) Run(ctx context.Context, files []SourceFile) (*diag.Result, error) {
	perFile := make([][]diag.Diagnostic, len(files))

	g, gctx := errgroup.WithContext(ctx)
	limit := runtime.NumCPU()
	if !e.cfg.Parallel {
		limit = 1
	}
	g.SetLimit(limit)

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perFile[i] = e.analyzeFile(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis run: %w", err)
	}

	var all []diag.Diagnostic
	for _, ds := range perFile {
		all = append(all, ds...)
	}
	result := diag.NewResult(all)

	e.mu.Lock()
	e.result = result
	e.mu.Unlock()
	return result, nil
}

// analyzeFile evaluates every enabled rule against one file. Rule failures
// are isolated: an error or panic in one rule becomes an internal-error
// diagnostic for that (rule, file) pair and evaluation continues.
func (e *Engine) analyzeFile(f SourceFile) []diag.Diagnostic {
	if f.ReadErr != nil {
		return []diag.Diagnostic{diag.Internal(f.Path, fmt.Sprintf("cannot read file: %v", f.ReadErr))}
	}

	unit := rules.NewUnit(f.Path, f.Content, e.cfg.MaxLineLength)
	defer unit.Close()

	var out []diag.Diagnostic
	for _, rule := range e.registry.All() {
		ds, err := evaluate(rule, unit)
		if err != nil {
			out = append(out, diag.Internal(f.Path, fmt.Sprintf("rule %s failed: %v", rule.ID(), err)))
			continue
		}
		out = append(out, ds...)
	}
	return out
}

// evaluate runs one rule, converting panics into errors.
func evaluate(r rules.Rule, u *rules.Unit) (ds []diag.Diagnostic, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return r.Evaluate(u)
}

// Result returns the last complete result, or nil before the first
// successful run.
func (e *Engine) Result() *diag.Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.result
}

// AllDiagnostics returns the current result, or an empty result before the
// first run.
func (e *Engine) AllDiagnostics() *diag.Result {
	if r := e.Result(); r != nil {
		return r
	}
	return &diag.Result{}
}

// Filtered returns the current result narrowed by q.
func (e *Engine) Filtered(q diag.Query) *diag.Result {
	return e.AllDiagnostics().Filter(q)
}

// Stats returns the statistics reduction over the current result.
func (e *Engine) Stats() diag.Stats {
	return e.AllDiagnostics().Stats()
}
