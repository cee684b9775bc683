// Package mcptools exposes the analyzer over the Model Context Protocol so
// agents can run analyses and query cached diagnostics without shelling out
// to the CLI.
package mcptools

import (
	"github.com/dusk-indust/relint/internal/diag"
)

// AnalyzeInput requests a full analysis of a project directory.
type AnalyzeInput struct {
	Path string `json:"path" jsonschema:"the project directory to analyze"`
}

// AnalyzeOutput summarizes the completed analysis.
type AnalyzeOutput struct {
	Stats diag.Stats `json:"stats"`
}

// GetAllDiagnosticsInput requests every cached diagnostic.
type GetAllDiagnosticsInput struct{}

// GetAllDiagnosticsOutput carries the full sorted diagnostic list.
type GetAllDiagnosticsOutput struct {
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Total       int               `json:"total"`
}

// GetDiagnosticsInput narrows the cached diagnostics by category, severity,
// or file path substring. Empty fields match everything.
type GetDiagnosticsInput struct {
	Category string `json:"category,omitempty" jsonschema:"filter by category: style or runtime"`
	Severity string `json:"severity,omitempty" jsonschema:"filter by severity: error, warning, info, or hint"`
	File     string `json:"file,omitempty" jsonschema:"filter by file path substring"`
}

// GetDiagnosticsOutput carries the filtered diagnostic list.
type GetDiagnosticsOutput struct {
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Total       int               `json:"total"`
}

// GetStatsInput requests summary statistics for the cached result.
type GetStatsInput struct{}

// GetStatsOutput carries the statistics reduction.
type GetStatsOutput struct {
	Stats diag.Stats `json:"stats"`
}
