package mcptools

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/relint/internal/analysis"
	"github.com/dusk-indust/relint/internal/config"
	"github.com/dusk-indust/relint/internal/diag"
	"github.com/dusk-indust/relint/internal/discover"
)

// AnalyzerService backs the MCP tools. The engine caches the last analysis
// result, so the query tools answer from memory without re-running rules.
type AnalyzerService struct {
	engine *analysis.Engine
	cfg    *config.Config
}

// NewAnalyzerService creates the service around a shared engine.
func NewAnalyzerService(engine *analysis.Engine, cfg *config.Config) *AnalyzerService {
	return &AnalyzerService{engine: engine, cfg: cfg}
}

// Analyze runs a full analysis of the given directory and refreshes the
// cached result.
func (s *AnalyzerService) Analyze(ctx context.Context, _ *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
	if input.Path == "" {
		return nil, AnalyzeOutput{}, fmt.Errorf("path is required")
	}
	info, err := os.Stat(input.Path)
	if err != nil {
		return nil, AnalyzeOutput{}, fmt.Errorf("stat %s: %w", input.Path, err)
	}
	if !info.IsDir() {
		return nil, AnalyzeOutput{}, fmt.Errorf("%s is not a directory", input.Path)
	}

	files, err := discover.Find(input.Path, s.cfg)
	if err != nil {
		return nil, AnalyzeOutput{}, fmt.Errorf("discover sources: %w", err)
	}
	result, err := s.engine.Run(ctx, files)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}
	return nil, AnalyzeOutput{Stats: result.Stats()}, nil
}

// GetAllDiagnostics returns every cached diagnostic in sorted order.
func (s *AnalyzerService) GetAllDiagnostics(_ context.Context, _ *mcp.CallToolRequest, _ GetAllDiagnosticsInput) (*mcp.CallToolResult, GetAllDiagnosticsOutput, error) {
	result := s.engine.AllDiagnostics()
	return nil, GetAllDiagnosticsOutput{Diagnostics: result.Diagnostics, Total: result.Len()}, nil
}

// GetDiagnostics returns cached diagnostics narrowed by the input filters.
func (s *AnalyzerService) GetDiagnostics(_ context.Context, _ *mcp.CallToolRequest, input GetDiagnosticsInput) (*mcp.CallToolResult, GetDiagnosticsOutput, error) {
	if input.Severity != "" {
		if _, ok := diag.ParseSeverity(input.Severity); !ok {
			return nil, GetDiagnosticsOutput{}, fmt.Errorf("unknown severity %q", input.Severity)
		}
	}
	if input.Category != "" {
		if _, ok := diag.ParseCategory(input.Category); !ok {
			return nil, GetDiagnosticsOutput{}, fmt.Errorf("unknown category %q", input.Category)
		}
	}
	result := s.engine.Filtered(toQuery(input))
	return nil, GetDiagnosticsOutput{Diagnostics: result.Diagnostics, Total: result.Len()}, nil
}

// GetStats returns summary statistics for the cached result.
func (s *AnalyzerService) GetStats(_ context.Context, _ *mcp.CallToolRequest, _ GetStatsInput) (*mcp.CallToolResult, GetStatsOutput, error) {
	return nil, GetStatsOutput{Stats: s.engine.Stats()}, nil
}

func toQuery(input GetDiagnosticsInput) diag.Query {
	return diag.Query{Category: input.Category, Severity: input.Severity, File: input.File}
}
