package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewAnalyzerMCPServer creates an MCP server with all 4 analyzer tools
// registered.
func NewAnalyzerMCPServer(svc *AnalyzerService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "relint-analyzer",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze",
		Description: "Run a full analysis of a project directory. Discovers TypeScript sources, evaluates every enabled rule, caches the diagnostics, and returns summary statistics.",
	}, svc.Analyze)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_all_diagnostics",
		Description: "Return every diagnostic from the last analysis, sorted by file, line, column, and rule id.",
	}, svc.GetAllDiagnostics)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_diagnostics",
		Description: "Return diagnostics from the last analysis filtered by category (style/runtime), severity (error/warning/info/hint), or file path substring.",
	}, svc.GetDiagnostics)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_stats",
		Description: "Return summary statistics for the last analysis: totals by severity, by category, and the number of files with issues.",
	}, svc.GetStats)

	return server
}

// RunMCPServer starts an HTTP server exposing the analyzer MCP tools.
func RunMCPServer(ctx context.Context, svc *AnalyzerService, addr string) error {
	server := NewAnalyzerMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
