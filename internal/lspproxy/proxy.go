package lspproxy

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/relint/internal/analysis"
	"github.com/dusk-indust/relint/internal/diag"
)

// LSP DiagnosticSeverity values.
const (
	lspSeverityError   = 1
	lspSeverityWarning = 2
	lspSeverityInfo    = 3
	lspSeverityHint    = 4
)

type lspPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type lspRange struct {
	Start lspPosition `json:"start"`
	End   lspPosition `json:"end"`
}

// LSPDiagnostic is the wire form of a diagnostic: zero-based positions, the
// rule id as the code, and "relint" as the source.
type LSPDiagnostic struct {
	Range    lspRange `json:"range"`
	Severity int      `json:"severity,omitempty"`
	Code     string   `json:"code,omitempty"`
	Source   string   `json:"source,omitempty"`
	Message  string   `json:"message"`
}

type message struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type textDocumentParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
}

type publishDiagnosticsParams struct {
	URI         string            `json:"uri"`
	Diagnostics []json.RawMessage `json:"diagnostics"`
	Version     *int              `json:"version,omitempty"`
}

type publishDiagnosticsNotification struct {
	JSONRPC string                   `json:"jsonrpc"`
	Method  string                   `json:"method"`
	Params  publishDiagnosticsParams `json:"params"`
}

// ToLSPDiagnostic converts an analyzer diagnostic to the LSP wire form,
// shifting the one-based analyzer positions to zero-based.
func ToLSPDiagnostic(d diag.Diagnostic) LSPDiagnostic {
	endLine, endColumn := d.Location.EndLine, d.Location.EndColumn
	if endLine == 0 {
		endLine = d.Location.Line
	}
	if endColumn == 0 {
		endColumn = d.Location.Column
	}
	severity := lspSeverityHint
	switch d.Severity {
	case diag.SeverityError:
		severity = lspSeverityError
	case diag.SeverityWarning:
		severity = lspSeverityWarning
	case diag.SeverityInfo:
		severity = lspSeverityInfo
	}
	msg := d.Message
	if d.Suggestion != "" {
		msg = fmt.Sprintf("%s (%s)", d.Message, d.Suggestion)
	}
	return LSPDiagnostic{
		Range: lspRange{
			Start: lspPosition{Line: d.Location.Line - 1, Character: d.Location.Column - 1},
			End:   lspPosition{Line: endLine - 1, Character: endColumn - 1},
		},
		Severity: severity,
		Code:     d.RuleID,
		Source:   "relint",
		Message:  msg,
	}
}

// Proxy forwards LSP traffic between an editor and a language server. Open
// documents are analyzed on didOpen and didSave; the resulting diagnostics
// are merged into every publishDiagnostics notification for that document.
type Proxy struct {
	engine    *analysis.Engine
	serverCmd []string
	logger    *slog.Logger

	writeMu sync.Mutex // serializes writes to the editor
	out     io.Writer

	mu   sync.Mutex
	ours map[string][]json.RawMessage // analyzer diagnostics by document URI
}

// New creates a proxy that spawns serverCmd as the backing language server.
func New(engine *analysis.Engine, serverCmd []string, logger *slog.Logger) *Proxy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Proxy{
		engine:    engine,
		serverCmd: serverCmd,
		logger:    logger,
		ours:      make(map[string][]json.RawMessage),
	}
}

// Run starts the language server and pumps messages between stdin/stdout and
// the server until either side closes or ctx is cancelled.
func (p *Proxy) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if len(p.serverCmd) == 0 {
		return fmt.Errorf("no language server command configured")
	}
	p.out = stdout

	cmd := exec.CommandContext(ctx, p.serverCmd[0], p.serverCmd[1:]...)
	serverIn, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("server stdin: %w", err)
	}
	serverOut, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("server stdout: %w", err)
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.serverCmd[0], err)
	}
	p.logger.Info("language server started", "command", p.serverCmd[0], "pid", cmd.Process.Pid)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer serverIn.Close()
		return p.pumpEditorToServer(gctx, bufio.NewReader(stdin), serverIn)
	})
	g.Go(func() error {
		return p.pumpServerToEditor(bufio.NewReader(serverOut))
	})

	pumpErr := g.Wait()
	waitErr := cmd.Wait()
	if pumpErr != nil && pumpErr != io.EOF {
		return pumpErr
	}
	if waitErr != nil && ctx.Err() == nil {
		return fmt.Errorf("language server exited: %w", waitErr)
	}
	return nil
}

// pumpEditorToServer forwards editor messages to the server, triggering an
// analysis on document open and save.
func (p *Proxy) pumpEditorToServer(ctx context.Context, from *bufio.Reader, to io.Writer) error {
	for {
		payload, err := ReadMessage(from)
		if err != nil {
			return err
		}

		var msg message
		if jsonErr := json.Unmarshal(payload, &msg); jsonErr == nil {
			switch msg.Method {
			case "textDocument/didOpen", "textDocument/didSave":
				p.analyzeDocument(ctx, msg.Params)
			case "textDocument/didClose":
				p.forgetDocument(msg.Params)
			}
		}

		if err := WriteMessage(to, payload); err != nil {
			return err
		}
	}
}

// pumpServerToEditor forwards server messages to the editor, merging analyzer
// diagnostics into publishDiagnostics notifications.
func (p *Proxy) pumpServerToEditor(from *bufio.Reader) error {
	for {
		payload, err := ReadMessage(from)
		if err != nil {
			return err
		}

		var msg message
		if jsonErr := json.Unmarshal(payload, &msg); jsonErr == nil && msg.Method == "textDocument/publishDiagnostics" {
			if merged, ok := p.mergeIntoPublish(payload); ok {
				payload = merged
			}
		}

		if err := p.writeToEditor(payload); err != nil {
			return err
		}
	}
}

// analyzeDocument runs the analyzer over one document and pushes the result
// to the editor immediately, without waiting for the server to publish.
func (p *Proxy) analyzeDocument(ctx context.Context, params json.RawMessage) {
	var td textDocumentParams
	if err := json.Unmarshal(params, &td); err != nil || td.TextDocument.URI == "" {
		return
	}
	uri := td.TextDocument.URI
	path, err := pathFromURI(uri)
	if err != nil {
		p.logger.Warn("cannot resolve document uri", "uri", uri, "error", err)
		return
	}

	content, readErr := os.ReadFile(path)
	result, err := p.engine.Run(ctx, []analysis.SourceFile{{Path: path, Content: content, ReadErr: readErr}})
	if err != nil {
		p.logger.Warn("analysis failed", "path", path, "error", err)
		return
	}

	raw := make([]json.RawMessage, 0, result.Len())
	for _, d := range result.Diagnostics {
		encoded, encErr := json.Marshal(ToLSPDiagnostic(d))
		if encErr != nil {
			continue
		}
		raw = append(raw, encoded)
	}

	p.mu.Lock()
	p.ours[uri] = raw
	p.mu.Unlock()
	p.logger.Debug("document analyzed", "path", path, "diagnostics", len(raw))

	notification := publishDiagnosticsNotification{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params:  publishDiagnosticsParams{URI: uri, Diagnostics: raw},
	}
	payload, encErr := json.Marshal(notification)
	if encErr != nil {
		return
	}
	if writeErr := p.writeToEditor(payload); writeErr != nil {
		p.logger.Warn("push diagnostics failed", "uri", uri, "error", writeErr)
	}
}

// forgetDocument drops cached diagnostics for a closed document.
func (p *Proxy) forgetDocument(params json.RawMessage) {
	var td textDocumentParams
	if err := json.Unmarshal(params, &td); err != nil || td.TextDocument.URI == "" {
		return
	}
	p.mu.Lock()
	delete(p.ours, td.TextDocument.URI)
	p.mu.Unlock()
}

// mergeIntoPublish appends the analyzer's cached diagnostics for the
// notification's document to the server's list. Returns the rewritten
// payload, or ok=false when the payload should pass through unchanged.
func (p *Proxy) mergeIntoPublish(payload []byte) ([]byte, bool) {
	var notification publishDiagnosticsNotification
	if err := json.Unmarshal(payload, &notification); err != nil {
		return nil, false
	}

	p.mu.Lock()
	ours := p.ours[notification.Params.URI]
	p.mu.Unlock()
	if len(ours) == 0 {
		return nil, false
	}

	notification.Params.Diagnostics = append(notification.Params.Diagnostics, ours...)
	merged, err := json.Marshal(notification)
	if err != nil {
		return nil, false
	}
	return merged, true
}

func (p *Proxy) writeToEditor(payload []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return WriteMessage(p.out, payload)
}

// pathFromURI converts a file:// URI to a filesystem path.
func pathFromURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, "file://") {
		return "", fmt.Errorf("unsupported uri scheme in %q", uri)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	return u.Path, nil
}
