// Package lspproxy sits between an editor and a TypeScript language server,
// forwarding LSP traffic unchanged while merging analyzer diagnostics into
// the server's publishDiagnostics notifications.
package lspproxy

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadMessage reads one LSP message from r: a block of CRLF-terminated
// headers, a blank line, then a Content-Length sized JSON payload.
func ReadMessage(r *bufio.Reader) ([]byte, error) {
	contentLength := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("malformed header %q", line)
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, convErr := strconv.Atoi(strings.TrimSpace(value))
			if convErr != nil {
				return nil, fmt.Errorf("bad Content-Length %q: %w", value, convErr)
			}
			contentLength = n
		}
	}
	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// WriteMessage writes one LSP message to w with a Content-Length header.
func WriteMessage(w io.Writer, payload []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(payload)); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
