package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/dusk-indust/relint/internal/diag"
)

var (
	errorMark   = color.New(color.FgRed, color.Bold).SprintFunc()
	warningMark = color.New(color.FgYellow).SprintFunc()
	infoMark    = color.New(color.FgCyan).SprintFunc()
	fileStyle   = color.New(color.Bold, color.Underline).SprintFunc()
	dimStyle    = color.New(color.Faint).SprintFunc()
)

// printResult renders diagnostics grouped by file. The result is already
// sorted, so files and positions come out in deterministic order.
func printResult(w io.Writer, result *diag.Result, root string, fileCount int, noColor bool) {
	if noColor {
		color.NoColor = true
	}

	currentFile := ""
	for _, d := range result.Diagnostics {
		if d.Location.File != currentFile {
			if currentFile != "" {
				fmt.Fprintln(w)
			}
			currentFile = d.Location.File
			fmt.Fprintln(w, fileStyle(displayPath(root, currentFile)))
		}

		fmt.Fprintf(w, "  %s %s  %s  %s\n",
			severityMark(d.Severity),
			dimStyle(fmt.Sprintf("%d:%d", d.Location.Line, d.Location.Column)),
			d.RuleID,
			d.Message)
		if d.Suggestion != "" {
			fmt.Fprintf(w, "      %s\n", dimStyle("suggestion: "+d.Suggestion))
		}
	}

	stats := result.Stats()
	if stats.Total == 0 {
		fmt.Fprintf(w, "No issues found in %d file(s).\n", fileCount)
		return
	}
	fmt.Fprintf(w, "\n%d issue(s) in %d file(s): %s, %s, %s\n",
		stats.Total,
		stats.FilesWithIssues,
		errorMark(fmt.Sprintf("%d error(s)", stats.Errors)),
		warningMark(fmt.Sprintf("%d warning(s)", stats.Warnings)),
		infoMark(fmt.Sprintf("%d info", stats.Info)))
}

func severityMark(s diag.Severity) string {
	switch s {
	case diag.SeverityError:
		return errorMark("✗")
	case diag.SeverityWarning:
		return warningMark("⚠")
	case diag.SeverityInfo:
		return infoMark("ℹ")
	default:
		return dimStyle("·")
	}
}

// displayPath shortens absolute paths to be relative to the analyzed root
// when possible.
func displayPath(root, path string) string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(absRoot, path)
	if err != nil || len(rel) >= len(path) {
		return path
	}
	return rel
}
