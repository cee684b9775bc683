package diag

import (
	"slices"
	"strings"
)

// Query selects a subset of a Result. Empty fields match everything, so the
// zero Query is the identity filter. Category and Severity use the string
// forms ("style", "error", ...); File is a substring match on the file path.
type Query struct {
	Category string `json:"category,omitempty"`
	Severity string `json:"severity,omitempty"`
	File     string `json:"file,omitempty"`
}

// Result is the ordered diagnostic collection produced by one analysis run.
// The order is `(file, line, column, rule id)` regardless of how evaluation
// was scheduled, so identical inputs always produce identical output.
type Result struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// NewResult builds a Result and establishes the canonical order.
func NewResult(diagnostics []Diagnostic) *Result {
	r := &Result{Diagnostics: diagnostics}
	r.Sort()
	return r
}

// Sort orders diagnostics by (file, line, column, rule id).
func (r *Result) Sort() {
	slices.SortFunc(r.Diagnostics, func(a, b Diagnostic) int {
		if c := strings.Compare(a.Location.File, b.Location.File); c != 0 {
			return c
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line - b.Location.Line
		}
		if a.Location.Column != b.Location.Column {
			return a.Location.Column - b.Location.Column
		}
		return strings.Compare(a.RuleID, b.RuleID)
	})
}

// Filter returns a new Result holding the diagnostics matched by q. The
// input order is preserved, so filtering a sorted Result yields a sorted
// Result without re-sorting.
func (r *Result) Filter(q Query) *Result {
	out := &Result{}
	for _, d := range r.Diagnostics {
		if q.Category != "" && d.Category.String() != q.Category {
			continue
		}
		if q.Severity != "" && d.Severity.String() != q.Severity {
			continue
		}
		if q.File != "" && !strings.Contains(d.Location.File, q.File) {
			continue
		}
		out.Diagnostics = append(out.Diagnostics, d)
	}
	return out
}

// Len returns the number of diagnostics.
func (r *Result) Len() int {
	return len(r.Diagnostics)
}

// Stats is the reduction exposed to the query server.
type Stats struct {
	Total           int `json:"total"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
	StyleIssues     int `json:"style_issues"`
	RuntimeIssues   int `json:"runtime_issues"`
	FilesWithIssues int `json:"files_with_issues"`
}

// Stats computes totals, per-severity and per-category counts, and the
// number of distinct files with at least one diagnostic.
func (r *Result) Stats() Stats {
	s := Stats{Total: len(r.Diagnostics)}
	files := make(map[string]struct{})
	for _, d := range r.Diagnostics {
		switch d.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		case SeverityInfo:
			s.Info++
		}
		switch d.Category {
		case CategoryStyle:
			s.StyleIssues++
		case CategoryRuntime:
			s.RuntimeIssues++
		}
		files[d.Location.File] = struct{}{}
	}
	s.FilesWithIssues = len(files)
	return s
}
