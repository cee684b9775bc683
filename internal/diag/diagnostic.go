// Package diag defines the diagnostic model shared by every rule and the
// analysis engine: severities, categories, locations, and the ordered,
// queryable result collection produced by a run.
package diag

import (
	"encoding/json"
	"fmt"
)

// Severity ranks how serious a diagnostic is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ParseSeverity maps a string form back to a Severity. The boolean is false
// for unknown names.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	}
	return 0, false
}

// MarshalJSON encodes a Severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a Severity from its string form.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	sev, ok := ParseSeverity(str)
	if !ok {
		return fmt.Errorf("unknown severity %q", str)
	}
	*s = sev
	return nil
}

// Category groups rules into the two rule families.
type Category int

const (
	CategoryStyle Category = iota
	CategoryRuntime
)

func (c Category) String() string {
	switch c {
	case CategoryStyle:
		return "style"
	case CategoryRuntime:
		return "runtime"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory maps a string form back to a Category.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "style":
		return CategoryStyle, true
	case "runtime":
		return CategoryRuntime, true
	}
	return 0, false
}

// MarshalJSON encodes a Category as its string form.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a Category from its string form.
func (c *Category) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	cat, ok := ParseCategory(str)
	if !ok {
		return fmt.Errorf("unknown category %q", str)
	}
	*c = cat
	return nil
}

// Location points at a source range. Lines and columns are 1-based
// throughout the core; the LSP proxy converts to 0-based at the protocol
// boundary. EndLine/EndColumn are zero when the range is a point.
type Location struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"endLine,omitempty"`
	EndColumn int    `json:"endColumn,omitempty"`
}

// Diagnostic is the unit of analysis output emitted by every rule.
type Diagnostic struct {
	RuleID     string   `json:"ruleId"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Category   Category `json:"category"`
	Location   Location `json:"location"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// WithSuggestion returns a copy of the diagnostic carrying a fix suggestion.
func (d Diagnostic) WithSuggestion(s string) Diagnostic {
	d.Suggestion = s
	return d
}

// InternalRuleID marks diagnostics that report an analyzer fault (an
// unreadable file or an isolated rule failure) rather than a finding.
const InternalRuleID = "internal_error"

// Internal builds a file-level internal-error diagnostic.
func Internal(file, message string) Diagnostic {
	return Diagnostic{
		RuleID:   InternalRuleID,
		Message:  message,
		Severity: SeverityError,
		Category: CategoryRuntime,
		Location: Location{File: file, Line: 1, Column: 1},
	}
}
