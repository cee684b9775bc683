package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dusk-indust/relint/internal/diag"
)

// Pattern rules operate on the raw source and file identity only. They are
// used where a structural signal adds nothing: file naming, line length,
// and the conservative private-field heuristic.

// snakeCaseFileNames flags file base names that are not snake_case.
type snakeCaseFileNames struct {
	stem *regexp.Regexp
}

func newSnakeCaseFileNames() (Rule, error) {
	stem, err := regexp.Compile(`^[a-z][a-z0-9_]*$`)
	if err != nil {
		return nil, fmt.Errorf("snake_case_file_names: %w", err)
	}
	return &snakeCaseFileNames{stem: stem}, nil
}

func (r *snakeCaseFileNames) ID() string              { return "snake_case_file_names" }
func (r *snakeCaseFileNames) Category() diag.Category { return diag.CategoryStyle }
func (r *snakeCaseFileNames) Kind() Kind              { return KindPattern }

func (r *snakeCaseFileNames) Evaluate(u *Unit) ([]diag.Diagnostic, error) {
	base := filepath.Base(u.Path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" || r.stem.MatchString(stem) {
		return nil, nil
	}
	d := diag.Diagnostic{
		RuleID:   r.ID(),
		Message:  fmt.Sprintf("File name '%s' should use snake_case", stem),
		Severity: diag.SeverityWarning,
		Category: diag.CategoryStyle,
		Location: diag.Location{File: u.Path, Line: 1, Column: 1},
	}
	return []diag.Diagnostic{d.WithSuggestion(fmt.Sprintf("Rename file to '%s%s'", toSnakeCase(stem), ext))}, nil
}

// lineLength flags lines whose character count exceeds the configured
// maximum.
type lineLength struct{}

func newLineLength() (Rule, error) { return &lineLength{}, nil }

func (r *lineLength) ID() string              { return "line_length" }
func (r *lineLength) Category() diag.Category { return diag.CategoryStyle }
func (r *lineLength) Kind() Kind              { return KindPattern }

func (r *lineLength) Evaluate(u *Unit) ([]diag.Diagnostic, error) {
	max := u.MaxLineLength
	if max <= 0 {
		max = 120
	}
	var out []diag.Diagnostic
	for i, line := range strings.Split(string(u.Source), "\n") {
		length := utf8.RuneCountInString(strings.TrimSuffix(line, "\r"))
		if length <= max {
			continue
		}
		d := diag.Diagnostic{
			RuleID:   r.ID(),
			Message:  fmt.Sprintf("Line exceeds maximum length of %d characters (actual: %d)", max, length),
			Severity: diag.SeverityInfo,
			Category: diag.CategoryStyle,
			Location: diag.Location{File: u.Path, Line: i + 1, Column: max + 1, EndLine: i + 1, EndColumn: length},
		}
		out = append(out, d.WithSuggestion("Consider breaking this line into multiple lines"))
	}
	return out, nil
}

// privateFieldUnderscore flags private-modified class fields whose names do
// not start with an underscore. This is a conservative lexical heuristic:
// it only matches single-line `private [static] [readonly] name` field
// declarations and never fires inside strings it cannot see past. Full
// field-intent detection stays with the structural extraction layer.
type privateFieldUnderscore struct {
	field *regexp.Regexp
}

func newPrivateFieldUnderscore() (Rule, error) {
	field, err := regexp.Compile(`^\s*private\s+(?:static\s+)?(?:readonly\s+)?([A-Za-z][A-Za-z0-9_]*)\s*[?!:;=]`)
	if err != nil {
		return nil, fmt.Errorf("private_field_underscore: %w", err)
	}
	return &privateFieldUnderscore{field: field}, nil
}

func (r *privateFieldUnderscore) ID() string              { return "private_field_underscore" }
func (r *privateFieldUnderscore) Category() diag.Category { return diag.CategoryStyle }
func (r *privateFieldUnderscore) Kind() Kind              { return KindPattern }

func (r *privateFieldUnderscore) Evaluate(u *Unit) ([]diag.Diagnostic, error) {
	var out []diag.Diagnostic
	for i, line := range strings.Split(string(u.Source), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") {
			continue
		}
		m := r.field.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		name := line[m[2]:m[3]]
		d := diag.Diagnostic{
			RuleID:   r.ID(),
			Message:  fmt.Sprintf("Private field '%s' should start with an underscore", name),
			Severity: diag.SeverityWarning,
			Category: diag.CategoryStyle,
			Location: diag.Location{File: u.Path, Line: i + 1, Column: m[2] + 1, EndLine: i + 1, EndColumn: m[3] + 1},
		}
		out = append(out, d.WithSuggestion(fmt.Sprintf("Rename to '_%s'", name)))
	}
	return out, nil
}

// toCamelCase converts snake_case or lowerCamel to UpperCamelCase.
func toCamelCase(s string) string {
	var b strings.Builder
	capitalize := true
	for _, c := range s {
		switch {
		case c == '_':
			capitalize = true
		case capitalize:
			b.WriteRune(unicode.ToUpper(c))
			capitalize = false
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// toSnakeCase converts CamelCase to snake_case.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, c := range s {
		if unicode.IsUpper(c) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(c))
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}
