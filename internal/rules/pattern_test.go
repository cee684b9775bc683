package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/relint/internal/diag"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// evalRule constructs a rule and evaluates it against one source unit.
func evalRule(t *testing.T, ctor func() (Rule, error), path, source string, maxLineLength int) []diag.Diagnostic {
	t.Helper()
	r, err := ctor()
	require.NoError(t, err)

	u := NewUnit(path, []byte(source), maxLineLength)
	defer u.Close()

	ds, err := r.Evaluate(u)
	require.NoError(t, err)
	return ds
}

// ---------------------------------------------------------------------------
// TestSnakeCaseFileNames
// ---------------------------------------------------------------------------

func TestSnakeCaseFileNames_FlagsCamelCase(t *testing.T) {
	ds := evalRule(t, newSnakeCaseFileNames, "src/userService.ts", "", 120)
	require.Len(t, ds, 1)

	assert.Equal(t, "snake_case_file_names", ds[0].RuleID)
	assert.Equal(t, diag.SeverityWarning, ds[0].Severity)
	assert.Equal(t, diag.CategoryStyle, ds[0].Category)
	assert.Equal(t, "Rename file to 'user_service.ts'", ds[0].Suggestion)
	assert.Equal(t, 1, ds[0].Location.Line)
}

func TestSnakeCaseFileNames_AcceptsSnakeCase(t *testing.T) {
	assert.Empty(t, evalRule(t, newSnakeCaseFileNames, "src/user_service.ts", "", 120))
	assert.Empty(t, evalRule(t, newSnakeCaseFileNames, "src/index.ts", "", 120))
}

// ---------------------------------------------------------------------------
// TestLineLength
// ---------------------------------------------------------------------------

func TestLineLength_FlagsLineOverLimit(t *testing.T) {
	source := "const ok = 1;\n// " + strings.Repeat("x", 127) + "\n"

	ds := evalRule(t, newLineLength, "a.ts", source, 120)
	require.Len(t, ds, 1, "a 130-character line exceeds a 120 limit")

	assert.Equal(t, "line_length", ds[0].RuleID)
	assert.Equal(t, diag.SeverityInfo, ds[0].Severity)
	assert.Equal(t, 2, ds[0].Location.Line)
	assert.Equal(t, 121, ds[0].Location.Column, "the range starts just past the limit")
}

func TestLineLength_RespectsConfiguredLimit(t *testing.T) {
	source := "// " + strings.Repeat("x", 127) + "\n"
	assert.Empty(t, evalRule(t, newLineLength, "a.ts", source, 150),
		"the same 130-character line is fine under a 150 limit")
}

func TestLineLength_CountsRunesNotBytes(t *testing.T) {
	// 100 two-byte runes: 200 bytes but only 100 characters.
	source := strings.Repeat("é", 100) + "\n"
	assert.Empty(t, evalRule(t, newLineLength, "a.ts", source, 120))
}

// ---------------------------------------------------------------------------
// TestPrivateFieldUnderscore
// ---------------------------------------------------------------------------

func TestPrivateFieldUnderscore_FlagsMissingUnderscore(t *testing.T) {
	source := "class C {\n  private count: number = 0;\n  private static readonly limit: number = 10;\n}\n"

	ds := evalRule(t, newPrivateFieldUnderscore, "a.ts", source, 120)
	require.Len(t, ds, 2)

	assert.Equal(t, "Rename to '_count'", ds[0].Suggestion)
	assert.Equal(t, 2, ds[0].Location.Line)
	assert.Equal(t, "Rename to '_limit'", ds[1].Suggestion)
}

func TestPrivateFieldUnderscore_AcceptsUnderscorePrefix(t *testing.T) {
	source := "class C {\n  private _count: number = 0;\n}\n"
	assert.Empty(t, evalRule(t, newPrivateFieldUnderscore, "a.ts", source, 120))
}

func TestPrivateFieldUnderscore_SkipsComments(t *testing.T) {
	source := "class C {\n  // private count: number = 0;\n  * private doc: string;\n}\n"
	assert.Empty(t, evalRule(t, newPrivateFieldUnderscore, "a.ts", source, 120))
}

// ---------------------------------------------------------------------------
// TestCaseConversions
// ---------------------------------------------------------------------------

func TestToCamelCase(t *testing.T) {
	assert.Equal(t, "MyClass", toCamelCase("myClass"))
	assert.Equal(t, "UserService", toCamelCase("user_service"))
	assert.Equal(t, "A", toCamelCase("a"))
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "user_service", toSnakeCase("UserService"))
	assert.Equal(t, "user_service", toSnakeCase("userService"))
	assert.Equal(t, "plain", toSnakeCase("plain"))
}
