package diag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// d builds a minimal diagnostic for ordering tests.
func d(file string, line, column int, ruleID string) Diagnostic {
	return Diagnostic{
		RuleID:   ruleID,
		Message:  "m",
		Severity: SeverityWarning,
		Category: CategoryStyle,
		Location: Location{File: file, Line: line, Column: column},
	}
}

// ---------------------------------------------------------------------------
// TestResult_Sort
// ---------------------------------------------------------------------------

func TestResult_SortOrdersByFileLineColumnRule(t *testing.T) {
	shuffled := []Diagnostic{
		d("b.ts", 1, 1, "rule_a"),
		d("a.ts", 2, 1, "rule_a"),
		d("a.ts", 1, 5, "rule_b"),
		d("a.ts", 1, 5, "rule_a"),
		d("a.ts", 1, 1, "rule_a"),
	}

	result := NewResult(shuffled)

	want := []Diagnostic{
		d("a.ts", 1, 1, "rule_a"),
		d("a.ts", 1, 5, "rule_a"),
		d("a.ts", 1, 5, "rule_b"),
		d("a.ts", 2, 1, "rule_a"),
		d("b.ts", 1, 1, "rule_a"),
	}
	assert.Equal(t, want, result.Diagnostics)
}

func TestResult_SortIsDeterministic(t *testing.T) {
	in1 := []Diagnostic{d("a.ts", 3, 1, "x"), d("a.ts", 1, 1, "y"), d("b.ts", 2, 2, "z")}
	in2 := []Diagnostic{d("b.ts", 2, 2, "z"), d("a.ts", 3, 1, "x"), d("a.ts", 1, 1, "y")}

	assert.Equal(t, NewResult(in1).Diagnostics, NewResult(in2).Diagnostics,
		"the same diagnostics in any input order produce identical output")
}

// ---------------------------------------------------------------------------
// TestResult_Filter
// ---------------------------------------------------------------------------

func TestResult_FilterZeroQueryIsIdentity(t *testing.T) {
	result := NewResult([]Diagnostic{d("a.ts", 1, 1, "x"), d("b.ts", 1, 1, "y")})

	filtered := result.Filter(Query{})
	assert.Equal(t, result.Diagnostics, filtered.Diagnostics)
}

func TestResult_FilterBySeverityCategoryFile(t *testing.T) {
	err := d("a.ts", 1, 1, "e")
	err.Severity = SeverityError
	err.Category = CategoryRuntime
	warn := d("src/b.ts", 2, 1, "w")

	result := NewResult([]Diagnostic{err, warn})

	bySeverity := result.Filter(Query{Severity: "error"})
	require.Equal(t, 1, bySeverity.Len())
	assert.Equal(t, "e", bySeverity.Diagnostics[0].RuleID)

	byCategory := result.Filter(Query{Category: "style"})
	require.Equal(t, 1, byCategory.Len())
	assert.Equal(t, "w", byCategory.Diagnostics[0].RuleID)

	byFile := result.Filter(Query{File: "src/"})
	require.Equal(t, 1, byFile.Len())
	assert.Equal(t, "src/b.ts", byFile.Diagnostics[0].Location.File)

	none := result.Filter(Query{Severity: "error", Category: "style"})
	assert.Equal(t, 0, none.Len())
}

func TestResult_FilterPreservesOrder(t *testing.T) {
	result := NewResult([]Diagnostic{
		d("a.ts", 2, 1, "x"),
		d("a.ts", 1, 1, "x"),
		d("b.ts", 1, 1, "x"),
	})

	filtered := result.Filter(Query{Severity: "warning"})
	assert.Equal(t, result.Diagnostics, filtered.Diagnostics)
}

// ---------------------------------------------------------------------------
// TestResult_Stats
// ---------------------------------------------------------------------------

func TestResult_Stats(t *testing.T) {
	e := d("a.ts", 1, 1, "e")
	e.Severity = SeverityError
	e.Category = CategoryRuntime
	w := d("a.ts", 2, 1, "w")
	i := d("b.ts", 1, 1, "i")
	i.Severity = SeverityInfo

	stats := NewResult([]Diagnostic{e, w, i}).Stats()

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 1, stats.Warnings)
	assert.Equal(t, 1, stats.Info)
	assert.Equal(t, 1, stats.RuntimeIssues)
	assert.Equal(t, 2, stats.StyleIssues)
	assert.Equal(t, 2, stats.FilesWithIssues)
}

func TestResult_StatsEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, (&Result{}).Stats())
}

// ---------------------------------------------------------------------------
// TestDiagnostic_JSON
// ---------------------------------------------------------------------------

func TestDiagnostic_JSONUsesStringForms(t *testing.T) {
	diag := Diagnostic{
		RuleID:   "avoid_print",
		Message:  "m",
		Severity: SeverityInfo,
		Category: CategoryRuntime,
		Location: Location{File: "a.ts", Line: 3, Column: 7},
	}

	data, err := json.Marshal(diag)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"info"`)
	assert.Contains(t, string(data), `"category":"runtime"`)

	var back Diagnostic
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, diag, back)
}

func TestSeverity_UnmarshalUnknown(t *testing.T) {
	var s Severity
	assert.Error(t, json.Unmarshal([]byte(`"fatal"`), &s))
}

func TestInternal(t *testing.T) {
	diag := Internal("a.ts", "boom")
	assert.Equal(t, InternalRuleID, diag.RuleID)
	assert.Equal(t, SeverityError, diag.Severity)
	assert.Equal(t, CategoryRuntime, diag.Category)
	assert.Equal(t, Location{File: "a.ts", Line: 1, Column: 1}, diag.Location)
}
