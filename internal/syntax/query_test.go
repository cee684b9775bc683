package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// TestCompileQuery
// ---------------------------------------------------------------------------

func TestCompileQuery_InvalidPattern(t *testing.T) {
	q, err := CompileQuery(`(this_node_kind_does_not_exist) @x`)
	require.Error(t, err)
	assert.Nil(t, q)
	assert.Contains(t, err.Error(), "compile query")
}

func TestCompileQuery_EmptyPatternMatchesNothing(t *testing.T) {
	q, err := CompileQuery(``)
	require.NoError(t, err)
	defer q.Close()

	tree := parseSource(t, `class Foo {}`)
	assert.Empty(t, q.Exec(tree))
}

// ---------------------------------------------------------------------------
// TestQuery_Exec
// ---------------------------------------------------------------------------

func TestQuery_ExecClasses(t *testing.T) {
	tree := parseSource(t, `
class First {}
class Second {}
`)

	matches, err := RunQuery(tree, QueryClasses)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	first := matches[0].Capture("class.name")
	require.NotNil(t, first)
	assert.Equal(t, "First", first.Text)

	second := matches[1].Capture("class.name")
	require.NotNil(t, second)
	assert.Equal(t, "Second", second.Text)

	assert.Nil(t, matches[0].Capture("no.such.capture"))
}

func TestQuery_TextPredicateFiltersMatches(t *testing.T) {
	tree := parseSource(t, `
let untyped: any;
let typed: string;
`)

	matches, err := RunQuery(tree, QueryDynamicTypes)
	require.NoError(t, err)
	require.Len(t, matches, 1, "#eq? keeps only the 'any' annotation")
	assert.Equal(t, "any", matches[0].Capture("type.name").Text)
}

func TestQuery_PrintCalls(t *testing.T) {
	tree := parseSource(t, `
console.log("debug");
console.error("boom");
logger.info("fine");
`)

	matches, err := RunQuery(tree, QueryPrintCalls)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "console.log", matches[0].Capture("callee").Text)
}

func TestQuery_ReusableAcrossTrees(t *testing.T) {
	q, err := CompileQuery(QueryClasses)
	require.NoError(t, err)
	defer q.Close()

	first := parseSource(t, `class A {}`)
	second := parseSource(t, `class B {} class C {}`)

	assert.Len(t, q.Exec(first), 1)
	assert.Len(t, q.Exec(second), 2)
}

func TestQuery_CapturePositions(t *testing.T) {
	tree := parseSource(t, `class Foo {}`)

	matches, err := RunQuery(tree, QueryClasses)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	name := matches[0].Capture("class.name")
	require.NotNil(t, name)
	assert.Equal(t, uint(0), name.Node.StartPosition().Row)
	assert.Equal(t, uint(6), name.Node.StartPosition().Column)
}
