package syntax

import (
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// parseSource parses and registers cleanup for the tree.
func parseSource(t *testing.T, source string) *Tree {
	t.Helper()
	tree, err := Parse([]byte(source))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

// ---------------------------------------------------------------------------
// TestParse
// ---------------------------------------------------------------------------

func TestParse_WellFormedClass(t *testing.T) {
	tree := parseSource(t, "class UserService {\n  getUser(): string { return \"u\"; }\n}\n")

	root := tree.Root()
	assert.Equal(t, "program", root.Kind())
	assert.False(t, tree.HasError())
	require.Greater(t, root.NamedChildCount(), uint(0))
	assert.Equal(t, "class_declaration", root.NamedChild(0).Kind())
}

func TestParse_MalformedInputNeverFails(t *testing.T) {
	tree := parseSource(t, "class {{{ ??? = = =")

	assert.Equal(t, "program", tree.Root().Kind())
	assert.True(t, tree.HasError(), "malformed input should surface as error nodes, not a failure")
}

func TestParse_EmptySource(t *testing.T) {
	tree := parseSource(t, "")

	assert.False(t, tree.HasError())
	assert.Equal(t, uint(0), tree.Root().NamedChildCount())
}

func TestParse_NodePositionsAndText(t *testing.T) {
	tree := parseSource(t, "const x = 1;\nclass Foo {}\n")

	classes := ExtractClasses(tree)
	require.Len(t, classes, 1)
	assert.Equal(t, uint(1), classes[0].Node.StartPosition().Row, "class is on the second line")
	assert.Equal(t, uint(0), classes[0].Node.StartPosition().Column)
	assert.Equal(t, "Foo", tree.Text(classes[0].NameNode))
}

// ---------------------------------------------------------------------------
// TestWalk
// ---------------------------------------------------------------------------

func TestWalk_VisitsAllNodesInDocumentOrder(t *testing.T) {
	tree := parseSource(t, "const x = 1;")

	var kinds []string
	Walk(tree.Root(), func(n *tree_sitter.Node) {
		kinds = append(kinds, n.Kind())
	})

	require.NotEmpty(t, kinds)
	assert.Equal(t, "program", kinds[0], "root is visited first")
	assert.Contains(t, kinds, "lexical_declaration")
	assert.Contains(t, kinds, "identifier")
}
