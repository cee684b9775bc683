package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newSession creates a session and registers cleanup.
func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession()
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

// methodNames projects ExtractMethods down to names.
func methodNames(t *Tree) []string {
	var names []string
	for _, m := range ExtractMethods(t) {
		names = append(names, m.Name)
	}
	return names
}

// classNames projects ExtractClasses down to names.
func classNames(t *Tree) []string {
	var names []string
	for _, c := range ExtractClasses(t) {
		names = append(names, c.Name)
	}
	return names
}

// ---------------------------------------------------------------------------
// TestSession_Reparse
// ---------------------------------------------------------------------------

func TestSession_ReparseInsert(t *testing.T) {
	s := newSession(t)

	_, err := s.Parse([]byte("class Foo {}"))
	require.NoError(t, err)

	// Insert a method body inside the braces.
	newSrc := []byte("class Foo {m(): void {}}")
	tree, err := s.Reparse(InsertEdit(11, 12, 0, 11), newSrc)
	require.NoError(t, err)

	assert.False(t, tree.HasError())
	assert.Equal(t, []string{"Foo"}, classNames(tree))
	assert.Equal(t, []string{"m"}, methodNames(tree))

	full, err := Parse(newSrc)
	require.NoError(t, err)
	defer full.Close()
	assert.Equal(t, methodNames(full), methodNames(tree))
	assert.Equal(t, classNames(full), classNames(tree))
}

func TestSession_ReparseDelete(t *testing.T) {
	s := newSession(t)

	_, err := s.Parse([]byte("class Foo {m(): void {}}"))
	require.NoError(t, err)

	newSrc := []byte("class Foo {}")
	tree, err := s.Reparse(DeleteEdit(11, 23, 0, 11, 0, 23), newSrc)
	require.NoError(t, err)

	assert.False(t, tree.HasError())
	assert.Equal(t, []string{"Foo"}, classNames(tree))
	assert.Empty(t, methodNames(tree))
}

func TestSession_ReparseReplace(t *testing.T) {
	s := newSession(t)

	_, err := s.Parse([]byte("class Foo {}"))
	require.NoError(t, err)

	// Rename Foo -> Bar: same length replacement.
	newSrc := []byte("class Bar {}")
	tree, err := s.Reparse(ReplaceEdit(6, 9, 3, 0, 6, 0, 9, 9), newSrc)
	require.NoError(t, err)

	assert.False(t, tree.HasError())
	assert.Equal(t, []string{"Bar"}, classNames(tree))
}

func TestSession_ReparseBatch(t *testing.T) {
	s := newSession(t)

	_, err := s.Parse([]byte("class Foo {}"))
	require.NoError(t, err)

	// Two edits applied in order: rename the class, then add a method. The
	// second edit's offsets are against the source after the first.
	newSrc := []byte("class Bar {m(): void {}}")
	edits := []Edit{
		ReplaceEdit(6, 9, 3, 0, 6, 0, 9, 9),
		InsertEdit(11, 12, 0, 11),
	}
	tree, err := s.ReparseBatch(edits, newSrc)
	require.NoError(t, err)

	assert.False(t, tree.HasError())
	assert.Equal(t, []string{"Bar"}, classNames(tree))
	assert.Equal(t, []string{"m"}, methodNames(tree))

	full, err := Parse(newSrc)
	require.NoError(t, err)
	defer full.Close()
	assert.Equal(t, full.Root().NamedChildCount(), tree.Root().NamedChildCount())
}

func TestSession_ReparseWithoutTreeFallsBackToFullParse(t *testing.T) {
	s := newSession(t)

	src := []byte("const x = 1;")
	tree, err := s.Reparse(InsertEdit(0, 0, 0, 0), src)
	require.NoError(t, err)

	assert.False(t, tree.HasError())
	assert.Same(t, tree, s.Tree())
	assert.Equal(t, src, s.Source())
}

func TestSession_ParseReplacesCurrentTree(t *testing.T) {
	s := newSession(t)

	first, err := s.Parse([]byte("class A {}"))
	require.NoError(t, err)
	assert.Same(t, first, s.Tree())

	second, err := s.Parse([]byte("class B {}"))
	require.NoError(t, err)
	assert.Same(t, second, s.Tree())
	assert.Equal(t, []string{"B"}, classNames(second))
}
