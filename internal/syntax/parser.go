// Package syntax wraps tree-sitter with the TypeScript grammar and exposes
// the concrete-syntax-tree layer of the analyzer: error-tolerant parsing,
// incremental re-parsing, typed extraction, and declarative queries.
package syntax

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// tsLanguage is the shared TypeScript grammar. Language objects are immutable
// and safe to share across parsers.
var tsLanguage = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())

// Language returns the TypeScript grammar used by all parsers and queries.
func Language() *tree_sitter.Language {
	return tsLanguage
}

// Tree owns a parsed concrete syntax tree together with the source it was
// parsed from. Node references and typed views derived from a Tree must not
// be used after Close.
type Tree struct {
	inner  *tree_sitter.Tree
	source []byte
}

// Parse parses TypeScript source into a concrete syntax tree. Malformed
// input never fails: tree-sitter degrades to error-marked nodes, reachable
// via HasError. A fresh parser is created per call, so Parse is safe to
// invoke concurrently with independent buffers.
func Parse(source []byte) (*Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(tsLanguage); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}

	t := parser.Parse(source, nil)
	if t == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree")
	}
	return &Tree{inner: t, source: source}, nil
}

// Root returns the root node of the tree.
func (t *Tree) Root() *tree_sitter.Node {
	return t.inner.RootNode()
}

// Source returns the source buffer the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.source
}

// HasError reports whether any subtree contains a syntax error.
func (t *Tree) HasError() bool {
	return t.Root().HasError()
}

// Text returns the source text covered by a node of this tree.
func (t *Tree) Text(n *tree_sitter.Node) string {
	return n.Utf8Text(t.source)
}

// Close releases the underlying tree-sitter tree. All nodes and typed views
// derived from the tree become invalid.
func (t *Tree) Close() {
	if t.inner != nil {
		t.inner.Close()
		t.inner = nil
	}
}

// Walk visits every node under root in document order. The visit callback
// must not retain the cursor's node beyond the tree's lifetime.
func Walk(root *tree_sitter.Node, visit func(n *tree_sitter.Node)) {
	cursor := root.Walk()
	defer cursor.Close()

	var walk func()
	walk = func() {
		visit(cursor.Node())
		if cursor.GotoFirstChild() {
			walk()
			for cursor.GotoNextSibling() {
				walk()
			}
			cursor.GotoParent()
		}
	}
	walk()
}
