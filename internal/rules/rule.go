// Package rules implements the diagnostic rules evaluated by the analysis
// engine. Rules come in two variants: pattern rules match compiled textual
// patterns against raw source, structural rules evaluate typed extraction
// and declarative queries against the syntax tree.
package rules

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/relint/internal/diag"
	"github.com/dusk-indust/relint/internal/syntax"
)

// Kind distinguishes the two rule variants. The set is closed: the engine
// uses Kind to decide whether a file needs a syntax tree at all.
type Kind int

const (
	KindPattern Kind = iota
	KindStructural
)

func (k Kind) String() string {
	if k == KindPattern {
		return "pattern"
	}
	return "structural"
}

// Rule is the capability interface implemented by every rule. Evaluate
// returns the diagnostics found in one unit; an error aborts only this
// (rule, file) pair, never the run.
type Rule interface {
	ID() string
	Category() diag.Category
	Kind() Kind
	Evaluate(u *Unit) ([]diag.Diagnostic, error)
}

// Descriptor is the registration-time identity of a rule.
type Descriptor struct {
	ID       string
	Category diag.Category
	Kind     Kind
}

// Unit bundles everything a rule sees for one file: path, raw source,
// resolved configuration, and a lazily built syntax tree. The tree is
// parsed on first use, so a run with only pattern rules never parses.
type Unit struct {
	Path          string
	Source        []byte
	MaxLineLength int

	tree   *syntax.Tree
	parsed bool
	err    error
}

// NewUnit creates an analysis unit for one file.
func NewUnit(path string, source []byte, maxLineLength int) *Unit {
	return &Unit{Path: path, Source: source, MaxLineLength: maxLineLength}
}

// Tree returns the unit's syntax tree, parsing on first call.
func (u *Unit) Tree() (*syntax.Tree, error) {
	if !u.parsed {
		u.tree, u.err = syntax.Parse(u.Source)
		u.parsed = true
	}
	return u.tree, u.err
}

// Close releases the unit's tree if one was built. Diagnostics produced by
// rules carry no node references, so they survive Close.
func (u *Unit) Close() {
	if u.tree != nil {
		u.tree.Close()
		u.tree = nil
	}
}

// nodeLocation converts a node's span to a 1-based diagnostic location.
func nodeLocation(path string, n *tree_sitter.Node) diag.Location {
	start := n.StartPosition()
	end := n.EndPosition()
	return diag.Location{
		File:      path,
		Line:      int(start.Row) + 1,
		Column:    int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndColumn: int(end.Column) + 1,
	}
}
