package syntax

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Point is a 0-based row/column position in a source buffer.
type Point struct {
	Row    uint
	Column uint
}

// Edit describes one text mutation for incremental re-parsing. Byte offsets
// and points follow tree-sitter's convention: StartByte/OldEndByte span the
// replaced range in the old source, NewEndByte is where the replacement ends
// in the new source.
type Edit struct {
	StartByte   uint
	OldEndByte  uint
	NewEndByte  uint
	StartPoint  Point
	OldEndPoint Point
	NewEndPoint Point
}

func (e Edit) inputEdit() tree_sitter.InputEdit {
	return tree_sitter.InputEdit{
		StartByte:      e.StartByte,
		OldEndByte:     e.OldEndByte,
		NewEndByte:     e.NewEndByte,
		StartPosition:  tree_sitter.Point{Row: e.StartPoint.Row, Column: e.StartPoint.Column},
		OldEndPosition: tree_sitter.Point{Row: e.OldEndPoint.Row, Column: e.OldEndPoint.Column},
		NewEndPosition: tree_sitter.Point{Row: e.NewEndPoint.Row, Column: e.NewEndPoint.Column},
	}
}

// InsertEdit builds an Edit that inserts textLen bytes at a position on a
// single line. Multi-line insertions must construct the Edit directly with
// the correct end point.
func InsertEdit(at, textLen, row, col uint) Edit {
	return Edit{
		StartByte:   at,
		OldEndByte:  at,
		NewEndByte:  at + textLen,
		StartPoint:  Point{Row: row, Column: col},
		OldEndPoint: Point{Row: row, Column: col},
		NewEndPoint: Point{Row: row, Column: col + textLen},
	}
}

// DeleteEdit builds an Edit that removes the bytes in [start, end).
func DeleteEdit(start, end, startRow, startCol, endRow, endCol uint) Edit {
	return Edit{
		StartByte:   start,
		OldEndByte:  end,
		NewEndByte:  start,
		StartPoint:  Point{Row: startRow, Column: startCol},
		OldEndPoint: Point{Row: endRow, Column: endCol},
		NewEndPoint: Point{Row: startRow, Column: startCol},
	}
}

// ReplaceEdit builds a single-line Edit that replaces [start, oldEnd) with
// newTextLen bytes.
func ReplaceEdit(start, oldEnd, newTextLen, startRow, startCol, oldEndRow, oldEndCol, newEndCol uint) Edit {
	return Edit{
		StartByte:   start,
		OldEndByte:  oldEnd,
		NewEndByte:  start + newTextLen,
		StartPoint:  Point{Row: startRow, Column: startCol},
		OldEndPoint: Point{Row: oldEndRow, Column: oldEndCol},
		NewEndPoint: Point{Row: startRow, Column: newEndCol},
	}
}

// Session is an incremental re-parser holding one (tree, source) pair at a
// time. A session is strictly sequential: concurrent use is undefined.
// Callers needing parallelism use one session per file.
type Session struct {
	parser *tree_sitter.Parser
	tree   *Tree
}

// NewSession creates an incremental parsing session.
func NewSession() (*Session, error) {
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(tsLanguage); err != nil {
		parser.Close()
		return nil, fmt.Errorf("set language: %w", err)
	}
	return &Session{parser: parser}, nil
}

// Parse performs a full parse and makes the result the session's current
// tree. Any previous tree is closed; views derived from it become invalid.
func (s *Session) Parse(source []byte) (*Tree, error) {
	t := s.parser.Parse(source, nil)
	if t == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree")
	}
	if s.tree != nil {
		s.tree.Close()
	}
	s.tree = &Tree{inner: t, source: source}
	return s.tree, nil
}

// Reparse applies a single edit and re-parses incrementally. The returned
// tree is structurally equivalent to a full parse of newSource; unaffected
// subtrees are reused from the previous parse.
func (s *Session) Reparse(edit Edit, newSource []byte) (*Tree, error) {
	return s.ReparseBatch([]Edit{edit}, newSource)
}

// ReparseBatch applies an ordered batch of edits before re-parsing. Each
// edit's offsets are interpreted against the source state after the prior
// edits in the batch. With no current tree it falls back to a full parse.
func (s *Session) ReparseBatch(edits []Edit, newSource []byte) (*Tree, error) {
	if s.tree == nil {
		return s.Parse(newSource)
	}

	for _, e := range edits {
		ie := e.inputEdit()
		s.tree.inner.Edit(&ie)
	}

	t := s.parser.Parse(newSource, s.tree.inner)
	if t == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree")
	}
	s.tree.Close()
	s.tree = &Tree{inner: t, source: newSource}
	return s.tree, nil
}

// Tree returns the session's current tree, or nil before the first Parse.
func (s *Session) Tree() *Tree {
	return s.tree
}

// Source returns the source of the current tree, or nil before the first
// Parse.
func (s *Session) Source() []byte {
	if s.tree == nil {
		return nil
	}
	return s.tree.source
}

// Close releases the session's parser and current tree.
func (s *Session) Close() {
	if s.tree != nil {
		s.tree.Close()
		s.tree = nil
	}
	if s.parser != nil {
		s.parser.Close()
		s.parser = nil
	}
}
