package syntax

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// QueryCapture is one named capture inside a match.
type QueryCapture struct {
	Name string
	Node tree_sitter.Node
	Text string
}

// QueryMatch holds the ordered captures of one pattern match. Matches
// reference nodes of the tree they were executed against and must not
// outlive it.
type QueryMatch struct {
	Captures []QueryCapture
}

// Capture returns the first capture with the given name, or nil.
func (m QueryMatch) Capture(name string) *QueryCapture {
	for i := range m.Captures {
		if m.Captures[i].Name == name {
			return &m.Captures[i]
		}
	}
	return nil
}

// Query is a compiled declarative pattern. Compilation failures indicate a
// programming defect and are surfaced at rule-registration time, never
// during analysis.
type Query struct {
	inner *tree_sitter.Query
}

// CompileQuery compiles a tree-sitter query pattern against the TypeScript
// grammar.
func CompileQuery(pattern string) (*Query, error) {
	q, qerr := tree_sitter.NewQuery(tsLanguage, pattern)
	if qerr != nil {
		return nil, fmt.Errorf("compile query: %v", qerr)
	}
	return &Query{inner: q}, nil
}

// Exec runs the query over a tree and returns all matches. An empty or
// non-matching pattern yields an empty list. Text predicates such as
// (#eq? @cap "literal") are evaluated against the tree's source.
func (q *Query) Exec(t *Tree) []QueryMatch {
	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	names := q.inner.CaptureNames()
	matches := qc.Matches(q.inner, t.Root(), t.source)

	var out []QueryMatch
	for {
		m := matches.Next()
		if m == nil {
			break
		}
		var qm QueryMatch
		for _, c := range m.Captures {
			qm.Captures = append(qm.Captures, QueryCapture{
				Name: names[c.Index],
				Node: c.Node,
				Text: c.Node.Utf8Text(t.source),
			})
		}
		out = append(out, qm)
	}
	return out
}

// Close releases the compiled query.
func (q *Query) Close() {
	if q.inner != nil {
		q.inner.Close()
		q.inner = nil
	}
}

// RunQuery compiles and executes a pattern in one step. Intended for ad-hoc
// use; rules compile their patterns once at registration.
func RunQuery(t *Tree, pattern string) ([]QueryMatch, error) {
	q, err := CompileQuery(pattern)
	if err != nil {
		return nil, err
	}
	defer q.Close()
	return q.Exec(t), nil
}

// Reusable patterns for common TypeScript shapes. Structural rules build on
// these instead of hand-rolled tree walks wherever a fixed shape suffices.
const (
	// QueryClasses captures class declarations and their names.
	QueryClasses = `(class_declaration name: (type_identifier) @class.name) @class.def`

	// QueryMethods captures method definitions and function declarations.
	QueryMethods = `[
		(method_definition name: (property_identifier) @method.name) @method.def
		(function_declaration name: (identifier) @function.name) @function.def
	]`

	// QueryFields captures class field declarations and their names.
	QueryFields = `(public_field_definition name: (property_identifier) @field.name) @field.def`

	// QueryImports captures import statements and their module specifiers.
	QueryImports = `(import_statement source: (string) @import.source) @import.stmt`

	// QueryDynamicTypes captures the untyped marker in annotation position.
	QueryDynamicTypes = `((predefined_type) @type.name
		(#eq? @type.name "any"))`

	// QueryPrintCalls captures calls to the debug-print built-in.
	QueryPrintCalls = `(call_expression
		function: (member_expression) @callee
		arguments: (arguments) @args
		(#eq? @callee "console.log"))`

	// QueryEmptyCatch captures every catch body; emptiness is decided by the
	// rule, which needs to distinguish comment-only bodies.
	QueryEmptyCatch = `(catch_clause body: (statement_block) @catch.body)`

	// QueryNullAssertions captures non-null assertion expressions.
	QueryNullAssertions = `(non_null_expression) @assertion`

	// QueryTypedVariables captures variable declarators with an explicit
	// type annotation.
	QueryTypedVariables = `(variable_declarator
		name: (identifier) @var.name
		type: (type_annotation) @var.type)`

	// QueryTypeParameters captures generic type parameter names.
	QueryTypeParameters = `(type_parameter (type_identifier) @param.name) @param.def`
)
