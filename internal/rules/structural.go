package rules

import (
	"fmt"
	"regexp"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/relint/internal/diag"
	"github.com/dusk-indust/relint/internal/syntax"
)

// Structural rules evaluate typed extraction or declarative queries against
// the syntax tree. They are preferred whenever correctness depends on
// syntactic context. Queries are compiled once at registration; an invalid
// pattern is a startup failure, never an analysis-time one.

// camelCaseClassNames flags class identifiers that do not start with an
// uppercase ASCII letter.
type camelCaseClassNames struct{}

func newCamelCaseClassNames() (Rule, error) { return &camelCaseClassNames{}, nil }

func (r *camelCaseClassNames) ID() string              { return "camel_case_class_names" }
func (r *camelCaseClassNames) Category() diag.Category { return diag.CategoryStyle }
func (r *camelCaseClassNames) Kind() Kind              { return KindStructural }

func (r *camelCaseClassNames) Evaluate(u *Unit) ([]diag.Diagnostic, error) {
	tree, err := u.Tree()
	if err != nil {
		return nil, err
	}
	var out []diag.Diagnostic
	for _, class := range syntax.ExtractClasses(tree) {
		if class.Name == "" || (class.Name[0] >= 'A' && class.Name[0] <= 'Z') {
			continue
		}
		d := diag.Diagnostic{
			RuleID:   r.ID(),
			Message:  fmt.Sprintf("Class name '%s' should use CamelCase (start with uppercase)", class.Name),
			Severity: diag.SeverityWarning,
			Category: diag.CategoryStyle,
			Location: nodeLocation(u.Path, class.NameNode),
		}
		out = append(out, d.WithSuggestion(fmt.Sprintf("Rename to '%s'", toCamelCase(class.Name))))
	}
	return out, nil
}

// avoidDynamic flags the untyped marker `any` in type-annotation position.
type avoidDynamic struct {
	query *syntax.Query
}

func newAvoidDynamic() (Rule, error) {
	q, err := syntax.CompileQuery(syntax.QueryDynamicTypes)
	if err != nil {
		return nil, fmt.Errorf("avoid_dynamic: %w", err)
	}
	return &avoidDynamic{query: q}, nil
}

func (r *avoidDynamic) ID() string              { return "avoid_dynamic" }
func (r *avoidDynamic) Category() diag.Category { return diag.CategoryRuntime }
func (r *avoidDynamic) Kind() Kind              { return KindStructural }

func (r *avoidDynamic) Evaluate(u *Unit) ([]diag.Diagnostic, error) {
	tree, err := u.Tree()
	if err != nil {
		return nil, err
	}
	var out []diag.Diagnostic
	for _, m := range r.query.Exec(tree) {
		cap := m.Capture("type.name")
		if cap == nil {
			continue
		}
		node := cap.Node
		d := diag.Diagnostic{
			RuleID:   r.ID(),
			Message:  "Avoid using 'any' type as it bypasses type safety",
			Severity: diag.SeverityWarning,
			Category: diag.CategoryRuntime,
			Location: nodeLocation(u.Path, &node),
		}
		out = append(out, d.WithSuggestion("Use a specific type or 'unknown' instead"))
	}
	return out, nil
}

// avoidEmptyCatch flags catch bodies that contain no statements. A body
// holding only a comment is treated as a deliberate decision and is not
// flagged; distinguishing the two is exactly what the structural variant
// buys over a textual pattern.
type avoidEmptyCatch struct {
	query *syntax.Query
}

func newAvoidEmptyCatch() (Rule, error) {
	q, err := syntax.CompileQuery(syntax.QueryEmptyCatch)
	if err != nil {
		return nil, fmt.Errorf("avoid_empty_catch: %w", err)
	}
	return &avoidEmptyCatch{query: q}, nil
}

func (r *avoidEmptyCatch) ID() string              { return "avoid_empty_catch" }
func (r *avoidEmptyCatch) Category() diag.Category { return diag.CategoryRuntime }
func (r *avoidEmptyCatch) Kind() Kind              { return KindStructural }

func (r *avoidEmptyCatch) Evaluate(u *Unit) ([]diag.Diagnostic, error) {
	tree, err := u.Tree()
	if err != nil {
		return nil, err
	}
	var out []diag.Diagnostic
	for _, m := range r.query.Exec(tree) {
		cap := m.Capture("catch.body")
		if cap == nil {
			continue
		}
		body := cap.Node
		statements, comments := 0, 0
		for i := uint(0); i < body.NamedChildCount(); i++ {
			child := body.NamedChild(i)
			if child == nil {
				continue
			}
			if child.Kind() == "comment" {
				comments++
			} else {
				statements++
			}
		}
		if statements > 0 || comments > 0 {
			continue
		}
		loc := body.Parent()
		if loc == nil {
			loc = &body
		}
		d := diag.Diagnostic{
			RuleID:   r.ID(),
			Message:  "Empty catch block swallows exceptions silently",
			Severity: diag.SeverityError,
			Category: diag.CategoryRuntime,
			Location: nodeLocation(u.Path, loc),
		}
		out = append(out, d.WithSuggestion("Handle the exception or at least log it"))
	}
	return out, nil
}

// avoidUnusedImport flags imports none of whose bound names occur outside
// the import statement itself. Occurrence checking is textual with word
// boundaries: a name referenced only in a comment or string still counts
// as used, and type-only references count as used. Both are documented
// behavior, not defects to fix silently.
type avoidUnusedImport struct{}

func newAvoidUnusedImport() (Rule, error) { return &avoidUnusedImport{}, nil }

func (r *avoidUnusedImport) ID() string              { return "unused_import" }
func (r *avoidUnusedImport) Category() diag.Category { return diag.CategoryRuntime }
func (r *avoidUnusedImport) Kind() Kind              { return KindStructural }

func (r *avoidUnusedImport) Evaluate(u *Unit) ([]diag.Diagnostic, error) {
	tree, err := u.Tree()
	if err != nil {
		return nil, err
	}
	var out []diag.Diagnostic
	for _, imp := range syntax.ExtractImports(tree) {
		// Side-effect imports bind nothing and cannot be unused.
		if len(imp.Names) == 0 {
			continue
		}
		used := false
		for _, name := range imp.Names {
			if nameUsedOutside(u.Source, name, imp.StartByte, imp.EndByte) {
				used = true
				break
			}
		}
		if used {
			continue
		}
		d := diag.Diagnostic{
			RuleID:   r.ID(),
			Message:  fmt.Sprintf("Import '%s' is unused", imp.URI),
			Severity: diag.SeverityWarning,
			Category: diag.CategoryRuntime,
			Location: nodeLocation(u.Path, imp.Node),
		}
		out = append(out, d.WithSuggestion("Remove this unused import"))
	}
	return out, nil
}

// nameUsedOutside reports whether name occurs as a whole word outside the
// byte range [start, end).
func nameUsedOutside(source []byte, name string, start, end uint) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return true // treat as used rather than false-positive
	}
	for _, loc := range re.FindAllIndex(source, -1) {
		if uint(loc[0]) < start || uint(loc[0]) >= end {
			return true
		}
	}
	return false
}

// avoidPrint flags calls to the debug-print built-in console.log.
type avoidPrint struct {
	query *syntax.Query
}

func newAvoidPrint() (Rule, error) {
	q, err := syntax.CompileQuery(syntax.QueryPrintCalls)
	if err != nil {
		return nil, fmt.Errorf("avoid_print: %w", err)
	}
	return &avoidPrint{query: q}, nil
}

func (r *avoidPrint) ID() string              { return "avoid_print" }
func (r *avoidPrint) Category() diag.Category { return diag.CategoryRuntime }
func (r *avoidPrint) Kind() Kind              { return KindStructural }

func (r *avoidPrint) Evaluate(u *Unit) ([]diag.Diagnostic, error) {
	tree, err := u.Tree()
	if err != nil {
		return nil, err
	}
	var out []diag.Diagnostic
	for _, m := range r.query.Exec(tree) {
		cap := m.Capture("callee")
		if cap == nil {
			continue
		}
		node := cap.Node
		d := diag.Diagnostic{
			RuleID:   r.ID(),
			Message:  "Avoid using 'console.log' in production code",
			Severity: diag.SeverityInfo,
			Category: diag.CategoryRuntime,
			Location: nodeLocation(u.Path, &node),
		}
		out = append(out, d.WithSuggestion("Use a structured logger instead"))
	}
	return out, nil
}

// avoidNullCheckOnNullable flags the non-null assertion operator applied to
// an identifier whose declared annotation is nullable. The nullable set is
// built from variable, field, and parameter declarations in the same file;
// assertions on anything other than a plain identifier are left alone.
type avoidNullCheckOnNullable struct {
	query *syntax.Query
}

func newAvoidNullCheckOnNullable() (Rule, error) {
	q, err := syntax.CompileQuery(syntax.QueryNullAssertions)
	if err != nil {
		return nil, fmt.Errorf("avoid_null_check_on_nullable: %w", err)
	}
	return &avoidNullCheckOnNullable{query: q}, nil
}

func (r *avoidNullCheckOnNullable) ID() string              { return "avoid_null_check_on_nullable" }
func (r *avoidNullCheckOnNullable) Category() diag.Category { return diag.CategoryRuntime }
func (r *avoidNullCheckOnNullable) Kind() Kind              { return KindStructural }

func (r *avoidNullCheckOnNullable) Evaluate(u *Unit) ([]diag.Diagnostic, error) {
	tree, err := u.Tree()
	if err != nil {
		return nil, err
	}

	nullable := nullableNames(tree)
	if len(nullable) == 0 {
		return nil, nil
	}

	var out []diag.Diagnostic
	for _, m := range r.query.Exec(tree) {
		cap := m.Capture("assertion")
		if cap == nil {
			continue
		}
		assertion := cap.Node
		inner := assertion.NamedChild(0)
		if inner == nil || inner.Kind() != "identifier" {
			continue
		}
		name := tree.Text(inner)
		if _, ok := nullable[name]; !ok {
			continue
		}
		d := diag.Diagnostic{
			RuleID:   r.ID(),
			Message:  fmt.Sprintf("Null assertion on nullable '%s' can fail at runtime", name),
			Severity: diag.SeverityWarning,
			Category: diag.CategoryRuntime,
			Location: nodeLocation(u.Path, &assertion),
		}
		out = append(out, d.WithSuggestion("Use optional chaining (?.) or a null check instead"))
	}
	return out, nil
}

// nullableNames collects identifiers declared with a nullable annotation:
// variables and fields with `T | null` / `T | undefined` unions, optional
// fields, and function parameters with nullable or optional declarations.
func nullableNames(tree *syntax.Tree) map[string]struct{} {
	names := make(map[string]struct{})

	for _, v := range syntax.ExtractVariables(tree) {
		if v.Nullable {
			names[v.Name] = struct{}{}
		}
	}
	for _, f := range syntax.ExtractFields(tree) {
		if f.Nullable || f.Optional {
			names[f.Name] = struct{}{}
		}
	}

	syntax.Walk(tree.Root(), func(n *tree_sitter.Node) {
		kind := n.Kind()
		if kind != "required_parameter" && kind != "optional_parameter" {
			return
		}
		pattern := n.ChildByFieldName("pattern")
		if pattern == nil || pattern.Kind() != "identifier" {
			return
		}
		if kind == "optional_parameter" {
			names[tree.Text(pattern)] = struct{}{}
			return
		}
		if typeNode := n.ChildByFieldName("type"); typeNode != nil {
			if inner := typeNode.NamedChild(0); inner != nil && typeUnionIncludesNull(tree, inner) {
				names[tree.Text(pattern)] = struct{}{}
			}
		}
	})

	return names
}

// typeUnionIncludesNull mirrors the extraction layer's nullability check
// for a raw type node.
func typeUnionIncludesNull(tree *syntax.Tree, typeNode *tree_sitter.Node) bool {
	if typeNode.Kind() != "union_type" {
		return false
	}
	found := false
	syntax.Walk(typeNode, func(n *tree_sitter.Node) {
		switch n.Kind() {
		case "null", "undefined":
			found = true
		case "literal_type":
			switch tree.Text(n) {
			case "null", "undefined":
				found = true
			}
		}
	})
	return found
}
