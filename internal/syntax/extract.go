package syntax

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Typed views are read-only projections over tree nodes. Each view keeps a
// reference into its originating Tree and must not outlive it. Extraction
// tolerates error nodes: on malformed input it returns whatever well-formed
// constructs remain recoverable.

// Class is a class declaration.
type Class struct {
	Name      string
	Abstract  bool
	Node      *tree_sitter.Node
	NameNode  *tree_sitter.Node
	StartByte uint
	EndByte   uint
}

// Method is a class method or top-level function declaration.
type Method struct {
	Name      string
	Static    bool
	Async     bool
	Node      *tree_sitter.Node
	StartByte uint
	EndByte   uint
}

// Import is an import statement with the names it binds in the file.
type Import struct {
	URI       string
	Names     []string
	Node      *tree_sitter.Node
	StartByte uint
	EndByte   uint
}

// Field is a class field declaration.
type Field struct {
	Name           string
	TypeAnnotation string
	Nullable       bool
	Optional       bool
	Static         bool
	Readonly       bool
	Accessibility  string
	Node           *tree_sitter.Node
	StartByte      uint
	EndByte        uint
}

// Variable is a declared variable (const/let/var declarator).
type Variable struct {
	Name           string
	TypeAnnotation string
	Nullable       bool
	Keyword        string
	Node           *tree_sitter.Node
	StartByte      uint
	EndByte        uint
}

// TypeAnnotation is a type in annotation position.
type TypeAnnotation struct {
	TypeName      string
	Nullable      bool
	TypeArguments []string
	Node          *tree_sitter.Node
	StartByte     uint
	EndByte       uint
}

// TypeParameter is a generic type parameter declaration.
type TypeParameter struct {
	Name       string
	Constraint string
	Node       *tree_sitter.Node
	StartByte  uint
	EndByte    uint
}

// Expression is a node of one of the recognized expression kinds.
type Expression struct {
	Kind      string
	Text      string
	Node      *tree_sitter.Node
	StartByte uint
	EndByte   uint
}

// ExtractClasses returns all class declarations in the tree.
func ExtractClasses(t *Tree) []Class {
	var classes []Class
	Walk(t.Root(), func(n *tree_sitter.Node) {
		kind := n.Kind()
		if kind != "class_declaration" && kind != "abstract_class_declaration" {
			return
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		classes = append(classes, Class{
			Name:      t.Text(nameNode),
			Abstract:  kind == "abstract_class_declaration",
			Node:      n,
			NameNode:  nameNode,
			StartByte: n.StartByte(),
			EndByte:   n.EndByte(),
		})
	})
	return classes
}

// ExtractMethods returns all method definitions and function declarations.
func ExtractMethods(t *Tree) []Method {
	var methods []Method
	Walk(t.Root(), func(n *tree_sitter.Node) {
		kind := n.Kind()
		if kind != "method_definition" && kind != "function_declaration" {
			return
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		methods = append(methods, Method{
			Name:      t.Text(nameNode),
			Static:    hasChildOfKind(n, "static"),
			Async:     hasChildOfKind(n, "async"),
			Node:      n,
			StartByte: n.StartByte(),
			EndByte:   n.EndByte(),
		})
	})
	return methods
}

// ExtractImports returns all import statements together with the local
// names they bind (default imports, named imports with aliases applied,
// and namespace imports). Side-effect imports bind no names.
func ExtractImports(t *Tree) []Import {
	var imports []Import
	Walk(t.Root(), func(n *tree_sitter.Node) {
		if n.Kind() != "import_statement" {
			return
		}

		sourceNode := n.ChildByFieldName("source")
		if sourceNode == nil {
			// Fall back: look for a string child.
			for i := uint(0); i < n.ChildCount(); i++ {
				child := n.Child(i)
				if child != nil && child.Kind() == "string" {
					sourceNode = child
					break
				}
			}
		}
		if sourceNode == nil {
			return
		}
		uri := strings.Trim(t.Text(sourceNode), "\"'`")
		if uri == "" {
			return
		}

		var names []string
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child != nil && child.Kind() == "import_clause" {
				names = append(names, importClauseNames(t, child)...)
			}
		}

		imports = append(imports, Import{
			URI:       uri,
			Names:     names,
			Node:      n,
			StartByte: n.StartByte(),
			EndByte:   n.EndByte(),
		})
	})
	return imports
}

// importClauseNames collects the local names bound by an import_clause.
func importClauseNames(t *Tree, clause *tree_sitter.Node) []string {
	var names []string
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			// Default import: import Foo from "x".
			names = append(names, t.Text(child))
		case "namespace_import":
			// import * as ns from "x".
			for j := uint(0); j < child.NamedChildCount(); j++ {
				if id := child.NamedChild(j); id != nil && id.Kind() == "identifier" {
					names = append(names, t.Text(id))
				}
			}
		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec == nil || spec.Kind() != "import_specifier" {
					continue
				}
				// The alias is what the file actually references.
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					names = append(names, t.Text(alias))
				} else if name := spec.ChildByFieldName("name"); name != nil {
					names = append(names, t.Text(name))
				}
			}
		}
	}
	return names
}

// ExtractFields returns all class field declarations.
func ExtractFields(t *Tree) []Field {
	var fields []Field
	Walk(t.Root(), func(n *tree_sitter.Node) {
		if n.Kind() != "public_field_definition" {
			return
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}

		f := Field{
			Name:      t.Text(nameNode),
			Node:      n,
			StartByte: n.StartByte(),
			EndByte:   n.EndByte(),
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "static":
				f.Static = true
			case "readonly":
				f.Readonly = true
			case "accessibility_modifier":
				f.Accessibility = t.Text(child)
			case "?":
				f.Optional = true
			}
		}
		if typeNode := n.ChildByFieldName("type"); typeNode != nil {
			inner := annotatedType(typeNode)
			if inner != nil {
				f.TypeAnnotation = t.Text(inner)
				f.Nullable = typeIsNullable(t, inner)
			}
		}
		fields = append(fields, f)
	})
	return fields
}

// ExtractVariables returns all const/let/var declarators with identifier
// names. Destructuring patterns are skipped.
func ExtractVariables(t *Tree) []Variable {
	var variables []Variable
	Walk(t.Root(), func(n *tree_sitter.Node) {
		if n.Kind() != "variable_declarator" {
			return
		}
		parent := n.Parent()
		if parent == nil {
			return
		}
		pk := parent.Kind()
		if pk != "lexical_declaration" && pk != "variable_declaration" {
			return
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil || nameNode.Kind() != "identifier" {
			return
		}

		v := Variable{
			Name:      t.Text(nameNode),
			Keyword:   declarationKeyword(t, parent),
			Node:      n,
			StartByte: n.StartByte(),
			EndByte:   n.EndByte(),
		}
		if typeNode := n.ChildByFieldName("type"); typeNode != nil {
			inner := annotatedType(typeNode)
			if inner != nil {
				v.TypeAnnotation = t.Text(inner)
				v.Nullable = typeIsNullable(t, inner)
			}
		}
		variables = append(variables, v)
	})
	return variables
}

// declarationKeyword returns "const", "let", or "var" for a declaration node.
func declarationKeyword(t *Tree, decl *tree_sitter.Node) string {
	first := decl.Child(0)
	if first == nil {
		return ""
	}
	switch kw := t.Text(first); kw {
	case "const", "let", "var":
		return kw
	}
	return ""
}

// ExtractTypeAnnotations returns every type in annotation position.
func ExtractTypeAnnotations(t *Tree) []TypeAnnotation {
	var annotations []TypeAnnotation
	Walk(t.Root(), func(n *tree_sitter.Node) {
		if n.Kind() != "type_annotation" {
			return
		}
		inner := annotatedType(n)
		if inner == nil {
			return
		}

		a := TypeAnnotation{
			TypeName:  t.Text(inner),
			Nullable:  typeIsNullable(t, inner),
			Node:      inner,
			StartByte: inner.StartByte(),
			EndByte:   inner.EndByte(),
		}
		if inner.Kind() == "generic_type" {
			if nameNode := inner.ChildByFieldName("name"); nameNode != nil {
				a.TypeName = t.Text(nameNode)
			}
			if args := inner.ChildByFieldName("type_arguments"); args != nil {
				for i := uint(0); i < args.NamedChildCount(); i++ {
					if arg := args.NamedChild(i); arg != nil {
						a.TypeArguments = append(a.TypeArguments, t.Text(arg))
					}
				}
			}
		}
		annotations = append(annotations, a)
	})
	return annotations
}

// ExtractTypeParameters returns all generic type parameter declarations.
func ExtractTypeParameters(t *Tree) []TypeParameter {
	var params []TypeParameter
	Walk(t.Root(), func(n *tree_sitter.Node) {
		if n.Kind() != "type_parameter" {
			return
		}

		p := TypeParameter{
			Node:      n,
			StartByte: n.StartByte(),
			EndByte:   n.EndByte(),
		}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "type_identifier":
				if p.Name == "" {
					p.Name = t.Text(child)
				}
			case "constraint":
				if bound := child.NamedChild(0); bound != nil {
					p.Constraint = t.Text(bound)
				}
			}
		}
		if p.Name != "" {
			params = append(params, p)
		}
	})
	return params
}

// expressionKinds are the node kinds reported by ExtractExpressions.
var expressionKinds = map[string]struct{}{
	"binary_expression":        {},
	"assignment_expression":    {},
	"ternary_expression":       {},
	"unary_expression":         {},
	"call_expression":          {},
	"member_expression":        {},
	"subscript_expression":     {},
	"non_null_expression":      {},
	"as_expression":            {},
	"parenthesized_expression": {},
	"template_string":          {},
	"array":                    {},
	"object":                   {},
	"string":                   {},
	"number":                   {},
	"true":                     {},
	"false":                    {},
	"null":                     {},
	"undefined":                {},
}

// ExtractExpressions returns all nodes of the recognized expression kinds.
func ExtractExpressions(t *Tree) []Expression {
	var expressions []Expression
	Walk(t.Root(), func(n *tree_sitter.Node) {
		kind := n.Kind()
		if _, ok := expressionKinds[kind]; !ok {
			return
		}
		expressions = append(expressions, Expression{
			Kind:      kind,
			Text:      t.Text(n),
			Node:      n,
			StartByte: n.StartByte(),
			EndByte:   n.EndByte(),
		})
	})
	return expressions
}

// annotatedType returns the type node inside a type_annotation (": T").
func annotatedType(annotation *tree_sitter.Node) *tree_sitter.Node {
	return annotation.NamedChild(0)
}

// typeIsNullable reports whether a type node is a union that includes null
// or undefined as a member. Detection is textual over the union members, so
// it works for nested unions and parenthesized members alike.
func typeIsNullable(t *Tree, typeNode *tree_sitter.Node) bool {
	if typeNode == nil || typeNode.Kind() != "union_type" {
		return false
	}
	nullable := false
	var collect func(n *tree_sitter.Node)
	collect = func(n *tree_sitter.Node) {
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if child == nil {
				continue
			}
			if child.Kind() == "union_type" {
				collect(child)
				continue
			}
			switch strings.TrimSpace(t.Text(child)) {
			case "null", "undefined":
				nullable = true
			}
		}
	}
	collect(typeNode)
	return nullable
}

// hasChildOfKind reports whether n has a direct child of the given kind.
func hasChildOfKind(n *tree_sitter.Node, kind string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil && child.Kind() == kind {
			return true
		}
	}
	return false
}
