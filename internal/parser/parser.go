// Package parser turns Python source into the declaration tree walked by the
// filter, using the tree-sitter Python grammar.
package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"pydoxy/pkg/decl"
)

// ErrSyntax is returned when the source does not parse as Python.
var ErrSyntax = errors.New("syntax error")

// Parse builds the declaration tree for content. Line numbers in the tree
// are 1-based rows of content.
func Parse(ctx context.Context, content []byte) (*decl.Node, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(python.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if n := findFirstError(root); n != nil || root.HasError() {
		line := 0
		if n != nil {
			line = int(n.StartPoint().Row) + 1
		}
		return nil, fmt.Errorf("line %d: %w", line, ErrSyntax)
	}

	b := &builder{src: content}
	mod := &decl.Node{Kind: decl.KindModule}
	mod.HasDocstring, mod.BodyOnlyDocstring = b.docstring(root, -1)
	b.collect(root, mod)
	return mod, nil
}

// legacy statements are accepted by the grammar but are Python 2 only.
var legacy = map[string]bool{
	"print_statement": true,
	"exec_statement":  true,
}

// findFirstError finds the first error node or legacy statement in the tree.
func findFirstError(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() || legacy[node.Type()] {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if n := findFirstError(node.Child(i)); n != nil {
			return n
		}
	}
	return nil
}

type builder struct {
	src []byte
}

func (b *builder) text(n *sitter.Node) string {
	return n.Content(b.src)
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// collect visits every named child of n, attaching what it finds to parent.
func (b *builder) collect(n *sitter.Node, parent *decl.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.visit(n.NamedChild(i), parent)
	}
}

func (b *builder) visit(n *sitter.Node, parent *decl.Node) {
	switch n.Type() {
	case "decorated_definition":
		def := n.ChildByFieldName("definition")
		if def == nil {
			b.collect(n, parent)
			return
		}
		node := b.definition(def)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() != "decorator" {
				continue
			}
			node.Decorators = append(node.Decorators, decl.Decorator{
				Expr:     strings.TrimSpace(strings.TrimPrefix(b.text(c), "@")),
				Position: decl.Position{Start: line(c), End: int(c.EndPoint().Row) + 1},
			})
			// Calls inside decorator expressions belong to the decorated scope.
			b.collect(c, node)
		}
		b.collect(def, node)
		parent.Children = append(parent.Children, node)
	case "class_definition", "function_definition":
		node := b.definition(n)
		b.collect(n, node)
		parent.Children = append(parent.Children, node)
	case "assignment":
		b.assignment(n, parent)
	case "call":
		node := &decl.Node{Kind: decl.KindCall, Line: line(n)}
		if fn := n.ChildByFieldName("function"); fn != nil {
			node.Name = b.text(fn)
		}
		b.collect(n, node)
		parent.Children = append(parent.Children, node)
	default:
		b.collect(n, parent)
	}
}

func (b *builder) definition(n *sitter.Node) *decl.Node {
	node := &decl.Node{Kind: decl.KindFunction, Line: line(n)}
	if n.Type() == "class_definition" {
		node.Kind = decl.KindClass
	}
	if name := n.ChildByFieldName("name"); name != nil {
		node.Name = b.text(name)
	}
	if n.ChildCount() > 0 && n.Child(0).Type() == "async" {
		node.Async = true
	}
	if body := n.ChildByFieldName("body"); body != nil {
		node.HasDocstring, node.BodyOnlyDocstring = b.docstring(body, int(n.StartPoint().Row))
	}
	return node
}

// assignment records plain "target = value" statements. Annotated
// assignments are only searched for calls; in a chained assignment only
// the outermost statement is recorded.
func (b *builder) assignment(n *sitter.Node, parent *decl.Node) {
	if n.ChildByFieldName("type") != nil {
		b.collect(n, parent)
		return
	}
	node := &decl.Node{Kind: decl.KindAssignment, Line: line(n)}
	left := n.ChildByFieldName("left")
	if left != nil {
		if left.Type() == "identifier" {
			node.Target = b.text(left)
			node.Name = node.Target
		}
		b.collect(left, node)
	}
	right := n.ChildByFieldName("right")
	for right != nil && right.Type() == "assignment" && right.ChildByFieldName("type") == nil {
		if l := right.ChildByFieldName("left"); l != nil {
			b.collect(l, node)
		}
		right = right.ChildByFieldName("right")
	}
	if right != nil {
		b.visit(right, node)
	}
	parent.Children = append(parent.Children, node)
}

// docstring reports whether body opens with a docstring the filter can
// rewrite, and whether that docstring is the body's only statement.
// headerRow is the row of the declaration keyword, or -1 for a module.
func (b *builder) docstring(body *sitter.Node, headerRow int) (has, only bool) {
	var stmts []*sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		stmts = append(stmts, c)
	}
	if len(stmts) == 0 {
		return false, false
	}
	first := stmts[0]
	if first.Type() != "expression_statement" || first.NamedChildCount() != 1 {
		return false, false
	}
	s := first.NamedChild(0)
	if s.Type() == "concatenated_string" && s.NamedChildCount() > 0 {
		s = s.NamedChild(0)
	}
	if s.Type() != "string" {
		return false, false
	}
	// A docstring sharing the header line cannot be moved apart from it.
	if int(s.StartPoint().Row) == headerRow {
		return false, false
	}
	if !IsDocstringLiteral(b.text(s)) {
		return false, false
	}
	return true, len(stmts) == 1
}

// IsDocstringLiteral reports whether lit is a triple-quoted, non-bytes,
// non-formatted string literal whose cleaned text is non-empty. Cleaning
// strips the first line and drops empty lines at both ends, so a
// whitespace-only body still counts when a later line keeps its indentation.
func IsDocstringLiteral(lit string) bool {
	i := strings.IndexAny(lit, `'"`)
	if i < 0 {
		return false
	}
	prefix := strings.ToLower(lit[:i])
	if strings.ContainsAny(prefix, "bf") {
		return false
	}
	rest := lit[i:]
	var quote string
	switch {
	case strings.HasPrefix(rest, `"""`):
		quote = `"""`
	case strings.HasPrefix(rest, `'''`):
		quote = `'''`
	default:
		return false
	}
	content := strings.TrimPrefix(rest, quote)
	content = strings.TrimSuffix(content, quote)
	if strings.TrimSpace(content) != "" {
		return true
	}
	lines := strings.Split(content, "\n")
	for _, l := range lines[1:] {
		if l != "" {
			return true
		}
	}
	return false
}
