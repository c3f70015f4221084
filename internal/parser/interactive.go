package parser

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Compilation is the verdict of compiling text as one interactive statement.
type Compilation int

const (
	// Incomplete text could become a statement with more input.
	Incomplete Compilation = iota
	// Complete text is exactly one statement.
	Complete
	// Invalid text can never become a statement.
	Invalid
)

func (c Compilation) String() string {
	switch c {
	case Complete:
		return "complete"
	case Invalid:
		return "invalid"
	default:
		return "incomplete"
	}
}

// compound statements need a terminating blank line at an interactive
// prompt, and accumulated doctest text never ends with one.
var compound = map[string]bool{
	"if_statement":         true,
	"for_statement":        true,
	"while_statement":      true,
	"try_statement":        true,
	"with_statement":       true,
	"function_definition":  true,
	"class_definition":     true,
	"decorated_definition": true,
	"match_statement":      true,
}

// Interactive compiles doctest fragments the way an interactive prompt would.
type Interactive struct{}

// Compile implements the code checker's compiler.
func (Interactive) Compile(src string) Compilation {
	return CompileInteractive(src)
}

// CompileInteractive decides whether src is a complete single interactive
// statement, the start of one, or not Python at all.
func CompileInteractive(src string) Compilation {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(python.GetLanguage())

	tree, err := p.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil {
		return Invalid
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if looksUnfinished(src) {
			return Incomplete
		}
		return Invalid
	}
	if findFirstError(root) != nil {
		return Invalid
	}

	var stmts []*sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if c := root.NamedChild(i); c.Type() != "comment" {
			stmts = append(stmts, c)
		}
	}
	switch {
	case len(stmts) == 0:
		return Complete
	case len(stmts) > 1:
		return Invalid
	case compound[stmts[0].Type()]:
		return Incomplete
	default:
		return Complete
	}
}

// looksUnfinished reports whether src stops inside a bracket, a triple
// quoted string, a line continuation or a block header.
func looksUnfinished(src string) bool {
	trimmed := strings.TrimRight(src, " \t\r\n")
	if strings.HasSuffix(trimmed, ":") || strings.HasSuffix(trimmed, `\`) || strings.HasSuffix(trimmed, ",") {
		return true
	}
	if strings.Count(src, `"""`)%2 == 1 || strings.Count(src, `'''`)%2 == 1 {
		return true
	}
	depth := 0
	var quote rune
	escaped, comment := false, false
	for _, r := range src {
		switch {
		case comment:
			comment = r != '\n'
		case escaped:
			escaped = false
		case quote != 0:
			if r == '\\' {
				escaped = true
			} else if r == quote || r == '\n' {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '#':
			comment = true
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		}
	}
	return depth > 0
}
