package docstring

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"pydoxy/internal/patterns"
	"pydoxy/internal/rewrite"
)

var markdown = goldmark.New()

// FencedLines returns the docstring lines that belong to a closed Markdown
// fenced code block, fence lines included. doc holds the docstring lines
// with their delimiters removed; tabs stop every tabLength columns.
func FencedLines(doc []string, tabLength int) map[int]bool {
	src := []byte(strings.Join(dedent(doc, tabLength), "\n"))
	offsets := rewrite.BuildLineOffsets(src)
	root := markdown.Parser().Parse(text.NewReader(src))

	fenced := map[int]bool{}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		block, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		lines := block.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		first := rewrite.LineIndexOfByte(offsets, lines.At(0).Start)
		last := rewrite.LineIndexOfByte(offsets, lines.At(lines.Len()-1).Start)
		if !isFence(doc, first-1) || !isFence(doc, last+1) {
			return ast.WalkSkipChildren, nil
		}
		for i := first - 1; i <= last+1; i++ {
			fenced[i] = true
		}
		return ast.WalkSkipChildren, nil
	})
	return fenced
}

func isFence(doc []string, i int) bool {
	if i < 0 || i >= len(doc) {
		return false
	}
	s := strings.TrimSpace(doc[i])
	return strings.HasPrefix(s, "```") || strings.HasPrefix(s, "~~~")
}

// dedent removes the common indentation of the body lines. The first line
// follows the opening quotes and is only trimmed on its own.
func dedent(doc []string, tabLength int) []string {
	out := make([]string, len(doc))
	common := -1
	for i, line := range doc {
		if i == 0 || patterns.IsBlank(line) {
			continue
		}
		if w := patterns.IndentWidth(line, tabLength); common < 0 || w < common {
			common = w
		}
	}
	for i, line := range doc {
		switch {
		case i == 0:
			out[i] = strings.TrimLeft(line, " \t")
		case patterns.IsBlank(line):
			out[i] = ""
		default:
			out[i] = patterns.ExpandTabs(line, tabLength)[common:]
		}
	}
	return out
}
