// Package walker drives the docstring rewriter over a parsed module and
// splices the rewritten comment blocks back into the line buffer.
package walker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"pydoxy/internal/config"
	"pydoxy/internal/docstring"
	"pydoxy/internal/patterns"
	"pydoxy/internal/rewrite"
	"pydoxy/pkg/decl"
)

// Entry is one rewritten docstring, kept for the preview.
type Entry struct {
	Path  string    // Dotted containing path, the declaration included
	Kind  decl.Kind // Kind of the documented declaration
	Line  int       // 1-based declaration line; 0 for the module
	Block []string  // Rewritten comment lines
}

// Walker visits a declaration tree and rewrites the buffer in place.
// Every splice keeps the slot count of the range it replaces, so the
// 1-based line numbers of the tree stay valid for the whole walk.
type Walker struct {
	buf      rewrite.LineEditor
	opts     *config.Options
	compiler docstring.Compiler
	log      zerolog.Logger

	path    *decl.Path
	entries []Entry
}

// New returns a walker over buf. The containing path starts at the module
// named by opts.FullPathNamespace.
func New(buf rewrite.LineEditor, opts *config.Options, compiler docstring.Compiler, log zerolog.Logger) *Walker {
	return &Walker{
		buf:      buf,
		opts:     opts,
		compiler: compiler,
		log:      log,
		path:     decl.NewPath(opts.FullPathNamespace),
	}
}

// Walk processes root and all of its descendants.
func (w *Walker) Walk(root *decl.Node) {
	w.visit(root)
}

// Entries returns the docstrings rewritten so far, in visiting order.
func (w *Walker) Entries() []Entry {
	return w.entries
}

// Depth returns the length of the containing path.
func (w *Walker) Depth() int {
	return w.path.Len()
}

func (w *Walker) visit(n *decl.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case decl.KindModule:
		w.visitModule(n)
	case decl.KindClass:
		w.visitClass(n)
	case decl.KindFunction:
		w.visitFunction(n)
	case decl.KindAssignment:
		w.visitAssignment(n)
	case decl.KindCall:
		w.visitCall(n)
	default:
		w.visitChildren(n)
	}
}

func (w *Walker) visitChildren(n *decl.Node) {
	for _, c := range n.Children {
		w.visit(c)
	}
}

func (w *Walker) visitModule(n *decl.Node) {
	w.log.Debug().Str("namespace", w.opts.FullPathNamespace).Msg("# Module")
	if n.HasDocstring {
		w.processDocstring(n, w.namespaceTail())
	}
	w.visitChildren(n)
}

func (w *Walker) visitClass(n *decl.Node) {
	idx := n.Line - 1

	if !w.opts.ObjectRespect {
		// Every new-style class would otherwise inherit from object in the
		// generated hierarchy.
		line := w.buf.Line(idx)
		if loc := patterns.ClassDecl.FindStringSubmatchIndex(line); loc != nil && line[loc[4]:loc[5]] == "object" {
			w.buf.SetLine(idx, line[:loc[4]]+line[loc[5]:])
		}
	}

	iface := patterns.InterfaceDecl.FindStringSubmatch(w.buf.Line(idx))
	if iface != nil {
		w.log.Debug().Str("name", n.Name).Msg("# Interface")
		w.path.Push(n.Name, decl.RoleInterface)
	} else {
		w.log.Debug().Str("name", n.Name).Msg("# Class")
		w.path.Push(n.Name, decl.RoleClass)
	}
	defer w.path.Pop()

	tail := w.namespaceTail()
	if iface != nil {
		tail = fmt.Sprintf("%s\n# @interface %s", tail, iface[1])
	}
	tail = memberTag(n.Name, tail)

	if n.HasDocstring {
		defStart := w.processDocstring(n, tail)
		if w.opts.KeepDecorators {
			w.shiftDecorators(n, defStart)
		}
	}
	w.visitChildren(n)
}

func (w *Walker) visitFunction(n *decl.Node) {
	w.log.Debug().Str("name", n.Name).Bool("async", n.Async).Msg("# Function")
	idx := n.Line - 1

	// Properties are documented through their getter.
	if len(n.Decorators) > 0 {
		line := w.buf.Line(idx)
		indent := patterns.LeadingSpace(line)
		switch first := n.Decorators[0].Expr; {
		case first == "property":
			w.buf.SetLine(idx, fmt.Sprintf("%[1]s%[2]s = property\n%[1]s## \\private\n%[3]s", indent, n.Name, line))
		case patterns.Setter.MatchString(first):
			w.buf.SetLine(idx, fmt.Sprintf("%s## \\private\n%s", indent, line))
		}
	}

	w.path.Push(n.Name, decl.RoleFunction)
	defer w.path.Pop()

	var tail string
	if w.opts.TopLevelNamespace != "" {
		tail = "@namespace " + memberTag(n.Name, w.path.Dotted())
	} else {
		tail = memberTag(n.Name, "")
	}

	if n.HasDocstring {
		defStart := w.processDocstring(n, tail)
		if w.opts.KeepDecorators {
			w.shiftDecorators(n, defStart)
		}
	}
	w.visitChildren(n)
}

func (w *Walker) visitAssignment(n *decl.Node) {
	idx := n.Line - 1

	// Interface attributes.
	line := w.buf.Line(idx)
	if m := patterns.AttributeDecl.FindStringSubmatch(line); m != nil {
		w.buf.SetLine(idx, fmt.Sprintf("%[1]s## @property %[2]s\n%[1]s# %[3]s\n%[1]s# @hideinitializer\n%[4]s",
			m[1], m[2], m[3], rstrip(line)))
		w.log.Debug().Str("name", n.Target).Msg("# Attribute")
	}

	if n.Target != "" {
		if vis := decl.Classify(n.Target); vis != decl.VisibilityNone {
			line := w.buf.Line(idx)
			indent := patterns.LeadingSpace(line)
			w.buf.SetLine(idx, fmt.Sprintf("%[1]s## @var %[2]s\n%[1]s# @hideinitializer\n%[1]s# @%[3]s\n%[4]s",
				indent, n.Target, vis, rstrip(line)))
		}
	}
	w.visitChildren(n)
}

func (w *Walker) visitCall(n *decl.Node) {
	idx := n.Line - 1
	line := w.buf.Line(idx)
	if m := patterns.Implements.FindStringSubmatch(line); m != nil {
		w.buf.SetLine(idx, fmt.Sprintf("%s## @implements %s\n%s", m[1], m[2], rstrip(line)))
		w.log.Debug().Str("interfaces", m[2]).Msg("# Implements")
	}
	w.visitChildren(n)
}

// namespaceTail is the namespace annotation for the current path, or ""
// when no top-level namespace is configured.
func (w *Walker) namespaceTail() string {
	if w.opts.TopLevelNamespace == "" {
		return ""
	}
	return "@namespace " + w.path.Dotted()
}

// memberTag appends the visibility tag of name to ctx.
func memberTag(name, ctx string) string {
	vis := decl.Classify(name)
	if vis == decl.VisibilityNone {
		return ctx
	}
	return fmt.Sprintf("%s\n# @%s", ctx, vis)
}

// processDocstring rewrites the docstring of n and moves it in front of
// the declaration (behind any leading lines for the module). It returns
// the slot where the declaration lines start after the splice.
func (w *Walker) processDocstring(n *decl.Node, tail string) int {
	start := 0
	if n.Kind != decl.KindModule {
		start = n.Line - 1
	}
	docStart, end, ok := w.span(start)
	if !ok {
		return start
	}

	defLines := w.buf.Slice(start, docStart)
	doc := w.buf.Slice(docStart, end)

	doc[0] = patterns.DocstringDelimiter.ReplaceAllString(doc[0], "")
	doc[len(doc)-1] = patterns.DocstringDelimiter.ReplaceAllString(doc[len(doc)-1], "")
	doc = w.rewrite(doc, tail)

	if w.opts.AutoBrief {
		doc = docstring.CollapseBrief(doc)
	}
	if len(defLines) > 0 {
		doc = docstring.Reindent(doc, patterns.LeadingSpace(defLines[0]), w.opts.EqualIndent)
	}

	if n.Kind != decl.KindModule {
		current, parent := w.path.Current(), w.path.Parent()
		switch {
		case parent.Role == decl.RoleInterface && n.Kind == decl.KindFunction || current.Role == decl.RoleInterface:
			// Interface members keep their attributes in the docstring. The
			// body would be empty once the docstring is commented out.
			if n.BodyOnlyDocstring && len(defLines) > 0 {
				indent := patterns.LeadingSpace(w.buf.Line(docStart))
				last := len(defLines) - 1
				defLines[last] = fmt.Sprintf("%s\n\n%spass", rstrip(defLines[last]), indent)
			}
		case w.opts.AutoBrief && n.Kind == decl.KindClass:
			doc, defLines = w.moveProperties(doc, defLines, end)
		}
	}

	var spliced []string
	if n.Kind == decl.KindModule {
		spliced = append(defLines, doc...)
	} else {
		spliced = append(doc, defLines...)
	}
	w.buf.Replace(start, end, spliced)

	w.entries = append(w.entries, Entry{
		Path:  w.path.Dotted(),
		Kind:  n.Kind,
		Line:  n.Line,
		Block: flatten(doc),
	})

	if n.Kind == decl.KindModule {
		return start
	}
	return start + len(doc)
}

// span locates the docstring that follows slot start: the first line
// opening a triple-quoted literal and the line holding its closing quote.
// end is exclusive.
func (w *Walker) span(start int) (docStart, end int, ok bool) {
	cur := start
	quote := ""
	for ; cur < w.buf.Len(); cur++ {
		if quote = patterns.OpeningQuote(w.buf.Line(cur)); quote != "" {
			break
		}
	}
	if quote == "" {
		return 0, 0, false
	}
	docStart = cur

	if !patterns.IsOneLineDocstring(w.buf.Line(cur)) {
		for cur++; cur < w.buf.Len(); cur++ {
			if strings.Contains(w.buf.Line(cur), quote) {
				break
			}
		}
	}
	end = min(cur+1, w.buf.Len())
	return docStart, end, true
}

// rewrite runs the docstring rewriter over doc and returns the new slots.
func (w *Walker) rewrite(doc []string, tail string) []string {
	src := append([]string(nil), doc...)
	writer := rewrite.NewDocWriter(doc)
	rw := docstring.NewRewriter(w.opts, tail, len(src), writer, w.compiler)
	if w.opts.AutoBrief {
		rw.SetFenced(docstring.FencedLines(src, w.opts.TabLength))
	}
	for i, line := range src {
		rw.Process(i, line)
	}
	rw.Finish(len(src) - 1)
	return writer.Lines()
}

// moveProperties relocates the class attribute lines of a class docstring
// behind the declaration, indented like the class body and each set off by
// a blank line. Any namespace
// annotation that travelled with them is handed back to the docstring.
func (w *Walker) moveProperties(doc, defLines []string, end int) ([]string, []string) {
	first, last := -1, -1
	for i, line := range doc {
		if strings.Contains(line, "@property\t") {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return doc, defLines
	}

	bodyIndent := ""
	for i := end; bodyIndent == "" && i < w.buf.Len(); i++ {
		bodyIndent = patterns.LeadingSpace(w.buf.Line(i))
	}
	classIndent := ""
	if len(defLines) > 0 {
		classIndent = patterns.LeadingSpace(defLines[0])
	}

	for _, line := range doc[first : last+1] {
		defLines = append(defLines, "\n"+indentAll(line, bodyIndent))
	}
	kept := append([]string(nil), doc[:first]...)
	doc = append(kept, doc[last+1:]...)

	lastDef := defLines[len(defLines)-1]
	if loc := strings.Index(lastDef, "\n"+bodyIndent+"# @namespace"); loc >= 0 && len(doc) > 0 {
		moved := strings.ReplaceAll(lastDef[loc:], "\n"+bodyIndent, "\n"+classIndent)
		doc[len(doc)-1] += moved
		defLines[len(defLines)-1] = lastDef[:loc]
	}
	return doc, defLines
}

// shiftDecorators moves the decorator lines of n directly above its first
// declaration line at defStart, keeping their order.
func (w *Walker) shiftDecorators(n *decl.Node, defStart int) {
	if len(n.Decorators) == 0 {
		return
	}
	isDecorator := map[int]bool{}
	top := defStart
	for _, d := range n.Decorators {
		for l := d.Position.Start; l <= d.Position.End; l++ {
			if l-1 < defStart {
				isDecorator[l-1] = true
				top = min(top, l-1)
			}
		}
	}
	if top >= defStart {
		return
	}

	var others, decorators []string
	for i, line := range w.buf.Slice(top, defStart) {
		if isDecorator[top+i] {
			decorators = append(decorators, line)
		} else {
			others = append(others, line)
		}
	}
	w.buf.Replace(top, defStart, append(others, decorators...))
}

// indentAll puts indent in front of every embedded line of slot.
func indentAll(slot, indent string) string {
	lines := strings.Split(slot, "\n")
	for i, line := range lines {
		lines[i] = indent + strings.TrimLeft(line, " \t")
	}
	return strings.Join(lines, "\n")
}

func flatten(doc []string) []string {
	var out []string
	for _, slot := range doc {
		for _, line := range strings.Split(rstrip(slot), "\n") {
			out = append(out, rstrip(line))
		}
	}
	return out
}

func rstrip(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
