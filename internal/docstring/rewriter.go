// Package docstring rewrites the lines of one Python docstring into a
// Doxygen comment block.
package docstring

import (
	"fmt"
	"strings"
	"unicode"

	"pydoxy/internal/config"
	"pydoxy/internal/patterns"
	"pydoxy/internal/rewrite"
)

// BatchWriter receives finished runs of rewritten lines.
type BatchWriter interface {
	Write(rewrite.Batch)
}

// Rewriter turns docstring lines, fed one at a time, into commented lines
// carrying Doxygen tags. Lines are accumulated and handed to the writer in
// batches covering the docstring-local range they replace.
type Rewriter struct {
	opts   *config.Options
	tail   string
	total  int
	writer BatchWriter
	fenced map[int]bool

	lines        []string
	firstLineNum int
	timeToSend   bool
	prefix       string

	// inCodeBlock is the rewriter's view of the code state; inCodeObj is the
	// cell shared with the code checker.
	inCodeBlock bool
	inCodeObj   *bool
	checker     *CodeChecker

	inSection     bool
	inLiteral     bool
	inTable       bool
	sectionIndent int
	literalIndent int
	tableStart    int
	tableCount    int
	tableColumns  []int
}

// NewRewriter prepares a rewriter for a docstring of total lines. tail, when
// set, is appended as an extra comment line after the last one.
func NewRewriter(opts *config.Options, tail string, total int, writer BatchWriter, compiler Compiler) *Rewriter {
	inCode := false
	return &Rewriter{
		opts:         opts,
		tail:         tail,
		total:        total,
		writer:       writer,
		firstLineNum: -1,
		tableStart:   -1,
		inCodeObj:    &inCode,
		checker:      NewCodeChecker(&inCode, compiler),
	}
}

// SetFenced marks docstring lines that belong to Markdown fenced code
// blocks; they are commented but never translated.
func (r *Rewriter) SetFenced(fenced map[int]bool) {
	r.fenced = fenced
}

// Process rewrites line lineNum of the docstring.
func (r *Rewriter) Process(lineNum int, line string) {
	if r.firstLineNum < 0 {
		r.firstLineNum = lineNum
	}

	verbatim := false
	if r.opts.AutoBrief && !r.fenced[lineNum] {
		line, verbatim = r.translate(lineNum, line)
	}

	if r.tail != "" && lineNum == r.total-1 {
		line = fmt.Sprintf("%s\n# %s", rstrip(line), r.tail)
	}
	if verbatim {
		if lineNum == 0 {
			line = "#" + line
		}
		r.lines = append(r.lines, line)
	} else {
		line = "#" + rstrip(line)
		if lineNum == 0 {
			line = "#" + line
		}
		r.lines = append(r.lines, strings.ReplaceAll(line, " \n", "\n"))
	}

	if r.timeToSend {
		r.send(lineNum)
	}
}

// Finish flushes whatever is pending after line lastLineNum.
func (r *Rewriter) Finish(lastLineNum int) {
	if r.firstLineNum < 0 {
		return
	}
	r.send(lastLineNum)
}

func (r *Rewriter) send(lineNum int) {
	r.endCodeIfNeeded()
	r.writer.Write(rewrite.Batch{First: r.firstLineNum, Last: lineNum, Lines: r.lines})
	r.lines = nil
	r.firstLineNum = -1
	r.tableCount = 0
	r.timeToSend = false
}

// endCodeIfNeeded closes an open code block before the last emitted line.
func (r *Rewriter) endCodeIfNeeded() {
	if r.inCodeBlock && len(r.lines) > 0 {
		last := len(r.lines) - 1
		r.lines[last] = "# @endcode\n" + rstrip(r.lines[last])
		r.inCodeBlock = false
	}
	*r.inCodeObj = r.inCodeBlock
}

func (r *Rewriter) lastLine() string {
	if len(r.lines) == 0 {
		return ""
	}
	return r.lines[len(r.lines)-1]
}

func (r *Rewriter) setLastLine(s string) {
	if len(r.lines) > 0 {
		r.lines[len(r.lines)-1] = s
	}
}

// translate applies the tag rules to one line. It returns the rewritten
// line and whether that line already carries its comment marker.
func (r *Rewriter) translate(lineNum int, line string) (string, bool) {
	for _, field := range patterns.MetadataFields {
		m := field.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		r.endCodeIfNeeded()
		r.writer.Write(rewrite.Batch{First: r.firstLineNum, Last: lineNum - 1, Lines: r.lines})
		r.lines = nil
		r.firstLineNum = lineNum
		line = strings.ReplaceAll(line, m[1], field.Tag)
		r.timeToSend = true
	}

	if r.inLiteral && !patterns.IsBlank(line) {
		indent := patterns.IndentWidth(line, r.opts.TabLength)
		if indent > r.literalIndent {
			// Keep at least four columns of relative indent.
			extra := ""
			if indent-r.literalIndent < 4 {
				extra = strings.Repeat(" ", 4-indent+r.literalIndent)
			}
			return "#" + extra + line, true
		}
		r.inLiteral = false
	}
	if r.inSection && !patterns.IsBlank(line) {
		if patterns.IndentWidth(line, r.opts.TabLength) <= r.sectionIndent {
			r.inSection = false
		} else if r.lastLine() == "#" {
			// A blank line inside a section starts a new paragraph.
			r.setLastLine("# @par")
		}
	}
	if r.inTable {
		return "#" + r.tableLine(lineNum, line), true
	}

	if m := patterns.ReturnsStart.FindString(line); m != "" {
		r.endCodeIfNeeded()
		r.prefix = "@return\t"
		return rstrip(strings.ReplaceAll(line, m, " @return\t")), false
	}

	if m := patterns.ArgsStart.FindString(line); m != "" {
		if strings.Contains(strings.ToLower(m), "attr") {
			r.prefix = "@property\t"
		} else {
			r.prefix = "@param\t"
		}
		r.endCodeIfNeeded()
		return "#" + rstrip(strings.ReplaceAll(line, m, "")), true
	}
	if m := patterns.RstParam.FindStringSubmatch(line); m != nil {
		// The last word of the field is the parameter name, the rest its type.
		decl := m[4]
		before, name, sep := "", decl, ""
		if i := strings.LastIndex(decl, " "); i >= 0 {
			before, name, sep = decl[:i], decl[i+1:], " "
		}
		r.prefix = "@param\t"
		r.endCodeIfNeeded()
		return fmt.Sprintf("#@param\t%s %s %s %s", name, before, sep, m[5]), true
	}
	if m := patterns.RstType.FindStringSubmatch(line); m != nil {
		r.endCodeIfNeeded()
		return fmt.Sprintf("#%s@n type of %s: %s", m[1], m[2], m[3]), true
	}
	if m := patterns.RstReturn.FindStringSubmatch(line); m != nil {
		r.prefix = "@return\t"
		r.endCodeIfNeeded()
		return fmt.Sprintf("#@return %s %s", m[1], m[2]), true
	}
	if m := patterns.RstRType.FindStringSubmatch(line); m != nil {
		r.endCodeIfNeeded()
		return fmt.Sprintf("#%s@n return type of %s: %s", m[1], m[2], m[3]), true
	}
	if patterns.TableBorder.MatchString(line) {
		r.inTable = true
		r.tableStart = lineNum
		r.tableColumns = patterns.TableColumns(line)
		r.tableCount++
		// The number keeps the caption from reading as a list item.
		line = fmt.Sprintf("%sTable %d", strings.Repeat(" ", patterns.IndentWidth(line, r.opts.TabLength)), r.tableCount)
	}

	if m := patterns.Item.FindStringSubmatch(line); m != nil && !r.inCodeBlock {
		name := m[patterns.Item.SubexpIndex("name")]
		desc := m[patterns.Item.SubexpIndex("desc")]
		if strings.Contains(r.prefix, "property") {
			return fmt.Sprintf("# %s\t%s\n# %s", r.prefix, name, desc), false
		}
		return fmt.Sprintf(" %s\t%s\t%s", r.prefix, name, desc), false
	}

	if m := patterns.RaisesStart.FindStringSubmatch(line); m != nil {
		if strings.Contains(strings.ToLower(m[1]), "see") {
			r.prefix = "@sa\t"
		} else {
			r.prefix = "@exception\t"
		}
		r.endCodeIfNeeded()
		return "#" + rstrip(strings.ReplaceAll(line, m[0], "")), true
	}
	if m := patterns.List.FindString(line); m != "" && !r.inCodeBlock {
		var sb strings.Builder
		for _, item := range patterns.ListItems(m) {
			fmt.Fprintf(&sb, "# %s\t%s\n", r.prefix, item)
		}
		return sb.String()[1:], false
	}
	if m := patterns.ExamplesStart.FindString(line); m != "" &&
		r.opts.AutoCode && strings.TrimSpace(r.lastLine()) == "#" {
		r.inCodeBlock = true
		*r.inCodeObj = true
		return strings.ReplaceAll(line, m, " @b Examples\n# @code"), false
	}
	if m := patterns.SectionStart.FindStringSubmatch(line); m != nil {
		r.prefix = ""
		r.inSection = true
		r.sectionIndent = patterns.IndentWidth(line, r.opts.TabLength)
		line = strings.ReplaceAll(line, m[0], " @par "+m[1])
		if r.lastLine() == "# @par" {
			r.setLastLine("#")
		}
		r.endCodeIfNeeded()
		return "#" + line, true
	}
	if m := patterns.RstLiteral.FindStringSubmatch(line); m != nil && !r.inCodeBlock {
		r.inLiteral = true
		r.literalIndent = patterns.IndentWidth(line, r.opts.TabLength)
		if strings.TrimSpace(m[1]) == "" {
			return "", false
		}
		return m[1] + ":", false
	}

	if r.prefix != "" {
		if m := patterns.SingleItem.FindString(line); m != "" && !r.inCodeBlock {
			return fmt.Sprintf(" %s\t%s", r.prefix, m), false
		}
	}
	if r.opts.AutoCode {
		r.checker.Send(line, r.lines, lineNum-r.firstLineNum)
		r.inCodeBlock = *r.inCodeObj
	}
	return line, false
}

// tableLine rewrites one line inside a simple table.
func (r *Rewriter) tableLine(lineNum int, line string) string {
	if patterns.IsBlank(line) {
		r.inTable = false
		return line
	}
	if patterns.TableBorder.MatchString(line) {
		if r.tableStart+2 == lineNum {
			// The border under the header row.
			line = strings.ReplaceAll(line, "=", "-")
		} else {
			line = strings.ReplaceAll(line, " =", " -")
			line = strings.ReplaceAll(line, "=", " ")
		}
	}
	b := []byte(line)
	for _, pos := range r.tableColumns {
		if pos < len(b) && b[pos] == ' ' {
			b[pos] = '|'
		}
	}
	return string(b)
}

func rstrip(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
