// Package patterns holds the line predicates used to recognise docstring
// structure and Python declaration conventions. Every pattern is compiled
// once at package initialisation and never mutated.
package patterns

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// word is the class body of a Python 3 identifier character. RE2's \w is
// ASCII only.
const word = `\p{L}\p{M}\p{N}_`

var (
	// Indent captures the leading whitespace of a non-blank line.
	Indent = regexp.MustCompile(`^(\s*)\S`)
	// CommentStart matches the comment marker at the start of every embedded line.
	CommentStart = regexp.MustCompile(`(?m)^#`)
	// BlankLine matches lines holding only whitespace.
	BlankLine = regexp.MustCompile(`^\s*$`)

	// DocstringMarker recognises the line that opens a docstring: either an
	// (optionally prefixed) triple quote at the start, or a line that is only
	// a closing triple quote.
	DocstringMarker = regexp.MustCompile(`^(?:\s*([uUbB]*[rR]?(['"]{3}))|\s*(['"]{3})\s*$)`)
	// DocstringDelimiter removes the opening and closing quotes from the
	// first and last docstring lines.
	DocstringDelimiter = regexp.MustCompile(`^\s*[uUbB]*[rR]?['"]{3}|\s*['"]{3}\s*$`)
	// DocstringOneLine needs a backreference to the opening quote, which RE2 lacks.
	DocstringOneLine = regexp2.MustCompile(`^\s*[uUbB]*[rR]?(['"]{3})(.+)\1`, regexp2.None)

	Implements = regexp.MustCompile(`(?i)^(\s*)(?:zope\.)?(?:interface\.)?` +
		`(?:module|class|directly)?(?:Provides|Implements)\(\s*(.+)\s*\)`)

	ClassDecl     = regexp.MustCompile(`^\s*class\s+(\S+)\s*\((\S+)\):`)
	InterfaceDecl = regexp.MustCompile(`(?i)^\s*class\s+(\S+)\s*\(\s*(?:zope\.)?` +
		`(?:interface\.)?Interface\s*\)\s*:`)
	AttributeDecl = regexp.MustCompile(`(?i)^(\s*)(\S+)\s*=\s*(?:zope\.)?` +
		`(?:interface\.)?Attribute\s*\(['"]{1,3}(.*)['"]{1,3}\)`)

	// Setter matches the expression of a "@name.setter" decorator.
	Setter = regexp.MustCompile(`^[` + word + `.]*\.setter$`)

	ArgsStart = regexp.MustCompile(`(?i)^(\s*(?:(?:Keyword\s+)?(?:A|Kwa)rg(?:ument)?|Attribute)s?\s*:\s*)$`)
	// Item is a "name [(type)] (-|:) description" pair.
	Item = regexp.MustCompile(`^\s*(?P<name>[` + word + `]+)\s*(?P<type>\(?\S*\)?)?\s*(?:-|:)+\s+(?P<desc>.+)$`)

	ReturnsStart  = regexp.MustCompile(`(?i)^\s*(?:Return|Yield)s:\s*$`)
	RaisesStart   = regexp.MustCompile(`(?i)^\s*(Raises|Exceptions|See Also):\s*$`)
	List          = regexp.MustCompile(`^\s*(([` + word + `.]+),\s*)+(&|and)?\s*([` + word + `.]+)$`)
	SingleItem    = regexp.MustCompile(`^\s*([` + word + `.]+)\s*$`)
	listItem      = regexp.MustCompile(`([` + word + `.]+),?\s*`)
	ExamplesStart = regexp.MustCompile(`(?i)^\s*(?:Example|Doctest)s?:\s*$`)
	SectionStart  = regexp.MustCompile(`^\s*(([A-Z][` + word + `]* ?){1,2}):\s*$`)

	// ErrorLine matches traceback lines, exception lines and lone words,
	// all of which compile or fail to compile for the wrong reasons.
	ErrorLine = regexp.MustCompile(`(?i)^\s*((?:\S+Error|Traceback.*):?\s*(.*)|@?[` + word + `.]+)\s*$`)

	RstParam  = regexp.MustCompile(`^\s*(?::param(eter)?|:arg(ument)?|:key(word)?)([^:]*):\s*(.*)`)
	RstType   = regexp.MustCompile(`^(\s*)(?::type)\s*([` + word + `]*)\s*:(.*)`)
	RstRType  = regexp.MustCompile(`^(\s*)(?::rtype)\s*(.*):(.*)`)
	RstReturn = regexp.MustCompile(`^\s*(?::return)\s*(.*): (.*)$`)

	// RstLiteral matches a paragraph that introduces a literal block.
	RstLiteral = regexp.MustCompile(`^(.*)::$`)
	// TableBorder matches a simple reStructuredText table border.
	TableBorder = regexp.MustCompile(`^\s*=+\s+(=+\s*)+$`)
)

// Metadata pairs a one-line field label with the tag that replaces it.
type Metadata struct {
	Tag     string
	Pattern *regexp.Regexp
}

// MetadataFields are tried in this order on every docstring line.
var MetadataFields = []Metadata{
	{" @author: ", regexp.MustCompile(`(?i)^(\s*Authors?:\s*)(.*)$`)},
	{" @copyright ", regexp.MustCompile(`(?i)^(\s*Copyright:\s*)(.*)$`)},
	{" @date ", regexp.MustCompile(`(?i)^(\s*Date:\s*)(.*)$`)},
	{" @file ", regexp.MustCompile(`(?i)^(\s*File:\s*)(.*)$`)},
	{" @version: ", regexp.MustCompile(`(?i)^(\s*Version:\s*)(.*)$`)},
	{" @note ", regexp.MustCompile(`(?i)^(\s*Note:\s*)(.*)$`)},
	{" @warning ", regexp.MustCompile(`(?i)^(\s*Warning:\s*)(.*)$`)},
}

// OpeningQuote returns the triple quote that opens or closes a docstring
// on line, or "" when the line carries no docstring marker.
func OpeningQuote(line string) string {
	m := DocstringMarker.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	if m[2] != "" {
		return m[2]
	}
	return m[3]
}

// IsOneLineDocstring reports whether line opens and closes a docstring.
func IsOneLineDocstring(line string) bool {
	ok, err := DocstringOneLine.MatchString(line)
	return err == nil && ok
}

// IsBlank reports whether line holds only whitespace.
func IsBlank(line string) bool {
	return BlankLine.MatchString(line)
}

// LeadingSpace returns the whitespace before the first non-blank character,
// or "" for blank lines.
func LeadingSpace(line string) string {
	if m := Indent.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

// IndentWidth is the width of line's leading whitespace once tabs are
// expanded to tabLength columns.
func IndentWidth(line string, tabLength int) int {
	expanded := ExpandTabs(line, tabLength)
	return len(expanded) - len(strings.TrimLeft(expanded, " \t\n\v\f\r"))
}

// ExpandTabs replaces every tab with spaces up to the next tab stop.
func ExpandTabs(line string, tabLength int) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		switch r {
		case '\t':
			if tabLength > 0 {
				n := tabLength - col%tabLength
				b.WriteString(strings.Repeat(" ", n))
				col += n
			}
		case '\n', '\r':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

// StripOutAnds drops the joining "and" and "&" words of a list line.
func StripOutAnds(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, " and ", " "), " & ", " ")
}

// ListItems returns the dotted identifiers of a list line in order.
func ListItems(s string) []string {
	var items []string
	for _, m := range listItem.FindAllStringSubmatch(StripOutAnds(s), -1) {
		items = append(items, m[1])
	}
	return items
}

// TableColumns returns the inner column boundaries of a table border: the
// position just after every "=" that is followed by a space.
func TableColumns(border string) []int {
	var cols []int
	for pos := strings.Index(border, "= "); pos != -1; {
		cols = append(cols, pos+1)
		next := strings.Index(border[pos+1:], "= ")
		if next == -1 {
			break
		}
		pos += 1 + next
	}
	return cols
}
