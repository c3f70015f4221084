package docstring

import (
	"regexp"
	"strings"

	"pydoxy/internal/patterns"
)

// CollapseBrief drops leading empty comment lines and tags a one-paragraph
// summary as the brief description. The slot count is preserved: every
// dropped line is replaced by an empty one at the end.
func CollapseBrief(doc []string) []string {
	safety := 0
	for len(doc) > 0 && strings.TrimSpace(strings.TrimLeft(doc[0], "#")) == "" {
		doc = append(doc[1:], "")
		safety++
		if safety >= len(doc) {
			// Nothing but blank lines.
			break
		}
	}
	if len(doc) == 0 {
		return doc
	}

	if len(doc) == 1 || isBriefBreak(doc[1]) {
		doc[0] = "## @brief " + strings.TrimLeft(doc[0], "#")
		if len(doc) > 1 && doc[1] == "# @par" {
			doc[1] = "#"
		}
	}
	if safety > 0 && !strings.HasPrefix(strings.TrimSpace(doc[0]), "##") {
		doc[0] = "##" + doc[0]
	}
	return doc
}

// isBriefBreak reports whether the second docstring line ends the summary.
func isBriefBreak(line string) bool {
	body := strings.Trim(line, " \t\n\r\v\f#")
	return body == "" || strings.HasPrefix(body, "@")
}

// Reindent moves every comment marker of doc to indent. With equal set, the
// copy of indent that follows the marker is removed too, so the text lines up
// with the declaration rather than with the docstring body.
func Reindent(doc []string, indent string, equal bool) []string {
	for i, line := range doc {
		doc[i] = patterns.CommentStart.ReplaceAllLiteralString(line, indent+"#")
	}
	if !equal || indent == "" {
		return doc
	}

	inner := regexp.MustCompile("^" + regexp.QuoteMeta(indent) + "#+(" + regexp.QuoteMeta(indent) + ")")
	for i, line := range doc {
		loc := inner.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		doc[i] = line[:loc[2]] + line[loc[3]:]
	}
	return doc
}
