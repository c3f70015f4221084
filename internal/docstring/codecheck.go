package docstring

import (
	"strings"

	"pydoxy/internal/parser"
	"pydoxy/internal/patterns"
)

// Compiler decides whether text is a complete interactive Python statement.
type Compiler interface {
	Compile(src string) parser.Compilation
}

type verdict int

const (
	undecided verdict = iota
	isCode
	isProse
)

// resume records where the checker stopped waiting for the next line.
type resume int

const (
	resumeFresh      resume = iota // start a new run with the next line
	resumeReplace                  // the pending text was ambiguous; look at the next line alone
	resumeAccumulate               // fold the next line into the pending text
)

// CodeChecker classifies docstring lines as doctest code or prose, possibly
// deferring the decision across several lines. When the shared in-code flag
// flips it annotates the batch lines with @code or @endcode.
type CodeChecker struct {
	inCode   *bool
	compiler Compiler

	next           resume
	testLine       string
	testLineNum    int // lines folded into the pending run
	currentLineNum int // batch index that receives a marker
}

// NewCodeChecker returns a checker that shares inCode with its caller.
func NewCodeChecker(inCode *bool, compiler Compiler) *CodeChecker {
	return &CodeChecker{inCode: inCode, compiler: compiler}
}

// Send feeds one docstring line. lines is the batch emitted so far (the
// current line not yet included) and lineNum the line's index within it.
func (c *CodeChecker) Send(line string, lines []string, lineNum int) {
	switch c.next {
	case resumeFresh:
		c.testLine = strings.TrimSpace(line)
		c.testLineNum = 1
		c.currentLineNum = 0
	case resumeReplace:
		c.testLine = strings.TrimSpace(line)
		c.currentLineNum = lineNum - c.testLineNum
	case resumeAccumulate:
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, ">>>") {
			c.currentLineNum = lineNum - c.testLineNum
			c.settle(isCode, lines)
			return
		}
		c.testLine = strings.TrimSpace(c.testLine + "\n" + trimmed)
		c.testLineNum++
		c.currentLineNum = lineNum - c.testLineNum
	}

	for {
		v, wait := c.evaluate(lines)
		if wait != resumeFresh {
			c.next = wait
			return
		}
		c.currentLineNum = lineNum - c.testLineNum
		if v != undecided {
			c.settle(v, lines)
			return
		}
	}
}

// evaluate classifies the pending text, or says how to wait for more input.
func (c *CodeChecker) evaluate(lines []string) (verdict, resume) {
	t := c.testLine
	switch {
	case t == "" || t == "..." || patterns.ErrorLine.MatchString(t):
		return undecided, resumeReplace
	case strings.HasPrefix(t, ">>>"), strings.HasPrefix(t, "..."):
		return isCode, resumeFresh
	}

	switch c.compiler.Compile(t) {
	case parser.Invalid:
		return isProse, resumeFresh
	case parser.Complete:
		i := c.currentLineNum
		if i < 0 || i >= len(lines) {
			return undecided, resumeReplace
		}
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "#") {
			return isCode, resumeFresh
		}
	}
	return undecided, resumeAccumulate
}

// settle applies a decision and starts a fresh run.
func (c *CodeChecker) settle(v verdict, lines []string) {
	c.next = resumeFresh
	i := c.currentLineNum
	if i < 0 || i >= len(lines) {
		return
	}
	switch {
	case !*c.inCode && v == isCode:
		*c.inCode = true
		lines[i] += "\n# @code\n"
	case *c.inCode && v == isProse:
		*c.inCode = false
		lines[i] += "\n# @endcode\n"
	}
}

// pending reports whether a run is still waiting for a decision. A run
// that is still pending when the docstring ends counts as prose.
func (c *CodeChecker) pending() bool {
	return c.next != resumeFresh
}
