package rewrite

import "strings"

// Batch is a run of rewritten docstring lines together with the
// docstring-local range [First, Last] they replace.
type Batch struct {
	First int
	Last  int
	Lines []string
}

// DocWriter splices batches into the slots of one docstring. The slot count
// never changes: short batches are padded with empty lines and surplus lines
// are merged into the last slot of the range.
type DocWriter struct {
	lines []string
}

// NewDocWriter takes ownership of the docstring slots.
func NewDocWriter(lines []string) *DocWriter {
	return &DocWriter{lines: lines}
}

// Write splices b into the docstring.
func (w *DocWriter) Write(b Batch) {
	n := b.Last - b.First + 1
	if n <= 0 || b.First < 0 || b.Last >= len(w.lines) {
		return
	}
	lines := append([]string(nil), b.Lines...)
	for len(lines) < n {
		lines = append(lines, "")
	}
	if len(lines) > n {
		lines[n-1] = strings.Join(lines[n-1:], "\n")
		lines = lines[:n]
	}
	copy(w.lines[b.First:], lines)
}

// Lines returns the current docstring slots.
func (w *DocWriter) Lines() []string {
	return w.lines
}
