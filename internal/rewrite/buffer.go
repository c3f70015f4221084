package rewrite

import (
	"bufio"
	"io"
	"strings"
	"unicode"
)

// Buffer is the in-memory LineEditor for one source file.
type Buffer struct {
	slots []string
}

// NewBuffer wraps lines (without terminators) in a Buffer. The slice is copied.
func NewBuffer(lines []string) *Buffer {
	return &Buffer{slots: append([]string(nil), lines...)}
}

// Len returns the number of slots.
func (b *Buffer) Len() int {
	return len(b.slots)
}

// Line returns slot i, or "" when i is out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.slots) {
		return ""
	}
	return b.slots[i]
}

// SetLine overwrites slot i.
func (b *Buffer) SetLine(i int, text string) {
	if i < 0 || i >= len(b.slots) {
		return
	}
	b.slots[i] = text
}

// Slice returns a copy of slots [start, end), clamped to the buffer.
func (b *Buffer) Slice(start, end int) []string {
	start, end = b.clamp(start, end)
	return append([]string(nil), b.slots[start:end]...)
}

// Replace swaps slots [start, end) for lines and returns the change in slot count.
func (b *Buffer) Replace(start, end int, lines []string) int {
	start, end = b.clamp(start, end)
	delta := len(lines) - (end - start)

	out := make([]string, 0, len(b.slots)+delta)
	out = append(out, b.slots[:start]...)
	out = append(out, lines...)
	out = append(out, b.slots[end:]...)
	b.slots = out
	return delta
}

func (b *Buffer) clamp(start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > len(b.slots) {
		end = len(b.slots)
	}
	if start > end {
		start = end
	}
	return start, end
}

// Lines returns the flattened output lines.
func (b *Buffer) Lines() []string {
	out := make([]string, 0, len(b.slots))
	for _, slot := range b.slots {
		for _, line := range strings.Split(trimRight(slot), "\n") {
			out = append(out, trimRight(line))
		}
	}
	return out
}

// String returns the flattened output with a '\n' after every line.
func (b *Buffer) String() string {
	var sb strings.Builder
	_, _ = b.WriteTo(&sb)
	return sb.String()
}

// WriteTo streams the flattened output to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, line := range b.Lines() {
		c, err := bw.WriteString(line)
		n += int64(c)
		if err != nil {
			return n, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

var _ LineEditor = (*Buffer)(nil)
