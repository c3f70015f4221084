package rewrite

// LineEditor lets you read and splice a source file at the granularity of
// its original lines. Each slot holds one original line; a rewritten slot
// may hold several output lines joined by '\n'.
type LineEditor interface {
	// Len returns the number of slots.
	Len() int

	// Line returns slot i, or "" when i is out of range.
	Line(i int) string

	// SetLine overwrites slot i. Out-of-range indexes are ignored.
	SetLine(i int, text string)

	// Slice returns a copy of slots [start, end), clamped to the buffer.
	Slice(start, end int) []string

	// Replace swaps slots [start, end) for lines and returns the change in
	// slot count. Callers that need stable line numbers pass exactly
	// end-start lines.
	Replace(start, end int, lines []string) int

	// Lines returns the flattened output: embedded newlines split out and
	// trailing whitespace trimmed from every line.
	Lines() []string
}
