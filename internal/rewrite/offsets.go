package rewrite

import "sort"

// BuildLineOffsets returns a slice of byte offsets where each new line begins.
// E.g. if content[0]=='a' and content[5]=='\n', then offsets = [0,6,...].
func BuildLineOffsets(content []byte) []int {
	offsets := []int{0}
	for i, b := range content {
		if b == '\n' && i+1 < len(content) {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// LineIndexOfByte returns the 0-based line index that contains offset,
// given the line offsets from BuildLineOffsets.
func LineIndexOfByte(lineOffsets []int, offset int) int {
	i := sort.Search(len(lineOffsets), func(i int) bool {
		return lineOffsets[i] > offset
	})
	if i == 0 {
		return 0
	}
	return i - 1
}
