// Package source loads a Python file into clean Unicode lines.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// ErrEmptyPath is returned when no input file was given.
var ErrEmptyPath = errors.New("no filename given")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
)

// Load reads path from fs and returns its lines without terminators.
func Load(fs afero.Fs, path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return SplitLines(text), nil
}

// Decode converts raw file content to a string, stripping any byte-order
// mark. Content without a BOM that is not valid UTF-8 is read as ISO-8859-1.
func Decode(data []byte) (string, error) {
	var t transform.Transformer
	switch {
	// UTF-32LE first: its BOM starts with the UTF-16LE one.
	case bytes.HasPrefix(data, bomUTF32LE):
		t = utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder()
	case bytes.HasPrefix(data, bomUTF32BE):
		t = utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder()
	case bytes.HasPrefix(data, bomUTF8),
		bytes.HasPrefix(data, bomUTF16BE),
		bytes.HasPrefix(data, bomUTF16LE):
		t = unicode.BOMOverride(transform.Nop)
	case utf8.Valid(data):
		return string(data), nil
	default:
		t = charmap.ISO8859_1.NewDecoder()
	}
	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// SplitLines splits text on any line terminator. A final terminator does not
// start another line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
