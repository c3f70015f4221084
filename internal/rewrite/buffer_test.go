package rewrite

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferReplaceKeepsSlotCount(t *testing.T) {
	b := NewBuffer([]string{"def f():", `    """Doc."""`, "    return 1"})

	delta := b.Replace(0, 2, []string{"## @brief Doc.", "def f():"})
	assert.Equal(t, 0, delta)
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, "def f():", b.Line(1))
	assert.Equal(t, "    return 1", b.Line(2))
}

func TestBufferReplaceClampsRange(t *testing.T) {
	b := NewBuffer([]string{"a", "b"})

	delta := b.Replace(1, 10, []string{"x", "y"})
	assert.Equal(t, 1, delta)
	assert.Equal(t, []string{"a", "x", "y"}, b.Lines())
	assert.Empty(t, b.Slice(5, 9))
	assert.Equal(t, "", b.Line(-1))
}

func TestBufferLinesFlattensSlots(t *testing.T) {
	b := NewBuffer([]string{"x = 1   ", "## @var _y\n# @protected  \n_y = 2\n", "  "})

	assert.Equal(t, []string{"x = 1", "## @var _y", "# @protected", "_y = 2", ""}, b.Lines())
	assert.Equal(t, "x = 1\n## @var _y\n# @protected\n_y = 2\n\n", b.String())
}

func TestDocWriterPadsShortBatches(t *testing.T) {
	doc := []string{"a", "b", "c", "d"}
	w := NewDocWriter(doc)

	w.Write(Batch{First: 1, Last: 3, Lines: []string{"#b"}})
	assert.Equal(t, []string{"a", "#b", "", ""}, w.Lines())
}

func TestDocWriterMergesLongBatches(t *testing.T) {
	w := NewDocWriter([]string{"a", "b"})

	w.Write(Batch{First: 0, Last: 0, Lines: []string{"#a", "#extra"}})
	assert.Equal(t, []string{"#a\n#extra", "b"}, w.Lines())

	// Empty ranges are ignored.
	w.Write(Batch{First: 1, Last: 0})
	assert.Equal(t, []string{"#a\n#extra", "b"}, w.Lines())
}

func TestLineIndexOfByte(t *testing.T) {
	content := []byte("ab\ncd\n\nef")
	offsets := BuildLineOffsets(content)
	assert.Equal(t, []int{0, 3, 6, 7}, offsets)

	tests := []struct {
		offset int
		want   int
	}{
		{0, 0}, {2, 0}, {3, 1}, {6, 2}, {8, 3},
	}
	for _, tt := range tests {
		if got := LineIndexOfByte(offsets, tt.offset); got != tt.want {
			t.Errorf("LineIndexOfByte(%d) got = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := NewBuffer([]string{"## @brief Doc.\ndef f():", "    pass"})

	require.NoError(t, Save(fs, "/mod.py", b))
	data, err := afero.ReadFile(fs, "/mod.py")
	require.NoError(t, err)
	assert.Equal(t, "## @brief Doc.\ndef f():\n    pass\n", string(data))
}
