package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pydoxy/internal/clock"
	"pydoxy/internal/core"
	"pydoxy/internal/rewrite"
	"pydoxy/internal/walker"
	"pydoxy/pkg/decl"
)

var start = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleResult() *core.Result {
	return &core.Result{
		Buffer: rewrite.NewBuffer([]string{"## @brief Shapes.", "class Shape:", "    pass"}),
		Entries: []walker.Entry{
			{Path: "shapes", Kind: decl.KindModule, Line: 0, Block: []string{"## @brief Shapes."}},
			{Path: "shapes.Shape", Kind: decl.KindClass, Line: 2, Block: []string{"## @brief A shape.", "# @namespace shapes.Shape"}},
			{Path: "shapes.Shape.area", Kind: decl.KindFunction, Line: 5, Block: []string{"    ## @brief Area."}},
		},
	}
}

// countingLoader returns a loader handing out res and counting its calls.
func countingLoader(res *core.Result, err error, calls *int) Loader {
	return func() (*core.Result, error) {
		*calls++
		return res, err
	}
}

func loaded(t *testing.T) (model, *clock.MockClock) {
	t.Helper()
	clk := clock.NewMockClock(start)
	calls := 0
	m := initialModel("shapes.py", countingLoader(sampleResult(), nil, &calls), nil, clk, 24)
	m, _ = Update(m, reloadMsg{res: sampleResult()})
	return m, clk
}

func TestEntryItem(t *testing.T) {
	tests := []struct {
		name  string
		entry walker.Entry
		want  string
	}{
		{"module", walker.Entry{Path: "shapes", Kind: decl.KindModule}, "module"},
		{"function", walker.Entry{Path: "shapes.area", Kind: decl.KindFunction, Line: 7}, decl.KindFunction.String() + ", line 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := EntryItem{Entry: tt.entry}
			if got := item.Description(); got != tt.want {
				t.Errorf("Description() got = %v, want %v", got, tt.want)
			}
			assert.Equal(t, tt.entry.Path, item.Title())
			assert.Equal(t, tt.entry.Path, item.FilterValue())
		})
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "syntax error", 20, "syntax error"},
		{"wraps on words", "parse shapes.py: syntax error", 12, "parse\nshapes.py:\nsyntax error"},
		{"keeps paragraphs", "a b\nc", 10, "a b\nc"},
		{"wide runes", "日本語 日本語", 8, "日本語\n日本語"},
		{"no width", "a b", 0, "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapText(tt.in, tt.width); got != tt.want {
				t.Errorf("wrapText() got = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModelView(t *testing.T) {
	m, _ := loaded(t)

	view := ModelView(m)

	assert.Contains(t, view, "shapes.py")
	assert.Contains(t, view, "shapes.Shape")
	assert.Contains(t, view, "## @brief Shapes.")
	assert.Contains(t, view, "3 docstrings, 3 lines, reloaded 12:00:00")
}

func TestModelViewShowsError(t *testing.T) {
	m, _ := loaded(t)
	m, _ = Update(m, reloadMsg{err: errors.New("parse shapes.py: syntax error")})

	view := ModelView(m)

	assert.Contains(t, view, "syntax error")
	assert.NotContains(t, view, "reloaded")
}

func TestModelViewLoading(t *testing.T) {
	m := initialModel("shapes.py", nil, nil, clock.NewMockClock(start), 24)
	assert.Contains(t, ModelView(m), "Loading shapes.py...")
}

func TestModelViewQuitting(t *testing.T) {
	m, _ := loaded(t)
	m, _ = HandleKeyMsg(m, simulateKeyMsg("q"))
	require.True(t, m.quitting)
	assert.Equal(t, "Goodbye!\n", ModelView(m))
}

// simulateKeyMsg creates a tea.KeyMsg for a given string key
func simulateKeyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{
		Type:  tea.KeyRunes,
		Runes: []rune(key),
	}
}
