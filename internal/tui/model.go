package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"

	"pydoxy/internal/clock"
	"pydoxy/internal/core"
	"pydoxy/internal/walker"
	"pydoxy/internal/watcher"
	"pydoxy/pkg/decl"
)

// EntryItem represents a rewritten docstring for the list.
type EntryItem struct {
	Entry walker.Entry
}

func (e EntryItem) Title() string { return e.Entry.Path }
func (e EntryItem) Description() string {
	if e.Entry.Kind == decl.KindModule {
		return "module"
	}
	return fmt.Sprintf("%s, line %d", e.Entry.Kind, e.Entry.Line)
}
func (e EntryItem) FilterValue() string { return e.Entry.Path }

// Loader runs the filter over the previewed file.
type Loader func() (*core.Result, error)

// model is the Bubbletea model for the TUI.
type model struct {
	file    string
	load    Loader
	watcher *watcher.Watcher // nil unless watching
	clock   clock.Clock

	list     list.Model
	viewport viewport.Model

	entries    []walker.Entry
	lines      int // output lines of the last good result
	err        error
	reloadedAt time.Time
	quitting   bool
	height     int // Track terminal height for dynamic resizing
	width      int // Track terminal width for dynamic resizing
}

// initialModel creates the initial TUI model. Entries arrive with the
// first reload.
func initialModel(file string, load Loader, w *watcher.Watcher, clk clock.Clock, height int) model {
	defaultWidth := 80
	listWidth, viewWidth := paneWidths(defaultWidth)
	paneHeight := max(height-6, 5)

	l := list.New(nil, list.NewDefaultDelegate(), listWidth, paneHeight)
	l.Title = file
	l.SetShowHelp(false)

	return model{
		file:     file,
		load:     load,
		watcher:  w,
		clock:    clk,
		list:     l,
		viewport: viewport.New(viewWidth, paneHeight),
		height:   height,
		width:    defaultWidth,
	}
}

// paneWidths splits the terminal width between the list and the block view.
func paneWidths(width int) (int, int) {
	listWidth := max(width/3, 20)
	return listWidth, max(width-listWidth-6, 20)
}
