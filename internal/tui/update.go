package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"pydoxy/internal/core"
	"pydoxy/internal/watcher"
)

// Message types for Bubbletea update loop
type reloadMsg struct {
	res *core.Result
	err error
}
type fileChangedMsg struct{}
type watchErrMsg struct{ err error }

// reloadCmd returns a Bubbletea command that filters the file again.
func reloadCmd(load Loader) tea.Cmd {
	return func() tea.Msg {
		res, err := load()
		return reloadMsg{res: res, err: err}
	}
}

// watchCmd returns a Bubbletea command that waits for the next file change or error.
func watchCmd(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.Changes():
			return fileChangedMsg{}
		case err := <-w.Errors():
			return watchErrMsg{err: err}
		}
	}
}

// Update handles all Bubbletea update logic for the TUI model.
func Update(m model, msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(m, msg)
	case reloadMsg:
		return handleReloadMsg(m, msg)
	case fileChangedMsg:
		return m, tea.Batch(reloadCmd(m.load), watchCmd(m.watcher))
	case watchErrMsg:
		m.err = msg.err
		return m, watchCmd(m.watcher)
	case tea.WindowSizeMsg:
		return handleWindowResize(m, msg)
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
}

func HandleKeyMsg(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	if m.quitting {
		// If quitting, ignore further input
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "r":
		return m, reloadCmd(m.load)
	case "pgdown", "pgup", "ctrl+d", "ctrl+u":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	default:
		// Forward other keys to the list for navigation, then show the new selection.
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		m = showSelected(m)
		return m, cmd
	}
}

func handleReloadMsg(m model, msg reloadMsg) (model, tea.Cmd) {
	if msg.err != nil {
		// Keep showing the last good result.
		m.err = msg.err
		return m, nil
	}
	m.err = nil
	m.entries = msg.res.Entries
	m.lines = len(msg.res.Buffer.Lines())
	m.reloadedAt = m.clock.Now()

	selected := ""
	if item, ok := m.list.SelectedItem().(EntryItem); ok {
		selected = item.Entry.Path
	}
	items := make([]list.Item, len(m.entries))
	index := 0
	for i, e := range m.entries {
		items[i] = EntryItem{Entry: e}
		if e.Path == selected {
			index = i
		}
	}
	cmd := m.list.SetItems(items)
	m.list.Select(index)
	return showSelected(m), cmd
}

// showSelected puts the block of the selected entry into the viewport.
func showSelected(m model) model {
	item, ok := m.list.SelectedItem().(EntryItem)
	if !ok {
		m.viewport.SetContent("")
		return m
	}
	m.viewport.SetContent(strings.Join(item.Entry.Block, "\n"))
	m.viewport.GotoTop()
	return m
}

func handleWindowResize(m model, msg tea.WindowSizeMsg) (model, tea.Cmd) {
	m.height = msg.Height
	m.width = msg.Width
	listWidth, viewWidth := paneWidths(msg.Width)
	paneHeight := max(msg.Height-6, 5)
	m.list.SetSize(listWidth, paneHeight)
	m.viewport.Width = viewWidth
	m.viewport.Height = paneHeight
	return m, nil
}
