// Package tui previews the rewritten docstrings of one file.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"pydoxy/internal/clock"
	"pydoxy/internal/watcher"
)

// wrapText wraps input text to lines no longer than maxWidth display cells.
// It wraps on word boundaries to avoid breaking words when possible.
func wrapText(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}

	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var lineBuilder strings.Builder
		lineWidth := 0
		for _, word := range words {
			wordWidth := runewidth.StringWidth(word)
			if lineWidth > 0 && lineWidth+1+wordWidth > maxWidth {
				lines = append(lines, lineBuilder.String())
				lineBuilder.Reset()
				lineWidth = 0
			}
			if lineWidth > 0 {
				lineBuilder.WriteString(" ")
				lineWidth++
			}
			lineBuilder.WriteString(word)
			lineWidth += wordWidth
		}
		lines = append(lines, lineBuilder.String())
	}
	return strings.Join(lines, "\n")
}

// Init loads the file and, when watching, starts waiting for changes.
func (m model) Init() tea.Cmd {
	return tea.Batch(reloadCmd(m.load), watchCmd(m.watcher))
}

// Run launches the preview for file. w may be nil to disable watching.
func Run(file string, load Loader, w *watcher.Watcher, clk clock.Clock) error {
	m := initialModel(file, load, w, clk, 24)
	p := tea.NewProgram(&teaModelAdapter{m}, tea.WithAltScreen())

	_, err := p.Run()
	return err
}

// teaModelAdapter adapts our model to the tea.Model interface using Update and ModelView.
type teaModelAdapter struct {
	m model
}

func (a *teaModelAdapter) Init() tea.Cmd {
	return a.m.Init()
}

func (a *teaModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m2, cmd := Update(a.m, msg)
	a.m = m2
	return a, cmd
}

func (a *teaModelAdapter) View() string {
	return ModelView(a.m)
}
