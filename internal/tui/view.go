package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555")).
			Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000"))
)

// ModelView renders the TUI model's view as a string.
func ModelView(m model) string {
	if m.quitting {
		return "Goodbye!\n"
	}

	block := lipgloss.JoinVertical(lipgloss.Left, headerStyle.Render("Doxygen block"), m.viewport.View())
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(m.list.View()),
		paneStyle.Render(block),
	)
	return lipgloss.JoinVertical(lipgloss.Left, panes, statusLine(m))
}

func statusLine(m model) string {
	if m.err != nil {
		return errorStyle.Render(wrapText(m.err.Error(), max(m.width-2, 20)))
	}
	if m.reloadedAt.IsZero() {
		return statusStyle.Render("Loading " + m.file + "...")
	}
	watching := ""
	if m.watcher != nil {
		watching = ", watching"
	}
	return statusStyle.Render(fmt.Sprintf("%d docstrings, %d lines, reloaded %s%s  (r reload, q quit)",
		len(m.entries), m.lines, m.reloadedAt.Format("15:04:05"), watching))
}
