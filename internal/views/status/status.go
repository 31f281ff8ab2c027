// Package status renders the header bar: connection indicator, identity,
// unread badge and the transient notice line.
package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/taskboard/tui/internal/client"
	"github.com/taskboard/tui/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	Width    int
	Conn     client.AggregateStatus
	UserName string
	Unread   int
	Notice   string
	NoticeErr bool
}

// New creates a status bar model.
func New() Model {
	return Model{}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	var connStr string
	switch m.Conn {
	case client.AggregateConnected:
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● Connected")
	case client.AggregatePartial:
		connStr = lipgloss.NewStyle().Foreground(theme.ColorWarning).Render("◐ Partially Connected")
	default:
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("○ Disconnected")
	}

	name := m.UserName
	if name == "" {
		name = "—"
	}
	identity := theme.StyleHeader.Render(name)

	badge := theme.StyleDimmed.Render("no unread")
	if m.Unread > 0 {
		badge = lipgloss.NewStyle().Foreground(theme.ColorUnread).
			Render(fmt.Sprintf("🔔 %d unread", m.Unread))
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := identity + sep + connStr + sep + badge
	if m.Notice != "" {
		noticeStyle := theme.StyleAccent
		if m.NoticeErr {
			noticeStyle = theme.StyleError
		}
		content += sep + noticeStyle.Render(m.Notice)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
