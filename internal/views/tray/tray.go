// Package tray renders the notification dropdown: newest first, unread
// highlighted, with single and bulk mark-as-read.
package tray

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/taskboard/tui/internal/client"
	"github.com/taskboard/tui/internal/theme"
)

const panelWidth = 56

var stylePanel = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.ColorBorder).
	Padding(0, 1).
	Width(panelWidth)

// Model holds the notification tray state.
type Model struct {
	Items []client.Notification
	Sel   int
}

// New creates an empty tray model.
func New() Model {
	return Model{}
}

// SetItems replaces the notification snapshot, sorted newest first.
func (m *Model) SetItems(items []client.Notification) {
	sorted := append([]client.Notification(nil), items...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].When() > sorted[j].When()
	})
	m.Items = sorted
	if m.Sel >= len(sorted) {
		m.Sel = len(sorted) - 1
	}
	if m.Sel < 0 {
		m.Sel = 0
	}
}

// Unread returns the badge count: notifications not yet read in the most
// recent fetch.
func (m Model) Unread() int {
	return client.UnreadCount(m.Items)
}

// Selected returns the notification under the cursor, if any.
func (m Model) Selected() *client.Notification {
	if m.Sel < 0 || m.Sel >= len(m.Items) {
		return nil
	}
	return &m.Items[m.Sel]
}

// Move shifts the selection.
func (m *Model) Move(delta int) {
	if len(m.Items) == 0 {
		return
	}
	m.Sel = (m.Sel + delta + len(m.Items)) % len(m.Items)
}

// View renders the tray panel.
func (m Model) View() string {
	title := theme.StyleHeader.Render("Notifications")
	header := lipgloss.JoinHorizontal(lipgloss.Top, title,
		theme.StyleDimmed.Render("  enter:read  A:read all  esc:close"))

	if len(m.Items) == 0 {
		return stylePanel.Render(lipgloss.JoinVertical(lipgloss.Left,
			header, theme.StyleDimmed.Render("No notifications")))
	}

	lines := []string{header}
	for i, n := range m.Items {
		prefix := "  "
		if i == m.Sel {
			prefix = "> "
		}
		titleStyle := theme.StyleDimmed
		dot := " "
		if !n.Read {
			titleStyle = lipgloss.NewStyle().Foreground(theme.ColorUnread)
			dot = "●"
		}
		lines = append(lines, fmt.Sprintf("%s%s %s", prefix, dot, titleStyle.Render(n.Title)))
		lines = append(lines, "    "+theme.StyleDimmed.Render(n.Body))
		lines = append(lines, "    "+theme.StyleDimmed.Render(formatWhen(n.When())))
	}
	return stylePanel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func formatWhen(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "-"
	}
	return t.UTC().Format("02 Jan 2006 15:04 UTC")
}
