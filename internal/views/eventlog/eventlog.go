// Package eventlog provides a scrollable overlay showing the channel events
// this client has received, for troubleshooting live sync.
package eventlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/taskboard/tui/internal/client"
	"github.com/taskboard/tui/internal/theme"
)

const maxEntries = 200

// Entry is a single received event.
type Entry struct {
	Time      time.Time
	Namespace client.Namespace
	Summary   string
}

// Model holds the event log state.
type Model struct {
	Entries []Entry
	Offset  int // scroll offset from the bottom
}

// New creates an empty event log.
func New() Model {
	return Model{}
}

// Record appends a channel event and caps the buffer.
func (m *Model) Record(ev client.ChangeEvent) {
	m.Entries = append(m.Entries, Entry{
		Time:      time.Now(),
		Namespace: ev.Namespace,
		Summary:   summarize(ev),
	})
	if len(m.Entries) > maxEntries {
		m.Entries = m.Entries[len(m.Entries)-maxEntries:]
	}
	// New entries snap the viewport back to the bottom.
	m.Offset = 0
}

// ScrollUp moves the viewport towards older entries.
func (m *Model) ScrollUp(n int) {
	m.Offset += n
	max := len(m.Entries) - 1
	if max < 0 {
		max = 0
	}
	if m.Offset > max {
		m.Offset = max
	}
}

// ScrollDown moves the viewport towards the newest entry.
func (m *Model) ScrollDown(n int) {
	m.Offset -= n
	if m.Offset < 0 {
		m.Offset = 0
	}
}

func summarize(ev client.ChangeEvent) string {
	var parts []string
	parts = append(parts, string(ev.Type))
	if ev.Action != "" {
		parts = append(parts, string(ev.Action))
	}
	switch {
	case ev.Title != "":
		parts = append(parts, ev.Title)
	case ev.CommentID != "":
		parts = append(parts, "comment "+ev.CommentID)
	case ev.TaskID != "":
		parts = append(parts, "task "+ev.TaskID)
	case ev.ProjectID != "":
		parts = append(parts, "project "+ev.ProjectID)
	case ev.NotificationID != "":
		parts = append(parts, "notification "+ev.NotificationID)
	case ev.UserID != "":
		parts = append(parts, "user "+ev.UserID)
	}
	return strings.Join(parts, " ")
}

func panelStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder)
}

// View renders the log as an overlay panel.
func (m Model) View(width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}
	visibleLines := height - 6
	if visibleLines < 3 {
		visibleLines = 3
	}

	title := theme.StyleHeader.Render(" EVENT LOG ")
	help := theme.StyleDimmed.Render(fmt.Sprintf("j/k:scroll  esc:close  %d events", len(m.Entries)))

	if len(m.Entries) == 0 {
		body := theme.StyleDimmed.Render("  No events received yet.")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", help)
		return panelStyle(innerW).Render(content)
	}

	end := len(m.Entries) - m.Offset
	start := end - visibleLines
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = 0
	}

	var lines []string
	for i := start; i < end; i++ {
		e := m.Entries[i]
		tsStr := theme.StyleDimmed.Render(e.Time.Format("15:04:05.000"))
		nsStr := lipgloss.NewStyle().Foreground(namespaceColor(e.Namespace)).
			Width(14).Render(string(e.Namespace))
		msg := e.Summary
		if r := []rune(msg); len(r) > innerW-20 && innerW > 20 {
			msg = string(r[:innerW-23]) + "..."
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", tsStr, nsStr, msg))
	}

	body := strings.Join(lines, "\n")
	scrollIndicator := ""
	if m.Offset > 0 {
		scrollIndicator = theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d more", m.Offset))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, body, scrollIndicator, help)
	return panelStyle(innerW).Render(content)
}

func namespaceColor(ns client.Namespace) lipgloss.Color {
	switch ns {
	case client.NSProjects:
		return theme.ColorAccent
	case client.NSTasks:
		return theme.ColorOngoing
	case client.NSComments:
		return theme.ColorHealthy
	case client.NSNotifications:
		return theme.ColorUnread
	case client.NSUsers:
		return theme.ColorWarning
	default:
		return theme.ColorDimmed
	}
}
