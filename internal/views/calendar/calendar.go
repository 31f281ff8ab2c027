// Package calendar renders a month grid with tasks placed on every day
// their date range covers.
package calendar

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/taskboard/tui/internal/client"
	"github.com/taskboard/tui/internal/theme"
)

const (
	cellWidth   = 12
	maxPerCell  = 3
)

// Model holds the calendar state.
type Model struct {
	Width int
	Month time.Time // any instant inside the displayed month
	Tasks []client.Task
}

// New creates a calendar model showing the month containing now.
func New(now time.Time) Model {
	return Model{Month: now}
}

// SetTasks replaces the task snapshot.
func (m *Model) SetTasks(tasks []client.Task) {
	m.Tasks = tasks
}

// MoveMonth shifts the displayed month by delta months.
func (m *Model) MoveMonth(delta int) {
	m.Month = m.Month.AddDate(0, delta, 0)
}

// View renders the month grid.
func (m Model) View() string {
	first := time.Date(m.Month.Year(), m.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
	title := theme.StyleHeader.Render("  " + first.Format("January 2006"))

	byDay := m.tasksByDay(first)

	headerCells := make([]string, 7)
	for i, d := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		headerCells[i] = lipgloss.NewStyle().Width(cellWidth).Bold(true).
			Foreground(theme.ColorDimmed).Render(d)
	}
	rows := []string{title, lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)}

	// A Monday-first grid; leading cells before day 1 stay blank.
	offset := (int(first.Weekday()) + 6) % 7
	daysInMonth := first.AddDate(0, 1, -1).Day()

	day := 1
	for day <= daysInMonth {
		cells := make([]string, 7)
		for col := 0; col < 7; col++ {
			if (day == 1 && col < offset) || day > daysInMonth {
				cells[col] = lipgloss.NewStyle().Width(cellWidth).Render("")
				continue
			}
			cells[col] = m.renderCell(day, byDay[day])
			day++
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(day int, tasks []client.Task) string {
	lines := []string{theme.StyleDimmed.Render(fmt.Sprintf("%2d", day))}
	for i, t := range tasks {
		if i == maxPerCell {
			lines = append(lines, theme.StyleDimmed.Render(fmt.Sprintf("+%d more", len(tasks)-maxPerCell)))
			break
		}
		style := lipgloss.NewStyle().Foreground(theme.StatusColor(string(t.Status)))
		lines = append(lines, style.Render(clip(t.Name, cellWidth-2)))
	}
	return lipgloss.NewStyle().Width(cellWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// tasksByDay maps day-of-month → tasks whose range covers that day.
func (m Model) tasksByDay(first time.Time) map[int][]client.Task {
	last := first.AddDate(0, 1, 0)
	byDay := make(map[int][]client.Task)
	for _, t := range m.Tasks {
		start, err1 := time.Parse(time.RFC3339, t.StartDate)
		end, err2 := time.Parse(time.RFC3339, t.EndDate)
		if err1 != nil || err2 != nil {
			continue
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if d.Before(first) || !d.Before(last) {
				continue
			}
			byDay[d.Day()] = append(byDay[d.Day()], t)
		}
	}
	return byDay
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
