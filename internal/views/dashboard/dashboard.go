// Package dashboard provides the summary cards, status breakdown and
// recent-activity feed for the Taskboard TUI.
package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/taskboard/tui/internal/client"
	"github.com/taskboard/tui/internal/theme"
)

const upcomingWindow = 7 * 24 * time.Hour

// Model holds the dashboard state.
type Model struct {
	Width int

	projects []client.Project
	tasks    []client.Task
	activity []client.Notification

	completion progress.Model
	now        func() time.Time
}

// New creates a dashboard model.
func New() Model {
	return Model{
		completion: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		now:        time.Now,
	}
}

// SetData replaces the project/task snapshot. The dashboard flattens and
// sorts its own copy so callers need not pre-sort.
func (m *Model) SetData(projects []client.Project, tasks map[string][]client.Task) {
	m.projects = projects
	m.tasks = m.tasks[:0]
	for _, p := range projects {
		m.tasks = append(m.tasks, tasks[p.ProjectID]...)
	}
	sort.Slice(m.tasks, func(i, j int) bool {
		return m.tasks[i].EndDate < m.tasks[j].EndDate
	})
}

// SetActivity replaces the bounded recent-activity feed (newest first).
func (m *Model) SetActivity(items []client.Notification) {
	m.activity = items
}

// View renders the full dashboard.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}
	sections := []string{
		m.renderSummary(width),
		m.renderByStatus(),
		m.renderUpcoming(),
		m.renderActivity(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSummary shows the aggregate cards in a single row.
func (m Model) renderSummary(width int) string {
	total := len(m.tasks)
	done := m.countStatus(client.StatusDone)
	overdue := m.countStatus(client.StatusOverdue)
	upcoming := m.countUpcoming()

	statStyle := lipgloss.NewStyle().Padding(0, 1)
	stats := []string{
		statStyle.Foreground(theme.ColorBright).Render(
			fmt.Sprintf("Projects: %d", len(m.projects))),
		statStyle.Foreground(theme.ColorOngoing).Render(
			fmt.Sprintf("Tasks: %d", total)),
		statStyle.Foreground(theme.ColorDone).Render(
			fmt.Sprintf("Done: %d", done)),
		statStyle.Foreground(theme.ColorOverdue).Render(
			fmt.Sprintf("Overdue: %d", overdue)),
		statStyle.Foreground(theme.ColorWarning).Render(
			fmt.Sprintf("Upcoming 7d: %d", upcoming)),
	}
	content := strings.Join(stats, lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | "))

	var pct float64
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	bar := m.completion.ViewAs(pct)

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Render(lipgloss.JoinVertical(lipgloss.Left, content, bar))
}

func (m Model) renderByStatus() string {
	lines := []string{theme.StyleHeader.Render("  Tasks by status")}
	for _, st := range []client.TaskStatus{client.StatusNotStarted, client.StatusOngoing, client.StatusOverdue, client.StatusDone} {
		n := m.countStatus(st)
		style := lipgloss.NewStyle().Foreground(theme.StatusColor(string(st)))
		lines = append(lines, fmt.Sprintf("  %s %-12s %d",
			style.Render(theme.StatusGlyph(string(st))), st, n))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderUpcoming lists the five nearest non-Done deadlines.
func (m Model) renderUpcoming() string {
	lines := []string{theme.StyleHeader.Render("  Upcoming deadlines")}
	shown := 0
	now := m.now()
	for _, t := range m.tasks {
		if t.Status == client.StatusDone {
			continue
		}
		end, err := time.Parse(time.RFC3339, t.EndDate)
		if err != nil || end.Before(now) {
			continue
		}
		style := lipgloss.NewStyle().Foreground(theme.StatusColor(string(t.Status)))
		lines = append(lines, fmt.Sprintf("  %s %s  %s",
			style.Render(theme.StatusGlyph(string(t.Status))),
			t.Name, theme.StyleDimmed.Render(end.UTC().Format("02 Jan 15:04"))))
		shown++
		if shown == 5 {
			break
		}
	}
	if shown == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  Nothing due"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderActivity() string {
	lines := []string{theme.StyleHeader.Render("  Recent activity")}
	if len(m.activity) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  No recent activity"))
	}
	for _, n := range m.activity {
		lines = append(lines, fmt.Sprintf("  %s %s",
			theme.StyleAccent.Render(n.Title),
			theme.StyleDimmed.Render(n.Body)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) countStatus(st client.TaskStatus) int {
	var n int
	for _, t := range m.tasks {
		if t.Status == st {
			n++
		}
	}
	return n
}

func (m Model) countUpcoming() int {
	now := m.now()
	var n int
	for _, t := range m.tasks {
		if t.Status == client.StatusDone || t.Status == client.StatusOverdue {
			continue
		}
		end, err := time.Parse(time.RFC3339, t.EndDate)
		if err != nil {
			continue
		}
		if end.After(now) && end.Sub(now) <= upcomingWindow {
			n++
		}
	}
	return n
}
