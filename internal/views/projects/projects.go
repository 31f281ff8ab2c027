// Package projects renders the project list with task cards and the
// selected task's comment thread.
package projects

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/taskboard/tui/internal/client"
	"github.com/taskboard/tui/internal/theme"
)

const maxCardWidth = 72

// Model holds the project list state. All data is a snapshot supplied by the
// reconciler; the view never fetches.
type Model struct {
	Width int

	Projects []client.Project
	Tasks    map[string][]client.Task    // projectID → tasks
	Comments []client.Comment            // thread of the selected task
	Names    map[string]string           // userID → display name

	SelProject int
	SelTask    int
	SelComment int
}

// New creates an empty project list model.
func New() Model {
	return Model{
		Tasks: make(map[string][]client.Task),
		Names: make(map[string]string),
	}
}

// SetData replaces the project/task snapshot, clamping selections.
func (m *Model) SetData(projects []client.Project, tasks map[string][]client.Task) {
	m.Projects = projects
	m.Tasks = tasks
	m.clamp()
}

// SetComments replaces the selected task's comment thread.
func (m *Model) SetComments(comments []client.Comment) {
	m.Comments = comments
	if m.SelComment >= len(comments) {
		m.SelComment = len(comments) - 1
	}
	if m.SelComment < 0 {
		m.SelComment = 0
	}
}

func (m *Model) clamp() {
	if m.SelProject >= len(m.Projects) {
		m.SelProject = len(m.Projects) - 1
	}
	if m.SelProject < 0 {
		m.SelProject = 0
	}
	if m.SelTask >= len(m.SelectedTasks()) {
		m.SelTask = len(m.SelectedTasks()) - 1
	}
	if m.SelTask < 0 {
		m.SelTask = 0
	}
}

// Selected returns the currently selected project, if any.
func (m Model) Selected() *client.Project {
	if m.SelProject < 0 || m.SelProject >= len(m.Projects) {
		return nil
	}
	return &m.Projects[m.SelProject]
}

// SelectedTasks returns the selected project's tasks.
func (m Model) SelectedTasks() []client.Task {
	p := m.Selected()
	if p == nil {
		return nil
	}
	return m.Tasks[p.ProjectID]
}

// SelectedTask returns the currently selected task, if any.
func (m Model) SelectedTask() *client.Task {
	tasks := m.SelectedTasks()
	if m.SelTask < 0 || m.SelTask >= len(tasks) {
		return nil
	}
	return &tasks[m.SelTask]
}

// SelectedComment returns the currently selected comment, if any.
func (m Model) SelectedComment() *client.Comment {
	if m.SelComment < 0 || m.SelComment >= len(m.Comments) {
		return nil
	}
	return &m.Comments[m.SelComment]
}

// MoveProject shifts the project selection and resets the task cursor.
func (m *Model) MoveProject(delta int) {
	if len(m.Projects) == 0 {
		return
	}
	m.SelProject = (m.SelProject + delta + len(m.Projects)) % len(m.Projects)
	m.SelTask = 0
	m.SelComment = 0
	m.Comments = nil
}

// MoveTask shifts the task selection within the selected project.
func (m *Model) MoveTask(delta int) {
	tasks := m.SelectedTasks()
	if len(tasks) == 0 {
		return
	}
	m.SelTask = (m.SelTask + delta + len(tasks)) % len(tasks)
	m.SelComment = 0
	m.Comments = nil
}

// MoveComment shifts the comment selection within the open thread.
func (m *Model) MoveComment(delta int) {
	if len(m.Comments) == 0 {
		return
	}
	m.SelComment = (m.SelComment + delta + len(m.Comments)) % len(m.Comments)
}

// View renders the project list with the selected project's task cards.
func (m Model) View() string {
	if len(m.Projects) == 0 {
		return theme.StyleDimmed.Render("  No projects yet. Press P to create one.")
	}

	var lines []string
	lines = append(lines, theme.StyleHeader.Render("  Projects"))
	for i, p := range m.Projects {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.ColorBright)
		if i == m.SelProject {
			prefix = "> "
			style = theme.StyleSelected
		}
		count := len(m.Tasks[p.ProjectID])
		line := fmt.Sprintf("%s%s %s", prefix, style.Render(p.Name),
			theme.StyleDimmed.Render(fmt.Sprintf("(%d tasks, %d members)", count, len(p.Team))))
		lines = append(lines, line)
	}

	lines = append(lines, "")
	if p := m.Selected(); p != nil {
		lines = append(lines, m.renderTasks(p)...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderTasks(p *client.Project) []string {
	tasks := m.Tasks[p.ProjectID]
	lines := []string{theme.StyleHeader.Render("  Tasks — " + p.Name)}
	if len(tasks) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  No tasks. Press t to add one."))
		return lines
	}

	for i, t := range tasks {
		prefix := "  "
		nameStyle := lipgloss.NewStyle().Foreground(theme.ColorBright)
		if i == m.SelTask {
			prefix = "> "
			nameStyle = theme.StyleSelected
		}
		glyph := lipgloss.NewStyle().Foreground(theme.StatusColor(string(t.Status))).
			Render(theme.StatusGlyph(string(t.Status)))
		chip := lipgloss.NewStyle().Foreground(theme.StatusColor(string(t.Status))).
			Render("[" + string(t.Status) + "]")
		lines = append(lines, fmt.Sprintf("%s%s %s %s  %s",
			prefix, glyph, nameStyle.Render(truncate(t.Name, 32)), chip,
			theme.StyleDimmed.Render(dateRange(t.StartDate, t.EndDate))))
		if i == m.SelTask {
			if t.Deliverable != "" {
				lines = append(lines, theme.StyleDimmed.Render("      "+truncate(t.Deliverable, maxCardWidth)))
			}
			lines = append(lines, m.renderThread()...)
		}
	}
	return lines
}

func (m Model) renderThread() []string {
	lines := []string{theme.StyleDimmed.Render(fmt.Sprintf("      Comments (%d)", len(m.Comments)))}
	for i, cm := range m.Comments {
		prefix := "      · "
		style := theme.StyleDimmed
		if i == m.SelComment {
			prefix = "      » "
			style = theme.StyleSelected
		}
		author := m.Names[cm.UserID]
		if author == "" {
			author = cm.UserID
		}
		lines = append(lines, prefix+style.Render(
			fmt.Sprintf("%s: %s", author, truncate(cm.Message, 56))))
	}
	return lines
}

// dateRange formats an RFC 3339 pair as "02 Jan – 09 Jan".
func dateRange(start, end string) string {
	return fmt.Sprintf("%s – %s", shortDate(start), shortDate(end))
}

func shortDate(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "-"
	}
	return t.UTC().Format("02 Jan")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
