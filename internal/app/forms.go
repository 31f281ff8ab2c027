package app

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/taskboard/tui/internal/client"
	"github.com/taskboard/tui/internal/theme"
)

type formKind int

const (
	formNone formKind = iota
	formLogin
	formSignup
	formNewProject
	formNewTask
	formAddMember
	formComment
	formProfile
)

// form is a small labelled-input stack used for auth, creation dialogs and
// the comment box. The add-member form additionally carries search results.
type form struct {
	kind   formKind
	title  string
	labels []string
	inputs []textinput.Model
	focus  int

	// add-member search state
	results   []client.User
	selResult int
}

func newForm(kind formKind, title string, fields ...string) form {
	f := form{kind: kind, title: title, labels: fields}
	for i, label := range fields {
		ti := textinput.New()
		ti.Placeholder = label
		ti.CharLimit = 120
		ti.Width = 36
		if label == "Password" {
			ti.EchoMode = textinput.EchoPassword
		}
		if i == 0 {
			ti.Focus()
		}
		f.inputs = append(f.inputs, ti)
	}
	return f
}

func newLoginForm() form {
	return newForm(formLogin, "Log in", "Email", "Password")
}

func newSignupForm() form {
	return newForm(formSignup, "Sign up", "First name", "Last name", "Email", "Password")
}

func newProjectForm() form {
	return newForm(formNewProject, "New project", "Name", "Description")
}

func newTaskForm() form {
	return newForm(formNewTask, "New task",
		"Name", "Deliverable", "Start (2006-01-02)", "End (2006-01-02)")
}

func newMemberForm() form {
	return newForm(formAddMember, "Add member", "Search users", "Role")
}

func newCommentForm() form {
	return newForm(formComment, "Add comment", "Message")
}

func newProfileForm(name string) form {
	f := newForm(formProfile, "Edit profile", "Name")
	f.inputs[0].SetValue(name)
	return f
}

func (f *form) next() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) value(i int) string {
	return f.inputs[i].Value()
}

// update routes a message to the focused input. For the add-member form it
// reports whether the search query changed.
func (f *form) update(msg tea.Msg) (tea.Cmd, bool) {
	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	queryChanged := f.kind == formAddMember && f.focus == 0 && f.inputs[0].Value() != before
	return cmd, queryChanged
}

var styleFormPanel = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.ColorBorder).
	Padding(1, 2)

func (f form) view() string {
	lines := []string{theme.StyleHeader.Render(f.title), ""}
	for i, ti := range f.inputs {
		label := theme.StyleDimmed.Render(f.labels[i])
		if i == f.focus {
			label = theme.StyleAccent.Render(f.labels[i])
		}
		lines = append(lines, label, ti.View())
	}
	if f.kind == formAddMember && len(f.results) > 0 {
		lines = append(lines, "", theme.StyleDimmed.Render("Matches:"))
		for i, u := range f.results {
			prefix := "  "
			style := theme.StyleDimmed
			if i == f.selResult {
				prefix = "> "
				style = theme.StyleSelected
			}
			lines = append(lines, prefix+style.Render(u.DisplayName()+"  "+u.Email))
		}
	}
	lines = append(lines, "", theme.StyleDimmed.Render("tab:next field  enter:submit  esc:cancel"))
	return styleFormPanel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
