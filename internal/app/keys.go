package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard bindings for the TUI.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PrevProject key.Binding
	NextProject key.Binding
	PrevComment key.Binding
	NextComment key.Binding
	PrevMonth   key.Binding
	NextMonth   key.Binding

	Dashboard key.Binding
	Projects  key.Binding
	Calendar  key.Binding

	NewProject  key.Binding
	NewTask     key.Binding
	AddMember   key.Binding
	Comment     key.Binding
	MarkDone    key.Binding
	DeleteTask  key.Binding
	DeleteProj  key.Binding
	DeleteCmnt  key.Binding
	Tray        key.Binding
	EventLog    key.Binding
	Profile     key.Binding
	ReadAll     key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Confirm     key.Binding
	Decline     key.Binding
	NextField   key.Binding
	SwitchForm  key.Binding
	Submit      key.Binding
	Escape      key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev task"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next task"),
		),
		PrevProject: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "prev project"),
		),
		NextProject: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next project"),
		),
		PrevComment: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev comment"),
		),
		NextComment: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next comment"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "next month"),
		),
		Dashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		Projects: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "projects"),
		),
		Calendar: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "calendar"),
		),
		NewProject: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "new project"),
		),
		NewTask: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "new task"),
		),
		AddMember: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "add member"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		MarkDone: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "mark done"),
		),
		DeleteTask: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete task"),
		),
		DeleteProj: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete project"),
		),
		DeleteCmnt: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete comment"),
		),
		Tray: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "notifications"),
		),
		EventLog: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "event log"),
		),
		Profile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "edit profile"),
		),
		ReadAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "mark all read"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Decline: key.NewBinding(
			key.WithKeys("N", "n"),
			key.WithHelp("n", "cancel"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		SwitchForm: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "login/signup"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
