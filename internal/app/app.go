// Package app wires the session store, gateway, channel manager and
// mutation coordinator into the root Bubble Tea model and keeps every view
// consistent with the server as pushes and mutation results arrive.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/taskboard/tui/internal/client"
	"github.com/taskboard/tui/internal/config"
	"github.com/taskboard/tui/internal/theme"
	"github.com/taskboard/tui/internal/views/calendar"
	"github.com/taskboard/tui/internal/views/dashboard"
	"github.com/taskboard/tui/internal/views/eventlog"
	"github.com/taskboard/tui/internal/views/help"
	"github.com/taskboard/tui/internal/views/projects"
	"github.com/taskboard/tui/internal/views/status"
	"github.com/taskboard/tui/internal/views/tray"
)

// Section identifies which main view fills the screen.
type Section int

const (
	SectionDashboard Section = iota
	SectionProjects
	SectionCalendar
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayForm
	OverlayConfirm
	OverlayTray
	OverlayHelp
	OverlayEventLog
)

const activityLimit = 5

// Model is the root Bubble Tea model.
type Model struct {
	gw       *client.Gateway
	channels *client.ChannelManager
	coord    *client.Coordinator
	sessions *client.Store
	cfg      *config.Config

	keys   KeyMap
	width  int
	height int

	// Auth screen state; the rest of the model is inert until authed.
	authed   bool
	authForm form
	authErr  string

	section Section
	overlay Overlay

	activeForm    form
	confirmPrompt string
	pending       tea.Cmd // runs only if the confirm overlay is accepted
	searchGen     int     // keystroke generation for the member-search debounce

	statusBar status.Model
	projects  projects.Model
	calendar  calendar.Model
	dashboard dashboard.Model
	tray      tray.Model
	eventlog  eventlog.Model

	// Recent activity, newest first, bounded at activityLimit.
	activity []client.Notification
}

// New creates the root model. If the store already holds a session the app
// skips the auth screen.
func New(gw *client.Gateway, channels *client.ChannelManager, coord *client.Coordinator, sessions *client.Store, cfg *config.Config) Model {
	m := Model{
		gw:        gw,
		channels:  channels,
		coord:     coord,
		sessions:  sessions,
		cfg:       cfg,
		keys:      DefaultKeyMap(),
		authForm:  newLoginForm(),
		section:   SectionDashboard,
		statusBar: status.New(),
		projects:  projects.New(),
		calendar:  calendar.New(time.Now()),
		dashboard: dashboard.New(),
		tray:      tray.New(),
		eventlog:  eventlog.New(),
	}
	if sess, ok := sessions.Current(); ok {
		m.authed = true
		m.statusBar.UserName = sess.FullName
	}
	return m
}

// Init starts data loading and the periodic loops. The channel waiters are
// armed even before login: their queues are persistent, so events buffered
// during authentication are not lost.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.waitChannels(),
		m.indicatorTick(),
		m.healthTick(),
		m.notifTick(),
		m.sweepTick(),
	}
	if m.authed {
		cmds = append(cmds, m.enterCmds()...)
	}
	return tea.Batch(cmds...)
}

// enterCmds is the initial fetch fan-out after a session is established.
func (m Model) enterCmds() []tea.Cmd {
	return []tea.Cmd{
		m.loadSnapshot(),
		m.loadNotifications(),
		m.loadProfile(),
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.projects.Width = msg.Width
		m.calendar.Width = msg.Width
		m.dashboard.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case authResultMsg:
		if msg.err != nil {
			m.authErr = client.UserMessage(msg.err)
			return m, nil
		}
		m.authed = true
		m.authErr = ""
		m.statusBar.UserName = msg.sess.FullName
		return m, tea.Batch(m.enterCmds()...)

	case snapshotMsg:
		if cmd, handled := m.checkErr(msg.err); handled {
			return m, cmd
		}
		m.projects.SetData(msg.projects, msg.tasks)
		m.dashboard.SetData(msg.projects, msg.tasks)
		m.calendar.SetTasks(flatten(msg.tasks))
		// The snapshot may have changed which task is selected.
		if cmd := m.syncComments(); cmd != nil {
			return m, cmd
		}
		return m, nil

	case commentsMsg:
		if cmd, handled := m.checkErr(msg.err); handled {
			return m, cmd
		}
		if t := m.projects.SelectedTask(); t != nil && t.TaskID == msg.taskID {
			m.projects.SetComments(msg.comments)
			for id, name := range msg.names {
				m.projects.Names[id] = name
			}
		}
		return m, nil

	case notificationsMsg:
		if cmd, handled := m.checkErr(msg.err); handled {
			return m, cmd
		}
		m.tray.SetItems(msg.items)
		m.statusBar.Unread = m.tray.Unread()
		return m, nil

	case profileMsg:
		if msg.name != "" {
			m.statusBar.UserName = msg.name
		}
		return m, nil

	case mutationMsg:
		if cmd, handled := m.checkErr(msg.err); handled {
			return m, cmd
		}
		m.statusBar.Notice = msg.notice
		m.statusBar.NoticeErr = false
		cmds := append(m.refreshCmds(msg.refresh), clearNoticeCmd())
		return m, tea.Batch(cmds...)

	case searchDebounceMsg:
		// Only the timer from the latest keystroke runs a request.
		if msg.gen != m.searchGen {
			return m, nil
		}
		if m.overlay == OverlayForm && m.activeForm.kind == formAddMember {
			return m, m.searchUsers(m.activeForm.value(0), msg.gen)
		}
		return m, nil

	case searchMsg:
		if msg.gen != m.searchGen {
			return m, nil
		}
		if m.overlay == OverlayForm && m.activeForm.kind == formAddMember {
			m.activeForm.results = msg.users
			m.activeForm.selResult = 0
		}
		return m, nil

	case sweepMsg:
		if cmd, handled := m.checkErr(msg.err); handled {
			return m, cmd
		}
		if msg.updated > 0 {
			return m, m.loadSnapshot()
		}
		return m, nil

	case client.ChannelEventMsg:
		m.eventlog.Record(msg.Event)
		cmds := m.handleEvent(msg.Event)
		cmds = append(cmds, m.channels.WaitEvent(msg.Event.Namespace))
		return m, tea.Batch(cmds...)

	case indicatorTickMsg:
		m.statusBar.Conn = m.channels.Status()
		return m, m.indicatorTick()

	case healthTickMsg:
		m.channels.CheckHealth()
		return m, m.healthTick()

	case notifTickMsg:
		cmds := []tea.Cmd{m.notifTick()}
		if m.authed {
			cmds = append(cmds, m.loadNotifications())
		}
		return m, tea.Batch(cmds...)

	case sweepTickMsg:
		cmds := []tea.Cmd{m.sweepTick()}
		if m.authed {
			cmds = append(cmds, m.runSweep())
		}
		return m, tea.Batch(cmds...)

	case noticeClearMsg:
		m.statusBar.Notice = ""
		m.statusBar.NoticeErr = false
		return m, nil
	}

	return m, nil
}

// checkErr routes an operation error: expired sessions return the app to the
// auth screen, everything else becomes a transient notice. The boolean is
// false when there was no error.
func (m *Model) checkErr(err error) (tea.Cmd, bool) {
	if err == nil {
		return nil, false
	}
	if errors.Is(err, client.ErrSessionExpired) || errors.Is(err, client.ErrUnauthenticated) {
		m.resetToAuth("Session expired, please log in again")
		return nil, true
	}
	m.statusBar.Notice = client.UserMessage(err)
	m.statusBar.NoticeErr = true
	return clearNoticeCmd(), true
}

func (m *Model) resetToAuth(notice string) {
	m.authed = false
	m.authForm = newLoginForm()
	m.authErr = notice
	m.overlay = OverlayNone
	m.pending = nil
	m.statusBar.UserName = ""
	m.statusBar.Unread = 0
	m.activity = nil
}

// handleEvent applies a channel push. Events are invalidation signals: each
// one triggers a re-fetch of the affected resources rather than a patch.
func (m *Model) handleEvent(ev client.ChangeEvent) []tea.Cmd {
	if !m.authed {
		return nil
	}
	switch ev.Namespace {
	case client.NSProjects, client.NSTasks:
		return []tea.Cmd{m.loadSnapshot()}

	case client.NSComments:
		if t := m.projects.SelectedTask(); t != nil && t.TaskID == ev.TaskID {
			return []tea.Cmd{m.loadComments(ev.ProjectID, ev.TaskID)}
		}
		return nil

	case client.NSUsers:
		cmds := []tea.Cmd{m.loadSnapshot()}
		if sess, ok := m.sessions.Current(); ok && ev.UserID == sess.UserID {
			cmds = append(cmds, m.loadProfile())
		}
		return cmds

	case client.NSNotifications:
		m.pushActivity(ev)
		return []tea.Cmd{m.loadNotifications()}
	}
	return nil
}

// pushActivity prepends a notification event to the bounded activity feed.
func (m *Model) pushActivity(ev client.ChangeEvent) {
	if ev.Type != client.EvtNotification {
		return
	}
	item := client.Notification{
		NotificationID: ev.NotificationID,
		Title:          ev.Title,
		Body:           ev.Body,
		Link:           ev.Link,
		SenderID:       ev.SenderID,
	}
	m.activity = append([]client.Notification{item}, m.activity...)
	if len(m.activity) > activityLimit {
		m.activity = m.activity[:activityLimit]
	}
	m.dashboard.SetActivity(m.activity)
}

func (m Model) refreshCmds(r refresh) []tea.Cmd {
	var cmds []tea.Cmd
	if r&refreshProjects != 0 {
		cmds = append(cmds, m.loadSnapshot())
	}
	if r&refreshComments != 0 {
		if cmd := m.syncComments(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if r&refreshTray != 0 {
		cmds = append(cmds, m.loadNotifications())
	}
	if r&refreshProfile != 0 {
		cmds = append(cmds, m.loadProfile())
	}
	return cmds
}

// syncComments fetches the thread of the currently selected task, if any.
func (m Model) syncComments() tea.Cmd {
	p := m.projects.Selected()
	t := m.projects.SelectedTask()
	if p == nil || t == nil {
		return nil
	}
	return m.loadComments(p.ProjectID, t.TaskID)
}

// --- key handling ---

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.channels.Close()
		return m, tea.Quit
	}

	if !m.authed {
		return m.handleAuthKey(msg)
	}

	switch m.overlay {
	case OverlayHelp:
		if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Help) {
			m.overlay = OverlayNone
		}
		return m, nil

	case OverlayConfirm:
		return m.handleConfirmKey(msg)

	case OverlayTray:
		return m.handleTrayKey(msg)

	case OverlayEventLog:
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.EventLog):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keys.Up):
			m.eventlog.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.eventlog.ScrollDown(1)
		}
		return m, nil

	case OverlayForm:
		return m.handleFormKey(msg)
	}

	return m.handleMainKey(msg)
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SwitchForm):
		if m.authForm.kind == formLogin {
			m.authForm = newSignupForm()
		} else {
			m.authForm = newLoginForm()
		}
		m.authErr = ""
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.authForm.next()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m, m.submitAuth()
	}

	cmd, _ := m.authForm.update(msg)
	return m, cmd
}

func (m Model) submitAuth() tea.Cmd {
	gw := m.gw
	f := m.authForm
	if f.kind == formLogin {
		email, password := f.value(0), f.value(1)
		return func() tea.Msg {
			sess, err := gw.Login(email, password)
			return authResultMsg{sess: sess, err: err}
		}
	}
	fields := client.SignupFields{
		FirstName: f.value(0),
		LastName:  f.value(1),
		Email:     f.value(2),
		Password:  f.value(3),
	}
	return func() tea.Msg {
		sess, err := gw.Signup(fields)
		return authResultMsg{sess: sess, err: err}
	}
}

// handleConfirmKey resolves the confirm overlay. Declining discards the
// pending command, so nothing is sent and nothing is published.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		cmd := m.pending
		m.pending = nil
		m.overlay = OverlayNone
		return m, cmd

	case key.Matches(msg, m.keys.Decline), key.Matches(msg, m.keys.Escape):
		m.pending = nil
		m.overlay = OverlayNone
		return m, nil
	}
	return m, nil
}

func (m Model) handleTrayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Tray):
		m.overlay = OverlayNone
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.tray.Move(1)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.tray.Move(-1)
		return m, nil

	case key.Matches(msg, m.keys.MarkDone):
		n := m.tray.Selected()
		if n == nil || n.Read {
			return m, nil
		}
		coord, id := m.coord, n.NotificationID
		return m, mutate("", refreshTray, func() error {
			return coord.MarkNotificationRead(id)
		})

	case key.Matches(msg, m.keys.ReadAll):
		coord := m.coord
		return m, mutate("All notifications marked read", refreshTray, func() error {
			_, err := coord.MarkAllNotificationsRead()
			return err
		})
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.overlay = OverlayNone
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		if len(m.activeForm.inputs) > 1 {
			m.activeForm.next()
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		cmd := m.submitForm()
		m.overlay = OverlayNone
		return m, cmd
	}

	// Arrow keys pick a search match without stealing input characters.
	if m.activeForm.kind == formAddMember && len(m.activeForm.results) > 0 {
		switch msg.Type {
		case tea.KeyUp:
			if m.activeForm.selResult > 0 {
				m.activeForm.selResult--
			}
			return m, nil
		case tea.KeyDown:
			if m.activeForm.selResult < len(m.activeForm.results)-1 {
				m.activeForm.selResult++
			}
			return m, nil
		}
	}

	cmd, queryChanged := m.activeForm.update(msg)
	if queryChanged {
		m.searchGen++
		return m, tea.Batch(cmd, searchDebounceCmd(m.searchGen))
	}
	return m, cmd
}

func (m Model) submitForm() tea.Cmd {
	coord := m.coord
	f := m.activeForm

	switch f.kind {
	case formNewProject:
		name, desc := f.value(0), f.value(1)
		return mutate("Project created", refreshProjects, func() error {
			_, err := coord.CreateProject(name, desc)
			return err
		})

	case formNewTask:
		p := m.projects.Selected()
		if p == nil {
			return nil
		}
		pid := p.ProjectID
		t := client.Task{
			Name:        f.value(0),
			Deliverable: f.value(1),
			StartDate:   f.value(2),
			EndDate:     f.value(3),
		}
		return mutate("Task created", refreshProjects, func() error {
			_, err := coord.CreateTask(pid, t)
			return err
		})

	case formAddMember:
		p := m.projects.Selected()
		if p == nil || f.selResult >= len(f.results) {
			return nil
		}
		pid := p.ProjectID
		uid := f.results[f.selResult].UserID
		role := f.value(1)
		return mutate("Member added", refreshProjects, func() error {
			return coord.AddMember(pid, uid, role)
		})

	case formComment:
		p := m.projects.Selected()
		t := m.projects.SelectedTask()
		if p == nil || t == nil {
			return nil
		}
		pid, tid, body := p.ProjectID, t.TaskID, f.value(0)
		return mutate("Comment added", refreshComments, func() error {
			_, err := coord.AddComment(pid, tid, body)
			return err
		})

	case formProfile:
		name := f.value(0)
		return mutate("Profile updated", refreshProfile, func() error {
			return coord.UpdateProfile(map[string]any{"name": name})
		})
	}
	return nil
}

func (m Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.channels.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Dashboard):
		m.section = SectionDashboard
		return m, nil

	case key.Matches(msg, m.keys.Projects):
		m.section = SectionProjects
		return m, nil

	case key.Matches(msg, m.keys.Calendar):
		m.section = SectionCalendar
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.overlay = OverlayHelp
		return m, nil

	case key.Matches(msg, m.keys.Tray):
		m.overlay = OverlayTray
		return m, nil

	case key.Matches(msg, m.keys.EventLog):
		m.overlay = OverlayEventLog
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.loadSnapshot(), m.loadNotifications())

	case key.Matches(msg, m.keys.NewProject):
		m.activeForm = newProjectForm()
		m.overlay = OverlayForm
		return m, nil

	case key.Matches(msg, m.keys.Profile):
		m.activeForm = newProfileForm(m.statusBar.UserName)
		m.overlay = OverlayForm
		return m, nil
	}

	switch m.section {
	case SectionProjects:
		return m.handleProjectsKey(msg)
	case SectionCalendar:
		if key.Matches(msg, m.keys.PrevMonth) {
			m.calendar.MoveMonth(-1)
		}
		if key.Matches(msg, m.keys.NextMonth) {
			m.calendar.MoveMonth(1)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleProjectsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.projects.MoveTask(1)
		return m, m.syncComments()

	case key.Matches(msg, m.keys.Up):
		m.projects.MoveTask(-1)
		return m, m.syncComments()

	case key.Matches(msg, m.keys.NextProject):
		m.projects.MoveProject(1)
		return m, m.syncComments()

	case key.Matches(msg, m.keys.PrevProject):
		m.projects.MoveProject(-1)
		return m, m.syncComments()

	case key.Matches(msg, m.keys.NextComment):
		m.projects.MoveComment(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevComment):
		m.projects.MoveComment(-1)
		return m, nil

	case key.Matches(msg, m.keys.NewTask):
		if m.projects.Selected() != nil {
			m.activeForm = newTaskForm()
			m.overlay = OverlayForm
		}
		return m, nil

	case key.Matches(msg, m.keys.AddMember):
		if m.projects.Selected() != nil {
			m.activeForm = newMemberForm()
			m.overlay = OverlayForm
		}
		return m, nil

	case key.Matches(msg, m.keys.Comment):
		if m.projects.SelectedTask() != nil {
			m.activeForm = newCommentForm()
			m.overlay = OverlayForm
		}
		return m, nil

	case key.Matches(msg, m.keys.MarkDone):
		p := m.projects.Selected()
		t := m.projects.SelectedTask()
		if p == nil || t == nil || t.Status == client.StatusDone {
			return m, nil
		}
		coord, pid, tid := m.coord, p.ProjectID, t.TaskID
		return m, mutate("Task marked done", refreshProjects, func() error {
			return coord.MarkTaskDone(pid, tid)
		})

	case key.Matches(msg, m.keys.DeleteTask):
		p := m.projects.Selected()
		t := m.projects.SelectedTask()
		if p == nil || t == nil {
			return m, nil
		}
		coord, pid, tid := m.coord, p.ProjectID, t.TaskID
		return m.confirm(fmt.Sprintf("Delete task %q?", t.Name),
			mutate("Task deleted", refreshProjects, func() error {
				return coord.DeleteTask(pid, tid)
			}))

	case key.Matches(msg, m.keys.DeleteProj):
		p := m.projects.Selected()
		if p == nil {
			return m, nil
		}
		coord, pid := m.coord, p.ProjectID
		return m.confirm(fmt.Sprintf("Delete project %q and all its tasks?", p.Name),
			mutate("Project deleted", refreshProjects, func() error {
				return coord.DeleteProject(pid)
			}))

	case key.Matches(msg, m.keys.DeleteCmnt):
		p := m.projects.Selected()
		t := m.projects.SelectedTask()
		c := m.projects.SelectedComment()
		if p == nil || t == nil || c == nil {
			return m, nil
		}
		coord, pid, tid, cid := m.coord, p.ProjectID, t.TaskID, c.CommentID
		return m.confirm("Delete this comment?",
			mutate("Comment deleted", refreshComments, func() error {
				return coord.DeleteComment(pid, tid, cid)
			}))
	}
	return m, nil
}

// confirm opens the confirm overlay holding cmd until the user accepts.
func (m Model) confirm(prompt string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.confirmPrompt = prompt
	m.pending = cmd
	m.overlay = OverlayConfirm
	return m, nil
}

// --- rendering ---

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	if !m.authed {
		return m.viewAuth()
	}

	var body string
	switch m.overlay {
	case OverlayHelp:
		body = help.View(m.width)
	case OverlayTray:
		body = m.tray.View()
	case OverlayEventLog:
		body = m.eventlog.View(m.width, m.height)
	case OverlayConfirm:
		body = m.viewConfirm()
	case OverlayForm:
		body = m.activeForm.view()
	default:
		body = m.viewSection()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar.View(),
		body,
		m.viewFooter(),
	)
}

func (m Model) viewAuth() string {
	lines := []string{
		theme.StyleHeader.Render("Taskboard"),
		"",
		m.authForm.view(),
		theme.StyleDimmed.Render("ctrl+s:switch login/signup  enter:submit  ctrl+c:quit"),
	}
	if m.authErr != "" {
		lines = append(lines, theme.StyleError.Render(m.authErr))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewSection() string {
	switch m.section {
	case SectionProjects:
		return m.projects.View()
	case SectionCalendar:
		return m.calendar.View()
	default:
		return m.dashboard.View()
	}
}

func (m Model) viewConfirm() string {
	return styleFormPanel.Render(lipgloss.JoinVertical(lipgloss.Left,
		theme.StyleHeader.Render(m.confirmPrompt),
		"",
		theme.StyleDimmed.Render("y:confirm  n:cancel"),
	))
}

func (m Model) viewFooter() string {
	switch m.section {
	case SectionProjects:
		return theme.StyleDimmed.Render("  h/l:project  j/k:task  [/]:comment  t:task  m:member  c:comment  enter:done  d/D/x:delete  n:tray  ?:help  q:quit")
	case SectionCalendar:
		return theme.StyleDimmed.Render("  ,/.:month  1/2/3:section  n:tray  ?:help  q:quit")
	default:
		return theme.StyleDimmed.Render("  1:dashboard  2:projects  3:calendar  P:new project  p:profile  r:refresh  n:tray  e:events  ?:help  q:quit")
	}
}

// flatten collects every project's tasks into one slice.
func flatten(tasks map[string][]client.Task) []client.Task {
	var out []client.Task
	for _, ts := range tasks {
		out = append(out, ts...)
	}
	return out
}
