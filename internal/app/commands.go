package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskboard/tui/internal/client"
)

// refresh is a bitmask of views to re-fetch and redraw after a mutation or
// change event.
type refresh int

const (
	refreshProjects refresh = 1 << iota // project list + calendar + dashboard
	refreshComments                     // selected task's thread
	refreshTray                         // notification tray + badge
	refreshProfile                      // identity display
)

// --- messages ---

type authResultMsg struct {
	sess client.Session
	err  error
}

// snapshotMsg carries the full project/task snapshot every view derives from.
type snapshotMsg struct {
	projects []client.Project
	tasks    map[string][]client.Task
	err      error
}

type commentsMsg struct {
	projectID string
	taskID    string
	comments  []client.Comment
	names     map[string]string
	err       error
}

type notificationsMsg struct {
	items []client.Notification
	err   error
}

type profileMsg struct {
	name string
}

// mutationMsg reports a coordinator call's outcome. On success the app
// performs the local-first refresh without waiting for the push echo.
type mutationMsg struct {
	notice  string
	refresh refresh
	err     error
}

type searchMsg struct {
	users []client.User
	gen   int
	err   error
}

// searchDebounceMsg fires after the typing pause; gen pairs it with the
// keystroke generation that scheduled it so stale timers are ignored.
type searchDebounceMsg struct {
	gen int
}

type sweepMsg struct {
	updated int
	err     error
}

type (
	indicatorTickMsg time.Time
	healthTickMsg    time.Time
	notifTickMsg     time.Time
	sweepTickMsg     time.Time
	noticeClearMsg   struct{}
)

// --- commands ---

func (m Model) loadSnapshot() tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		projects, err := gw.Projects()
		if err != nil {
			return snapshotMsg{err: err}
		}
		tasks := make(map[string][]client.Task, len(projects))
		for _, p := range projects {
			ts, err := gw.Tasks(p.ProjectID)
			if err != nil {
				return snapshotMsg{err: err}
			}
			tasks[p.ProjectID] = ts
		}
		return snapshotMsg{projects: projects, tasks: tasks}
	}
}

func (m Model) loadComments(projectID, taskID string) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		comments, err := gw.Comments(projectID, taskID)
		if err != nil {
			return commentsMsg{projectID: projectID, taskID: taskID, err: err}
		}
		names := make(map[string]string)
		for _, c := range comments {
			if _, ok := names[c.UserID]; !ok {
				names[c.UserID] = gw.UserName(c.UserID)
			}
		}
		return commentsMsg{projectID: projectID, taskID: taskID, comments: comments, names: names}
	}
}

func (m Model) loadNotifications() tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		items, err := gw.Notifications()
		return notificationsMsg{items: items, err: err}
	}
}

func (m Model) loadProfile() tea.Cmd {
	gw, sessions := m.gw, m.sessions
	return func() tea.Msg {
		sess, ok := sessions.Current()
		if !ok {
			return profileMsg{}
		}
		return profileMsg{name: gw.UserName(sess.UserID)}
	}
}

const searchDebounce = 300 * time.Millisecond

func searchDebounceCmd(gen int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg { return searchDebounceMsg{gen: gen} })
}

func (m Model) searchUsers(query string, gen int) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		users, err := gw.SearchUsers(query)
		return searchMsg{users: users, gen: gen, err: err}
	}
}

// mutate runs a coordinator call off the event loop and reports its outcome.
func mutate(notice string, r refresh, op func() error) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{notice: notice, refresh: r}
	}
}

// waitChannels arms one waiter per namespace; each is re-armed after its
// event is handled so per-namespace arrival order is preserved.
func (m Model) waitChannels() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(client.Namespaces))
	for _, ns := range client.Namespaces {
		cmds = append(cmds, m.channels.WaitEvent(ns))
	}
	return tea.Batch(cmds...)
}

func tickCmd(d time.Duration, wrap func(time.Time) tea.Msg) tea.Cmd {
	return tea.Tick(d, wrap)
}

func (m Model) indicatorTick() tea.Cmd {
	return tickCmd(m.cfg.Intervals.IndicatorRefresh, func(t time.Time) tea.Msg { return indicatorTickMsg(t) })
}

func (m Model) healthTick() tea.Cmd {
	return tickCmd(m.cfg.Intervals.HealthCheck, func(t time.Time) tea.Msg { return healthTickMsg(t) })
}

func (m Model) notifTick() tea.Cmd {
	return tickCmd(m.cfg.Intervals.NotificationRefresh, func(t time.Time) tea.Msg { return notifTickMsg(t) })
}

func (m Model) sweepTick() tea.Cmd {
	return tickCmd(m.cfg.Intervals.AutoStatus, func(t time.Time) tea.Msg { return sweepTickMsg(t) })
}

func (m Model) runSweep() tea.Cmd {
	coord := m.coord
	return func() tea.Msg {
		updated, err := coord.RecomputeTaskStatuses()
		return sweepMsg{updated: updated, err: err}
	}
}

func clearNoticeCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return noticeClearMsg{} })
}
