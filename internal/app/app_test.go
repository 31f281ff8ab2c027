package app

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskboard/tui/internal/client"
	"github.com/taskboard/tui/internal/config"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// newTestModel builds an authed model over inert backends. Commands returned
// by Update are never executed unless a test runs them itself.
func newTestModel() Model {
	sessions := client.NewStore(client.NewMemoryStorage())
	sessions.Establish(client.Session{UserID: "u1", Token: "tok", FullName: "Ada Lovelace"})
	channels := client.NewChannelManager("ws://127.0.0.1:0/ws")
	gw := client.NewGateway("http://127.0.0.1:0", sessions, channels)
	coord := client.NewCoordinator(gw, channels, sessions)
	m := New(gw, channels, coord, sessions, config.Default())
	m.width = 100
	m.height = 40
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func TestExistingSessionSkipsAuthScreen(t *testing.T) {
	m := newTestModel()
	if !m.authed {
		t.Fatal("expected model to start authed with a stored session")
	}
	if m.statusBar.UserName != "Ada Lovelace" {
		t.Errorf("UserName = %q, want Ada Lovelace", m.statusBar.UserName)
	}
}

func TestAuthResultEntersApp(t *testing.T) {
	m := newTestModel()
	m.resetToAuth("")

	m, cmd := update(t, m, authResultMsg{
		sess: client.Session{UserID: "u2", FullName: "Grace Hopper"},
	})
	if !m.authed {
		t.Fatal("expected authed after successful login")
	}
	if cmd == nil {
		t.Error("expected initial fetch commands after login")
	}
	if m.statusBar.UserName != "Grace Hopper" {
		t.Errorf("UserName = %q, want Grace Hopper", m.statusBar.UserName)
	}
}

func TestAuthResultErrorStaysOnAuthScreen(t *testing.T) {
	m := newTestModel()
	m.resetToAuth("")

	m, _ = update(t, m, authResultMsg{err: &client.RequestError{Status: 403, Body: "bad credentials"}})
	if m.authed {
		t.Fatal("expected auth screen after failed login")
	}
	if m.authErr == "" {
		t.Error("expected a user-facing auth error")
	}
}

func TestSessionExpiryReturnsToAuth(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, snapshotMsg{err: client.ErrSessionExpired})
	if m.authed {
		t.Fatal("expected return to auth screen on session expiry")
	}
	if m.statusBar.UserName != "" {
		t.Error("expected identity cleared on expiry")
	}
}

func TestDeclineDiscardsPendingMutation(t *testing.T) {
	m := newTestModel()
	ran := false
	m.pending = func() tea.Msg { ran = true; return nil }
	m.overlay = OverlayConfirm

	m, cmd := update(t, m, keyRune('n'))
	if cmd != nil {
		t.Fatal("decline must not return the pending command")
	}
	if m.pending != nil || m.overlay != OverlayNone {
		t.Error("expected pending cleared and overlay closed")
	}
	if ran {
		t.Error("pending command must never run on decline")
	}
}

func TestConfirmRunsPendingMutation(t *testing.T) {
	m := newTestModel()
	ran := false
	m.pending = func() tea.Msg { ran = true; return nil }
	m.overlay = OverlayConfirm

	m, cmd := update(t, m, keyRune('y'))
	if cmd == nil {
		t.Fatal("confirm must return the pending command")
	}
	cmd()
	if !ran {
		t.Error("expected the pending command to run once confirmed")
	}
	if m.overlay != OverlayNone {
		t.Error("expected confirm overlay closed")
	}
}

func TestNotificationEventFeedsActivity(t *testing.T) {
	m := newTestModel()

	for i := 0; i < 7; i++ {
		ev := client.ChangeEvent{
			Namespace:      client.NSNotifications,
			Type:           client.EvtNotification,
			NotificationID: fmt.Sprintf("n%d", i),
			Title:          "Task Completed",
		}
		var cmd tea.Cmd
		m, cmd = update(t, m, client.ChannelEventMsg{Event: ev})
		if cmd == nil {
			t.Fatal("expected re-arm plus refresh commands")
		}
	}

	if len(m.activity) != activityLimit {
		t.Fatalf("activity length = %d, want %d", len(m.activity), activityLimit)
	}
	// Newest first, oldest evicted.
	if m.activity[0].NotificationID != "n6" {
		t.Errorf("activity[0] = %s, want n6", m.activity[0].NotificationID)
	}
	if m.activity[activityLimit-1].NotificationID != "n2" {
		t.Errorf("activity tail = %s, want n2", m.activity[activityLimit-1].NotificationID)
	}
}

func TestReadReceiptEventDoesNotFeedActivity(t *testing.T) {
	m := newTestModel()

	ev := client.ChangeEvent{
		Namespace: client.NSNotifications,
		Type:      client.EvtNotificationUpdated,
		Action:    client.ActionRead,
	}
	m, _ = update(t, m, client.ChannelEventMsg{Event: ev})
	if len(m.activity) != 0 {
		t.Error("read receipts must not appear in recent activity")
	}
}

func TestMutationErrorBecomesNotice(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, mutationMsg{err: &client.RequestError{Status: 500, Body: "boom"}})
	if !m.statusBar.NoticeErr {
		t.Error("expected error notice flagged")
	}
	if m.statusBar.Notice == "" {
		t.Error("expected a user-facing notice")
	}
}

func TestMutationSuccessSetsNoticeAndRefreshes(t *testing.T) {
	m := newTestModel()

	m, cmd := update(t, m, mutationMsg{notice: "Task created", refresh: refreshProjects})
	if m.statusBar.Notice != "Task created" || m.statusBar.NoticeErr {
		t.Errorf("Notice = %q (err=%v), want success notice", m.statusBar.Notice, m.statusBar.NoticeErr)
	}
	if cmd == nil {
		t.Error("expected refresh commands")
	}
}

func TestSectionKeys(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, keyRune('2'))
	if m.section != SectionProjects {
		t.Errorf("section = %d, want projects", m.section)
	}
	m, _ = update(t, m, keyRune('3'))
	if m.section != SectionCalendar {
		t.Errorf("section = %d, want calendar", m.section)
	}
	m, _ = update(t, m, keyRune('1'))
	if m.section != SectionDashboard {
		t.Errorf("section = %d, want dashboard", m.section)
	}
}

func TestNotificationsMsgUpdatesBadge(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, notificationsMsg{items: []client.Notification{
		{NotificationID: "n1"},
		{NotificationID: "n2", Read: true},
	}})
	if m.statusBar.Unread != 1 {
		t.Errorf("Unread = %d, want 1", m.statusBar.Unread)
	}
}

func TestSnapshotFeedsViews(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, snapshotMsg{
		projects: []client.Project{{ProjectID: "p1", Name: "Alpha"}},
		tasks: map[string][]client.Task{
			"p1": {{TaskID: "t1", Name: "Draft", Status: client.StatusOngoing}},
		},
	})

	m.section = SectionProjects
	out := m.View()
	if !strings.Contains(out, "Alpha") || !strings.Contains(out, "Draft") {
		t.Error("projects view missing snapshot data")
	}
}

func TestAuthViewShowsForm(t *testing.T) {
	m := newTestModel()
	m.resetToAuth("Session expired, please log in again")

	out := m.View()
	if !strings.Contains(out, "Log in") {
		t.Error("auth view missing login form")
	}
	if !strings.Contains(out, "Session expired") {
		t.Error("auth view missing expiry notice")
	}
}

func TestMemberSearchWaitsForTypingPause(t *testing.T) {
	m := newTestModel()
	m.overlay = OverlayForm
	m.activeForm = newMemberForm()

	// Each keystroke bumps the generation; only the newest timer may fire.
	m, _ = update(t, m, keyRune('a'))
	gen1 := m.searchGen
	m, _ = update(t, m, keyRune('d'))
	if m.searchGen == gen1 {
		t.Fatal("expected a new search generation per keystroke")
	}

	_, cmd := update(t, m, searchDebounceMsg{gen: gen1})
	if cmd != nil {
		t.Error("stale debounce timer must not trigger a request")
	}
	_, cmd = update(t, m, searchDebounceMsg{gen: m.searchGen})
	if cmd == nil {
		t.Error("current debounce timer should trigger the search request")
	}
}

func TestStaleSearchResultsDropped(t *testing.T) {
	m := newTestModel()
	m.overlay = OverlayForm
	m.activeForm = newMemberForm()
	m, _ = update(t, m, keyRune('a'))
	m, _ = update(t, m, keyRune('d'))

	stale := []client.User{{UserID: "u9", Name: "Old Match"}}
	m, _ = update(t, m, searchMsg{users: stale, gen: m.searchGen - 1})
	if len(m.activeForm.results) != 0 {
		t.Fatal("results from a superseded query must be ignored")
	}

	fresh := []client.User{{UserID: "u2", Name: "Ada"}}
	m, _ = update(t, m, searchMsg{users: fresh, gen: m.searchGen})
	if len(m.activeForm.results) != 1 || m.activeForm.results[0].UserID != "u2" {
		t.Fatalf("results = %+v, want the current query's match", m.activeForm.results)
	}
}

func TestProfileKeyOpensPrefilledForm(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, keyRune('p'))
	if m.overlay != OverlayForm || m.activeForm.kind != formProfile {
		t.Fatalf("overlay = %v kind = %v, want profile form", m.overlay, m.activeForm.kind)
	}
	if got := m.activeForm.value(0); got != "Ada Lovelace" {
		t.Errorf("name field = %q, want current name prefilled", got)
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.overlay != OverlayNone {
		t.Error("expected form to close on submit")
	}
	if cmd == nil {
		t.Error("expected a profile update command on submit")
	}
}
