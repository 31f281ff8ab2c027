package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/taskboard/tui/internal/client"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func testModel() Model {
	m := New()
	m.now = fixedNow
	m.SetData(
		[]client.Project{{ProjectID: "p1", Name: "Alpha"}},
		map[string][]client.Task{
			"p1": {
				{TaskID: "t1", Name: "Done task", Status: client.StatusDone,
					EndDate: "2025-06-10T00:00:00Z"},
				{TaskID: "t2", Name: "Due soon", Status: client.StatusOngoing,
					EndDate: "2025-06-18T00:00:00Z"},
				{TaskID: "t3", Name: "Due later", Status: client.StatusOngoing,
					EndDate: "2025-07-18T00:00:00Z"},
				{TaskID: "t4", Name: "Late", Status: client.StatusOverdue,
					EndDate: "2025-06-01T00:00:00Z"},
			},
		},
	)
	return m
}

func TestCountStatus(t *testing.T) {
	m := testModel()

	tests := []struct {
		status client.TaskStatus
		want   int
	}{
		{client.StatusDone, 1},
		{client.StatusOngoing, 2},
		{client.StatusOverdue, 1},
		{client.StatusNotStarted, 0},
	}
	for _, tt := range tests {
		if got := m.countStatus(tt.status); got != tt.want {
			t.Errorf("countStatus(%s) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestCountUpcomingWindow(t *testing.T) {
	m := testModel()

	// Only the task due within seven days counts; Done, Overdue and
	// far-future tasks do not.
	if got := m.countUpcoming(); got != 1 {
		t.Errorf("countUpcoming() = %d, want 1", got)
	}
}

func TestSetDataSortsByDeadline(t *testing.T) {
	m := testModel()

	var prev string
	for _, task := range m.tasks {
		if task.EndDate < prev {
			t.Fatalf("tasks not sorted by end date: %s after %s", task.EndDate, prev)
		}
		prev = task.EndDate
	}
}

func TestViewShowsSummaryAndActivity(t *testing.T) {
	m := testModel()
	m.Width = 100
	m.SetActivity([]client.Notification{
		{NotificationID: "n1", Title: "Task Completed", Body: "Report shipped"},
	})

	out := m.View()
	for _, want := range []string{"Projects: 1", "Tasks: 4", "Done: 1", "Overdue: 1", "Task Completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestViewEmptyActivity(t *testing.T) {
	m := New()
	m.now = fixedNow
	m.Width = 100

	out := m.View()
	if !strings.Contains(out, "No recent activity") {
		t.Error("View() missing empty-activity placeholder")
	}
	if !strings.Contains(out, "Nothing due") {
		t.Error("View() missing empty-deadlines placeholder")
	}
}
