// Package client provides the session store, REST gateway, channel manager
// and mutation coordinator for the Taskboard backend. Types mirror the
// server wire protocol without importing server packages.
package client

import (
	"encoding/json"
	"fmt"
	"time"
)

// Namespace identifies one of the five push-channel namespaces.
type Namespace string

const (
	NSProjects      Namespace = "projects"
	NSTasks         Namespace = "tasks"
	NSUsers         Namespace = "users"
	NSComments      Namespace = "comments"
	NSNotifications Namespace = "notifications"
)

// Namespaces lists every channel namespace in a stable order.
var Namespaces = []Namespace{NSProjects, NSTasks, NSUsers, NSComments, NSNotifications}

// EventType identifies the kind of channel message.
type EventType string

// Server → client events.
const (
	EvtProjectUpdated       EventType = "project_updated"
	EvtTaskUpdated          EventType = "task_updated"
	EvtCommentUpdated       EventType = "comment_updated"
	EvtUserUpdated          EventType = "user_updated"
	EvtNotification         EventType = "notification"
	EvtNotificationUpdated  EventType = "notification_updated"
	EvtNotificationsAllRead EventType = "notifications_all_read"
)

// Client → server control messages.
const (
	EvtAuthenticate      EventType = "authenticate"
	EvtSubscribeUser     EventType = "subscribe_user"
	EvtJoinProject       EventType = "join_project"
	EvtJoinTask          EventType = "join_task"
	EvtJoinCommentThread EventType = "join_comment_thread"
)

// Action describes what happened to a resource.
type Action string

const (
	ActionAdd       Action = "add"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionAddMember Action = "add_member"
	ActionRead      Action = "read"
)

// Envelope is the wire frame for all channel messages, in both directions.
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ChangeEvent is a decoded channel event. It is a signal to re-fetch the
// affected resources, never a patch to apply.
type ChangeEvent struct {
	Namespace Namespace `json:"-"`
	Type      EventType `json:"-"`

	Action         Action `json:"action,omitempty"`
	ProjectID      string `json:"projectId,omitempty"`
	TaskID         string `json:"taskId,omitempty"`
	CommentID      string `json:"commentId,omitempty"`
	NotificationID string `json:"notificationId,omitempty"`
	UserID         string `json:"userId,omitempty"`

	MemberID   string `json:"memberId,omitempty"`
	MemberRole string `json:"memberRole,omitempty"`

	// Submitted payload for creates/updates, echoed so other clients can
	// show context without waiting for their own fetch.
	Project *Project       `json:"project,omitempty"`
	Task    *Task          `json:"task,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
	Message string         `json:"message,omitempty"`

	// Notification events.
	Title     string `json:"title,omitempty"`
	Body      string `json:"body,omitempty"`
	Link      string `json:"link,omitempty"`
	SenderID  string `json:"senderId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// TaskStatus is the canonical three-state auto status plus the terminal Done.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "Not Started"
	StatusOngoing    TaskStatus = "Ongoing"
	StatusOverdue    TaskStatus = "Overdue"
	StatusDone       TaskStatus = "Done"
)

// AutoStatus derives a task's status from its date range. Done is terminal
// and is never produced here; callers skip Done tasks before recomputing.
func AutoStatus(startDate, endDate string, now time.Time) TaskStatus {
	start, err1 := parseISO(startDate)
	end, err2 := parseISO(endDate)
	if err1 != nil || err2 != nil {
		return StatusNotStarted
	}
	switch {
	case now.Before(start):
		return StatusNotStarted
	case now.After(end):
		return StatusOverdue
	default:
		return StatusOngoing
	}
}

// Session is the authenticated identity. Exactly one is live per process.
type Session struct {
	UserID   string
	Token    string
	FullName string
	Email    string
}

// Member is a project team entry.
type Member struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Project mirrors the REST resource.
type Project struct {
	ProjectID   string   `json:"projectId"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	OwnerID     string   `json:"ownerId"`
	Team        []Member `json:"team,omitempty"`
}

// Task mirrors the REST resource. StartDate and EndDate are always RFC 3339
// strings after gateway normalization.
type Task struct {
	TaskID      string     `json:"taskId"`
	ProjectID   string     `json:"projectId,omitempty"`
	Name        string     `json:"name"`
	Deliverable string     `json:"deliverable,omitempty"`
	Status      TaskStatus `json:"status"`
	StartDate   string     `json:"startDate,omitempty"`
	EndDate     string     `json:"endDate,omitempty"`
}

// taskWire is the raw shape of a task as the server sends it; dates may be
// either ISO strings or structured timestamps.
type taskWire struct {
	TaskID      string     `json:"taskId"`
	ProjectID   string     `json:"projectId,omitempty"`
	Name        string     `json:"name"`
	Deliverable string     `json:"deliverable,omitempty"`
	Status      TaskStatus `json:"status"`
	StartDate   FlexTime   `json:"startDate,omitempty"`
	EndDate     FlexTime   `json:"endDate,omitempty"`
}

func (w taskWire) normalize() Task {
	return Task{
		TaskID:      w.TaskID,
		ProjectID:   w.ProjectID,
		Name:        w.Name,
		Deliverable: w.Deliverable,
		Status:      w.Status,
		StartDate:   w.StartDate.ISO(),
		EndDate:     w.EndDate.ISO(),
	}
}

// parseISO accepts the date shapes the API emits and the forms submit:
// full RFC 3339, zoneless date-time, and bare dates. Zoneless values are
// read as UTC.
func parseISO(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", time.DateOnly} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// CanonicalDate rewrites any accepted date shape as full RFC 3339.
// Unparseable input passes through untouched for the server to reject.
func CanonicalDate(s string) string {
	if s == "" {
		return s
	}
	t, err := parseISO(s)
	if err != nil {
		return s
	}
	return t.UTC().Format(time.RFC3339)
}

// FlexTime accepts either an ISO-8601 string or a structured timestamp of
// the form {"_seconds": n, "_nanoseconds": n} and exposes both as RFC 3339.
type FlexTime struct {
	t  time.Time
	ok bool
}

// NewFlexTime wraps a concrete time.
func NewFlexTime(t time.Time) FlexTime {
	return FlexTime{t: t, ok: true}
}

func (f *FlexTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = FlexTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = FlexTime{}
			return nil
		}
		t, err := parseISO(s)
		if err != nil {
			return fmt.Errorf("flex time: %w", err)
		}
		*f = FlexTime{t: t, ok: true}
		return nil
	}
	var ts struct {
		Seconds     int64 `json:"_seconds"`
		Nanoseconds int64 `json:"_nanoseconds"`
	}
	if err := json.Unmarshal(data, &ts); err != nil {
		return fmt.Errorf("flex time: unrecognized shape %s", data)
	}
	*f = FlexTime{t: time.Unix(ts.Seconds, ts.Nanoseconds).UTC(), ok: true}
	return nil
}

func (f FlexTime) MarshalJSON() ([]byte, error) {
	if !f.ok {
		return []byte("null"), nil
	}
	return json.Marshal(f.t.UTC().Format(time.RFC3339))
}

// ISO returns the RFC 3339 rendering, or "" when unset.
func (f FlexTime) ISO() string {
	if !f.ok {
		return ""
	}
	return f.t.UTC().Format(time.RFC3339)
}

// Time returns the underlying time and whether it is set.
func (f FlexTime) Time() (time.Time, bool) {
	return f.t, f.ok
}

// Comment mirrors the REST resource.
type Comment struct {
	CommentID string   `json:"commentId"`
	TaskID    string   `json:"taskId,omitempty"`
	UserID    string   `json:"userId"`
	Message   string   `json:"message"`
	CreatedAt FlexTime `json:"createdAt,omitempty"`
}

// Notification mirrors the REST resource.
type Notification struct {
	NotificationID string   `json:"notificationId"`
	Title          string   `json:"title"`
	Body           string   `json:"body"`
	Link           string   `json:"link,omitempty"`
	Read           bool     `json:"read"`
	SenderID       string   `json:"senderId,omitempty"`
	Timestamp      FlexTime `json:"timestamp,omitempty"`
	CreatedAt      FlexTime `json:"createdAt,omitempty"`
}

// When returns the best available timestamp for ordering.
func (n Notification) When() string {
	if iso := n.Timestamp.ISO(); iso != "" {
		return iso
	}
	return n.CreatedAt.ISO()
}

// UnreadCount counts notifications not yet marked read.
func UnreadCount(items []Notification) int {
	var n int
	for _, it := range items {
		if !it.Read {
			n++
		}
	}
	return n
}

// User is a directory entry returned by search and lookup.
type User struct {
	UserID    string `json:"userId"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

// DisplayName prefers the combined name field over first/last.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.FirstName != "" || u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.UserID
}
