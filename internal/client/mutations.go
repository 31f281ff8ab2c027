package client

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// EventPublisher is the slice of the channel manager the coordinator needs.
type EventPublisher interface {
	Publish(ns Namespace, event EventType, ev ChangeEvent)
	Join(ns Namespace, roomID string)
}

// Coordinator binds "REST write" and "push notify" together: every
// state-changing action goes through the gateway first, and only a confirmed
// write publishes the corresponding change event. On failure nothing is
// published and no optimistic state exists anywhere.
//
// Destructive operations are invoked only after the caller has confirmed
// them; declining a confirmation means these methods are never called.
type Coordinator struct {
	gw       *Gateway
	channels EventPublisher
	sessions *Store
	now      func() time.Time
}

// NewCoordinator wires a coordinator over the gateway, channel manager and
// session store.
func NewCoordinator(gw *Gateway, channels EventPublisher, sessions *Store) *Coordinator {
	return &Coordinator{gw: gw, channels: channels, sessions: sessions, now: time.Now}
}

// CreateProject creates a project owned by the current user and announces it.
func (c *Coordinator) CreateProject(name, description string) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "project name", Reason: "is required"}
	}
	sess, ok := c.sessions.Current()
	if !ok {
		return nil, ErrUnauthenticated
	}
	p := Project{
		ProjectID:   fmt.Sprintf("proj_%d", c.now().UnixMilli()),
		Name:        name,
		Description: description,
		OwnerID:     sess.UserID,
		Team:        []Member{{UserID: sess.UserID, Role: "Owner"}},
	}
	if err := c.gw.CreateProject(p); err != nil {
		return nil, err
	}
	c.channels.Publish(NSProjects, EvtProjectUpdated, ChangeEvent{
		ProjectID: p.ProjectID,
		Action:    ActionAdd,
		Project:   &p,
	})
	c.channels.Join(NSProjects, p.ProjectID)
	return &p, nil
}

// UpdateProject applies a partial update and announces it.
func (c *Coordinator) UpdateProject(projectID string, fields map[string]any) error {
	if err := c.gw.UpdateProject(projectID, fields); err != nil {
		return err
	}
	c.channels.Publish(NSProjects, EvtProjectUpdated, ChangeEvent{
		ProjectID: projectID,
		Action:    ActionUpdate,
		Fields:    fields,
	})
	return nil
}

// DeleteProject removes a project and announces the deletion.
func (c *Coordinator) DeleteProject(projectID string) error {
	if err := c.gw.DeleteProject(projectID); err != nil {
		return err
	}
	c.channels.Publish(NSProjects, EvtProjectUpdated, ChangeEvent{
		ProjectID: projectID,
		Action:    ActionDelete,
	})
	return nil
}

// AddMember adds a user to a project team and announces the membership.
func (c *Coordinator) AddMember(projectID, userID, role string) error {
	if userID == "" {
		return &ValidationError{Field: "member", Reason: "is required"}
	}
	if err := c.gw.AddMember(projectID, userID, role); err != nil {
		return err
	}
	c.channels.Publish(NSProjects, EvtProjectUpdated, ChangeEvent{
		ProjectID:  projectID,
		Action:     ActionAddMember,
		MemberID:   userID,
		MemberRole: role,
	})
	return nil
}

// CreateTask creates a task under a project, announces it, and joins the new
// task's rooms so this client receives its push events.
func (c *Coordinator) CreateTask(projectID string, t Task) (*Task, error) {
	if strings.TrimSpace(t.Name) == "" {
		return nil, &ValidationError{Field: "task name", Reason: "is required"}
	}
	if t.TaskID == "" {
		t.TaskID = fmt.Sprintf("%d", c.now().UnixMilli())
	}
	if t.Status == "" {
		t.Status = StatusNotStarted
	}
	t.StartDate = CanonicalDate(t.StartDate)
	t.EndDate = CanonicalDate(t.EndDate)
	t.ProjectID = projectID
	if err := c.gw.CreateTask(projectID, t); err != nil {
		return nil, err
	}
	c.channels.Publish(NSTasks, EvtTaskUpdated, ChangeEvent{
		ProjectID: projectID,
		TaskID:    t.TaskID,
		Action:    ActionAdd,
		Task:      &t,
	})
	c.channels.Join(NSTasks, t.TaskID)
	c.channels.Join(NSComments, t.TaskID)
	return &t, nil
}

// UpdateTask applies a partial update and announces it.
func (c *Coordinator) UpdateTask(projectID, taskID string, fields map[string]any) error {
	if err := c.gw.UpdateTask(projectID, taskID, fields); err != nil {
		return err
	}
	c.channels.Publish(NSTasks, EvtTaskUpdated, ChangeEvent{
		ProjectID: projectID,
		TaskID:    taskID,
		Action:    ActionUpdate,
		Fields:    fields,
	})
	return nil
}

// MarkTaskDone sets a task's status to Done and notifies the current user.
func (c *Coordinator) MarkTaskDone(projectID, taskID string) error {
	if err := c.UpdateTask(projectID, taskID, map[string]any{"status": StatusDone}); err != nil {
		return err
	}
	if sess, ok := c.sessions.Current(); ok {
		// Best effort; the task update already succeeded.
		c.SendNotification(sess.UserID, "Task Completed", "Task has been marked as Done", "")
	}
	return nil
}

// DeleteTask removes a task and announces the deletion.
func (c *Coordinator) DeleteTask(projectID, taskID string) error {
	if err := c.gw.DeleteTask(projectID, taskID); err != nil {
		return err
	}
	c.channels.Publish(NSTasks, EvtTaskUpdated, ChangeEvent{
		ProjectID: projectID,
		TaskID:    taskID,
		Action:    ActionDelete,
	})
	return nil
}

// AddComment posts a comment to a task's thread and announces it.
func (c *Coordinator) AddComment(projectID, taskID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", &ValidationError{Field: "comment", Reason: "cannot be empty"}
	}
	sess, ok := c.sessions.Current()
	if !ok {
		return "", ErrUnauthenticated
	}
	commentID, err := c.gw.AddComment(projectID, taskID, message)
	if err != nil {
		return "", err
	}
	c.channels.Publish(NSComments, EvtCommentUpdated, ChangeEvent{
		ProjectID: projectID,
		TaskID:    taskID,
		CommentID: commentID,
		UserID:    sess.UserID,
		Message:   message,
		Action:    ActionAdd,
	})
	return commentID, nil
}

// DeleteComment removes a comment and announces the deletion.
func (c *Coordinator) DeleteComment(projectID, taskID, commentID string) error {
	sess, ok := c.sessions.Current()
	if !ok {
		return ErrUnauthenticated
	}
	if err := c.gw.DeleteComment(projectID, taskID, commentID); err != nil {
		return err
	}
	c.channels.Publish(NSComments, EvtCommentUpdated, ChangeEvent{
		ProjectID: projectID,
		TaskID:    taskID,
		CommentID: commentID,
		UserID:    sess.UserID,
		Action:    ActionDelete,
	})
	return nil
}

// SendNotification delivers a notification to a user and announces it on the
// notifications namespace.
func (c *Coordinator) SendNotification(userID, title, body, link string) error {
	if userID == "" || title == "" || body == "" {
		return &ValidationError{Field: "notification", Reason: "is missing required fields"}
	}
	sess, ok := c.sessions.Current()
	if !ok {
		return ErrUnauthenticated
	}
	notificationID, err := c.gw.SendNotification(userID, title, body, link)
	if err != nil {
		return err
	}
	c.channels.Publish(NSNotifications, EvtNotification, ChangeEvent{
		NotificationID: notificationID,
		UserID:         userID,
		Title:          title,
		Body:           body,
		Link:           link,
		SenderID:       sess.UserID,
		Timestamp:      c.now().UTC().Format(time.RFC3339),
	})
	return nil
}

// MarkNotificationRead marks one notification read and announces it.
func (c *Coordinator) MarkNotificationRead(notificationID string) error {
	sess, ok := c.sessions.Current()
	if !ok {
		return ErrUnauthenticated
	}
	if err := c.gw.MarkNotificationRead(notificationID); err != nil {
		return err
	}
	c.channels.Publish(NSNotifications, EvtNotificationUpdated, ChangeEvent{
		NotificationID: notificationID,
		UserID:         sess.UserID,
		Action:         ActionRead,
	})
	return nil
}

// MarkAllNotificationsRead marks every notification read, announces it, and
// returns how many were affected.
func (c *Coordinator) MarkAllNotificationsRead() (int, error) {
	sess, ok := c.sessions.Current()
	if !ok {
		return 0, ErrUnauthenticated
	}
	count, err := c.gw.MarkAllNotificationsRead()
	if err != nil {
		return 0, err
	}
	c.channels.Publish(NSNotifications, EvtNotificationsAllRead, ChangeEvent{
		UserID: sess.UserID,
	})
	return count, nil
}

// UpdateProfile applies a partial update to the current user and announces it.
func (c *Coordinator) UpdateProfile(fields map[string]any) error {
	sess, ok := c.sessions.Current()
	if !ok {
		return ErrUnauthenticated
	}
	if err := c.gw.UpdateUser(sess.UserID, fields); err != nil {
		return err
	}
	c.channels.Publish(NSUsers, EvtUserUpdated, ChangeEvent{
		UserID: sess.UserID,
		Fields: fields,
	})
	return nil
}

// RecomputeTaskStatuses re-derives each non-Done task's status from its date
// range, updates the ones that changed, and sends the current user a
// status-change notification per update. Returns how many tasks changed.
func (c *Coordinator) RecomputeTaskStatuses() (int, error) {
	sess, ok := c.sessions.Current()
	if !ok {
		return 0, ErrUnauthenticated
	}
	projects, err := c.gw.Projects()
	if err != nil {
		return 0, err
	}

	now := c.now()
	updated := 0
	for _, p := range projects {
		tasks, err := c.gw.Tasks(p.ProjectID)
		if err != nil {
			// One failing project should not abort the whole sweep.
			log.Printf("status sweep: tasks for %s: %v", p.ProjectID, err)
			continue
		}
		for _, t := range tasks {
			if t.Status == StatusDone {
				continue
			}
			auto := AutoStatus(t.StartDate, t.EndDate, now)
			if auto == t.Status {
				continue
			}
			if err := c.UpdateTask(p.ProjectID, t.TaskID, map[string]any{"status": auto}); err != nil {
				log.Printf("status sweep: update %s: %v", t.TaskID, err)
				continue
			}
			updated++
			body := fmt.Sprintf("Task %q status changed from %s to %s", t.Name, t.Status, auto)
			c.SendNotification(sess.UserID, "Task Status Updated", body, "")
		}
	}
	return updated, nil
}
