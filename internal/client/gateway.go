package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// RoomJoiner is how the gateway keeps room membership synchronized with the
// resources the client has seen. Satisfied by *ChannelManager.
type RoomJoiner interface {
	Join(ns Namespace, roomID string)
}

// Gateway makes REST calls to the Taskboard backend. Every authenticated
// call attaches the current session's bearer token; a 401 expires the
// session store and surfaces as ErrSessionExpired.
type Gateway struct {
	baseURL  string
	sessions *Store
	rooms    RoomJoiner
	client   *http.Client
}

// NewGateway creates a gateway targeting the given base URL
// (e.g. "http://127.0.0.1:8080").
func NewGateway(baseURL string, sessions *Store, rooms RoomJoiner) *Gateway {
	return &Gateway{
		baseURL:  baseURL,
		sessions: sessions,
		rooms:    rooms,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// --- auth ---

type authResponse struct {
	Token        string `json:"token"`
	SessionToken string `json:"sessionToken"`
	UserID       string `json:"userId"`
	UID          string `json:"uid"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Error        string `json:"error"`
}

func (r authResponse) session(fallbackEmail string) Session {
	token := r.Token
	if token == "" {
		token = r.SessionToken
	}
	userID := r.UserID
	if userID == "" {
		userID = r.UID
	}
	email := r.Email
	if email == "" {
		email = fallbackEmail
	}
	var name string
	if r.FirstName != "" || r.LastName != "" {
		name = r.FirstName + " " + r.LastName
	}
	return Session{UserID: userID, Token: token, FullName: name, Email: email}
}

// Login authenticates and establishes the session on success.
func (g *Gateway) Login(email, password string) (Session, error) {
	if email == "" || password == "" {
		return Session{}, &ValidationError{Field: "email/password", Reason: "is required"}
	}
	body := map[string]string{"action": "login", "email": email, "password": password}
	var resp authResponse
	if err := g.doJSON(http.MethodPost, "/api/auth", body, &resp, false); err != nil {
		return Session{}, err
	}
	sess := resp.session(email)
	g.sessions.Establish(sess)
	return sess, nil
}

// SignupFields are the required signup inputs.
type SignupFields struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Signup registers a new account and establishes the session on success.
func (g *Gateway) Signup(f SignupFields) (Session, error) {
	if f.FirstName == "" || f.LastName == "" || f.Email == "" || f.Password == "" {
		return Session{}, &ValidationError{Field: "all fields", Reason: "are required"}
	}
	if len(f.Password) < 8 {
		return Session{}, &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	body := map[string]string{
		"action":    "signup",
		"firstName": f.FirstName,
		"lastName":  f.LastName,
		"email":     f.Email,
		"password":  f.Password,
	}
	var resp authResponse
	if err := g.doJSON(http.MethodPost, "/api/auth", body, &resp, false); err != nil {
		return Session{}, err
	}
	sess := resp.session(f.Email)
	if sess.FullName == "" {
		sess.FullName = f.FirstName + " " + f.LastName
	}
	g.sessions.Establish(sess)
	return sess, nil
}

// --- projects ---

// Projects lists the user's projects and joins each project's room.
func (g *Gateway) Projects() ([]Project, error) {
	var resp struct {
		Projects []Project `json:"projects"`
	}
	if err := g.doJSON(http.MethodGet, "/api/projects", nil, &resp, true); err != nil {
		return nil, err
	}
	for _, p := range resp.Projects {
		g.rooms.Join(NSProjects, p.ProjectID)
	}
	return resp.Projects, nil
}

// Project fetches one project and joins its room.
func (g *Gateway) Project(projectID string) (*Project, error) {
	var resp struct {
		Project *Project `json:"project"`
	}
	path := "/api/projects?projectId=" + url.QueryEscape(projectID)
	if err := g.doJSON(http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.Project != nil {
		g.rooms.Join(NSProjects, resp.Project.ProjectID)
	}
	return resp.Project, nil
}

// CreateProject creates a project. The client supplies the project id.
func (g *Gateway) CreateProject(p Project) error {
	return g.doJSON(http.MethodPost, "/api/projects", p, nil, true)
}

// UpdateProject applies a partial update to a project.
func (g *Gateway) UpdateProject(projectID string, fields map[string]any) error {
	path := "/api/projects?projectId=" + url.QueryEscape(projectID)
	return g.doJSON(http.MethodPut, path, fields, nil, true)
}

// DeleteProject removes a project.
func (g *Gateway) DeleteProject(projectID string) error {
	path := "/api/projects?projectId=" + url.QueryEscape(projectID)
	return g.doJSON(http.MethodDelete, path, nil, nil, true)
}

// AddMember adds a user to a project's team.
func (g *Gateway) AddMember(projectID, userID, role string) error {
	path := "/api/projects/members?projectId=" + url.QueryEscape(projectID)
	body := map[string]string{"action": "add", "userId": userID, "role": role}
	return g.doJSON(http.MethodPost, path, body, nil, true)
}

// --- tasks ---

// Tasks lists a project's tasks, normalizes dates, and joins each task's
// task room and comment-thread room.
func (g *Gateway) Tasks(projectID string) ([]Task, error) {
	var resp struct {
		Tasks []taskWire `json:"tasks"`
	}
	path := "/api/projects/tasks?projectId=" + url.QueryEscape(projectID)
	if err := g.doJSON(http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	tasks := make([]Task, 0, len(resp.Tasks))
	for _, w := range resp.Tasks {
		t := w.normalize()
		if t.ProjectID == "" {
			t.ProjectID = projectID
		}
		g.rooms.Join(NSTasks, t.TaskID)
		g.rooms.Join(NSComments, t.TaskID)
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Task fetches one task, normalizes dates, and joins its rooms.
func (g *Gateway) Task(projectID, taskID string) (*Task, error) {
	var resp struct {
		Task *taskWire `json:"task"`
	}
	path := fmt.Sprintf("/api/projects/tasks?projectId=%s&taskId=%s",
		url.QueryEscape(projectID), url.QueryEscape(taskID))
	if err := g.doJSON(http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.Task == nil {
		return nil, nil
	}
	t := resp.Task.normalize()
	if t.ProjectID == "" {
		t.ProjectID = projectID
	}
	g.rooms.Join(NSTasks, t.TaskID)
	g.rooms.Join(NSComments, t.TaskID)
	return &t, nil
}

// CreateTask creates a task under a project. The client supplies the task id.
func (g *Gateway) CreateTask(projectID string, t Task) error {
	path := "/api/projects/tasks?projectId=" + url.QueryEscape(projectID)
	return g.doJSON(http.MethodPost, path, t, nil, true)
}

// UpdateTask applies a partial update to a task.
func (g *Gateway) UpdateTask(projectID, taskID string, fields map[string]any) error {
	path := fmt.Sprintf("/api/projects/tasks?projectId=%s&taskId=%s",
		url.QueryEscape(projectID), url.QueryEscape(taskID))
	return g.doJSON(http.MethodPut, path, fields, nil, true)
}

// DeleteTask removes a task.
func (g *Gateway) DeleteTask(projectID, taskID string) error {
	path := fmt.Sprintf("/api/projects/tasks?projectId=%s&taskId=%s",
		url.QueryEscape(projectID), url.QueryEscape(taskID))
	return g.doJSON(http.MethodDelete, path, nil, nil, true)
}

// --- comments ---

// Comments lists a task's comments and joins its comment-thread room.
func (g *Gateway) Comments(projectID, taskID string) ([]Comment, error) {
	g.rooms.Join(NSComments, taskID)
	var resp struct {
		Comments []Comment `json:"comments"`
	}
	path := fmt.Sprintf("/api/projects/tasks/comments?projectId=%s&taskId=%s",
		url.QueryEscape(projectID), url.QueryEscape(taskID))
	if err := g.doJSON(http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// AddComment posts a comment and returns the server-assigned id.
func (g *Gateway) AddComment(projectID, taskID, message string) (string, error) {
	var resp struct {
		CommentID string `json:"commentId"`
	}
	path := fmt.Sprintf("/api/projects/tasks/comments?projectId=%s&taskId=%s",
		url.QueryEscape(projectID), url.QueryEscape(taskID))
	body := map[string]string{"message": message}
	if err := g.doJSON(http.MethodPost, path, body, &resp, true); err != nil {
		return "", err
	}
	return resp.CommentID, nil
}

// DeleteComment removes a comment.
func (g *Gateway) DeleteComment(projectID, taskID, commentID string) error {
	path := fmt.Sprintf("/api/projects/tasks/comments?projectId=%s&taskId=%s&commentId=%s",
		url.QueryEscape(projectID), url.QueryEscape(taskID), url.QueryEscape(commentID))
	return g.doJSON(http.MethodDelete, path, nil, nil, true)
}

// --- notifications ---

// Notifications lists the current user's notifications.
func (g *Gateway) Notifications() ([]Notification, error) {
	var resp struct {
		Notifications []Notification `json:"notifications"`
	}
	if err := g.doJSON(http.MethodGet, "/api/notifications", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

// SendNotification delivers a notification to a user and returns its id.
func (g *Gateway) SendNotification(userID, title, body, link string) (string, error) {
	var resp struct {
		NotificationID string `json:"notificationId"`
	}
	payload := map[string]any{"userId": userID, "title": title, "body": body}
	if link != "" {
		payload["link"] = link
	}
	if err := g.doJSON(http.MethodPost, "/api/notifications", payload, &resp, true); err != nil {
		return "", err
	}
	return resp.NotificationID, nil
}

// MarkNotificationRead marks one notification as read.
func (g *Gateway) MarkNotificationRead(notificationID string) error {
	path := "/api/notifications?notificationId=" + url.QueryEscape(notificationID)
	return g.doJSON(http.MethodPut, path, nil, nil, true)
}

// MarkAllNotificationsRead marks every notification as read and returns how
// many were affected.
func (g *Gateway) MarkAllNotificationsRead() (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := g.doJSON(http.MethodPut, "/api/notifications", nil, &resp, true); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// --- users ---

// SearchUsers finds users matching a query. Queries shorter than two
// characters return no results without a request.
func (g *Gateway) SearchUsers(query string) ([]User, error) {
	if len(query) < 2 {
		return nil, nil
	}
	var resp struct {
		Users []User `json:"users"`
	}
	path := "/api/users?action=search&query=" + url.QueryEscape(query)
	if err := g.doJSON(http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// UserName resolves a user id to a display name, falling back to the id.
func (g *Gateway) UserName(userID string) string {
	var resp struct {
		Name string `json:"name"`
	}
	path := "/api/users?action=name&userId=" + url.QueryEscape(userID)
	if err := g.doJSON(http.MethodGet, path, nil, &resp, true); err != nil || resp.Name == "" {
		return userID
	}
	return resp.Name
}

// UpdateUser applies a partial update to the current user's profile.
func (g *Gateway) UpdateUser(userID string, fields map[string]any) error {
	path := "/api/users?userId=" + url.QueryEscape(userID)
	return g.doJSON(http.MethodPut, path, fields, nil, true)
}

// doJSON performs one request. It maps every failure into the error
// taxonomy: no session → ErrUnauthenticated, 401 → expire + ErrSessionExpired,
// other non-2xx → *RequestError, network → *TransportError.
func (g *Gateway) doJSON(method, path string, body, out any, authed bool) error {
	var token string
	if authed {
		token = g.sessions.Token()
		if token == "" {
			return ErrUnauthenticated
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, g.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if authed && resp.StatusCode == http.StatusUnauthorized {
		g.sessions.Expire()
		return ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return &RequestError{Status: resp.StatusCode, Body: string(data)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
