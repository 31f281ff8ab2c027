package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingJoiner records room joins for assertions.
type recordingJoiner struct {
	mu    sync.Mutex
	joins []string
}

func (r *recordingJoiner) Join(ns Namespace, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joins = append(r.joins, string(ns)+":"+roomID)
}

func (r *recordingJoiner) joined() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.joins...)
}

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *Store, *recordingJoiner) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := NewStore(NewMemoryStorage())
	rooms := &recordingJoiner{}
	return NewGateway(srv.URL, store, rooms), store, rooms
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestLoginEstablishesSession(t *testing.T) {
	gw, store, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "login", body["action"])
		writeJSON(t, w, map[string]string{
			"token":     "tok-7",
			"userId":    "u7",
			"firstName": "Grace",
			"lastName":  "Hopper",
		})
	}))

	sess, err := gw.Login("grace@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "u7", sess.UserID)
	assert.Equal(t, "Grace Hopper", sess.FullName)
	assert.Equal(t, "grace@example.com", sess.Email)

	stored, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "tok-7", stored.Token)
}

func TestLoginValidation(t *testing.T) {
	gw, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := gw.Login("", "secret")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSignupPasswordLength(t *testing.T) {
	gw, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := gw.Signup(SignupFields{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Password: "short",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUnauthenticatedWithoutSession(t *testing.T) {
	gw, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := gw.Projects()
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	gw, store, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	store.Establish(testSession())

	expired := 0
	store.OnExpired(func() { expired++ })

	_, err := gw.Projects()
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, expired)

	_, ok := store.Current()
	assert.False(t, ok)
}

func TestServerErrorIsRequestError(t *testing.T) {
	gw, store, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	store.Establish(testSession())

	_, err := gw.Projects()
	var rerr *RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusInternalServerError, rerr.Status)
}

func TestProjectsJoinsRooms(t *testing.T) {
	gw, store, rooms := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		writeJSON(t, w, map[string]any{
			"projects": []Project{
				{ProjectID: "proj_1", Name: "Alpha"},
				{ProjectID: "proj_2", Name: "Beta"},
			},
		})
	}))
	store.Establish(testSession())

	projects, err := gw.Projects()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, []string{"projects:proj_1", "projects:proj_2"}, rooms.joined())
}

func TestTasksNormalizesDatesAndJoinsRooms(t *testing.T) {
	gw, store, rooms := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "proj_1", r.URL.Query().Get("projectId"))
		writeJSON(t, w, map[string]any{
			"tasks": []map[string]any{
				{
					"taskId":    "t1",
					"name":      "Draft",
					"status":    "Ongoing",
					"startDate": map[string]int64{"_seconds": 1741595400, "_nanoseconds": 0},
					"endDate":   "2025-03-20T00:00:00Z",
				},
				{
					"taskId":    "t2",
					"name":      "Plan",
					"status":    "Overdue",
					"startDate": "2024-01-01",
					"endDate":   "2024-01-08",
				},
			},
		})
	}))
	store.Establish(testSession())

	tasks, err := gw.Tasks("proj_1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "2025-03-10T08:30:00Z", tasks[0].StartDate)
	assert.Equal(t, "proj_1", tasks[0].ProjectID)
	assert.Equal(t, "2024-01-01T00:00:00Z", tasks[1].StartDate)
	assert.Equal(t, "2024-01-08T00:00:00Z", tasks[1].EndDate)
	assert.Equal(t, []string{"tasks:t1", "comments:t1", "tasks:t2", "comments:t2"}, rooms.joined())
}

func TestCommentsJoinsThreadRoom(t *testing.T) {
	gw, store, rooms := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"comments": []Comment{{CommentID: "c1", UserID: "u2", Message: "hi"}},
		})
	}))
	store.Establish(testSession())

	comments, err := gw.Comments("proj_1", "t1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, []string{"comments:t1"}, rooms.joined())
}

func TestSearchUsersShortQuerySkipsRequest(t *testing.T) {
	gw, store, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	store.Establish(testSession())

	users, err := gw.SearchUsers("a")
	require.NoError(t, err)
	assert.Nil(t, users)
}

func TestUserNameFallsBackToID(t *testing.T) {
	gw, store, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	store.Establish(testSession())

	assert.Equal(t, "u404", gw.UserName("u404"))
}

func TestMarkAllNotificationsRead(t *testing.T) {
	gw, store, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/notifications", r.URL.Path)
		writeJSON(t, w, map[string]int{"count": 4})
	}))
	store.Establish(testSession())

	count, err := gw.MarkAllNotificationsRead()
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
