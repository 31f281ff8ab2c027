package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsMsg struct {
	ns  Namespace
	env Envelope
}

// wsTestServer accepts one WebSocket connection per namespace under /ws/<ns>
// and records every envelope the client sends.
type wsTestServer struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[Namespace]*websocket.Conn
	msgs  chan wsMsg
}

func newWSTestServer(t *testing.T) *wsTestServer {
	t.Helper()
	s := &wsTestServer{
		conns: make(map[Namespace]*websocket.Conn),
		msgs:  make(chan wsMsg, 256),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ns := Namespace(strings.TrimPrefix(r.URL.Path, "/ws/"))
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns[ns] = conn
		s.mu.Unlock()
		for {
			var env Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			s.msgs <- wsMsg{ns: ns, env: env}
		}
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *wsTestServer) baseURL() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/ws"
}

func (s *wsTestServer) send(t *testing.T, ns Namespace, event EventType, payload any) {
	t.Helper()
	s.mu.Lock()
	conn := s.conns[ns]
	s.mu.Unlock()
	require.NotNil(t, conn, "no connection for %s", ns)

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Envelope{Type: event, Payload: data}))
}

func (s *wsTestServer) dropConn(ns Namespace) {
	s.mu.Lock()
	conn := s.conns[ns]
	delete(s.conns, ns)
	s.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// nextMsg waits for the next recorded envelope.
func (s *wsTestServer) nextMsg(t *testing.T) wsMsg {
	t.Helper()
	select {
	case m := <-s.msgs:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return wsMsg{}
	}
}

// drainMsgs collects messages until the stream stays quiet briefly.
func (s *wsTestServer) drainMsgs() []wsMsg {
	var out []wsMsg
	for {
		select {
		case m := <-s.msgs:
			out = append(out, m)
		case <-time.After(200 * time.Millisecond):
			return out
		}
	}
}

func connectedManager(t *testing.T, s *wsTestServer) *ChannelManager {
	t.Helper()
	m := NewChannelManager(s.baseURL())
	t.Cleanup(m.Close)
	m.Initialize(Session{UserID: "u1", Token: "tok"})
	for _, ns := range Namespaces {
		require.Equal(t, StateConnected, m.State(ns), "namespace %s", ns)
	}
	return m
}

func TestInitializeAuthenticatesEveryNamespace(t *testing.T) {
	s := newWSTestServer(t)
	m := connectedManager(t, s)

	auths := make(map[Namespace]int)
	subs := make(map[Namespace]int)
	for _, msg := range s.drainMsgs() {
		switch msg.env.Type {
		case EvtAuthenticate:
			auths[msg.ns]++
			var p struct {
				UserID string `json:"userId"`
			}
			require.NoError(t, json.Unmarshal(msg.env.Payload, &p))
			assert.Equal(t, "u1", p.UserID)
		case EvtSubscribeUser:
			subs[msg.ns]++
		}
	}

	for _, ns := range Namespaces {
		assert.Equal(t, 1, auths[ns], "authenticate on %s", ns)
	}
	assert.Equal(t, 1, subs[NSNotifications])
	assert.Equal(t, AggregateConnected, m.Status())
}

func TestCheckHealthLeavesHealthyChannelsAlone(t *testing.T) {
	s := newWSTestServer(t)
	m := connectedManager(t, s)
	s.drainMsgs()

	m.CheckHealth()
	m.CheckHealth()

	assert.Empty(t, s.drainMsgs(), "healthy channels must not re-authenticate")
}

func TestCheckHealthBeforeInitializeIsNoop(t *testing.T) {
	s := newWSTestServer(t)
	m := NewChannelManager(s.baseURL())
	t.Cleanup(m.Close)

	m.CheckHealth()

	for _, ns := range Namespaces {
		assert.Equal(t, StateDisconnected, m.State(ns))
	}
	assert.Equal(t, AggregateDisconnected, m.Status())
}

func TestJoinSendsOncePerRoom(t *testing.T) {
	s := newWSTestServer(t)
	m := connectedManager(t, s)
	s.drainMsgs()

	m.Join(NSProjects, "proj_1")
	m.Join(NSProjects, "proj_1")
	m.Join(NSProjects, "")

	msgs := s.drainMsgs()
	require.Len(t, msgs, 1)
	assert.Equal(t, EvtJoinProject, msgs[0].env.Type)

	var p struct {
		ProjectID string `json:"projectId"`
	}
	require.NoError(t, json.Unmarshal(msgs[0].env.Payload, &p))
	assert.Equal(t, "proj_1", p.ProjectID)
}

func TestPublishDroppedWhenDisconnected(t *testing.T) {
	s := newWSTestServer(t)
	m := NewChannelManager(s.baseURL())
	t.Cleanup(m.Close)

	// Never initialized, so nothing is connected; must not panic or queue.
	m.Publish(NSProjects, EvtProjectUpdated, ChangeEvent{ProjectID: "proj_1"})

	assert.Empty(t, s.drainMsgs())
}

func TestReadLoopDeliversDecodedEvents(t *testing.T) {
	s := newWSTestServer(t)
	m := connectedManager(t, s)

	s.send(t, NSTasks, EvtTaskUpdated, ChangeEvent{
		ProjectID: "proj_1",
		TaskID:    "t1",
		Action:    ActionUpdate,
	})

	select {
	case ev := <-m.Events(NSTasks):
		assert.Equal(t, NSTasks, ev.Namespace)
		assert.Equal(t, EvtTaskUpdated, ev.Type)
		assert.Equal(t, "t1", ev.TaskID)
		assert.Equal(t, ActionUpdate, ev.Action)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestReconnectRejoinsRooms(t *testing.T) {
	s := newWSTestServer(t)
	m := connectedManager(t, s)
	m.Join(NSProjects, "proj_1")
	s.drainMsgs()

	s.dropConn(NSProjects)
	require.Eventually(t, func() bool {
		return m.State(NSProjects) == StateDisconnected
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, AggregatePartial, m.Status())

	m.CheckHealth()
	require.Equal(t, StateConnected, m.State(NSProjects))

	var types []EventType
	for _, msg := range s.drainMsgs() {
		if msg.ns == NSProjects {
			types = append(types, msg.env.Type)
		}
	}
	assert.Equal(t, []EventType{EvtAuthenticate, EvtJoinProject}, types)
}

func TestJoinWhileDisconnectedIsRecorded(t *testing.T) {
	s := newWSTestServer(t)
	m := NewChannelManager(s.baseURL())
	t.Cleanup(m.Close)

	m.Join(NSProjects, "proj_1")
	m.Initialize(Session{UserID: "u1"})

	var types []EventType
	for _, msg := range s.drainMsgs() {
		if msg.ns == NSProjects {
			types = append(types, msg.env.Type)
		}
	}
	assert.Equal(t, []EventType{EvtAuthenticate, EvtJoinProject}, types)
}
