package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout   = 10 * time.Second
	pongTimeout    = 60 * time.Second
	pingInterval   = 30 * time.Second
	eventQueueSize = 64
)

// ConnState is the per-channel connection state.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

// AggregateStatus summarizes the five channels for the passive indicator.
type AggregateStatus int

const (
	AggregateDisconnected AggregateStatus = iota
	AggregatePartial
	AggregateConnected
)

func (s AggregateStatus) String() string {
	switch s {
	case AggregateConnected:
		return "Connected"
	case AggregatePartial:
		return "Partially Connected"
	default:
		return "Disconnected"
	}
}

// ChannelEventMsg delivers one ChangeEvent into the Bubble Tea loop.
type ChannelEventMsg struct {
	Event ChangeEvent
}

// channel is one namespace's connection handle. The events queue outlives
// individual connections so subscribers never re-subscribe across reconnects.
type channel struct {
	ns Namespace

	mu      sync.Mutex
	writeMu sync.Mutex // serialises all conn writes (ping, join, publish, auth)
	conn    *websocket.Conn
	state   ConnState
	rooms   map[string]bool
	pingCtx context.CancelFunc

	events chan ChangeEvent
}

// ChannelManager owns one persistent channel per resource namespace and
// handles connect, authenticate, room membership and reconnect.
type ChannelManager struct {
	baseURL string
	dialer  *websocket.Dialer

	mu       sync.Mutex
	userID   string
	channels map[Namespace]*channel
}

// NewChannelManager creates a manager for the given WebSocket base URL
// (e.g. "ws://127.0.0.1:8080/ws"); each namespace connects to <base>/<ns>.
func NewChannelManager(baseURL string) *ChannelManager {
	m := &ChannelManager{
		baseURL:  baseURL,
		dialer:   websocket.DefaultDialer,
		channels: make(map[Namespace]*channel, len(Namespaces)),
	}
	for _, ns := range Namespaces {
		m.channels[ns] = &channel{
			ns:     ns,
			rooms:  make(map[string]bool),
			events: make(chan ChangeEvent, eventQueueSize),
		}
	}
	return m
}

// Initialize connects every Disconnected namespace, authenticates it, and
// (for notifications) subscribes to the user's stream. It is level-triggered
// and idempotent: already-connected channels are left untouched, so repeated
// calls send no duplicate authenticate messages.
func (m *ChannelManager) Initialize(sess Session) {
	if sess.UserID == "" {
		log.Printf("channels: initialize without user id, skipping")
		return
	}
	m.mu.Lock()
	m.userID = sess.UserID
	m.mu.Unlock()

	for _, ns := range Namespaces {
		m.connect(m.channels[ns], sess.UserID)
	}
}

func (m *ChannelManager) connect(c *channel, userID string) {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.mu.Unlock()

	conn, _, err := m.dialer.Dial(fmt.Sprintf("%s/%s", m.baseURL, c.ns), nil)
	if err != nil {
		log.Printf("channels: dial %s: %v", c.ns, err)
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		return
	}

	// Authenticate before the connection is shared; no write mutex needed yet.
	auth := struct {
		UserID string `json:"userId"`
	}{UserID: userID}
	if err := writeEnvelope(conn, EvtAuthenticate, auth); err != nil {
		conn.Close()
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		return
	}
	if c.ns == NSNotifications {
		if err := writeEnvelope(conn, EvtSubscribeUser, auth); err != nil {
			conn.Close()
			c.mu.Lock()
			c.state = StateDisconnected
			c.mu.Unlock()
			return
		}
	}

	c.mu.Lock()
	if c.pingCtx != nil {
		c.pingCtx()
	}
	pingCtx, pingCancel := context.WithCancel(context.Background())
	c.conn = conn
	c.state = StateConnected
	c.pingCtx = pingCancel
	rooms := make([]string, 0, len(c.rooms))
	for r := range c.rooms {
		rooms = append(rooms, r)
	}
	c.mu.Unlock()

	// Rooms joined before a drop are rejoined on the fresh connection.
	for _, r := range rooms {
		c.sendJoin(r)
	}

	go c.pingLoop(pingCtx, conn)
	go c.readLoop(conn)
}

// CheckHealth reconnects every Disconnected channel. This is the sole
// reconnection policy: no backoff, no retry budget; safe to call on a fixed
// interval. A no-op before the first Initialize.
func (m *ChannelManager) CheckHealth() {
	m.mu.Lock()
	userID := m.userID
	m.mu.Unlock()
	if userID == "" {
		return
	}
	for _, ns := range Namespaces {
		c := m.channels[ns]
		c.mu.Lock()
		down := c.state == StateDisconnected
		c.mu.Unlock()
		if down {
			log.Printf("channels: %s disconnected, reconnecting", ns)
			m.connect(c, userID)
		}
	}
}

// Join registers room membership on a namespace. Joining an already-joined
// room is a no-op; joining while disconnected records the room for the
// rejoin pass after the next reconnect.
func (m *ChannelManager) Join(ns Namespace, roomID string) {
	if roomID == "" {
		return
	}
	c := m.channels[ns]
	c.mu.Lock()
	if c.rooms[roomID] {
		c.mu.Unlock()
		return
	}
	c.rooms[roomID] = true
	connected := c.state == StateConnected
	c.mu.Unlock()

	if connected {
		c.sendJoin(roomID)
	}
}

// Publish sends a change event on a namespace. If the channel is not
// Connected the event is dropped, not queued.
func (m *ChannelManager) Publish(ns Namespace, event EventType, ev ChangeEvent) {
	c := m.channels[ns]
	c.mu.Lock()
	conn := c.conn
	connected := c.state == StateConnected
	c.mu.Unlock()
	if !connected {
		log.Printf("channels: publish %s on %s dropped: not connected", event, ns)
		return
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := writeEnvelope(conn, event, ev); err != nil {
		log.Printf("channels: publish %s on %s: %v", event, ns, err)
	}
}

// State reports one channel's connection state.
func (m *ChannelManager) State(ns Namespace) ConnState {
	c := m.channels[ns]
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status aggregates the five channel states for the connection indicator.
func (m *ChannelManager) Status() AggregateStatus {
	connected := 0
	for _, ns := range Namespaces {
		if m.State(ns) == StateConnected {
			connected++
		}
	}
	switch connected {
	case 0:
		return AggregateDisconnected
	case len(Namespaces):
		return AggregateConnected
	default:
		return AggregatePartial
	}
}

// WaitEvent returns a command that blocks for the next event on a namespace
// and delivers it to the program. Re-arm it after each ChannelEventMsg to
// preserve per-namespace arrival order.
func (m *ChannelManager) WaitEvent(ns Namespace) tea.Cmd {
	c := m.channels[ns]
	return func() tea.Msg {
		return ChannelEventMsg{Event: <-c.events}
	}
}

// Events exposes a namespace's queue for direct draining in tests.
func (m *ChannelManager) Events(ns Namespace) <-chan ChangeEvent {
	return m.channels[ns].events
}

// Close tears down every connection, leaving all channels Disconnected.
func (m *ChannelManager) Close() {
	for _, ns := range Namespaces {
		c := m.channels[ns]
		c.mu.Lock()
		if c.pingCtx != nil {
			c.pingCtx()
			c.pingCtx = nil
		}
		if c.conn != nil {
			c.conn.Close()
			c.conn = nil
		}
		c.state = StateDisconnected
		c.mu.Unlock()
	}
}

func (c *channel) sendJoin(roomID string) {
	var event EventType
	var payload any
	switch c.ns {
	case NSProjects:
		event = EvtJoinProject
		payload = struct {
			ProjectID string `json:"projectId"`
		}{roomID}
	case NSTasks:
		event = EvtJoinTask
		payload = struct {
			TaskID string `json:"taskId"`
		}{roomID}
	case NSComments:
		event = EvtJoinCommentThread
		payload = struct {
			TaskID string `json:"taskId"`
		}{roomID}
	default:
		return
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := writeEnvelope(conn, event, payload); err != nil {
		log.Printf("channels: join %s on %s: %v", roomID, c.ns, err)
	}
}

// readLoop decodes envelopes into ChangeEvents until the connection drops,
// then marks the channel Disconnected for the next health check.
func (c *channel) readLoop(conn *websocket.Conn) {
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(pongTimeout))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
				c.state = StateDisconnected
			}
			c.mu.Unlock()
			conn.Close()
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		var ev ChangeEvent
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &ev); err != nil {
				continue
			}
		}
		ev.Namespace = c.ns
		ev.Type = env.Type

		select {
		case c.events <- ev:
		default:
			// Queue full: the reconciler re-fetches on every event, so a
			// dropped signal is recovered by the next one.
			log.Printf("channels: %s event queue full, dropping %s", c.ns, env.Type)
		}
	}
}

// pingLoop sends periodic pings on the given connection. It exits when the
// context is cancelled or the connection is replaced.
func (c *channel) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			cc := c.conn
			c.mu.Unlock()
			if cc != conn {
				return
			}
			c.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func writeEnvelope(conn *websocket.Conn, event EventType, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteJSON(Envelope{Type: event, Payload: data})
}
