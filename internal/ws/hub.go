package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"messaging-service/internal/observability"
	"messaging-service/internal/pubsub"
)

// ErrNoSubscribers is returned when a private destination has no active
// connections, typically because the recipient is offline. Callers treat it
// as best-effort delivery, not a failure.
var ErrNoSubscribers = errors.New("no active connections for destination")

// connState carries per-connection metadata plus the write mutex. Gorilla
// connections allow one writer at a time; every write to a registered
// connection goes through this mutex, whichever goroutine initiates it.
type connState struct {
	info ConnInfo
	wmu  sync.Mutex
}

// Hub maintains the active websocket connections per username and implements
// the pubsub.Channel contract on top of them. The hub lock only guards the
// maps; actual writes serialize on the per-connection mutex, and a connection
// that fails a write is closed and evicted.
type Hub struct {
	mu        sync.RWMutex
	userConns map[string]map[*websocket.Conn]*connState
}

var _ pubsub.Channel = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{userConns: make(map[string]map[*websocket.Conn]*connState)}
}

// Add registers a websocket connection for a user.
func (h *Hub) Add(username string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.userConns[username]; !ok {
		h.userConns[username] = make(map[*websocket.Conn]*connState)
	}
	h.userConns[username][conn] = &connState{info: info}
}

// Remove drops a user's websocket connection.
func (h *Hub) Remove(username string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.userConns[username]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.userConns, username)
		}
	}
}

// ConnCount returns the number of active connections for a user.
func (h *Hub) ConnCount(username string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[username])
}

// Publish delivers a payload to a destination: "user:<name>" reaches every
// connection of that user, the presence topic reaches every connection.
// No acknowledgement is expected from clients.
func (h *Hub) Publish(destination string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	if destination == pubsub.PresenceTopic {
		h.writeAll(h.allConns(), data)
		return nil
	}

	if username, ok := strings.CutPrefix(destination, "user:"); ok {
		conns := h.connsFor(username)
		if len(conns) == 0 {
			return fmt.Errorf("%w: %s", ErrNoSubscribers, destination)
		}
		h.writeAll(conns, data)
		return nil
	}

	return fmt.Errorf("unknown destination %q", destination)
}

// WriteTo sends a payload to one specific connection, serialized with any
// concurrent hub pushes to it. A connection not (yet) registered is written
// directly; during the handshake there is only one writer.
func (h *Hub) WriteTo(username string, conn *websocket.Conn, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	h.mu.RLock()
	state := h.userConns[username][conn]
	h.mu.RUnlock()

	if state == nil {
		return conn.WriteMessage(websocket.TextMessage, data)
	}

	state.wmu.Lock()
	defer state.wmu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

type target struct {
	conn     *websocket.Conn
	username string
	state    *connState
}

func (h *Hub) connsFor(username string) []target {
	h.mu.RLock()
	defer h.mu.RUnlock()
	targets := make([]target, 0, len(h.userConns[username]))
	for conn, state := range h.userConns[username] {
		targets = append(targets, target{conn: conn, username: username, state: state})
	}
	return targets
}

func (h *Hub) allConns() []target {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var targets []target
	for username, conns := range h.userConns {
		for conn, state := range conns {
			targets = append(targets, target{conn: conn, username: username, state: state})
		}
	}
	return targets
}

func (h *Hub) writeAll(targets []target, data []byte) {
	for _, t := range targets {
		t.state.wmu.Lock()
		err := t.conn.WriteMessage(websocket.TextMessage, data)
		t.state.wmu.Unlock()
		if err != nil {
			log.Printf("websocket write error user=%s: %v", t.username, err)
			t.conn.Close()
			h.Remove(t.username, t.conn)
			observability.IncWSEvent("ws_error")
		}
	}
}
