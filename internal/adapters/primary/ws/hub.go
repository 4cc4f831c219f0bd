package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Per-client send budget. A slow or dead client forfeits delivery
	// rather than stalling the fan-out.
	sendTimeout = 1500 * time.Millisecond

	// Per-client close budget during shutdown.
	closeTimeout = time.Second
)

// client is one connected overlay. The write mutex serializes frames from
// the broadcast path and the heartbeat reply path.
type client struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
	mu      sync.Mutex
	faulted bool
}

// markFaulted records a detected fault so the next broadcast evicts the
// client without attempting a send.
func (c *client) markFaulted() {
	c.mu.Lock()
	c.faulted = true
	c.mu.Unlock()
}

func (c *client) isFaulted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.faulted
}

// send writes one text frame bounded by sendTimeout.
func (c *client) send(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(sendTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// sendClose writes a close frame with the given code, best effort.
func (c *client) sendClose(code int, reason string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(closeTimeout))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
}

// Hub owns the connected client set. Membership reflects only connections
// confirmed open; entries are removed eagerly on any detected fault.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	logger  *SocketLogger
}

// NewHub creates an empty hub
func NewHub(logger *SocketLogger) *Hub {
	if logger == nil {
		logger = NewSocketLogger("hub", false)
	}

	return &Hub{
		clients: make(map[string]*client),
		logger:  logger,
	}
}

// Register adds a confirmed-open connection to the set
func (h *Hub) Register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	h.logger.Debug("client connected: %s", c.id)
}

// Unregister removes a connection and closes its socket
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()

	if ok {
		_ = c.conn.Close()
		h.logger.Debug("client disconnected: %s", c.id)
	}
}

// Count returns the size of the connected client set
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast relays one already-serialized payload to every client in the
// current snapshot. Clients detected as faulted are evicted without a send
// attempt; a send timeout or error evicts that client alone. No retries:
// reconnection is entirely client-initiated.
func (h *Hub) Broadcast(payload []byte) {
	snapshot := h.snapshot()
	if len(snapshot) == 0 {
		h.logger.Debug("no clients connected")
		return
	}

	for _, c := range snapshot {
		if c.isFaulted() {
			h.Unregister(c.id)
			h.logger.Warn("removed zombie client %s", c.id)
			continue
		}

		if err := c.send(payload); err != nil {
			h.Unregister(c.id)
			h.logger.Warn("removed client %s after send failure: %v", c.id, err)
		}
	}
}

// CloseAll closes every still-open connection with a going-away status,
// bounded per client and in aggregate so shutdown can never hang. The
// client set is cleared unconditionally afterward.
func (h *Hub) CloseAll(budget time.Duration) {
	snapshot := h.snapshot()

	h.logger.Info("shutting down: closing %d clients", len(snapshot))

	deadline := time.Now().Add(budget)
	for _, c := range snapshot {
		if time.Now().After(deadline) {
			break
		}
		if !c.isFaulted() {
			c.sendClose(websocket.CloseGoingAway, "server shutdown")
		}
		_ = c.conn.Close()
	}

	h.mu.Lock()
	h.clients = make(map[string]*client)
	h.mu.Unlock()
}

func (h *Hub) snapshot() []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, c)
	}
	return out
}
