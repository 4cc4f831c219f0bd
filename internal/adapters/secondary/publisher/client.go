// Package publisher holds the controller's outbound WebSocket connection
// to the broadcast server.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/worship-tools/slidecast/internal/domain/entities"
)

const (
	dialTimeout  = 5 * time.Second
	writeTimeout = 5 * time.Second
)

// ErrNotConnected is returned by Send when no connection is held.
var ErrNotConnected = errors.New("websocket not connected")

// Client is a single outbound connection used to publish slides. It is
// intentionally lightweight and synchronous: no reconnection loops, no
// retry logic. A failed send drops the connection and the controller
// decides when to dial again.
type Client struct {
	uri    string
	logger *slog.Logger
	mu     sync.Mutex
	conn   *websocket.Conn
}

// NewClient creates a publisher for the given ws:// URI
func NewClient(uri string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		uri:    uri,
		logger: logger.With("component", "publisher"),
	}
}

// Connect dials the broadcast server
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.uri, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", c.uri, err)
	}

	c.conn = conn
	c.logger.Info("connected to broadcast server", slog.String("uri", c.uri))

	// The server echoes broadcasts back to every client, this one
	// included. Drain them so control frames keep flowing.
	go c.drain(conn)

	return nil
}

// Send serializes the slide and sends it as a text frame. On any send
// error the connection is dropped; the next Connect establishes a new one.
func (c *Client) Send(slide entities.Slide) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(slide)
	if err != nil {
		return fmt.Errorf("encoding slide: %w", err)
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.logger.Warn("send failed, dropping connection", slog.String("error", err.Error()))
		_ = c.conn.Close()
		c.conn = nil
		return fmt.Errorf("sending slide: %w", err)
	}

	return nil
}

// Connected reports whether a connection is currently held
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close shuts the connection down
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	err := c.conn.Close()
	c.conn = nil
	return err
}

// drain discards inbound frames until the connection dies. It deliberately
// does not touch c.conn: Send and Close own that under the mutex.
func (c *Client) drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
