package publisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worship-tools/slidecast/internal/domain/entities"
)

// newEchoServer accepts one WebSocket connection at a time and forwards
// every received text frame to the received channel.
func newEchoServer(t *testing.T) (string, <-chan []byte) {
	t.Helper()
	received := make(chan []byte, 10)

	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- message
		}
	}))
	t.Cleanup(ts.Close)

	return "ws" + strings.TrimPrefix(ts.URL, "http"), received
}

func TestClient_ConnectAndSend(t *testing.T) {
	uri, received := newEchoServer(t)

	c := NewClient(uri, nil)
	assert.False(t, c.Connected())

	require.NoError(t, c.Connect(context.Background()))
	assert.True(t, c.Connected())
	defer func() { _ = c.Close() }()

	slide := entities.Slide{Style: entities.StyleLyrics, Caption: "Amazing Grace", Headline: "verse one"}
	require.NoError(t, c.Send(slide))

	select {
	case message := <-received:
		var got entities.Slide
		require.NoError(t, json.Unmarshal(message, &got))
		assert.Equal(t, slide, got)
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the slide")
	}
}

func TestClient_ConnectIdempotent(t *testing.T) {
	uri, _ := newEchoServer(t)

	c := NewClient(uri, nil)
	require.NoError(t, c.Connect(context.Background()))
	defer func() { _ = c.Close() }()

	// a second connect on a live connection is a no-op
	require.NoError(t, c.Connect(context.Background()))
	assert.True(t, c.Connected())
}

func TestClient_SendWithoutConnect(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1/ws", nil)
	err := c.Send(entities.Slide{Style: entities.StyleBlank})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestClient_ConnectFailure(t *testing.T) {
	// nothing listens on this port
	c := NewClient("ws://127.0.0.1:1/ws", nil)
	err := c.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dialing")
	assert.False(t, c.Connected())
}

func TestClient_SendFailureDropsConnection(t *testing.T) {
	uri, _ := newEchoServer(t)

	c := NewClient(uri, nil)
	require.NoError(t, c.Connect(context.Background()))

	// kill the transport out from under the client
	c.mu.Lock()
	require.NoError(t, c.conn.UnderlyingConn().Close())
	c.mu.Unlock()

	err := c.Send(entities.Slide{Style: entities.StyleBlank})
	require.Error(t, err)
	assert.False(t, c.Connected())

	// the connection can be re-established afterward
	require.NoError(t, c.Connect(context.Background()))
	assert.True(t, c.Connected())
	_ = c.Close()
}

func TestClient_Close(t *testing.T) {
	uri, _ := newEchoServer(t)

	c := NewClient(uri, nil)
	require.NoError(t, c.Connect(context.Background()))

	require.NoError(t, c.Close())
	assert.False(t, c.Connected())

	// closing again is a no-op
	assert.NoError(t, c.Close())
}
