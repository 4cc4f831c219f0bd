package ports

import (
	"context"
	"encoding/json"
)

// BroadcastServer fans the current slide payload out to every connected
// overlay client. Latest-value semantics: no persistence, no replay.
type BroadcastServer interface {
	// Start binds the listener and begins accepting connections. A bind
	// failure is the one hard startup fault and aborts the caller.
	Start(ctx context.Context, host string, port int) error
	// Stop closes every client with a going-away status within a bounded
	// time budget and shuts the listener down.
	Stop(ctx context.Context) error
	// Broadcast relays one JSON payload to all connected clients.
	Broadcast(payload json.RawMessage)
	// ClientCount returns the size of the connected client set.
	ClientCount() int
	// IsRunning reports whether the listener is accepting connections.
	IsRunning() bool
}
