// Package ws implements the broadcast server: a single WebSocket endpoint
// that relays the current slide payload to every connected overlay client.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/worship-tools/slidecast/internal/domain/entities"
)

const (
	// Heartbeat tokens exchanged with overlay clients as plain text frames.
	heartbeatToken = "ping"
	heartbeatAck   = "pong"

	// Maximum inbound frame size; slides are small.
	maxMessageSize = 64 * 1024

	readBufferSize  = 1024
	writeBufferSize = 1024
)

// Server implements the BroadcastServer port over gorilla/websocket.
type Server struct {
	hub       *Hub
	sanitizer *payloadSanitizer
	config    *entities.ServerConfig
	logger    *SocketLogger
	server    *http.Server
	mu        sync.RWMutex
	running   bool
}

// NewServer creates a broadcast server.
// config must not be nil - use config.GetDefaultConfig().Server if needed
func NewServer(config *entities.ServerConfig) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid ServerConfig")
	}

	logger := NewSocketLogger("server", false)

	return &Server{
		hub:       NewHub(logger),
		sanitizer: newPayloadSanitizer(),
		config:    config,
		logger:    logger,
	}
}

// NewServerWithLogging creates a broadcast server with logging configuration
func NewServerWithLogging(config *entities.ServerConfig, loggingConfig *entities.LoggingConfig) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid ServerConfig")
	}

	level := entities.LogLevelInfo
	verbose := false

	if loggingConfig != nil {
		level = loggingConfig.GetLevel()
		verbose = loggingConfig.Verbose
	}

	logger := NewSocketLoggerWithLevel("server", verbose, level)

	return &Server{
		hub:       NewHub(logger),
		sanitizer: newPayloadSanitizer(),
		config:    config,
		logger:    logger,
	}
}

// Start binds the listener and begins accepting connections. The bind
// happens synchronously: if no listener can be bound, no broadcast is
// possible and startup must abort.
func (s *Server) Start(ctx context.Context, host string, port int) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("binding %s: %w", addr, err)
	}

	router := s.setupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.GetCORSOrigins(),
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	s.server = &http.Server{
		Handler:     c.Handler(router),
		ReadTimeout: 0, // connections are long-lived
		IdleTimeout: 60 * time.Second,
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		s.logger.Info("broadcast server listening on ws://%s/ws", addr)
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error: %v", err)
		}
	}()

	return nil
}

// Stop closes every client with a going-away status within the configured
// budget, then shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.hub.CloseAll(s.config.GetShutdownTimeout())

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.GetShutdownTimeout())
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.running = false
	return nil
}

// Broadcast serializes once and relays the payload to all clients
func (s *Server) Broadcast(payload json.RawMessage) {
	s.hub.Broadcast(payload)
}

// ClientCount returns the size of the connected client set
func (s *Server) ClientCount() int {
	return s.hub.Count()
}

// IsRunning reports whether the server is accepting connections
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// setupRoutes configures the WebSocket endpoint and operational routes
func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	handler := createLoggingMiddleware(router, s.logger)
	handler = createRecoveryMiddleware(handler, s.logger)

	return handler
}

// handleHealth reports listener liveness and the connected client count
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"clients": s.hub.Count(),
	})
}

func (s *Server) createUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  readBufferSize,
		WriteBufferSize: writeBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			// Overlay pages are served from file:// or LAN hosts and the
			// controller dials without an Origin header. Cross-origin
			// policy is enforced by binding to loopback by default.
			return true
		},
	}
}

// handleWebSocket upgrades the request and runs the per-connection
// receive loop.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.createUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
	}

	s.hub.Register(c)
	go s.readLoop(c)
}

// readLoop consumes inbound text frames for one client. Heartbeat tokens
// get an immediate acknowledgement; any other frame that parses as JSON is
// broadcast to all clients. Parse failures are logged and swallowed and
// never terminate the connection.
func (s *Server) readLoop(c *client) {
	defer s.hub.Unregister(c.id)

	c.conn.SetReadLimit(maxMessageSize)

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Warn("connection error on %s: %v", c.id, err)
				c.markFaulted()
			}
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}

		if string(message) == heartbeatToken {
			if err := c.send([]byte(heartbeatAck)); err != nil {
				c.markFaulted()
				return
			}
			continue
		}

		if !json.Valid(message) {
			s.logger.Error("failed to broadcast from %s: invalid JSON", c.id)
			continue
		}

		s.logger.Debug("broadcasting payload from %s", c.id)
		s.hub.Broadcast(s.sanitizer.Sanitize(message))
	}
}
