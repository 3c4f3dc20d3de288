// Package server hosts blackjack rooms over WebSocket connections.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/registry"
)

const shutdownTimeout = 5 * time.Second

// Server owns the HTTP surface, the live connections and the room registry
type Server struct {
	config      *Config
	upgrader    websocket.Upgrader
	connections map[string]*Connection
	logger      *log.Logger
	mu          sync.RWMutex
	rooms       *registry.Registry
	validator   *protocol.Validator
	clock       quartz.Clock
}

// Option configures a Server
type Option func(*Server)

// WithClock replaces the wall clock used for timestamps and pings
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithRegistry supplies a pre-built registry
func WithRegistry(rooms *registry.Registry) Option {
	return func(s *Server) { s.rooms = rooms }
}

// New creates a server from a validated config
func New(config *Config, logger *log.Logger, opts ...Option) (*Server, error) {
	validator, err := protocol.NewValidator()
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:      config,
		connections: make(map[string]*Connection),
		logger:      logger.WithPrefix("server"),
		validator:   validator,
		clock:       quartz.NewReal(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.rooms == nil {
		var seed *int64
		if config.Server.Seed != 0 {
			seed = &config.Server.Seed
		}
		s.rooms = registry.New(logger,
			registry.WithRandSource(randutil.NewSource(seed)),
			registry.WithClock(s.clock),
			registry.WithRoomOptions(config.RoomOptions()),
			registry.WithCodeAttempts(config.Rooms.CodeAttempts),
		)
	}
	return s, nil
}

// Handler returns the HTTP handler serving /ws, /health, /rooms and the
// optional static client.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/rooms", s.handleRooms)
	if dir := s.config.Server.StaticDir; dir != "" {
		mux.Handle("/", http.FileServer(http.Dir(dir)))
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.config.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel})),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(cors(mux))
}

// Run serves until ctx is cancelled, then closes every connection and
// shuts the HTTP server down.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting blackjack server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down", "connections", s.ConnectionCount(), "rooms", s.rooms.Len())
		s.closeAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.config.Server.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s)
	s.register(conn)
	conn.Start()
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn.ID()] = conn
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "id", conn.ID(), "total", total)
}

// disconnect is called once per connection after its read loop ends
func (s *Server) disconnect(conn *Connection) {
	if code := conn.RoomCode(); code != "" {
		s.leaveRoom(conn, code)
	}

	s.mu.Lock()
	delete(s.connections, conn.ID())
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "id", conn.ID(), "total", total)
}

func (s *Server) closeAll() {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for _, conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.Close() // Ignore close errors during shutdown
	}
}

// ConnectionCount returns the number of open connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

type healthResponse struct {
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Rooms       int       `json:"rooms"`
	Connections int       `json:"connections"`
}

// handleHealth reports liveness for orchestrator probes
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, healthResponse{
		Status:      "OK",
		Message:     "Blackjack server is running",
		Timestamp:   s.clock.Now().UTC(),
		Rooms:       s.rooms.Len(),
		Connections: s.ConnectionCount(),
	})
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.rooms.Summaries())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v) // Ignore write errors for probes
}

// broadcast sends msgs, in order, to every connection seated in room. The
// caller holds the room lock, so members see one room's events in the order
// they happened.
func (s *Server) broadcast(room *game.Room, msgs ...*protocol.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipients := 0
	for _, p := range room.Players {
		conn, ok := s.connections[p.ID]
		if !ok {
			continue
		}
		for _, msg := range msgs {
			if err := conn.SendMessage(msg); err != nil {
				s.logger.Debug("Failed to send message", "error", err, "player", p.ID)
				break
			}
		}
		recipients++
	}
	s.logger.Debug("Broadcast to room", "code", room.Code, "messages", len(msgs), "recipients", recipients)
}

func (s *Server) newMessage(messageType protocol.MessageType, data any) (*protocol.Message, error) {
	return protocol.NewMessageAt(s.clock.Now(), messageType, data)
}
