package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	sendBufferSize = 256
)

// ErrConnectionClosed is returned when sending to a closed or saturated connection
var ErrConnectionClosed = errors.New("connection closed")

// Connection is one client's WebSocket. Its ID doubles as the player id in
// whichever room it sits in.
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *protocol.Message
	roomCode  string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	server    *Server
}

// NewConnection creates a new connection wrapper
func NewConnection(ws *websocket.Conn, s *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()

	return &Connection{
		id:     id,
		conn:   ws,
		send:   make(chan *protocol.Message, sendBufferSize),
		logger: s.logger.WithPrefix("conn").With("id", id[:8]),
		ctx:    ctx,
		cancel: cancel,
		server: s,
	}
}

// Start tells the client its identity and begins pumping messages
func (c *Connection) Start() {
	if msg, err := c.server.newMessage(protocol.MessageTypeConnected, protocol.ConnectedData{PlayerID: c.id}); err == nil {
		_ = c.SendMessage(msg)
	}
	go c.writePump()
	go c.readPump()
}

// ID returns the connection's identity
func (c *Connection) ID() string {
	return c.id
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// Done is closed once the connection shuts down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SendMessage queues a message without blocking. A full buffer means the
// client is not keeping up, and the connection is closed.
func (c *Connection) SendMessage(msg *protocol.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			// send was closed by a concurrent Close
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
			err = ErrConnectionClosed
		}
	}()

	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

// RoomCode returns the room this connection sits in, or ""
func (c *Connection) RoomCode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomCode
}

func (c *Connection) setRoomCode(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = code
}

// clearRoomCode forgets code if it is still the current room
func (c *Connection) clearRoomCode(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.roomCode == code {
		c.roomCode = ""
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() {
		c.server.disconnect(c)
		_ = c.Close() // Ignore close errors during cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		msg, err := c.server.validator.ParseClientMessage(raw)
		if err != nil {
			code := protocol.CodeInvalidMessage
			if errors.Is(err, protocol.ErrUnknownMessageType) {
				code = protocol.CodeUnknownMessageType
			}
			c.logger.Debug("Rejected message", "error", err)
			c.sendError(protocol.MessageTypeError, code, err.Error())
			continue
		}

		c.handleMessage(msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := c.server.clock.NewTicker(pingPeriod, "conn", "ping")
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendError reports a failure to this connection only
func (c *Connection) sendError(messageType protocol.MessageType, code, message string) {
	msg, err := c.server.newMessage(messageType, protocol.ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(msg) // Ignore send errors during error handling
}
