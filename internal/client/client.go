// Package client connects to a blackjack server and mirrors the room the
// player sits in.
package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
)

// EventHandler is a function that handles incoming messages
type EventHandler func(*protocol.Message)

// Client is a WebSocket connection to the server. Handlers run one at a
// time on a single goroutine, in the order messages arrive.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *protocol.Message
	receive   chan *protocol.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	connected bool
	closeOnce sync.Once

	eventHandlers map[protocol.MessageType][]EventHandler
	anyHandlers   []EventHandler
	closeHandlers []func(error)
}

// New creates a client for serverURL (ws://, wss://, http:// or https://;
// the path defaults to /ws)
func New(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL:     serverURL,
		send:          make(chan *protocol.Message, 256),
		receive:       make(chan *protocol.Message, 256),
		logger:        logger.WithPrefix("client"),
		ctx:           ctx,
		cancel:        cancel,
		eventHandlers: make(map[protocol.MessageType][]EventHandler),
	}
}

// WebSocketURL normalizes a server address to the WebSocket endpoint
func WebSocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// Connect dials the server and starts the pumps
func (c *Client) Connect(ctx context.Context) error {
	wsURL, err := WebSocketURL(c.serverURL)
	if err != nil {
		return err
	}
	c.logger.Info("Connecting to server", "url", wsURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()
	go c.eventProcessor()

	c.logger.Info("Connected to server")
	return nil
}

// Disconnect closes the WebSocket connection
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.conn != nil {
			_ = c.conn.Close() // Ignore close errors during shutdown
			c.connected = false
		}
		c.logger.Info("Disconnected from server")
	})
	return nil
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// AddEventHandler registers a handler for one message type
func (c *Client) AddEventHandler(messageType protocol.MessageType, handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventHandlers[messageType] = append(c.eventHandlers[messageType], handler)
}

// OnAny registers a handler that sees every message
func (c *Client) OnAny(handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anyHandlers = append(c.anyHandlers, handler)
}

// OnClose registers a callback for when the connection drops
func (c *Client) OnClose(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeHandlers = append(c.closeHandlers, fn)
}

// SendMessage queues a message for the server
func (c *Client) SendMessage(msg *protocol.Message) error {
	select {
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		return fmt.Errorf("send buffer full")
	}
}

func (c *Client) sendTyped(messageType protocol.MessageType, data any) error {
	msg, err := protocol.NewMessage(messageType, data)
	if err != nil {
		return err
	}
	return c.SendMessage(msg)
}

// CreateRoom asks the server for a new room with this player as host
func (c *Client) CreateRoom(playerName string) error {
	return c.sendTyped(protocol.MessageTypeCreateRoom, protocol.CreateRoomData{PlayerName: playerName})
}

// JoinRoom joins an existing room by code
func (c *Client) JoinRoom(code, playerName string) error {
	return c.sendTyped(protocol.MessageTypeJoinRoom, protocol.JoinRoomData{RoomCode: code, PlayerName: playerName})
}

func (c *Client) LeaveRoom() error { return c.sendTyped(protocol.MessageTypeLeaveRoom, nil) }
func (c *Client) StartGame() error { return c.sendTyped(protocol.MessageTypeStartGame, nil) }
func (c *Client) Hit() error       { return c.sendTyped(protocol.MessageTypeHit, nil) }
func (c *Client) Stand() error     { return c.sendTyped(protocol.MessageTypeStand, nil) }
func (c *Client) Double() error    { return c.sendTyped(protocol.MessageTypeDouble, nil) }

// PlaceBet sets this player's bet for the current hand
func (c *Client) PlaceBet(amount int) error {
	return c.sendTyped(protocol.MessageTypePlaceBet, protocol.PlaceBetData{Amount: amount})
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	var readErr error
	defer func() {
		c.mu.Lock()
		c.connected = false
		handlers := append([]func(error){}, c.closeHandlers...)
		c.mu.Unlock()
		for _, fn := range handlers {
			fn(readErr)
		}
	}()

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			if c.ctx.Err() == nil {
				readErr = err
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type)

		select {
		case c.receive <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}

// eventProcessor dispatches messages to handlers in arrival order
func (c *Client) eventProcessor() {
	for {
		select {
		case msg := <-c.receive:
			c.dispatch(msg)
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) dispatch(msg *protocol.Message) {
	c.mu.RLock()
	handlers := append([]EventHandler{}, c.anyHandlers...)
	handlers = append(handlers, c.eventHandlers[msg.Type]...)
	c.mu.RUnlock()

	if len(handlers) == 0 {
		c.logger.Debug("No handler for message type", "type", msg.Type)
		return
	}
	for _, handler := range handlers {
		handler(msg)
	}
}
