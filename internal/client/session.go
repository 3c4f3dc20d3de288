package client

import (
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/protocol"
)

// Session couples a Client with the ViewModel it feeds. Actions are gated
// on the mirror before being sent so obviously invalid requests never
// leave the terminal.
type Session struct {
	client  Sender
	view    *ViewModel
	updates chan *protocol.Message
	logger  *log.Logger
}

// Sender is the subset of Client a Session drives
type Sender interface {
	CreateRoom(playerName string) error
	JoinRoom(code, playerName string) error
	LeaveRoom() error
	StartGame() error
	PlaceBet(amount int) error
	Hit() error
	Stand() error
	Double() error
}

// NewSession wires a ViewModel to every message the client receives
func NewSession(c *Client, logger *log.Logger) *Session {
	s := newSession(c, logger)
	c.OnAny(s.Handle)
	return s
}

func newSession(sender Sender, logger *log.Logger) *Session {
	return &Session{
		client:  sender,
		view:    NewViewModel(),
		updates: make(chan *protocol.Message, 256),
		logger:  logger.WithPrefix("session"),
	}
}

// Handle applies msg to the view-model and forwards it to Updates
func (s *Session) Handle(msg *protocol.Message) {
	if err := s.view.Apply(msg); err != nil {
		s.logger.Warn("Failed to apply server message", "type", msg.Type, "error", err)
	}

	select {
	case s.updates <- msg:
	default:
		s.logger.Warn("Update buffer full, dropping message", "type", msg.Type)
	}
}

// Updates delivers every applied server message in arrival order
func (s *Session) Updates() <-chan *protocol.Message {
	return s.updates
}

// View returns a copy of the mirrored state
func (s *Session) View() View {
	return s.view.Snapshot()
}

// ClearError forgets the last server error
func (s *Session) ClearError() {
	s.view.ClearError()
}

// CreateRoom asks for a new room hosted by this player
func (s *Session) CreateRoom(name string) error {
	if s.View().PlayerID == "" {
		return ErrNotConnected
	}
	return s.send(protocol.MessageTypeCreateRoom, func() error { return s.client.CreateRoom(name) })
}

// JoinRoom asks to be seated in an existing room
func (s *Session) JoinRoom(code, name string) error {
	if s.View().PlayerID == "" {
		return ErrNotConnected
	}
	return s.send(protocol.MessageTypeJoinRoom, func() error { return s.client.JoinRoom(code, name) })
}

// LeaveRoom gives up the current seat
func (s *Session) LeaveRoom() error {
	if s.View().Room == nil {
		return ErrNotInRoom
	}
	return s.send(protocol.MessageTypeLeaveRoom, s.client.LeaveRoom)
}

// StartGame deals a new hand; only the host may do this
func (s *Session) StartGame() error {
	if err := s.view.CheckStart(); err != nil {
		return err
	}
	return s.send(protocol.MessageTypeStartGame, s.client.StartGame)
}

// PlaceBet records a wager for the current hand
func (s *Session) PlaceBet(amount int) error {
	if err := s.view.CheckBet(); err != nil {
		return err
	}
	return s.send(protocol.MessageTypePlaceBet, func() error { return s.client.PlaceBet(amount) })
}

// Hit draws a card
func (s *Session) Hit() error {
	if err := s.view.CheckTurnAction(); err != nil {
		return err
	}
	return s.send(protocol.MessageTypeHit, s.client.Hit)
}

// Stand ends this player's turn
func (s *Session) Stand() error {
	if err := s.view.CheckTurnAction(); err != nil {
		return err
	}
	return s.send(protocol.MessageTypeStand, s.client.Stand)
}

// Double doubles the bet and draws exactly one card
func (s *Session) Double() error {
	if err := s.view.CheckDouble(); err != nil {
		return err
	}
	return s.send(protocol.MessageTypeDouble, s.client.Double)
}

// send marks the action pending until the server's next message arrives
func (s *Session) send(messageType protocol.MessageType, fn func() error) error {
	s.view.MarkPending(messageType)
	if err := fn(); err != nil {
		s.view.MarkPending("")
		return err
	}
	return nil
}
