package server

import (
	"errors"
	"strings"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
	"github.com/lox/blackjack/internal/registry"
)

// handleMessage routes a validated client message
func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "room", c.RoomCode())

	switch msg.Type {
	case protocol.MessageTypeCreateRoom:
		var data protocol.CreateRoomData
		if err := msg.Decode(&data); err != nil {
			c.sendError(protocol.MessageTypeError, protocol.CodeInvalidMessage, "Failed to parse create room data")
			return
		}
		c.handleCreateRoom(data)

	case protocol.MessageTypeJoinRoom:
		var data protocol.JoinRoomData
		if err := msg.Decode(&data); err != nil {
			c.sendError(protocol.MessageTypeError, protocol.CodeInvalidMessage, "Failed to parse join room data")
			return
		}
		c.handleJoinRoom(data)

	case protocol.MessageTypeLeaveRoom:
		c.handleLeaveRoom()

	case protocol.MessageTypePlaceBet:
		var data protocol.PlaceBetData
		if err := msg.Decode(&data); err != nil {
			c.sendError(protocol.MessageTypeError, protocol.CodeInvalidMessage, "Failed to parse bet data")
			return
		}
		c.handleAction(msg.Type, func(room *game.Room) ([]game.Event, error) {
			return room.PlaceBet(c.id, data.Amount), nil
		})

	case protocol.MessageTypeStartGame:
		c.handleAction(msg.Type, func(room *game.Room) ([]game.Event, error) {
			return room.Start(c.id)
		})

	case protocol.MessageTypeHit:
		c.handleAction(msg.Type, func(room *game.Room) ([]game.Event, error) {
			return room.Hit(c.id), nil
		})

	case protocol.MessageTypeStand:
		c.handleAction(msg.Type, func(room *game.Room) ([]game.Event, error) {
			return room.Stand(c.id), nil
		})

	case protocol.MessageTypeDouble:
		c.handleAction(msg.Type, func(room *game.Room) ([]game.Event, error) {
			return room.Double(c.id), nil
		})

	default:
		c.sendError(protocol.MessageTypeError, protocol.CodeUnknownMessageType, "Unknown message type: "+msg.Type.String())
	}
}

// handleCreateRoom opens a room with this connection as host. A connection
// already seated elsewhere leaves that room once the new one exists.
func (c *Connection) handleCreateRoom(data protocol.CreateRoomData) {
	s := c.server
	previous := c.RoomCode()

	_, err := s.rooms.Create(c.id, strings.TrimSpace(data.PlayerName), func(room *game.Room) {
		c.setRoomCode(room.Code)
		msg, err := s.newMessage(protocol.MessageTypeRoomCreated, protocol.RoomCreatedData{
			RoomCode: room.Code,
			Room:     snapshot(room),
		})
		if err != nil {
			c.logger.Error("Failed to encode room", "error", err)
			return
		}
		_ = c.SendMessage(msg)
	})
	if err != nil {
		c.logger.Error("Failed to create room", "error", err)
		c.sendError(protocol.MessageTypeError, protocol.CodeInternal, "Could not create a room, try again")
		return
	}

	if previous != "" {
		s.leaveRoom(c, previous)
	}
}

// handleJoinRoom seats this connection in an existing room
func (c *Connection) handleJoinRoom(data protocol.JoinRoomData) {
	s := c.server
	previous := c.RoomCode()

	err := s.rooms.Join(data.RoomCode, c.id, strings.TrimSpace(data.PlayerName), func(room *game.Room) {
		c.setRoomCode(room.Code)
		msg, err := s.newMessage(protocol.MessageTypeRoomUpdated, protocol.RoomUpdatedData{Room: snapshot(room)})
		if err != nil {
			c.logger.Error("Failed to encode room", "error", err)
			return
		}
		s.broadcast(room, msg)
	})
	if err != nil {
		code, message := describeError(err)
		c.logger.Debug("Join rejected", "code", data.RoomCode, "reason", code)
		c.sendError(protocol.MessageTypeJoinError, code, message)
		return
	}

	if previous != "" && previous != c.RoomCode() {
		s.leaveRoom(c, previous)
	}
}

func (c *Connection) handleLeaveRoom() {
	code := c.RoomCode()
	if code == "" {
		return
	}
	c.server.leaveRoom(c, code)

	if msg, err := c.server.newMessage(protocol.MessageTypeRoomLeft, protocol.RoomLeftData{RoomCode: code}); err == nil {
		_ = c.SendMessage(msg)
	}
}

// handleAction applies an in-room action under the room lock and broadcasts
// whatever it produced. Actions that produce nothing were out of turn or out
// of phase and are dropped without a reply.
func (c *Connection) handleAction(messageType protocol.MessageType, apply func(*game.Room) ([]game.Event, error)) {
	code := c.RoomCode()
	if code == "" {
		c.logger.Debug("Dropped action outside a room", "type", messageType)
		return
	}

	s := c.server
	err := s.rooms.Do(code, func(room *game.Room) error {
		events, err := apply(room)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			c.logger.Debug("Ignored action", "type", messageType, "room", room.Code, "state", room.State)
			return nil
		}
		s.publish(room, events)
		return nil
	})
	if err != nil {
		code, message := describeError(err)
		c.sendError(protocol.MessageTypeGameError, code, message)
	}
}

// leaveRoom removes conn from the room, telling the remaining members
func (s *Server) leaveRoom(conn *Connection, code string) {
	err := s.rooms.Remove(code, conn.ID(), func(room *game.Room, deleted bool) {
		if deleted {
			return
		}
		msg, err := s.newMessage(protocol.MessageTypeRoomUpdated, protocol.RoomUpdatedData{Room: snapshot(room)})
		if err != nil {
			s.logger.Error("Failed to encode room", "error", err)
			return
		}
		s.broadcast(room, msg)
	})
	if err != nil {
		s.logger.Debug("Leave ignored", "code", code, "error", err)
	}
	conn.clearRoomCode(code)
}

// publish converts events to messages sharing one post-mutation snapshot
// and broadcasts them. Must be called with the room locked.
func (s *Server) publish(room *game.Room, events []game.Event) {
	state := snapshot(room)
	msgs := make([]*protocol.Message, 0, len(events))
	for _, ev := range events {
		msg, err := eventMessage(ev, state)
		if err != nil {
			s.logger.Error("Failed to encode event", "event", ev.EventType(), "error", err)
			continue
		}
		msgs = append(msgs, msg)
		if ev.EventType() == game.EventTypeGameEnded {
			s.logger.Info("Hand finished", "code", room.Code, "dealer", room.DealerScore)
		}
	}
	s.broadcast(room, msgs...)
}

// describeError maps domain errors to a wire code and a message for players
func describeError(err error) (string, string) {
	switch {
	case errors.Is(err, registry.ErrRoomNotFound):
		return protocol.CodeRoomNotFound, "Room does not exist"
	case errors.Is(err, game.ErrRoomFull):
		return protocol.CodeRoomFull, "Room is full"
	case errors.Is(err, game.ErrGameInProgress):
		return protocol.CodeGameInProgress, "Game is already in progress"
	case errors.Is(err, game.ErrInsufficientPlayers):
		return protocol.CodeInsufficientPlayers, "Need at least 2 players to start"
	case errors.Is(err, game.ErrNotHost):
		return protocol.CodeNotHost, "Only the host can start the game"
	case errors.Is(err, game.ErrAlreadySeated):
		return protocol.CodeGameInProgress, "You are already in this room"
	default:
		return protocol.CodeInternal, err.Error()
	}
}
