package client

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lox/blackjack/internal/protocol"
)

// Advisory errors returned by the ViewModel's Check methods. The server
// remains the authority; these only save a round trip the server would
// ignore anyway.
var (
	ErrNotConnected = errors.New("not connected yet")
	ErrNotInRoom    = errors.New("you are not in a room")
	ErrNotPlaying   = errors.New("no hand is being played")
	ErrNotYourTurn  = errors.New("it is not your turn")
	ErrNotHost      = errors.New("only the host can start the game")
	ErrCannotDouble = errors.New("you can only double on your first two cards")
	ErrHandActive   = errors.New("a hand is already in progress")
	ErrTooFewPlayers = errors.New("need at least 2 players to start")
)

// View is an immutable copy of the client's state for rendering
type View struct {
	PlayerID          string
	Room              *protocol.RoomState
	CurrentPlayerID   string
	CurrentPlayerName string
	Results           []protocol.Result
	LastError         *protocol.ErrorData
	Pending           protocol.MessageType
}

// Me returns this player's seat
func (v View) Me() (protocol.PlayerState, bool) {
	if v.Room == nil {
		return protocol.PlayerState{}, false
	}
	return v.Room.Player(v.PlayerID)
}

// IsMyTurn reports whether the server says it is this player's turn
func (v View) IsMyTurn() bool {
	return v.Room != nil && v.Room.GameState == "playing" && v.CurrentPlayerID != "" && v.CurrentPlayerID == v.PlayerID
}

// ViewModel mirrors the server's view of the room this client sits in.
// It is updated only from server messages.
type ViewModel struct {
	mu    sync.RWMutex
	state View
}

// NewViewModel returns an empty view-model
func NewViewModel() *ViewModel {
	return &ViewModel{}
}

// Apply folds one server message into the mirror
func (vm *ViewModel) Apply(msg *protocol.Message) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	s := &vm.state
	switch msg.Type {
	case protocol.MessageTypeConnected:
		var data protocol.ConnectedData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		s.PlayerID = data.PlayerID

	case protocol.MessageTypeRoomCreated:
		var data protocol.RoomCreatedData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		s.setRoom(data.Room)
		s.Results = nil

	case protocol.MessageTypeRoomUpdated:
		var data protocol.RoomUpdatedData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		s.setRoom(data.Room)

	case protocol.MessageTypeRoomLeft:
		s.Room = nil
		s.CurrentPlayerID, s.CurrentPlayerName = "", ""
		s.Results = nil

	case protocol.MessageTypeGameStarted:
		var data protocol.GameStartedData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		s.setRoom(data.Room)
		s.CurrentPlayerID, s.CurrentPlayerName = data.CurrentPlayerID, data.CurrentPlayerName
		s.Results = nil

	case protocol.MessageTypeBetPlaced:
		var data protocol.BetPlacedData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		s.setRoom(data.Room)

	case protocol.MessageTypeCardDrawn:
		var data protocol.CardDrawnData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		s.setRoom(data.Room)

	case protocol.MessageTypePlayerStood:
		var data protocol.PlayerStoodData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		s.setRoom(data.Room)

	case protocol.MessageTypeDoubleDown:
		var data protocol.DoubleDownData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		s.setRoom(data.Room)

	case protocol.MessageTypeTurnChanged:
		var data protocol.TurnChangedData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		s.CurrentPlayerID, s.CurrentPlayerName = data.CurrentPlayerID, data.CurrentPlayerName

	case protocol.MessageTypeGameEnded:
		var data protocol.GameEndedData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		s.setRoom(data.Room)
		s.Results = data.Results

	case protocol.MessageTypeJoinError, protocol.MessageTypeGameError, protocol.MessageTypeError:
		var data protocol.ErrorData
		if err := msg.Decode(&data); err != nil {
			return err
		}
		s.LastError = &data

	default:
		return fmt.Errorf("unexpected message type %s", msg.Type)
	}

	s.Pending = ""
	return nil
}

// setRoom replaces the mirror and derives whose turn it is from the
// snapshot, so a missed turnChanged cannot leave the client stale.
func (s *View) setRoom(room protocol.RoomState) {
	s.Room = &room
	if cur, ok := room.Current(); ok {
		s.CurrentPlayerID, s.CurrentPlayerName = cur.ID, cur.Name
	} else {
		s.CurrentPlayerID, s.CurrentPlayerName = "", ""
	}
}

// Snapshot returns a copy of the current state
func (vm *ViewModel) Snapshot() View {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	v := vm.state
	if v.Room != nil {
		room := *v.Room
		room.Players = append([]protocol.PlayerState(nil), v.Room.Players...)
		v.Room = &room
	}
	v.Results = append([]protocol.Result(nil), v.Results...)
	return v
}

// MarkPending records an action sent but not yet answered
func (vm *ViewModel) MarkPending(messageType protocol.MessageType) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.state.Pending = messageType
}

// ClearError forgets the last server error
func (vm *ViewModel) ClearError() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.state.LastError = nil
}

// CheckTurnAction gates hit and stand
func (vm *ViewModel) CheckTurnAction() error {
	v := vm.Snapshot()
	switch {
	case v.PlayerID == "":
		return ErrNotConnected
	case v.Room == nil:
		return ErrNotInRoom
	case v.Room.GameState != "playing":
		return ErrNotPlaying
	case !v.IsMyTurn():
		return ErrNotYourTurn
	}
	return nil
}

// CheckDouble gates double: it must be our turn and we must hold two cards
func (vm *ViewModel) CheckDouble() error {
	if err := vm.CheckTurnAction(); err != nil {
		return err
	}
	me, ok := vm.Snapshot().Me()
	if !ok || len(me.Cards) != 2 {
		return ErrCannotDouble
	}
	return nil
}

// CheckBet gates placeBet: any seated player may bet while playing
func (vm *ViewModel) CheckBet() error {
	v := vm.Snapshot()
	switch {
	case v.PlayerID == "":
		return ErrNotConnected
	case v.Room == nil:
		return ErrNotInRoom
	case v.Room.GameState != "playing":
		return ErrNotPlaying
	}
	return nil
}

// CheckStart gates startGame
func (vm *ViewModel) CheckStart() error {
	v := vm.Snapshot()
	switch {
	case v.PlayerID == "":
		return ErrNotConnected
	case v.Room == nil:
		return ErrNotInRoom
	case v.Room.GameState == "playing":
		return ErrHandActive
	}
	me, ok := v.Me()
	if !ok || !me.IsHost {
		return ErrNotHost
	}
	if len(v.Room.Players) < 2 {
		return ErrTooFewPlayers
	}
	return nil
}
