package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType identifies a game event
type EventType string

const (
	EventTypeGameStarted EventType = "game_started"
	EventTypeBetPlaced   EventType = "bet_placed"
	EventTypeCardDrawn   EventType = "card_drawn"
	EventTypePlayerStood EventType = "player_stood"
	EventTypeDoubledDown EventType = "doubled_down"
	EventTypeTurnChanged EventType = "turn_changed"
	EventTypeGameEnded   EventType = "game_ended"
)

func (et EventType) String() string {
	return string(et)
}

// Event is anything a room mutation reports to its members
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameStartedEvent is emitted once cards are dealt
type GameStartedEvent struct {
	CurrentPlayerID   string
	CurrentPlayerName string
	timestamp         time.Time
}

func (e GameStartedEvent) EventType() EventType { return EventTypeGameStarted }
func (e GameStartedEvent) Timestamp() time.Time { return e.timestamp }

// BetPlacedEvent is emitted when any seated player sets a bet
type BetPlacedEvent struct {
	PlayerID  string
	Amount    int
	timestamp time.Time
}

func (e BetPlacedEvent) EventType() EventType { return EventTypeBetPlaced }
func (e BetPlacedEvent) Timestamp() time.Time { return e.timestamp }

// CardDrawnEvent is emitted for every hit, bust or not
type CardDrawnEvent struct {
	PlayerID  string
	Card      deck.Card
	Score     int
	timestamp time.Time
}

func (e CardDrawnEvent) EventType() EventType { return EventTypeCardDrawn }
func (e CardDrawnEvent) Timestamp() time.Time { return e.timestamp }

// PlayerStoodEvent is emitted when the current player stands
type PlayerStoodEvent struct {
	PlayerID  string
	timestamp time.Time
}

func (e PlayerStoodEvent) EventType() EventType { return EventTypePlayerStood }
func (e PlayerStoodEvent) Timestamp() time.Time { return e.timestamp }

// DoubledDownEvent is emitted after a double draws its single card
type DoubledDownEvent struct {
	PlayerID  string
	Card      deck.Card
	Score     int
	Bet       int
	timestamp time.Time
}

func (e DoubledDownEvent) EventType() EventType { return EventTypeDoubledDown }
func (e DoubledDownEvent) Timestamp() time.Time { return e.timestamp }

// TurnChangedEvent is emitted when the turn passes to another player
// without ending the hand.
type TurnChangedEvent struct {
	CurrentPlayerID   string
	CurrentPlayerName string
	Index             int
	timestamp         time.Time
}

func (e TurnChangedEvent) EventType() EventType { return EventTypeTurnChanged }
func (e TurnChangedEvent) Timestamp() time.Time { return e.timestamp }

// GameEndedEvent carries the settled hand
type GameEndedEvent struct {
	DealerScore int
	Results     []Result
	timestamp   time.Time
}

func (e GameEndedEvent) EventType() EventType { return EventTypeGameEnded }
func (e GameEndedEvent) Timestamp() time.Time { return e.timestamp }
