// Package protocol defines the JSON messages exchanged between blackjack
// clients and the server.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	return NewMessageAt(time.Now(), messageType, data)
}

// NewMessageAt creates a message stamped with ts
func NewMessageAt(ts time.Time, messageType MessageType, data any) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", messageType, err)
		}
		raw = b
	}
	return &Message{Type: messageType, Data: raw, Timestamp: ts}, nil
}

// Decode unmarshals the message payload into v
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", m.Type, err)
	}
	return nil
}

// Client → Server Messages

type CreateRoomData struct {
	PlayerName string `json:"playerName"`
}

type JoinRoomData struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type PlaceBetData struct {
	Amount int `json:"amount"`
}

// Server → Client Messages

// PlayerState is a seated player as every room member sees it
type PlayerState struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	IsHost bool        `json:"isHost"`
	Cards  []deck.Card `json:"cards"`
	Score  int         `json:"score"`
	Bet    int         `json:"bet"`
}

// RoomState is the full room snapshot attached to room-scoped messages.
// The deck itself is never sent, only its size.
type RoomState struct {
	Code               string        `json:"roomCode"`
	Players            []PlayerState `json:"players"`
	CurrentPlayerIndex int           `json:"currentPlayerIndex"`
	GameState          string        `json:"gameState"`
	DealerCards        []deck.Card   `json:"dealerCards"`
	DealerScore        int           `json:"dealerScore"`
	CurrentBet         int           `json:"currentBet"`
	DeckRemaining      int           `json:"deckRemaining"`
}

// Player returns the seated player with the given id
func (r *RoomState) Player(id string) (PlayerState, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerState{}, false
}

// Current returns the player whose turn it is while playing
func (r *RoomState) Current() (PlayerState, bool) {
	if r.GameState != "playing" || r.CurrentPlayerIndex < 0 || r.CurrentPlayerIndex >= len(r.Players) {
		return PlayerState{}, false
	}
	return r.Players[r.CurrentPlayerIndex], true
}

type ConnectedData struct {
	PlayerID string `json:"playerId"`
}

type RoomCreatedData struct {
	RoomCode string    `json:"roomCode"`
	Room     RoomState `json:"room"`
}

type RoomUpdatedData struct {
	Room RoomState `json:"room"`
}

type RoomLeftData struct {
	RoomCode string `json:"roomCode"`
}

// ErrorData is used for joinError, gameError and error messages
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ErrorData) Error() string {
	return e.Message
}

type GameStartedData struct {
	Room              RoomState `json:"room"`
	CurrentPlayerID   string    `json:"currentPlayerId"`
	CurrentPlayerName string    `json:"currentPlayerName"`
}

type BetPlacedData struct {
	Room     RoomState `json:"room"`
	PlayerID string    `json:"playerId"`
	Amount   int       `json:"amount"`
}

type CardDrawnData struct {
	Room     RoomState `json:"room"`
	PlayerID string    `json:"playerId"`
	Card     deck.Card `json:"card"`
	Score    int       `json:"score"`
}

type PlayerStoodData struct {
	Room     RoomState `json:"room"`
	PlayerID string    `json:"playerId"`
}

type DoubleDownData struct {
	Room     RoomState `json:"room"`
	PlayerID string    `json:"playerId"`
	Card     deck.Card `json:"card"`
	Score    int       `json:"score"`
}

type TurnChangedData struct {
	CurrentPlayerID   string `json:"currentPlayerId"`
	CurrentPlayerName string `json:"currentPlayerName"`
}

// Result is one player's settlement in gameEnded
type Result struct {
	PlayerID    string `json:"playerId"`
	Result      string `json:"result"`
	Winnings    int    `json:"winnings"`
	Score       int    `json:"score"`
	DealerScore int    `json:"dealerScore"`
}

type GameEndedData struct {
	Room    RoomState `json:"room"`
	Results []Result  `json:"results"`
}
