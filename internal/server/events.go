package server

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
)

// snapshot copies a room into its wire form
func snapshot(room *game.Room) protocol.RoomState {
	players := make([]protocol.PlayerState, len(room.Players))
	for i, p := range room.Players {
		players[i] = protocol.PlayerState{
			ID:     p.ID,
			Name:   p.Name,
			IsHost: p.IsHost,
			Cards:  append(make([]deck.Card, 0, len(p.Cards)), p.Cards...),
			Score:  p.Score,
			Bet:    p.Bet,
		}
	}
	return protocol.RoomState{
		Code:               room.Code,
		Players:            players,
		CurrentPlayerIndex: room.CurrentPlayerIndex,
		GameState:          room.State.String(),
		DealerCards:        append(make([]deck.Card, 0, len(room.DealerCards)), room.DealerCards...),
		DealerScore:        room.DealerScore,
		CurrentBet:         room.CurrentBet,
		DeckRemaining:      room.DeckRemaining(),
	}
}

// eventMessage builds the outbound message for a game event
func eventMessage(ev game.Event, room protocol.RoomState) (*protocol.Message, error) {
	ts := ev.Timestamp()
	switch e := ev.(type) {
	case game.GameStartedEvent:
		return protocol.NewMessageAt(ts, protocol.MessageTypeGameStarted, protocol.GameStartedData{
			Room:              room,
			CurrentPlayerID:   e.CurrentPlayerID,
			CurrentPlayerName: e.CurrentPlayerName,
		})
	case game.BetPlacedEvent:
		return protocol.NewMessageAt(ts, protocol.MessageTypeBetPlaced, protocol.BetPlacedData{
			Room:     room,
			PlayerID: e.PlayerID,
			Amount:   e.Amount,
		})
	case game.CardDrawnEvent:
		return protocol.NewMessageAt(ts, protocol.MessageTypeCardDrawn, protocol.CardDrawnData{
			Room:     room,
			PlayerID: e.PlayerID,
			Card:     e.Card,
			Score:    e.Score,
		})
	case game.PlayerStoodEvent:
		return protocol.NewMessageAt(ts, protocol.MessageTypePlayerStood, protocol.PlayerStoodData{
			Room:     room,
			PlayerID: e.PlayerID,
		})
	case game.DoubledDownEvent:
		return protocol.NewMessageAt(ts, protocol.MessageTypeDoubleDown, protocol.DoubleDownData{
			Room:     room,
			PlayerID: e.PlayerID,
			Card:     e.Card,
			Score:    e.Score,
		})
	case game.TurnChangedEvent:
		return protocol.NewMessageAt(ts, protocol.MessageTypeTurnChanged, protocol.TurnChangedData{
			CurrentPlayerID:   e.CurrentPlayerID,
			CurrentPlayerName: e.CurrentPlayerName,
		})
	case game.GameEndedEvent:
		results := make([]protocol.Result, len(e.Results))
		for i, r := range e.Results {
			results[i] = protocol.Result{
				PlayerID:    r.PlayerID,
				Result:      string(r.Outcome),
				Winnings:    r.Winnings,
				Score:       r.Score,
				DealerScore: r.DealerScore,
			}
		}
		return protocol.NewMessageAt(ts, protocol.MessageTypeGameEnded, protocol.GameEndedData{
			Room:    room,
			Results: results,
		})
	default:
		return nil, fmt.Errorf("unhandled event type %s", ev.EventType())
	}
}
