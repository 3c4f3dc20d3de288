package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/protocol"
)

func msg(t *testing.T, messageType protocol.MessageType, data any) *protocol.Message {
	t.Helper()
	m, err := protocol.NewMessage(messageType, data)
	require.NoError(t, err)
	return m
}

func card(r deck.Rank) deck.Card {
	return deck.Card{Suit: deck.Spades, Rank: r}
}

func twoPlayerRoom(state string, current int) protocol.RoomState {
	return protocol.RoomState{
		Code: "ABC123",
		Players: []protocol.PlayerState{
			{ID: "p1", Name: "Alice", IsHost: true, Cards: []deck.Card{card(deck.Ten), card(deck.Six)}, Score: 16},
			{ID: "p2", Name: "Bob", Cards: []deck.Card{card(deck.Nine), card(deck.Seven)}, Score: 16},
		},
		CurrentPlayerIndex: current,
		GameState:          state,
		DeckRemaining:      46,
	}
}

func TestViewModelTracksConnectionAndRoom(t *testing.T) {
	vm := NewViewModel()
	assert.ErrorIs(t, vm.CheckTurnAction(), ErrNotConnected)

	require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeConnected, protocol.ConnectedData{PlayerID: "p1"})))
	assert.ErrorIs(t, vm.CheckTurnAction(), ErrNotInRoom)

	room := twoPlayerRoom("waiting", 0)
	require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeRoomCreated, protocol.RoomCreatedData{RoomCode: room.Code, Room: room})))

	v := vm.Snapshot()
	require.NotNil(t, v.Room)
	assert.Equal(t, "ABC123", v.Room.Code)
	assert.ErrorIs(t, vm.CheckTurnAction(), ErrNotPlaying)
	assert.False(t, v.IsMyTurn())

	require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeRoomLeft, protocol.RoomLeftData{RoomCode: "ABC123"})))
	assert.Nil(t, vm.Snapshot().Room)
}

func TestViewModelTurnGating(t *testing.T) {
	vm := NewViewModel()
	require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeConnected, protocol.ConnectedData{PlayerID: "p2"})))

	room := twoPlayerRoom("playing", 0)
	require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeGameStarted, protocol.GameStartedData{
		Room: room, CurrentPlayerID: "p1", CurrentPlayerName: "Alice",
	})))

	assert.ErrorIs(t, vm.CheckTurnAction(), ErrNotYourTurn)
	assert.ErrorIs(t, vm.CheckDouble(), ErrNotYourTurn)
	assert.NoError(t, vm.CheckBet(), "any seated player may bet while playing")

	require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeTurnChanged, protocol.TurnChangedData{
		CurrentPlayerID: "p2", CurrentPlayerName: "Bob",
	})))
	v := vm.Snapshot()
	assert.True(t, v.IsMyTurn())
	assert.Equal(t, "Bob", v.CurrentPlayerName)
	assert.NoError(t, vm.CheckTurnAction())
	assert.NoError(t, vm.CheckDouble())
}

func TestViewModelDoubleNeedsTwoCards(t *testing.T) {
	vm := NewViewModel()
	require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeConnected, protocol.ConnectedData{PlayerID: "p1"})))

	room := twoPlayerRoom("playing", 0)
	room.Players[0].Cards = append(room.Players[0].Cards, card(deck.Two))
	room.Players[0].Score = 18
	require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeCardDrawn, protocol.CardDrawnData{
		Room: room, PlayerID: "p1", Card: card(deck.Two), Score: 18,
	})))

	assert.NoError(t, vm.CheckTurnAction())
	assert.ErrorIs(t, vm.CheckDouble(), ErrCannotDouble)
}

func TestViewModelStartGating(t *testing.T) {
	tests := []struct {
		name    string
		me      string
		room    protocol.RoomState
		wantErr error
	}{
		{"host with two players", "p1", twoPlayerRoom("waiting", 0), nil},
		{"host after a finished hand", "p1", twoPlayerRoom("finished", 0), nil},
		{"not host", "p2", twoPlayerRoom("waiting", 0), ErrNotHost},
		{"hand in progress", "p1", twoPlayerRoom("playing", 0), ErrHandActive},
		{"alone", "p1", protocol.RoomState{
			Code:      "ABC123",
			Players:   []protocol.PlayerState{{ID: "p1", Name: "Alice", IsHost: true}},
			GameState: "waiting",
		}, ErrTooFewPlayers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := NewViewModel()
			require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeConnected, protocol.ConnectedData{PlayerID: tt.me})))
			require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeRoomUpdated, protocol.RoomUpdatedData{Room: tt.room})))

			err := vm.CheckStart()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestViewModelResultsAndErrors(t *testing.T) {
	vm := NewViewModel()
	require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeConnected, protocol.ConnectedData{PlayerID: "p1"})))

	room := twoPlayerRoom("finished", 0)
	results := []protocol.Result{
		{PlayerID: "p1", Result: "win", Winnings: 200, Score: 20, DealerScore: 18},
		{PlayerID: "p2", Result: "lose", Winnings: -100, Score: 17, DealerScore: 18},
	}
	require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeGameEnded, protocol.GameEndedData{Room: room, Results: results})))

	v := vm.Snapshot()
	assert.Equal(t, results, v.Results)
	assert.Empty(t, v.CurrentPlayerID, "no turn once the hand is finished")

	require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeGameError, protocol.ErrorData{
		Code: "not_host", Message: "Only the host can start the game",
	})))
	require.NotNil(t, vm.Snapshot().LastError)
	assert.Equal(t, "not_host", vm.Snapshot().LastError.Code)

	vm.ClearError()
	assert.Nil(t, vm.Snapshot().LastError)
}

func TestViewModelPendingClearedByServer(t *testing.T) {
	vm := NewViewModel()
	vm.MarkPending(protocol.MessageTypeHit)
	assert.Equal(t, protocol.MessageTypeHit, vm.Snapshot().Pending)

	require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeConnected, protocol.ConnectedData{PlayerID: "p1"})))
	assert.Empty(t, vm.Snapshot().Pending)
}

func TestViewModelRejectsUnknownMessages(t *testing.T) {
	vm := NewViewModel()
	err := vm.Apply(&protocol.Message{Type: protocol.MessageTypeHit})
	assert.Error(t, err)
}

func TestSnapshotIsACopy(t *testing.T) {
	vm := NewViewModel()
	room := twoPlayerRoom("waiting", 0)
	require.NoError(t, vm.Apply(msg(t, protocol.MessageTypeRoomUpdated, protocol.RoomUpdatedData{Room: room})))

	v := vm.Snapshot()
	v.Room.Players[0].Name = "Mallory"
	assert.Equal(t, "Alice", vm.Snapshot().Room.Players[0].Name)
}
