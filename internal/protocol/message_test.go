package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

func TestNewMessageAt(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	msg, err := NewMessageAt(ts, MessageTypeCardDrawn, CardDrawnData{
		PlayerID: "p1",
		Card:     deck.NewCard(deck.Clubs, deck.Queen),
		Score:    20,
	})
	require.NoError(t, err)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, "cardDrawn", envelope["type"])
	assert.Equal(t, "2024-03-01T09:30:00Z", envelope["timestamp"])

	var data CardDrawnData
	require.NoError(t, msg.Decode(&data))
	assert.Equal(t, deck.NewCard(deck.Clubs, deck.Queen), data.Card)
	assert.Equal(t, 20, data.Score)
}

func TestMessageWithoutData(t *testing.T) {
	msg, err := NewMessage(MessageTypeHit, nil)
	require.NoError(t, err)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"data"`)

	var v struct{}
	assert.NoError(t, msg.Decode(&v))
}

func TestRoomStateCurrent(t *testing.T) {
	room := RoomState{
		Players:            []PlayerState{{ID: "a"}, {ID: "b"}},
		CurrentPlayerIndex: 1,
		GameState:          "playing",
	}
	cur, ok := room.Current()
	require.True(t, ok)
	assert.Equal(t, "b", cur.ID)

	room.GameState = "finished"
	_, ok = room.Current()
	assert.False(t, ok)

	_, ok = room.Player("a")
	assert.True(t, ok)
}
