package game

import (
	"testing"

	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

func c(r deck.Rank) deck.Card {
	return deck.NewCard(deck.Spades, r)
}

// newTestRoom seats the named players (first is host) and makes every new
// hand deal the stacked cards first.
func newTestRoom(t *testing.T, stack []deck.Card, names ...string) *Room {
	t.Helper()
	clock := quartz.NewMock(t)

	opts := DefaultOptions()
	opts.Clock = clock
	opts.RNG = randutil.New(1)

	r := NewRoom("TEST01", names[0], names[0], opts)
	for _, n := range names[1:] {
		if err := r.Join(n, n); err != nil {
			t.Fatalf("join %s: %v", n, err)
		}
	}
	r.newDeck = func() *deck.Deck { return deck.NewFromCards(stack, r.opts.RNG) }
	return r
}

func eventTypes(events []Event) []EventType {
	types := make([]EventType, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}
