package deck

import (
	"testing"

	"github.com/lox/blackjack/internal/randutil"
)

func TestNewDeckHasEveryCardOnce(t *testing.T) {
	d := New(randutil.New(1))
	if d.Remaining() != Size {
		t.Fatalf("expected %d cards, got %d", Size, d.Remaining())
	}

	seen := make(map[Card]int)
	for _, c := range d.Cards() {
		seen[c]++
	}
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			if n := seen[NewCard(suit, rank)]; n != 1 {
				t.Errorf("card %s appears %d times", NewCard(suit, rank), n)
			}
		}
	}
}

func TestShufflePreservesCards(t *testing.T) {
	d := NewShuffled(randutil.New(42))
	seen := make(map[Card]bool)
	for _, c := range d.Cards() {
		if seen[c] {
			t.Fatalf("duplicate card %s after shuffle", c)
		}
		seen[c] = true
	}
	if len(seen) != Size {
		t.Fatalf("expected %d unique cards, got %d", Size, len(seen))
	}
}

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	a := NewShuffled(randutil.New(7)).Cards()
	b := NewShuffled(randutil.New(7)).Cards()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("decks diverge at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestDrawReducesRemaining(t *testing.T) {
	d := NewShuffled(randutil.New(3))
	for n := 1; n <= Size; n++ {
		d.Draw()
		if d.Remaining() != Size-n {
			t.Fatalf("after %d draws expected %d remaining, got %d", n, Size-n, d.Remaining())
		}
	}
}

func TestDrawRebuildsExhaustedDeck(t *testing.T) {
	d := NewShuffled(randutil.New(9))
	d.DrawN(Size)
	if d.Remaining() != 0 {
		t.Fatalf("expected empty deck, got %d", d.Remaining())
	}

	c := d.Draw()
	if c.Rank < Two || c.Rank > Ace || c.Suit < Hearts || c.Suit > Spades {
		t.Fatalf("53rd draw returned invalid card %+v", c)
	}
	if d.Remaining() != Size-1 {
		t.Fatalf("expected rebuilt deck with %d cards, got %d", Size-1, d.Remaining())
	}
}

func TestStackedDeckDealsInOrder(t *testing.T) {
	stack := []Card{
		NewCard(Spades, Ace),
		NewCard(Hearts, Ten),
	}
	d := NewFromCards(stack, randutil.New(1))
	if got := d.Draw(); got != stack[0] {
		t.Fatalf("expected %s, got %s", stack[0], got)
	}
	if got := d.Draw(); got != stack[1] {
		t.Fatalf("expected %s, got %s", stack[1], got)
	}
	d.Draw()
	if d.Remaining() != Size-1 {
		t.Fatalf("expected rebuild after stack ran out, got %d remaining", d.Remaining())
	}
}
