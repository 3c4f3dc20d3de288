package deck

import rand "math/rand/v2"

// Size is the number of cards in a full deck
const Size = 52

// Deck is an ordered pile of cards drawn from the top. It is not safe for
// concurrent use; each deck belongs to a single room or solo game.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full 52-card deck in canonical order. Call Shuffle before dealing.
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}
	d.fill()
	return d
}

// NewShuffled creates a full deck and shuffles it
func NewShuffled(rng *rand.Rand) *Deck {
	d := New(rng)
	d.Shuffle()
	return d
}

// NewFromCards creates a deck that deals the given cards in order before
// falling back to rebuilding a full shuffled deck.
func NewFromCards(cards []Card, rng *rand.Rand) *Deck {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Deck{cards: stacked, rng: rng}
}

func (d *Deck) fill() {
	d.cards = d.cards[:0]
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
}

// Shuffle randomizes the order of the remaining cards (Fisher–Yates)
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. An exhausted deck is rebuilt and
// reshuffled first, so Draw always yields a card.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		d.fill()
		d.Shuffle()
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card
}

// DrawN draws n cards
func (d *Deck) DrawN(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = d.Draw()
	}
	return cards
}

// Remaining returns the number of cards left before the next rebuild
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, top first
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
