package game

import "github.com/lox/blackjack/internal/deck"

// Player is a seat at a room. ID is the owning connection's identity.
type Player struct {
	ID     string
	Name   string
	IsHost bool
	Cards  []deck.Card
	Score  int
	Bet    int
}

func (p *Player) addCard(c deck.Card) {
	p.Cards = append(p.Cards, c)
	p.Score = deck.Score(p.Cards)
}

func (p *Player) resetHand() {
	p.Cards = nil
	p.Score = 0
	p.Bet = 0
}

// IsBust reports whether the player's hand is over 21
func (p *Player) IsBust() bool {
	return p.Score > deck.BlackjackScore
}

// Clone returns a deep copy safe to hand to another goroutine
func (p *Player) Clone() *Player {
	c := *p
	c.Cards = append([]deck.Card(nil), p.Cards...)
	return &c
}
