package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

var suitNames = [...]string{"hearts", "diamonds", "clubs", "spades"}

// String returns the wire name of a suit
func (s Suit) String() string {
	if s < Hearts || s > Spades {
		return "unknown"
	}
	return suitNames[s]
}

// Symbol returns the suit glyph used by the terminal front-ends
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true for hearts and diamonds
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

func (s Suit) MarshalText() ([]byte, error) {
	if s < Hearts || s > Spades {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return []byte(suitNames[s]), nil
}

func (s *Suit) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range suitNames {
		if n == name {
			*s = Suit(i)
			return nil
		}
	}
	return fmt.Errorf("invalid suit %q", text)
}

// Rank represents a card rank. Aces sort high; their blackjack value is
// decided by Score.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the rank as printed on the card ("A", "2".."10", "J", "Q", "K")
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Points returns the blackjack value of the rank with aces counted as 1.
func (r Rank) Points() int {
	switch {
	case r == Ace:
		return 1
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

func (r Rank) MarshalText() ([]byte, error) {
	if r < Two || r > Ace {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(text []byte) error {
	parsed, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRank parses "A", "2".."10", "J", "Q", "K" (case-insensitive; "T" is accepted for ten)
func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return Ace, nil
	case "K":
		return King, nil
	case "Q":
		return Queen, nil
	case "J":
		return Jack, nil
	case "10", "T":
		return Ten, nil
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && n >= 2 && n <= 9 && len(strings.TrimSpace(s)) == 1 {
		return Rank(n), nil
	}
	return 0, fmt.Errorf("invalid rank %q", s)
}

// Card represents a playing card
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns a short form such as "A♠" or "10♥"
func (c Card) String() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}
