package game

import (
	rand "math/rand/v2"

	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// State is the room lifecycle phase
type State string

const (
	StateWaiting  State = "waiting"
	StatePlaying  State = "playing"
	StateFinished State = "finished"
)

func (s State) String() string {
	return string(s)
}

const (
	// MaxSeats is the hard limit on players per room
	MaxSeats = 4
	// DealerStandScore is the total at which the dealer stops drawing
	DealerStandScore = 17
)

// Options configure a room
type Options struct {
	MaxPlayers int
	MinPlayers int
	Clock      quartz.Clock
	RNG        *rand.Rand
}

// DefaultOptions returns four seats, two players to start, a real clock
// and a randomly seeded generator.
func DefaultOptions() Options {
	return Options{
		MaxPlayers: MaxSeats,
		MinPlayers: 2,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxPlayers <= 0 || o.MaxPlayers > MaxSeats {
		o.MaxPlayers = MaxSeats
	}
	if o.MinPlayers <= 0 {
		o.MinPlayers = 2
	}
	if o.Clock == nil {
		o.Clock = quartz.NewReal()
	}
	if o.RNG == nil {
		o.RNG = randutil.NewRandom()
	}
	return o
}

// Room is a table of up to four players sharing one dealer and one deck.
// Players are kept in join order, which is also turn order.
type Room struct {
	Code               string
	Players            []*Player
	CurrentPlayerIndex int
	State              State
	DealerCards        []deck.Card
	DealerScore        int
	CurrentBet         int

	deck    *deck.Deck
	newDeck func() *deck.Deck
	opts    Options
}

// NewRoom creates a waiting room with the creator seated as host.
func NewRoom(code, hostID, hostName string, opts Options) *Room {
	opts = opts.withDefaults()
	r := &Room{
		Code:  code,
		State: StateWaiting,
		opts:  opts,
	}
	r.newDeck = func() *deck.Deck { return deck.NewShuffled(r.opts.RNG) }
	r.deck = r.newDeck()
	r.Players = []*Player{{ID: hostID, Name: hostName, IsHost: true}}
	return r
}

// Join seats a new non-host player at the end of the turn order.
func (r *Room) Join(playerID, name string) error {
	if len(r.Players) >= r.opts.MaxPlayers {
		return ErrRoomFull
	}
	if r.State == StatePlaying {
		return ErrGameInProgress
	}
	if r.Player(playerID) != nil {
		return ErrAlreadySeated
	}
	r.Players = append(r.Players, &Player{ID: playerID, Name: name})
	return nil
}

// Leave removes a player. When others remain the first seat becomes host,
// the turn pointer resets and a hand in progress is abandoned. It reports
// whether the player was seated.
func (r *Room) Leave(playerID string) bool {
	idx := r.indexOf(playerID)
	if idx < 0 {
		return false
	}
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	if len(r.Players) == 0 {
		return true
	}

	for i, p := range r.Players {
		p.IsHost = i == 0
	}
	r.CurrentPlayerIndex = 0
	if r.State == StatePlaying {
		r.State = StateWaiting
		r.clearHands()
	}
	return true
}

// IsEmpty reports whether no players remain
func (r *Room) IsEmpty() bool {
	return len(r.Players) == 0
}

// Player returns the seated player with the given id, or nil
func (r *Room) Player(playerID string) *Player {
	if i := r.indexOf(playerID); i >= 0 {
		return r.Players[i]
	}
	return nil
}

// Host returns the host, or nil for an empty room
func (r *Room) Host() *Player {
	for _, p := range r.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// Current returns the player whose turn it is while a hand is being played
func (r *Room) Current() *Player {
	if r.State != StatePlaying || r.CurrentPlayerIndex < 0 || r.CurrentPlayerIndex >= len(r.Players) {
		return nil
	}
	return r.Players[r.CurrentPlayerIndex]
}

// DeckRemaining returns the cards left before the deck rebuilds itself
func (r *Room) DeckRemaining() int {
	return r.deck.Remaining()
}

// MaxPlayers returns the seat limit for this room
func (r *Room) MaxPlayers() int {
	return r.opts.MaxPlayers
}

func (r *Room) indexOf(playerID string) int {
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (r *Room) clearHands() {
	for _, p := range r.Players {
		p.resetHand()
	}
	r.DealerCards = nil
	r.DealerScore = 0
	r.CurrentBet = 0
}
