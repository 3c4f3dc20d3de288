// Package solo is the single-player game: one hand against the dealer with
// a running balance and a short history of past rounds.
package solo

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// HistorySize is how many past rounds are kept
const HistorySize = 50

// defaultBet caps the bet offered after each round
const defaultBet = 1000

var (
	ErrRoundInProgress     = errors.New("a round is already in progress")
	ErrNoRound             = errors.New("no round in progress")
	ErrBetOutOfRange       = errors.New("bet is outside the table limits")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrCannotDouble        = errors.New("you can only double on your first two cards")
)

// Settings are the table limits
type Settings struct {
	StartingBalance int
	MinBet          int
	MaxBet          int
}

// DefaultSettings returns a 10,000 balance with bets from 100 to 10,000
func DefaultSettings() Settings {
	return Settings{
		StartingBalance: 10000,
		MinBet:          100,
		MaxBet:          10000,
	}
}

// Validate checks the limits are usable
func (s Settings) Validate() error {
	if s.StartingBalance <= 0 {
		return fmt.Errorf("starting balance must be positive")
	}
	if s.MinBet <= 0 {
		return fmt.Errorf("min bet must be positive")
	}
	if s.MaxBet < s.MinBet {
		return fmt.Errorf("max bet (%d) must be at least min bet (%d)", s.MaxBet, s.MinBet)
	}
	return nil
}

// Option customizes a Game
type Option func(*Game)

// WithClock sets the clock used to timestamp history
func WithClock(clock quartz.Clock) Option {
	return func(g *Game) { g.clock = clock }
}

// WithDeck deals from d instead of a freshly shuffled deck
func WithDeck(d *deck.Deck) Option {
	return func(g *Game) { g.deck = d }
}

// Game is a single-player blackjack table. It is not safe for concurrent use.
type Game struct {
	settings Settings
	clock    quartz.Clock
	deck     *deck.Deck

	balance    int
	bet        int
	player     []deck.Card
	dealer     []deck.Card
	inProgress bool
	last       *Record
	history    []Record
}

// New creates a game with the starting balance and default bet
func New(settings Settings, rng *rand.Rand, opts ...Option) (*Game, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		settings: settings,
		clock:    quartz.NewReal(),
		balance:  settings.StartingBalance,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.deck == nil {
		g.deck = deck.NewShuffled(rng)
	}
	g.bet = g.nextBet()
	return g, nil
}

// Restore resumes a saved balance and history
func (g *Game) Restore(balance int, history []Record) {
	g.balance = balance
	if len(history) > HistorySize {
		history = history[:HistorySize]
	}
	g.history = slices.Clone(history)
	g.bet = g.nextBet()
}

func (g *Game) nextBet() int {
	return min(defaultBet, g.balance, g.settings.MaxBet)
}

// SetBet changes the wager for the next round
func (g *Game) SetBet(amount int) error {
	if g.inProgress {
		return ErrRoundInProgress
	}
	if amount < g.settings.MinBet || amount > g.settings.MaxBet {
		return fmt.Errorf("%w: %d not in %d-%d", ErrBetOutOfRange, amount, g.settings.MinBet, g.settings.MaxBet)
	}
	if amount > g.balance {
		return ErrInsufficientBalance
	}
	g.bet = amount
	return nil
}

// Deal starts a round: dealer, player, dealer, player. A natural 21 ends
// the round immediately.
func (g *Game) Deal() error {
	if g.inProgress {
		return ErrRoundInProgress
	}
	if g.bet <= 0 || g.bet > g.balance {
		return ErrInsufficientBalance
	}

	g.player = g.player[:0]
	g.dealer = g.dealer[:0]
	g.last = nil
	g.inProgress = true

	g.dealer = append(g.dealer, g.deck.Draw())
	g.player = append(g.player, g.deck.Draw())
	g.dealer = append(g.dealer, g.deck.Draw())
	g.player = append(g.player, g.deck.Draw())

	if deck.Score(g.player) == deck.BlackjackScore {
		g.finish(ResultBlackjack, g.bet*5/2)
	}
	return nil
}

// Hit draws a card; over 21 busts and exactly 21 stands automatically
func (g *Game) Hit() error {
	if !g.inProgress {
		return ErrNoRound
	}
	g.player = append(g.player, g.deck.Draw())

	switch score := deck.Score(g.player); {
	case score > deck.BlackjackScore:
		g.finish(ResultBust, 0)
	case score == deck.BlackjackScore:
		return g.Stand()
	}
	return nil
}

// Stand plays the dealer out to 17 and settles
func (g *Game) Stand() error {
	if !g.inProgress {
		return ErrNoRound
	}
	for deck.Score(g.dealer) < game.DealerStandScore {
		g.dealer = append(g.dealer, g.deck.Draw())
	}

	outcome, winnings := game.Settle(deck.Score(g.player), g.bet, deck.Score(g.dealer))
	g.finish(Result(outcome), winnings)
	return nil
}

// Double doubles the bet, draws one card and stands unless that busts
func (g *Game) Double() error {
	if !g.inProgress {
		return ErrNoRound
	}
	if len(g.player) != 2 {
		return ErrCannotDouble
	}
	if g.bet*2 > g.balance {
		return ErrInsufficientBalance
	}

	g.bet *= 2
	if err := g.Hit(); err != nil {
		return err
	}
	if g.inProgress {
		return g.Stand()
	}
	return nil
}

// finish settles the round: the balance moves by winnings minus the bet
func (g *Game) finish(result Result, winnings int) {
	profit := winnings - g.bet
	g.balance += profit
	g.inProgress = false

	rec := Record{
		Time:        g.clock.Now(),
		Result:      result,
		Bet:         g.bet,
		Profit:      profit,
		PlayerScore: deck.Score(g.player),
		DealerScore: deck.Score(g.dealer),
	}
	g.last = &rec
	g.history = append([]Record{rec}, g.history...)
	if len(g.history) > HistorySize {
		g.history = g.history[:HistorySize]
	}

	g.bet = g.nextBet()
}

// Balance returns the current balance
func (g *Game) Balance() int { return g.balance }

// Bet returns the wager for the current or next round
func (g *Game) Bet() int { return g.bet }

// Settings returns the table limits
func (g *Game) Settings() Settings { return g.settings }

// InProgress reports whether a round awaits a player decision
func (g *Game) InProgress() bool { return g.inProgress }

// PlayerCards returns the player's hand
func (g *Game) PlayerCards() []deck.Card { return slices.Clone(g.player) }

// PlayerScore returns the player's total
func (g *Game) PlayerScore() int { return deck.Score(g.player) }

// DealerCards returns the dealer's hand. While a round is in progress only
// the up-card is returned.
func (g *Game) DealerCards() []deck.Card {
	if g.inProgress && len(g.dealer) > 0 {
		return g.dealer[:1:1]
	}
	return slices.Clone(g.dealer)
}

// DealerScore scores the visible dealer cards
func (g *Game) DealerScore() int { return deck.Score(g.DealerCards()) }

// CanDouble reports whether Double would be accepted
func (g *Game) CanDouble() bool {
	return g.inProgress && len(g.player) == 2 && g.bet*2 <= g.balance
}

// LastRound returns the most recently settled round of this session
func (g *Game) LastRound() (Record, bool) {
	if g.last == nil {
		return Record{}, false
	}
	return *g.last, true
}
