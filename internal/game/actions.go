package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// Start deals a new hand. Only the host may start, with at least
// MinPlayers seated and no hand in progress.
func (r *Room) Start(actorID string) ([]Event, error) {
	if len(r.Players) < r.opts.MinPlayers {
		return nil, ErrInsufficientPlayers
	}
	actor := r.Player(actorID)
	if actor == nil || !actor.IsHost {
		return nil, ErrNotHost
	}
	if r.State == StatePlaying {
		return nil, ErrGameInProgress
	}

	r.deck = r.newDeck()
	r.clearHands()

	// One card to each player in seat order, twice
	for round := 0; round < 2; round++ {
		for _, p := range r.Players {
			p.addCard(r.deck.Draw())
		}
	}
	r.dealerDraw()
	r.dealerDraw()

	r.CurrentPlayerIndex = 0
	r.State = StatePlaying

	first := r.Players[0]
	return []Event{GameStartedEvent{
		CurrentPlayerID:   first.ID,
		CurrentPlayerName: first.Name,
		timestamp:         r.now(),
	}}, nil
}

// PlaceBet records a bet for any seated player while a hand is in play.
// Turn order and balances are not checked here.
func (r *Room) PlaceBet(actorID string, amount int) []Event {
	p := r.Player(actorID)
	if r.State != StatePlaying || p == nil || amount < 0 {
		return nil
	}
	p.Bet = amount
	r.CurrentBet = amount
	return []Event{BetPlacedEvent{PlayerID: p.ID, Amount: amount, timestamp: r.now()}}
}

// Hit draws a card for the current player. Reaching 21 or more ends the turn.
func (r *Room) Hit(actorID string) []Event {
	p := r.acting(actorID)
	if p == nil {
		return nil
	}
	card := r.deck.Draw()
	p.addCard(card)

	events := []Event{CardDrawnEvent{PlayerID: p.ID, Card: card, Score: p.Score, timestamp: r.now()}}
	if p.Score >= deck.BlackjackScore {
		events = append(events, r.advanceTurn())
	}
	return events
}

// Stand ends the current player's turn
func (r *Room) Stand(actorID string) []Event {
	p := r.acting(actorID)
	if p == nil {
		return nil
	}
	return []Event{
		PlayerStoodEvent{PlayerID: p.ID, timestamp: r.now()},
		r.advanceTurn(),
	}
}

// Double doubles the current player's bet, draws exactly one card and ends
// the turn. Only allowed on the first two cards.
func (r *Room) Double(actorID string) []Event {
	p := r.acting(actorID)
	if p == nil || len(p.Cards) != 2 {
		return nil
	}
	p.Bet *= 2
	r.CurrentBet = p.Bet
	card := r.deck.Draw()
	p.addCard(card)

	return []Event{
		DoubledDownEvent{PlayerID: p.ID, Card: card, Score: p.Score, Bet: p.Bet, timestamp: r.now()},
		r.advanceTurn(),
	}
}

// acting returns the player allowed to act, or nil when actorID is not the
// current player of a hand in play.
func (r *Room) acting(actorID string) *Player {
	p := r.Current()
	if p == nil || p.ID != actorID {
		return nil
	}
	return p
}

// advanceTurn moves to the next seat. Wrapping back to the first seat means
// everyone has acted once, so the dealer plays and the hand settles.
func (r *Room) advanceTurn() Event {
	r.CurrentPlayerIndex = (r.CurrentPlayerIndex + 1) % len(r.Players)
	if r.CurrentPlayerIndex == 0 {
		r.playDealer()
		return r.endGame()
	}
	next := r.Players[r.CurrentPlayerIndex]
	return TurnChangedEvent{
		CurrentPlayerID:   next.ID,
		CurrentPlayerName: next.Name,
		Index:             r.CurrentPlayerIndex,
		timestamp:         r.now(),
	}
}

func (r *Room) dealerDraw() {
	r.DealerCards = append(r.DealerCards, r.deck.Draw())
	r.DealerScore = deck.Score(r.DealerCards)
}

// playDealer draws until 17 or more; soft 17 stands
func (r *Room) playDealer() {
	for r.DealerScore < DealerStandScore {
		r.dealerDraw()
	}
}

func (r *Room) endGame() Event {
	results := make([]Result, 0, len(r.Players))
	for _, p := range r.Players {
		outcome, winnings := Settle(p.Score, p.Bet, r.DealerScore)
		results = append(results, Result{
			PlayerID:    p.ID,
			Outcome:     outcome,
			Winnings:    winnings,
			Score:       p.Score,
			DealerScore: r.DealerScore,
		})
	}
	r.State = StateFinished
	return GameEndedEvent{DealerScore: r.DealerScore, Results: results, timestamp: r.now()}
}

func (r *Room) now() time.Time {
	return r.opts.Clock.Now()
}
