package game

import "github.com/lox/blackjack/internal/deck"

// Outcome is how a player's hand compared with the dealer's
type Outcome string

const (
	OutcomeBust Outcome = "bust"
	OutcomeWin  Outcome = "win"
	OutcomeTie  Outcome = "tie"
	OutcomeLose Outcome = "lose"
)

// Result is one player's settlement for a hand
type Result struct {
	PlayerID    string
	Outcome     Outcome
	Winnings    int
	Score       int
	DealerScore int
}

// Settle resolves a hand against the dealer. Winnings include the returned
// stake: a win pays bet*2, a tie returns the bet, bust and loss pay nothing.
func Settle(score, bet, dealerScore int) (Outcome, int) {
	switch {
	case score > deck.BlackjackScore:
		return OutcomeBust, 0
	case dealerScore > deck.BlackjackScore, score > dealerScore:
		return OutcomeWin, bet * 2
	case score == dealerScore:
		return OutcomeTie, bet
	default:
		return OutcomeLose, 0
	}
}
