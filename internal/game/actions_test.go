package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

func TestStartDealsRoundRobin(t *testing.T) {
	stack := []deck.Card{
		c(deck.Two), c(deck.Three), c(deck.Four), // first round: a, b, c
		c(deck.Five), c(deck.Six), c(deck.Seven), // second round: a, b, c
		c(deck.Eight), c(deck.Nine), // dealer
	}
	r := newTestRoom(t, stack, "a", "b", "c")

	events, err := r.Start("a")
	require.NoError(t, err)
	require.Len(t, events, 1)

	started, ok := events[0].(GameStartedEvent)
	require.True(t, ok)
	assert.Equal(t, "a", started.CurrentPlayerID)
	assert.Equal(t, "a", started.CurrentPlayerName)

	assert.Equal(t, []deck.Card{c(deck.Two), c(deck.Five)}, r.Players[0].Cards)
	assert.Equal(t, []deck.Card{c(deck.Three), c(deck.Six)}, r.Players[1].Cards)
	assert.Equal(t, []deck.Card{c(deck.Four), c(deck.Seven)}, r.Players[2].Cards)
	assert.Equal(t, []deck.Card{c(deck.Eight), c(deck.Nine)}, r.DealerCards)
	assert.Equal(t, 17, r.DealerScore)
	assert.Equal(t, 7, r.Players[0].Score)

	assert.Equal(t, StatePlaying, r.State)
	assert.Equal(t, 0, r.CurrentPlayerIndex)
}

func TestStartConsumesEightCardsForThreePlayers(t *testing.T) {
	r := newTestRoom(t, nil, "a", "b", "c")
	r.newDeck = func() *deck.Deck { return deck.NewShuffled(r.opts.RNG) }

	_, err := r.Start("a")
	require.NoError(t, err)
	assert.Equal(t, deck.Size-8, r.DeckRemaining())
}

func TestStartPreconditions(t *testing.T) {
	solo := newTestRoom(t, nil, "a")
	_, err := solo.Start("a")
	assert.ErrorIs(t, err, ErrInsufficientPlayers)
	assert.Equal(t, StateWaiting, solo.State)

	r := newTestRoom(t, nil, "a", "b")
	_, err = r.Start("b")
	assert.ErrorIs(t, err, ErrNotHost)
	assert.Equal(t, StateWaiting, r.State)
	assert.Empty(t, r.Players[0].Cards)

	_, err = r.Start("stranger")
	assert.ErrorIs(t, err, ErrNotHost)

	_, err = r.Start("a")
	require.NoError(t, err)
	_, err = r.Start("a")
	assert.ErrorIs(t, err, ErrGameInProgress)
}

func TestStartResetsPreviousHand(t *testing.T) {
	r := newTestRoom(t, nil, "a", "b")
	_, err := r.Start("a")
	require.NoError(t, err)
	r.PlaceBet("a", 500)
	r.Stand("a")
	r.Stand("b")
	require.Equal(t, StateFinished, r.State)

	_, err = r.Start("a")
	require.NoError(t, err)
	assert.Zero(t, r.Players[0].Bet)
	assert.Zero(t, r.CurrentBet)
	assert.Len(t, r.Players[0].Cards, 2)
	assert.Len(t, r.DealerCards, 2)
}

func TestPlaceBet(t *testing.T) {
	r := newTestRoom(t, nil, "a", "b")

	assert.Nil(t, r.PlaceBet("a", 100), "bets are ignored before the hand starts")

	_, err := r.Start("a")
	require.NoError(t, err)

	// Not b's turn, but betting is not turn-gated
	events := r.PlaceBet("b", 250)
	require.Len(t, events, 1)
	assert.Equal(t, BetPlacedEvent{PlayerID: "b", Amount: 250, timestamp: events[0].Timestamp()}, events[0])
	assert.Equal(t, 250, r.Players[1].Bet)
	assert.Equal(t, 250, r.CurrentBet)

	assert.Nil(t, r.PlaceBet("stranger", 10))
}

func TestHitOutOfTurnIsIgnored(t *testing.T) {
	r := newTestRoom(t, nil, "a", "b")
	_, err := r.Start("a")
	require.NoError(t, err)
	before := r.DeckRemaining()

	assert.Nil(t, r.Hit("b"))
	assert.Nil(t, r.Stand("b"))
	assert.Nil(t, r.Double("b"))
	assert.Equal(t, before, r.DeckRemaining())
	assert.Len(t, r.Players[1].Cards, 2)
	assert.Equal(t, 0, r.CurrentPlayerIndex)
}

func TestActionsBeforeStartAreIgnored(t *testing.T) {
	r := newTestRoom(t, nil, "a", "b")
	assert.Nil(t, r.Hit("a"))
	assert.Nil(t, r.Stand("a"))
	assert.Nil(t, r.Double("a"))
}

func TestHitBelowTwentyOneKeepsTurn(t *testing.T) {
	stack := []deck.Card{
		c(deck.Two), c(deck.Ten), c(deck.Three), c(deck.Ten), // a: 2,3  b: 10,10
		c(deck.Ten), c(deck.Seven), // dealer 17
		c(deck.Four), // a hits
	}
	r := newTestRoom(t, stack, "a", "b")
	_, err := r.Start("a")
	require.NoError(t, err)

	events := r.Hit("a")
	require.Equal(t, []EventType{EventTypeCardDrawn}, eventTypes(events))
	drawn := events[0].(CardDrawnEvent)
	assert.Equal(t, c(deck.Four), drawn.Card)
	assert.Equal(t, 9, drawn.Score)
	assert.Equal(t, 0, r.CurrentPlayerIndex)
}

func TestHitBustAdvancesTurn(t *testing.T) {
	stack := []deck.Card{
		c(deck.Ten), c(deck.Two), c(deck.Six), c(deck.Three), // a: 10,6  b: 2,3
		c(deck.Ten), c(deck.Seven),
		c(deck.King), // a busts on 26
	}
	r := newTestRoom(t, stack, "a", "b")
	_, err := r.Start("a")
	require.NoError(t, err)

	events := r.Hit("a")
	require.Equal(t, []EventType{EventTypeCardDrawn, EventTypeTurnChanged}, eventTypes(events))
	assert.Equal(t, 26, events[0].(CardDrawnEvent).Score)
	turn := events[1].(TurnChangedEvent)
	assert.Equal(t, "b", turn.CurrentPlayerID)
	assert.Equal(t, 1, r.CurrentPlayerIndex)
}

func TestHitTwentyOneAdvancesTurn(t *testing.T) {
	stack := []deck.Card{
		c(deck.Ten), c(deck.Two), c(deck.Six), c(deck.Three),
		c(deck.Ten), c(deck.Seven),
		c(deck.Five), // a reaches 21
	}
	r := newTestRoom(t, stack, "a", "b")
	_, err := r.Start("a")
	require.NoError(t, err)

	events := r.Hit("a")
	require.Equal(t, []EventType{EventTypeCardDrawn, EventTypeTurnChanged}, eventTypes(events))
	assert.Equal(t, 21, r.Players[0].Score)
}

func TestDoubleRequiresTwoCards(t *testing.T) {
	stack := []deck.Card{
		c(deck.Two), c(deck.Ten), c(deck.Three), c(deck.Ten),
		c(deck.Ten), c(deck.Seven),
		c(deck.Two),
	}
	r := newTestRoom(t, stack, "a", "b")
	_, err := r.Start("a")
	require.NoError(t, err)

	require.Len(t, r.Hit("a"), 1)
	assert.Nil(t, r.Double("a"))
	assert.Len(t, r.Players[0].Cards, 3)
}

func TestDoubleDrawsOnceAndAdvances(t *testing.T) {
	stack := []deck.Card{
		c(deck.Two), c(deck.Ten), c(deck.Three), c(deck.Ten), // a: 2,3
		c(deck.Ten), c(deck.Seven),
		c(deck.Four), // a doubles to 9, turn still passes
	}
	r := newTestRoom(t, stack, "a", "b")
	_, err := r.Start("a")
	require.NoError(t, err)
	r.PlaceBet("a", 100)

	events := r.Double("a")
	require.Equal(t, []EventType{EventTypeDoubledDown, EventTypeTurnChanged}, eventTypes(events))
	doubled := events[0].(DoubledDownEvent)
	assert.Equal(t, 9, doubled.Score)
	assert.Equal(t, 200, doubled.Bet)
	assert.Equal(t, 200, r.Players[0].Bet)
	assert.Equal(t, 200, r.CurrentBet)
	assert.Len(t, r.Players[0].Cards, 3)
	assert.Equal(t, 1, r.CurrentPlayerIndex)
}

func TestTwoPlayerHandRunsToCompletion(t *testing.T) {
	r := newTestRoom(t, nil, "a", "b")
	r.newDeck = func() *deck.Deck { return deck.NewShuffled(r.opts.RNG) }
	_, err := r.Start("a")
	require.NoError(t, err)

	events := r.Stand("a")
	require.Equal(t, []EventType{EventTypePlayerStood, EventTypeTurnChanged}, eventTypes(events))

	events = r.Stand("b")
	require.Equal(t, []EventType{EventTypePlayerStood, EventTypeGameEnded}, eventTypes(events))

	ended := events[1].(GameEndedEvent)
	assert.Equal(t, 0, r.CurrentPlayerIndex)
	assert.GreaterOrEqual(t, r.DealerScore, DealerStandScore)
	assert.Equal(t, StateFinished, r.State)
	assert.Len(t, ended.Results, 2)
	assert.Equal(t, r.DealerScore, ended.DealerScore)

	assert.Nil(t, r.Stand("a"), "no actions after the hand settles")
}

func TestEveryPlayerGetsExactlyOneTurn(t *testing.T) {
	stack := []deck.Card{
		c(deck.Ten), c(deck.Two), c(deck.Six), c(deck.Three), // a: 10,6  b: 2,3
		c(deck.Ten), c(deck.Seven),
		c(deck.King), // a busts
	}
	r := newTestRoom(t, stack, "a", "b")
	_, err := r.Start("a")
	require.NoError(t, err)

	r.Hit("a")
	require.Equal(t, 1, r.CurrentPlayerIndex, "busted player loses the turn")

	events := r.Stand("b")
	require.Equal(t, EventTypeGameEnded, events[len(events)-1].EventType())
	results := events[len(events)-1].(GameEndedEvent).Results
	assert.Equal(t, OutcomeBust, results[0].Outcome)
	assert.Equal(t, OutcomeLose, results[1].Outcome)
}

func TestDealerDrawsToSeventeen(t *testing.T) {
	stack := []deck.Card{
		c(deck.Ten), c(deck.Ten), c(deck.Nine), c(deck.Eight), // a: 19  b: 18
		c(deck.Two), c(deck.Three), // dealer 5
		c(deck.Four), c(deck.Five), c(deck.Two), c(deck.King), // dealer 9, 14, 16, 26
	}
	r := newTestRoom(t, stack, "a", "b")
	_, err := r.Start("a")
	require.NoError(t, err)
	r.PlaceBet("a", 10)
	r.PlaceBet("b", 20)

	r.Stand("a")
	events := r.Stand("b")

	assert.Len(t, r.DealerCards, 6)
	assert.Equal(t, 26, r.DealerScore)
	ended := events[1].(GameEndedEvent)
	assert.Equal(t, Result{PlayerID: "a", Outcome: OutcomeWin, Winnings: 20, Score: 19, DealerScore: 26}, ended.Results[0])
	assert.Equal(t, Result{PlayerID: "b", Outcome: OutcomeWin, Winnings: 40, Score: 18, DealerScore: 26}, ended.Results[1])
}

func TestDealerStandsOnSoftSeventeen(t *testing.T) {
	stack := []deck.Card{
		c(deck.Ten), c(deck.Ten), c(deck.Nine), c(deck.Eight),
		c(deck.Ace), c(deck.Six),
	}
	r := newTestRoom(t, stack, "a", "b")
	_, err := r.Start("a")
	require.NoError(t, err)
	r.Stand("a")
	r.Stand("b")

	assert.Len(t, r.DealerCards, 2)
	assert.Equal(t, 17, r.DealerScore)
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name         string
		score        int
		dealer       int
		wantOutcome  Outcome
		wantWinnings int
	}{
		{"player bust beats nothing", 22, 25, OutcomeBust, 0},
		{"player bust against standing dealer", 24, 18, OutcomeBust, 0},
		{"dealer bust", 15, 23, OutcomeWin, 200},
		{"higher score wins", 20, 18, OutcomeWin, 200},
		{"equal scores push", 19, 19, OutcomeTie, 100},
		{"lower score loses", 17, 20, OutcomeLose, 0},
		{"twenty one versus twenty one", 21, 21, OutcomeTie, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, winnings := Settle(tt.score, 100, tt.dealer)
			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.wantWinnings, winnings)
		})
	}
}
