package solo

import (
	"encoding/csv"
	"io"
	"slices"
	"strconv"
	"time"
)

// Result is how a solo round ended
type Result string

const (
	ResultBlackjack Result = "blackjack"
	ResultWin       Result = "win"
	ResultTie       Result = "tie"
	ResultLose      Result = "lose"
	ResultBust      Result = "bust"
)

// Record is one settled round
type Record struct {
	Time        time.Time `json:"time"`
	Result      Result    `json:"result"`
	Bet         int       `json:"bet"`
	Profit      int       `json:"profit"`
	PlayerScore int       `json:"playerScore"`
	DealerScore int       `json:"dealerScore"`
}

// Stats summarizes the history
type Stats struct {
	Total   int
	Wins    int
	Losses  int
	WinRate float64 // percent
}

// History returns past rounds, newest first
func (g *Game) History() []Record {
	return slices.Clone(g.history)
}

// ClearHistory forgets all past rounds
func (g *Game) ClearHistory() {
	g.history = nil
}

// Stats counts blackjacks as wins and busts as losses
func (g *Game) Stats() Stats {
	var s Stats
	for _, r := range g.history {
		s.Total++
		switch r.Result {
		case ResultWin, ResultBlackjack:
			s.Wins++
		case ResultLose, ResultBust:
			s.Losses++
		}
	}
	if s.Total > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Total) * 100
	}
	return s
}

// ExportCSV writes the history as CSV, newest first
func (g *Game) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "result", "bet", "profit", "player_score", "dealer_score"}); err != nil {
		return err
	}
	for _, r := range g.history {
		row := []string{
			r.Time.UTC().Format(time.RFC3339),
			string(r.Result),
			strconv.Itoa(r.Bet),
			strconv.Itoa(r.Profit),
			strconv.Itoa(r.PlayerScore),
			strconv.Itoa(r.DealerScore),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
