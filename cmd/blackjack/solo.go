package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/solo"
)

// SoloCmd plays against the dealer locally
type SoloCmd struct {
	Balance int    `default:"10000" help:"Starting balance"`
	MinBet  int    `default:"100" help:"Minimum bet"`
	MaxBet  int    `default:"10000" help:"Maximum bet"`
	Seed    *int64 `help:"Deterministic shuffle seed (optional)"`
	Save    string `help:"Save file for balance and history (default ~/.blackjack/solo.json)"`
	NoSave  bool   `help:"Do not load or save progress"`
}

const (
	choiceDeal    = "Deal"
	choiceBet     = "Change bet"
	choiceHistory = "History"
	choiceExport  = "Export history (CSV)"
	choiceClear   = "Clear history"
	choiceReset   = "Reset balance"
	choiceQuit    = "Quit"

	choiceHit    = "Hit"
	choiceStand  = "Stand"
	choiceDouble = "Double"
)

func (c *SoloCmd) Run() error {
	settings := solo.Settings{StartingBalance: c.Balance, MinBet: c.MinBet, MaxBet: c.MaxBet}
	g, err := solo.New(settings, randutil.NewSource(c.Seed).Next())
	if err != nil {
		return err
	}

	savePath := ""
	if !c.NoSave {
		savePath, err = c.savePath()
		if err != nil {
			return err
		}
		if ok, err := g.Load(savePath); err != nil {
			pterm.Warning.Printfln("Ignoring save file: %v", err)
		} else if ok {
			pterm.Info.Printfln("Resumed with a balance of %s", money(g.Balance()))
		}
	}

	pterm.DefaultHeader.WithFullWidth().Println("Blackjack")

	for {
		pterm.Println(pterm.LightCyan("Balance: ") + money(g.Balance()) + pterm.FgDarkGray.Sprintf("   bet %s", money(g.Bet())))

		options := []string{choiceDeal, choiceBet, choiceHistory, choiceExport, choiceClear, choiceQuit}
		if g.Balance() < g.Settings().MinBet {
			options = append([]string{choiceReset}, options...)
		}
		choice, err := pterm.DefaultInteractiveSelect.
			WithDefaultText("What next?").
			WithOptions(options).
			Show()
		if err != nil {
			return err
		}

		switch choice {
		case choiceDeal:
			if err := playRound(g); err != nil {
				pterm.Error.Println(err)
			}
		case choiceBet:
			changeBet(g)
		case choiceHistory:
			showHistory(g)
		case choiceExport:
			exportHistory(g)
		case choiceClear:
			if ok, _ := pterm.DefaultInteractiveConfirm.WithDefaultText("Delete all history?").Show(); ok {
				g.ClearHistory()
				pterm.Success.Println("History cleared")
			}
		case choiceReset:
			g.Restore(g.Settings().StartingBalance, g.History())
			pterm.Info.Printfln("Balance reset to %s", money(g.Balance()))
		case choiceQuit:
			if savePath != "" {
				if err := g.Save(savePath); err != nil {
					return err
				}
			}
			return nil
		}

		if savePath != "" && !g.InProgress() {
			if err := g.Save(savePath); err != nil {
				pterm.Warning.Printfln("Could not save: %v", err)
			}
		}
	}
}

func (c *SoloCmd) savePath() (string, error) {
	if c.Save != "" {
		return c.Save, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".blackjack", "solo.json"), nil
}

func playRound(g *solo.Game) error {
	if err := g.Deal(); err != nil {
		return err
	}

	for g.InProgress() {
		pterm.Println(table(g))

		options := []string{choiceHit, choiceStand}
		if g.CanDouble() {
			options = append(options, choiceDouble)
		}
		choice, err := pterm.DefaultInteractiveSelect.WithDefaultText("Your move").WithOptions(options).Show()
		if err != nil {
			return err
		}

		switch choice {
		case choiceHit:
			err = g.Hit()
		case choiceStand:
			err = g.Stand()
		case choiceDouble:
			err = g.Double()
		}
		if err != nil {
			pterm.Error.Println(err)
		}
	}

	pterm.Println(table(g))
	if rec, ok := g.LastRound(); ok {
		printResult(rec)
	}
	return nil
}

func changeBet(g *solo.Game) {
	s := g.Settings()
	input, err := pterm.DefaultInteractiveTextInput.
		WithDefaultText(fmt.Sprintf("Bet (%d-%d)", s.MinBet, s.MaxBet)).
		WithDefaultValue(strconv.Itoa(g.Bet())).
		Show()
	if err != nil {
		return
	}
	amount, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		pterm.Error.Printfln("%q is not a number", input)
		return
	}
	if err := g.SetBet(amount); err != nil {
		pterm.Error.Println(err)
	}
}

func showHistory(g *solo.Game) {
	history := g.History()
	if len(history) == 0 {
		pterm.Info.Println("No rounds played yet")
		return
	}

	data := pterm.TableData{{"Time", "Result", "Bet", "Profit", "You", "Dealer"}}
	for _, r := range history {
		data = append(data, []string{
			r.Time.Local().Format("Jan 02 15:04"),
			string(r.Result),
			strconv.Itoa(r.Bet),
			signed(r.Profit),
			strconv.Itoa(r.PlayerScore),
			strconv.Itoa(r.DealerScore),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}

	stats := g.Stats()
	pterm.Info.Printfln("%d rounds, %d won, %d lost, win rate %.1f%%", stats.Total, stats.Wins, stats.Losses, stats.WinRate)
}

func exportHistory(g *solo.Game) {
	path, err := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Export to").
		WithDefaultValue("blackjack_history.csv").
		Show()
	if err != nil {
		return
	}
	f, err := os.Create(strings.TrimSpace(path))
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	defer func() { _ = f.Close() }()

	if err := g.ExportCSV(f); err != nil {
		pterm.Error.Println(err)
		return
	}
	pterm.Success.Printfln("Wrote %s", path)
}

func table(g *solo.Game) string {
	dealerTitle := "Dealer"
	if g.InProgress() {
		dealerTitle += " (one card hidden)"
	}
	box := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)

	dealer := box.WithTitle(pterm.LightYellow(dealerTitle)).WithTitleTopCenter().
		Sprintf("%s\n\nScore: %d", cards(g.DealerCards(), g.InProgress()), g.DealerScore())
	player := box.WithTitle(pterm.LightGreen("You")).WithTitleTopCenter().
		Sprintf("%s\n\nScore: %d   Bet: %s", cards(g.PlayerCards(), false), g.PlayerScore(), money(g.Bet()))

	out, err := pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		{{Data: dealer}, {Data: player}},
	}).Srender()
	if err != nil {
		return dealer + "\n" + player
	}
	return out
}

func cards(hand []deck.Card, hidden bool) string {
	parts := make([]string, 0, len(hand)+1)
	for _, c := range hand {
		if c.IsRed() {
			parts = append(parts, pterm.LightRed(c.String()))
		} else {
			parts = append(parts, c.String())
		}
	}
	if hidden {
		parts = append(parts, pterm.FgDarkGray.Sprint("??"))
	}
	return strings.Join(parts, " ")
}

func printResult(rec solo.Record) {
	msg := fmt.Sprintf("%s  %s", strings.ToUpper(string(rec.Result)), signed(rec.Profit))
	switch rec.Result {
	case solo.ResultBlackjack, solo.ResultWin:
		pterm.Success.Println(msg)
	case solo.ResultTie:
		pterm.Info.Println(msg)
	default:
		pterm.Error.Println(msg)
	}
}

func money(n int) string {
	return "$" + strconv.Itoa(n)
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

