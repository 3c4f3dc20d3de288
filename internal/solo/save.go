package solo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/lox/blackjack/internal/fileutil"
)

// SaveState is what persists between solo sessions
type SaveState struct {
	Balance int      `json:"balance"`
	History []Record `json:"history"`
}

// Save writes the balance and history to path
func (g *Game) Save(path string) error {
	data, err := json.MarshalIndent(SaveState{Balance: g.balance, History: g.history}, "", "  ")
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("write save file: %w", err)
	}
	return nil
}

// Load restores a game saved with Save. A missing file leaves the game
// untouched and reports false.
func (g *Game) Load(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read save file: %w", err)
	}

	var state SaveState
	if err := json.Unmarshal(data, &state); err != nil {
		return false, fmt.Errorf("parse save file: %w", err)
	}
	if state.Balance <= 0 {
		state.Balance = g.settings.StartingBalance
	}
	g.Restore(state.Balance, state.History)
	return true, nil
}
