// Package game implements the multiplayer blackjack room: membership, the
// waiting/playing/finished lifecycle, turn order, dealer play and payouts.
//
// A Room is not safe for concurrent use. Callers serialize access per room;
// the registry package does this with one mutex per room.
//
// # Basic Usage
//
//	r := game.NewRoom("ABC123", "p1", "Alice", game.DefaultOptions())
//	_ = r.Join("p2", "Bob")
//	events, err := r.Start("p1")
//	events = r.Hit("p1")
//	events = r.Stand("p1")
//
// Every mutating call returns the events it produced, in order. Actions that
// are out of turn or out of phase return no events and change nothing.
//
// # Deterministic Testing
//
// Options.RNG seeds the per-hand shuffle; tests inside the package can also
// stack the deck directly.
package game
