// Package registry owns the live rooms of a server process, keyed by room code.
package registry

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/roomcode"
)

var (
	// ErrRoomNotFound is returned for codes with no live room
	ErrRoomNotFound = errors.New("room not found")
	// ErrCodesExhausted is returned when no unused code could be generated
	ErrCodesExhausted = errors.New("could not allocate a unique room code")
)

const defaultCodeAttempts = 16

// entry serializes every mutation of one room. closed is set once the room
// has been removed so late callers holding the entry see it as gone.
type entry struct {
	mu     sync.Mutex
	room   *game.Room
	closed bool
}

// Summary holds lightweight room metadata for listings.
type Summary struct {
	Code       string     `json:"code"`
	Players    int        `json:"players"`
	MaxPlayers int        `json:"maxPlayers"`
	GameState  game.State `json:"gameState"`
	Host       string     `json:"host"`
}

// Registry tracks rooms and hands out exclusive access to them.
type Registry struct {
	logger       *log.Logger
	mu           sync.RWMutex
	rooms        map[string]*entry
	codes        *roomcode.Generator
	rng          *randutil.Source
	clock        quartz.Clock
	roomOptions  game.Options
	codeAttempts int
}

// Option configures a Registry
type Option func(*Registry)

// WithCodeGenerator replaces the room code generator
func WithCodeGenerator(g *roomcode.Generator) Option {
	return func(r *Registry) { r.codes = g }
}

// WithRandSource sets the source every room's shuffle generator is derived from
func WithRandSource(src *randutil.Source) Option {
	return func(r *Registry) { r.rng = src }
}

// WithClock sets the clock rooms stamp their events with
func WithClock(clock quartz.Clock) Option {
	return func(r *Registry) { r.clock = clock }
}

// WithRoomOptions sets seat limits for new rooms
func WithRoomOptions(opts game.Options) Option {
	return func(r *Registry) { r.roomOptions = opts }
}

// WithCodeAttempts bounds how many codes Create tries before giving up
func WithCodeAttempts(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.codeAttempts = n
		}
	}
}

// New constructs an empty registry.
func New(logger *log.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Registry{
		logger:       logger.WithPrefix("registry"),
		rooms:        make(map[string]*entry),
		roomOptions:  game.DefaultOptions(),
		codeAttempts: defaultCodeAttempts,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = randutil.NewSource(nil)
	}
	if r.codes == nil {
		r.codes = roomcode.NewGenerator(r.rng)
	}
	if r.clock == nil {
		r.clock = quartz.NewReal()
	}
	return r
}

// Create opens a room with the caller seated as host and runs fn while the
// new room is locked. Codes that collide with a live room are redrawn.
func (r *Registry) Create(hostID, hostName string, fn func(*game.Room)) (string, error) {
	opts := r.roomOptions
	opts.Clock = r.clock
	opts.RNG = r.rng.Next()

	r.mu.Lock()
	var code string
	for attempt := 0; attempt < r.codeAttempts; attempt++ {
		candidate := r.codes.Generate()
		if _, taken := r.rooms[candidate]; !taken {
			code = candidate
			break
		}
		r.logger.Debug("Room code collision", "code", candidate, "attempt", attempt+1)
	}
	if code == "" {
		r.mu.Unlock()
		return "", ErrCodesExhausted
	}

	e := &entry{room: game.NewRoom(code, hostID, hostName, opts)}
	// Lock before publishing so nobody can act on the room before fn runs
	e.mu.Lock()
	r.rooms[code] = e
	total := len(r.rooms)
	r.mu.Unlock()
	defer e.mu.Unlock()

	r.logger.Info("Room created", "code", code, "host", hostName, "rooms", total)
	if fn != nil {
		fn(e.room)
	}
	return code, nil
}

// Join seats a player in the room with the given code and runs fn while
// the room is still locked.
func (r *Registry) Join(code, playerID, playerName string, fn func(*game.Room)) error {
	return r.Do(code, func(room *game.Room) error {
		if err := room.Join(playerID, playerName); err != nil {
			return err
		}
		r.logger.Info("Player joined", "code", room.Code, "player", playerName, "players", len(room.Players))
		if fn != nil {
			fn(room)
		}
		return nil
	})
}

// Remove unseats a player. The room is deleted when it becomes empty; fn
// runs under the room lock with deleted reporting that outcome.
func (r *Registry) Remove(code, playerID string, fn func(room *game.Room, deleted bool)) error {
	return r.Do(code, func(room *game.Room) error {
		if !room.Leave(playerID) {
			return fmt.Errorf("player %s not in room %s", playerID, room.Code)
		}
		deleted := room.IsEmpty()
		if deleted {
			r.delete(room.Code)
		}
		if fn != nil {
			fn(room, deleted)
		}
		return nil
	})
}

// Do runs fn with exclusive access to a room. Errors from fn are returned as is.
func (r *Registry) Do(code string, fn func(*game.Room) error) error {
	code = roomcode.Normalize(code)
	r.mu.RLock()
	e, ok := r.rooms[code]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}
	return fn(e.room)
}

// delete must be called with the room's entry lock held.
func (r *Registry) delete(code string) {
	r.mu.Lock()
	e, ok := r.rooms[code]
	if ok {
		e.closed = true
		delete(r.rooms, code)
	}
	total := len(r.rooms)
	r.mu.Unlock()

	if ok {
		r.logger.Info("Room closed", "code", code, "rooms", total)
	}
}

// Len returns the number of live rooms
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Summaries lists live rooms ordered by code.
func (r *Registry) Summaries() []Summary {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.rooms))
	for _, e := range r.rooms {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	summaries := make([]Summary, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.closed {
			s := Summary{
				Code:       e.room.Code,
				Players:    len(e.room.Players),
				MaxPlayers: e.room.MaxPlayers(),
				GameState:  e.room.State,
			}
			if host := e.room.Host(); host != nil {
				s.Host = host.Name
			}
			summaries = append(summaries, s)
		}
		e.mu.Unlock()
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Code < summaries[j].Code })
	return summaries
}
