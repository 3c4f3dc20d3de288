package game

import "errors"

var (
	// ErrRoomFull is returned when joining a room that has every seat taken
	ErrRoomFull = errors.New("room is full")
	// ErrGameInProgress is returned when joining or starting while a hand is being played
	ErrGameInProgress = errors.New("game already in progress")
	// ErrInsufficientPlayers is returned when starting with too few players
	ErrInsufficientPlayers = errors.New("not enough players to start")
	// ErrNotHost is returned when anyone but the host tries to start
	ErrNotHost = errors.New("only the host can start the game")
	// ErrAlreadySeated is returned when a player joins a room they already sit in
	ErrAlreadySeated = errors.New("player already in room")
)
