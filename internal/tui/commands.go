package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CommandKind names a line typed at the prompt
type CommandKind string

const (
	CommandCreate CommandKind = "create"
	CommandJoin   CommandKind = "join"
	CommandLeave  CommandKind = "leave"
	CommandStart  CommandKind = "start"
	CommandBet    CommandKind = "bet"
	CommandHit    CommandKind = "hit"
	CommandStand  CommandKind = "stand"
	CommandDouble CommandKind = "double"
	CommandHelp   CommandKind = "help"
	CommandQuit   CommandKind = "quit"
)

var errEmptyCommand = errors.New("empty command")

// Command is a parsed prompt line
type Command struct {
	Kind   CommandKind
	Name   string
	Code   string
	Amount int
}

var aliases = map[string]CommandKind{
	"create": CommandCreate,
	"new":    CommandCreate,
	"join":   CommandJoin,
	"j":      CommandJoin,
	"leave":  CommandLeave,
	"start":  CommandStart,
	"deal":   CommandStart,
	"bet":    CommandBet,
	"hit":    CommandHit,
	"h":      CommandHit,
	"stand":  CommandStand,
	"s":      CommandStand,
	"double": CommandDouble,
	"d":      CommandDouble,
	"help":   CommandHelp,
	"?":      CommandHelp,
	"quit":   CommandQuit,
	"exit":   CommandQuit,
	"q":      CommandQuit,
}

// ParseCommand turns a prompt line into a Command. Names keep their case;
// everything else is case-insensitive. defaultName fills in create and
// join when no name is typed.
func ParseCommand(input, defaultName string) (Command, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Command{}, errEmptyCommand
	}

	kind, ok := aliases[strings.ToLower(fields[0])]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q (type help)", fields[0])
	}
	args := fields[1:]
	cmd := Command{Kind: kind}

	switch kind {
	case CommandCreate:
		cmd.Name = strings.Join(args, " ")
		if cmd.Name == "" {
			cmd.Name = defaultName
		}
		if cmd.Name == "" {
			return Command{}, errors.New("usage: create NAME")
		}

	case CommandJoin:
		if len(args) == 0 {
			return Command{}, errors.New("usage: join CODE [NAME]")
		}
		cmd.Code = strings.ToUpper(args[0])
		cmd.Name = strings.Join(args[1:], " ")
		if cmd.Name == "" {
			cmd.Name = defaultName
		}
		if cmd.Name == "" {
			return Command{}, errors.New("usage: join CODE NAME")
		}

	case CommandBet:
		if len(args) != 1 {
			return Command{}, errors.New("usage: bet AMOUNT")
		}
		amount, err := strconv.Atoi(args[0])
		if err != nil || amount < 0 {
			return Command{}, fmt.Errorf("invalid bet %q", args[0])
		}
		cmd.Amount = amount

	default:
		if len(args) > 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", kind)
		}
	}

	return cmd, nil
}

const helpText = `Commands:
  create [NAME]      host a new room
  join CODE [NAME]   join a room by its 6 character code
  start              deal a hand (host only)
  bet AMOUNT         set your bet for this hand
  hit | h            draw a card
  stand | s          end your turn
  double | d         double your bet and draw one card
  leave              leave the room
  quit | q           exit`
