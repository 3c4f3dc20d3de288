// Package tui is the multiplayer terminal client: a scrolling game log,
// a sidebar mirroring the room and a command prompt.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/client"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/protocol"
)

// Session is what the model drives; *client.Session satisfies it
type Session interface {
	View() client.View
	Updates() <-chan *protocol.Message
	ClearError()
	CreateRoom(name string) error
	JoinRoom(code, name string) error
	LeaveRoom() error
	StartGame() error
	PlaceBet(amount int) error
	Hit() error
	Stand() error
	Double() error
}

// serverMsg carries one server message into the Bubble Tea loop
type serverMsg struct {
	msg *protocol.Message
}

// DisconnectedMsg tells the model the server connection is gone
type DisconnectedMsg struct {
	Err error
}

// Model is the Bubble Tea model for the blackjack client
type Model struct {
	session Session
	logger  *log.Logger
	name    string

	logViewport viewport.Model
	actionInput textinput.Model

	gameLog     []string
	focusedPane int // 0 = log, 1 = input
	quitting    bool

	width       int
	height      int
	initialized bool
}

// New creates a model for session. name is used when create or join is
// typed without one.
func New(session Session, name string, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "create NAME, join CODE NAME, or help"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 64
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		session:     session,
		logger:      logger.WithPrefix("tui"),
		name:        name,
		logViewport: vp,
		actionInput: ti,
		focusedPane: 1,
	}
}

// Init starts the cursor and the server listener
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForUpdate())
}

func (m *Model) waitForUpdate() tea.Cmd {
	updates := m.session.Updates()
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return DisconnectedMsg{}
		}
		return serverMsg{msg: msg}
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case serverMsg:
		if line := m.describe(msg.msg); line != "" {
			m.AddLogEntry(line)
		}
		return m, m.waitForUpdate()

	case DisconnectedMsg:
		line := "Disconnected from server"
		if msg.Err != nil {
			line += ": " + msg.Err.Error()
		}
		m.AddLogEntry(ErrorStyle.Render(line))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if cmd := m.processInput(input); cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// processInput runs a prompt line, returning a command only to quit
func (m *Model) processInput(input string) tea.Cmd {
	cmd, err := ParseCommand(input, m.name)
	if err == errEmptyCommand {
		return nil
	}
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
		return nil
	}

	m.session.ClearError()
	switch cmd.Kind {
	case CommandQuit:
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)
	case CommandHelp:
		m.AddLogEntry(InfoStyle.Render(helpText))
		return nil
	case CommandCreate:
		m.name = cmd.Name
		err = m.session.CreateRoom(cmd.Name)
	case CommandJoin:
		m.name = cmd.Name
		err = m.session.JoinRoom(cmd.Code, cmd.Name)
	case CommandLeave:
		err = m.session.LeaveRoom()
	case CommandStart:
		err = m.session.StartGame()
	case CommandBet:
		err = m.session.PlaceBet(cmd.Amount)
	case CommandHit:
		err = m.session.Hit()
	case CommandStand:
		err = m.session.Stand()
	case CommandDouble:
		err = m.session.Double()
	}

	if err != nil {
		m.logger.Debug("Action rejected locally", "command", cmd.Kind, "error", err)
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
	}
	return nil
}

// describe turns a server message into a log line
func (m *Model) describe(msg *protocol.Message) string {
	v := m.session.View()
	name := func(id string) string {
		if v.Room != nil {
			if p, ok := v.Room.Player(id); ok {
				if id == v.PlayerID {
					return p.Name + " (you)"
				}
				return p.Name
			}
		}
		return id
	}

	switch msg.Type {
	case protocol.MessageTypeConnected:
		return SuccessStyle.Render("Connected. Type help for commands.")

	case protocol.MessageTypeRoomCreated:
		var data protocol.RoomCreatedData
		if msg.Decode(&data) != nil {
			return ""
		}
		return SuccessStyle.Render(fmt.Sprintf("Room %s created. Share the code, then type start.", data.RoomCode))

	case protocol.MessageTypeRoomUpdated:
		if v.Room == nil {
			return ""
		}
		return fmt.Sprintf("Room %s: %d players seated", v.Room.Code, len(v.Room.Players))

	case protocol.MessageTypeRoomLeft:
		return "You left the room"

	case protocol.MessageTypeGameStarted:
		var data protocol.GameStartedData
		if msg.Decode(&data) != nil {
			return ""
		}
		return HeaderStyle.Render(" New hand ") + " " + name(data.CurrentPlayerID) + " to act"

	case protocol.MessageTypeBetPlaced:
		var data protocol.BetPlacedData
		if msg.Decode(&data) != nil {
			return ""
		}
		return fmt.Sprintf("%s bets $%d", name(data.PlayerID), data.Amount)

	case protocol.MessageTypeCardDrawn:
		var data protocol.CardDrawnData
		if msg.Decode(&data) != nil {
			return ""
		}
		line := fmt.Sprintf("%s draws %s (%d)", name(data.PlayerID), formatCards([]deck.Card{data.Card}), data.Score)
		if data.Score > deck.BlackjackScore {
			line += " " + ErrorStyle.Render("BUST")
		}
		return line

	case protocol.MessageTypePlayerStood:
		var data protocol.PlayerStoodData
		if msg.Decode(&data) != nil {
			return ""
		}
		return name(data.PlayerID) + " stands"

	case protocol.MessageTypeDoubleDown:
		var data protocol.DoubleDownData
		if msg.Decode(&data) != nil {
			return ""
		}
		return fmt.Sprintf("%s doubles and draws %s (%d)", name(data.PlayerID), formatCards([]deck.Card{data.Card}), data.Score)

	case protocol.MessageTypeTurnChanged:
		var data protocol.TurnChangedData
		if msg.Decode(&data) != nil {
			return ""
		}
		if data.CurrentPlayerID == v.PlayerID {
			return ActionsStyle.Render("Your turn: hit, stand or double")
		}
		return data.CurrentPlayerName + " to act"

	case protocol.MessageTypeGameEnded:
		var data protocol.GameEndedData
		if msg.Decode(&data) != nil {
			return ""
		}
		lines := []string{fmt.Sprintf("Dealer has %s (%d)", formatCards(data.Room.DealerCards), data.Room.DealerScore)}
		for _, r := range data.Results {
			lines = append(lines, fmt.Sprintf("  %s: %s %s", name(r.PlayerID), outcomeStyle(r.Result).Render(r.Result), formatWinnings(r.Winnings)))
		}
		return strings.Join(lines, "\n")

	case protocol.MessageTypeJoinError, protocol.MessageTypeGameError, protocol.MessageTypeError:
		var data protocol.ErrorData
		if msg.Decode(&data) != nil {
			return ""
		}
		return ErrorStyle.Render(data.Message)
	}
	return ""
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows the mirrored room
func (m *Model) renderSidebarPane() string {
	v := m.session.View()
	var content strings.Builder

	if v.Room == nil {
		content.WriteString(InfoStyle.Render("Not in a room"))
		return content.String()
	}
	room := v.Room

	content.WriteString(HeaderStyle.Render(" Room " + room.Code + " "))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("%s  deck %d", room.GameState, room.DeckRemaining)))
	content.WriteString("\n\n")

	if len(room.DealerCards) > 0 {
		content.WriteString(fmt.Sprintf("Dealer %s (%d)\n\n", formatCards(room.DealerCards), room.DealerScore))
	}

	for _, p := range room.Players {
		marker := "  "
		if p.ID == v.CurrentPlayerID {
			marker = ActionsStyle.Render("> ")
		}
		label := p.Name
		if p.IsHost {
			label += " *"
		}
		if p.ID == v.PlayerID {
			label = PlayerInfoStyle.Bold(true).Render(label)
		}
		content.WriteString(marker + label)
		content.WriteString("\n")
		if len(p.Cards) > 0 {
			content.WriteString(fmt.Sprintf("    %s %d", formatCards(p.Cards), p.Score))
			if p.Bet > 0 {
				content.WriteString(WarningStyle.Render(fmt.Sprintf("  $%d", p.Bet)))
			}
			content.WriteString("\n")
		}
	}

	return content.String()
}

// renderActionPane shows whose turn it is and the prompt
func (m *Model) renderActionPane() string {
	v := m.session.View()
	var content strings.Builder

	switch {
	case v.Pending != "":
		content.WriteString(InfoStyle.Render(fmt.Sprintf("Waiting for server (%s)...", v.Pending)))
	case v.IsMyTurn():
		me, _ := v.Me()
		content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Hand: %s  Score: %d", formatCards(me.Cards), me.Score)))
		content.WriteString("\n")
		actions := []string{SuccessStyle.Render("[hit]"), SuccessStyle.Render("[stand]")}
		if len(me.Cards) == 2 {
			actions = append(actions, WarningStyle.Render("[double]"))
		}
		content.WriteString(ActionsStyle.Render("Actions: " + strings.Join(actions, " ")))
	case v.Room != nil && v.Room.GameState == "playing":
		content.WriteString(HandInfoStyle.Render("Waiting for " + v.CurrentPlayerName + "..."))
	case v.Room != nil:
		content.WriteString(HandInfoStyle.Render("Waiting for the host to start"))
	default:
		content.WriteString(HandInfoStyle.Render("create a room or join one"))
	}
	content.WriteString("\n")

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Tab to input"
	}
	content.WriteString(InfoStyle.Render(help))

	return content.String()
}

// AddLogEntry appends to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns the game log lines
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}

func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		if card.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func formatWinnings(amount int) string {
	if amount > 0 {
		return SuccessStyle.Render(fmt.Sprintf("+$%d", amount))
	}
	if amount < 0 {
		return ErrorStyle.Render(fmt.Sprintf("-$%d", -amount))
	}
	return "$0"
}

func outcomeStyle(result string) lipgloss.Style {
	switch result {
	case "win":
		return SuccessStyle
	case "tie":
		return WarningStyle
	default:
		return ErrorStyle
	}
}
