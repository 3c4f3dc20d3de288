package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/client"
	"github.com/lox/blackjack/internal/tui"
)

// ClientCmd connects the terminal client to a server
type ClientCmd struct {
	Config   string `short:"c" default:"blackjack-client.hcl" help:"Path to HCL configuration file"`
	Server   string `short:"s" help:"Server URL (overrides config)"`
	Name     string `short:"n" help:"Player name used by create and join (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	LogFile  string `help:"Log file path (overrides config)"`
}

func (c *ClientCmd) Run() error {
	cfg, err := client.LoadClientConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Server != "" {
		cfg.Server.URL = strings.TrimSpace(c.Server)
	}
	if c.Name != "" {
		cfg.Player.Name = strings.TrimSpace(c.Name)
	}
	if c.LogLevel != "" {
		cfg.UI.LogLevel = c.LogLevel
	}
	if c.LogFile != "" {
		cfg.UI.LogFile = c.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file
	logFile, err := shared.OpenLogFile(cfg.UI.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	logger, err := shared.SetupLogger(logFile, cfg.UI.LogLevel)
	if err != nil {
		return err
	}
	logger.Info("Starting blackjack client", "server", cfg.Server.URL, "player", cfg.Player.Name)

	wsClient := client.New(cfg.Server.URL, logger)
	session := client.NewSession(wsClient, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout())
	defer cancel()
	if err := wsClient.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = wsClient.Disconnect() }()

	tui.SetDarkBackground(termenv.HasDarkBackground())
	model := tui.New(session, cfg.Player.Name, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	wsClient.OnClose(func(err error) {
		program.Send(tui.DisconnectedMsg{Err: err})
	})

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	return nil
}
