package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/server"
)

// ServerCmd runs the room server
type ServerCmd struct {
	Config    string `short:"c" default:"blackjack.hcl" help:"Path to HCL configuration file"`
	Addr      string `short:"a" help:"Address to listen on, host:port (overrides config and env)"`
	LogLevel  string `short:"l" help:"Log level (overrides config and env)"`
	StaticDir string `help:"Serve a web client from this directory"`
	Seed      *int64 `help:"Deterministic shuffle seed (optional)"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if err := c.applyFlags(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := shared.SetupLogger(os.Stderr, cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	return srv.Run(ctx)
}

func (c *ServerCmd) applyFlags(cfg *server.Config) error {
	if c.Addr != "" {
		host, port, err := net.SplitHostPort(c.Addr)
		if err != nil {
			return fmt.Errorf("invalid --addr %q: %w", c.Addr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port in --addr %q", c.Addr)
		}
		cfg.Server.Address = host
		cfg.Server.Port = p
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.StaticDir != "" {
		cfg.Server.StaticDir = c.StaticDir
	}
	if c.Seed != nil {
		cfg.Server.Seed = *c.Seed
	}
	return nil
}
