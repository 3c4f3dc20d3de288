package server

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joeshaw/envdecode"

	"github.com/lox/blackjack/internal/game"
)

// Config represents the complete server configuration
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Rooms  *RoomSettings   `hcl:"rooms,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address        string   `hcl:"address,optional"`
	Port           int      `hcl:"port,optional"`
	LogLevel       string   `hcl:"log_level,optional"`
	AllowedOrigins []string `hcl:"allowed_origins,optional"`
	StaticDir      string   `hcl:"static_dir,optional"`
	Seed           int64    `hcl:"seed,optional"` // fixed shuffle seed; 0 means random
}

// RoomSettings controls room capacity and code allocation
type RoomSettings struct {
	MaxPlayers   int `hcl:"max_players,optional"`
	MinPlayers   int `hcl:"min_players,optional"`
	CodeAttempts int `hcl:"code_attempts,optional"`
}

// envOverrides are read from the process environment over the file config
type envOverrides struct {
	Port      int    `env:"PORT"`
	Address   string `env:"BLACKJACK_ADDRESS"`
	LogLevel  string `env:"BLACKJACK_LOG_LEVEL"`
	StaticDir string `env:"BLACKJACK_STATIC_DIR"`
}

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Rooms == nil {
		c.Rooms = &RoomSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Rooms.MaxPlayers == 0 {
		c.Rooms.MaxPlayers = game.MaxSeats
	}
	if c.Rooms.MinPlayers == 0 {
		c.Rooms.MinPlayers = 2
	}
	if c.Rooms.CodeAttempts == 0 {
		c.Rooms.CodeAttempts = 16
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields
// the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

// ApplyEnv overlays PORT, BLACKJACK_ADDRESS, BLACKJACK_LOG_LEVEL and
// BLACKJACK_STATIC_DIR when they are set.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envdecode.Decode(&env); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if env.Port != 0 {
		c.Server.Port = env.Port
	}
	if env.Address != "" {
		c.Server.Address = env.Address
	}
	if env.LogLevel != "" {
		c.Server.LogLevel = strings.ToLower(env.LogLevel)
	}
	if env.StaticDir != "" {
		c.Server.StaticDir = env.StaticDir
	}
	return nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	valid := false
	for _, level := range validLogLevels {
		if c.Server.LogLevel == level {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Server.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.Rooms.MaxPlayers < 2 || c.Rooms.MaxPlayers > game.MaxSeats {
		return fmt.Errorf("rooms.max_players must be between 2 and %d, got %d", game.MaxSeats, c.Rooms.MaxPlayers)
	}
	if c.Rooms.MinPlayers < 2 || c.Rooms.MinPlayers > c.Rooms.MaxPlayers {
		return fmt.Errorf("rooms.min_players must be between 2 and max_players (%d), got %d", c.Rooms.MaxPlayers, c.Rooms.MinPlayers)
	}
	if c.Rooms.CodeAttempts < 1 {
		return fmt.Errorf("rooms.code_attempts must be positive, got %d", c.Rooms.CodeAttempts)
	}
	return nil
}

// Addr returns the listen address in host:port form
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// RoomOptions converts the rooms block into game options
func (c *Config) RoomOptions() game.Options {
	return game.Options{
		MaxPlayers: c.Rooms.MaxPlayers,
		MinPlayers: c.Rooms.MinPlayers,
	}
}
