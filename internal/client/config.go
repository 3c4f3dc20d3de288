package client

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ClientConfig represents the complete client configuration
type ClientConfig struct {
	Server *ServerConnection `hcl:"server,block"`
	Player *PlayerSettings   `hcl:"player,block"`
	UI     *UISettings       `hcl:"ui,block"`
}

// ServerConnection contains server connection settings
type ServerConnection struct {
	URL            string `hcl:"url,optional"`
	ConnectTimeout int    `hcl:"connect_timeout,optional"`
}

// PlayerSettings contains player-specific settings
type PlayerSettings struct {
	Name string `hcl:"name,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// DefaultClientConfig returns default client configuration
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Server: &ServerConnection{
			URL:            "ws://localhost:3000/ws",
			ConnectTimeout: 10,
		},
		Player: &PlayerSettings{},
		UI: &UISettings{
			LogLevel: "warn",
			LogFile:  "blackjack-client.log",
		},
	}
}

// LoadClientConfig loads client configuration from an HCL file. A missing
// file yields the defaults.
func LoadClientConfig(filename string) (*ClientConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultClientConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ClientConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *ClientConfig) applyDefaults() {
	defaults := DefaultClientConfig()

	if c.Server == nil {
		c.Server = defaults.Server
	}
	if c.Server.URL == "" {
		c.Server.URL = defaults.Server.URL
	}
	if c.Server.ConnectTimeout == 0 {
		c.Server.ConnectTimeout = defaults.Server.ConnectTimeout
	}

	if c.Player == nil {
		c.Player = defaults.Player
	}

	if c.UI == nil {
		c.UI = defaults.UI
	}
	if c.UI.LogLevel == "" {
		c.UI.LogLevel = defaults.UI.LogLevel
	}
	if c.UI.LogFile == "" {
		c.UI.LogFile = defaults.UI.LogFile
	}
}

// Validate validates the client configuration
func (c *ClientConfig) Validate() error {
	if c.Server == nil || c.Server.URL == "" {
		return fmt.Errorf("server URL is required")
	}

	if c.Server.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}

	if c.Player != nil && len([]rune(strings.TrimSpace(c.Player.Name))) > 20 {
		return fmt.Errorf("player name must be at most 20 characters")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if c.UI == nil || !validLogLevels[c.UI.LogLevel] {
		level := ""
		if c.UI != nil {
			level = c.UI.LogLevel
		}
		return fmt.Errorf("invalid log level: %s", level)
	}

	return nil
}

// ConnectTimeout returns the dial timeout as a duration
func (c *ClientConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.Server.ConnectTimeout) * time.Second
}
