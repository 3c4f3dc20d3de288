package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadClientConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:3000/ws", cfg.Server.URL)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout())
	assert.Equal(t, "warn", cfg.UI.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoadClientConfigFromHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  url = "ws://blackjack.example:9000/ws"
}

player {
  name = "Alice"
}
`), 0o600))

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://blackjack.example:9000/ws", cfg.Server.URL)
	assert.Equal(t, 10, cfg.Server.ConnectTimeout)
	assert.Equal(t, "Alice", cfg.Player.Name)
	assert.Equal(t, "blackjack-client.log", cfg.UI.LogFile)
	require.NoError(t, cfg.Validate())
}

func TestLoadClientConfigRejectsBadHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`server {`), 0o600))

	_, err := LoadClientConfig(path)
	assert.Error(t, err)
}

func TestClientConfigValidate(t *testing.T) {
	cfg := DefaultClientConfig()
	cfg.UI.LogLevel = "loud"
	assert.ErrorContains(t, cfg.Validate(), "invalid log level")

	cfg = DefaultClientConfig()
	cfg.Player.Name = "a name that is far too long for a seat"
	assert.Error(t, cfg.Validate())
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://localhost:3000", "ws://localhost:3000/ws"},
		{"https://example.com/", "wss://example.com/ws"},
		{"ws://localhost:3000/ws", "ws://localhost:3000/ws"},
		{"ws://localhost:3000/custom", "ws://localhost:3000/custom"},
	}
	for _, tt := range tests {
		got, err := WebSocketURL(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := WebSocketURL("ftp://localhost")
	assert.Error(t, err)
}
