package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/server"
)

func TestServerFlagsOverrideConfig(t *testing.T) {
	seed := int64(99)
	cmd := &ServerCmd{Addr: "127.0.0.1:8123", LogLevel: "debug", StaticDir: "public", Seed: &seed}

	cfg := server.DefaultConfig()
	require.NoError(t, cmd.applyFlags(cfg))

	assert.Equal(t, "127.0.0.1", cfg.Server.Address)
	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "public", cfg.Server.StaticDir)
	assert.Equal(t, int64(99), cfg.Server.Seed)
	assert.Equal(t, "127.0.0.1:8123", cfg.Addr())
	require.NoError(t, cfg.Validate())
}

func TestServerFlagsRejectBadAddr(t *testing.T) {
	for _, addr := range []string{"localhost", "localhost:http"} {
		cmd := &ServerCmd{Addr: addr}
		assert.Error(t, cmd.applyFlags(server.DefaultConfig()), addr)
	}
}

func TestServerFlagsLeaveConfigAlone(t *testing.T) {
	cfg := server.DefaultConfig()
	require.NoError(t, (&ServerCmd{}).applyFlags(cfg))
	assert.Equal(t, server.DefaultConfig(), cfg)
}
