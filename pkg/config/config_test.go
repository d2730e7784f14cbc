package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests run in the package directory, which has no config.yaml, so Load reads
// from the environment alone.

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "127.0.0.1", cfg.BindAddr)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "stdio", cfg.Transport)
	assert.Equal(t, "/mcp/", cfg.MCPPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BIND_ADDR", "0.0.0.0")
	t.Setenv("PORT", "9000")
	t.Setenv("TRANSPORT", "http")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.BindAddr)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http", cfg.Transport)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
}

func TestLoad_InvalidTransport(t *testing.T) {
	t.Setenv("TRANSPORT", "carrier-pigeon")

	_, err := Load("dev")
	assert.Error(t, err)
}
