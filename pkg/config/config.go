package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for graphmodel-engine.
// Configuration can come from a YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Transport selects how the MCP server is exposed: "stdio" for a
	// subprocess client, "http" for streamable HTTP, "sse" for server-sent
	// events.
	Transport string `yaml:"transport" env:"TRANSPORT" env-default:"stdio"`

	// MCPPath is the HTTP route the MCP endpoint is mounted on.
	MCPPath string `yaml:"mcp_path" env:"MCP_PATH" env-default:"/mcp/"`
}

// Load reads configuration from config.yaml when the file exists, otherwise
// from environment variables alone.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validateTransport(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validateTransport() error {
	switch c.Transport {
	case "stdio", "http", "sse":
		return nil
	default:
		return fmt.Errorf("unsupported transport %q (expected stdio, http or sse)", c.Transport)
	}
}

// Addr returns the host:port the HTTP and SSE transports bind to.
func (c *Config) Addr() string {
	return c.BindAddr + ":" + c.Port
}
