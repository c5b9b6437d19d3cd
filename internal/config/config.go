package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Store backends the tool can run against.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config is the tool configuration loaded from config.toml.
type Config struct {
	// Store selects the scene backend: "memory" or "sqlite"
	Store string `toml:"store"`

	// Scene is the scene name to open (resolved under Paths.Scenes for sqlite)
	Scene string `toml:"scene"`

	// Panel is the viewport panel targeted by isolate operations
	Panel string `toml:"panel"`

	// Verbose enables debug-level log output
	Verbose bool `toml:"verbose"`

	// PollInterval is the scene re-sync interval for the interactive UI,
	// in milliseconds
	PollInterval int `toml:"poll_interval_ms"`
}

// DefaultConfig returns the built-in defaults used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		Store:        StoreSQLite,
		Scene:        "",
		Panel:        "modelPanel4",
		Verbose:      false,
		PollInterval: 2000,
	}
}

// Load reads the config file at path on top of the defaults. A missing
// file is not an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("invalid store backend %q (want %q or %q)", c.Store, StoreMemory, StoreSQLite)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll_interval_ms must not be negative, got %d", c.PollInterval)
	}
	return nil
}
