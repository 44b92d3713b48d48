// Package config loads the game's settings from defaults, an optional HCL
// file, the environment and command-line overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dimaq12/minesweeper/models"
	"github.com/dimaq12/minesweeper/store"
)

const (
	ModeTUI = "tui"
	ModeWeb = "web"
)

type ServerConfig struct {
	Listen     string
	Tick       time.Duration
	SessionTTL time.Duration
}

type Config struct {
	Mode string
	// DefaultPreset is empty when the player should be asked.
	DefaultPreset string
	LogLevel      string
	LogFormat     string
	LogFile       string
	Server        ServerConfig
	Store         store.Config
	Presets       models.Presets
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Mode:      ModeTUI,
		LogLevel:  "info",
		LogFormat: "text",
		Server: ServerConfig{
			Listen:     ":8080",
			Tick:       time.Second,
			SessionTTL: 30 * time.Minute,
		},
		Store:   store.Config{Backend: "memory"},
		Presets: models.DefaultPresets(),
	}
}

// ApplyEnv reads LOG_LEVEL and LOG_FORMAT when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
}

// Validate checks the settings that nothing downstream would reject.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Mode) {
	case ModeTUI, ModeWeb:
		c.Mode = strings.ToLower(c.Mode)
	default:
		errs = append(errs, fmt.Errorf("invalid mode %q: must be '%s' or '%s'", c.Mode, ModeTUI, ModeWeb))
	}

	if c.DefaultPreset != "" {
		if _, err := c.Presets.Lookup(c.DefaultPreset); err != nil {
			errs = append(errs, fmt.Errorf("default_preset: %w", err))
		}
	}
	if c.Server.Tick <= 0 {
		errs = append(errs, errors.New("server.tick must be positive"))
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, errors.New("server.session_ttl must be positive"))
	}

	return errors.Join(errs...)
}
