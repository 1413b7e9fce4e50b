// Package cli carries the pieces shared by the commands: environment
// configuration and terminal progress reporting.
package cli

import (
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the environment-driven configuration. Flags always win;
// these are the fallbacks operators set once in CI or a container.
type Config struct {
	LogLevel string `env:"DICHOKEY_LOG_LEVEL" env-default:"info"`
	Workers  int    `env:"DICHOKEY_WORKERS" env-default:"0"`
	Addr     string `env:"DICHOKEY_ADDR" env-default:":8080"`
}

// LoadConfig reads the environment. Missing variables fall back to the
// defaults above; a malformed value is an error.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SlogLevel maps the textual level to slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
