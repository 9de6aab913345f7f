package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the bot needs to connect, play and record games.
type Config struct {
	// GameServer is the base URL of the Socket.IO game server, e.g. https://games.example.org.
	GameServer string `json:"game_server" env:"GAMESERVER"`
	// Secret authenticates the bot with the game server.
	Secret string `json:"-" env:"SECRET"`

	// DatabaseURL selects the game store: postgres://... uses Postgres,
	// sqlite://path or a *.db path uses SQLite, empty disables persistence.
	DatabaseURL string `json:"database_url" env:"DATABASE_URL"`

	LogLevel string `json:"log_level" env:"LOGLEVEL"`
	LogFile  string `json:"log_file" env:"LOG_FILE"`

	AuthTimeoutMS    int    `json:"auth_timeout_ms" env:"AUTH_TIMEOUT_MS"`
	ReconnectDelayMS int    `json:"reconnect_delay_ms" env:"RECONNECT_DELAY_MS"`
	SocketIOPath     string `json:"socketio_path" env:"SOCKETIO_PATH"`

	// APIPort serves the read-only stats API when > 0.
	APIPort int `json:"api_port" env:"API_PORT"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		LogLevel:         "info",
		AuthTimeoutMS:    2000,
		ReconnectDelayMS: 5000,
		SocketIOPath:     "/socket.io/",
	}
}

// Load reads configuration from an optional config.json file, then applies
// environment variable overrides. Fields not set in either source retain
// their default values.
func Load() (*Config, error) {
	return LoadFile("config.json")
}

// LoadFile is Load with an explicit config file path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			slog.Warn("failed to parse config file", "tag", "config", "path", path, "error", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that required fields are present and numbers are sane.
func (c *Config) Validate() error {
	var errs []error
	if c.GameServer == "" {
		errs = append(errs, errors.New("GAMESERVER is required"))
	}
	if c.Secret == "" {
		errs = append(errs, errors.New("SECRET is required"))
	}
	if c.AuthTimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_TIMEOUT_MS must be positive, got %d", c.AuthTimeoutMS))
	}
	if c.ReconnectDelayMS < 0 {
		errs = append(errs, fmt.Errorf("RECONNECT_DELAY_MS must not be negative, got %d", c.ReconnectDelayMS))
	}
	if c.APIPort < 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("API_PORT out of range: %d", c.APIPort))
	}
	return errors.Join(errs...)
}

// AuthTimeout is AuthTimeoutMS as a duration.
func (c *Config) AuthTimeout() time.Duration {
	return time.Duration(c.AuthTimeoutMS) * time.Millisecond
}

// ReconnectDelay is ReconnectDelayMS as a duration.
func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectDelayMS) * time.Millisecond
}
