// Package config holds the client configuration for the rbox CLI: where
// the backend lives, where guest data is kept, and the saved session.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Server configures the hosted backend connection.
type Server struct {
	URL string `toml:"url"`
}

// Data configures local guest storage.
type Data struct {
	Dir string `toml:"dir"`
}

// Session is the saved login. Empty token means guest mode.
type Session struct {
	Token  string `toml:"token"`
	UserID string `toml:"user_id"`
}

type Config struct {
	Server  Server  `toml:"server"`
	Data    Data    `toml:"data"`
	Session Session `toml:"session"`
}

const (
	defaultServerURL = "http://localhost:8080"
	defaultDataDir   = "~/.local/share/rbox"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{URL: defaultServerURL},
		Data:   Data{Dir: defaultDataDir},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/rbox/config.toml")
}

// Load parses and validates the configuration at path, falling back to the
// default location and then to pure defaults when no file exists.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		path = defaultPath
	} else {
		expanded, err := expandPath(path)
		if err != nil {
			return nil, "", err
		}
		path = expanded
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No file, defaults apply
	case err != nil:
		return nil, "", fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, path, nil
}

// Save writes the configuration back, creating parent directories as
// needed. The CLI uses this to persist the session after login.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) normalize() error {
	dir, err := expandPath(c.Data.Dir)
	if err != nil {
		return err
	}
	c.Data.Dir = dir
	c.Server.URL = strings.TrimSuffix(c.Server.URL, "/")
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return errors.New("server.url must be set")
	}
	if !strings.HasPrefix(c.Server.URL, "http://") && !strings.HasPrefix(c.Server.URL, "https://") {
		return fmt.Errorf("server.url %q must be an http or https URL", c.Server.URL)
	}
	if c.Data.Dir == "" {
		return errors.New("data.dir must be set")
	}
	return nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
