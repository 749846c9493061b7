// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the database connection string
// goes to the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"nlq/cli/internal/xdg"
)

// DefaultServerURL is the query engine service address used when neither the
// config file nor NLQ_SERVER_URL provides one.
const DefaultServerURL = "http://localhost:8000"

// Config holds non-sensitive CLI settings.
type Config struct {
	ServerURL string `json:"server_url"`
	LogLevel  string `json:"log_level"`
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
// NLQ_SERVER_URL overrides the configured server address.
func Load() (Config, error) {
	var c Config
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c = defaults()
			applyEnv(&c)
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	applyEnv(&c)
	return c, nil
}

func defaults() Config {
	return Config{
		ServerURL: DefaultServerURL,
		LogLevel:  "info",
	}
}

func applyEnv(c *Config) {
	if v := strings.TrimSpace(os.Getenv("NLQ_SERVER_URL")); v != "" {
		c.ServerURL = strings.TrimRight(v, "/")
	}
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
