// Package config reads and writes the CLI settings file, by default
// ~/.taiga/config.json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/protocollar/taiga/internal/flock"
)

// EnvPath overrides the config file location.
const EnvPath = "TAIGA_CONFIG"

// Token storage backends.
const (
	StorageKeyring = "keyring"
	StorageFile    = "file"
)

// Config is the persisted CLI state. The auth token is only written here
// when the OS keychain is unavailable.
type Config struct {
	APIBaseURL     string `json:"api_base_url,omitempty"`
	AuthToken      string `json:"auth_token,omitempty"`
	RefreshToken   string `json:"refresh_token,omitempty"`
	Username       string `json:"username,omitempty"`
	DefaultProject int    `json:"default_project,omitempty"`
	TokenStorage   string `json:"token_storage,omitempty"`
}

// ErrNoHome is returned when neither TAIGA_CONFIG nor a home directory is available.
var ErrNoHome = errors.New("cannot determine config location: set TAIGA_CONFIG")

// DefaultPath returns $TAIGA_CONFIG or ~/.taiga/config.json.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoHome
	}
	return filepath.Join(home, ".taiga", "config.json"), nil
}

// Load reads the config at path. A missing file yields an empty config.
// Comments and trailing commas are accepted.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var c Config
	if len(data) == 0 {
		return &c, nil
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &c, nil
}

// Save writes the config to path under an advisory lock. The file is
// replaced atomically and readable only by the owner.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	return flock.With(path, func() error {
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, data, 0o600); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		if err := os.Rename(tmp, path); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("writing config: %w", err)
		}
		return nil
	})
}

// Update loads the config at path, applies fn and saves the result.
func Update(path string, fn func(*Config)) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	fn(c)
	if err := c.Save(path); err != nil {
		return nil, err
	}
	return c, nil
}

// ClearAuth forgets every credential. The base URL and default project stay.
func (c *Config) ClearAuth() {
	c.AuthToken = ""
	c.RefreshToken = ""
	c.Username = ""
	c.TokenStorage = ""
}
