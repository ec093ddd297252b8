// Package credentials keeps the Taiga auth and refresh tokens in the OS
// keychain, falling back to the config file when no keychain is reachable
// (headless Linux, CI containers).
package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/protocollar/taiga/internal/config"
)

const (
	service   = "taiga-cli"
	probeUser = "__taiga_availability_test__"
)

// Tokens is what a successful login yields.
type Tokens struct {
	Auth    string
	Refresh string
}

// Store reads and writes tokens for the instance named in the config file.
type Store struct {
	path     string
	keychain bool
}

// New returns a store backed by the config file at path. The keychain is
// probed once; a locked or missing keychain selects the file backend.
func New(path string) *Store {
	s := &Store{path: path, keychain: true}
	if _, err := keyring.Get(service, probeUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		s.keychain = false
	}
	return s
}

// KeychainAvailable reports which backend Save will use.
func (s *Store) KeychainAvailable() bool {
	return s.keychain
}

// Path is the config file the store writes to.
func (s *Store) Path() string {
	return s.path
}

func account(c *config.Config) string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return "default"
}

// Load returns the stored tokens. A missing token is not an error; the
// returned Tokens are simply empty.
func (s *Store) Load() (Tokens, error) {
	c, err := config.Load(s.path)
	if err != nil {
		return Tokens{}, err
	}
	if c.TokenStorage != config.StorageKeyring {
		return Tokens{Auth: c.AuthToken, Refresh: c.RefreshToken}, nil
	}

	acct := account(c)
	var t Tokens
	if t.Auth, err = get(acct); err != nil {
		return Tokens{}, err
	}
	if t.Refresh, err = get(acct + "#refresh"); err != nil {
		return Tokens{}, err
	}
	return t, nil
}

func get(user string) (string, error) {
	v, err := keyring.Get(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading keychain: %w", err)
	}
	return v, nil
}

// Save stores t for the instance currently in the config, together with
// the username it belongs to.
func (s *Store) Save(username string, t Tokens) error {
	_, err := config.Update(s.path, func(c *config.Config) {
		c.Username = username
		if s.keychain {
			acct := account(c)
			if err := keyring.Set(service, acct, t.Auth); err == nil {
				_ = keyring.Set(service, acct+"#refresh", t.Refresh)
				c.TokenStorage = config.StorageKeyring
				c.AuthToken = ""
				c.RefreshToken = ""
				return
			}
			s.keychain = false
		}
		c.TokenStorage = config.StorageFile
		c.AuthToken = t.Auth
		c.RefreshToken = t.Refresh
	})
	return err
}

// Clear removes the tokens from both backends and forgets the username.
func (s *Store) Clear() error {
	c, err := config.Load(s.path)
	if err != nil {
		return err
	}
	if c.TokenStorage == config.StorageKeyring {
		acct := account(c)
		for _, user := range []string{acct, acct + "#refresh"} {
			if err := keyring.Delete(service, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
				return fmt.Errorf("deleting keychain entry: %w", err)
			}
		}
	}
	c.ClearAuth()
	return c.Save(s.path)
}

// Username is the account the stored tokens belong to.
func (s *Store) Username() string {
	c, err := config.Load(s.path)
	if err != nil {
		return ""
	}
	return c.Username
}
