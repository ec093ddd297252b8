// Package auth provides the taiga.TokenSource implementations used by the
// CLI and the MCP server.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/protocollar/taiga/internal/credentials"
	"github.com/protocollar/taiga/internal/taiga"
)

// Skew is subtracted from a token's expiry so requests do not race it.
const Skew = 30 * time.Second

// authError messages are shown to users verbatim. Both match taiga.ErrNoToken.
type authError string

func (e authError) Error() string        { return string(e) }
func (e authError) Is(target error) bool { return target == taiga.ErrNoToken }

const (
	ErrNotLoggedIn = authError("Please run 'taiga auth login' first.")
	ErrExpired     = authError("Authentication token has expired. Please run 'taiga auth login' again.")
)

// Expiry returns the exp claim of a JWT. The signature is not verified;
// only Taiga can do that. ok is false for opaque or exp-less tokens.
func Expiry(token string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	nd, err := claims.GetExpirationTime()
	if err != nil || nd == nil {
		return time.Time{}, false
	}
	return nd.Time, true
}

// Expired reports whether token is a JWT whose exp is before now+Skew.
// Tokens without an expiry never expire.
func Expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	return ok && !now.Add(Skew).Before(exp)
}

// Authenticator performs the unauthenticated /auth calls.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*taiga.AuthResponse, error)
	Refresh(ctx context.Context, refresh string) (*taiga.AuthResponse, error)
}

// Stored serves the token saved by "taiga auth login", refreshing it with
// the stored refresh token once it expires.
type Stored struct {
	Store *credentials.Store
	Auth  Authenticator
	// Now defaults to time.Now.
	Now func() time.Time

	mu     sync.Mutex
	cached credentials.Tokens
}

func (s *Stored) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Invalidate drops the cached token so the next call rereads the store.
func (s *Stored) Invalidate() {
	s.mu.Lock()
	s.cached = credentials.Tokens{}
	s.mu.Unlock()
}

func (s *Stored) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached.Auth == "" {
		t, err := s.Store.Load()
		if err != nil {
			return "", err
		}
		s.cached = t
	}
	if s.cached.Auth == "" {
		return "", ErrNotLoggedIn
	}
	if !Expired(s.cached.Auth, s.now()) {
		return s.cached.Auth, nil
	}
	if s.cached.Refresh == "" || s.Auth == nil {
		return "", ErrExpired
	}

	slog.Debug("refreshing expired auth token")
	resp, err := s.Auth.Refresh(ctx, s.cached.Refresh)
	if err != nil {
		slog.Warn("token refresh failed", "error", err)
		return "", ErrExpired
	}
	t := credentials.Tokens{Auth: resp.AuthToken, Refresh: resp.Refresh}
	if t.Refresh == "" {
		t.Refresh = s.cached.Refresh
	}
	if err := s.Store.Save(s.Store.Username(), t); err != nil {
		slog.Warn("saving refreshed token", "error", err)
	}
	s.cached = t
	return t.Auth, nil
}

// Login signs in with a username and password on first use and again
// whenever the token expires. It backs the MCP server's environment
// configuration.
type Login struct {
	Auth     Authenticator
	Username string
	Password string
	Now      func() time.Time

	mu    sync.Mutex
	token string
}

func (l *Login) Token(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	if l.token != "" && !Expired(l.token, now()) {
		return l.token, nil
	}
	if l.Username == "" || l.Password == "" {
		return "", errors.New("TAIGA_USERNAME and TAIGA_PASSWORD must be set")
	}
	resp, err := l.Auth.Login(ctx, l.Username, l.Password)
	if err != nil {
		return "", fmt.Errorf("logging in as %s: %w", l.Username, err)
	}
	slog.Info("authenticated with Taiga", "username", l.Username)
	l.token = resp.AuthToken
	return l.token, nil
}
