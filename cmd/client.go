package cmd

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/auth"
	"github.com/protocollar/taiga/internal/config"
	"github.com/protocollar/taiga/internal/credentials"
	"github.com/protocollar/taiga/internal/env"
	"github.com/protocollar/taiga/internal/exitcode"
	"github.com/protocollar/taiga/internal/httpclient"
	"github.com/protocollar/taiga/internal/resolve"
	"github.com/protocollar/taiga/internal/taiga"
)

// app bundles what an API-calling command needs.
type app struct {
	ctx        context.Context
	c          *taiga.Client
	r          *resolve.Resolver
	cfg        *config.Config
	configPath string
	env        env.Settings
}

// loadSettings reads the config file and the environment overlay.
func loadSettings() (*config.Config, string, env.Settings, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, "", env.Settings{}, exitcode.Wrap("config_error", exitcode.ConfigError, err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", env.Settings{}, exitcode.Wrap("config_error", exitcode.ConfigError, err)
	}
	settings, err := env.Load()
	if err != nil {
		return nil, "", env.Settings{}, exitcode.Wrap("config_error", exitcode.ConfigError, err)
	}
	return cfg, path, settings, nil
}

// apiBaseURL picks --api-url, then TAIGA_API_URL, then the saved URL.
func apiBaseURL(cfg *config.Config, settings env.Settings) string {
	for _, u := range []string{flagAPIURL, settings.APIURL, cfg.APIBaseURL} {
		if u != "" {
			return taiga.NormalizeBaseURL(u)
		}
	}
	return taiga.DefaultBaseURL
}

func newHTTPClient(settings env.Settings) (*http.Client, error) {
	return httpclient.New(settings.HTTPConfig("taiga-cli/" + Version))
}

// anonymousClient can only log in and refresh tokens.
func anonymousClient(baseURL string, hc *http.Client) (*taiga.Client, error) {
	return taiga.New(taiga.Config{BaseURL: baseURL, HTTPClient: hc})
}

// newApp builds an authenticated client. TAIGA_TOKEN wins over the stored
// login; the stored token is refreshed when it has expired.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, path, settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	hc, err := newHTTPClient(settings)
	if err != nil {
		return nil, exitcode.Wrap("config_error", exitcode.ConfigError, err)
	}
	base := apiBaseURL(cfg, settings)

	var tokens taiga.TokenSource
	if settings.Token != "" {
		tokens = taiga.StaticToken(settings.Token)
	} else {
		anon, err := anonymousClient(base, hc)
		if err != nil {
			return nil, exitcode.Invalid("%v", err)
		}
		tokens = &auth.Stored{Store: credentials.New(path), Auth: anon}
	}

	c, err := taiga.New(taiga.Config{BaseURL: base, Tokens: tokens, HTTPClient: hc})
	if err != nil {
		return nil, exitcode.Invalid("%v", err)
	}
	// Fail before any request when nobody is logged in.
	if _, err := tokens.Token(cmd.Context()); err != nil {
		return nil, err
	}
	return &app{
		ctx:        cmd.Context(),
		c:          c,
		r:          resolve.New(c),
		cfg:        cfg,
		configPath: path,
		env:        settings,
	}, nil
}

// project returns flag, or TAIGA_PROJECT, or the configured default.
func (a *app) project(flag int) (int, error) {
	switch {
	case flag > 0:
		return flag, nil
	case a.env.Project > 0:
		return a.env.Project, nil
	case a.cfg.DefaultProject > 0:
		return a.cfg.DefaultProject, nil
	}
	return 0, exitcode.Invalid("a project is required: pass -p <id> or run 'taiga config set-project <id>'")
}

// optionalProject is project without the error: 0 means unscoped.
func (a *app) optionalProject(flag int) int {
	p, _ := a.project(flag)
	return p
}

// invalidName marks a failed name lookup as bad input. Transport and auth
// failures keep their own classification.
func invalidName(err error) error {
	var apiErr *taiga.APIError
	if errors.As(err, &apiErr) || errors.Is(err, taiga.ErrNoToken) {
		return err
	}
	return exitcode.Wrap("invalid_input", exitcode.InvalidInput, err)
}

// parseID parses a positive numeric argument.
func parseID(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, exitcode.Invalid("invalid argument %q: expected a numeric id", s)
	}
	return n, nil
}

// parseRef parses a "#42" or "42" reference argument.
func parseRef(s string) (int, error) {
	n, err := taiga.ParseRef(s)
	if err != nil {
		return 0, exitcode.Wrap("invalid_input", exitcode.InvalidInput, err)
	}
	return n, nil
}

