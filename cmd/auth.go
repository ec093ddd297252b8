package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/auth"
	"github.com/protocollar/taiga/internal/config"
	"github.com/protocollar/taiga/internal/credentials"
	"github.com/protocollar/taiga/internal/exitcode"
	"github.com/protocollar/taiga/internal/output"
	"github.com/protocollar/taiga/internal/taiga"
)

var (
	loginUsername string
	loginPassword string
	loginURL      string
)

func init() {
	authLoginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username or email")
	authLoginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
	authLoginCmd.Flags().StringVarP(&loginURL, "url", "a", "", "Taiga API URL to log in to")

	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Log in and out of Taiga",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the token",
	Long: `Log in with a username and password. The token is kept in the OS keychain
when one is available, otherwise in the config file.`,
	Example: `  taiga auth login
  taiga auth login -u alice -a https://taiga.example.com`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

// promptLogin asks for whatever credentials are still missing.
func promptLogin(username, password *string) error {
	if !interactive() {
		return exitcode.New("interactive_only", exitcode.InteractiveOnly,
			"username and password are required: pass -u and -p, or run in a terminal")
	}
	var fields []huh.Field
	if *username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username or email").
			Value(username).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("username is required")
				}
				return nil
			}))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password))
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return exitcode.New("interactive_only", exitcode.InteractiveOnly, "login cancelled")
		}
		return err
	}
	return nil
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	cfg, path, settings, err := loadSettings()
	if err != nil {
		return err
	}
	base := apiBaseURL(cfg, settings)
	if loginURL != "" {
		base = taiga.NormalizeBaseURL(loginURL)
	}

	username, password := loginUsername, loginPassword
	if username == "" {
		username = settings.Username
	}
	if password == "" {
		password = settings.Password
	}
	if username == "" || password == "" {
		if err := promptLogin(&username, &password); err != nil {
			return err
		}
	}

	hc, err := newHTTPClient(settings)
	if err != nil {
		return exitcode.Wrap("config_error", exitcode.ConfigError, err)
	}
	anon, err := anonymousClient(base, hc)
	if err != nil {
		return exitcode.Invalid("%v", err)
	}
	resp, err := anon.Login(cmd.Context(), strings.TrimSpace(username), password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// The keychain account is derived from the saved URL, so persist it first.
	if _, err := config.Update(path, func(c *config.Config) { c.APIBaseURL = base }); err != nil {
		return exitcode.Wrap("config_error", exitcode.ConfigError, err)
	}
	store := credentials.New(path)
	name := resp.Username
	if name == "" {
		name = strings.TrimSpace(username)
	}
	if err := store.Save(name, credentials.Tokens{Auth: resp.AuthToken, Refresh: resp.Refresh}); err != nil {
		return exitcode.Wrap("config_error", exitcode.ConfigError, err)
	}

	storage := config.StorageFile
	if store.KeychainAvailable() {
		storage = config.StorageKeyring
	}
	return output.Done(fmt.Sprintf("Logged in to %s as %s.", base, name), map[string]any{
		"username": name,
		"api_url":  base,
		"storage":  storage,
	})
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	path, err := config.DefaultPath()
	if err != nil {
		return exitcode.Wrap("config_error", exitcode.ConfigError, err)
	}
	if err := credentials.New(path).Clear(); err != nil {
		return exitcode.Wrap("config_error", exitcode.ConfigError, err)
	}
	return output.Done("Logged out.", nil)
}

type authStatus struct {
	LoggedIn  bool       `json:"logged_in"`
	Username  string     `json:"username,omitempty"`
	APIURL    string     `json:"api_url"`
	Storage   string     `json:"storage,omitempty"`
	Source    string     `json:"source"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
	CanRenew  bool       `json:"can_refresh"`
}

func (s authStatus) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Logged in to %s", s.APIURL)
	if s.Username != "" {
		fmt.Fprintf(&b, " as %s", s.Username)
	}
	fmt.Fprintf(&b, "\n  Token source: %s", s.Source)
	if s.ExpiresAt != nil {
		state := "expires"
		if s.Expired {
			state = "expired"
		}
		fmt.Fprintf(&b, "\n  Token %s: %s", state, s.ExpiresAt.Local().Format(time.DateTime))
		if s.Expired && s.CanRenew {
			b.WriteString(output.Muted(" (will be refreshed on next use)"))
		}
	}
	return b.String()
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, path, settings, err := loadSettings()
	if err != nil {
		return err
	}
	st := authStatus{APIURL: apiBaseURL(cfg, settings), Username: cfg.Username}

	var token string
	switch {
	case settings.Token != "":
		st.Source = "TAIGA_TOKEN"
		token = settings.Token
	default:
		st.Source = cfg.TokenStorage
		st.Storage = cfg.TokenStorage
		tokens, err := credentials.New(path).Load()
		if err != nil {
			return exitcode.Wrap("config_error", exitcode.ConfigError, err)
		}
		token = tokens.Auth
		st.CanRenew = tokens.Refresh != ""
	}

	if token == "" {
		return auth.ErrNotLoggedIn
	}
	st.LoggedIn = true
	if exp, ok := auth.Expiry(token); ok {
		st.ExpiresAt = &exp
		st.Expired = auth.Expired(token, time.Now())
	}
	return output.Result(st, st.String())
}
