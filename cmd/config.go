package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/config"
	"github.com/protocollar/taiga/internal/exitcode"
	"github.com/protocollar/taiga/internal/output"
	"github.com/protocollar/taiga/internal/taiga"
)

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configSetURLCmd, configSetProjectCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change the CLI configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configSetURLCmd = &cobra.Command{
	Use:     "set-url <url>",
	Short:   "Set the Taiga API URL",
	Example: `  taiga config set-url https://taiga.example.com`,
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigSetURL,
}

var configSetProjectCmd = &cobra.Command{
	Use:   "set-project <id>",
	Short: "Set the project used when -p is omitted",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetProject,
}

// configView is the config as shown to users. Tokens never appear in it.
type configView struct {
	Path           string `json:"path"`
	APIURL         string `json:"api_url"`
	Username       string `json:"username,omitempty"`
	DefaultProject int    `json:"default_project,omitempty"`
	TokenStorage   string `json:"token_storage,omitempty"`
	LoggedIn       bool   `json:"logged_in"`
}

func (v configView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Config file: %s\n", v.Path)
	fmt.Fprintf(&b, "  API URL: %s\n", v.APIURL)
	if v.Username != "" {
		fmt.Fprintf(&b, "  Username: %s\n", v.Username)
	}
	if v.DefaultProject > 0 {
		fmt.Fprintf(&b, "  Default Project: %d\n", v.DefaultProject)
	} else {
		b.WriteString(output.Muted("  Default Project: (not set)") + "\n")
	}
	if v.TokenStorage != "" {
		fmt.Fprintf(&b, "  Token Storage: %s\n", v.TokenStorage)
	}
	fmt.Fprintf(&b, "  Logged In: %t", v.LoggedIn)
	return b.String()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, path, settings, err := loadSettings()
	if err != nil {
		return err
	}
	v := configView{
		Path:           path,
		APIURL:         apiBaseURL(cfg, settings),
		Username:       cfg.Username,
		DefaultProject: cfg.DefaultProject,
		TokenStorage:   cfg.TokenStorage,
		LoggedIn:       cfg.AuthToken != "" || cfg.TokenStorage == config.StorageKeyring || settings.Token != "",
	}
	if settings.Project > 0 {
		v.DefaultProject = settings.Project
	}
	return output.Result(v, v.String())
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.DefaultPath()
	if err != nil {
		return exitcode.Wrap("config_error", exitcode.ConfigError, err)
	}
	return output.Result(map[string]string{"path": path}, path)
}

func runConfigSetURL(cmd *cobra.Command, args []string) error {
	u := taiga.NormalizeBaseURL(args[0])
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return exitcode.Invalid("invalid argument %q: expected an http(s) URL", args[0])
	}
	if err := updateConfig(func(c *config.Config) { c.APIBaseURL = u }); err != nil {
		return err
	}
	return output.Done("API URL set to "+u+".", map[string]any{"api_url": u})
}

func runConfigSetProject(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := updateConfig(func(c *config.Config) { c.DefaultProject = id }); err != nil {
		return err
	}
	return output.Done(fmt.Sprintf("Default project set to %d.", id), map[string]any{"default_project": id})
}

func updateConfig(fn func(*config.Config)) error {
	path, err := config.DefaultPath()
	if err != nil {
		return exitcode.Wrap("config_error", exitcode.ConfigError, err)
	}
	if _, err := config.Update(path, fn); err != nil {
		return exitcode.Wrap("config_error", exitcode.ConfigError, err)
	}
	return nil
}
