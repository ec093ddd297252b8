package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/auth"
	"github.com/protocollar/taiga/internal/config"
	"github.com/protocollar/taiga/internal/credentials"
	"github.com/protocollar/taiga/internal/exitcode"
	"github.com/protocollar/taiga/internal/log"
	taigamcp "github.com/protocollar/taiga/internal/mcp"
	"github.com/protocollar/taiga/internal/output"
	"github.com/protocollar/taiga/internal/taiga"
)

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server on stdio",
	Args:  cobra.NoArgs,
	RunE:  runMCPServe,
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol.
	output.SetMsgOut(io.Discard)
	logCfg := log.FromEnv()
	if os.Getenv("LOG_FORMAT") == "" {
		logCfg.Format = log.FormatJSON
	}
	if flagDebug {
		logCfg.Level = "debug"
	}
	log.Setup(logCfg)

	cfg, path, settings, err := loadSettings()
	if err != nil {
		return err
	}
	hc, err := newHTTPClient(settings)
	if err != nil {
		return exitcode.Wrap("config_error", exitcode.ConfigError, err)
	}
	base := apiBaseURL(cfg, settings)
	anon, err := anonymousClient(base, hc)
	if err != nil {
		return exitcode.Invalid("%v", err)
	}

	ctx := cmd.Context()
	var tokens taiga.TokenSource
	switch {
	case settings.Token != "":
		slog.Info("using TAIGA_TOKEN")
		tokens = taiga.StaticToken(settings.Token)
	case settings.HasLogin():
		slog.Info("logging in from environment", "username", settings.Username)
		tokens = &auth.Login{Auth: anon, Username: settings.Username, Password: settings.Password}
	default:
		slog.Info("using stored login", "config", path)
		stored := &auth.Stored{Store: credentials.New(path), Auth: anon}
		tokens = stored
		go func() {
			err := config.Watch(ctx, path, func(*config.Config) {
				slog.Info("config changed, reloading credentials")
				stored.Invalidate()
			})
			if err != nil {
				slog.Warn("config watch stopped", "error", err)
			}
		}()
	}

	c, err := taiga.New(taiga.Config{BaseURL: base, Tokens: tokens, HTTPClient: hc})
	if err != nil {
		return exitcode.Invalid("%v", err)
	}

	s := taigamcp.NewServer(Version)
	registerMCPTools(s, c)
	slog.Info("serving MCP on stdio", "api", base, "version", Version)
	return taigamcp.Serve(ctx, s)
}
