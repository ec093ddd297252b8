// Package mcp constructs the Taiga MCP server and serves it over stdio.
package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
)

const instructions = `Tools for a Taiga project-management instance.
Epics, user stories, tasks and issues are addressed by their per-project
reference number (ref) together with the numeric project id. Statuses,
types, priorities and severities are given by name; call GetAvailableStatus
to see the names a project accepts. Assignees are given by username.`

// NewServer creates the taiga MCP server. Tools are registered by the caller.
func NewServer(version string) *server.MCPServer {
	return server.NewMCPServer(
		"taiga",
		version,
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
		server.WithRecovery(),
	)
}

// Serve runs s on stdin/stdout until ctx is cancelled or stdin closes.
// Transport errors are logged through slog at error level.
func Serve(ctx context.Context, s *server.MCPServer) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError))
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}
