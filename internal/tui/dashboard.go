// Package tui is the interactive project browser behind "taiga browse".
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/protocollar/taiga/internal/taiga"
)

// Options configures the browser.
type Options struct {
	// Project opens this project directly when non-zero.
	Project int
	// APIBase is used to derive web UI links.
	APIBase string
}

// Run starts the browser on the alternate screen and blocks until the user
// quits.
func Run(ctx context.Context, c *taiga.Client, opts Options) error {
	m := newModel(ctx, clientSource{c: c}, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
