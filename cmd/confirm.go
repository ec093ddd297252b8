package cmd

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/protocollar/taiga/internal/exitcode"
	"github.com/protocollar/taiga/internal/output"
)

func interactive() bool {
	return !output.Structured() && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// confirm asks a yes/no question. Without a terminal it fails so scripts
// have to pass --yes.
func confirm(title string) (bool, error) {
	if !interactive() {
		return false, exitcode.New("interactive_only", exitcode.InteractiveOnly, "confirmation requires a terminal; pass --yes")
	}
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
