package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/protocollar/taiga/internal/taiga"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{
			name:     "api 404",
			err:      fmt.Errorf("fetching epic: %w", &taiga.APIError{StatusCode: 404}),
			wantCode: "not_found",
			wantExit: NotFound,
		},
		{
			name:     "api 401",
			err:      &taiga.APIError{StatusCode: 401},
			wantCode: "not_authenticated",
			wantExit: NotAuthenticated,
		},
		{
			name:     "api 403",
			err:      &taiga.APIError{StatusCode: 403},
			wantCode: "not_authenticated",
			wantExit: NotAuthenticated,
		},
		{
			name:     "api 400",
			err:      &taiga.APIError{StatusCode: 400},
			wantCode: "invalid_input",
			wantExit: InvalidInput,
		},
		{
			name:     "api 500",
			err:      &taiga.APIError{StatusCode: 500},
			wantCode: "api_error",
			wantExit: GeneralError,
		},
		{
			name:     "missing token",
			err:      fmt.Errorf("listing projects: %w", taiga.ErrNoToken),
			wantCode: "not_authenticated",
			wantExit: NotAuthenticated,
		},
		{
			name:     "status name not found",
			err:      fmt.Errorf(`status "Doing" not found for project 3 (available: New, Done)`),
			wantCode: "not_found",
			wantExit: NotFound,
		},
		{
			name:     "user not a member",
			err:      fmt.Errorf(`user "zed" is not a member of project 3`),
			wantCode: "not_found",
			wantExit: NotFound,
		},
		{
			name:     "interactive only",
			err:      fmt.Errorf("browse cannot be used with --json"),
			wantCode: "interactive_only",
			wantExit: InteractiveOnly,
		},
		{
			name:     "config",
			err:      fmt.Errorf("parsing config /x: bad"),
			wantCode: "config_error",
			wantExit: ConfigError,
		},
		{
			name:     "bad ref",
			err:      fmt.Errorf(`invalid reference "abc"`),
			wantCode: "invalid_input",
			wantExit: InvalidInput,
		},
		{
			name:     "generic",
			err:      fmt.Errorf("something broke"),
			wantCode: "error",
			wantExit: GeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit := ClassifyError(tt.err)
			if code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
			if exit != tt.wantExit {
				t.Errorf("exit = %d, want %d", exit, tt.wantExit)
			}
		})
	}
}

func TestExitErrorWins(t *testing.T) {
	err := fmt.Errorf("outer: %w", Wrap("custom", 9, &taiga.APIError{StatusCode: 404}))
	code, exit := ClassifyError(err)
	if code != "custom" || exit != 9 {
		t.Errorf("got (%q, %d), want (custom, 9)", code, exit)
	}
}

func TestNewAndWrap(t *testing.T) {
	e := New("invalid_input", InvalidInput, "bad flag")
	if e.Error() != "bad flag" || e.ExitCode != InvalidInput {
		t.Errorf("New = %+v", e)
	}

	inner := errors.New("boom")
	w := Wrap("api_error", GeneralError, inner)
	if !errors.Is(w, inner) {
		t.Error("Wrap should unwrap to inner error")
	}

	inv := Invalid("priority %q unknown", "urgent")
	if inv.Code != "invalid_input" || inv.Error() != `priority "urgent" unknown` {
		t.Errorf("Invalid = %+v", inv)
	}
}
