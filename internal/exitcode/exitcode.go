package exitcode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/protocollar/taiga/internal/taiga"
)

const (
	Success          = 0
	GeneralError     = 1
	NotFound         = 2
	NotAuthenticated = 3
	AlreadyExists    = 4
	InvalidInput     = 5
	InteractiveOnly  = 6
	ConfigError      = 8
)

// ExitError wraps an error with a semantic exit code and machine-readable code string.
type ExitError struct {
	Err      error
	ExitCode int
	Code     string
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// New creates an ExitError with the given code, exit code, and message.
func New(code string, exitCode int, msg string) *ExitError {
	return &ExitError{
		Err:      errors.New(msg),
		ExitCode: exitCode,
		Code:     code,
	}
}

// Wrap creates an ExitError wrapping an existing error.
func Wrap(code string, exitCode int, err error) *ExitError {
	return &ExitError{
		Err:      err,
		ExitCode: exitCode,
		Code:     code,
	}
}

// Invalid is shorthand for an invalid_input error.
func Invalid(format string, args ...any) *ExitError {
	return Wrap("invalid_input", InvalidInput, fmt.Errorf(format, args...))
}

// ClassifyError returns (code, exitCode) for err. Explicit ExitErrors win,
// then Taiga API statuses, then message patterns.
func ClassifyError(err error) (string, int) {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code, ee.ExitCode
	}

	var apiErr *taiga.APIError
	switch {
	case errors.Is(err, taiga.ErrNoToken):
		return "not_authenticated", NotAuthenticated
	case errors.As(err, &apiErr):
		switch {
		case taiga.IsNotFound(err):
			return "not_found", NotFound
		case taiga.IsUnauthorized(err):
			return "not_authenticated", NotAuthenticated
		case apiErr.StatusCode == 400:
			return "invalid_input", InvalidInput
		default:
			return "api_error", GeneralError
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"), strings.Contains(msg, "is not a member of"):
		return "not_found", NotFound
	case strings.Contains(msg, "cannot be used with --json"), strings.Contains(msg, "requires a terminal"):
		return "interactive_only", InteractiveOnly
	case strings.Contains(msg, "parsing config"), strings.Contains(msg, "reading config"):
		return "config_error", ConfigError
	case strings.Contains(msg, "invalid reference"), strings.Contains(msg, "invalid argument"):
		return "invalid_input", InvalidInput
	default:
		return "error", GeneralError
	}
}
