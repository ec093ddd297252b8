// Package output switches command results between human text and
// structured JSON/YAML, with optional jq filtering of the structured form.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/itchyny/gojq"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Format selects how results are written to stdout.
type Format int

const (
	Human Format = iota
	JSON
	YAML
)

var (
	format Format
	query  *gojq.Code

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	// msgOut is where human progress messages go: io.Discard in
	// structured modes, stderr when stdout is not a terminal.
	msgOut io.Writer = os.Stdout

	styled = isatty.IsTerminal(os.Stdout.Fd())

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"})
)

// Configure sets the output mode from the root flags. A jq expression
// forces JSON.
func Configure(asJSON, asYAML bool, jq string) error {
	switch {
	case jq != "":
		q, err := gojq.Parse(jq)
		if err != nil {
			return fmt.Errorf("invalid --jq expression: %w", err)
		}
		code, err := gojq.Compile(q)
		if err != nil {
			return fmt.Errorf("invalid --jq expression: %w", err)
		}
		query = code
		format = JSON
	case asJSON && asYAML:
		return fmt.Errorf("--json and --yaml cannot be combined")
	case asJSON:
		format = JSON
	case asYAML:
		format = YAML
	default:
		format = Human
	}
	switch {
	case format != Human:
		msgOut = io.Discard
	case !isatty.IsTerminal(os.Stdout.Fd()):
		msgOut = os.Stderr
	default:
		msgOut = os.Stdout
	}
	return nil
}

// Reset restores human output. Used between tests.
func Reset() {
	format = Human
	query = nil
	stdout = os.Stdout
	stderr = os.Stderr
	msgOut = os.Stdout
}

// SetStdout redirects results, typically to a buffer in tests.
func SetStdout(w io.Writer) { stdout = w }

// SetStderr redirects error documents.
func SetStderr(w io.Writer) { stderr = w }

// SetMsgOut sets the writer for human progress messages.
func SetMsgOut(w io.Writer) { msgOut = w }

// MsgOut is the writer for human progress messages. Use it instead of
// stdout for anything that must not pollute structured output.
func MsgOut() io.Writer { return msgOut }

// Structured reports whether JSON or YAML output is active.
func Structured() bool { return format != Human }

// Current returns the active format.
func Current() Format { return format }

// Result writes v in structured modes, or human otherwise.
func Result(v any, human string) error {
	if Structured() {
		return Write(v)
	}
	_, err := fmt.Fprintln(stdout, human)
	return err
}

// Item writes a single value. In human mode it is printed with %v, which
// uses its String method.
func Item(v any) error {
	return Result(v, fmt.Sprint(v))
}

// List writes items. Human mode prints "Found N <noun>(s):" followed by
// blank-line separated entries, or "No <plural> found." when empty.
func List[T any](items []T, noun, plural string) error {
	if Structured() {
		if items == nil {
			items = []T{}
		}
		return Write(items)
	}
	if len(items) == 0 {
		_, err := fmt.Fprintf(stdout, "No %s found.\n", plural)
		return err
	}
	var b strings.Builder
	b.WriteString(Heading(fmt.Sprintf("Found %d %s(s):", len(items), noun)))
	b.WriteString("\n")
	for _, it := range items {
		b.WriteString("\n")
		b.WriteString(fmt.Sprint(it))
		b.WriteString("\n")
	}
	_, err := io.WriteString(stdout, b.String())
	return err
}

// Done reports a completed action: a message for humans, {"ok":true,...}
// for machines.
func Done(msg string, fields map[string]any) error {
	if !Structured() {
		_, err := fmt.Fprintln(stdout, msg)
		return err
	}
	doc := map[string]any{"ok": true, "message": msg}
	for k, v := range fields {
		doc[k] = v
	}
	return Write(doc)
}

// Heading styles a section title when stdout is a terminal.
func Heading(s string) string {
	if !styled {
		return s
	}
	return headingStyle.Render(s)
}

// Muted styles secondary text when stdout is a terminal.
func Muted(s string) string {
	if !styled {
		return s
	}
	return mutedStyle.Render(s)
}

// Write marshals v in the active structured format, applying the jq
// filter when one is set.
func Write(v any) error {
	if format == YAML {
		generic, err := toGeneric(v)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(generic)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = stdout.Write(data)
		return err
	}
	if query != nil {
		return writeQuery(v)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}

func writeQuery(v any) error {
	generic, err := toGeneric(v)
	if err != nil {
		return err
	}
	iter := query.Run(generic)
	for {
		r, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := r.(error); isErr {
			return fmt.Errorf("--jq: %w", err)
		}
		if s, isStr := r.(string); isStr {
			if _, err := fmt.Fprintln(stdout, s); err != nil {
				return err
			}
			continue
		}
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		if _, err := fmt.Fprintln(stdout, string(data)); err != nil {
			return err
		}
	}
}

// toGeneric round-trips v through JSON so field names follow the json tags
// and gojq sees only maps, slices and scalars.
func toGeneric(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	return out, nil
}

// WriteError writes a structured JSON error to stderr.
func WriteError(code, msg string, exitCode int) {
	v := struct {
		Error    string `json:"error"`
		Code     string `json:"code"`
		ExitCode int    `json:"exit_code"`
	}{
		Error:    msg,
		Code:     code,
		ExitCode: exitCode,
	}
	data, _ := json.Marshal(v)
	fmt.Fprintln(stderr, string(data))
}
