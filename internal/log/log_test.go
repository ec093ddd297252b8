package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantLevel  string
		wantFormat Format
		wantSource bool
	}{
		{"defaults", nil, "warn", FormatText, false},
		{"debug flag", map[string]string{"TAIGA_DEBUG": "1"}, "debug", FormatText, true},
		{"debug wins over level", map[string]string{"TAIGA_DEBUG": "true", "TAIGA_LOG_LEVEL": "error"}, "debug", FormatText, true},
		{"taiga level over generic", map[string]string{"TAIGA_LOG_LEVEL": "INFO", "LOG_LEVEL": "error"}, "info", FormatText, false},
		{"generic level", map[string]string{"LOG_LEVEL": "error"}, "error", FormatText, false},
		{"json format", map[string]string{"LOG_FORMAT": "JSON"}, "warn", FormatJSON, false},
		{"source", map[string]string{"LOG_SOURCE": "1"}, "warn", FormatText, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"TAIGA_DEBUG", "TAIGA_LOG_LEVEL", "LOG_LEVEL", "LOG_FORMAT", "LOG_SOURCE"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := FromEnv()
			if cfg.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", cfg.Level, tt.wantLevel)
			}
			if cfg.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", cfg.Format, tt.wantFormat)
			}
			if cfg.AddSource != tt.wantSource {
				t.Errorf("AddSource = %v, want %v", cfg.AddSource, tt.wantSource)
			}
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})
	logger.Debug("hidden")
	logger.Info("shown", "project", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["msg"] != "shown" || rec["project"] != float64(7) {
		t.Errorf("record = %v", rec)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&Config{Level: "debug", Format: FormatText, Output: &buf}).Debug("request", "method", "GET")
	if !strings.Contains(buf.String(), "method=GET") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelWarn,
		"":      slog.LevelWarn,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
