package opener

import (
	"strings"
	"testing"
)

func TestWebBase(t *testing.T) {
	tests := map[string]string{
		"https://api.taiga.io/api/v1":       "https://tree.taiga.io",
		"https://taiga.example.com/api/v1/": "https://taiga.example.com",
		"http://localhost:9000/api/v1":      "http://localhost:9000",
		"https://example.com/taiga/API/V1":  "https://example.com/taiga",
	}
	for in, want := range tests {
		if got := WebBase(in); got != want {
			t.Errorf("WebBase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestItemURL(t *testing.T) {
	got := ItemURL("https://api.taiga.io/api/v1", "ana-alpha", UserStory, 42)
	if got != "https://tree.taiga.io/project/ana-alpha/us/42" {
		t.Errorf("ItemURL = %q", got)
	}
	got = ItemURL("http://localhost:9000/api/v1", "alpha", Wiki, "home")
	if got != "http://localhost:9000/project/alpha/wiki/home" {
		t.Errorf("ItemURL = %q", got)
	}
	if got := ProjectURL("http://localhost:9000/api/v1", "alpha"); got != "http://localhost:9000/project/alpha" {
		t.Errorf("ProjectURL = %q", got)
	}
}

func TestCommand(t *testing.T) {
	tests := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "cmd",
	}
	for goos, want := range tests {
		cmd, err := command(goos, "https://x")
		if err != nil {
			t.Fatalf("%s: %v", goos, err)
		}
		if !strings.HasSuffix(cmd.Args[0], want) {
			t.Errorf("%s: launcher = %v", goos, cmd.Args)
		}
		if cmd.Args[len(cmd.Args)-1] != "https://x" {
			t.Errorf("%s: url not last arg: %v", goos, cmd.Args)
		}
	}
	if _, err := command("plan9", "https://x"); err == nil {
		t.Error("expected unsupported platform error")
	}
}
