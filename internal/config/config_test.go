package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if *c != (Config{}) {
		t.Fatalf("expected empty config, got %+v", c)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	c := &Config{
		APIBaseURL:     "https://tree.taiga.io/api/v1",
		RefreshToken:   "r",
		Username:       "ana",
		DefaultProject: 12,
		TokenStorage:   StorageKeyring,
	}
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("config mode = %v, want owner-only", perm)
	}
	if _, err := os.Stat(path + ".lock"); !os.IsNotExist(err) {
		t.Errorf("lock file left behind")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *c {
		t.Errorf("loaded %+v, want %+v", loaded, c)
	}
}

func TestLoadAcceptsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
  // self-hosted instance
  "api_base_url": "http://localhost:9000/api/v1",
  "default_project": 3,
}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.APIBaseURL != "http://localhost:9000/api/v1" || c.DefaultProject != 3 {
		t.Errorf("got %+v", c)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"default_project": "x"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestUpdateAndClearAuth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if _, err := Update(path, func(c *Config) {
		c.APIBaseURL = "https://example.com/api/v1"
		c.AuthToken = "tok"
		c.Username = "ana"
		c.DefaultProject = 4
	}); err != nil {
		t.Fatal(err)
	}
	c, err := Update(path, func(c *Config) { c.ClearAuth() })
	if err != nil {
		t.Fatal(err)
	}
	if c.AuthToken != "" || c.Username != "" {
		t.Errorf("auth not cleared: %+v", c)
	}
	if c.APIBaseURL != "https://example.com/api/v1" || c.DefaultProject != 4 {
		t.Errorf("settings lost: %+v", c)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/custom.json")
	p, err := DefaultPath()
	if err != nil || p != "/tmp/custom.json" {
		t.Errorf("DefaultPath = %q, %v", p, err)
	}

	home := t.TempDir()
	t.Setenv(EnvPath, "")
	t.Setenv("HOME", home)
	p, err = DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".taiga", "config.json"); p != want {
		t.Errorf("DefaultPath = %q, want %q", p, want)
	}
}

func TestWatchReportsSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, func(c *Config) { got <- c }) }()

	// Give the watcher time to register before writing.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case c := <-got:
			if c.AuthToken != "fresh" {
				t.Fatalf("reloaded %+v", c)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Watch: %v", err)
			}
			return
		case <-tick.C:
			if err := (&Config{AuthToken: "fresh"}).Save(path); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}
