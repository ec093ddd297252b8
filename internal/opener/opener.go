// Package opener builds Taiga web UI links and opens them in a browser.
package opener

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Item kinds as they appear in web UI paths.
const (
	Epic      = "epic"
	Issue     = "issue"
	Task      = "task"
	UserStory = "us"
	Wiki      = "wiki"
)

// WebBase derives the web UI origin from an API base URL. The public cloud
// serves its API from api.taiga.io and its UI from tree.taiga.io.
func WebBase(apiBase string) string {
	s := strings.TrimRight(apiBase, "/")
	if i := strings.Index(strings.ToLower(s), "/api/v1"); i >= 0 {
		s = s[:i]
	}
	return strings.Replace(s, "://api.taiga.io", "://tree.taiga.io", 1)
}

// ProjectURL is the project's landing page.
func ProjectURL(apiBase, slug string) string {
	return fmt.Sprintf("%s/project/%s", WebBase(apiBase), slug)
}

// ItemURL links to an item by kind and #ref. Wiki pages use their slug.
func ItemURL(apiBase, projectSlug, kind string, ref any) string {
	return fmt.Sprintf("%s/project/%s/%s/%v", WebBase(apiBase), projectSlug, kind, ref)
}

// command returns the platform's URL launcher.
func command(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", url), nil
	default:
		return nil, fmt.Errorf("unsupported platform %s", goos)
	}
}

// Open starts the default browser on url without waiting for it.
func Open(url string) error {
	cmd, err := command(runtime.GOOS, url)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
