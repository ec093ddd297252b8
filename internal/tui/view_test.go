package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer subject", 8, "a longe…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestScrollWindow(t *testing.T) {
	tests := []struct {
		name                  string
		cursor, total, height int
		start, end            int
	}{
		{"fits", 2, 5, 10, 0, 5},
		{"top", 0, 50, 10, 0, 10},
		{"middle", 25, 50, 10, 20, 30},
		{"bottom", 49, 50, 10, 40, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := scrollWindow(tt.cursor, tt.total, tt.height)
			if start != tt.start || end != tt.end {
				t.Errorf("scrollWindow = (%d, %d), want (%d, %d)", start, end, tt.start, tt.end)
			}
		})
	}
}

func TestPanelWidth(t *testing.T) {
	out := renderTitledPanel("Projects", "row one\nrow two", 40)
	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w != 40 {
			t.Errorf("line %d width = %d, want 40: %q", i, w, line)
		}
	}
}

func TestViewFillsHeight(t *testing.T) {
	m := seedProjectModel()
	m.height = 30
	if got := strings.Count(m.View(), "\n"); got < 30 {
		t.Errorf("view has %d lines, want at least 30", got)
	}
}

func TestProjectListView(t *testing.T) {
	m := seedProjectModel()
	m.width = 100
	v := m.View()
	for _, want := range []string{"Projects (3)", "Alpha", "Bravo", "Charlie", "taiga"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestEmptyProjectList(t *testing.T) {
	m := seedProjectModel()
	m.projects = nil
	if !strings.Contains(m.View(), "No projects found.") {
		t.Error("empty list message missing")
	}
}

func TestItemListView(t *testing.T) {
	m := seedItemModel()
	m.width = 120
	v := m.View()
	for _, want := range []string{"Alpha", "User Stories (3)", "Issues (1)", "#10", "Login page", "@ann", "In progress"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = updateModel(m, keyRune('c'))
	if !strings.Contains(m.View(), "open only") {
		t.Error("title should mark the closed filter")
	}

	m = updateModel(m, keyTab(), keyTab())
	if !strings.Contains(m.View(), "No tasks found.") {
		t.Error("empty tab message missing")
	}
}

func TestDetailView(t *testing.T) {
	m := seedItemModel()
	m.width = 100
	m = updateModel(m, keyRune('j'), keyRune('j'), keyEnter())
	v := m.View()
	for _, want := range []string{"#12", "Password reset", "Subject:"} {
		if !strings.Contains(v, want) {
			t.Errorf("detail view missing %q", want)
		}
	}
}

func TestHelpView(t *testing.T) {
	m := seedProjectModel()
	m = updateModel(m, keyRune('?'))
	v := m.View()
	if !strings.Contains(v, "Keybindings") || !strings.Contains(v, "Hide or show closed items") {
		t.Error("help view incomplete")
	}
}

func TestKindLabels(t *testing.T) {
	want := map[kind]string{
		kindUserStories: "us",
		kindIssues:      "issue",
		kindTasks:       "task",
		kindEpics:       "epic",
	}
	for k, w := range want {
		if got := k.web(); got != w {
			t.Errorf("%s.web() = %q, want %q", k, got, w)
		}
	}
}
