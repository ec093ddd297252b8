package main

import (
	"testing"

	"github.com/protocollar/taiga/cmd"
)

func TestRootCommandExists(t *testing.T) {
	root := cmd.RootCommand()
	if root == nil {
		t.Fatal("root command is nil")
	}
	if root.Use != "taiga" {
		t.Errorf("root command Use = %q, want %q", root.Use, "taiga")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	root := cmd.RootCommand()
	want := map[string][]string{
		"auth":         {"login", "logout", "status"},
		"mcp":          {"serve"},
		"skill":        {"install"},
		"project":      {"list", "get <id>"},
		"timeline":     {"project <projectId>", "profile <projectId>", "user <projectId> <userId>"},
		"notification": {"list", "unread", "read <id>", "read-all"},
	}
	top := make(map[string]bool)
	for _, c := range root.Commands() {
		top[c.Name()] = true
		subs, ok := want[c.Name()]
		if !ok {
			continue
		}
		have := make(map[string]bool)
		for _, sub := range c.Commands() {
			have[sub.Use] = true
		}
		for _, s := range subs {
			if !have[s] {
				t.Errorf("%s command missing %q subcommand", c.Name(), s)
			}
		}
	}
	for _, name := range []string{"epic", "issue", "task", "userstory", "milestone", "webhook", "wiki", "user", "search", "status", "config", "browse", "completion"} {
		if !top[name] {
			t.Errorf("root command missing %q subcommand", name)
		}
	}
	for name := range want {
		if !top[name] {
			t.Errorf("root command missing %q subcommand", name)
		}
	}
}
