package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/exitcode"
	"github.com/protocollar/taiga/internal/output"
)

var (
	skillName    string
	skillClaude  bool
	skillCodex   bool
	skillPath    string
	skillGlobal  bool
	skillProject bool
	skillForce   bool
)

func init() {
	skillInstallCmd.Flags().StringVar(&skillName, "name", "taiga", "skill directory name and frontmatter name")
	skillInstallCmd.Flags().BoolVar(&skillClaude, "claude", false, "install to Claude Code skills directory")
	skillInstallCmd.Flags().BoolVar(&skillCodex, "codex", false, "install to OpenAI Codex skills directory")
	skillInstallCmd.Flags().StringVar(&skillPath, "path", "", "explicit parent directory for the skill")
	skillInstallCmd.Flags().BoolVar(&skillGlobal, "global", false, "install to home directory (default)")
	skillInstallCmd.Flags().BoolVar(&skillProject, "project", false, "install to current working directory")
	skillInstallCmd.Flags().BoolVar(&skillForce, "force", false, "overwrite existing SKILL.md")

	skillInstallCmd.MarkFlagsMutuallyExclusive("claude", "codex", "path")
	skillInstallCmd.MarkFlagsMutuallyExclusive("global", "project")

	skillCmd.AddCommand(skillInstallCmd)
	rootCmd.AddCommand(skillCmd)
}

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Agent skill for AI integration",
	Long: `Agent skill for CLI-based AI integration.

A skill is a markdown file that tells an AI agent how to drive a CLI. The agent
reads it and runs taiga commands with --json, parsing the structured output.

  CLI mode (skill):   the agent runs taiga commands with --json
  Server mode (MCP):  the agent talks to "taiga mcp serve" over stdio

Use a skill when the agent can run shell commands, MCP when it speaks the
Model Context Protocol.`,
}

var skillInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the taiga agent skill",
	Long: `Generate and install a SKILL.md file that teaches AI agents how to use taiga.

By default it goes to the global Claude skills directory
(~/.claude/skills/taiga/SKILL.md).`,
	Example: `  taiga skill install                          # Claude, global (default)
  taiga skill install --codex                  # Codex, global
  taiga skill install --claude --project       # Claude, current directory
  taiga skill install --path ./custom          # Explicit directory
  taiga skill install --name my-taiga --force  # Custom name, overwrite`,
	Args: cobra.NoArgs,
	RunE: runSkillInstall,
}

var skillNameRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

func validateSkillName(name string) error {
	if name == "" {
		return fmt.Errorf("skill name cannot be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("skill name must be 64 characters or fewer (got %d)", len(name))
	}
	if !skillNameRegex.MatchString(name) {
		return fmt.Errorf("skill name %q is invalid: must be lowercase alphanumeric and hyphens, no leading/trailing/consecutive hyphens", name)
	}
	for i := 0; i < len(name)-1; i++ {
		if name[i] == '-' && name[i+1] == '-' {
			return fmt.Errorf("skill name %q is invalid: consecutive hyphens are not allowed", name)
		}
	}
	return nil
}

// resolveSkillPath returns the parent directory where the skill directory should
// be created. The returned path does NOT include the skill name directory.
func resolveSkillPath(path string, claude, codex, global, project bool) (string, error) {
	if path != "" {
		if global || project {
			return "", fmt.Errorf("--path cannot be used with --global or --project")
		}
		return path, nil
	}

	// Determine agent suffix
	suffix := ".claude/skills"
	if codex {
		suffix = ".agents/skills"
	}

	// Determine base directory
	var base string
	if project {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		base = cwd
	} else {
		// Default: home directory (--global or no flag)
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		base = home
	}

	return filepath.Join(base, suffix), nil
}

func runSkillInstall(cmd *cobra.Command, args []string) error {
	if err := validateSkillName(skillName); err != nil {
		return exitcode.Wrap("invalid_input", exitcode.InvalidInput, err)
	}

	parent, err := resolveSkillPath(skillPath, skillClaude, skillCodex, skillGlobal, skillProject)
	if err != nil {
		return exitcode.Wrap("invalid_input", exitcode.InvalidInput, err)
	}

	targetDir := filepath.Join(parent, skillName)
	targetFile := filepath.Join(targetDir, "SKILL.md")

	if !skillForce {
		if _, err := os.Stat(targetFile); err == nil {
			return exitcode.New("already_exists", exitcode.AlreadyExists,
				fmt.Sprintf("SKILL.md already exists at %s (use --force to overwrite)", targetFile))
		}
	}

	content, err := renderSkill(skillName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("creating skill directory: %w", err)
	}
	if err := os.WriteFile(targetFile, content, 0o644); err != nil {
		return fmt.Errorf("writing SKILL.md: %w", err)
	}

	return output.Done(fmt.Sprintf("Installed %s skill to %s", skillName, targetFile), map[string]any{
		"action": "installed",
		"path":   targetFile,
		"name":   skillName,
	})
}

var skillTemplate = template.Must(template.New("skill").Parse(skillMDTemplate))

func renderSkill(name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := skillTemplate.Execute(&buf, struct{ Name string }{Name: name}); err != nil {
		return nil, fmt.Errorf("rendering skill template: %w", err)
	}
	return buf.Bytes(), nil
}
