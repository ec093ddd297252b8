package cmd

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server for AI agent integration",
	Long: `MCP server for AI agent integration.

taiga includes a Model Context Protocol (MCP) server that lets AI agents read
and edit a Taiga instance.

SETUP

  Claude Code:

    claude mcp add taiga -- taiga mcp serve

  Manual .mcp.json (Claude Desktop, Windsurf, Cursor, etc.):

    {
      "mcpServers": {
        "taiga": {
          "command": "taiga",
          "args": ["mcp", "serve"],
          "env": {
            "TAIGA_API_URL": "https://taiga.example.com",
            "TAIGA_USERNAME": "alice",
            "TAIGA_PASSWORD": "..."
          }
        }
      }
    }

AUTHENTICATION

  TAIGA_TOKEN               use this token as is
  TAIGA_USERNAME/PASSWORD   log in at startup and again when the token expires
  (neither)                 use the login saved by 'taiga auth login'; the
                            config file is watched, so logging in again in
                            another shell takes effect without a restart

AVAILABLE TOOLS

  ListProjects, GetProject
  ListEpics, GetEpic, CreateEpic, EditEpic
  ListIssues, GetIssue, CreateIssue, EditIssue
  ListTasks, GetTask, CreateTask, EditTask
  ListUserStories, GetUserStory, CreateUserStory, EditUserStory
  ListMilestones, GetMilestone, GetMilestoneStats, GetMilestoneUserStories
  ListWikiPages, GetWikiPage, GetWikiHistory, GetWikiComments
  GetCurrentUser, GetUser, ListUsers, GetUserStats
  SearchProject, GetAvailableStatus, GetComments, AddComment

Work items are addressed by project id and #ref. Statuses, types, priorities,
severities and milestones are given by name, assignees by username.`,
}
