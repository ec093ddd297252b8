package cmd

const skillMDTemplate = `---
name: {{.Name}}
description: Manage Taiga projects, user stories, tasks, issues, epics, sprints and wiki pages with the taiga CLI. Use when the user asks about Taiga work items or wants to create, update or comment on them.
---

# {{.Name}}

The taiga CLI wraps the Taiga REST API. Always pass --json so output can be
parsed; add --jq '<expr>' to trim large responses.

## Before you start

~~~sh
taiga auth status --json        # exit 3 means nobody is logged in
taiga config show --json        # api_base_url and default_project
~~~

If not logged in, ask the user to run "taiga auth login" themselves. Never ask
for their password.

Most commands take -p <projectId>. When the user has set a default project
with "taiga config set-project <id>", -p can be omitted.

## Reading

~~~sh
taiga project list --json
taiga userstory list -p 42 --json
taiga task list -p 42 -u 7 --json          # tasks of user story #7
taiga issue get 15 -p 42 --json             # items are addressed by #ref
taiga epic related-stories 3 --json
taiga milestone list -p 42 --json
taiga wiki list -p 42 --json
taiga search 42 "login bug" --json
taiga status all -p 42 --json               # names usable with -s/-y/-r/-v
~~~

## Writing

~~~sh
taiga issue create -p 42 -t "Crash on save" -y Bug -r High -v Critical --json
taiga task edit 8 -p 42 -s "In progress" -a alice --json
taiga userstory comment 7 -p 42 -m "Ready for review" --json
taiga userstory attach 7 -p 42 'screenshots/*.png' --json
~~~

Status, type, priority and severity accept either a numeric id or a name.
Assignees accept a numeric id or a username. Deleting requires --yes.

## Exit codes

| Code | Meaning |
|------|---------|
| 0 | success |
| 1 | API or unexpected error |
| 2 | not found |
| 3 | not authenticated |
| 4 | already exists |
| 5 | invalid input (unknown status name, bad ref) |
| 6 | needs an interactive terminal |
| 8 | configuration error |

Errors in --json mode go to stderr as {"error": "...", "code": "...", "exit_code": N}.

## MCP alternative

"taiga mcp serve" exposes the same operations as MCP tools over stdio.
`
