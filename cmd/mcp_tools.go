package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/protocollar/taiga/internal/resolve"
	"github.com/protocollar/taiga/internal/taiga"
)

// mcpText returns s as MCP text content.
func mcpText(s string) (*mcp.CallToolResult, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(s)},
	}, nil
}

// mcpError returns an MCP error result.
func mcpError(msg string) (*mcp.CallToolResult, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(msg)},
		IsError: true,
	}, nil
}

// mcpFailure logs err and reports it as "Error <doing>: <message>".
func mcpFailure(doing string, err error) (*mcp.CallToolResult, error) {
	slog.Error("tool call failed", "action", doing, "error", err)
	return mcpError(fmt.Sprintf("Error %s: %s", doing, err))
}

// argInt reads an integer argument. JSON numbers arrive as float64; numeric
// strings and "#42" references are accepted as well.
func argInt(req mcp.CallToolRequest, name string) (int, bool, error) {
	v, ok := req.GetArguments()[name]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, true, fmt.Errorf("%s must be an integer", name)
		}
		return int(n), true, nil
	case int:
		return n, true, nil
	case string:
		s := strings.TrimPrefix(strings.TrimSpace(n), "#")
		if s == "" {
			return 0, false, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, true, fmt.Errorf("%s must be a number, got %q", name, n)
		}
		return i, true, nil
	}
	return 0, true, fmt.Errorf("%s must be a number", name)
}

// requireInt is argInt for mandatory arguments.
func requireInt(req mcp.CallToolRequest, name string) (int, error) {
	n, ok, err := argInt(req, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("missing required argument %q", name)
	}
	return n, nil
}

// argString reads a string argument and whether the caller sent it.
func argString(req mcp.CallToolRequest, name string) (*string, bool) {
	v, ok := req.GetArguments()[name]
	if !ok || v == nil {
		return nil, false
	}
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	default:
		s = fmt.Sprint(x)
	}
	return &s, true
}

// foundText renders a non-empty list the way every list tool does.
func foundText[T fmt.Stringer](items []T, label string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s:\n\n", len(items), label)
	for _, it := range items {
		b.WriteString(it.String())
		b.WriteString("\n\n")
	}
	return b.String()
}

// sectionText renders a titled block of entries, one per line.
func sectionText[T fmt.Stringer](title string, items []T) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for _, it := range items {
		b.WriteString(it.String())
		b.WriteString("\n")
	}
	return b.String()
}

var readOnlyHints = []mcp.ToolOption{
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithDestructiveHintAnnotation(false),
}

func readOnlyTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append(opts, readOnlyHints...)...)
}

func writeTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append(opts,
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
	)...)
}

// mcpTools holds what the tool handlers share: one client and its name
// resolver. The resolver fetches vocabularies and members on every call.
type mcpTools struct {
	c *taiga.Client
	r *resolve.Resolver
}

// mcpItem adapts a work item kind to the MCP tool set.
type mcpItem[T item] struct {
	kind       itemKind[T]
	tool       string // name suffix, "UserStory"
	tools      string // plural suffix, "UserStories"
	title      string // "User Story"
	count      string // "user story/stories"
	epicFilter bool
	// emptyByProject names the project in the empty-list message.
	emptyByProject bool
}

var (
	mcpEpics = mcpItem[taiga.Epic]{kind: epicKind, tool: "Epic", tools: "Epics", title: "Epic", count: "epic(s)"}

	mcpIssues = mcpItem[taiga.Issue]{kind: issueKind, tool: "Issue", tools: "Issues", title: "Issue", count: "issue(s)"}

	mcpTasks = mcpItem[taiga.Task]{kind: taskKind, tool: "Task", tools: "Tasks", title: "Task", count: "task(s)"}

	mcpUserStories = mcpItem[taiga.UserStory]{
		kind:           userStoryKind,
		tool:           "UserStory",
		tools:          "UserStories",
		title:          "User Story",
		count:          "user story/stories",
		epicFilter:     true,
		emptyByProject: true,
	}
)

func registerMCPTools(s *server.MCPServer, c *taiga.Client) {
	t := &mcpTools{c: c, r: resolve.New(c)}

	s.AddTool(
		readOnlyTool("ListProjects", mcp.WithDescription("List all projects")),
		t.listProjects,
	)
	s.AddTool(
		readOnlyTool("GetProject",
			mcp.WithDescription("Get project by ID"),
			mcp.WithNumber("id", mcp.Description("Project ID"), mcp.Required()),
		),
		t.getProject,
	)

	registerItemTools(s, t, mcpEpics)
	registerItemTools(s, t, mcpIssues)
	registerItemTools(s, t, mcpTasks)
	registerItemTools(s, t, mcpUserStories)

	s.AddTool(
		readOnlyTool("ListMilestones",
			mcp.WithDescription("List milestones (optionally filtered by project)"),
			mcp.WithNumber("project", mcp.Description("Project ID to filter by")),
		),
		t.listMilestones,
	)
	s.AddTool(
		readOnlyTool("GetMilestone",
			mcp.WithDescription("Get milestone by ID"),
			mcp.WithNumber("id", mcp.Description("Milestone ID"), mcp.Required()),
		),
		t.getMilestone,
	)
	s.AddTool(
		readOnlyTool("GetMilestoneStats",
			mcp.WithDescription("Get milestone statistics"),
			mcp.WithNumber("id", mcp.Description("Milestone ID"), mcp.Required()),
		),
		t.getMilestoneStats,
	)
	s.AddTool(
		readOnlyTool("GetMilestoneUserStories",
			mcp.WithDescription("Get milestone user stories"),
			mcp.WithNumber("id", mcp.Description("Milestone ID"), mcp.Required()),
		),
		t.getMilestoneUserStories,
	)

	s.AddTool(
		readOnlyTool("ListWikiPages",
			mcp.WithDescription("List wiki pages for a project"),
			mcp.WithNumber("project", mcp.Description("Project ID"), mcp.Required()),
		),
		t.listWikiPages,
	)
	s.AddTool(
		readOnlyTool("GetWikiPage",
			mcp.WithDescription("Get wiki page by ID"),
			mcp.WithNumber("id", mcp.Description("Wiki Page ID"), mcp.Required()),
		),
		t.getWikiPage,
	)
	s.AddTool(
		readOnlyTool("GetWikiHistory",
			mcp.WithDescription("Get wiki page history"),
			mcp.WithNumber("id", mcp.Description("Wiki Page ID"), mcp.Required()),
		),
		t.getWikiHistory,
	)
	s.AddTool(
		readOnlyTool("GetWikiComments",
			mcp.WithDescription("Get wiki page comments"),
			mcp.WithNumber("id", mcp.Description("Wiki Page ID"), mcp.Required()),
		),
		t.getWikiComments,
	)

	s.AddTool(
		readOnlyTool("GetCurrentUser", mcp.WithDescription("Get current user information")),
		t.getCurrentUser,
	)
	s.AddTool(
		readOnlyTool("GetUser",
			mcp.WithDescription("Get user by ID"),
			mcp.WithNumber("id", mcp.Description("User ID"), mcp.Required()),
		),
		t.getUser,
	)
	s.AddTool(
		readOnlyTool("ListUsers",
			mcp.WithDescription("List users (optionally filtered by project)"),
			mcp.WithNumber("project", mcp.Description("Project ID to filter by")),
		),
		t.listUsers,
	)
	s.AddTool(
		readOnlyTool("GetUserStats",
			mcp.WithDescription("Get user statistics"),
			mcp.WithNumber("id", mcp.Description("User ID"), mcp.Required()),
		),
		t.getUserStats,
	)

	s.AddTool(
		readOnlyTool("GetProjectTimeline",
			mcp.WithDescription("Get project timeline"),
			mcp.WithNumber("project", mcp.Description("Project ID"), mcp.Required()),
		),
		t.getProjectTimeline,
	)
	s.AddTool(
		readOnlyTool("GetProfileTimeline",
			mcp.WithDescription("Get your own timeline in a project"),
			mcp.WithNumber("project", mcp.Description("Project ID"), mcp.Required()),
		),
		t.getProfileTimeline,
	)
	s.AddTool(
		readOnlyTool("GetUserTimeline",
			mcp.WithDescription("Get user timeline"),
			mcp.WithNumber("project", mcp.Description("Project ID"), mcp.Required()),
			mcp.WithNumber("user", mcp.Description("User ID"), mcp.Required()),
		),
		t.getUserTimeline,
	)

	s.AddTool(
		readOnlyTool("ListWebhooks",
			mcp.WithDescription("List webhooks (optionally filtered by project)"),
			mcp.WithNumber("project", mcp.Description("Project ID to filter by")),
		),
		t.listWebhooks,
	)
	s.AddTool(
		readOnlyTool("GetWebhook",
			mcp.WithDescription("Get webhook by ID"),
			mcp.WithNumber("id", mcp.Description("Webhook ID"), mcp.Required()),
		),
		t.getWebhook,
	)
	s.AddTool(
		readOnlyTool("GetWebhookLogs",
			mcp.WithDescription("Get webhook delivery logs"),
			mcp.WithNumber("id", mcp.Description("Webhook ID"), mcp.Required()),
		),
		t.getWebhookLogs,
	)

	s.AddTool(
		readOnlyTool("SearchProject",
			mcp.WithDescription("Search within a project"),
			mcp.WithNumber("project", mcp.Description("Project ID"), mcp.Required()),
			mcp.WithString("text", mcp.Description("Search text"), mcp.Required()),
		),
		t.searchProject,
	)
	s.AddTool(
		readOnlyTool("GetAvailableStatus",
			mcp.WithDescription("Get the status, type, priority and severity names a project accepts"),
			mcp.WithNumber("project", mcp.Description("Project ID"), mcp.Required()),
		),
		t.getAvailableStatus,
	)

	kinds := mcp.Enum(commentKindNames()...)
	s.AddTool(
		readOnlyTool("GetComments",
			mcp.WithDescription("List the comments on an epic, issue, task or user story"),
			mcp.WithString("kind", mcp.Description("Item kind"), kinds, mcp.Required()),
			mcp.WithNumber("ref", mcp.Description("Item reference number (#ref)"), mcp.Required()),
			mcp.WithNumber("project", mcp.Description("Project ID"), mcp.Required()),
		),
		t.getComments,
	)
	s.AddTool(
		writeTool("AddComment",
			mcp.WithDescription("Comment on an epic, issue, task or user story"),
			mcp.WithString("kind", mcp.Description("Item kind"), kinds, mcp.Required()),
			mcp.WithNumber("ref", mcp.Description("Item reference number (#ref)"), mcp.Required()),
			mcp.WithNumber("project", mcp.Description("Project ID"), mcp.Required()),
			mcp.WithString("comment", mcp.Description("Comment text (supports markdown)"), mcp.Required()),
		),
		t.addComment,
	)
}

// registerItemTools adds List/Get/Create/Edit tools for one item kind.
func registerItemTools[T item](s *server.MCPServer, t *mcpTools, m mcpItem[T]) {
	k := m.kind

	listOpts := []mcp.ToolOption{
		mcp.WithDescription(fmt.Sprintf("List %s (optionally filtered by project)", k.plural)),
		mcp.WithNumber("project", mcp.Description("Project ID to filter by")),
	}
	if m.epicFilter {
		listOpts = append(listOpts, mcp.WithNumber("epic", mcp.Description("Epic reference number to filter by (requires project)")))
	}
	if k.has(fieldUserStory) {
		listOpts = append(listOpts, mcp.WithNumber("userStory", mcp.Description("User story reference number to filter by (requires project)")))
	}
	if k.has(fieldMilestone) {
		listOpts = append(listOpts, mcp.WithString("milestone", mcp.Description("Milestone name or ID to filter by")))
	}
	s.AddTool(readOnlyTool("List"+m.tools, listOpts...), m.list(t))

	s.AddTool(
		readOnlyTool("Get"+m.tool,
			mcp.WithDescription(fmt.Sprintf("Get %s by reference number", k.noun)),
			mcp.WithNumber("ref", mcp.Description(m.title+" reference number (#ref)"), mcp.Required()),
			mcp.WithNumber("project", mcp.Description("Project ID"), mcp.Required()),
		),
		m.get(t),
	)

	createOpts := []mcp.ToolOption{
		mcp.WithDescription("Create a new " + k.noun),
		mcp.WithNumber("project", mcp.Description("Project ID"), mcp.Required()),
		mcp.WithString("subject", mcp.Description("Subject/title"), mcp.Required()),
	}
	s.AddTool(writeTool("Create"+m.tool, append(createOpts, m.fieldOptions()...)...), m.create(t))

	editOpts := []mcp.ToolOption{
		mcp.WithDescription(fmt.Sprintf("Edit %s by reference number", indefinite(k.noun))),
		mcp.WithNumber("ref", mcp.Description(m.title+" reference number (#ref)"), mcp.Required()),
		mcp.WithNumber("project", mcp.Description("Project ID"), mcp.Required()),
		mcp.WithString("subject", mcp.Description("Subject/title")),
	}
	s.AddTool(writeTool("Edit"+m.tool, append(editOpts, m.fieldOptions()...)...), m.edit(t))
}

func indefinite(noun string) string {
	switch noun[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an " + noun
	}
	return "a " + noun
}

// fieldOptions declares the optional create/edit arguments of the kind.
func (m mcpItem[T]) fieldOptions() []mcp.ToolOption {
	k := m.kind
	opts := []mcp.ToolOption{
		mcp.WithString("description", mcp.Description("Description (supports markdown)")),
		mcp.WithString("status", mcp.Description(`Status name (e.g. "New", "In progress")`)),
		mcp.WithString("tags", mcp.Description("Tags (comma-separated)")),
		mcp.WithString("assignedTo", mcp.Description("Assigned username (empty to unassign)")),
	}
	if k.has(fieldType) {
		opts = append(opts, mcp.WithString("type", mcp.Description(`Issue type name (e.g. "Bug", "Enhancement", "Question")`)))
	}
	if k.has(fieldPriority) {
		opts = append(opts, mcp.WithString("priority", mcp.Description(`Priority name (e.g. "Low", "Normal", "High")`)))
	}
	if k.has(fieldSeverity) {
		opts = append(opts, mcp.WithString("severity", mcp.Description(`Severity name (e.g. "Minor", "Normal", "Critical")`)))
	}
	if k.has(fieldUserStory) {
		opts = append(opts, mcp.WithNumber("userStory", mcp.Description("User story reference number")))
	}
	if k.has(fieldMilestone) {
		opts = append(opts, mcp.WithString("milestone", mcp.Description("Milestone name or ID (empty to remove)")))
	}
	return opts
}

// input collects the field arguments the caller sent.
func (m mcpItem[T]) input(req mcp.CallToolRequest) (itemInput, error) {
	k := m.kind
	// Agents send "" for optional arguments they mean to leave alone.
	str := func(name string) *string {
		v, _ := argString(req, name)
		if v == nil || strings.TrimSpace(*v) == "" {
			return nil
		}
		return v
	}
	// assignedTo and milestone treat "" as "clear the field".
	raw := func(name string) *string {
		v, _ := argString(req, name)
		return v
	}
	in := itemInput{
		subject:     str("subject"),
		description: str("description"),
		tags:        str("tags"),
		status:      str("status"),
		assignee:    raw("assignedTo"),
	}
	if k.has(fieldType) {
		in.issueType = str("type")
	}
	if k.has(fieldPriority) {
		in.priority = str("priority")
	}
	if k.has(fieldSeverity) {
		in.severity = str("severity")
	}
	if k.has(fieldMilestone) {
		in.milestone = raw("milestone")
	}
	if k.has(fieldUserStory) {
		ref, ok, err := argInt(req, "userStory")
		if err != nil {
			return itemInput{}, err
		}
		if ok {
			in.userStory = &ref
		}
	}
	return in, nil
}

func (m mcpItem[T]) list(t *mcpTools) server.ToolHandlerFunc {
	k := m.kind
	doing := "fetching " + k.plural
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, _, err := argInt(req, "project")
		if err != nil {
			return mcpError(err.Error())
		}
		opts := taiga.ListOptions{Project: project}

		if m.epicFilter {
			ref, ok, err := argInt(req, "epic")
			if err != nil {
				return mcpError(err.Error())
			}
			if ok {
				if project == 0 {
					return mcpError("Project ID must be specified when filtering by Epic ID.")
				}
				if opts.Epic, err = t.r.EpicID(ctx, project, ref); err != nil {
					return mcpFailure(doing, err)
				}
			}
		}
		if k.has(fieldUserStory) {
			ref, ok, err := argInt(req, "userStory")
			if err != nil {
				return mcpError(err.Error())
			}
			if ok {
				if project == 0 {
					return mcpError("Project ID must be specified when filtering by User Story ID.")
				}
				if opts.UserStory, err = t.r.UserStoryID(ctx, project, ref); err != nil {
					return mcpFailure(doing, err)
				}
			}
		}
		if k.has(fieldMilestone) {
			if name, ok := argString(req, "milestone"); ok && strings.TrimSpace(*name) != "" {
				if opts.Milestone, err = t.r.MilestoneID(ctx, project, *name); err != nil {
					return mcpFailure(doing, err)
				}
			}
		}

		slog.Info("listing items", "kind", k.noun, "project", project)
		items, err := k.api(t.c).List(ctx, opts)
		if err != nil {
			return mcpFailure(doing, err)
		}
		if len(items) == 0 {
			if m.emptyByProject && project > 0 {
				return mcpText(fmt.Sprintf("No %s found for project %d.", k.plural, project))
			}
			return mcpText(fmt.Sprintf("No %s found.", k.plural))
		}
		return mcpText(foundText(items, m.count))
	}
}

// fetch looks an item up by project and #ref.
func (m mcpItem[T]) fetch(ctx context.Context, t *mcpTools, req mcp.CallToolRequest) (*T, error) {
	ref, err := requireInt(req, "ref")
	if err != nil {
		return nil, err
	}
	project, err := requireInt(req, "project")
	if err != nil {
		return nil, err
	}
	return m.kind.api(t.c).ByRef(ctx, project, ref)
}

func (m mcpItem[T]) get(t *mcpTools) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		it, err := m.fetch(ctx, t, req)
		if err != nil {
			return mcpFailure("fetching "+m.kind.noun, err)
		}
		return mcpText(m.title + " Details:\n" + (*it).String())
	}
}

func (m mcpItem[T]) create(t *mcpTools) server.ToolHandlerFunc {
	k := m.kind
	doing := "creating " + k.noun
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := requireInt(req, "project")
		if err != nil {
			return mcpError(err.Error())
		}
		subject, ok := argString(req, "subject")
		if !ok || strings.TrimSpace(*subject) == "" {
			return mcpError(`missing required argument "subject"`)
		}
		in, err := m.input(req)
		if err != nil {
			return mcpError(err.Error())
		}
		fields, err := k.resolveFields(ctx, t.r, in, project)
		if err != nil {
			return mcpFailure(doing, err)
		}
		fields["project"] = project

		slog.Info("creating item", "kind", k.noun, "project", project)
		it, err := k.api(t.c).Create(ctx, fields)
		if err != nil {
			return mcpFailure(doing, err)
		}
		return mcpText(fmt.Sprintf("%s created successfully:\n%s", capitalize(k.noun), *it))
	}
}

func (m mcpItem[T]) edit(t *mcpTools) server.ToolHandlerFunc {
	k := m.kind
	doing := "updating " + k.noun
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in, err := m.input(req)
		if err != nil {
			return mcpError(err.Error())
		}
		it, err := m.fetch(ctx, t, req)
		if err != nil {
			return mcpFailure(doing, err)
		}
		key := (*it).Key()
		fields, err := k.resolveFields(ctx, t.r, in, key.Project)
		if err != nil {
			return mcpFailure(doing, err)
		}
		if len(fields) == 0 {
			return mcpText(noFieldsMessage)
		}
		fields["version"] = key.Version

		slog.Info("updating item", "kind", k.noun, "id", key.ID, "ref", key.Ref)
		updated, err := k.api(t.c).Update(ctx, key.ID, fields)
		if err != nil {
			return mcpFailure(doing, err)
		}
		return mcpText(fmt.Sprintf("%s updated successfully:\n%s", capitalize(k.noun), *updated))
	}
}

func (t *mcpTools) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := t.c.Projects.List(ctx)
	if err != nil {
		return mcpFailure("fetching projects", err)
	}
	if len(projects) == 0 {
		return mcpText("No projects found.")
	}
	return mcpText(foundText(projects, "project(s)"))
}

func (t *mcpTools) getProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireInt(req, "id")
	if err != nil {
		return mcpError(err.Error())
	}
	p, err := t.c.Projects.Get(ctx, id)
	if err != nil {
		return mcpFailure("fetching project", err)
	}
	return mcpText("Project Details:\n" + p.String())
}

func (t *mcpTools) listMilestones(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, _, err := argInt(req, "project")
	if err != nil {
		return mcpError(err.Error())
	}
	milestones, err := t.c.Milestones.List(ctx, project)
	if err != nil {
		return mcpFailure("fetching milestones", err)
	}
	if len(milestones) == 0 {
		return mcpText("No milestones found.")
	}
	return mcpText(foundText(milestones, "milestone(s)"))
}

func (t *mcpTools) getMilestone(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireInt(req, "id")
	if err != nil {
		return mcpError(err.Error())
	}
	ms, err := t.c.Milestones.Get(ctx, id)
	if err != nil {
		return mcpFailure("fetching milestone", err)
	}
	return mcpText("Milestone Details:\n" + ms.String())
}

func (t *mcpTools) getMilestoneStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireInt(req, "id")
	if err != nil {
		return mcpError(err.Error())
	}
	stats, err := t.c.Milestones.Stats(ctx, id)
	if err != nil {
		return mcpFailure("fetching milestone statistics", err)
	}
	return mcpText(fmt.Sprintf("Milestone Statistics (ID: %d):\n%s", id, taiga.FormatMap(stats)))
}

func (t *mcpTools) getMilestoneUserStories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireInt(req, "id")
	if err != nil {
		return mcpError(err.Error())
	}
	stories, err := t.c.Milestones.UserStories(ctx, id)
	if err != nil {
		return mcpFailure("fetching milestone user stories", err)
	}
	return mcpText(sectionText(fmt.Sprintf("Milestone User Stories (ID: %d):", id), stories))
}

func (t *mcpTools) listWikiPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := requireInt(req, "project")
	if err != nil {
		return mcpError(err.Error())
	}
	pages, err := t.c.Wiki.ListByProject(ctx, project)
	if err != nil {
		return mcpFailure("fetching wiki pages", err)
	}
	if len(pages) == 0 {
		return mcpText(fmt.Sprintf("No wiki pages found for project %d.", project))
	}
	return mcpText(foundText(pages, "wiki page(s)"))
}

func (t *mcpTools) getWikiPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireInt(req, "id")
	if err != nil {
		return mcpError(err.Error())
	}
	page, err := t.c.Wiki.Get(ctx, id)
	if err != nil {
		return mcpFailure("fetching wiki page", err)
	}
	return mcpText("Wiki Page Details:\n" + page.String())
}

func (t *mcpTools) getWikiHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireInt(req, "id")
	if err != nil {
		return mcpError(err.Error())
	}
	entries, err := t.c.Wiki.History(ctx, id)
	if err != nil {
		return mcpFailure("fetching history", err)
	}
	return mcpText(sectionText(fmt.Sprintf("Wiki Page History (ID: %d):", id), entries))
}

func (t *mcpTools) getWikiComments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireInt(req, "id")
	if err != nil {
		return mcpError(err.Error())
	}
	comments, err := t.c.Wiki.Comments(ctx, id)
	if err != nil {
		return mcpFailure("fetching comments", err)
	}
	return mcpText(sectionText(fmt.Sprintf("Wiki Page Comments (ID: %d):", id), comments))
}

func (t *mcpTools) getCurrentUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	me, err := t.c.Users.Me(ctx)
	if err != nil {
		return mcpFailure("fetching current user", err)
	}
	return mcpText("Current User:\n" + me.String())
}

func (t *mcpTools) getUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireInt(req, "id")
	if err != nil {
		return mcpError(err.Error())
	}
	u, err := t.c.Users.Get(ctx, id)
	if err != nil {
		return mcpFailure("fetching user", err)
	}
	return mcpText("User Details:\n" + u.String())
}

func (t *mcpTools) listUsers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, _, err := argInt(req, "project")
	if err != nil {
		return mcpError(err.Error())
	}
	users, err := t.c.Users.List(ctx, project)
	if err != nil {
		return mcpFailure("fetching users", err)
	}
	if len(users) == 0 {
		return mcpText("No users found.")
	}
	return mcpText(foundText(users, "user(s)"))
}

func (t *mcpTools) getUserStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireInt(req, "id")
	if err != nil {
		return mcpError(err.Error())
	}
	stats, err := t.c.Users.Stats(ctx, id)
	if err != nil {
		return mcpFailure("fetching user statistics", err)
	}
	return mcpText(fmt.Sprintf("User Statistics (ID: %d):\n%s", id, taiga.FormatMap(stats)))
}

func (t *mcpTools) getProjectTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := requireInt(req, "project")
	if err != nil {
		return mcpError(err.Error())
	}
	entries, err := t.c.Timeline.Project(ctx, project)
	if err != nil {
		return mcpFailure("fetching timeline", err)
	}
	return mcpText(sectionText(fmt.Sprintf("Project Timeline (Project ID: %d):", project), entries))
}

func (t *mcpTools) getProfileTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := requireInt(req, "project")
	if err != nil {
		return mcpError(err.Error())
	}
	entries, err := t.c.Timeline.Profile(ctx, project)
	if err != nil {
		return mcpFailure("fetching timeline", err)
	}
	return mcpText(sectionText(fmt.Sprintf("Profile Timeline (Project ID: %d):", project), entries))
}

func (t *mcpTools) getUserTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := requireInt(req, "project")
	if err != nil {
		return mcpError(err.Error())
	}
	user, err := requireInt(req, "user")
	if err != nil {
		return mcpError(err.Error())
	}
	entries, err := t.c.Timeline.User(ctx, project, user)
	if err != nil {
		return mcpFailure("fetching timeline", err)
	}
	return mcpText(sectionText(fmt.Sprintf("User Timeline (Project ID: %d, User ID: %d):", project, user), entries))
}

func (t *mcpTools) listWebhooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, _, err := argInt(req, "project")
	if err != nil {
		return mcpError(err.Error())
	}
	hooks, err := t.c.Webhooks.List(ctx, project)
	if err != nil {
		return mcpFailure("fetching webhooks", err)
	}
	if len(hooks) == 0 {
		return mcpText("No webhooks found.")
	}
	return mcpText(foundText(hooks, "webhook(s)"))
}

func (t *mcpTools) getWebhook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireInt(req, "id")
	if err != nil {
		return mcpError(err.Error())
	}
	w, err := t.c.Webhooks.Get(ctx, id)
	if err != nil {
		return mcpFailure("fetching webhook", err)
	}
	return mcpText("Webhook Details:\n" + w.String())
}

func (t *mcpTools) getWebhookLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireInt(req, "id")
	if err != nil {
		return mcpError(err.Error())
	}
	logs, err := t.c.Webhooks.Logs(ctx, id)
	if err != nil {
		return mcpFailure("fetching webhook logs", err)
	}
	return mcpText(sectionText(fmt.Sprintf("Webhook Logs (ID: %d):", id), logs))
}

func (t *mcpTools) searchProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := requireInt(req, "project")
	if err != nil {
		return mcpError(err.Error())
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcpError(err.Error())
	}
	res, err := t.c.Search(ctx, project, text)
	if err != nil {
		return mcpFailure("performing search", err)
	}
	return mcpText(fmt.Sprintf("%d Search Results in Project %d for '%s':\n%s", res.Count, project, text, res))
}

func (t *mcpTools) getAvailableStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := requireInt(req, "project")
	if err != nil {
		return mcpError(err.Error())
	}
	lists, err := t.r.Statuses(ctx, project, taiga.StatusKinds...)
	if err != nil {
		return mcpFailure("fetching statuses", err)
	}
	var b strings.Builder
	for i, kind := range taiga.StatusKinds {
		names := make([]string, len(lists[i]))
		for j, s := range lists[i] {
			names[j] = s.Name
		}
		fmt.Fprintf(&b, "Available %s:\n%s\n", kind.Label(), strings.Join(names, ", "))
	}
	return mcpText(b.String())
}

// commentTarget is the part of an item kind the comment tools need.
type commentTarget struct {
	noun     string
	byRef    func(ctx context.Context, project, ref int) (taiga.ItemKey, error)
	comments func(ctx context.Context, id int) ([]taiga.Comment, error)
	add      func(ctx context.Context, id int, text string) (*taiga.Comment, error)
}

func commentTargetFor[T item](k itemKind[T], c *taiga.Client) commentTarget {
	api := k.api(c)
	return commentTarget{
		noun: k.noun,
		byRef: func(ctx context.Context, project, ref int) (taiga.ItemKey, error) {
			it, err := api.ByRef(ctx, project, ref)
			if err != nil {
				return taiga.ItemKey{}, err
			}
			return (*it).Key(), nil
		},
		comments: api.Comments,
		add:      api.AddComment,
	}
}

func commentKindNames() []string {
	return []string{"epic", "issue", "task", "userstory"}
}

func (t *mcpTools) commentTarget(kind string) (commentTarget, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(kind), " ", "")) {
	case "epic":
		return commentTargetFor(epicKind, t.c), nil
	case "issue":
		return commentTargetFor(issueKind, t.c), nil
	case "task":
		return commentTargetFor(taskKind, t.c), nil
	case "userstory", "story":
		return commentTargetFor(userStoryKind, t.c), nil
	}
	return commentTarget{}, fmt.Errorf("unknown kind %q (want one of: %s)", kind, strings.Join(commentKindNames(), ", "))
}

// commentSubject resolves the kind/project/ref arguments to an item.
func (t *mcpTools) commentSubject(ctx context.Context, req mcp.CallToolRequest) (commentTarget, taiga.ItemKey, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return commentTarget{}, taiga.ItemKey{}, err
	}
	target, err := t.commentTarget(kind)
	if err != nil {
		return commentTarget{}, taiga.ItemKey{}, err
	}
	ref, err := requireInt(req, "ref")
	if err != nil {
		return commentTarget{}, taiga.ItemKey{}, err
	}
	project, err := requireInt(req, "project")
	if err != nil {
		return commentTarget{}, taiga.ItemKey{}, err
	}
	key, err := target.byRef(ctx, project, ref)
	return target, key, err
}

func (t *mcpTools) getComments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, key, err := t.commentSubject(ctx, req)
	if err != nil {
		return mcpFailure("fetching comments", err)
	}
	comments, err := target.comments(ctx, key.ID)
	if err != nil {
		return mcpFailure("fetching comments", err)
	}
	if len(comments) == 0 {
		return mcpText(fmt.Sprintf("No comments found on %s #%d.", target.noun, key.Ref))
	}
	return mcpText(sectionText(fmt.Sprintf("Comments on %s #%d:", target.noun, key.Ref), comments))
}

func (t *mcpTools) addComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("comment")
	if err != nil || strings.TrimSpace(text) == "" {
		return mcpError(`missing required argument "comment"`)
	}
	target, key, err := t.commentSubject(ctx, req)
	if err != nil {
		return mcpFailure("adding comment", err)
	}
	c, err := target.add(ctx, key.ID, text)
	if err != nil {
		return mcpFailure("adding comment", err)
	}
	return mcpText(fmt.Sprintf("Comment added to %s #%d:\n%s", target.noun, key.Ref, c))
}
