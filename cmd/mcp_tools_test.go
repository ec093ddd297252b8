package cmd

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/protocollar/taiga/internal/resolve"
	"github.com/protocollar/taiga/internal/taiga"
)

// fakeTaiga serves the handful of endpoints the tool handlers touch.
type fakeTaiga struct {
	mu       sync.Mutex
	patched  map[string]any
	comments []map[string]any
	requests []string // "METHOD /path?query"
}

// requested reports whether a request starting with prefix was served.
func (f *fakeTaiga) requested(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			return true
		}
	}
	return false
}

func (f *fakeTaiga) patchedFields() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.patched
}

func (f *fakeTaiga) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.RequestURI())
	f.mu.Unlock()
	write := func(v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	statuses := map[string][]map[string]any{
		"/api/v1/severities":         {{"id": 1, "name": "Minor"}, {"id": 2, "name": "Critical"}},
		"/api/v1/priorities":         {{"id": 3, "name": "Low"}, {"id": 4, "name": "High"}},
		"/api/v1/issue-statuses":     {{"id": 5, "name": "New", "slug": "new"}, {"id": 6, "name": "In progress", "slug": "in-progress"}},
		"/api/v1/issue-types":        {{"id": 7, "name": "Bug"}},
		"/api/v1/task-statuses":      {{"id": 8, "name": "Ready"}},
		"/api/v1/userstory-statuses": {{"id": 9, "name": "Draft"}},
		"/api/v1/epic-statuses":      {{"id": 10, "name": "Planned"}},
	}
	if list, ok := statuses[r.URL.Path]; ok {
		write(list)
		return
	}

	switch {
	case r.URL.Path == "/api/v1/issues/by_ref":
		if q := r.URL.Query(); q.Get("ref") != "15" || q.Get("project") != "42" {
			http.Error(w, `{"_error_message":"No Issue matches the given query."}`, http.StatusNotFound)
			return
		}
		write(map[string]any{"id": 150, "ref": 15, "version": 3, "project": 42, "subject": "Crash on save", "status": 5})
	case r.URL.Path == "/api/v1/issues/150" && r.Method == http.MethodPatch:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.patched = body
		f.mu.Unlock()
		write(map[string]any{"id": 150, "ref": 15, "version": 4, "project": 42, "subject": "Crash on save", "status": 6})
	case r.URL.Path == "/api/v1/issues/150" && r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	case r.URL.Path == "/api/v1/issues" && r.Method == http.MethodGet:
		write([]map[string]any{{"id": 150, "ref": 15, "version": 3, "project": 42, "subject": "Crash on save", "status": 5}})
	case r.URL.Path == "/api/v1/issues/150/comments" && r.Method == http.MethodGet:
		f.mu.Lock()
		defer f.mu.Unlock()
		write(f.comments)
	case r.URL.Path == "/api/v1/issues/150/comments" && r.Method == http.MethodPost:
		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(data, &body)
		c := map[string]any{"id": 900, "comment": body["comment"], "created_date": "2026-03-01T10:00:00Z"}
		f.mu.Lock()
		f.comments = append(f.comments, c)
		f.mu.Unlock()
		write(c)
	case r.URL.Path == "/api/v1/projects":
		write([]map[string]any{})
	case r.URL.Path == "/api/v1/timeline/42/user/7":
		write([]map[string]any{{"id": 1, "event_type": "issues.issue.create", "created": "2026-03-01T10:00:00Z", "project": 42}})
	case r.URL.Path == "/api/v1/webhooks":
		if r.URL.Query().Get("project") != "42" {
			write([]map[string]any{})
			return
		}
		write([]map[string]any{{"id": 3, "name": "CI", "url": "https://ci.example.com/hook", "project": 42, "active": true}})
	case r.URL.Path == "/api/v1/webhooks/3/logs":
		write([]map[string]any{{"id": 11, "webhook": 3, "status": 200, "duration": 0.25, "created": "2026-03-01T10:00:00Z"}})
	default:
		http.NotFound(w, r)
	}
}

func newMCPTestTools(t *testing.T) (*mcpTools, *fakeTaiga) {
	t.Helper()
	fake := &fakeTaiga{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := taiga.New(taiga.Config{BaseURL: srv.URL, Tokens: taiga.StaticToken("t")})
	if err != nil {
		t.Fatal(err)
	}
	return &mcpTools{c: c, r: resolve.New(c)}, fake
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(res.Content))
	}
	tc, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatal("expected TextContent")
	}
	return tc.Text
}

func TestMcpText(t *testing.T) {
	res, err := mcpText("hello")
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Error("IsError should be false")
	}
	if got := resultText(t, res); got != "hello" {
		t.Errorf("text = %q", got)
	}
}

func TestMcpError(t *testing.T) {
	res, err := mcpError("something went wrong")
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("IsError should be true")
	}
	if got := resultText(t, res); got != "something went wrong" {
		t.Errorf("text = %q", got)
	}
}

func TestMcpFailure(t *testing.T) {
	res, _ := mcpFailure("fetching issue", io.ErrUnexpectedEOF)
	if !res.IsError {
		t.Error("IsError should be true")
	}
	if got := resultText(t, res); got != "Error fetching issue: unexpected EOF" {
		t.Errorf("text = %q", got)
	}
}

func TestArgInt(t *testing.T) {
	tests := []struct {
		name    string
		v       any
		want    int
		ok      bool
		wantErr bool
	}{
		{"json number", float64(42), 42, true, false},
		{"int", 7, 7, true, false},
		{"numeric string", "12", 12, true, false},
		{"ref string", "#42", 42, true, false},
		{"blank string", "  ", 0, false, false},
		{"fraction", 1.5, 0, true, true},
		{"word", "forty", 0, true, true},
		{"bool", true, 0, true, true},
		{"null", nil, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := argInt(callRequest(map[string]any{"ref": tt.v}), "ref")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want || ok != tt.ok {
				t.Errorf("argInt = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRequireIntMissing(t *testing.T) {
	_, err := requireInt(callRequest(map[string]any{}), "project")
	if err == nil || err.Error() != `missing required argument "project"` {
		t.Errorf("err = %v", err)
	}
}

func TestArgString(t *testing.T) {
	req := callRequest(map[string]any{"name": "x", "n": float64(3), "empty": ""})
	if s, ok := argString(req, "name"); !ok || *s != "x" {
		t.Errorf("name = %v, %v", s, ok)
	}
	if s, ok := argString(req, "n"); !ok || *s != "3" {
		t.Errorf("n = %v, %v", s, ok)
	}
	if s, ok := argString(req, "empty"); !ok || *s != "" {
		t.Error("an empty string is still sent")
	}
	if _, ok := argString(req, "missing"); ok {
		t.Error("missing argument reported as sent")
	}
}

func TestRegisterMCPTools(t *testing.T) {
	s := server.NewMCPServer("test", "0.0.0")
	c, err := taiga.New(taiga.Config{BaseURL: "http://127.0.0.1:1", Tokens: taiga.StaticToken("t")})
	if err != nil {
		t.Fatal(err)
	}
	registerMCPTools(s, c)

	tools := s.ListTools()
	if len(tools) != 40 {
		t.Errorf("registered %d tools, want 40", len(tools))
	}
	for _, name := range []string{
		"ListProjects", "GetProject", "ListUserStories", "CreateIssue", "EditTask",
		"GetEpic", "ListMilestones", "GetWikiPage", "SearchProject",
		"GetAvailableStatus", "GetComments", "AddComment",
		"GetProjectTimeline", "GetProfileTimeline", "GetUserTimeline",
		"ListWebhooks", "GetWebhook", "GetWebhookLogs",
	} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %s not registered", name)
		}
	}

	readOnly := tools["ListProjects"].Tool.Annotations.ReadOnlyHint
	if readOnly == nil || !*readOnly {
		t.Error("ListProjects should be read-only")
	}
	for _, name := range []string{"GetUserTimeline", "ListWebhooks", "GetWebhookLogs"} {
		if hint := tools[name].Tool.Annotations.ReadOnlyHint; hint == nil || !*hint {
			t.Errorf("%s should be read-only", name)
		}
	}
	write := tools["CreateIssue"].Tool.Annotations.ReadOnlyHint
	if write == nil || *write {
		t.Error("CreateIssue should not be read-only")
	}
}

func TestListRequiresProjectForParentFilter(t *testing.T) {
	tools, _ := newMCPTestTools(t)
	ctx := context.Background()

	res, _ := mcpUserStories.list(tools)(ctx, callRequest(map[string]any{"epic": float64(3)}))
	if !res.IsError || resultText(t, res) != "Project ID must be specified when filtering by Epic ID." {
		t.Errorf("epic filter: %v", res.Content)
	}

	res, _ = mcpTasks.list(tools)(ctx, callRequest(map[string]any{"userStory": float64(3)}))
	if !res.IsError || resultText(t, res) != "Project ID must be specified when filtering by User Story ID." {
		t.Errorf("user story filter: %v", res.Content)
	}
}

func TestListProjectsEmpty(t *testing.T) {
	tools, _ := newMCPTestTools(t)
	res, _ := tools.listProjects(context.Background(), callRequest(nil))
	if got := resultText(t, res); res.IsError || got != "No projects found." {
		t.Errorf("result = %q", got)
	}
}

func TestEditWithoutFields(t *testing.T) {
	tools, fake := newMCPTestTools(t)
	res, _ := mcpIssues.edit(tools)(context.Background(), callRequest(map[string]any{"ref": float64(15), "project": float64(42)}))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	if got := resultText(t, res); got != noFieldsMessage {
		t.Errorf("text = %q", got)
	}
	if fake.patchedFields() != nil {
		t.Error("nothing should be sent without fields")
	}
}

func TestEditIgnoresBlankArguments(t *testing.T) {
	tools, fake := newMCPTestTools(t)
	res, _ := mcpIssues.edit(tools)(context.Background(), callRequest(map[string]any{
		"ref":         float64(15),
		"project":     float64(42),
		"subject":     " ",
		"description": "",
		"status":      "",
		"type":        "",
		"priority":    "",
		"severity":    "  ",
		"tags":        "",
	}))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	if got := resultText(t, res); got != noFieldsMessage {
		t.Errorf("text = %q, want %q", got, noFieldsMessage)
	}
	if fake.patchedFields() != nil {
		t.Error("blank arguments should not be sent")
	}
}

func TestEditBlankAssigneeUnassigns(t *testing.T) {
	tools, fake := newMCPTestTools(t)
	res, _ := mcpIssues.edit(tools)(context.Background(), callRequest(map[string]any{
		"ref": float64(15), "project": float64(42), "assignedTo": "", "status": "",
	}))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	patched := fake.patchedFields()
	if v, ok := patched["assigned_to"]; !ok || v != nil {
		t.Errorf("assigned_to = %v (sent %v), want null", v, ok)
	}
	if _, ok := patched["status"]; ok {
		t.Error("blank status should not be sent")
	}
}

func TestEditResolvesNames(t *testing.T) {
	tools, fake := newMCPTestTools(t)
	res, _ := mcpIssues.edit(tools)(context.Background(), callRequest(map[string]any{
		"ref":      "#15",
		"project":  float64(42),
		"status":   "in progress",
		"priority": "High",
		"tags":     "ui, crash,",
	}))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	if !strings.HasPrefix(resultText(t, res), "Issue updated successfully:") {
		t.Errorf("text = %q", resultText(t, res))
	}

	patched := fake.patchedFields()
	want := map[string]any{"status": float64(6), "priority": float64(4), "version": float64(3)}
	for k, v := range want {
		if patched[k] != v {
			t.Errorf("patched[%s] = %v, want %v", k, patched[k], v)
		}
	}
	tags, _ := patched["tags"].([]any)
	if len(tags) != 2 || tags[0] != "ui" || tags[1] != "crash" {
		t.Errorf("tags = %v", patched["tags"])
	}
}

func TestEditUnknownStatus(t *testing.T) {
	tools, fake := newMCPTestTools(t)
	res, _ := mcpIssues.edit(tools)(context.Background(), callRequest(map[string]any{
		"ref": float64(15), "project": float64(42), "status": "Bogus",
	}))
	if !res.IsError {
		t.Fatal("expected an error result")
	}
	text := resultText(t, res)
	if !strings.HasPrefix(text, "Error updating issue:") || !strings.Contains(text, "New, In progress") {
		t.Errorf("text = %q", text)
	}
	if fake.patchedFields() != nil {
		t.Error("nothing should be sent for an unknown status")
	}
}

func TestGetNotFound(t *testing.T) {
	tools, _ := newMCPTestTools(t)
	res, _ := mcpIssues.get(tools)(context.Background(), callRequest(map[string]any{"ref": float64(99), "project": float64(42)}))
	if !res.IsError {
		t.Fatal("expected an error result")
	}
	if text := resultText(t, res); !strings.HasPrefix(text, "Error fetching issue:") {
		t.Errorf("text = %q", text)
	}
}

func TestGetAvailableStatus(t *testing.T) {
	tools, _ := newMCPTestTools(t)
	res, _ := tools.getAvailableStatus(context.Background(), callRequest(map[string]any{"project": float64(42)}))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	text := resultText(t, res)
	for _, want := range []string{
		"Available Severities:\nMinor, Critical\n",
		"Available Priorities:\nLow, High\n",
		"Available Issue Statuses:\nNew, In progress\n",
		"Available Issue Types:\nBug\n",
		"Available Task Statuses:\nReady\n",
		"Available User Story Statuses:\nDraft\n",
		"Available Epic Statuses:\nPlanned\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
	if strings.Index(text, "Severities") > strings.Index(text, "Priorities") {
		t.Error("severities should come first")
	}

	res, _ = tools.getAvailableStatus(context.Background(), callRequest(nil))
	if !res.IsError {
		t.Error("project is required")
	}
}

func TestComments(t *testing.T) {
	tools, _ := newMCPTestTools(t)
	ctx := context.Background()
	args := map[string]any{"kind": "Issue", "ref": float64(15), "project": float64(42)}

	res, _ := tools.getComments(ctx, callRequest(args))
	if got := resultText(t, res); got != "No comments found on issue #15." {
		t.Errorf("empty comments = %q", got)
	}

	args["comment"] = "Reproduced on 2.3"
	res, _ = tools.addComment(ctx, callRequest(args))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	if got := resultText(t, res); !strings.HasPrefix(got, "Comment added to issue #15:\n") || !strings.Contains(got, "Reproduced on 2.3") {
		t.Errorf("add = %q", got)
	}

	delete(args, "comment")
	res, _ = tools.getComments(ctx, callRequest(args))
	got := resultText(t, res)
	if !strings.HasPrefix(got, "Comments on issue #15:\n") || !strings.Contains(got, "Comment 900") {
		t.Errorf("comments = %q", got)
	}
}

func TestCommentsUnknownKind(t *testing.T) {
	tools, _ := newMCPTestTools(t)
	res, _ := tools.getComments(context.Background(), callRequest(map[string]any{"kind": "wiki", "ref": float64(1), "project": float64(42)}))
	if !res.IsError {
		t.Fatal("expected an error result")
	}
	want := `Error fetching comments: unknown kind "wiki" (want one of: epic, issue, task, userstory)`
	if got := resultText(t, res); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestAddCommentRequiresText(t *testing.T) {
	tools, _ := newMCPTestTools(t)
	res, _ := tools.addComment(context.Background(), callRequest(map[string]any{"kind": "issue", "ref": float64(15), "project": float64(42), "comment": "  "}))
	if !res.IsError || resultText(t, res) != `missing required argument "comment"` {
		t.Errorf("result = %v", res.Content)
	}
}

func TestCommentTargetAliases(t *testing.T) {
	tools, _ := newMCPTestTools(t)
	for kind, noun := range map[string]string{
		"epic": "epic", "ISSUE": "issue", "task": "task",
		"userstory": "user story", "User Story": "user story", "story": "user story",
	} {
		target, err := tools.commentTarget(kind)
		if err != nil {
			t.Errorf("commentTarget(%q) error = %v", kind, err)
			continue
		}
		if target.noun != noun {
			t.Errorf("commentTarget(%q).noun = %q, want %q", kind, target.noun, noun)
		}
	}
}

func TestIndefinite(t *testing.T) {
	if got := indefinite("epic"); got != "an epic" {
		t.Errorf("indefinite(epic) = %q", got)
	}
	if got := indefinite("task"); got != "a task" {
		t.Errorf("indefinite(task) = %q", got)
	}
}

func TestTimelineTools(t *testing.T) {
	tools, _ := newMCPTestTools(t)
	res, _ := tools.getUserTimeline(context.Background(), callRequest(map[string]any{"project": float64(42), "user": float64(7)}))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	got := resultText(t, res)
	if !strings.HasPrefix(got, "User Timeline (Project ID: 42, User ID: 7):\n") || !strings.Contains(got, "issues.issue.create") {
		t.Errorf("text = %q", got)
	}

	res, _ = tools.getUserTimeline(context.Background(), callRequest(map[string]any{"project": float64(42)}))
	if !res.IsError || resultText(t, res) != `missing required argument "user"` {
		t.Errorf("missing user: %v", res.Content)
	}

	res, _ = tools.getProjectTimeline(context.Background(), callRequest(map[string]any{"project": float64(5)}))
	if !res.IsError || !strings.HasPrefix(resultText(t, res), "Error fetching timeline:") {
		t.Errorf("unknown project: %v", res.Content)
	}
}

func TestWebhookTools(t *testing.T) {
	tools, _ := newMCPTestTools(t)
	ctx := context.Background()

	res, _ := tools.listWebhooks(ctx, callRequest(map[string]any{"project": float64(42)}))
	got := resultText(t, res)
	if !strings.HasPrefix(got, "Found 1 webhook(s):\n\n") || !strings.Contains(got, "URL: https://ci.example.com/hook") {
		t.Errorf("list = %q", got)
	}

	res, _ = tools.listWebhooks(ctx, callRequest(nil))
	if got := resultText(t, res); got != "No webhooks found." {
		t.Errorf("empty list = %q", got)
	}

	res, _ = tools.getWebhookLogs(ctx, callRequest(map[string]any{"id": float64(3)}))
	got = resultText(t, res)
	if !strings.HasPrefix(got, "Webhook Logs (ID: 3):\n") || !strings.Contains(got, "Log 11") || !strings.Contains(got, "Status: 200") {
		t.Errorf("logs = %q", got)
	}

	res, _ = tools.getWebhook(ctx, callRequest(map[string]any{"id": float64(99)}))
	if !res.IsError || !strings.HasPrefix(resultText(t, res), "Error fetching webhook:") {
		t.Errorf("missing webhook: %v", res.Content)
	}
}
