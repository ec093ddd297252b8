package taiga

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, Tokens: StaticToken("tok")})
	require.NoError(t, err)
	return c
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://tree.taiga.io", "https://tree.taiga.io/api/v1"},
		{"https://tree.taiga.io/", "https://tree.taiga.io/api/v1"},
		{"https://tree.taiga.io/api", "https://tree.taiga.io/api/v1"},
		{"https://tree.taiga.io/api/", "https://tree.taiga.io/api/v1"},
		{"https://tree.taiga.io/api/v1", "https://tree.taiga.io/api/v1"},
		{"https://tree.taiga.io/API/V1/", "https://tree.taiga.io/API/V1"},
		{"  http://localhost:9000  ", "http://localhost:9000/api/v1"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeBaseURL(tt.in), "input %q", tt.in)
	}
}

func TestNewRejectsInvalidURL(t *testing.T) {
	_, err := New(Config{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestNewDefaultsBaseURL(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestRequestHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.Header.Get("x-disable-pagination"))
		assert.Equal(t, "/api/v1/projects", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":1,"name":"Alpha","slug":"alpha"}]`)
	})
	projects, err := c.Projects.List(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Alpha", projects[0].Name)
}

func TestNoTokenFailsBeforeRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()
	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Users.Me(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, called)
}

func TestByRef(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/userstories/by_ref", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("ref"))
		assert.Equal(t, "7", r.URL.Query().Get("project"))
		_, _ = io.WriteString(w, `{"id":900,"ref":42,"subject":"Login page","tags":[["ui","#fff"],["auth",null]],"due_date":"2024-03-01"}`)
	})
	us, err := c.UserStories.ByRef(context.Background(), 7, 42)
	require.NoError(t, err)
	assert.Equal(t, 900, us.ID)
	assert.Equal(t, []Tag{{Name: "ui", Color: "#fff"}, {Name: "auth"}}, us.Tags)
	assert.Equal(t, "2024-03-01", us.DueDate.String())
}

func TestListFilters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "3", q.Get("project"))
		assert.Equal(t, "11", q.Get("user_story"))
		assert.False(t, q.Has("epic"))
		_, _ = io.WriteString(w, `[]`)
	})
	tasks, err := c.Tasks.List(context.Background(), ListOptions{Project: 3, UserStory: 11})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestUpdateSendsPatchBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/issues/5", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "New subject", body["subject"])
		assert.EqualValues(t, 3, body["version"])
		_, _ = io.WriteString(w, `{"id":5,"ref":2,"subject":"New subject","version":4}`)
	})
	issue, err := c.Issues.Update(context.Background(), 5, Fields{"subject": "New subject", "version": 3})
	require.NoError(t, err)
	assert.Equal(t, 4, issue.Version)
}

func TestDeleteAcceptsEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.Epics.Delete(context.Background(), 8))
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"_error_message":"No Epic matches the given query."}`)
	})
	_, err := c.Epics.Get(context.Background(), 1)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "No Epic matches the given query.", apiErr.Message)
	assert.True(t, strings.HasPrefix(err.Error(), "API request failed: Not Found"))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
}

func TestIsUnauthorized(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		err := &APIError{StatusCode: code}
		assert.True(t, IsUnauthorized(err), "status %d", code)
	}
	assert.False(t, IsUnauthorized(errors.New("boom")))
}

func TestLoginSkipsAuthorization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		var body AuthRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, AuthRequest{Type: "normal", Username: "ana", Password: "pw"}, body)
		_, _ = io.WriteString(w, `{"id":3,"username":"ana","auth_token":"jwt","refresh":"r"}`)
	})
	resp, err := c.Login(context.Background(), "ana", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.AuthToken)
	assert.Equal(t, "r", resp.Refresh)
}

func TestLoginWithoutTokenFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	_, err := c.Login(context.Background(), "ana", "pw")
	assert.Error(t, err)
}

func TestUploadAttachment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tasks/12/attachments", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "12", r.FormValue("object_id"))
		assert.Equal(t, "4", r.FormValue("project"))
		assert.Equal(t, "meeting", r.FormValue("description"))
		f, hdr, err := r.FormFile("attached_file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "notes.txt", hdr.Filename)
		assert.Equal(t, "hello", string(data))
		_, _ = io.WriteString(w, `{"id":77,"name":"notes.txt","size":5}`)
	})
	att, err := c.Tasks.UploadAttachment(context.Background(), 12, Upload{Project: 4, Path: path, Description: "meeting"})
	require.NoError(t, err)
	assert.Equal(t, 77, att.ID)
}

func TestAddComment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/issues/9/comments", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "looks good", body["comment"])
		_, _ = io.WriteString(w, `{"id":1,"comment":"looks good"}`)
	})
	cm, err := c.Issues.AddComment(context.Background(), 9, "looks good")
	require.NoError(t, err)
	assert.Equal(t, "looks good", cm.Comment)
}

func TestWikiListRequiresProject(t *testing.T) {
	c, err := New(Config{Tokens: StaticToken("x")})
	require.NoError(t, err)
	_, err = c.Wiki.ListByProject(context.Background(), 0)
	assert.Error(t, err)
}

func TestHistoryEntryAcceptsStringAndNumericIDs(t *testing.T) {
	var entries []HistoryEntry
	data := `[{"id":"5f3c","type":1,"comment":"hi"},{"id":12,"type":2}]`
	require.NoError(t, json.Unmarshal([]byte(data), &entries))
	assert.Equal(t, FlexID("5f3c"), entries[0].ID)
	assert.Equal(t, FlexID("12"), entries[1].ID)
}

func TestParseRef(t *testing.T) {
	n, err := ParseRef("#42")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	n, err = ParseRef("7")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	for _, bad := range []string{"", "#", "abc", "-1", "0"} {
		_, err := ParseRef(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseStatusKind(t *testing.T) {
	k, err := ParseStatusKind("issue-types")
	require.NoError(t, err)
	assert.Equal(t, IssueType, k)
	assert.Equal(t, "Issue Types", k.Label())

	_, err = ParseStatusKind("colors")
	assert.Error(t, err)
}

func TestIssueString(t *testing.T) {
	issue := Issue{
		Ref:                 42,
		Subject:             "Broken login",
		Project:             3,
		ProjectExtraInfo:    &ProjectExtraInfo{Name: "Alpha"},
		Status:              8,
		StatusExtraInfo:     &StatusExtraInfo{Name: "New"},
		OwnerExtraInfo:      &UserInfo{Username: "ana", FullNameDisplay: "Ana Lima"},
		AssignedToExtraInfo: &UserInfo{Username: "bo"},
		Tags:                []Tag{{Name: "auth"}, {Name: "ui"}},
		Description:         "Steps to reproduce",
	}
	got := issue.String()
	for _, want := range []string{
		"  ID: #42",
		"  Owner: Ana Lima",
		"  Assigned To: bo",
		"  Subject: Broken login",
		"  Status: 8 - New",
		"  Tags: auth - ui",
		"  Project: 3 - Alpha",
		"  Description: \nSteps to reproduce",
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "Due Date")
}

func TestSearchResultString(t *testing.T) {
	r := SearchResult{
		Issues: []ItemRef{{Ref: 3, Subject: "Crash"}},
		Tasks:  []ItemRef{{Ref: 9, Subject: "Fix crash"}},
	}
	got := r.String()
	assert.Contains(t, got, "Issues:\n    #[3] Crash")
	assert.Contains(t, got, "Tasks:\n    #[9] Fix crash")
	assert.NotContains(t, got, "Epics")
}
