package resolve

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protocollar/taiga/internal/taiga"
)

type fakeTaiga struct {
	hits atomic.Int32
}

func (f *fakeTaiga) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	var body any
	switch r.URL.Path {
	case "/api/v1/issue-statuses":
		body = []taiga.Status{
			{ID: 10, Name: "New", Slug: "new"},
			{ID: 11, Name: "In progress", Slug: "in-progress"},
			{ID: 12, Name: "Ready for test", Slug: "ready-for-test"},
		}
	case "/api/v1/priorities":
		body = []taiga.Status{{ID: 1, Name: "Low"}, {ID: 2, Name: "High"}}
	case "/api/v1/users":
		body = []taiga.User{
			{ID: 5, Username: "ana", FullName: "Ana Lima", Email: "ana@example.com"},
			{ID: 6, Username: "bo", FullName: "Bo Chen", Email: "bo@example.com"},
		}
	case "/api/v1/userstories/by_ref":
		if r.URL.Query().Get("ref") != "3" {
			http.NotFound(w, r)
			return
		}
		body = taiga.UserStory{ID: 300, Ref: 3}
	case "/api/v1/epics/by_ref":
		body = taiga.Epic{ID: 70, Ref: 1}
	case "/api/v1/milestones":
		body = []taiga.Milestone{{ID: 9, Name: "Sprint 4", Slug: "sprint-4"}}
	default:
		http.NotFound(w, r)
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

func newResolver(t *testing.T) (*Resolver, *fakeTaiga) {
	t.Helper()
	f := &fakeTaiga{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	c, err := taiga.New(taiga.Config{BaseURL: srv.URL, Tokens: taiga.StaticToken("t")})
	require.NoError(t, err)
	return New(c), f
}

func TestStatusID(t *testing.T) {
	r, _ := newResolver(t)
	ctx := context.Background()

	tests := []struct {
		in   string
		want int
	}{
		{"New", 10},
		{"in progress", 11},
		{"  READY FOR TEST ", 12},
		{"ready-for-test", 12},
	}
	for _, tt := range tests {
		got, err := r.StatusID(ctx, taiga.IssueStatus, 3, tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStatusIDNumericSkipsLookup(t *testing.T) {
	r, f := newResolver(t)
	got, err := r.StatusID(context.Background(), taiga.IssueStatus, 3, "42")
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Zero(t, f.hits.Load())
}

func TestStatusIDNotFound(t *testing.T) {
	r, _ := newResolver(t)
	_, err := r.StatusID(context.Background(), taiga.IssueStatus, 3, "Blocked")
	require.Error(t, err)
	assert.Equal(t, `status "Blocked" not found for project 3 (available: New, In progress, Ready for test)`, err.Error())

	_, err = r.StatusID(context.Background(), taiga.Priority, 3, "Urgent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `priority "Urgent" not found`)
}

func TestUserID(t *testing.T) {
	r, _ := newResolver(t)
	ctx := context.Background()
	for in, want := range map[string]int{
		"ana":             5,
		"@bo":             6,
		"Bo Chen":         6,
		"ANA@example.com": 5,
		"77":              77,
	} {
		got, err := r.UserID(ctx, 3, in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := r.UserID(ctx, 3, "zed")
	assert.EqualError(t, err, `user "zed" is not a member of project 3`)
}

func TestRefs(t *testing.T) {
	r, _ := newResolver(t)
	ctx := context.Background()

	id, err := r.UserStoryID(ctx, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 300, id)

	_, err = r.UserStoryID(ctx, 3, 99)
	require.Error(t, err)
	assert.True(t, taiga.IsNotFound(err))

	id, err = r.EpicID(ctx, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 70, id)
}

func TestMilestoneID(t *testing.T) {
	r, _ := newResolver(t)
	id, err := r.MilestoneID(context.Background(), 3, "sprint 4")
	require.NoError(t, err)
	assert.Equal(t, 9, id)

	_, err = r.MilestoneID(context.Background(), 3, "Sprint 5")
	assert.Error(t, err)
}

func TestStatusesKeepsOrder(t *testing.T) {
	r, _ := newResolver(t)
	lists, err := r.Statuses(context.Background(), 3, taiga.Priority, taiga.IssueStatus)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "Low", lists[0][0].Name)
	assert.Equal(t, "New", lists[1][0].Name)
}

func TestStatusesFailsFast(t *testing.T) {
	r, _ := newResolver(t)
	_, err := r.Statuses(context.Background(), 3, taiga.Priority, taiga.Severity)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing severities")
}

func TestTags(t *testing.T) {
	assert.Equal(t, []string{"ui", "auth", "v2"}, Tags(" ui, auth ,,v2,"))
	assert.Nil(t, Tags(""))
	assert.Nil(t, Tags(" , "))
}
