package taiga

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Project is a Taiga project. Members holds user ids in list responses
// and user objects in detail responses, so it is decoded lazily.
type Project struct {
	ID                 int             `json:"id"`
	Name               string          `json:"name"`
	Slug               string          `json:"slug"`
	Description        string          `json:"description"`
	CreatedDate        time.Time       `json:"created_date"`
	ModifiedDate       time.Time       `json:"modified_date"`
	Owner              *UserInfo       `json:"owner,omitempty"`
	Members            json.RawMessage `json:"members,omitempty"`
	IsPrivate          bool            `json:"is_private"`
	IAmAdmin           bool            `json:"i_am_admin"`
	IAmMember          bool            `json:"i_am_member"`
	IAmOwner           bool            `json:"i_am_owner"`
	IsFan              bool            `json:"is_fan"`
	IsWatcher          bool            `json:"is_watcher"`
	IsBacklogActive    bool            `json:"is_backlog_activated"`
	IsKanbanActive     bool            `json:"is_kanban_activated"`
	IsEpicsActive      bool            `json:"is_epics_activated"`
	IsIssuesActive     bool            `json:"is_issues_activated"`
	IsWikiActive       bool            `json:"is_wiki_activated"`
	DefaultEpicStatus  int             `json:"default_epic_status"`
	DefaultUsStatus    int             `json:"default_us_status"`
	DefaultTaskStatus  int             `json:"default_task_status"`
	DefaultIssueStatus int             `json:"default_issue_status"`
	DefaultIssueType   int             `json:"default_issue_type"`
	DefaultPriority    int             `json:"default_priority"`
	DefaultSeverity    int             `json:"default_severity"`
	MyPermissions      []string        `json:"my_permissions,omitempty"`
	TotalFans          int             `json:"total_fans"`
	TotalWatchers      int             `json:"total_watchers"`
	TotalMilestones    *int            `json:"total_milestones"`
	TotalStoryPoints   *float64        `json:"total_story_points"`
}

// MemberNames returns the usernames of members when the response carried
// member objects. List responses only carry ids and yield nil.
func (p Project) MemberNames() []string {
	if len(p.Members) == 0 {
		return nil
	}
	var members []struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(p.Members, &members); err != nil {
		return nil
	}
	names := make([]string, 0, len(members))
	for _, m := range members {
		if m.Username != "" {
			names = append(names, m.Username)
		}
	}
	return names
}

// Membership ties a user to a project with a role.
type Membership struct {
	ID       int    `json:"id"`
	User     int    `json:"user"`
	Project  int    `json:"project"`
	Role     int    `json:"role"`
	RoleName string `json:"role_name,omitempty"`
	FullName string `json:"full_name,omitempty"`
	IsAdmin  bool   `json:"is_admin"`
}

// Role is a project role.
type Role struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Project    int    `json:"project"`
	Computable bool   `json:"computable"`
}

// ProjectService covers /projects.
type ProjectService struct {
	c *Client
}

func (s *ProjectService) List(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := s.c.get(ctx, "/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProjectService) Get(ctx context.Context, id int) (*Project, error) {
	var out Project
	if err := s.c.get(ctx, fmt.Sprintf("/projects/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProjectService) Create(ctx context.Context, f Fields) (*Project, error) {
	var out Project
	if err := s.c.post(ctx, "/projects", f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProjectService) Update(ctx context.Context, id int, f Fields) (*Project, error) {
	var out Project
	if err := s.c.patch(ctx, fmt.Sprintf("/projects/%d", id), f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProjectService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, fmt.Sprintf("/projects/%d", id))
}

// Stats returns the raw project statistics document.
func (s *ProjectService) Stats(ctx context.Context, id int) (map[string]any, error) {
	var out map[string]any
	if err := s.c.get(ctx, fmt.Sprintf("/projects/%d/stats", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Modules reports which modules (backlog, kanban, wiki...) are enabled.
func (s *ProjectService) Modules(ctx context.Context, id int) (map[string]any, error) {
	var out map[string]any
	if err := s.c.get(ctx, fmt.Sprintf("/projects/%d/modules", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProjectService) UpdateModules(ctx context.Context, id int, modules map[string]bool) error {
	return s.c.patch(ctx, fmt.Sprintf("/projects/%d/modules", id), modules, nil)
}

func (s *ProjectService) Memberships(ctx context.Context, id int) ([]Membership, error) {
	var out []Membership
	if err := s.c.get(ctx, fmt.Sprintf("/projects/%d/memberships", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProjectService) Membership(ctx context.Context, id, membershipID int) (*Membership, error) {
	var out Membership
	if err := s.c.get(ctx, fmt.Sprintf("/projects/%d/memberships/%d", id, membershipID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProjectService) CreateMembership(ctx context.Context, id int, f Fields) (*Membership, error) {
	var out Membership
	if err := s.c.post(ctx, fmt.Sprintf("/projects/%d/memberships", id), f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProjectService) UpdateMembership(ctx context.Context, id, membershipID int, f Fields) (*Membership, error) {
	var out Membership
	if err := s.c.patch(ctx, fmt.Sprintf("/projects/%d/memberships/%d", id, membershipID), f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProjectService) DeleteMembership(ctx context.Context, id, membershipID int) error {
	return s.c.delete(ctx, fmt.Sprintf("/projects/%d/memberships/%d", id, membershipID))
}

func (s *ProjectService) Roles(ctx context.Context, id int) ([]Role, error) {
	var out []Role
	if err := s.c.get(ctx, fmt.Sprintf("/projects/%d/roles", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProjectService) Fans(ctx context.Context, id int) ([]User, error) {
	var out []User
	if err := s.c.get(ctx, fmt.Sprintf("/projects/%d/fans", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProjectService) AddFan(ctx context.Context, id int) error {
	return s.c.post(ctx, fmt.Sprintf("/projects/%d/fans", id), nil, nil)
}

func (s *ProjectService) RemoveFan(ctx context.Context, id, userID int) error {
	return s.c.delete(ctx, fmt.Sprintf("/projects/%d/fans/%d", id, userID))
}

// IsStarred reports whether the authenticated user starred the project.
func (s *ProjectService) IsStarred(ctx context.Context, id int) (bool, error) {
	var out bool
	if err := s.c.get(ctx, fmt.Sprintf("/projects/%d/starred", id), nil, &out); err != nil {
		return false, err
	}
	return out, nil
}

func (s *ProjectService) Star(ctx context.Context, id int) error {
	return s.c.post(ctx, fmt.Sprintf("/projects/%d/starred", id), nil, nil)
}

func (s *ProjectService) Unstar(ctx context.Context, id int) error {
	return s.c.delete(ctx, fmt.Sprintf("/projects/%d/starred", id))
}

func (s *ProjectService) Watchers(ctx context.Context, id int) ([]User, error) {
	var out []User
	if err := s.c.get(ctx, fmt.Sprintf("/projects/%d/watchers", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProjectService) Watch(ctx context.Context, id int) error {
	return s.c.post(ctx, fmt.Sprintf("/projects/%d/watchers", id), nil, nil)
}

func (s *ProjectService) Unwatch(ctx context.Context, id, userID int) error {
	return s.c.delete(ctx, fmt.Sprintf("/projects/%d/watchers/%d", id, userID))
}
