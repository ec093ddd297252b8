package taiga

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// AttributeKind selects the item type of a custom attribute endpoint.
type AttributeKind string

const (
	UserStoryAttribute AttributeKind = "userstory"
	TaskAttribute      AttributeKind = "task"
	IssueAttribute     AttributeKind = "issue"
	EpicAttribute      AttributeKind = "epic"
)

// CustomAttributeService covers /{kind}-custom-attributes.
type CustomAttributeService struct {
	c *Client
}

func attrPath(kind AttributeKind) string {
	return "/" + string(kind) + "-custom-attributes"
}

func (s *CustomAttributeService) List(ctx context.Context, kind AttributeKind, project int) ([]CustomAttribute, error) {
	var out []CustomAttribute
	if err := s.c.get(ctx, attrPath(kind), projectQuery(project), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CustomAttributeService) Get(ctx context.Context, kind AttributeKind, id int) (*CustomAttribute, error) {
	var out CustomAttribute
	if err := s.c.get(ctx, fmt.Sprintf("%s/%d", attrPath(kind), id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CustomAttributeService) Create(ctx context.Context, kind AttributeKind, f Fields) (*CustomAttribute, error) {
	var out CustomAttribute
	if err := s.c.post(ctx, attrPath(kind), f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CustomAttributeService) Update(ctx context.Context, kind AttributeKind, id int, f Fields) (*CustomAttribute, error) {
	var out CustomAttribute
	if err := s.c.patch(ctx, fmt.Sprintf("%s/%d", attrPath(kind), id), f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CustomAttributeService) Delete(ctx context.Context, kind AttributeKind, id int) error {
	return s.c.delete(ctx, fmt.Sprintf("%s/%d", attrPath(kind), id))
}

// AttachmentService covers /attachments/{id}.
type AttachmentService struct {
	c *Client
}

func (s *AttachmentService) Get(ctx context.Context, id int) (*Attachment, error) {
	var out Attachment
	if err := s.c.get(ctx, fmt.Sprintf("/attachments/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AttachmentService) Update(ctx context.Context, id int, f Fields) (*Attachment, error) {
	var out Attachment
	if err := s.c.patch(ctx, fmt.Sprintf("/attachments/%d", id), f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AttachmentService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, fmt.Sprintf("/attachments/%d", id))
}

// HistoryService covers /history.
type HistoryService struct {
	c *Client
}

func (s *HistoryService) Get(ctx context.Context, id int) ([]HistoryEntry, error) {
	var out []HistoryEntry
	if err := s.c.get(ctx, fmt.Sprintf("/history/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HistoryService) Comment(ctx context.Context, id int) (string, error) {
	var out string
	if err := s.c.get(ctx, fmt.Sprintf("/history/%d/comment", id), nil, &out); err != nil {
		return "", err
	}
	return out, nil
}

// Notification is an entry of the authenticated user's inbox.
type Notification struct {
	ID      int            `json:"id"`
	Read    bool           `json:"read"`
	Created time.Time      `json:"created"`
	Data    map[string]any `json:"data,omitempty"`
}

// NotificationService covers /notifications.
type NotificationService struct {
	c *Client
}

func (s *NotificationService) List(ctx context.Context) ([]Notification, error) {
	var out []Notification
	if err := s.c.get(ctx, "/notifications", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *NotificationService) Get(ctx context.Context, id int) (*Notification, error) {
	var out Notification
	if err := s.c.get(ctx, fmt.Sprintf("/notifications/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkRead marks one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id int) (*Notification, error) {
	var out Notification
	if err := s.c.patch(ctx, fmt.Sprintf("/notifications/%d", id), Fields{"read": true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkAllRead marks the whole inbox as read.
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.c.patch(ctx, "/notifications/read", Fields{}, nil)
}

// Unread returns the number of unread notifications.
func (s *NotificationService) Unread(ctx context.Context) (int, error) {
	var out int
	if err := s.c.get(ctx, "/notifications/unread", nil, &out); err != nil {
		return 0, err
	}
	return out, nil
}

// TimelineEntry is an activity record. Its data payload varies by event.
type TimelineEntry struct {
	ID          int            `json:"id"`
	ContentType int            `json:"content_type"`
	EventType   string         `json:"event_type"`
	Created     time.Time      `json:"created"`
	Project     int            `json:"project"`
	Data        map[string]any `json:"data,omitempty"`
}

// TimelineService covers /timeline.
type TimelineService struct {
	c *Client
}

func (s *TimelineService) Project(ctx context.Context, projectID int) ([]TimelineEntry, error) {
	return s.list(ctx, fmt.Sprintf("/timeline/%d", projectID))
}

func (s *TimelineService) Profile(ctx context.Context, projectID int) ([]TimelineEntry, error) {
	return s.list(ctx, fmt.Sprintf("/timeline/%d/profile", projectID))
}

func (s *TimelineService) User(ctx context.Context, projectID, userID int) ([]TimelineEntry, error) {
	return s.list(ctx, fmt.Sprintf("/timeline/%d/user/%d", projectID, userID))
}

func (s *TimelineService) list(ctx context.Context, path string) ([]TimelineEntry, error) {
	var out []TimelineEntry
	if err := s.c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StatsService covers /stats.
type StatsService struct {
	c *Client
}

// Discover returns instance-wide statistics.
func (s *StatsService) Discover(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := s.c.get(ctx, "/stats/discover", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *StatsService) Project(ctx context.Context, projectID int) (map[string]any, error) {
	var out map[string]any
	if err := s.c.get(ctx, fmt.Sprintf("/stats/%d", projectID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchResult groups matches by item kind.
type SearchResult struct {
	Epics       []ItemRef `json:"epics"`
	WikiPages   []ItemRef `json:"wikipages"`
	Issues      []ItemRef `json:"issues"`
	Tasks       []ItemRef `json:"tasks"`
	UserStories []ItemRef `json:"userstories"`
	Count       int       `json:"count"`
}

// Search runs a full-text search inside a project.
func (c *Client) Search(ctx context.Context, project int, text string) (*SearchResult, error) {
	q := projectQuery(project)
	q.Set("text", text)
	var out SearchResult
	if err := c.get(ctx, "/search", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reference resolves a project-scoped ref to the kind of item it names.
func (c *Client) Reference(ctx context.Context, project, ref int) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, fmt.Sprintf("/references/%d/%d", project, ref), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login exchanges credentials for a token. It does not use the client's
// TokenSource.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	body := AuthRequest{Type: "normal", Username: username, Password: password}
	return c.authRequest(ctx, "/auth", body)
}

// Refresh trades a refresh token for a new auth token.
func (c *Client) Refresh(ctx context.Context, refresh string) (*AuthResponse, error) {
	return c.authRequest(ctx, "/auth/refresh", Fields{"refresh": refresh})
}

func (c *Client) authRequest(ctx context.Context, path string, body any) (*AuthResponse, error) {
	data, err := jsonBody(body)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, data)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var out AuthResponse
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	if out.AuthToken == "" {
		return nil, fmt.Errorf("authentication response did not include a token")
	}
	return &out, nil
}

// ParseRef parses a "#42" or "42" style reference.
func ParseRef(s string) (int, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid reference %q", s)
	}
	return n, nil
}
