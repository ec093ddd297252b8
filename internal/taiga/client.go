// Package taiga is a typed client for the Taiga REST API (v1).
//
// Every authenticated request carries a bearer token obtained from the
// configured TokenSource and disables server-side pagination, so list
// endpoints always return the full collection.
package taiga

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the public Taiga cloud API.
const DefaultBaseURL = "https://api.taiga.io/api/v1"

// ErrNoToken is returned by token sources that have nothing to offer.
var ErrNoToken = errors.New("not authenticated")

// TokenSource supplies the bearer token for a request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrNoToken
	}
	return string(t), nil
}

// Config holds the settings for New.
type Config struct {
	// BaseURL is normalized with NormalizeBaseURL. Empty means DefaultBaseURL.
	BaseURL string
	// Tokens may be nil for clients that only call Login.
	Tokens TokenSource
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Client talks to one Taiga instance. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource

	Projects         *ProjectService
	Epics            *EpicService
	Issues           *IssueService
	Tasks            *TaskService
	UserStories      *UserStoryService
	Milestones       *MilestoneService
	Wiki             *WikiService
	Webhooks         *WebhookService
	Users            *UserService
	Statuses         *StatusService
	CustomAttributes *CustomAttributeService
	Attachments      *AttachmentService
	History          *HistoryService
	Notifications    *NotificationService
	Timeline         *TimelineService
	Stats            *StatsService
}

// New creates a client for cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base := NormalizeBaseURL(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	c := &Client{baseURL: base, httpClient: hc, tokens: cfg.Tokens}
	c.Projects = &ProjectService{c: c}
	c.Epics = &EpicService{resource[Epic]{c, "epics"}, refs[Epic]{c, "epics"}, discussion{c, "epics"}}
	c.Issues = &IssueService{resource[Issue]{c, "issues"}, refs[Issue]{c, "issues"}, discussion{c, "issues"}, votes{c, "issues"}}
	c.Tasks = &TaskService{resource[Task]{c, "tasks"}, refs[Task]{c, "tasks"}, discussion{c, "tasks"}, votes{c, "tasks"}}
	c.UserStories = &UserStoryService{resource[UserStory]{c, "userstories"}, refs[UserStory]{c, "userstories"}, discussion{c, "userstories"}, votes{c, "userstories"}}
	c.Milestones = &MilestoneService{c: c}
	c.Wiki = &WikiService{resource[WikiPage]{c, "wiki"}, discussion{c, "wiki"}}
	c.Webhooks = &WebhookService{c: c}
	c.Users = &UserService{c: c}
	c.Statuses = &StatusService{c: c}
	c.CustomAttributes = &CustomAttributeService{c: c}
	c.Attachments = &AttachmentService{c: c}
	c.History = &HistoryService{c: c}
	c.Notifications = &NotificationService{c: c}
	c.Timeline = &TimelineService{c: c}
	c.Stats = &StatsService{c: c}
	return c, nil
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NormalizeBaseURL turns a Taiga host or API URL into the canonical
// ".../api/v1" form.
//
//	https://tree.taiga.io          -> https://tree.taiga.io/api/v1
//	https://tree.taiga.io/api/     -> https://tree.taiga.io/api/v1
//	https://tree.taiga.io/api/v1/  -> https://tree.taiga.io/api/v1
func NormalizeBaseURL(raw string) string {
	s := strings.TrimRight(strings.TrimSpace(raw), "/")
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "/api/v1"):
		return s
	case strings.HasSuffix(lower, "/api"):
		return s + "/v1"
	default:
		return s + "/api/v1"
	}
}

// Fields is a create or partial-update body. Keys are Taiga's snake_case
// attribute names.
type Fields map[string]any

// ListOptions filters list endpoints. Zero values are not sent.
type ListOptions struct {
	Project   int
	Epic      int
	UserStory int
	Milestone int
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	setInt(q, "project", o.Project)
	setInt(q, "epic", o.Epic)
	setInt(q, "user_story", o.UserStory)
	setInt(q, "milestone", o.Milestone)
	return q
}

func setInt(q url.Values, key string, v int) {
	if v != 0 {
		q.Set(key, strconv.Itoa(v))
	}
}

func projectQuery(project int) url.Values {
	q := url.Values{}
	setInt(q, "project", project)
	return q
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do sends a JSON request with the bearer token and decodes the response
// into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var r io.Reader
	if body != nil {
		var err error
		if r, err = jsonBody(body); err != nil {
			return err
		}
	}
	req, err := c.newRequest(ctx, method, path, query, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(ctx, req); err != nil {
		return err
	}
	return c.send(req, out)
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	return bytes.NewReader(data), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-disable-pagination", "1")
	return req, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.tokens == nil {
		return ErrNoToken
	}
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	return nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(req, resp, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
