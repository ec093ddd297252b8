package taiga

import (
	"context"
	"fmt"
)

// Webhook delivers project events to an external URL.
type Webhook struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Key     string `json:"key,omitempty"`
	Project int    `json:"project"`
	Active  bool   `json:"active"`
}

// WebhookLog is one delivery attempt.
type WebhookLog struct {
	ID           int            `json:"id"`
	Webhook      int            `json:"webhook"`
	URL          string         `json:"url"`
	Status       int            `json:"status"`
	Duration     float64        `json:"duration"`
	Created      string         `json:"created"`
	RequestData  map[string]any `json:"request_data,omitempty"`
	ResponseData string         `json:"response_data,omitempty"`
}

// WebhookService covers /webhooks.
type WebhookService struct {
	c *Client
}

func (s *WebhookService) List(ctx context.Context, project int) ([]Webhook, error) {
	var out []Webhook
	if err := s.c.get(ctx, "/webhooks", projectQuery(project), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *WebhookService) Get(ctx context.Context, id int) (*Webhook, error) {
	var out Webhook
	if err := s.c.get(ctx, fmt.Sprintf("/webhooks/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *WebhookService) Create(ctx context.Context, f Fields) (*Webhook, error) {
	var out Webhook
	if err := s.c.post(ctx, "/webhooks", f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *WebhookService) Update(ctx context.Context, id int, f Fields) (*Webhook, error) {
	var out Webhook
	if err := s.c.patch(ctx, fmt.Sprintf("/webhooks/%d", id), f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *WebhookService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, fmt.Sprintf("/webhooks/%d", id))
}

// Test asks Taiga to send a test delivery and returns the resulting log.
func (s *WebhookService) Test(ctx context.Context, id int) (*WebhookLog, error) {
	var out WebhookLog
	if err := s.c.post(ctx, fmt.Sprintf("/webhooks/%d/test", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *WebhookService) Logs(ctx context.Context, id int) ([]WebhookLog, error) {
	var out []WebhookLog
	if err := s.c.get(ctx, fmt.Sprintf("/webhooks/%d/logs", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
