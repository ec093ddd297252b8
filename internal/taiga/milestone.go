package taiga

import (
	"context"
	"fmt"
)

// Milestone is a sprint.
type Milestone struct {
	ID              int         `json:"id"`
	Name            string      `json:"name"`
	Slug            string      `json:"slug"`
	Description     string      `json:"description,omitempty"`
	Project         int         `json:"project"`
	EstimatedStart  Date        `json:"estimated_start"`
	EstimatedFinish Date        `json:"estimated_finish"`
	Closed          bool        `json:"closed"`
	TotalPoints     *float64    `json:"total_points,omitempty"`
	ClosedPoints    *float64    `json:"closed_points,omitempty"`
	UserStories     []UserStory `json:"user_stories,omitempty"`
}

// MilestoneService covers /milestones.
type MilestoneService struct {
	c *Client
}

func (s *MilestoneService) List(ctx context.Context, project int) ([]Milestone, error) {
	var out []Milestone
	if err := s.c.get(ctx, "/milestones", projectQuery(project), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MilestoneService) Get(ctx context.Context, id int) (*Milestone, error) {
	var out Milestone
	if err := s.c.get(ctx, fmt.Sprintf("/milestones/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MilestoneService) Create(ctx context.Context, f Fields) (*Milestone, error) {
	var out Milestone
	if err := s.c.post(ctx, "/milestones", f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MilestoneService) Update(ctx context.Context, id int, f Fields) (*Milestone, error) {
	var out Milestone
	if err := s.c.patch(ctx, fmt.Sprintf("/milestones/%d", id), f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MilestoneService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, fmt.Sprintf("/milestones/%d", id))
}

func (s *MilestoneService) Stats(ctx context.Context, id int) (map[string]any, error) {
	var out map[string]any
	if err := s.c.get(ctx, fmt.Sprintf("/milestones/%d/stats", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MilestoneService) Burndown(ctx context.Context, id int) (map[string]any, error) {
	var out map[string]any
	if err := s.c.get(ctx, fmt.Sprintf("/milestones/%d/burndown", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MilestoneService) UserStories(ctx context.Context, id int) ([]UserStory, error) {
	var out []UserStory
	if err := s.c.get(ctx, fmt.Sprintf("/milestones/%d/userstories", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MilestoneService) AddUserStory(ctx context.Context, id, userStoryID int) error {
	return s.c.post(ctx, fmt.Sprintf("/milestones/%d/userstories", id), Fields{"user_story": userStoryID}, nil)
}

func (s *MilestoneService) RemoveUserStory(ctx context.Context, id, userStoryID int) error {
	return s.c.delete(ctx, fmt.Sprintf("/milestones/%d/userstories/%d", id, userStoryID))
}
