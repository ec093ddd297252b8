package taiga

import (
	"context"
	"fmt"
	"time"
)

// UserStory is a Taiga user story.
type UserStory struct {
	ID                  int                `json:"id"`
	Ref                 int                `json:"ref"`
	Version             int                `json:"version"`
	Subject             string             `json:"subject"`
	Description         string             `json:"description"`
	Project             int                `json:"project"`
	ProjectExtraInfo    *ProjectExtraInfo  `json:"project_extra_info,omitempty"`
	Status              int                `json:"status"`
	StatusExtraInfo     *StatusExtraInfo   `json:"status_extra_info,omitempty"`
	AssignedTo          *int               `json:"assigned_to"`
	AssignedToExtraInfo *UserInfo          `json:"assigned_to_extra_info,omitempty"`
	AssignedUsers       []int              `json:"assigned_users,omitempty"`
	Owner               int                `json:"owner"`
	OwnerExtraInfo      *UserInfo          `json:"owner_extra_info,omitempty"`
	Epics               []EpicRef          `json:"epics,omitempty"`
	Milestone           *int               `json:"milestone"`
	MilestoneName       string             `json:"milestone_name,omitempty"`
	MilestoneSlug       string             `json:"milestone_slug,omitempty"`
	Points              map[string]*int    `json:"points,omitempty"`
	TotalPoints         *float64           `json:"total_points"`
	Tasks               []ItemRef          `json:"tasks,omitempty"`
	Tags                []Tag              `json:"tags"`
	CreatedDate         time.Time          `json:"created_date"`
	ModifiedDate        time.Time          `json:"modified_date"`
	FinishDate          *time.Time         `json:"finish_date"`
	DueDate             Date               `json:"due_date"`
	IsBlocked           bool               `json:"is_blocked"`
	BlockedNote         string             `json:"blocked_note"`
	IsClosed            bool               `json:"is_closed"`
	BacklogOrder        int64              `json:"backlog_order"`
	Watchers            []int              `json:"watchers"`
	TotalVoters         int                `json:"total_voters"`
	TotalWatchers       int                `json:"total_watchers"`
	Attachments         []Attachment       `json:"attachments,omitempty"`
}

// UserStoryService covers /userstories.
type UserStoryService struct {
	resource[UserStory]
	refs[UserStory]
	discussion
	votes
}

// Promote turns a user story into an epic.
func (s *UserStoryService) Promote(ctx context.Context, id int) (*Epic, error) {
	var out Epic
	if err := s.resource.c.post(ctx, fmt.Sprintf("/userstories/%d/promote", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Convert turns a user story into an issue.
func (s *UserStoryService) Convert(ctx context.Context, id int) (*Issue, error) {
	var out Issue
	if err := s.resource.c.post(ctx, fmt.Sprintf("/userstories/%d/convert", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
