package taiga

import (
	"context"
	"fmt"
	"time"
)

// Epic is a Taiga epic.
type Epic struct {
	ID                  int                `json:"id"`
	Ref                 int                `json:"ref"`
	Version             int                `json:"version"`
	Subject             string             `json:"subject"`
	Description         string             `json:"description"`
	Color               string             `json:"color"`
	Project             int                `json:"project"`
	ProjectExtraInfo    *ProjectExtraInfo  `json:"project_extra_info,omitempty"`
	Status              int                `json:"status"`
	StatusExtraInfo     *StatusExtraInfo   `json:"status_extra_info,omitempty"`
	AssignedTo          *int               `json:"assigned_to"`
	AssignedToExtraInfo *UserInfo          `json:"assigned_to_extra_info,omitempty"`
	Owner               int                `json:"owner"`
	OwnerExtraInfo      *UserInfo          `json:"owner_extra_info,omitempty"`
	Tags                []Tag              `json:"tags"`
	CreatedDate         time.Time          `json:"created_date"`
	ModifiedDate        time.Time          `json:"modified_date"`
	DueDate             Date               `json:"due_date"`
	IsBlocked           bool               `json:"is_blocked"`
	IsClosed            bool               `json:"is_closed"`
	UserStoriesCounts   *UserStoriesCounts `json:"user_stories_counts,omitempty"`
	Watchers            []int              `json:"watchers"`
	TotalVoters         int                `json:"total_voters"`
	TotalWatchers       int                `json:"total_watchers"`
	Attachments         []Attachment       `json:"attachments,omitempty"`
}

// EpicService covers /epics.
type EpicService struct {
	resource[Epic]
	refs[Epic]
	discussion
}

// RelatedUserStories lists the stories linked to an epic.
func (s *EpicService) RelatedUserStories(ctx context.Context, id int) ([]UserStory, error) {
	var out []UserStory
	if err := s.resource.c.get(ctx, fmt.Sprintf("/epics/%d/related-userstories", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddRelatedUserStory links a story (by internal id) to an epic.
func (s *EpicService) AddRelatedUserStory(ctx context.Context, id, userStoryID int) error {
	body := Fields{"epic": id, "user_story": userStoryID}
	return s.resource.c.post(ctx, fmt.Sprintf("/epics/%d/related-userstories", id), body, nil)
}

// RemoveRelatedUserStory unlinks a story from an epic.
func (s *EpicService) RemoveRelatedUserStory(ctx context.Context, id, userStoryID int) error {
	return s.resource.c.delete(ctx, fmt.Sprintf("/epics/%d/related-userstories/%d", id, userStoryID))
}
