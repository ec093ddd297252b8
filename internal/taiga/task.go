package taiga

import "time"

// Task is a Taiga task.
type Task struct {
	ID                  int               `json:"id"`
	Ref                 int               `json:"ref"`
	Version             int               `json:"version"`
	Subject             string            `json:"subject"`
	Description         string            `json:"description"`
	Project             int               `json:"project"`
	ProjectExtraInfo    *ProjectExtraInfo `json:"project_extra_info,omitempty"`
	Status              int               `json:"status"`
	StatusExtraInfo     *StatusExtraInfo  `json:"status_extra_info,omitempty"`
	AssignedTo          *int              `json:"assigned_to"`
	AssignedToExtraInfo *UserInfo         `json:"assigned_to_extra_info,omitempty"`
	Owner               int               `json:"owner"`
	OwnerExtraInfo      *UserInfo         `json:"owner_extra_info,omitempty"`
	UserStory           *int              `json:"user_story"`
	UserStoryExtraInfo  *UserStoryRef     `json:"user_story_extra_info,omitempty"`
	Milestone           *int              `json:"milestone"`
	MilestoneSlug       string            `json:"milestone_slug,omitempty"`
	Tags                []Tag             `json:"tags"`
	CreatedDate         time.Time         `json:"created_date"`
	ModifiedDate        time.Time         `json:"modified_date"`
	FinishedDate        *time.Time        `json:"finished_date"`
	DueDate             Date              `json:"due_date"`
	IsBlocked           bool              `json:"is_blocked"`
	IsClosed            bool              `json:"is_closed"`
	IsIocaine           bool              `json:"is_iocaine"`
	TaskboardOrder      int64             `json:"taskboard_order"`
	UsOrder             int64             `json:"us_order"`
	Watchers            []int             `json:"watchers"`
	TotalVoters         int               `json:"total_voters"`
	TotalWatchers       int               `json:"total_watchers"`
	Attachments         []Attachment      `json:"attachments,omitempty"`
}

// TaskService covers /tasks.
type TaskService struct {
	resource[Task]
	refs[Task]
	discussion
	votes
}
