package taiga

import "time"

// Issue is a Taiga issue.
type Issue struct {
	ID                  int               `json:"id"`
	Ref                 int               `json:"ref"`
	Version             int               `json:"version"`
	Subject             string            `json:"subject"`
	Description         string            `json:"description"`
	Project             int               `json:"project"`
	ProjectExtraInfo    *ProjectExtraInfo `json:"project_extra_info,omitempty"`
	Status              int               `json:"status"`
	StatusExtraInfo     *StatusExtraInfo  `json:"status_extra_info,omitempty"`
	Type                int               `json:"type"`
	Priority            int               `json:"priority"`
	Severity            int               `json:"severity"`
	AssignedTo          *int              `json:"assigned_to"`
	AssignedToExtraInfo *UserInfo         `json:"assigned_to_extra_info,omitempty"`
	Owner               int               `json:"owner"`
	OwnerExtraInfo      *UserInfo         `json:"owner_extra_info,omitempty"`
	Milestone           *int              `json:"milestone"`
	Tags                []Tag             `json:"tags"`
	CreatedDate         time.Time         `json:"created_date"`
	ModifiedDate        time.Time         `json:"modified_date"`
	FinishedDate        *time.Time        `json:"finished_date"`
	DueDate             Date              `json:"due_date"`
	IsBlocked           bool              `json:"is_blocked"`
	BlockedNote         string            `json:"blocked_note"`
	IsClosed            bool              `json:"is_closed"`
	Watchers            []int             `json:"watchers"`
	TotalVoters         int               `json:"total_voters"`
	TotalWatchers       int               `json:"total_watchers"`
	Attachments         []Attachment      `json:"attachments,omitempty"`
}

// IssueService covers /issues.
type IssueService struct {
	resource[Issue]
	refs[Issue]
	discussion
	votes
}
