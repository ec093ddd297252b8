package taiga

import (
	"context"
	"fmt"
)

// StatusKind names one of the per-project vocabularies.
type StatusKind string

const (
	EpicStatus      StatusKind = "epic-statuses"
	UserStoryStatus StatusKind = "userstory-statuses"
	TaskStatus      StatusKind = "task-statuses"
	IssueStatus     StatusKind = "issue-statuses"
	IssueType       StatusKind = "issue-types"
	Priority        StatusKind = "priorities"
	Severity        StatusKind = "severities"
)

// StatusKinds lists every vocabulary in display order.
var StatusKinds = []StatusKind{Severity, Priority, IssueStatus, IssueType, TaskStatus, UserStoryStatus, EpicStatus}

// Label is the human name of the vocabulary.
func (k StatusKind) Label() string {
	switch k {
	case EpicStatus:
		return "Epic Statuses"
	case UserStoryStatus:
		return "User Story Statuses"
	case TaskStatus:
		return "Task Statuses"
	case IssueStatus:
		return "Issue Statuses"
	case IssueType:
		return "Issue Types"
	case Priority:
		return "Priorities"
	case Severity:
		return "Severities"
	default:
		return string(k)
	}
}

// ParseStatusKind accepts the endpoint name of a vocabulary.
func ParseStatusKind(s string) (StatusKind, error) {
	for _, k := range StatusKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown status kind %q", s)
}

// StatusService covers the status, type, priority and severity lists.
type StatusService struct {
	c *Client
}

// List returns the entries of kind, scoped to project when non-zero.
func (s *StatusService) List(ctx context.Context, kind StatusKind, project int) ([]Status, error) {
	var out []Status
	if err := s.c.get(ctx, "/"+string(kind), projectQuery(project), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *StatusService) Severities(ctx context.Context, project int) ([]Status, error) {
	return s.List(ctx, Severity, project)
}

func (s *StatusService) Priorities(ctx context.Context, project int) ([]Status, error) {
	return s.List(ctx, Priority, project)
}

func (s *StatusService) IssueStatuses(ctx context.Context, project int) ([]Status, error) {
	return s.List(ctx, IssueStatus, project)
}

func (s *StatusService) IssueTypes(ctx context.Context, project int) ([]Status, error) {
	return s.List(ctx, IssueType, project)
}

func (s *StatusService) TaskStatuses(ctx context.Context, project int) ([]Status, error) {
	return s.List(ctx, TaskStatus, project)
}

func (s *StatusService) EpicStatuses(ctx context.Context, project int) ([]Status, error) {
	return s.List(ctx, EpicStatus, project)
}

func (s *StatusService) UserStoryStatuses(ctx context.Context, project int) ([]Status, error) {
	return s.List(ctx, UserStoryStatus, project)
}
