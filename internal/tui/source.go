package tui

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/protocollar/taiga/internal/opener"
	"github.com/protocollar/taiga/internal/taiga"
)

// kind is one of the item tabs shown for a project.
type kind int

const (
	kindUserStories kind = iota
	kindIssues
	kindTasks
	kindEpics
	numKinds
)

func (k kind) String() string {
	switch k {
	case kindUserStories:
		return "User Stories"
	case kindIssues:
		return "Issues"
	case kindTasks:
		return "Tasks"
	case kindEpics:
		return "Epics"
	}
	return "?"
}

// web is the path segment the Taiga web UI uses for the kind.
func (k kind) web() string {
	switch k {
	case kindUserStories:
		return opener.UserStory
	case kindIssues:
		return opener.Issue
	case kindTasks:
		return opener.Task
	case kindEpics:
		return opener.Epic
	}
	return ""
}

// projectItem is a row in the project list.
type projectItem struct {
	ID          int
	Name        string
	Slug        string
	Description string
	Members     int
	Private     bool
}

// row is a work item flattened for display.
type row struct {
	Ref      int
	Subject  string
	Status   string
	Closed   bool
	Assigned string
	Detail   string
}

// items holds every tab of one project.
type items [numKinds][]row

// source is what the browser reads from.
type source interface {
	Projects(ctx context.Context) ([]projectItem, error)
	Items(ctx context.Context, project int) (items, error)
}

// clientSource reads projects and items from the Taiga API.
type clientSource struct {
	c *taiga.Client
}

func (s clientSource) Projects(ctx context.Context) ([]projectItem, error) {
	ps, err := s.c.Projects.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]projectItem, 0, len(ps))
	for _, p := range ps {
		out = append(out, projectItem{
			ID:          p.ID,
			Name:        p.Name,
			Slug:        p.Slug,
			Description: p.Description,
			Members:     len(p.MemberNames()),
			Private:     p.IsPrivate,
		})
	}
	return out, nil
}

// Items loads the four item lists of a project concurrently.
func (s clientSource) Items(ctx context.Context, project int) (items, error) {
	var out items
	opts := taiga.ListOptions{Project: project}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.c.UserStories.List(ctx, opts)
		for _, u := range list {
			out[kindUserStories] = append(out[kindUserStories], newRow(u.Ref, u.Subject, u.StatusExtraInfo, u.IsClosed, u.AssignedToExtraInfo, u.String()))
		}
		return wrapLoad(kindUserStories, err)
	})
	g.Go(func() error {
		list, err := s.c.Issues.List(ctx, opts)
		for _, i := range list {
			out[kindIssues] = append(out[kindIssues], newRow(i.Ref, i.Subject, i.StatusExtraInfo, i.IsClosed, i.AssignedToExtraInfo, i.String()))
		}
		return wrapLoad(kindIssues, err)
	})
	g.Go(func() error {
		list, err := s.c.Tasks.List(ctx, opts)
		for _, t := range list {
			out[kindTasks] = append(out[kindTasks], newRow(t.Ref, t.Subject, t.StatusExtraInfo, t.IsClosed, t.AssignedToExtraInfo, t.String()))
		}
		return wrapLoad(kindTasks, err)
	})
	g.Go(func() error {
		list, err := s.c.Epics.List(ctx, opts)
		for _, e := range list {
			out[kindEpics] = append(out[kindEpics], newRow(e.Ref, e.Subject, e.StatusExtraInfo, e.IsClosed, e.AssignedToExtraInfo, e.String()))
		}
		return wrapLoad(kindEpics, err)
	})
	if err := g.Wait(); err != nil {
		return items{}, err
	}
	return out, nil
}

func wrapLoad(k kind, err error) error {
	if err != nil {
		return fmt.Errorf("loading %s: %w", strings.ToLower(k.String()), err)
	}
	return nil
}

func newRow(ref int, subject string, st *taiga.StatusExtraInfo, closed bool, assigned *taiga.UserInfo, detail string) row {
	r := row{Ref: ref, Subject: subject, Closed: closed, Detail: detail}
	if st != nil {
		r.Status = st.Name
		r.Closed = r.Closed || st.IsClosed
	}
	if assigned != nil {
		r.Assigned = assigned.Username
	}
	return r
}
