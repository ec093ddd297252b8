// Package resolve turns the names people type (status names, usernames,
// #refs) into the numeric ids the Taiga API expects.
package resolve

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/protocollar/taiga/internal/taiga"
)

// Resolver looks names up through a Taiga client.
type Resolver struct {
	c *taiga.Client
}

func New(c *taiga.Client) *Resolver {
	return &Resolver{c: c}
}

func numeric(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil && n > 0
}

func noun(kind taiga.StatusKind) string {
	switch kind {
	case taiga.IssueType:
		return "issue type"
	case taiga.Priority:
		return "priority"
	case taiga.Severity:
		return "severity"
	default:
		return "status"
	}
}

// StatusID resolves name against the project's vocabulary of kind. A
// numeric name is returned unchanged. Names match case-insensitively,
// first on the display name and then on the slug.
func (r *Resolver) StatusID(ctx context.Context, kind taiga.StatusKind, project int, name string) (int, error) {
	if id, ok := numeric(name); ok {
		return id, nil
	}
	statuses, err := r.c.Statuses.List(ctx, kind, project)
	if err != nil {
		return 0, fmt.Errorf("listing %s: %w", strings.ToLower(kind.Label()), err)
	}
	return MatchStatus(statuses, kind, project, name)
}

// MatchStatus is StatusID over an already fetched list.
func MatchStatus(statuses []taiga.Status, kind taiga.StatusKind, project int, name string) (int, error) {
	want := strings.TrimSpace(name)
	for _, s := range statuses {
		if strings.EqualFold(strings.TrimSpace(s.Name), want) {
			return s.ID, nil
		}
	}
	for _, s := range statuses {
		if s.Slug != "" && strings.EqualFold(s.Slug, want) {
			return s.ID, nil
		}
	}
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.Name
	}
	return 0, fmt.Errorf("%s %q not found for project %d (available: %s)", noun(kind), name, project, strings.Join(names, ", "))
}

// UserID resolves a username, full name or email to a member id of project.
// A numeric name is returned unchanged.
func (r *Resolver) UserID(ctx context.Context, project int, name string) (int, error) {
	if id, ok := numeric(name); ok {
		return id, nil
	}
	users, err := r.c.Users.List(ctx, project)
	if err != nil {
		return 0, fmt.Errorf("listing project members: %w", err)
	}
	return MatchUser(users, project, name)
}

// MatchUser is UserID over an already fetched member list.
func MatchUser(users []taiga.User, project int, name string) (int, error) {
	want := strings.TrimPrefix(strings.TrimSpace(name), "@")
	fields := []func(taiga.User) string{
		func(u taiga.User) string { return u.Username },
		func(u taiga.User) string { return u.FullName },
		func(u taiga.User) string { return u.Email },
	}
	for _, field := range fields {
		for _, u := range users {
			if v := field(u); v != "" && strings.EqualFold(v, want) {
				return u.ID, nil
			}
		}
	}
	return 0, fmt.Errorf("user %q is not a member of project %d", name, project)
}

// EpicID resolves an epic's #ref to its internal id.
func (r *Resolver) EpicID(ctx context.Context, project, ref int) (int, error) {
	e, err := r.c.Epics.ByRef(ctx, project, ref)
	if err != nil {
		return 0, fmt.Errorf("finding epic #%d: %w", ref, err)
	}
	return e.ID, nil
}

// UserStoryID resolves a user story's #ref to its internal id.
func (r *Resolver) UserStoryID(ctx context.Context, project, ref int) (int, error) {
	us, err := r.c.UserStories.ByRef(ctx, project, ref)
	if err != nil {
		return 0, fmt.Errorf("finding user story #%d: %w", ref, err)
	}
	return us.ID, nil
}

// MilestoneID resolves a milestone by id, name or slug within project.
func (r *Resolver) MilestoneID(ctx context.Context, project int, name string) (int, error) {
	if id, ok := numeric(name); ok {
		return id, nil
	}
	milestones, err := r.c.Milestones.List(ctx, project)
	if err != nil {
		return 0, fmt.Errorf("listing milestones: %w", err)
	}
	want := strings.TrimSpace(name)
	for _, m := range milestones {
		if strings.EqualFold(m.Name, want) || strings.EqualFold(m.Slug, want) {
			return m.ID, nil
		}
	}
	return 0, fmt.Errorf("milestone %q not found for project %d", name, project)
}

// Statuses fetches the given vocabularies of project concurrently. The
// result has one entry per kind, in the order given.
func (r *Resolver) Statuses(ctx context.Context, project int, kinds ...taiga.StatusKind) ([][]taiga.Status, error) {
	out := make([][]taiga.Status, len(kinds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, kind := range kinds {
		g.Go(func() error {
			list, err := r.c.Statuses.List(ctx, kind, project)
			if err != nil {
				return fmt.Errorf("listing %s: %w", strings.ToLower(kind.Label()), err)
			}
			out[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Tags splits a comma-separated tag list, trimming blanks and dropping
// empty entries. An all-blank input yields nil.
func Tags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
