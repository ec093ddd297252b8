package taiga

import (
	"context"
	"errors"
)

// WikiPage is a project wiki page.
type WikiPage struct {
	ID      int    `json:"id"`
	Slug    string `json:"slug"`
	Content string `json:"content"`
	Project int    `json:"project"`
	Version int    `json:"version,omitempty"`
}

// WikiService covers /wiki.
type WikiService struct {
	resource[WikiPage]
	discussion
}

// ListByProject lists the pages of a project. Taiga rejects unscoped wiki
// listings, so project is mandatory.
func (s *WikiService) ListByProject(ctx context.Context, project int) ([]WikiPage, error) {
	if project == 0 {
		return nil, errors.New("a project is required to list wiki pages")
	}
	return s.resource.List(ctx, ListOptions{Project: project})
}
