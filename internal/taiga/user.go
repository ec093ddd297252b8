package taiga

import (
	"context"
	"fmt"
)

// User is a Taiga account.
type User struct {
	ID              int    `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
	FullName        string `json:"full_name"`
	FullNameDisplay string `json:"full_name_display,omitempty"`
	Bio             string `json:"bio,omitempty"`
	IsActive        bool   `json:"is_active"`
}

// DisplayName prefers the full name over the username.
func (u User) DisplayName() string {
	switch {
	case u.FullNameDisplay != "":
		return u.FullNameDisplay
	case u.FullName != "":
		return u.FullName
	default:
		return u.Username
	}
}

// UserService covers /users.
type UserService struct {
	c *Client
}

// Me returns the authenticated user.
func (s *UserService) Me(ctx context.Context) (*User, error) {
	var out User
	if err := s.c.get(ctx, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Get(ctx context.Context, id int) (*User, error) {
	var out User
	if err := s.c.get(ctx, fmt.Sprintf("/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns users, limited to the members of project when non-zero.
func (s *UserService) List(ctx context.Context, project int) ([]User, error) {
	var out []User
	if err := s.c.get(ctx, "/users", projectQuery(project), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserService) Update(ctx context.Context, id int, f Fields) (*User, error) {
	var out User
	if err := s.c.patch(ctx, fmt.Sprintf("/users/%d", id), f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Stats(ctx context.Context, id int) (map[string]any, error) {
	var out map[string]any
	if err := s.c.get(ctx, fmt.Sprintf("/users/%d/stats", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
