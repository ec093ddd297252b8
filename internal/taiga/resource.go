package taiga

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// resource implements the CRUD endpoints shared by epics, issues, tasks,
// user stories and wiki pages.
type resource[T any] struct {
	c    *Client
	path string
}

// List returns every item matching opts.
func (r resource[T]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	var out []T
	if err := r.c.get(ctx, "/"+r.path, opts.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches an item by its internal id.
func (r resource[T]) Get(ctx context.Context, id int) (*T, error) {
	var out T
	if err := r.c.get(ctx, fmt.Sprintf("/%s/%d", r.path, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new item.
func (r resource[T]) Create(ctx context.Context, f Fields) (*T, error) {
	var out T
	if err := r.c.post(ctx, "/"+r.path, f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update applies a partial update to the item with the given internal id.
func (r resource[T]) Update(ctx context.Context, id int, f Fields) (*T, error) {
	var out T
	if err := r.c.patch(ctx, fmt.Sprintf("/%s/%d", r.path, id), f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the item with the given internal id.
func (r resource[T]) Delete(ctx context.Context, id int) error {
	return r.c.delete(ctx, fmt.Sprintf("/%s/%d", r.path, id))
}

// refs resolves the per-project sequence numbers users see (#42) to items.
type refs[T any] struct {
	c    *Client
	path string
}

// ByRef fetches the item numbered ref in project.
func (r refs[T]) ByRef(ctx context.Context, project, ref int) (*T, error) {
	q := url.Values{}
	q.Set("ref", strconv.Itoa(ref))
	setInt(q, "project", project)
	var out T
	if err := r.c.get(ctx, "/"+r.path+"/by_ref", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// discussion covers attachments, history and comments of an item.
type discussion struct {
	c    *Client
	path string
}

func (d discussion) itemPath(id int, sub string) string {
	return fmt.Sprintf("/%s/%d/%s", d.path, id, sub)
}

func (d discussion) Attachments(ctx context.Context, id int) ([]Attachment, error) {
	var out []Attachment
	if err := d.c.get(ctx, d.itemPath(id, "attachments"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d discussion) Attachment(ctx context.Context, id, attachmentID int) (*Attachment, error) {
	var out Attachment
	if err := d.c.get(ctx, d.itemPath(id, fmt.Sprintf("attachments/%d", attachmentID)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d discussion) DeleteAttachment(ctx context.Context, id, attachmentID int) error {
	return d.c.delete(ctx, d.itemPath(id, fmt.Sprintf("attachments/%d", attachmentID)))
}

// Upload is a file to attach to an item.
type Upload struct {
	Project     int
	Path        string
	Description string
}

// UploadAttachment sends the file as multipart/form-data.
func (d discussion) UploadAttachment(ctx context.Context, id int, up Upload) (*Attachment, error) {
	f, err := os.Open(up.Path)
	if err != nil {
		return nil, fmt.Errorf("opening attachment: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{{"object_id", strconv.Itoa(id)}, {"project", strconv.Itoa(up.Project)}}
	if up.Description != "" {
		fields = append(fields, [2]string{"description", up.Description})
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("building upload: %w", err)
		}
	}
	part, err := mw.CreateFormFile("attached_file", filepath.Base(up.Path))
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	req, err := d.c.newRequest(ctx, http.MethodPost, d.itemPath(id, "attachments"), nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := d.c.authorize(ctx, req); err != nil {
		return nil, err
	}
	var out Attachment
	if err := d.c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d discussion) History(ctx context.Context, id int) ([]HistoryEntry, error) {
	var out []HistoryEntry
	if err := d.c.get(ctx, d.itemPath(id, "history"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d discussion) Comments(ctx context.Context, id int) ([]Comment, error) {
	var out []Comment
	if err := d.c.get(ctx, d.itemPath(id, "comments"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d discussion) AddComment(ctx context.Context, id int, text string) (*Comment, error) {
	var out Comment
	if err := d.c.post(ctx, d.itemPath(id, "comments"), Fields{"comment": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// votes covers voting and watching for issues, tasks and user stories.
type votes struct {
	c    *Client
	path string
}

func (v votes) itemPath(id int, sub string) string {
	return fmt.Sprintf("/%s/%d/%s", v.path, id, sub)
}

func (v votes) Upvote(ctx context.Context, id int) error {
	return v.c.post(ctx, v.itemPath(id, "upvote"), nil, nil)
}

func (v votes) RemoveUpvote(ctx context.Context, id int) error {
	return v.c.delete(ctx, v.itemPath(id, "upvote"))
}

func (v votes) Downvote(ctx context.Context, id int) error {
	return v.c.post(ctx, v.itemPath(id, "downvote"), nil, nil)
}

func (v votes) RemoveDownvote(ctx context.Context, id int) error {
	return v.c.delete(ctx, v.itemPath(id, "downvote"))
}

func (v votes) Watchers(ctx context.Context, id int) ([]User, error) {
	var out []User
	if err := v.c.get(ctx, v.itemPath(id, "watchers"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Watch adds the authenticated user as a watcher.
func (v votes) Watch(ctx context.Context, id int) error {
	return v.c.post(ctx, v.itemPath(id, "watchers"), nil, nil)
}

func (v votes) Unwatch(ctx context.Context, id, userID int) error {
	return v.c.delete(ctx, v.itemPath(id, fmt.Sprintf("watchers/%d", userID)))
}
