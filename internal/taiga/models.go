package taiga

import (
	"encoding/json"
	"time"
)

// ProjectExtraInfo is the project summary embedded in items.
type ProjectExtraInfo struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	LogoSmallURL string `json:"logo_small_url,omitempty"`
}

// StatusExtraInfo is the status summary embedded in items.
type StatusExtraInfo struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	IsClosed bool   `json:"is_closed"`
}

// UserInfo is the owner_extra_info / assigned_to_extra_info payload.
type UserInfo struct {
	ID              int    `json:"id"`
	Username        string `json:"username"`
	FullNameDisplay string `json:"full_name_display"`
	Photo           string `json:"photo,omitempty"`
	BigPhoto        string `json:"big_photo,omitempty"`
	GravatarID      string `json:"gravatar_id,omitempty"`
	IsActive        bool   `json:"is_active"`
}

// Tag is one entry of Taiga's [name, color] tag pairs.
type Tag struct {
	Name  string
	Color string
}

func (t *Tag) UnmarshalJSON(data []byte) error {
	var pair []*string
	if err := json.Unmarshal(data, &pair); err != nil {
		// Some endpoints send bare tag names.
		var name string
		if err2 := json.Unmarshal(data, &name); err2 != nil {
			return err
		}
		t.Name = name
		return nil
	}
	if len(pair) > 0 && pair[0] != nil {
		t.Name = *pair[0]
	}
	if len(pair) > 1 && pair[1] != nil {
		t.Color = *pair[1]
	}
	return nil
}

func (t Tag) MarshalJSON() ([]byte, error) {
	var color *string
	if t.Color != "" {
		color = &t.Color
	}
	return json.Marshal([]*string{&t.Name, color})
}

// ItemRef is the id/ref/subject triple used for cross references.
type ItemRef struct {
	ID      int    `json:"id"`
	Ref     int    `json:"ref"`
	Subject string `json:"subject"`
}

// EpicRef is an epic a user story belongs to.
type EpicRef struct {
	ID      int    `json:"id"`
	Ref     int    `json:"ref"`
	Subject string `json:"subject"`
	Color   string `json:"color"`
	Project int    `json:"project"`
}

// UserStoryRef is the user_story_extra_info of a task.
type UserStoryRef struct {
	ID      int       `json:"id"`
	Ref     int       `json:"ref"`
	Subject string    `json:"subject"`
	Epics   []EpicRef `json:"epics,omitempty"`
}

// UserStoriesCounts summarizes the stories of an epic.
type UserStoriesCounts struct {
	Total    int     `json:"total"`
	Progress float64 `json:"progress"`
}

// Date is a calendar date as Taiga sends it (YYYY-MM-DD), tolerant of
// full timestamps.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	d.Time = time.Time{}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// FlexID decodes identifiers that Taiga sends either as numbers or strings.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// Status is an entry of any per-project vocabulary: epic, user story,
// task and issue statuses, issue types, priorities and severities.
type Status struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	Color    string `json:"color"`
	IsClosed bool   `json:"is_closed"`
	Project  int    `json:"project"`
	Order    int    `json:"order"`
}

// Attachment is a file attached to an item.
type Attachment struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
	Description  string `json:"description"`
	AttachedFile string `json:"attached_file,omitempty"`
}

// Comment is a comment on an item.
type Comment struct {
	ID           int       `json:"id"`
	Comment      string    `json:"comment"`
	User         any       `json:"user"`
	CreatedDate  time.Time `json:"created_date"`
	ModifiedDate time.Time `json:"modified_date"`
}

// HistoryEntry is one change recorded on an item.
type HistoryEntry struct {
	ID        FlexID          `json:"id"`
	User      any             `json:"user"`
	CreatedAt time.Time       `json:"created_at"`
	Type      int             `json:"type"`
	Comment   string          `json:"comment"`
	Diff      json.RawMessage `json:"diff,omitempty"`
}

// CustomAttribute is a project-defined extra field.
type CustomAttribute struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Project     int    `json:"project"`
	Order       int    `json:"order"`
}

// AuthRequest is the body of POST /auth.
type AuthRequest struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by POST /auth and POST /auth/refresh.
type AuthResponse struct {
	ID        int    `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	AuthToken string `json:"auth_token"`
	Refresh   string `json:"refresh,omitempty"`
}
