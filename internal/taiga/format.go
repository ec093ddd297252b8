package taiga

import (
	"fmt"
	"sort"
	"strings"
)

// The String methods below render the two-space indented detail blocks
// shared by the CLI and the MCP tools.

const timestampLayout = "2006-01-02 15:04:05"

type block struct {
	strings.Builder
}

func (b *block) line(format string, args ...any) {
	fmt.Fprintf(b, "  "+format+"\n", args...)
}

func (b *block) String() string {
	return strings.TrimRight(b.Builder.String(), "\n ")
}

func joinTags(tags []Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, " - ")
}

func joinAttachments(as []Attachment) string {
	parts := make([]string, 0, len(as))
	for _, a := range as {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " - ")
}

func displayName(u *UserInfo) string {
	if u == nil {
		return ""
	}
	if u.FullNameDisplay != "" {
		return u.FullNameDisplay
	}
	return u.Username
}

func statusName(s *StatusExtraInfo) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func projectName(p *ProjectExtraInfo) string {
	if p == nil {
		return ""
	}
	return p.Name
}

// itemHeader writes the lines every work item starts with.
func itemHeader(b *block, ref int, owner, assigned *UserInfo, subject string) {
	b.line("ID: #%d", ref)
	b.line("Owner: %s", displayName(owner))
	if assigned != nil {
		b.line("Assigned To: %s", displayName(assigned))
	}
	b.line("Subject: %s", subject)
}

func itemFooter(b *block, description string, attachments []Attachment) {
	if strings.TrimSpace(description) != "" {
		b.line("Description: \n%s", description)
	}
	if len(attachments) > 0 {
		b.line("Attachments: %s", joinAttachments(attachments))
	}
}

func (e Epic) String() string {
	var b block
	itemHeader(&b, e.Ref, e.OwnerExtraInfo, e.AssignedToExtraInfo, e.Subject)
	b.line("Status: %s", statusName(e.StatusExtraInfo))
	if !e.DueDate.IsZero() {
		b.line("Due Date: %s", e.DueDate)
	}
	if e.UserStoriesCounts != nil && e.UserStoriesCounts.Total != 0 {
		b.line("User Stories: %d Progress: %g%%", e.UserStoriesCounts.Total, e.UserStoriesCounts.Progress)
	}
	if len(e.Tags) > 0 {
		b.line("Tags: %s", joinTags(e.Tags))
	}
	b.line("Project: %d - %s", e.Project, projectName(e.ProjectExtraInfo))
	itemFooter(&b, e.Description, e.Attachments)
	return b.String()
}

func (i Issue) String() string {
	var b block
	itemHeader(&b, i.Ref, i.OwnerExtraInfo, i.AssignedToExtraInfo, i.Subject)
	b.line("Status: %d - %s", i.Status, statusName(i.StatusExtraInfo))
	b.line("Type: %d Priority: %d Severity: %d", i.Type, i.Priority, i.Severity)
	if !i.DueDate.IsZero() {
		b.line("Due Date: %s", i.DueDate)
	}
	if len(i.Tags) > 0 {
		b.line("Tags: %s", joinTags(i.Tags))
	}
	b.line("Project: %d - %s", i.Project, projectName(i.ProjectExtraInfo))
	itemFooter(&b, i.Description, i.Attachments)
	return b.String()
}

func (t Task) String() string {
	var b block
	itemHeader(&b, t.Ref, t.OwnerExtraInfo, t.AssignedToExtraInfo, t.Subject)
	b.line("Status: %d - %s", t.Status, statusName(t.StatusExtraInfo))
	if !t.DueDate.IsZero() {
		b.line("Due Date: %s", t.DueDate)
	}
	if len(t.Tags) > 0 {
		b.line("Tags: %s", joinTags(t.Tags))
	}
	b.line("Project: %d - %s", t.Project, projectName(t.ProjectExtraInfo))
	if us := t.UserStoryExtraInfo; us != nil {
		b.line("User Story: #%d %s", us.Ref, us.Subject)
	}
	itemFooter(&b, t.Description, t.Attachments)
	return b.String()
}

func (u UserStory) String() string {
	var b block
	itemHeader(&b, u.Ref, u.OwnerExtraInfo, u.AssignedToExtraInfo, u.Subject)
	if u.TotalPoints != nil {
		b.line("Status: %s Points: %g", statusName(u.StatusExtraInfo), *u.TotalPoints)
	} else {
		b.line("Status: %s", statusName(u.StatusExtraInfo))
	}
	if !u.DueDate.IsZero() {
		b.line("Due Date: %s", u.DueDate)
	}
	if len(u.Tasks) > 0 {
		subjects := make([]string, 0, len(u.Tasks))
		for _, t := range u.Tasks {
			subjects = append(subjects, fmt.Sprintf("#%d %s", t.Ref, t.Subject))
		}
		b.line("Tasks: %d - %s", len(u.Tasks), strings.Join(subjects, ", "))
	}
	if len(u.Tags) > 0 {
		b.line("Tags: %s", joinTags(u.Tags))
	}
	b.line("Project: %d - %s", u.Project, projectName(u.ProjectExtraInfo))
	if u.MilestoneName != "" {
		b.line("Milestone: %s", u.MilestoneName)
	}
	if len(u.Epics) > 0 {
		epics := make([]string, 0, len(u.Epics))
		for _, e := range u.Epics {
			epics = append(epics, fmt.Sprintf("#%d %s", e.Ref, e.Subject))
		}
		b.line("Epic(s): %s", strings.Join(epics, ", "))
	}
	itemFooter(&b, u.Description, u.Attachments)
	return b.String()
}

func (p Project) String() string {
	var b block
	b.line("ID: %d", p.ID)
	b.line("Name: %s", p.Name)
	b.line("Slug: %s", p.Slug)
	if names := p.MemberNames(); len(names) > 0 {
		b.line("Members: %s", strings.Join(names, ", "))
	}
	if strings.TrimSpace(p.Description) != "" {
		b.line("Description: \n%s", p.Description)
	}
	return b.String()
}

func (m Milestone) String() string {
	var b block
	b.line("ID: %d", m.ID)
	b.line("Name: %s", m.Name)
	b.line("Slug: %s", m.Slug)
	b.line("Project: %d", m.Project)
	b.line("Closed: %t", m.Closed)
	if !m.EstimatedStart.IsZero() {
		b.line("Estimated Start: %s", m.EstimatedStart)
	}
	if !m.EstimatedFinish.IsZero() {
		b.line("Estimated Finish: %s", m.EstimatedFinish)
	}
	return b.String()
}

func (w WikiPage) String() string {
	var b block
	b.line("ID: %d", w.ID)
	b.line("Slug: %s", w.Slug)
	b.line("Project: %d", w.Project)
	if strings.TrimSpace(w.Content) != "" {
		b.line("Content:")
		b.WriteString(w.Content)
	}
	return b.String()
}

func (w Webhook) String() string {
	var b block
	b.line("ID: %d", w.ID)
	b.line("Name: %s", w.Name)
	b.line("URL: %s", w.URL)
	b.line("Project: %d", w.Project)
	b.line("Active: %t", w.Active)
	return b.String()
}

func (l WebhookLog) String() string {
	return fmt.Sprintf("  Log %d: %s - Status: %d (%.0fms)", l.ID, l.Created, l.Status, l.Duration*1000)
}

func (u User) String() string {
	var b block
	b.line("ID: %d", u.ID)
	b.line("Username: %s", u.Username)
	b.line("Full Name: %s", u.FullName)
	b.line("Email: %s", u.Email)
	return b.String()
}

func (a Attachment) String() string {
	s := fmt.Sprintf("  ID: %d, Name: %s, Size: %d bytes", a.ID, a.Name, a.Size)
	if a.URL != "" {
		s += "\n    URL: " + a.URL
	}
	return s
}

func (c Comment) String() string {
	return fmt.Sprintf("  Comment %d: %s\n    %s", c.ID, c.CreatedDate.Format(timestampLayout), c.Comment)
}

func (h HistoryEntry) String() string {
	s := fmt.Sprintf("  Entry %s: %s - Type: %d", h.ID, h.CreatedAt.Format(timestampLayout), h.Type)
	if strings.TrimSpace(h.Comment) != "" {
		s += "\n    Comment: " + h.Comment
	}
	return s
}

func (m Membership) String() string {
	return fmt.Sprintf("  ID: %d, User: %d, Role: %d", m.ID, m.User, m.Role)
}

func (r Role) String() string {
	return fmt.Sprintf("  ID: %d, Name: %s, Slug: %s", r.ID, r.Name, r.Slug)
}

func (s Status) String() string {
	closed := ""
	if s.IsClosed {
		closed = " (closed)"
	}
	return fmt.Sprintf("  ID: %d, Name: %s%s", s.ID, s.Name, closed)
}

func (n Notification) String() string {
	state := "unread"
	if n.Read {
		state = "read"
	}
	return fmt.Sprintf("  Notification %d: %s [%s]", n.ID, n.Created.Format(timestampLayout), state)
}

func (e TimelineEntry) String() string {
	return fmt.Sprintf("  %s %s", e.Created.Format(timestampLayout), e.EventType)
}

func (r ItemRef) String() string {
	return fmt.Sprintf("    #[%d] %s", r.Ref, r.Subject)
}

func (r SearchResult) String() string {
	var b strings.Builder
	section := func(title string, items []ItemRef) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n  %s:\n", title)
		for _, it := range items {
			b.WriteString(it.String())
			b.WriteString("\n")
		}
	}
	section("Epics", r.Epics)
	section("Wiki Pages", r.WikiPages)
	section("Issues", r.Issues)
	section("Tasks", r.Tasks)
	section("User Stories", r.UserStories)
	return b.String()
}

// FormatMap renders a free-form stats document as sorted "key: value" lines.
func FormatMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b block
	for _, k := range keys {
		switch v := m[k].(type) {
		case map[string]any, []any:
			b.line("%s: %s", k, compact(v))
		default:
			b.line("%s: %v", k, v)
		}
	}
	return b.String()
}

func compact(v any) string {
	s := fmt.Sprintf("%v", v)
	if len(s) > 120 {
		s = s[:117] + "..."
	}
	return s
}
