package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protocollar/taiga/internal/attach"
	"github.com/protocollar/taiga/internal/exitcode"
	"github.com/protocollar/taiga/internal/opener"
	"github.com/protocollar/taiga/internal/output"
	"github.com/protocollar/taiga/internal/resolve"
	"github.com/protocollar/taiga/internal/taiga"
)

// noFieldsMessage is printed by edit commands given nothing to change.
const noFieldsMessage = "No fields to update. Please specify at least one field to modify."

// item is a DTO the shared epic/issue/task/userstory commands can handle.
type item interface {
	fmt.Stringer
	Key() taiga.ItemKey
}

// itemAPI is the endpoint set epics, issues, tasks and user stories share.
type itemAPI[T any] interface {
	List(ctx context.Context, opts taiga.ListOptions) ([]T, error)
	ByRef(ctx context.Context, project, ref int) (*T, error)
	Create(ctx context.Context, f taiga.Fields) (*T, error)
	Update(ctx context.Context, id int, f taiga.Fields) (*T, error)
	Delete(ctx context.Context, id int) error
	History(ctx context.Context, id int) ([]taiga.HistoryEntry, error)
	Comments(ctx context.Context, id int) ([]taiga.Comment, error)
	AddComment(ctx context.Context, id int, text string) (*taiga.Comment, error)
	UploadAttachment(ctx context.Context, id int, up taiga.Upload) (*taiga.Attachment, error)
}

// voteAPI is implemented by issues, tasks and user stories.
type voteAPI interface {
	Upvote(ctx context.Context, id int) error
	Downvote(ctx context.Context, id int) error
	Watch(ctx context.Context, id int) error
	Unwatch(ctx context.Context, id, userID int) error
}

// Optional item fields. Each kind enables the ones Taiga accepts for it.
const (
	fieldType      = "type"
	fieldPriority  = "priority"
	fieldSeverity  = "severity"
	fieldUserStory = "user-story"
	fieldMilestone = "milestone"
)

// itemKind describes one work item type to the shared commands.
type itemKind[T item] struct {
	noun    string // "user story"
	plural  string // "user stories"
	web     string // opener kind
	status  taiga.StatusKind
	fields  []string
	api     func(*taiga.Client) itemAPI[T]
	example string
}

func (k itemKind[T]) has(field string) bool {
	for _, f := range k.fields {
		if f == field {
			return true
		}
	}
	return false
}

// fetch resolves a #ref argument in the project selected by -p.
func (k itemKind[T]) fetch(a *app, projectFlag int, arg string) (*T, error) {
	ref, err := parseRef(arg)
	if err != nil {
		return nil, err
	}
	project, err := a.project(projectFlag)
	if err != nil {
		return nil, err
	}
	it, err := k.api(a.c).ByRef(a.ctx, project, ref)
	if err != nil {
		if taiga.IsNotFound(err) {
			return nil, exitcode.Wrap("not_found", exitcode.NotFound, fmt.Errorf("%s #%d not found in project %d", k.noun, ref, project))
		}
		return nil, fmt.Errorf("fetching %s #%d: %w", k.noun, ref, err)
	}
	return it, nil
}

// itemFlags holds the create/edit flag values of one command.
type itemFlags struct {
	project     int
	subject     string
	description string
	status      string
	assignee    string
	tags        string
	issueType   string
	priority    string
	severity    string
	userStory   string
	milestone   string
}

func (k itemKind[T]) bindFields(cmd *cobra.Command, f *itemFlags) {
	fl := cmd.Flags()
	fl.IntVarP(&f.project, "project", "p", 0, "project id (defaults to the configured project)")
	fl.StringVarP(&f.subject, "subject", "t", "", "subject (title)")
	fl.StringVarP(&f.description, "description", "d", "", "description (markdown)")
	fl.StringVarP(&f.status, "status", "s", "", "status name or id")
	fl.StringVarP(&f.assignee, "assigned-to", "a", "", "assignee username or id (empty to unassign)")
	fl.StringVar(&f.tags, "tags", "", "comma-separated tags")
	if k.has(fieldType) {
		fl.StringVarP(&f.issueType, "type", "y", "", "issue type name or id")
	}
	if k.has(fieldPriority) {
		fl.StringVarP(&f.priority, "priority", "r", "", "priority name or id")
	}
	if k.has(fieldSeverity) {
		fl.StringVarP(&f.severity, "severity", "v", "", "severity name or id")
	}
	if k.has(fieldUserStory) {
		fl.StringVarP(&f.userStory, "user-story", "u", "", "user story #ref")
	}
	if k.has(fieldMilestone) {
		fl.StringVarP(&f.milestone, "milestone", "m", "", "milestone name or id")
	}
}

// itemInput holds the fields a caller supplied. nil leaves a field unchanged;
// an empty assignee or milestone clears it.
type itemInput struct {
	subject, description, tags            *string
	status, issueType, priority, severity *string
	assignee, milestone                   *string
	userStory                             *int // #ref
}

// resolveFields turns input into a request body. Names are resolved
// against project.
func (k itemKind[T]) resolveFields(ctx context.Context, r *resolve.Resolver, in itemInput, project int) (taiga.Fields, error) {
	out := taiga.Fields{}
	if in.subject != nil {
		out["subject"] = *in.subject
	}
	if in.description != nil {
		out["description"] = *in.description
	}
	if in.tags != nil {
		tags := resolve.Tags(*in.tags)
		if tags == nil {
			tags = []string{}
		}
		out["tags"] = tags
	}

	vocab := []struct {
		key   string
		value *string
		kind  taiga.StatusKind
	}{
		{"status", in.status, k.status},
		{"type", in.issueType, taiga.IssueType},
		{"priority", in.priority, taiga.Priority},
		{"severity", in.severity, taiga.Severity},
	}
	for _, v := range vocab {
		if v.value == nil {
			continue
		}
		id, err := r.StatusID(ctx, v.kind, project, *v.value)
		if err != nil {
			return nil, invalidName(err)
		}
		out[v.key] = id
	}

	if in.assignee != nil {
		if strings.TrimSpace(*in.assignee) == "" {
			out["assigned_to"] = nil
		} else {
			id, err := r.UserID(ctx, project, *in.assignee)
			if err != nil {
				return nil, invalidName(err)
			}
			out["assigned_to"] = id
		}
	}
	if in.userStory != nil {
		id, err := r.UserStoryID(ctx, project, *in.userStory)
		if err != nil {
			return nil, invalidName(err)
		}
		out["user_story"] = id
	}
	if in.milestone != nil {
		if strings.TrimSpace(*in.milestone) == "" {
			out["milestone"] = nil
		} else {
			id, err := r.MilestoneID(ctx, project, *in.milestone)
			if err != nil {
				return nil, invalidName(err)
			}
			out["milestone"] = id
		}
	}
	return out, nil
}

// buildFields collects the flags the user set and resolves them.
func (k itemKind[T]) buildFields(a *app, cmd *cobra.Command, f *itemFlags, project int) (taiga.Fields, error) {
	fl := cmd.Flags()
	set := func(name string, v *string) *string {
		if fl.Lookup(name) != nil && fl.Changed(name) {
			return v
		}
		return nil
	}
	in := itemInput{
		subject:     set("subject", &f.subject),
		description: set("description", &f.description),
		tags:        set("tags", &f.tags),
		status:      set("status", &f.status),
		issueType:   set("type", &f.issueType),
		priority:    set("priority", &f.priority),
		severity:    set("severity", &f.severity),
		assignee:    set("assigned-to", &f.assignee),
		milestone:   set("milestone", &f.milestone),
	}
	if s := set("user-story", &f.userStory); s != nil {
		ref, err := parseRef(*s)
		if err != nil {
			return nil, err
		}
		in.userStory = &ref
	}
	return k.resolveFields(a.ctx, a.r, in, project)
}

func (k itemKind[T]) listCmd(extra func(*cobra.Command, *itemListFlags)) *cobra.Command {
	var f itemListFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List " + k.plural,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			opts := taiga.ListOptions{Project: a.optionalProject(f.project)}
			if f.epic != "" || f.userStory != "" {
				if opts.Project == 0 {
					return exitcode.Invalid("a project is required when filtering by #ref")
				}
			}
			if f.epic != "" {
				ref, err := parseRef(f.epic)
				if err != nil {
					return err
				}
				if opts.Epic, err = a.r.EpicID(a.ctx, opts.Project, ref); err != nil {
					return err
				}
			}
			if f.userStory != "" {
				ref, err := parseRef(f.userStory)
				if err != nil {
					return err
				}
				if opts.UserStory, err = a.r.UserStoryID(a.ctx, opts.Project, ref); err != nil {
					return err
				}
			}
			if f.milestone != "" {
				if opts.Milestone, err = a.r.MilestoneID(a.ctx, opts.Project, f.milestone); err != nil {
					return invalidName(err)
				}
			}
			items, err := k.api(a.c).List(a.ctx, opts)
			if err != nil {
				return fmt.Errorf("listing %s: %w", k.plural, err)
			}
			return output.List(items, k.noun, k.plural)
		},
	}
	cmd.Flags().IntVarP(&f.project, "project", "p", 0, "project id (defaults to the configured project)")
	if extra != nil {
		extra(cmd, &f)
	}
	return cmd
}

type itemListFlags struct {
	project   int
	epic      string
	userStory string
	milestone string
}

func (k itemKind[T]) getCmd() *cobra.Command {
	var project int
	cmd := &cobra.Command{
		Use:   "get <ref>",
		Short: "Show a " + k.noun + " by #ref",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			it, err := k.fetch(a, project, args[0])
			if err != nil {
				return err
			}
			return output.Item(*it)
		},
	}
	cmd.Flags().IntVarP(&project, "project", "p", 0, "project id (defaults to the configured project)")
	return cmd
}

func (k itemKind[T]) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the change history of a " + k.noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			entries, err := k.api(a.c).History(a.ctx, id)
			if err != nil {
				return fmt.Errorf("fetching history: %w", err)
			}
			return output.List(entries, "history entry", "history entries")
		},
	}
}

func (k itemKind[T]) commentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments <id>",
		Short: "List the comments on a " + k.noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			comments, err := k.api(a.c).Comments(a.ctx, id)
			if err != nil {
				return fmt.Errorf("fetching comments: %w", err)
			}
			return output.List(comments, "comment", "comments")
		},
	}
}

func (k itemKind[T]) commentCmd() *cobra.Command {
	var project int
	var message string
	cmd := &cobra.Command{
		Use:   "comment <ref>",
		Short: "Comment on a " + k.noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(message) == "" {
				return exitcode.Invalid("a comment is required (-m)")
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			it, err := k.fetch(a, project, args[0])
			if err != nil {
				return err
			}
			key := (*it).Key()
			c, err := k.api(a.c).AddComment(a.ctx, key.ID, message)
			if err != nil {
				return fmt.Errorf("adding comment: %w", err)
			}
			return output.Result(c, fmt.Sprintf("Comment added to %s #%d.", k.noun, key.Ref))
		},
	}
	cmd.Flags().IntVarP(&project, "project", "p", 0, "project id (defaults to the configured project)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "comment text")
	return cmd
}

func (k itemKind[T]) createCmd() *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a " + k.noun,
		Example: k.example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(f.subject) == "" {
				return exitcode.Invalid("a subject is required (-t)")
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			project, err := a.project(f.project)
			if err != nil {
				return err
			}
			fields, err := k.buildFields(a, cmd, &f, project)
			if err != nil {
				return err
			}
			fields["project"] = project
			slog.Debug("creating item", "kind", k.noun, "project", project, "fields", len(fields))
			it, err := k.api(a.c).Create(a.ctx, fields)
			if err != nil {
				return fmt.Errorf("creating %s: %w", k.noun, err)
			}
			return output.Result(it, fmt.Sprintf("%s created successfully:\n%s", capitalize(k.noun), *it))
		},
	}
	k.bindFields(cmd, &f)
	return cmd
}

func (k itemKind[T]) editCmd() *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "edit <ref>",
		Short: "Edit a " + k.noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			it, err := k.fetch(a, f.project, args[0])
			if err != nil {
				return err
			}
			key := (*it).Key()
			fields, err := k.buildFields(a, cmd, &f, key.Project)
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				return output.Done(noFieldsMessage, map[string]any{"updated": false})
			}
			fields["version"] = key.Version
			updated, err := k.api(a.c).Update(a.ctx, key.ID, fields)
			if err != nil {
				return fmt.Errorf("updating %s #%d: %w", k.noun, key.Ref, err)
			}
			return output.Result(updated, fmt.Sprintf("%s updated successfully:\n%s", capitalize(k.noun), *updated))
		},
	}
	k.bindFields(cmd, &f)
	return cmd
}

func (k itemKind[T]) deleteCmd() *cobra.Command {
	var project int
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <ref>",
		Short: "Delete a " + k.noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			it, err := k.fetch(a, project, args[0])
			if err != nil {
				return err
			}
			key := (*it).Key()
			if !yes {
				ok, err := confirm(fmt.Sprintf("Delete %s #%d?", k.noun, key.Ref))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(output.MsgOut(), "Cancelled.")
					return nil
				}
			}
			if err := k.api(a.c).Delete(a.ctx, key.ID); err != nil {
				return fmt.Errorf("deleting %s #%d: %w", k.noun, key.Ref, err)
			}
			return output.Done(fmt.Sprintf("Deleted %s #%d.", k.noun, key.Ref), map[string]any{"id": key.ID, "ref": key.Ref})
		},
	}
	cmd.Flags().IntVarP(&project, "project", "p", 0, "project id (defaults to the configured project)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (k itemKind[T]) attachCmd() *cobra.Command {
	var project int
	var description string
	cmd := &cobra.Command{
		Use:   "attach <ref> <file|glob>...",
		Short: "Upload files to a " + k.noun,
		Example: `  taiga ` + strings.ReplaceAll(k.noun, " ", "") + ` attach 42 screenshot.png
  taiga ` + strings.ReplaceAll(k.noun, " ", "") + ` attach 42 'logs/**/*.log'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := attach.Expand(args[1:])
			if err != nil {
				return exitcode.Wrap("invalid_input", exitcode.InvalidInput, err)
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			it, err := k.fetch(a, project, args[0])
			if err != nil {
				return err
			}
			key := (*it).Key()
			var uploaded []taiga.Attachment
			for _, path := range files {
				fmt.Fprintf(output.MsgOut(), "Uploading %s...\n", path)
				att, err := k.api(a.c).UploadAttachment(a.ctx, key.ID, taiga.Upload{
					Project:     key.Project,
					Path:        path,
					Description: description,
				})
				if err != nil {
					return fmt.Errorf("uploading %s: %w", path, err)
				}
				uploaded = append(uploaded, *att)
			}
			return output.List(uploaded, "attachment", "attachments")
		},
	}
	cmd.Flags().IntVarP(&project, "project", "p", 0, "project id (defaults to the configured project)")
	cmd.Flags().StringVar(&description, "description", "", "attachment description")
	return cmd
}

func (k itemKind[T]) openCmd() *cobra.Command {
	var project int
	cmd := &cobra.Command{
		Use:   "open <ref>",
		Short: "Open a " + k.noun + " in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			it, err := k.fetch(a, project, args[0])
			if err != nil {
				return err
			}
			key := (*it).Key()
			slug := key.ProjectSlug
			if slug == "" {
				p, err := a.c.Projects.Get(a.ctx, key.Project)
				if err != nil {
					return fmt.Errorf("fetching project %d: %w", key.Project, err)
				}
				slug = p.Slug
			}
			url := opener.ItemURL(a.c.BaseURL(), slug, k.web, key.Ref)
			if output.Structured() {
				return output.Write(map[string]string{"url": url})
			}
			fmt.Fprintln(output.MsgOut(), url)
			return opener.Open(url)
		},
	}
	cmd.Flags().IntVarP(&project, "project", "p", 0, "project id (defaults to the configured project)")
	return cmd
}

// voteCmds builds upvote, downvote, watch and unwatch.
func (k itemKind[T]) voteCmds(votes func(*taiga.Client) voteAPI) []*cobra.Command {
	type action struct {
		use, short, done string
		run              func(a *app, v voteAPI, id int) error
	}
	actions := []action{
		{"upvote", "Vote for a " + k.noun, "Upvoted", func(a *app, v voteAPI, id int) error { return v.Upvote(a.ctx, id) }},
		{"downvote", "Vote against a " + k.noun, "Downvoted", func(a *app, v voteAPI, id int) error { return v.Downvote(a.ctx, id) }},
		{"watch", "Watch a " + k.noun, "Watching", func(a *app, v voteAPI, id int) error { return v.Watch(a.ctx, id) }},
		{"unwatch", "Stop watching a " + k.noun, "Stopped watching", func(a *app, v voteAPI, id int) error {
			me, err := a.c.Users.Me(a.ctx)
			if err != nil {
				return err
			}
			return v.Unwatch(a.ctx, id, me.ID)
		}},
	}
	cmds := make([]*cobra.Command, 0, len(actions))
	for _, act := range actions {
		var project int
		cmd := &cobra.Command{
			Use:   act.use + " <ref>",
			Short: act.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd)
				if err != nil {
					return err
				}
				it, err := k.fetch(a, project, args[0])
				if err != nil {
					return err
				}
				key := (*it).Key()
				if err := act.run(a, votes(a.c), key.ID); err != nil {
					return fmt.Errorf("%s %s #%d: %w", act.use, k.noun, key.Ref, err)
				}
				return output.Done(fmt.Sprintf("%s %s #%d.", act.done, k.noun, key.Ref), map[string]any{"id": key.ID, "ref": key.Ref})
			},
		}
		cmd.Flags().IntVarP(&project, "project", "p", 0, "project id (defaults to the configured project)")
		cmds = append(cmds, cmd)
	}
	return cmds
}

// commonCmds are the subcommands every work item kind has.
func (k itemKind[T]) commonCmds() []*cobra.Command {
	return []*cobra.Command{
		k.getCmd(),
		k.historyCmd(),
		k.commentsCmd(),
		k.commentCmd(),
		k.createCmd(),
		k.editCmd(),
		k.deleteCmd(),
		k.attachCmd(),
		k.openCmd(),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
