package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/protocollar/taiga/internal/opener"
)

type viewState int

const (
	viewProjects viewState = iota
	viewItems
	viewDetail
	viewHelp
)

const toastDuration = 3 * time.Second

type model struct {
	ctx     context.Context
	src     source
	apiBase string
	open    func(url string) error

	view         viewState
	previousView viewState
	projects     []projectItem
	project      *projectItem
	items        items
	tab          kind
	hideClosed   bool
	detail       *row
	detailOffset int
	cursor       int

	// startProject is entered as soon as the project list arrives.
	startProject int

	filtering   bool
	filterInput textinput.Model

	loading bool
	err     error
	toast   string
	width   int
	height  int
	spinner spinner.Model
}

func newModel(ctx context.Context, src source, opts Options) model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = spinnerStyle

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "filter"
	fi.CharLimit = 64

	return model{
		ctx:          ctx,
		src:          src,
		apiBase:      opts.APIBase,
		open:         opener.Open,
		view:         viewProjects,
		startProject: opts.Project,
		filterInput:  fi,
		loading:      true,
		width:        80,
		height:       24,
		spinner:      s,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(loadProjectsCmd(m.ctx, m.src), m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case projectsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.projects = msg.projects
		m.cursor = 0
		if id := m.startProject; id > 0 {
			m.startProject = 0
			for i := range m.projects {
				if m.projects[i].ID == id {
					m.cursor = i
					return m.enterProject()
				}
			}
			m.err = fmt.Errorf("project %d not found or not visible to you", id)
		}
		return m, nil

	case itemsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			if m.view == viewProjects {
				m.project = nil
			}
			return m, nil
		}
		if m.project == nil || m.project.ID != msg.project {
			return m, nil
		}
		m.err = nil
		m.items = msg.items
		m.view = viewItems
		m.clampCursor(len(m.visibleRows()))
		return m, nil

	case browserResultMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.toast = "Opened " + msg.url
		return m, tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastTickMsg{} })

	case toastTickMsg:
		m.toast = ""
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}
	if m.loading {
		return m, nil
	}

	if key.Matches(msg, keys.Help) {
		if m.view == viewHelp {
			m.view = m.previousView
		} else {
			m.previousView = m.view
			m.view = viewHelp
		}
		return m, nil
	}

	switch m.view {
	case viewHelp:
		m.view = m.previousView
		return m, nil
	case viewProjects:
		return m.handleProjectKey(msg)
	case viewItems:
		return m.handleItemKey(msg)
	case viewDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

func (m model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.cursor = 0
		return m, nil
	case tea.KeyEnter:
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m model) startFilter() (tea.Model, tea.Cmd) {
	m.filtering = true
	m.cursor = 0
	cmd := m.filterInput.Focus()
	return m, cmd
}

func (m *model) clearFilter() {
	m.filtering = false
	m.filterInput.Blur()
	m.filterInput.SetValue("")
}

func (m *model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m model) handleProjectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleProjects()
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Filter):
		return m.startFilter()
	case key.Matches(msg, keys.Back):
		if m.filterInput.Value() != "" {
			m.clearFilter()
			m.cursor = 0
		}
	case key.Matches(msg, keys.Refresh):
		m.loading = true
		m.err = nil
		return m, tea.Batch(loadProjectsCmd(m.ctx, m.src), m.spinner.Tick)
	case key.Matches(msg, keys.Enter):
		if len(visible) > 0 {
			// Map the filtered cursor back onto the full list.
			for i := range m.projects {
				if m.projects[i].ID == visible[m.cursor].ID {
					m.cursor = i
					break
				}
			}
			m.clearFilter()
			return m.enterProject()
		}
	case key.Matches(msg, keys.Browser):
		if len(visible) > 0 {
			return m, m.openCmd(opener.ProjectURL(m.apiBase, visible[m.cursor].Slug))
		}
	}
	return m, nil
}

// enterProject starts loading the items of the project under the cursor.
func (m model) enterProject() (tea.Model, tea.Cmd) {
	p := m.projects[m.cursor]
	m.project = &p
	m.items = items{}
	m.tab = kindUserStories
	m.cursor = 0
	m.loading = true
	m.err = nil
	return m, tea.Batch(loadItemsCmd(m.ctx, m.src, p.ID), m.spinner.Tick)
}

func (m model) handleItemKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleRows()
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.NextTab):
		m.tab = (m.tab + 1) % numKinds
		m.cursor = 0
		m.clearFilter()
	case key.Matches(msg, keys.PrevTab):
		m.tab = (m.tab + numKinds - 1) % numKinds
		m.cursor = 0
		m.clearFilter()
	case key.Matches(msg, keys.Closed):
		m.hideClosed = !m.hideClosed
		m.clampCursor(len(m.visibleRows()))
	case key.Matches(msg, keys.Filter):
		return m.startFilter()
	case key.Matches(msg, keys.Back):
		if m.filterInput.Value() != "" {
			m.clearFilter()
			m.cursor = 0
			return m, nil
		}
		m.view = viewProjects
		m.err = nil
		m.cursor = 0
		for i := range m.projects {
			if m.project != nil && m.projects[i].ID == m.project.ID {
				m.cursor = i
				break
			}
		}
		m.project = nil
	case key.Matches(msg, keys.Refresh):
		if m.project != nil {
			m.loading = true
			m.err = nil
			return m, tea.Batch(loadItemsCmd(m.ctx, m.src, m.project.ID), m.spinner.Tick)
		}
	case key.Matches(msg, keys.Enter):
		if len(visible) > 0 {
			r := visible[m.cursor]
			m.detail = &r
			m.detailOffset = 0
			m.view = viewDetail
		}
	case key.Matches(msg, keys.Browser):
		if len(visible) > 0 && m.project != nil {
			return m, m.openCmd(opener.ItemURL(m.apiBase, m.project.Slug, m.tab.web(), visible[m.cursor].Ref))
		}
	}
	return m, nil
}

func (m model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.detailOffset > 0 {
			m.detailOffset--
		}
	case key.Matches(msg, keys.Down):
		if m.detail != nil && m.detailOffset < strings.Count(m.detail.Detail, "\n") {
			m.detailOffset++
		}
	case key.Matches(msg, keys.Back):
		m.view = viewItems
		m.detail = nil
	case key.Matches(msg, keys.Browser):
		if m.detail != nil && m.project != nil {
			return m, m.openCmd(opener.ItemURL(m.apiBase, m.project.Slug, m.tab.web(), m.detail.Ref))
		}
	}
	return m, nil
}

// visibleProjects applies the filter to the project list.
func (m model) visibleProjects() []projectItem {
	q := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
	if q == "" {
		return m.projects
	}
	var out []projectItem
	for _, p := range m.projects {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Slug), q) || strconv.Itoa(p.ID) == q {
			out = append(out, p)
		}
	}
	return out
}

// visibleRows applies the closed toggle and the filter to the current tab.
func (m model) visibleRows() []row {
	q := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
	ref := strings.TrimPrefix(q, "#")
	var out []row
	for _, r := range m.items[m.tab] {
		if m.hideClosed && r.Closed {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(r.Subject), q) &&
			strconv.Itoa(r.Ref) != ref && !strings.Contains(strings.ToLower(r.Assigned), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (m model) openCmd(url string) tea.Cmd {
	open := m.open
	return func() tea.Msg {
		return browserResultMsg{url: url, err: open(url)}
	}
}

func loadProjectsCmd(ctx context.Context, src source) tea.Cmd {
	return func() tea.Msg {
		ps, err := src.Projects(ctx)
		if err != nil {
			return projectsLoadedMsg{err: fmt.Errorf("loading projects: %w", err)}
		}
		return projectsLoadedMsg{projects: ps}
	}
}

func loadItemsCmd(ctx context.Context, src source, project int) tea.Cmd {
	return func() tea.Msg {
		it, err := src.Items(ctx, project)
		return itemsLoadedMsg{project: project, items: it, err: err}
	}
}

// Messages for async operations.

type projectsLoadedMsg struct {
	projects []projectItem
	err      error
}

type itemsLoadedMsg struct {
	project int
	items   items
	err     error
}

type browserResultMsg struct {
	url string
	err error
}

type toastTickMsg struct{}
