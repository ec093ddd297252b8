package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// chrome is the number of lines around the list panel: breadcrumb, tabs,
// panel borders, status line and help bar.
const chrome = 10

func (m model) View() string {
	var v string
	switch m.view {
	case viewHelp:
		v = renderHelp(m)
	case viewItems:
		v = renderItems(m)
	case viewDetail:
		v = renderDetail(m)
	default:
		v = renderProjects(m)
	}
	return padToHeight(v, m.height)
}

func (m model) listHeight() int {
	h := m.height - chrome
	if h < 3 {
		h = 3
	}
	return h
}

func (m model) breadcrumb(extra ...string) string {
	segs := []string{"taiga"}
	if m.project != nil {
		segs = append(segs, m.project.Name)
	} else {
		segs = append(segs, "projects")
	}
	return renderBreadcrumb(append(segs, extra...))
}

// statusLine shows the filter, the latest error or a toast.
func (m model) statusLine() string {
	switch {
	case m.filtering:
		return m.filterInput.View()
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.toast != "":
		return toastStyle.Render(m.toast)
	case m.filterInput.Value() != "":
		return filterActiveStyle.Render("filter: " + m.filterInput.Value())
	}
	return ""
}

func renderLoading(m model, title, what string) string {
	content := fmt.Sprintf("%s %s", m.spinner.View(), dimStyle.Render("Loading "+what+"..."))
	return renderTitledPanel(title, content, m.width)
}

func cursorPrefix(selected bool) string {
	if selected {
		return cursorStyle.Render("▸ ")
	}
	return "  "
}

func renderProjects(m model) string {
	var b strings.Builder
	b.WriteString(m.breadcrumb())
	b.WriteString("\n\n")

	if m.loading {
		what := "projects"
		if m.project != nil {
			what = m.project.Name
		}
		b.WriteString(renderLoading(m, "Projects", what))
		b.WriteString("\n")
		return b.String()
	}

	visible := m.visibleProjects()
	var content string
	if len(visible) == 0 {
		if len(m.projects) == 0 {
			content = dimStyle.Render("No projects found.")
		} else {
			content = dimStyle.Render("No projects match the filter.")
		}
	} else {
		var rows []string
		nameWidth := m.width / 3
		start, end := scrollWindow(m.cursor, len(visible), m.listHeight())
		for i := start; i < end; i++ {
			p := visible[i]
			name := truncate(p.Name, nameWidth)
			style := normalRowStyle
			if i == m.cursor {
				style = selectedRowStyle
			}
			meta := fmt.Sprintf("%d members", p.Members)
			if p.Private {
				meta += " · private"
			}
			line := cursorPrefix(i == m.cursor) +
				refStyle.Render(fmt.Sprintf("%-6d", p.ID)) + " " +
				style.Render(name) + strings.Repeat(" ", max(1, nameWidth-lipgloss.Width(name)+2)) +
				dimStyle.Render(meta)
			rows = append(rows, line)
		}
		content = strings.Join(rows, "\n")
	}
	b.WriteString(renderTitledPanel(fmt.Sprintf("Projects (%d)", len(visible)), content, m.width))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")
	b.WriteString(renderHelpBar([]helpItem{
		{"enter", "open"}, {"/", "filter"}, {"b", "browser"}, {"ctrl+r", "refresh"}, {"?", "help"}, {"q", "quit"},
	}))
	b.WriteString("\n")
	return b.String()
}

func renderTabs(active kind, all items) string {
	var parts []string
	for k := kind(0); k < numKinds; k++ {
		label := fmt.Sprintf("%s (%d)", k, len(all[k]))
		if k == active {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return "  " + strings.Join(parts, "   ")
}

func renderItems(m model) string {
	var b strings.Builder
	b.WriteString(m.breadcrumb(m.tab.String()))
	b.WriteString("\n\n")
	b.WriteString(renderTabs(m.tab, m.items))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(renderLoading(m, m.tab.String(), strings.ToLower(m.tab.String())))
		b.WriteString("\n")
		return b.String()
	}

	visible := m.visibleRows()
	var content string
	if len(visible) == 0 {
		content = dimStyle.Render(fmt.Sprintf("No %s found.", strings.ToLower(m.tab.String())))
	} else {
		var rows []string
		statusWidth := 14
		subjectWidth := m.width - 8 - 8 - statusWidth - 16
		if subjectWidth < 10 {
			subjectWidth = 10
		}
		start, end := scrollWindow(m.cursor, len(visible), m.listHeight())
		for i := start; i < end; i++ {
			r := visible[i]
			subject := truncate(r.Subject, subjectWidth)
			style := normalRowStyle
			if i == m.cursor {
				style = selectedRowStyle
			}
			status := statusOpenStyle.Render(truncate(r.Status, statusWidth))
			if r.Closed {
				status = statusClosedStyle.Render(truncate(r.Status, statusWidth))
			}
			line := cursorPrefix(i == m.cursor) +
				refStyle.Render(fmt.Sprintf("#%-6d", r.Ref)) + " " +
				style.Render(subject) + strings.Repeat(" ", max(1, subjectWidth-lipgloss.Width(subject)+2)) +
				status
			if r.Assigned != "" {
				line += "  " + dimStyle.Render("@"+r.Assigned)
			}
			rows = append(rows, line)
		}
		content = strings.Join(rows, "\n")
	}
	title := fmt.Sprintf("%s (%d)", m.tab, len(visible))
	if m.hideClosed {
		title += " · open only"
	}
	b.WriteString(renderTitledPanel(title, content, m.width))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")
	b.WriteString(renderHelpBar([]helpItem{
		{"enter", "details"}, {"tab", "next list"}, {"c", "closed"}, {"/", "filter"}, {"b", "browser"}, {"esc", "back"}, {"q", "quit"},
	}))
	b.WriteString("\n")
	return b.String()
}

func renderDetail(m model) string {
	var b strings.Builder
	if m.detail == nil {
		return renderItems(m)
	}
	b.WriteString(m.breadcrumb(m.tab.String(), fmt.Sprintf("#%d", m.detail.Ref)))
	b.WriteString("\n\n")

	wrapped := lipgloss.NewStyle().Width(max(10, m.width-4)).Render(strings.TrimRight(m.detail.Detail, "\n"))
	lines := strings.Split(wrapped, "\n")
	height := m.listHeight() + 2
	offset := min(m.detailOffset, max(0, len(lines)-height))
	end := min(len(lines), offset+height)
	lines = lines[offset:end]
	for i, l := range lines {
		if label, value, ok := strings.Cut(l, ": "); ok && len(label) < 12 {
			lines[i] = renderDetailRow(label+":", value)
		}
	}

	b.WriteString(renderTitledPanel(truncate(m.detail.Subject, max(10, m.width-10)), strings.Join(lines, "\n"), m.width))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")
	b.WriteString(renderHelpBar([]helpItem{{"j/k", "scroll"}, {"b", "browser"}, {"esc", "back"}, {"q", "quit"}}))
	b.WriteString("\n")
	return b.String()
}
