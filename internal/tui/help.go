package tui

import "strings"

func renderHelp(m model) string {
	var b strings.Builder
	w := m.width

	b.WriteString(renderBreadcrumb([]string{"taiga", "help"}))
	b.WriteString("\n\n")

	var sections strings.Builder

	sections.WriteString(breadcrumbActiveStyle.Render("Navigation"))
	sections.WriteString("\n")
	sections.WriteString(formatHelpLine("j/↓", "Move down"))
	sections.WriteString(formatHelpLine("k/↑", "Move up"))
	sections.WriteString(formatHelpLine("enter", "Select / drill down"))
	sections.WriteString(formatHelpLine("esc", "Back / clear filter"))
	sections.WriteString(formatHelpLine("/", "Filter list"))
	sections.WriteString(formatHelpLine("ctrl+r", "Reload from Taiga"))
	sections.WriteString(formatHelpLine("b", "Open in browser"))
	sections.WriteString(formatHelpLine("?", "Toggle this help"))
	sections.WriteString(formatHelpLine("q", "Quit"))

	sections.WriteString("\n")
	sections.WriteString(breadcrumbActiveStyle.Render("Project"))
	sections.WriteString("\n")
	sections.WriteString(formatHelpLine("tab", "Next list (user stories, issues, tasks, epics)"))
	sections.WriteString(formatHelpLine("shift+tab", "Previous list"))
	sections.WriteString(formatHelpLine("c", "Hide or show closed items"))
	sections.WriteString(formatHelpLine("enter", "Show item details"))

	b.WriteString(renderTitledPanel("Keybindings", sections.String(), w))
	b.WriteString("\n\n")
	b.WriteString(renderHelpBar([]helpItem{{"?", "close"}, {"q", "quit"}}))
	b.WriteString("\n")

	return b.String()
}

func formatHelpLine(key, desc string) string {
	return "  " + helpKeyStyle.Width(10).Render(key) + "  " + dimStyle.Render(desc) + "\n"
}
