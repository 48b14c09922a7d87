package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderDetail renders the selected group: where it was seen and the console
// excerpt with the highlighted line marked.
func (m MainModel) renderDetail(item Item, maxWidth int) string {
	var content strings.Builder
	g := item.Group

	header := lipgloss.NewStyle().
		Foreground(m.styles.PrimaryBlue).
		Bold(true).
		Render(Wrap(fmt.Sprintf("#%d %s | %s | seen %d time(s)", g.Rank, item.KindLabel(), TierFilter(g.Tier), g.Count), maxWidth))
	fmt.Fprintf(&content, "%s\n\n", header)

	label := lipgloss.NewStyle().Foreground(m.styles.TextSecondary).Bold(true)
	faint := lipgloss.NewStyle().Foreground(m.styles.TextSecondary).Faint(true)

	if len(g.Machines) > 0 {
		fmt.Fprintln(&content, label.Render("Machines:"))
		fmt.Fprintln(&content, faint.Render(Wrap(strings.Join(g.Machines, ", "), maxWidth)))
		fmt.Fprintln(&content)
	}

	fmt.Fprintln(&content, label.Render("Builds:"))
	for _, u := range g.URLs {
		fmt.Fprintln(&content, faint.Render(Wrap(u, maxWidth)))
	}
	fmt.Fprintln(&content)

	lines, highlight := item.Excerpt()
	if len(lines) == 0 {
		fmt.Fprintln(&content, label.Render(g.Example.Reason))
		return content.String()
	}

	fmt.Fprintln(&content, label.Render("Output:"))
	hl := lipgloss.NewStyle().Foreground(m.styles.Highlight).Background(m.styles.HighlightBg).Bold(true)
	plain := lipgloss.NewStyle().Foreground(m.styles.TextPrimary)
	for i, line := range lines {
		wrapped := Wrap(line, maxWidth)
		if i == highlight {
			fmt.Fprintln(&content, hl.Render(wrapped))
		} else {
			fmt.Fprintln(&content, plain.Render(wrapped))
		}
	}
	return content.String()
}

// updateDetailContent shows the selected group in the viewport.
func (m *MainModel) updateDetailContent() {
	item, ok := m.listView.SelectedItem()
	if !ok {
		m.detailViewport.SetContent("")
		return
	}
	maxWidth := max(1, m.detailViewport.Width-2)
	m.detailViewport.SetContent(m.renderDetail(item, maxWidth))
	m.detailViewport.GotoTop()
}

// renderDetailPanel renders the right panel.
func (m MainModel) renderDetailPanel(width, height int) string {
	item, ok := m.listView.SelectedItem()
	if !ok {
		placeholder := renderHeaderRow(m.styles, " ", width)
		empty := m.styles.PanelStyle(false).
			Width(width - 2).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(m.styles.TextSecondary).
			Faint(true).
			Render(m.emptyMessage())
		return lipgloss.JoinVertical(lipgloss.Left, placeholder, empty)
	}

	header := renderHeaderRow(m.styles, item.Title(), width)
	panel := m.styles.PanelStyle(m.detailFocused).
		Width(width - 2).
		Height(height).
		Render(m.detailViewport.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, panel)
}

func (m MainModel) emptyMessage() string {
	if len(m.items) == 0 {
		return "No failures"
	}
	return "No failures match the filter"
}
