package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderListPanel renders the column headers and bordered list.
func (m MainModel) renderListPanel(width, height int) string {
	listPanel := m.styles.PanelStyle(!m.detailFocused).
		Width(width - 2).
		Height(height).
		Render(m.listView.Render())

	header := renderHeaderRow(m.styles, m.listView.Delegate().headerRow(), width)
	return lipgloss.JoinVertical(lipgloss.Left, header, listPanel)
}
