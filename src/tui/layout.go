package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type panelDimensions struct {
	availableHeight int
	leftPanelWidth  int
	rightPanelWidth int
}

// calculateDimensions splits the terminal into list (45%) and detail panels.
func (m MainModel) calculateDimensions() panelDimensions {
	headerHeight := lipgloss.Height(m.header.Render(m.width))
	// header + help line + panel header row + panel borders
	availableHeight := max(1, m.height-headerHeight-1-1-2)

	leftPanelWidth := int(float64(m.width) * 0.45)
	return panelDimensions{
		availableHeight: availableHeight,
		leftPanelWidth:  leftPanelWidth,
		rightPanelWidth: m.width - leftPanelWidth,
	}
}

func (m MainModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	header := m.header.Render(m.width)

	switch m.status {
	case StatusLoading:
		progress := lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			PaddingTop(2).
			Render(m.progress.View())
		return lipgloss.JoinVertical(lipgloss.Left, header, progress)
	case StatusError:
		msg := lipgloss.NewStyle().
			Foreground(m.styles.Highlight).
			Width(m.width).
			Padding(1, 2).
			Render(Wrap(fmt.Sprintf("Error: %v", m.err), max(1, m.width-4)))
		return lipgloss.JoinVertical(lipgloss.Left, header, msg, m.styles.HelpStyle().Render("q: Quit"))
	}

	dims := m.calculateDimensions()
	left := m.renderListPanel(dims.leftPanelWidth, dims.availableHeight)
	right := m.renderDetailPanel(dims.rightPanelWidth, dims.availableHeight)
	main := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left, header, main, m.renderHelpText())
}

func (m MainModel) renderHelpText() string {
	keyStyle := lipgloss.NewStyle().Foreground(m.styles.PrimaryBlue).Bold(true)
	sep := lipgloss.NewStyle().Foreground(m.styles.TextSecondary).Render(" • ")

	var help string
	switch {
	case m.searchMode:
		help = keyStyle.Render("Enter") + ": Apply" + sep + keyStyle.Render("Esc") + ": Clear"
	case m.detailFocused:
		help = keyStyle.Render("j/k") + ": Scroll" + sep + keyStyle.Render("Esc") + ": Back" + sep + keyStyle.Render("q") + ": Quit"
	default:
		help = keyStyle.Render("j/k") + ": Nav" + sep +
			keyStyle.Render("0-3") + ": Tier" + sep +
			keyStyle.Render("Tab") + ": Next tier" + sep +
			keyStyle.Render("Enter") + ": View" + sep +
			keyStyle.Render("/") + ": Search" + sep +
			keyStyle.Render("q") + ": Quit"
	}
	return m.styles.HelpStyle().MaxWidth(m.width).Render(help)
}

// resizeComponents fits the list and viewport to the window.
func (m *MainModel) resizeComponents() {
	dims := m.calculateDimensions()

	m.listView.SetSize(dims.leftPanelWidth-2, dims.availableHeight)
	m.detailViewport.Width = dims.rightPanelWidth - 2
	m.detailViewport.Height = dims.availableHeight
	m.updateDetailContent()
}
