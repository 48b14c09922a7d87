package tui

import (
	"github.com/charmbracelet/lipgloss"

	"cisleuth/src/ranking"
)

// StyleConfig holds the colors of the failure browser.
type StyleConfig struct {
	PrimaryBlue    lipgloss.Color
	AccentBlue     lipgloss.Color
	DarkBackground lipgloss.Color
	CardBackground lipgloss.Color
	TextPrimary    lipgloss.Color
	TextSecondary  lipgloss.Color
	BorderColor    lipgloss.Color
	SelectedColor  lipgloss.Color
	Highlight      lipgloss.Color
	HighlightBg    lipgloss.Color

	// Per tier, indexed by ranking tier.
	TierColors map[int]lipgloss.Color
}

// DefaultStyles returns the default palette.
func DefaultStyles() *StyleConfig {
	return &StyleConfig{
		PrimaryBlue:    lipgloss.Color("#8AB4F8"),
		AccentBlue:     lipgloss.Color("#4285F4"),
		DarkBackground: lipgloss.Color("#1E1E1E"),
		CardBackground: lipgloss.Color("#2D2D2D"),
		TextPrimary:    lipgloss.Color("#E8EAED"),
		TextSecondary:  lipgloss.Color("#9AA0A6"),
		BorderColor:    lipgloss.Color("#5F6368"),
		SelectedColor:  lipgloss.Color("#303134"),
		Highlight:      lipgloss.Color("#FF5F56"),
		HighlightBg:    lipgloss.Color("#2D0000"),
		TierColors: map[int]lipgloss.Color{
			ranking.TierWidespread: lipgloss.Color("#EA4335"), // Red
			ranking.TierIsolated:   lipgloss.Color("#FBBC04"), // Yellow
			ranking.TierSentinel:   lipgloss.Color("#9AA0A6"), // Gray
		},
	}
}

// TierStyle colors text by tier.
func (s *StyleConfig) TierStyle(tier int) lipgloss.Style {
	c, ok := s.TierColors[tier]
	if !ok {
		c = s.TextSecondary
	}
	return lipgloss.NewStyle().Foreground(c)
}

// TitleStyle returns a bold title style.
func (s *StyleConfig) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.PrimaryBlue).
		Bold(true).
		Padding(0, 1)
}

// HelpStyle returns the help line style.
func (s *StyleConfig) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TextSecondary).
		Padding(0, 2)
}

// PanelStyle returns a bordered panel, accented when focused.
func (s *StyleConfig) PanelStyle(focused bool) lipgloss.Style {
	border := s.BorderColor
	if focused {
		border = s.AccentBlue
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
}
