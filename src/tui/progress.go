package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var logo = []string{
	"  ▄▄▄  ▄  ▄▄▄  ▄     ▄▄▄▄ ▄   ▄ ▄▄▄▄▄ ▄   ▄",
	" █     █ █     █     █    █   █   █   █   █",
	" █     █  ▀▀▄  █     █▀▀  █   █   █   █▀▀▀█",
	"  ▀▀▀  ▀ ▀▀▀   ▀▀▀▀▀ ▀▀▀▀  ▀▀▀    ▀   ▀   ▀",
}

var logoGradientColors = []string{
	"#5DADE2",
	"#3498DB",
	"#2E86C1",
	"#21618C",
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ProgressMsg reports resolution progress. Done marks one finished unit.
type ProgressMsg struct {
	Stage string
	Done  bool
}

// SpinnerTickMsg advances the spinner.
type SpinnerTickMsg time.Time

// ProgressModel shows the logo, a spinner and the latest stage while builds
// resolve.
type ProgressModel struct {
	stage        string
	finished     int
	done         bool
	spinnerFrame int
}

func NewProgressModel() ProgressModel {
	return ProgressModel{}
}

// SpinnerTick schedules the next spinner frame.
func SpinnerTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return SpinnerTickMsg(t)
	})
}

// Stop freezes the spinner.
func (m *ProgressModel) Stop() {
	m.done = true
}

func (m ProgressModel) Update(msg tea.Msg) (ProgressModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.stage = msg.Stage
		if msg.Done {
			m.finished++
		}
	case SpinnerTickMsg:
		if m.done {
			return m, nil
		}
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		return m, SpinnerTick()
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var logoLines []string
	for i, line := range logo {
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(logoGradientColors[i%len(logoGradientColors)])).
			Bold(true)
		logoLines = append(logoLines, style.Render(line))
	}

	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Render(spinnerFrames[m.spinnerFrame])

	stage := m.stage
	if stage == "" {
		stage = "Loading"
	}
	status := fmt.Sprintf("%s %s...", spinner, stage)
	if m.finished > 0 {
		status = fmt.Sprintf("%s %s... (%d done)", spinner, stage, m.finished)
	}

	return lipgloss.JoinVertical(lipgloss.Center, strings.Join(logoLines, "\n"), "", status)
}
