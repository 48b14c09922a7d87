// Package tui is an interactive browser for ranked CI failure groups.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"cisleuth/src/report"
)

// Status is the loading state of the browser.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusError
)

// ReportMsg delivers the resolved report.
type ReportMsg struct {
	Report *report.Report
}

// ErrMsg reports a failed resolution.
type ErrMsg struct {
	Err error
}

// MainModel is the root bubbletea model.
type MainModel struct {
	width  int
	height int
	ready  bool
	status Status
	err    error

	report *report.Report
	items  []Item

	header         Header
	listView       ListView
	detailViewport viewport.Model
	detailFocused  bool

	searchInput textinput.Model
	searchMode  bool
	searchQuery string

	progress ProgressModel
	styles   *StyleConfig
}

// NewMainModel creates a browser in the loading state.
func NewMainModel() MainModel {
	styles := DefaultStyles()

	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "test name, machine, text..."
	ti.CharLimit = 256

	return MainModel{
		status:         StatusLoading,
		header:         NewHeader("Resolving build", styles),
		listView:       NewListView(styles),
		detailViewport: viewport.New(0, 0),
		searchInput:    ti,
		progress:       NewProgressModel(),
		styles:         styles,
	}
}

func (m MainModel) Init() tea.Cmd {
	return SpinnerTick()
}

// SetReport shows rep's failure groups.
func (m *MainModel) SetReport(rep *report.Report) {
	m.report = rep
	m.status = StatusReady
	m.progress.Stop()

	m.items = itemsFromGroups(rep.Groups)
	m.header.SetStatus(fmt.Sprintf("%s %s: %s", rep.Type, rep.URL, resultLabel(rep)))
	m.header.SetCounts(rep.Groups)
	m.applyFilter()
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.resizeComponents()
		return m, nil

	case ProgressMsg, SpinnerTickMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd

	case ReportMsg:
		m.SetReport(msg.Report)
		m.resizeComponents()
		return m, nil

	case ErrMsg:
		m.status = StatusError
		m.err = msg.Err
		m.progress.Stop()
		m.header.SetStatus("Resolution failed")
		return m, nil

	case tea.KeyMsg:
		if m.searchMode {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	if m.detailFocused {
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m MainModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.Quit) {
		return m, tea.Quit
	}
	if m.status != StatusReady {
		return m, nil
	}

	if m.detailFocused {
		if key.Matches(msg, Keys.Back) {
			m.detailFocused = false
			return m, nil
		}
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.searchQuery)
		m.searchInput.Focus()
		m.syncSearchHeader()
		return m, textinput.Blink
	case key.Matches(msg, Keys.Filter):
		m.header.CycleFilter()
		m.applyFilter()
		return m, nil
	case key.Matches(msg, Keys.All):
		return m.setFilter(FilterAll), nil
	case key.Matches(msg, Keys.Widespread):
		return m.setFilter(tierFilters[1]), nil
	case key.Matches(msg, Keys.Isolated):
		return m.setFilter(tierFilters[2]), nil
	case key.Matches(msg, Keys.Sentinel):
		return m.setFilter(tierFilters[3]), nil
	case key.Matches(msg, Keys.Enter):
		if m.listView.Len() > 0 {
			m.detailFocused = true
		}
		return m, nil
	case key.Matches(msg, Keys.Back):
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.syncSearchHeader()
			m.applyFilter()
		}
		return m, nil
	}

	before, _ := m.listView.SelectedItem()
	var cmd tea.Cmd
	m.listView, cmd = m.listView.Update(msg)
	if after, ok := m.listView.SelectedItem(); ok && after.Group.Signature != before.Group.Signature {
		m.updateDetailContent()
	}
	return m, cmd
}

func (m MainModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searchMode = false
		m.searchInput.Blur()
		m.syncSearchHeader()
		return m, nil
	case tea.KeyEsc:
		m.searchMode = false
		m.searchInput.Blur()
		m.searchQuery = ""
		m.syncSearchHeader()
		m.applyFilter()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if v := m.searchInput.Value(); v != m.searchQuery {
		m.searchQuery = v
		m.applyFilter()
	}
	m.syncSearchHeader()
	return m, cmd
}

func (m MainModel) setFilter(f TierFilter) MainModel {
	m.header.SetFilter(f)
	m.applyFilter()
	return m
}

func (m *MainModel) syncSearchHeader() {
	m.header.SetSearch(m.searchQuery, m.searchMode, m.searchInput.View())
}

func resultLabel(rep *report.Report) string {
	if rep.Result == "" {
		return "PENDING"
	}
	return string(rep.Result)
}
