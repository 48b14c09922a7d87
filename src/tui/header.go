package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"cisleuth/src/ranking"
)

// TierFilter limits the list to one tier; 0 shows all.
type TierFilter int

const FilterAll TierFilter = 0

var tierFilters = []TierFilter{FilterAll, ranking.TierWidespread, ranking.TierIsolated, ranking.TierSentinel}

func (f TierFilter) String() string {
	switch f {
	case ranking.TierWidespread:
		return "Widespread"
	case ranking.TierIsolated:
		return "Isolated"
	case ranking.TierSentinel:
		return "Sentinel"
	}
	return "All"
}

// Header is the top status bar.
type Header struct {
	status      string
	counts      [4]int
	filter      TierFilter
	searchQuery string
	searchMode  bool
	searchView  string
	styles      *StyleConfig
}

func NewHeader(status string, styles *StyleConfig) Header {
	return Header{status: status, styles: styles}
}

func (h *Header) SetStatus(status string) {
	h.status = status
}

// SetCounts records how many groups each tier holds.
func (h *Header) SetCounts(groups []ranking.Group) {
	w, i, s := ranking.Counts(groups)
	h.counts = [4]int{len(groups), w, i, s}
}

func (h *Header) SetFilter(f TierFilter) {
	h.filter = f
}

func (h Header) Filter() TierFilter {
	return h.filter
}

// CycleFilter moves to the next tier filter.
func (h *Header) CycleFilter() {
	for i, f := range tierFilters {
		if f == h.filter {
			h.filter = tierFilters[(i+1)%len(tierFilters)]
			return
		}
	}
	h.filter = FilterAll
}

// SetSearch updates the search section. view is the rendered input while
// typing.
func (h *Header) SetSearch(query string, mode bool, view string) {
	h.searchQuery = query
	h.searchMode = mode
	h.searchView = view
}

func (h Header) Render(width int) string {
	bold := lipgloss.NewStyle().Foreground(h.styles.PrimaryBlue).Bold(true).Padding(0, 2)

	status := bold.Render(h.status)
	filter := bold.Render(fmt.Sprintf("Tier: %s (%d)", h.filter, h.counts[h.filter]))

	searchStyle := lipgloss.NewStyle().Foreground(h.styles.TextSecondary).Padding(0, 2)
	var searchText string
	switch {
	case h.searchMode:
		searchText = h.searchView
		searchStyle = searchStyle.Foreground(h.styles.PrimaryBlue)
	case h.searchQuery != "":
		searchText = "Search: " + h.searchQuery
	default:
		searchText = "[/] to search"
	}
	search := searchStyle.Render(searchText)

	content := lipgloss.JoinHorizontal(lipgloss.Left, status, filter, search)
	content = lipgloss.NewStyle().MaxWidth(width).Render(content)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(h.styles.BorderColor).
		Width(width).
		Render(content)
}
