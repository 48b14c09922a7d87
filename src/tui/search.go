package tui

import (
	"strings"
)

// applyFilter narrows the list to the selected tier and search query.
func (m *MainModel) applyFilter() {
	filter := m.header.Filter()
	query := strings.ToLower(strings.TrimSpace(m.searchQuery))

	var filtered []Item
	for _, item := range m.items {
		if filter != FilterAll && TierFilter(item.Group.Tier) != filter {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.FilterValue()), query) {
			continue
		}
		filtered = append(filtered, item)
	}

	m.listView.SetItems(filtered)
	m.updateDetailContent()
}
