package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ListView is the scrollable list of failure groups.
type ListView struct {
	list     list.Model
	delegate *Delegate
}

// NewListView creates an empty list.
func NewListView(styles *StyleConfig) ListView {
	delegate := NewDelegate(styles)
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)

	return ListView{list: l, delegate: delegate}
}

func (v ListView) Update(msg tea.Msg) (ListView, tea.Cmd) {
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ListView) SetSize(width, height int) {
	v.list.SetSize(width, height)
}

// SetItems replaces the list content and resizes the numeric columns.
func (v *ListView) SetItems(items []Item) {
	maxRank, maxCount := 0, 0
	for _, item := range items {
		maxRank = max(maxRank, item.Group.Rank)
		maxCount = max(maxCount, item.Group.Count)
	}
	v.delegate.SetColumnWidths(maxRank, maxCount)

	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}
	v.list.SetItems(listItems)
	v.list.ResetSelected()
}

// SelectedItem returns the highlighted group.
func (v ListView) SelectedItem() (Item, bool) {
	item, ok := v.list.SelectedItem().(Item)
	return item, ok
}

// Len is the number of visible items.
func (v ListView) Len() int {
	return len(v.list.Items())
}

func (v ListView) Render() string {
	return v.list.View()
}

func (v ListView) Delegate() *Delegate {
	return v.delegate
}
