package tui

import (
	"strings"

	"cisleuth/src/failure"
	"cisleuth/src/patterns"
	"cisleuth/src/ranking"
)

// Item is one failure group in the list. It implements bubbles/list.Item.
type Item struct {
	Group ranking.Group
}

// FilterValue is the text matched by search.
func (i Item) FilterValue() string {
	parts := []string{i.Title(), i.Group.Example.Reason}
	parts = append(parts, i.Group.Machines...)
	parts = append(parts, i.Group.URLs...)
	return strings.Join(parts, "\n")
}

// Title is the one-line label of the group.
func (i Item) Title() string {
	f := i.Group.Example
	switch {
	case f.Sentinel:
		return f.Reason
	case f.Kind == failure.JSTestFailure:
		return f.File
	default:
		return patterns.Normalize(f.HighlightedLine(), patterns.MaskDisplay)
	}
}

// Description lists where the failure was seen.
func (i Item) Description() string {
	return strings.Join(i.Group.Machines, ", ")
}

// KindLabel is a short tag for the failure kind.
func (i Item) KindLabel() string {
	f := i.Group.Example
	if f.Sentinel {
		return "--"
	}
	switch f.Kind {
	case failure.JSTestFailure:
		return "JS"
	case failure.CCTestFailure:
		return "C++"
	case failure.JenkinsFailure:
		return "JNK"
	case failure.BuildFailure:
		return "BLD"
	}
	return "?"
}

// Excerpt returns the console lines of the example failure and the index of
// the highlighted one.
func (i Item) Excerpt() ([]string, int) {
	f := i.Group.Example
	if f.Sentinel {
		return nil, -1
	}
	return SplitLines(strings.TrimRight(f.Reason, "\n")), f.Highlight
}

func itemsFromGroups(groups []ranking.Group) []Item {
	items := make([]Item, len(groups))
	for i, g := range groups {
		items[i] = Item{Group: g}
	}
	return items
}
