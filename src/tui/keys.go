package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the browser's key bindings.
type KeyMap struct {
	Quit       key.Binding
	Enter      key.Binding
	Back       key.Binding
	Search     key.Binding
	Filter     key.Binding
	All        key.Binding
	Widespread key.Binding
	Isolated   key.Binding
	Sentinel   key.Binding
}

var Keys = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Filter:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "tier")),
	All:        key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "all")),
	Widespread: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "widespread")),
	Isolated:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "isolated")),
	Sentinel:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "sentinel")),
}
