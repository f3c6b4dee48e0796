package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding; screens pick the ones they honor
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	Search  key.Binding
	Blur    key.Binding
	Sort    key.Binding
	Refetch key.Binding
	Posts   key.Binding
	Authors key.Binding
	Author  key.Binding
	Pager   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc", "enter", "down"),
			key.WithHelp("esc", "done"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Refetch: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refetch"),
		),
		Posts: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "posts"),
		),
		Authors: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "authors"),
		),
		Author: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "author"),
		),
		Pager: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in pager"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// bindings adapts a list of screen bindings to help.KeyMap
type bindings struct {
	short []key.Binding
	full  [][]key.Binding
}

func (b bindings) ShortHelp() []key.Binding  { return b.short }
func (b bindings) FullHelp() [][]key.Binding { return b.full }
