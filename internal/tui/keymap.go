package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keyboard bindings for the TUI.
type KeyMap struct {
	Quit    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding

	ViewHeap     key.Binding
	ViewBuckets  key.Binding
	ViewBugs     key.Binding
	ViewStrategy key.Binding
	ViewTimeline key.Binding

	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns a KeyMap with default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "l"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "h"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		ViewHeap: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "heap view"),
		),
		ViewBuckets: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "buckets view"),
		),
		ViewBugs: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "bugs view"),
		),
		ViewStrategy: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "strategy view"),
		),
		ViewTimeline: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "timeline view"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
	}
}
