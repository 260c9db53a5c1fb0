// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the board.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Dragging
	Grab   key.Binding
	Drop   key.Binding
	Cancel key.Binding

	// Actions
	NewCard   key.Binding
	Refresh   key.Binding
	History   key.Binding
	ToggleLog key.Binding

	// General
	Guide key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "move right"),
		),

		// Dragging
		Grab: key.NewBinding(
			key.WithKeys(" ", "m"),
			key.WithHelp("space/m", "pick up card"),
		),
		Drop: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "drop card"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel drag"),
		),

		// Actions
		NewCard: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new card"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload cards"),
		),
		History: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "move history"),
		),
		ToggleLog: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "toggle event log"),
		),

		// General
		Guide: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "board guide"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Drop, k.Cancel, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Grab, k.Drop, k.Cancel},
		{k.NewCard, k.Refresh, k.History, k.ToggleLog},
		{k.Guide, k.Help, k.Quit},
	}
}

// DragKeyMap narrows the bindings shown while a card is being dragged.
type DragKeyMap struct {
	KeyMap
}

// ShortHelp returns the bindings usable mid-drag.
func (k DragKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Drop, k.Cancel}
}

// FullHelp returns the bindings usable mid-drag.
func (k DragKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Left, k.Right}, {k.Drop, k.Cancel}}
}
