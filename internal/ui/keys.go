package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the list-mode bindings. It implements help.KeyMap.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Edit   key.Binding
	Delete key.Binding
	Focus  key.Binding
	Save   key.Binding
	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space/x", "toggle"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab", "a"),
			key.WithHelp("tab/a", "add task"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
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

// ShortHelp returns the bindings shown in the one-line help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Toggle, k.Edit, k.Delete, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Focus},
		{k.Toggle, k.Edit, k.Delete},
		{k.Save, k.Cancel},
		{k.Help, k.Quit},
	}
}
