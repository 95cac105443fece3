package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Clear    key.Binding
	Add      key.Binding
	Pay      key.Binding
	Raise    key.Binding
	Remove   key.Binding
	Quit     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Submit   key.Binding
	Cancel   key.Binding
	Confirm  key.Binding
	Decline  key.Binding
	ShowHelp key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Pay:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "payment")),
		Raise:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "monthly")),
		Remove:   key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "remove")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "remove")),
		Decline:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
		ShowHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

// listHelp implements help.KeyMap for the list view.
type listHelp struct{ k keyMap }

func (h listHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Select, h.k.Add, h.k.Pay, h.k.Raise, h.k.Remove, h.k.Quit, h.k.ShowHelp}
}

func (h listHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Up, h.k.Down, h.k.Select, h.k.Clear},
		{h.k.Add, h.k.Pay, h.k.Raise, h.k.Remove},
		{h.k.ShowHelp, h.k.Quit},
	}
}

// formHelp implements help.KeyMap for input forms.
type formHelp struct{ k keyMap }

func (h formHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Next, h.k.Submit, h.k.Cancel}
}

func (h formHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

// confirmHelp implements help.KeyMap for the removal dialog.
type confirmHelp struct{ k keyMap }

func (h confirmHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Confirm, h.k.Decline}
}

func (h confirmHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
