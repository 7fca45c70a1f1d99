package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Buy      key.Binding
	Sell     key.Binding
	Close    key.Binding
	Bet      key.Binding
	SlowItem key.Binding
	ViewItem key.Binding
	Confirm  key.Binding
	Next     key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Buy: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "long"),
	),
	Sell: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "short"),
	),
	Close: key.NewBinding(
		key.WithKeys("s", " "),
		key.WithHelp("s/space", "close"),
	),
	Bet: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "bet size"),
	),
	SlowItem: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "slow"),
	),
	ViewItem: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "trend view"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Next: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next stage"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap for the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Buy, k.Sell, k.Close, k.Bet, k.SlowItem, k.ViewItem, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Buy, k.Sell, k.Close, k.Bet},
		{k.SlowItem, k.ViewItem, k.Confirm, k.Next},
		{k.Up, k.Down, k.Quit},
	}
}
