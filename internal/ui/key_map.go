package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next  key.Binding
	prev  key.Binding
	enter key.Binding
	back  key.Binding
	rate  key.Binding
	open  key.Binding
	reset key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		rate:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "rate")),
		open:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		reset: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "new session")),
		quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.enter},
		{k.back, k.rate, k.open},
		{k.reset, k.quit},
	}
}
