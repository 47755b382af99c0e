package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the player.
type keyMap struct {
	play     key.Binding
	toggle   key.Binding
	next     key.Binding
	previous key.Binding
	shuffle  key.Binding
	back     key.Binding
	forward  key.Binding
	seekTo   key.Binding
	upload   key.Binding
	refresh  key.Binding
	history  key.Binding
	help     key.Binding
	cancel   key.Binding
	submit   key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		play:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		previous: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		shuffle:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		back:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "rewind")),
		forward:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "fast-forward")),
		seekTo: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "seek to 0-90%"),
		),
		upload:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		history: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "upload")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.play, k.toggle, k.next, k.previous, k.shuffle, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.play, k.toggle, k.next, k.previous},
		{k.shuffle, k.back, k.forward, k.seekTo},
		{k.upload, k.refresh, k.history, k.quit},
	}
}
