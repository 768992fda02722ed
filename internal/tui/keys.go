package tui

import (
	"charm.land/bubbles/v2/key"
	"github.com/Art-of-Technology/collab/internal/config"
)

// KeyMap holds the board key bindings
type KeyMap struct {
	PrevColumn key.Binding
	NextColumn key.Binding
	PrevIssue  key.Binding
	NextIssue  key.Binding
	PickIssue  key.Binding
	PickColumn key.Binding
	Drop       key.Binding
	Cancel     key.Binding
	ViewIssue  key.Binding
	Refresh    key.Binding
	ShowHelp   key.Binding
	Quit       key.Binding
}

// NewKeyMap builds bindings from the configured key mappings
func NewKeyMap(km config.KeyMappings) KeyMap {
	bind := func(k, help string) key.Binding {
		k = keyName(k)
		return key.NewBinding(key.WithKeys(k), key.WithHelp(k, help))
	}
	return KeyMap{
		PrevColumn: bind(km.PrevColumn, "prev column"),
		NextColumn: bind(km.NextColumn, "next column"),
		PrevIssue:  bind(km.PrevIssue, "up"),
		NextIssue:  bind(km.NextIssue, "down"),
		PickIssue:  bind(km.PickIssue, "pick issue"),
		PickColumn: bind(km.PickColumn, "pick column"),
		Drop:       bind(km.Drop, "drop"),
		Cancel:     bind(km.Cancel, "cancel"),
		ViewIssue:  bind(km.ViewIssue, "details"),
		Refresh:    bind(km.Refresh, "refresh"),
		ShowHelp:   bind(km.ShowHelp, "help"),
		Quit:       key.NewBinding(key.WithKeys(keyName(km.Quit), "ctrl+c"), key.WithHelp(keyName(km.Quit), "quit")),
	}
}

// keyName maps a literal space from older config files to the name key
// presses report for it
func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PickIssue, k.PickColumn, k.Drop, k.ViewIssue, k.ShowHelp, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevColumn, k.NextColumn, k.PrevIssue, k.NextIssue},
		{k.PickIssue, k.PickColumn, k.Drop, k.Cancel},
		{k.ViewIssue, k.Refresh, k.ShowHelp, k.Quit},
	}
}
