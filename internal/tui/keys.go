package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for every screen. Form screens take
// printable keys as text, so their bindings avoid bare letters.
type KeyMap struct {
	Quit key.Binding

	// Forms.
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding

	// Links between the public screens.
	ToRegister key.Binding
	ToLogin    key.Binding
	Back       key.Binding

	// Dashboard.
	Logout   key.Binding
	CopyID   key.Binding
	OpenDocs key.Binding
	Leave    key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "prev"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	ToRegister: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "create account"),
	),
	ToLogin: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "sign in"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Logout: key.NewBinding(
		key.WithKeys("L", "ctrl+l"),
		key.WithHelp("L", "logout"),
	),
	CopyID: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy id"),
	),
	OpenDocs: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "docs"),
	),
	Leave: key.NewBinding(
		key.WithKeys("q", "esc"),
		key.WithHelp("q", "quit"),
	),
}

// helpLine renders bindings as the footer help bar.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, helpEntry(h.Key, h.Desc))
	}
	return " " + strings.Join(parts, "  ")
}
