// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up moves the cursor or selection up.
	Up key.Binding

	// Down moves the cursor or selection down.
	Down key.Binding

	// PageUp moves up one page.
	PageUp key.Binding

	// PageDown moves down one page.
	PageDown key.Binding

	// Top jumps to the first line or entry.
	Top key.Binding

	// Bottom jumps to the last line or entry.
	Bottom key.Binding

	// Open opens the selected file or directory.
	Open key.Binding

	// Parent navigates to the parent directory.
	Parent key.Binding

	// ToggleSelect starts or abandons a line selection.
	ToggleSelect key.Binding

	// Save persists the current selection as a chunk.
	Save key.Binding

	// Edit opens the selected lines in the editor.
	Edit key.Binding

	// Apply applies the editor content to the document.
	Apply key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "open"),
		),
		Parent: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "parent dir"),
		),
		ToggleSelect: key.NewBinding(
			key.WithKeys(" ", "v"),
			key.WithHelp("space/v", "select"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", "save chunk"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Apply: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "apply"),
		),
	}
}

// ExplorerHelp returns keybindings shown in the explorer status line.
func (k *KeyMap) ExplorerHelp() []key.Binding {
	return []key.Binding{k.Up, k.Open, k.Parent, k.Help, k.Quit}
}

// ViewerHelp returns keybindings shown in the viewer status line.
func (k *KeyMap) ViewerHelp() []key.Binding {
	return []key.Binding{k.ToggleSelect, k.Save, k.Edit, k.Back, k.Help}
}

// EditorHelp returns keybindings shown in the editor status line.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Apply, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Open, k.Parent, k.ToggleSelect, k.Save, k.Edit, k.Apply},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
