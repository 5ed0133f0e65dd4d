package config

import (
	"strings"

	"github.com/tessera-tui/tessera/internal/keymap"
)

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// GetKeybindings returns all keybinding sections for the help menu.
// If a dispatcher is provided, the keys reflect the user's configuration;
// if it is nil, the stock layout is shown.
func GetKeybindings(d *keymap.Dispatcher) []KeybindingSection {
	if d == nil {
		d = keymap.Default()
	}

	sections := []KeybindingSection{}

	navigation := KeybindingSection{Title: "NAVIGATION"}
	addBinding(&navigation, d, keymap.ActionMoveUp)
	addBinding(&navigation, d, keymap.ActionMoveDown)
	addBinding(&navigation, d, keymap.ActionMoveLeft)
	addBinding(&navigation, d, keymap.ActionMoveRight)
	addBinding(&navigation, d, keymap.ActionUnfocus)
	if len(navigation.Bindings) > 0 {
		sections = append(sections, navigation)
	}

	selection := KeybindingSection{Title: "SELECTION"}
	addBinding(&selection, d, keymap.ActionExtendUp)
	addBinding(&selection, d, keymap.ActionExtendDown)
	addBinding(&selection, d, keymap.ActionExtendLeft)
	addBinding(&selection, d, keymap.ActionExtendRight)
	if len(selection.Bindings) > 0 {
		sections = append(sections, selection)
	}

	clipboard := KeybindingSection{Title: "CLIPBOARD"}
	addBinding(&clipboard, d, keymap.ActionCopy)
	addBinding(&clipboard, d, keymap.ActionCut)
	addBinding(&clipboard, d, keymap.ActionPaste)
	if len(clipboard.Bindings) > 0 {
		sections = append(sections, clipboard)
	}

	editing := KeybindingSection{Title: "EDITING"}
	addBinding(&editing, d, keymap.ActionEdit)
	addBinding(&editing, d, keymap.ActionExitEdit)
	addBinding(&editing, d, keymap.ActionNextCol)
	addBinding(&editing, d, keymap.ActionNextRow)
	if len(editing.Bindings) > 0 {
		sections = append(sections, editing)
	}

	sections = append(sections, getStaticHelpSections()...)
	return sections
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, d *keymap.Dispatcher, action keymap.Action) {
	keys := d.Keys(action)
	if len(keys) == 0 {
		return
	}
	display := make([]string, len(keys))
	for i, key := range keys {
		display[i] = DisplayKey(key)
	}
	section.Bindings = append(section.Bindings, Keybinding{
		Key:         strings.Join(display, ", "),
		Description: ActionDescriptions[string(action)],
	})
}

// getStaticHelpSections returns help sections that don't come from the
// binding tables (typed input, application keys).
func getStaticHelpSections() []KeybindingSection {
	return []KeybindingSection{
		{
			Title: "TYPING",
			Bindings: []Keybinding{
				{"a-z, 0-9, …", "Start editing the active cell"},
			},
		},
		{
			Title: "APPLICATION",
			Bindings: []Keybinding{
				{"?", "Toggle help"},
				{"q", "Quit (when no cell is active)"},
				{"Ctrl+Q", "Quit"},
			},
		},
	}
}

// displayNames maps canonical key names to the symbols shown in help.
var displayNames = map[string]string{
	"up":        "↑",
	"down":      "↓",
	"left":      "←",
	"right":     "→",
	"enter":     "Enter",
	"esc":       "Esc",
	"tab":       "Tab",
	"space":     "Space",
	"backspace": "Backspace",
	"delete":    "Delete",
	"insert":    "Insert",
	"home":      "Home",
	"end":       "End",
	"pgup":      "PgUp",
	"pgdown":    "PgDn",
	"ctrl":      "Ctrl",
	"shift":     "Shift",
	"alt":       "Alt",
	"super":     "Super",
	"hyper":     "Hyper",
	"meta":      "Meta",
}

// DisplayKey prettifies a canonical key name for help menus: "ctrl+c"
// becomes "Ctrl+C", "shift+up" becomes "Shift+↑", single letters stay as
// they are.
func DisplayKey(key string) string {
	parts := strings.Split(key, "+")
	// A trailing empty pair means the base key is a literal plus.
	if n := len(parts); n >= 2 && parts[n-1] == "" && parts[n-2] == "" {
		parts = append(parts[:n-2], "+")
	}
	for i, p := range parts {
		if name, ok := displayNames[p]; ok {
			parts[i] = name
			continue
		}
		// Letters bound together with a modifier read better uppercased.
		if i == len(parts)-1 && i > 0 && len(p) == 1 {
			parts[i] = strings.ToUpper(p)
		}
	}
	return strings.Join(parts, "+")
}
