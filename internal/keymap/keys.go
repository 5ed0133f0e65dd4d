package keymap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Binding validation errors.
var (
	ErrUnknownAction = errors.New("unknown action")
	ErrBadKey        = errors.New("invalid key")
)

// modOrder is the canonical modifier order used by the input layer.
var modOrder = []string{"ctrl", "shift", "alt", "super", "hyper", "meta"}

// modAliases folds the modifier spellings people write in config files
// onto their canonical names.
var modAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"alt":     "alt",
	"option":  "alt",
	"opt":     "alt",
	"super":   "super",
	"cmd":     "super",
	"command": "super",
	"hyper":   "hyper",
	"meta":    "meta",
}

// keyAliases folds common key name spellings onto canonical names.
var keyAliases = map[string]string{
	"escape":   "esc",
	"return":   "enter",
	"spacebar": "space",
	"del":      "delete",
	"ins":      "insert",
	"pageup":   "pgup",
	"pagedown": "pgdown",
	"pgdn":     "pgdown",
	"bs":       "backspace",
}

// namedKeys are the multi-character key names the input layer produces.
var namedKeys = map[string]bool{
	"up": true, "down": true, "left": true, "right": true,
	"enter": true, "esc": true, "tab": true, "space": true,
	"backspace": true, "delete": true, "insert": true,
	"home": true, "end": true, "pgup": true, "pgdown": true,
}

// NormalizeKey folds a key name from the configuration file onto the
// canonical spelling the input layer produces, so "Ctrl+A", "CTRL+a", and
// "control+a" all match the same press. It returns an ErrBadKey error for
// names that cannot name a key.
func NormalizeKey(key string) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(key))
	if raw == "" {
		return "", fmt.Errorf("%w: empty key name", ErrBadKey)
	}

	parts := strings.Split(raw, "+")
	// Two trailing empty parts mean the base key is a literal plus, as in
	// "ctrl++".
	if n := len(parts); n >= 2 && parts[n-1] == "" && parts[n-2] == "" {
		parts = append(parts[:n-2], "+")
	}

	seen := make(map[string]bool, len(parts))
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modAliases[p]
		if !ok {
			return "", fmt.Errorf("%w: unknown modifier %q in %q", ErrBadKey, p, key)
		}
		seen[mod] = true
	}

	base := parts[len(parts)-1]
	if alias, ok := keyAliases[base]; ok {
		base = alias
	}
	if !validBaseKey(base) {
		return "", fmt.Errorf("%w: %q", ErrBadKey, key)
	}

	out := make([]string, 0, len(seen)+1)
	for _, mod := range modOrder {
		if seen[mod] {
			out = append(out, mod)
		}
	}
	out = append(out, base)
	return strings.Join(out, "+"), nil
}

// validBaseKey accepts single printable runes, the named keys, and the
// function keys f1 through f20.
func validBaseKey(base string) bool {
	if namedKeys[base] {
		return true
	}
	if r, size := utf8.DecodeRuneInString(base); size == len(base) && r != utf8.RuneError {
		return unicode.IsPrint(r) && !unicode.IsSpace(r)
	}
	if rest, ok := strings.CutPrefix(base, "f"); ok {
		n, err := strconv.Atoi(rest)
		return err == nil && n >= 1 && n <= 20
	}
	return false
}

// Printable reports whether text is something a key press can type into a
// cell: non-empty and made of printable runes only.
func Printable(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
