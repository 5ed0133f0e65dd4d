// Package keymap routes key presses to sheet actions. Three binding tables
// exist: the edit table, consulted alone while the sheet is in edit mode;
// the extend table, which holds the shift-modified selection keys; and the
// default table for everything else. In view mode the extend table is
// consulted before the default table, so a shifted arrow grows the selection
// while a plain arrow moves the active cell. A key with no entry in the
// consulted tables falls through unhandled, letting the caller run whatever
// default behavior the key normally has.
package keymap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tessera-tui/tessera/internal/engine"
)

// Action names a dispatchable sheet operation. The names double as the
// keys of the keybindings table in the configuration file.
type Action string

// All dispatchable actions.
const (
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionMoveLeft  Action = "move_left"
	ActionMoveRight Action = "move_right"
	// ActionNextCol advances one column, wrapping nothing. It lives in
	// both the edit and default tables so tab behaves the same while
	// typing and while navigating.
	ActionNextCol Action = "next_column"
	// ActionNextRow advances one row. It is the edit-mode enter binding,
	// so committing a cell walks down the column.
	ActionNextRow  Action = "next_row"
	ActionEdit     Action = "edit"
	ActionExitEdit Action = "exit_edit"
	ActionUnfocus  Action = "unfocus"

	ActionExtendUp    Action = "extend_up"
	ActionExtendDown  Action = "extend_down"
	ActionExtendLeft  Action = "extend_left"
	ActionExtendRight Action = "extend_right"

	ActionCopy  Action = "copy"
	ActionCut   Action = "cut"
	ActionPaste Action = "paste"
)

// editActions are the only actions reachable while editing.
var editActions = map[Action]bool{
	ActionExitEdit: true,
	ActionNextCol:  true,
	ActionNextRow:  true,
}

// extendActions are consulted in view mode before the default table.
var extendActions = map[Action]bool{
	ActionExtendUp:    true,
	ActionExtendDown:  true,
	ActionExtendLeft:  true,
	ActionExtendRight: true,
}

// defaultActions fill the view-mode default table.
var defaultActions = map[Action]bool{
	ActionMoveUp:    true,
	ActionMoveDown:  true,
	ActionMoveLeft:  true,
	ActionMoveRight: true,
	ActionNextCol:   true,
	ActionEdit:      true,
	ActionUnfocus:   true,
	ActionCopy:      true,
	ActionCut:       true,
	ActionPaste:     true,
}

// Bindings maps actions to the keys that trigger them. Key names follow
// the terminal naming used by the input layer: "up", "shift+left",
// "ctrl+c", "enter", "esc", "tab".
type Bindings map[Action][]string

// DefaultBindings returns the stock key layout.
func DefaultBindings() Bindings {
	return Bindings{
		ActionMoveUp:    {"up"},
		ActionMoveDown:  {"down"},
		ActionMoveLeft:  {"left"},
		ActionMoveRight: {"right"},
		ActionNextCol:   {"tab"},
		ActionNextRow:   {"enter"},
		ActionEdit:      {"enter"},
		ActionExitEdit:  {"esc"},
		ActionUnfocus:   {"backspace", "delete"},

		ActionExtendUp:    {"shift+up"},
		ActionExtendDown:  {"shift+down"},
		ActionExtendLeft:  {"shift+left"},
		ActionExtendRight: {"shift+right"},

		ActionCopy:  {"ctrl+c"},
		ActionCut:   {"ctrl+x"},
		ActionPaste: {"ctrl+v"},
	}
}

// KnownAction reports whether name is a dispatchable action.
func KnownAction(name string) bool {
	_, ok := DefaultBindings()[Action(name)]
	return ok
}

// Actions returns every dispatchable action name, sorted.
func Actions() []string {
	defaults := DefaultBindings()
	out := make([]string, 0, len(defaults))
	for a := range defaults {
		out = append(out, string(a))
	}
	sort.Strings(out)
	return out
}

// Effect tells the dispatching caller which clipboard I/O, if any, it must
// perform after a transition. The engine never touches the clipboard
// itself.
type Effect int

const (
	// EffectNone means no I/O follows the transition.
	EffectNone Effect = iota
	// EffectCopy asks the caller to serialize the copied region and
	// write it to the clipboard.
	EffectCopy
	// EffectPaste asks the caller to read the clipboard and feed the
	// text back in through a paste.
	EffectPaste
)

// Result is the outcome of dispatching one key press. Handled reports
// whether a binding existed for the key; when it did, the caller must
// suppress the key's default behavior even if the action itself was a
// no-op.
type Result struct {
	State   engine.State
	Action  Action
	Handled bool
	Effect  Effect
}

// Dispatcher resolves keys against the binding tables and applies the
// resolved action. It is immutable after construction and safe to share.
type Dispatcher struct {
	edit   map[string]Action
	extend map[string]Action
	deflt  map[string]Action
}

// New builds a dispatcher from the given bindings. Every action must be
// known and every key must normalize to a valid key name; all problems are
// reported, not just the first.
func New(bindings Bindings) (*Dispatcher, error) {
	d := &Dispatcher{
		edit:   make(map[string]Action),
		extend: make(map[string]Action),
		deflt:  make(map[string]Action),
	}
	var errs []error
	for action, keys := range bindings {
		if !KnownAction(string(action)) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownAction, action))
			continue
		}
		for _, key := range keys {
			normalized, err := NormalizeKey(key)
			if err != nil {
				errs = append(errs, fmt.Errorf("action %q: %w", action, err))
				continue
			}
			if editActions[action] {
				d.edit[normalized] = action
			}
			if extendActions[action] {
				d.extend[normalized] = action
			}
			if defaultActions[action] {
				d.deflt[normalized] = action
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return d, nil
}

// Default returns a dispatcher with the stock key layout.
func Default() *Dispatcher {
	d, err := New(DefaultBindings())
	if err != nil {
		// The stock layout is internally consistent.
		panic(err)
	}
	return d
}

// Lookup returns the action bound to key for the given mode, honoring
// table priority.
func (d *Dispatcher) Lookup(mode engine.Mode, key string) (Action, bool) {
	if mode == engine.ModeEdit {
		a, ok := d.edit[key]
		return a, ok
	}
	if a, ok := d.extend[key]; ok {
		return a, ok
	}
	a, ok := d.deflt[key]
	return a, ok
}

// Keys returns the keys bound to action, in table order.
func (d *Dispatcher) Keys(action Action) []string {
	var out []string
	for _, table := range []map[string]Action{d.edit, d.extend, d.deflt} {
		for key, a := range table {
			if a == action {
				out = append(out, key)
			}
		}
	}
	sort.Strings(out)
	return dedupe(out)
}

// Dispatch resolves key against the tables for the state's mode and applies
// the bound action. An unbound key returns the state untouched with Handled
// false.
func (d *Dispatcher) Dispatch(s engine.State, key string) Result {
	action, ok := d.Lookup(s.Mode, key)
	if !ok {
		return Result{State: s}
	}

	res := Result{State: s, Action: action, Handled: true}
	switch action {
	case ActionMoveUp:
		res.State, _ = s.Go(-1, 0)
	case ActionMoveDown:
		res.State, _ = s.Go(1, 0)
	case ActionMoveLeft:
		res.State, _ = s.Go(0, -1)
	case ActionMoveRight:
		res.State, _ = s.Go(0, 1)
	case ActionNextCol:
		res.State, _ = s.Go(0, 1)
	case ActionNextRow:
		res.State, _ = s.Go(1, 0)
	case ActionEdit:
		res.State, _ = s.Edit()
	case ActionExitEdit:
		res.State, _ = s.View()
	case ActionUnfocus:
		res.State, _ = s.Unfocus()
	case ActionExtendUp:
		res.State, _ = s.ModifyEdge(engine.AxisRow, -1)
	case ActionExtendDown:
		res.State, _ = s.ModifyEdge(engine.AxisRow, 1)
	case ActionExtendLeft:
		res.State, _ = s.ModifyEdge(engine.AxisCol, -1)
	case ActionExtendRight:
		res.State, _ = s.ModifyEdge(engine.AxisCol, 1)
	case ActionCopy:
		next, applied := s.Copy()
		res.State = next
		if applied {
			res.Effect = EffectCopy
		}
	case ActionCut:
		next, applied := s.Cut()
		res.State = next
		if applied {
			res.Effect = EffectCopy
		}
	case ActionPaste:
		if s.Mode == engine.ModeView && s.Focused {
			res.Effect = EffectPaste
		}
	}
	return res
}

// Promote enters edit mode when printable text lands on a focused cell in
// view mode, so typing starts an edit without an explicit enter. The caller
// owns delivering text to the editor it opens. Promote reports false when
// the text is not printable or the state cannot enter edit mode.
func Promote(s engine.State, text string) (engine.State, bool) {
	if !Printable(text) {
		return s, false
	}
	return s.Edit()
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
