package keymap_test

import (
	"errors"
	"testing"

	"github.com/tessera-tui/tessera/internal/engine"
	"github.com/tessera-tui/tessera/internal/grid"
	"github.com/tessera-tui/tessera/internal/keymap"
)

// sheet returns a focused 3x3 state in view mode.
func sheet(t *testing.T) engine.State {
	t.Helper()
	st := engine.NewFromStrings([][]string{
		{"1", "2", "3"},
		{"4", "5", "6"},
		{"7", "8", "9"},
	})
	st, ok := st.Focus(grid.Coordinate{})
	if !ok {
		t.Fatal("failed to focus the fixture sheet")
	}
	return st
}

// =============================================================================
// Table Priority Tests
// =============================================================================

func TestDispatchDefaultTable(t *testing.T) {
	d := keymap.Default()
	st := sheet(t)

	tests := []struct {
		key    string
		action keymap.Action
	}{
		{"up", keymap.ActionMoveUp},
		{"down", keymap.ActionMoveDown},
		{"left", keymap.ActionMoveLeft},
		{"right", keymap.ActionMoveRight},
		{"tab", keymap.ActionNextCol},
		{"enter", keymap.ActionEdit},
		{"backspace", keymap.ActionUnfocus},
		{"delete", keymap.ActionUnfocus},
		{"ctrl+c", keymap.ActionCopy},
		{"ctrl+x", keymap.ActionCut},
		{"ctrl+v", keymap.ActionPaste},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			res := d.Dispatch(st, tc.key)
			if !res.Handled {
				t.Fatalf("Dispatch(%q) not handled", tc.key)
			}
			if res.Action != tc.action {
				t.Errorf("Dispatch(%q) action = %q, want %q", tc.key, res.Action, tc.action)
			}
		})
	}
}

func TestDispatchExtendBeforeDefault(t *testing.T) {
	d := keymap.Default()
	st := sheet(t)

	res := d.Dispatch(st, "shift+right")
	if !res.Handled {
		t.Fatal("shift+right should be handled in view mode")
	}
	if res.Action != keymap.ActionExtendRight {
		t.Errorf("action = %q, want %q", res.Action, keymap.ActionExtendRight)
	}
	if res.State.Selected.Len() != 2 {
		t.Errorf("selection size = %d, want 2", res.State.Selected.Len())
	}
	if res.State.Active != st.Active {
		t.Error("extending the selection must not move the active cell")
	}
}

func TestDispatchEditTableIsExclusive(t *testing.T) {
	d := keymap.Default()
	st := sheet(t)
	st, _ = st.Edit()

	// Arrows have no edit-mode binding: not handled, state untouched.
	res := d.Dispatch(st, "up")
	if res.Handled {
		t.Error("up should fall through in edit mode")
	}
	if res.State.Mode != engine.ModeEdit {
		t.Error("unhandled key must not change the state")
	}

	// Shift-extends are view-mode only.
	res = d.Dispatch(st, "shift+right")
	if res.Handled {
		t.Error("shift+right should fall through in edit mode")
	}

	// Escape leaves edit mode.
	res = d.Dispatch(st, "esc")
	if !res.Handled || res.Action != keymap.ActionExitEdit {
		t.Fatalf("esc in edit mode = (%v, %q), want handled exit_edit", res.Handled, res.Action)
	}
	if res.State.Mode != engine.ModeView {
		t.Error("esc should return to view mode")
	}
}

func TestDispatchEditModeNavigation(t *testing.T) {
	d := keymap.Default()
	st := sheet(t)
	st, _ = st.Edit()

	// Tab commits rightward: leaves edit mode and advances one column.
	res := d.Dispatch(st, "tab")
	if !res.Handled || res.Action != keymap.ActionNextCol {
		t.Fatalf("tab in edit mode = (%v, %q)", res.Handled, res.Action)
	}
	if res.State.Mode != engine.ModeView {
		t.Error("tab should leave edit mode")
	}
	if res.State.Active != (grid.Coordinate{Row: 0, Col: 1}) {
		t.Errorf("active = %v, want (0,1)", res.State.Active)
	}

	// Enter commits downward.
	res = d.Dispatch(st, "enter")
	if !res.Handled || res.Action != keymap.ActionNextRow {
		t.Fatalf("enter in edit mode = (%v, %q)", res.Handled, res.Action)
	}
	if res.State.Active != (grid.Coordinate{Row: 1, Col: 0}) {
		t.Errorf("active = %v, want (1,0)", res.State.Active)
	}
}

// Enter opens the editor and escape closes it, leaving the active cell
// where it was.
func TestDispatchEnterEscapeScenario(t *testing.T) {
	d := keymap.Default()
	st := sheet(t)
	st, _ = st.Go(1, 1)

	res := d.Dispatch(st, "enter")
	if res.State.Mode != engine.ModeEdit {
		t.Fatal("enter in view mode should start an edit")
	}

	res = d.Dispatch(res.State, "esc")
	if res.State.Mode != engine.ModeView {
		t.Fatal("esc should end the edit")
	}
	if res.State.Active != (grid.Coordinate{Row: 1, Col: 1}) {
		t.Errorf("active = %v, want (1,1)", res.State.Active)
	}
}

func TestDispatchUnboundKey(t *testing.T) {
	d := keymap.Default()
	st := sheet(t)

	res := d.Dispatch(st, "ctrl+shift+alt+super+hyper+x")
	if res.Handled {
		t.Error("unbound key must not be suppressed")
	}
	if res.State.Active != st.Active || res.State.Mode != st.Mode {
		t.Error("unbound key must not change the state")
	}
}

func TestDispatchHandledNoOpStillSuppresses(t *testing.T) {
	d := keymap.Default()
	st := sheet(t)

	// The active cell is already at the top; the move clamps into place
	// but the binding exists, so the key stays suppressed.
	res := d.Dispatch(st, "up")
	if !res.Handled {
		t.Error("bound key must be suppressed even when the move clamps")
	}
	if res.State.Active != st.Active {
		t.Errorf("active = %v, want unchanged %v", res.State.Active, st.Active)
	}
}

// =============================================================================
// Clipboard Effect Tests
// =============================================================================

func TestDispatchCopyEffect(t *testing.T) {
	d := keymap.Default()
	st := sheet(t)

	res := d.Dispatch(st, "ctrl+c")
	if res.Effect != keymap.EffectCopy {
		t.Errorf("effect = %v, want EffectCopy", res.Effect)
	}
	if !res.State.Copied.Equal(st.Selected) {
		t.Error("copy should mark the selection as copied")
	}
}

func TestDispatchCutEffect(t *testing.T) {
	d := keymap.Default()
	st := sheet(t)

	res := d.Dispatch(st, "ctrl+x")
	if res.Effect != keymap.EffectCopy {
		t.Errorf("effect = %v, want EffectCopy", res.Effect)
	}
	if !res.State.CutMode {
		t.Error("cut should set the cut marker")
	}
	if _, present := res.State.Data.Get(grid.Coordinate{}); present {
		t.Error("cut should clear the selected cell")
	}
}

func TestDispatchPasteEffect(t *testing.T) {
	d := keymap.Default()
	st := sheet(t)

	res := d.Dispatch(st, "ctrl+v")
	if res.Effect != keymap.EffectPaste {
		t.Errorf("effect = %v, want EffectPaste", res.Effect)
	}
	if !res.Handled {
		t.Error("paste binding must suppress the key")
	}
}

func TestDispatchPasteUnfocusedNoEffect(t *testing.T) {
	d := keymap.Default()
	st := sheet(t)
	st, _ = st.Unfocus()

	res := d.Dispatch(st, "ctrl+v")
	if res.Effect != keymap.EffectNone {
		t.Error("paste without an origin must not request clipboard I/O")
	}
	if !res.Handled {
		t.Error("the binding still exists, so the key is suppressed")
	}
}

// =============================================================================
// Promotion Tests
// =============================================================================

func TestPromote(t *testing.T) {
	st := sheet(t)

	next, ok := keymap.Promote(st, "a")
	if !ok {
		t.Fatal("printable text on a focused view-mode cell should start an edit")
	}
	if next.Mode != engine.ModeEdit {
		t.Error("promotion should enter edit mode")
	}
}

func TestPromoteRejections(t *testing.T) {
	st := sheet(t)
	editing, _ := st.Edit()
	unfocused, _ := st.Unfocus()

	tests := []struct {
		name string
		st   engine.State
		text string
	}{
		{"already editing", editing, "a"},
		{"unfocused", unfocused, "a"},
		{"empty text", st, ""},
		{"control text", st, "\x1b"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := keymap.Promote(tc.st, tc.text); ok {
				t.Error("promotion should not fire")
			}
		})
	}
}

// =============================================================================
// Binding Construction Tests
// =============================================================================

func TestNewRejectsUnknownAction(t *testing.T) {
	_, err := keymap.New(keymap.Bindings{"warp_speed": {"w"}})
	if !errors.Is(err, keymap.ErrUnknownAction) {
		t.Errorf("error = %v, want ErrUnknownAction", err)
	}
}

func TestNewRejectsBadKey(t *testing.T) {
	_, err := keymap.New(keymap.Bindings{keymap.ActionCopy: {"ctrl+notakey"}})
	if !errors.Is(err, keymap.ErrBadKey) {
		t.Errorf("error = %v, want ErrBadKey", err)
	}
}

func TestNewRebinding(t *testing.T) {
	d, err := keymap.New(keymap.Bindings{
		keymap.ActionMoveLeft:  {"h"},
		keymap.ActionMoveDown:  {"j"},
		keymap.ActionMoveUp:    {"k"},
		keymap.ActionMoveRight: {"l"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	st := sheet(t)
	res := d.Dispatch(st, "j")
	if !res.Handled || res.Action != keymap.ActionMoveDown {
		t.Fatalf("Dispatch(j) = (%v, %q), want move_down", res.Handled, res.Action)
	}

	// The stock arrow is gone from this layout.
	if res := d.Dispatch(st, "down"); res.Handled {
		t.Error("down should be unbound after rebinding")
	}
}

func TestKeysLookup(t *testing.T) {
	d := keymap.Default()

	keys := d.Keys(keymap.ActionUnfocus)
	if len(keys) != 2 {
		t.Fatalf("Keys(unfocus) = %v, want two keys", keys)
	}
}

// =============================================================================
// Key Normalization Tests
// =============================================================================

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ctrl+a", "ctrl+a"},
		{"Ctrl+A", "ctrl+a"},
		{"CTRL+A", "ctrl+a"},
		{"control+a", "ctrl+a"},
		{"escape", "esc"},
		{"return", "enter"},
		{"shift+ctrl+a", "ctrl+shift+a"},
		{"ctrl++", "ctrl++"},
		{"  tab  ", "tab"},
		{"pagedown", "pgdown"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := keymap.NormalizeKey(tc.input)
			if err != nil {
				t.Fatalf("NormalizeKey(%q) error: %v", tc.input, err)
			}
			if got != tc.expected {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizeKeyErrors(t *testing.T) {
	for _, input := range []string{"", "   ", "bogus+a", "ctrl+", "notakey"} {
		t.Run(input, func(t *testing.T) {
			if _, err := keymap.NormalizeKey(input); !errors.Is(err, keymap.ErrBadKey) {
				t.Errorf("NormalizeKey(%q) error = %v, want ErrBadKey", input, err)
			}
		})
	}
}

func TestPrintable(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"a", true},
		{"A", true},
		{"1", true},
		{"é", true},
		{" ", true},
		{"", false},
		{"\x1b", false},
		{"\t", false},
	}
	for _, tc := range tests {
		if got := keymap.Printable(tc.input); got != tc.want {
			t.Errorf("Printable(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkDispatch(b *testing.B) {
	d := keymap.Default()
	st := engine.NewFromStrings([][]string{{"1", "2"}, {"3", "4"}})
	st, _ = st.Focus(grid.Coordinate{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = d.Dispatch(st, "right")
	}
}

func BenchmarkNormalizeKey(b *testing.B) {
	keys := []string{"ctrl+a", "Ctrl+Shift+B", "escape", "return"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = keymap.NormalizeKey(keys[i%len(keys)])
	}
}
