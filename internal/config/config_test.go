package config_test

import (
	"errors"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/tessera-tui/tessera/internal/config"
	"github.com/tessera-tui/tessera/internal/keymap"
)

// =============================================================================
// Default Configuration Tests
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	// Check essential defaults
	if cfg.Theme == "" {
		t.Error("Expected default theme to be set")
	}

	if cfg.Grid.Rows < 1 || cfg.Grid.Columns < 1 {
		t.Errorf("Expected a usable default grid, got %dx%d", cfg.Grid.Rows, cfg.Grid.Columns)
	}

	if cfg.Server.Address == "" {
		t.Error("Expected default server address to be set")
	}
}

func TestDefaultKeybindings(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg.Keybindings == nil {
		t.Fatal("Keybindings are nil")
	}

	requiredActions := []string{
		"move_up",
		"move_down",
		"edit",
		"exit_edit",
		"copy",
		"paste",
	}

	for _, action := range requiredActions {
		keys, ok := cfg.Keybindings[action]
		if !ok {
			t.Errorf("Expected %s keybinding to exist", action)
			continue
		}
		if len(keys) == 0 {
			t.Errorf("Expected %s to have at least one key bound", action)
		}
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := config.DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got: %v", err)
	}

	if _, err := cfg.Dispatcher(); err != nil {
		t.Errorf("Default config should build a dispatcher, got: %v", err)
	}
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestValidateUnknownAction(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings["teleport"] = []string{"t"}

	err := cfg.Validate()
	if !errors.Is(err, keymap.ErrUnknownAction) {
		t.Errorf("Expected ErrUnknownAction, got: %v", err)
	}
}

func TestValidateBadKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings["copy"] = []string{"ctrl+notakey"}

	err := cfg.Validate()
	if !errors.Is(err, keymap.ErrBadKey) {
		t.Errorf("Expected ErrBadKey, got: %v", err)
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings["teleport"] = []string{"t"}
	cfg.Keybindings["copy"] = []string{"bogus+c"}

	err := cfg.Validate()
	if !errors.Is(err, keymap.ErrUnknownAction) {
		t.Error("Expected the unknown action to be reported")
	}
	if !errors.Is(err, keymap.ErrBadKey) {
		t.Error("Expected the bad key to be reported")
	}
}

// =============================================================================
// Binding Resolution Tests
// =============================================================================

func TestBindingsOverrideDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings = map[string][]string{
		"move_up": {"k"},
	}

	bindings := cfg.Bindings()

	got := bindings[keymap.ActionMoveUp]
	if len(got) != 1 || got[0] != "k" {
		t.Errorf("move_up = %v, want [k]", got)
	}

	// Untouched actions keep their defaults.
	if keys := bindings[keymap.ActionMoveDown]; len(keys) == 0 {
		t.Error("move_down should keep its default key")
	}
}

func TestBindingsEmptyArrayUnbinds(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings = map[string][]string{
		"unfocus": {},
	}

	bindings := cfg.Bindings()
	if keys := bindings[keymap.ActionUnfocus]; len(keys) != 0 {
		t.Errorf("unfocus = %v, want no keys", keys)
	}
}

// =============================================================================
// TOML Round-Trip Tests
// =============================================================================

func TestConfigTOMLLayering(t *testing.T) {
	doc := []byte(`
theme = "nord"

[grid]
rows = 40

[keybindings]
move_up = ["k", "up"]
`)

	cfg := config.DefaultConfig()
	if err := toml.Unmarshal(doc, cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if cfg.Theme != "nord" {
		t.Errorf("theme = %q, want nord", cfg.Theme)
	}
	if cfg.Grid.Rows != 40 {
		t.Errorf("grid.rows = %d, want 40", cfg.Grid.Rows)
	}

	// Settings absent from the document keep their defaults.
	if cfg.Grid.Columns != config.DefaultConfig().Grid.Columns {
		t.Errorf("grid.columns = %d, want default", cfg.Grid.Columns)
	}
	if cfg.Behavior.PrintableStartsEdit != true {
		t.Error("behavior.printable_starts_edit should keep its default")
	}

	bindings := cfg.Bindings()
	if got := bindings[keymap.ActionMoveUp]; len(got) != 2 {
		t.Errorf("move_up = %v, want two keys", got)
	}
}

func TestConfigTOMLMarshalRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Theme = "gruvbox"

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back config.Config
	if err := toml.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if back.Theme != "gruvbox" {
		t.Errorf("theme = %q, want gruvbox", back.Theme)
	}
	if len(back.Keybindings) != len(cfg.Keybindings) {
		t.Errorf("keybindings lost in round trip: %d != %d", len(back.Keybindings), len(cfg.Keybindings))
	}
}

// =============================================================================
// Action Descriptions Tests
// =============================================================================

func TestActionDescriptions(t *testing.T) {
	// Every bindable action has help text.
	for _, action := range keymap.Actions() {
		desc, ok := config.ActionDescriptions[action]
		if !ok {
			t.Errorf("Expected description for action %q", action)
			continue
		}
		if desc == "" {
			t.Errorf("Description for %q should not be empty", action)
		}
	}
}

func TestActionDescriptionsNoStrays(t *testing.T) {
	// The help catalog must not describe actions that cannot be bound.
	for action := range config.ActionDescriptions {
		if !keymap.KnownAction(action) {
			t.Errorf("Description for unknown action %q", action)
		}
	}
}

// =============================================================================
// Help Catalog Tests
// =============================================================================

func TestGetKeybindings(t *testing.T) {
	sections := config.GetKeybindings(nil)

	if len(sections) == 0 {
		t.Fatal("Expected help sections")
	}

	for _, section := range sections {
		if len(section.Bindings) == 0 {
			t.Errorf("Section %q has no bindings", section.Title)
		}
		for _, binding := range section.Bindings {
			if binding.Key == "" {
				t.Errorf("Section %q has a binding with no key", section.Title)
			}
			if binding.Description == "" {
				t.Errorf("Section %q: key %q has no description", section.Title, binding.Key)
			}
		}
	}
}

func TestGetKeybindingsUsesConfiguredKeys(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings = map[string][]string{"copy": {"ctrl+y"}}

	d, err := cfg.Dispatcher()
	if err != nil {
		t.Fatalf("Dispatcher: %v", err)
	}

	for _, section := range config.GetKeybindings(d) {
		for _, binding := range section.Bindings {
			if binding.Description == config.ActionDescriptions["copy"] {
				if binding.Key != "Ctrl+Y" {
					t.Errorf("copy key = %q, want Ctrl+Y", binding.Key)
				}
				return
			}
		}
	}
	t.Error("copy action missing from help sections")
}

func TestDisplayKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ctrl+c", "Ctrl+C"},
		{"shift+up", "Shift+↑"},
		{"enter", "Enter"},
		{"esc", "Esc"},
		{"q", "q"},
		{"ctrl++", "Ctrl++"},
		{"pgdown", "PgDn"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := config.DisplayKey(tc.input); got != tc.expected {
				t.Errorf("DisplayKey(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkBindings(b *testing.B) {
	cfg := config.DefaultConfig()
	cfg.Keybindings = map[string][]string{"move_up": {"k"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cfg.Bindings()
	}
}
