// Package config loads and validates the user configuration file. The
// file lives in the XDG config directory as TOML and layers on top of the
// built-in defaults, so a config file only needs the settings it changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/tessera-tui/tessera/internal/keymap"
)

const (
	// NormalFPS is the render refresh rate.
	NormalFPS = 60

	// configDir is the directory under the XDG config home.
	configDir = "tessera"
	// configFile is the configuration file name.
	configFile = "config.toml"
)

// Config is the user configuration.
type Config struct {
	Theme       string              `toml:"theme"`
	Grid        GridConfig          `toml:"grid"`
	Behavior    BehaviorConfig      `toml:"behavior"`
	Keybindings map[string][]string `toml:"keybindings"`
	Server      ServerConfig        `toml:"server"`
}

// GridConfig sets the dimensions of a fresh sheet. Opening a file ignores
// these and sizes the sheet from the file instead.
type GridConfig struct {
	Rows    int `toml:"rows"`
	Columns int `toml:"columns"`
}

// BehaviorConfig holds editing behavior toggles.
type BehaviorConfig struct {
	// PrintableStartsEdit starts an edit when a printable key lands on
	// the active cell in view mode, seeding the editor with that key.
	PrintableStartsEdit bool `toml:"printable_starts_edit"`
	// EnterAfterCommit moves the active cell down after an enter-key
	// commit. When false, enter commits in place.
	EnterAfterCommit bool `toml:"enter_after_commit"`
}

// ServerConfig holds the SSH server settings used by the serve command.
type ServerConfig struct {
	Address string `toml:"address"`
	HostKey string `toml:"host_key"`
}

// DefaultConfig returns the built-in defaults, including an explicit entry
// for every bindable action so a written config file doubles as a catalog.
func DefaultConfig() *Config {
	bindings := make(map[string][]string)
	for action, keys := range keymap.DefaultBindings() {
		bindings[string(action)] = append([]string(nil), keys...)
	}
	return &Config{
		Theme: "dracula",
		Grid: GridConfig{
			Rows:    16,
			Columns: 8,
		},
		Behavior: BehaviorConfig{
			PrintableStartsEdit: true,
			EnterAfterCommit:    true,
		},
		Keybindings: bindings,
		Server: ServerConfig{
			Address: ":23234",
		},
	}
}

// GetConfigPath returns the path of the configuration file, creating the
// parent directory if needed.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(configDir, configFile))
}

// LoadUserConfig loads the configuration file over the defaults. A missing
// file is created with the default settings so users have something to
// edit. The returned config is always usable; on error it is nil and the
// caller should fall back to DefaultConfig.
func LoadUserConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("could not determine config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := WriteConfig(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	// Unmarshal over a default-filled struct so absent settings keep
	// their defaults.
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteConfig marshals cfg to path with an explanatory header.
func WriteConfig(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# Tessera Configuration File\n")
	sb.WriteString("# Keybindings map actions to arrays of keys; multiple keys can be\n")
	sb.WriteString("# bound to the same action, and an empty array unbinds the action.\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + path + "\n")
	sb.WriteString("# Documentation: https://github.com/tessera-tui/tessera\n\n")
	sb.Write(data)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// normalize clamps numeric settings into their working ranges.
func (c *Config) normalize() {
	if c.Grid.Rows < 1 {
		c.Grid.Rows = 1
	}
	if c.Grid.Columns < 1 {
		c.Grid.Columns = 1
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultConfig().Server.Address
	}
}

// Validate checks every keybinding entry. All problems are reported in one
// error so a user can fix the whole file in one pass.
func (c *Config) Validate() error {
	var errs []error
	for action, keys := range c.Keybindings {
		if !keymap.KnownAction(action) {
			errs = append(errs, fmt.Errorf("%w: %q", keymap.ErrUnknownAction, action))
			continue
		}
		for _, key := range keys {
			if _, err := keymap.NormalizeKey(key); err != nil {
				errs = append(errs, fmt.Errorf("action %q: %w", action, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Bindings resolves the configured keybindings over the defaults. Actions
// absent from the config keep their default keys; an action bound to an
// empty array has no keys.
func (c *Config) Bindings() keymap.Bindings {
	bindings := keymap.DefaultBindings()
	for action, keys := range c.Keybindings {
		bindings[keymap.Action(action)] = append([]string(nil), keys...)
	}
	return bindings
}

// Dispatcher builds a key dispatcher from the resolved bindings.
func (c *Config) Dispatcher() (*keymap.Dispatcher, error) {
	return keymap.New(c.Bindings())
}

// ActionDescriptions holds the help text for each bindable action, shown
// by the keybinds command and the in-app help overlay.
var ActionDescriptions = map[string]string{
	"move_up":      "Move active cell up",
	"move_down":    "Move active cell down",
	"move_left":    "Move active cell left",
	"move_right":   "Move active cell right",
	"next_column":  "Move right (commits an edit first)",
	"next_row":     "Move down (commits an edit first)",
	"edit":         "Edit the active cell",
	"exit_edit":    "Leave edit mode",
	"unfocus":      "Clear the cursor and selection",
	"extend_up":    "Extend selection up",
	"extend_down":  "Extend selection down",
	"extend_left":  "Extend selection left",
	"extend_right": "Extend selection right",
	"copy":         "Copy the selection",
	"cut":          "Cut the selection",
	"paste":        "Paste at the active cell",
}
