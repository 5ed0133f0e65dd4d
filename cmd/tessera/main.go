// Package main implements tessera, a keyboard-driven spreadsheet for the
// terminal. It edits TSV, CSV and XLSX files with a modal view/edit
// interaction, system-clipboard copy and paste, and an SSH serving mode.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tessera-tui/tessera/internal/app"
	"github.com/tessera-tui/tessera/internal/config"
	"github.com/tessera-tui/tessera/internal/keymap"
	"github.com/tessera-tui/tessera/internal/server"
	"github.com/tessera-tui/tessera/internal/sheetio"
	"github.com/tessera-tui/tessera/internal/theme"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode     bool
	themeOverride string
)

func main() {
	// Root command
	rootCmd := &cobra.Command{
		Use:   "tessera [file]",
		Short: "Terminal spreadsheet editor",
		Long: `Tessera - a keyboard-driven spreadsheet for the terminal

Opens TSV, CSV and XLSX files in a modal grid editor. A cursor and
rectangular selections are driven from the keyboard, cells are edited
inline, and copy and paste go through the system clipboard as
tab-separated text.`,
		Example: `  # Open a scratch sheet
  tessera

  # Edit a file
  tessera budget.tsv

  # Serve sheets over SSH
  tessera serve --address :23234

  # Convert between formats
  tessera convert data.csv data.xlsx

  # Edit configuration
  tessera config edit

  # List all keybindings
  tessera keybinds list`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runLocal(path)
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&themeOverride, "theme", "", "Override the configured color theme")

	// Serve command variables
	var serveAddress, serveKeyPath string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sheets over SSH",
		Long: `Run tessera as an SSH server

Every connection gets its own scratch sheet. The server will generate
a host key automatically if not specified.`,
		Example: `  # Start the SSH server on the configured address
  tessera serve

  # Start on a custom address
  tessera serve --address :2222

  # Specify a custom host key
  tessera serve --key-path /path/to/host_key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(serveAddress, serveKeyPath)
		},
	}

	serveCmd.Flags().StringVar(&serveAddress, "address", "", "Listen address (host:port), defaults to the configured address")
	serveCmd.Flags().StringVar(&serveKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")

	convertCmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a sheet between formats",
		Long: `Convert a sheet file to another format

Formats are inferred from the file extensions. Supported: .tsv, .txt,
.csv and .xlsx.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convertSheet(args[0], args[1])
		},
	}

	// Config command group
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tessera configuration",
		Long:  `Manage the tessera configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Long:  `Print the path to the tessera configuration file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the tessera configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile()
		},
	}

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the tessera configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults()
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)

	// Keybinds command group
	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
		Long:    `View and inspect the tessera keybinding configuration`,
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		Long:  `Display all configured keybindings in a formatted table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeybindings()
		},
	}

	keybindsCustomCmd := &cobra.Command{
		Use:   "list-custom",
		Short: "List customized keybindings",
		Long: `Display only keybindings that differ from defaults

Shows a comparison of default and custom keybindings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCustomKeybindings()
		},
	}

	keybindsCmd.AddCommand(keybindsListCmd, keybindsCustomCmd)

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "List available color themes",
		Long:  `Display every color theme with a palette swatch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listThemes()
		},
	}

	// Add subcommands to root
	rootCmd.AddCommand(serveCmd, convertCmd, configCmd, keybindsCmd, themesCmd)

	// Execute with fang
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

// applyDebug raises the log level of every package when --debug is set.
func applyDebug() {
	if !debugMode {
		return
	}
	log.SetLevel(log.DebugLevel)
	sheetio.SetLogLevel(log.DebugLevel)
	server.SetLogLevel(log.DebugLevel)
}

// loadConfig loads the user configuration, falling back to defaults so a
// broken config file never blocks startup.
func loadConfig() *config.Config {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		log.Warn("failed to load config, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}
	if themeOverride != "" {
		cfg.Theme = themeOverride
	}
	return cfg
}

func runLocal(path string) error {
	applyDebug()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("tessera needs an interactive terminal (try 'tessera serve' for SSH access)")
	}

	cfg := loadConfig()
	if err := theme.Initialize(cfg.Theme); err != nil {
		log.Warn("failed to initialize theme", "error", err)
	}

	var m *app.Model
	var err error
	switch {
	case path == "":
		m, err = app.NewScratch(cfg, "")
	case fileExists(path):
		data, loadErr := sheetio.Load(path)
		if loadErr != nil {
			return fmt.Errorf("failed to open %s: %w", path, loadErr)
		}
		// Pad the sheet to the configured grid so there is room to move
		// past the file's last cell.
		m, err = app.New(cfg, data.Grow(cfg.Grid.Rows, cfg.Grid.Columns), path)
	default:
		// The file does not exist yet; saving will create it.
		if !sheetio.Supported(path) {
			return fmt.Errorf("%w: %s", sheetio.ErrUnsupportedFormat, path)
		}
		m, err = app.NewScratch(cfg, path)
	}
	if err != nil {
		return err
	}

	// Note: AltScreen and bracketed paste are configured in View()
	p := tea.NewProgram(
		m,
		tea.WithFPS(config.NormalFPS), // Set target FPS
	)

	// Reload the session live when the config file changes.
	stop, err := config.Watch(func(next *config.Config) {
		p.Send(app.ConfigReloadMsg{Config: next})
	})
	if err != nil {
		log.Debug("config watcher unavailable", "error", err)
	} else {
		defer func() { _ = stop() }()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func runServer(address, keyPath string) error {
	applyDebug()

	cfg := loadConfig()
	if err := theme.Initialize(cfg.Theme); err != nil {
		log.Warn("failed to initialize theme", "error", err)
	}
	if address != "" {
		cfg.Server.Address = address
	}
	if keyPath != "" {
		cfg.Server.HostKey = keyPath
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
	}()

	if err := server.Start(ctx, cfg); err != nil {
		return fmt.Errorf("SSH server error: %w", err)
	}
	return nil
}

func convertSheet(src, dst string) error {
	applyDebug()

	data, err := sheetio.Load(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := sheetio.Save(dst, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}

	rows, cols := data.Size()
	fmt.Printf("Converted %s -> %s (%d rows, %d columns)\n", src, dst, rows, cols)
	return nil
}

// printConfigPath prints the config file path
func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

// editConfigFile opens the config file in $EDITOR
func editConfigFile() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	// Ensure config file exists (create default if needed)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", configPath)
		if _, err := config.LoadUserConfig(); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	// Get editor from environment
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		// Try common editors
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Please set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resetConfigToDefaults resets the configuration file to default settings
func resetConfigToDefaults() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	// Check if config exists and ask for confirmation
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Warning: This will overwrite your existing configuration at:\n")
		fmt.Printf("  %s\n\n", configPath)
		fmt.Printf("Are you sure you want to reset to defaults? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))

		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := config.WriteConfig(configPath, config.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Configuration reset to defaults\n")
	fmt.Printf("  Location: %s\n", configPath)
	fmt.Println("\nYou can customize it with: tessera config edit")
	return nil
}

// listKeybindings prints all configured keybindings in a pretty table
func listKeybindings() error {
	cfg := loadConfig()

	dispatcher, err := cfg.Dispatcher()
	if err != nil {
		return fmt.Errorf("invalid keybindings: %w", err)
	}

	printKeybindingsTable(config.GetKeybindings(dispatcher))
	return nil
}

// printKeybindingsTable prints keybinding sections in a pretty table format
func printKeybindingsTable(sections []config.KeybindingSection) {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.CLITableHeader()).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().
		Padding(0, 1)

	fmt.Println()
	fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableBorder()).Render("Tessera Keybindings"))
	fmt.Println()

	for _, section := range sections {
		rows := [][]string{}
		for _, binding := range section.Bindings {
			rows = append(rows, []string{binding.Key, binding.Description})
		}
		if len(rows) == 0 {
			continue
		}

		// Create table with rounded borders
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(theme.CLITableDim())).
			Headers("Keys", "Action").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return headerStyle
				}
				return cellStyle
			})

		fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableKey()).Render(section.Title))
		fmt.Println(t.Render())
		fmt.Println()
	}
}

// listCustomKeybindings shows only the keybindings that differ from defaults
func listCustomKeybindings() error {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	customizations := findCustomizations(cfg)

	if len(customizations) == 0 {
		fmt.Println(lipgloss.NewStyle().Foreground(theme.CLITableDim()).Render("No custom keybindings configured. All keybindings are using defaults."))
		fmt.Println()
		fmt.Println("Run 'tessera keybinds list' to see all keybindings.")
		return nil
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.CLITableHeader()).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().
		Padding(0, 1)

	fmt.Println()
	fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableBorder()).Render("Custom Keybindings"))
	fmt.Println()

	rows := [][]string{}
	for _, custom := range customizations {
		rows = append(rows, []string{
			custom.Action,
			custom.DefaultKeys,
			custom.CustomKeys,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.CLITableDim())).
		Headers("Action", "Default", "Custom").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return cellStyle
		})

	fmt.Println(t.Render())
	fmt.Println()

	note := lipgloss.NewStyle().
		Foreground(theme.CLITableKey()).
		Render(fmt.Sprintf("Found %d customized keybinding(s)", len(customizations)))
	fmt.Println(note)
	fmt.Println()
	return nil
}

// Customization represents a customized keybinding
type Customization struct {
	Action      string
	DefaultKeys string
	CustomKeys  string
}

// findCustomizations finds all keybindings that differ from defaults
func findCustomizations(cfg *config.Config) []Customization {
	var customizations []Customization

	defaults := keymap.DefaultBindings()
	for action, defaultKeys := range defaults {
		userKeys, exists := cfg.Keybindings[string(action)]
		if !exists {
			continue // Using default
		}
		if stringSlicesEqual(userKeys, defaultKeys) {
			continue
		}
		customizations = append(customizations, Customization{
			Action:      formatActionName(string(action)),
			DefaultKeys: strings.Join(defaultKeys, ", "),
			CustomKeys:  strings.Join(userKeys, ", "),
		})
	}

	return customizations
}

// stringSlicesEqual checks if two string slices are equal
func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// formatActionName formats an action name for display
func formatActionName(action string) string {
	// Use description if available
	if desc, ok := config.ActionDescriptions[action]; ok {
		return desc
	}
	return strings.ReplaceAll(action, "_", " ")
}

// listThemes prints every registered theme with a palette swatch.
func listThemes() error {
	ids := theme.IDs()

	// Swatches are pointless on terminals without color.
	profile := colorprofile.Detect(os.Stdout, os.Environ())
	plain := profile == colorprofile.Ascii || profile == colorprofile.NoTTY

	fmt.Println()
	fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableBorder()).Render(fmt.Sprintf("Available Themes (%d)", len(ids))))
	fmt.Println()

	dimStyle := lipgloss.NewStyle().Foreground(theme.CLITableDim())
	for _, id := range ids {
		if plain {
			fmt.Println(id)
			continue
		}
		if err := theme.Initialize(id); err != nil {
			continue
		}
		var swatch strings.Builder
		for _, c := range theme.ANSIPalette() {
			swatch.WriteString(lipgloss.NewStyle().Foreground(c).Render("██"))
		}
		line := fmt.Sprintf("%-24s %s", id, swatch.String())
		if t := theme.Current(); t != nil {
			line += dimStyle.Render("  " + theme.ColorToString(t.Bg))
		}
		fmt.Println(line)
	}
	fmt.Println()
	return nil
}
