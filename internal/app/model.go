// Package app implements the terminal user interface: a scrolling sheet
// view over the interaction state, an inline cell editor, clipboard
// integration over OSC 52, and a status bar.
package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/tessera-tui/tessera/internal/config"
	"github.com/tessera-tui/tessera/internal/engine"
	"github.com/tessera-tui/tessera/internal/grid"
	"github.com/tessera-tui/tessera/internal/keymap"
)

const (
	// statusTickInterval drives the clock and host stats in the status bar.
	statusTickInterval = time.Second
	// clipboardReadTimeout is how long a paste waits for the terminal to
	// answer an OSC 52 read before falling back to the session buffer.
	clipboardReadTimeout = 200 * time.Millisecond
)

// TickerMsg represents a periodic tick event for updating the status bar.
type TickerMsg time.Time

// ConfigReloadMsg carries a freshly loaded configuration into the program.
// The config watcher sends it whenever the file changes on disk.
type ConfigReloadMsg struct {
	Config *config.Config
}

// clipboardTimeoutMsg fires when a clipboard read went unanswered.
type clipboardTimeoutMsg struct{}

// Model is the Bubble Tea model for a sheet session.
type Model struct {
	state      engine.State
	dispatcher *keymap.Dispatcher
	cfg        *config.Config

	width  int
	height int

	// Scroll offsets of the sheet viewport, in cells.
	rowOffset int
	colOffset int

	editor editor

	// fallbackClipboard mirrors every copy for terminals that never
	// answer an OSC 52 read.
	fallbackClipboard string
	pasteWaiting      bool

	showHelp bool

	path   string
	dirty  bool
	notice string

	cpuHistory    []float64
	ramUsage      float64
	lastSysUpdate time.Time
	now           time.Time
}

// New builds a session over the given sheet data. The path is shown in
// the status bar and used by the save key; it may be empty for a scratch
// sheet.
func New(cfg *config.Config, data grid.Matrix[engine.Cell], path string) (*Model, error) {
	dispatcher, err := cfg.Dispatcher()
	if err != nil {
		return nil, err
	}
	return &Model{
		state:      engine.New(data),
		dispatcher: dispatcher,
		cfg:        cfg,
		path:       path,
		now:        time.Now(),
	}, nil
}

// NewScratch builds a session over an empty sheet sized from the config.
// A non-empty path names a file that does not exist yet; saving creates it.
func NewScratch(cfg *config.Config, path string) (*Model, error) {
	data := grid.Matrix[engine.Cell]{}.Grow(cfg.Grid.Rows, cfg.Grid.Columns)
	return New(cfg, data, path)
}

// Init starts the status bar ticker.
func (m *Model) Init() tea.Cmd {
	return TickCmd()
}

// TickCmd creates a command that generates status bar tick messages.
func TickCmd() tea.Cmd {
	return tea.Tick(statusTickInterval, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// clipboardTimeoutCmd arms the fallback for an unanswered clipboard read.
func clipboardTimeoutCmd() tea.Cmd {
	return tea.Tick(clipboardReadTimeout, func(time.Time) tea.Msg {
		return clipboardTimeoutMsg{}
	})
}

// Resize sets the viewport size. SSH sessions call it with the client
// PTY size before the program delivers its first WindowSizeMsg.
func (m *Model) Resize(width, height int) {
	m.width = width
	m.height = height
	m.followActive()
}

// State exposes the interaction state for testing.
func (m *Model) State() engine.State {
	return m.state
}
