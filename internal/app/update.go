package app

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/tessera-tui/tessera/internal/cliptext"
	"github.com/tessera-tui/tessera/internal/config"
	"github.com/tessera-tui/tessera/internal/engine"
	"github.com/tessera-tui/tessera/internal/grid"
	"github.com/tessera-tui/tessera/internal/keymap"
	"github.com/tessera-tui/tessera/internal/sheetio"
	"github.com/tessera-tui/tessera/internal/theme"
)

// refocusActions are the movement actions that re-anchor the cursor at
// the origin when nothing is focused, instead of moving it.
var refocusActions = map[keymap.Action]bool{
	keymap.ActionMoveUp:    true,
	keymap.ActionMoveDown:  true,
	keymap.ActionMoveLeft:  true,
	keymap.ActionMoveRight: true,
	keymap.ActionNextCol:   true,
	keymap.ActionNextRow:   true,
}

// Update handles all incoming messages and updates the session state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickerMsg:
		m.now = time.Time(msg)
		m.updateSysinfo()
		return m, TickCmd()

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		return m.handleBracketedPaste(msg.Content)

	case tea.PasteStartMsg, tea.PasteEndMsg:
		return m, nil

	case tea.ClipboardMsg:
		// Answer to a ReadClipboard request. An empty answer falls back
		// to the session buffer.
		if !m.pasteWaiting {
			return m, nil
		}
		m.pasteWaiting = false
		text := msg.Content
		if text == "" {
			text = m.fallbackClipboard
		}
		m.pasteText(text)
		return m, nil

	case clipboardTimeoutMsg:
		// The terminal never answered the OSC 52 read.
		if !m.pasteWaiting {
			return m, nil
		}
		m.pasteWaiting = false
		m.pasteText(m.fallbackClipboard)
		return m, nil

	case ConfigReloadMsg:
		m.applyConfig(msg.Config)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.followActive()
		return m, nil
	}

	return m, nil
}

// handleKey routes a key press. Application chrome keys run first, then
// the editor in edit mode, then the binding tables, and finally the
// printable promotion into edit mode.
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	m.notice = ""

	if m.showHelp {
		switch key {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	switch key {
	case "ctrl+q":
		return m, tea.Quit
	case "ctrl+c":
		// Bound to copy while a cell is focused; emergency quit otherwise.
		if !m.state.Focused {
			return m, tea.Quit
		}
	case "ctrl+s":
		return m, m.save()
	}

	if m.state.Mode == engine.ModeEdit {
		return m.handleEditKey(msg)
	}

	switch key {
	case "?":
		m.showHelp = true
		return m, nil
	case "q":
		if !m.state.Focused {
			return m, tea.Quit
		}
	}

	// Movement keys land the cursor at the origin when nothing is
	// focused yet.
	if !m.state.Focused {
		if action, ok := m.dispatcher.Lookup(m.state.Mode, key); ok && refocusActions[action] {
			m.state, _ = m.state.Focus(grid.Coordinate{})
			m.followActive()
			return m, nil
		}
	}

	res := m.dispatcher.Dispatch(m.state, key)
	if res.Handled {
		// Cut clears its cells in the new state, so the clipboard text
		// has to come from the data as it was before the action.
		prevData := m.state.Data
		m.state = res.State
		m.followActive()
		switch res.Effect {
		case keymap.EffectCopy:
			if res.Action == keymap.ActionCut {
				m.dirty = true
			}
			text := m.copiedText(prevData)
			m.fallbackClipboard = text
			return m, tea.SetClipboard(text)
		case keymap.EffectPaste:
			m.pasteWaiting = true
			return m, tea.Batch(tea.ReadClipboard, clipboardTimeoutCmd())
		}
		if res.Action == keymap.ActionEdit && m.state.Mode == engine.ModeEdit {
			m.editor.seed(m.state.Value(m.state.Active))
		}
		return m, nil
	}

	// Printable text on a focused cell starts an edit that replaces the
	// cell's value.
	if m.cfg.Behavior.PrintableStartsEdit {
		if text := msg.Key().Text; text != "" {
			if next, ok := keymap.Promote(m.state, text); ok {
				m.state = next
				m.editor.seed("")
				m.editor.insert(text)
				return m, nil
			}
		}
	}

	return m, nil
}

// handleEditKey feeds a key press to the inline editor. Keys bound in the
// edit table run first: escape cancels the edit, tab and enter commit the
// buffer and navigate.
func (m *Model) handleEditKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if action, ok := m.dispatcher.Lookup(engine.ModeEdit, key); ok {
		switch action {
		case keymap.ActionExitEdit:
			m.state, _ = m.state.View()
			return m, nil
		case keymap.ActionNextCol, keymap.ActionNextRow:
			m.commitEditor()
			if action == keymap.ActionNextRow && !m.cfg.Behavior.EnterAfterCommit {
				m.state, _ = m.state.View()
				return m, nil
			}
			res := m.dispatcher.Dispatch(m.state, key)
			m.state = res.State
			m.followActive()
			return m, nil
		}
	}

	switch key {
	case "backspace":
		m.editor.backspace()
	case "delete":
		m.editor.deleteForward()
	case "left":
		m.editor.left()
	case "right":
		m.editor.right()
	case "home":
		m.editor.home()
	case "end":
		m.editor.end()
	default:
		if text := msg.Key().Text; text != "" {
			m.editor.insert(text)
		}
	}
	return m, nil
}

// handleBracketedPaste routes pasted terminal text: into the editor in
// edit mode, onto the sheet in view mode.
func (m *Model) handleBracketedPaste(text string) (tea.Model, tea.Cmd) {
	if m.state.Mode == engine.ModeEdit {
		m.editor.insert(ansi.Strip(text))
		return m, nil
	}
	m.pasteText(text)
	return m, nil
}

// commitEditor writes the editor buffer into the active cell.
func (m *Model) commitEditor() {
	m.state = m.state.SetValue(m.state.Active, m.editor.text())
	m.dirty = true
}

// copiedText serializes the copied region over the given cell data.
func (m *Model) copiedText(data grid.Matrix[engine.Cell]) string {
	region := grid.ToMatrix(m.state.Copied, data)
	return cliptext.Serialize(region, engine.CellValue)
}

// pasteText deserializes clipboard text onto the sheet at the active
// cell. Empty text is a no-op so a missed clipboard answer cannot blank
// the sheet.
func (m *Model) pasteText(text string) {
	text = ansi.Strip(text)
	if text == "" {
		return
	}
	next, ok := m.state.Paste(cliptext.Deserialize(text))
	if !ok {
		return
	}
	m.state = next
	m.dirty = true
	m.followActive()
}

// applyConfig swaps in a reloaded configuration. A binding set that no
// longer builds keeps the previous dispatcher.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if dispatcher, err := cfg.Dispatcher(); err == nil {
		m.dispatcher = dispatcher
	}
	theme.Initialize(cfg.Theme)
	m.cfg = cfg
	m.notice = "config reloaded"
}

// save writes the sheet back to its file.
func (m *Model) save() tea.Cmd {
	if m.path == "" {
		m.notice = "no file to save to"
		return nil
	}
	if err := sheetio.Save(m.path, m.state.Data); err != nil {
		m.notice = fmt.Sprintf("save failed: %v", err)
		return nil
	}
	m.dirty = false
	m.notice = fmt.Sprintf("saved %s", m.path)
	return nil
}
