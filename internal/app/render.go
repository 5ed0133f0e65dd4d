package app

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/tessera-tui/tessera/internal/config"
	"github.com/tessera-tui/tessera/internal/engine"
	"github.com/tessera-tui/tessera/internal/grid"
	"github.com/tessera-tui/tessera/internal/pool"
	"github.com/tessera-tui/tessera/internal/theme"
)

const (
	headerHeight    = 1
	statusBarHeight = 1
	minColumnWidth  = 4
	maxColumnWidth  = 16
)

// sheetStyles holds the per-frame styles for the grid. Theme colors can
// change on config reload, so these are rebuilt once per render instead
// of being cached at package level.
type sheetStyles struct {
	cell      lipgloss.Style
	cursor    lipgloss.Style
	selection lipgloss.Style
	copied    lipgloss.Style
	cut       lipgloss.Style
	gutter    lipgloss.Style
	gutterHot lipgloss.Style
	header    lipgloss.Style
	headerHot lipgloss.Style
}

func newSheetStyles() sheetStyles {
	headerBg, headerFg := theme.HeaderColors()
	hotBg, hotFg := theme.HeaderActiveColors()
	cursorBg, cursorFg := theme.CursorColors()
	selBg, selFg := theme.SelectionColors()

	return sheetStyles{
		cell:      lipgloss.NewStyle().Foreground(theme.SheetFg()),
		cursor:    lipgloss.NewStyle().Background(cursorBg).Foreground(cursorFg).Bold(true),
		selection: lipgloss.NewStyle().Background(selBg).Foreground(selFg),
		copied:    lipgloss.NewStyle().Foreground(theme.CopiedFg()).Underline(true),
		cut:       lipgloss.NewStyle().Foreground(theme.CutFg()).Underline(true),
		gutter:    lipgloss.NewStyle().Foreground(theme.GridLineFg()),
		gutterHot: lipgloss.NewStyle().Background(hotBg).Foreground(hotFg).Bold(true),
		header:    lipgloss.NewStyle().Background(headerBg).Foreground(headerFg),
		headerHot: lipgloss.NewStyle().Background(hotBg).Foreground(hotFg).Bold(true),
	}
}

// View returns the rendered view as a string.
func (m *Model) View() tea.View {
	var view tea.View

	view.SetContent(m.render())

	// Configure view properties (moved from startup options and Init commands)
	view.AltScreen = true
	view.DisableBracketedPasteMode = false

	return view
}

func (m *Model) render() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.showHelp {
		return m.renderHelp()
	}

	// Use string concatenation instead of lipgloss.JoinVertical for the
	// main frame, it is measurably faster at this size.
	return m.renderSheet() + "\n" + m.renderStatusBar()
}

// visibleRows returns how many sheet rows fit between the column header
// and the status bar.
func (m *Model) visibleRows() int {
	v := m.height - headerHeight - statusBarHeight
	if v < 1 {
		v = 1
	}
	return v
}

// gutterWidth returns the width of the row-number gutter, excluding the
// single space that separates it from the first column.
func gutterWidth(rows int) int {
	w := len(strconv.Itoa(rows))
	if w < 2 {
		w = 2
	}
	return w
}

// columnWidths sizes every column to its widest cell, clamped to the
// configured min/max so one long value cannot swallow the viewport.
func (m *Model) columnWidths() []int {
	rows, cols := m.state.Data.Size()
	widths := make([]int, cols)
	for c := range widths {
		w := lipgloss.Width(columnLabel(c))
		for r := 0; r < rows; r++ {
			cell, ok := m.state.Data.Get(grid.Coordinate{Row: r, Col: c})
			if !ok {
				continue
			}
			if cw := lipgloss.Width(cell.Value); cw > w {
				w = cw
			}
		}
		if w < minColumnWidth {
			w = minColumnWidth
		}
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		widths[c] = w
	}
	return widths
}

// visibleColumns returns the column indices that fit in the viewport
// starting at the current column offset. The first column is always
// included even when it has to be clipped.
func (m *Model) visibleColumns(widths []int) []int {
	rows, cols := m.state.Data.Size()
	usable := m.width - gutterWidth(rows) - 1

	var visible []int
	x := 0
	for c := m.colOffset; c < cols; c++ {
		if len(visible) > 0 && x+widths[c]+1 > usable {
			break
		}
		visible = append(visible, c)
		x += widths[c] + 1
	}
	return visible
}

// followActive scrolls the viewport so the active cell stays on screen.
func (m *Model) followActive() {
	if !m.state.Focused || m.width <= 0 || m.height <= 0 {
		return
	}

	if m.state.Active.Row < m.rowOffset {
		m.rowOffset = m.state.Active.Row
	}
	if vr := m.visibleRows(); m.state.Active.Row >= m.rowOffset+vr {
		m.rowOffset = m.state.Active.Row - vr + 1
	}

	if m.state.Active.Col < m.colOffset {
		m.colOffset = m.state.Active.Col
	}
	widths := m.columnWidths()
	for m.colOffset < m.state.Active.Col && !m.activeColumnFits(widths) {
		m.colOffset++
	}
}

func (m *Model) activeColumnFits(widths []int) bool {
	rows, _ := m.state.Data.Size()
	usable := m.width - gutterWidth(rows) - 1

	x := 0
	for c := m.colOffset; c <= m.state.Active.Col && c < len(widths); c++ {
		x += widths[c] + 1
	}
	return x <= usable
}

func (m *Model) renderSheet() string {
	rows, _ := m.state.Data.Size()
	widths := m.columnWidths()
	visible := m.visibleColumns(widths)
	gutter := gutterWidth(rows)
	styles := newSheetStyles()

	b := pool.GetStringBuilder()
	defer pool.PutStringBuilder(b)
	b.WriteString(m.renderHeaderRow(styles, widths, visible, gutter))

	bodyRows := m.visibleRows()
	for i := 0; i < bodyRows; i++ {
		b.WriteString("\n")
		r := m.rowOffset + i
		if r >= rows {
			continue
		}
		b.WriteString(m.renderSheetRow(styles, r, widths, visible, gutter))
	}
	return b.String()
}

func (m *Model) renderHeaderRow(styles sheetStyles, widths, visible []int, gutter int) string {
	b := pool.GetStringBuilder()
	defer pool.PutStringBuilder(b)
	width := gutter + 1
	b.WriteString(styles.header.Render(strings.Repeat(" ", width)))

	for _, c := range visible {
		st := styles.header
		if m.state.Focused && c == m.state.Active.Col {
			st = styles.headerHot
		}
		b.WriteString(st.Render(truncPad(columnLabel(c), widths[c])))
		b.WriteString(styles.header.Render(" "))
		width += widths[c] + 1
	}

	if width < m.width {
		b.WriteString(styles.header.Render(strings.Repeat(" ", m.width-width)))
	}
	return ansi.Truncate(b.String(), m.width, "")
}

func (m *Model) renderSheetRow(styles sheetStyles, r int, widths, visible []int, gutter int) string {
	b := pool.GetStringBuilder()
	defer pool.PutStringBuilder(b)

	gutterStyle := styles.gutter
	if m.state.Focused && r == m.state.Active.Row {
		gutterStyle = styles.gutterHot
	}
	b.WriteString(gutterStyle.Render(fmt.Sprintf("%*d", gutter, r+1)))
	b.WriteString(" ")

	for _, c := range visible {
		b.WriteString(m.renderCell(styles, grid.Coordinate{Row: r, Col: c}, widths[c]))
		b.WriteString(" ")
	}
	return ansi.Truncate(b.String(), m.width, "")
}

// renderCell picks the style for one cell. The cursor wins over the
// selection, which wins over the copied/cut markers.
func (m *Model) renderCell(styles sheetStyles, c grid.Coordinate, w int) string {
	if m.state.Mode == engine.ModeEdit && m.state.Focused && c == m.state.Active {
		return m.renderEditorCell(w)
	}

	text := truncPad(m.state.Value(c), w)
	switch {
	case m.state.Focused && c == m.state.Active:
		return styles.cursor.Render(text)
	case m.state.Selected.Has(c):
		return styles.selection.Render(text)
	case m.state.Copied.Has(c):
		if m.state.CutMode {
			return styles.cut.Render(text)
		}
		return styles.copied.Render(text)
	}
	return styles.cell.Render(text)
}

// renderEditorCell draws the in-cell editor. The buffer may be wider
// than the column, so the window slides to keep the cursor visible.
func (m *Model) renderEditorCell(w int) string {
	bg, fg := theme.EditorColors()
	edStyle := lipgloss.NewStyle().Background(bg).Foreground(fg)
	cursorStyle := lipgloss.NewStyle().
		Background(bg).
		Foreground(theme.EditorCursorFg()).
		Reverse(true)

	runes := m.editor.buffer
	cursor := m.editor.cursor

	start := 0
	if cursor >= w {
		start = cursor - w + 1
	}

	b := pool.GetStringBuilder()
	defer pool.PutStringBuilder(b)
	width := 0
	for i := start; i < len(runes) && width < w; i++ {
		ch := string(runes[i])
		if i == cursor {
			b.WriteString(cursorStyle.Render(ch))
		} else {
			b.WriteString(edStyle.Render(ch))
		}
		width += lipgloss.Width(ch)
	}
	if cursor >= len(runes) && width < w {
		b.WriteString(cursorStyle.Render(" "))
		width++
	}
	if width < w {
		b.WriteString(edStyle.Render(strings.Repeat(" ", w-width)))
	}
	return b.String()
}

func (m *Model) renderStatusBar() string {
	barBg, barFg := theme.StatusBarColors()
	barStyle := lipgloss.NewStyle().Background(barBg).Foreground(barFg)
	accentStyle := barStyle.Foreground(theme.StatusAccent()).Bold(true)
	dimStyle := barStyle.Foreground(theme.StatusDim())

	badgeStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	badgeText := "VIEW"
	if m.state.Mode == engine.ModeEdit {
		bg, fg := theme.ModeBadgeEdit()
		badgeStyle = badgeStyle.Background(bg).Foreground(fg)
		badgeText = "EDIT"
	} else {
		bg, fg := theme.ModeBadgeView()
		badgeStyle = badgeStyle.Background(bg).Foreground(fg)
	}

	parts := []string{badgeStyle.Render(badgeText)}

	if m.state.Focused {
		parts = append(parts, accentStyle.Render(" "+cellRef(m.state.Active)))
		if box, ok := m.state.SelectionBox(); ok {
			if span := selectionSpan(box); span != "" {
				parts = append(parts, dimStyle.Render(" "+span))
			}
		}
	}

	name := "[scratch]"
	if m.path != "" {
		name = filepath.Base(m.path)
	}
	if m.dirty {
		name += "*"
	}
	parts = append(parts, barStyle.Render("  "+name))

	if m.notice != "" {
		parts = append(parts, accentStyle.Render("  "+m.notice))
	}

	leftInfo := lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	clock := m.now
	if clock.IsZero() {
		clock = time.Now()
	}
	rightInfo := dimStyle.Render(m.cpuGraph() + " " + m.ramGauge() + " " + clock.Format("15:04:05") + " ")

	// Calculate spacing between the two halves.
	gap := m.width - lipgloss.Width(leftInfo) - lipgloss.Width(rightInfo)
	if gap < 0 {
		gap = 0
	}

	bar := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftInfo,
		barStyle.Render(strings.Repeat(" ", gap)),
		rightInfo,
	)
	return ansi.Truncate(bar, m.width, "")
}

func (m *Model) renderHelp() string {
	sections := config.GetKeybindings(m.dispatcher)

	titleStyle := lipgloss.NewStyle().Foreground(theme.HelpTitle()).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(theme.HelpKeyBadge()).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.HelpGray())

	// Find max key length for padding
	maxKeyLen := 0
	for _, section := range sections {
		for _, binding := range section.Bindings {
			if len(binding.Key) > maxKeyLen {
				maxKeyLen = len(binding.Key)
			}
		}
	}

	var helpLines []string
	helpLines = append(helpLines, titleStyle.Render("Tessera Keybindings"))

	for _, section := range sections {
		helpLines = append(helpLines, "")
		helpLines = append(helpLines, titleStyle.Render(section.Title))
		for _, binding := range section.Bindings {
			padding := maxKeyLen - len(binding.Key) + 2
			if padding < 2 {
				padding = 2
			}
			paddingStr := strings.Repeat(" ", padding)
			helpLines = append(helpLines, keyStyle.Render(binding.Key)+paddingStr+descStyle.Render(binding.Description))
		}
	}

	helpLines = append(helpLines, "")
	helpLines = append(helpLines, descStyle.Render("Press ? or Esc to close"))

	content := lipgloss.JoinVertical(lipgloss.Left, helpLines...)

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.HelpBorder()).
		Padding(1, 2)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlayStyle.Render(content))
}

// truncPad fits s into exactly w display cells, truncating with an
// ellipsis when it is too wide and padding with spaces when too narrow.
func truncPad(s string, w int) string {
	if w <= 0 {
		return ""
	}
	sw := lipgloss.Width(s)
	if sw <= w {
		return s + strings.Repeat(" ", w-sw)
	}
	out := ansi.Truncate(s, w-1, "")
	pad := w - lipgloss.Width(out) - 1
	if pad < 0 {
		pad = 0
	}
	return out + "…" + strings.Repeat(" ", pad)
}
