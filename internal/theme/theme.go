// Package theme provides color themes and styling for the tessera sheet.
package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize activates the named tint. An empty name disables theming, so
// every accessor falls back to plain terminal ANSI colors. An unknown name
// activates the registry default and reports an error the caller can log.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()
	if !tint.SetTintID(themeName) {
		tint.SetTintID("default")
		return fmt.Errorf("unknown theme %q, using default", themeName)
	}
	return nil
}

// Current returns the active tint, or nil while theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// IDs returns the identifiers of every registered theme. The registry is
// initialized on demand so the themes command works without Initialize.
func IDs() []string {
	if !enabled {
		tint.NewDefaultRegistry()
	}
	return tint.TintIDs()
}

// ANSIPalette returns the 16 ANSI colors (0-15) of the current theme.
// The themes command prints them as swatches.
func ANSIPalette() [16]color.Color {
	t := Current()
	if t == nil {
		// The stock xterm palette stands in when theming is off.
		return [16]color.Color{
			lipgloss.Color("#000000"), lipgloss.Color("#cd0000"), lipgloss.Color("#00cd00"), lipgloss.Color("#cdcd00"),
			lipgloss.Color("#0000ee"), lipgloss.Color("#cd00cd"), lipgloss.Color("#00cdcd"), lipgloss.Color("#e5e5e5"),
			lipgloss.Color("#7f7f7f"), lipgloss.Color("#ff0000"), lipgloss.Color("#00ff00"), lipgloss.Color("#ffff00"),
			lipgloss.Color("#5c5cff"), lipgloss.Color("#ff00ff"), lipgloss.Color("#00ffff"), lipgloss.Color("#ffffff"),
		}
	}
	return [16]color.Color{
		t.Black, t.Red, t.Green, t.Yellow,
		t.Blue, t.Purple, t.Cyan, t.White,
		t.BrightBlack, t.BrightRed, t.BrightGreen, t.BrightYellow,
		t.BrightBlue, t.BrightPurple, t.BrightCyan, t.BrightWhite,
	}
}

// Sheet colors

// SheetFg is the color of ordinary cell text.
func SheetFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("7")
	}
	return t.Fg
}

// GridLineFg is the color of the separators between cells.
func GridLineFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("8")
	}
	return t.BrightBlack
}

// HeaderColors returns the background and foreground of the row and
// column headers.
func HeaderColors() (bg color.Color, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("0"), lipgloss.Color("8")
	}
	return t.Bg, t.BrightBlack
}

// HeaderActiveColors returns the header colors for the active row and
// column, so the cursor position reads off the sheet edges.
func HeaderActiveColors() (bg color.Color, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("8"), lipgloss.Color("15")
	}
	return t.BrightBlack, t.BrightWhite
}

// CursorColors returns the background and foreground of the active cell.
func CursorColors() (bg color.Color, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("14"), lipgloss.Color("0")
	}
	return t.BrightCyan, t.Black
}

// SelectionColors returns the background and foreground of selected cells.
func SelectionColors() (bg color.Color, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("62"), lipgloss.Color("15")
	}
	return t.Purple, t.BrightWhite
}

// CopiedFg marks cells inside the copied region.
func CopiedFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("11")
	}
	return t.Yellow
}

// CutFg marks cells inside a cut region, dimmer than a copy.
func CutFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("9")
	}
	return t.Red
}

// Editor colors

// EditorColors returns the background and foreground of the inline cell
// editor.
func EditorColors() (bg color.Color, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("11"), lipgloss.Color("0")
	}
	return t.BrightYellow, t.Black
}

// EditorCursorFg is the color of the text cursor inside the editor.
func EditorCursorFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#00ff00")
	}
	return t.Cursor
}

// Status bar colors

// StatusBarColors returns the background and foreground of the status bar.
func StatusBarColors() (bg color.Color, fg color.Color) {
	return lipgloss.Color("#1a1a2e"), lipgloss.Color("#a0a0b0")
}

// ModeBadgeView returns the badge colors for view mode.
func ModeBadgeView() (bg color.Color, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("12"), lipgloss.Color("0")
	}
	return t.BrightBlue, t.Black
}

// ModeBadgeEdit returns the badge colors for edit mode.
func ModeBadgeEdit() (bg color.Color, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("10"), lipgloss.Color("0")
	}
	return t.BrightGreen, t.Black
}

// StatusAccent highlights the cell reference and selection span.
func StatusAccent() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("14")
	}
	return t.BrightCyan
}

// StatusDim is for the low-priority right-hand segments.
func StatusDim() color.Color {
	return lipgloss.Color("#808090")
}

// Help menu colors
func HelpKeyBadge() color.Color {
	return lipgloss.Color("5")
}

func HelpGray() color.Color {
	return lipgloss.Color("8")
}

func HelpBorder() color.Color {
	return lipgloss.Color("14")
}

func HelpTitle() color.Color {
	return lipgloss.Color("12")
}

// CLI table colors
func CLITableHeader() color.Color {
	return lipgloss.Color("12")
}

func CLITableBorder() color.Color {
	return lipgloss.Color("14")
}

func CLITableKey() color.Color {
	return lipgloss.Color("11")
}

func CLITableDim() color.Color {
	return lipgloss.Color("8")
}

// ColorToString renders a color as a hex string for the themes listing.
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	// RGBA channels are 16 bit.
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
