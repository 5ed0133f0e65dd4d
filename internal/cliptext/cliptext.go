// Package cliptext converts rectangular cell regions to and from the
// tab-separated text used for clipboard interchange. Rows are joined with a
// newline and cells with a single horizontal tab, matching what spreadsheet
// applications put on the clipboard. Values travel verbatim: a tab or newline
// embedded in a cell corrupts the grid shape on the way back in, which is the
// price of staying compatible with that convention.
package cliptext

import (
	"strings"

	"github.com/tessera-tui/tessera/internal/grid"
)

const (
	// RowSep separates rows in interchange text.
	RowSep = "\n"
	// ColSep separates cells within a row.
	ColSep = "\t"
)

// Serialize renders m as tab-separated text. Every present cell is passed
// through getValue, which extracts the displayed primitive from the cell
// record; cells that are empty, and cells whose getValue reports no value,
// render as the empty string.
func Serialize[T any](m grid.Matrix[T], getValue func(T) (string, bool)) string {
	return m.Join(RowSep, ColSep, func(v T) string {
		s, ok := getValue(v)
		if !ok {
			return ""
		}
		return s
	})
}

// Deserialize parses tab-separated text into a matrix of raw strings for
// pasting. Carriage returns are folded away so CRLF clipboards parse the
// same as LF ones, and one trailing newline is dropped because terminals
// and other spreadsheet apps routinely append it. Rows shorter than the
// longest are padded with empty cells on the right.
//
// An empty-string cell serializes identically to an absent cell, so that
// distinction does not survive a round trip.
func Deserialize(text string) grid.Matrix[string] {
	text = strings.ReplaceAll(text, "\r\n", RowSep)
	text = strings.ReplaceAll(text, "\r", RowSep)
	text = strings.TrimSuffix(text, RowSep)
	return grid.SplitText(text, RowSep, ColSep)
}
