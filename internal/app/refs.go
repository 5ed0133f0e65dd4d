package app

import (
	"strconv"

	"github.com/tessera-tui/tessera/internal/grid"
)

// columnLabel converts a zero-based column index to spreadsheet letters:
// 0 is A, 25 is Z, 26 is AA.
func columnLabel(col int) string {
	label := ""
	for col >= 0 {
		label = string(rune('A'+col%26)) + label
		col = col/26 - 1
	}
	return label
}

// cellRef formats a coordinate in A1 notation.
func cellRef(c grid.Coordinate) string {
	return columnLabel(c.Col) + strconv.Itoa(c.Row+1)
}

// selectionSpan formats the dimensions of the selection's bounding box,
// as in "2x3". A single cell returns the empty string.
func selectionSpan(box grid.Rect) string {
	if box.Rows() == 1 && box.Cols() == 1 {
		return ""
	}
	return strconv.Itoa(box.Rows()) + "x" + strconv.Itoa(box.Cols())
}
