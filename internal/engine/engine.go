// Package engine implements the sheet interaction state machine. It owns the
// authoritative state of a sheet: the cell data, the active coordinate, the
// selection, and the input mode. Every transition is a pure function that
// takes a state value and returns the next state plus a flag reporting
// whether the transition applied; a false flag means the input state comes
// back unchanged. Nothing in this package performs I/O or errors: moves clamp
// silently to the grid bounds and transitions whose preconditions do not hold
// are no-ops.
package engine

import "github.com/tessera-tui/tessera/internal/grid"

// Mode identifies how keyboard input is interpreted.
type Mode int

const (
	// ModeView is the navigation mode. Keys move the active cell and
	// manipulate the selection.
	ModeView Mode = iota
	// ModeEdit is the text entry mode for the active cell.
	ModeEdit
)

// String returns the mode name used in the status bar and in logs.
func (m Mode) String() string {
	switch m {
	case ModeView:
		return "view"
	case ModeEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// Axis selects the direction along which ModifyEdge moves a selection edge.
type Axis int

const (
	// AxisRow grows or shrinks the selection vertically.
	AxisRow Axis = iota
	// AxisCol grows or shrinks the selection horizontally.
	AxisCol
)

// Cell is a single cell record. It is a struct rather than a bare string so
// embedders can grow it without touching the engine; the codec extracts the
// displayed value through a pluggable function.
type Cell struct {
	Value string
}

// CellValue extracts the displayed primitive from a cell record. It is the
// default extractor used when serializing regions for the clipboard.
func CellValue(c Cell) (string, bool) {
	return c.Value, true
}

// State is the single source of truth for one sheet.
//
// Invariants, upheld by every transition:
//   - edit mode implies a focused cell, and the selection holds at most
//     that cell
//   - a focused cell is always a member of the selection
//   - every coordinate in Active and Selected lies inside the bounds of
//     Data
type State struct {
	Data     grid.Matrix[Cell] // the sheet contents
	Active   grid.Coordinate   // meaningful only while Focused
	Focused  bool              // whether any cell is active
	Selected grid.PointSet     // highlighted cells, anchored at Active
	Mode     Mode              // view or edit
	Copied   grid.PointSet     // most recently copied region, for feedback
	CutMode  bool              // the copied region came from a cut
}

// New returns the initial state for the given data: view mode, no active
// cell, empty selection.
func New(data grid.Matrix[Cell]) State {
	return State{Data: data}
}

// NewFromStrings builds the initial state from dense rows of raw values.
func NewFromStrings(rows [][]string) State {
	cells := make([][]Cell, len(rows))
	for r, row := range rows {
		cells[r] = make([]Cell, len(row))
		for c, v := range row {
			cells[r][c] = Cell{Value: v}
		}
	}
	return New(grid.FromRows(cells))
}

// WithData replaces the sheet contents wholesale, as happens when the
// embedding application swaps the document. Any in-progress edit ends, the
// active cell is clamped into the new bounds, the selection collapses to it,
// and the copied-region marker is dropped. Replacing with an empty grid
// unfocuses entirely.
func (s State) WithData(data grid.Matrix[Cell]) State {
	next := s
	next.Data = data
	next.Mode = ModeView
	next.Copied = grid.PointSet{}
	next.CutMode = false

	rows, cols := data.Size()
	if rows == 0 || cols == 0 {
		next.Focused = false
		next.Active = grid.Coordinate{}
		next.Selected = grid.PointSet{}
		return next
	}
	if next.Focused {
		next.Active = next.Active.Clamp(rows, cols)
		next.Selected = grid.NewPointSet(next.Active)
	}
	return next
}

// Value returns the displayed value of the cell at c, or the empty string
// for an empty cell.
func (s State) Value(c grid.Coordinate) string {
	cell, ok := s.Data.Get(c)
	if !ok {
		return ""
	}
	return cell.Value
}

// SelectionBox returns the bounding rectangle of the current selection.
func (s State) SelectionBox() (grid.Rect, bool) {
	return s.Selected.BoundingBox()
}
