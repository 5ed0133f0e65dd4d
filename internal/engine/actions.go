package engine

import "github.com/tessera-tui/tessera/internal/grid"

// Focus activates the cell at c, clamped into the grid bounds, and collapses
// the selection to it. Any in-progress edit ends first. Focusing an empty
// grid reports false.
func (s State) Focus(c grid.Coordinate) (State, bool) {
	rows, cols := s.Data.Size()
	if rows == 0 || cols == 0 {
		return s, false
	}
	next := s
	next.Mode = ModeView
	next.Focused = true
	next.Active = c.Clamp(rows, cols)
	next.Selected = grid.NewPointSet(next.Active)
	return next, true
}

// Go moves the active cell by the given deltas, clamped into the grid
// bounds, and collapses the selection to the new active cell. An in-progress
// edit ends first; committing its buffer is the caller's job. Go reports
// false when no cell is focused.
func (s State) Go(dRow, dCol int) (State, bool) {
	if !s.Focused {
		return s, false
	}
	rows, cols := s.Data.Size()
	if rows == 0 || cols == 0 {
		return s, false
	}
	next := s
	next.Mode = ModeView
	next.Active = s.Active.Add(dRow, dCol).Clamp(rows, cols)
	next.Selected = grid.NewPointSet(next.Active)
	return next, true
}

// Edit enters edit mode for the focused cell. Valid only from view mode;
// a multi-cell selection collapses to the active cell on entry.
func (s State) Edit() (State, bool) {
	if s.Mode != ModeView || !s.Focused {
		return s, false
	}
	next := s
	next.Mode = ModeEdit
	next.Selected = grid.NewPointSet(s.Active)
	return next, true
}

// View leaves edit mode without moving the active cell. Valid only from
// edit mode.
func (s State) View() (State, bool) {
	if s.Mode != ModeEdit {
		return s, false
	}
	next := s
	next.Mode = ModeView
	return next, true
}

// Unfocus deactivates the sheet: it clears the active cell and empties the
// selection. Cell contents are untouched. Valid only in view mode with a
// focused cell.
func (s State) Unfocus() (State, bool) {
	if s.Mode != ModeView || !s.Focused {
		return s, false
	}
	next := s
	next.Focused = false
	next.Active = grid.Coordinate{}
	next.Selected = grid.PointSet{}
	return next, true
}

// ModifyEdge grows or shrinks the selection rectangle by moving the edge
// opposite the anchor, which is the active cell, one step along axis in the
// direction of delta's sign. The far edge clamps to the grid bounds and the
// active cell never moves. Valid only in view mode with a focused cell.
func (s State) ModifyEdge(axis Axis, delta int) (State, bool) {
	if s.Mode != ModeView || !s.Focused || delta == 0 {
		return s, false
	}
	rows, cols := s.Data.Size()
	if rows == 0 || cols == 0 {
		return s, false
	}

	box, ok := s.Selected.BoundingBox()
	if !ok {
		box = grid.RectBetween(s.Active, s.Active)
	}

	// The far corner sits on whichever side of the box the anchor is not.
	far := grid.Coordinate{Row: box.MaxRow, Col: box.MaxCol}
	if s.Active.Row == box.MaxRow {
		far.Row = box.MinRow
	}
	if s.Active.Col == box.MaxCol {
		far.Col = box.MinCol
	}

	switch axis {
	case AxisRow:
		far.Row += delta
	case AxisCol:
		far.Col += delta
	default:
		return s, false
	}
	far = far.Clamp(rows, cols)

	next := s
	next.Selected = grid.RectBetween(s.Active, far).PointSet()
	return next, true
}

// Copy marks the current selection as the most recently copied region so
// the renderer can highlight it. The data is untouched; writing the region
// to the clipboard is the caller's job. Copy reports false when nothing is
// selected.
func (s State) Copy() (State, bool) {
	if !s.Focused || s.Selected.Len() == 0 {
		return s, false
	}
	next := s
	next.Copied = s.Selected
	next.CutMode = false
	return next, true
}

// Cut marks the selection like Copy and additionally clears the value of
// every selected cell.
func (s State) Cut() (State, bool) {
	if !s.Focused || s.Selected.Len() == 0 {
		return s, false
	}
	data := s.Data
	for _, c := range s.Selected.Points() {
		data = data.Unset(c)
	}
	next := s
	next.Data = data
	next.Copied = s.Selected
	next.CutMode = true
	return next, true
}

// Paste writes the values of m into the sheet with its origin at the active
// cell, growing the sheet when the block extends past the current bounds.
// Empty cells in m leave the corresponding sheet cell untouched. The
// selection becomes exactly the pasted rectangle and the active cell stays
// at the paste origin. Valid only in view mode with a focused cell; an
// empty matrix reports false.
func (s State) Paste(m grid.Matrix[string]) (State, bool) {
	if s.Mode != ModeView || !s.Focused {
		return s, false
	}
	prows, pcols := m.Size()
	if prows == 0 || pcols == 0 {
		return s, false
	}

	data := s.Data.Grow(s.Active.Row+prows, s.Active.Col+pcols)
	for r := 0; r < prows; r++ {
		for c := 0; c < pcols; c++ {
			v, ok := m.Get(grid.Coordinate{Row: r, Col: c})
			if !ok {
				continue
			}
			data = data.Set(s.Active.Add(r, c), Cell{Value: v})
		}
	}

	next := s
	next.Data = data
	next.Selected = grid.RectBetween(s.Active, s.Active.Add(prows-1, pcols-1)).PointSet()
	return next, true
}

// SetValue writes a single cell value at c, growing the sheet if needed.
// It is the commit path for the inline editor and for single-cell edits.
func (s State) SetValue(c grid.Coordinate, value string) State {
	next := s
	next.Data = s.Data.Set(c, Cell{Value: value})
	return next
}
