// Package grid provides the coordinate, matrix, and point set algebra the
// sheet engine is built on. Matrices and point sets are immutable values:
// every operation returns a new value and never mutates its receiver, so a
// state snapshot taken before a transition stays valid after it.
package grid

// Coordinate addresses a single cell by zero-based row and column.
// Identity is by value: two coordinates are equal iff both components match.
type Coordinate struct {
	Row int
	Col int
}

// Valid reports whether both components are non-negative.
func (c Coordinate) Valid() bool {
	return c.Row >= 0 && c.Col >= 0
}

// Add returns the coordinate offset by the given row and column deltas.
func (c Coordinate) Add(dRow, dCol int) Coordinate {
	return Coordinate{Row: c.Row + dRow, Col: c.Col + dCol}
}

// Clamp returns the coordinate restricted to [0, rows) x [0, cols).
// Degenerate bounds collapse to the origin.
func (c Coordinate) Clamp(rows, cols int) Coordinate {
	return Coordinate{
		Row: clamp(c.Row, 0, rows-1),
		Col: clamp(c.Col, 0, cols-1),
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Rect is an inclusive rectangle of cells.
type Rect struct {
	MinRow, MinCol int
	MaxRow, MaxCol int
}

// RectBetween returns the rectangle spanned by two opposite corners,
// given in any order.
func RectBetween(a, b Coordinate) Rect {
	r := Rect{MinRow: a.Row, MaxRow: b.Row, MinCol: a.Col, MaxCol: b.Col}
	if r.MinRow > r.MaxRow {
		r.MinRow, r.MaxRow = r.MaxRow, r.MinRow
	}
	if r.MinCol > r.MaxCol {
		r.MinCol, r.MaxCol = r.MaxCol, r.MinCol
	}
	return r
}

// Rows returns the number of rows the rectangle spans.
func (r Rect) Rows() int { return r.MaxRow - r.MinRow + 1 }

// Cols returns the number of columns the rectangle spans.
func (r Rect) Cols() int { return r.MaxCol - r.MinCol + 1 }

// Contains reports whether the coordinate lies inside the rectangle.
func (r Rect) Contains(c Coordinate) bool {
	return c.Row >= r.MinRow && c.Row <= r.MaxRow &&
		c.Col >= r.MinCol && c.Col <= r.MaxCol
}

// PointSet returns the set of every cell inside the rectangle. Cells
// with negative components are dropped.
func (r Rect) PointSet() PointSet {
	points := make(map[Coordinate]struct{}, r.Rows()*r.Cols())
	for row := r.MinRow; row <= r.MaxRow; row++ {
		for col := r.MinCol; col <= r.MaxCol; col++ {
			if row >= 0 && col >= 0 {
				points[Coordinate{Row: row, Col: col}] = struct{}{}
			}
		}
	}
	return PointSet{points: points}
}
