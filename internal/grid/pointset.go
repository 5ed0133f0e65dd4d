package grid

import "sort"

// PointSet is an immutable set of coordinates with ordinary set
// semantics: no duplicates, insertion order irrelevant, every member
// non-negative on both axes. The zero PointSet is the empty set.
type PointSet struct {
	points map[Coordinate]struct{}
}

// NewPointSet returns the set of the given coordinates. Duplicates
// collapse and coordinates with negative components are dropped.
func NewPointSet(coords ...Coordinate) PointSet {
	points := make(map[Coordinate]struct{}, len(coords))
	for _, c := range coords {
		if c.Valid() {
			points[c] = struct{}{}
		}
	}
	return PointSet{points: points}
}

// Has reports whether c is a member of the set.
func (s PointSet) Has(c Coordinate) bool {
	_, ok := s.points[c]
	return ok
}

// Len returns the number of points in the set.
func (s PointSet) Len() int {
	return len(s.points)
}

// Points returns the members in row-major order.
func (s PointSet) Points() []Coordinate {
	out := make([]Coordinate, 0, len(s.points))
	for c := range s.points {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Equal reports whether both sets contain exactly the same points.
func (s PointSet) Equal(other PointSet) bool {
	if len(s.points) != len(other.points) {
		return false
	}
	for c := range s.points {
		if _, ok := other.points[c]; !ok {
			return false
		}
	}
	return true
}

// BoundingBox returns the minimal rectangle containing every point.
// The second result is false for the empty set, whose bounding box is
// undefined.
func (s PointSet) BoundingBox() (Rect, bool) {
	if len(s.points) == 0 {
		return Rect{}, false
	}
	first := true
	var box Rect
	for c := range s.points {
		if first {
			box = Rect{MinRow: c.Row, MaxRow: c.Row, MinCol: c.Col, MaxCol: c.Col}
			first = false
			continue
		}
		if c.Row < box.MinRow {
			box.MinRow = c.Row
		}
		if c.Row > box.MaxRow {
			box.MaxRow = c.Row
		}
		if c.Col < box.MinCol {
			box.MinCol = c.Col
		}
		if c.Col > box.MaxCol {
			box.MaxCol = c.Col
		}
	}
	return box, true
}

// ToMatrix builds a matrix over the set's bounding box. A cell is
// populated from data iff its coordinate is in the set, so a ring or
// otherwise non-contiguous selection collapses to its minimal enclosing
// rectangle with the gaps left empty. Coordinates are rebased so the
// bounding box corner maps to the origin. An empty set yields the empty
// matrix.
func ToMatrix[T any](s PointSet, data Matrix[T]) Matrix[T] {
	box, ok := s.BoundingBox()
	if !ok {
		return Matrix[T]{}
	}
	out := Matrix[T]{}.clone(box.Rows(), box.Cols())
	for c := range s.points {
		v, ok := data.Get(c)
		if !ok {
			continue
		}
		out.cells[c.Row-box.MinRow][c.Col-box.MinCol] = entry[T]{val: v, ok: true}
	}
	return out
}
