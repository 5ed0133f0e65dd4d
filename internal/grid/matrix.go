package grid

import "strings"

// entry is a single optional cell. The zero entry is an empty cell.
type entry[T any] struct {
	val T
	ok  bool
}

// Matrix is a rectangular two-dimensional container addressed by
// Coordinate. Entries are optional: an absent entry is an empty cell,
// which is distinct from a present zero value. The zero Matrix is an
// empty 0x0 matrix ready to use.
type Matrix[T any] struct {
	cells [][]entry[T]
	cols  int
}

// FromRows builds a matrix from dense row data. Every supplied value is
// present; rows shorter than the longest leave their trailing cells empty.
func FromRows[T any](data [][]T) Matrix[T] {
	cols := 0
	for _, row := range data {
		if len(row) > cols {
			cols = len(row)
		}
	}
	cells := make([][]entry[T], len(data))
	for r, row := range data {
		line := make([]entry[T], cols)
		for c, v := range row {
			line[c] = entry[T]{val: v, ok: true}
		}
		cells[r] = line
	}
	return Matrix[T]{cells: cells, cols: cols}
}

// Size returns the logical dimensions of the matrix.
func (m Matrix[T]) Size() (rows, cols int) {
	return len(m.cells), m.cols
}

// Get returns the value at c. The second result is false when the cell
// is empty or c lies outside the matrix.
func (m Matrix[T]) Get(c Coordinate) (T, bool) {
	if c.Row < 0 || c.Row >= len(m.cells) || c.Col < 0 || c.Col >= m.cols {
		var zero T
		return zero, false
	}
	e := m.cells[c.Row][c.Col]
	return e.val, e.ok
}

// Set returns a copy of the matrix with the value at c replaced. The
// matrix grows to include c when it lies outside the current bounds; it
// never shrinks. A coordinate with a negative component returns the
// matrix unchanged.
func (m Matrix[T]) Set(c Coordinate, v T) Matrix[T] {
	if !c.Valid() {
		return m
	}
	next := m.clone(c.Row+1, c.Col+1)
	next.cells[c.Row][c.Col] = entry[T]{val: v, ok: true}
	return next
}

// Unset returns a copy of the matrix with the cell at c empty. The
// shape is unchanged; coordinates outside the matrix return it as is.
func (m Matrix[T]) Unset(c Coordinate) Matrix[T] {
	if c.Row < 0 || c.Row >= len(m.cells) || c.Col < 0 || c.Col >= m.cols {
		return m
	}
	next := m.clone(0, 0)
	next.cells[c.Row][c.Col] = entry[T]{}
	return next
}

// Grow returns a matrix measuring at least rows by cols. Existing
// values keep their coordinates. A matrix already that large is
// returned unchanged; a matrix never shrinks.
func (m Matrix[T]) Grow(rows, cols int) Matrix[T] {
	if rows <= len(m.cells) && cols <= m.cols {
		return m
	}
	return m.clone(rows, cols)
}

// Map returns a copy with f applied to every present entry. Empty cells
// and the shape are preserved.
func (m Matrix[T]) Map(f func(T) T) Matrix[T] {
	next := m.clone(0, 0)
	for r := range next.cells {
		for c := range next.cells[r] {
			if next.cells[r][c].ok {
				next.cells[r][c].val = f(next.cells[r][c].val)
			}
		}
	}
	return next
}

// Convert builds a matrix of a new element type by applying f to every
// present entry of m. Empty cells and the shape are preserved.
func Convert[T, U any](m Matrix[T], f func(T) U) Matrix[U] {
	rows, cols := m.Size()
	next := Matrix[U]{}.clone(rows, cols)
	for r := range m.cells {
		for c := range m.cells[r] {
			if m.cells[r][c].ok {
				next.cells[r][c] = entry[U]{val: f(m.cells[r][c].val), ok: true}
			}
		}
	}
	return next
}

// Filter returns a copy in which every present entry failing pred
// becomes empty. The shape is unchanged.
func (m Matrix[T]) Filter(pred func(T) bool) Matrix[T] {
	next := m.clone(0, 0)
	for r := range next.cells {
		for c := range next.cells[r] {
			if next.cells[r][c].ok && !pred(next.cells[r][c].val) {
				next.cells[r][c] = entry[T]{}
			}
		}
	}
	return next
}

// Join concatenates the matrix in row-major order, rendering each
// present entry through str and each empty cell as the empty string.
func (m Matrix[T]) Join(rowSep, colSep string, str func(T) string) string {
	var b strings.Builder
	for r := range m.cells {
		if r > 0 {
			b.WriteString(rowSep)
		}
		for c := range m.cells[r] {
			if c > 0 {
				b.WriteString(colSep)
			}
			if m.cells[r][c].ok {
				b.WriteString(str(m.cells[r][c].val))
			}
		}
	}
	return b.String()
}

// SplitText is the inverse of Join for string data. The text is split
// into rows on rowSep and into cells on colSep; every produced field is
// a present entry, and rows shorter than the longest are padded with
// empty cells on the right.
func SplitText(text, rowSep, colSep string) Matrix[string] {
	lines := strings.Split(text, rowSep)
	cols := 0
	fields := make([][]string, len(lines))
	for i, line := range lines {
		fields[i] = strings.Split(line, colSep)
		if len(fields[i]) > cols {
			cols = len(fields[i])
		}
	}
	cells := make([][]entry[string], len(fields))
	for r, row := range fields {
		line := make([]entry[string], cols)
		for c, f := range row {
			line[c] = entry[string]{val: f, ok: true}
		}
		cells[r] = line
	}
	return Matrix[string]{cells: cells, cols: cols}
}

// clone returns a deep copy measuring at least rows by cols, never
// smaller than the receiver.
func (m Matrix[T]) clone(rows, cols int) Matrix[T] {
	if rows < len(m.cells) {
		rows = len(m.cells)
	}
	if cols < m.cols {
		cols = m.cols
	}
	cells := make([][]entry[T], rows)
	for r := range cells {
		line := make([]entry[T], cols)
		if r < len(m.cells) {
			copy(line, m.cells[r])
		}
		cells[r] = line
	}
	return Matrix[T]{cells: cells, cols: cols}
}
