package sheetio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-tui/tessera/internal/engine"
	"github.com/tessera-tui/tessera/internal/grid"
	"github.com/tessera-tui/tessera/internal/sheetio"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func cellAt(t *testing.T, m grid.Matrix[engine.Cell], row, col int) string {
	t.Helper()
	cell, ok := m.Get(grid.Coordinate{Row: row, Col: col})
	require.True(t, ok, "expected a cell at (%d,%d)", row, col)
	return cell.Value
}

func TestSupported(t *testing.T) {
	assert.True(t, sheetio.Supported("a.tsv"))
	assert.True(t, sheetio.Supported("a.TXT"))
	assert.True(t, sheetio.Supported("a.csv"))
	assert.True(t, sheetio.Supported("a.xlsx"))
	assert.False(t, sheetio.Supported("a.parquet"))
	assert.False(t, sheetio.Supported("a"))
}

func TestLoadTSV(t *testing.T) {
	path := writeFile(t, "sheet.tsv", "1\t2\t3\n4\t5\t6\n")

	m, err := sheetio.Load(path)
	require.NoError(t, err)

	rows, cols := m.Size()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, "5", cellAt(t, m, 1, 1))
}

func TestLoadTSVRagged(t *testing.T) {
	path := writeFile(t, "sheet.tsv", "a\tb\nc\n")

	m, err := sheetio.Load(path)
	require.NoError(t, err)

	rows, cols := m.Size()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)

	// The short row's missing tail stays empty.
	_, ok := m.Get(grid.Coordinate{Row: 1, Col: 1})
	assert.False(t, ok)
}

func TestLoadBlankFieldsStayEmpty(t *testing.T) {
	path := writeFile(t, "sheet.tsv", "a\t\tb\n")

	m, err := sheetio.Load(path)
	require.NoError(t, err)

	_, ok := m.Get(grid.Coordinate{Row: 0, Col: 1})
	assert.False(t, ok)
	assert.Equal(t, "b", cellAt(t, m, 0, 2))
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "sheet.csv", "name,note\nalpha,\"one, two\"\n")

	m, err := sheetio.Load(path)
	require.NoError(t, err)

	rows, cols := m.Size()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, "one, two", cellAt(t, m, 1, 1))
}

func TestLoadCSVRagged(t *testing.T) {
	path := writeFile(t, "sheet.csv", "a,b,c\nd\n")

	m, err := sheetio.Load(path)
	require.NoError(t, err)

	rows, cols := m.Size()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, "d", cellAt(t, m, 1, 0))
	_, ok := m.Get(grid.Coordinate{Row: 1, Col: 2})
	assert.False(t, ok)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := sheetio.Load("sheet.parquet")
	assert.ErrorIs(t, err, sheetio.ErrUnsupportedFormat)

	err = sheetio.Save("sheet.parquet", grid.Matrix[engine.Cell]{})
	assert.ErrorIs(t, err, sheetio.ErrUnsupportedFormat)
}

func TestSaveLoadRoundTripTSV(t *testing.T) {
	m := grid.FromRows([][]engine.Cell{
		{{Value: "a"}, {Value: "b"}},
		{{Value: "c"}, {Value: "d"}},
	}).Unset(grid.Coordinate{Row: 1, Col: 0})
	path := filepath.Join(t.TempDir(), "sheet.tsv")

	require.NoError(t, sheetio.Save(path, m))

	back, err := sheetio.Load(path)
	require.NoError(t, err)

	rows, cols := back.Size()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, "a", cellAt(t, back, 0, 0))
	assert.Equal(t, "d", cellAt(t, back, 1, 1))
	_, ok := back.Get(grid.Coordinate{Row: 1, Col: 0})
	assert.False(t, ok)
}

func TestSaveLoadRoundTripCSV(t *testing.T) {
	m := grid.FromRows([][]engine.Cell{
		{{Value: "plain"}, {Value: "with, comma"}},
		{{Value: `with "quotes"`}, {Value: "end"}},
	})
	path := filepath.Join(t.TempDir(), "sheet.csv")

	require.NoError(t, sheetio.Save(path, m))

	back, err := sheetio.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "with, comma", cellAt(t, back, 0, 1))
	assert.Equal(t, `with "quotes"`, cellAt(t, back, 1, 0))
}

func TestSaveLoadRoundTripXLSX(t *testing.T) {
	m := grid.FromRows([][]engine.Cell{
		{{Value: "header"}, {Value: "count"}},
		{{Value: "alpha"}, {Value: "42"}},
	}).Unset(grid.Coordinate{Row: 1, Col: 0})
	path := filepath.Join(t.TempDir(), "sheet.xlsx")

	require.NoError(t, sheetio.Save(path, m))

	back, err := sheetio.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "header", cellAt(t, back, 0, 0))
	assert.Equal(t, "42", cellAt(t, back, 1, 1))
	_, ok := back.Get(grid.Coordinate{Row: 1, Col: 0})
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := sheetio.Load(filepath.Join(t.TempDir(), "absent.tsv"))
	assert.Error(t, err)
}

func TestSaveEmptySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tsv")

	require.NoError(t, sheetio.Save(path, grid.Matrix[engine.Cell]{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, string(data))
}

func TestSaveCropsTrailingPadding(t *testing.T) {
	// Sheets grow to the configured grid size for editing; the padding
	// must not be written back. Blanks between populated cells stay.
	m := grid.FromRows([][]engine.Cell{
		{{Value: "a"}, {}, {Value: "b"}},
	}).Grow(16, 8)
	path := filepath.Join(t.TempDir(), "sheet.tsv")

	require.NoError(t, sheetio.Save(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\t\tb\n", string(data))
}

func TestSavePaddingOnlySheetIsEmpty(t *testing.T) {
	m := grid.Matrix[engine.Cell]{}.Grow(4, 4)
	path := filepath.Join(t.TempDir(), "pad.tsv")

	require.NoError(t, sheetio.Save(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, string(data))
}
