// Package sheetio loads and saves sheets. The format follows the file
// extension: tab-separated text, comma-separated values, or the first
// worksheet of an xlsx workbook.
package sheetio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"github.com/tessera-tui/tessera/internal/cliptext"
	"github.com/tessera-tui/tessera/internal/engine"
	"github.com/tessera-tui/tessera/internal/grid"
)

// Package-level logger
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sheetio",
	})
}

// SetLogLevel sets the logging level for the sheetio package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// ErrUnsupportedFormat is returned for file extensions no codec handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Supported reports whether the extension of path names a known format.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".txt", ".csv", ".xlsx":
		return true
	}
	return false
}

// Load reads the sheet at path. Missing trailing cells in ragged input
// stay empty rather than failing the load.
func Load(path string) (grid.Matrix[engine.Cell], error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".tsv", ".txt":
		return loadDelimited(path)
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return grid.Matrix[engine.Cell]{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Save writes the sheet to path in the format its extension names.
// Trailing blank rows and columns are cropped first, so the editing
// padding added on load never reaches the file.
func Save(path string, m grid.Matrix[engine.Cell]) error {
	m = tighten(m)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".tsv", ".txt":
		return saveDelimited(path, m)
	case ".csv":
		return saveCSV(path, m)
	case ".xlsx":
		return saveXLSX(path, m)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func loadDelimited(path string) (grid.Matrix[engine.Cell], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return grid.Matrix[engine.Cell]{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return toCells(cliptext.Deserialize(string(data))), nil
}

func saveDelimited(path string, m grid.Matrix[engine.Cell]) error {
	text := cliptext.Serialize(m, engine.CellValue)
	if text != "" {
		text += cliptext.RowSep
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func loadCSV(path string) (grid.Matrix[engine.Cell], error) {
	f, err := os.Open(path)
	if err != nil {
		return grid.Matrix[engine.Cell]{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Accept ragged records; short rows pad with empty cells like every
	// other loader.
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return grid.Matrix[engine.Cell]{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return toCells(grid.FromRows(records)), nil
}

func saveCSV(path string, m grid.Matrix[engine.Cell]) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	rows, cols := m.Size()
	record := make([]string, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			record[c] = ""
			if cell, ok := m.Get(grid.Coordinate{Row: r, Col: c}); ok {
				record[c] = cell.Value
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func loadXLSX(path string) (grid.Matrix[engine.Cell], error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return grid.Matrix[engine.Cell]{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return grid.Matrix[engine.Cell]{}, fmt.Errorf("%s has no worksheets", path)
	}
	if len(sheets) > 1 {
		logger.Warn("workbook has multiple sheets, loading the first", "path", path, "sheet", sheets[0])
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return grid.Matrix[engine.Cell]{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return toCells(grid.FromRows(rows)), nil
}

func saveXLSX(path string, m grid.Matrix[engine.Cell]) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, cols := m.Size()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell, ok := m.Get(grid.Coordinate{Row: r, Col: c})
			if !ok {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, name, cell.Value); err != nil {
				return fmt.Errorf("failed to set %s: %w", name, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// toCells converts raw loaded text into sheet cells. No format on disk
// distinguishes a written-empty cell from an absent one, so blank fields
// load as empty cells in every format.
func toCells(m grid.Matrix[string]) grid.Matrix[engine.Cell] {
	filled := m.Filter(func(v string) bool { return v != "" })
	return grid.Convert(filled, func(v string) engine.Cell { return engine.Cell{Value: v} })
}

// tighten crops trailing rows and columns that hold no text. Blank cells
// between populated ones survive the crop.
func tighten(m grid.Matrix[engine.Cell]) grid.Matrix[engine.Cell] {
	rows, cols := m.Size()
	maxRow, maxCol := -1, -1
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell, ok := m.Get(grid.Coordinate{Row: r, Col: c})
			if !ok || cell.Value == "" {
				continue
			}
			if r > maxRow {
				maxRow = r
			}
			if c > maxCol {
				maxCol = c
			}
		}
	}
	if maxRow < 0 {
		return grid.Matrix[engine.Cell]{}
	}
	box := grid.RectBetween(grid.Coordinate{}, grid.Coordinate{Row: maxRow, Col: maxCol})
	return grid.ToMatrix(box.PointSet(), m)
}
