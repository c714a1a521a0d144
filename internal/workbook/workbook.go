// Package workbook reads listing titles from .xlsx files and writes the
// duplicate annotations back.
package workbook

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	highlightFill = "FFD9D9"
	highlightFont = "FF0000"

	// InsertedColumnWidth is the width given to an inserted duplicate column.
	InsertedColumnWidth = 30
)

// Workbook is an open spreadsheet file.
type Workbook struct {
	file *excelize.File
	path string

	duplicateStyle int
	titleStyle     int
}

// Open loads the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	return &Workbook{file: f, path: path, duplicateStyle: -1, titleStyle: -1}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Path returns the file the workbook was opened from.
func (w *Workbook) Path() string {
	return w.path
}

// SheetNames lists the worksheets in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Sheet loads the cell values of the named worksheet.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	if idx, err := w.file.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, fmt.Errorf("worksheet %q not found", name)
	}

	s := &Sheet{wb: w, name: name}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func (w *Workbook) styles() (int, int, error) {
	if w.duplicateStyle >= 0 {
		return w.duplicateStyle, w.titleStyle, nil
	}

	fill := excelize.Fill{Type: "pattern", Color: []string{highlightFill}, Pattern: 1}

	dup, err := w.file.NewStyle(&excelize.Style{Fill: fill, Font: &excelize.Font{Color: highlightFont}})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create highlight style: %w", err)
	}

	title, err := w.file.NewStyle(&excelize.Style{Fill: fill})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create highlight style: %w", err)
	}

	w.duplicateStyle, w.titleStyle = dup, title
	return dup, title, nil
}

// MarkedPath returns the output path for an annotated copy of path.
func MarkedPath(path string) string {
	return filepath.Join(filepath.Dir(path), "marked_"+filepath.Base(path))
}

// Sheet is one worksheet. Rows and columns are 1-based, row 1 is the header.
type Sheet struct {
	wb   *Workbook
	name string
	rows [][]string
}

func (s *Sheet) reload() error {
	rows, err := s.wb.file.GetRows(s.name)
	if err != nil {
		return fmt.Errorf("failed to read worksheet %q: %w", s.name, err)
	}
	s.rows = rows
	return nil
}

// Name returns the worksheet name.
func (s *Sheet) Name() string {
	return s.name
}

// MaxRow returns the last row holding data.
func (s *Sheet) MaxRow() int {
	return len(s.rows)
}

// Header returns the values of row 1.
func (s *Sheet) Header() []string {
	if len(s.rows) == 0 {
		return nil
	}
	return s.rows[0]
}

// ColumnIndex finds a header by case-insensitive, trimmed comparison and
// returns its column number, or 0 when absent.
func (s *Sheet) ColumnIndex(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return 0
	}

	for i, cell := range s.Header() {
		if strings.ToLower(strings.TrimSpace(cell)) == want {
			return i + 1
		}
	}
	return 0
}

// Value returns the formatted value of a cell, "" when empty.
func (s *Sheet) Value(row, col int) string {
	if row < 1 || row > len(s.rows) || col < 1 || col > len(s.rows[row-1]) {
		return ""
	}
	return s.rows[row-1][col-1]
}

// InsertColumn inserts an empty column at col, shifting col and everything
// right of it, and writes header into row 1.
func (s *Sheet) InsertColumn(col int, header string) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}

	if err := s.wb.file.InsertCols(s.name, name, 1); err != nil {
		return fmt.Errorf("failed to insert column %s in %q: %w", name, s.name, err)
	}
	if err := s.wb.file.SetColWidth(s.name, name, name, InsertedColumnWidth); err != nil {
		return fmt.Errorf("failed to size column %s in %q: %w", name, s.name, err)
	}
	if err := s.SetValue(1, col, header); err != nil {
		return err
	}

	return s.reload()
}

// SetValue writes a string into a cell.
func (s *Sheet) SetValue(row, col int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}

	if err := s.wb.file.SetCellStr(s.name, cell, value); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", s.name, cell, err)
	}

	for len(s.rows) < row {
		s.rows = append(s.rows, nil)
	}
	for len(s.rows[row-1]) < col {
		s.rows[row-1] = append(s.rows[row-1], "")
	}
	s.rows[row-1][col-1] = value

	return nil
}

// MarkDuplicate writes info into the duplicate cell and highlights both the
// duplicate cell and the title cell of row.
func (s *Sheet) MarkDuplicate(row, duplicateCol, titleCol int, info string) error {
	dupStyle, titleStyle, err := s.wb.styles()
	if err != nil {
		return err
	}

	if err := s.SetValue(row, duplicateCol, info); err != nil {
		return err
	}

	if err := s.setStyle(row, duplicateCol, dupStyle); err != nil {
		return err
	}
	return s.setStyle(row, titleCol, titleStyle)
}

func (s *Sheet) setStyle(row, col, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}

	if err := s.wb.file.SetCellStyle(s.name, cell, cell, style); err != nil {
		return fmt.Errorf("failed to style %s!%s: %w", s.name, cell, err)
	}
	return nil
}
