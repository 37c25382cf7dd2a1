package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Column sizing. excelize has no autofit; widths are tracked from cell
// content and applied on Close.
const (
	minColumnWidth = 12
	maxColumnWidth = 60
	columnPadding  = 2
)

// defaultSheetName is the sheet excelize starts every new file with.
const defaultSheetName = "Sheet1"

// Workbook writes batches of rows to named sheets of one xlsx file. Sheets
// are created on first non-empty batch with a header row; later batches for
// the same sheet append below the rows already written, so incremental
// flushes compose into one continuous sheet. Every non-empty batch is saved
// to disk, so the file exists from the first appended row onward; a run
// that never appends a row leaves no file behind.
type Workbook struct {
	path    string
	file    *excelize.File
	nextRow map[string]int       // next free row per sheet
	widths  map[string][]float64 // widest content seen per column
}

// NewWorkbook prepares a workbook at path. Any pre-existing file there is
// deleted immediately, guaranteeing a clean run with no stale rows from a
// prior invocation.
func NewWorkbook(path string) (*Workbook, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to remove stale output file: %w", err)
	}

	return &Workbook{
		path:    path,
		file:    excelize.NewFile(),
		nextRow: make(map[string]int),
		widths:  make(map[string][]float64),
	}, nil
}

// AppendRows appends a batch of rows to the named sheet, creating it with
// the header row first if this is the sheet's first batch. An empty batch
// is a no-op and never creates the sheet.
func (w *Workbook) AppendRows(sheet string, header []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	if _, exists := w.nextRow[sheet]; !exists {
		if _, err := w.file.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		headerRow := make([]any, len(header))
		for i, name := range header {
			headerRow[i] = name
		}
		if err := w.writeRow(sheet, 1, headerRow); err != nil {
			return err
		}
		w.nextRow[sheet] = 2
	}

	for _, row := range rows {
		if err := w.writeRow(sheet, w.nextRow[sheet], row); err != nil {
			return err
		}
		w.nextRow[sheet]++
	}

	// Persist every batch so long multi-subscription scans leave incremental
	// progress on disk. The first non-empty batch creates the file; a run
	// killed mid-scan keeps everything flushed so far.
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

// Close finalizes every written sheet (column widths, frozen header row)
// and saves the file. If no rows were ever appended, no file is created.
func (w *Workbook) Close() error {
	defer w.file.Close()

	if len(w.nextRow) == 0 {
		return nil
	}

	for sheet := range w.nextRow {
		if err := w.finishSheet(sheet); err != nil {
			return err
		}
	}

	// Drop the placeholder sheet so the workbook opens on real data.
	if err := w.file.DeleteSheet(defaultSheetName); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

func (w *Workbook) writeRow(sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to address row %d on sheet %s: %w", rowNum, sheet, err)
	}
	if err := w.file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row to sheet %s: %w", sheet, err)
	}
	w.trackWidths(sheet, values)
	return nil
}

func (w *Workbook) trackWidths(sheet string, values []any) {
	widths := w.widths[sheet]
	for len(widths) < len(values) {
		widths = append(widths, 0)
	}
	for i, value := range values {
		if l := float64(utf8.RuneCountInString(fmt.Sprint(value))); l > widths[i] {
			widths[i] = l
		}
	}
	w.widths[sheet] = widths
}

func (w *Workbook) finishSheet(sheet string) error {
	// Freeze the header row for readability while scrolling.
	err := w.file.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return fmt.Errorf("failed to freeze header row on sheet %s: %w", sheet, err)
	}

	for i, width := range w.widths[sheet] {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to name column %d on sheet %s: %w", i+1, sheet, err)
		}
		width += columnPadding
		if width < minColumnWidth {
			width = minColumnWidth
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := w.file.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s on sheet %s: %w", col, sheet, err)
		}
	}

	return nil
}
