package excel

import (
	"context"
	"fmt"
	"monthsheet/internal/logger"
	"monthsheet/internal/sheet"
	"os"

	"github.com/xuri/excelize/v2"
)

// Editor is an xlsx workbook backed by excelize. It implements
// sheet.Workbook; nothing reaches disk until Save.
type Editor struct {
	file     *excelize.File
	filepath string
	// fresh is set for workbooks created in memory whose default sheet
	// has not been claimed yet.
	fresh  bool
	sheets map[string]*worksheet
}

var _ sheet.Workbook = (*Editor)(nil)

// OpenFile opens an existing Excel file
func OpenFile(filepath string) (*Editor, error) {
	file, err := excelize.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return newEditor(file, filepath, false), nil
}

// CreateNewFile creates a new Excel file in memory
func CreateNewFile() *Editor {
	return newEditor(excelize.NewFile(), "", true)
}

// OpenOrCreateFile opens an existing file or creates a new one if it doesn't exist
func OpenOrCreateFile(filepath string) (*Editor, error) {
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		logger.Info("Workbook not found, starting a new one", "path", filepath)
		return newEditor(excelize.NewFile(), filepath, true), nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking file status: %w", err)
	}
	return OpenFile(filepath)
}

func newEditor(file *excelize.File, filepath string, fresh bool) *Editor {
	return &Editor{
		file:     file,
		filepath: filepath,
		fresh:    fresh,
		sheets:   make(map[string]*worksheet),
	}
}

// CreateSheet adds a sheet. A new workbook's placeholder sheet is renamed
// rather than left behind empty.
func (e *Editor) CreateSheet(_ context.Context, name string) (sheet.Sheet, error) {
	idx, err := e.file.GetSheetIndex(name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sheet %q: %w", name, err)
	}
	if idx >= 0 {
		return nil, fmt.Errorf("%w: %q", sheet.ErrSheetExists, name)
	}

	if e.fresh {
		e.fresh = false
		placeholder := e.file.GetSheetName(0)
		if err := e.file.SetSheetName(placeholder, name); err != nil {
			return nil, fmt.Errorf("failed to rename sheet %q: %w", placeholder, err)
		}
	} else if _, err := e.file.NewSheet(name); err != nil {
		return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	ws := &worksheet{editor: e, name: name}
	e.sheets[name] = ws
	logger.Debug("Created sheet", "sheet", name)
	return ws, nil
}

// LookupSheet returns the named sheet, or false if the workbook has none.
func (e *Editor) LookupSheet(_ context.Context, name string) (sheet.Sheet, bool, error) {
	if ws, ok := e.sheets[name]; ok {
		return ws, true, nil
	}

	idx, err := e.file.GetSheetIndex(name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up sheet %q: %w", name, err)
	}
	if idx < 0 || (e.fresh && idx == 0) {
		return nil, false, nil
	}

	rows, err := e.file.GetRows(name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows: %w", err)
	}
	ws := &worksheet{editor: e, name: name, lastRow: len(rows)}
	e.sheets[name] = ws
	return ws, true, nil
}

// SheetNames returns all sheet names in the workbook
func (e *Editor) SheetNames(_ context.Context) ([]string, error) {
	if e.fresh {
		return []string{}, nil
	}
	return e.file.GetSheetList(), nil
}

// Save writes the workbook to its path, creating the directory if needed.
func (e *Editor) Save(_ context.Context) error {
	if e.filepath == "" {
		return fmt.Errorf("no filepath specified, use SaveAs instead")
	}
	return e.SaveAs(e.filepath)
}

// SaveAs saves the Excel file with a new name
func (e *Editor) SaveAs(path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	e.filepath = path
	if err := e.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	logger.Info("Saved workbook", "path", path)
	return nil
}

// Close closes the Excel file
func (e *Editor) Close() error {
	return e.file.Close()
}

// GetAllRows returns all rows from a sheet
func (e *Editor) GetAllRows(sheetName string) ([][]string, error) {
	return e.file.GetRows(sheetName)
}

// worksheet is one tab of an Editor.
type worksheet struct {
	editor  *Editor
	name    string
	lastRow int
}

func (w *worksheet) Name() string {
	return w.name
}

func (w *worksheet) AppendRow(_ context.Context, values ...any) (int, error) {
	row := w.lastRow + 1
	f := w.editor.file

	for i, value := range values {
		if value == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return 0, err
		}

		if formula, ok := value.(sheet.Formula); ok {
			err = f.SetCellFormula(w.name, cell, string(formula))
		} else {
			err = f.SetCellValue(w.name, cell, value)
		}
		if err != nil {
			return 0, fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}

	w.lastRow = row
	return row, nil
}

func (w *worksheet) SetBackground(_ context.Context, rng, color string) error {
	return w.restyle(rng, func(s *excelize.Style) {
		s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	})
}

func (w *worksheet) SetBold(_ context.Context, rng string) error {
	return w.restyle(rng, func(s *excelize.Style) {
		if s.Font == nil {
			s.Font = &excelize.Font{}
		}
		s.Font.Bold = true
	})
}

func (w *worksheet) SetNumberFormat(_ context.Context, rng, format string) error {
	return w.restyle(rng, func(s *excelize.Style) {
		s.NumFmt = 0
		s.CustomNumFmt = &format
	})
}

func (w *worksheet) SetValidation(_ context.Context, rng string, rule sheet.Validation) error {
	dv := excelize.NewDataValidation(true)
	dv.Sqref = rng

	var err error
	switch rule.Kind {
	case sheet.ValidateTime:
		// 0 up to one minute before midnight, as a fraction of a day.
		err = dv.SetRange(0.0, 1439.0/1440.0, excelize.DataValidationTypeTime, excelize.DataValidationOperatorBetween)
	case sheet.ValidateCheckbox:
		err = dv.SetDropList([]string{"TRUE", "FALSE"})
	case sheet.ValidateList:
		err = dv.SetDropList(rule.Options)
	default:
		err = fmt.Errorf("unknown validation kind %d", rule.Kind)
	}
	if err != nil {
		return fmt.Errorf("failed to build validation for %s: %w", rng, err)
	}

	if rule.Message != "" {
		dv.SetError(excelize.DataValidationErrorStyleStop, "Invalid value", rule.Message)
	}
	return w.editor.file.AddDataValidation(w.name, dv)
}

// AutoResizeColumn approximates auto-fit from the longest rendered value.
func (w *worksheet) AutoResizeColumn(_ context.Context, col string) error {
	idx, err := excelize.ColumnNameToNumber(col)
	if err != nil {
		return err
	}
	rows, err := w.editor.file.GetRows(w.name)
	if err != nil {
		return fmt.Errorf("failed to get rows: %w", err)
	}

	width := 0
	for _, row := range rows {
		if idx-1 < len(row) {
			if n := len([]rune(row[idx-1])); n > width {
				width = n
			}
		}
	}
	return w.editor.file.SetColWidth(w.name, col, col, columnWidth(width))
}

// Value returns the displayed value. Formula cells go through excelize's
// evaluator, which does not handle array formulas over ranges: a
// SUMPRODUCT(WEEKDAY(range)) only sees the first cell and SUMIF with "<>"
// misses blank cells. Such results are not the spreadsheet's answer.
func (w *worksheet) Value(_ context.Context, cell string) (string, error) {
	f := w.editor.file
	formula, err := f.GetCellFormula(w.name, cell)
	if err != nil {
		return "", err
	}
	if formula != "" {
		return f.CalcCellValue(w.name, cell)
	}
	return f.GetCellValue(w.name, cell)
}

func (w *worksheet) Formula(_ context.Context, cell string) (string, error) {
	return w.editor.file.GetCellFormula(w.name, cell)
}

// restyle merges change into the existing style of every cell in rng.
func (w *worksheet) restyle(rng string, change func(*excelize.Style)) error {
	f := w.editor.file
	cells, err := expandRange(rng)
	if err != nil {
		return err
	}

	for _, cell := range cells {
		current, err := f.GetCellStyle(w.name, cell)
		if err != nil {
			return fmt.Errorf("failed to read style of %s: %w", cell, err)
		}
		style, err := f.GetStyle(current)
		if err != nil {
			return fmt.Errorf("failed to load style %d: %w", current, err)
		}
		change(style)

		id, err := f.NewStyle(style)
		if err != nil {
			return fmt.Errorf("failed to create style: %w", err)
		}
		if err := f.SetCellStyle(w.name, cell, cell, id); err != nil {
			return fmt.Errorf("failed to apply style to %s: %w", cell, err)
		}
	}
	return nil
}
