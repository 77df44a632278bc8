// Package sheet defines the spreadsheet host capabilities the timesheet
// builder drives. Backends live in internal/excel and internal/gsheets.
package sheet

import (
	"context"
	"errors"
)

// ErrSheetExists is returned by CreateSheet when the name is already taken.
var ErrSheetExists = errors.New("sheet already exists")

// Formula is a cell formula without the leading "=".
type Formula string

// Ports for spreadsheet backends.
type (
	Workbook interface {
		CreateSheet(ctx context.Context, name string) (Sheet, error)
		// LookupSheet reports false when no sheet has that name.
		LookupSheet(ctx context.Context, name string) (Sheet, bool, error)
		SheetNames(ctx context.Context) ([]string, error)
		Save(ctx context.Context) error
	}

	Sheet interface {
		Name() string
		// AppendRow writes values into the row after the last one written
		// and returns its 1-based index. nil leaves a cell blank; Formula
		// values are written as formulas; time.Time as dates.
		AppendRow(ctx context.Context, values ...any) (int, error)
		SetBackground(ctx context.Context, rng, color string) error
		SetBold(ctx context.Context, rng string) error
		SetNumberFormat(ctx context.Context, rng, format string) error
		SetValidation(ctx context.Context, rng string, rule Validation) error
		AutoResizeColumn(ctx context.Context, col string) error
		Value(ctx context.Context, cell string) (string, error)
		Formula(ctx context.Context, cell string) (string, error)
	}
)

// ValidationKind selects the constraint applied to a range.
type ValidationKind int

const (
	ValidateTime ValidationKind = iota
	ValidateCheckbox
	ValidateList
)

// Validation is a data-validation rule for a cell range.
type Validation struct {
	Kind    ValidationKind
	Options []string
	Message string
}
