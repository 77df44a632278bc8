package timesheet

import (
	"context"
	"errors"
	"fmt"
	"monthsheet/internal/logger"
	"monthsheet/internal/sheet"
)

// ErrMissingOverview is returned when the workbook has no overview sheet.
var ErrMissingOverview = errors.New("missing overview sheet")

// Updater appends month summaries to the overview sheet.
type Updater struct {
	wb   sheet.Workbook
	name string
}

func NewUpdater(wb sheet.Workbook, overviewName string) *Updater {
	return &Updater{wb: wb, name: overviewName}
}

// Update appends one row: the sheet name followed by a cross-sheet formula
// per reference in s.
func (u *Updater) Update(ctx context.Context, s MonthSummary) error {
	overview, ok, err := u.wb.LookupSheet(ctx, u.name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no sheet named %q", ErrMissingOverview, u.name)
	}

	refs := s.Refs()
	values := make([]any, 0, len(refs)+1)
	values = append(values, s.SheetName)
	for _, ref := range refs {
		values = append(values, sheet.CrossRef(s.SheetName, ref))
	}

	row, err := overview.AppendRow(ctx, values...)
	if err != nil {
		return fmt.Errorf("failed to append overview row: %w", err)
	}

	if err := overview.SetNumberFormat(ctx, sheet.Range("B", row, "D", row), formatDuration); err != nil {
		return fmt.Errorf("failed to format overview row: %w", err)
	}
	if s.VacationDaysRef != "" {
		if err := overview.SetNumberFormat(ctx, sheet.Cell("E", row), formatDays); err != nil {
			return fmt.Errorf("failed to format overview row: %w", err)
		}
	}

	logger.Info("Overview updated", "overview", u.name, "sheet", s.SheetName, "row", row)
	return nil
}

// Init makes sure the overview sheet exists with its header row. It is a
// no-op when the sheet is already there.
func (u *Updater) Init(ctx context.Context, v Variant) (bool, error) {
	_, ok, err := u.wb.LookupSheet(ctx, u.name)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}

	overview, err := u.wb.CreateSheet(ctx, u.name)
	if err != nil {
		return false, err
	}

	headers := overviewHeaders(v)
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	row, err := overview.AppendRow(ctx, values...)
	if err != nil {
		return false, fmt.Errorf("failed to write overview header: %w", err)
	}
	last := string(rune('A' + len(headers) - 1))
	if err := overview.SetBold(ctx, sheet.Range("A", row, last, row)); err != nil {
		return false, err
	}

	logger.Info("Created overview sheet", "overview", u.name)
	return true, nil
}
