package gsheets

import (
	"context"
	"fmt"
	"monthsheet/internal/sheet"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	gsheet "google.golang.org/api/sheets/v4"
)

type worksheet struct {
	book    *Workbook
	name    string
	id      int64
	lastRow int
}

func (s *worksheet) Name() string {
	return s.name
}

func (s *worksheet) AppendRow(_ context.Context, values ...any) (int, error) {
	row := s.lastRow + 1
	s.lastRow = row
	if len(values) == 0 {
		return row, nil
	}

	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = cellValue(v)
	}

	s.book.values = append(s.book.values, &gsheet.ValueRange{
		Range:  s.a1(sheet.Cell("A", row)),
		Values: [][]any{cells},
	})
	return row, nil
}

func (s *worksheet) SetBackground(_ context.Context, rng, color string) error {
	c, err := parseColor(color)
	if err != nil {
		return err
	}
	return s.repeat(rng, &gsheet.CellFormat{BackgroundColor: c}, "userEnteredFormat.backgroundColor")
}

func (s *worksheet) SetBold(_ context.Context, rng string) error {
	return s.repeat(rng, &gsheet.CellFormat{TextFormat: &gsheet.TextFormat{Bold: true}}, "userEnteredFormat.textFormat.bold")
}

func (s *worksheet) SetNumberFormat(_ context.Context, rng, format string) error {
	return s.repeat(rng, &gsheet.CellFormat{
		NumberFormat: &gsheet.NumberFormat{Type: numberFormatType(format), Pattern: format},
	}, "userEnteredFormat.numberFormat")
}

func (s *worksheet) SetValidation(_ context.Context, rng string, rule sheet.Validation) error {
	grid, err := s.grid(rng)
	if err != nil {
		return err
	}

	var cond *gsheet.BooleanCondition
	switch rule.Kind {
	case sheet.ValidateTime:
		// Time of day as a fraction of a day.
		cond = &gsheet.BooleanCondition{
			Type:   "NUMBER_BETWEEN",
			Values: []*gsheet.ConditionValue{{UserEnteredValue: "0"}, {UserEnteredValue: "=1439/1440"}},
		}
	case sheet.ValidateCheckbox:
		cond = &gsheet.BooleanCondition{Type: "BOOLEAN"}
	case sheet.ValidateList:
		cond = &gsheet.BooleanCondition{Type: "ONE_OF_LIST"}
		for _, o := range rule.Options {
			cond.Values = append(cond.Values, &gsheet.ConditionValue{UserEnteredValue: o})
		}
	default:
		return fmt.Errorf("unknown validation kind %d", rule.Kind)
	}

	s.book.requests = append(s.book.requests, &gsheet.Request{
		SetDataValidation: &gsheet.SetDataValidationRequest{
			Range: grid,
			Rule: &gsheet.DataValidationRule{
				Condition:    cond,
				Strict:       true,
				ShowCustomUi: rule.Kind == sheet.ValidateList,
				InputMessage: rule.Message,
			},
		},
	})
	return nil
}

func (s *worksheet) AutoResizeColumn(_ context.Context, col string) error {
	idx, err := excelize.ColumnNameToNumber(col)
	if err != nil {
		return err
	}
	s.book.requests = append(s.book.requests, &gsheet.Request{
		AutoResizeDimensions: &gsheet.AutoResizeDimensionsRequest{
			Dimensions: &gsheet.DimensionRange{
				SheetId:         s.id,
				Dimension:       "COLUMNS",
				StartIndex:      int64(idx - 1),
				EndIndex:        int64(idx),
				ForceSendFields: []string{"SheetId", "StartIndex"},
			},
		},
	})
	return nil
}

func (s *worksheet) Value(ctx context.Context, cell string) (string, error) {
	return s.read(ctx, cell, "FORMATTED_VALUE")
}

func (s *worksheet) Formula(ctx context.Context, cell string) (string, error) {
	v, err := s.read(ctx, cell, "FORMULA")
	if err != nil {
		return "", err
	}
	if f, ok := strings.CutPrefix(v, "="); ok {
		return f, nil
	}
	return "", nil
}

func (s *worksheet) read(ctx context.Context, cell, render string) (string, error) {
	if err := s.book.Save(ctx); err != nil {
		return "", err
	}
	resp, err := s.book.svc.Spreadsheets.Values.Get(s.book.spreadsheetID, s.a1(cell)).
		ValueRenderOption(render).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.a1(cell), err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}
	return fmt.Sprint(resp.Values[0][0]), nil
}

func (s *worksheet) repeat(rng string, format *gsheet.CellFormat, fields string) error {
	grid, err := s.grid(rng)
	if err != nil {
		return err
	}
	s.book.requests = append(s.book.requests, &gsheet.Request{
		RepeatCell: &gsheet.RepeatCellRequest{
			Range:  grid,
			Cell:   &gsheet.CellData{UserEnteredFormat: format},
			Fields: fields,
		},
	})
	return nil
}

func (s *worksheet) a1(rng string) string {
	return sheet.QuoteName(s.name) + "!" + rng
}

func (s *worksheet) grid(rng string) (*gsheet.GridRange, error) {
	return gridRange(s.id, rng)
}

// cellValue converts a row value into what USER_ENTERED input expects.
func cellValue(v any) any {
	switch v := v.(type) {
	case nil:
		return ""
	case sheet.Formula:
		return "=" + string(v)
	case time.Time:
		return serialDate(v)
	default:
		return v
	}
}

// serialDate is the spreadsheet day number of t's calendar date.
func serialDate(t time.Time) float64 {
	epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.Sub(epoch).Hours() / 24
}
