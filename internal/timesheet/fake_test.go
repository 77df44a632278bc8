package timesheet

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"monthsheet/internal/sheet"
)

// fakeWorkbook records every call so tests can inspect layout decisions.
type fakeWorkbook struct {
	sheets map[string]*fakeSheet
	order  []string
}

func newFakeWorkbook(names ...string) *fakeWorkbook {
	wb := &fakeWorkbook{sheets: make(map[string]*fakeSheet)}
	for _, name := range names {
		wb.add(name)
	}
	return wb
}

func (wb *fakeWorkbook) add(name string) *fakeSheet {
	s := &fakeSheet{
		name:        name,
		backgrounds: make(map[string]string),
		formats:     make(map[string]string),
		validations: make(map[string]sheet.Validation),
	}
	wb.sheets[name] = s
	wb.order = append(wb.order, name)
	return s
}

func (wb *fakeWorkbook) CreateSheet(_ context.Context, name string) (sheet.Sheet, error) {
	if _, ok := wb.sheets[name]; ok {
		return nil, fmt.Errorf("%w: %q", sheet.ErrSheetExists, name)
	}
	return wb.add(name), nil
}

func (wb *fakeWorkbook) LookupSheet(_ context.Context, name string) (sheet.Sheet, bool, error) {
	s, ok := wb.sheets[name]
	if !ok {
		return nil, false, nil
	}
	return s, true, nil
}

func (wb *fakeWorkbook) SheetNames(context.Context) ([]string, error) {
	return append([]string(nil), wb.order...), nil
}

func (wb *fakeWorkbook) Save(context.Context) error { return nil }

type fakeSheet struct {
	name        string
	rows        [][]any
	backgrounds map[string]string
	bold        []string
	formats     map[string]string
	validations map[string]sheet.Validation
	resized     []string
}

func (s *fakeSheet) Name() string { return s.name }

func (s *fakeSheet) AppendRow(_ context.Context, values ...any) (int, error) {
	s.rows = append(s.rows, append([]any(nil), values...))
	return len(s.rows), nil
}

func (s *fakeSheet) SetBackground(_ context.Context, rng, color string) error {
	s.backgrounds[rng] = color
	return nil
}

func (s *fakeSheet) SetBold(_ context.Context, rng string) error {
	s.bold = append(s.bold, rng)
	return nil
}

func (s *fakeSheet) SetNumberFormat(_ context.Context, rng, format string) error {
	s.formats[rng] = format
	return nil
}

func (s *fakeSheet) SetValidation(_ context.Context, rng string, rule sheet.Validation) error {
	s.validations[rng] = rule
	return nil
}

func (s *fakeSheet) AutoResizeColumn(_ context.Context, col string) error {
	s.resized = append(s.resized, col)
	return nil
}

func (s *fakeSheet) cell(ref string) any {
	col := int(ref[0] - 'A')
	row, err := strconv.Atoi(ref[1:])
	if err != nil || row < 1 || row > len(s.rows) || col >= len(s.rows[row-1]) {
		return nil
	}
	return s.rows[row-1][col]
}

func (s *fakeSheet) Value(_ context.Context, ref string) (string, error) {
	v := s.cell(ref)
	if v == nil {
		return "", nil
	}
	return fmt.Sprint(v), nil
}

func (s *fakeSheet) Formula(_ context.Context, ref string) (string, error) {
	if f, ok := s.cell(ref).(sheet.Formula); ok {
		return string(f), nil
	}
	return "", nil
}

// fakeHolidays maps "2006-01-02" to a holiday name.
type fakeHolidays map[string]string

func (h fakeHolidays) Holiday(_ context.Context, day time.Time) (string, bool, error) {
	name, ok := h[day.Format("2006-01-02")]
	return name, ok, nil
}
