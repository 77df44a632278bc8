package timesheet

import (
	"context"
	"fmt"
	"monthsheet/internal/logger"
	"monthsheet/internal/sheet"
	"strconv"
	"time"

	"github.com/goodsign/monday"
)

const (
	formatDate     = "dd.mm.yyyy"
	formatClock    = "hh:mm"
	formatDuration = "[h]:mm"
	formatDays     = "0.0"
)

// HolidayFinder reports the public holiday falling on day, if any.
type HolidayFinder interface {
	Holiday(ctx context.Context, day time.Time) (string, bool, error)
}

type Options struct {
	Variant      Variant
	Locale       monday.Locale
	TargetPerDay time.Duration
	Breaks       BreakPolicy
	WeekendColor string
	HolidayColor string
	// Holidays is consulted by the extended variant only; nil means none.
	Holidays HolidayFinder
}

// DefaultOptions builds extended sheets in German with an 8h target.
func DefaultOptions() Options {
	return Options{
		Variant:      Extended,
		Locale:       monday.LocaleDeDE,
		TargetPerDay: 8 * time.Hour,
		Breaks:       StatutoryBreaks,
		WeekendColor: "#D9D9D9",
		HolidayColor: "#CFE2F3",
	}
}

// Builder lays out one month sheet per call.
type Builder struct {
	wb   sheet.Workbook
	opts Options
	cols layout
}

func NewBuilder(wb sheet.Workbook, opts Options) *Builder {
	return &Builder{wb: wb, opts: opts, cols: layoutFor(opts.Variant)}
}

// Build creates sheetName for the month containing date and fills it. A
// failure leaves whatever was already written in place.
func (b *Builder) Build(ctx context.Context, date time.Time, sheetName string) (MonthSummary, error) {
	days := DaysOf(date)
	logger.Info("Building month sheet", "sheet", sheetName, "days", len(days), "variant", b.opts.Variant)

	ws, err := b.wb.CreateSheet(ctx, sheetName)
	if err != nil {
		return MonthSummary{}, err
	}

	headers := make([]any, len(b.cols.headers))
	for i, h := range b.cols.headers {
		headers[i] = h
	}
	if _, err := ws.AppendRow(ctx, headers...); err != nil {
		return MonthSummary{}, fmt.Errorf("failed to write header: %w", err)
	}

	first, last := 2, 1+len(days)
	for i, day := range days {
		if err := b.appendDay(ctx, ws, first+i, day); err != nil {
			return MonthSummary{}, fmt.Errorf("failed to write %s: %w", day.Format("2006-01-02"), err)
		}
	}

	if err := b.applyValidation(ctx, ws, first, last); err != nil {
		return MonthSummary{}, err
	}

	summary, err := b.appendSummary(ctx, ws, first, last)
	if err != nil {
		return MonthSummary{}, err
	}

	if err := b.applyFormats(ctx, ws, first, last, summary); err != nil {
		return MonthSummary{}, err
	}

	logger.Info("Month sheet built", "sheet", sheetName, "total", summary.TotalTimeRef)
	return summary, nil
}

// appendDay writes the row for day, which must land on row.
func (b *Builder) appendDay(ctx context.Context, ws sheet.Sheet, row int, day time.Time) error {
	c := b.cols
	holidayName, isHoliday, err := b.holiday(ctx, day)
	if err != nil {
		return err
	}

	start, end := sheet.Cell(c.start, row), sheet.Cell(c.end, row)
	span := end + "-" + start
	blank := fmt.Sprintf(`OR(%s="",%s="")`, start, end)

	values := make([]any, len(c.headers))
	values[0] = day
	values[1] = WeekdayName(day, b.opts.Locale)
	if b.opts.Variant == Basic {
		values[c.workIdx] = sheet.Formula(fmt.Sprintf(`IF(%s,"",%s-%s)`, blank, span, b.opts.Breaks.Formula(span)))
	} else {
		values[c.brkIdx] = sheet.Formula(fmt.Sprintf(`IF(%s,"",%s)`, blank, b.opts.Breaks.Formula(span)))
		values[c.workIdx] = sheet.Formula(fmt.Sprintf(`IF(%s,"",%s-%s)`, blank, span, sheet.Cell(c.brk, row)))
		values[c.sickIdx] = false
		if isHoliday {
			values[c.holidayIdx] = holidayName
		}
	}

	got, err := ws.AppendRow(ctx, values...)
	if err != nil {
		return err
	}
	if got != row {
		return fmt.Errorf("day row landed on row %d, expected %d", got, row)
	}

	rowRange := sheet.Range(c.date, row, c.last, row)
	switch {
	case isWeekend(day):
		return ws.SetBackground(ctx, rowRange, b.opts.WeekendColor)
	case isHoliday:
		return ws.SetBackground(ctx, rowRange, b.opts.HolidayColor)
	}
	return nil
}

func (b *Builder) holiday(ctx context.Context, day time.Time) (string, bool, error) {
	if b.opts.Variant != Extended || b.opts.Holidays == nil {
		return "", false, nil
	}
	name, ok, err := b.opts.Holidays.Holiday(ctx, day)
	if err != nil {
		return "", false, fmt.Errorf("holiday lookup: %w", err)
	}
	return name, ok, nil
}

type rangeRule struct {
	rng  string
	rule sheet.Validation
}

func (b *Builder) applyValidation(ctx context.Context, ws sheet.Sheet, first, last int) error {
	c := b.cols
	rules := []rangeRule{
		{sheet.Range(c.start, first, c.end, last), sheet.Validation{Kind: sheet.ValidateTime, Message: "Enter a time of day, e.g. 08:30"}},
	}
	if b.opts.Variant == Extended {
		rules = append(rules,
			rangeRule{sheet.Range(c.sick, first, c.sick, last), sheet.Validation{Kind: sheet.ValidateCheckbox}},
			rangeRule{sheet.Range(c.vacation, first, c.vacation, last), sheet.Validation{
				Kind:    sheet.ValidateList,
				Options: []string{VacationHalf, VacationFull},
				Message: "Choose Half or Full",
			}},
		)
	}

	for _, r := range rules {
		if err := ws.SetValidation(ctx, r.rng, r.rule); err != nil {
			return fmt.Errorf("failed to set validation on %s: %w", r.rng, err)
		}
	}
	return nil
}

func (b *Builder) appendSummary(ctx context.Context, ws sheet.Sheet, first, last int) (MonthSummary, error) {
	c := b.cols
	perDay := strconv.FormatFloat(b.opts.TargetPerDay.Hours(), 'f', -1, 64) + "/24"

	total := totalFormula(c, first, last)
	target := targetFormula(c, first, last, perDay)
	var vacation string
	if b.opts.Variant == Extended {
		vacation = vacationFormula(c, first, last)
	}

	if _, err := ws.AppendRow(ctx); err != nil {
		return MonthSummary{}, fmt.Errorf("failed to write separator: %w", err)
	}

	summaryRow := func(label, formula string) (string, error) {
		values := make([]any, len(c.headers))
		values[0] = label
		values[c.workIdx] = sheet.Formula(formula)
		row, err := ws.AppendRow(ctx, values...)
		if err != nil {
			return "", fmt.Errorf("failed to write %s: %w", label, err)
		}
		return sheet.Cell(c.work, row), nil
	}

	s := MonthSummary{SheetName: ws.Name()}
	var err error
	if s.TotalTimeRef, err = summaryRow("Total", total); err != nil {
		return MonthSummary{}, err
	}
	if s.TargetTimeRef, err = summaryRow("Target", target); err != nil {
		return MonthSummary{}, err
	}
	overtime := fmt.Sprintf("%s-%s", s.TotalTimeRef, s.TargetTimeRef)
	if s.OvertimeRef, err = summaryRow("Overtime", overtime); err != nil {
		return MonthSummary{}, err
	}
	if vacation != "" {
		if s.VacationDaysRef, err = summaryRow("Vacation days", vacation); err != nil {
			return MonthSummary{}, err
		}
	}
	return s, nil
}

func (b *Builder) applyFormats(ctx context.Context, ws sheet.Sheet, first, last int, s MonthSummary) error {
	c := b.cols
	type format struct {
		rng, numFmt string
	}
	durations := sheet.Range(c.work, first, c.work, last)
	if c.brk != "" {
		durations = sheet.Range(c.brk, first, c.work, last)
	}
	formats := []format{
		{sheet.Range(c.date, first, c.date, last), formatDate},
		{sheet.Range(c.start, first, c.end, last), formatClock},
		{durations, formatDuration},
		{s.TotalTimeRef, formatDuration},
		{s.TargetTimeRef, formatDuration},
		{s.OvertimeRef, formatDuration},
	}
	if s.VacationDaysRef != "" {
		formats = append(formats, format{s.VacationDaysRef, formatDays})
	}
	for _, f := range formats {
		if err := ws.SetNumberFormat(ctx, f.rng, f.numFmt); err != nil {
			return fmt.Errorf("failed to format %s: %w", f.rng, err)
		}
	}

	labelsFrom := last + 2
	labelsTo := labelsFrom + len(s.Refs()) - 1
	for _, rng := range []string{
		sheet.Range(c.date, 1, c.last, 1),
		sheet.Range(c.date, labelsFrom, c.date, labelsTo),
	} {
		if err := ws.SetBold(ctx, rng); err != nil {
			return fmt.Errorf("failed to set bold on %s: %w", rng, err)
		}
	}

	if b.opts.Variant == Extended {
		for _, col := range []string{c.weekday, c.holiday, c.comments} {
			if err := ws.AutoResizeColumn(ctx, col); err != nil {
				return fmt.Errorf("failed to resize column %s: %w", col, err)
			}
		}
	}
	return nil
}

// Summary formulas over the day rows first..last. A layout without a
// vacation column is the basic variant.

func totalFormula(c layout, first, last int) string {
	if c.vacation == "" {
		return fmt.Sprintf("SUM(%s)", c.column(c.work, first, last))
	}
	// Full vacation days do not count as worked.
	return fmt.Sprintf(`SUM(%s)-SUMIF(%s,"%s",%s)`,
		c.column(c.work, first, last), c.column(c.vacation, first, last), VacationFull, c.column(c.work, first, last))
}

func targetFormula(c layout, first, last int, perDay string) string {
	date := c.column(c.date, first, last)
	if c.vacation == "" {
		return fmt.Sprintf("SUMPRODUCT(--(WEEKDAY(%s,2)<6))*(%s)", date, perDay)
	}
	vacation := c.column(c.vacation, first, last)
	return fmt.Sprintf(`SUMPRODUCT((WEEKDAY(%s,2)<6)*(%s="")*(%s<>TRUE)*((%s="")+0.5*(%s="%s")))*(%s)`,
		date, c.column(c.holiday, first, last), c.column(c.sick, first, last), vacation, vacation, VacationHalf, perDay)
}

func vacationFormula(c layout, first, last int) string {
	vacation := c.column(c.vacation, first, last)
	return fmt.Sprintf(`COUNTIF(%s,"%s")+0.5*COUNTIF(%s,"%s")`, vacation, VacationFull, vacation, VacationHalf)
}
