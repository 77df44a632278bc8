// Package app connects the configured workbook, holiday source and run lock
// to the timesheet builder. Each exported method is one command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"monthsheet/internal/config"
	"monthsheet/internal/excel"
	"monthsheet/internal/gsheets"
	"monthsheet/internal/holiday"
	"monthsheet/internal/logger"
	"monthsheet/internal/picker"
	"monthsheet/internal/sheet"
	"monthsheet/internal/store"
	"monthsheet/internal/timesheet"
	"time"

	"github.com/goodsign/monday"
	"google.golang.org/api/option"
)

// PickFunc asks the user for a month. ok is false on cancel.
type PickFunc func(initial time.Time, locale monday.Locale) (month time.Time, ok bool, err error)

type App struct {
	wb      sheet.Workbook
	opts    timesheet.Options
	builder *timesheet.Builder
	updater *timesheet.Updater

	lockPath    string
	lockTimeout time.Duration

	Pick PickFunc
	Now  func() time.Time
}

// Open builds the workbook backend and holiday source named in cfg.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	wb, err := openWorkbook(ctx, cfg.Workbook)
	if err != nil {
		return nil, err
	}

	cal, err := openCalendar(ctx, cfg.Holidays)
	if err != nil {
		return nil, err
	}

	opts, err := Options(cfg.Timesheet)
	if err != nil {
		return nil, err
	}
	if cal != nil {
		opts.Holidays = holiday.Finder{Calendar: cal, Accept: cfg.Holidays.Accept}
	}

	return New(wb, opts, cfg), nil
}

// New wires an already opened workbook.
func New(wb sheet.Workbook, opts timesheet.Options, cfg *config.Config) *App {
	return &App{
		wb:          wb,
		opts:        opts,
		builder:     timesheet.NewBuilder(wb, opts),
		updater:     timesheet.NewUpdater(wb, cfg.Overview.SheetName),
		lockPath:    cfg.Lock.Path,
		lockTimeout: cfg.Lock.Timeout(),
		Pick:        picker.Run,
		Now:         time.Now,
	}
}

// Options translates the [timesheet] section.
func Options(c config.TimesheetConfig) (timesheet.Options, error) {
	opts := timesheet.DefaultOptions()

	variant, err := timesheet.ParseVariant(c.Variant)
	if err != nil {
		return opts, err
	}
	locale, err := timesheet.ParseLocale(c.Locale)
	if err != nil {
		return opts, err
	}

	opts.Variant = variant
	opts.Locale = locale
	opts.TargetPerDay = time.Duration(c.TargetHoursPerDay * float64(time.Hour))
	if c.WeekendColor != "" {
		opts.WeekendColor = c.WeekendColor
	}
	if c.HolidayColor != "" {
		opts.HolidayColor = c.HolidayColor
	}
	return opts, nil
}

func openWorkbook(ctx context.Context, c config.WorkbookConfig) (sheet.Workbook, error) {
	switch c.Backend {
	case config.BackendSheets:
		opts, err := gsheets.CredentialsFile(c.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return gsheets.New(ctx, c.SpreadsheetID, opts...)
	case config.BackendXLSX:
		return excel.OpenOrCreateFile(c.Path)
	default:
		return nil, fmt.Errorf("unknown workbook backend %q", c.Backend)
	}
}

func openCalendar(ctx context.Context, c config.HolidaysConfig) (holiday.Calendar, error) {
	switch c.Source {
	case config.HolidaySourceGoogle:
		if c.APIKey == "" {
			return nil, errors.New("holidays.api_key (or GOOGLE_API_KEY) is required for the google holiday source")
		}
		return holiday.NewGoogleCalendar(ctx, c.CalendarID, option.WithAPIKey(c.APIKey))
	case config.HolidaySourceNRW:
		return holiday.NewNRW(), nil
	case config.HolidaySourceNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown holiday source %q", c.Source)
	}
}

// Close releases the workbook.
func (a *App) Close() error {
	if c, ok := a.wb.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Init makes sure the overview sheet exists. created is false when it was
// already there.
func (a *App) Init(ctx context.Context) (created bool, err error) {
	created, err = a.updater.Init(ctx, a.opts.Variant)
	if err != nil || !created {
		return created, err
	}
	return true, a.wb.Save(ctx)
}

// NewMonth asks for a month and creates it. ok is false when the user
// cancels the picker.
func (a *App) NewMonth(ctx context.Context) (summary timesheet.MonthSummary, ok bool, err error) {
	err = a.locked(func(history *store.Bolt) error {
		month, picked, err := a.Pick(a.Now(), a.opts.Locale)
		if err != nil {
			return err
		}
		if !picked {
			logger.Info("Month selection canceled")
			return nil
		}
		ok = true
		summary, err = a.createMonth(ctx, history, month)
		return err
	})
	return summary, ok, err
}

// SheetSubmitted creates the month containing the date in dateString.
func (a *App) SheetSubmitted(ctx context.Context, dateString string) (timesheet.MonthSummary, error) {
	date, err := timesheet.ParseDate(dateString)
	if err != nil {
		return timesheet.MonthSummary{}, err
	}

	var summary timesheet.MonthSummary
	err = a.locked(func(history *store.Bolt) error {
		summary, err = a.createMonth(ctx, history, date)
		return err
	})
	return summary, err
}

// History lists the months created so far.
func (a *App) History() ([]store.Record, error) {
	var records []store.Record
	err := a.locked(func(history *store.Bolt) error {
		var err error
		records, err = history.History()
		return err
	})
	return records, err
}

func (a *App) createMonth(ctx context.Context, history *store.Bolt, date time.Time) (timesheet.MonthSummary, error) {
	month := timesheet.MonthStart(date)
	name := timesheet.SheetName(month, a.opts.Locale)

	summary, err := a.builder.Build(ctx, month, name)
	if err != nil {
		return timesheet.MonthSummary{}, err
	}
	if err := a.updater.Update(ctx, summary); err != nil {
		return timesheet.MonthSummary{}, err
	}
	if err := a.wb.Save(ctx); err != nil {
		return timesheet.MonthSummary{}, err
	}

	if err := history.Record(summary, a.Now()); err != nil {
		// The workbook is already saved.
		logger.Warn("Failed to record history", "sheet", summary.SheetName, "error", err)
	}
	return summary, nil
}

// locked runs fn while holding the run lock.
func (a *App) locked(fn func(*store.Bolt) error) error {
	history, err := store.Open(a.lockPath, a.lockTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := history.Close(); err != nil {
			logger.Error("Failed to release lock", "path", a.lockPath, "error", err)
		}
	}()

	return fn(history)
}
