package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"monthsheet/internal/config"
	"monthsheet/internal/excel"
	"monthsheet/internal/sheet"
	"monthsheet/internal/store"
	"monthsheet/internal/timesheet"

	"github.com/goodsign/monday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 4, 28, 10, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Workbook.Path = filepath.Join(dir, "data", "timesheet.xlsx")
	cfg.Lock.Path = filepath.Join(dir, "data", "monthsheet.db")
	return cfg
}

func openApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	a.Now = func() time.Time { return testNow }
	a.lockTimeout = 100 * time.Millisecond
	a.Pick = func(time.Time, monday.Locale) (time.Time, bool, error) {
		t.Fatal("picker not expected")
		return time.Time{}, false, nil
	}
	return a
}

func TestInitIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	created, err := openApp(t, cfg).Init(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	require.FileExists(t, cfg.Workbook.Path)

	created, err = openApp(t, cfg).Init(ctx)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSheetSubmittedBuildsMonth(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	_, err := openApp(t, cfg).Init(ctx)
	require.NoError(t, err)

	a := openApp(t, cfg)
	summary, err := a.SheetSubmitted(ctx, "2024-05-15")
	require.NoError(t, err)
	assert.Equal(t, timesheet.MonthSummary{
		SheetName:       "Mai 2024",
		TotalTimeRef:    "F34",
		TargetTimeRef:   "F35",
		OvertimeRef:     "F36",
		VacationDaysRef: "F37",
	}, summary)

	saved, err := excel.OpenFile(cfg.Workbook.Path)
	require.NoError(t, err)
	defer saved.Close()

	names, err := saved.SheetNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Overview", "Mai 2024"}, names)

	overview, ok, err := saved.LookupSheet(ctx, "Overview")
	require.NoError(t, err)
	require.True(t, ok)
	f, err := overview.Formula(ctx, "B2")
	require.NoError(t, err)
	assert.Equal(t, "'Mai 2024'!F34", f)

	rows, err := saved.GetAllRows("Mai 2024")
	require.NoError(t, err)
	assert.Equal(t, "Tag der Arbeit", rows[1][8], "1 May is a statutory holiday in NRW")
	assert.Equal(t, "Mittwoch", rows[1][1])

	records, err := a.History()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, summary, records[0].Summary)
	assert.True(t, records[0].CreatedAt.Equal(testNow))
}

func TestSheetSubmittedWithoutOverview(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg)

	_, err := a.SheetSubmitted(context.Background(), "2024-05")
	require.ErrorIs(t, err, timesheet.ErrMissingOverview)

	_, err = os.Stat(cfg.Workbook.Path)
	assert.True(t, os.IsNotExist(err), "nothing is saved after a failed run")

	records, err := a.History()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSheetSubmittedRejectsDuplicateMonth(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	a := openApp(t, cfg)

	_, err := a.Init(ctx)
	require.NoError(t, err)
	_, err = a.SheetSubmitted(ctx, "2024-02-01")
	require.NoError(t, err)

	_, err = a.SheetSubmitted(ctx, "2024-02-29")
	require.ErrorIs(t, err, sheet.ErrSheetExists)
}

func TestSheetSubmittedRejectsBadDate(t *testing.T) {
	a := openApp(t, testConfig(t))

	_, err := a.SheetSubmitted(context.Background(), "next month")
	require.Error(t, err)
}

func TestNewMonthCanceledReleasesLock(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg)
	a.Pick = func(initial time.Time, _ monday.Locale) (time.Time, bool, error) {
		_, err := store.Open(cfg.Lock.Path, 20*time.Millisecond)
		require.ErrorIs(t, err, store.ErrLocked, "lock is held while the picker is open")
		return time.Time{}, false, nil
	}

	_, ok, err := a.NewMonth(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	held, err := store.Open(cfg.Lock.Path, 100*time.Millisecond)
	require.NoError(t, err, "canceling releases the lock")
	require.NoError(t, held.Close())
}

func TestNewMonthUsesPickedMonth(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	a := openApp(t, cfg)
	_, err := a.Init(ctx)
	require.NoError(t, err)

	a.Pick = func(initial time.Time, locale monday.Locale) (time.Time, bool, error) {
		assert.Equal(t, testNow, initial)
		assert.Equal(t, monday.Locale(monday.LocaleDeDE), locale)
		return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true, nil
	}

	summary, ok, err := a.NewMonth(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "März 2024", summary.SheetName)
}

func TestLockTimeout(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg)

	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Lock.Path), 0755))
	held, err := store.Open(cfg.Lock.Path, time.Second)
	require.NoError(t, err)
	defer held.Close()

	_, err = a.SheetSubmitted(context.Background(), "2024-05")
	require.ErrorIs(t, err, store.ErrLocked)
}

func TestOptionsFromConfig(t *testing.T) {
	c := config.Default().Timesheet
	c.Variant = config.VariantBasic
	c.Locale = "en_US"
	c.TargetHoursPerDay = 7.5

	opts, err := Options(c)
	require.NoError(t, err)
	assert.Equal(t, timesheet.Basic, opts.Variant)
	assert.Equal(t, monday.Locale(monday.LocaleEnUS), opts.Locale)
	assert.Equal(t, 7*time.Hour+30*time.Minute, opts.TargetPerDay)

	c.Variant = "weekly"
	_, err = Options(c)
	require.Error(t, err)
}
