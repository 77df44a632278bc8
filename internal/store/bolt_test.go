package store

import (
	"path/filepath"
	"testing"
	"time"

	"monthsheet/internal/timesheet"

	"github.com/stretchr/testify/require"
	bolterrors "go.etcd.io/bbolt/errors"
)

func TestOpenIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "monthsheet.db")

	first, err := Open(path, time.Second)
	require.NoError(t, err)

	_, err = Open(path, 50*time.Millisecond)
	require.ErrorIs(t, err, ErrLocked)
	require.ErrorIs(t, err, bolterrors.ErrTimeout)

	require.NoError(t, first.Close())

	second, err := Open(path, time.Second)
	require.NoError(t, err, "lock is free again after Close")
	require.NoError(t, second.Close())
}

func TestRecordAndHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monthsheet.db")
	b, err := Open(path, time.Second)
	require.NoError(t, err)
	defer b.Close()

	history, err := b.History()
	require.NoError(t, err)
	require.Empty(t, history)

	march := timesheet.MonthSummary{SheetName: "März 2024", TotalTimeRef: "F34", TargetTimeRef: "F35", OvertimeRef: "F36", VacationDaysRef: "F37"}
	feb := timesheet.MonthSummary{SheetName: "Februar 2024", TotalTimeRef: "F32", TargetTimeRef: "F33", OvertimeRef: "F34"}

	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, b.Record(march, t0.Add(time.Hour)))
	require.NoError(t, b.Record(feb, t0))

	history, err = b.History()
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, feb, history[0].Summary)
	require.Equal(t, march, history[1].Summary)
	require.True(t, history[0].CreatedAt.Equal(t0))
}

func TestHistorySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monthsheet.db")

	b, err := Open(path, time.Second)
	require.NoError(t, err)
	require.NoError(t, b.Record(timesheet.MonthSummary{SheetName: "Januar 2025"}, time.Now()))
	require.NoError(t, b.Close())

	b, err = Open(path, time.Second)
	require.NoError(t, err)
	defer b.Close()

	history, err := b.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "Januar 2025", history[0].Summary.SheetName)
}
