package timesheet

import (
	"testing"
	"time"

	"github.com/goodsign/monday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysOf(t *testing.T) {
	tests := []struct {
		in   time.Time
		want int
	}{
		{in: date(2024, 2, 1), want: 29},
		{in: date(2023, 2, 14), want: 28},
		{in: date(2024, 11, 30), want: 30},
		{in: date(2024, 12, 31), want: 31},
	}

	for _, tt := range tests {
		days := DaysOf(tt.in)
		require.Len(t, days, tt.want)
		assert.Equal(t, 1, days[0].Day())
		assert.Equal(t, tt.in.Month(), days[len(days)-1].Month())
		assert.Equal(t, tt.want, days[len(days)-1].Day())
	}
}

func TestMonthStartIgnoresDayAndZone(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	in := time.Date(2024, 3, 17, 23, 30, 0, 0, berlin)
	assert.Equal(t, date(2024, 3, 1), MonthStart(in))
}

func TestLocaleNames(t *testing.T) {
	feb := date(2024, 2, 1)

	assert.Equal(t, "February 2024", SheetName(feb, monday.LocaleEnUS))
	assert.Equal(t, "Februar 2024", SheetName(feb, monday.LocaleDeDE))
	assert.Equal(t, "Thursday", WeekdayName(feb, monday.LocaleEnUS))
	assert.Equal(t, "Donnerstag", WeekdayName(feb, monday.LocaleDeDE))
	assert.Equal(t, "Samstag", WeekdayName(date(2024, 2, 3), monday.LocaleDeDE))
}

func TestParseLocale(t *testing.T) {
	l, err := ParseLocale("de_DE")
	require.NoError(t, err)
	assert.Equal(t, monday.Locale(monday.LocaleDeDE), l)

	_, err = ParseLocale("xx_YY")
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 1), got)

	got, err = ParseDate("2024-02-15")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 15), got)

	_, err = ParseDate("February")
	require.Error(t, err)
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("basic")
	require.NoError(t, err)
	assert.Equal(t, Basic, v)
	assert.Equal(t, "basic", v.String())

	v, err = ParseVariant("extended")
	require.NoError(t, err)
	assert.Equal(t, Extended, v)

	_, err = ParseVariant("full")
	require.Error(t, err)
}
