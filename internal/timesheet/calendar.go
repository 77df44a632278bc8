package timesheet

import (
	"fmt"
	"time"

	"github.com/goodsign/monday"
)

// ParseLocale accepts identifiers such as "de_DE" or "en_US".
func ParseLocale(s string) (monday.Locale, error) {
	for _, l := range monday.ListLocales() {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported locale %q", s)
}

// WeekdayName renders the full weekday name of t in locale.
func WeekdayName(t time.Time, locale monday.Locale) string {
	return monday.Format(t, "Monday", locale)
}

// SheetName renders the month and year of t, e.g. "Februar 2024".
func SheetName(t time.Time, locale monday.Locale) string {
	return monday.Format(t, "January 2006", locale)
}

// MonthStart normalizes t to midnight UTC on the first of its month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DaysOf lists every day of the month containing t, first to last.
func DaysOf(t time.Time) []time.Time {
	first := MonthStart(t)
	var days []time.Time
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// ParseDate reads the date string submitted by the picker or the command
// line: "2024-02", "2024-02-15" or RFC 3339.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM or YYYY-MM-DD", s)
}
