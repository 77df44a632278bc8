package holiday

import (
	"context"
	"time"
)

// StatutoryMarker is the description Google's German holiday calendar uses
// for statutory holidays.
const StatutoryMarker = "Gesetzlicher Feiertag"

// NRW computes the statutory holidays of North Rhine-Westphalia offline.
type NRW struct {
	years map[int]map[string]string
}

func NewNRW() *NRW {
	return &NRW{years: make(map[int]map[string]string)}
}

// Events returns at most one event, described with StatutoryMarker.
func (n *NRW) Events(_ context.Context, day time.Time) ([]Event, error) {
	holidays, ok := n.years[day.Year()]
	if !ok {
		holidays = NRWHolidays(day.Year())
		n.years[day.Year()] = holidays
	}
	if name, ok := holidays[day.Format("2006-01-02")]; ok {
		return []Event{{Title: name, Description: StatutoryMarker}}, nil
	}
	return nil, nil
}

// NRWHolidays returns all public holidays in NRW for the given year, keyed
// by YYYY-MM-DD.
func NRWHolidays(year int) map[string]string {
	holidays := map[string]string{
		formatDate(year, 1, 1):   "Neujahr",
		formatDate(year, 5, 1):   "Tag der Arbeit",
		formatDate(year, 10, 3):  "Tag der Deutschen Einheit",
		formatDate(year, 11, 1):  "Allerheiligen",
		formatDate(year, 12, 25): "1. Weihnachtstag",
		formatDate(year, 12, 26): "2. Weihnachtstag",
	}

	easter := easterSunday(year)
	for offset, name := range map[int]string{
		-2: "Karfreitag",
		1:  "Ostermontag",
		39: "Christi Himmelfahrt",
		50: "Pfingstmontag",
		60: "Fronleichnam",
	} {
		holidays[easter.AddDate(0, 0, offset).Format("2006-01-02")] = name
	}
	return holidays
}

// easterSunday uses the Meeus/Jones/Butcher algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
}

func formatDate(year, month, day int) string {
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC).Format("2006-01-02")
}
