package timesheet

import (
	"fmt"
	"monthsheet/internal/sheet"
)

// Variant selects which columns a month sheet carries.
type Variant int

const (
	// Extended tracks breaks, vacation, sick days, holidays and comments.
	Extended Variant = iota
	Basic
)

// ParseVariant maps the config value onto a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "extended":
		return Extended, nil
	case "basic":
		return Basic, nil
	}
	return 0, fmt.Errorf("unknown variant %q", s)
}

func (v Variant) String() string {
	if v == Basic {
		return "basic"
	}
	return "extended"
}

const (
	VacationHalf = "Half"
	VacationFull = "Full"
)

// layout maps each field to its column letter. Absent fields are "".
type layout struct {
	headers  []string
	date     string
	weekday  string
	start    string
	end      string
	brk      string
	work     string
	vacation string
	sick     string
	holiday  string
	comments string
	last     string

	// 0-based positions within an appended row.
	workIdx    int
	brkIdx     int
	sickIdx    int
	holidayIdx int
}

func layoutFor(v Variant) layout {
	if v == Basic {
		return layout{
			headers: []string{"Date", "Weekday", "Start", "End", "Work time"},
			date:    "A",
			weekday: "B",
			start:   "C",
			end:     "D",
			work:    "E",
			last:    "E",
			workIdx: 4,
		}
	}
	return layout{
		headers:  []string{"Date", "Weekday", "Start", "End", "Break", "Work time", "Vacation", "Sick", "Holiday", "Comments"},
		date:     "A",
		weekday:  "B",
		start:    "C",
		end:      "D",
		brk:      "E",
		work:     "F",
		vacation: "G",
		sick:     "H",
		holiday:  "I",
		comments: "J",
		last:     "J",

		brkIdx:     4,
		workIdx:    5,
		sickIdx:    7,
		holidayIdx: 8,
	}
}

// column is the day-row range of col, e.g. "F2:F30".
func (c layout) column(col string, first, last int) string {
	return sheet.Range(col, first, col, last)
}

// overviewHeaders is the header row of the overview sheet.
func overviewHeaders(v Variant) []string {
	headers := []string{"Month", "Total", "Target", "Overtime"}
	if v == Extended {
		headers = append(headers, "Vacation days")
	}
	return headers
}
