package gsheets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	gsheet "google.golang.org/api/sheets/v4"
)

// gridRange converts "C2:D30" or "F32" into a zero-based, end-exclusive
// GridRange on the given sheet.
func gridRange(sheetID int64, rng string) (*gsheet.GridRange, error) {
	from, to, found := strings.Cut(rng, ":")
	if !found {
		to = from
	}
	c1, r1, err := excelize.CellNameToCoordinates(from)
	if err != nil {
		return nil, fmt.Errorf("invalid range %q: %w", rng, err)
	}
	c2, r2, err := excelize.CellNameToCoordinates(to)
	if err != nil {
		return nil, fmt.Errorf("invalid range %q: %w", rng, err)
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}

	return &gsheet.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    int64(r1 - 1),
		EndRowIndex:      int64(r2),
		StartColumnIndex: int64(c1 - 1),
		EndColumnIndex:   int64(c2),
		// Zero is a valid sheet ID and start index.
		ForceSendFields: []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}, nil
}

// parseColor reads "#RRGGBB".
func parseColor(hex string) (*gsheet.Color, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return nil, fmt.Errorf("invalid color %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return &gsheet.Color{
		Red:             float64(v>>16&0xff) / 255,
		Green:           float64(v>>8&0xff) / 255,
		Blue:            float64(v&0xff) / 255,
		ForceSendFields: []string{"Red", "Green", "Blue"},
	}, nil
}

func numberFormatType(pattern string) string {
	p := strings.ToLower(pattern)
	switch {
	case strings.Contains(p, "yy"):
		return "DATE"
	case strings.Contains(p, "h"):
		return "TIME"
	default:
		return "NUMBER"
	}
}
