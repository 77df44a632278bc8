package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// expandRange lists every cell of an A1 range ("C2:D4") or a single cell.
func expandRange(rng string) ([]string, error) {
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

	cells := make([]string, 0, (c2-c1+1)*(r2-r1+1))
	for row := r1; row <= r2; row++ {
		for col := c1; col <= c2; col++ {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return nil, err
			}
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

// columnWidth converts a character count into an excelize column width.
func columnWidth(chars int) float64 {
	if chars < 8 {
		chars = 8
	}
	if chars > 80 {
		chars = 80
	}
	return float64(chars) + 2
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
