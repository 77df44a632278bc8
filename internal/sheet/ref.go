package sheet

import (
	"fmt"
	"strings"
)

// Cell builds an A1 reference such as "F35".
func Cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// Range builds an A1 range such as "C2:D32".
func Range(fromCol string, fromRow int, toCol string, toRow int) string {
	return Cell(fromCol, fromRow) + ":" + Cell(toCol, toRow)
}

// QuoteName quotes a sheet name for use in a cross-sheet reference.
func QuoteName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// CrossRef returns a formula pointing at cell in another sheet. The cell is
// passed through untouched.
func CrossRef(sheetName, cell string) Formula {
	return Formula(QuoteName(sheetName) + "!" + cell)
}
