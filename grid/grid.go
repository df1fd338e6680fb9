// Package grid implements the ragged text grids read from and written to spreadsheet ranges.
package grid

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

const BOM = "\ufeff"

// Grid is a rows x columns table of text cells. Rows may be shorter than one another.
type Grid [][]string

// FromValues converts the [][]interface{} returned by the Sheets API into a Grid. Non-string
// cells are formatted with %v and nil cells become empty strings.
func FromValues(values [][]interface{}) Grid {
	g := make(Grid, 0, len(values))

	for _, row := range values {
		record := make([]string, len(row))
		for i, v := range row {
			switch cell := v.(type) {
			case nil:
				record[i] = ""
			case string:
				record[i] = cell
			default:
				record[i] = fmt.Sprintf("%v", cell)
			}
		}

		g = append(g, record)
	}

	return g
}

// Values converts the grid into the row format expected by the Sheets API.
func (g Grid) Values() [][]interface{} {
	values := make([][]interface{}, 0, len(g))

	for _, record := range g {
		row := make([]interface{}, len(record))
		for i, v := range record {
			row[i] = v
		}

		values = append(values, row)
	}

	return values
}

// Width returns the length of the longest row.
func (g Grid) Width() int {
	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}

	return width
}

// Pad returns a copy of the grid with every row padded with empty strings or truncated to
// exactly width cells.
func (g Grid) Pad(width int) Grid {
	padded := make(Grid, 0, len(g))
	for _, row := range g {
		padded = append(padded, PadRow(row, width))
	}

	return padded
}

// PadRow pads a single row with empty strings or truncates it to width cells.
func PadRow(row []string, width int) []string {
	if width < 0 {
		width = 0
	}

	record := make([]string, width)
	copy(record, row)

	return record
}

// Cell returns the cell at (row, col) or "" if the row is too short.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}

	return g[row][col]
}

// Occupied returns the number of rows up to and including the last row that has at least one
// non-blank cell.
func (g Grid) Occupied() int {
	for i := len(g) - 1; i >= 0; i-- {
		if !IsBlank(g[i]) {
			return i + 1
		}
	}

	return 0
}

// IsBlank returns true if every cell in the row is empty or whitespace.
func IsBlank(row []string) bool {
	for _, v := range row {
		if Clean(v) != "" {
			return false
		}
	}

	return true
}

// Clean strips byte order marks and leading/trailing whitespace.
func Clean(v string) string {
	return strings.TrimSpace(strings.ReplaceAll(v, BOM, ""))
}

// Normalise returns the form of a header cell used for column lookup: cleaned and case-folded.
func Normalise(v string) string {
	return cases.Fold().String(Clean(v))
}

// IsHeader guesses whether a row is a header row: at least 40% of its non-empty cells must
// contain a Latin or Cyrillic letter. This is a heuristic - a data row of names will pass
// and a header of numeric column labels will not - so callers that know the layout of the
// sheet should configure it explicitly instead.
func IsHeader(row []string) bool {
	nonempty := 0
	alphabetic := 0

	for _, v := range row {
		s := Clean(v)
		if s == "" {
			continue
		}

		nonempty++

		for _, r := range s {
			if unicode.In(r, unicode.Latin, unicode.Cyrillic) {
				alphabetic++
				break
			}
		}
	}

	if nonempty == 0 {
		return false
	}

	return 10*alphabetic >= 4*nonempty
}
