package transform

import (
	"strings"

	"github.com/tutorqa/sheets-sync/grid"
)

// Sentinel describes the 'marker row then data row' layout: a row whose first cell is the
// marker is followed by the data row to extract. All other rows are ignored.
type Sentinel struct {
	Marker     string
	IgnoreCase bool
}

func (s Sentinel) Match(row []string) bool {
	if len(row) == 0 {
		return false
	}

	v := grid.Clean(row[0])
	marker := grid.Clean(s.Marker)

	if s.IgnoreCase {
		return strings.EqualFold(v, marker)
	}

	return v == marker
}

// Extract returns the rows that immediately follow a sentinel row. A sentinel row is never
// itself extracted, so with two consecutive sentinel rows only the row after the second is
// taken, and a trailing sentinel row yields nothing.
func (s Sentinel) Extract(rows grid.Grid) grid.Grid {
	extracted := grid.Grid{}

	for i := 0; i+1 < len(rows); i++ {
		if s.Match(rows[i]) && !s.Match(rows[i+1]) {
			extracted = append(extracted, rows[i+1])
		}
	}

	return extracted
}
