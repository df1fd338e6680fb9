package sheetsync

import (
	"strings"

	"github.com/tutorqa/sheets-sync/grid"
)

// NormaliseKey returns the comparable form of a key cell: BOMs and surrounding whitespace
// stripped, with the 'nan' and 'None' placeholders left behind by spreadsheet exports mapped
// to the empty key.
func NormaliseKey(v string) string {
	k := grid.Clean(v)

	switch strings.ToLower(k) {
	case "nan", "none":
		return ""
	}

	return k
}

// Keys returns the set of non-empty normalised keys in a column.
func Keys(rows grid.Grid, column int) map[string]struct{} {
	keys := map[string]struct{}{}

	for _, row := range rows {
		if column < len(row) {
			if k := NormaliseKey(row[column]); k != "" {
				keys[k] = struct{}{}
			}
		}
	}

	return keys
}

// Dedupe returns the candidate rows whose key is not one of the existing keys, in their
// original order. Empty keys never match so rows without a key are always kept.
func Dedupe(existing map[string]struct{}, candidates grid.Grid, column int) grid.Grid {
	rows := grid.Grid{}

	for _, row := range candidates {
		k := ""
		if column < len(row) {
			k = NormaliseKey(row[column])
		}

		if k != "" {
			if _, ok := existing[k]; ok {
				continue
			}
		}

		rows = append(rows, row)
	}

	return rows
}
