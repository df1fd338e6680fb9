package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tutorqa/sheets-sync/grid"
)

// gridToTSV writes the occupied rows of a grid as TSV, padded to the widest row.
func gridToTSV(f io.Writer, g grid.Grid) error {
	rows := g[:g.Occupied()]
	if len(rows) == 0 {
		return fmt.Errorf("empty sheet")
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	width := rows.Width()
	for _, row := range rows {
		record := make([]string, width)
		for i, v := range row {
			record[i] = grid.Clean(v)
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

// tsvToGrid reads a TSV file into a grid. Rows may be ragged and a leading byte order mark
// is dropped.
func tsvToGrid(f io.Reader) (grid.Grid, error) {
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("TSV file is empty")
	}

	if len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], grid.BOM)
	}

	return grid.Grid(records), nil
}
