// Package transform reshapes the rows read from a source worksheet into the fixed width rows
// written to a destination worksheet.
package transform

import (
	"fmt"

	"github.com/tutorqa/sheets-sync/grid"
	"github.com/tutorqa/sheets-sync/log"
)

// HeaderMode says whether the first row of a sheet is a header row.
type HeaderMode string

const (
	HeaderPresent HeaderMode = "present"
	HeaderAbsent  HeaderMode = "absent"
	HeaderAuto    HeaderMode = "auto"
)

// HasHeader applies the header mode to a grid, falling back on the grid.IsHeader heuristic
// for HeaderAuto.
func (h HeaderMode) HasHeader(g grid.Grid) bool {
	switch h {
	case HeaderPresent:
		return len(g) > 0

	case HeaderAbsent:
		return false

	default:
		return len(g) > 0 && grid.IsHeader(g[0])
	}
}

// Transform is the ordered set of reshaping steps applied to a source grid: header
// detection, optional sentinel row extraction, optional row filter, column selection with
// date/time conversion and finally padding to the destination width.
type Transform struct {
	Header   HeaderMode
	Sentinel *Sentinel
	Filter   *Filter
	Columns  []Column
	Width    int
}

// Table is the result of a transform.
type Table struct {
	Header []string
	Rows   grid.Grid
}

// Apply transforms a source grid. An empty grid gives an empty table. A column that cannot be
// located fails the whole transform with ErrColumnNotFound.
func (t Transform) Apply(g grid.Grid) (*Table, error) {
	if len(g) == 0 {
		return &Table{Header: []string{}, Rows: grid.Grid{}}, nil
	}

	var header []string
	var rows grid.Grid

	if t.Header.HasHeader(g) {
		header = clean(g[0])
		rows = g[1:]
	} else {
		header = nil
		rows = g
	}

	// ... sentinel rows (the header row is usually the first sentinel row)
	if t.Sentinel != nil {
		rows = t.Sentinel.Extract(g)
		log.Debugf("extracted %v rows following '%v' rows", len(rows), t.Sentinel.Marker)
	}

	// ... trailing empty cells are not returned by the Sheets API, so positional columns
	//     beyond the widest row are padded rather than missing
	width := max(len(header), rows.Width(), t.span())
	index := NewIndex(header)

	// ... filter
	if t.Filter != nil {
		ix, err := index.Resolve(t.Filter.Column, width)
		if err != nil {
			return nil, fmt.Errorf("filter (%w)", err)
		}

		filtered := grid.Grid{}
		for _, row := range rows {
			if t.Filter.keep(grid.PadRow(row, width)[ix]) {
				filtered = append(filtered, row)
			}
		}

		log.Debugf("filter kept %v of %v rows", len(filtered), len(rows))
		rows = filtered
	}

	// ... columns
	columns := t.Columns
	if len(columns) == 0 {
		columns = make([]Column, width)
		for i := range columns {
			columns[i] = ByIndex(i)
		}
	}

	xref, err := index.ResolveAll(columns, width)
	if err != nil {
		return nil, err
	}

	table := Table{
		Header: make([]string, len(columns)),
		Rows:   make(grid.Grid, 0, len(rows)),
	}

	for i, c := range columns {
		switch {
		case c.Header != "":
			table.Header[i] = c.Header
		case header != nil && xref[i] < len(header):
			table.Header[i] = header[xref[i]]
		default:
			table.Header[i] = c.Name
		}
	}

	for _, row := range rows {
		row = grid.PadRow(row, width)
		record := make([]string, len(columns))

		for i, c := range columns {
			v := row[xref[i]]
			if c.Convert != nil {
				v = c.Convert.Apply(v)
			}

			record[i] = v
		}

		table.Rows = append(table.Rows, record)
	}

	if t.Width > 0 {
		table.Header = grid.PadRow(table.Header, t.Width)
		table.Rows = table.Rows.Pad(t.Width)
	}

	return &table, nil
}

// span is the width needed to cover every positional column.
func (t Transform) span() int {
	span := 0
	for _, c := range t.Columns {
		span = max(span, c.Index+1)
	}

	if t.Filter != nil {
		span = max(span, t.Filter.Column.Index+1)
	}

	return span
}

func clean(row []string) []string {
	list := make([]string, len(row))
	for i, v := range row {
		list[i] = grid.Clean(v)
	}

	return list
}
