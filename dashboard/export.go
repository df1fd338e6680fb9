package dashboard

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheet = "QA queue"

// WriteCSV writes the rows as CSV with a header row.
func WriteCSV(w io.Writer, columns []string, rows []Row) error {
	writer := csv.NewWriter(w)

	if err := writer.WriteAll(Grid(columns, rows)); err != nil {
		return err
	}

	return writer.Error()
}

// WriteXLSX writes the rows as a single worksheet Excel workbook with a header row and an
// auto filter.
func WriteXLSX(w io.Writer, columns []string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, record := range Grid(columns, rows) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}

		values := make([]interface{}, len(record))
		for j, v := range record {
			values[j] = v
		}

		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	if len(columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(columns))
		if err != nil {
			return err
		}

		if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
			return err
		}

		if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%v%v", last, len(rows)+1), nil); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)

	return err
}
