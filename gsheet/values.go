package gsheet

import (
	"context"

	"github.com/tutorqa/sheets-sync/grid"
)

// Input is the Sheets API ValueInputOption used for writes.
type Input string

const (
	Raw         Input = "RAW"
	UserEntered Input = "USER_ENTERED"
)

// Values is the range level key-value view of a spreadsheet service used by sources and sinks.
// Get returns an empty grid for an empty range and an error wrapping ErrNotFound for a
// missing spreadsheet or worksheet.
type Values interface {
	Get(ctx context.Context, ref Reference, r Range) (grid.Grid, error)
	Clear(ctx context.Context, ref Reference, r Range) error
	Update(ctx context.Context, ref Reference, r Range, rows grid.Grid, input Input) error
}

// Reader is implemented by anything that can supply the rows of a worksheet.
type Reader interface {
	Read(ctx context.Context) (grid.Grid, error)
}
