package gsheet

import (
	"context"

	"github.com/tutorqa/sheets-sync/grid"
)

// Source reads a worksheet range through the authenticated Sheets API.
type Source struct {
	Values Values
	Ref    Reference
	Range  Range
}

func (s Source) Read(ctx context.Context) (grid.Grid, error) {
	return s.Values.Get(ctx, s.Ref, s.Range)
}

// ExportSource reads a publicly shared worksheet through the CSV export endpoint. The export
// always covers the whole worksheet so the range is applied after the download.
type ExportSource struct {
	Export *Export
	Ref    Reference
	Range  Range
}

func (s ExportSource) Read(ctx context.Context) (grid.Grid, error) {
	g, err := s.Export.Get(ctx, s.Ref)
	if err != nil {
		return nil, err
	}

	if s.Range.IsZero() {
		return g, nil
	}

	return s.Range.Crop(g), nil
}
