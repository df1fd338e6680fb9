package gsheet

import (
	"context"
	"fmt"

	"github.com/tutorqa/sheets-sync/grid"
	"github.com/tutorqa/sheets-sync/log"
)

// Mode selects how a sink writes rows.
type Mode int

const (
	// Replace clears the destination and rewrites it from the anchor cell.
	Replace Mode = iota
	// Append writes new rows after the last occupied row without clearing anything.
	Append
)

func (m Mode) String() string {
	switch m {
	case Replace:
		return "replace"
	case Append:
		return "append"
	default:
		return fmt.Sprintf("mode:%d", int(m))
	}
}

// Clearing selects the area cleared by a replace.
type Clearing int

const (
	// ClearOccupied clears exactly the currently occupied part of the destination range.
	ClearOccupied Clearing = iota
	// ClearRange clears the whole configured destination range.
	ClearRange
)

// Outcome distinguishes 'nothing to write' from an actual write.
type Outcome int

const (
	NoOp Outcome = iota
	Replaced
	Appended
)

func (o Outcome) String() string {
	switch o {
	case NoOp:
		return "no-op"
	case Replaced:
		return "replaced"
	case Appended:
		return "appended"
	default:
		return fmt.Sprintf("outcome:%d", int(o))
	}
}

type Result struct {
	Outcome Outcome
	Rows    int
	Range   string
}

// Sink writes fixed width rows to a destination range. The range top left cell is the anchor
// and, if the range is closed on the right, its width is the destination width.
type Sink struct {
	Values   Values
	Ref      Reference
	Range    Range
	Width    int
	Mode     Mode
	Clearing Clearing
	Input    Input
}

// Read returns the current contents of the destination range.
func (s *Sink) Read(ctx context.Context) (grid.Grid, error) {
	return s.Values.Get(ctx, s.Ref, s.area())
}

// Write writes the rows according to the sink mode. current is the destination content as
// returned by Read and is used to locate the occupied rows. Rows are padded or truncated to
// the sink width. Writing zero rows makes no remote calls.
func (s *Sink) Write(ctx context.Context, rows grid.Grid, current grid.Grid) (Result, error) {
	width := s.width()
	if width < 1 {
		return Result{}, fmt.Errorf("invalid destination width %v for %v", width, s.Ref)
	}

	if len(rows) == 0 {
		log.Infof("%v  nothing to write (%v mode, 0 rows)", s.Ref, s.Mode)

		return Result{Outcome: NoOp}, nil
	}

	rows = rows.Pad(width)
	left, top := s.Range.Anchor()

	switch s.Mode {
	case Replace:
		if err := s.clear(ctx, current); err != nil {
			return Result{}, err
		}

		r := Range{Left: left, Top: top, Right: left + width - 1, Bottom: top + len(rows) - 1}
		if err := s.Values.Update(ctx, s.Ref, r, rows, s.Input); err != nil {
			return Result{}, err
		}

		log.Infof("%v  wrote %v rows to %v", s.Ref, len(rows), r)

		return Result{Outcome: Replaced, Rows: len(rows), Range: r.A1()}, nil

	case Append:
		start := top + current.Occupied()
		r := Range{Left: left, Top: start, Right: left + width - 1, Bottom: start + len(rows) - 1}

		if err := s.Values.Update(ctx, s.Ref, r, rows, s.Input); err != nil {
			return Result{}, err
		}

		log.Infof("%v  appended %v rows at %v", s.Ref, len(rows), r)

		return Result{Outcome: Appended, Rows: len(rows), Range: r.A1()}, nil

	default:
		return Result{}, fmt.Errorf("unsupported write mode %v", s.Mode)
	}
}

func (s *Sink) clear(ctx context.Context, current grid.Grid) error {
	switch s.Clearing {
	case ClearRange:
		return s.Values.Clear(ctx, s.Ref, s.area())

	default:
		occupied := current.Occupied()
		if occupied == 0 {
			return nil
		}

		width := max(s.width(), current.Width())
		left, top := s.Range.Anchor()
		r := Range{Left: left, Top: top, Right: left + width - 1, Bottom: top + occupied - 1}

		return s.Values.Clear(ctx, s.Ref, r)
	}
}

// area is the configured destination range, closed on the right at the sink width.
func (s *Sink) area() Range {
	left, top := s.Range.Anchor()

	return Range{Left: left, Top: top, Right: left + s.width() - 1, Bottom: s.Range.Bottom}
}

func (s *Sink) width() int {
	if s.Width > 0 {
		return s.Width
	}

	return s.Range.Width()
}
