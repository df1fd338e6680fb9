// Package sheetsync implements incremental, key based synchronisation of worksheet rows:
//
//	read sources -> transform -> read destination -> dedupe -> write
//
// The destination worksheet is the only state. The set of rows already synchronised is
// re-derived from the destination key column on every run.
package sheetsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/tutorqa/sheets-sync/grid"
	"github.com/tutorqa/sheets-sync/gsheet"
	"github.com/tutorqa/sheets-sync/log"
	"github.com/tutorqa/sheets-sync/transform"
)

// ErrConfiguration is returned, before anything is written, when a job cannot be executed as
// configured e.g. the key column cannot be located in the source or the destination.
var ErrConfiguration = errors.New("configuration error")

type Job struct {
	Name        string
	Sources     []Source
	Destination Destination
	Key         *Key
	DryRun      bool
}

type Source struct {
	Name      string
	Reader    gsheet.Reader
	Transform transform.Transform
}

type Destination struct {
	Sink *gsheet.Sink

	// Header says whether the first row of the destination range is a header row.
	Header transform.HeaderMode

	// WriteHeader writes the transformed header row at the anchor cell when the destination
	// is rewritten (replace mode) or is still empty (append mode).
	WriteHeader bool
}

// Key designates the column that identifies a row. Destination defaults to Column.
type Key struct {
	Column      transform.Column
	Destination *transform.Column
}

type Result struct {
	Job        string
	Read       int
	Candidates int
	Existing   int
	Written    int
	Outcome    gsheet.Outcome
	Range      string
}

// Run executes a job.
func Run(ctx context.Context, job Job) (*Result, error) {
	if job.Destination.Sink == nil {
		return nil, fmt.Errorf("%w: job '%v' has no destination", ErrConfiguration, job.Name)
	}

	if len(job.Sources) == 0 {
		return nil, fmt.Errorf("%w: job '%v' has no sources", ErrConfiguration, job.Name)
	}

	result := Result{
		Job: job.Name,
	}

	// ... sources
	var header []string
	candidates := grid.Grid{}

	for _, source := range job.Sources {
		rows, err := source.Reader.Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("%v: error reading source %v (%w)", job.Name, source.Name, err)
		}

		log.Infof("%v  read %v rows from %v", job.Name, len(rows), source.Name)

		result.Read += len(rows)

		table, err := source.Transform.Apply(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v: source %v (%w)", ErrConfiguration, job.Name, source.Name, err)
		}

		if header == nil && len(table.Header) > 0 {
			header = table.Header
		}

		candidates = append(candidates, table.Rows...)
	}

	sink := job.Destination.Sink
	width := sink.Width
	if width == 0 {
		width = sink.Range.Width()
	}

	candidates = candidates.Pad(width)
	header = grid.PadRow(header, width)
	result.Candidates = len(candidates)

	// ... locate source key before touching the destination
	key := -1
	if job.Key != nil {
		ix, err := transform.NewIndex(header).Resolve(job.Key.Column, width)
		if err != nil {
			return nil, fmt.Errorf("%w: %v: source key (%w)", ErrConfiguration, job.Name, err)
		}

		key = ix
	}

	// ... destination
	current, err := sink.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%v: error reading destination %v (%w)", job.Name, sink.Ref, err)
	}

	var column transform.Column
	if job.Key != nil {
		column = job.Key.Column
		if job.Key.Destination != nil {
			column = *job.Key.Destination
		}
	}

	existing := current
	var existingHeader []string
	if job.Destination.Header.HasHeader(current) {
		existingHeader = current[0]
		existing = current[1:]
	}

	// ... a guessed header row without the key column name is data
	guessed := job.Destination.Header == transform.HeaderAuto && existingHeader != nil
	if guessed && key >= 0 && column.Name != "" {
		if _, ok := transform.NewIndex(existingHeader)[grid.Normalise(column.Name)]; !ok {
			existingHeader = nil
			existing = current
			guessed = false
		}
	}

	result.Existing = existing.Occupied()

	rows := candidates

	switch sink.Mode {
	case gsheet.Append:
		if key >= 0 && (existing.Occupied() > 0 || guessed) {
			dkey, err := transform.NewIndex(existingHeader).Resolve(column, max(width, current.Width()))
			if err != nil {
				return nil, fmt.Errorf("%w: %v: destination key (%w)", ErrConfiguration, job.Name, err)
			}

			keys := Keys(existing, dkey)

			// ... a row guessed to be a header may be data: keep its key unless it is the key column name
			if guessed {
				if k := NormaliseKey(grid.Grid{existingHeader}.Cell(0, dkey)); k != "" && !isKeyName(k, column) {
					keys[k] = struct{}{}
					result.Existing++
				}
			}

			rows = Dedupe(keys, candidates, key)
		}

		if job.Destination.WriteHeader && current.Occupied() == 0 && len(rows) > 0 {
			rows = append(grid.Grid{header}, rows...)
		}

	default:
		if key >= 0 {
			rows = Distinct(candidates, key)
		}

		if job.Destination.WriteHeader && len(rows) > 0 {
			rows = append(grid.Grid{header}, rows...)
		}
	}

	log.Infof("%v  %v candidate rows, %v existing rows, %v rows to write", job.Name, len(candidates), result.Existing, len(rows))

	if job.DryRun {
		sink = dryrun(sink, current)
	}

	written, err := sink.Write(ctx, rows, current)
	if err != nil {
		return nil, fmt.Errorf("%v: error writing to %v (%w)", job.Name, sink.Ref, err)
	}

	result.Written = written.Rows
	result.Outcome = written.Outcome
	result.Range = written.Range

	if job.DryRun && written.Outcome != gsheet.NoOp {
		log.Infof("%v  DRY RUN: would have written %v rows to %v!%v", job.Name, written.Rows, sink.Ref, written.Range)
	}

	return &result, nil
}

// Distinct drops rows whose non-empty key repeats the key of an earlier row.
func Distinct(rows grid.Grid, column int) grid.Grid {
	seen := map[string]struct{}{}
	list := grid.Grid{}

	for _, row := range rows {
		if k := NormaliseKey(grid.Grid{row}.Cell(0, column)); k != "" {
			if _, ok := seen[k]; ok {
				continue
			}

			seen[k] = struct{}{}
		}

		list = append(list, row)
	}

	return list
}

func isKeyName(k string, column transform.Column) bool {
	for _, name := range []string{column.Name, column.Header} {
		if name != "" && grid.Normalise(name) == grid.Normalise(k) {
			return true
		}
	}

	return false
}

// dryrun returns a copy of the sink that writes to an in-memory worksheet seeded with the
// current destination content.
func dryrun(sink *gsheet.Sink, current grid.Grid) *gsheet.Sink {
	left, top := sink.Range.Anchor()
	sheet := make(grid.Grid, top-1, top-1+len(current))

	for _, row := range current {
		sheet = append(sheet, append(make([]string, left-1), row...))
	}

	memory := gsheet.NewMemory()
	memory.Put(sink.Ref, sheet)

	s := *sink
	s.Values = memory

	return &s
}
