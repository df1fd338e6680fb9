package config

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tutorqa/sheets-sync/gsheet"
	"github.com/tutorqa/sheets-sync/sheetsync"
	"github.com/tutorqa/sheets-sync/transform"
)

// Backend is the remote access used by compiled jobs: the Sheets API for authenticated reads
// and all writes and the CSV export for 'export' sources.
type Backend struct {
	Values gsheet.Values
	Export *gsheet.Export
}

// Compile converts a job configuration into an executable sync job.
func (j Job) Compile(backend Backend) (sheetsync.Job, error) {
	job := sheetsync.Job{
		Name: j.Name,
	}

	for i, s := range j.Sources {
		source, err := s.compile(backend)
		if err != nil {
			return job, fmt.Errorf("%w: %v: source %v (%w)", sheetsync.ErrConfiguration, j.Name, i+1, err)
		}

		job.Sources = append(job.Sources, source)
	}

	destination, err := j.Destination.compile(backend)
	if err != nil {
		return job, fmt.Errorf("%w: %v: destination (%w)", sheetsync.ErrConfiguration, j.Name, err)
	}

	job.Destination = destination

	for i := range job.Sources {
		job.Sources[i].Transform.Width = destination.Sink.Width
	}

	if j.Key != nil {
		column, err := j.Key.Column.compile()
		if err != nil {
			return job, fmt.Errorf("%w: %v: key (%w)", sheetsync.ErrConfiguration, j.Name, err)
		}

		key := sheetsync.Key{
			Column: column,
		}

		if j.Key.Destination != nil {
			if column, err := j.Key.Destination.compile(); err != nil {
				return job, fmt.Errorf("%w: %v: destination key (%w)", sheetsync.ErrConfiguration, j.Name, err)
			} else {
				key.Destination = &column
			}
		}

		job.Key = &key
	}

	return job, nil
}

func (s Source) compile(backend Backend) (sheetsync.Source, error) {
	ref, err := s.Reference()
	if err != nil {
		return sheetsync.Source{}, err
	}

	r, err := s.Area()
	if err != nil {
		return sheetsync.Source{}, err
	}

	source := sheetsync.Source{
		Name: ref.String(),
		Transform: transform.Transform{
			Header: transform.HeaderPresent,
		},
	}

	if s.Export {
		if ref.GID == "" {
			return source, fmt.Errorf("export source %v requires a gid", ref)
		}

		source.Reader = gsheet.ExportSource{Export: backend.Export, Ref: ref, Range: r}
	} else {
		source.Reader = gsheet.Source{Values: backend.Values, Ref: ref, Range: r}
	}

	if s.Header != "" {
		source.Transform.Header = transform.HeaderMode(s.Header)
	}

	if s.Sentinel != nil {
		source.Transform.Sentinel = &transform.Sentinel{
			Marker:     s.Sentinel.Marker,
			IgnoreCase: s.Sentinel.IgnoreCase,
		}
	}

	if s.Filter != nil {
		column, err := s.Filter.Column.compile()
		if err != nil {
			return source, fmt.Errorf("filter (%w)", err)
		}

		source.Transform.Filter = &transform.Filter{
			Column:   column,
			Contains: s.Filter.Contains,
		}
	}

	for _, c := range s.Columns {
		column, err := c.compile()
		if err != nil {
			return source, err
		}

		source.Transform.Columns = append(source.Transform.Columns, column)
	}

	return source, nil
}

func (d Destination) compile(backend Backend) (sheetsync.Destination, error) {
	ref, err := d.Reference()
	if err != nil {
		return sheetsync.Destination{}, err
	}

	r, err := d.Area()
	if err != nil {
		return sheetsync.Destination{}, err
	}

	sink := gsheet.Sink{
		Values: backend.Values,
		Ref:    ref,
		Range:  r,
		Width:  d.Width,
		Input:  gsheet.UserEntered,
	}

	if sink.Width == 0 {
		sink.Width = r.Width()
	}

	if sink.Width < 1 {
		return sheetsync.Destination{}, fmt.Errorf("destination %v requires either a width or a range closed on the right", ref)
	}

	switch d.Mode {
	case "", "replace":
		sink.Mode = gsheet.Replace
	case "append":
		sink.Mode = gsheet.Append
	default:
		return sheetsync.Destination{}, fmt.Errorf("invalid write mode '%v'", d.Mode)
	}

	switch d.Clear {
	case "", "occupied":
		sink.Clearing = gsheet.ClearOccupied
	case "range":
		sink.Clearing = gsheet.ClearRange
	default:
		return sheetsync.Destination{}, fmt.Errorf("invalid clear mode '%v'", d.Clear)
	}

	if d.Input != "" {
		sink.Input = gsheet.Input(d.Input)
	}

	// ... a destination only has a header row if one is written to it, unless configured
	destination := sheetsync.Destination{
		Sink:        &sink,
		Header:      transform.HeaderAbsent,
		WriteHeader: d.WriteHeader,
	}

	if d.WriteHeader {
		destination.Header = transform.HeaderPresent
	}

	if d.Header != "" {
		destination.Header = transform.HeaderMode(d.Header)
	}

	return destination, nil
}

func (c Column) compile() (transform.Column, error) {
	column := transform.Column{
		Name:   strings.TrimSpace(c.Name),
		Index:  transform.NoIndex,
		Header: c.Header,
	}

	switch {
	case c.Index != nil && c.Letter != "":
		return column, fmt.Errorf("column %v has both an index and a column letter", c.Name)

	case c.Index != nil:
		column.Index = *c.Index

	case c.Letter != "":
		if v, err := excelize.ColumnNameToNumber(c.Letter); err != nil {
			return column, err
		} else {
			column.Index = v - 1
		}

	case column.Name == "":
		return column, fmt.Errorf("column requires a name, index or column letter")
	}

	if c.Convert != nil {
		conversion := transform.Conversion{
			Kind:     transform.Kind(c.Convert.Kind),
			Target:   transform.Serial,
			DayFirst: c.Convert.DayFirst,
		}

		if c.Convert.Target != "" {
			conversion.Target = transform.Target(c.Convert.Target)
		}

		if err := conversion.Validate(); err != nil {
			return column, err
		}

		column.Convert = &conversion
	}

	return column, nil
}
