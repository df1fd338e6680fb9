package gsheet

import (
	"bytes"
	"context"
	syslog "log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorqa/sheets-sync/grid"
)

var destination = Reference{
	Spreadsheet: "1HItT2-PtZWoldYKL210hCQOLg3rh6U1Qj6NWkBjDjzk",
	Sheet:       "QA - Lesson evaluation",
}

func TestSinkReplaceRoundTrip(t *testing.T) {
	ctx := context.Background()
	memory := NewMemory()
	memory.Put(destination, grid.Grid{{"Tutor", "Date", "Score", "Marker"}})

	sink := Sink{
		Values: memory,
		Ref:    destination,
		Range:  Range{Left: 1, Top: 2, Right: 4},
		Width:  4,
		Mode:   Replace,
	}

	rows := grid.Grid{
		{"Alice", "2024-03-01", "5"},
		{"Bob", "2024-03-02", "3", "B2"},
		{"Carol"},
	}

	current, err := sink.Read(ctx)
	require.NoError(t, err)

	result, err := sink.Write(ctx, rows, current)
	require.NoError(t, err)
	assert.Equal(t, Result{Outcome: Replaced, Rows: 3, Range: "A2:D4"}, result)

	readback, err := sink.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, rows.Pad(4), readback.Pad(4))

	sheet, _ := memory.Sheet(destination)
	assert.Equal(t, []string{"Tutor", "Date", "Score", "Marker"}, sheet[0], "header row must be left untouched")
}

func TestSinkReplaceClearsOnlyOccupiedRows(t *testing.T) {
	ctx := context.Background()
	memory := NewMemory()
	memory.Put(destination, grid.Grid{
		{"Tutor", "Date", "Score", "Marker", "Notes"},
		{"Old-1", "2024-01-01", "4", "A", "keep"},
		{"Old-2", "2024-01-02", "4", "A", "keep"},
		{"Old-3", "2024-01-03", "4", "A", "keep"},
	})

	sink := Sink{
		Values: memory,
		Ref:    destination,
		Range:  Range{Left: 1, Top: 2, Right: 4, Bottom: 50000},
		Mode:   Replace,
	}

	current, err := sink.Read(ctx)
	require.NoError(t, err)

	_, err = sink.Write(ctx, grid.Grid{{"New-1", "2024-03-01", "5", "B"}}, current)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"get 'QA - Lesson evaluation'!A2:D50000",
		"clear 'QA - Lesson evaluation'!A2:D4",
		"update 'QA - Lesson evaluation'!A2:D2",
	}, stripSpreadsheet(memory.Calls()))

	sheet, _ := memory.Sheet(destination)
	assert.Equal(t, grid.Grid{
		{"Tutor", "Date", "Score", "Marker", "Notes"},
		{"New-1", "2024-03-01", "5", "B", "keep"},
		{"", "", "", "", "keep"},
		{"", "", "", "", "keep"},
	}, sheet)
}

func TestSinkReplaceClearsConfiguredRange(t *testing.T) {
	ctx := context.Background()
	memory := NewMemory()
	memory.Put(destination, grid.Grid{{"x", "x", "x", "x"}, {"x", "x", "x", "x"}})

	sink := Sink{
		Values:   memory,
		Ref:      destination,
		Range:    Range{Left: 1, Top: 2, Right: 4},
		Mode:     Replace,
		Clearing: ClearRange,
	}

	_, err := sink.Write(ctx, grid.Grid{{"a"}}, grid.Grid{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"clear 'QA - Lesson evaluation'!A2:D",
		"update 'QA - Lesson evaluation'!A2:D2",
	}, stripSpreadsheet(memory.Calls()))
}

func TestSinkAppend(t *testing.T) {
	ctx := context.Background()
	memory := NewMemory()
	memory.Put(destination, grid.Grid{
		{"ID", "Tutor"},
		{"1", "Alice"},
		{"2", "Bob"},
	})

	sink := Sink{
		Values: memory,
		Ref:    destination,
		Range:  Range{Left: 1, Top: 1, Right: 2},
		Mode:   Append,
	}

	current, err := sink.Read(ctx)
	require.NoError(t, err)

	result, err := sink.Write(ctx, grid.Grid{{"3", "Carol"}, {"4"}}, current)
	require.NoError(t, err)
	assert.Equal(t, Appended, result.Outcome)
	assert.Equal(t, "A4:B5", result.Range)

	sheet, _ := memory.Sheet(destination)
	assert.Equal(t, grid.Grid{
		{"ID", "Tutor"},
		{"1", "Alice"},
		{"2", "Bob"},
		{"3", "Carol"},
		{"4", ""},
	}, sheet)

	for _, call := range memory.Calls() {
		assert.NotContains(t, call, "clear")
	}
}

func TestSinkAppendZeroRowsIsNoOp(t *testing.T) {
	var buffer bytes.Buffer

	syslog.SetOutput(&buffer)
	defer syslog.SetOutput(os.Stderr)

	memory := NewMemory()
	memory.Put(destination, grid.Grid{{"1"}})

	for _, mode := range []Mode{Append, Replace} {
		sink := Sink{
			Values: memory,
			Ref:    destination,
			Range:  Range{Left: 1, Top: 1, Right: 4},
			Mode:   mode,
		}

		result, err := sink.Write(context.Background(), grid.Grid{}, grid.Grid{{"1"}})
		require.NoError(t, err)
		assert.Equal(t, Result{Outcome: NoOp}, result)
	}

	assert.Empty(t, memory.Calls())
	assert.Contains(t, buffer.String(), "nothing to write")
}

func TestSinkWithoutWidth(t *testing.T) {
	sink := Sink{
		Values: NewMemory(),
		Ref:    destination,
		Range:  Range{Left: 1, Top: 2},
	}

	_, err := sink.Write(context.Background(), grid.Grid{{"a"}}, nil)
	assert.Error(t, err)
}

func TestMemoryGetMissingSheet(t *testing.T) {
	_, err := NewMemory().Get(context.Background(), destination, Range{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func stripSpreadsheet(calls []string) []string {
	list := []string{}
	prefix := "'" + destination.Spreadsheet + "/"

	for _, call := range calls {
		list = append(list, string(bytes.Replace([]byte(call), []byte(prefix), []byte("'"), 1)))
	}

	return list
}
