package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorqa/sheets-sync/grid"
)

func TestTransformSentinelRows(t *testing.T) {
	source := grid.Grid{
		{"Tutor", "Score", "Group", "", ""},
		{"Alice", "5", "A1", "", ""},
		{"x"},
		{"Tutor", "", "", "", ""},
		{"Bob", "3", "B2", "", ""},
	}

	transform := Transform{
		Header:   HeaderPresent,
		Sentinel: &Sentinel{Marker: "Tutor"},
	}

	table, err := transform.Apply(source)
	require.NoError(t, err)

	assert.Equal(t, grid.Grid{
		{"Alice", "5", "A1", "", ""},
		{"Bob", "3", "B2", "", ""},
	}, table.Rows)
}

func TestTransformQARatingColumns(t *testing.T) {
	// A, B, O, L
	header := make([]string, 15)
	alice := make([]string, 15)
	for i := range header {
		header[i] = string(rune('A' + i))
		alice[i] = string(rune('a' + i))
	}

	header[0] = "Tutor"
	source := grid.Grid{header, alice, {"Tutor"}, {"Bob", "2024-03-02"}}

	transform := Transform{
		Header:   HeaderPresent,
		Sentinel: &Sentinel{Marker: "Tutor"},
		Columns:  []Column{ByIndex(0), ByIndex(1), ByIndex(14), ByIndex(11)},
		Width:    4,
	}

	table, err := transform.Apply(source)
	require.NoError(t, err)

	assert.Equal(t, []string{"Tutor", "B", "O", "L"}, table.Header)
	assert.Equal(t, grid.Grid{
		{"a", "b", "o", "l"},
		{"Bob", "2024-03-02", "", ""},
	}, table.Rows)
}

func TestTransformNamedColumnsWithPositionalFallback(t *testing.T) {
	source := grid.Grid{
		{"\ufeffTeacher_Name ", "Teacher ID", "Lesson date"},
		{"Alice", "T-1", "2024-03-01"},
		{"Bob", "T-2"},
	}

	transform := Transform{
		Header: HeaderPresent,
		Columns: []Column{
			{Name: "teacher_id", Index: 1, Header: "Tutor ID"},
			{Name: "teacher_name", Index: NoIndex, Header: "Tutor name"},
			{Name: "LESSON DATE", Index: 7, Convert: &Conversion{Kind: Date, Target: Serial}},
		},
		Width: 5,
	}

	table, err := transform.Apply(source)
	require.NoError(t, err)

	assert.Equal(t, []string{"Tutor ID", "Tutor name", "Lesson date", "", ""}, table.Header)
	assert.Equal(t, grid.Grid{
		{"T-1", "Alice", "45352", "", ""},
		{"T-2", "Bob", "", "", ""},
	}, table.Rows)
}

func TestTransformMissingNamedColumn(t *testing.T) {
	source := grid.Grid{
		{"teacher_id", "lesson_date"},
		{"T-1", "2024-03-01"},
	}

	transform := Transform{
		Header:  HeaderPresent,
		Columns: []Column{ByName("lesson_id")},
	}

	_, err := transform.Apply(source)
	assert.ErrorIs(t, err, ErrColumnNotFound)
	assert.ErrorContains(t, err, "lesson_id")
}

func TestTransformPositionBeyondLastCell(t *testing.T) {
	source := grid.Grid{{"a", "b"}, {"1", "2"}}

	table, err := Transform{Header: HeaderPresent, Columns: []Column{ByIndex(0), ByIndex(2)}}.Apply(source)
	require.NoError(t, err)

	assert.Equal(t, grid.Grid{{"1", ""}}, table.Rows)
}

func TestTransformEmptyTrailingColumn(t *testing.T) {
	source := grid.Grid{
		{"1", "Alice", "x"},
		{"2", "Bob"},
	}

	table, err := Transform{Header: HeaderAbsent, Columns: []Column{ByIndex(0), ByIndex(1), ByIndex(3)}}.Apply(source)
	require.NoError(t, err)

	assert.Equal(t, grid.Grid{
		{"1", "Alice", ""},
		{"2", "Bob", ""},
	}, table.Rows)
}

func TestTransformSentinelRowsWithEmptyColumnO(t *testing.T) {
	// A, B, O, L with column O empty in every row
	alice := make([]string, 12)
	for i := range alice {
		alice[i] = string(rune('a' + i))
	}

	source := grid.Grid{
		{"Tutor", "Score"},
		alice,
		{"Tutor"},
		{"Bob", "3"},
	}

	transform := Transform{
		Header:   HeaderPresent,
		Sentinel: &Sentinel{Marker: "Tutor"},
		Columns:  []Column{ByIndex(0), ByIndex(1), ByIndex(14), ByIndex(11)},
		Width:    4,
	}

	table, err := transform.Apply(source)
	require.NoError(t, err)

	assert.Equal(t, grid.Grid{
		{"a", "b", "", "l"},
		{"Bob", "3", "", ""},
	}, table.Rows)
}

func TestTransformPositionalFilterColumnBeyondLastCell(t *testing.T) {
	source := grid.Grid{{"1", "COL-1"}, {"2"}}

	transform := Transform{
		Header: HeaderAbsent,
		Filter: &Filter{Column: ByIndex(2), Contains: []string{"ESP"}},
	}

	table, err := transform.Apply(source)
	require.NoError(t, err)

	assert.Empty(t, table.Rows)
}

func TestTransformWithoutHeader(t *testing.T) {
	source := grid.Grid{
		{"1", "2024-03-01", "5"},
		{"2", "2024-03-02"},
	}

	table, err := Transform{Header: HeaderAuto, Columns: []Column{ByIndex(2), ByIndex(0)}}.Apply(source)
	require.NoError(t, err)

	assert.Equal(t, grid.Grid{{"5", "1"}, {"", "2"}}, table.Rows)
}

func TestTransformFilter(t *testing.T) {
	source := grid.Grid{
		{"id", "group"},
		{"1", "COL-12"},
		{"2", "BRA-3"},
		{"3", "ESP 7"},
		{"4"},
		{"5", "chi-1"},
		{"6", "CHI-2"},
	}

	transform := Transform{
		Header: HeaderPresent,
		Filter: &Filter{
			Column:   Column{Name: "group", Index: 1},
			Contains: []string{"COL", "ESP", "CHI"},
		},
	}

	table, err := transform.Apply(source)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "group"}, table.Header)
	assert.Equal(t, grid.Grid{{"1", "COL-12"}, {"3", "ESP 7"}, {"6", "CHI-2"}}, table.Rows)
}

func TestTransformEmptySource(t *testing.T) {
	table, err := Transform{Columns: []Column{ByName("lesson_id")}}.Apply(grid.Grid{})
	require.NoError(t, err)

	assert.Empty(t, table.Rows)
}

func TestSentinelConsecutiveAndTrailingMarkers(t *testing.T) {
	rows := grid.Grid{
		{"Tutor"},
		{"tutor "},
		{"Alice"},
		{"Bob"},
		{"Tutor"},
	}

	assert.Equal(t, grid.Grid{{"tutor "}}, Sentinel{Marker: "Tutor"}.Extract(rows))
	assert.Equal(t, grid.Grid{{"Alice"}}, Sentinel{Marker: "Tutor", IgnoreCase: true}.Extract(rows))
	assert.Equal(t, grid.Grid{}, Sentinel{Marker: "Tutor"}.Extract(grid.Grid{{}, {"Tutor"}}))
}

func TestIndexResolve(t *testing.T) {
	index := NewIndex([]string{"ID", "", "Tutor ID", "id"})

	ix, err := index.Resolve(ByName(" id"), 4)
	require.NoError(t, err)
	assert.Equal(t, 0, ix)

	ix, err = index.Resolve(Column{Name: "renamed", Index: 3}, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, ix)

	_, err = index.Resolve(Column{Name: "renamed", Index: NoIndex}, 4)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}
