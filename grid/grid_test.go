package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPad(t *testing.T) {
	g := Grid{
		{"a"},
		{},
		{"a", "b", "c", "d"},
		{"a", "b", "c"},
	}

	padded := g.Pad(3)

	require.Len(t, padded, 4)
	for _, row := range padded {
		assert.Len(t, row, 3)
	}

	assert.Equal(t, []string{"a", "", ""}, padded[0])
	assert.Equal(t, []string{"", "", ""}, padded[1])
	assert.Equal(t, []string{"a", "b", "c"}, padded[2])
	assert.Equal(t, []string{"a", "b", "c"}, padded[3])
}

func TestPadKeepsContentWithinWidth(t *testing.T) {
	g := Grid{{"", "", "x"}}

	assert.Equal(t, []string{"", "", "x", "", ""}, g.Pad(5)[0])
	assert.Equal(t, Grid{{"a"}}, Grid{{"a"}}.Pad(1))
	assert.Equal(t, []string{""}, g.Pad(1)[0])
	assert.Equal(t, []string{}, g.Pad(0)[0])
}

func TestPadDoesNotModifyOriginal(t *testing.T) {
	g := Grid{{"a", "b"}}
	g.Pad(1)

	assert.Equal(t, Grid{{"a", "b"}}, g)
}

func TestFromValues(t *testing.T) {
	values := [][]interface{}{
		{"Tutor", 5, nil, 1.5, true},
		{},
	}

	expected := Grid{
		{"Tutor", "5", "", "1.5", "true"},
		{},
	}

	assert.Equal(t, expected, FromValues(values))
	assert.Equal(t, []interface{}{"Tutor", "5", "", "1.5", "true"}, expected.Values()[0])
}

func TestOccupied(t *testing.T) {
	g := Grid{
		{"a"},
		{""},
		{"b", ""},
		{" ", ""},
		{},
	}

	assert.Equal(t, 3, g.Occupied())
	assert.Equal(t, 0, Grid{}.Occupied())
	assert.Equal(t, 0, Grid{{""}, {}}.Occupied())
}

func TestCell(t *testing.T) {
	g := Grid{{"a", "b"}, {"c"}}

	assert.Equal(t, "b", g.Cell(0, 1))
	assert.Equal(t, "", g.Cell(1, 1))
	assert.Equal(t, "", g.Cell(2, 0))
	assert.Equal(t, "", g.Cell(-1, 0))
}

func TestNormalise(t *testing.T) {
	tests := map[string]string{
		"  Lesson_ID ":    "lesson_id",
		BOM + "Tutor ID":  "tutor id",
		"ДАТА урока":      "дата урока",
		"":                "",
		"Straße":          "strasse",
	}

	for v, expected := range tests {
		assert.Equal(t, expected, Normalise(v), "normalise(%q)", v)
	}
}

func TestIsHeader(t *testing.T) {
	tests := []struct {
		row      []string
		expected bool
	}{
		{[]string{"Tutor ID", "Date", "Score"}, true},
		{[]string{"Имя", "Дата", "Оценка"}, true},
		{[]string{"12345", "2024-03-01", "5"}, false},
		{[]string{"T-1", "2024-03-01", "5", "4", "3"}, false},
		{[]string{"Alice", "2024-03-01", "5", "", ""}, false},
		{[]string{"Alice", "Bob", "5", "4", "3"}, true},
		{[]string{"", "", ""}, false},
		{[]string{}, false},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, IsHeader(test.row), "IsHeader(%q)", test.row)
	}
}
