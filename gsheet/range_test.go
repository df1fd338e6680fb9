package gsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorqa/sheets-sync/grid"
)

func TestParseRange(t *testing.T) {
	tests := map[string]Range{
		"A2:D":                      {Left: 1, Top: 2, Right: 4},
		"A2:D50000":                 {Left: 1, Top: 2, Right: 4, Bottom: 50000},
		"A:AI":                      {Left: 1, Right: 35},
		"B3":                        {Left: 2, Top: 3, Right: 2, Bottom: 3},
		"Log!A1:H":                  {Left: 1, Top: 1, Right: 8},
		"'QA - Lesson evaluation'!C2:R": {Left: 3, Top: 2, Right: 18},
		"":                          {},
	}

	for s, expected := range tests {
		r, err := ParseRange(s)
		require.NoError(t, err, s)
		assert.Equal(t, expected, r, s)
	}
}

func TestParseRangeWithInvalidRange(t *testing.T) {
	for _, s := range []string{"A", "2:4", "D2:A", "A5:B2", "A1:"} {
		_, err := ParseRange(s)
		assert.Error(t, err, s)
	}
}

func TestRangeA1(t *testing.T) {
	tests := []struct {
		r        Range
		expected string
	}{
		{Range{Left: 1, Top: 2, Right: 4}, "A2:D"},
		{Range{Left: 1, Top: 2, Right: 4, Bottom: 50000}, "A2:D50000"},
		{Range{Left: 1, Right: 35}, "A:AI"},
		{Range{}, ""},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.r.A1())
	}

	assert.Equal(t, "'Tutor''s log'!A1:H", Range{Left: 1, Top: 1, Right: 8}.Qualify("Tutor's log"))
	assert.Equal(t, "'Lessons'", Range{}.Qualify("Lessons"))
}

func TestRangeCrop(t *testing.T) {
	g := grid.Grid{
		{"a1", "b1", "c1"},
		{"a2", "b2"},
		{"a3", "b3", "c3", "d3"},
	}

	assert.Equal(t, grid.Grid{{"b2"}, {"b3", "c3"}}, Range{Left: 2, Top: 2, Right: 3}.Crop(g))
	assert.Equal(t, grid.Grid{{"a1", "b1", "c1"}}, Range{Left: 1, Top: 1, Right: 4, Bottom: 1}.Crop(g))
	assert.Equal(t, g, Range{}.Crop(g))
	assert.Equal(t, grid.Grid{}, Range{Left: 1, Top: 10, Right: 2}.Crop(g))
}

func TestParseURL(t *testing.T) {
	id, gid, err := ParseURL("https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit#gid=835553195")
	require.NoError(t, err)
	assert.Equal(t, "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", id)
	assert.Equal(t, "835553195", gid)

	id, gid, err = ParseURL("1_S-NyaVKuOc0xK12PBAYvdIauDBq9mdqHlnKLfSYNAE")
	require.NoError(t, err)
	assert.Equal(t, "1_S-NyaVKuOc0xK12PBAYvdIauDBq9mdqHlnKLfSYNAE", id)
	assert.Equal(t, "", gid)

	_, _, err = ParseURL("https://example.com/spreadsheets/d/xyz")
	assert.Error(t, err)
}

func TestReferenceValidate(t *testing.T) {
	assert.NoError(t, Reference{Spreadsheet: "abc", Sheet: "Lessons"}.Validate())
	assert.NoError(t, Reference{Spreadsheet: "abc", GID: "0"}.Validate())
	assert.Error(t, Reference{Sheet: "Lessons"}.Validate())
	assert.Error(t, Reference{Spreadsheet: "abc"}.Validate())
	assert.Error(t, Reference{Spreadsheet: "abc", GID: "x1"}.Validate())
}
