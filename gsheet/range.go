package gsheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tutorqa/sheets-sync/grid"
)

// Range is a rectangular A1 area within a worksheet. Rows and columns are 1-based and a zero
// Top/Bottom/Right means the range is open in that direction ('A2:D', 'A:AI').
type Range struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// ParseRange parses the cell part of an A1 range, e.g. 'A2:D', 'A2:D50000', 'A:AI' or 'B3'.
// A sheet prefix ('Log!A1:H') is ignored.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if ix := strings.LastIndex(s, "!"); ix >= 0 {
		s = s[ix+1:]
	}

	if s == "" {
		return Range{}, nil
	}

	match := regexp.MustCompile(`^([a-zA-Z]+)([0-9]*)(?::([a-zA-Z]+)([0-9]*))?$`).FindStringSubmatch(s)
	if match == nil {
		return Range{}, fmt.Errorf("invalid range '%v' - expected something like 'A2:D'", s)
	}

	r := Range{}

	if v, err := excelize.ColumnNameToNumber(match[1]); err != nil {
		return Range{}, fmt.Errorf("invalid range '%v' (%w)", s, err)
	} else {
		r.Left = v
	}

	if match[2] != "" {
		r.Top, _ = strconv.Atoi(match[2])
	}

	if match[3] == "" {
		// single cell
		if r.Top == 0 {
			return Range{}, fmt.Errorf("invalid range '%v' - expected something like 'A2:D'", s)
		}

		r.Right = r.Left
		r.Bottom = r.Top

		return r, nil
	}

	if v, err := excelize.ColumnNameToNumber(match[3]); err != nil {
		return Range{}, fmt.Errorf("invalid range '%v' (%w)", s, err)
	} else {
		r.Right = v
	}

	if match[4] != "" {
		r.Bottom, _ = strconv.Atoi(match[4])
	}

	if r.Right < r.Left || (r.Bottom != 0 && r.Bottom < r.Top) {
		return Range{}, fmt.Errorf("invalid range '%v'", s)
	}

	return r, nil
}

// IsZero returns true for the 'whole sheet' range.
func (r Range) IsZero() bool {
	return r == Range{}
}

// Width returns the number of columns in a closed range, or 0 if the range is open on the right.
func (r Range) Width() int {
	if r.Right == 0 {
		return 0
	}

	return r.Right - r.Left + 1
}

// Anchor returns the top left cell, defaulting to A1.
func (r Range) Anchor() (int, int) {
	left := r.Left
	top := r.Top

	if left < 1 {
		left = 1
	}

	if top < 1 {
		top = 1
	}

	return left, top
}

// A1 formats the range in A1 notation, without a sheet prefix.
func (r Range) A1() string {
	if r.IsZero() {
		return ""
	}

	left, _ := excelize.ColumnNumberToName(max(r.Left, 1))
	right, _ := excelize.ColumnNumberToName(max(r.Right, r.Left, 1))

	from := left
	to := right

	if r.Top > 0 {
		from = fmt.Sprintf("%v%v", left, r.Top)
	}

	if r.Bottom > 0 {
		to = fmt.Sprintf("%v%v", right, r.Bottom)
	}

	return fmt.Sprintf("%v:%v", from, to)
}

// Qualify prefixes the range with a quoted sheet title, e.g. 'QA - Lesson evaluation'!A2:D.
func (r Range) Qualify(title string) string {
	quoted := "'" + strings.ReplaceAll(title, "'", "''") + "'"

	if a1 := r.A1(); a1 != "" {
		return quoted + "!" + a1
	}

	return quoted
}

// Crop returns a copy of the part of a worksheet grid covered by the range.
func (r Range) Crop(g grid.Grid) grid.Grid {
	left, top := r.Anchor()
	bottom := len(g)
	if r.Bottom > 0 && r.Bottom < bottom {
		bottom = r.Bottom
	}

	rows := grid.Grid{}
	for i := top - 1; i < bottom; i++ {
		row := g[i]
		right := len(row)
		if r.Right > 0 && r.Right < right {
			right = r.Right
		}

		record := []string{}
		if left-1 < right {
			record = append(record, row[left-1:right]...)
		}

		rows = append(rows, record)
	}

	return rows
}

func (r Range) String() string {
	return r.A1()
}
