package gsheet

import (
	"context"
	"fmt"
	"sync"

	"github.com/tutorqa/sheets-sync/grid"
)

// Memory is an in-memory Values implementation. It backs dry runs (seeded from the real
// destination) and the package tests, and keeps a log of the calls made against it.
type Memory struct {
	sheets map[string]grid.Grid
	calls  []string
	sync.Mutex
}

func NewMemory() *Memory {
	return &Memory{
		sheets: map[string]grid.Grid{},
	}
}

// Put replaces the contents of a worksheet.
func (m *Memory) Put(ref Reference, rows grid.Grid) {
	m.Lock()
	defer m.Unlock()

	m.sheets[key(ref)] = clone(rows)
}

// Sheet returns a copy of the contents of a worksheet.
func (m *Memory) Sheet(ref Reference) (grid.Grid, bool) {
	m.Lock()
	defer m.Unlock()

	g, ok := m.sheets[key(ref)]

	return clone(g), ok
}

// Calls returns the list of Get/Clear/Update calls made so far, formatted as 'op range'.
func (m *Memory) Calls() []string {
	m.Lock()
	defer m.Unlock()

	return append([]string{}, m.calls...)
}

func (m *Memory) Get(ctx context.Context, ref Reference, r Range) (grid.Grid, error) {
	m.Lock()
	defer m.Unlock()

	m.calls = append(m.calls, fmt.Sprintf("get %v", r.Qualify(ref.String())))

	g, ok := m.sheets[key(ref)]
	if !ok {
		return nil, fmt.Errorf("worksheet %v (%w)", ref, ErrNotFound)
	}

	rows := r.Crop(g)

	// ... the Sheets API omits trailing empty cells and rows
	for i := range rows {
		rows[i] = trimRight(rows[i])
	}

	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}

	return rows, nil
}

func (m *Memory) Clear(ctx context.Context, ref Reference, r Range) error {
	m.Lock()
	defer m.Unlock()

	m.calls = append(m.calls, fmt.Sprintf("clear %v", r.Qualify(ref.String())))

	g, ok := m.sheets[key(ref)]
	if !ok {
		return fmt.Errorf("worksheet %v (%w)", ref, ErrNotFound)
	}

	left, top := r.Anchor()
	for i := top - 1; i < len(g); i++ {
		if r.Bottom > 0 && i >= r.Bottom {
			break
		}

		for j := left - 1; j < len(g[i]); j++ {
			if r.Right > 0 && j >= r.Right {
				break
			}

			g[i][j] = ""
		}
	}

	return nil
}

func (m *Memory) Update(ctx context.Context, ref Reference, r Range, rows grid.Grid, input Input) error {
	m.Lock()
	defer m.Unlock()

	m.calls = append(m.calls, fmt.Sprintf("update %v", r.Qualify(ref.String())))

	g, ok := m.sheets[key(ref)]
	if !ok {
		return fmt.Errorf("worksheet %v (%w)", ref, ErrNotFound)
	}

	left, top := r.Anchor()
	for i, row := range rows {
		y := top - 1 + i
		for len(g) <= y {
			g = append(g, []string{})
		}

		for j, v := range row {
			x := left - 1 + j
			if len(g[y]) <= x {
				g[y] = grid.PadRow(g[y], x+1)
			}

			g[y][x] = v
		}
	}

	m.sheets[key(ref)] = g

	return nil
}

func key(ref Reference) string {
	if ref.Sheet != "" {
		return ref.Spreadsheet + "/" + ref.Sheet
	}

	return ref.Spreadsheet + "#" + ref.GID
}

func clone(g grid.Grid) grid.Grid {
	if g == nil {
		return nil
	}

	c := make(grid.Grid, len(g))
	for i, row := range g {
		c[i] = append([]string{}, row...)
	}

	return c
}

func trimRight(row []string) []string {
	for len(row) > 0 && row[len(row)-1] == "" {
		row = row[:len(row)-1]
	}

	return row
}
