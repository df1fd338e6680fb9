package transform

import (
	"errors"
	"fmt"

	"github.com/tutorqa/sheets-sync/grid"
)

// ErrColumnNotFound is the configuration fault returned when a column cannot be located by
// name or by position.
var ErrColumnNotFound = errors.New("column not found")

// NoIndex marks a column that can only be located by name.
const NoIndex = -1

// Column identifies a source column by header name, by zero-based position or both. When both
// are set the name takes priority and the position is the fallback for sheets where the
// header has been renamed or is missing.
type Column struct {
	Name    string
	Index   int
	Header  string
	Convert *Conversion
}

func ByName(name string) Column {
	return Column{Name: name, Index: NoIndex}
}

func ByIndex(index int) Column {
	return Column{Index: index}
}

func (c Column) String() string {
	switch {
	case c.Name != "" && c.Index >= 0:
		return fmt.Sprintf("'%v' (column %v)", c.Name, c.Index)
	case c.Name != "":
		return fmt.Sprintf("'%v'", c.Name)
	default:
		return fmt.Sprintf("column %v", c.Index)
	}
}

// Index maps normalised header names to column positions. The first occurrence of a
// duplicated name wins.
type Index map[string]int

func NewIndex(header []string) Index {
	index := Index{}
	for i, v := range header {
		k := grid.Normalise(v)
		if _, ok := index[k]; !ok && k != "" {
			index[k] = i
		}
	}

	return index
}

// Resolve locates a column: by name in the header index, else by position if the position
// is within width, else it fails with ErrColumnNotFound.
func (index Index) Resolve(c Column, width int) (int, error) {
	if c.Name != "" {
		if ix, ok := index[grid.Normalise(c.Name)]; ok {
			return ix, nil
		}
	}

	if c.Index >= 0 && c.Index < width {
		return c.Index, nil
	}

	return -1, fmt.Errorf("%w: %v", ErrColumnNotFound, c)
}

// ResolveAll resolves a list of columns, failing on the first column that cannot be located.
func (index Index) ResolveAll(columns []Column, width int) ([]int, error) {
	list := make([]int, len(columns))
	for i, c := range columns {
		if ix, err := index.Resolve(c, width); err != nil {
			return nil, err
		} else {
			list[i] = ix
		}
	}

	return list, nil
}
