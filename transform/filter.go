package transform

import (
	"strings"
)

// Filter keeps the rows whose cell in Column contains any of the given substrings.
type Filter struct {
	Column   Column
	Contains []string
}

func (f Filter) keep(v string) bool {
	for _, s := range f.Contains {
		if s != "" && strings.Contains(v, s) {
			return true
		}
	}

	return false
}
