package dashboard

import (
	"net/url"
	"slices"
	"strings"
)

// Query selects the dashboard rows. A row is shown if it is a public lesson within the lesson
// date range or a QA evaluation within the evaluation date range, and it matches every
// column filter. Empty date bounds are open.
type Query struct {
	ShowPublic bool
	ShowQA     bool
	HideNA     bool
	LessonFrom string
	LessonTo   string
	EvalFrom   string
	EvalTo     string
	Equals     map[string][]string
}

func DefaultQuery() Query {
	return Query{
		ShowPublic: true,
		ShowQA:     true,
		Equals:     map[string][]string{},
	}
}

// ParseQuery decodes a query from the dashboard form. A request without any form values is
// the default query.
func ParseQuery(values url.Values) Query {
	if len(values) == 0 {
		return DefaultQuery()
	}

	q := Query{
		ShowPublic: values.Get("public") != "",
		ShowQA:     values.Get("qa") != "",
		HideNA:     values.Get("hide-na") != "",
		LessonFrom: date(values.Get("lesson-from"), false),
		LessonTo:   date(values.Get("lesson-to"), false),
		EvalFrom:   date(values.Get("eval-from"), false),
		EvalTo:     date(values.Get("eval-to"), false),
		Equals:     map[string][]string{},
	}

	for _, c := range Columns {
		for _, v := range values["f:"+c] {
			if v != "" {
				q.Equals[c] = append(q.Equals[c], v)
			}
		}
	}

	return q
}

// Encode returns the query as form values, the inverse of ParseQuery.
func (q Query) Encode() url.Values {
	values := url.Values{"submitted": {"on"}}
	flag := func(k string, v bool) {
		if v {
			values.Set(k, "on")
		}
	}

	flag("public", q.ShowPublic)
	flag("qa", q.ShowQA)
	flag("hide-na", q.HideNA)

	for k, v := range map[string]string{
		"lesson-from": q.LessonFrom,
		"lesson-to":   q.LessonTo,
		"eval-from":   q.EvalFrom,
		"eval-to":     q.EvalTo,
	} {
		if v != "" {
			values.Set(k, v)
		}
	}

	for c, list := range q.Equals {
		for _, v := range list {
			values.Add("f:"+c, v)
		}
	}

	return values
}

// Apply returns the rows of the table selected by the query, in table order.
func (q Query) Apply(t *Table) []Row {
	rows := []Row{}

	for _, row := range t.Rows {
		public := q.ShowPublic && within(row[LessonDate], q.LessonFrom, q.LessonTo)
		qa := q.ShowQA && within(row[EvalDate], q.EvalFrom, q.EvalTo)

		if !public && !qa {
			continue
		}

		if q.HideNA {
			if tutor := strings.ToUpper(strings.TrimSpace(row[TutorID])); tutor == "" || tutor == "#N/A" {
				continue
			}
		}

		if q.matches(row) {
			rows = append(rows, row)
		}
	}

	return rows
}

func (q Query) matches(row Row) bool {
	for c, list := range q.Equals {
		if len(list) > 0 && !slices.Contains(list, row[c]) {
			return false
		}
	}

	return true
}

// Selected returns true if the value is one of the filter values for the column.
func (q Query) Selected(column, value string) bool {
	return slices.Contains(q.Equals[column], value)
}

// Options returns the sorted, distinct, non-empty values of a column.
func Options(t *Table, column string) []string {
	set := map[string]bool{}
	for _, row := range t.Rows {
		if v := row[column]; v != "" {
			set[v] = true
		}
	}

	list := make([]string, 0, len(set))
	for v := range set {
		list = append(list, v)
	}

	slices.Sort(list)

	return list
}

// Span returns the earliest and latest dates in a date column.
func Span(t *Table, column string) (string, string) {
	var from, to string

	for _, row := range t.Rows {
		if v := row[column]; v != "" {
			if from == "" || v < from {
				from = v
			}

			if to == "" || v > to {
				to = v
			}
		}
	}

	return from, to
}

// within compares YYYY-MM-DD dates. An empty date is never within a range.
func within(v, from, to string) bool {
	if v == "" {
		return false
	}

	return (from == "" || v >= from) && (to == "" || v <= to)
}
