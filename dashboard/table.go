// Package dashboard implements the QA queue dashboard: public lesson exports joined with the
// tutor ratings, QA evaluations and replacements worksheets, served as a filterable HTML table
// with CSV and XLSX downloads.
package dashboard

import (
	"time"

	"github.com/tutorqa/sheets-sync/grid"
)

const (
	TutorName   = "Tutor name"
	TutorID     = "Tutor ID"
	LessonDate  = "Date of the lesson"
	Group       = "Group"
	CourseID    = "Course ID"
	Module      = "Module"
	Lesson      = "Lesson"
	LessonLink  = "Lesson Link"
	Region      = "Region"
	QAScore     = "QA score"
	QAMarker    = "QA marker"
	Replacement = "Replacement or not"
	EvalDate    = "Eval Date"
	Source      = "Source"
)

const (
	Public = "Public"
	QA     = "QA"

	Replaced = "Replacement/Postponement"
)

// RatingColumns are the per-tutor columns copied from the rating worksheets.
var RatingColumns = []string{
	"Rating w retention",
	"Num of QA scores",
	"Num of QA scores (last 90 days)",
	"Average QA score",
	"Average QA score (last 2 scores within last 90 days)",
	"Average QA marker",
	"Average QA marker (last 2 markers within last 90 days)",
}

// Columns is the display order of the dashboard table.
var Columns = concat(
	[]string{TutorName, TutorID, LessonDate, Group, CourseID, Module, Lesson, LessonLink, Region},
	RatingColumns,
	[]string{QAScore, QAMarker, Replacement, EvalDate, Source},
)

// static columns are per-tutor (rather than per-lesson) and are back-filled into QA-only rows
var static = concat(
	[]string{TutorName, Region, Group, CourseID, Module, Lesson, LessonLink},
	RatingColumns,
)

type Row map[string]string

type Table struct {
	Columns []string
	Rows    []Row
	Built   time.Time
}

// Grid returns the header and rows of a table as a grid, in column order.
func Grid(columns []string, rows []Row) grid.Grid {
	g := make(grid.Grid, 0, len(rows)+1)
	g = append(g, append([]string{}, columns...))

	for _, row := range rows {
		record := make([]string, len(columns))
		for i, c := range columns {
			record[i] = row[c]
		}

		g = append(g, record)
	}

	return g
}

func concat(lists ...[]string) []string {
	list := []string{}
	for _, l := range lists {
		list = append(list, l...)
	}

	return list
}
