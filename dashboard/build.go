package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/tutorqa/sheets-sync/gsheet"
	"github.com/tutorqa/sheets-sync/log"
)

// Lessons is a public lessons export for a region.
type Lessons struct {
	Region string
	Reader gsheet.Reader
}

// Sources are the worksheets joined into the dashboard table. Ratings and QA are listed in
// priority order: a value from an earlier worksheet wins over a later one.
type Sources struct {
	Lessons      []Lessons
	Ratings      []gsheet.Reader
	QA           []gsheet.Reader
	Replacements gsheet.Reader
}

// Build reads and joins the dashboard sources. A source that cannot be read is logged and
// treated as empty so that the dashboard still shows whatever is available.
func Build(ctx context.Context, sources Sources) *Table {
	// ... public lessons
	public := []Row{}
	for _, l := range sources.Lessons {
		rows, err := LoadLessons(ctx, l.Reader, l.Region)
		if err != nil {
			log.Warnf("dashboard: error loading %v lessons (%v)", l.Region, err)
			continue
		}

		public = append(public, rows...)
	}

	// ... ratings by tutor ID
	ratings := []map[string]Row{}
	for _, r := range sources.Ratings {
		rows, err := LoadRatings(ctx, r)
		if err != nil {
			log.Warnf("dashboard: error loading ratings (%v)", err)
			continue
		}

		ratings = append(ratings, byTutor(rows))
	}

	// ... QA evaluations by (tutor ID, lesson date)
	qa := []Row{}
	evaluations := []map[[2]string]Row{}
	for _, r := range sources.QA {
		rows, err := LoadQA(ctx, r)
		if err != nil {
			log.Warnf("dashboard: error loading QA evaluations (%v)", err)
			continue
		}

		qa = append(qa, rows...)
		evaluations = append(evaluations, byLesson(rows))
	}

	// ... replacements by (date, group)
	replacements := map[[2]string]bool{}
	if sources.Replacements != nil {
		if m, err := LoadReplacements(ctx, sources.Replacements); err != nil {
			log.Warnf("dashboard: error loading replacements (%v)", err)
		} else {
			replacements = m
		}
	}

	rows := join(public, ratings, evaluations, replacements)
	rows = append(rows, unmatched(qa, rows)...)

	backfill(rows)

	log.Infof("dashboard: %v public lessons, %v QA evaluations, %v rows", len(public), len(qa), len(rows))

	return &Table{
		Columns: Columns,
		Rows:    rows,
		Built:   time.Now(),
	}
}

func join(public []Row, ratings []map[string]Row, evaluations []map[[2]string]Row, replacements map[[2]string]bool) []Row {
	rows := make([]Row, 0, len(public))

	for _, p := range public {
		row := Row{}
		for _, c := range Columns {
			row[c] = p[c]
		}

		tutor := p[TutorID]

		for _, c := range RatingColumns {
			row[c] = first(ratings, tutor, c)
		}

		matched := false
		lesson := [2]string{tutor, p[LessonDate]}
		for _, c := range []string{QAScore, QAMarker} {
			row[c] = first(evaluations, lesson, c)
		}

		if tutor != "" && p[LessonDate] != "" {
			for _, m := range evaluations {
				if e, ok := m[lesson]; ok && e[QAScore] == row[QAScore] && e[QAMarker] == row[QAMarker] {
					matched = true
				}
			}
		}

		if matched {
			row[EvalDate] = p[LessonDate]
		}

		if replacements[[2]string{p[LessonDate], p[Group]}] {
			row[Replacement] = Replaced
		}

		row[Source] = Public
		rows = append(rows, row)
	}

	return rows
}

// unmatched returns the QA evaluations that do not correspond to any public lesson.
func unmatched(qa []Row, public []Row) []Row {
	k := func(r Row) [4]string {
		return [4]string{r[TutorID], r[QAScore], r[QAMarker], r[EvalDate]}
	}

	evaluated := map[[4]string]bool{}
	for _, row := range public {
		if row[EvalDate] != "" {
			evaluated[k(row)] = true
		}
	}

	rows := []Row{}
	for _, q := range qa {
		if !evaluated[k(q)] {
			row := Row{}
			for _, c := range Columns {
				row[c] = ""
			}

			row[TutorID] = q[TutorID]
			row[QAScore] = q[QAScore]
			row[QAMarker] = q[QAMarker]
			row[EvalDate] = q[EvalDate]
			row[Source] = QA

			rows = append(rows, row)
		}
	}

	return rows
}

// backfill fills the empty per-tutor columns of each row from the first public lesson for
// the same tutor.
func backfill(rows []Row) {
	tutors := map[string]Row{}
	for _, row := range rows {
		if tutor := row[TutorID]; tutor != "" && row[Source] == Public {
			if _, ok := tutors[tutor]; !ok {
				tutors[tutor] = row
			}
		}
	}

	for _, row := range rows {
		if t, ok := tutors[row[TutorID]]; ok {
			for _, c := range static {
				if row[c] == "" {
					row[c] = t[c]
				}
			}
		}
	}
}

func byTutor(rows []Row) map[string]Row {
	m := map[string]Row{}
	for _, row := range rows {
		if tutor := row[TutorID]; tutor != "" {
			if _, ok := m[tutor]; !ok {
				m[tutor] = row
			}
		}
	}

	return m
}

func byLesson(rows []Row) map[[2]string]Row {
	m := map[[2]string]Row{}
	for _, row := range rows {
		k := [2]string{row[TutorID], row[EvalDate]}
		if k[0] != "" && k[1] != "" {
			if _, ok := m[k]; !ok {
				m[k] = row
			}
		}
	}

	return m
}

// first returns the first non-empty value of a column for the key in a list of lookups.
func first[K comparable](lookups []map[K]Row, key K, column string) string {
	for _, m := range lookups {
		if row, ok := m[key]; ok {
			if v := strings.TrimSpace(row[column]); v != "" {
				return v
			}
		}
	}

	return ""
}
