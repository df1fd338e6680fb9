package dashboard

import (
	"context"
	"slices"

	"github.com/tutorqa/sheets-sync/grid"
	"github.com/tutorqa/sheets-sync/gsheet"
	"github.com/tutorqa/sheets-sync/transform"
)

// lessons export column -> dashboard column
var lessons = [][2]string{
	{"teacher_name", TutorName},
	{"teacher_id", TutorID},
	{"lesson_date", LessonDate},
	{"group_title", Group},
	{"course_id", CourseID},
	{"lesson_module", Module},
	{"lesson_number", Lesson},
	{"watch_url", LessonLink},
}

// Positional layout of the QA evaluation and replacement worksheets (zero-based).
const (
	qaDate   = 1
	qaScore  = 2
	qaMarker = 3
	qaTutor  = 6

	replacementDate  = 3
	replacementGroup = 5
)

// LoadLessons reads a public lessons export. The first row is the header and missing
// columns are left empty.
func LoadLessons(ctx context.Context, r gsheet.Reader, region string) ([]Row, error) {
	g, err := r.Read(ctx)
	if err != nil {
		return nil, err
	}

	if len(g) == 0 {
		return []Row{}, nil
	}

	index := transform.NewIndex(g[0])
	rows := []Row{}

	for _, record := range g[1:] {
		if grid.IsBlank(record) {
			continue
		}

		row := Row{Region: region}
		for _, c := range lessons {
			if ix, ok := index[grid.Normalise(c[0])]; ok && ix < len(record) {
				row[c[1]] = grid.Clean(record[ix])
			} else {
				row[c[1]] = ""
			}
		}

		row[LessonDate] = date(row[LessonDate], false)
		rows = append(rows, row)
	}

	return rows, nil
}

// LoadRatings reads a tutor rating worksheet. The header is either the first or the second
// row (the first row of some rating sheets is a title row) and the tutor ID column is
// headed either 'Tutor ID' or 'ID'.
func LoadRatings(ctx context.Context, r gsheet.Reader) ([]Row, error) {
	g, err := r.Read(ctx)
	if err != nil {
		return nil, err
	}

	if len(g) < 2 {
		return []Row{}, nil
	}

	header, data := g[0], g[1:]
	if !slices.Contains(clean(g[0]), TutorID) {
		header, data = g[1], g[2:]
	}

	index := transform.NewIndex(header)
	if _, ok := index[grid.Normalise(TutorID)]; !ok {
		if ix, ok := index[grid.Normalise("ID")]; ok {
			index[grid.Normalise(TutorID)] = ix
		}
	}

	rows := []Row{}
	for _, record := range data {
		row := Row{}
		for _, c := range append([]string{TutorID}, RatingColumns...) {
			if ix, ok := index[grid.Normalise(c)]; ok && ix < len(record) {
				row[c] = grid.Clean(record[ix])
			} else {
				row[c] = ""
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// LoadQA reads a QA evaluation worksheet. The first row is a header and the columns are
// positional, with day-first lesson dates.
func LoadQA(ctx context.Context, r gsheet.Reader) ([]Row, error) {
	g, err := r.Read(ctx)
	if err != nil {
		return nil, err
	}

	if len(g) < 2 {
		return []Row{}, nil
	}

	rows := []Row{}
	for _, record := range g[1:] {
		g := grid.Grid{record}
		rows = append(rows, Row{
			TutorID:  grid.Clean(g.Cell(0, qaTutor)),
			EvalDate: date(g.Cell(0, qaDate), true),
			QAScore:  grid.Clean(g.Cell(0, qaScore)),
			QAMarker: grid.Clean(g.Cell(0, qaMarker)),
		})
	}

	return rows, nil
}

// LoadReplacements reads the replacements worksheet and returns the set of (date, group)
// pairs with a replaced or postponed lesson.
func LoadReplacements(ctx context.Context, r gsheet.Reader) (map[[2]string]bool, error) {
	g, err := r.Read(ctx)
	if err != nil {
		return nil, err
	}

	replacements := map[[2]string]bool{}
	if len(g) < 2 {
		return replacements, nil
	}

	for _, record := range g[1:] {
		g := grid.Grid{record}
		d := date(g.Cell(0, replacementDate), false)
		group := grid.Clean(g.Cell(0, replacementGroup))

		if d != "" && group != "" {
			replacements[[2]string{d, group}] = true
		}
	}

	return replacements, nil
}

// date normalises a date cell to YYYY-MM-DD, discarding any time of day. Unparseable dates
// are returned as "".
func date(v string, dayFirst bool) string {
	if t, ok := transform.ParseDateTime(v, dayFirst); ok {
		return t.Format("2006-01-02")
	}

	return ""
}

func clean(row []string) []string {
	list := make([]string, len(row))
	for i, v := range row {
		list[i] = grid.Clean(v)
	}

	return list
}
