package dashboard

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tutorqa/sheets-sync/log"
)

//go:embed dashboard.html
var page string

var tmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"cell": func(row Row, column string) string {
		return row[column]
	},
	"options": Options,
}).Parse(page))

// Server serves the dashboard. The joined table is rebuilt when it is older than the refresh
// interval or on request.
type Server struct {
	build   func(context.Context) *Table
	refresh time.Duration
	table   *Table
	now     func() time.Time
	sync.Mutex
}

func NewServer(build func(context.Context) *Table, refresh time.Duration) *Server {
	return &Server{
		build:   build,
		refresh: refresh,
		now:     time.Now,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Get("/qa-dashboard.csv", s.csv)
	r.Get("/qa-dashboard.xlsx", s.xlsx)
	r.Post("/refresh", s.reload)

	return r
}

// ListenAndServe serves the dashboard until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, bind string) error {
	srv := &http.Server{
		Addr:              bind,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 15 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Infof("dashboard: listening on %v", bind)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err

	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdown); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	}
}

// Table returns the current table, rebuilding it if it is stale.
func (s *Server) Table(ctx context.Context) *Table {
	s.Lock()
	defer s.Unlock()

	if s.table == nil || (s.refresh > 0 && s.now().Sub(s.table.Built) > s.refresh) {
		s.table = s.build(ctx)
	}

	return s.table
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid query", http.StatusBadRequest)
		return
	}

	table := s.Table(r.Context())
	query := ParseQuery(r.Form)
	rows := query.Apply(table)

	lessonMin, lessonMax := Span(table, LessonDate)
	evalMin, evalMax := Span(table, EvalDate)

	data := map[string]any{
		"table":     table,
		"query":     query,
		"rows":      rows,
		"csv":       template.URL("/qa-dashboard.csv?" + query.Encode().Encode()),
		"xlsx":      template.URL("/qa-dashboard.xlsx?" + query.Encode().Encode()),
		"lessonMin": lessonMin,
		"lessonMax": lessonMax,
		"evalMin":   evalMin,
		"evalMax":   evalMax,
	}

	var b bytes.Buffer
	if err := tmpl.Execute(&b, data); err != nil {
		log.Errorf("dashboard: %v", err)
		http.Error(w, "error formatting page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(b.Bytes())
}

func (s *Server) csv(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, "text/csv; charset=utf-8", "qa_dashboard.csv", WriteCSV)
}

func (s *Server) xlsx(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "qa_dashboard.xlsx", WriteXLSX)
}

func (s *Server) download(w http.ResponseWriter, r *http.Request, mimetype, filename string, write func(io.Writer, []string, []Row) error) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid query", http.StatusBadRequest)
		return
	}

	table := s.Table(r.Context())
	rows := ParseQuery(r.Form).Apply(table)

	var b bytes.Buffer
	if err := write(&b, table.Columns, rows); err != nil {
		log.Errorf("dashboard: %v", err)
		http.Error(w, "error generating download", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mimetype)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(b.Bytes())
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	s.table = nil
	s.Unlock()

	s.Table(r.Context())

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
