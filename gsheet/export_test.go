package gsheet

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorqa/sheets-sync/grid"
)

func TestExport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		assert.Equal(t, "/1_S-NyaVKuOc0xK12PBAYvdIauDBq9mdqHlnKLfSYNAE/export", rq.URL.Path)
		assert.Equal(t, "csv", rq.URL.Query().Get("format"))
		assert.Equal(t, "835553195", rq.URL.Query().Get("gid"))

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		fmt.Fprint(w, "teacher_name,teacher_id,lesson_date\r\n\"Alice, A.\",T-1,2024-03-01\r\nBob,T-2\r\n")
	}))

	defer srv.Close()

	x := Export{BaseURL: srv.URL}
	ref := Reference{Spreadsheet: "1_S-NyaVKuOc0xK12PBAYvdIauDBq9mdqHlnKLfSYNAE", GID: "835553195"}

	g, err := x.Get(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, grid.Grid{
		{"teacher_name", "teacher_id", "lesson_date"},
		{"Alice, A.", "T-1", "2024-03-01"},
		{"Bob", "T-2"},
	}, g)
}

func TestExportEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
	}))

	defer srv.Close()

	x := Export{BaseURL: srv.URL}

	g, err := x.Get(context.Background(), Reference{Spreadsheet: "abc", GID: "0"})
	require.NoError(t, err)
	assert.Empty(t, g)
}

func TestExportRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "backend error", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, "a,b\n")
	}))

	defer srv.Close()

	s := sleeper{}
	x := Export{BaseURL: srv.URL, Policy: policy(&s)}

	g, err := x.Get(context.Background(), Reference{Spreadsheet: "abc", GID: "0"})
	require.NoError(t, err)
	assert.Equal(t, grid.Grid{{"a", "b"}}, g)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, s.delays)
}

func TestExportNotFound(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		calls++
		http.NotFound(w, rq)
	}))

	defer srv.Close()

	s := sleeper{}
	x := Export{BaseURL: srv.URL, Policy: policy(&s)}

	_, err := x.Get(context.Background(), Reference{Spreadsheet: "abc", GID: "0"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestExportPrivateSpreadsheet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body>Sign in</body></html>")
	}))

	defer srv.Close()

	x := Export{BaseURL: srv.URL}

	_, err := x.Get(context.Background(), Reference{Spreadsheet: "abc", GID: "0"})
	assert.ErrorIs(t, err, ErrNotPublic)
}

func TestExportRequiresGID(t *testing.T) {
	x := Export{}

	_, err := x.Get(context.Background(), Reference{Spreadsheet: "abc", Sheet: "Lessons"})
	assert.Error(t, err)
}

func TestExportSourceAppliesRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, "h1,h2,h3\n1,2,3\n4,5,6\n")
	}))

	defer srv.Close()

	source := ExportSource{
		Export: &Export{BaseURL: srv.URL},
		Ref:    Reference{Spreadsheet: "abc", GID: "0"},
		Range:  Range{Left: 2, Top: 2, Right: 3},
	}

	g, err := source.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, grid.Grid{{"2", "3"}, {"5", "6"}}, g)
}
