package gsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"golang.org/x/net/context/ctxhttp"

	"github.com/tutorqa/sheets-sync/grid"
	"github.com/tutorqa/sheets-sync/log"
)

const ExportURL = "https://docs.google.com/spreadsheets/d"

// Export reads worksheets of publicly shared spreadsheets through the unauthenticated CSV
// export endpoint. All values are returned as text.
type Export struct {
	Client  *http.Client
	BaseURL string
	Policy  Policy
}

// Get fetches the worksheet identified by ref.GID as CSV. An empty export is an empty grid.
func (x *Export) Get(ctx context.Context, ref Reference) (grid.Grid, error) {
	if ref.GID == "" {
		return nil, fmt.Errorf("public export of %v requires a gid", ref)
	}

	base := x.BaseURL
	if base == "" {
		base = ExportURL
	}

	uri := fmt.Sprintf("%v/%v/export?format=csv&gid=%v", base, url.PathEscape(ref.Spreadsheet), url.QueryEscape(ref.GID))
	log.Debugf("EXPORT %v", uri)

	body, err := Retry(ctx, x.Policy, "export "+ref.String(), func() ([]byte, error) {
		return x.fetch(ctx, uri)
	})

	if err != nil {
		return nil, fmt.Errorf("unable to export %v (%w)", ref, err)
	}

	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid CSV export for %v (%w)", ref, err)
	}

	return grid.Grid(records), nil
}

func (x *Export) fetch(ctx context.Context, uri string) ([]byte, error) {
	client := x.Client
	if client == nil {
		client = http.DefaultClient
	}

	response, err := ctxhttp.Get(ctx, client, uri)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &HTTPError{
			StatusCode: response.StatusCode,
			Status:     response.Status,
			URL:        uri,
		}
	}

	if mediatype, _, err := mime.ParseMediaType(response.Header.Get("Content-Type")); err == nil && mediatype == "text/html" {
		return nil, ErrNotPublic
	}

	return io.ReadAll(response.Body)
}
