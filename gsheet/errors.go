package gsheet

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

var (
	// ErrNotFound is returned when a spreadsheet or worksheet does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotPublic is returned by the export reader when the document is not shared publicly
	// and the export endpoint answers with a sign-in page instead of CSV.
	ErrNotPublic = errors.New("spreadsheet is not publicly exported")
)

// HTTPError is the error returned by the public export reader for a non-2xx response.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%v: %v", e.URL, e.Status)
}

func (e *HTTPError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	return nil
}

// ExhaustedError wraps a transient error that has already been retried up to the policy
// ceiling, so that an enclosing Retry does not retry it again.
type ExhaustedError struct {
	Err error
}

func (e *ExhaustedError) Error() string {
	return e.Err.Error()
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status code from an error returned by the Sheets/Drive API,
// the export reader or an OAuth2 token refresh.
func StatusCode(err error) (int, bool) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code, true
	}

	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr.StatusCode, true
	}

	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) && rerr.Response != nil {
		return rerr.Response.StatusCode, true
	}

	return 0, false
}

// IsTransient returns true for server side (5xx) errors. Everything else, including errors
// without a status code and errors that have already been retried, is permanent.
func IsTransient(err error) bool {
	var exhausted *ExhaustedError
	if errors.As(err, &exhausted) {
		return false
	}

	if code, ok := StatusCode(err); ok {
		return code >= 500 && code <= 599
	}

	return false
}

func isNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}

	code, ok := StatusCode(err)

	return ok && code == http.StatusNotFound
}
