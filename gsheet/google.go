package gsheet

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/tutorqa/sheets-sync/grid"
	"github.com/tutorqa/sheets-sync/log"
)

// Service implements Values on top of the Google Sheets v4 API. Every call goes through Retry.
type Service struct {
	sheets *sheets.Service
	drive  *drive.Service
	policy Policy

	titles map[string]map[string]string
	sync.Mutex
}

// NewService creates Sheets and Drive clients sharing an authorised HTTP client.
func NewService(ctx context.Context, client *http.Client, policy Policy) (*Service, error) {
	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	gdrive, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Drive client (%w)", err)
	}

	return &Service{
		sheets: google,
		drive:  gdrive,
		policy: policy,
		titles: map[string]map[string]string{},
	}, nil
}

func (s *Service) Get(ctx context.Context, ref Reference, r Range) (grid.Grid, error) {
	title, err := s.title(ctx, ref)
	if err != nil {
		return nil, err
	}

	area := r.Qualify(title)
	log.Debugf("GET %v %v", ref.Spreadsheet, area)

	response, err := Retry(ctx, s.policy, "get "+area, func() (*sheets.ValueRange, error) {
		return s.sheets.Spreadsheets.Values.Get(ref.Spreadsheet, area).Context(ctx).Do()
	})

	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from %v (%w)", area, err)
	}

	return grid.FromValues(response.Values), nil
}

func (s *Service) Clear(ctx context.Context, ref Reference, r Range) error {
	title, err := s.title(ctx, ref)
	if err != nil {
		return err
	}

	area := r.Qualify(title)
	log.Debugf("CLEAR %v %v", ref.Spreadsheet, area)

	rq := sheets.BatchClearValuesRequest{
		Ranges: []string{area},
	}

	if _, err := Retry(ctx, s.policy, "clear "+area, func() (*sheets.BatchClearValuesResponse, error) {
		return s.sheets.Spreadsheets.Values.BatchClear(ref.Spreadsheet, &rq).Context(ctx).Do()
	}); err != nil {
		return fmt.Errorf("unable to clear %v (%w)", area, err)
	}

	return nil
}

func (s *Service) Update(ctx context.Context, ref Reference, r Range, rows grid.Grid, input Input) error {
	title, err := s.title(ctx, ref)
	if err != nil {
		return err
	}

	area := r.Qualify(title)
	log.Debugf("UPDATE %v %v (%v rows)", ref.Spreadsheet, area, len(rows))

	if input == "" {
		input = UserEntered
	}

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: string(input),
		Data: []*sheets.ValueRange{
			&sheets.ValueRange{
				Range:  area,
				Values: rows.Values(),
			},
		},
	}

	if _, err := Retry(ctx, s.policy, "update "+area, func() (*sheets.BatchUpdateValuesResponse, error) {
		return s.sheets.Spreadsheets.Values.BatchUpdate(ref.Spreadsheet, &rq).Context(ctx).Do()
	}); err != nil {
		return fmt.Errorf("unable to write to %v (%w)", area, err)
	}

	return nil
}

// Sheets returns the titles of the worksheets in a spreadsheet, keyed by gid.
func (s *Service) Sheets(ctx context.Context, spreadsheet string) (map[string]string, error) {
	s.Lock()
	titles, ok := s.titles[spreadsheet]
	s.Unlock()

	if ok {
		return titles, nil
	}

	response, err := Retry(ctx, s.policy, "get "+spreadsheet, func() (*sheets.Spreadsheet, error) {
		return s.sheets.Spreadsheets.Get(spreadsheet).
			Fields(googleapi.Field("spreadsheetId,sheets.properties")).
			Context(ctx).
			Do()
	})

	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("spreadsheet %v (%w)", spreadsheet, ErrNotFound)
		}

		return nil, fmt.Errorf("failed to fetch spreadsheet %v (%w)", spreadsheet, err)
	}

	titles = map[string]string{}
	for _, sheet := range response.Sheets {
		if sheet.Properties != nil {
			titles[strconv.FormatInt(sheet.Properties.SheetId, 10)] = sheet.Properties.Title
		}
	}

	s.Lock()
	s.titles[spreadsheet] = titles
	s.Unlock()

	return titles, nil
}

// title resolves a worksheet reference to the worksheet title, matching names the same way
// regardless of case and surrounding whitespace.
func (s *Service) title(ctx context.Context, ref Reference) (string, error) {
	titles, err := s.Sheets(ctx, ref.Spreadsheet)
	if err != nil {
		return "", err
	}

	if ref.GID != "" {
		if title, ok := titles[ref.GID]; ok {
			return title, nil
		}
	} else {
		name := strings.ToLower(strings.TrimSpace(ref.Sheet))
		for _, title := range titles {
			if strings.ToLower(strings.TrimSpace(title)) == name {
				return title, nil
			}
		}
	}

	return "", fmt.Errorf("worksheet %v (%w)", ref, ErrNotFound)
}
