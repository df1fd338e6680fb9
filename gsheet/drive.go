package gsheet

import (
	"context"
	"fmt"
	"sort"
	"time"

	"google.golang.org/api/drive/v3"
)

// Metadata summarises a spreadsheet file as reported by Google Drive.
type Metadata struct {
	ID       string
	Name     string
	Modified time.Time
	Revision string
	Sheets   []string
}

// Describe retrieves the file name, modification time and latest revision of a spreadsheet
// from Drive, plus its worksheet titles from Sheets.
func (s *Service) Describe(ctx context.Context, spreadsheet string) (*Metadata, error) {
	file, err := Retry(ctx, s.policy, "describe "+spreadsheet, func() (*drive.File, error) {
		return s.drive.Files.Get(spreadsheet).
			Fields("id", "name", "modifiedTime").
			SupportsAllDrives(true).
			Context(ctx).
			Do()
	})

	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("spreadsheet %v (%w)", spreadsheet, ErrNotFound)
		}

		return nil, fmt.Errorf("unable to retrieve file metadata for %v (%w)", spreadsheet, err)
	}

	metadata := Metadata{
		ID:   file.Id,
		Name: file.Name,
	}

	if t, err := time.Parse(time.RFC3339, file.ModifiedTime); err == nil {
		metadata.Modified = t
	}

	if revision, err := s.revision(ctx, spreadsheet); err != nil {
		// revisions are only visible to editors
		metadata.Revision = "-"
	} else {
		metadata.Revision = revision
	}

	titles, err := s.Sheets(ctx, spreadsheet)
	if err != nil {
		return nil, err
	}

	for _, title := range titles {
		metadata.Sheets = append(metadata.Sheets, title)
	}

	sort.Strings(metadata.Sheets)

	return &metadata, nil
}

func (s *Service) revision(ctx context.Context, fileId string) (string, error) {
	page := ""
	latest := ""
	modified := time.Time{}

	for {
		call := s.drive.Revisions.List(fileId).Fields("nextPageToken", "revisions(id,modifiedTime)").Context(ctx)
		if page != "" {
			call.PageToken(page)
		}

		revisions, err := Retry(ctx, s.policy, "revisions "+fileId, func() (*drive.RevisionList, error) {
			return call.Do()
		})

		if err != nil {
			return "", err
		}

		for _, revision := range revisions.Revisions {
			datetime, err := time.Parse(time.RFC3339, revision.ModifiedTime)
			if err != nil {
				return "", err
			}

			if modified.Before(datetime) {
				latest = revision.Id
				modified = datetime
			}
		}

		if page = revisions.NextPageToken; page == "" {
			break
		}
	}

	if modified.IsZero() {
		return "", fmt.Errorf("unable to identify latest revision for file ID %s", fileId)
	}

	return latest, nil
}
