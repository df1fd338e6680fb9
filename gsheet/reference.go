package gsheet

import (
	"fmt"
	"regexp"
	"strings"
)

// Reference identifies a worksheet by spreadsheet ID and either tab title or numeric tab ID
// (the 'gid' in a spreadsheet URL). The tab title for a gid is resolved on first access.
type Reference struct {
	Spreadsheet string
	Sheet       string
	GID         string
}

func (r Reference) String() string {
	switch {
	case r.Sheet != "":
		return fmt.Sprintf("%v/%v", r.Spreadsheet, r.Sheet)

	case r.GID != "":
		return fmt.Sprintf("%v#gid=%v", r.Spreadsheet, r.GID)

	default:
		return r.Spreadsheet
	}
}

func (r Reference) Validate() error {
	if strings.TrimSpace(r.Spreadsheet) == "" {
		return fmt.Errorf("missing spreadsheet ID")
	}

	if strings.TrimSpace(r.Sheet) == "" && strings.TrimSpace(r.GID) == "" {
		return fmt.Errorf("missing worksheet name or gid for spreadsheet %v", r.Spreadsheet)
	}

	if r.GID != "" && !regexp.MustCompile(`^[0-9]+$`).MatchString(r.GID) {
		return fmt.Errorf("invalid gid '%v' for spreadsheet %v", r.GID, r.Spreadsheet)
	}

	return nil
}

// ParseURL extracts the spreadsheet ID and, if present, the gid from a Google Sheets URL.
// A bare spreadsheet ID is returned as is.
func ParseURL(url string) (string, string, error) {
	url = strings.TrimSpace(url)

	if regexp.MustCompile(`^[a-zA-Z0-9_-]+$`).MatchString(url) {
		return url, "", nil
	}

	match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/([a-zA-Z0-9_-]+)(?:/.*)?$`).FindStringSubmatch(url)
	if len(match) < 2 {
		return "", "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	gid := ""
	if m := regexp.MustCompile(`[#?&]gid=([0-9]+)`).FindStringSubmatch(url); len(m) > 1 {
		gid = m[1]
	}

	return match[1], gid, nil
}
