// Package config loads the JSON job configuration file.
//
// A configuration holds a list of sync jobs and the optional dashboard settings. Spreadsheet
// IDs, worksheet names and gids may reference environment variables as ${NAME} so that a
// single file can be shared between deployments.
package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tutorqa/sheets-sync/gsheet"
)

type Config struct {
	Jobs      []Job      `json:"jobs"`
	Dashboard *Dashboard `json:"dashboard,omitempty"`
}

// Sheet identifies a worksheet range. Spreadsheet is either a spreadsheet ID or a Google
// Sheets URL, in which case a '#gid=' fragment in the URL is used if GID is not set.
type Sheet struct {
	Spreadsheet string `json:"spreadsheet"`
	Sheet       string `json:"sheet,omitempty"`
	GID         string `json:"gid,omitempty"`
	Range       string `json:"range,omitempty"`
}

type Job struct {
	Name        string      `json:"name"`
	Disabled    bool        `json:"disabled,omitempty"`
	Sources     []Source    `json:"sources"`
	Destination Destination `json:"destination"`
	Key         *Key        `json:"key,omitempty"`
}

type Source struct {
	Sheet
	Export   bool      `json:"export,omitempty"`
	Header   string    `json:"header,omitempty"`
	Sentinel *Sentinel `json:"sentinel,omitempty"`
	Filter   *Filter   `json:"filter,omitempty"`
	Columns  []Column  `json:"columns,omitempty"`
}

type Destination struct {
	Sheet
	Width       int    `json:"width,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Clear       string `json:"clear,omitempty"`
	Input       string `json:"input,omitempty"`
	Header      string `json:"header,omitempty"`
	WriteHeader bool   `json:"write-header,omitempty"`
}

// Column locates a source column by header name, zero-based index or column letter. The
// header name, if any, takes priority over the position.
type Column struct {
	Name    string   `json:"name,omitempty"`
	Index   *int     `json:"index,omitempty"`
	Letter  string   `json:"column,omitempty"`
	Header  string   `json:"header,omitempty"`
	Convert *Convert `json:"convert,omitempty"`
}

type Convert struct {
	Kind     string `json:"kind"`
	Target   string `json:"target,omitempty"`
	DayFirst bool   `json:"dayfirst,omitempty"`
}

type Sentinel struct {
	Marker     string `json:"marker"`
	IgnoreCase bool   `json:"ignore-case,omitempty"`
}

type Filter struct {
	Column   Column   `json:"column"`
	Contains []string `json:"contains"`
}

type Key struct {
	Column      Column  `json:"column"`
	Destination *Column `json:"destination,omitempty"`
}

type Dashboard struct {
	Bind         string   `json:"bind,omitempty"`
	Refresh      Duration `json:"refresh,omitempty"`
	Lessons      []Region `json:"lessons"`
	Ratings      []Sheet  `json:"ratings,omitempty"`
	QA           []Sheet  `json:"qa,omitempty"`
	Replacements *Sheet   `json:"replacements,omitempty"`
}

// Region is a publicly shared lessons worksheet, read through the CSV export.
type Region struct {
	Sheet
	Region string `json:"region"`
}

// Duration is a time.Duration formatted as e.g. "10m" in the configuration file.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	if v, err := time.ParseDuration(s); err != nil {
		return fmt.Errorf("invalid duration '%v' (%w)", s, err)
	} else {
		*d = Duration(v)
	}

	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Find returns the named job. Names are matched case-insensitively.
func (c Config) Find(name string) (Job, bool) {
	for _, job := range c.Jobs {
		if strings.EqualFold(strings.TrimSpace(job.Name), strings.TrimSpace(name)) {
			return job, true
		}
	}

	return Job{}, false
}

// Reference returns the worksheet reference with any ${NAME} environment variables expanded.
func (s Sheet) Reference() (gsheet.Reference, error) {
	spreadsheet, err := expand(s.Spreadsheet)
	if err != nil {
		return gsheet.Reference{}, err
	}

	sheet, err := expand(s.Sheet)
	if err != nil {
		return gsheet.Reference{}, err
	}

	gid, err := expand(s.GID)
	if err != nil {
		return gsheet.Reference{}, err
	}

	id, g, err := gsheet.ParseURL(spreadsheet)
	if err != nil {
		return gsheet.Reference{}, err
	}

	if gid == "" {
		gid = g
	}

	ref := gsheet.Reference{
		Spreadsheet: id,
		Sheet:       strings.TrimSpace(sheet),
		GID:         strings.TrimSpace(gid),
	}

	if err := ref.Validate(); err != nil {
		return gsheet.Reference{}, err
	}

	return ref, nil
}

func (s Sheet) Area() (gsheet.Range, error) {
	return gsheet.ParseRange(s.Range)
}
