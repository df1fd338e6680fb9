package transform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tutorqa/sheets-sync/grid"
)

// Kind is the type of value held by a date/time column.
type Kind string

const (
	Date     Kind = "date"
	Time     Kind = "time"
	DateTime Kind = "datetime"
)

// Target is the representation written to the destination.
type Target string

const (
	// Serial is the spreadsheet native number of days since 1899-12-30, with the time of day
	// as the fractional part.
	Serial Target = "serial"
	// Text is a fixed width string, e.g. 2024-03-01, 14:30:00 or 2024-03-01 14:30:00.
	Text Target = "text"
)

// Epoch is day zero of spreadsheet serial dates.
var Epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Conversion converts date and time cells. Unparseable values become empty strings.
type Conversion struct {
	Kind     Kind
	Target   Target
	DayFirst bool
}

func (c Conversion) Validate() error {
	switch c.Kind {
	case Date, Time, DateTime:
	default:
		return fmt.Errorf("invalid conversion kind '%v'", c.Kind)
	}

	switch c.Target {
	case Serial, Text:
	default:
		return fmt.Errorf("invalid conversion target '%v'", c.Target)
	}

	return nil
}

func (c Conversion) Apply(v string) string {
	var t time.Time
	var ok bool

	if c.Kind == Time {
		t, ok = ParseTime(v)
	} else {
		t, ok = ParseDateTime(v, c.DayFirst)
	}

	if !ok {
		return ""
	}

	switch {
	case c.Target == Text && c.Kind == Date:
		return t.Format("2006-01-02")

	case c.Target == Text && c.Kind == Time:
		return t.Format("15:04:05")

	case c.Target == Text:
		return t.Format("2006-01-02 15:04:05")

	case c.Kind == Time:
		return formatSerial(DayFraction(t))

	default:
		return formatSerial(ToSerial(t))
	}
}

// ToSerial converts a date/time to a spreadsheet serial number: whole days since 1899-12-30
// plus the seconds of the day as a fraction. The time is taken at face value (its wall clock
// fields), ignoring the location.
func ToSerial(t time.Time) float64 {
	wallclock := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	seconds := int64(wallclock.Sub(Epoch) / time.Second)

	days := seconds / 86400
	remainder := seconds % 86400
	if remainder < 0 {
		days--
		remainder += 86400
	}

	return float64(days) + float64(remainder)/86400
}

// DayFraction returns the time of day as a fraction of 24 hours.
func DayFraction(t time.Time) float64 {
	return float64(t.Hour()*3600+t.Minute()*60+t.Second()) / 86400
}

func formatSerial(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var datetimes = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006/01/02 15:04:05",
	"02.01.2006",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var monthfirst = []string{
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
}

var dayfirst = []string{
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
}

var times = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3:04PM",
}

// ParseDateTime parses a date or date/time cell permissively. Slash separated dates are
// month first unless dayFirst is set.
func ParseDateTime(v string, dayFirst bool) (time.Time, bool) {
	v = strings.ToUpper(grid.Clean(v))
	if v == "" {
		return time.Time{}, false
	}

	layouts := append([]string{}, datetimes...)
	if dayFirst {
		layouts = append(layouts, dayfirst...)
	} else {
		layouts = append(layouts, monthfirst...)
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseTime parses a time of day, also accepting a full date/time and discarding the date.
func ParseTime(v string) (time.Time, bool) {
	v = strings.ToUpper(grid.Clean(v))
	if v == "" {
		return time.Time{}, false
	}

	for _, layout := range times {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, true
		}
	}

	for _, layout := range datetimes[1:] {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
