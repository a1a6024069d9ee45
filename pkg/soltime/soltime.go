// Package soltime parses the loosely formatted timestamps used across solar
// archives and provides the TimeRange value used by time-window queries.
//
// Providers are inconsistent about separators and precision, so Parse accepts
// a fixed family of layouts rather than a single one. All parsed times are UTC.
package soltime

import (
	"strings"
	"time"

	"github.com/Physolia/sunpy/pkg/errors"
)

// WireFormat is the compact timestamp layout used on the VSO wire,
// for both outbound query bounds and inbound record times.
const WireFormat = "20060102150405"

// DisplayFormat is the layout used when rendering times in result tables.
const DisplayFormat = "2006-01-02 15:04:05.000"

// layouts holds every accepted input layout, most specific first.
// Parse normalizes '/' to '-' and 'T' to ' ' before matching.
var layouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15",
	"2006-01-02",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2 15",
	"2006-1-2",
	WireFormat,
}

// Parse converts a provider timestamp string into a UTC time.
func Parse(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, errors.NewParseError("time", value, "empty timestamp", nil)
	}
	normalized := strings.NewReplacer("/", "-", "T", " ").Replace(s)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, normalized, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.NewParseError("time", value, "unrecognized layout", nil)
}

// MustParse is Parse for fixtures and tests; it panics on bad input.
func MustParse(value string) time.Time {
	t, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeRange is a closed interval of time with Start <= End.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange builds a TimeRange from two timestamp strings.
func NewTimeRange(start, end string) (TimeRange, error) {
	s, err := Parse(start)
	if err != nil {
		return TimeRange{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return TimeRange{}, err
	}
	if e.Before(s) {
		return TimeRange{}, errors.NewValidationError("end", end, "end precedes start")
	}
	return TimeRange{Start: s, End: e}, nil
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Duration returns the length of the range.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Wire returns the start and end in the VSO wire layout.
func (r TimeRange) Wire() (string, string) {
	return r.Start.UTC().Format(WireFormat), r.End.UTC().Format(WireFormat)
}

// String renders the range for logs and table cells.
func (r TimeRange) String() string {
	return r.Start.UTC().Format(DisplayFormat) + " .. " + r.End.UTC().Format(DisplayFormat)
}
