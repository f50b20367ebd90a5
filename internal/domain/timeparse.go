package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultReferenceTZ is the IANA name of the zone all comparisons happen in.
const DefaultReferenceTZ = "Asia/Kolkata"

// StoredTimeLayout is the textual form of event times: YYYY-MM-DD HH:MM:SS±HHMM.
const StoredTimeLayout = "2006-01-02 15:04:05-0700"

// istOffset is used when the zone database has no Asia/Kolkata entry. IST has no DST.
const istOffset = 5*60*60 + 30*60

var ErrEmptyTime = errors.New("empty event time")

// accepted textual layouts, most specific first. Z0700 also accepts a literal "Z".
var storedLayouts = []string{
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
}

// LoadReference resolves the reference timezone. An empty name means DefaultReferenceTZ.
// If the default zone is missing from the zone database, a fixed +05:30 zone is returned.
func LoadReference(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultReferenceTZ
	}
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc, nil
	}
	if name == DefaultReferenceTZ {
		return time.FixedZone("IST", istOffset), nil
	}
	return nil, fmt.Errorf("load reference timezone %q: %w", name, err)
}

// Normalize converts t to loc and drops sub-second precision.
// Normalize(Normalize(t, loc), loc) == Normalize(t, loc).
func Normalize(t time.Time, loc *time.Location) time.Time {
	return t.In(loc).Truncate(time.Second)
}

// ParseStoredTime parses a textual event time and normalizes it to loc.
func ParseStoredTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyTime
	}
	var firstErr error
	for _, layout := range storedLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Normalize(t, loc), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("parse event time %q: %w", s, firstErr)
}

// FormatStoredTime renders a native stored instant the way reminders display it.
func FormatStoredTime(t time.Time) string {
	return t.UTC().Format(StoredTimeLayout)
}
