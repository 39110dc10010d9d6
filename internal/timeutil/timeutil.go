package timeutil

import (
	"time"
)

// DefaultDateLayout is the layout used when callers do not ask for a
// specific format (ISO calendar date).
const DefaultDateLayout = "2006-01-02"

// Location resolves an IANA timezone name, falling back to UTC when the
// name is empty or unknown. Stored instants are always UTC, so UTC is the
// safe degradation for a misconfigured user record.
func Location(tzName string) *time.Location {
	if tzName == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LocalDate returns the calendar date of a UTC instant in the named
// timezone, as a midnight time in that zone.
func LocalDate(utcInstant time.Time, tzName string) time.Time {
	loc := Location(tzName)
	local := utcInstant.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// FormatLocal renders a UTC instant in the named timezone. An empty layout
// selects DefaultDateLayout.
func FormatLocal(utcInstant time.Time, tzName string, layout string) string {
	if layout == "" {
		layout = DefaultDateLayout
	}
	return utcInstant.In(Location(tzName)).Format(layout)
}

// TodayLocal returns the current calendar date in the named timezone.
func TodayLocal(now time.Time, tzName string) time.Time {
	return LocalDate(now, tzName)
}

// StartOfWeek returns the most recent Monday at local midnight for the
// named timezone. A Monday "now" returns today's midnight.
func StartOfWeek(now time.Time, tzName string) time.Time {
	today := LocalDate(now, tzName)
	// time.Weekday counts Sunday as 0; the week here starts on Monday.
	offset := (int(today.Weekday()) + 6) % 7
	return today.AddDate(0, 0, -offset)
}

// SameLocalDate reports whether two instants fall on the same calendar
// date in the named timezone.
func SameLocalDate(a, b time.Time, tzName string) bool {
	return LocalDate(a, tzName).Equal(LocalDate(b, tzName))
}
