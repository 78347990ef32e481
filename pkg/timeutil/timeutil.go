// Package timeutil provides calendar-date helpers for student records.
// Dates of birth travel over the wire as plain strings, so parsing is lenient
// and all comparisons are done on calendar components, not durations.
// No external dependencies - uses only standard library.
package timeutil

import (
	"errors"
	"strings"
	"time"
)

// Common layouts.
const (
	FormatDate     = "2006-01-02"
	FormatDateUS   = "01/02/2006"
	FormatDateTime = "2006-01-02 15:04:05"
)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	FormatDate,
	time.RFC3339Nano,
	time.RFC3339,
	FormatDateTime,
	FormatDateUS,
}

// ErrInvalidDate is returned when a string matches none of the known layouts.
var ErrInvalidDate = errors.New("invalid date")

// Date creates a UTC midnight time with the given calendar date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a calendar date in any of the accepted layouts.
// Timestamps keep the calendar date they were written with; the zone is not applied.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Date(t.Year(), int(t.Month()), t.Day()), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// YearsBetween returns the number of whole years elapsed from `from` to `to`,
// counted by calendar anniversary: a year is only complete once the month and
// day of `from` have been reached in the `to` year.
func YearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	monthDiff := int(to.Month()) - int(from.Month())
	if monthDiff < 0 || (monthDiff == 0 && to.Day() < from.Day()) {
		years--
	}
	return years
}

