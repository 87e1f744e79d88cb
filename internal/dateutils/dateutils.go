// Package dateutils provides the date and time operations used throughout
// the application: ISO-8601 instant parsing, API timestamp formatting, and
// the weekend-adjusted monthly anchor computation used by recurrence
// detection.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Common layout constants used throughout the application
const (
	// DateLayoutISO is a plain calendar date.
	DateLayoutISO = "2006-01-02"
	// APITimestampLayout is the second-precision UTC format with a literal
	// zone suffix required by the transaction listing endpoint.
	APITimestampLayout = "2006-01-02T15:04:05Z"
)

// instantLayouts are the formats tried in order when parsing a timestamp
// read back from a tabular file.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayoutISO,
}

// ParseISOInstant parses an ISO-8601 instant, tolerant of a literal Z
// suffix, an explicit offset, or no zone at all (treated as UTC). The
// result is always normalized to UTC.
func ParseISOInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", s)
}

// FormatAPITimestamp formats an instant as UTC with second precision and a
// literal Z suffix, the only form the upstream API accepts for window
// boundaries.
func FormatAPITimestamp(t time.Time) string {
	return t.UTC().Format(APITimestampLayout)
}

// IsWeekend reports whether a date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	day := date.Weekday()
	return day == time.Saturday || day == time.Sunday
}

// PreviousWeekday steps backward one day at a time until the date is a
// weekday. A weekday input is returned unchanged.
func PreviousWeekday(date time.Time) time.Time {
	for IsWeekend(date) {
		date = date.AddDate(0, 0, -1)
	}
	return date
}

// SameDayMonthsAgo computes the monthly anchor date: the same calendar day
// `months` months before now, with the year wrapped on underflow and the
// day clamped to the last valid day of the target month. If the result
// lands on a weekend it rolls backward to the previous weekday, which for
// day 1-2 anchors can cross into the prior calendar month.
func SameDayMonthsAgo(now time.Time, months int) time.Time {
	now = now.UTC()
	year, month, day := now.Year(), int(now.Month()), now.Day()

	month -= months
	for month <= 0 {
		month += 12
		year--
	}

	if last := daysInMonth(year, time.Month(month)); day > last {
		day = last
	}

	target := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return PreviousWeekday(target)
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
