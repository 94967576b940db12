package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of business dates
const DateLayout = "2006-01-02"

// ParseBusinessDate accepts YYYY-MM-DD or an RFC 3339 timestamp and keeps only
// the calendar date, expressed as UTC midnight.
func ParseBusinessDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, NewValidationError("date is required")
	}

	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return BusinessDay(t), nil
	}

	return time.Time{}, NewValidationError(fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", s))
}

// BusinessDay drops the time of day, keeping the calendar date of t in its own zone
func BusinessDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatBusinessDate renders a business date as YYYY-MM-DD
func FormatBusinessDate(t time.Time) string {
	return t.Format(DateLayout)
}
