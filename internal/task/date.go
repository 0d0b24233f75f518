package task

import (
	"errors"
	"time"
)

const (
	// DateLayout is the due date format.
	DateLayout = "2006-01-02"
	// TimestampLayout is how created/modified/completed stamps are written.
	TimestampLayout = "2006-01-02 15:04:05"
)

var errUnrecognizedTime = errors.New("unrecognized time format")

// ValidDue reports whether s is a real calendar date in YYYY-MM-DD form.
// Dates such as 2099-02-30 are rejected.
func ValidDue(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Today returns now as a YYYY-MM-DD string.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// FormatTimestamp renders t in local time using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// ParseTimestamp tries the stored layout first, then RFC 3339 variants.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(TimestampLayout, s, time.Local); err == nil {
		return t, nil
	}
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		DateLayout,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnrecognizedTime
}
