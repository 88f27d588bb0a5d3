package utils

import (
	"time"
)

// Iso8601 formats t in UTC as RFC 3339 with second precision.
func Iso8601(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Iso8601DateFrom returns just the date portion in YYYY-MM-DD format
func Iso8601DateFrom(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ValidUntilFrom calculates the valid until timestamp
func ValidUntilFrom(base time.Time, validFor time.Duration) string {
	if base.IsZero() || validFor <= 0 {
		return ""
	}
	return Iso8601(base.Add(validFor))
}

// ParseIso8601 parses the timestamp formats the SIRI output uses. ok is false
// for an empty or unparseable value.
func ParseIso8601(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
