package dates

import (
	"fmt"
	"time"
)

// ISOLayout is the calendar date layout used by Comic Vine (YYYY-MM-DD).
const ISOLayout = "2006-01-02"

// ParseISO parses a YYYY-MM-DD date as midnight UTC. Surrounding
// whitespace is not tolerated; any other shape is an error.
func ParseISO(s string) (time.Time, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatISO renders t as YYYY-MM-DD, or fallback when t is nil or zero.
func FormatISO(t *time.Time, fallback string) string {
	if t == nil || t.IsZero() {
		return fallback
	}
	return t.Format(ISOLayout)
}
