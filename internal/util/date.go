package util

import (
	"fmt"
	"math"
	"strings"
	"time"
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// dateLayouts lists the timestamp shapes accepted from the server, most specific first
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// FormatDate renders a long-form date such as "March 5, 2025".
// The zero time renders as an empty string. Month names come from a fixed
// English table rather than a locale formatter, so this path cannot fail and
// there is no second formatter to fall back to.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d, %d", monthNames[t.Month()-1], t.Day(), t.Year())
}

// ParseDate parses a server supplied date string
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date format: %q", value)
}

// DaysUntil returns the signed number of days from now until target, rounding
// fractional days up. A target 36 hours ahead is 2 days away; yesterday is -1.
func DaysUntil(target, now time.Time) int {
	diff := target.Sub(now)
	return int(math.Ceil(float64(diff) / float64(24*time.Hour)))
}

// FormatISODate renders the date portion of t as YYYY-MM-DD
func FormatISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
