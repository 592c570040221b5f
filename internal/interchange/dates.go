package interchange

import (
	"strings"
	"time"
)

// dateLayouts are tried in order when comparing free-text dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseDate parses a free-text date with the first layout that fits.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SameOrLater reports whether date a is on or after date b. If either date
// cannot be parsed the answer is false, so an unreadable date never
// replaces a known one.
func SameOrLater(a, b string) bool {
	ta, ok := ParseDate(a)
	if !ok {
		return false
	}
	tb, ok := ParseDate(b)
	if !ok {
		return false
	}
	return !ta.Before(tb)
}
