package maintenance

import (
	"strings"
	"time"
)

// DateLayout is the only textual form dates are written in.
const DateLayout = "2006-01-02"

// Layouts accepted when reading dates from imported or hand-typed rows.
var readLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02-01-2006",
}

// ParseDate reads a calendar date from a loosely formatted cell. Time of day is dropped.
func ParseDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, layout := range readLayouts {
		parsed, err := time.Parse(layout, trimmed)
		if err == nil {
			y, m, d := parsed.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// NormalizeDate rewrites a parseable date in DateLayout. The second result is false for unparseable input.
func NormalizeDate(raw string) (string, bool) {
	parsed, ok := ParseDate(raw)
	if !ok {
		return "", false
	}
	return FormatDate(parsed), true
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddMonths adds whole calendar months. When the target month is shorter the day is clamped to its last day,
// so Jan 31 + 1 month is Feb 28 (or Feb 29 in a leap year).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}
