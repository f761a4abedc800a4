// Package datetime canonicalizes event dates and times.
//
// Dates are stored as YYYY-MM-DD and times as 24-hour HH:MM. Inputs are tried
// against an ordered list of layouts; the first layout that parses wins.
// Dates no layout accepts go through dateparse in strict mode, which refuses
// ambiguous day/month orders. There is a single failure mode per function.
package datetime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// anchorDate pins time-only inputs to a fixed calendar day.
	anchorDate = "2000-01-01T"
)

var (
	ErrInvalidDate = errors.New("invalid date format")
	ErrInvalidTime = errors.New("invalid time format")
)

// DateLayouts is the ordered list of accepted date inputs.
var DateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-1-2",
	"2006-01",
	"2006-1",
	"2006",
	"2006/01/02",
	"2006.01.02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"January 2, 2006 3:04 PM",
	"January 2, 2006 3:04:05 PM",
	"January 2, 2006 15:04",
	"January 2, 2006 15:04:05",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
	"Mon, January 2, 2006",
	"Mon, Jan 2, 2006",
	"Mon Jan 2 2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.RFC822Z,
	time.RFC822,
	time.ANSIC,
	time.UnixDate,
}

// timeLayouts are tried against anchorDate + input.
var timeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
}

var clockPattern = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(?::(\d{2}))?(?:\s*(AM|PM))?$`)

// ParseDate returns the first successful parse of s against DateLayouts,
// falling back to dateparse.ParseStrict.
func ParseDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	if t, err := dateparse.ParseStrict(trimmed); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, s)
}

// NormalizeDate renders s as YYYY-MM-DD. Inputs carrying a zone are first
// converted to UTC; the time of day is dropped.
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(DateLayout), nil
}

// NormalizeTime renders s as 24-hour HH:MM.
func NormalizeTime(s string) (string, error) {
	trimmed := strings.TrimSpace(s)

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, anchorDate+trimmed); err == nil {
			return t.Format(TimeLayout), nil
		}
	}

	if out, ok := parseClock(trimmed); ok {
		return out, nil
	}

	return "", fmt.Errorf("%w: %s", ErrInvalidTime, s)
}

func parseClock(s string) (string, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if minutes > 59 {
		return "", false
	}
	if m[3] != "" {
		if seconds, _ := strconv.Atoi(m[3]); seconds > 59 {
			return "", false
		}
	}

	switch strings.ToUpper(m[4]) {
	case "AM":
		if hours < 1 || hours > 12 {
			return "", false
		}
		if hours == 12 {
			hours = 0
		}
	case "PM":
		if hours < 1 || hours > 12 {
			return "", false
		}
		if hours != 12 {
			hours += 12
		}
	default:
		if hours > 23 {
			return "", false
		}
	}

	return fmt.Sprintf("%02d:%02d", hours, minutes), true
}
