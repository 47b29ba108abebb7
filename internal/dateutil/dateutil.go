// Package dateutil provides date parsing helpers for the command surface.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidDateFormat is returned for unrecognized date input.
var ErrInvalidDateFormat = errors.New("date must be YYYY-MM-DD, today or tomorrow")

// ParseDate parses a date argument in the given location:
//   - empty or "today": today
//   - "tomorrow": tomorrow
//   - "yesterday": yesterday
//   - absolute "YYYY-MM-DD"
//
// The result is midnight of the day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	today := truncate(time.Now().In(loc))
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// ParseMonth parses "YYYY-MM" (or empty for the current month) and returns
// the first day of that month at midnight in loc.
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation("2006-01", s, loc)
	if err != nil {
		return time.Time{}, errors.New("month must be in YYYY-MM format")
	}
	return t, nil
}

// MonthDays returns every day of first's month, as midnights in first's
// location.
func MonthDays(first time.Time) []time.Time {
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, first.Location())
	var days []time.Time
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
