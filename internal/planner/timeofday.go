package planner

import "fmt"

// Time constants shared by the projection and scheduling code.
const (
	MinutesPerDay = 24 * 60
	MillisPerMin  = int64(60 * 1000)
	MillisPerDay  = int64(MinutesPerDay) * MillisPerMin
)

// SplitMinutes converts minutes since midnight to an hour/minute pair.
// 1440 maps to (24, 0), the exclusive end of a day.
func SplitMinutes(m int) (hour, minute int) {
	return m / 60, m % 60
}

// JoinMinutes converts an hour/minute pair to minutes since midnight.
func JoinMinutes(hour, minute int) int {
	return hour*60 + minute
}

// ValidMinutes reports whether m is a representable floating time of day.
func ValidMinutes(m int) bool {
	return m >= 0 && m < MinutesPerDay
}

// FormatMinutes renders minutes since midnight as "HH:MM".
func FormatMinutes(m int) string {
	if m < 0 {
		m = 0
	}
	if m > MinutesPerDay {
		m = MinutesPerDay
	}
	h, mm := SplitMinutes(m)
	return fmt.Sprintf("%02d:%02d", h, mm)
}

// FormatClock renders an hour/minute pair in 24h or 12h notation.
func FormatClock(hour, minute int, twentyFourHour bool) string {
	if twentyFourHour {
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}
	amPm := "AM"
	if hour >= 12 {
		amPm = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, amPm)
}
