package planner

import (
	"time"

	"lockin/internal/prefs"
)

// DisplayLocation resolves the timezone task times are presented in.
// With the timezone feature disabled this is the device's local zone;
// otherwise the selected profile wins, falling back to the main timezone
// when the profile id is absent or unknown. An id that fails to load falls
// back to local rather than failing the read.
func DisplayLocation(p prefs.Preferences) *time.Location {
	if !p.TimezoneEnabled {
		return time.Local
	}
	id := p.MainTimezone
	if p.SelectedProfileID != "" {
		for _, prof := range p.TimezoneProfiles {
			if prof.ID == p.SelectedProfileID {
				id = prof.TimezoneID
				break
			}
		}
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return time.Local
	}
	return loc
}

// DecodeFixed returns the wall-clock hour and minute of a UTC millisecond
// instant in the given location. Fixed tasks must be re-decoded whenever
// the display timezone changes; floating tasks never pass through here.
func DecodeFixed(utcMillis int64, loc *time.Location) (hour, minute int) {
	t := time.UnixMilli(utcMillis).In(loc)
	return t.Hour(), t.Minute()
}

// EncodeFixed returns the absolute instant of hour:minute on the day
// beginning at midnight. It uses calendar arithmetic in midnight's
// location, not midnight plus a fixed offset, so an hour/minute on the far
// side of a DST transition still encodes to the right instant.
func EncodeFixed(midnight time.Time, hour, minute int) int64 {
	y, m, d := midnight.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, midnight.Location()).UnixMilli()
}

// Midnight truncates t to the start of its day, keeping its location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
