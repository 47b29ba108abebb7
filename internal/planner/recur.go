package planner

import "time"

// DayWindow is one display day expressed as a half-open UTC interval
// [StartUTC, EndUTC) plus the day's weekday in the display timezone.
// Because of DST the window is not always 24 hours long.
type DayWindow struct {
	StartUTC int64
	EndUTC   int64
	Weekday  time.Weekday
}

// WindowFor computes the window of the day containing t, in t's location.
func WindowFor(t time.Time) DayWindow {
	start := Midnight(t)
	end := start.AddDate(0, 0, 1)
	return DayWindow{
		StartUTC: start.UnixMilli(),
		EndUTC:   end.UnixMilli(),
		Weekday:  start.Weekday(),
	}
}

// OccursOn reports whether the task has an occurrence overlapping the day.
// A fixed task may span several midnights; querying each candidate day
// reports overlap on every day the interval touches.
func (t *Task) OccursOn(w DayWindow) bool {
	if !t.Schedule.Floating() {
		start, end := t.Schedule.Span()
		return start < w.EndUTC && end > w.StartUTC
	}
	switch t.Repeat {
	case RepeatDaily:
		return true
	case RepeatCustom:
		return t.Weekdays.Has(w.Weekday)
	default:
		// A floating Single is not constructible; treat as absent.
		return false
	}
}

// Overlap clamps a fixed task's interval to the day window. ok is false
// when the task is floating or does not touch the window.
func (t *Task) Overlap(w DayWindow) (startUTC, endUTC int64, ok bool) {
	if t.Schedule.Floating() {
		return 0, 0, false
	}
	start, end := t.Schedule.Span()
	startUTC = max(start, w.StartUTC)
	endUTC = min(end, w.EndUTC)
	if startUTC >= endUTC {
		return 0, 0, false
	}
	return startUTC, endUTC, true
}
