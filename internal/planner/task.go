// Package planner defines the core domain model for lockin: tasks with
// their dual time encoding, recurrence evaluation, per-day projection,
// timeline column layout and checklists.
package planner

import (
	"errors"
	"time"
)

// Validation errors.
var (
	ErrEmptyName        = errors.New("task name cannot be empty")
	ErrZeroDuration     = errors.New("start time and end time cannot be equal")
	ErrInvalidMinutes   = errors.New("floating times must be minutes within a single day")
	ErrInvalidRepeat    = errors.New("repeat must be Single, Daily or Custom")
	ErrTooManyReminders = errors.New("a task cannot have more than 5 reminders")
)

// Repeat describes how often a task occurs.
type Repeat string

const (
	RepeatSingle Repeat = "Single"
	RepeatDaily  Repeat = "Daily"
	RepeatCustom Repeat = "Custom"
)

// Valid returns true if the repeat policy is a known value.
func (r Repeat) Valid() bool {
	switch r {
	case RepeatSingle, RepeatDaily, RepeatCustom:
		return true
	default:
		return false
	}
}

// MaxReminders bounds the reminder list per task. Alarm slot keys are
// derived from this bound, so it must never shrink once data exists.
const MaxReminders = 5

// WeekdayMask is a 7-bit recurrence mask, bit 0 = Sunday .. bit 6 = Saturday.
// A zero mask produces no occurrences.
type WeekdayMask uint8

// MaskOf builds a mask from a set of weekdays.
func MaskOf(days ...time.Weekday) WeekdayMask {
	var m WeekdayMask
	for _, d := range days {
		m |= 1 << uint(d)
	}
	return m
}

// Has reports whether the mask includes the given weekday.
func (m WeekdayMask) Has(d time.Weekday) bool {
	return m&(1<<uint(d)) != 0
}

// Schedule is the tagged time encoding of a task. A fixed schedule holds
// absolute UTC millisecond instants anchored to one calendar occurrence; a
// floating schedule holds minutes since local midnight and recurs per the
// task's repeat policy. The flat two-column storage form is produced only
// at the persistence and backup boundaries.
type Schedule struct {
	floating bool
	start    int64
	end      int64
}

// FixedSchedule builds an absolute schedule from UTC millisecond instants.
// An end at or before the start is moved forward by whole days until it
// follows the start, matching how the task editor resolves an end time
// that reads earlier on the clock than the start.
func FixedSchedule(startUTC, endUTC int64) (Schedule, error) {
	if startUTC == endUTC {
		return Schedule{}, ErrZeroDuration
	}
	for endUTC < startUTC {
		endUTC += MillisPerDay
	}
	return Schedule{floating: false, start: startUTC, end: endUTC}, nil
}

// FloatingSchedule builds a recurring schedule from minutes since midnight.
// endMinute < startMinute is allowed and means the task wraps past midnight.
func FloatingSchedule(startMinute, endMinute int) (Schedule, error) {
	if !ValidMinutes(startMinute) || !ValidMinutes(endMinute) {
		return Schedule{}, ErrInvalidMinutes
	}
	if startMinute == endMinute {
		return Schedule{}, ErrZeroDuration
	}
	return Schedule{floating: true, start: int64(startMinute), end: int64(endMinute)}, nil
}

// RawSchedule reconstructs a schedule from its stored two-column form
// without validation. Only the persistence and backup layers should use it.
func RawSchedule(floating bool, start, end int64) Schedule {
	return Schedule{floating: floating, start: start, end: end}
}

// Floating reports whether the schedule uses minutes-of-day encoding.
func (s Schedule) Floating() bool { return s.floating }

// Span returns the stored start/end columns (UTC millis or minutes).
func (s Schedule) Span() (start, end int64) { return s.start, s.end }

// FloatingMinutes returns the minutes-of-day pair of a floating schedule.
func (s Schedule) FloatingMinutes() (startMinute, endMinute int) {
	return int(s.start), int(s.end)
}

// WrapsMidnight reports whether a floating schedule spans midnight.
func (s Schedule) WrapsMidnight() bool {
	return s.floating && s.end < s.start
}

// Task is a plannable activity. ID zero means not yet persisted.
type Task struct {
	ID          int64
	Name        string
	Description string
	Color       int64 // packed ARGB, ignored when ThemeColor is set
	ThemeColor  bool
	Repeat      Repeat
	Weekdays    WeekdayMask // meaningful only when Repeat is Custom
	Schedule    Schedule
	Reminders   []int // minute offsets from start: negative before, 0 at start
}

// New creates a task with validation applied. The zero-duration check is
// already enforced by the Schedule constructors; New guards the rest.
func New(name, description string, repeat Repeat, weekdays WeekdayMask, sched Schedule, reminders []int) (*Task, error) {
	t := &Task{
		Name:        name,
		Description: description,
		ThemeColor:  true,
		Repeat:      repeat,
		Weekdays:    weekdays,
		Schedule:    sched,
		Reminders:   reminders,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the task's creation invariants.
func (t *Task) Validate() error {
	if t.Name == "" {
		return ErrEmptyName
	}
	if !t.Repeat.Valid() {
		return ErrInvalidRepeat
	}
	start, end := t.Schedule.Span()
	if start == end {
		return ErrZeroDuration
	}
	if t.Schedule.Floating() {
		s, e := t.Schedule.FloatingMinutes()
		if !ValidMinutes(s) || !ValidMinutes(e) {
			return ErrInvalidMinutes
		}
	}
	if len(t.Reminders) > MaxReminders {
		return ErrTooManyReminders
	}
	return nil
}

// IsPastSingle reports whether the task is a one-off whose occurrence has
// fully elapsed at the given instant. Used by the bulk prune operation.
func (t *Task) IsPastSingle(nowUTCMillis int64) bool {
	if t.Repeat != RepeatSingle || t.Schedule.Floating() {
		return false
	}
	_, end := t.Schedule.Span()
	return end < nowUTCMillis
}
