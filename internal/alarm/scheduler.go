// Package alarm derives concrete reminder trigger instants from tasks and
// manages their registration with an alarm facility.
package alarm

import (
	"errors"
	"fmt"
	"time"

	"lockin/internal/planner"
	"lockin/internal/prefs"
)

// SlotsPerTask bounds the alarm slots a task may occupy. It equals
// planner.MaxReminders, which is enforced at creation and import, so a
// blind cancel over the whole range is always exact.
const SlotsPerTask = planner.MaxReminders

// ErrUnavailable is returned by a facility that cannot schedule alarms
// (missing permission, not started). Scheduling degrades silently.
var ErrUnavailable = errors.New("alarm facility unavailable")

// Payload is delivered when an alarm fires.
type Payload struct {
	TaskID  int64
	Title   string
	Message string
}

// Facility registers and cancels absolute-time alarms. Cancel of an
// unknown slot must be a no-op.
type Facility interface {
	Register(slot int64, triggerUTCMillis int64, p Payload) error
	Cancel(slot int64)
}

// SlotKey derives the deterministic alarm slot for one reminder of a task.
// No two tasks share a slot because reminder indexes stay below
// SlotsPerTask.
func SlotKey(taskID int64, reminderIndex int) int64 {
	return taskID*SlotsPerTask + int64(reminderIndex)
}

// Scheduler computes triggers and keeps at most one live set of alarm
// slots per task.
type Scheduler struct {
	facility Facility
	now      func() time.Time
}

// NewScheduler creates a scheduler over the given facility.
func NewScheduler(f Facility) *Scheduler {
	return &Scheduler{facility: f, now: time.Now}
}

// Cancel releases every slot the task could occupy. It does not need to
// know how many reminders the task previously had.
func (s *Scheduler) Cancel(taskID int64) {
	for i := 0; i < SlotsPerTask; i++ {
		s.facility.Cancel(SlotKey(taskID, i))
	}
}

// Schedule replaces the task's alarm registrations: existing slots are
// always cancelled first, then new ones are registered only when the
// global toggle, the task's repeat-category toggle and a non-empty
// reminder list all allow it. Triggers that are not strictly in the
// future are skipped, and facility failures skip the slot silently.
func (s *Scheduler) Schedule(t *planner.Task, p prefs.Preferences) {
	s.Cancel(t.ID)

	if !p.NotificationsEnabled || !categoryEnabled(t.Repeat, p) || len(t.Reminders) == 0 {
		return
	}

	now := s.now()
	for i, offset := range t.Reminders {
		if i >= SlotsPerTask {
			break
		}
		trigger := s.trigger(t, offset, now)
		if trigger <= now.UnixMilli() {
			continue
		}
		if err := s.facility.Register(SlotKey(t.ID, i), trigger, Payload{
			TaskID:  t.ID,
			Title:   t.Name,
			Message: Message(t.Name, offset),
		}); err != nil {
			// Best effort: delivery failure is not an application error.
			continue
		}
	}
}

// RescheduleAll re-registers reminders for every task, as after a device
// restart.
func (s *Scheduler) RescheduleAll(tasks []*planner.Task, p prefs.Preferences) {
	for _, t := range tasks {
		if len(t.Reminders) == 0 {
			continue
		}
		s.Schedule(t, p)
	}
}

func categoryEnabled(r planner.Repeat, p prefs.Preferences) bool {
	switch r {
	case planner.RepeatDaily:
		return p.NotifyDaily
	case planner.RepeatCustom:
		return p.NotifyCustom
	default:
		// Single, plus anything else, falls in the Single bucket.
		return p.NotifySingle
	}
}

// trigger computes the absolute trigger instant for one reminder offset.
// Fixed tasks offset their stored start instant. Floating tasks resolve
// today's wall-clock occurrence in the local zone and roll forward a day
// when the offset instant has already passed, so recurring tasks always
// target their next occurrence.
func (s *Scheduler) trigger(t *planner.Task, offsetMinutes int, now time.Time) int64 {
	if !t.Schedule.Floating() {
		start, _ := t.Schedule.Span()
		return start + int64(offsetMinutes)*planner.MillisPerMin
	}

	startMin, _ := t.Schedule.FloatingMinutes()
	hour, minute := planner.SplitMinutes(startMin)
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	target = target.Add(time.Duration(offsetMinutes) * time.Minute)
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target.UnixMilli()
}

// Message renders the notification text for a reminder offset.
func Message(taskName string, offsetMinutes int) string {
	switch {
	case offsetMinutes == 0:
		return fmt.Sprintf("Task %q is starting now!", taskName)
	case offsetMinutes < 0:
		return fmt.Sprintf("Task %q starts in %d minutes.", taskName, -offsetMinutes)
	default:
		return fmt.Sprintf("Task %q started %d minutes ago.", taskName, offsetMinutes)
	}
}
