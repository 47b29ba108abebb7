package alarm

import (
	"testing"
	"time"

	"lockin/internal/planner"
	"lockin/internal/prefs"
)

// fakeFacility records every Register and Cancel call in order.
type fakeFacility struct {
	registered map[int64]int64 // slot -> trigger
	payloads   map[int64]Payload
	cancels    []int64
	failAll    bool
}

func newFakeFacility() *fakeFacility {
	return &fakeFacility{
		registered: make(map[int64]int64),
		payloads:   make(map[int64]Payload),
	}
}

func (f *fakeFacility) Register(slot int64, trigger int64, p Payload) error {
	if f.failAll {
		return ErrUnavailable
	}
	f.registered[slot] = trigger
	f.payloads[slot] = p
	return nil
}

func (f *fakeFacility) Cancel(slot int64) {
	f.cancels = append(f.cancels, slot)
	delete(f.registered, slot)
	delete(f.payloads, slot)
}

func notifyAllPrefs() prefs.Preferences {
	p := prefs.Default()
	p.NotificationsEnabled = true
	p.NotifyDaily = true
	p.NotifyCustom = true
	p.NotifySingle = true
	return p
}

func schedulerAt(f Facility, now time.Time) *Scheduler {
	s := NewScheduler(f)
	s.now = func() time.Time { return now }
	return s
}

func fixedTask(t *testing.T, id int64, start time.Time, reminders []int) *planner.Task {
	t.Helper()
	sched, err := planner.FixedSchedule(start.UnixMilli(), start.Add(time.Hour).UnixMilli())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &planner.Task{ID: id, Name: "Dentist", Repeat: planner.RepeatSingle, Schedule: sched, Reminders: reminders}
}

func floatingTask(t *testing.T, id int64, startMin int, repeat planner.Repeat, reminders []int) *planner.Task {
	t.Helper()
	sched, err := planner.FloatingSchedule(startMin, startMin+60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &planner.Task{ID: id, Name: "Standup", Repeat: repeat, Schedule: sched, Reminders: reminders}
}

func TestSlotKey(t *testing.T) {
	// Adjacent tasks must never collide.
	if SlotKey(1, SlotsPerTask-1) >= SlotKey(2, 0) {
		t.Error("slot ranges of adjacent tasks overlap")
	}
	if SlotKey(7, 3) != 7*SlotsPerTask+3 {
		t.Errorf("got %d, want %d", SlotKey(7, 3), 7*SlotsPerTask+3)
	}
}

func TestSchedule_FixedOffsets(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	start := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	f := newFakeFacility()
	s := schedulerAt(f, now)

	task := fixedTask(t, 3, start, []int{-10, 0})
	s.Schedule(task, notifyAllPrefs())

	if len(f.registered) != 2 {
		t.Fatalf("got %d registrations, want 2", len(f.registered))
	}
	if got := f.registered[SlotKey(3, 0)]; got != start.Add(-10*time.Minute).UnixMilli() {
		t.Errorf("offset -10: got trigger %d, want %d", got, start.Add(-10*time.Minute).UnixMilli())
	}
	if got := f.registered[SlotKey(3, 1)]; got != start.UnixMilli() {
		t.Errorf("offset 0: got trigger %d, want %d", got, start.UnixMilli())
	}
}

func TestSchedule_SkipsPastTriggers(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 5, 0, 0, time.UTC)
	start := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	f := newFakeFacility()
	s := schedulerAt(f, now)

	// -10 and 0 are already in the past; +30 is still ahead.
	s.Schedule(fixedTask(t, 3, start, []int{-10, 0, 30}), notifyAllPrefs())

	if len(f.registered) != 1 {
		t.Fatalf("got %d registrations, want 1", len(f.registered))
	}
	if _, ok := f.registered[SlotKey(3, 2)]; !ok {
		t.Error("the future offset should be registered")
	}
}

func TestSchedule_FloatingRollsForward(t *testing.T) {
	// Start 09:00, reminder at start; now is 09:30, so the next
	// occurrence is tomorrow 09:00.
	now := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	f := newFakeFacility()
	s := schedulerAt(f, now)

	s.Schedule(floatingTask(t, 5, 540, planner.RepeatDaily, []int{0}), notifyAllPrefs())

	want := time.Date(2024, 6, 16, 9, 0, 0, 0, time.UTC).UnixMilli()
	if got := f.registered[SlotKey(5, 0)]; got != want {
		t.Errorf("got trigger %d, want tomorrow %d", got, want)
	}
}

func TestSchedule_FloatingToday(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	f := newFakeFacility()
	s := schedulerAt(f, now)

	s.Schedule(floatingTask(t, 5, 540, planner.RepeatDaily, []int{-15}), notifyAllPrefs())

	want := time.Date(2024, 6, 15, 8, 45, 0, 0, time.UTC).UnixMilli()
	if got := f.registered[SlotKey(5, 0)]; got != want {
		t.Errorf("got trigger %d, want today %d", got, want)
	}
}

func TestSchedule_CancelsBeforeRegistering(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	start := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	f := newFakeFacility()
	s := schedulerAt(f, now)

	s.Schedule(fixedTask(t, 3, start, []int{-10, 0}), notifyAllPrefs())
	if len(f.registered) != 2 {
		t.Fatalf("setup: got %d registrations, want 2", len(f.registered))
	}

	// Editing the task down to no reminders must clear the old slots.
	s.Schedule(fixedTask(t, 3, start, nil), notifyAllPrefs())
	if len(f.registered) != 0 {
		t.Errorf("got %d live registrations, want 0", len(f.registered))
	}
	if len(f.cancels) != 2*SlotsPerTask {
		t.Errorf("got %d cancels, want %d", len(f.cancels), 2*SlotsPerTask)
	}
}

func TestSchedule_Gating(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	start := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("global toggle off still cancels", func(t *testing.T) {
		f := newFakeFacility()
		s := schedulerAt(f, now)
		p := notifyAllPrefs()
		p.NotificationsEnabled = false

		s.Schedule(fixedTask(t, 3, start, []int{0}), p)
		if len(f.registered) != 0 {
			t.Errorf("got %d registrations, want 0", len(f.registered))
		}
		if len(f.cancels) != SlotsPerTask {
			t.Errorf("got %d cancels, want %d", len(f.cancels), SlotsPerTask)
		}
	})

	t.Run("category toggle off", func(t *testing.T) {
		f := newFakeFacility()
		s := schedulerAt(f, now)
		p := notifyAllPrefs()
		p.NotifyDaily = false

		s.Schedule(floatingTask(t, 5, 540, planner.RepeatDaily, []int{0}), p)
		if len(f.registered) != 0 {
			t.Errorf("got %d registrations, want 0", len(f.registered))
		}
	})

	t.Run("other categories unaffected", func(t *testing.T) {
		f := newFakeFacility()
		s := schedulerAt(f, now)
		p := notifyAllPrefs()
		p.NotifyDaily = false

		s.Schedule(fixedTask(t, 3, start, []int{0}), p)
		if len(f.registered) != 1 {
			t.Errorf("got %d registrations, want 1", len(f.registered))
		}
	})
}

func TestSchedule_FacilityFailureIsSilent(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	start := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	f := newFakeFacility()
	f.failAll = true
	s := schedulerAt(f, now)

	// Must not panic or error; scheduling is best effort.
	s.Schedule(fixedTask(t, 3, start, []int{0}), notifyAllPrefs())
	if len(f.registered) != 0 {
		t.Errorf("got %d registrations, want 0", len(f.registered))
	}
}

func TestRescheduleAll(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	start := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	f := newFakeFacility()
	s := schedulerAt(f, now)

	tasks := []*planner.Task{
		fixedTask(t, 1, start, []int{0}),
		fixedTask(t, 2, start, nil), // no reminders, skipped
		floatingTask(t, 3, 600, planner.RepeatDaily, []int{-5}),
	}
	s.RescheduleAll(tasks, notifyAllPrefs())

	if len(f.registered) != 2 {
		t.Errorf("got %d registrations, want 2", len(f.registered))
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		offset int
		want   string
	}{
		{0, `Task "Gym" is starting now!`},
		{-15, `Task "Gym" starts in 15 minutes.`},
		{10, `Task "Gym" started 10 minutes ago.`},
	}
	for _, tt := range tests {
		if got := Message("Gym", tt.offset); got != tt.want {
			t.Errorf("offset %d: got %q, want %q", tt.offset, got, tt.want)
		}
	}
}
