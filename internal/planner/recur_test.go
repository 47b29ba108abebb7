package planner

import (
	"testing"
	"time"
)

func utcWindow(t *testing.T, year int, month time.Month, day int) DayWindow {
	t.Helper()
	return WindowFor(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

func TestOccursOn_Fixed(t *testing.T) {
	// 2024-01-01 23:00 UTC to 2024-01-02 01:30 UTC.
	start := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC).UnixMilli()
	end := time.Date(2024, 1, 2, 1, 30, 0, 0, time.UTC).UnixMilli()
	task := &Task{Name: "Flight", Repeat: RepeatSingle, Schedule: mustFixed(t, start, end)}

	tests := []struct {
		name string
		day  int
		want bool
	}{
		{"day before", 31, false},
		{"start day", 1, true},
		{"spill-over day", 2, true},
		{"day after", 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month := time.January
			year := 2024
			if tt.day == 31 {
				month = time.December
				year = 2023
			}
			w := utcWindow(t, year, month, tt.day)
			if got := task.OccursOn(w); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOccursOn_FixedTouchingBoundaries(t *testing.T) {
	w := utcWindow(t, 2024, time.January, 2)

	t.Run("ends exactly at window start", func(t *testing.T) {
		task := &Task{Name: "x", Repeat: RepeatSingle,
			Schedule: mustFixed(t, w.StartUTC-60*MillisPerMin, w.StartUTC)}
		if task.OccursOn(w) {
			t.Error("half-open interval: end at window start must not occur")
		}
	})

	t.Run("starts exactly at window end", func(t *testing.T) {
		task := &Task{Name: "x", Repeat: RepeatSingle,
			Schedule: mustFixed(t, w.EndUTC, w.EndUTC+60*MillisPerMin)}
		if task.OccursOn(w) {
			t.Error("half-open interval: start at window end must not occur")
		}
	})
}

func TestOccursOn_Floating(t *testing.T) {
	sched := mustFloating(t, 540, 600)
	sunday := utcWindow(t, 2024, time.January, 7)
	friday := utcWindow(t, 2024, time.January, 5)
	monday := utcWindow(t, 2024, time.January, 1)

	t.Run("daily occurs on every day", func(t *testing.T) {
		task := &Task{Name: "Standup", Repeat: RepeatDaily, Schedule: sched}
		for _, w := range []DayWindow{sunday, friday, monday} {
			if !task.OccursOn(w) {
				t.Errorf("daily task missing on %v", w.Weekday)
			}
		}
	})

	t.Run("custom mask selects weekdays", func(t *testing.T) {
		task := &Task{Name: "Gym", Repeat: RepeatCustom,
			Weekdays: MaskOf(time.Sunday, time.Friday), Schedule: sched}
		if !task.OccursOn(sunday) {
			t.Error("expected an occurrence on Sunday")
		}
		if !task.OccursOn(friday) {
			t.Error("expected an occurrence on Friday")
		}
		if task.OccursOn(monday) {
			t.Error("unexpected occurrence on Monday")
		}
	})

	t.Run("custom with zero mask never occurs", func(t *testing.T) {
		task := &Task{Name: "Never", Repeat: RepeatCustom, Schedule: sched}
		for _, w := range []DayWindow{sunday, friday, monday} {
			if task.OccursOn(w) {
				t.Errorf("zero mask produced an occurrence on %v", w.Weekday)
			}
		}
	})

	t.Run("floating single never occurs", func(t *testing.T) {
		task := &Task{Name: "Orphan", Repeat: RepeatSingle, Schedule: sched}
		for _, w := range []DayWindow{sunday, friday, monday} {
			if task.OccursOn(w) {
				t.Errorf("floating one-off occurred on %v", w.Weekday)
			}
		}
	})
}

func TestOverlap(t *testing.T) {
	w := utcWindow(t, 2024, time.January, 2)

	t.Run("clamped to the window", func(t *testing.T) {
		task := &Task{Name: "Long", Repeat: RepeatSingle,
			Schedule: mustFixed(t, w.StartUTC-2*MillisPerDay, w.EndUTC+2*MillisPerDay)}
		start, end, ok := task.Overlap(w)
		if !ok {
			t.Fatal("expected an overlap")
		}
		if start != w.StartUTC || end != w.EndUTC {
			t.Errorf("got [%d, %d), want the full window [%d, %d)", start, end, w.StartUTC, w.EndUTC)
		}
	})

	t.Run("interior interval untouched", func(t *testing.T) {
		s := w.StartUTC + 9*60*MillisPerMin
		e := s + 60*MillisPerMin
		task := &Task{Name: "Meeting", Repeat: RepeatSingle, Schedule: mustFixed(t, s, e)}
		start, end, ok := task.Overlap(w)
		if !ok {
			t.Fatal("expected an overlap")
		}
		if start != s || end != e {
			t.Errorf("got [%d, %d), want [%d, %d)", start, end, s, e)
		}
	})

	t.Run("disjoint interval", func(t *testing.T) {
		task := &Task{Name: "Elsewhere", Repeat: RepeatSingle,
			Schedule: mustFixed(t, w.EndUTC+MillisPerMin, w.EndUTC+2*MillisPerMin)}
		if _, _, ok := task.Overlap(w); ok {
			t.Error("expected no overlap")
		}
	})
}
