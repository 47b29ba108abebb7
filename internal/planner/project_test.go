package planner

import (
	"testing"
	"time"
)

func TestProjectDay_FloatingWrap(t *testing.T) {
	// 23:00 to 01:00 wraps midnight and splits into two fragments.
	task := &Task{Name: "Night shift", Repeat: RepeatDaily, Schedule: mustFloating(t, 1380, 60)}
	w := utcWindow(t, 2024, time.January, 2)

	frags := ProjectDay([]*Task{task}, w)
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	late, early := frags[0], frags[1]
	if late.StartMinute != 1380 || late.EndMinute != MinutesPerDay {
		t.Errorf("late fragment [%d, %d), want [1380, 1440)", late.StartMinute, late.EndMinute)
	}
	if early.StartMinute != 0 || early.EndMinute != 60 {
		t.Errorf("early fragment [%d, %d), want [0, 60)", early.StartMinute, early.EndMinute)
	}
	if late.Task != task || early.Task != task {
		t.Error("both fragments must reference the same task")
	}

	sh, sm := late.StartClock()
	if sh != 23 || sm != 0 {
		t.Errorf("late start clock %d:%02d, want 23:00", sh, sm)
	}
	eh, em := late.EndClock()
	if eh != 24 || em != 0 {
		t.Errorf("late end clock %d:%02d, want 24:00", eh, em)
	}
}

func TestProjectDay_Fixed(t *testing.T) {
	w := utcWindow(t, 2024, time.January, 2)

	t.Run("interior occurrence", func(t *testing.T) {
		s := w.StartUTC + int64(JoinMinutes(9, 0))*MillisPerMin
		e := w.StartUTC + int64(JoinMinutes(10, 30))*MillisPerMin
		task := &Task{Name: "Meeting", Repeat: RepeatSingle, Schedule: mustFixed(t, s, e)}

		frags := ProjectDay([]*Task{task}, w)
		if len(frags) != 1 {
			t.Fatalf("got %d fragments, want 1", len(frags))
		}
		if frags[0].StartMinute != 540 || frags[0].EndMinute != 630 {
			t.Errorf("got [%d, %d), want [540, 630)", frags[0].StartMinute, frags[0].EndMinute)
		}
	})

	t.Run("multi-day occurrence clamps to the window", func(t *testing.T) {
		task := &Task{Name: "Conference", Repeat: RepeatSingle,
			Schedule: mustFixed(t, w.StartUTC-MillisPerDay, w.EndUTC+MillisPerDay)}

		frags := ProjectDay([]*Task{task}, w)
		if len(frags) != 1 {
			t.Fatalf("got %d fragments, want 1", len(frags))
		}
		if frags[0].StartMinute != 0 || frags[0].EndMinute != MinutesPerDay {
			t.Errorf("got [%d, %d), want the full day", frags[0].StartMinute, frags[0].EndMinute)
		}
	})

	t.Run("sub-minute sliver dropped", func(t *testing.T) {
		task := &Task{Name: "Sliver", Repeat: RepeatSingle,
			Schedule: mustFixed(t, w.StartUTC-60*MillisPerMin, w.StartUTC+30_000)}

		frags := ProjectDay([]*Task{task}, w)
		if len(frags) != 0 {
			t.Fatalf("got %d fragments, want 0", len(frags))
		}
	})
}

func TestProjectDay_SkipsNonOccurring(t *testing.T) {
	w := utcWindow(t, 2024, time.January, 1) // a Monday
	gym := &Task{Name: "Gym", Repeat: RepeatCustom,
		Weekdays: MaskOf(time.Sunday, time.Friday), Schedule: mustFloating(t, 540, 600)}
	standup := &Task{Name: "Standup", Repeat: RepeatDaily, Schedule: mustFloating(t, 600, 615)}

	frags := ProjectDay([]*Task{gym, standup}, w)
	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	if frags[0].Task != standup {
		t.Errorf("got task %q, want %q", frags[0].Task.Name, standup.Name)
	}
	if frags[0].Duration() != 15 {
		t.Errorf("got duration %d, want 15", frags[0].Duration())
	}
}
