package planner

// Fragment is the portion of a task's interval visible within one display
// day, expressed as minutes from that day's midnight. A floating task that
// wraps midnight yields two fragments carrying the same *Task, so selection
// by fragment always resolves to the whole task.
type Fragment struct {
	Task        *Task
	StartMinute int // inclusive, 0..1439
	EndMinute   int // exclusive, up to 1440
}

// StartClock returns the fragment start as an hour/minute pair.
func (f Fragment) StartClock() (hour, minute int) {
	return SplitMinutes(f.StartMinute)
}

// EndClock returns the fragment end as an hour/minute pair; a fragment
// running to the end of the day reports (24, 0).
func (f Fragment) EndClock() (hour, minute int) {
	return SplitMinutes(f.EndMinute)
}

// Duration returns the fragment length in minutes.
func (f Fragment) Duration() int {
	return f.EndMinute - f.StartMinute
}

// ProjectDay turns every task occurring on the window into its visible
// fragments for that day. Fixed tasks are clamped against the window, so a
// multi-day interval contributes exactly one fragment here and picks up its
// remaining days when the adjacent windows are projected. Output order is
// unspecified; PackColumns sorts.
func ProjectDay(tasks []*Task, w DayWindow) []Fragment {
	var out []Fragment
	for _, t := range tasks {
		if !t.OccursOn(w) {
			continue
		}
		if t.Schedule.Floating() {
			start, end := t.Schedule.FloatingMinutes()
			if t.Schedule.WrapsMidnight() {
				out = append(out,
					Fragment{Task: t, StartMinute: start, EndMinute: MinutesPerDay},
					Fragment{Task: t, StartMinute: 0, EndMinute: end},
				)
			} else {
				out = append(out, Fragment{Task: t, StartMinute: start, EndMinute: end})
			}
			continue
		}
		overlapStart, overlapEnd, ok := t.Overlap(w)
		if !ok {
			continue
		}
		startMin := int((overlapStart - w.StartUTC) / MillisPerMin)
		endMin := int((overlapEnd - w.StartUTC) / MillisPerMin)
		if endMin <= startMin {
			// Sub-minute sliver after truncation; nothing to draw.
			continue
		}
		out = append(out, Fragment{Task: t, StartMinute: startMin, EndMinute: endMin})
	}
	return out
}
