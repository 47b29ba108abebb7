package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lockin/internal/dateutil"
	"lockin/internal/planner"
)

func (a *App) addCmd() *cobra.Command {
	var desc string
	var date string
	var start string
	var end string
	var daily bool
	var days []string
	var reminders []int
	var colorHex string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Long: `Add a task to the planner.

One-off tasks are anchored to a calendar date; recurring tasks (--daily or
--days) repeat at the same local clock time every matching day. Reminder
offsets are minutes relative to the start: negative fires before, zero at
the start.

Examples:
  lockin add "Dentist" --date 2026-09-03 --start 14:30 --end 15:15 --remind -30
  lockin add "Standup" --daily --start 09:00 --end 09:15 --remind 0
  lockin add "Gym" --days mon,wed,fri --start 18:00 --end 19:30`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := context.Background()

			p := a.prefs.Current()
			loc := planner.DisplayLocation(p)

			startMin, err := parseClock(start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			endMin, err := parseClock(end)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}

			repeat := planner.RepeatSingle
			var mask planner.WeekdayMask
			switch {
			case daily && len(days) > 0:
				return fmt.Errorf("--daily and --days are mutually exclusive")
			case daily:
				repeat = planner.RepeatDaily
			case len(days) > 0:
				repeat = planner.RepeatCustom
				mask, err = parseWeekdays(days)
				if err != nil {
					return err
				}
			}

			var sched planner.Schedule
			if repeat == planner.RepeatSingle {
				day, err := dateutil.ParseDate(date, loc)
				if err != nil {
					return err
				}
				midnight := planner.Midnight(day)
				sh, sm := planner.SplitMinutes(startMin)
				eh, em := planner.SplitMinutes(endMin)
				sched, err = planner.FixedSchedule(
					planner.EncodeFixed(midnight, sh, sm),
					planner.EncodeFixed(midnight, eh, em),
				)
				if err != nil {
					return err
				}
			} else {
				sched, err = planner.FloatingSchedule(startMin, endMin)
				if err != nil {
					return err
				}
			}

			t, err := planner.New(args[0], desc, repeat, mask, sched, reminders)
			if err != nil {
				return err
			}
			if colorHex != "" {
				argb, err := parseColor(colorHex)
				if err != nil {
					return err
				}
				t.ThemeColor = false
				t.Color = argb
			}

			if err := a.tasks.Save(ctx, t); err != nil {
				return fmt.Errorf("saving task: %w", err)
			}
			fmt.Printf("%s task %d: %s\n", formatStats("Added"), t.ID, t.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Task description")
	cmd.Flags().StringVar(&date, "date", "", "Date for one-off tasks (today, tomorrow, YYYY-MM-DD; default today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time as HH:MM (required)")
	cmd.Flags().StringVar(&end, "end", "", "End time as HH:MM (required); earlier than start wraps past midnight")
	cmd.Flags().BoolVar(&daily, "daily", false, "Repeat every day")
	cmd.Flags().StringSliceVar(&days, "days", nil, "Repeat on weekdays (e.g. mon,wed,fri)")
	cmd.Flags().IntSliceVar(&reminders, "remind", nil, "Reminder offsets in minutes from start (max 5)")
	cmd.Flags().StringVar(&colorHex, "color", "", "Task color as #RRGGBB (default theme color)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

// parseClock parses "HH:MM" into minutes from midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return planner.JoinMinutes(hour, minute), nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

func parseWeekdays(names []string) (planner.WeekdayMask, error) {
	var mask planner.WeekdayMask
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if len(key) > 3 {
			key = key[:3]
		}
		d, ok := weekdayNames[key]
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q", name)
		}
		mask |= planner.MaskOf(d)
	}
	return mask, nil
}

// parseColor parses "#RRGGBB" into a packed opaque ARGB value.
func parseColor(s string) (int64, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("expected #RRGGBB, got %q", s)
	}
	rgb, err := strconv.ParseInt(hex, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("expected #RRGGBB, got %q", s)
	}
	return 0xFF000000 | rgb, nil
}
