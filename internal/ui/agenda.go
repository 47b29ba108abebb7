package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"lockin/internal/dateutil"
	"lockin/internal/planner"
)

func (a *App) agendaCmd() *cobra.Command {
	var hideRecurring bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "agenda [date]",
		Short: "Show the timeline for a day",
		Long: `Display the day's tasks laid out on a timeline.

Overlapping tasks are packed into side-by-side columns. The date accepts
today, tomorrow, yesterday or YYYY-MM-DD, and defaults to today.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := context.Background()

			p := a.prefs.Current()
			loc := planner.DisplayLocation(p)

			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			date, err := dateutil.ParseDate(arg, loc)
			if err != nil {
				return err
			}
			w := planner.WindowFor(date)

			tasks, err := a.store.TasksForWindow(ctx, w.StartUTC, w.EndUTC)
			if err != nil {
				return fmt.Errorf("loading tasks: %w", err)
			}
			if hideRecurring {
				tasks = singlesOnly(tasks)
			}

			packed := planner.PackColumns(planner.ProjectDay(tasks, w))

			header := fmt.Sprintf("AGENDA: %s", date.Format("Mon Jan 2, 2006"))
			fmt.Printf("\n  %s\n", formatHeader(header))
			fmt.Println(strings.Repeat("─", 74))
			if len(packed) == 0 {
				fmt.Println("  Nothing scheduled.")
				fmt.Println()
				return nil
			}
			printAgenda(packed, p.TimeFormat24h)
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVar(&hideRecurring, "hide-recurring", false, "Show only one-off tasks")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func singlesOnly(tasks []*planner.Task) []*planner.Task {
	var out []*planner.Task
	for _, t := range tasks {
		if t.Repeat == planner.RepeatSingle {
			out = append(out, t)
		}
	}
	return out
}

// printAgenda renders packed fragments as lanes. At least three lanes are
// always reserved so a lightly loaded day keeps a stable shape.
func printAgenda(packed []planner.Positioned, twentyFourHour bool) {
	lanes := planner.ColumnCount(packed)
	if lanes < 3 {
		lanes = 3
	}

	// Sort by start time, then lane, for a stable top-to-bottom reading.
	rows := make([]planner.Positioned, len(packed))
	copy(rows, packed)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].StartMinute != rows[j].StartMinute {
			return rows[i].StartMinute < rows[j].StartMinute
		}
		return rows[i].Column < rows[j].Column
	})

	const timeColWidth = 16 // "HH:MM – HH:MM  "
	laneWidth := (termWidth() - timeColWidth - 4) / lanes
	if laneWidth < 12 {
		laneWidth = 12
	}

	for _, r := range rows {
		sh, sm := r.StartClock()
		eh, em := r.EndClock()
		span := fmt.Sprintf("%s – %s",
			planner.FormatClock(sh, sm, twentyFourHour),
			planner.FormatClock(eh, em, twentyFourHour))

		label := truncate(r.Task.Name, laneWidth-1)
		switch r.Task.Repeat {
		case planner.RepeatDaily:
			label += " " + formatRepeat("(daily)")
		case planner.RepeatCustom:
			label += " " + formatRepeat("(weekly)")
		}

		indent := strings.Repeat(" ", r.Column*laneWidth)
		fmt.Printf("  %-*s %s%s\n", timeColWidth, formatTime(span), indent, label)
	}
}

func truncate(s string, max int) string {
	if max <= 1 || len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
