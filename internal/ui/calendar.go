package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lockin/internal/dateutil"
	"lockin/internal/planner"
)

func (a *App) calendarCmd() *cobra.Command {
	var hideRecurring bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "calendar [month]",
		Short: "Show a month overview",
		Long: `Display a month grid with the number of tasks occurring on each day.

The month is given as YYYY-MM and defaults to the current month.`,
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
			first, err := dateutil.ParseMonth(arg, loc)
			if err != nil {
				return err
			}

			tasks, err := a.store.ListTasks(ctx)
			if err != nil {
				return fmt.Errorf("loading tasks: %w", err)
			}
			if hideRecurring {
				tasks = singlesOnly(tasks)
			}

			days := dateutil.MonthDays(first)
			counts := make([]int, len(days))
			for i, day := range days {
				w := planner.WindowFor(day)
				for _, t := range tasks {
					if t.OccursOn(w) {
						counts[i]++
					}
				}
			}

			printMonth(first, days, counts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&hideRecurring, "hide-recurring", false, "Count only one-off tasks")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// printMonth renders a Sunday-first month grid. Each cell shows the day of
// month plus the task count for that day, blank when nothing occurs.
func printMonth(first time.Time, days []time.Time, counts []int) {
	fmt.Printf("\n  %s\n", formatHeader(first.Format("January 2006")))
	fmt.Println(strings.Repeat("─", 62))
	fmt.Println("   Sun     Mon     Tue     Wed     Thu     Fri     Sat")

	var row strings.Builder
	row.WriteString(strings.Repeat("        ", int(first.Weekday())))
	for i, day := range days {
		cell := fmt.Sprintf("%3d", day.Day())
		if counts[i] > 0 {
			cell += formatStats(fmt.Sprintf(" %-3s", fmt.Sprintf("·%d", counts[i])))
		} else {
			cell += "    "
		}
		row.WriteString(cell + " ")
		if day.Weekday() == time.Saturday {
			fmt.Println(row.String())
			row.Reset()
		}
	}
	if row.Len() > 0 {
		fmt.Println(row.String())
	}
	fmt.Println()
}
