package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lockin/internal/planner"
	"lockin/internal/prefs"
)

func (a *App) listCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureStore(); err != nil {
				return err
			}
			tasks, err := a.store.ListTasks(context.Background())
			if err != nil {
				return fmt.Errorf("loading tasks: %w", err)
			}
			printTaskTable(tasks, a.prefs.Current())
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) searchCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tasks by name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureStore(); err != nil {
				return err
			}
			tasks, err := a.store.SearchTasks(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("searching tasks: %w", err)
			}
			printTaskTable(tasks, a.prefs.Current())
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) removeCmd() *cobra.Command {
	var all bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a task (or all tasks with --all)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := context.Background()

			if a.prefs.Current().ConfirmDeletion && !yes {
				return fmt.Errorf("deletion confirmation is enabled; pass --yes to proceed")
			}

			if all {
				if err := a.tasks.DeleteAll(ctx); err != nil {
					return fmt.Errorf("deleting tasks: %w", err)
				}
				fmt.Println(formatStats("Deleted all tasks."))
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("task id required (or --all)")
			}
			var id int64
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			if err := a.tasks.Delete(ctx, id); err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}
			fmt.Printf("%s task %d\n", formatStats("Deleted"), id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Delete every task")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the deletion confirmation")
	return cmd
}

func (a *App) pruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete one-off tasks that have already ended",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			removed, err := a.tasks.DeletePastSingle(context.Background(), time.Now().UnixMilli())
			if err != nil {
				return fmt.Errorf("pruning tasks: %w", err)
			}
			fmt.Printf("%s %d past task(s)\n", formatStats("Pruned"), removed)
			return nil
		},
	}
}

func printTaskTable(tasks []*planner.Task, p prefs.Preferences) {
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return
	}
	for _, t := range tasks {
		fmt.Printf("  %4d  %-30s %s %s\n",
			t.ID,
			truncate(t.Name, 30),
			formatTime(describeSchedule(t, p)),
			formatRepeat(describeRepeat(t)),
		)
		if t.Description != "" {
			fmt.Printf("        %s\n", formatMuted(truncate(t.Description, 60)))
		}
	}
}

func describeSchedule(t *planner.Task, p prefs.Preferences) string {
	if t.Schedule.Floating() {
		start, end := t.Schedule.FloatingMinutes()
		sh, sm := planner.SplitMinutes(start)
		eh, em := planner.SplitMinutes(end)
		return fmt.Sprintf("%s – %s",
			planner.FormatClock(sh, sm, p.TimeFormat24h),
			planner.FormatClock(eh, em, p.TimeFormat24h))
	}
	loc := planner.DisplayLocation(p)
	start, end := t.Schedule.Span()
	from := time.UnixMilli(start).In(loc)
	to := time.UnixMilli(end).In(loc)
	return fmt.Sprintf("%s %s – %s",
		from.Format(p.DateFormat),
		planner.FormatClock(from.Hour(), from.Minute(), p.TimeFormat24h),
		planner.FormatClock(to.Hour(), to.Minute(), p.TimeFormat24h))
}

func describeRepeat(t *planner.Task) string {
	switch t.Repeat {
	case planner.RepeatDaily:
		return "(daily)"
	case planner.RepeatCustom:
		var names []string
		for d := time.Sunday; d <= time.Saturday; d++ {
			if t.Weekdays.Has(d) {
				names = append(names, d.String()[:3])
			}
		}
		return "(" + strings.Join(names, ",") + ")"
	default:
		return ""
	}
}
