package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lockin/internal/planner"
)

func (a *App) checklistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checklist",
		Aliases: []string{"cl"},
		Short:   "Manage checklists",
	}
	cmd.AddCommand(a.checklistListCmd())
	cmd.AddCommand(a.checklistAddCmd())
	cmd.AddCommand(a.checklistToggleCmd())
	cmd.AddCommand(a.checklistMoveCmd())
	cmd.AddCommand(a.checklistRemoveCmd())
	return cmd
}

func (a *App) checklistListCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all checklists",
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureStore(); err != nil {
				return err
			}
			lists, err := a.store.ListChecklists(context.Background())
			if err != nil {
				return fmt.Errorf("loading checklists: %w", err)
			}
			if len(lists) == 0 {
				fmt.Println("No checklists.")
				return nil
			}
			for _, c := range lists {
				printChecklist(c)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) checklistAddCmd() *cobra.Command {
	var items []string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			c, err := a.lists.Create(context.Background(), args[0], items)
			if err != nil {
				return fmt.Errorf("creating checklist: %w", err)
			}
			fmt.Printf("%s checklist %s: %s\n", formatStats("Created"), c.ID, c.Name)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&items, "item", "i", nil, "Initial items (repeatable)")
	return cmd
}

func (a *App) checklistToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <checklist-id> <item-id>",
		Short: "Toggle an item's completion",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			if err := a.lists.ToggleObjective(context.Background(), args[0], args[1]); err != nil {
				return fmt.Errorf("toggling item: %w", err)
			}
			return nil
		},
	}
}

func (a *App) checklistMoveCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "move <checklist-id> <item-id>",
		Short: "Move an open item up (or down with --down)",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			if err := a.lists.MoveObjective(context.Background(), args[0], args[1], !down); err != nil {
				return fmt.Errorf("moving item: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "Move the item down instead of up")
	return cmd
}

func (a *App) checklistRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <checklist-id>",
		Short: "Delete a checklist and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			if a.prefs.Current().ConfirmDeletion && !yes {
				return fmt.Errorf("deletion confirmation is enabled; pass --yes to proceed")
			}
			if err := a.store.DeleteChecklist(context.Background(), args[0]); err != nil {
				return fmt.Errorf("deleting checklist: %w", err)
			}
			fmt.Printf("%s checklist %s\n", formatStats("Deleted"), args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the deletion confirmation")
	return cmd
}

func printChecklist(c planner.ChecklistWithObjectives) {
	done := planner.EffectivelyComplete(c.Checklist, c.Objectives)
	mark := "[ ]"
	name := formatHeader(c.Checklist.Name)
	if done {
		mark = "[X]"
		name = formatMuted(c.Checklist.Name)
	}
	fmt.Printf("  %s %s  %s\n", mark, name, formatMuted(c.Checklist.ID))
	for _, o := range planner.SortedObjectives(c.Objectives) {
		item := "[ ]"
		text := o.Text
		if o.Completed {
			item = "[x]"
			text = formatMuted(o.Text)
		}
		fmt.Printf("      %s %s  %s\n", item, text, formatMuted(o.ID))
	}
}
