// Package service coordinates task and checklist persistence with
// reminder scheduling, keeping the cancel-before-schedule invariant in one
// place.
package service

import (
	"context"
	"fmt"

	"lockin/internal/alarm"
	"lockin/internal/backup"
	"lockin/internal/planner"
	"lockin/internal/prefs"
)

// Tasks orchestrates task mutations. Every mutation releases the task's
// existing alarm slots before any new registration, so a task never holds
// more than one live set of alarms.
type Tasks struct {
	repo   planner.TaskRepository
	lists  planner.ChecklistRepository
	alarms *alarm.Scheduler
	prefs  *prefs.Store
}

// NewTasks wires the task service.
func NewTasks(repo planner.TaskRepository, lists planner.ChecklistRepository, alarms *alarm.Scheduler, p *prefs.Store) *Tasks {
	return &Tasks{repo: repo, lists: lists, alarms: alarms, prefs: p}
}

// Save upserts a task and replaces its reminder registrations. Schedule
// itself cancels first, so an update whose gates are now closed still
// clears the old slots.
func (s *Tasks) Save(ctx context.Context, t *planner.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpsertTask(ctx, t); err != nil {
		return err
	}
	s.alarms.Schedule(t, s.prefs.Current())
	return nil
}

// Delete cancels the task's alarms and removes it from the store.
func (s *Tasks) Delete(ctx context.Context, id int64) error {
	s.alarms.Cancel(id)
	return s.repo.DeleteTask(ctx, id)
}

// DeleteAll removes every task, cancelling all alarms first so no deleted
// task leaves a dangling registration.
func (s *Tasks) DeleteAll(ctx context.Context) error {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		s.alarms.Cancel(t.ID)
	}
	return s.repo.DeleteAllTasks(ctx)
}

// DeletePastSingle removes one-off tasks that ended before the cutoff and
// cancels their alarms. Returns how many tasks were removed.
func (s *Tasks) DeletePastSingle(ctx context.Context, beforeUTCMillis int64) (int, error) {
	removed, err := s.repo.DeletePastSingleTasks(ctx, beforeUTCMillis)
	if err != nil {
		return 0, err
	}
	for _, t := range removed {
		s.alarms.Cancel(t.ID)
	}
	return len(removed), nil
}

// RescheduleAll re-registers reminders for every stored task, as after a
// restart of the alarm facility.
func (s *Tasks) RescheduleAll(ctx context.Context) error {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return err
	}
	s.alarms.RescheduleAll(tasks, s.prefs.Current())
	return nil
}

// ImportData persists an already-validated backup. Validation happened
// fully before this point, so a rejected file never reaches the store.
func (s *Tasks) ImportData(ctx context.Context, data backup.Data) error {
	for _, t := range data.Tasks {
		if err := s.Save(ctx, t); err != nil {
			return fmt.Errorf("importing task %q: %w", t.Name, err)
		}
	}
	for _, c := range data.Checklists {
		cl := c.Checklist
		if err := s.lists.UpsertChecklist(ctx, &cl); err != nil {
			return fmt.Errorf("importing checklist %q: %w", cl.Name, err)
		}
		if err := s.lists.UpsertObjectives(ctx, c.Objectives); err != nil {
			return fmt.Errorf("importing checklist %q items: %w", cl.Name, err)
		}
	}
	return nil
}

// ExportData snapshots the store for a backup.
func (s *Tasks) ExportData(ctx context.Context) (backup.Data, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return backup.Data{}, err
	}
	checklists, err := s.lists.ListChecklists(ctx)
	if err != nil {
		return backup.Data{}, err
	}
	return backup.Data{Tasks: tasks, Checklists: checklists}, nil
}
