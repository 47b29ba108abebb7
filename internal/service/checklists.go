package service

import (
	"context"
	"fmt"

	"lockin/internal/planner"
)

// Checklists orchestrates checklist mutations.
type Checklists struct {
	repo planner.ChecklistRepository
}

// NewChecklists wires the checklist service.
func NewChecklists(repo planner.ChecklistRepository) *Checklists {
	return &Checklists{repo: repo}
}

// Create inserts a checklist with the given objective texts, ranked in
// input order.
func (s *Checklists) Create(ctx context.Context, name string, objectiveTexts []string) (*planner.Checklist, error) {
	c, err := planner.NewChecklist(name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpsertChecklist(ctx, c); err != nil {
		return nil, err
	}
	var objectives []planner.Objective
	for i, text := range objectiveTexts {
		o, err := planner.NewObjective(c.ID, text, i)
		if err != nil {
			return nil, err
		}
		objectives = append(objectives, *o)
	}
	if err := s.repo.UpsertObjectives(ctx, objectives); err != nil {
		return nil, err
	}
	return c, nil
}

// ToggleObjective flips an objective's completion state.
func (s *Checklists) ToggleObjective(ctx context.Context, checklistID, objectiveID string) error {
	c, err := s.repo.GetChecklist(ctx, checklistID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("checklist %s not found", checklistID)
	}
	for _, o := range c.Objectives {
		if o.ID == objectiveID {
			o.Completed = !o.Completed
			return s.repo.UpsertObjectives(ctx, []planner.Objective{o})
		}
	}
	return fmt.Errorf("objective %s not found", objectiveID)
}

// MoveObjective shifts an incomplete objective one rank up or down. Rank
// changes only ever touch the incomplete subset; completed rows keep their
// stored order.
func (s *Checklists) MoveObjective(ctx context.Context, checklistID, objectiveID string, up bool) error {
	c, err := s.repo.GetChecklist(ctx, checklistID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("checklist %s not found", checklistID)
	}
	updated, moved := planner.ReorderIncomplete(c.Objectives, objectiveID, up)
	if !moved {
		return nil
	}
	return s.repo.UpsertObjectives(ctx, updated)
}

// Restore re-inserts a deleted checklist with its objectives, the undo
// path of a delete.
func (s *Checklists) Restore(ctx context.Context, c planner.ChecklistWithObjectives) error {
	cl := c.Checklist
	if err := s.repo.UpsertChecklist(ctx, &cl); err != nil {
		return err
	}
	return s.repo.UpsertObjectives(ctx, c.Objectives)
}
