package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lockin/internal/planner"
)

// UpsertChecklist inserts or replaces a checklist row.
func (s *Store) UpsertChecklist(ctx context.Context, c *planner.Checklist) error {
	if c.Name == "" {
		return planner.ErrEmptyChecklistName
	}
	query := `
		INSERT INTO checklists (id, name, is_completed, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			is_completed = excluded.is_completed,
			created_at = excluded.created_at
	`
	if _, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.Completed, c.CreatedAt.UnixMilli()); err != nil {
		return fmt.Errorf("upserting checklist: %w", err)
	}
	s.notifyChecklists(ctx)
	return nil
}

// UpsertObjectives inserts or replaces objective rows in one transaction.
func (s *Store) UpsertObjectives(ctx context.Context, objectives []planner.Objective) error {
	if len(objectives) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO objectives (id, checklist_id, text, is_completed, ord)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			checklist_id = excluded.checklist_id,
			text = excluded.text,
			is_completed = excluded.is_completed,
			ord = excluded.ord
	`
	for _, o := range objectives {
		if _, err := tx.ExecContext(ctx, query, o.ID, o.ChecklistID, o.Text, o.Completed, o.Order); err != nil {
			return fmt.Errorf("upserting objective: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing objectives: %w", err)
	}
	s.notifyChecklists(ctx)
	return nil
}

// GetChecklist returns a checklist with its objectives, nil when absent.
func (s *Store) GetChecklist(ctx context.Context, id string) (*planner.ChecklistWithObjectives, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, is_completed, created_at FROM checklists WHERE id = ?`, id)
	c, err := scanChecklist(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying checklist: %w", err)
	}
	objectives, err := s.objectivesFor(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &planner.ChecklistWithObjectives{Checklist: *c, Objectives: objectives}, nil
}

// ListChecklists returns every checklist with objectives, manually
// completed ones last, newest first within each group.
func (s *Store) ListChecklists(ctx context.Context) ([]planner.ChecklistWithObjectives, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, is_completed, created_at FROM checklists ORDER BY is_completed ASC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying checklists: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []planner.ChecklistWithObjectives
	for rows.Next() {
		c, err := scanChecklist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, planner.ChecklistWithObjectives{Checklist: *c})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		objectives, err := s.objectivesFor(ctx, out[i].Checklist.ID)
		if err != nil {
			return nil, err
		}
		out[i].Objectives = objectives
	}
	return out, nil
}

// DeleteChecklist removes a checklist; objectives cascade.
func (s *Store) DeleteChecklist(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM checklists WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting checklist: %w", err)
	}
	s.notifyChecklists(ctx)
	return nil
}

// DeleteObjectivesFor removes every objective of a checklist.
func (s *Store) DeleteObjectivesFor(ctx context.Context, checklistID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM objectives WHERE checklist_id = ?`, checklistID); err != nil {
		return fmt.Errorf("deleting objectives: %w", err)
	}
	s.notifyChecklists(ctx)
	return nil
}

// DeleteAllChecklists removes every checklist and, by cascade, objective.
func (s *Store) DeleteAllChecklists(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM checklists`); err != nil {
		return fmt.Errorf("deleting checklists: %w", err)
	}
	s.notifyChecklists(ctx)
	return nil
}

func (s *Store) objectivesFor(ctx context.Context, checklistID string) ([]planner.Objective, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, checklist_id, text, is_completed, ord FROM objectives WHERE checklist_id = ? ORDER BY ord, id`, checklistID)
	if err != nil {
		return nil, fmt.Errorf("querying objectives: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var objectives []planner.Objective
	for rows.Next() {
		var o planner.Objective
		if err := rows.Scan(&o.ID, &o.ChecklistID, &o.Text, &o.Completed, &o.Order); err != nil {
			return nil, err
		}
		objectives = append(objectives, o)
	}
	return objectives, rows.Err()
}

func scanChecklist(row rowScanner) (*planner.Checklist, error) {
	var (
		c         planner.Checklist
		createdAt int64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Completed, &createdAt); err != nil {
		return nil, err
	}
	c.CreatedAt = time.UnixMilli(createdAt)
	return &c, nil
}
