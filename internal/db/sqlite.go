// Package db provides SQLite storage for tasks and checklists.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"lockin/internal/planner"
)

// Store implements planner.TaskRepository and planner.ChecklistRepository
// over a single SQLite database.
type Store struct {
	db *sql.DB

	mu            sync.Mutex
	taskSubs      map[int]chan []*planner.Task
	checklistSubs map[int]chan []planner.ChecklistWithObjectives
	nextSub       int
}

// New opens (or creates) the database at path and runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Cascade deletes from checklists to objectives.
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:            db,
		taskSubs:      make(map[int]chan []*planner.Task),
		checklistSubs: make(map[int]chan []planner.ChecklistWithObjectives),
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

const taskColumns = `id, name, description, color, is_theme_color, repeat, weekday_mask, is_floating, start_time, end_time, reminders`

// UpsertTask inserts or replaces a task keyed by ID. A task with ID zero
// is inserted and receives its store-assigned identity.
func (s *Store) UpsertTask(ctx context.Context, t *planner.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}

	start, end := t.Schedule.Span()
	var description any
	if t.Description != "" {
		description = t.Description
	}
	var mask any
	if t.Repeat == planner.RepeatCustom {
		mask = int64(t.Weekdays)
	}

	if t.ID == 0 {
		query := `
			INSERT INTO tasks (name, description, color, is_theme_color, repeat, weekday_mask, is_floating, start_time, end_time, reminders)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		result, err := s.db.ExecContext(ctx, query,
			t.Name, description, t.Color, t.ThemeColor, string(t.Repeat), mask,
			t.Schedule.Floating(), start, end, encodeReminders(t.Reminders),
		)
		if err != nil {
			return fmt.Errorf("inserting task: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		t.ID = id
	} else {
		query := `
			INSERT INTO tasks (id, name, description, color, is_theme_color, repeat, weekday_mask, is_floating, start_time, end_time, reminders)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				description = excluded.description,
				color = excluded.color,
				is_theme_color = excluded.is_theme_color,
				repeat = excluded.repeat,
				weekday_mask = excluded.weekday_mask,
				is_floating = excluded.is_floating,
				start_time = excluded.start_time,
				end_time = excluded.end_time,
				reminders = excluded.reminders
		`
		if _, err := s.db.ExecContext(ctx, query,
			t.ID, t.Name, description, t.Color, t.ThemeColor, string(t.Repeat), mask,
			t.Schedule.Floating(), start, end, encodeReminders(t.Reminders),
		); err != nil {
			return fmt.Errorf("upserting task: %w", err)
		}
	}

	s.notifyTasks(ctx)
	return nil
}

// GetTask retrieves a task by ID. Returns nil when not found.
func (s *Store) GetTask(ctx context.Context, id int64) (*planner.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

// DeleteTask removes a task by ID.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	s.notifyTasks(ctx)
	return nil
}

// DeleteAllTasks removes every task.
func (s *Store) DeleteAllTasks(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("deleting tasks: %w", err)
	}
	s.notifyTasks(ctx)
	return nil
}

// DeletePastSingleTasks removes one-off tasks whose absolute end instant
// precedes the cutoff and returns them so the caller can cancel their
// reminder slots.
func (s *Store) DeletePastSingleTasks(ctx context.Context, beforeUTCMillis int64) ([]*planner.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE repeat = 'Single' AND is_floating = 0 AND end_time < ?`
	past, err := s.queryTasks(ctx, query, beforeUTCMillis)
	if err != nil {
		return nil, err
	}
	if len(past) == 0 {
		return nil, nil
	}

	del := `DELETE FROM tasks WHERE repeat = 'Single' AND is_floating = 0 AND end_time < ?`
	if _, err := s.db.ExecContext(ctx, del, beforeUTCMillis); err != nil {
		return nil, fmt.Errorf("deleting past tasks: %w", err)
	}
	s.notifyTasks(ctx)
	return past, nil
}

// ListTasks returns every task.
func (s *Store) ListTasks(ctx context.Context) ([]*planner.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
}

// TasksForWindow returns fixed tasks overlapping [start, end) plus all
// floating tasks. Weekday-mask filtering happens in the caller through
// OccursOn; Daily is always true and mask checks need the display
// timezone's weekday, which SQL does not know.
func (s *Store) TasksForWindow(ctx context.Context, startUTCMillis, endUTCMillis int64) ([]*planner.Task, error) {
	query := `
		SELECT ` + taskColumns + ` FROM tasks
		WHERE (is_floating = 0 AND start_time < ? AND end_time > ?)
		   OR (is_floating = 1)
		ORDER BY start_time
	`
	return s.queryTasks(ctx, query, endUTCMillis, startUTCMillis)
}

// SearchTasks matches the query against task names and descriptions.
func (s *Store) SearchTasks(ctx context.Context, query string) ([]*planner.Task, error) {
	pattern := "%" + query + "%"
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE name LIKE ? OR description LIKE ? ORDER BY id`
	return s.queryTasks(ctx, q, pattern, pattern)
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]*planner.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*planner.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*planner.Task, error) {
	var (
		t           planner.Task
		description sql.NullString
		repeat      string
		mask        sql.NullInt64
		floating    bool
		start, end  int64
		reminders   string
	)
	err := row.Scan(
		&t.ID, &t.Name, &description, &t.Color, &t.ThemeColor,
		&repeat, &mask, &floating, &start, &end, &reminders,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = description.String
	}
	t.Repeat = planner.Repeat(repeat)
	if mask.Valid {
		t.Weekdays = planner.WeekdayMask(mask.Int64)
	}
	t.Schedule = planner.RawSchedule(floating, start, end)
	t.Reminders = decodeReminders(reminders)
	return &t, nil
}

// encodeReminders joins minute offsets with semicolons, the same encoding
// the delimited backup format uses.
func encodeReminders(offsets []int) string {
	if len(offsets) == 0 {
		return ""
	}
	parts := make([]string, len(offsets))
	for i, o := range offsets {
		parts[i] = strconv.Itoa(o)
	}
	return strings.Join(parts, ";")
}

func decodeReminders(raw string) []int {
	if raw == "" {
		return nil
	}
	var offsets []int
	for _, part := range strings.Split(raw, ";") {
		o, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		offsets = append(offsets, o)
	}
	return offsets
}
