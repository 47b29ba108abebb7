package db

import "fmt"

// migrate runs database migrations.
func (s *Store) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS tasks (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			name           TEXT NOT NULL,
			description    TEXT,
			color          INTEGER NOT NULL DEFAULT 0,
			is_theme_color INTEGER NOT NULL DEFAULT 0,
			repeat         TEXT NOT NULL CHECK(repeat IN ('Single', 'Daily', 'Custom')),
			weekday_mask   INTEGER,
			is_floating    INTEGER NOT NULL,
			start_time     INTEGER NOT NULL,
			end_time       INTEGER NOT NULL,
			reminders      TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_start_time ON tasks(start_time);
		CREATE INDEX IF NOT EXISTS idx_tasks_end_time ON tasks(end_time);
		CREATE INDEX IF NOT EXISTS idx_tasks_repeat ON tasks(repeat);

		CREATE TABLE IF NOT EXISTS checklists (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			is_completed INTEGER NOT NULL DEFAULT 0,
			created_at   INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS objectives (
			id           TEXT PRIMARY KEY,
			checklist_id TEXT NOT NULL REFERENCES checklists(id) ON DELETE CASCADE,
			text         TEXT NOT NULL,
			is_completed INTEGER NOT NULL DEFAULT 0,
			ord          INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_objectives_checklist ON objectives(checklist_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
