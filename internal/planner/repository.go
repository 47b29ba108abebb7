package planner

import "context"

// TaskRepository defines the storage interface for tasks. Watch streams
// re-emit the full snapshot after every write; projection code is pure and
// re-derives its output from each emission.
type TaskRepository interface {
	// UpsertTask inserts or replaces a task keyed by ID, assigning a fresh
	// ID when the task carries zero.
	UpsertTask(ctx context.Context, t *Task) error

	// GetTask retrieves a task by ID, nil when absent.
	GetTask(ctx context.Context, id int64) (*Task, error)

	// DeleteTask removes a task by ID.
	DeleteTask(ctx context.Context, id int64) error

	// DeleteAllTasks removes every task.
	DeleteAllTasks(ctx context.Context) error

	// DeletePastSingleTasks removes Single tasks whose absolute end instant
	// is before the cutoff, returning the removed tasks so callers can
	// release their reminder slots.
	DeletePastSingleTasks(ctx context.Context, beforeUTCMillis int64) ([]*Task, error)

	// ListTasks returns every task.
	ListTasks(ctx context.Context) ([]*Task, error)

	// TasksForWindow returns fixed tasks overlapping the UTC window plus
	// all floating tasks; weekday filtering beyond that is OccursOn's job.
	TasksForWindow(ctx context.Context, startUTCMillis, endUTCMillis int64) ([]*Task, error)

	// SearchTasks matches the query against name and description.
	SearchTasks(ctx context.Context, query string) ([]*Task, error)

	// WatchTasks emits the current task set and again after every write,
	// until ctx is cancelled.
	WatchTasks(ctx context.Context) <-chan []*Task

	// Close releases any resources held by the repository.
	Close() error
}

// ChecklistRepository defines the storage interface for checklists and
// their objectives. Deleting a checklist cascades to its objectives.
type ChecklistRepository interface {
	UpsertChecklist(ctx context.Context, c *Checklist) error
	UpsertObjectives(ctx context.Context, objectives []Objective) error

	GetChecklist(ctx context.Context, id string) (*ChecklistWithObjectives, error)
	ListChecklists(ctx context.Context) ([]ChecklistWithObjectives, error)

	DeleteChecklist(ctx context.Context, id string) error
	DeleteObjectivesFor(ctx context.Context, checklistID string) error
	DeleteAllChecklists(ctx context.Context) error

	// WatchChecklists emits the current checklist set and again after
	// every write, until ctx is cancelled.
	WatchChecklists(ctx context.Context) <-chan []ChecklistWithObjectives
}
