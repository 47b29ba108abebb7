package db

import (
	"context"

	"lockin/internal/planner"
)

// WatchTasks emits the current task set immediately and a fresh snapshot
// after every task write, until ctx is cancelled. Slow receivers only ever
// see the latest snapshot.
func (s *Store) WatchTasks(ctx context.Context) <-chan []*planner.Task {
	ch := make(chan []*planner.Task, 1)

	snapshot, err := s.ListTasks(ctx)
	if err == nil {
		ch <- snapshot
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.taskSubs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.taskSubs, id)
		s.mu.Unlock()
	}()
	return ch
}

// WatchChecklists mirrors WatchTasks for checklists.
func (s *Store) WatchChecklists(ctx context.Context) <-chan []planner.ChecklistWithObjectives {
	ch := make(chan []planner.ChecklistWithObjectives, 1)

	snapshot, err := s.ListChecklists(ctx)
	if err == nil {
		ch <- snapshot
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.checklistSubs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.checklistSubs, id)
		s.mu.Unlock()
	}()
	return ch
}

// notifyTasks pushes a fresh snapshot to every task watcher. A write that
// completed is observable by reads issued afterwards, so the snapshot is
// re-queried rather than diffed.
func (s *Store) notifyTasks(ctx context.Context) {
	s.mu.Lock()
	if len(s.taskSubs) == 0 {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	snapshot, err := s.ListTasks(ctx)
	if err != nil {
		return
	}

	s.mu.Lock()
	for _, ch := range s.taskSubs {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
	s.mu.Unlock()
}

func (s *Store) notifyChecklists(ctx context.Context) {
	s.mu.Lock()
	if len(s.checklistSubs) == 0 {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	snapshot, err := s.ListChecklists(ctx)
	if err != nil {
		return
	}

	s.mu.Lock()
	for _, ch := range s.checklistSubs {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
	s.mu.Unlock()
}
