package db

import (
	"context"
	"testing"
	"time"

	"lockin/internal/planner"
)

func seedChecklist(t *testing.T, store *Store, name string, createdAt time.Time, completed bool, items ...string) *planner.Checklist {
	t.Helper()
	ctx := context.Background()

	c, err := planner.NewChecklist(name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.CreatedAt = createdAt
	c.Completed = completed
	if err := store.UpsertChecklist(ctx, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var objectives []planner.Objective
	for i, text := range items {
		o, err := planner.NewObjective(c.ID, text, i)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		objectives = append(objectives, *o)
	}
	if err := store.UpsertObjectives(ctx, objectives); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestGetChecklist(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := seedChecklist(t, store, "Groceries", time.Now(), false, "Milk", "Bread", "Eggs")

	got, err := store.GetChecklist(ctx, c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("checklist not found")
	}
	if got.Checklist.Name != "Groceries" {
		t.Errorf("got name %q", got.Checklist.Name)
	}
	if len(got.Objectives) != 3 {
		t.Fatalf("got %d objectives, want 3", len(got.Objectives))
	}
	for i, want := range []string{"Milk", "Bread", "Eggs"} {
		if got.Objectives[i].Text != want {
			t.Errorf("objective %d: got %q, want %q", i, got.Objectives[i].Text, want)
		}
	}
}

func TestGetChecklist_Missing(t *testing.T) {
	store := newTestStore(t)
	got, err := store.GetChecklist(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestListChecklists_Order(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedChecklist(t, store, "old open", base, false)
	seedChecklist(t, store, "new open", base.Add(48*time.Hour), false)
	seedChecklist(t, store, "done", base.Add(24*time.Hour), true)

	got, err := store.ListChecklists(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d checklists, want 3", len(got))
	}
	// Open lists first, newest first; completed sink to the end.
	wantNames := []string{"new open", "old open", "done"}
	for i, want := range wantNames {
		if got[i].Checklist.Name != want {
			t.Errorf("position %d: got %q, want %q", i, got[i].Checklist.Name, want)
		}
	}
}

func TestDeleteChecklist_Cascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := seedChecklist(t, store, "Groceries", time.Now(), false, "Milk", "Bread")
	other := seedChecklist(t, store, "Packing", time.Now(), false, "Passport")

	if err := store.DeleteChecklist(ctx, c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetChecklist(ctx, c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("checklist still present after delete")
	}

	// The unrelated checklist keeps its objectives.
	kept, err := store.GetChecklist(ctx, other.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kept == nil || len(kept.Objectives) != 1 {
		t.Error("cascade delete must not touch other checklists")
	}
}

func TestUpsertObjectives_TogglePersists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := seedChecklist(t, store, "Groceries", time.Now(), false, "Milk")
	got, err := store.GetChecklist(ctx, c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o := got.Objectives[0]
	o.Completed = true
	if err := store.UpsertObjectives(ctx, []planner.Objective{o}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again, err := store.GetChecklist(ctx, c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.Objectives[0].Completed {
		t.Error("toggle did not persist")
	}
	if len(again.Objectives) != 1 {
		t.Errorf("got %d objectives, want 1 (upsert, not insert)", len(again.Objectives))
	}
}

func TestWatchChecklists(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := store.WatchChecklists(ctx)
	<-ch // initial snapshot

	seedChecklist(t, store, "Groceries", time.Now(), false, "Milk")

	select {
	case snap := <-ch:
		if len(snap) != 1 {
			t.Errorf("got %d checklists, want 1", len(snap))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no update after write")
	}
}
