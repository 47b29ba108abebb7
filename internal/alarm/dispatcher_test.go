package alarm

import (
	"errors"
	"testing"
	"time"
)

func TestDispatcher_RegisterBeforeStart(t *testing.T) {
	d := NewDispatcher(func(Payload) {})
	err := d.Register(1, time.Now().UnixMilli(), Payload{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("got %v, want %v", err, ErrUnavailable)
	}
}

func TestDispatcher_FiresDueSlots(t *testing.T) {
	var fired []Payload
	d := NewDispatcher(func(p Payload) { fired = append(fired, p) })

	base := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return base }

	if err := d.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer d.Stop()

	if err := d.Register(1, base.Add(-time.Minute).UnixMilli(), Payload{TaskID: 1, Title: "due"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Register(2, base.Add(time.Hour).UnixMilli(), Payload{TaskID: 2, Title: "later"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d.fireDue()

	if len(fired) != 1 {
		t.Fatalf("got %d deliveries, want 1", len(fired))
	}
	if fired[0].TaskID != 1 {
		t.Errorf("got task %d, want 1", fired[0].TaskID)
	}

	// A fired slot never delivers twice.
	d.fireDue()
	if len(fired) != 1 {
		t.Errorf("got %d deliveries after refire, want 1", len(fired))
	}
}

func TestDispatcher_CancelUnknownSlot(t *testing.T) {
	d := NewDispatcher(func(Payload) {})
	d.Cancel(42) // must not panic
}

func TestDispatcher_CancelPreventsDelivery(t *testing.T) {
	var fired []Payload
	d := NewDispatcher(func(p Payload) { fired = append(fired, p) })

	base := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return base }

	if err := d.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer d.Stop()

	if err := d.Register(1, base.Add(-time.Minute).UnixMilli(), Payload{TaskID: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.Cancel(1)
	d.fireDue()

	if len(fired) != 0 {
		t.Errorf("got %d deliveries, want 0", len(fired))
	}
}
