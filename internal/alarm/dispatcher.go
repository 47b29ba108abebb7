package alarm

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type slotEntry struct {
	when    int64
	payload Payload
}

// Dispatcher is an in-process Facility: it keeps registered slots in
// memory and fires due ones from a once-a-minute poll loop. It stands in
// for an OS alarm service on platforms that have one.
type Dispatcher struct {
	notify func(Payload)

	mu      sync.Mutex
	slots   map[int64]slotEntry
	cron    *cron.Cron
	started bool
	now     func() time.Time
}

// NewDispatcher creates a dispatcher delivering fired payloads to notify.
func NewDispatcher(notify func(Payload)) *Dispatcher {
	return &Dispatcher{
		notify: notify,
		slots:  make(map[int64]slotEntry),
		now:    time.Now,
	}
}

// Start begins the poll loop. Registering before Start fails with
// ErrUnavailable, mirroring a facility without scheduling permission.
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc("@every 1m", d.fireDue); err != nil {
		return err
	}
	c.Start()
	d.cron = c
	d.started = true
	return nil
}

// Stop halts the poll loop; pending registrations are kept.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cron != nil {
		d.cron.Stop()
	}
	d.started = false
}

// Register implements Facility.
func (d *Dispatcher) Register(slot int64, triggerUTCMillis int64, p Payload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		return ErrUnavailable
	}
	d.slots[slot] = slotEntry{when: triggerUTCMillis, payload: p}
	return nil
}

// Cancel implements Facility; cancelling an unknown slot is a no-op.
func (d *Dispatcher) Cancel(slot int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.slots, slot)
}

// fireDue delivers and removes every slot whose trigger has passed.
func (d *Dispatcher) fireDue() {
	now := d.now().UnixMilli()

	d.mu.Lock()
	var due []Payload
	for slot, e := range d.slots {
		if e.when <= now {
			due = append(due, e.payload)
			delete(d.slots, slot)
		}
	}
	d.mu.Unlock()

	for _, p := range due {
		d.notify(p)
	}
}
