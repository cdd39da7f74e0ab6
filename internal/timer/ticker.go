// Package timer keeps a displayed elapsed-time counter current for the
// single running record.
package timer

import (
	"sync"
	"time"

	"github.com/tempo-tracker/tempo/internal/report"
	"github.com/tempo-tracker/tempo/internal/store"
)

// Ticker re-resolves the running record's elapsed seconds once per
// second and hands the value to a callback. It has two states: idle
// (no running record, no schedule) and ticking (one running record,
// one repeating callback). At most one repeating callback is ever
// alive; every transition out of ticking cancels the old schedule
// before anything else happens.
type Ticker struct {
	mu       sync.Mutex
	onTick   func(seconds int64)
	interval time.Duration
	now      func() time.Time

	record store.TimeRecord
	cancel chan struct{} // nil while idle
}

func New(onTick func(seconds int64)) *Ticker {
	return &Ticker{
		onTick:   onTick,
		interval: time.Second,
		now:      time.Now,
	}
}

// Sync reconciles the ticker with the store's view of the running
// record. A new running record starts the schedule, nil stops it and
// publishes a zero, and the same record persisting keeps the schedule
// but refreshes the copy the ticks resolve from, publishing right away
// when the record's timing fields changed underneath the schedule.
func (t *Ticker) Sync(running *store.TimeRecord) {
	t.mu.Lock()

	if running == nil {
		stopped := t.stopLocked()
		t.mu.Unlock()
		if stopped {
			t.onTick(0)
		}
		return
	}

	if t.cancel != nil && t.record.ID == running.ID {
		changed := !t.record.StartTime.Equal(running.StartTime) || t.record.Duration != running.Duration
		t.record = *running
		t.mu.Unlock()
		if changed {
			t.onTick(report.ResolveSeconds(*running, t.now()))
		}
		return
	}

	t.stopLocked()
	t.record = *running
	cancel := make(chan struct{})
	t.cancel = cancel
	rec := t.record
	t.mu.Unlock()

	t.onTick(report.ResolveSeconds(rec, t.now()))
	go t.loop(cancel)
}

// Stop cancels any active schedule without publishing. Call on
// teardown of the owning view.
func (t *Ticker) Stop() {
	t.mu.Lock()
	t.stopLocked()
	t.mu.Unlock()
}

// Active reports whether a repeating callback is scheduled.
func (t *Ticker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

func (t *Ticker) stopLocked() bool {
	if t.cancel == nil {
		return false
	}
	close(t.cancel)
	t.cancel = nil
	return true
}

// loop resolves from the ticker's current record on every tick rather
// than the copy the schedule started with, so edits to the running
// record show up on the next tick.
func (t *Ticker) loop(cancel chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			t.mu.Lock()
			rec := t.record
			t.mu.Unlock()
			t.onTick(report.ResolveSeconds(rec, t.now()))
		}
	}
}
