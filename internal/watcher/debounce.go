package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is how long the watcher waits for writes to
// settle before reporting a change.
const DefaultDebounceDuration = 200 * time.Millisecond

// Debouncer coalesces bursts of triggers into a single call
type Debouncer struct {
	duration time.Duration
	mu       sync.Mutex
	timer    *time.Timer
}

// NewDebouncer creates a debouncer waiting d after the last trigger
func NewDebouncer(d time.Duration) *Debouncer {
	return &Debouncer{duration: d}
}

// Trigger schedules fn, replacing a call that is still pending
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops a pending call
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
