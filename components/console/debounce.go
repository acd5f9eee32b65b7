package console

import (
	"sync"
	"time"
)

// DefaultSearchDebounce is the delay applied to free-text search refetches.
// Categorical filter changes bypass the debouncer entirely.
const DefaultSearchDebounce = 500 * time.Millisecond

// Debouncer coalesces rapid triggers into a single trailing call. The last
// function passed to Trigger wins.
type Debouncer struct {
	Interval time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// Trigger schedules fn after the interval, replacing any pending call.
func (d *Debouncer) Trigger(fn func()) {
	interval := d.Interval
	if interval <= 0 {
		interval = DefaultSearchDebounce
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(interval, fn)
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
