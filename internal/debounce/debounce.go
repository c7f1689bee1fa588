// Package debounce coalesces bursts of updates into a single delivery
// after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiescence window used for live typing
const DefaultDelay = 800 * time.Millisecond

// Debouncer delivers the latest pushed value once no further value has
// been pushed for the configured delay.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New creates a debouncer calling fn with each settled value. A
// non-positive delay selects DefaultDelay.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{
		delay: delay,
		fn:    fn,
	}
}

// Push replaces any pending value with v and restarts the window
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.stopTimerLocked()
	d.gen++
	gen := d.gen

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A Push or Cancel that raced with this timer wins
		if gen != d.gen || d.stopped {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.fn(v)
	})
}

// Cancel drops the pending value, if any
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopTimerLocked()
	d.gen++
}

// Stop cancels the pending value and ignores all later pushes
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopTimerLocked()
	d.gen++
	d.stopped = true
}

// Pending reports whether a value is waiting for the window to elapse
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Delay returns the quiescence window
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

func (d *Debouncer[T]) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
