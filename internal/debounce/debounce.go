// Package debounce coalesces rapid input into a single settled value.
//
// The debouncer does not own a timer. Each Push returns a Ticket; the caller
// schedules its own wake-up (a tea.Tick in the UI) and hands the ticket back
// to Settle. Only the newest ticket can settle, so a burst of input produces
// one settled value: the last one.
package debounce

import "time"

// Ticket identifies one generation of pending input
type Ticket uint64

// Debouncer holds the pending and settled values. It is not safe for
// concurrent use; the UI touches it only from Update.
type Debouncer[T comparable] struct {
	delay      time.Duration
	settled    T
	pending    T
	generation Ticket
	hasPending bool
	stopped    bool
}

// New creates a debouncer whose settled value starts at initial
func New[T comparable](initial T, delay time.Duration) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{
		delay:   delay,
		settled: initial,
		pending: initial,
	}
}

// Push records v as the pending input and returns the ticket for it.
// Any previously issued ticket is superseded.
func (d *Debouncer[T]) Push(v T) Ticket {
	d.generation++
	d.pending = v
	d.hasPending = !d.stopped
	return d.generation
}

// Settle commits the pending value if t is still the newest ticket.
// It reports the settled value and whether a transition happened.
func (d *Debouncer[T]) Settle(t Ticket) (T, bool) {
	if d.stopped || !d.hasPending || t != d.generation {
		return d.settled, false
	}
	d.hasPending = false
	d.settled = d.pending
	return d.settled, true
}

// Stop invalidates every outstanding ticket. Later pushes never settle.
func (d *Debouncer[T]) Stop() {
	d.stopped = true
	d.hasPending = false
}

// Value returns the last settled value
func (d *Debouncer[T]) Value() T {
	return d.settled
}

// Delay returns the quiet period callers should wait before settling
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Pending reports whether an input is waiting to settle
func (d *Debouncer[T]) Pending() bool {
	return d.hasPending
}
