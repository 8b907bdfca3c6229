package common

import "time"

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Debouncer coalesces a burst of values into the last one, released once no new value has
// arrived for the configured delay. It is polled from the caller's loop rather than firing
// on a timer goroutine, so the released value is always handled on the polling thread.
// A zero delay releases every value on the next poll.
type Debouncer[T any] struct {
	delay   time.Duration
	pending bool
	value   T
	last    time.Time
}

// NewDebouncer creates a Debouncer with the given quiet period.
//
// Parameters:
//   - delay: how long the input must stay quiet before the last value is released
//
// Returns:
//   - *Debouncer[T]: the debouncer
func NewDebouncer[T any](delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{delay: delay}
}

// Push records a new value, restarting the quiet period.
//
// Parameters:
//   - v: the value
//   - now: the time the value arrived
func (d *Debouncer[T]) Push(v T, now time.Time) {
	d.value = v
	d.last = now
	d.pending = true
}

// Poll releases the pending value once the quiet period has elapsed.
//
// Parameters:
//   - now: the current time
//
// Returns:
//   - T: the last pushed value
//   - bool: true if a value was released
func (d *Debouncer[T]) Poll(now time.Time) (T, bool) {
	var zero T
	if !d.pending || now.Sub(d.last) < d.delay {
		return zero, false
	}
	d.pending = false
	return d.value, true
}

// Pending reports whether a value is waiting to be released.
func (d *Debouncer[T]) Pending() bool {
	return d.pending
}
