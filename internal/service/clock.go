package service

import "time"

// Clock supplies the current time. Injected so defaults like "today's date"
// are deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock used in production.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
