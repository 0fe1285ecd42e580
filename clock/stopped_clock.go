package clock

import (
	"sync"
	"time"
)

// StoppedClock is a Clock whose time doesn't move by itself.  Sleep returns
// immediately, advancing the time by the given duration, and records the
// duration so that a test can check how long the code under test waited.
type StoppedClock struct {
	mutex  sync.Mutex
	time   time.Time
	sleeps []time.Duration
}

var _ Clock = (*StoppedClock)(nil) // Ensure that StoppedClock implements Clock.

// NewStoppedClock creates a StoppedClock.
func NewStoppedClock(year int, month time.Month, day, hour, minute, second, nanosecond int, location *time.Location) *StoppedClock {
	time := time.Date(year, month, day, hour, minute, second, nanosecond, location)
	return &StoppedClock{time: time}
}

// SetTime sets a new unchanging time.
func (c *StoppedClock) SetTime(time time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.time = time
}

// Advance moves the time on by d.
func (c *StoppedClock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.time = c.time.Add(d)
}

// Now returns the current setting.
func (c *StoppedClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.time
}

// Sleep advances the time by d without waiting.
func (c *StoppedClock) Sleep(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.time = c.time.Add(d)
}

// Sleeps returns the durations passed to Sleep so far.
func (c *StoppedClock) Sleeps() []time.Duration {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}
