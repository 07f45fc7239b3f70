package utils

import (
	"sync"
	"time"
)

// Clock is the wall-clock source. Every time it returns is in the facility
// timezone, so dates and minute-of-day values derived from it line up with
// stored slots.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return SystemClock{Location: loc}
}

func (c SystemClock) Now() time.Time {
	return time.Now().In(c.Location)
}

// ManualClock is a settable clock for tests and seed runs.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// MinuteOfDay returns the minutes elapsed since midnight, rounded up when t is
// not on a whole minute. It answers "has this start passed".
func MinuteOfDay(t time.Time) int {
	m := t.Hour()*60 + t.Minute()
	if t.Second() > 0 || t.Nanosecond() > 0 {
		m++
	}
	return m
}

// WholeMinuteOfDay returns the whole minutes elapsed since midnight. An
// interval ending at minute end is still running at t iff end > WholeMinuteOfDay(t).
func WholeMinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// At returns the wall-clock instant of minute on date in loc.
func At(date string, minute int, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minute, 0, 0, loc), nil
}
