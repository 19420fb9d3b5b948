package timer

import (
	"sort"
	"time"
)

// Fake is a manually advanced Scheduler for tests.
type Fake struct {
	now     time.Time
	nextID  ID
	pending []Event
}

var _ Scheduler = (*Fake)(nil)

// NewFake creates a fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// ScheduleAfter records a timer.
func (f *Fake) ScheduleAfter(d time.Duration, kind Kind) ID {
	f.nextID++
	f.pending = append(f.pending, Event{ID: f.nextID, Kind: kind, Deadline: f.now.Add(d)})
	return f.nextID
}

// Now returns the fake time.
func (f *Fake) Now() time.Time {
	return f.now
}

// Advance moves the clock forward and returns the timers that became due,
// ordered by deadline then ID. Returned timers are no longer pending.
func (f *Fake) Advance(d time.Duration) []Event {
	f.now = f.now.Add(d)

	var due, rest []Event
	for _, ev := range f.pending {
		if !ev.Deadline.After(f.now) {
			due = append(due, ev)
		} else {
			rest = append(rest, ev)
		}
	}
	f.pending = rest
	sort.Slice(due, func(i, j int) bool {
		if due[i].Deadline.Equal(due[j].Deadline) {
			return due[i].ID < due[j].ID
		}
		return due[i].Deadline.Before(due[j].Deadline)
	})
	return due
}

// Pending returns the timers that have not fired yet.
func (f *Fake) Pending() []Event {
	return append([]Event(nil), f.pending...)
}

// Latest returns the most recently scheduled pending timer of kind.
func (f *Fake) Latest(kind Kind) (Event, bool) {
	for i := len(f.pending) - 1; i >= 0; i-- {
		if f.pending[i].Kind == kind {
			return f.pending[i], true
		}
	}
	return Event{}, false
}

// Take removes and returns the most recently scheduled pending timer of
// kind without moving the clock.
func (f *Fake) Take(kind Kind) (Event, bool) {
	for i := len(f.pending) - 1; i >= 0; i-- {
		if f.pending[i].Kind == kind {
			ev := f.pending[i]
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			return ev, true
		}
	}
	return Event{}, false
}
