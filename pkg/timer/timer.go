package timer

import (
	"sync"
	"time"
)

// ID identifies one scheduled timer. The zero ID is never issued.
type ID uint64

// Kind is the logical purpose of a timer.
type Kind uint8

const (
	// ConnectTimeout bounds a whole connect attempt.
	ConnectTimeout Kind = iota + 1

	// ReconnectTimeout bounds a reassociation triggered by the SME.
	ReconnectTimeout

	// StatusCheckTimeout drives link supervision while associated.
	StatusCheckTimeout

	// ChannelSwitch fires when an announced channel switch takes effect.
	ChannelSwitch
)

// String returns the timer kind name.
func (k Kind) String() string {
	switch k {
	case ConnectTimeout:
		return "CONNECT_TIMEOUT"
	case ReconnectTimeout:
		return "RECONNECT_TIMEOUT"
	case StatusCheckTimeout:
		return "STATUS_CHECK_TIMEOUT"
	case ChannelSwitch:
		return "CHANNEL_SWITCH"
	default:
		return "UNKNOWN"
	}
}

// Event is a fired timer.
type Event struct {
	ID       ID
	Kind     Kind
	Deadline time.Time
}

// Scheduler schedules timers and tells the time.
type Scheduler interface {
	// ScheduleAfter schedules a timer of the given kind and returns its ID.
	ScheduleAfter(d time.Duration, kind Kind) ID

	// Now returns the current time.
	Now() time.Time
}

// DefaultBufferSize is the event channel capacity of a Manager.
const DefaultBufferSize = 16

// Manager schedules real timers and delivers their expirations on a channel.
type Manager struct {
	mu sync.Mutex

	nextID ID
	timers map[ID]*time.Timer

	events chan Event
	done   chan struct{}
	closed bool
}

var _ Scheduler = (*Manager)(nil)

// NewManager creates a timer manager.
func NewManager() *Manager {
	return &Manager{
		timers: make(map[ID]*time.Timer),
		events: make(chan Event, DefaultBufferSize),
		done:   make(chan struct{}),
	}
}

// ScheduleAfter schedules a timer. After Stop the returned ID never fires.
func (m *Manager) ScheduleAfter(d time.Duration, kind Kind) ID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	if m.closed {
		return id
	}

	deadline := time.Now().Add(d)
	m.timers[id] = time.AfterFunc(d, func() {
		m.fire(Event{ID: id, Kind: kind, Deadline: deadline})
	})
	return id
}

// Now returns the wall-clock time.
func (m *Manager) Now() time.Time {
	return time.Now()
}

// Events returns the channel fired timers are delivered on.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// Pending returns the number of timers that have not fired yet.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Stop stops all pending timers. No events are delivered afterwards.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
	close(m.done)
}

func (m *Manager) fire(ev Event) {
	m.mu.Lock()
	if _, ok := m.timers[ev.ID]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.timers, ev.ID)
	m.mu.Unlock()

	// Deliver outside the lock
	select {
	case m.events <- ev:
	case <-m.done:
	}
}
