package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerDeliversEvents(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	first := m.ScheduleAfter(10*time.Millisecond, StatusCheckTimeout)
	second := m.ScheduleAfter(20*time.Millisecond, ConnectTimeout)
	assert.NotEqual(t, first, second)
	assert.Greater(t, second, first)

	select {
	case ev := <-m.Events():
		assert.Equal(t, first, ev.ID)
		assert.Equal(t, StatusCheckTimeout, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	select {
	case ev := <-m.Events():
		assert.Equal(t, second, ev.ID)
		assert.Equal(t, ConnectTimeout, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	assert.Zero(t, m.Pending())
}

func TestManagerStop(t *testing.T) {
	m := NewManager()
	m.ScheduleAfter(10*time.Millisecond, ChannelSwitch)
	assert.Equal(t, 1, m.Pending())

	m.Stop()
	m.Stop()
	assert.Zero(t, m.Pending())

	id := m.ScheduleAfter(time.Millisecond, ChannelSwitch)
	assert.NotZero(t, id)

	select {
	case ev := <-m.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFakeAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	a := f.ScheduleAfter(2*time.Second, ConnectTimeout)
	b := f.ScheduleAfter(time.Second, StatusCheckTimeout)
	c := f.ScheduleAfter(time.Second, ChannelSwitch)

	assert.Empty(t, f.Advance(500*time.Millisecond))

	due := f.Advance(500 * time.Millisecond)
	require.Len(t, due, 2)
	assert.Equal(t, b, due[0].ID)
	assert.Equal(t, c, due[1].ID)
	assert.Equal(t, start.Add(time.Second), f.Now())

	latest, ok := f.Latest(ConnectTimeout)
	require.True(t, ok)
	assert.Equal(t, a, latest.ID)

	taken, ok := f.Take(ConnectTimeout)
	require.True(t, ok)
	assert.Equal(t, a, taken.ID)
	assert.Empty(t, f.Pending())

	_, ok = f.Take(ConnectTimeout)
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "STATUS_CHECK_TIMEOUT", StatusCheckTimeout.String())
	assert.Equal(t, "UNKNOWN", Kind(0).String())
}
