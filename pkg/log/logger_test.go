package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	event := Event{
		Timestamp: time.Now(),
		AttemptID: "attempt-1",
		Direction: DirectionIn,
		Layer:     LayerMAC,
		Category:  CategoryFrame,
	}
	logger.Log(event)

	event.Frame = NewFrameEvent("MgmtBeacon", []byte{1, 2, 3})
	logger.Log(event)

	event.Frame = nil
	event.StateChange = &StateChangeEvent{OldState: "JOINED", NewState: "AUTHENTICATING"}
	logger.Log(event)

	event.StateChange = nil
	event.Error = &ErrorEventData{Message: "test error"}
	logger.Log(event)
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}

func TestLoggerFunc(t *testing.T) {
	var got []string
	var logger Logger = LoggerFunc(func(e Event) { got = append(got, e.AttemptID) })

	logger.Log(Event{AttemptID: "a"})
	logger.Log(Event{AttemptID: "b"})

	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("got %v, want [a b]", got)
	}
}
