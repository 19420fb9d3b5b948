package log

// Logger receives protocol events. Implementations must be safe for
// concurrent use and must not block the caller for long.
type Logger interface {
	Log(event Event)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(event Event)

// Log calls f(event).
func (f LoggerFunc) Log(event Event) { f(event) }

// NoopLogger discards all events. The zero value is ready to use.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

var (
	_ Logger = NoopLogger{}
	_ Logger = LoggerFunc(nil)
)
