package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see protocol events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("attempt_id", event.AttemptID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.BSSID != "" {
		attrs = append(attrs, slog.String("bssid", event.BSSID))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.String("frame_type", event.Frame.Type),
			slog.Int("frame_size", event.Frame.Size),
		)
		if event.Frame.Dropped != "" {
			attrs = append(attrs, slog.String("dropped", event.Frame.Dropped))
		}
	case event.Message != nil:
		attrs = append(attrs, slog.String("kind", event.Message.Kind))
		if event.Message.Status != nil {
			attrs = append(attrs, slog.Uint64("status", uint64(*event.Message.Status)))
		}
		if event.Message.Reason != nil {
			attrs = append(attrs, slog.Uint64("reason", uint64(*event.Message.Reason)))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Timer != nil:
		attrs = append(attrs,
			slog.String("timer", event.Timer.Kind),
			slog.Uint64("timer_id", event.Timer.ID),
			slog.Bool("stale", event.Timer.Stale),
		)
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
