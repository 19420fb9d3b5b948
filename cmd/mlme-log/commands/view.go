// Package commands implements the mlme-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/wlanstack/mlme-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer     *log.Layer
	Direction *log.Direction
	Category  *log.Category
	AttemptID string
	Kind      string
}

func (f ViewFilter) matches(e log.Event) bool {
	if f.Layer != nil && e.Layer != *f.Layer {
		return false
	}
	if f.Direction != nil && e.Direction != *f.Direction {
		return false
	}
	if f.Category != nil && e.Category != *f.Category {
		return false
	}
	if f.AttemptID != "" && !strings.HasPrefix(e.AttemptID, f.AttemptID) {
		return false
	}
	if f.Kind != "" && !strings.EqualFold(e.Kind(), f.Kind) {
		return false
	}
	return true
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [attempt:id] DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	attempt := shortenID(event.AttemptID)
	if attempt == "" {
		attempt = "-"
	}

	typeLabel := event.Kind()
	switch {
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Timer != nil:
		typeLabel = "Timer"
	case event.Frame != nil && typeLabel == "":
		typeLabel = "Frame"
	case typeLabel == "":
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [attempt:%s] %-3s %s %s\n", ts, attempt, event.Direction.String(), event.Layer.String(), typeLabel)
	if event.BSSID != "" {
		fmt.Fprintf(w, "  BSSID: %s\n", event.BSSID)
	}

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Message != nil:
		formatMessageDetails(w, event.Message)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Timer != nil:
		formatTimerDetails(w, event.Timer)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenID returns the first 8 characters of an attempt ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes", frame.Size)
	if frame.RSSIDbm != 0 {
		fmt.Fprintf(w, "  RSSI: %d dBm", frame.RSSIDbm)
	}
	fmt.Fprintln(w)
	if frame.Dropped != "" {
		fmt.Fprintf(w, "  Dropped: %s\n", frame.Dropped)
	}
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatMessageDetails(w io.Writer, msg *log.MessageEvent) {
	if msg.Status != nil {
		fmt.Fprintf(w, "  Status: %d\n", *msg.Status)
	}
	if msg.Reason != nil {
		fmt.Fprintf(w, "  Reason: %d\n", *msg.Reason)
	}
	if len(msg.Payload) > 0 {
		fmt.Fprintf(w, "  Payload: %d bytes\n", len(msg.Payload))
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatTimerDetails(w io.Writer, te *log.TimerEvent) {
	fmt.Fprintf(w, "  Kind: %s  ID: %d", te.Kind, te.ID)
	if te.Stale {
		fmt.Fprint(w, " (stale)")
	}
	fmt.Fprintln(w)
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// filterEvents returns events matching the filter criteria.
func filterEvents(events []log.Event, filter ViewFilter) []log.Event {
	var result []log.Event
	for _, e := range events {
		if filter.matches(e) {
			result = append(result, e)
		}
	}
	return result
}

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	return parseLayer(s)
}

func parseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "mac":
		return log.LayerMAC, nil
	case "mlme":
		return log.LayerMLME, nil
	case "station":
		return log.LayerStation, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be mac, mlme, or station)", s)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	return parseDirection(s)
}

func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "frame":
		return log.CategoryFrame, nil
	case "message":
		return log.CategoryMessage, nil
	case "state":
		return log.CategoryState, nil
	case "timer":
		return log.CategoryTimer, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be frame, message, state, timer, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for event, err := range reader.All() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if filter.matches(event) {
			formatEvent(output, event)
		}
	}

	return nil
}
