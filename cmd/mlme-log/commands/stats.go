package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/wlanstack/mlme-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	FramesByType      map[string]int
	DroppedFrames     int
	StaleTimers       int
	Attempts          map[string]*AttemptStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// AttemptStats holds statistics for a single connect attempt.
type AttemptStats struct {
	FirstSeen  time.Time
	LastSeen   time.Time
	Events     int
	BSSID      string
	FinalState string
	Result     string
}

func newStats() *Stats {
	return &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		FramesByType:      make(map[string]int),
		Attempts:          make(map[string]*AttemptStats),
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	switch {
	case event.Frame != nil:
		s.FramesByType[event.Frame.Type]++
		if event.Frame.Dropped != "" {
			s.DroppedFrames++
		}
	case event.Timer != nil:
		if event.Timer.Stale {
			s.StaleTimers++
		}
	case event.Error != nil:
		s.Errors++
	}

	if event.AttemptID == "" {
		return
	}
	a, ok := s.Attempts[event.AttemptID]
	if !ok {
		a = &AttemptStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Attempts[event.AttemptID] = a
	}
	a.Events++
	if event.Timestamp.After(a.LastSeen) {
		a.LastSeen = event.Timestamp
	}
	if a.BSSID == "" {
		a.BSSID = event.BSSID
	}
	if event.StateChange != nil {
		a.FinalState = event.StateChange.NewState
	}
	if event.Message != nil && event.Message.Kind == "CONNECT_CONFIRM" && event.Message.Status != nil {
		a.Result = fmt.Sprintf("status %d", *event.Message.Status)
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for event, err := range reader.All() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== MLME Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerMAC, log.LayerMLME, log.LayerStation} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryFrame, log.CategoryMessage, log.CategoryState, log.CategoryTimer, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}

	if len(stats.FramesByType) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Frames by Type:")
		types := make([]string, 0, len(stats.FramesByType))
		for t := range stats.FramesByType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(w, "  %-22s %d\n", t+":", stats.FramesByType[t])
		}
		if stats.DroppedFrames > 0 {
			fmt.Fprintf(w, "  Dropped: %d\n", stats.DroppedFrames)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Connect Attempts: %d\n", len(stats.Attempts))
	if len(stats.Attempts) > 0 {
		type attemptInfo struct {
			id    string
			stats *AttemptStats
		}
		attempts := make([]attemptInfo, 0, len(stats.Attempts))
		for id, as := range stats.Attempts {
			attempts = append(attempts, attemptInfo{id, as})
		}
		sort.Slice(attempts, func(i, j int) bool {
			return attempts[i].stats.FirstSeen.Before(attempts[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, a := range attempts {
			duration := a.stats.LastSeen.Sub(a.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(a.id), a.stats.Events, duration)
			if a.stats.BSSID != "" {
				fmt.Fprintf(w, "           BSSID: %s\n", a.stats.BSSID)
			}
			if a.stats.Result != "" {
				fmt.Fprintf(w, "           Connect: %s\n", a.stats.Result)
			}
			if a.stats.FinalState != "" {
				fmt.Fprintf(w, "           State: %s\n", a.stats.FinalState)
			}
		}
	}

	if stats.StaleTimers > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Stale Timers: %d\n", stats.StaleTimers)
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
