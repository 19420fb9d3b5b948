package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/wlanstack/mlme-go/pkg/log"
)

// RunExport exports the log file to the specified format. An empty output
// path writes to stdout.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for event, err := range reader.All() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

var csvHeader = []string{"timestamp", "attempt_id", "direction", "layer", "category", "bssid", "type", "code"}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for event, err := range reader.All() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		eventType, code := event.Kind(), ""
		switch {
		case event.Message != nil:
			if event.Message.Status != nil {
				code = strconv.Itoa(int(*event.Message.Status))
			} else if event.Message.Reason != nil {
				code = strconv.Itoa(int(*event.Message.Reason))
			}
		case event.StateChange != nil:
			eventType = "state:" + event.StateChange.NewState
		case event.Timer != nil:
			eventType = "timer:" + event.Timer.Kind
		case eventType == "":
			eventType = "unknown"
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.AttemptID,
			event.Direction.String(),
			event.Layer.String(),
			event.Category.String(),
			event.BSSID,
			eventType,
			code,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
