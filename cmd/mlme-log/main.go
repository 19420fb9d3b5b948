// Command mlme-log is a tool for viewing and analyzing station protocol log files.
//
// Log files are written by mlme-sim when it runs with the -protocol-log flag.
//
// Usage:
//
//	mlme-log <command> [flags] <file.mlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View only 802.11 frames
//	mlme-log view -layer mac station.mlog
//
//	# View every connect confirm
//	mlme-log view -kind CONNECT_CONFIRM station.mlog
//
//	# View one connect attempt
//	mlme-log view -attempt 5f0c1d2e station.mlog
//
//	# Export to CSV
//	mlme-log export -format csv -o station.csv station.mlog
//
//	# Keep only SME primitives
//	mlme-log filter -category message -o sme.mlog station.mlog
//
//	# Show statistics
//	mlme-log stats station.mlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wlanstack/mlme-go/cmd/mlme-log/commands"
)

const usage = `mlme-log - Station MLME Protocol Log Analyzer

Usage:
  mlme-log <command> [flags] <file.mlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "mlme-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// parseWithPath parses args and returns the single log file argument.
func parseWithPath(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func newFlagSet(name, title string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "mlme-log %s - %s\n\nUsage:\n  mlme-log %s [flags] <file.mlog>\n\nFlags:\n", name, title, name)
		fs.PrintDefaults()
	}
	return fs
}

func runView(args []string) {
	fs := newFlagSet("view", "View log file in human-readable format")
	layer := fs.String("layer", "", "Filter by layer (mac, mlme, station)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (frame, message, state, timer, error)")
	attempt := fs.String("attempt", "", "Filter by connect attempt ID prefix")
	kind := fs.String("kind", "", "Filter by frame type, primitive, state or timer (e.g. MgmtBeacon)")
	path := parseWithPath(fs, args)

	filter := commands.ViewFilter{AttemptID: *attempt, Kind: *kind}

	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			fail(err)
		}
		filter.Layer = &l
	}

	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			fail(err)
		}
		filter.Direction = &d
	}

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export log file to JSON or CSV format")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path := parseWithPath(fs, args)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter log file and write to new file")
	output := fs.String("o", "", "Output file (required)")
	attempt := fs.String("attempt", "", "Filter by connect attempt ID")
	bssid := fs.String("bssid", "", "Filter by BSSID")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	layer := fs.String("layer", "", "Filter by layer (mac, mlme, station)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (frame, message, state, timer, error)")
	kind := fs.String("kind", "", "Filter by frame type, primitive, state or timer")
	path := parseWithPath(fs, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, commands.FilterOptions{
		Output:    *output,
		AttemptID: *attempt,
		BSSID:     *bssid,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
		Layer:     *layer,
		Direction: *direction,
		Category:  *category,
		Kind:      *kind,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", n, *output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about the log file")
	path := parseWithPath(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
