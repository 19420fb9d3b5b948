// Command mlme-sim runs a station MLME against a simulated access point.
//
// Without -scenario the station is started in real time: a dispatcher
// owns the client, a reference SME keeps it connected and the simulated
// AP answers its frames and sends beacons. An interactive console allows
// poking both sides.
//
// Usage:
//
//	mlme-sim [flags]
//
// Flags:
//
//	-config string        Client configuration file (YAML)
//	-ap string            Simulated AP configuration file (YAML)
//	-scenario string      Run a scenario file or directory and exit
//	-protocol-log string  Write protocol events to this .mlog file
//	-iface string         Use the address of this wireless interface
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-interactive          Enable the interactive console (default true)
//	-beacons              Send beacons every beacon period (default true)
//
// Examples:
//
//	# Interactive session with protocol capture
//	mlme-sim -protocol-log session.mlog
//
//	# Run the scenario suite
//	mlme-sim -scenario internal/scenario/testdata
//
//	# Pose as the local wlan0 interface
//	mlme-sim -iface wlan0 -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wlanstack/mlme-go/cmd/mlme-sim/interactive"
	"github.com/wlanstack/mlme-go/pkg/client"
	mlog "github.com/wlanstack/mlme-go/pkg/log"
)

// Config holds the command configuration.
type Config struct {
	ConfigFile  string
	APFile      string
	Scenario    string
	ProtocolLog string
	Iface       string
	LogLevel    string
	Interactive bool
	Beacons     bool
}

var config Config

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Client configuration file (YAML)")
	flag.StringVar(&config.APFile, "ap", "", "Simulated AP configuration file (YAML)")
	flag.StringVar(&config.Scenario, "scenario", "", "Run a scenario file or directory and exit")
	flag.StringVar(&config.ProtocolLog, "protocol-log", "", "Write protocol events to this .mlog file")
	flag.StringVar(&config.Iface, "iface", "", "Use the address of this wireless interface")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&config.Interactive, "interactive", true, "Enable the interactive console")
	flag.BoolVar(&config.Beacons, "beacons", true, "Send beacons every beacon period")
}

func main() {
	flag.Parse()
	setupLogging(config.LogLevel)
	logger := newLogger(config.LogLevel)

	var plog mlog.Logger
	closeLog := func() {}
	if config.ProtocolLog != "" {
		fl, err := mlog.NewFileLogger(config.ProtocolLog)
		if err != nil {
			log.Fatalf("Failed to open protocol log: %v", err)
		}
		closeLog = func() {
			if err := fl.Close(); err != nil {
				log.Printf("Failed to close protocol log: %v", err)
			}
		}
		defer closeLog()
		plog = fl
		if logger != nil {
			plog = mlog.NewMultiLogger(fl, mlog.NewSlogAdapter(logger))
		}
		log.Printf("Protocol log: %s", config.ProtocolLog)
	}

	if config.Scenario != "" {
		code := runScenarios(config.Scenario, logger, plog)
		closeLog()
		os.Exit(code)
	}

	clientCfg := client.DefaultConfig()
	if config.ConfigFile != "" {
		var err error
		if clientCfg, err = client.LoadConfig(config.ConfigFile); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	}
	clientCfg.Logger = logger
	clientCfg.ProtocolLogger = plog

	apCfg, err := loadAPConfig(config.APFile)
	if err != nil {
		log.Fatalf("Invalid AP configuration: %v", err)
	}
	apCfg.Logger = logger

	iface := defaultIface
	if config.Iface != "" {
		if iface, err = lookupIface(config.Iface); err != nil {
			log.Fatalf("Failed to read interface %s: %v", config.Iface, err)
		}
	}

	log.Println("MLME Simulator")
	log.Println("==============")
	log.Printf("Station: %s", iface)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := newWorld(clientCfg, apCfg, iface, logger)
	log.Printf("BSS: %s %q on channel %s", w.ap.BSSID(), apCfg.SSID, w.ap.Channel())
	w.start(ctx, config.Beacons)

	if config.Interactive {
		console, err := interactive.New(w.deps())
		if err != nil {
			log.Fatalf("Failed to create console: %v", err)
		}
		log.SetOutput(console.Stdout())
		go console.Run(ctx, cancel)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	cancel()
	w.wait()
	log.Println("Goodbye!")
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

// newLogger returns the library logger for level, or nil when library
// output is not wanted.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "info":
		return nil
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "unknown log level %q\n", level)
		os.Exit(2)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
