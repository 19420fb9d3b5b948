// Package log provides structured protocol logging for the station MLME.
//
// This package defines the Logger interface and Event types for capturing
// protocol events: 802.11 frames, SME primitives, client state changes and
// timer firings. It is separate from operational logging (slog); protocol
// capture provides a complete machine-readable trace for debugging and
// analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/wlan/wlan0.mlog")
//
//	// Both: use MultiLogger
//	cfg.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files use CBOR encoding with .mlog extension. The mlme-log CLI tool
// provides viewing, filtering, and export capabilities.
package log
