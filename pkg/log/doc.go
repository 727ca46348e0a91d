// Package log provides structured discovery tracing for the SD client engine.
//
// This package defines the Logger interface and Event types for capturing
// engine events at multiple layers (instance, service, event group, remote
// node). It is separate from operational logging (slog) - the trace provides
// a complete machine-readable record of every entry sent or received and
// every state change, for debugging and analysis.
//
// # Basic Usage
//
// Applications configure tracing by providing a Logger implementation:
//
//	// For development: log to console via slog
//	opts.Trace = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	opts.Trace, _ = log.NewFileLogger("/var/log/sd/client.sdlog")
//
//	// Both: use MultiLogger
//	opts.Trace = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events carry one payload:
//   - Entries queued or received (MessageEvent)
//   - Service phase and event group state (StateChangeEvent)
//   - Control-plane requests (ControlEvent)
//   - Diagnostics (ErrorEventData)
//
// # File Format
//
// Trace files are a plain sequence of CBOR-encoded events. Reader streams
// them back, optionally through a Filter.
package log
