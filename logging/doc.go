// Package logging provides a minimal logging interface and adapters for ragstream.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the decoder, dispatcher, runner and upload scheduler use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping an existing *slog.Logger
//   - ClientLogger with contextual helpers (component, session, turn)
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	r := runner.New(source, func(o *runner.Options) { o.Logger = logger })
//
// Arguments after the message are slog-style key/value pairs.
package logging
