// Package logging assembles the structured slog loggers used across teamnotify.
//
// It owns three handlers: a compact console format for local runs, JSON for
// log shipping, and a GitHub Actions handler that turns warnings and errors
// into workflow commands (::warning::, ::error::) so they surface as
// annotations on the run. Components obtain tagged loggers through
// NewComponentLogger; tests and wiring code use NewNop.
package logging
