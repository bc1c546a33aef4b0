// Package logging assembles structured slog loggers and formatting helpers used
// across speechsync components.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so playback code automatically
// tags log lines with player and correlation IDs. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
