// Package log wraps [log/slog] with a Trace level, selectable text and
// JSON formats, optional colorized pretty printing, and functional-option
// configuration.
//
// The zero value [Logger] discards all messages, so library types can
// embed one unconditionally and let callers opt in. Package-level
// functions log through a default logger writing to standard error,
// reconfigurable with [Config].
package log
