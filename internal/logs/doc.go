// Package logs reads back the speechsync log file.
//
// It prints the last N lines with bounded memory usage and can keep polling
// for appended lines, which powers `speechsync logs --follow`. An optional
// substring filter narrows output to a single player or correlation id.
// Callers supply a context so polling shuts down cleanly when the CLI exits.
package logs
