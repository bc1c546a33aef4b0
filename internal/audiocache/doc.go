// Package audiocache persists synthesized narration audio in SQLite so repeat
// plays of the same report skip the narration service.
//
// Entries are keyed by a SHA-256 digest of the title and commentary text and
// evicted least-recently-used once the configured entry limit is exceeded.
// Synthesizer wraps any narration source with read-through caching.
package audiocache
