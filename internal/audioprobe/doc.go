// Package audioprobe measures narration audio with ffprobe.
//
// Inspect decodes ffprobe's JSON report for a file on disk; Prober.Duration
// spools an in-memory payload to a temporary file first so synthesized audio
// can be measured before playback starts.
package audioprobe
