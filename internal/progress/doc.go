// Package progress maps a playback position onto the narration timeline.
//
// Map resolves which section is being read and how far through its body the
// narrator is. Locate refines that fraction to a sentence and word inside the
// section content using the same weighted-proportion rule as the timeline, so
// highlight rendering stays consistent with section boundaries.
package progress
