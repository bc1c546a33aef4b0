// Package timeline distributes a measured narration duration across the
// commentary sections.
//
// Text-to-speech responses carry no timestamps, so section boundaries are
// inferred from speech weights: every weight unit is worth the same slice of
// the real audio duration. Build produces the absolute start, content start and
// end of each section; Memo caches the result until its inputs change.
package timeline
