// Package main hosts the speechsync CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes the narration timing engine from the
// terminal: segmenting commentary, laying out section timelines, locating the
// sentence and word under a playback position, synthesizing narration through
// the TTS service, and following a narration live with highlighted text. It
// centralizes configuration resolution, logger construction and audio cache
// wiring so subcommands can focus on output.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
